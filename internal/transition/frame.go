package transition

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/matjam/smoothslide/internal/gles"
	"github.com/matjam/smoothslide/internal/render"
	"github.com/matjam/smoothslide/internal/shader"
)

// Frame is what a variant needs to draw one frame: the bound program's
// handles, the two slide textures and the view geometry.
type Frame struct {
	gl         gles.Context
	loc        shader.Locations
	mesh       render.Mesh
	projection mgl32.Mat4

	Aspect   float32
	Distance float32
	Current  uint32
	Incoming uint32
}

// DepthTest turns z-ordering of the layers on or off.
func (f *Frame) DepthTest(on bool) {
	if !on {
		f.gl.Disable(gles.DepthTest)
		return
	}
	f.gl.Enable(gles.DepthTest)
	f.gl.DepthFunc(gles.Lequal)
}

// Bind binds tex to a texture unit.
func (f *Frame) Bind(unit uint32, tex uint32) {
	f.gl.ActiveTexture(gles.Texture0 + unit)
	f.gl.BindTexture(gles.Texture2D, tex)
}

func (f *Frame) SetInt(name string, v int32) {
	f.gl.Uniform1i(f.loc.Uniform(name), v)
}

func (f *Frame) SetFloat(name string, v float32) {
	f.gl.Uniform1f(f.loc.Uniform(name), v)
}

func (f *Frame) SetVec4(name string, v mgl32.Vec4) {
	f.gl.Uniform4f(f.loc.Uniform(name), v[0], v[1], v[2], v[3])
}

// Layer is the model matrix of the slide plane pushed back by depth. The
// current slide sits at depth 0, the one behind it at a small offset.
func (f *Frame) Layer(depth float32) mgl32.Mat4 {
	return mgl32.Translate3D(0, 0, -f.Distance-depth)
}

// Draw draws the grid with the given model matrix.
func (f *Frame) Draw(model mgl32.Mat4) {
	f.gl.UniformMatrix4fv(f.loc.Uniform(shader.UniformMVP), [16]float32(f.projection.Mul4(model)))
	f.mesh.Draw(f.gl)
}
