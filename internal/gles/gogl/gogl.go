// Package gogl implements gles.Context on top of the go-gl GLES2 bindings.
package gogl

import (
	"fmt"
	"strings"

	gl "github.com/go-gl/gl/v3.1/gles2"
	"github.com/matjam/smoothslide/internal/gles"
)

// Context forwards every call to the current GLES2 context of the calling
// OS thread.
type Context struct{}

var _ gles.Context = Context{}

func New() Context { return Context{} }

func (Context) Init() error {
	if err := gl.Init(); err != nil {
		return fmt.Errorf("gles2 init failed: %w", err)
	}
	return nil
}

func (Context) Viewport(x, y, width, height int32) { gl.Viewport(x, y, width, height) }
func (Context) ClearColor(r, g, b, a float32)      { gl.ClearColor(r, g, b, a) }
func (Context) ClearDepthf(d float32)              { gl.ClearDepthf(d) }
func (Context) Clear(mask uint32)                  { gl.Clear(mask) }
func (Context) Enable(capability uint32)           { gl.Enable(capability) }
func (Context) Disable(capability uint32)          { gl.Disable(capability) }
func (Context) DepthFunc(fn uint32)                { gl.DepthFunc(fn) }

func (Context) CreateShader(kind uint32) uint32 { return gl.CreateShader(kind) }

func (Context) ShaderSource(shader uint32, source string) {
	csources, free := gl.Strs(source + "\x00")
	defer free()
	gl.ShaderSource(shader, 1, csources, nil)
}

func (Context) CompileShader(shader uint32) { gl.CompileShader(shader) }

func (Context) GetShaderiv(shader uint32, pname uint32) int32 {
	var v int32
	gl.GetShaderiv(shader, pname, &v)
	return v
}

func (c Context) GetShaderInfoLog(shader uint32) string {
	n := c.GetShaderiv(shader, gl.INFO_LOG_LENGTH)
	if n <= 1 {
		return ""
	}
	buf := strings.Repeat("\x00", int(n+1))
	gl.GetShaderInfoLog(shader, n, nil, gl.Str(buf))
	return strings.TrimRight(buf, "\x00")
}

func (Context) DeleteShader(shader uint32) { gl.DeleteShader(shader) }

func (Context) CreateProgram() uint32               { return gl.CreateProgram() }
func (Context) AttachShader(program, shader uint32) { gl.AttachShader(program, shader) }
func (Context) LinkProgram(program uint32)          { gl.LinkProgram(program) }

func (Context) GetProgramiv(program uint32, pname uint32) int32 {
	var v int32
	gl.GetProgramiv(program, pname, &v)
	return v
}

func (c Context) GetProgramInfoLog(program uint32) string {
	n := c.GetProgramiv(program, gl.INFO_LOG_LENGTH)
	if n <= 1 {
		return ""
	}
	buf := strings.Repeat("\x00", int(n+1))
	gl.GetProgramInfoLog(program, n, nil, gl.Str(buf))
	return strings.TrimRight(buf, "\x00")
}

func (Context) DeleteProgram(program uint32) { gl.DeleteProgram(program) }
func (Context) UseProgram(program uint32)    { gl.UseProgram(program) }

func (Context) GetAttribLocation(program uint32, name string) int32 {
	return gl.GetAttribLocation(program, gl.Str(name+"\x00"))
}

func (Context) GetUniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (Context) GenBuffer() uint32 {
	var b uint32
	gl.GenBuffers(1, &b)
	return b
}

func (Context) BindBuffer(target, buffer uint32) { gl.BindBuffer(target, buffer) }

func (Context) BufferData(target uint32, data []float32, usage uint32) {
	if len(data) == 0 {
		gl.BufferData(target, 0, nil, usage)
		return
	}
	gl.BufferData(target, len(data)*4, gl.Ptr(data), usage)
}

func (Context) DeleteBuffer(buffer uint32) { gl.DeleteBuffers(1, &buffer) }

func (Context) VertexAttribPointer(index uint32, size int32, kind uint32, normalized bool, stride, offset int32) {
	gl.VertexAttribPointer(index, size, kind, normalized, stride, gl.PtrOffset(int(offset)))
}

func (Context) EnableVertexAttribArray(index uint32)       { gl.EnableVertexAttribArray(index) }
func (Context) DrawArrays(mode uint32, first, count int32) { gl.DrawArrays(mode, first, count) }

func (Context) GenTexture() uint32 {
	var t uint32
	gl.GenTextures(1, &t)
	return t
}

func (Context) ActiveTexture(unit uint32)                       { gl.ActiveTexture(unit) }
func (Context) BindTexture(target, texture uint32)              { gl.BindTexture(target, texture) }
func (Context) TexParameteri(target, pname uint32, param int32) { gl.TexParameteri(target, pname, param) }

func (Context) TexImage2D(target uint32, width, height int32, pixels []byte) {
	gl.TexImage2D(target, 0, gl.RGBA, width, height, 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
}

func (Context) DeleteTexture(texture uint32) { gl.DeleteTextures(1, &texture) }

func (Context) Uniform1i(location int32, v int32)   { gl.Uniform1i(location, v) }
func (Context) Uniform1f(location int32, v float32) { gl.Uniform1f(location, v) }

func (Context) Uniform4f(location int32, x, y, z, w float32) { gl.Uniform4f(location, x, y, z, w) }

func (Context) UniformMatrix4fv(location int32, m [16]float32) {
	gl.UniformMatrix4fv(location, 1, false, &m[0])
}
