// Package render holds the geometry shared by every transition: a grid of
// quads covering the screen and the perspective projection it is viewed with.
package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/matjam/smoothslide/internal/gles"
)

// Grid resolution. The fold shader bends the grid, so it needs enough cells
// for the curl to look smooth.
const (
	GridColumns = 54
	GridRows    = 36
)

// Vertex layout: vec4 position followed by vec2 texture coordinate.
const (
	VertexFloats   = 6
	VertexStride   = VertexFloats * 4
	PositionOffset = 0
	TexCoordOffset = 4 * 4
)

// DefaultViewingDistance is the distance from the eye to the slide plane.
const DefaultViewingDistance = 20.0

// Mesh is the uploaded grid.
type Mesh struct {
	Buffer   uint32
	Vertices int32
}

// Grid builds the vertex data for a screen of the given aspect ratio. The
// slide spans [-aspect, aspect] horizontally and [-1, 1] vertically and every
// cell contributes four vertices to one long triangle strip.
func Grid(aspect float32) []float32 {
	data := make([]float32, 0, GridColumns*GridRows*4*VertexFloats)
	vertex := func(x, y float32) {
		data = append(data, x*aspect, y, 0, 1, 0.5*(x+1), 0.5*(y+1))
	}
	// computed from the index so the outer edges land exactly on ±1
	step := func(i, n int) float32 { return float32(2*i)/float32(n) - 1 }

	for i := 0; i < GridColumns; i++ {
		x0, x1 := step(i, GridColumns), step(i+1, GridColumns)
		for j := 0; j < GridRows; j++ {
			y0, y1 := step(j, GridRows), step(j+1, GridRows)
			vertex(x0, y0)
			vertex(x1, y0)
			vertex(x0, y1)
			vertex(x1, y1)
		}
	}
	return data
}

// Upload creates a vertex buffer holding the grid for the given aspect ratio.
func Upload(gl gles.Context, aspect float32) Mesh {
	data := Grid(aspect)
	buf := gl.GenBuffer()
	gl.BindBuffer(gles.ArrayBuffer, buf)
	gl.BufferData(gles.ArrayBuffer, data, gles.StaticDraw)
	return Mesh{Buffer: buf, Vertices: int32(len(data) / VertexFloats)}
}

// Bind points the position and texture coordinate attributes at the mesh.
func (m Mesh) Bind(gl gles.Context, position, texCoord int32) {
	gl.BindBuffer(gles.ArrayBuffer, m.Buffer)
	gl.VertexAttribPointer(uint32(position), 4, gles.Float, false, VertexStride, PositionOffset)
	gl.EnableVertexAttribArray(uint32(position))
	gl.VertexAttribPointer(uint32(texCoord), 2, gles.Float, false, VertexStride, TexCoordOffset)
	gl.EnableVertexAttribArray(uint32(texCoord))
}

// Draw issues the strip.
func (m Mesh) Draw(gl gles.Context) {
	gl.DrawArrays(gles.TriangleStrip, 0, m.Vertices)
}

// Projection returns a perspective projection in which a slide of height 2 at
// the given distance fills the screen vertically. The depth range is kept
// tight around the slide plane.
func Projection(aspect, distance float32) mgl32.Mat4 {
	if distance <= 2 {
		distance = DefaultViewingDistance
	}
	fovy := float32(2 * math.Atan(1/float64(distance)))
	return mgl32.Perspective(fovy, aspect, distance-2, distance+0.1)
}
