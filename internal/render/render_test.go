package render

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/matjam/smoothslide/internal/gles/glestest"
)

func TestGrid(t *testing.T) {
	const aspect = 16.0 / 9.0
	data := Grid(aspect)

	if got, want := len(data), GridColumns*GridRows*4*VertexFloats; got != want {
		t.Fatalf("len = %d, want %d", got, want)
	}

	var minX, maxX, minY, maxY float32 = 10, -10, 10, -10
	for i := 0; i < len(data); i += VertexFloats {
		x, y, z, w := data[i], data[i+1], data[i+2], data[i+3]
		u, v := data[i+4], data[i+5]
		if z != 0 || w != 1 {
			t.Fatalf("vertex %d: z=%v w=%v", i/VertexFloats, z, w)
		}
		if u < 0 || u > 1 || v < 0 || v > 1 {
			t.Fatalf("vertex %d: texcoord (%v, %v) out of range", i/VertexFloats, u, v)
		}
		minX, maxX = min(minX, x), max(maxX, x)
		minY, maxY = min(minY, y), max(maxY, y)
	}

	if !mgl32.FloatEqualThreshold(minX, -aspect, 1e-5) || !mgl32.FloatEqualThreshold(maxX, aspect, 1e-5) {
		t.Errorf("x spans [%v, %v], want [%v, %v]", minX, maxX, -aspect, aspect)
	}
	if minY != -1 || maxY != 1 {
		t.Errorf("y spans [%v, %v], want [-1, 1]", minY, maxY)
	}

	// first cell: bottom-left corner maps to texcoord (0, 0)
	if data[4] != 0 || data[5] != 0 {
		t.Errorf("first texcoord = (%v, %v), want (0, 0)", data[4], data[5])
	}
}

func TestUpload(t *testing.T) {
	gl := glestest.New()
	m := Upload(gl, 1.5)

	if m.Vertices != GridColumns*GridRows*4 {
		t.Errorf("Vertices = %d, want %d", m.Vertices, GridColumns*GridRows*4)
	}
	if got := len(gl.Buffer(m.Buffer)); got != int(m.Vertices)*VertexFloats {
		t.Errorf("uploaded %d floats, want %d", got, int(m.Vertices)*VertexFloats)
	}
	if gl.LiveBuffers() != 1 {
		t.Errorf("LiveBuffers() = %d, want 1", gl.LiveBuffers())
	}

	m.Bind(gl, 0, 1)
	if gl.Count("VertexAttribPointer 0 4 24 0") != 1 || gl.Count("VertexAttribPointer 1 2 24 16") != 1 {
		t.Errorf("unexpected attribute setup: %v", gl.Calls)
	}

	m.Draw(gl)
	if len(gl.Draws) != 1 || gl.Draws[0].Count != m.Vertices {
		t.Errorf("draws = %+v", gl.Draws)
	}
}

func TestProjectionFillsScreen(t *testing.T) {
	const aspect, distance = 1.6, 20
	p := Projection(aspect, distance)

	corner := p.Mul4x1(mgl32.Vec4{aspect, 1, -distance, 1})
	ndc := corner.Vec3().Mul(1 / corner.W())
	if !mgl32.FloatEqualThreshold(ndc.X(), 1, 1e-4) || !mgl32.FloatEqualThreshold(ndc.Y(), 1, 1e-4) {
		t.Errorf("top-right corner projects to %v, want (1, 1)", ndc)
	}
	if ndc.Z() < -1 || ndc.Z() > 1 {
		t.Errorf("slide plane depth %v outside clip range", ndc.Z())
	}

	behind := p.Mul4x1(mgl32.Vec4{0, 0, -distance - 0.01, 1})
	if z := behind.Z() / behind.W(); z <= ndc.Z() || z > 1 {
		t.Errorf("layer behind the slide has depth %v, want in (%v, 1]", z, ndc.Z())
	}
}

func TestProjectionFallsBackOnShortDistance(t *testing.T) {
	if Projection(1, 1) != Projection(1, DefaultViewingDistance) {
		t.Error("short distance not replaced with the default")
	}
}
