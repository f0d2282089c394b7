package transition

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/matjam/smoothslide/internal/gles/glestest"
	"github.com/matjam/smoothslide/internal/render"
	"github.com/matjam/smoothslide/internal/shader"
)

type fixedPicker int

func (p fixedPicker) IntN(n int) int { return int(p) % n }

type pair struct {
	current, incoming uint32
	err               error
	advances          int
}

func (p *pair) Advance() error {
	if p.err != nil {
		return p.err
	}
	p.advances++
	p.current, p.incoming = p.incoming, p.incoming+100
	return nil
}

func (p *pair) Current() uint32  { return p.current }
func (p *pair) Incoming() uint32 { return p.incoming }

const (
	testWidth  = 800
	testHeight = 480
	testAspect = float32(testWidth) / float32(testHeight)
)

func newTestEngine(t *testing.T, variant string) (*Engine, *glestest.Recorder, *shader.Registry, *pair) {
	t.Helper()
	gl := glestest.New()
	reg := shader.NewRegistry(gl)
	if err := reg.Build(); err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	tex := &pair{current: 1001, incoming: 1002}
	var names []string
	if variant != "" {
		names = []string{variant}
	}
	e, err := NewEngine(gl, reg, tex, Config{Variants: names, Picker: fixedPicker(0)})
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	e.Setup(testWidth, testHeight, render.Upload(gl, testAspect))
	return e, gl, reg, tex
}

func TestBeginActivatesProgram(t *testing.T) {
	for i, name := range Names {
		t.Run(name, func(t *testing.T) {
			gl := glestest.New()
			reg := shader.NewRegistry(gl)
			if err := reg.Build(); err != nil {
				t.Fatal(err)
			}
			e, err := NewEngine(gl, reg, &pair{}, Config{Picker: fixedPicker(i)})
			if err != nil {
				t.Fatal(err)
			}
			e.Setup(testWidth, testHeight, render.Upload(gl, testAspect))

			if err := e.Begin(); err != nil {
				t.Fatalf("Begin() error = %v", err)
			}
			v := e.Active()
			if v.Name() != name {
				t.Errorf("active = %s, want %s", v.Name(), name)
			}
			if got, want := gl.CurrentProgram(), reg.Program(v.Program()); got != want {
				t.Errorf("program in use = %d, want %d", got, want)
			}
			if gl.Count("VertexAttribPointer") != 2 {
				t.Errorf("attributes bound %d times, want 2", gl.Count("VertexAttribPointer"))
			}
		})
	}
}

func TestBeginResetsParameters(t *testing.T) {
	e, _, _, _ := newTestEngine(t, NameFade)
	if err := e.Begin(); err != nil {
		t.Fatal(err)
	}
	initial := e.Active().State()
	for i := 0; i < 10; i++ {
		e.Step()
	}
	if e.Ticks() != 10 {
		t.Errorf("Ticks() = %d, want 10", e.Ticks())
	}

	if err := e.Begin(); err != nil {
		t.Fatal(err)
	}
	if e.Ticks() != 0 || e.Active().State() != initial {
		t.Errorf("after Begin: ticks %d state %q, want 0 %q", e.Ticks(), e.Active().State(), initial)
	}
}

func TestStepBeforeBegin(t *testing.T) {
	e, gl, _, _ := newTestEngine(t, "")
	if e.Step() {
		t.Error("Step() completed without an active round")
	}
	gl.Reset()
	e.Render()
	if len(gl.Draws) != 0 || gl.Count("Clear 0x") != 1 {
		t.Errorf("idle render: draws %d, calls %v", len(gl.Draws), gl.Calls)
	}
	if e.State() != "idle" {
		t.Errorf("State() = %q", e.State())
	}
}

// stuck never reports completion.
type stuck struct{ Variant }

func (stuck) Complete() bool { return false }

func TestStepGivesUpAfterMaxTicks(t *testing.T) {
	e, _, _, _ := newTestEngine(t, NameFade)
	if err := e.Begin(); err != nil {
		t.Fatal(err)
	}
	e.active = stuck{e.active}
	for i := 1; i < MaxTicks; i++ {
		if e.Step() {
			t.Fatalf("Step() completed after %d ticks", i)
		}
	}
	if !e.Step() {
		t.Errorf("Step() still running after %d ticks", e.Ticks())
	}
}

func TestStartRound(t *testing.T) {
	e, _, _, tex := newTestEngine(t, NameZoomIn)
	if err := e.Begin(); err != nil {
		t.Fatal(err)
	}
	for !e.Step() {
	}

	if err := e.StartRound(); err != nil {
		t.Fatalf("StartRound() error = %v", err)
	}
	if tex.advances != 1 || tex.current != 1002 {
		t.Errorf("advances %d current %d, want 1 and 1002", tex.advances, tex.current)
	}
	if e.Ticks() != 0 {
		t.Errorf("Ticks() = %d after StartRound", e.Ticks())
	}
}

func TestStartRoundWithoutSlides(t *testing.T) {
	e, _, _, tex := newTestEngine(t, NameFold)
	if err := e.Begin(); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		e.Step()
	}

	errGone := errors.New("no slides")
	tex.err = errGone
	if err := e.StartRound(); !errors.Is(err, errGone) {
		t.Fatalf("StartRound() error = %v, want %v", err, errGone)
	}
	if e.Ticks() != 5 {
		t.Errorf("round state changed on failed StartRound: ticks %d", e.Ticks())
	}
}

func TestBeginLocateFailure(t *testing.T) {
	gl := glestest.New()
	gl.Hide = map[string]bool{"xLeft": true}
	reg := shader.NewRegistry(gl)
	if err := reg.Build(); err != nil {
		t.Fatal(err)
	}
	e, err := NewEngine(gl, reg, &pair{}, Config{Variants: []string{NameFold}})
	if err != nil {
		t.Fatal(err)
	}
	var se *shader.Error
	if err := e.Begin(); !errors.As(err, &se) || se.Stage != "locate" {
		t.Fatalf("Begin() error = %v, want locate *shader.Error", err)
	}
	if e.Active() != nil {
		t.Error("variant activated despite missing uniform")
	}
}

func TestNewEngineUnknownVariant(t *testing.T) {
	gl := glestest.New()
	if _, err := NewEngine(gl, shader.NewRegistry(gl), &pair{}, Config{Variants: []string{"spin"}}); err == nil {
		t.Error("NewEngine accepted an unknown transition")
	}
}

func renderAfter(t *testing.T, variant string, steps int) (*Engine, *glestest.Recorder) {
	t.Helper()
	e, gl, _, _ := newTestEngine(t, variant)
	if err := e.Begin(); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < steps; i++ {
		e.Step()
	}
	gl.Reset()
	e.Render()
	return e, gl
}

func model(e *Engine, m mgl32.Mat4) mgl32.Mat4 { return e.frame.projection.Mul4(m) }

func matrixNear(got [16]float32, want mgl32.Mat4) bool {
	return mgl32.Mat4(got).ApproxEqualThreshold(want, 1e-4)
}

func TestRenderFold(t *testing.T) {
	_, gl := renderAfter(t, NameFold, 3)
	if len(gl.Draws) != 2 {
		t.Fatalf("%d draws, want 2", len(gl.Draws))
	}
	curl, flat := gl.Draws[0], gl.Draws[1]

	if !curl.Depth || !flat.Depth {
		t.Error("fold draws without depth test")
	}
	if curl.Texture[0] != 1001 || flat.Texture[0] != 1002 {
		t.Errorf("textures = %d, %d; want current then incoming", curl.Texture[0], flat.Texture[0])
	}
	if curl.Uniforms["theta"] >= math.Pi/2 || curl.Uniforms["a"] >= -1 {
		t.Errorf("curled layer uniforms not advanced: %v", curl.Uniforms)
	}
	if flat.Uniforms["theta"] != math.Pi/2 || flat.Uniforms["a"] != -1 || flat.Uniforms["angle"] != 0 {
		t.Errorf("flat layer uniforms = %v, want initial values", flat.Uniforms)
	}
	if !mgl32.FloatEqualThreshold(curl.Uniforms["xLeft"], -testAspect, 1e-6) {
		t.Errorf("xLeft = %v, want %v", curl.Uniforms["xLeft"], -testAspect)
	}
}

func TestRenderFade(t *testing.T) {
	e, gl := renderAfter(t, NameFade, 10)
	if len(gl.Draws) != 1 {
		t.Fatalf("%d draws, want 1", len(gl.Draws))
	}
	d := gl.Draws[0]
	if d.Depth {
		t.Error("fade draws with depth test")
	}
	if d.Texture[0] != 1001 || d.Texture[1] != 1002 {
		t.Errorf("units = %v, want 0:1001 1:1002", d.Texture)
	}
	if d.Uniforms["texture0"] != 0 || d.Uniforms["texture1"] != 1 {
		t.Errorf("sampler uniforms = %v", d.Uniforms)
	}
	if !mgl32.FloatEqualThreshold(d.Uniforms["alpha"], 0.8, 1e-4) {
		t.Errorf("alpha = %v, want 0.8", d.Uniforms["alpha"])
	}
	if !matrixNear(d.Matrix, model(e, mgl32.Translate3D(0, 0, -render.DefaultViewingDistance))) {
		t.Error("fade matrix is not the plain slide plane")
	}
}

func TestRenderZoom(t *testing.T) {
	const steps = 10
	s := float32(1 - 0.02*steps)
	front := mgl32.Translate3D(0, 0, -render.DefaultViewingDistance)
	back := mgl32.Translate3D(0, 0, -render.DefaultViewingDistance-Behind)

	t.Run(NameZoomOut, func(t *testing.T) {
		e, gl := renderAfter(t, NameZoomOut, steps)
		if len(gl.Draws) != 2 {
			t.Fatalf("%d draws, want 2", len(gl.Draws))
		}
		if gl.Draws[0].Texture[0] != 1001 || !matrixNear(gl.Draws[0].Matrix, model(e, front.Mul4(mgl32.Scale3D(s, s, s)))) {
			t.Error("current slide not shrunk in front")
		}
		if gl.Draws[1].Texture[0] != 1002 || !matrixNear(gl.Draws[1].Matrix, model(e, back)) {
			t.Error("incoming slide not flat behind")
		}
	})

	t.Run(NameZoomIn, func(t *testing.T) {
		e, gl := renderAfter(t, NameZoomIn, steps)
		if len(gl.Draws) != 2 {
			t.Fatalf("%d draws, want 2", len(gl.Draws))
		}
		if gl.Draws[0].Texture[0] != 1001 || !matrixNear(gl.Draws[0].Matrix, model(e, back)) {
			t.Error("current slide not flat behind")
		}
		g := 1 - s
		if gl.Draws[1].Texture[0] != 1002 || !matrixNear(gl.Draws[1].Matrix, model(e, front.Mul4(mgl32.Scale3D(g, g, g)))) {
			t.Error("incoming slide not growing in front")
		}
	})
}

func TestRenderRotatePivots(t *testing.T) {
	tests := []struct {
		name   string
		pivotY float32
	}{
		{NameRotateBottomLeft, -1},
		{NameRotateTopLeft, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, gl := renderAfter(t, tt.name, 20)
			if len(gl.Draws) != 2 {
				t.Fatalf("%d draws, want 2", len(gl.Draws))
			}
			rotated := mgl32.Mat4(gl.Draws[0].Matrix)
			flat := model(e, mgl32.Translate3D(0, 0, -render.DefaultViewingDistance))

			pivot := mgl32.Vec4{-testAspect, tt.pivotY, 0, 1}
			if !rotated.Mul4x1(pivot).ApproxEqualThreshold(flat.Mul4x1(pivot), 1e-4) {
				t.Error("pivot corner moved")
			}
			opposite := mgl32.Vec4{testAspect, -tt.pivotY, 0, 1}
			if rotated.Mul4x1(opposite).ApproxEqualThreshold(flat.Mul4x1(opposite), 1e-2) {
				t.Error("opposite corner did not move")
			}
			if gl.Draws[0].Texture[0] != 1001 || gl.Draws[1].Texture[0] != 1002 {
				t.Error("rotate draws the wrong textures")
			}
		})
	}
}
