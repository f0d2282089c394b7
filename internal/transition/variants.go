package transition

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/matjam/smoothslide/internal/shader"
)

const (
	NameFold             = "fold"
	NameFade             = "fade"
	NameZoomOut          = "zoom-out"
	NameZoomIn           = "zoom-in"
	NameRotateBottomLeft = "rotate-bottom-left"
	NameRotateTopLeft    = "rotate-top-left"
)

// Names lists every variant in a stable order.
var Names = []string{NameFold, NameFade, NameZoomOut, NameZoomIn, NameRotateBottomLeft, NameRotateTopLeft}

// Behind is the depth offset of the layer drawn under the animated one.
const Behind = 0.01

// Variant is one animation from the current slide to the incoming slide.
type Variant interface {
	Name() string
	Program() shader.Program
	// Uniforms lists the uniforms the variant sets besides texture0 and
	// mvp_matrix.
	Uniforms() []string
	// Reset puts the parameters back to their initial values.
	Reset()
	// Step advances the parameters by one tick.
	Step()
	Complete() bool
	Render(f *Frame)
	// State describes the parameters for diagnostics.
	State() string
}

// New returns the variant called name.
func New(name string, t Tuning) (Variant, error) {
	t = t.Normalize()
	switch name {
	case NameFold:
		return &fold{t: t}, nil
	case NameFade:
		return &fade{t: t}, nil
	case NameZoomOut:
		return &zoom{t: t}, nil
	case NameZoomIn:
		return &zoom{t: t, in: true}, nil
	case NameRotateBottomLeft:
		return &rotate{t: t, pivotY: -1}, nil
	case NameRotateTopLeft:
		return &rotate{t: t, pivotY: 1}, nil
	}
	return nil, fmt.Errorf("unknown transition %q", name)
}

// Select builds the variants called names, all of them when names is empty.
// Duplicates are dropped.
func Select(names []string, t Tuning) ([]Variant, error) {
	if len(names) == 0 {
		names = Names
	}
	seen := map[string]bool{}
	var out []Variant
	for _, n := range names {
		if seen[n] {
			continue
		}
		seen[n] = true
		v, err := New(n, t)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// fold curls the current slide away from the left edge, revealing the
// incoming slide underneath.
type fold struct {
	t     Tuning
	apex  float32
	theta float32
	angle float32
}

func (v *fold) Name() string            { return NameFold }
func (v *fold) Program() shader.Program { return shader.Fold }
func (v *fold) Uniforms() []string      { return []string{"a", "theta", "angle", "xLeft"} }

func (v *fold) Reset() {
	v.apex = -1
	v.theta = math.Pi / 2
	v.angle = 0
}

func (v *fold) Step() {
	v.apex -= v.t.FoldSlide
	if v.theta > v.t.FoldMinTheta {
		v.theta -= v.t.FoldBend
	} else if v.angle < math.Pi/2 {
		v.angle += v.t.FoldTurn
	}
}

func (v *fold) Complete() bool { return v.apex < v.t.FoldEnd }

func (v *fold) Render(f *Frame) {
	f.DepthTest(true)
	f.SetInt(shader.UniformTex0, 0)
	f.SetFloat("xLeft", -f.Aspect)

	f.Bind(0, f.Current)
	f.SetVec4("a", mgl32.Vec4{0, v.apex, 0, 1})
	f.SetFloat("theta", v.theta)
	f.SetFloat("angle", v.angle)
	f.Draw(f.Layer(0))

	// the incoming slide lies flat underneath
	f.Bind(0, f.Incoming)
	f.SetVec4("a", mgl32.Vec4{0, -1, 0, 1})
	f.SetFloat("theta", math.Pi/2)
	f.SetFloat("angle", 0)
	f.Draw(f.Layer(Behind))
}

func (v *fold) State() string {
	return fmt.Sprintf("a.y=%.2f theta=%.2f angle=%.2f", v.apex, v.theta, v.angle)
}

// fade cross-fades the two slides in a single pass.
type fade struct {
	t     Tuning
	alpha float32
}

func (v *fade) Name() string            { return NameFade }
func (v *fade) Program() shader.Program { return shader.Fade }
func (v *fade) Uniforms() []string      { return []string{"texture1", "alpha"} }
func (v *fade) Reset()                  { v.alpha = 1 }
func (v *fade) Step()                   { v.alpha -= v.t.FadeStep }
func (v *fade) Complete() bool          { return v.alpha < 0 }
func (v *fade) State() string           { return fmt.Sprintf("alpha=%.2f", v.alpha) }

func (v *fade) Render(f *Frame) {
	f.DepthTest(false)
	f.SetInt(shader.UniformTex0, 0)
	f.SetInt("texture1", 1)
	f.SetFloat("alpha", v.alpha)
	f.Bind(0, f.Current)
	f.Bind(1, f.Incoming)
	f.Draw(f.Layer(0))
}

// zoom shrinks the current slide away (out) or grows the incoming slide over
// it (in).
type zoom struct {
	t     Tuning
	in    bool
	scale float32
}

func (v *zoom) Name() string {
	if v.in {
		return NameZoomIn
	}
	return NameZoomOut
}

func (v *zoom) Program() shader.Program { return shader.Flat }
func (v *zoom) Uniforms() []string      { return nil }
func (v *zoom) Reset()                  { v.scale = 1 }
func (v *zoom) Step()                   { v.scale -= v.t.ZoomStep }
func (v *zoom) Complete() bool          { return v.scale <= 0 }
func (v *zoom) State() string           { return fmt.Sprintf("scale=%.2f", v.scale) }

func (v *zoom) Render(f *Frame) {
	f.DepthTest(true)
	f.SetInt(shader.UniformTex0, 0)

	if v.in {
		f.Bind(0, f.Current)
		f.Draw(f.Layer(Behind))
		s := 1 - v.scale
		f.Bind(0, f.Incoming)
		f.Draw(f.Layer(0).Mul4(mgl32.Scale3D(s, s, s)))
		return
	}

	s := max(v.scale, 0)
	f.Bind(0, f.Current)
	f.Draw(f.Layer(0).Mul4(mgl32.Scale3D(s, s, s)))
	f.Bind(0, f.Incoming)
	f.Draw(f.Layer(Behind))
}

// rotate swings the current slide out of view around its bottom-left or
// top-left corner.
type rotate struct {
	t       Tuning
	pivotY  float32
	degrees float32
}

func (v *rotate) Name() string {
	if v.pivotY > 0 {
		return NameRotateTopLeft
	}
	return NameRotateBottomLeft
}

func (v *rotate) Program() shader.Program { return shader.Flat }
func (v *rotate) Uniforms() []string      { return nil }
func (v *rotate) Reset()                  { v.degrees = 0 }
func (v *rotate) Step()                   { v.degrees += v.t.RotateStep }
func (v *rotate) Complete() bool          { return v.degrees > v.t.RotateEnd }
func (v *rotate) State() string           { return fmt.Sprintf("rotation=%.1f", v.degrees) }

func (v *rotate) Render(f *Frame) {
	f.DepthTest(true)
	f.SetInt(shader.UniformTex0, 0)

	model := f.Layer(0).
		Mul4(mgl32.Translate3D(-f.Aspect, v.pivotY, 0)).
		Mul4(mgl32.HomogRotate3DZ(-mgl32.DegToRad(v.degrees))).
		Mul4(mgl32.Translate3D(f.Aspect, -v.pivotY, 0))

	f.Bind(0, f.Current)
	f.Draw(model)
	f.Bind(0, f.Incoming)
	f.Draw(f.Layer(Behind))
}
