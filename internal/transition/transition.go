// Package transition animates the change from one slide to the next. Each
// round picks one of the enabled variants at random, steps its parameters
// once per tick and draws both slides with the variant's program.
package transition

import (
	"errors"
	"fmt"
	"image/color"
	"math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/matjam/smoothslide/internal/gles"
	"github.com/matjam/smoothslide/internal/render"
	"github.com/matjam/smoothslide/internal/shader"
)

// Picker chooses the variant of a round. *rand.Rand satisfies it.
type Picker interface {
	IntN(n int) int
}

// Textures is the slide texture pair.
type Textures interface {
	Advance() error
	Current() uint32
	Incoming() uint32
}

// Config selects the variants and how they are viewed.
type Config struct {
	Variants   []string
	Tuning     Tuning
	Distance   float32
	Background color.Color
	Picker     Picker
}

// Engine runs the transition rounds. It is driven from the control thread.
type Engine struct {
	gl       gles.Context
	shaders  *shader.Registry
	textures Textures
	logger   *log.Logger

	variants   []Variant
	picker     Picker
	background [4]float32
	frame      Frame

	active Variant
	ticks  int
}

func NewEngine(gl gles.Context, shaders *shader.Registry, textures Textures, cfg Config) (*Engine, error) {
	variants, err := Select(cfg.Variants, cfg.Tuning)
	if err != nil {
		return nil, err
	}
	if cfg.Picker == nil {
		cfg.Picker = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if cfg.Distance <= 2 {
		cfg.Distance = render.DefaultViewingDistance
	}
	if cfg.Background == nil {
		cfg.Background = color.White
	}

	e := &Engine{
		gl:       gl,
		shaders:  shaders,
		textures: textures,
		logger:   log.WithPrefix("transition"),
		variants: variants,
		picker:   cfg.Picker,
	}
	r, g, b, a := cfg.Background.RGBA()
	e.background = [4]float32{float32(r) / 0xffff, float32(g) / 0xffff, float32(b) / 0xffff, float32(a) / 0xffff}
	e.frame = Frame{gl: gl, Distance: cfg.Distance}
	return e, nil
}

// Setup prepares the viewport and projection for a screen size and the mesh
// the variants draw.
func (e *Engine) Setup(width, height int, mesh render.Mesh) {
	aspect := float32(width) / float32(height)
	e.gl.Viewport(0, 0, int32(width), int32(height))
	e.frame.mesh = mesh
	e.frame.Aspect = aspect
	e.frame.projection = render.Projection(aspect, e.frame.Distance)
}

// Active returns the variant of the current round, nil before Begin.
func (e *Engine) Active() Variant { return e.active }

// Ticks returns the number of steps taken in the current round.
func (e *Engine) Ticks() int { return e.ticks }

// Begin picks the variant for a new round, activates its program and resets
// its parameters.
func (e *Engine) Begin() error {
	if len(e.variants) == 0 {
		return errors.New("no transitions enabled")
	}
	v := e.variants[e.picker.IntN(len(e.variants))]

	loc, err := e.shaders.Locate(v.Program(), v.Uniforms())
	if err != nil {
		return err
	}
	e.gl.UseProgram(e.shaders.Program(v.Program()))
	e.frame.mesh.Bind(e.gl, loc.Position, loc.TexCoord)
	e.frame.loc = loc

	v.Reset()
	e.active = v
	e.ticks = 0
	e.logger.Debugf("round uses %s", v.Name())
	return nil
}

// StartRound promotes the incoming slide and begins a new round. When no
// slide is available nothing changes and the error is returned.
func (e *Engine) StartRound() error {
	if err := e.textures.Advance(); err != nil {
		return err
	}
	return e.Begin()
}

// MaxTicks ends a round that has not completed on its own.
const MaxTicks = 10000

// Step advances the active variant by one tick and reports whether the round
// is complete.
func (e *Engine) Step() bool {
	if e.active == nil {
		return false
	}
	e.active.Step()
	e.ticks++
	if e.active.Complete() {
		return true
	}
	if e.ticks >= MaxTicks {
		e.logger.Warnf("%s gave up after %d ticks (%s)", e.active.Name(), e.ticks, e.active.State())
		return true
	}
	return false
}

// Render draws the active variant. Before the first round it just clears the
// screen.
func (e *Engine) Render() {
	bg := e.background
	e.gl.ClearColor(bg[0], bg[1], bg[2], bg[3])
	e.gl.ClearDepthf(1)
	e.gl.Clear(gles.ColorBufferBit | gles.DepthBufferBit)
	if e.active == nil {
		return
	}
	e.frame.Current = e.textures.Current()
	e.frame.Incoming = e.textures.Incoming()
	e.active.Render(&e.frame)
}

// State describes the round for diagnostics.
func (e *Engine) State() string {
	if e.active == nil {
		return "idle"
	}
	return fmt.Sprintf("%s tick %d: %s", e.active.Name(), e.ticks, e.active.State())
}
