// Package slideshow ties the display, slides, textures and transitions
// together and drives them from the control loop's timers.
package slideshow

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/jonboulle/clockwork"
	"github.com/matjam/smoothslide/internal/display"
	"github.com/matjam/smoothslide/internal/gles"
	"github.com/matjam/smoothslide/internal/input"
	"github.com/matjam/smoothslide/internal/render"
	"github.com/matjam/smoothslide/internal/scheduler"
	"github.com/matjam/smoothslide/internal/shader"
	"github.com/matjam/smoothslide/internal/slides"
	"github.com/matjam/smoothslide/internal/texture"
	"github.com/matjam/smoothslide/internal/transition"
)

// ErrRunning is returned by Start while the show is already running.
var ErrRunning = errors.New("slideshow already running")

// Options carries the platform pieces of the engine.
type Options struct {
	Platform display.Platform
	GL       gles.Context
	Clock    clockwork.Clock
	Decode   slides.DecodeFunc
	// Picker chooses the transition of each round; random when nil.
	Picker transition.Picker
}

// Engine owns all show state. Every method must run on the control loop.
type Engine struct {
	cfg     Config
	gl      gles.Context
	display *display.Manager
	source  *slides.Source
	input   *input.Bridge
	picker  transition.Picker
	logger  *log.Logger

	steady *scheduler.Timer
	update *scheduler.Timer
	poll   *scheduler.Timer

	shaders     *shader.Registry
	mesh        *render.Mesh
	textures    *texture.Pipeline
	transitions *transition.Engine

	listeners []Listener
	running   bool
	stalled   bool
	closing   bool
}

func New(cfg Config, loop *scheduler.Loop, opts Options) (*Engine, error) {
	cfg = cfg.withDefaults()
	if _, err := transition.Select(cfg.Transitions, cfg.Tuning); err != nil {
		return nil, err
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}

	e := &Engine{
		cfg:     cfg,
		gl:      opts.GL,
		display: display.NewManager(opts.Platform, opts.GL),
		source: slides.NewSource(slides.Options{
			Background: cfg.Background,
			Scale:      cfg.Scale,
			Decode:     opts.Decode,
		}),
		picker: opts.Picker,
		logger: log.WithPrefix("engine"),
	}
	e.source.OnChange = func(i int) { e.emit(SlideChanged{Slide: i}) }

	e.steady = scheduler.NewTimer(loop, opts.Clock, false, e.onSteady)
	e.update = scheduler.NewTimer(loop, opts.Clock, true, e.onUpdate)
	e.poll = scheduler.NewTimer(loop, opts.Clock, true, e.onPoll)

	if cfg.UseInput {
		e.input = input.NewBridge(cfg.Input)
		e.input.OnQuit = e.quit
		e.input.OnDiag = e.diagnostics
	}
	return e, nil
}

// Subscribe adds a listener. Call it before the loop runs or from the loop.
func (e *Engine) Subscribe(l Listener) {
	e.listeners = append(e.listeners, l)
}

func (e *Engine) emit(ev Event) {
	for _, l := range e.listeners {
		l(ev)
	}
}

// Running reports whether the show has been started.
func (e *Engine) Running() bool { return e.running }

// Directory is the configured slide directory.
func (e *Engine) Directory() string { return e.cfg.Dir }

// CurrentSlide returns the slide cursor.
func (e *Engine) CurrentSlide() int { return e.source.Cursor() }

// SetDirectory changes the slide directory and rescans it. An unreadable
// directory leaves an empty listing.
func (e *Engine) SetDirectory(dir string) {
	e.cfg.Dir = dir
	if err := e.source.Refresh(dir); err != nil {
		e.logger.Warnf("%v", err)
	}
}

// Start brings up the display and begins the show at index, or at the
// configured start index when index is nil. A missing slide directory is
// reported without starting anything.
func (e *Engine) Start(index *int) error {
	if e.running {
		return ErrRunning
	}
	e.closing = false

	if err := e.source.Refresh(e.cfg.Dir); err != nil {
		e.logger.Errorf("not starting: %v", err)
		return err
	}
	start := e.cfg.StartIndex
	if index != nil {
		start = *index
	}
	e.source.SetCursor(start)

	if err := e.display.Acquire(); err != nil {
		e.fail(err)
		return err
	}
	e.source.SetSize(e.display.Size())

	if e.source.Present() {
		if err := e.initPipeline(); err != nil {
			if !slides.IsRecoverable(err) {
				e.fail(err)
				return err
			}
			e.logger.Warnf("slides vanished during start: %v", err)
		}
	} else {
		e.logger.Infof("no slides in %s yet, waiting", e.cfg.Dir)
	}

	e.openInput()

	if e.transitions != nil {
		e.transitions.Render()
		if err := e.display.Present(); err != nil {
			e.fail(err)
			return err
		}
	}

	e.steady.Start(e.cfg.SteadyTime)
	e.running = true
	e.logger.Infof("slideshow started in %s at slide %d", e.cfg.Dir, start)
	return nil
}

// Stop halts the timers and releases every resource. Stopping a stopped
// show does nothing.
func (e *Engine) Stop() {
	e.steady.Stop()
	e.update.Stop()
	e.poll.Stop()

	if e.input != nil {
		e.input.Close()
	}
	// GL objects are registered as display cleanups
	e.display.Release()
	e.shaders = nil
	e.mesh = nil
	e.textures = nil
	e.transitions = nil
	e.stalled = false
	e.source.Clear()

	if e.running {
		e.logger.Info("slideshow stopped")
	}
	e.running = false
}

func (e *Engine) openInput() {
	if e.input == nil {
		return
	}
	if err := e.input.Open(); err != nil {
		e.logger.Warnf("continuing without keyboard control: %v", err)
	}
	if e.input.Opened() {
		e.poll.Start(e.cfg.InputPollTime)
	}
}

// initPipeline builds whatever GL state is still missing. Each part is
// registered with the display so Release deletes it.
func (e *Engine) initPipeline() error {
	width, height := e.display.Size()

	if e.shaders == nil {
		reg := shader.NewRegistry(e.gl)
		if err := reg.Build(); err != nil {
			return err
		}
		e.display.Defer("shaders", reg.Release)
		e.shaders = reg
	}

	if e.mesh == nil {
		mesh := render.Upload(e.gl, float32(width)/float32(height))
		e.display.Defer("vertex buffer", func() { e.gl.DeleteBuffer(mesh.Buffer) })
		e.mesh = &mesh
	}

	if e.textures == nil {
		textures := texture.NewPipeline(e.gl, e.source)
		if err := textures.Seed(); err != nil {
			return err
		}
		e.display.Defer("textures", textures.Release)
		e.textures = textures
	}

	if e.transitions == nil {
		tr, err := transition.NewEngine(e.gl, e.shaders, e.textures, transition.Config{
			Variants:   e.cfg.Transitions,
			Tuning:     e.cfg.Tuning,
			Distance:   e.cfg.ViewingDistance,
			Background: e.cfg.Background,
			Picker:     e.picker,
		})
		if err != nil {
			return err
		}
		tr.Setup(width, height, *e.mesh)
		if err := tr.Begin(); err != nil {
			return err
		}
		e.transitions = tr
	}
	return nil
}

// onSteady ends the hold between rounds: it rescans the directory and starts
// animating if there is something to show.
func (e *Engine) onSteady() {
	if err := e.source.Refresh(e.cfg.Dir); err != nil {
		e.logger.Warnf("%v", err)
	}
	if !e.source.Present() {
		e.logger.Debugf("no slides in %s, checking again later", e.cfg.Dir)
		e.steady.Start(e.cfg.SteadyTime)
		return
	}

	if e.transitions == nil {
		if err := e.initPipeline(); err != nil {
			if slides.IsRecoverable(err) {
				e.logger.Warnf("%v", err)
				e.steady.Start(e.cfg.SteadyTime)
				return
			}
			e.fail(err)
			return
		}
	}

	if e.stalled {
		if err := e.transitions.StartRound(); err != nil {
			if slides.IsRecoverable(err) {
				e.steady.Start(e.cfg.SteadyTime)
				return
			}
			e.fail(err)
			return
		}
		e.stalled = false
	}

	e.update.Start(e.cfg.UpdateTime)
}

// onUpdate animates one frame. When the round completes the next one is
// prepared and the steady hold begins.
func (e *Engine) onUpdate() {
	if e.transitions == nil {
		e.update.Stop()
		return
	}

	if e.transitions.Step() {
		e.update.Stop()
		if err := e.transitions.StartRound(); err != nil {
			if !slides.IsRecoverable(err) {
				e.fail(err)
				return
			}
			e.logger.Warnf("holding last slide: %v", err)
			e.stalled = true
		}
		e.steady.Start(e.cfg.SteadyTime)
	}

	e.transitions.Render()
	if err := e.display.Present(); err != nil {
		e.fail(err)
	}
}

func (e *Engine) onPoll() {
	if e.input == nil {
		return
	}
	e.input.Poll()
	if !e.input.Opened() {
		e.poll.Stop()
	}
}

func (e *Engine) quit() {
	e.logger.Info("Esc pressed")
	e.close(Closing{Reason: "Esc pressed"})
}

func (e *Engine) diagnostics() {
	state := "idle"
	if e.transitions != nil {
		state = e.transitions.State()
	}
	e.logger.Infof("transition %s; steady %t update %t; slide %d of %d",
		state, e.steady.Active(), e.update.Active(), e.source.Cursor(), e.source.Len())
}

// fail tears the show down after a fatal error.
func (e *Engine) fail(err error) {
	e.logger.Errorf("%v", err)
	e.close(Closing{Reason: reason(err), Err: err})
}

// close emits Closing once and stops the show.
func (e *Engine) close(ev Closing) {
	if e.closing {
		return
	}
	e.closing = true
	e.Stop()
	e.emit(ev)
}

func reason(err error) string {
	var se *display.SurfaceError
	var sh *shader.Error
	switch {
	case errors.As(err, &se):
		return fmt.Sprintf("Unable to initialize the display (%s)", se.Step)
	case errors.As(err, &sh):
		return fmt.Sprintf("Shader %s failed for %s", sh.Stage, sh.Name)
	}
	return err.Error()
}
