package slideshow

import (
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/matjam/smoothslide/internal/display"
	"github.com/matjam/smoothslide/internal/display/displaytest"
	"github.com/matjam/smoothslide/internal/gles/glestest"
	"github.com/matjam/smoothslide/internal/input"
	"github.com/matjam/smoothslide/internal/scheduler"
	"github.com/matjam/smoothslide/internal/shader"
	"github.com/matjam/smoothslide/internal/slides"
	"github.com/matjam/smoothslide/internal/transition"
)

type harness struct {
	engine   *Engine
	platform *displaytest.Platform
	gl       *glestest.Recorder
	clock    *clockwork.FakeClock
	dir      string
	events   []Event
}

func decodeAny(string) (image.Image, error) {
	return image.NewRGBA(image.Rect(0, 0, 8, 6)), nil
}

func writeSlides(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(dir, n), []byte("img"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func newHarness(t *testing.T, mutate func(*Config)) *harness {
	t.Helper()
	h := &harness{
		platform: displaytest.New(64, 40),
		gl:       glestest.New(),
		clock:    clockwork.NewFakeClock(),
		dir:      t.TempDir(),
	}
	cfg := DefaultConfig()
	cfg.Dir = h.dir
	cfg.UseInput = false
	cfg.Transitions = []string{transition.NameFade}
	if mutate != nil {
		mutate(&cfg)
	}

	e, err := New(cfg, scheduler.NewLoop(), Options{
		Platform: h.platform,
		GL:       h.gl,
		Clock:    h.clock,
		Decode:   decodeAny,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	e.Subscribe(func(ev Event) { h.events = append(h.events, ev) })
	h.engine = e
	return h
}

func (h *harness) slideEvents() []int {
	var out []int
	for _, ev := range h.events {
		if sc, ok := ev.(SlideChanged); ok {
			out = append(out, sc.Slide)
		}
	}
	return out
}

func (h *harness) closings() []Closing {
	var out []Closing
	for _, ev := range h.events {
		if c, ok := ev.(Closing); ok {
			out = append(out, c)
		}
	}
	return out
}

// runRound fires the steady timer and then updates until the round is over.
func (h *harness) runRound(t *testing.T) int {
	t.Helper()
	e := h.engine
	e.onSteady()
	if !e.update.Active() {
		t.Fatal("update timer not armed by steady fire")
	}
	for ticks := 1; ticks <= 1000; ticks++ {
		e.onUpdate()
		if !e.update.Active() {
			return ticks
		}
	}
	t.Fatal("round never completed")
	return 0
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestTwoSlideScenario(t *testing.T) {
	h := newHarness(t, nil)
	writeSlides(t, h.dir, "a.jpg", "b.png")
	e := h.engine

	if err := e.Start(nil); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !e.Running() || !e.steady.Active() || e.update.Active() {
		t.Fatalf("after start: running %t steady %t update %t", e.Running(), e.steady.Active(), e.update.Active())
	}
	if got := h.slideEvents(); !equalInts(got, []int{0, 1}) {
		t.Fatalf("slides loaded at start = %v, want [0 1]", got)
	}
	if h.platform.Swaps != 1 || len(h.gl.Draws) != 1 {
		t.Errorf("first frame: %d swaps %d draws, want 1 and 1", h.platform.Swaps, len(h.gl.Draws))
	}
	first, second := e.textures.Current(), e.textures.Incoming()
	if d := h.gl.Draws[0]; d.Texture[0] != first || d.Texture[1] != second {
		t.Errorf("first frame textures %v, want current %d incoming %d", d.Texture, first, second)
	}

	ticks := h.runRound(t)
	if ticks < 50 || ticks > 52 {
		t.Errorf("fade round took %d ticks", ticks)
	}
	if !e.steady.Active() {
		t.Error("steady timer not re-armed after the round")
	}
	if got := h.slideEvents(); !equalInts(got, []int{0, 1, 0}) {
		t.Errorf("slides loaded after round 1 = %v, want [0 1 0]", got)
	}
	if e.textures.Current() != second {
		t.Errorf("current texture %d, want the previous incoming %d", e.textures.Current(), second)
	}
	if live := h.gl.LiveTextures(); len(live) != 2 {
		t.Errorf("%d live textures, want 2", len(live))
	}
	// b.png is on screen while the cursor has wrapped around to preload a.jpg
	// again, so the last load reported is index 0.
	if got := h.slideEvents(); len(got) == 0 || got[len(got)-1] != 0 {
		t.Errorf("SlideChanged events %v, want the last one at the wrapped index 0", got)
	}
	if e.CurrentSlide() != 1 {
		t.Errorf("CurrentSlide() = %d, want 1 for the slide on screen", e.CurrentSlide())
	}
	if len(h.closings()) != 0 {
		t.Errorf("unexpected closing: %+v", h.closings())
	}
}

func TestStartIndex(t *testing.T) {
	h := newHarness(t, func(c *Config) { c.StartIndex = 1 })
	writeSlides(t, h.dir, "a.jpg", "b.jpg", "c.jpg")

	if err := h.engine.Start(nil); err != nil {
		t.Fatal(err)
	}
	if got := h.slideEvents(); !equalInts(got, []int{1, 2}) {
		t.Errorf("configured start: slides %v, want [1 2]", got)
	}

	h.engine.Stop()
	h.events = nil
	idx := 2
	if err := h.engine.Start(&idx); err != nil {
		t.Fatal(err)
	}
	if got := h.slideEvents(); !equalInts(got, []int{2, 0}) {
		t.Errorf("explicit start: slides %v, want [2 0]", got)
	}
}

func TestStartMissingDirectory(t *testing.T) {
	h := newHarness(t, nil)
	e := h.engine
	e.SetDirectory("/nonexistent/slides")

	err := e.Start(nil)
	var de *slides.DirectoryError
	if !errors.As(err, &de) {
		t.Fatalf("Start() error = %v, want *slides.DirectoryError", err)
	}
	if e.Running() || e.steady.Active() {
		t.Error("engine started despite missing directory")
	}
	if len(h.platform.Steps) != 0 || h.platform.Live() {
		t.Errorf("display touched: %v", h.platform.Steps)
	}
	if len(h.closings()) != 0 {
		t.Error("missing directory must not close the application")
	}
}

func TestStartEmptyDirectoryWaits(t *testing.T) {
	h := newHarness(t, nil)
	e := h.engine

	if err := e.Start(nil); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !e.Running() || !e.steady.Active() || e.transitions != nil {
		t.Fatal("empty directory: expected a running engine waiting for slides")
	}

	e.onSteady()
	if e.update.Active() || !e.steady.Active() {
		t.Error("steady fire without slides must only re-arm itself")
	}

	writeSlides(t, h.dir, "late.png")
	e.onSteady()
	if e.transitions == nil || !e.update.Active() {
		t.Error("pipeline not initialised once slides appeared")
	}
	if got := h.slideEvents(); !equalInts(got, []int{0, 0}) {
		t.Errorf("single slide loaded as %v, want [0 0]", got)
	}
}

func TestSlidesRemovedAfterStart(t *testing.T) {
	h := newHarness(t, nil)
	writeSlides(t, h.dir, "a.jpg", "b.jpg")
	e := h.engine
	if err := e.Start(nil); err != nil {
		t.Fatal(err)
	}
	h.runRound(t)

	for _, n := range []string{"a.jpg", "b.jpg"} {
		if err := os.Remove(filepath.Join(h.dir, n)); err != nil {
			t.Fatal(err)
		}
	}
	draws := len(h.gl.Draws)

	for i := 0; i < 3; i++ {
		e.onSteady()
		if e.update.Active() {
			t.Fatal("update timer armed without slides")
		}
		if !e.steady.Active() {
			t.Fatal("steady timer stopped retrying")
		}
	}
	if len(h.gl.Draws) != draws {
		t.Error("frames rendered while paused")
	}
	if !e.Running() || len(h.closings()) != 0 {
		t.Error("show closed because slides disappeared")
	}

	writeSlides(t, h.dir, "c.jpg")
	h.runRound(t)
}

func TestRolloverWithoutSlidesStalls(t *testing.T) {
	h := newHarness(t, nil)
	writeSlides(t, h.dir, "a.jpg", "b.jpg")
	e := h.engine
	if err := e.Start(nil); err != nil {
		t.Fatal(err)
	}

	e.onSteady()
	e.source.Clear()
	for e.update.Active() {
		e.onUpdate()
	}
	if !e.stalled || !e.steady.Active() {
		t.Fatalf("stalled %t steady %t, want both", e.stalled, e.steady.Active())
	}
	if live := h.gl.LiveTextures(); len(live) != 2 {
		t.Errorf("%d live textures after failed advance, want 2", len(live))
	}

	// the slides are still on disk, so the next hold recovers
	before := len(h.slideEvents())
	e.onSteady()
	if e.stalled || !e.update.Active() {
		t.Error("stalled round not resumed")
	}
	if len(h.slideEvents()) != before+1 {
		t.Error("resumed round did not load a slide")
	}
}

func TestStopThenStart(t *testing.T) {
	h := newHarness(t, nil)
	writeSlides(t, h.dir, "a.jpg", "b.jpg", "c.jpg")
	e := h.engine

	if err := e.Start(nil); err != nil {
		t.Fatal(err)
	}
	fresh := h.slideEvents()
	swaps := h.platform.Swaps
	h.runRound(t)

	e.Stop()
	e.Stop()
	if e.Running() || e.steady.Active() || e.update.Active() || e.poll.Active() {
		t.Error("timers left running after Stop")
	}
	if h.platform.Live() {
		t.Error("native display handles left open")
	}
	if n := len(h.gl.LiveTextures()); n != 0 {
		t.Errorf("%d textures leaked", n)
	}
	if h.gl.LivePrograms() != 0 || h.gl.LiveShaders() != 0 || h.gl.LiveBuffers() != 0 {
		t.Errorf("GL objects leaked: programs %d shaders %d buffers %d",
			h.gl.LivePrograms(), h.gl.LiveShaders(), h.gl.LiveBuffers())
	}

	h.events = nil
	h.platform.Swaps = 0
	if err := e.Start(nil); err != nil {
		t.Fatalf("restart error = %v", err)
	}
	if got := h.slideEvents(); !equalInts(got, fresh) {
		t.Errorf("restart loaded %v, fresh start loaded %v", got, fresh)
	}
	if h.platform.Swaps != swaps {
		t.Errorf("restart presented %d frames, fresh start %d", h.platform.Swaps, swaps)
	}
	if n := len(h.gl.LiveTextures()); n != 2 {
		t.Errorf("%d live textures after restart, want 2", n)
	}
}

func TestStartTwice(t *testing.T) {
	h := newHarness(t, nil)
	writeSlides(t, h.dir, "a.jpg")
	if err := h.engine.Start(nil); err != nil {
		t.Fatal(err)
	}
	if err := h.engine.Start(nil); !errors.Is(err, ErrRunning) {
		t.Errorf("second Start() error = %v, want %v", err, ErrRunning)
	}
}

func TestFatalErrorsCloseOnce(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(h *harness)
		check   func(error) bool
	}{
		{
			name:    "surface",
			prepare: func(h *harness) { h.platform.Fail = "surface" },
			check: func(err error) bool {
				var se *display.SurfaceError
				return errors.As(err, &se)
			},
		},
		{
			name:    "shader",
			prepare: func(h *harness) { h.gl.FailCompile = "mix(" },
			check: func(err error) bool {
				var se *shader.Error
				return errors.As(err, &se) && se.Stage == "compile"
			},
		},
		{
			name:    "locate",
			prepare: func(h *harness) { h.gl.Hide = map[string]bool{"alpha": true} },
			check: func(err error) bool {
				var se *shader.Error
				return errors.As(err, &se) && se.Stage == "locate"
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, nil)
			writeSlides(t, h.dir, "a.jpg", "b.jpg")
			tt.prepare(h)

			err := h.engine.Start(nil)
			if !tt.check(err) {
				t.Fatalf("Start() error = %v", err)
			}
			closings := h.closings()
			if len(closings) != 1 || closings[0].Err == nil || closings[0].Reason == "" {
				t.Fatalf("closings = %+v, want one with an error", closings)
			}
			if h.engine.Running() || h.platform.Live() {
				t.Error("engine not torn down after fatal error")
			}
			if h.gl.LivePrograms() != 0 || h.gl.LiveShaders() != 0 || len(h.gl.LiveTextures()) != 0 {
				t.Error("GL objects leaked after fatal error")
			}
		})
	}
}

func TestPresentFailureDuringRound(t *testing.T) {
	h := newHarness(t, nil)
	writeSlides(t, h.dir, "a.jpg", "b.jpg")
	e := h.engine
	if err := e.Start(nil); err != nil {
		t.Fatal(err)
	}
	e.onSteady()

	h.platform.Fail = "swap"
	e.onUpdate()
	e.onUpdate()

	closings := h.closings()
	if len(closings) != 1 {
		t.Fatalf("%d closing events, want 1", len(closings))
	}
	var se *display.SurfaceError
	if !errors.As(closings[0].Err, &se) {
		t.Errorf("closing error = %v, want *display.SurfaceError", closings[0].Err)
	}
	if e.Running() || e.update.Active() {
		t.Error("engine still running")
	}
}

type idleDevice struct{ closed bool }

func (d *idleDevice) Name() string                 { return "kbd" }
func (d *idleDevice) Read(buf []byte) (int, error) { return 0, nil }
func (d *idleDevice) Close() error                 { d.closed = true; return nil }

func TestInputLifecycle(t *testing.T) {
	devDir := t.TempDir()
	writeSlides(t, devDir, "usb-kbd-event-kbd")
	dev := &idleDevice{}

	h := newHarness(t, func(c *Config) {
		c.UseInput = true
		c.Input = input.Config{Dir: devDir, Open: func(string) (input.Device, error) { return dev, nil }}
	})
	writeSlides(t, h.dir, "a.jpg")
	e := h.engine

	if err := e.Start(nil); err != nil {
		t.Fatal(err)
	}
	if !e.poll.Active() {
		t.Fatal("input poll timer not started with a keyboard")
	}
	e.onPoll()
	e.diagnostics()

	e.quit()
	closings := h.closings()
	if len(closings) != 1 || closings[0].Err != nil || closings[0].Reason != "Esc pressed" {
		t.Fatalf("closings = %+v, want one clean Esc closing", closings)
	}
	if !dev.closed || e.poll.Active() || e.Running() {
		t.Error("quit did not stop the show and release the keyboard")
	}
}

func TestMissingKeyboardIsNotFatal(t *testing.T) {
	h := newHarness(t, func(c *Config) {
		c.UseInput = true
		c.Input = input.Config{Dir: t.TempDir()}
	})
	writeSlides(t, h.dir, "a.jpg")
	if err := h.engine.Start(nil); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if h.engine.poll.Active() {
		t.Error("poll timer running without a device")
	}
}

func TestNewRejectsUnknownTransition(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Transitions = []string{"wipe"}
	if _, err := New(cfg, scheduler.NewLoop(), Options{Platform: displaytest.New(1, 1), GL: glestest.New()}); err == nil {
		t.Error("New accepted an unknown transition")
	}
}
