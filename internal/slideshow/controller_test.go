package slideshow

import (
	"context"
	"errors"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/matjam/smoothslide/internal/display/displaytest"
	"github.com/matjam/smoothslide/internal/gles/glestest"
	"github.com/matjam/smoothslide/internal/scheduler"
	"github.com/matjam/smoothslide/internal/slides"
)

func runController(t *testing.T, dir string) (*Controller, *displaytest.Platform) {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Dir = dir
	cfg.UseInput = false

	loop := scheduler.NewLoop()
	platform := displaytest.New(32, 32)
	e, err := New(cfg, loop, Options{
		Platform: platform,
		GL:       glestest.New(),
		Clock:    clockwork.NewFakeClock(),
		Decode:   decodeAny,
	})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go loop.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-loop.Stopped()
	})
	return NewController(loop, e), platform
}

func TestControllerLifecycle(t *testing.T) {
	dir := t.TempDir()
	writeSlides(t, dir, "a.jpg", "b.jpg", "c.jpg")
	c, platform := runController(t, dir)
	ctx := context.Background()

	s, err := c.Status(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if s.Running || s.Transition != "idle" || s.Width != 0 {
		t.Errorf("status before start = %+v", s)
	}

	index := 1
	if err := c.Start(ctx, &index); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := c.Start(ctx, nil); !errors.Is(err, ErrRunning) {
		t.Errorf("second Start() error = %v, want %v", err, ErrRunning)
	}

	s, err = c.Status(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !s.Running || s.Slides != 3 || s.Directory != dir || s.Width != 32 || s.Height != 32 {
		t.Errorf("status while running = %+v", s)
	}
	if cur, err := c.CurrentSlide(ctx); err != nil || cur != 0 {
		t.Errorf("CurrentSlide() = %d, %v; want 0 after loading slides 1 and 2", cur, err)
	}

	if err := c.Stop(ctx); err != nil {
		t.Fatal(err)
	}
	if platform.Live() {
		t.Error("display still held after Stop")
	}
	s, _ = c.Status(ctx)
	if s.Running || s.Slides != 0 {
		t.Errorf("status after stop = %+v", s)
	}
}

func TestControllerSetDirectory(t *testing.T) {
	c, _ := runController(t, t.TempDir())
	ctx := context.Background()

	if err := c.SetDirectory(ctx, "/nonexistent"); err != nil {
		t.Fatal(err)
	}
	err := c.Start(ctx, nil)
	var de *slides.DirectoryError
	if !errors.As(err, &de) {
		t.Fatalf("Start() error = %v, want *slides.DirectoryError", err)
	}

	dir := t.TempDir()
	writeSlides(t, dir, "x.png")
	if err := c.SetDirectory(ctx, dir); err != nil {
		t.Fatal(err)
	}
	if err := c.Start(ctx, nil); err != nil {
		t.Fatalf("Start() after fixing the directory: %v", err)
	}
	s, _ := c.Status(ctx)
	if s.Directory != dir || s.Slides != 1 {
		t.Errorf("status = %+v", s)
	}
}

func TestControllerAfterLoopStopped(t *testing.T) {
	loop := scheduler.NewLoop()
	e, err := New(DefaultConfig(), loop, Options{Platform: displaytest.New(1, 1), GL: glestest.New()})
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	loop.Run(ctx)

	c := NewController(loop, e)
	if err := c.Stop(context.Background()); !errors.Is(err, scheduler.ErrLoopStopped) {
		t.Errorf("Stop() error = %v, want %v", err, scheduler.ErrLoopStopped)
	}
}
