package slideshow

import (
	"context"

	"github.com/matjam/smoothslide/internal/scheduler"
)

// Status is a snapshot of the engine for remote callers.
type Status struct {
	Running    bool   `json:"running"`
	Directory  string `json:"directory"`
	Slides     int    `json:"slides"`
	Current    int    `json:"current"`
	Transition string `json:"transition"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
}

// Controller is the remote control surface of an Engine. Every call is run
// on the control loop and waits for the result.
type Controller struct {
	loop   *scheduler.Loop
	engine *Engine
}

func NewController(loop *scheduler.Loop, engine *Engine) *Controller {
	return &Controller{loop: loop, engine: engine}
}

// Start begins the show. index may be nil to use the configured start index.
func (c *Controller) Start(ctx context.Context, index *int) error {
	var err error
	if callErr := c.loop.Call(ctx, func() { err = c.engine.Start(index) }); callErr != nil {
		return callErr
	}
	return err
}

// Stop ends the show and releases the display.
func (c *Controller) Stop(ctx context.Context) error {
	return c.loop.Call(ctx, c.engine.Stop)
}

// SetDirectory changes the slide directory.
func (c *Controller) SetDirectory(ctx context.Context, dir string) error {
	return c.loop.Call(ctx, func() { c.engine.SetDirectory(dir) })
}

// CurrentSlide returns the slide cursor.
func (c *Controller) CurrentSlide(ctx context.Context) (int, error) {
	var index int
	err := c.loop.Call(ctx, func() { index = c.engine.CurrentSlide() })
	return index, err
}

func (c *Controller) Status(ctx context.Context) (Status, error) {
	var s Status
	err := c.loop.Call(ctx, func() {
		e := c.engine
		s = Status{
			Running:    e.running,
			Directory:  e.cfg.Dir,
			Slides:     e.source.Len(),
			Current:    e.source.Cursor(),
			Transition: "idle",
		}
		if e.transitions != nil {
			s.Transition = e.transitions.State()
		}
		if e.display.Acquired() {
			s.Width, s.Height = e.display.Size()
		}
	})
	return s, err
}
