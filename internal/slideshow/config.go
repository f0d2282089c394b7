package slideshow

import (
	"image/color"
	"time"

	"github.com/matjam/smoothslide/internal/input"
	"github.com/matjam/smoothslide/internal/render"
	"github.com/matjam/smoothslide/internal/transition"
	"github.com/matjam/smoothslide/internal/types"
)

const (
	DefaultSteadyTime    = 3000 * time.Millisecond
	DefaultUpdateTime    = 20 * time.Millisecond
	DefaultInputPollTime = 200 * time.Millisecond
)

// Config is everything the engine needs to know about the show.
type Config struct {
	Dir        string
	StartIndex int

	SteadyTime    time.Duration
	UpdateTime    time.Duration
	InputPollTime time.Duration

	Scale      types.ScalingMode
	Background color.Color

	Transitions     []string
	Tuning          transition.Tuning
	ViewingDistance float32

	// UseInput enables the keyboard bridge.
	UseInput bool
	Input    input.Config
}

func DefaultConfig() Config {
	return Config{
		SteadyTime:      DefaultSteadyTime,
		UpdateTime:      DefaultUpdateTime,
		InputPollTime:   DefaultInputPollTime,
		Scale:           types.ScalingModeFit,
		Background:      color.White,
		Transitions:     transition.Names,
		Tuning:          transition.DefaultTuning(),
		ViewingDistance: render.DefaultViewingDistance,
		UseInput:        true,
		Input:           input.Config{Dir: input.DefaultDir},
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.SteadyTime <= 0 {
		c.SteadyTime = d.SteadyTime
	}
	if c.UpdateTime <= 0 {
		c.UpdateTime = d.UpdateTime
	}
	if c.InputPollTime <= 0 {
		c.InputPollTime = d.InputPollTime
	}
	if c.Scale == "" {
		c.Scale = d.Scale
	}
	if c.Background == nil {
		c.Background = d.Background
	}
	if c.ViewingDistance <= 2 {
		c.ViewingDistance = d.ViewingDistance
	}
	if c.StartIndex < 0 {
		c.StartIndex = 0
	}
	return c
}
