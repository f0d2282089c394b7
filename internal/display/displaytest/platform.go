// Package displaytest provides an in-memory display.Platform.
package displaytest

import (
	"errors"

	"github.com/matjam/smoothslide/internal/display"
)

// Platform records the lifecycle of every native handle. Set Fail to the name
// of a step ("size", "open", "config", "context", "surface", "current",
// "swap") to make that step fail.
type Platform struct {
	Width, Height int
	Fail          string

	Steps  []string
	Swaps  int
	Open   bool
	Ctx    bool
	Surf   bool
	Bound  bool
	Closed int
}

var _ display.Platform = (*Platform)(nil)

func New(width, height int) *Platform {
	return &Platform{Width: width, Height: height}
}

// Live reports whether any native handle is still open.
func (p *Platform) Live() bool { return p.Open || p.Ctx || p.Surf || p.Bound }

func (p *Platform) step(name string) error {
	p.Steps = append(p.Steps, name)
	if p.Fail == name {
		return errors.New(name + " refused")
	}
	return nil
}

func (p *Platform) DisplaySize() (int, int, error) {
	if err := p.step("size"); err != nil {
		return 0, 0, err
	}
	return p.Width, p.Height, nil
}

func (p *Platform) OpenDisplay() error {
	if err := p.step("open"); err != nil {
		return err
	}
	p.Open = true
	return nil
}

func (p *Platform) ChooseConfig() error { return p.step("config") }

func (p *Platform) CreateContext() error {
	if err := p.step("context"); err != nil {
		return err
	}
	p.Ctx = true
	return nil
}

func (p *Platform) CreateSurface(width, height int) error {
	if err := p.step("surface"); err != nil {
		return err
	}
	p.Surf = true
	return nil
}

func (p *Platform) MakeCurrent() error {
	if err := p.step("current"); err != nil {
		return err
	}
	p.Bound = true
	return nil
}

func (p *Platform) SwapBuffers() error {
	if err := p.step("swap"); err != nil {
		return err
	}
	p.Swaps++
	return nil
}

func (p *Platform) ReleaseCurrent() {
	p.Steps = append(p.Steps, "release current")
	p.Bound = false
}

func (p *Platform) DestroySurface() {
	p.Steps = append(p.Steps, "destroy surface")
	p.Surf = false
}

func (p *Platform) DestroyContext() {
	p.Steps = append(p.Steps, "destroy context")
	p.Ctx = false
}

func (p *Platform) CloseDisplay() {
	p.Steps = append(p.Steps, "close display")
	p.Open = false
	p.Closed++
}
