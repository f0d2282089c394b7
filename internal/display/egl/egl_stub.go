//go:build !linux || !cgo

package egl

import (
	"errors"

	"github.com/matjam/smoothslide/internal/display"
)

var errUnsupported = errors.New("EGL support requires linux and cgo")

type Config struct {
	Framebuffer string
	Width       int
	Height      int
}

// Platform always fails to open on builds without EGL.
type Platform struct{}

var _ display.Platform = (*Platform)(nil)

func New(cfg Config) *Platform { return &Platform{} }

func (p *Platform) DisplaySize() (int, int, error) { return 0, 0, errUnsupported }
func (p *Platform) OpenDisplay() error             { return errUnsupported }
func (p *Platform) ChooseConfig() error            { return errUnsupported }
func (p *Platform) CreateContext() error           { return errUnsupported }
func (p *Platform) CreateSurface(int, int) error   { return errUnsupported }
func (p *Platform) MakeCurrent() error             { return errUnsupported }
func (p *Platform) SwapBuffers() error             { return errUnsupported }
func (p *Platform) ReleaseCurrent()                {}
func (p *Platform) DestroySurface()                {}
func (p *Platform) DestroyContext()                {}
func (p *Platform) CloseDisplay()                  {}
