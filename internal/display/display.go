// Package display owns the GPU rendering context bound to the physical
// screen. Only one Manager may be acquired at a time.
package display

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/matjam/smoothslide/internal/gles"
)

// Platform is the native display API (EGL on the device). Each method maps to
// one step of bringing up or tearing down a surface; Manager takes care of
// ordering and rollback.
type Platform interface {
	// DisplaySize returns the full resolution of the physical display.
	DisplaySize() (width, height int, err error)
	OpenDisplay() error
	ChooseConfig() error
	CreateContext() error
	CreateSurface(width, height int) error
	MakeCurrent() error
	SwapBuffers() error
	ReleaseCurrent()
	DestroySurface()
	DestroyContext()
	CloseDisplay()
}

// SurfaceError reports a failed display step. It is fatal for the current run.
type SurfaceError struct {
	Step string
	Err  error
}

func (e *SurfaceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("display: %s failed", e.Step)
	}
	return fmt.Sprintf("display: %s failed: %v", e.Step, e.Err)
}

func (e *SurfaceError) Unwrap() error { return e.Err }

type cleanup struct {
	name string
	fn   func()
}

// Manager acquires and releases the rendering surface. GL objects created
// while the surface is live are registered with Defer so Release can delete
// them before the context goes away.
type Manager struct {
	platform Platform
	gl       gles.Context
	logger   *log.Logger

	acquired bool
	width    int
	height   int
	cleanups []cleanup
}

func NewManager(platform Platform, gl gles.Context) *Manager {
	return &Manager{
		platform: platform,
		gl:       gl,
		logger:   log.WithPrefix("display"),
	}
}

// Acquired reports whether the surface is live.
func (m *Manager) Acquired() bool { return m.acquired }

// Size returns the surface size detected by the last Acquire.
func (m *Manager) Size() (int, int) { return m.width, m.height }

// Acquire brings the surface up at the display's native resolution. On error
// every step that already succeeded is undone before returning.
func (m *Manager) Acquire() (err error) {
	if m.acquired {
		return nil
	}

	var undo []func()
	defer func() {
		if err == nil {
			return
		}
		for i := len(undo) - 1; i >= 0; i-- {
			undo[i]()
		}
	}()

	width, height, err := m.platform.DisplaySize()
	if err != nil {
		return &SurfaceError{Step: "display size", Err: err}
	}
	if width <= 0 || height <= 0 {
		return &SurfaceError{Step: "display size", Err: fmt.Errorf("invalid size %dx%d", width, height)}
	}

	if err := m.platform.OpenDisplay(); err != nil {
		return &SurfaceError{Step: "open display", Err: err}
	}
	undo = append(undo, m.platform.CloseDisplay)

	if err := m.platform.ChooseConfig(); err != nil {
		return &SurfaceError{Step: "choose config", Err: err}
	}

	if err := m.platform.CreateContext(); err != nil {
		return &SurfaceError{Step: "create context", Err: err}
	}
	undo = append(undo, m.platform.DestroyContext)

	if err := m.platform.CreateSurface(width, height); err != nil {
		return &SurfaceError{Step: "create surface", Err: err}
	}
	undo = append(undo, m.platform.DestroySurface)

	if err := m.platform.MakeCurrent(); err != nil {
		return &SurfaceError{Step: "make current", Err: err}
	}
	undo = append(undo, m.platform.ReleaseCurrent)

	if err := m.gl.Init(); err != nil {
		return &SurfaceError{Step: "gl init", Err: err}
	}

	m.width, m.height = width, height
	m.acquired = true
	m.cleanups = nil
	m.logger.Infof("surface acquired at %dx%d", width, height)
	return nil
}

// Defer registers fn to run on Release while the context is still current.
// Cleanups run in reverse registration order.
func (m *Manager) Defer(name string, fn func()) {
	m.cleanups = append(m.cleanups, cleanup{name: name, fn: fn})
}

// Present swaps the back buffer to the front.
func (m *Manager) Present() error {
	if !m.acquired {
		return &SurfaceError{Step: "present", Err: fmt.Errorf("surface not acquired")}
	}
	if err := m.platform.SwapBuffers(); err != nil {
		return &SurfaceError{Step: "swap buffers", Err: err}
	}
	return nil
}

// Release clears the screen and tears everything down. Releasing a surface
// that is not acquired does nothing.
func (m *Manager) Release() {
	if !m.acquired {
		return
	}

	m.gl.ClearColor(0, 0, 0, 1)
	m.gl.Clear(gles.ColorBufferBit)
	if err := m.platform.SwapBuffers(); err != nil {
		m.logger.Warnf("final swap failed: %v", err)
	}

	for i := len(m.cleanups) - 1; i >= 0; i-- {
		m.logger.Debugf("releasing %s", m.cleanups[i].name)
		m.cleanups[i].fn()
	}
	m.cleanups = nil

	m.platform.ReleaseCurrent()
	m.platform.DestroySurface()
	m.platform.DestroyContext()
	m.platform.CloseDisplay()

	m.acquired = false
	m.logger.Info("surface released")
}
