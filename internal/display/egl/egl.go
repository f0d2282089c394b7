//go:build linux && cgo

// Package egl brings up an OpenGL ES 2 context on the device's native
// framebuffer window through EGL.
package egl

/*
#cgo LDFLAGS: -lEGL
#include <EGL/egl.h>
#include <stdlib.h>

// Native window for fbdev EGL drivers: the driver only needs the size.
typedef struct {
	unsigned short width;
	unsigned short height;
} fbdev_window;

static EGLDisplay slide_get_display(void) {
	return eglGetDisplay(EGL_DEFAULT_DISPLAY);
}

static int slide_no_display(EGLDisplay d) { return d == EGL_NO_DISPLAY; }
static int slide_no_context(EGLContext c) { return c == EGL_NO_CONTEXT; }
static int slide_no_surface(EGLSurface s) { return s == EGL_NO_SURFACE; }

static EGLBoolean slide_choose_config(EGLDisplay d, EGLConfig *cfg) {
	static const EGLint attribs[] = {
		EGL_RED_SIZE, 8,
		EGL_GREEN_SIZE, 8,
		EGL_BLUE_SIZE, 8,
		EGL_ALPHA_SIZE, 8,
		EGL_LUMINANCE_SIZE, EGL_DONT_CARE,
		EGL_SURFACE_TYPE, EGL_WINDOW_BIT,
		EGL_SAMPLES, 1,
		EGL_DEPTH_SIZE, 24,
		EGL_NONE
	};
	EGLint n = 0;
	if (eglChooseConfig(d, attribs, cfg, 1, &n) == EGL_FALSE || n < 1) {
		return EGL_FALSE;
	}
	return EGL_TRUE;
}

static EGLContext slide_create_context(EGLDisplay d, EGLConfig cfg) {
	static const EGLint attribs[] = {
		EGL_CONTEXT_CLIENT_VERSION, 2,
		EGL_NONE
	};
	if (eglBindAPI(EGL_OPENGL_ES_API) == EGL_FALSE) {
		return EGL_NO_CONTEXT;
	}
	return eglCreateContext(d, cfg, EGL_NO_CONTEXT, attribs);
}

static EGLSurface slide_create_surface(EGLDisplay d, EGLConfig cfg, fbdev_window *win) {
	return eglCreateWindowSurface(d, cfg, (EGLNativeWindowType)win, NULL);
}

static EGLBoolean slide_release_current(EGLDisplay d) {
	return eglMakeCurrent(d, EGL_NO_SURFACE, EGL_NO_SURFACE, EGL_NO_CONTEXT);
}
*/
import "C"

import (
	"fmt"
	"unsafe"

	"github.com/charmbracelet/log"
	fb "github.com/gonutz/framebuffer"
	"github.com/matjam/smoothslide/internal/display"
)

// Config selects how the display size is found. A zero Width or Height means
// "ask the framebuffer device".
type Config struct {
	Framebuffer string
	Width       int
	Height      int
}

// Platform is the EGL implementation of display.Platform.
type Platform struct {
	cfg Config

	display C.EGLDisplay
	config  C.EGLConfig
	context C.EGLContext
	surface C.EGLSurface
	window  *C.fbdev_window
}

var _ display.Platform = (*Platform)(nil)

func New(cfg Config) *Platform {
	return &Platform{cfg: cfg}
}

// DisplaySize reads the resolution from the framebuffer device unless both
// dimensions are configured explicitly.
func (p *Platform) DisplaySize() (int, int, error) {
	if p.cfg.Width > 0 && p.cfg.Height > 0 {
		return p.cfg.Width, p.cfg.Height, nil
	}

	path := p.cfg.Framebuffer
	if path == "" {
		path = "/dev/fb0"
	}
	dev, err := fb.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer dev.Close()

	bounds := dev.Bounds()
	log.Debugf("framebuffer %s reports %dx%d", path, bounds.Dx(), bounds.Dy())
	return bounds.Dx(), bounds.Dy(), nil
}

func (p *Platform) OpenDisplay() error {
	dpy := C.slide_get_display()
	if C.slide_no_display(dpy) != 0 {
		return fmt.Errorf("eglGetDisplay returned no display")
	}

	var major, minor C.EGLint
	if C.eglInitialize(dpy, &major, &minor) == C.EGL_FALSE {
		return fmt.Errorf("eglInitialize failed: %#x", int(C.eglGetError()))
	}
	log.Debugf("EGL %d.%d initialised", int(major), int(minor))
	p.display = dpy
	return nil
}

func (p *Platform) ChooseConfig() error {
	if C.slide_choose_config(p.display, &p.config) == C.EGL_FALSE {
		return fmt.Errorf("eglChooseConfig failed: %#x", int(C.eglGetError()))
	}
	return nil
}

func (p *Platform) CreateContext() error {
	ctx := C.slide_create_context(p.display, p.config)
	if C.slide_no_context(ctx) != 0 {
		return fmt.Errorf("eglCreateContext failed: %#x", int(C.eglGetError()))
	}
	p.context = ctx
	return nil
}

func (p *Platform) CreateSurface(width, height int) error {
	win := (*C.fbdev_window)(C.calloc(1, C.size_t(unsafe.Sizeof(C.fbdev_window{}))))
	win.width = C.ushort(width)
	win.height = C.ushort(height)

	surf := C.slide_create_surface(p.display, p.config, win)
	if C.slide_no_surface(surf) != 0 {
		C.free(unsafe.Pointer(win))
		return fmt.Errorf("eglCreateWindowSurface failed: %#x", int(C.eglGetError()))
	}
	p.window = win
	p.surface = surf
	return nil
}

func (p *Platform) MakeCurrent() error {
	if C.eglMakeCurrent(p.display, p.surface, p.surface, p.context) == C.EGL_FALSE {
		return fmt.Errorf("eglMakeCurrent failed: %#x", int(C.eglGetError()))
	}
	return nil
}

func (p *Platform) SwapBuffers() error {
	if C.eglSwapBuffers(p.display, p.surface) == C.EGL_FALSE {
		return fmt.Errorf("eglSwapBuffers failed: %#x", int(C.eglGetError()))
	}
	return nil
}

func (p *Platform) ReleaseCurrent() {
	C.slide_release_current(p.display)
}

func (p *Platform) DestroySurface() {
	if p.window == nil {
		return
	}
	C.eglDestroySurface(p.display, p.surface)
	C.free(unsafe.Pointer(p.window))
	p.window = nil
}

func (p *Platform) DestroyContext() {
	if C.slide_no_context(p.context) != 0 {
		return
	}
	C.eglDestroyContext(p.display, p.context)
	p.context = nil
}

func (p *Platform) CloseDisplay() {
	if C.slide_no_display(p.display) != 0 {
		return
	}
	C.eglTerminate(p.display)
	p.display = nil
}
