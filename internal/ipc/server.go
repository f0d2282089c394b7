// Package ipc is the remote control of a running slideshow: a small JSON API
// served over a unix socket, and the client the CLI uses to reach it.
package ipc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
	"github.com/matjam/smoothslide/internal/middleware"
)

// SocketName is the file name of the default control socket.
const SocketName = "smoothslide.sock"

// SocketPath returns override when set, otherwise the socket in
// $XDG_RUNTIME_DIR, falling back to the temp directory.
func SocketPath(override string) string {
	if override != "" {
		return override
	}
	sockDir := os.Getenv("XDG_RUNTIME_DIR")
	if sockDir == "" {
		sockDir = os.TempDir()
	}
	return filepath.Join(sockDir, SocketName)
}

type Server struct {
	echo       *echo.Echo
	controller Controller
	quit       func()
	socket     string
	logger     *log.Logger
}

// NewServer builds the API. quit is called after the reply to POST /quit
// has been written.
func NewServer(socket string, controller Controller, quit func()) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.CharmLog())

	s := &Server{
		echo:       e,
		controller: controller,
		quit:       quit,
		socket:     socket,
		logger:     log.WithPrefix("ipc"),
	}
	RegisterRoutes(e, s)
	return s
}

// Handler exposes the routes without a listener.
func (s *Server) Handler() http.Handler { return s.echo }

// ListenAndServe replaces any stale socket file and serves until Shutdown.
func (s *Server) ListenAndServe() error {
	if _, err := os.Stat(s.socket); err == nil {
		_ = os.Remove(s.socket)
	}

	listener, err := net.Listen("unix", s.socket)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.socket, err)
	}
	s.echo.Listener = listener
	s.logger.Infof("listening on %s", s.socket)

	if err := s.echo.StartServer(s.echo.Server); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("socket server: %w", err)
	}
	return nil
}

// Shutdown stops serving and removes the socket file.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.echo.Shutdown(ctx)
	if rmErr := os.Remove(s.socket); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
		s.logger.Warnf("unable to remove %s: %v", s.socket, rmErr)
	}
	return err
}
