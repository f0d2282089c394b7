package ipc

import (
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/matjam/smoothslide"
	"github.com/matjam/smoothslide/internal/scheduler"
	"github.com/spf13/viper"
)

func ok(c echo.Context, message string) error {
	return c.JSON(http.StatusOK, Response{Status: "ok", Message: message})
}

func failure(c echo.Context, code int, err error) error {
	return c.JSON(code, Response{Status: "error", Message: err.Error()})
}

// callFailure maps a controller error to a response. A stopped control loop
// means the show is shutting down.
func callFailure(c echo.Context, err error) error {
	if errors.Is(err, scheduler.ErrLoopStopped) {
		return failure(c, http.StatusServiceUnavailable, err)
	}
	return failure(c, http.StatusInternalServerError, err)
}

// GET /status
func statusHandler(s *Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		show, err := s.controller.Status(c.Request().Context())
		if err != nil {
			return callFailure(c, err)
		}
		return c.JSONPretty(http.StatusOK, StatusResponse{
			Status:  "ok",
			Message: "smoothslide is running",
			Version: strings.Trim(smoothslide.Version, "\n\r "),
			PID:     os.Getpid(),
			Socket:  s.socket,
			Config:  viper.ConfigFileUsed(),
			Show:    show,
		}, "  ")
	}
}

// POST /start
func startHandler(ctrl Controller) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req StartRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, Response{Status: "error", Message: "invalid start request"})
		}
		if req.Index != nil && *req.Index < 0 {
			return c.JSON(http.StatusBadRequest, Response{Status: "error", Message: "index must not be negative"})
		}

		if err := ctrl.Start(c.Request().Context(), req.Index); err != nil {
			if errors.Is(err, scheduler.ErrLoopStopped) {
				return failure(c, http.StatusServiceUnavailable, err)
			}
			return failure(c, http.StatusConflict, err)
		}
		return ok(c, "slideshow started")
	}
}

// POST /stop
func stopHandler(ctrl Controller) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := ctrl.Stop(c.Request().Context()); err != nil {
			return callFailure(c, err)
		}
		return ok(c, "slideshow stopped")
	}
}

// POST /directory
func directoryHandler(ctrl Controller) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req DirectoryRequest
		if err := c.Bind(&req); err != nil || req.Path == "" {
			return c.JSON(http.StatusBadRequest, Response{Status: "error", Message: "expected {\"path\": \"...\"}"})
		}
		if err := ctrl.SetDirectory(c.Request().Context(), req.Path); err != nil {
			return callFailure(c, err)
		}
		return ok(c, "slide directory set to "+req.Path)
	}
}

// GET /current
func currentHandler(ctrl Controller) echo.HandlerFunc {
	return func(c echo.Context) error {
		index, err := ctrl.CurrentSlide(c.Request().Context())
		if err != nil {
			return callFailure(c, err)
		}
		return c.JSON(http.StatusOK, CurrentResponse{Index: index})
	}
}

// POST /quit
func quitHandler(quit func()) echo.HandlerFunc {
	return func(c echo.Context) error {
		err := ok(c, "smoothslide is exiting")
		if quit != nil {
			quit()
		}
		return err
	}
}
