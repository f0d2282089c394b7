package ipc

import (
	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo, s *Server) {
	e.GET("/status", statusHandler(s))
	e.POST("/start", startHandler(s.controller))
	e.POST("/stop", stopHandler(s.controller))
	e.POST("/directory", directoryHandler(s.controller))
	e.GET("/current", currentHandler(s.controller))
	e.POST("/quit", quitHandler(s.quit))
}
