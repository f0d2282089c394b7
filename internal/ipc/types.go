package ipc

import (
	"context"

	"github.com/matjam/smoothslide/internal/slideshow"
)

// Controller is the part of the slideshow the socket exposes.
type Controller interface {
	Start(ctx context.Context, index *int) error
	Stop(ctx context.Context) error
	SetDirectory(ctx context.Context, dir string) error
	CurrentSlide(ctx context.Context) (int, error)
	Status(ctx context.Context) (slideshow.Status, error)
}

var _ Controller = (*slideshow.Controller)(nil)

type Response struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

type StatusResponse struct {
	Status  string           `json:"status"`
	Message string           `json:"message"`
	Version string           `json:"version"`
	PID     int              `json:"pid"`
	Socket  string           `json:"socket"`
	Config  string           `json:"config"`
	Show    slideshow.Status `json:"show"`
}

// StartRequest is the body of POST /start. A nil Index starts at the
// configured slide.
type StartRequest struct {
	Index *int `json:"index,omitempty"`
}

type DirectoryRequest struct {
	Path string `json:"path"`
}

type CurrentResponse struct {
	Index int `json:"index"`
}
