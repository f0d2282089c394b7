package ipc

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"resty.dev/v3"
)

// RemoteError is an error reply from a running instance.
type RemoteError struct {
	Code    int
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s (%d)", e.Message, e.Code)
}

// Client talks to the control socket of a running instance.
type Client struct {
	rest *resty.Client
}

func NewClient(socket string) *Client {
	client := resty.NewWithClient(&http.Client{
		Transport: &http.Transport{
			DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
				var d net.Dialer
				return d.DialContext(ctx, "unix", socket)
			},
		},
	})

	client.SetBaseURL("http://smoothslide")
	client.SetHeader("Content-Type", "application/json")
	client.SetHeader("Accept", "application/json")
	client.SetHeader("User-Agent", "smoothslide")
	client.SetTimeout(10 * time.Second)

	return &Client{rest: client}
}

func (c *Client) Close() error { return c.rest.Close() }

func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	var reply Response
	req := c.rest.R().SetContext(ctx).SetError(&reply)
	if body != nil {
		req.SetBody(body)
	}
	if result != nil {
		req.SetResult(result)
	}

	response, err := req.Execute(method, path)
	if err != nil {
		return err
	}
	if response.IsError() {
		if reply.Message != "" {
			return &RemoteError{Code: response.StatusCode(), Message: reply.Message}
		}
		return fmt.Errorf("%s %s: %s", method, path, response.Status())
	}
	return nil
}

func (c *Client) Status(ctx context.Context) (*StatusResponse, error) {
	var status StatusResponse
	if err := c.do(ctx, http.MethodGet, "/status", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Start begins the show at index, or at the configured slide when index is
// nil.
func (c *Client) Start(ctx context.Context, index *int) error {
	return c.do(ctx, http.MethodPost, "/start", StartRequest{Index: index}, nil)
}

func (c *Client) Stop(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/stop", nil, nil)
}

func (c *Client) SetDirectory(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodPost, "/directory", DirectoryRequest{Path: path}, nil)
}

func (c *Client) Current(ctx context.Context) (int, error) {
	var current CurrentResponse
	if err := c.do(ctx, http.MethodGet, "/current", nil, &current); err != nil {
		return 0, err
	}
	return current.Index, nil
}

func (c *Client) Quit(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/quit", nil, nil)
}
