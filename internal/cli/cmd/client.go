package cmd

import (
	"context"
	"time"

	"github.com/matjam/smoothslide/internal/ipc"
	"github.com/spf13/viper"
)

const requestTimeout = 10 * time.Second

// withClient runs fn against the control socket of the running instance.
func withClient(fn func(ctx context.Context, client *ipc.Client) error) error {
	client := ipc.NewClient(ipc.SocketPath(viper.GetString("socket")))
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	return fn(ctx, client)
}
