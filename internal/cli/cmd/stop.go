package cmd

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/matjam/smoothslide/internal/ipc"
	"github.com/spf13/cobra"
)

func NewStopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the slideshow and release the display",
		Run: func(cmd *cobra.Command, args []string) {
			err := withClient(func(ctx context.Context, client *ipc.Client) error {
				return client.Stop(ctx)
			})
			if err != nil {
				log.Fatalf("Failed to send 'stop' command: %v", err)
			}
			log.Info("Stop command sent")
		},
	}
}

func NewQuitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quit",
		Short: "Stop the slideshow and exit the smoothslide process",
		Run: func(cmd *cobra.Command, args []string) {
			err := withClient(func(ctx context.Context, client *ipc.Client) error {
				return client.Quit(ctx)
			})
			if err != nil {
				log.Fatalf("Failed to send 'quit' command: %v", err)
			}
			log.Info("Quit command sent")
		},
	}
}
