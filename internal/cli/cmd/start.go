package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/matjam/smoothslide/internal/ipc"
	"github.com/spf13/cobra"
)

func NewStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start [index]",
		Short: "Start the slideshow, optionally at the given slide",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			index, err := parseIndex(args)
			if err != nil {
				log.Fatalf("%v", err)
			}
			err = withClient(func(ctx context.Context, client *ipc.Client) error {
				return client.Start(ctx, index)
			})
			if err != nil {
				log.Fatalf("Failed to send 'start' command: %v", err)
			}
			log.Info("Slideshow started")
		},
	}
}

func parseIndex(args []string) (*int, error) {
	if len(args) == 0 {
		return nil, nil
	}
	index, err := strconv.Atoi(args[0])
	if err != nil || index < 0 {
		return nil, fmt.Errorf("invalid slide index %q", args[0])
	}
	return &index, nil
}
