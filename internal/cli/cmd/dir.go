package cmd

import (
	"context"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/matjam/smoothslide/internal/cli/cmd/utils"
	"github.com/matjam/smoothslide/internal/ipc"
	"github.com/spf13/cobra"
)

func NewDirCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dir <path>",
		Short: "Change the slide directory of the running slideshow",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			path, err := filepath.Abs(utils.CanonicalPath(args[0]))
			if err != nil {
				log.Fatalf("Invalid path %q: %v", args[0], err)
			}
			err = withClient(func(ctx context.Context, client *ipc.Client) error {
				return client.SetDirectory(ctx, path)
			})
			if err != nil {
				log.Fatalf("Failed to send 'dir' command: %v", err)
			}
			log.Infof("Slide directory set to %s", path)
		},
	}
}

func NewCurrentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Print the index of the current slide",
		Run: func(cmd *cobra.Command, args []string) {
			var index int
			err := withClient(func(ctx context.Context, client *ipc.Client) error {
				var err error
				index, err = client.Current(ctx)
				return err
			})
			if err != nil {
				log.Fatalf("Failed to send 'current' command: %v", err)
			}
			log.Infof("Current slide: %d", index)
		},
	}
}
