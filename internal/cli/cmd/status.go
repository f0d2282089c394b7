package cmd

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/matjam/smoothslide/internal/cli/cmd/utils"
	"github.com/matjam/smoothslide/internal/ipc"
	"github.com/spf13/cobra"
)

func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Get smoothslide status",
		Long:  `Returns the current status of the running smoothslide process.`,
		Run: func(cmd *cobra.Command, args []string) {
			var status *ipc.StatusResponse
			err := withClient(func(ctx context.Context, client *ipc.Client) error {
				var err error
				status, err = client.Status(ctx)
				return err
			})
			if err != nil {
				log.Errorf("Error sending command: %v", err)
				return
			}

			utils.PrintJSONColored(status)
		},
	}
}
