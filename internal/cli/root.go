/*
Copyright © 2025 Nathan Ollerenshaw <chrome@stupendous.net>
*/
package cli

import (
	"errors"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/matjam/smoothslide"
	"github.com/matjam/smoothslide/internal/cli/cmd"
	"github.com/matjam/smoothslide/internal/cli/cmd/utils"
	"github.com/matjam/smoothslide/internal/display/egl"
	"github.com/matjam/smoothslide/internal/gles/gogl"
	"github.com/matjam/smoothslide/internal/slides"
	"github.com/matjam/smoothslide/internal/slideshow"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "smoothslide",
	Short: "A GPU slideshow for headless displays",
	Long: `Smoothslide shows a directory of images full screen on an embedded
display, animating between slides with OpenGL ES transitions.`,
	Run: func(c *cobra.Command, args []string) {
		if v, err := c.Flags().GetBool("installconfig"); err == nil && v {
			path, err := utils.InstallDefaultConfig()
			if errors.Is(err, utils.ErrConfigExists) {
				log.Warnf("%v", err)
				return
			}
			if err != nil {
				log.Fatalf("Error installing config: %v", err)
			}
			log.Infof("Installed default config file at %v", path)
			return
		}

		if v, err := c.Flags().GetBool("show-config"); err == nil && v {
			allSettings := viper.AllSettings()

			log.Infof("Using config file: %v", viper.ConfigFileUsed())
			log.Infof("All settings:")
			utils.PrintJSONColored(allSettings)
			return
		}

		babyBlue := lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
		yellow := lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
		green := lipgloss.NewStyle().Foreground(lipgloss.Color("76"))
		if v, err := c.Flags().GetBool("version"); err == nil && v {
			log.Infof("%v version %v © 2025 %v",
				babyBlue.Render("smoothslide "),
				green.Render(strings.Trim(smoothslide.Version, "\n\r ")),
				yellow.Render("Nathan Ollerenshaw"))
			return
		}

		if viper.GetBool("debug") {
			log.SetLevel(log.DebugLevel)
		}

		if v, err := c.Flags().GetBool("background"); err == nil && v {
			parent, err := cmd.Daemonize()
			if err != nil {
				log.Fatalf("Unable to run in background: %v", err)
			}
			if parent {
				return
			}
		}

		os.Exit(cmd.RunShow(viper.GetBool("autostart"), slideshow.Options{
			Platform: egl.New(cmd.DisplayConfig()),
			GL:       gogl.New(),
			Decode:   slides.DecodeFile,
		}))
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	RegisterFlags(rootCmd)

	rootCmd.AddCommand(cmd.NewStartCmd())
	rootCmd.AddCommand(cmd.NewStopCmd())
	rootCmd.AddCommand(cmd.NewDirCmd())
	rootCmd.AddCommand(cmd.NewCurrentCmd())
	rootCmd.AddCommand(cmd.NewStatusCmd())
	rootCmd.AddCommand(cmd.NewQuitCmd())
	rootCmd.AddCommand(cmd.NewGenManCmd(rootCmd))
}
