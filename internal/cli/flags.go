package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

func RegisterFlags(rootCmd *cobra.Command) {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/smoothslide/smoothslide.toml)")
	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))

	rootCmd.PersistentFlags().String("socket", "", "control socket (default is $XDG_RUNTIME_DIR/smoothslide.sock)")
	viper.BindPFlag("socket", rootCmd.PersistentFlags().Lookup("socket"))

	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))

	rootCmd.Flags().StringP("dir", "d", "", "Directory containing the slides")
	viper.BindPFlag("slides", rootCmd.Flags().Lookup("dir"))

	rootCmd.Flags().BoolP("go", "g", false, "Start the slideshow immediately")
	viper.BindPFlag("autostart", rootCmd.Flags().Lookup("go"))

	rootCmd.Flags().IntP("start", "s", 0, "Index of the first slide")
	viper.BindPFlag("start_index", rootCmd.Flags().Lookup("start"))

	rootCmd.Flags().BoolP("installconfig", "i", false, "Install a default config file")
	rootCmd.Flags().Bool("show-config", false, "Dump resolved config")
	rootCmd.Flags().BoolP("background", "b", false, "Run as a daemon")
	rootCmd.Flags().BoolP("version", "v", false, "Print version")
	rootCmd.PersistentFlags().BoolP("help", "h", false, "Print usage")
}
