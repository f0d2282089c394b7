package cli

import (
	"errors"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("smoothslide")
		viper.SetConfigType("toml")
		viper.AddConfigPath("$HOME/.config/smoothslide")
		viper.AddConfigPath("/etc/xdg/smoothslide")
	}

	setDefaults()

	viper.SetEnvPrefix("smoothslide")
	viper.AutomaticEnv() // read environment variables that match

	err := viper.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		log.Debug("No config file found, using defaults")
		return
	}
	cobra.CheckErr(err)
}

func setDefaults() {
	viper.SetDefault("slides", "~/slides")
	viper.SetDefault("autostart", false)
	viper.SetDefault("start_index", 0)
	viper.SetDefault("steady_time", 3000)
	viper.SetDefault("update_time", 20)
	viper.SetDefault("input_poll_time", 200)
	viper.SetDefault("transitions", []string{"fold", "fade", "zoom-out", "zoom-in", "rotate-bottom-left", "rotate-top-left"})
	viper.SetDefault("scale_mode", "fit")
	viper.SetDefault("background", "#ffffff")
	viper.SetDefault("viewing_distance", 20.0)
	viper.SetDefault("display.framebuffer", "/dev/fb0")
	viper.SetDefault("display.width", 0)
	viper.SetDefault("display.height", 0)
	viper.SetDefault("input.enabled", true)
	viper.SetDefault("input.dir", "/dev/input/by-id")
	viper.SetDefault("input.mouse", false)
	viper.SetDefault("socket", "")
	viper.SetDefault("debug", false)
}
