package cmd

import (
	"fmt"
	"time"

	"github.com/matjam/smoothslide/internal/cli/cmd/utils"
	"github.com/matjam/smoothslide/internal/display/egl"
	"github.com/matjam/smoothslide/internal/slideshow"
	"github.com/matjam/smoothslide/internal/types"
	"github.com/spf13/viper"
)

// ShowConfig builds the slideshow configuration from the resolved settings.
// Keys that are unset keep their defaults.
func ShowConfig() (slideshow.Config, error) {
	cfg := slideshow.DefaultConfig()

	cfg.Dir = utils.CanonicalPath(viper.GetString("slides"))
	cfg.StartIndex = viper.GetInt("start_index")
	if cfg.StartIndex < 0 {
		return cfg, fmt.Errorf("start_index must not be negative, got %d", cfg.StartIndex)
	}

	setMillis(&cfg.SteadyTime, "steady_time")
	setMillis(&cfg.UpdateTime, "update_time")
	setMillis(&cfg.InputPollTime, "input_poll_time")

	if viper.IsSet("transitions") {
		cfg.Transitions = viper.GetStringSlice("transitions")
	}

	scale, err := types.ParseScalingMode(viper.GetString("scale_mode"))
	if err != nil {
		return cfg, err
	}
	cfg.Scale = scale

	bg, err := types.ParseColor(viper.GetString("background"))
	if err != nil {
		return cfg, fmt.Errorf("background: %w", err)
	}
	cfg.Background = bg

	if viper.IsSet("viewing_distance") {
		cfg.ViewingDistance = float32(viper.GetFloat64("viewing_distance"))
	}

	if viper.IsSet("input.enabled") {
		cfg.UseInput = viper.GetBool("input.enabled")
	}
	if dir := viper.GetString("input.dir"); dir != "" {
		cfg.Input.Dir = dir
	}
	cfg.Input.Mouse = viper.GetBool("input.mouse")

	if err := viper.UnmarshalKey("tuning", &cfg.Tuning); err != nil {
		return cfg, fmt.Errorf("tuning: %w", err)
	}

	return cfg, nil
}

// DisplayConfig selects the framebuffer and an optional fixed resolution.
func DisplayConfig() egl.Config {
	fb := viper.GetString("display.framebuffer")
	if fb == "" {
		fb = "/dev/fb0"
	}
	return egl.Config{
		Framebuffer: fb,
		Width:       viper.GetInt("display.width"),
		Height:      viper.GetInt("display.height"),
	}
}

func setMillis(d *time.Duration, key string) {
	if ms := viper.GetInt(key); ms > 0 {
		*d = time.Duration(ms) * time.Millisecond
	}
}
