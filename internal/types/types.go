package types

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// ScalingMode controls how a slide is fitted onto the screen.
type ScalingMode string

const (
	ScalingModeFit     ScalingMode = "fit"     // whole image visible, aspect kept
	ScalingModeFill    ScalingMode = "fill"    // screen covered, aspect kept, edges cropped
	ScalingModeStretch ScalingMode = "stretch" // screen covered, aspect ignored
)

func ParseScalingMode(s string) (ScalingMode, error) {
	switch m := ScalingMode(s); m {
	case ScalingModeFit, ScalingModeFill, ScalingModeStretch:
		return m, nil
	case "":
		return ScalingModeFit, nil
	}
	return "", fmt.Errorf("unknown scale mode %q", s)
}

// ParseColor reads "#rrggbb" or "#rgb". An empty string is white.
func ParseColor(s string) (color.RGBA, error) {
	if s == "" {
		return color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, nil
	}
	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
