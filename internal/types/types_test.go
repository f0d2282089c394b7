package types

import (
	"image/color"
	"testing"
)

func TestParseScalingMode(t *testing.T) {
	tests := []struct {
		in      string
		want    ScalingMode
		wantErr bool
	}{
		{"", ScalingModeFit, false},
		{"fit", ScalingModeFit, false},
		{"fill", ScalingModeFill, false},
		{"stretch", ScalingModeStretch, false},
		{"center", "", true},
	}
	for _, tt := range tests {
		got, err := ParseScalingMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseScalingMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseScalingMode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.RGBA
		wantErr bool
	}{
		{"", color.RGBA{255, 255, 255, 255}, false},
		{"#000000", color.RGBA{0, 0, 0, 255}, false},
		{"#1a2B3c", color.RGBA{0x1a, 0x2b, 0x3c, 255}, false},
		{"f80", color.RGBA{0xff, 0x88, 0x00, 255}, false},
		{"#12345", color.RGBA{}, true},
		{"#zzzzzz", color.RGBA{}, true},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseColor(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
