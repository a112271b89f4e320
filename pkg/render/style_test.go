package render

import (
	"image/color"
	"testing"
)

func TestWeightColour(t *testing.T) {
	tests := []struct {
		weight float64
		want   color.RGBA
	}{
		{0, color.RGBA{B: 255, A: 255}},
		{1, color.RGBA{B: 255, A: 255}},
		{32, color.RGBA{B: 255, A: 255}},
		{1024, color.RGBA{R: 128, B: 128, A: 255}},
		{32768, color.RGBA{R: 255, A: 255}},
		{1e9, color.RGBA{R: 255, A: 255}},
	}
	for _, tt := range tests {
		if got := WeightColour(tt.weight); got != tt.want {
			t.Errorf("WeightColour(%v) = %v, want %v", tt.weight, got, tt.want)
		}
	}
}

func TestHex(t *testing.T) {
	if got := Hex(color.RGBA{R: 181, G: 137, B: 0}); got != "#b58900" {
		t.Errorf("Hex() = %q, want #b58900", got)
	}
}
