package render

import (
	"fmt"
	"image/color"
	"math"
)

// Shared drawing constants.
const (
	// NodeRadius is the radius of a drawn node in pixels.
	NodeRadius = 10
	// EdgeWidth is the stroke width of a drawn edge in pixels.
	EdgeWidth = 1
	// WeightThreshold is the smallest weight drawn as an edge.
	WeightThreshold = 1
)

// Background is the canvas colour.
var Background = color.RGBA{R: 238, G: 232, B: 213, A: 255}

// Weight colours range over log2(weight) in [weightLow, weightHigh].
const (
	weightLow  = 5
	weightHigh = 15
)

// WeightColour maps an edge weight to a colour ranging from blue for light
// weights (32 and below) to red for heavy ones (32768 and above), on a log
// scale.
func WeightColour(w float64) color.RGBA {
	t := math.Log2(w)
	if math.IsNaN(t) {
		t = weightLow
	}
	t = (min(max(t, weightLow), weightHigh) - weightLow) / (weightHigh - weightLow)
	return color.RGBA{R: uint8(t*255 + 0.5), B: uint8((1-t)*255 + 0.5), A: 255}
}

// Hex formats c as #rrggbb.
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
