package scene

import (
	"encoding/json"
	"fmt"
	"image/color"

	"github.com/matzehuels/snowball/pkg/vec"
)

// Coords is a point or size on the integer pixel grid.
type Coords struct {
	X, Y int
}

// CoordsOf truncates v toward zero onto the pixel grid.
func CoordsOf(v vec.Vec2) Coords {
	return Coords{X: int(v.X), Y: int(v.Y)}
}

// Vec returns c as a float vector.
func (c Coords) Vec() vec.Vec2 { return vec.New(float64(c.X), float64(c.Y)) }

func (c Coords) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{c.X, c.Y})
}

func (c *Coords) UnmarshalJSON(data []byte) error {
	var xy [2]int
	if err := json.Unmarshal(data, &xy); err != nil {
		return fmt.Errorf("coords: %w", err)
	}
	c.X, c.Y = xy[0], xy[1]
	return nil
}

// Colour is an RGB colour with channels in [0, 1].
type Colour struct {
	R, G, B float64
}

// ColourOf converts an 8-bit colour, ignoring alpha.
func ColourOf(c color.RGBA) Colour {
	return Colour{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// RGBA converts c back to an opaque 8-bit colour.
func (c Colour) RGBA() color.RGBA {
	return color.RGBA{R: channel(c.R), G: channel(c.G), B: channel(c.B), A: 255}
}

func channel(v float64) uint8 {
	return uint8(min(max(v, 0), 1)*255 + 0.5)
}

func (c Colour) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]float64{c.R, c.G, c.B})
}

func (c *Colour) UnmarshalJSON(data []byte) error {
	var rgb [3]float64
	if err := json.Unmarshal(data, &rgb); err != nil {
		return fmt.Errorf("colour: %w", err)
	}
	c.R, c.G, c.B = rgb[0], rgb[1], rgb[2]
	return nil
}

// Segment is a straight path between two points.
type Segment struct {
	From Coords `json:"from"`
	To   Coords `json:"to"`
}
