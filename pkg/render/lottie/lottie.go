// Package lottie encodes scene documents as Lottie, a JSON-based vector
// animation format.
//
// Only the subset of Lottie needed to replay recorded layouts is produced:
// shape layers containing ellipses, rectangles and two-point paths, painted
// with solid fills and strokes. Every property is either static or a list of
// hold keyframes.
//
// # Values
//
// Coordinates and sizes are integers. Colours are RGB triples in [0, 1]
// rounded to three decimals, and opacity is a percentage from 0 to 100.
// Lottie requires the value of an animated keyframe to be an array, so
// scalar and object values are wrapped in a one-element array on animated
// properties only.
package lottie

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/matzehuels/snowball/pkg/scene"
)

// shapeLayer is the Lottie layer type for vector shapes.
const shapeLayer = 4

type file struct {
	FrameRate int     `json:"fr"`
	InPoint   int     `json:"ip"`
	OutPoint  int     `json:"op"`
	Width     int     `json:"w"`
	Height    int     `json:"h"`
	Layers    []layer `json:"layers"`
}

type layer struct {
	InPoint   int               `json:"ip"`
	OutPoint  int               `json:"op"`
	StartTime int               `json:"st"`
	Transform struct{}          `json:"ks"`
	Type      int               `json:"ty"`
	Shapes    []json.RawMessage `json:"shapes"`
}

type prop struct {
	Animated int             `json:"a"`
	Value    json.RawMessage `json:"k"`
}

type ease struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type keyframe struct {
	Time  int             `json:"t"`
	In    ease            `json:"i"`
	Out   ease            `json:"o"`
	Value json.RawMessage `json:"s"`
}

type path struct {
	Closed   bool      `json:"c"`
	Vertices [2][2]int `json:"v"`
	InTan    [2][2]int `json:"i"`
	OutTan   [2][2]int `json:"o"`
}

type ellipse struct {
	Type     string `json:"ty"`
	Position prop   `json:"p"`
	Size     prop   `json:"s"`
}

type rect struct {
	Type      string `json:"ty"`
	Position  prop   `json:"p"`
	Size      prop   `json:"s"`
	Roundness prop   `json:"r"`
}

type shapePath struct {
	Type string `json:"ty"`
	Path prop   `json:"ks"`
}

type fill struct {
	Type    string `json:"ty"`
	Opacity prop   `json:"o"`
	Colour  prop   `json:"c"`
}

type stroke struct {
	Type    string `json:"ty"`
	Opacity prop   `json:"o"`
	Colour  prop   `json:"c"`
	Width   prop   `json:"w"`
}

// Encode returns the Lottie JSON for doc.
func Encode(doc scene.Document) ([]byte, error) {
	f := file{
		FrameRate: doc.FrameRate,
		OutPoint:  doc.End,
		Width:     doc.Width,
		Height:    doc.Height,
		Layers:    make([]layer, 0, len(doc.Layers)),
	}
	for i, l := range doc.Layers {
		out := layer{
			InPoint:  l.In,
			OutPoint: l.Out,
			Type:     shapeLayer,
			Shapes:   make([]json.RawMessage, 0, len(l.Shapes)),
		}
		for _, s := range l.Shapes {
			data, err := encodeShape(s)
			if err != nil {
				return nil, fmt.Errorf("layer %d: %w", i, err)
			}
			out.Shapes = append(out.Shapes, data)
		}
		f.Layers = append(f.Layers, out)
	}
	return marshal(f)
}

// Write encodes doc and writes it to w.
func Write(w io.Writer, doc scene.Document) error {
	data, err := Encode(doc)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func encodeShape(s scene.Shape) (json.RawMessage, error) {
	var (
		v   any
		err error
	)
	switch s := s.(type) {
	case scene.Ellipse:
		var e ellipse
		e.Type = "el"
		if e.Position, err = encodeProp(s.Position, coords); err != nil {
			break
		}
		e.Size, err = encodeProp(s.Size, coords)
		v = e
	case scene.Rect:
		var r rect
		r.Type = "rc"
		if r.Position, err = encodeProp(s.Position, coords); err != nil {
			break
		}
		if r.Size, err = encodeProp(s.Size, coords); err != nil {
			break
		}
		r.Roundness, err = encodeProp(s.Roundness, integer)
		v = r
	case scene.Line:
		var p shapePath
		p.Type = "sh"
		p.Path, err = encodeProp(s.Segment, segment)
		v = p
	case scene.Fill:
		var f fill
		f.Type = "fl"
		if f.Opacity, err = encodeProp(s.Opacity, integer); err != nil {
			break
		}
		f.Colour, err = encodeProp(s.Colour, colour)
		v = f
	case scene.Stroke:
		var st stroke
		st.Type = "st"
		if st.Opacity, err = encodeProp(s.Opacity, integer); err != nil {
			break
		}
		if st.Colour, err = encodeProp(s.Colour, colour); err != nil {
			break
		}
		st.Width, err = encodeProp(s.Width, integer)
		v = st
	default:
		return nil, fmt.Errorf("unsupported shape %T", s)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Kind(), err)
	}
	return marshal(v)
}

func encodeProp[T any](p scene.Prop[T], value func(T) any) (prop, error) {
	if !p.Animated {
		data, err := marshal(value(p.Value))
		return prop{Value: data}, err
	}
	kfs := make([]keyframe, 0, len(p.Keyframes))
	for _, kf := range p.Keyframes {
		data, err := marshal(value(kf.Value))
		if err != nil {
			return prop{}, err
		}
		if len(data) == 0 || data[0] != '[' {
			data = append(append([]byte{'['}, data...), ']')
		}
		kfs = append(kfs, keyframe{Time: kf.Time, In: ease{1, 1}, Value: data})
	}
	data, err := marshal(kfs)
	return prop{Animated: 1, Value: data}, err
}

func coords(c scene.Coords) any { return [2]int{c.X, c.Y} }

func integer(n int) any { return n }

func segment(s scene.Segment) any {
	return path{Vertices: [2][2]int{{s.From.X, s.From.Y}, {s.To.X, s.To.Y}}}
}

func colour(c scene.Colour) any {
	return [3]float64{round3(c.R), round3(c.G), round3(c.B)}
}

func round3(v float64) float64 { return math.Round(v*1000) / 1000 }

// marshal encodes v without HTML escaping or a trailing newline.
func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte{'\n'}), nil
}
