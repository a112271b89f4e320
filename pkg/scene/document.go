package scene

import (
	"encoding/json"
	"fmt"
	"io"
)

// Layer is a group of shapes visible for ticks in [In, Out).
type Layer struct {
	In     int
	Out    int
	Shapes []Shape
}

// Document is a complete animation. Layers are ordered top to bottom.
type Document struct {
	FrameRate int
	Width     int
	Height    int
	// End is the last tick of the animation.
	End    int
	Layers []Layer
}

type layerJSON struct {
	InPoint   int               `json:"inPoint"`
	OutPoint  int               `json:"outPoint"`
	StartTime int               `json:"startTime"`
	Shapes    []json.RawMessage `json:"shapes"`
}

type documentJSON struct {
	FrameRate  int     `json:"frameRate"`
	StartFrame int     `json:"startFrame"`
	EndFrame   int     `json:"endFrame"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Layers     []Layer `json:"layers"`
}

func (l Layer) MarshalJSON() ([]byte, error) {
	out := layerJSON{InPoint: l.In, OutPoint: l.Out, Shapes: make([]json.RawMessage, 0, len(l.Shapes))}
	for _, s := range l.Shapes {
		data, err := marshalShape(s)
		if err != nil {
			return nil, err
		}
		out.Shapes = append(out.Shapes, data)
	}
	return json.Marshal(out)
}

func (l *Layer) UnmarshalJSON(data []byte) error {
	var in layerJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("layer: %w", err)
	}
	*l = Layer{In: in.InPoint, Out: in.OutPoint, Shapes: make([]Shape, 0, len(in.Shapes))}
	for i, raw := range in.Shapes {
		s, err := unmarshalShape(raw)
		if err != nil {
			return fmt.Errorf("layer shape %d: %w", i, err)
		}
		l.Shapes = append(l.Shapes, s)
	}
	return nil
}

func (d Document) MarshalJSON() ([]byte, error) {
	layers := d.Layers
	if layers == nil {
		layers = []Layer{}
	}
	return json.Marshal(documentJSON{
		FrameRate: d.FrameRate,
		EndFrame:  d.End,
		Width:     d.Width,
		Height:    d.Height,
		Layers:    layers,
	})
}

func (d *Document) UnmarshalJSON(data []byte) error {
	var in documentJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*d = Document{
		FrameRate: in.FrameRate,
		Width:     in.Width,
		Height:    in.Height,
		End:       in.EndFrame,
		Layers:    in.Layers,
	}
	return nil
}

// Write encodes d as indented JSON.
func Write(w io.Writer, d Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}

// Read decodes a document written by [Write].
func Read(r io.Reader) (Document, error) {
	var d Document
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return Document{}, fmt.Errorf("decode scene: %w", err)
	}
	return d, nil
}

// Geometry returns the first geometry shape of the layer, or nil.
func (l Layer) Geometry() Shape {
	for _, s := range l.Shapes {
		switch s.(type) {
		case Ellipse, Rect, Line:
			return s
		}
	}
	return nil
}

// Fill returns the first fill of the layer.
func (l Layer) Fill() (Fill, bool) {
	for _, s := range l.Shapes {
		if f, ok := s.(Fill); ok {
			return f, true
		}
	}
	return Fill{}, false
}

// Keyframes returns the number of keyframes across every animated property
// of the layer. Static properties count as one.
func (l Layer) Keyframes() int {
	n := 0
	for _, s := range l.Shapes {
		switch s := s.(type) {
		case Ellipse:
			n += count(s.Position) + count(s.Size)
		case Rect:
			n += count(s.Position) + count(s.Size) + count(s.Roundness)
		case Line:
			n += count(s.Segment)
		case Fill:
			n += count(s.Colour) + count(s.Opacity)
		case Stroke:
			n += count(s.Colour) + count(s.Opacity) + count(s.Width)
		}
	}
	return n
}

func count[T any](p Prop[T]) int {
	if p.Animated {
		return len(p.Keyframes)
	}
	return 1
}
