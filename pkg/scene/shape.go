package scene

import (
	"encoding/json"
	"fmt"
)

// Shape kinds as they appear in the "type" field of the JSON encoding.
const (
	KindEllipse = "ellipse"
	KindRect    = "rect"
	KindLine    = "line"
	KindFill    = "fill"
	KindStroke  = "stroke"
)

// Shape is one element of a layer: a geometry or a style.
type Shape interface {
	Kind() string
}

// Ellipse is an ellipse centred on Position with the given width and height.
type Ellipse struct {
	Position Prop[Coords] `json:"position"`
	Size     Prop[Coords] `json:"size"`
}

// Rect is a rectangle centred on Position with corner radius Roundness.
type Rect struct {
	Position  Prop[Coords] `json:"position"`
	Size      Prop[Coords] `json:"size"`
	Roundness Prop[int]    `json:"roundness"`
}

// Line is an open two-point path.
type Line struct {
	Segment Prop[Segment] `json:"segment"`
}

// Fill paints the layer's geometry. Opacity is a percentage, 0 to 100.
type Fill struct {
	Colour  Prop[Colour] `json:"colour"`
	Opacity Prop[int]    `json:"opacity"`
}

// Stroke outlines the layer's geometry with a line Width pixels wide.
// Opacity is a percentage, 0 to 100.
type Stroke struct {
	Colour  Prop[Colour] `json:"colour"`
	Opacity Prop[int]    `json:"opacity"`
	Width   Prop[int]    `json:"width"`
}

func (Ellipse) Kind() string { return KindEllipse }
func (Rect) Kind() string    { return KindRect }
func (Line) Kind() string    { return KindLine }
func (Fill) Kind() string    { return KindFill }
func (Stroke) Kind() string  { return KindStroke }

// marshalShape encodes s with its kind in a leading "type" field.
func marshalShape(s Shape) ([]byte, error) {
	type ellipse Ellipse
	type rect Rect
	type line Line
	type fill Fill
	type stroke Stroke

	var v any
	switch s := s.(type) {
	case Ellipse:
		v = struct {
			Type string `json:"type"`
			ellipse
		}{KindEllipse, ellipse(s)}
	case Rect:
		v = struct {
			Type string `json:"type"`
			rect
		}{KindRect, rect(s)}
	case Line:
		v = struct {
			Type string `json:"type"`
			line
		}{KindLine, line(s)}
	case Fill:
		v = struct {
			Type string `json:"type"`
			fill
		}{KindFill, fill(s)}
	case Stroke:
		v = struct {
			Type string `json:"type"`
			stroke
		}{KindStroke, stroke(s)}
	default:
		return nil, fmt.Errorf("unsupported shape %T", s)
	}
	return json.Marshal(v)
}

func unmarshalShape(data []byte) (Shape, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, err
	}
	var (
		s   Shape
		err error
	)
	switch head.Type {
	case KindEllipse:
		var v Ellipse
		err = json.Unmarshal(data, &v)
		s = v
	case KindRect:
		var v Rect
		err = json.Unmarshal(data, &v)
		s = v
	case KindLine:
		var v Line
		err = json.Unmarshal(data, &v)
		s = v
	case KindFill:
		var v Fill
		err = json.Unmarshal(data, &v)
		s = v
	case KindStroke:
		var v Stroke
		err = json.Unmarshal(data, &v)
		s = v
	default:
		return nil, fmt.Errorf("unknown shape type %q", head.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", head.Type, err)
	}
	return s, nil
}
