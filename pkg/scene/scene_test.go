package scene

import (
	"bytes"
	"encoding/json"
	"image/color"
	"reflect"
	"testing"

	"github.com/matzehuels/snowball/pkg/vec"
)

func sampleDocument() Document {
	return Document{
		FrameRate: 60,
		Width:     100,
		Height:    100,
		End:       5,
		Layers: []Layer{{
			In:  0,
			Out: 5,
			Shapes: []Shape{
				Ellipse{
					Position: Animate(Keyframe[Coords]{0, Coords{1, 2}}),
					Size:     Static(Coords{20, 20}),
				},
				Fill{Colour: Static(Colour{1, 0, 0}), Opacity: Static(100)},
			},
		}},
	}
}

func TestDocumentJSON(t *testing.T) {
	got, err := json.Marshal(sampleDocument())
	if err != nil {
		t.Fatal(err)
	}
	want := `{"frameRate":60,"startFrame":0,"endFrame":5,"width":100,"height":100,"layers":[` +
		`{"inPoint":0,"outPoint":5,"startTime":0,"shapes":[` +
		`{"type":"ellipse","position":{"animated":true,"keyframes":[{"time":0,"value":[1,2]}]},"size":{"animated":false,"value":[20,20]}},` +
		`{"type":"fill","colour":{"animated":false,"value":[1,0,0]},"opacity":{"animated":false,"value":100}}]}]}`
	if string(got) != want {
		t.Errorf("Marshal() =\n%s\nwant\n%s", got, want)
	}
}

func TestEmptyDocumentJSON(t *testing.T) {
	got, err := json.Marshal(Document{FrameRate: 30})
	if err != nil {
		t.Fatal(err)
	}
	want := `{"frameRate":30,"startFrame":0,"endFrame":0,"width":0,"height":0,"layers":[]}`
	if string(got) != want {
		t.Errorf("Marshal() = %s, want %s", got, want)
	}
}

func TestReadWrite(t *testing.T) {
	doc := sampleDocument()
	doc.Layers = append(doc.Layers, Layer{
		In:  2,
		Out: 4,
		Shapes: []Shape{
			Line{Segment: Static(Segment{From: Coords{0, 0}, To: Coords{3, 4}})},
			Rect{Position: Static(Coords{5, 5}), Size: Static(Coords{10, 10}), Roundness: Static(2)},
			Stroke{Colour: Static(Colour{0, 0.5, 1}), Opacity: Static(50), Width: Animate(Keyframe[int]{2, 1}, Keyframe[int]{3, 4})},
		},
	})

	var buf bytes.Buffer
	if err := Write(&buf, doc); err != nil {
		t.Fatal(err)
	}
	got, err := Read(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, doc) {
		t.Errorf("Read(Write(doc)) =\n%+v\nwant\n%+v", got, doc)
	}
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"NotJSON", `nope`},
		{"UnknownShape", `{"layers":[{"shapes":[{"type":"star"}]}]}`},
		{"BadCoords", `{"layers":[{"shapes":[{"type":"ellipse","position":{"animated":false,"value":"x"}}]}]}`},
		{"MissingValue", `{"layers":[{"shapes":[{"type":"fill","opacity":{"animated":false}}]}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Read(bytes.NewBufferString(tt.input)); err == nil {
				t.Error("Read() succeeded, want error")
			}
		})
	}
}

func TestPropAt(t *testing.T) {
	p := Animate(Keyframe[int]{3, 10}, Keyframe[int]{5, 20}, Keyframe[int]{9, 30})
	tests := []struct {
		time, want int
	}{
		{0, 10}, {3, 10}, {4, 10}, {5, 20}, {8, 20}, {9, 30}, {100, 30},
	}
	for _, tt := range tests {
		if got := p.At(tt.time); got != tt.want {
			t.Errorf("At(%d) = %d, want %d", tt.time, got, tt.want)
		}
	}
	if got := Static(7).At(1000); got != 7 {
		t.Errorf("Static(7).At() = %d", got)
	}
	if got := Animate[int]().At(1); got != 0 {
		t.Errorf("empty At() = %d, want 0", got)
	}
}

func TestCoordsOf(t *testing.T) {
	tests := []struct {
		in   vec.Vec2
		want Coords
	}{
		{vec.New(1.9, 2.1), Coords{1, 2}},
		{vec.New(-1.9, -0.5), Coords{-1, 0}},
		{vec.New(500, 499.999), Coords{500, 499}},
	}
	for _, tt := range tests {
		if got := CoordsOf(tt.in); got != tt.want {
			t.Errorf("CoordsOf(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestColour(t *testing.T) {
	in := color.RGBA{R: 181, G: 137, B: 0, A: 255}
	c := ColourOf(in)
	if c.B != 0 || c.R <= 0.7 || c.R >= 0.72 {
		t.Errorf("ColourOf() = %+v", c)
	}
	if got := c.RGBA(); got != in {
		t.Errorf("RGBA() = %v, want %v", got, in)
	}
	if got := (Colour{2, -1, 0.5}).RGBA(); got != (color.RGBA{255, 0, 128, 255}) {
		t.Errorf("clamped RGBA() = %v", got)
	}
}

func TestLayerHelpers(t *testing.T) {
	l := sampleDocument().Layers[0]
	if _, ok := l.Geometry().(Ellipse); !ok {
		t.Errorf("Geometry() = %T, want Ellipse", l.Geometry())
	}
	f, ok := l.Fill()
	if !ok || f.Opacity.Value != 100 {
		t.Errorf("Fill() = %+v, %v", f, ok)
	}
	if got := l.Keyframes(); got != 4 {
		t.Errorf("Keyframes() = %d, want 4", got)
	}
	if (Layer{}).Geometry() != nil {
		t.Error("empty layer has geometry")
	}
}
