package palette

import (
	"bytes"
	"errors"
	"image/color"
	"image/gif"
	"testing"

	"github.com/matzehuels/snowball/pkg/sim"
	"github.com/matzehuels/snowball/pkg/vec"
)

func TestAddNodePalette(t *testing.T) {
	m := NewImage(10)
	a, _ := m.AddNode(color.RGBA{R: 1, A: 255})
	b, _ := m.AddNode(color.RGBA{G: 1, A: 255})
	c, _ := m.AddNode(color.RGBA{R: 1, A: 255})
	if a != 1 || b != 2 || c != 1 {
		t.Errorf("indices = %d, %d, %d; want 1, 2, 1", a, b, c)
	}
	if len(m.Palette()) != 3 {
		t.Errorf("len(Palette()) = %d, want 3", len(m.Palette()))
	}
}

func TestPaletteFull(t *testing.T) {
	m := NewImage(10)
	for i := range 255 {
		if _, err := m.AddNode(color.RGBA{R: uint8(i), G: 1, A: 255}); err != nil {
			t.Fatalf("colour %d: %v", i, err)
		}
	}
	if _, err := m.AddNode(color.RGBA{B: 9, A: 255}); !errors.Is(err, ErrPaletteFull) {
		t.Errorf("AddNode() = %v, want ErrPaletteFull", err)
	}
}

func TestEncode(t *testing.T) {
	m := NewImage(100, WithWorkers(3))
	sys, err := sim.New(sim.WithSize(100), sim.WithObservers(m))
	if err != nil {
		t.Fatal(err)
	}
	_ = sys.AddNode(1, color.RGBA{R: 200, A: 255})
	if err := sys.ManySteps(6); err != nil {
		t.Fatal(err)
	}
	if m.Frames() != 6 {
		t.Fatalf("Frames() = %d, want 6", m.Frames())
	}

	var buf bytes.Buffer
	if err := m.Encode(&buf); err != nil {
		t.Fatal(err)
	}
	anim, err := gif.DecodeAll(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(anim.Image) != 6 {
		t.Fatalf("decoded %d frames, want 6", len(anim.Image))
	}
	for i, d := range anim.Delay {
		if d != DefaultDelay {
			t.Errorf("frame %d delay = %d, want %d", i, d, DefaultDelay)
		}
	}
	n, _ := sys.Node(1)
	last := anim.Image[5]
	if idx := last.ColorIndexAt(int(n.Position.X), int(n.Position.Y)); idx != 1 {
		t.Errorf("node pixel index = %d, want 1", idx)
	}
	if idx := last.ColorIndexAt(0, 0); idx != 0 {
		t.Errorf("corner index = %d, want background 0", idx)
	}
}

func TestRasteriseClipsEdges(t *testing.T) {
	m := NewImage(30)
	i, _ := m.AddNode(color.RGBA{G: 200, A: 255})
	m.Place(i, vec.New(-5, 28))
	m.Place(i, vec.New(29, 2))
	m.NextFrame()
	img := m.rasterise(m.frames[0])
	if img.ColorIndexAt(5, 28) != i {
		t.Error("node clipped at the left edge was not drawn")
	}
	if img.ColorIndexAt(29, 2) != i {
		t.Error("node clipped at the right edge was not drawn")
	}
}

func TestEncodeEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := NewImage(8).Encode(&buf); err != nil {
		t.Fatal(err)
	}
	anim, err := gif.DecodeAll(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(anim.Image) != 1 {
		t.Errorf("decoded %d frames, want 1", len(anim.Image))
	}
}

func TestObserveUnknownMove(t *testing.T) {
	if err := NewImage(8).Observe(sim.Event{Kind: sim.NodeMoved, ID: 4}); err == nil {
		t.Error("Observe() accepted a move of an unregistered node")
	}
}

func TestObserveEvery(t *testing.T) {
	m := NewImage(40, WithEvery(3))
	if err := m.Observe(sim.Event{Kind: sim.NodeAdded, ID: 1, Colour: color.RGBA{B: 200, A: 255}}); err != nil {
		t.Fatal(err)
	}
	for step := 1; step <= 7; step++ {
		if err := m.Observe(sim.Event{Kind: sim.NodeMoved, ID: 1, Position: vec.New(20, 20)}); err != nil {
			t.Fatal(err)
		}
		if err := m.Observe(sim.Event{Kind: sim.StepDone, Step: step}); err != nil {
			t.Fatal(err)
		}
	}
	if m.Frames() != 2 {
		t.Errorf("Frames() = %d, want 2 (steps 3 and 6)", m.Frames())
	}
	for _, f := range m.frames {
		if len(f) != 1 {
			t.Errorf("kept frame holds %d placements, want 1", len(f))
		}
	}
}
