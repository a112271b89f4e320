package trajectory_test

import (
	"errors"
	"image/color"
	"testing"

	"github.com/matzehuels/snowball/pkg/sim"
	"github.com/matzehuels/snowball/pkg/trajectory"
)

func TestObserveSystem(t *testing.T) {
	rec := trajectory.NewRecorder()
	sys, err := sim.New(sim.WithSeed(7), sim.WithObservers(rec))
	if err != nil {
		t.Fatal(err)
	}
	colour := color.RGBA{R: 181, G: 137, A: 255}
	for id := range uint64(3) {
		if err := sys.AddNode(id, colour); err != nil {
			t.Fatal(err)
		}
	}
	if err := sys.SetWeight(0, 1, 50); err != nil {
		t.Fatal(err)
	}
	if err := sys.ManySteps(40); err != nil {
		t.Fatal(err)
	}
	if err := sys.RemoveNode(2); err != nil {
		t.Fatal(err)
	}
	if err := sys.ManySteps(10); err != nil {
		t.Fatal(err)
	}

	if rec.Step() != sys.Steps() {
		t.Fatalf("recorder at tick %d, system at %d", rec.Step(), sys.Steps())
	}
	stats := rec.Stats()
	if stats.Open != 2 || stats.Closed != 1 {
		t.Errorf("Stats() = %+v, want 2 open and 1 closed", stats)
	}
	doc := rec.Render()
	if len(doc.Layers) != 3 {
		t.Fatalf("len(Layers) = %d, want 3", len(doc.Layers))
	}
	if removed := doc.Layers[0]; removed.Out != 40 {
		t.Errorf("removed node layer ends at %d, want 40", removed.Out)
	}
	for _, l := range doc.Layers[1:] {
		if l.In != 0 || l.Out != 50 {
			t.Errorf("live layer [%d, %d), want [0, 50)", l.In, l.Out)
		}
	}
}

func TestObserveFailsFast(t *testing.T) {
	rec := trajectory.NewRecorder()
	// Registering the node behind the system's back makes its add event a
	// duplicate.
	_ = rec.AddNode(1, color.RGBA{})
	sys, _ := sim.New(sim.WithObservers(rec))
	err := sys.AddNode(1, color.RGBA{})
	if !errors.Is(err, trajectory.ErrDuplicateNode) {
		t.Errorf("AddNode() error = %v, want ErrDuplicateNode", err)
	}
}
