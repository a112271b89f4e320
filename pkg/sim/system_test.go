package sim

import (
	"errors"
	"image/color"
	"math"
	"testing"

	"github.com/matzehuels/snowball/pkg/graph"
	"github.com/matzehuels/snowball/pkg/layout"
	"github.com/matzehuels/snowball/pkg/vec"
)

type eventLog struct {
	events []Event
}

func (l *eventLog) Observe(ev Event) error {
	l.events = append(l.events, ev)
	return nil
}

func script(t *testing.T, opts ...Option) []Event {
	t.Helper()
	var log eventLog
	sys, err := New(append(opts, WithObservers(&log))...)
	if err != nil {
		t.Fatal(err)
	}
	for id := range uint64(5) {
		if err := sys.AddNode(id, color.RGBA{R: uint8(id), A: 255}); err != nil {
			t.Fatal(err)
		}
	}
	steps := func(n int) {
		if err := sys.ManySteps(n); err != nil {
			t.Fatal(err)
		}
	}
	steps(50)
	for _, w := range []struct {
		a, b uint64
		w    float64
	}{{0, 1, 50}, {1, 2, 200}, {2, 4, 5000}} {
		if err := sys.SetWeight(w.a, w.b, w.w); err != nil {
			t.Fatal(err)
		}
		steps(30)
	}
	if err := sys.RemoveNode(3); err != nil {
		t.Fatal(err)
	}
	steps(30)
	return log.events
}

func TestDeterminism(t *testing.T) {
	base := script(t, WithSeed(99))
	runs := map[string][]Event{
		"SameSeed":  script(t, WithSeed(99)),
		"Workers4":  script(t, WithSeed(99), WithWorkers(4)),
		"SharedRNG": script(t, WithRand(NewRand(99))),
	}
	for name, got := range runs {
		t.Run(name, func(t *testing.T) {
			if len(got) != len(base) {
				t.Fatalf("%d events, want %d", len(got), len(base))
			}
			for i := range base {
				if got[i] != base[i] {
					t.Fatalf("event %d = %+v, want %+v", i, got[i], base[i])
				}
			}
		})
	}

	other := script(t, WithSeed(100))
	if other[0].Position == base[0].Position {
		t.Error("different seeds placed the first node identically")
	}
}

func TestStepEvents(t *testing.T) {
	var log eventLog
	sys, _ := New(WithObservers(&log))
	_ = sys.AddNode(4, color.RGBA{})
	_ = sys.AddNode(2, color.RGBA{})
	log.events = nil

	if err := sys.Step(); err != nil {
		t.Fatal(err)
	}
	kinds := []EventKind{NodeMoved, NodeMoved, StepDone}
	ids := []uint64{4, 2, 0}
	if len(log.events) != len(kinds) {
		t.Fatalf("events = %+v", log.events)
	}
	for i, ev := range log.events {
		if ev.Kind != kinds[i] || ev.ID != ids[i] {
			t.Errorf("event %d = %s/%d, want %s/%d", i, ev.Kind, ev.ID, kinds[i], ids[i])
		}
	}
	if log.events[0].Step != 0 || log.events[2].Step != 1 {
		t.Errorf("moved at step %d, done at step %d; want 0 and 1", log.events[0].Step, log.events[2].Step)
	}
	if sys.Steps() != 1 {
		t.Errorf("Steps() = %d, want 1", sys.Steps())
	}
}

func TestAddNodeJitter(t *testing.T) {
	sys, _ := New(WithSize(200), WithJitter(3))
	_ = sys.AddNode(1, color.RGBA{G: 9, A: 255})
	n, ok := sys.Node(1)
	if !ok {
		t.Fatal("node 1 missing")
	}
	if d := n.Position.Distance(vec.New(100, 100)); math.Abs(d-3) > 1e-9 {
		t.Errorf("distance from centre = %v, want 3", d)
	}
	if n.Colour.G != 9 {
		t.Errorf("Colour = %v", n.Colour)
	}
}

func TestSystemErrors(t *testing.T) {
	sys, _ := New()
	_ = sys.AddNode(1, color.RGBA{})

	if err := sys.AddNode(1, color.RGBA{}); !errors.Is(err, ErrDuplicateNode) {
		t.Errorf("AddNode(dup) = %v, want ErrDuplicateNode", err)
	}
	if err := sys.RemoveNode(2); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("RemoveNode(2) = %v, want ErrUnknownNode", err)
	}
	if err := sys.SetWeight(1, 2, 5); !errors.Is(err, graph.ErrMissingNode) {
		t.Errorf("SetWeight(1,2) = %v, want ErrMissingNode", err)
	}
	if err := sys.SetWeight(1, 1, 5); !errors.Is(err, graph.ErrSelfEdge) {
		t.Errorf("SetWeight(1,1) = %v, want ErrSelfEdge", err)
	}
}

func TestNewErrors(t *testing.T) {
	bad := layout.DefaultParams()
	bad.Damping = 1
	if _, err := New(WithParams(bad)); !errors.Is(err, layout.ErrInvalidParams) {
		t.Errorf("New(bad params) = %v, want ErrInvalidParams", err)
	}
	if _, err := New(WithSize(0)); err == nil {
		t.Error("New(size 0) succeeded")
	}
}

func TestObserverErrorAborts(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	sys, _ := New(WithObservers(ObserverFunc(func(ev Event) error {
		if ev.Kind == NodeMoved {
			calls++
			return boom
		}
		return nil
	})))
	_ = sys.AddNode(1, color.RGBA{})
	_ = sys.AddNode(2, color.RGBA{})

	if err := sys.ManySteps(10); !errors.Is(err, boom) {
		t.Fatalf("ManySteps() = %v, want boom", err)
	}
	if calls != 1 {
		t.Errorf("observer called %d times after failing, want 1", calls)
	}
	if sys.Steps() != 0 {
		t.Errorf("Steps() = %d, want 0", sys.Steps())
	}
}

func TestAttach(t *testing.T) {
	sys, _ := New()
	_ = sys.AddNode(1, color.RGBA{})
	var log eventLog
	sys.Attach(&log)
	_ = sys.Step()
	if len(log.events) != 2 {
		t.Errorf("late observer saw %d events, want 2", len(log.events))
	}
}

func TestSnapshot(t *testing.T) {
	sys, _ := New()
	for _, id := range []uint64{5, 1, 3} {
		_ = sys.AddNode(id, color.RGBA{})
	}
	_ = sys.SetWeight(5, 1, 10)
	_ = sys.SetWeight(3, 1, 20)
	_ = sys.ManySteps(3)

	snap := sys.Snapshot()
	if snap.Step != 3 || len(snap.Nodes) != 3 || snap.Size != DefaultSize {
		t.Fatalf("Snapshot() = %+v", snap)
	}
	if snap.Nodes[0].ID != 5 || snap.Nodes[2].ID != 3 {
		t.Errorf("nodes out of insertion order: %+v", snap.Nodes)
	}
	want := []WeightEntry{{A: 1, B: 5, Weight: 10}, {A: 1, B: 3, Weight: 20}}
	if len(snap.Weights) != len(want) {
		t.Fatalf("Weights = %+v, want %+v", snap.Weights, want)
	}
	for i := range want {
		if snap.Weights[i] != want[i] {
			t.Errorf("Weights[%d] = %+v, want %+v", i, snap.Weights[i], want[i])
		}
	}
	if snap.Weight(5, 1) != 10 || snap.Weight(3, 5) != 0 {
		t.Errorf("Snapshot.Weight lookups wrong")
	}
}

func TestEventKindString(t *testing.T) {
	if NodeMoved.String() != "node-moved" || EventKind(42).String() != "EventKind(42)" {
		t.Errorf("String() = %q, %q", NodeMoved, EventKind(42))
	}
}
