package graph

import (
	"errors"
	"slices"
	"testing"
)

type item struct {
	id   int
	name string
}

func (i item) Key() int { return i.id }

func newGraph(ids ...int) *Graph[int, item, float64] {
	g := New[int, item, float64]()
	for _, id := range ids {
		g.AddNode(item{id: id})
	}
	return g
}

func TestAddNode(t *testing.T) {
	g := newGraph(3, 1, 2)
	if g.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", g.Len())
	}
	if got, want := g.Keys(), []int{3, 1, 2}; !slices.Equal(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}

	g.MustSetWeight(1, 2, 5)
	g.AddNode(item{id: 1, name: "replaced"})
	if g.Len() != 3 {
		t.Errorf("Len() after replace = %d, want 3", g.Len())
	}
	n, ok := g.Node(1)
	if !ok || n.name != "replaced" {
		t.Errorf("Node(1) = %+v, %v, want replaced", n, ok)
	}
	if got, want := g.Keys(), []int{3, 1, 2}; !slices.Equal(got, want) {
		t.Errorf("Keys() after replace = %v, want %v", got, want)
	}
	if w := g.Weight(1, 2); w != 5 {
		t.Errorf("Weight(1,2) after replace = %v, want 5", w)
	}
}

func TestNodeMut(t *testing.T) {
	g := newGraph(1)
	p, ok := g.NodeMut(1)
	if !ok {
		t.Fatal("NodeMut(1) not found")
	}
	p.name = "mutated"
	if n, _ := g.Node(1); n.name != "mutated" {
		t.Errorf("Node(1).name = %q, want mutated", n.name)
	}
	if _, ok := g.NodeMut(9); ok {
		t.Error("NodeMut(9) should not be found")
	}
}

func TestSetWeight(t *testing.T) {
	tests := []struct {
		name    string
		a, b    int
		wantErr error
	}{
		{"Valid", 1, 2, nil},
		{"MissingFirst", 9, 2, ErrMissingNode},
		{"MissingSecond", 1, 9, ErrMissingNode},
		{"MissingBoth", 8, 9, ErrMissingNode},
		{"SelfEdge", 1, 1, ErrSelfEdge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGraph(1, 2)
			_, err := g.SetWeight(tt.a, tt.b, 3)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("SetWeight() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil && g.Weight(1, 2) != 0 {
				t.Error("failed SetWeight modified the graph")
			}
		})
	}
}

func TestSetWeightReturnsPrevious(t *testing.T) {
	g := newGraph(1, 2)
	prev, err := g.SetWeight(1, 2, 50)
	if err != nil || prev != 0 {
		t.Fatalf("first SetWeight = %v, %v, want 0, nil", prev, err)
	}
	prev, err = g.SetWeight(2, 1, 70)
	if err != nil || prev != 50 {
		t.Fatalf("second SetWeight = %v, %v, want 50, nil", prev, err)
	}
}

func TestWeightSymmetricAndTotal(t *testing.T) {
	g := newGraph(1, 2, 3)
	g.MustSetWeight(1, 2, 50)
	g.MustSetWeight(3, 2, 7)

	pairs := [][2]int{{1, 2}, {2, 3}, {1, 3}, {1, 1}, {1, 42}, {40, 42}}
	for _, p := range pairs {
		if g.Weight(p[0], p[1]) != g.Weight(p[1], p[0]) {
			t.Errorf("Weight(%d,%d) != Weight(%d,%d)", p[0], p[1], p[1], p[0])
		}
	}
	if w := g.Weight(1, 3); w != 0 {
		t.Errorf("unset Weight(1,3) = %v, want 0", w)
	}
	if w := g.Weight(1, 42); w != 0 {
		t.Errorf("absent Weight(1,42) = %v, want 0", w)
	}
	if w := g.Weight(1, 1); w != 0 {
		t.Errorf("self Weight(1,1) = %v, want 0", w)
	}
}

func TestMustSetWeightPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustSetWeight on a missing node did not panic")
		}
	}()
	newGraph(1).MustSetWeight(1, 2, 1)
}

func TestEdges(t *testing.T) {
	g := newGraph(1, 2, 3, 4)
	g.MustSetWeight(1, 3, 9)

	var keys []int
	var weights []float64
	for n, w := range g.Edges(1) {
		keys = append(keys, n.id)
		weights = append(weights, w)
	}
	if want := []int{2, 3, 4}; !slices.Equal(keys, want) {
		t.Errorf("Edges(1) keys = %v, want %v", keys, want)
	}
	if want := []float64{0, 9, 0}; !slices.Equal(weights, want) {
		t.Errorf("Edges(1) weights = %v, want %v", weights, want)
	}

	count := 0
	for range g.Edges(1) {
		count++
		break
	}
	if count != 1 {
		t.Errorf("early break yielded %d, want 1", count)
	}
}

func TestRemoveNode(t *testing.T) {
	g := newGraph(1, 2, 3)
	g.MustSetWeight(1, 2, 5)
	g.MustSetWeight(2, 3, 6)

	n, ok := g.RemoveNode(2)
	if !ok || n.id != 2 {
		t.Fatalf("RemoveNode(2) = %+v, %v", n, ok)
	}
	if g.Has(2) {
		t.Error("node 2 still present")
	}
	if _, ok := g.RemoveNode(2); ok {
		t.Error("second RemoveNode(2) reported success")
	}
	if got, want := g.Keys(), []int{1, 3}; !slices.Equal(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}

	// Re-adding the key must not resurrect old weights.
	g.AddNode(item{id: 2})
	if w := g.Weight(1, 2); w != 0 {
		t.Errorf("Weight(1,2) after re-add = %v, want 0", w)
	}
	if w := g.Weight(3, 2); w != 0 {
		t.Errorf("Weight(3,2) after re-add = %v, want 0", w)
	}
}

func TestClone(t *testing.T) {
	g := newGraph(1, 2)
	g.MustSetWeight(1, 2, 4)
	c := g.Clone()
	c.MustSetWeight(1, 2, 8)
	c.AddNode(item{id: 3})
	if g.Weight(1, 2) != 4 || g.Len() != 2 {
		t.Error("mutating the clone changed the original")
	}
	if c.Weight(2, 1) != 8 || c.Len() != 3 {
		t.Error("clone did not take mutations")
	}
}
