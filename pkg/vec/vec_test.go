package vec

import (
	"math"
	"math/rand/v2"
	"testing"
)

func TestArithmetic(t *testing.T) {
	a := New(3, 4)
	b := New(1, -2)

	if got := a.Add(b); got != New(4, 2) {
		t.Errorf("Add = %v, want (4, 2)", got)
	}
	if got := a.Sub(b); got != New(2, 6) {
		t.Errorf("Sub = %v, want (2, 6)", got)
	}
	if got := a.Scale(0.5); got != New(1.5, 2) {
		t.Errorf("Scale = %v, want (1.5, 2)", got)
	}
	if got := a.Neg(); got != New(-3, -4) {
		t.Errorf("Neg = %v, want (-3, -4)", got)
	}
	if got := a.Length(); got != 5 {
		t.Errorf("Length = %v, want 5", got)
	}
	if got := a.Distance(New(0, 0)); got != 5 {
		t.Errorf("Distance = %v, want 5", got)
	}
}

func TestUnit(t *testing.T) {
	u, ok := New(0, 10).Unit()
	if !ok || u != New(0, 1) {
		t.Errorf("Unit = %v, %v; want (0, 1), true", u, ok)
	}

	if u, ok := Zero.Unit(); ok || u != Zero {
		t.Errorf("Zero.Unit = %v, %v; want zero, false", u, ok)
	}
}

func TestIsFinite(t *testing.T) {
	if !New(1, 2).IsFinite() {
		t.Error("(1, 2) should be finite")
	}
	if New(math.NaN(), 0).IsFinite() {
		t.Error("NaN component should not be finite")
	}
	if New(0, math.Inf(1)).IsFinite() {
		t.Error("Inf component should not be finite")
	}
}

func TestRandomUnit(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 100; i++ {
		v := RandomUnit(rng)
		if d := math.Abs(v.Length() - 1); d > 1e-12 {
			t.Fatalf("RandomUnit length off by %g", d)
		}
	}

	// Same seed, same sequence.
	a := RandomUnit(rand.New(rand.NewPCG(7, 7)))
	b := RandomUnit(rand.New(rand.NewPCG(7, 7)))
	if a != b {
		t.Errorf("RandomUnit not reproducible: %v != %v", a, b)
	}
}
