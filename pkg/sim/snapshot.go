package sim

import (
	"github.com/matzehuels/snowball/pkg/layout"
)

// WeightEntry is a stored weight between two nodes, with A < B.
type WeightEntry struct {
	A      uint64  `json:"a"`
	B      uint64  `json:"b"`
	Weight float64 `json:"weight"`
}

// Snapshot is the state of a system between ticks.
type Snapshot struct {
	Step    int           `json:"step"`
	Size    float64       `json:"size"`
	Nodes   []layout.Node `json:"nodes"`
	Weights []WeightEntry `json:"weights"`
}

// Snapshot captures the current nodes and every non-default weight.
// Weights are listed pairwise in node insertion order.
func (s *System) Snapshot() Snapshot {
	snap := Snapshot{Step: s.step, Size: s.size, Nodes: s.Nodes()}
	keys := s.graph.Keys()
	for i, a := range keys {
		for _, b := range keys[i+1:] {
			w := s.graph.Weight(a, b)
			if w == 0 {
				continue
			}
			lo, hi := a, b
			if hi < lo {
				lo, hi = hi, lo
			}
			snap.Weights = append(snap.Weights, WeightEntry{A: lo, B: hi, Weight: w})
		}
	}
	return snap
}

// Weight returns the weight between a and b recorded in the snapshot.
func (s Snapshot) Weight(a, b uint64) float64 {
	if b < a {
		a, b = b, a
	}
	for _, e := range s.Weights {
		if e.A == a && e.B == b {
			return e.Weight
		}
	}
	return 0
}
