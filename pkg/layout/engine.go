package layout

import (
	"math"
	"sync"

	"github.com/matzehuels/snowball/pkg/vec"
)

// Update reports the position of a node after a tick.
type Update struct {
	ID       uint64
	Position vec.Vec2
}

// Engine steps a [Graph]. It holds no per-graph state, so one engine may
// step any number of graphs, one at a time.
type Engine struct {
	params  Params
	workers int
}

// Option configures an [Engine].
type Option func(*Engine)

// WithWorkers spreads both phases of a tick over n goroutines.
// Values below 2 step sequentially.
func WithWorkers(n int) Option { return func(e *Engine) { e.workers = n } }

// New returns an engine using p, which must be valid.
func New(p Params, opts ...Option) (*Engine, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{params: p, workers: 1}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Params returns the engine's spring model.
func (e *Engine) Params() Params { return e.params }

// Workers returns the number of goroutines used per phase.
func (e *Engine) Workers() int { return max(e.workers, 1) }

// Step advances g by one tick and returns the new position of every node,
// in the graph's iteration order.
func (e *Engine) Step(g *Graph) []Update {
	keys := g.Keys()
	if len(keys) == 0 {
		return nil
	}
	nodes := make([]*Node, len(keys))
	for i, k := range keys {
		nodes[i], _ = g.NodeMut(k)
	}

	maxDistance := math.Sqrt(float64(len(keys))) * e.params.TargetDensity
	accel := make([]vec.Vec2, len(nodes))

	// Edges yields copies of the sibling nodes, and no node is written until
	// every read has finished.
	e.parallel(len(nodes), func(i int) {
		self := nodes[i]
		var a vec.Vec2
		for s, w := range g.Edges(self.ID) {
			a = a.Add(e.spring(self.Position, s.Position, w, maxDistance))
		}
		accel[i] = a
	})

	updates := make([]Update, len(nodes))
	e.parallel(len(nodes), func(i int) {
		n := nodes[i]
		n.Velocity = n.Velocity.Add(accel[i]).Scale(e.params.Damping)
		n.Position = n.Position.Add(n.Velocity)
		updates[i] = Update{ID: n.ID, Position: n.Position}
	})
	return updates
}

// ManySteps runs count ticks and returns the updates of the last one.
func (e *Engine) ManySteps(g *Graph, count int) []Update {
	var last []Update
	for range count {
		last = e.Step(g)
	}
	return last
}

// spring returns the acceleration a node at from receives from a sibling at
// to joined by weight w.
func (e *Engine) spring(from, to vec.Vec2, w, maxDistance float64) vec.Vec2 {
	delta := to.Sub(from)
	dir, ok := delta.Unit()
	if !ok {
		return vec.Zero
	}
	target := max(maxDistance-w, e.params.MinSpringLength)
	force := e.params.SpringConstant * (delta.Length() - target)
	return dir.Scale(force)
}

// parallel calls fn for every index in [0, n), splitting the range into
// contiguous chunks across the engine's workers, and returns once every call
// has finished.
func (e *Engine) parallel(n int, fn func(i int)) {
	workers := min(e.Workers(), n)
	if workers <= 1 {
		for i := range n {
			fn(i)
		}
		return
	}

	var wg sync.WaitGroup
	chunk := (n + workers - 1) / workers
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				fn(i)
			}
		}()
	}
	wg.Wait()
}
