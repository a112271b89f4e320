// Package sim drives a force-directed layout and publishes what happens as
// an event stream.
//
// A [System] owns the graph and the layout engine. Every mutation and
// every tick is reported to the registered observers, which is how
// recorders and renderers attach:
//
//	rec := trajectory.NewRecorder()
//	sys, err := sim.New(sim.WithSeed(42), sim.WithObservers(rec))
//	if err != nil {
//	    return err
//	}
//	sys.AddNode(0, colour)
//	sys.AddNode(1, colour)
//	sys.SetWeight(0, 1, 50)
//	sys.ManySteps(150)
//	doc := rec.Render()
//
// New nodes are placed around the centre of the canvas with a small jitter
// drawn from the system's random source. Given the same seed and the same
// sequence of calls, a System produces bit-identical trajectories.
package sim

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/snowball/pkg/layout"
	"github.com/matzehuels/snowball/pkg/vec"
)

var (
	// ErrDuplicateNode is returned by [System.AddNode] for an id that is
	// already live.
	ErrDuplicateNode = errors.New("duplicate node")

	// ErrUnknownNode is returned by [System.RemoveNode] for an id that is
	// not live.
	ErrUnknownNode = errors.New("unknown node")
)

// Defaults for a new system.
const (
	DefaultSize   = 1000
	DefaultJitter = 5
	DefaultSeed   = uint64(42)
)

// System is a running simulation. It is not safe for concurrent use.
type System struct {
	graph     *layout.Graph
	engine    *layout.Engine
	rng       *rand.Rand
	size      float64
	jitter    float64
	observers []Observer
	logger    *log.Logger
	step      int
}

type config struct {
	params    layout.Params
	workers   int
	rng       *rand.Rand
	size      float64
	jitter    float64
	observers []Observer
	logger    *log.Logger
}

// Option configures a [System].
type Option func(*config)

// WithParams sets the spring model.
func WithParams(p layout.Params) Option { return func(c *config) { c.params = p } }

// WithWorkers sets the number of goroutines per tick phase.
func WithWorkers(n int) Option { return func(c *config) { c.workers = n } }

// WithSeed seeds the jitter source.
func WithSeed(seed uint64) Option {
	return func(c *config) { c.rng = NewRand(seed) }
}

// WithRand uses r as the jitter source.
func WithRand(r *rand.Rand) Option { return func(c *config) { c.rng = r } }

// WithSize sets the side of the square canvas. Nodes start at its centre.
func WithSize(size float64) Option { return func(c *config) { c.size = size } }

// WithJitter sets the distance from the centre at which nodes start.
func WithJitter(j float64) Option { return func(c *config) { c.jitter = j } }

// WithObservers appends observers to the event stream.
func WithObservers(obs ...Observer) Option {
	return func(c *config) { c.observers = append(c.observers, obs...) }
}

// WithLogger sets the logger for debug output.
func WithLogger(l *log.Logger) Option { return func(c *config) { c.logger = l } }

// NewRand returns the seeded generator a System uses for jitter.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// New creates an empty system.
func New(opts ...Option) (*System, error) {
	cfg := config{
		params: layout.DefaultParams(),
		size:   DefaultSize,
		jitter: DefaultJitter,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.rng == nil {
		cfg.rng = NewRand(DefaultSeed)
	}
	if cfg.logger == nil {
		cfg.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if !(cfg.size > 0) {
		return nil, fmt.Errorf("canvas size %v must be positive", cfg.size)
	}

	engine, err := layout.New(cfg.params, layout.WithWorkers(cfg.workers))
	if err != nil {
		return nil, err
	}
	return &System{
		graph:     layout.NewGraph(),
		engine:    engine,
		rng:       cfg.rng,
		size:      cfg.size,
		jitter:    cfg.jitter,
		observers: cfg.observers,
		logger:    cfg.logger,
	}, nil
}

// Attach appends an observer. It sees only events emitted from now on.
func (s *System) Attach(o Observer) { s.observers = append(s.observers, o) }

func (s *System) emit(ev Event) error {
	for _, o := range s.observers {
		if err := o.Observe(ev); err != nil {
			return fmt.Errorf("%s event for node %d: %w", ev.Kind, ev.ID, err)
		}
	}
	return nil
}

// Centre returns the point new nodes are placed around.
func (s *System) Centre() vec.Vec2 { return vec.New(s.size/2, s.size/2) }

// Size returns the side of the canvas.
func (s *System) Size() float64 { return s.size }

// Params returns the spring model.
func (s *System) Params() layout.Params { return s.engine.Params() }

// Steps returns the number of completed ticks.
func (s *System) Steps() int { return s.step }

// Len returns the number of live nodes.
func (s *System) Len() int { return s.graph.Len() }

// AddNode places a new node near the centre of the canvas.
func (s *System) AddNode(id uint64, colour color.RGBA) error {
	if s.graph.Has(id) {
		return fmt.Errorf("add node %d: %w", id, ErrDuplicateNode)
	}
	n := layout.NewNode(id, s.Centre(), s.jitter, s.rng, colour)
	s.graph.AddNode(n)
	s.logger.Debug("node added", "id", id, "x", n.Position.X, "y", n.Position.Y)
	return s.emit(Event{Kind: NodeAdded, Step: s.step, ID: id, Position: n.Position, Colour: colour})
}

// RemoveNode removes a node and every weight incident to it.
func (s *System) RemoveNode(id uint64) error {
	n, ok := s.graph.RemoveNode(id)
	if !ok {
		return fmt.Errorf("remove node %d: %w", id, ErrUnknownNode)
	}
	s.logger.Debug("node removed", "id", id)
	return s.emit(Event{Kind: NodeRemoved, Step: s.step, ID: id, Position: n.Position, Colour: n.Colour})
}

// SetWeight sets the weight between two live nodes. A missing node is a
// programming error reported as an error wrapping graph.ErrMissingNode.
func (s *System) SetWeight(a, b uint64, w float64) error {
	prev, err := s.graph.SetWeight(a, b, w)
	if err != nil {
		return err
	}
	s.logger.Debug("weight changed", "a", a, "b", b, "from", prev, "to", w)
	return s.emit(Event{Kind: WeightChanged, Step: s.step, ID: a, Other: b, Weight: w})
}

// Weight returns the weight between a and b; see graph.Graph.Weight.
func (s *System) Weight(a, b uint64) float64 { return s.graph.Weight(a, b) }

// Step runs one tick and reports every node's new position.
func (s *System) Step() error {
	for _, u := range s.engine.Step(s.graph) {
		if err := s.emit(Event{Kind: NodeMoved, Step: s.step, ID: u.ID, Position: u.Position}); err != nil {
			return err
		}
	}
	s.step++
	return s.emit(Event{Kind: StepDone, Step: s.step})
}

// ManySteps runs count ticks, stopping at the first observer error.
func (s *System) ManySteps(count int) error {
	for range count {
		if err := s.Step(); err != nil {
			return err
		}
	}
	s.logger.Debug("stepped", "count", count, "total", s.step)
	return nil
}

// Node returns a copy of the live node id.
func (s *System) Node(id uint64) (layout.Node, bool) { return s.graph.Node(id) }

// Nodes returns copies of every live node in insertion order.
func (s *System) Nodes() []layout.Node {
	out := make([]layout.Node, 0, s.graph.Len())
	for n := range s.graph.Nodes() {
		out = append(out, n)
	}
	return out
}
