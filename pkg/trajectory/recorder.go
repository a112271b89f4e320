package trajectory

import (
	"errors"
	"fmt"
	"image/color"
	"slices"

	"github.com/matzehuels/snowball/pkg/scene"
	"github.com/matzehuels/snowball/pkg/vec"
)

var (
	// ErrUnknownNode is returned when a position or removal is reported for
	// a node without an open record. It means the driver and the recorder
	// disagree about which nodes exist.
	ErrUnknownNode = errors.New("unknown node")

	// ErrDuplicateNode is returned by [Recorder.AddNode] when the node
	// already has an open record.
	ErrDuplicateNode = errors.New("duplicate node")
)

// Defaults for the rendered document.
const (
	DefaultFrameRate = 60
	DefaultCanvas    = 1000
	DefaultNodeSize  = 20
)

// Frame is a position held for RunLength consecutive ticks.
type Frame struct {
	Position  vec.Vec2 `json:"position"`
	RunLength int      `json:"run_length"`
}

// Record is the trajectory of one node.
type Record struct {
	ID     uint64     `json:"id"`
	Start  int        `json:"start"`
	Colour color.RGBA `json:"colour"`
	Frames []Frame    `json:"frames"`
}

// Ticks returns the number of ticks covered by the record's frames.
func (r Record) Ticks() int {
	n := 0
	for _, f := range r.Frames {
		n += f.RunLength
	}
	return n
}

// End returns the tick just past the record's last frame.
func (r Record) End() int { return r.Start + r.Ticks() }

func (r *Record) push(policy ChangePolicy, pos vec.Vec2) {
	if n := len(r.Frames); n > 0 && policy.Same(r.Frames[n-1].Position, pos) {
		r.Frames[n-1].RunLength++
		return
	}
	r.Frames = append(r.Frames, Frame{Position: pos, RunLength: 1})
}

func (r Record) layer(nodeSize int) scene.Layer {
	keyframes := make([]scene.Keyframe[scene.Coords], 0, len(r.Frames))
	t := r.Start
	for _, f := range r.Frames {
		keyframes = append(keyframes, scene.Keyframe[scene.Coords]{Time: t, Value: scene.CoordsOf(f.Position)})
		t += f.RunLength
	}
	return scene.Layer{
		In:  r.Start,
		Out: t,
		Shapes: []scene.Shape{
			scene.Ellipse{
				Position: scene.Animate(keyframes...),
				Size:     scene.Static(scene.Coords{X: nodeSize, Y: nodeSize}),
			},
			scene.Fill{
				Colour:  scene.Static(scene.ColourOf(r.Colour)),
				Opacity: scene.Static(100),
			},
		},
	}
}

// Recorder converts a per-tick position stream into compressed records.
//
// A Recorder is not safe for concurrent use.
type Recorder struct {
	policy    ChangePolicy
	frameRate int
	width     int
	height    int
	nodeSize  int

	open   map[uint64]*Record
	order  []uint64
	closed []Record
	step   int
}

// Option configures a [Recorder].
type Option func(*Recorder)

// WithPolicy selects the change policy. The default is [Truncate].
func WithPolicy(p ChangePolicy) Option { return func(r *Recorder) { r.policy = p } }

// WithCanvas sets the width and height of the rendered document.
func WithCanvas(width, height int) Option {
	return func(r *Recorder) { r.width, r.height = width, height }
}

// WithFrameRate sets the frame rate of the rendered document.
func WithFrameRate(fps int) Option { return func(r *Recorder) { r.frameRate = fps } }

// WithNodeSize sets the diameter of rendered nodes.
func WithNodeSize(size int) Option { return func(r *Recorder) { r.nodeSize = size } }

// NewRecorder returns an empty recorder at tick 0.
func NewRecorder(opts ...Option) *Recorder {
	r := &Recorder{
		policy:    Truncate,
		frameRate: DefaultFrameRate,
		width:     DefaultCanvas,
		height:    DefaultCanvas,
		nodeSize:  DefaultNodeSize,
		open:      make(map[uint64]*Record),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.policy == nil {
		r.policy = Truncate
	}
	return r
}

// Policy returns the recorder's change policy.
func (r *Recorder) Policy() ChangePolicy { return r.policy }

// Step returns the current tick.
func (r *Recorder) Step() int { return r.step }

// AddNode opens a record for id starting at the current tick.
func (r *Recorder) AddNode(id uint64, colour color.RGBA) error {
	if _, ok := r.open[id]; ok {
		return fmt.Errorf("add node %d: %w", id, ErrDuplicateNode)
	}
	r.open[id] = &Record{ID: id, Start: r.step, Colour: colour}
	r.order = append(r.order, id)
	return nil
}

// SetPosition reports the position of id for the current tick.
func (r *Recorder) SetPosition(id uint64, pos vec.Vec2) error {
	rec, ok := r.open[id]
	if !ok {
		return fmt.Errorf("set position of %d: %w", id, ErrUnknownNode)
	}
	rec.push(r.policy, pos)
	return nil
}

// NextStep advances the tick counter. Call it once per tick, after every
// SetPosition for that tick.
func (r *Recorder) NextStep() { r.step++ }

// RemoveNode closes the record of id. Later positions for id are rejected
// until it is added again.
func (r *Recorder) RemoveNode(id uint64) error {
	rec, ok := r.open[id]
	if !ok {
		return fmt.Errorf("remove node %d: %w", id, ErrUnknownNode)
	}
	delete(r.open, id)
	if i := slices.Index(r.order, id); i >= 0 {
		r.order = slices.Delete(r.order, i, i+1)
	}
	r.closed = append(r.closed, *rec)
	return nil
}

// Open returns a copy of the open record of id.
func (r *Recorder) Open(id uint64) (Record, bool) {
	rec, ok := r.open[id]
	if !ok {
		return Record{}, false
	}
	return rec.clone(), true
}

// Records returns every record in render order: closed records in removal
// order, then open records in the order they were added.
func (r *Recorder) Records() []Record {
	out := make([]Record, 0, len(r.closed)+len(r.order))
	for _, rec := range r.closed {
		out = append(out, rec.clone())
	}
	for _, id := range r.order {
		out = append(out, r.open[id].clone())
	}
	return out
}

func (r Record) clone() Record {
	r.Frames = slices.Clone(r.Frames)
	return r
}

// Render returns the animation of every record.
func (r *Recorder) Render() scene.Document {
	records := r.Records()
	layers := make([]scene.Layer, 0, len(records))
	for _, rec := range records {
		layers = append(layers, rec.layer(r.nodeSize))
	}
	return scene.Document{
		FrameRate: r.frameRate,
		Width:     r.width,
		Height:    r.height,
		End:       r.step,
		Layers:    layers,
	}
}

// Stats summarises the recorder's state.
type Stats struct {
	Open   int `json:"open"`
	Closed int `json:"closed"`
	Frames int `json:"frames"`
	Ticks  int `json:"ticks"`
}

// Stats returns counts of records, frames and ticks.
func (r *Recorder) Stats() Stats {
	s := Stats{Open: len(r.open), Closed: len(r.closed), Ticks: r.step}
	for _, rec := range r.closed {
		s.Frames += len(rec.Frames)
	}
	for _, rec := range r.open {
		s.Frames += len(rec.Frames)
	}
	return s
}
