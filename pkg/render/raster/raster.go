// Package raster draws simulation frames as bitmaps.
//
// A [Renderer] keeps a retained scene: it observes the event stream of a
// [sim.System], tracking each live node's colour and latest position and
// every weight, and composites a frame on demand. Edges whose weight reaches
// [render.WeightThreshold] are drawn first, coloured by weight, then nodes
// are drawn as filled circles in the order they were added, so later nodes
// sit on top.
//
// Frames can be streamed while the simulation runs through a [FrameSink],
// or the final frame can be written as PNG with [Renderer.EncodePNG].
//
// [sim.System]: github.com/matzehuels/snowball/pkg/sim
// [render.WeightThreshold]: github.com/matzehuels/snowball/pkg/render
package raster

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"slices"
	"strconv"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/matzehuels/snowball/pkg/render"
	"github.com/matzehuels/snowball/pkg/sim"
	"github.com/matzehuels/snowball/pkg/vec"
)

// FrameSink receives a composited frame after tick step. The image is not
// reused by the renderer.
type FrameSink func(step int, img image.Image) error

type node struct {
	colour   color.RGBA
	position vec.Vec2
}

type pair struct{ a, b uint64 }

func key(a, b uint64) pair {
	if b < a {
		a, b = b, a
	}
	return pair{a, b}
}

// Renderer composites frames from a simulation's event stream.
type Renderer struct {
	size   int
	scale  float64
	labels bool
	sink   FrameSink
	every  int

	nodes   map[uint64]*node
	order   []uint64
	weights map[pair]float64
	frames  int
}

// Option configures a [Renderer].
type Option func(*Renderer)

// WithSize sets the side of the square canvas in simulation units.
func WithSize(px int) Option { return func(r *Renderer) { r.size = px } }

// WithScale resizes output images by factor s.
func WithScale(s float64) Option { return func(r *Renderer) { r.scale = s } }

// WithLabels draws node ids on top of the nodes.
func WithLabels() Option { return func(r *Renderer) { r.labels = true } }

// WithFrameSink streams a frame to sink every n ticks.
func WithFrameSink(sink FrameSink, n int) Option {
	return func(r *Renderer) { r.sink, r.every = sink, max(n, 1) }
}

// New returns a renderer with an empty scene.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		size:    sim.DefaultSize,
		scale:   1,
		every:   1,
		nodes:   make(map[uint64]*node),
		weights: make(map[pair]float64),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Frames returns the number of frames handed to the sink so far.
func (r *Renderer) Frames() int { return r.frames }

// Observe updates the scene from a simulation event.
func (r *Renderer) Observe(ev sim.Event) error {
	switch ev.Kind {
	case sim.NodeAdded:
		if _, ok := r.nodes[ev.ID]; !ok {
			r.order = append(r.order, ev.ID)
		}
		r.nodes[ev.ID] = &node{colour: ev.Colour, position: ev.Position}
	case sim.NodeMoved:
		n, ok := r.nodes[ev.ID]
		if !ok {
			return fmt.Errorf("raster: move of unregistered node %d", ev.ID)
		}
		n.position = ev.Position
	case sim.NodeRemoved:
		delete(r.nodes, ev.ID)
		if i := slices.Index(r.order, ev.ID); i >= 0 {
			r.order = slices.Delete(r.order, i, i+1)
		}
		for k := range r.weights {
			if k.a == ev.ID || k.b == ev.ID {
				delete(r.weights, k)
			}
		}
	case sim.WeightChanged:
		r.weights[key(ev.ID, ev.Other)] = ev.Weight
	case sim.StepDone:
		if r.sink != nil && ev.Step%r.every == 0 {
			if err := r.sink(ev.Step, r.Draw()); err != nil {
				return fmt.Errorf("frame %d: %w", ev.Step, err)
			}
			r.frames++
		}
	}
	return nil
}

// Draw composites the current scene.
func (r *Renderer) Draw() image.Image {
	dc := gg.NewContext(r.size, r.size)
	dc.SetColor(render.Background)
	dc.Clear()

	dc.SetLineWidth(render.EdgeWidth)
	for i, a := range r.order {
		for _, b := range r.order[i+1:] {
			w := r.weights[key(a, b)]
			if w < render.WeightThreshold {
				continue
			}
			from, to := r.nodes[a].position, r.nodes[b].position
			dc.SetColor(render.WeightColour(w))
			dc.DrawLine(from.X, from.Y, to.X, to.Y)
			dc.Stroke()
		}
	}

	for _, id := range r.order {
		n := r.nodes[id]
		dc.SetColor(n.colour)
		dc.DrawCircle(n.position.X, n.position.Y, render.NodeRadius)
		dc.Fill()
	}

	if r.labels {
		dc.SetFontFace(basicfont.Face7x13)
		dc.SetColor(color.Black)
		for _, id := range r.order {
			p := r.nodes[id].position
			dc.DrawStringAnchored(strconv.FormatUint(id, 10), p.X, p.Y-2*render.NodeRadius, 0.5, 0.5)
		}
	}

	return r.scaled(dc.Image())
}

func (r *Renderer) scaled(img image.Image) image.Image {
	if r.scale <= 0 || r.scale == 1 {
		return img
	}
	side := max(int(float64(r.size)*r.scale+0.5), 1)
	return imaging.Resize(img, side, side, imaging.Lanczos)
}

// EncodePNG writes the current scene as PNG.
func (r *Renderer) EncodePNG(w io.Writer) error {
	return EncodePNG(w, r.Draw())
}

// EncodePNG writes img as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	if err := imaging.Encode(w, img, imaging.PNG); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}
