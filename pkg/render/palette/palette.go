// Package palette records every simulation tick as a frame of an indexed
// colour GIF.
//
// An [Image] observes a [sim.System]. Each distinct node colour gets one
// palette entry, index 0 is the background. Frames store only the palette
// index and position of every node, and are rasterised into paletted
// bitmaps only when the animation is encoded. Finished frames are
// independent of each other, so [Image.Encode] builds them concurrently.
//
// [sim.System]: github.com/matzehuels/snowball/pkg/sim
package palette

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"io"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/snowball/pkg/render"
	"github.com/matzehuels/snowball/pkg/sim"
	"github.com/matzehuels/snowball/pkg/vec"
)

// ErrPaletteFull is returned when a node brings a 257th colour.
var ErrPaletteFull = errors.New("palette full")

// DefaultDelay is the delay between frames in hundredths of a second.
const DefaultDelay = 2

type placement struct {
	index    uint8
	position vec.Vec2
}

// Image accumulates frames for a palette GIF.
type Image struct {
	size    int
	delay   int
	workers int
	every   int

	palette color.Palette
	nodes   map[uint64]uint8
	current []placement
	frames  [][]placement
	mask    [][]bool
}

// Option configures an [Image].
type Option func(*Image)

// WithDelay sets the per-frame delay in hundredths of a second.
func WithDelay(d int) Option { return func(m *Image) { m.delay = d } }

// WithEvery keeps one frame in n when observing a simulation.
func WithEvery(n int) Option { return func(m *Image) { m.every = max(n, 1) } }

// WithWorkers sets how many frames are rasterised concurrently.
func WithWorkers(n int) Option { return func(m *Image) { m.workers = n } }

// NewImage returns an empty animation on a size by size canvas.
func NewImage(size int, opts ...Option) *Image {
	m := &Image{
		size:    size,
		delay:   DefaultDelay,
		every:   1,
		workers: runtime.GOMAXPROCS(0),
		palette: color.Palette{render.Background},
		nodes:   make(map[uint64]uint8),
		mask:    circleMask(render.NodeRadius),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// circleMask returns a 2r by 2r mask of the pixels within r of the centre.
func circleMask(r int) [][]bool {
	mask := make([][]bool, 2*r)
	for y := range mask {
		mask[y] = make([]bool, 2*r)
		for x := range mask[y] {
			dx, dy := x-r, y-r
			mask[y][x] = dx*dx+dy*dy <= r*r
		}
	}
	return mask
}

// Palette returns the colours in use, background first.
func (m *Image) Palette() color.Palette { return append(color.Palette(nil), m.palette...) }

// Frames returns the number of completed frames.
func (m *Image) Frames() int { return len(m.frames) }

// AddNode registers a colour and returns its palette index. Repeated
// colours share an index.
func (m *Image) AddNode(c color.RGBA) (uint8, error) {
	for i, p := range m.palette {
		if p == color.Color(c) {
			return uint8(i), nil
		}
	}
	if len(m.palette) == 256 {
		return 0, fmt.Errorf("%w: cannot add %v", ErrPaletteFull, c)
	}
	m.palette = append(m.palette, c)
	return uint8(len(m.palette) - 1), nil
}

// Place draws a node with palette index i at pos in the current frame.
func (m *Image) Place(i uint8, pos vec.Vec2) {
	m.current = append(m.current, placement{index: i, position: pos})
}

// NextFrame completes the current frame.
func (m *Image) NextFrame() {
	m.frames = append(m.frames, m.current)
	m.current = nil
}

// Observe records a simulation event.
func (m *Image) Observe(ev sim.Event) error {
	switch ev.Kind {
	case sim.NodeAdded:
		i, err := m.AddNode(ev.Colour)
		if err != nil {
			return err
		}
		m.nodes[ev.ID] = i
	case sim.NodeMoved:
		i, ok := m.nodes[ev.ID]
		if !ok {
			return fmt.Errorf("palette: move of unregistered node %d", ev.ID)
		}
		m.Place(i, ev.Position)
	case sim.NodeRemoved:
		delete(m.nodes, ev.ID)
	case sim.StepDone:
		if ev.Step%m.every != 0 {
			m.current = nil
			return nil
		}
		m.NextFrame()
	}
	return nil
}

func (m *Image) rasterise(frame []placement) *image.Paletted {
	img := image.NewPaletted(image.Rect(0, 0, m.size, m.size), m.palette)
	r := render.NodeRadius
	for _, p := range frame {
		x0 := max(int(p.position.X), r) - r
		y0 := max(int(p.position.Y), r) - r
		for dy, row := range m.mask {
			for dx, in := range row {
				x, y := x0+dx, y0+dy
				if !in || x >= m.size || y >= m.size {
					continue
				}
				img.Pix[y*img.Stride+x] = p.index
			}
		}
	}
	return img
}

// Encode writes every completed frame as an animated GIF. An animation
// without frames is written as a single background frame.
func (m *Image) Encode(w io.Writer) error {
	frames := m.frames
	if len(frames) == 0 {
		frames = [][]placement{nil}
	}

	images := make([]*image.Paletted, len(frames))
	var g errgroup.Group
	g.SetLimit(max(m.workers, 1))
	for i, frame := range frames {
		g.Go(func() error {
			images[i] = m.rasterise(frame)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	delays := make([]int, len(images))
	for i := range delays {
		delays[i] = m.delay
	}
	anim := &gif.GIF{
		Image: images,
		Delay: delays,
		Config: image.Config{
			ColorModel: m.palette,
			Width:      m.size,
			Height:     m.size,
		},
	}
	if err := gif.EncodeAll(w, anim); err != nil {
		return fmt.Errorf("encode gif: %w", err)
	}
	return nil
}
