package layout

import (
	"image/color"
	"math/rand/v2"

	"github.com/matzehuels/snowball/pkg/graph"
	"github.com/matzehuels/snowball/pkg/vec"
)

// Node is a simulated graph vertex.
//
// Position and Velocity are owned by the node and persist across ticks.
// Colour is opaque metadata carried through to renderers.
type Node struct {
	ID       uint64     `json:"id"`
	Position vec.Vec2   `json:"position"`
	Velocity vec.Vec2   `json:"velocity"`
	Colour   color.RGBA `json:"colour"`
}

// Key implements [graph.Keyed].
func (n Node) Key() uint64 { return n.ID }

// NewNode returns a node at rest, offset from centre by a random unit vector
// of length jitter drawn from rng.
func NewNode(id uint64, centre vec.Vec2, jitter float64, rng *rand.Rand, colour color.RGBA) Node {
	return Node{
		ID:       id,
		Position: centre.Add(vec.RandomUnit(rng).Scale(jitter)),
		Colour:   colour,
	}
}

// Graph is the graph the engine steps: uint64 ids, [Node] values and
// float64 weights.
type Graph = graph.Graph[uint64, Node, float64]

// NewGraph returns an empty [Graph].
func NewGraph() *Graph { return graph.New[uint64, Node, float64]() }
