package sim

import (
	"fmt"
	"image/color"

	"github.com/matzehuels/snowball/pkg/vec"
)

// EventKind identifies what happened in an [Event].
type EventKind int

const (
	// NodeAdded: ID, Position and Colour describe the new node.
	NodeAdded EventKind = iota + 1
	// NodeMoved: ID moved to Position during tick Step.
	NodeMoved
	// NodeRemoved: ID was removed; Position is its last position.
	NodeRemoved
	// WeightChanged: the weight between ID and Other is now Weight.
	WeightChanged
	// StepDone: every node has moved and Step ticks have completed.
	StepDone
)

func (k EventKind) String() string {
	switch k {
	case NodeAdded:
		return "node-added"
	case NodeMoved:
		return "node-moved"
	case NodeRemoved:
		return "node-removed"
	case WeightChanged:
		return "weight-changed"
	case StepDone:
		return "step-done"
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Event is one entry of the stream a [System] emits. Which fields are
// meaningful depends on Kind.
type Event struct {
	Kind     EventKind
	Step     int
	ID       uint64
	Other    uint64
	Position vec.Vec2
	Colour   color.RGBA
	Weight   float64
}

// Observer consumes the event stream of a [System].
//
// Observers are called synchronously, in registration order, from the
// goroutine driving the system. An error aborts the operation that emitted
// the event and is returned to the caller.
type Observer interface {
	Observe(Event) error
}

// ObserverFunc adapts a function to [Observer].
type ObserverFunc func(Event) error

// Observe calls f(ev).
func (f ObserverFunc) Observe(ev Event) error { return f(ev) }
