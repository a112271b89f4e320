package trajectory

import (
	"fmt"

	"github.com/matzehuels/snowball/pkg/scene"
	"github.com/matzehuels/snowball/pkg/vec"
)

// ChangePolicy decides whether a newly reported position continues the
// current frame.
type ChangePolicy interface {
	// Name identifies the policy in configuration and cache keys.
	Name() string
	// Same reports whether pos is unchanged relative to anchor, the first
	// position recorded for the current frame.
	Same(anchor, pos vec.Vec2) bool
}

// Policy names accepted by [PolicyByName].
const (
	PolicyTruncate  = "truncate"
	PolicyTolerance = "tolerance"
)

var (
	// Truncate treats two positions as equal when they truncate to the same
	// integer pixel.
	Truncate ChangePolicy = truncate{}

	// Tolerance treats two positions as equal when both axis deltas lie in
	// [-1, 1).
	Tolerance ChangePolicy = tolerance{}
)

type truncate struct{}

func (truncate) Name() string { return PolicyTruncate }

func (truncate) Same(anchor, pos vec.Vec2) bool {
	return scene.CoordsOf(anchor) == scene.CoordsOf(pos)
}

type tolerance struct{}

func (tolerance) Name() string { return PolicyTolerance }

func (tolerance) Same(anchor, pos vec.Vec2) bool {
	d := pos.Sub(anchor)
	return d.X >= -1 && d.X < 1 && d.Y >= -1 && d.Y < 1
}

// PolicyByName returns the policy with the given name. The empty name selects
// [Truncate].
func PolicyByName(name string) (ChangePolicy, error) {
	switch name {
	case "", PolicyTruncate:
		return Truncate, nil
	case PolicyTolerance:
		return Tolerance, nil
	}
	return nil, fmt.Errorf("unknown change policy %q (must be one of: %s, %s)", name, PolicyTruncate, PolicyTolerance)
}
