package scenario

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"image/color"
	"io/fs"
	"path"
	"slices"
	"strings"

	serrors "github.com/matzehuels/snowball/pkg/errors"
	"github.com/matzehuels/snowball/pkg/graph"
	"github.com/matzehuels/snowball/pkg/sim"
	"github.com/matzehuels/snowball/pkg/trajectory"
)

// Target is what a scenario drives. *sim.System satisfies it.
type Target interface {
	AddNode(id uint64, colour color.RGBA) error
	RemoveNode(id uint64) error
	SetWeight(a, b uint64, w float64) error
	ManySteps(count int) error
}

// stepChunk is how many ticks run between cancellation checks.
const stepChunk = 50

// Run applies every action to t in order. It stops at the first error or
// when ctx is done, leaving t in whatever state it reached.
func (sc *Scenario) Run(ctx context.Context, t Target) error {
	for i, a := range sc.Actions {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := sc.apply(ctx, t, a); err != nil {
			return classify(fmt.Errorf("action %d (%s): %w", i, a, err))
		}
	}
	return nil
}

func (sc *Scenario) apply(ctx context.Context, t Target, a Action) error {
	switch a.Op {
	case OpAdd:
		c, err := ParseColour(a.Colour)
		if err != nil {
			return err
		}
		return t.AddNode(a.ID, c)
	case OpRemove:
		return t.RemoveNode(a.ID)
	case OpWeight:
		return t.SetWeight(a.From, a.To, a.Value)
	case OpSteps:
		for left := a.Count; left > 0; left -= stepChunk {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := t.ManySteps(min(left, stepChunk)); err != nil {
				return err
			}
		}
		return nil
	}
	return serrors.New(serrors.ErrCodeInvalidScenario, "unknown op %q", a.Op)
}

// classify attaches an error code to sentinel errors from the simulation.
func classify(err error) error {
	if serrors.GetCode(err) != "" || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	switch {
	case errors.Is(err, sim.ErrDuplicateNode), errors.Is(err, trajectory.ErrDuplicateNode):
		return serrors.Wrap(serrors.ErrCodeDuplicateNode, err, "run scenario")
	case errors.Is(err, sim.ErrUnknownNode), errors.Is(err, trajectory.ErrUnknownNode):
		return serrors.Wrap(serrors.ErrCodeUnknownNode, err, "run scenario")
	case errors.Is(err, graph.ErrMissingNode):
		return serrors.Wrap(serrors.ErrCodeMissingNode, err, "run scenario")
	case errors.Is(err, graph.ErrSelfEdge):
		return serrors.Wrap(serrors.ErrCodeInvalidScenario, err, "run scenario")
	}
	return serrors.Wrap(serrors.ErrCodeInternal, err, "run scenario")
}

// SystemOptions returns the options that configure a [sim.System] for sc.
func (sc *Scenario) SystemOptions() []sim.Option {
	return []sim.Option{
		sim.WithSize(sc.Size),
		sim.WithSeed(sc.Seed),
		sim.WithParams(sc.Params),
	}
}

// RecorderOptions returns the options that configure a trajectory
// recorder for sc. Unknown policies are reported by [Scenario.Validate].
func (sc *Scenario) RecorderOptions() []trajectory.Option {
	opts := []trajectory.Option{
		trajectory.WithCanvas(int(sc.Size), int(sc.Size)),
		trajectory.WithFrameRate(sc.FrameRate),
	}
	if p, err := trajectory.PolicyByName(sc.Policy); err == nil {
		opts = append(opts, trajectory.WithPolicy(p))
	}
	return opts
}

//go:embed scenarios/*.toml
var builtin embed.FS

// Names lists the embedded scenarios in lexical order.
func Names() []string {
	entries, err := fs.ReadDir(builtin, "scenarios")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if name, ok := strings.CutSuffix(e.Name(), ".toml"); ok && !e.IsDir() {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

// Builtin returns a fresh copy of the embedded scenario name.
func Builtin(name string) (*Scenario, error) {
	data, err := builtin.ReadFile(path.Join("scenarios", name+".toml"))
	if err != nil {
		return nil, serrors.New(serrors.ErrCodeNotFound, "no built-in scenario %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return Parse(data)
}

// Demo returns the eight-node showcase scenario.
func Demo() *Scenario {
	sc, err := Builtin("demo")
	if err != nil {
		panic(fmt.Sprintf("scenario: embedded demo is invalid: %v", err))
	}
	return sc
}

// Resolve loads ref as a built-in scenario name or, failing that, as a
// file path.
func Resolve(ref string) (*Scenario, error) {
	if slices.Contains(Names(), ref) {
		return Builtin(ref)
	}
	return Load(ref)
}
