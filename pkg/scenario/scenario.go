package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	serrors "github.com/matzehuels/snowball/pkg/errors"
	"github.com/matzehuels/snowball/pkg/layout"
	"github.com/matzehuels/snowball/pkg/sim"
	"github.com/matzehuels/snowball/pkg/trajectory"
)

// Action ops.
const (
	OpAdd    = "add"
	OpRemove = "remove"
	OpWeight = "weight"
	OpSteps  = "steps"
)

// Scenario limits. They bound a single run so a scenario submitted over
// HTTP cannot occupy a worker indefinitely.
const (
	MaxNodes = 256
	MaxSteps = 100_000
	MaxSize  = 10_000
)

// Scenario is a scripted simulation.
type Scenario struct {
	Name        string        `toml:"name" json:"name"`
	Description string        `toml:"description" json:"description,omitempty"`
	Size        float64       `toml:"size" json:"size"`
	Seed        uint64        `toml:"seed" json:"seed"`
	FrameRate   int           `toml:"frame_rate" json:"frame_rate"`
	Policy      string        `toml:"policy" json:"policy,omitempty"`
	Params      layout.Params `toml:"params" json:"params"`
	Actions     []Action      `toml:"action" json:"actions"`
}

// Action is one scripted call on the simulation.
type Action struct {
	Op     string  `toml:"op" json:"op"`
	ID     uint64  `toml:"id" json:"id,omitempty"`
	Colour string  `toml:"colour" json:"colour,omitempty"`
	From   uint64  `toml:"from" json:"from,omitempty"`
	To     uint64  `toml:"to" json:"to,omitempty"`
	Value  float64 `toml:"value" json:"value,omitempty"`
	Count  int     `toml:"count" json:"count,omitempty"`
}

// String renders the action the way it reads in a log line.
func (a Action) String() string {
	switch a.Op {
	case OpAdd:
		return fmt.Sprintf("add %d %s", a.ID, a.Colour)
	case OpRemove:
		return fmt.Sprintf("remove %d", a.ID)
	case OpWeight:
		return fmt.Sprintf("weight %d-%d = %g", a.From, a.To, a.Value)
	case OpSteps:
		return fmt.Sprintf("steps %d", a.Count)
	}
	return a.Op
}

// New returns an empty scenario with default settings.
func New(name string) *Scenario {
	return &Scenario{
		Name:      name,
		Size:      sim.DefaultSize,
		Seed:      sim.DefaultSeed,
		FrameRate: trajectory.DefaultFrameRate,
		Params:    layout.DefaultParams(),
	}
}

// Parse decodes and validates a TOML scenario. Keys the decoder does not
// know are rejected so that typos do not silently fall back to defaults.
func Parse(data []byte) (*Scenario, error) {
	sc := New("")
	md, err := toml.Decode(string(data), sc)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrCodeInvalidScenario, err, "decode scenario")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, serrors.New(serrors.ErrCodeInvalidScenario, "unknown keys: %s", strings.Join(keys, ", "))
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return sc, nil
}

// Load reads and parses a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, serrors.Wrap(serrors.ErrCodeFileNotFound, err, "scenario %s", path)
		}
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

// Encode writes sc as TOML. Each action carries only the keys its op uses.
func Encode(w io.Writer, sc *Scenario) error {
	type file struct {
		Name        string           `toml:"name"`
		Description string           `toml:"description,omitempty"`
		Size        float64          `toml:"size"`
		Seed        uint64           `toml:"seed"`
		FrameRate   int              `toml:"frame_rate"`
		Policy      string           `toml:"policy,omitempty"`
		Params      layout.Params    `toml:"params"`
		Actions     []map[string]any `toml:"action"`
	}
	f := file{
		Name:        sc.Name,
		Description: sc.Description,
		Size:        sc.Size,
		Seed:        sc.Seed,
		FrameRate:   sc.FrameRate,
		Policy:      sc.Policy,
		Params:      sc.Params,
		Actions:     make([]map[string]any, len(sc.Actions)),
	}
	for i, a := range sc.Actions {
		m := map[string]any{"op": a.Op}
		switch a.Op {
		case OpAdd:
			m["id"], m["colour"] = a.ID, a.Colour
		case OpRemove:
			m["id"] = a.ID
		case OpWeight:
			m["from"], m["to"], m["value"] = a.From, a.To, a.Value
		case OpSteps:
			m["count"] = a.Count
		}
		f.Actions[i] = m
	}
	return toml.NewEncoder(w).Encode(f)
}

// Marshal returns sc encoded as TOML.
func (sc *Scenario) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, sc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Validate checks the settings and replays the actions against the live
// node set.
func (sc *Scenario) Validate() error {
	if err := serrors.ValidateName(sc.Name); err != nil {
		return err
	}
	if !(sc.Size > 0 && sc.Size <= MaxSize) {
		return serrors.New(serrors.ErrCodeInvalidScenario, "size %v not in (0, %d]", sc.Size, MaxSize)
	}
	if sc.FrameRate <= 0 {
		return serrors.New(serrors.ErrCodeInvalidScenario, "frame rate %d must be positive", sc.FrameRate)
	}
	if _, err := trajectory.PolicyByName(sc.Policy); err != nil {
		return serrors.Wrap(serrors.ErrCodeInvalidScenario, err, "policy")
	}
	if err := sc.Params.Validate(); err != nil {
		return serrors.Wrap(serrors.ErrCodeInvalidParams, err, "params")
	}

	live := make(map[uint64]bool)
	steps := 0
	for i, a := range sc.Actions {
		switch a.Op {
		case OpAdd:
			if live[a.ID] {
				return serrors.New(serrors.ErrCodeDuplicateNode, "action %d: node %d is already live", i, a.ID)
			}
			if err := serrors.ValidateColour(a.Colour); err != nil {
				return fmt.Errorf("action %d: %w", i, err)
			}
			live[a.ID] = true
			if len(live) > MaxNodes {
				return serrors.New(serrors.ErrCodeTooLarge, "action %d: more than %d live nodes", i, MaxNodes)
			}
		case OpRemove:
			if !live[a.ID] {
				return serrors.New(serrors.ErrCodeUnknownNode, "action %d: node %d is not live", i, a.ID)
			}
			delete(live, a.ID)
		case OpWeight:
			if a.From == a.To {
				return serrors.New(serrors.ErrCodeInvalidScenario, "action %d: weight from node %d to itself", i, a.From)
			}
			for _, id := range []uint64{a.From, a.To} {
				if !live[id] {
					return serrors.New(serrors.ErrCodeMissingNode, "action %d: node %d is not live", i, id)
				}
			}
			if math.IsNaN(a.Value) || math.IsInf(a.Value, 0) {
				return serrors.New(serrors.ErrCodeInvalidScenario, "action %d: weight %v must be finite", i, a.Value)
			}
		case OpSteps:
			if a.Count <= 0 {
				return serrors.New(serrors.ErrCodeInvalidScenario, "action %d: step count %d must be positive", i, a.Count)
			}
			steps += a.Count
			if steps > MaxSteps {
				return serrors.New(serrors.ErrCodeTooLarge, "action %d: more than %d steps", i, MaxSteps)
			}
		default:
			return serrors.New(serrors.ErrCodeInvalidScenario, "action %d: unknown op %q", i, a.Op)
		}
	}
	return nil
}

// TotalSteps returns the number of ticks the scenario runs.
func (sc *Scenario) TotalSteps() int {
	n := 0
	for _, a := range sc.Actions {
		if a.Op == OpSteps {
			n += a.Count
		}
	}
	return n
}

// NodeCount returns the number of distinct node ids the scenario adds.
func (sc *Scenario) NodeCount() int {
	seen := make(map[uint64]struct{})
	for _, a := range sc.Actions {
		if a.Op == OpAdd {
			seen[a.ID] = struct{}{}
		}
	}
	return len(seen)
}

// Duration returns the animation length in seconds at the scenario's frame
// rate.
func (sc *Scenario) Duration() float64 {
	if sc.FrameRate <= 0 {
		return 0
	}
	return float64(sc.TotalSteps()) / float64(sc.FrameRate)
}

// ParseColour parses a colour written as #rrggbb.
func ParseColour(s string) (color.RGBA, error) {
	if err := serrors.ValidateColour(s); err != nil {
		return color.RGBA{}, err
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return color.RGBA{}, serrors.Wrap(serrors.ErrCodeInvalidColour, err, "colour %q", s)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

// FormatColour writes c as #rrggbb.
func FormatColour(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
