// Package pipeline runs scenarios and produces their artifacts.
//
// This package implements the complete scenario → simulate → render
// pipeline used by the CLI and the HTTP server, so both entry points share
// defaults, validation and caching.
//
// # Architecture
//
// The pipeline has two stages:
//
//  1. Simulate: drive a sim.System through the scenario with a trajectory
//     recorder and whichever renderers the requested formats need attached
//  2. Render: encode the recorded scene, the final frame and the final
//     layout into the requested formats
//
// A run is deterministic in its scenario and options, so the recorded
// scene and every artifact are cached under keys derived from both. When
// every requested artifact is cached the simulation is skipped entirely,
// and vector outputs can be re-encoded from a cached scene alone.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, scenario.Demo(), pipeline.Options{
//	    Formats: []string{pipeline.FormatLottie, pipeline.FormatGIF},
//	})
//	if err != nil {
//	    return err
//	}
//	anim := result.Artifacts[pipeline.FormatLottie]
package pipeline

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/snowball/pkg/cache"
	serrors "github.com/matzehuels/snowball/pkg/errors"
	"github.com/matzehuels/snowball/pkg/render/palette"
	"github.com/matzehuels/snowball/pkg/render/raster"
	"github.com/matzehuels/snowball/pkg/scene"
	"github.com/matzehuels/snowball/pkg/sim"
	"github.com/matzehuels/snowball/pkg/trajectory"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultScale is the output size factor for raster formats.
	DefaultScale = 1.0

	// MaxScale bounds raster output so a request cannot allocate an
	// unbounded image.
	MaxScale = 4.0

	// DefaultGIFEvery keeps every second tick in GIF output.
	DefaultGIFEvery = 2

	// DefaultFrameEvery streams every tick to a frame sink.
	DefaultFrameEvery = 1
)

// Format constants for output formats.
const (
	FormatLottie = "lottie"
	FormatScene  = "scene"
	FormatGIF    = "gif"
	FormatPNG    = "png"
	FormatSVG    = "svg"
	FormatDOT    = "dot"
)

// Formats lists the supported output formats in a stable order.
var Formats = []string{FormatLottie, FormatScene, FormatGIF, FormatPNG, FormatSVG, FormatDOT}

// Extensions maps each format to its file extension.
var Extensions = map[string]string{
	FormatLottie: ".json",
	FormatScene:  ".scene.json",
	FormatGIF:    ".gif",
	FormatPNG:    ".png",
	FormatSVG:    ".svg",
	FormatDOT:    ".dot",
}

// ContentTypes maps each format to its MIME type.
var ContentTypes = map[string]string{
	FormatLottie: "application/json",
	FormatScene:  "application/json",
	FormatGIF:    "image/gif",
	FormatPNG:    "image/png",
	FormatSVG:    "image/svg+xml",
	FormatDOT:    "text/vnd.graphviz",
}

// vectorFormats can be encoded from a recorded scene without re-running
// the simulation.
var vectorFormats = map[string]bool{
	FormatLottie: true,
	FormatScene:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Formats to produce. Defaults to lottie.
	Formats []string `json:"formats,omitempty"`

	// Policy overrides the scenario's change policy when set.
	Policy string `json:"policy,omitempty"`

	// NodeSize is the diameter of node ellipses in the scene document.
	NodeSize int `json:"node_size,omitempty"`

	// Workers is the number of goroutines per simulation phase and for GIF
	// frame rasterisation. It never changes the output.
	Workers int `json:"workers,omitempty"`

	// Raster options
	Scale    float64 `json:"scale,omitempty"`
	Labels   bool    `json:"labels,omitempty"`
	GIFEvery int     `json:"gif_every,omitempty"`
	GIFDelay int     `json:"gif_delay,omitempty"`

	// Refresh ignores cached results and overwrites them.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// FrameSink receives a rendered frame every FrameEvery ticks. Setting it
	// forces a simulation run.
	FrameSink  raster.FrameSink `json:"-"`
	FrameEvery int              `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies this run in logs and HTTP responses.
	RunID string

	// Scenario is the name of the scenario that ran.
	Scenario string

	// ScenarioHash is the content hash of the encoded scenario.
	ScenarioHash string

	// Scene is the recorded trajectory document. It is empty when every
	// artifact came from the cache.
	Scene scene.Document

	// Snapshot is the final layout. It is nil unless the simulation ran.
	Snapshot *sim.Snapshot

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Nodes        int
	Steps        int
	Layers       int
	Keyframes    int
	Frames       int
	SimulateTime time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	SceneHit  bool // Whether the scene document came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !slices.Contains(Formats, format) {
		return serrors.New(serrors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", format, strings.Join(Formats, ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidatePolicy checks that a change policy name is valid. The empty name
// defers to the scenario.
func ValidatePolicy(name string) error {
	if _, err := trajectory.PolicyByName(name); err != nil {
		return serrors.Wrap(serrors.ErrCodeInvalidInput, err, "policy")
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// SetDefaults fills in zero fields.
func (o *Options) SetDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatLottie}
	}
	if o.NodeSize == 0 {
		o.NodeSize = trajectory.DefaultNodeSize
	}
	if o.Workers == 0 {
		o.Workers = 1
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.GIFEvery == 0 {
		o.GIFEvery = DefaultGIFEvery
	}
	if o.GIFDelay == 0 {
		o.GIFDelay = palette.DefaultDelay
	}
	if o.FrameEvery == 0 {
		o.FrameEvery = DefaultFrameEvery
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateAndSetDefaults applies defaults and checks every field.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()
	o.Formats = dedupe(o.Formats)
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := ValidatePolicy(o.Policy); err != nil {
		return err
	}
	switch {
	case o.NodeSize < 0:
		return serrors.New(serrors.ErrCodeInvalidInput, "node size %d must be positive", o.NodeSize)
	case o.Workers < 0:
		return serrors.New(serrors.ErrCodeInvalidInput, "workers %d must be positive", o.Workers)
	case !(o.Scale > 0 && o.Scale <= MaxScale):
		return serrors.New(serrors.ErrCodeInvalidInput, "scale %v not in (0, %v]", o.Scale, MaxScale)
	case o.GIFEvery < 0 || o.GIFDelay < 0 || o.FrameEvery < 0:
		return serrors.New(serrors.ErrCodeInvalidInput, "frame strides and delays must be positive")
	}
	o.validated = true
	return nil
}

// NeedsSimulation reports whether a cached scene is not enough to produce
// every requested artifact.
func (o *Options) NeedsSimulation() bool {
	if o.FrameSink != nil {
		return true
	}
	for _, f := range o.Formats {
		if !vectorFormats[f] {
			return true
		}
	}
	return false
}

// Wants reports whether format was requested.
func (o *Options) Wants(format string) bool {
	return slices.Contains(o.Formats, format)
}

// SceneKeyOpts returns cache key options for the recorded scene.
func (o *Options) SceneKeyOpts(policy string) cache.SceneKeyOpts {
	return cache.SceneKeyOpts{
		Policy:   policy,
		NodeSize: o.NodeSize,
	}
}

// ArtifactKeyOpts returns cache key options for one artifact. Options that
// cannot affect format are left zero so they do not split its cache entry.
func (o *Options) ArtifactKeyOpts(format, policy string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatLottie, FormatScene:
		k.Policy, k.NodeSize = policy, o.NodeSize
	case FormatPNG:
		k.Scale, k.Labels = o.Scale, o.Labels
	case FormatGIF:
		k.Delay, k.Every = o.GIFDelay, o.GIFEvery
	case FormatSVG, FormatDOT:
		k.Labels = o.Labels
	}
	return k
}

func dedupe(formats []string) []string {
	var out []string
	for _, f := range formats {
		f = strings.ToLower(strings.TrimSpace(f))
		if f != "" && !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}

// effectivePolicy returns the policy name a run records with.
func effectivePolicy(scenarioPolicy, override string) string {
	name := cmp.Or(override, scenarioPolicy)
	p, err := trajectory.PolicyByName(name)
	if err != nil {
		return name
	}
	return p.Name()
}

// String is used in log lines.
func (s Stats) String() string {
	return fmt.Sprintf("%d nodes, %d steps, %d layers, %d keyframes", s.Nodes, s.Steps, s.Layers, s.Keyframes)
}
