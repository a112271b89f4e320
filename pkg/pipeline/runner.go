package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/snowball/pkg/cache"
	serrors "github.com/matzehuels/snowball/pkg/errors"
	"github.com/matzehuels/snowball/pkg/observability"
	"github.com/matzehuels/snowball/pkg/render/palette"
	"github.com/matzehuels/snowball/pkg/render/raster"
	"github.com/matzehuels/snowball/pkg/scenario"
	"github.com/matzehuels/snowball/pkg/scene"
	"github.com/matzehuels/snowball/pkg/sim"
	"github.com/matzehuels/snowball/pkg/trajectory"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Every run builds
// its own simulation, so multiple goroutines can safely share one Runner.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Simulation is the state left behind by one scenario run.
type Simulation struct {
	Scene    scene.Document
	Snapshot *sim.Snapshot
	Frames   int

	raster *raster.Renderer
	gif    *palette.Image
}

// Execute runs the complete simulate → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, sc *scenario.Scenario, opts Options) (*Result, error) {
	if sc == nil {
		return nil, serrors.New(serrors.ErrCodeInvalidInput, "scenario is required")
	}
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	encoded, err := sc.Marshal()
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrCodeInternal, err, "encode scenario")
	}
	result := &Result{
		RunID:        uuid.NewString(),
		Scenario:     sc.Name,
		ScenarioHash: cache.Hash(encoded),
		Artifacts:    make(map[string][]byte),
		Stats: Stats{
			Nodes: sc.NodeCount(),
			Steps: sc.TotalSteps(),
		},
	}
	logger := opts.Logger.With("run", result.RunID[:8])
	policy := effectivePolicy(sc.Policy, opts.Policy)

	// Every artifact cached: nothing to do.
	if !opts.Refresh && opts.FrameSink == nil {
		if artifacts, ok := r.cachedArtifacts(ctx, result.ScenarioHash, policy, opts); ok {
			result.Artifacts = artifacts
			result.CacheInfo.RenderHit = true
			logger.Info("artifacts cached", "scenario", sc.Name, "formats", opts.Formats)
			return result, nil
		}
	}

	// Stage 1: Simulate
	simStart := time.Now()
	sceneKey := r.Keyer.SceneKey(result.ScenarioHash, opts.SceneKeyOpts(policy))
	run := &Simulation{}
	if !opts.Refresh && !opts.NeedsSimulation() {
		if doc, ok := r.cachedScene(ctx, sceneKey); ok {
			run.Scene = doc
			result.CacheInfo.SceneHit = true
		}
	}
	if !result.CacheInfo.SceneHit {
		run, err = r.Simulate(ctx, sc, opts)
		if err != nil {
			return nil, fmt.Errorf("simulate: %w", err)
		}
		r.storeScene(ctx, sceneKey, run.Scene)
	}
	result.Scene = run.Scene
	result.Snapshot = run.Snapshot
	result.Stats.SimulateTime = time.Since(simStart)
	result.Stats.Layers = len(run.Scene.Layers)
	result.Stats.Frames = run.Frames
	for _, l := range run.Scene.Layers {
		result.Stats.Keyframes += l.Keyframes()
	}

	logger.Info("simulated",
		"scenario", sc.Name,
		"nodes", result.Stats.Nodes,
		"steps", result.Stats.Steps,
		"keyframes", result.Stats.Keyframes,
		"cached", result.CacheInfo.SceneHit,
		"duration", result.Stats.SimulateTime)

	// Stage 2: Render
	renderStart := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	artifacts, err := Render(ctx, run, opts)
	result.Stats.RenderTime = time.Since(renderStart)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, result.Stats.RenderTime, err)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	for format, data := range artifacts {
		key := r.Keyer.ArtifactKey(result.ScenarioHash, opts.ArtifactKeyOpts(format, policy))
		if err := r.Cache.Set(ctx, key, data, cache.DefaultTTL); err != nil {
			logger.Warn("cache artifact", "format", format, "err", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}

	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Simulate runs sc with a trajectory recorder and the renderers opts needs.
// It never reads or writes the cache.
func (r *Runner) Simulate(ctx context.Context, sc *scenario.Scenario, opts Options) (*Simulation, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	recOpts := append(sc.RecorderOptions(), trajectory.WithNodeSize(opts.NodeSize))
	if opts.Policy != "" {
		p, err := trajectory.PolicyByName(opts.Policy)
		if err != nil {
			return nil, serrors.Wrap(serrors.ErrCodeInvalidInput, err, "policy")
		}
		recOpts = append(recOpts, trajectory.WithPolicy(p))
	}
	run := &Simulation{}
	rec := trajectory.NewRecorder(recOpts...)
	observers := []sim.Observer{rec}

	size := int(sc.Size)
	if opts.Wants(FormatPNG) || opts.FrameSink != nil {
		ropts := []raster.Option{raster.WithSize(size), raster.WithScale(opts.Scale)}
		if opts.Labels {
			ropts = append(ropts, raster.WithLabels())
		}
		if opts.FrameSink != nil {
			ropts = append(ropts, raster.WithFrameSink(opts.FrameSink, opts.FrameEvery))
		}
		run.raster = raster.New(ropts...)
		observers = append(observers, run.raster)
	}
	if opts.Wants(FormatGIF) {
		run.gif = palette.NewImage(size,
			palette.WithDelay(opts.GIFDelay),
			palette.WithEvery(opts.GIFEvery),
			palette.WithWorkers(opts.Workers))
		observers = append(observers, run.gif)
	}

	sysOpts := append(sc.SystemOptions(),
		sim.WithWorkers(opts.Workers),
		sim.WithObservers(observers...),
		sim.WithLogger(opts.Logger))
	sys, err := sim.New(sysOpts...)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrCodeInvalidParams, err, "create system")
	}

	start := time.Now()
	observability.Pipeline().OnSimulateStart(ctx, sc.Name, sc.NodeCount(), sc.TotalSteps())
	err = sc.Run(ctx, sys)
	observability.Pipeline().OnSimulateComplete(ctx, sc.Name, sys.Steps(), time.Since(start), err)
	if err != nil {
		if errors.Is(err, palette.ErrPaletteFull) {
			return nil, serrors.Wrap(serrors.ErrCodeTooLarge, err, "gif palette")
		}
		return nil, err
	}

	snap := sys.Snapshot()
	run.Snapshot = &snap
	run.Scene = rec.Render()
	if run.raster != nil {
		run.Frames = run.raster.Frames()
	}
	return run, nil
}

// cachedArtifacts returns every requested format from the cache, or false
// if any one is missing.
func (r *Runner) cachedArtifacts(ctx context.Context, hash, policy string, opts Options) (map[string][]byte, bool) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format, policy))
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil || !hit {
			observability.Cache().OnCacheMiss(ctx, "artifact")
			return nil, false
		}
		observability.Cache().OnCacheHit(ctx, "artifact")
		artifacts[format] = data
	}
	return artifacts, true
}

func (r *Runner) cachedScene(ctx context.Context, key string) (scene.Document, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, "scene")
		return scene.Document{}, false
	}
	doc, err := scene.Read(bytes.NewReader(data))
	if err != nil {
		// A corrupt entry is recomputed and overwritten.
		observability.Cache().OnCacheMiss(ctx, "scene")
		return scene.Document{}, false
	}
	observability.Cache().OnCacheHit(ctx, "scene")
	return doc, true
}

func (r *Runner) storeScene(ctx context.Context, key string, doc scene.Document) {
	var buf bytes.Buffer
	if err := scene.Write(&buf, doc); err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, buf.Bytes(), cache.DefaultTTL); err != nil {
		r.Logger.Warn("cache scene", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "scene", buf.Len())
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
