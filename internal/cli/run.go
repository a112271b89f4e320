package cli

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/snowball/pkg/pipeline"
	"github.com/matzehuels/snowball/pkg/render/raster"
	"github.com/matzehuels/snowball/pkg/scenario"
)

// runOpts holds the command-line flags for the run command that are not
// pipeline options.
type runOpts struct {
	formats string // comma-separated output formats
	output  string // output directory
	frames  string // directory for streamed PNG frames
}

// runCommand creates the run command that simulates a scenario and writes
// its artifacts.
func (c *CLI) runCommand() *cobra.Command {
	var ro runOpts
	opts := pipeline.Options{}
	opts.SetDefaults()

	cmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "Simulate a scenario and write its artifacts",
		Long: `Simulate a scenario and write its artifacts.

The scenario is a built-in name (see 'snowball scenario list') or a path to a
TOML scenario file. Without an argument the demo scenario runs.

Artifacts are written to the output directory as <name>.<ext>. Results are
cached, so running the same scenario again with the same options is instant;
use --refresh to force a new simulation.

Use --frames to stream every tick as a PNG image while the simulation runs.`,
		Example: `  snowball run
  snowball run pair --format lottie,gif -o out
  snowball run my-scenario.toml --format png --scale 2 --labels
  snowball run churn --frames frames/ --frame-every 5`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeScenarios,
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := defaultScenario
			if len(args) == 1 {
				ref = args[0]
			}
			opts.Formats = parseFormats(ro.formats)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			if err := pipeline.ValidatePolicy(opts.Policy); err != nil {
				return err
			}
			return c.runScenario(cmd.Context(), ref, opts, ro)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&ro.formats, "format", "f", "", "output format(s): lottie (default), scene, gif, png, svg, dot (comma-separated)")
	cmd.Flags().StringVarP(&ro.output, "output", "o", ".", "output directory")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "ignore cached results")

	// Simulation flags
	cmd.Flags().StringVar(&opts.Policy, "policy", "", "change policy: truncate, tolerance (default from scenario)")
	cmd.Flags().IntVar(&opts.NodeSize, "node-size", opts.NodeSize, "node diameter in the exported animation")
	cmd.Flags().IntVarP(&opts.Workers, "workers", "w", opts.Workers, "goroutines per simulation phase")

	// Raster flags
	cmd.Flags().Float64Var(&opts.Scale, "scale", opts.Scale, "raster output scale factor")
	cmd.Flags().BoolVar(&opts.Labels, "labels", false, "draw node ids in raster and graph output")
	cmd.Flags().IntVar(&opts.GIFEvery, "gif-every", opts.GIFEvery, "keep every n-th tick in GIF output")
	cmd.Flags().IntVar(&opts.GIFDelay, "gif-delay", opts.GIFDelay, "GIF frame delay in 100ths of a second")
	cmd.Flags().StringVar(&ro.frames, "frames", "", "stream PNG frames into this directory")
	cmd.Flags().IntVar(&opts.FrameEvery, "frame-every", opts.FrameEvery, "stream every n-th tick with --frames")

	return cmd
}

// runScenario resolves ref, runs it through the pipeline and writes the
// artifacts.
func (c *CLI) runScenario(ctx context.Context, ref string, opts pipeline.Options, ro runOpts) error {
	sc, err := scenario.Resolve(ref)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	logger := loggerFromContext(ctx)
	opts.Logger = logger

	total := sc.TotalSteps()
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Simulating %s (%d nodes, %d steps)...", sc.Name, sc.NodeCount(), total))
	if ro.frames != "" {
		if err := os.MkdirAll(ro.frames, 0o755); err != nil {
			return fmt.Errorf("create frames dir: %w", err)
		}
		opts.FrameSink = frameWriter(ro.frames, sc.Name, total, spinner)
	}

	spinner.Start()
	result, err := runner.Execute(ctx, sc, opts)
	if err != nil {
		spinner.StopWithError("Simulation failed")
		return fmt.Errorf("run %s: %w", sc.Name, err)
	}
	spinner.Stop()

	prog := newProgress(logger)
	paths, err := writeArtifacts(ro.output, sc.Name, result.Artifacts)
	if err != nil {
		return err
	}
	prog.done("wrote artifacts", "run", result.RunID[:8], "files", len(paths))

	printSuccess("Ran %s", StyleHighlight.Render(sc.Name))
	printStats(result.Stats, result.CacheInfo.RenderHit)
	for _, p := range paths {
		printFile(p)
	}
	if ro.frames != "" {
		printDetail("Frames: %s", ro.frames)
	}
	if result.Artifacts[pipeline.FormatScene] != nil {
		printNextStep("Browse the recording", fmt.Sprintf("%s inspect %s", appName, filepath.Join(ro.output, pipeline.Filename(sc.Name, pipeline.FormatScene))))
	}
	return nil
}

// writeArtifacts writes each artifact to dir in the stable format order and
// returns the written paths.
func writeArtifacts(dir, name string, artifacts map[string][]byte) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	var paths []string
	for _, format := range pipeline.Formats {
		data, ok := artifacts[format]
		if !ok {
			continue
		}
		path := filepath.Join(dir, pipeline.Filename(name, format))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", format, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// frameWriter returns a frame sink that writes each frame as
// <dir>/<name>-<step>.png and reports progress on spinner.
func frameWriter(dir, name string, total int, spinner *Spinner) raster.FrameSink {
	return func(step int, img image.Image) error {
		path := filepath.Join(dir, fmt.Sprintf("%s-%06d.png", name, step))
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create frame: %w", err)
		}
		if err := raster.EncodePNG(f, img); err != nil {
			f.Close()
			return fmt.Errorf("encode frame %d: %w", step, err)
		}
		if spinner != nil {
			spinner.Update("Simulating %s (step %d/%d)...", name, step, total)
		}
		return f.Close()
	}
}

// completeScenarios offers the built-in scenario names for shell completion.
func completeScenarios(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return scenario.Names(), cobra.ShellCompDirectiveDefault
}
