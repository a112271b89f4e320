// Package cli implements the snowball command-line interface.
//
// This package provides commands for running force-directed layout
// scenarios, exporting their recorded trajectories, browsing recorded
// scenes, serving the pipeline over HTTP and managing the artifact cache.
// The CLI is built using cobra and supports verbose logging via the
// charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - run: Simulate a scenario and write Lottie, GIF, PNG, SVG or DOT output
//   - inspect: Browse the layers of a recorded scene document
//   - scenario: List, show, validate and scaffold scenario scripts
//   - serve: Expose the pipeline as an HTTP API
//   - cache: Manage the artifact cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/snowball/pkg/buildinfo"
	"github.com/matzehuels/snowball/pkg/cache"
	serrors "github.com/matzehuels/snowball/pkg/errors"
	"github.com/matzehuels/snowball/pkg/observability"
	"github.com/matzehuels/snowball/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "snowball"

	// defaultScenario runs when no scenario argument is given.
	defaultScenario = "demo"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// CacheURL selects the artifact cache. See cache.Open for the accepted
	// forms; empty means the default file cache.
	CacheURL string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Snowball simulates force-directed layouts and exports their trajectories",
		Long: `Snowball is a CLI tool for simulating spring-force layouts of weighted complete graphs.
Every node's trajectory is recorded as a compressed keyframe sequence and exported
as a Lottie animation, a GIF, PNG frames or a Graphviz snapshot.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := serrors.ValidateCacheURL(c.CacheURL); err != nil {
				return err
			}
			// Hook events are logged at debug level, so they show with --verbose.
			hooks := observability.NewLogHooks(c.Logger)
			observability.SetPipelineHooks(hooks)
			observability.SetCacheHooks(hooks)
			observability.SetServerHooks(hooks)
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.CacheURL, "cache", "",
		"cache location: none, a directory, file://, redis:// or mongodb:// URL (default ~/.cache/snowball)")

	// Register all subcommands
	root.AddCommand(c.runCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.scenarioCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context) (*pipeline.Runner, error) {
	store, err := c.openCache(ctx)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, nil, c.Logger), nil
}

func (c *CLI) openCache(ctx context.Context) (cache.Cache, error) {
	if err := serrors.ValidateCacheURL(c.CacheURL); err != nil {
		return nil, err
	}
	store, err := cache.Open(ctx, c.CacheURL)
	if err != nil {
		return nil, serrors.Wrap(cacheErrorCode(err), err, "open cache %q", c.CacheURL)
	}
	return store, nil
}

func cacheErrorCode(err error) serrors.Code {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return serrors.ErrCodeTimeout
	case errors.Is(err, cache.ErrNetwork):
		return serrors.ErrCodeNetwork
	case errors.Is(err, cache.ErrUnsupportedScheme):
		return serrors.ErrCodeInvalidCacheURL
	}
	return serrors.ErrCodeInternal
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatLottie}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}
