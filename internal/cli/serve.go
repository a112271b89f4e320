package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/snowball/internal/server"
)

// serveCommand creates the serve command that exposes the pipeline over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr        string
		timeout     time.Duration
		concurrency int
		maxWorkers  int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the simulation pipeline over HTTP",
		Long: `Serve the simulation pipeline over HTTP.

Routes:
  GET  /healthz                       liveness probe
  GET  /version                       build information
  GET  /v1/scenarios                  built-in scenarios
  GET  /v1/scenarios/{name}           a built-in scenario as TOML
  GET  /v1/scenarios/{name}/{format}  render a built-in scenario
  POST /v1/render                     render a submitted scenario

Artifacts are cached in the location given by --cache. Point several
servers at the same Redis or MongoDB cache to share results.`,
		Example: `  snowball serve --addr :9000
  snowball serve --cache redis://localhost:6379/0 --concurrency 8`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			store, err := c.openCache(ctx)
			if err != nil {
				return err
			}

			srv := server.New(store,
				server.WithLogger(logger),
				server.WithTimeout(timeout),
				server.WithConcurrency(concurrency),
				server.WithMaxWorkers(maxWorkers),
			)
			defer srv.Close()

			printInfo("Listening on %s", StyleHighlight.Render(addr))
			printDetail("Cache: %s", c.cacheLocation())
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().DurationVar(&timeout, "timeout", server.DefaultRunTimeout, "maximum duration of one render")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "simulations running at once (default number of CPUs)")
	cmd.Flags().IntVar(&maxWorkers, "max-workers", 0, "largest worker count a request may ask for (default number of CPUs)")

	return cmd
}
