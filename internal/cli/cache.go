package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/matzehuels/snowball/pkg/cache"
	serrors "github.com/matzehuels/snowball/pkg/errors"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the artifact cache",
		Long: `Manage the artifact cache.

Recorded scenes and rendered artifacts are cached under ~/.cache/snowball by
default. Use the global --cache flag to point at another directory, a Redis
server or a MongoDB database.`,
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())
	cmd.AddCommand(c.cacheInfoCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached scenes and artifacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openCache(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			clearer, ok := store.(cache.Clearer)
			if !ok {
				printInfo("Cache is disabled")
				return nil
			}
			count, err := clearer.Clear(cmd.Context())
			if err != nil {
				return serrors.Wrap(cacheErrorCode(err), err, "clear cache")
			}

			printSuccess("Cleared %d cached entries", count)
			printDetail("Location: %s", c.cacheLocation())
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), c.cacheLocation())
			return err
		},
	}
}

// cacheInfoCommand creates the "cache info" subcommand.
func (c *CLI) cacheInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the number and size of cached entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openCache(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			statter, ok := store.(cache.Statter)
			if !ok {
				return serrors.New(serrors.ErrCodeUnsupported, "cache backend does not report statistics")
			}
			stats, err := statter.Stats(cmd.Context())
			if err != nil {
				return serrors.Wrap(cacheErrorCode(err), err, "cache stats")
			}

			printKeyValue("Backend", stats.Backend)
			printKeyValue("Location", c.cacheLocation())
			printKeyValue("Entries", fmt.Sprintf("%d", stats.Entries))
			if stats.Bytes > 0 {
				printKeyValue("Size", formatBytes(stats.Bytes))
			}
			return nil
		},
	}
}

// cacheLocation describes the configured cache without credentials.
func (c *CLI) cacheLocation() string {
	switch loc := c.CacheURL; {
	case loc == "":
		dir, err := cache.DefaultDir()
		if err != nil {
			return "(unavailable)"
		}
		return dir
	case loc == "none":
		return "none"
	default:
		u, err := url.Parse(loc)
		if err != nil || u.Scheme == "" {
			return loc
		}
		if u.Scheme == "file" {
			return u.Host + u.Path
		}
		return u.Redacted()
	}
}

// formatBytes renders n with a binary unit suffix.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
