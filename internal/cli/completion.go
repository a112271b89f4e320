package cli

import (
	"io"

	"github.com/spf13/cobra"
)

// completionCommand creates the completion command. Scripts go to the
// command's output stream so they can be redirected or sourced directly.
func (c *CLI) completionCommand() *cobra.Command {
	generators := map[string]func(root *cobra.Command, w io.Writer) error{
		"bash": func(root *cobra.Command, w io.Writer) error { return root.GenBashCompletionV2(w, true) },
		"zsh":  (*cobra.Command).GenZshCompletion,
		"fish": func(root *cobra.Command, w io.Writer) error { return root.GenFishCompletion(w, true) },
	}

	return &cobra.Command{
		Use:   "completion bash|zsh|fish",
		Short: "Generate shell completion scripts",
		Long: `Generate a completion script for snowball. Scenario names are completed
for run, inspect and scenario show.

  bash:  source <(snowball completion bash)
  zsh:   snowball completion zsh > "${fpath[1]}/_snowball"
  fish:  snowball completion fish > ~/.config/fish/completions/snowball.fish`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return generators[args[0]](cmd.Root(), cmd.OutOrStdout())
		},
	}
}
