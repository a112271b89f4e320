package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	serrors "github.com/matzehuels/snowball/pkg/errors"
	"github.com/matzehuels/snowball/pkg/scenario"
)

// accents are the node colours used by scaffolded scenarios.
var accents = []string{"#b58900", "#cb4b16", "#dc322f", "#d33682", "#6c71c4", "#268bd2", "#2aa198", "#859900"}

// scenarioCommand creates the scenario management command.
func (c *CLI) scenarioCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "scenario",
		Aliases: []string{"scenarios"},
		Short:   "List, show, validate and scaffold scenario scripts",
	}

	cmd.AddCommand(c.scenarioListCommand())
	cmd.AddCommand(c.scenarioShowCommand())
	cmd.AddCommand(c.scenarioValidateCommand())
	cmd.AddCommand(c.scenarioNewCommand())

	return cmd
}

// scenarioListCommand creates the "scenario list" subcommand.
func (c *CLI) scenarioListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the built-in scenarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var rows [][]string
			for _, name := range scenario.Names() {
				sc, err := scenario.Builtin(name)
				if err != nil {
					return err
				}
				rows = append(rows, []string{
					sc.Name,
					strconv.Itoa(sc.NodeCount()),
					strconv.Itoa(sc.TotalSteps()),
					fmt.Sprintf("%.1fs", sc.Duration()),
					sc.Description,
				})
			}
			t := table.New().
				Border(lipgloss.RoundedBorder()).
				BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
				Headers("Name", "Nodes", "Steps", "Length", "Description").
				Rows(rows...).
				StyleFunc(func(row, col int) lipgloss.Style {
					switch {
					case row == -1:
						return headerStyle
					case col == 0:
						return StyleHighlight
					case col == 4:
						return StyleDim
					}
					return lipgloss.NewStyle()
				})
			_, err := fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return err
		},
	}
}

// scenarioShowCommand creates the "scenario show" subcommand.
func (c *CLI) scenarioShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "show <scenario>",
		Short:             "Print a scenario as TOML",
		Long:              `Print a built-in scenario or a scenario file as TOML. The output can be edited and run with 'snowball run'.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeScenarios,
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := scenario.Resolve(args[0])
			if err != nil {
				return err
			}
			return scenario.Encode(cmd.OutOrStdout(), sc)
		},
	}
}

// scenarioValidateCommand creates the "scenario validate" subcommand.
func (c *CLI) scenarioValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <scenario>...",
		Short: "Check scenario files without running them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return validateScenarios(cmd.OutOrStdout(), args)
		},
	}
}

// errInvalidScenarios is returned when at least one validated scenario failed.
var errInvalidScenarios = errors.New("invalid scenarios")

func validateScenarios(w io.Writer, refs []string) error {
	failed := 0
	for _, ref := range refs {
		sc, err := scenario.Resolve(ref)
		if err != nil {
			failed++
			code := serrors.GetCode(err)
			fmt.Fprintf(w, "%s %s %s %s\n", styleIconError.Render(iconError), ref, StyleDim.Render(string(code)), StyleError.Render(serrors.UserMessage(err)))
			continue
		}
		fmt.Fprintf(w, "%s %s %s\n", styleIconSuccess.Render(iconSuccess), ref,
			StyleDim.Render(fmt.Sprintf("%d nodes · %d steps", sc.NodeCount(), sc.TotalSteps())))
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", errInvalidScenarios, failed, len(refs))
	}
	return nil
}

// scenarioNewCommand creates the "scenario new" subcommand.
func (c *CLI) scenarioNewCommand() *cobra.Command {
	var (
		output string
		nodes  int
		steps  int
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "new <name>",
		Short: "Scaffold a scenario file",
		Long: `Scaffold a scenario file with the given number of nodes.

Nodes are added one after another and attracted to their predecessor, so the
scaffold settles into a chain. Edit the actions to script anything else.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := scaffold(args[0], nodes, steps)
			if err != nil {
				return err
			}
			if output == "" {
				output = sc.Name + ".toml"
			}
			flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
			if force {
				flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
			}
			f, err := os.OpenFile(output, flags, 0o644)
			if err != nil {
				if os.IsExist(err) {
					return fmt.Errorf("%s exists (use --force to overwrite)", output)
				}
				return err
			}
			if err := scenario.Encode(f, sc); err != nil {
				f.Close()
				return fmt.Errorf("write scenario: %w", err)
			}
			if err := f.Close(); err != nil {
				return err
			}
			printSuccess("Created %s", StyleHighlight.Render(sc.Name))
			printFile(output)
			printNextStep("Run it", fmt.Sprintf("%s run %s", appName, output))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <name>.toml)")
	cmd.Flags().IntVarP(&nodes, "nodes", "n", 4, "number of nodes")
	cmd.Flags().IntVar(&steps, "steps", 200, "ticks to run after each node is added")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	return cmd
}

// scaffold builds a chain scenario with n nodes.
func scaffold(name string, n, steps int) (*scenario.Scenario, error) {
	if n < 1 || n > scenario.MaxNodes {
		return nil, serrors.New(serrors.ErrCodeInvalidInput, "nodes %d not in [1, %d]", n, scenario.MaxNodes)
	}
	if steps < 1 {
		return nil, serrors.New(serrors.ErrCodeInvalidInput, "steps %d must be positive", steps)
	}
	sc := scenario.New(name)
	sc.Description = fmt.Sprintf("A chain of %d nodes.", n)
	for i := range uint64(n) {
		sc.Actions = append(sc.Actions, scenario.Action{Op: scenario.OpAdd, ID: i, Colour: accents[int(i)%len(accents)]})
		if i > 0 {
			sc.Actions = append(sc.Actions, scenario.Action{Op: scenario.OpWeight, From: i - 1, To: i, Value: 10})
		}
		sc.Actions = append(sc.Actions, scenario.Action{Op: scenario.OpSteps, Count: steps})
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return sc, nil
}
