package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	serrors "github.com/matzehuels/snowball/pkg/errors"
	"github.com/matzehuels/snowball/pkg/pipeline"
	"github.com/matzehuels/snowball/pkg/scenario"
	"github.com/matzehuels/snowball/pkg/scene"
)

// inspectCommand creates the inspect command for browsing a recorded scene.
func (c *CLI) inspectCommand() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "inspect [scene.json | scenario]",
		Short: "Browse the layers of a recorded scene",
		Long: `Browse the layers of a recorded scene.

The argument is a scene document written by 'snowball run --format scene' or a
scenario, which is simulated (or loaded from the cache) first. Each layer
lists its visible tick range, keyframe count, colour and first and last
position. Press enter to list a layer's keyframes.

Use --plain to print the table without the interactive browser.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeScenarios,
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := defaultScenario
			if len(args) == 1 {
				ref = args[0]
			}
			title, doc, err := c.loadScene(cmd.Context(), ref)
			if err != nil {
				return err
			}
			if plain {
				return printLayers(cmd.OutOrStdout(), title, doc)
			}
			_, err = tea.NewProgram(NewLayerListModel(title, doc), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print a table instead of the interactive browser")

	return cmd
}

// loadScene reads ref as a scene document when it names a JSON file, and
// otherwise runs it as a scenario.
func (c *CLI) loadScene(ctx context.Context, ref string) (string, scene.Document, error) {
	if strings.HasSuffix(ref, ".json") {
		f, err := os.Open(ref)
		if err != nil {
			if os.IsNotExist(err) {
				return "", scene.Document{}, serrors.Wrap(serrors.ErrCodeFileNotFound, err, "scene %s", ref)
			}
			return "", scene.Document{}, fmt.Errorf("open scene: %w", err)
		}
		defer f.Close()
		doc, err := scene.Read(f)
		if err != nil {
			return "", scene.Document{}, serrors.Wrap(serrors.ErrCodeInvalidInput, err, "read scene %s", ref)
		}
		return ref, doc, nil
	}

	sc, err := scenario.Resolve(ref)
	if err != nil {
		return "", scene.Document{}, err
	}
	runner, err := c.newRunner(ctx)
	if err != nil {
		return "", scene.Document{}, fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Simulating %s...", sc.Name))
	spinner.Start()
	result, err := runner.Execute(ctx, sc, pipeline.Options{
		Formats: []string{pipeline.FormatScene},
		Logger:  loggerFromContext(ctx),
	})
	if err != nil {
		spinner.StopWithError("Simulation failed")
		return "", scene.Document{}, fmt.Errorf("run %s: %w", sc.Name, err)
	}
	spinner.Stop()

	doc := result.Scene
	if len(doc.Layers) == 0 {
		// Every artifact was cached, so only the encoded scene is at hand.
		doc, err = scene.Read(bytes.NewReader(result.Artifacts[pipeline.FormatScene]))
		if err != nil {
			return "", scene.Document{}, fmt.Errorf("decode cached scene: %w", err)
		}
	}
	return sc.Name, doc, nil
}

// printLayers writes the layer table of doc to w.
func printLayers(w io.Writer, title string, doc scene.Document) error {
	_, err := fmt.Fprintf(w, "%s\n%s\n%s\n",
		StyleTitle.Render(title),
		StyleDim.Render(fmt.Sprintf("%d layers · %d×%d · %d fps · %d ticks", len(doc.Layers), doc.Width, doc.Height, doc.FrameRate, doc.End)),
		layerTable(layerRows(doc), -1).Render())
	return err
}
