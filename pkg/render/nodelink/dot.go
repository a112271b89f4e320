package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/snowball/pkg/render"
	"github.com/matzehuels/snowball/pkg/sim"
)

// Options configures diagram generation.
type Options struct {
	// Labels shows node ids inside the nodes.
	Labels bool
	// MinWeight hides edges lighter than this. Zero means
	// render.WeightThreshold.
	MinWeight float64
	// Weights prints the weight as an edge label.
	Weights bool
}

// ToDOT converts a snapshot to Graphviz DOT with every node pinned at its
// position. The result can be rendered with [RenderSVG] or [RenderPNG].
func ToDOT(snap sim.Snapshot, opts Options) string {
	minWeight := opts.MinWeight
	if minWeight == 0 {
		minWeight = render.WeightThreshold
	}
	diameter := 2 * render.NodeRadius

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	fmt.Fprintf(&buf, "  bgcolor=%q;\n", render.Hex(render.Background))
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  splines=line;\n")
	fmt.Fprintf(&buf, "  node [shape=circle, style=filled, fixedsize=true, width=%.3f, penwidth=0, fontsize=9];\n",
		float64(diameter)/72)
	fmt.Fprintf(&buf, "  edge [penwidth=%d];\n", render.EdgeWidth)
	buf.WriteString("\n")

	for _, n := range snap.Nodes {
		attrs := []string{
			fmt.Sprintf("pos=\"%.2f,%.2f!\"", n.Position.X, snap.Size-n.Position.Y),
			fmt.Sprintf("fillcolor=%q", render.Hex(n.Colour)),
		}
		if opts.Labels {
			attrs = append(attrs, fmt.Sprintf("label=%q", strconv.FormatUint(n.ID, 10)))
		} else {
			attrs = append(attrs, `label=""`)
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", strconv.FormatUint(n.ID, 10), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range snap.Weights {
		if e.Weight < minWeight {
			continue
		}
		attrs := []string{fmt.Sprintf("color=%q", render.Hex(render.WeightColour(e.Weight)))}
		if opts.Weights {
			attrs = append(attrs, fmt.Sprintf("label=%q", strconv.FormatFloat(e.Weight, 'g', -1, 64)))
		}
		fmt.Fprintf(&buf, "  %q -- %q [%s];\n",
			strconv.FormatUint(e.A, 10), strconv.FormatUint(e.B, 10), strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT graph to SVG with the neato engine.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	out, err := renderDOT(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG renders a DOT graph to PNG with the neato engine.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return renderDOT(ctx, dot, graphviz.PNG)
}

func renderDOT(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the root svg tag with one carrying only a zero
// origin viewBox and matching pixel size, so the diagram scales cleanly when
// embedded.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
