// Package nodelink renders a layout snapshot as a node-link diagram.
//
// # Overview
//
// This package turns the state of a simulation at one tick into a Graphviz
// graph: every node is pinned at its simulated position and every weight at
// or above [render.WeightThreshold] becomes an edge coloured by weight. Use
// it to inspect the final layout of a run or to feed external Graphviz
// tooling.
//
// # Usage
//
// Convert a snapshot to DOT, then render to SVG:
//
//	dot := nodelink.ToDOT(sys.Snapshot(), nodelink.Options{Labels: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # DOT Format
//
// The generated DOT is an undirected graph meant for the neato engine.
// Positions are given in points with a trailing "!" so neato keeps them
// fixed, and the y axis is flipped because Graphviz grows upward.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process
// rendering; no Graphviz installation is required.
//
// [render.WeightThreshold]: github.com/matzehuels/snowball/pkg/render
package nodelink
