// Package render groups the output backends for recorded simulations.
//
// # Overview
//
// Each backend consumes either the neutral [scene.Document] produced by the
// trajectory recorder or the live event stream of a [sim.System]:
//
//   - [lottie]: encodes a scene document as Lottie JSON
//   - [raster]: draws frames with edges and nodes and writes PNG
//   - [palette]: encodes every tick as a frame of a palette GIF
//   - [nodelink]: renders the final layout through Graphviz as DOT or SVG
//
// Backends are selected when wiring a run, never at build time: any number
// of them can observe the same system.
//
//	rec := trajectory.NewRecorder()
//	gif := palette.NewImage(1000)
//	sys, _ := sim.New(sim.WithObservers(rec, gif))
//	...
//	data, _ := lottie.Encode(rec.Render())
//
// [scene.Document]: github.com/matzehuels/snowball/pkg/scene
// [sim.System]: github.com/matzehuels/snowball/pkg/sim
// [lottie]: github.com/matzehuels/snowball/pkg/render/lottie
// [raster]: github.com/matzehuels/snowball/pkg/render/raster
// [palette]: github.com/matzehuels/snowball/pkg/render/palette
// [nodelink]: github.com/matzehuels/snowball/pkg/render/nodelink
package render
