// Package pkg provides the core libraries for snowball force-directed layout
// simulation.
//
// # Overview
//
// Snowball lays out a weighted complete graph with a spring model and records
// how every node moves. The dense per-tick stream of positions is compressed
// into run-length keyframes and exported as an animation. The pkg directory
// is organized into four main areas:
//
//  1. Core: [graph], [layout] and [trajectory]
//  2. Simulation and scenes: [sim], [scene] and [scenario]
//  3. Output: the [render] backends
//  4. Orchestration and infrastructure: [pipeline], [cache], [errors] and
//     [observability]
//
// # Architecture
//
// The typical data flow through snowball:
//
//	Scenario script (TOML)
//	         ↓
//	    [scenario] package (validated actions)
//	         ↓
//	    [sim] package (graph + layout engine, one event per tick)
//	         ↓
//	    [trajectory] recorder and [render] observers
//	         ↓
//	    Lottie/scene JSON, GIF, PNG, SVG or DOT output
//
// # Quick Start
//
// Run the built-in demo and encode it as Lottie:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/snowball/pkg/pipeline"
//	    "github.com/matzehuels/snowball/pkg/scenario"
//	)
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, _ := runner.Execute(context.Background(), scenario.Demo(), pipeline.Options{})
//	anim := result.Artifacts[pipeline.FormatLottie]
//
// Or drive the core directly:
//
//	rec := trajectory.NewRecorder()
//	sys, _ := sim.New(sim.WithObservers(rec))
//	sys.AddNode(1, color.RGBA{R: 0xdc, G: 0x32, B: 0x2f, A: 0xff})
//	sys.AddNode(2, color.RGBA{R: 0x26, G: 0x8b, B: 0xd2, A: 0xff})
//	sys.SetWeight(1, 2, 10)
//	sys.ManySteps(300)
//	doc := rec.Render()
//
// [graph]: github.com/matzehuels/snowball/pkg/graph
// [layout]: github.com/matzehuels/snowball/pkg/layout
// [trajectory]: github.com/matzehuels/snowball/pkg/trajectory
// [sim]: github.com/matzehuels/snowball/pkg/sim
// [scene]: github.com/matzehuels/snowball/pkg/scene
// [scenario]: github.com/matzehuels/snowball/pkg/scenario
// [render]: github.com/matzehuels/snowball/pkg/render
// [pipeline]: github.com/matzehuels/snowball/pkg/pipeline
// [cache]: github.com/matzehuels/snowball/pkg/cache
// [errors]: github.com/matzehuels/snowball/pkg/errors
// [observability]: github.com/matzehuels/snowball/pkg/observability
package pkg
