// Package scenario loads and runs scripted simulations.
//
// A scenario is a TOML document naming the canvas, the random seed, the
// spring model and an ordered list of actions:
//
//	name = "pair"
//	size = 500
//	seed = 7
//
//	[params]
//	spring_constant = 0.001
//
//	[[action]]
//	op = "add"
//	id = 0
//	colour = "#268bd2"
//
//	[[action]]
//	op = "steps"
//	count = 300
//
// The supported ops are "add" (id, colour), "remove" (id), "weight" (from,
// to, value) and "steps" (count). [Scenario.Validate] replays the actions
// against the live node set, so a scenario that validates can only fail
// at run time through its observers or cancellation.
//
// A handful of scenarios ship embedded in the binary; see [Names] and
// [Builtin]. [Demo] returns the eight-node showcase.
package scenario
