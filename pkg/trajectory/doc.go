// Package trajectory records node trajectories as run-length compressed
// keyframe sequences.
//
// # Recording
//
// A [Recorder] is driven once per simulation tick:
//
//	rec := trajectory.NewRecorder()
//	rec.AddNode(7, colour)           // opens a record at the current tick
//	for range ticks {
//	    rec.SetPosition(7, position) // once per live node
//	    rec.NextStep()               // exactly once, after every position
//	}
//	rec.RemoveNode(7)                // closes the record
//	doc := rec.Render()
//
// A node that holds still costs one frame no matter how many ticks it stays
// put: each [Frame] is a position together with the number of consecutive
// ticks it was held. Whether a reported position counts as "held" is decided
// by the recorder's [ChangePolicy].
//
// # Change Policies
//
//   - [Truncate] (the default) compares positions on the integer pixel grid,
//     truncating toward zero. A node is still if it stays in the same pixel.
//   - [Tolerance] compares against the first position of the current frame
//     and treats the node as still while both axis deltas lie in [-1, 1).
//
// # Rendering
//
// [Recorder.Render] produces a [scene.Document] with one layer per node:
// removed nodes first, in removal order, followed by live nodes in the
// order they were added. Each layer is visible from its node's first tick
// to the end of its last frame and contains an ellipse with an animated
// position followed by a fill with the node's colour.
package trajectory
