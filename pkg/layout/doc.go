// Package layout computes force-directed 2-D layouts of complete weighted
// graphs.
//
// # Model
//
// Every pair of nodes is joined by a spring. The rest length of a spring is
// derived from the weight between its endpoints:
//
//	maxDistance = sqrt(nodeCount) * TargetDensity
//	target      = max(maxDistance - weight, MinSpringLength)
//
// so heavier weights pull nodes closer together, down to a floor, while
// unrelated pairs (the default weight) settle at the area-wide spacing. The
// spring pushes or pulls with force SpringConstant * (distance - target)
// along the line between the two nodes.
//
// # Stepping
//
// [Engine.Step] advances the layout by one tick in two strictly ordered
// phases:
//
//  1. Read: the acceleration of every node is computed from the positions
//     every node had at the start of the tick.
//  2. Write: each node integrates v = (v + a) * Damping, then p += v.
//
// No node is written before every node has been read, so the result does
// not depend on node order and is reproducible bit for bit. Both phases can
// be spread across several goroutines with [WithWorkers]; the output is
// identical to the sequential path.
//
// # Coincident Nodes
//
// Two nodes at exactly the same position have no defined direction between
// them. That pair contributes nothing to either node's acceleration for the
// tick. [NewNode] places new nodes with a small random jitter so this does
// not happen at creation.
package layout
