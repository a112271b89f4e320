// Package graph provides a generic, undirected, complete weighted graph.
//
// # Model
//
// Every pair of distinct nodes in a [Graph] is connected. Edges are never
// added or removed individually; instead each pair carries a weight which
// defaults to the zero value of the weight type until [Graph.SetWeight] is
// called. This lets the weight itself encode how strongly two nodes relate,
// with "unrelated" being simply the default weight.
//
// The graph has three type parameters:
//
//   - K: the key type, any comparable type
//   - N: the node value, which must implement [Keyed] to report its key
//   - W: the weight type; its zero value is the default weight
//
// # Usage
//
//	g := graph.New[uint64, Person, float64]()
//	g.AddNode(Person{ID: 1})
//	g.AddNode(Person{ID: 2})
//	if _, err := g.SetWeight(1, 2, 50); err != nil {
//	    return err
//	}
//	for other, w := range g.Edges(1) {
//	    fmt.Println(other.ID, w)
//	}
//
// # Invariants
//
//   - Weights are symmetric: Weight(a, b) == Weight(b, a) for all keys.
//   - Weight is total: it never fails, returning the default for unset
//     pairs, absent keys and a == b.
//   - RemoveNode purges every weight incident to the removed key.
//
// # Ordering
//
// Nodes are iterated in insertion order. Replacing a node through
// [Graph.AddNode] keeps its original position. Stable iteration makes any
// computation over the graph reproducible.
//
// # Concurrency
//
// A Graph is not safe for concurrent mutation. Concurrent reads are safe as
// long as no goroutine mutates the graph at the same time.
package graph
