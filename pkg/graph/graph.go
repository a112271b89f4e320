package graph

import (
	"errors"
	"fmt"
	"iter"
	"slices"
)

var (
	// ErrMissingNode is returned by [Graph.SetWeight] when either endpoint is
	// not in the graph. It signals a programming error in the caller and
	// must not be ignored.
	ErrMissingNode = errors.New("missing node")

	// ErrSelfEdge is returned by [Graph.SetWeight] when both endpoints are the
	// same key. A node has no weight to itself.
	ErrSelfEdge = errors.New("self edge")
)

// Keyed is implemented by node values that can report the key identifying
// them. Key should be cheap, ideally a field access.
type Keyed[K comparable] interface {
	Key() K
}

// Graph is an undirected complete graph with weighted edges.
//
// The zero value is not usable - use New to create a Graph.
type Graph[K comparable, N Keyed[K], W any] struct {
	nodes map[K]*N
	order []K
	// Each weight is stored twice, once under each endpoint. Both copies
	// always hold the same value.
	edges map[K]map[K]W
}

// New creates an empty graph.
func New[K comparable, N Keyed[K], W any]() *Graph[K, N, W] {
	return &Graph[K, N, W]{
		nodes: make(map[K]*N),
		edges: make(map[K]map[K]W),
	}
}

// AddNode inserts n, replacing any node with the same key.
// A replaced node keeps its weights and its position in iteration order.
func (g *Graph[K, N, W]) AddNode(n N) {
	key := n.Key()
	if existing, ok := g.nodes[key]; ok {
		*existing = n
		return
	}
	g.nodes[key] = &n
	g.order = append(g.order, key)
}

// Node returns a copy of the node stored under key.
func (g *Graph[K, N, W]) Node(key K) (N, bool) {
	n, ok := g.nodes[key]
	if !ok {
		var zero N
		return zero, false
	}
	return *n, true
}

// NodeMut returns a pointer to the node stored under key. The pointer stays
// valid until the node is removed; mutating the node's key through it is not
// supported.
func (g *Graph[K, N, W]) NodeMut(key K) (*N, bool) {
	n, ok := g.nodes[key]
	return n, ok
}

// Has reports whether key is in the graph.
func (g *Graph[K, N, W]) Has(key K) bool {
	_, ok := g.nodes[key]
	return ok
}

// Len returns the number of nodes.
func (g *Graph[K, N, W]) Len() int { return len(g.nodes) }

// Keys returns the node keys in insertion order.
func (g *Graph[K, N, W]) Keys() []K { return slices.Clone(g.order) }

// Nodes iterates over all nodes in insertion order.
func (g *Graph[K, N, W]) Nodes() iter.Seq[N] {
	return func(yield func(N) bool) {
		for _, k := range g.order {
			if !yield(*g.nodes[k]) {
				return
			}
		}
	}
}

// SetWeight sets the weight between a and b in both directions and returns
// the weight previously stored for the pair (the default if none was set).
//
// Both nodes must exist: a missing endpoint returns an error wrapping
// ErrMissingNode and leaves the graph untouched.
func (g *Graph[K, N, W]) SetWeight(a, b K, w W) (W, error) {
	var prev W
	if !g.Has(a) {
		return prev, fmt.Errorf("set weight %v-%v: %w: %v", a, b, ErrMissingNode, a)
	}
	if !g.Has(b) {
		return prev, fmt.Errorf("set weight %v-%v: %w: %v", a, b, ErrMissingNode, b)
	}
	if a == b {
		return prev, fmt.Errorf("set weight %v-%v: %w", a, b, ErrSelfEdge)
	}
	if old, ok := g.edges[a][b]; ok {
		prev = old
	}
	g.sibling(a)[b] = w
	g.sibling(b)[a] = w
	return prev, nil
}

// MustSetWeight is like SetWeight but panics if the precondition fails.
func (g *Graph[K, N, W]) MustSetWeight(a, b K, w W) W {
	prev, err := g.SetWeight(a, b, w)
	if err != nil {
		panic(err)
	}
	return prev
}

func (g *Graph[K, N, W]) sibling(key K) map[K]W {
	m, ok := g.edges[key]
	if !ok {
		m = make(map[K]W)
		g.edges[key] = m
	}
	return m
}

// Weight returns the weight between a and b. Every pair is connected, so
// this always returns a value: the default weight when nothing was set,
// when either key is absent, or when a == b.
func (g *Graph[K, N, W]) Weight(a, b K) W {
	return g.edges[a][b]
}

// Edges iterates over every other node in the graph paired with its weight
// to key. Since the graph is complete this yields Len()-1 pairs when key is
// present.
func (g *Graph[K, N, W]) Edges(key K) iter.Seq2[N, W] {
	return func(yield func(N, W) bool) {
		siblings := g.edges[key]
		for _, k := range g.order {
			if k == key {
				continue
			}
			if !yield(*g.nodes[k], siblings[k]) {
				return
			}
		}
	}
}

// RemoveNode removes the node stored under key together with every weight
// incident to it, and returns the removed node.
func (g *Graph[K, N, W]) RemoveNode(key K) (N, bool) {
	n, ok := g.nodes[key]
	if !ok {
		var zero N
		return zero, false
	}
	delete(g.nodes, key)
	if i := slices.Index(g.order, key); i >= 0 {
		g.order = slices.Delete(g.order, i, i+1)
	}
	for sibling := range g.edges[key] {
		delete(g.edges[sibling], key)
		if len(g.edges[sibling]) == 0 {
			delete(g.edges, sibling)
		}
	}
	delete(g.edges, key)
	return *n, true
}

// Clone returns a deep copy of the graph structure. Node values are copied
// by assignment.
func (g *Graph[K, N, W]) Clone() *Graph[K, N, W] {
	c := New[K, N, W]()
	for _, k := range g.order {
		n := *g.nodes[k]
		c.nodes[k] = &n
	}
	c.order = slices.Clone(g.order)
	for k, m := range g.edges {
		cm := make(map[K]W, len(m))
		for k2, w := range m {
			cm[k2] = w
		}
		c.edges[k] = cm
	}
	return c
}
