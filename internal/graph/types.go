package graph

import (
	"cmp"
	"maps"
	"slices"
)

// Digraph maps each vertex to the vertices it points at.
// Vertices that only ever appear as neighbours need no key of their own.
type Digraph[K cmp.Ordered] map[K][]K

// Vertices returns every vertex mentioned by the graph, keys and neighbours,
// in ascending order.
func (g Digraph[K]) Vertices() []K {
	seen := make(map[K]struct{}, len(g))
	for v, next := range g {
		seen[v] = struct{}{}
		for _, w := range next {
			seen[w] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(seen))
}
