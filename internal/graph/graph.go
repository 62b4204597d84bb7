package graph

import (
	"cmp"
	"fmt"
	"slices"
)

// TopoSort performs Kahn's algorithm for topological sorting. Ties between
// ready vertices are broken in ascending order so the result is stable.
func TopoSort[K cmp.Ordered](g Digraph[K]) ([]K, error) {
	vertices := g.Vertices()
	inDegree := make(map[K]int, len(vertices))
	for _, v := range vertices {
		inDegree[v] += 0
		for _, w := range g[v] {
			inDegree[w]++
		}
	}

	// Start with roots (in-degree 0)
	var queue []K
	for _, v := range vertices {
		if inDegree[v] == 0 {
			queue = append(queue, v)
		}
	}

	order := make([]K, 0, len(vertices))
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		order = append(order, node)

		var newReady []K
		for _, succ := range g[node] {
			inDegree[succ]--
			if inDegree[succ] == 0 {
				newReady = append(newReady, succ)
			}
		}
		slices.Sort(newReady)
		queue = append(queue, newReady...)
	}

	if len(order) != len(vertices) {
		return nil, fmt.Errorf("topological sort failed: graph has a cycle (%d of %d vertices sorted)", len(order), len(vertices))
	}
	return order, nil
}
