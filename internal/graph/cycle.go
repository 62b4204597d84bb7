package graph

import (
	"cmp"
	"maps"
	"slices"
)

// cursor walks the neighbour list of one vertex on the DFS stack.
type cursor[K cmp.Ordered] struct {
	next []K
	pos  int
}

// Cyclic reports whether the directed graph contains a cycle. A vertex
// listing itself as a neighbour is a cycle. The empty graph is acyclic.
//
// The walk is iterative: a stack of neighbour cursors replaces recursion so
// deep chains cannot exhaust the goroutine stack. path holds the vertices of
// the current DFS branch and onPath mirrors it for constant time back-edge
// checks; visited keeps finished subtrees from being explored twice.
func Cyclic[K cmp.Ordered](g Digraph[K]) bool {
	visited := make(map[K]struct{})
	onPath := make(map[K]struct{})
	var path []K

	stack := []*cursor[K]{{next: slices.Sorted(maps.Keys(g))}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if top.pos == len(top.next) {
			stack = stack[:len(stack)-1]
			if len(path) > 0 {
				delete(onPath, path[len(path)-1])
				path = path[:len(path)-1]
			}
			continue
		}

		v := top.next[top.pos]
		top.pos++
		if _, ok := onPath[v]; ok {
			return true
		}
		if _, ok := visited[v]; ok {
			continue
		}
		visited[v] = struct{}{}
		onPath[v] = struct{}{}
		path = append(path, v)
		stack = append(stack, &cursor[K]{next: g[v]})
	}
	return false
}

// FindCycle returns the vertices of one cycle, first vertex repeated at the
// end, or nil if the graph is acyclic.
// Uses DFS with coloring: white (unvisited), gray (in progress), black (done).
func FindCycle[K cmp.Ordered](g Digraph[K]) []K {
	const (
		white = 0
		gray  = 1
		black = 2
	)

	color := make(map[K]int)
	parent := make(map[K]K)

	var dfs func(node K) []K
	dfs = func(node K) []K {
		color[node] = gray
		for _, next := range g[node] {
			if color[next] == gray {
				// Walk parents back from node to next, then close the loop.
				cycle := []K{next, node}
				cur := node
				for cur != next {
					cur = parent[cur]
					cycle = append(cycle, cur)
				}
				slices.Reverse(cycle)
				return cycle
			}
			if color[next] == white {
				parent[next] = node
				if cycle := dfs(next); cycle != nil {
					return cycle
				}
			}
		}
		color[node] = black
		return nil
	}

	for _, v := range slices.Sorted(maps.Keys(g)) {
		if color[v] == white {
			if cycle := dfs(v); cycle != nil {
				return cycle
			}
		}
	}
	return nil
}
