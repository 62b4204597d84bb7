package cpm

import "slices"

// candidate is one partial path during critical path enumeration.
type candidate struct {
	length float64
	path   []Handle
	seen   map[Handle]bool
}

// CriticalPath returns the longest-duration path from a source to an
// activity without further extensions, together with its summed duration.
// The result is cached until the next structural mutation.
func (n *Network) CriticalPath() ([]Handle, float64) {
	if n.cache == nil || n.cache.generation != n.generation {
		path, length := n.longestPath()
		n.cache = &pathCache{generation: n.generation, path: path, length: length}
	}
	return slices.Clone(n.cache.path), n.cache.length
}

// longestPath enumerates every path breadth first, starting one candidate
// per source in registration order and extending along successors in link
// order. A longer path replaces the best one; on equal length only an
// extension of the best path replaces it, otherwise the first found stays.
func (n *Network) longestPath() ([]Handle, float64) {
	var queue []candidate
	for _, h := range n.FirstNodes() {
		queue = append(queue, candidate{
			length: n.nodes[h].Duration,
			path:   []Handle{h},
			seen:   map[Handle]bool{h: true},
		})
	}

	var best *candidate
	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		if best == nil || item.length > best.length ||
			(item.length == best.length && extends(item.path, best.path)) {
			best = &item
		}

		last := item.path[len(item.path)-1]
		for _, s := range n.nodes[last].Succ {
			if item.seen[s] {
				continue
			}
			seen := make(map[Handle]bool, len(item.seen)+1)
			for h := range item.seen {
				seen[h] = true
			}
			seen[s] = true
			queue = append(queue, candidate{
				length: item.length + n.nodes[s].Duration,
				path:   append(slices.Clone(item.path), s),
				seen:   seen,
			})
		}
	}

	if best == nil {
		return nil, 0
	}
	return best.path, best.length
}

// extends reports whether path strictly extends prefix.
func extends(path, prefix []Handle) bool {
	return len(path) > len(prefix) && slices.Equal(path[:len(prefix)], prefix)
}
