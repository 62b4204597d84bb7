package cpm

import "github.com/pkg/errors"

// Worklist is an insertion-ordered set of activities awaiting forward
// propagation. Pushing a handle that is already pending is a no-op.
type Worklist struct {
	queue   []Handle
	pending map[Handle]bool
}

// NewWorklist returns a worklist holding hs in the given order.
func NewWorklist(hs ...Handle) *Worklist {
	w := &Worklist{pending: make(map[Handle]bool, len(hs))}
	for _, h := range hs {
		w.Push(h)
	}
	return w
}

// Push queues h unless it is already pending.
func (w *Worklist) Push(h Handle) {
	if w.pending[h] {
		return
	}
	w.pending[h] = true
	w.queue = append(w.queue, h)
}

// Pop removes the oldest pending handle.
func (w *Worklist) Pop() (Handle, bool) {
	if len(w.queue) == 0 {
		return NoHandle, false
	}
	h := w.queue[0]
	w.queue = w.queue[1:]
	delete(w.pending, h)
	return h, true
}

// Len returns the number of pending handles.
func (w *Worklist) Len() int {
	return len(w.queue)
}

// Stack records forward completions; the last completion is on top.
type Stack []Handle

// Push puts h on top of the stack.
func (s *Stack) Push(h Handle) {
	*s = append(*s, h)
}

// Pop removes the top of the stack.
func (s *Stack) Pop() (Handle, bool) {
	if len(*s) == 0 {
		return NoHandle, false
	}
	h := (*s)[len(*s)-1]
	*s = (*s)[:len(*s)-1]
	return h, true
}

// Forward computes earliest start and finish for every activity reachable
// from the network's sources and drains pending in the process.
//
// ES is a running maximum over predecessors (pred.EF + lag), so the result
// does not depend on the order pending is drained in. Each completed
// activity is pushed on the returned stack and re-queues all of its
// successors, which guarantees a successor's last completion sits above
// the last completion of each of its predecessors.
//
// n must be acyclic; Update checks that before calling Forward.
func Forward(n *Network, pending *Worklist) (Stack, error) {
	for _, h := range n.FirstNodes() {
		node := &n.nodes[h]
		es := n.Lag + node.Lag
		node.ES = &es
		pending.Push(h)
	}

	var done Stack
	for {
		h, ok := pending.Pop()
		if !ok {
			break
		}
		node := &n.nodes[h]
		if node.ES == nil {
			// Not reached yet; a predecessor will queue it again.
			continue
		}

		ef := *node.ES + node.Duration
		node.EF = &ef

		for _, s := range node.Succ {
			if s == h {
				continue
			}
			succ := &n.nodes[s]
			candidate := ef + succ.Lag
			if succ.ES == nil || candidate > *succ.ES {
				succ.ES = &candidate
			}
			pending.Push(s)
		}
		done.Push(h)
	}

	for i := range n.nodes {
		if n.nodes[i].EF == nil {
			return done, errors.Wrapf(ErrCyclic, "activity %s is not reachable from any source", n.nodes[i].Name)
		}
	}
	return done, nil
}
