package cpm

import "github.com/pkg/errors"

// Backward computes latest finish and start by consuming the completion
// stack returned by Forward. Each activity is handled once, on its topmost
// (last) completion, at which point all of its successors are final.
//
// Sinks finish at their own earliest finish; every other activity finishes
// at the earliest latest start among its successors.
func Backward(n *Network, done Stack) error {
	processed := make(map[Handle]bool, len(n.nodes))
	for {
		h, ok := done.Pop()
		if !ok {
			break
		}
		if processed[h] {
			continue
		}
		processed[h] = true

		node := &n.nodes[h]
		lf, err := n.latestFinish(node)
		if err != nil {
			return err
		}
		ls := lf - node.Duration
		node.LF = &lf
		node.LS = &ls
	}
	return nil
}

func (n *Network) latestFinish(node *Node) (float64, error) {
	if len(node.Succ) == 0 {
		if node.EF == nil {
			return 0, errors.Wrapf(ErrNoLatestFinish, "activity %s", node.Name)
		}
		return *node.EF, nil
	}

	var lf *float64
	for _, s := range node.Succ {
		ls := n.nodes[s].LS
		if ls == nil {
			return 0, errors.Wrapf(ErrNoLatestFinish, "activity %s: successor %s has no latest start", node.Name, n.nodes[s].Name)
		}
		if lf == nil || *ls < *lf {
			lf = ls
		}
	}
	return *lf, nil
}
