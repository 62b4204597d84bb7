package cpm

import (
	"slices"
	"strings"

	"github.com/pkg/errors"

	"github.com/sthagen/prosessilouhinta/internal/graph"
)

// Update recomputes the timing of every activity from scratch: cycle check,
// forward pass, backward pass, critical path. On success the network mirrors
// the critical path as one activity. On failure the timing present before
// the call is restored.
func (n *Network) Update() error {
	if !n.IsAcyclic() {
		cycle := graph.FindCycle(n.Adjacency())
		return errors.Wrapf(ErrCyclic, "update %s: cycle %s", n.Name, strings.Join(cycle, " -> "))
	}

	saved := n.saveTiming()
	if err := n.propagate(); err != nil {
		n.restoreTiming(saved)
		return errors.Wrapf(err, "update %s", n.Name)
	}

	path, length := n.CriticalPath()
	n.Duration, n.ES, n.EF, n.LS, n.LF = nil, nil, nil, nil, nil
	if len(path) > 0 {
		first, last := &n.nodes[path[0]], &n.nodes[path[len(path)-1]]
		n.Duration = &length
		n.ES, n.LS = first.ES, first.LS
		n.EF, n.LF = last.EF, last.LF
	}

	n.logger.Debug("network updated",
		"network", n.Name,
		"activities", len(n.nodes),
		"critical_path", strings.Join(n.Names(path), " -> "),
		"duration", length)
	return nil
}

func (n *Network) propagate() error {
	for i := range n.nodes {
		node := &n.nodes[i]
		node.ES, node.EF, node.LS, node.LF = nil, nil, nil, nil
	}

	done, err := Forward(n, NewWorklist(n.Handles()...))
	if err != nil {
		return err
	}
	return Backward(n, done)
}

type timing struct {
	es, ef, ls, lf *float64
}

func (n *Network) saveTiming() []timing {
	saved := make([]timing, len(n.nodes))
	for i := range n.nodes {
		node := &n.nodes[i]
		saved[i] = timing{node.ES, node.EF, node.LS, node.LF}
	}
	return saved
}

func (n *Network) restoreTiming(saved []timing) {
	for i, t := range saved {
		node := &n.nodes[i]
		node.ES, node.EF, node.LS, node.LF = t.es, t.ef, t.ls, t.lf
	}
}

// Snapshot returns the activity-on-node record of h.
func (n *Network) Snapshot(h Handle) Snapshot {
	node := &n.nodes[h]
	duration := node.Duration
	return Snapshot{
		Duration:       &duration,
		EarliestStart:  node.ES,
		EarliestFinish: node.EF,
		Name:           node.Name,
		LatestStart:    node.LS,
		LatestFinish:   node.LF,
		Drag:           node.Drag,
	}
}

// NetworkSnapshot returns the record of the network seen as one activity.
func (n *Network) NetworkSnapshot() Snapshot {
	return Snapshot{
		Duration:       n.Duration,
		EarliestStart:  n.ES,
		EarliestFinish: n.EF,
		Name:           n.Name,
		LatestStart:    n.LS,
		LatestFinish:   n.LF,
	}
}

// CriticalPathSnapshots returns the records along the critical path.
func (n *Network) CriticalPathSnapshots() []Snapshot {
	path, _ := n.CriticalPath()
	snaps := make([]Snapshot, 0, len(path))
	for _, h := range path {
		snaps = append(snaps, n.Snapshot(h))
	}
	return snaps
}

// Waves groups activities by their earliest start time. Activities without
// an earliest start (the network was never updated) are left out.
func Waves(n *Network) []Wave {
	path, _ := n.CriticalPath()

	esGroups := make(map[float64][]Handle)
	for _, h := range n.Handles() {
		if es := n.nodes[h].ES; es != nil {
			esGroups[*es] = append(esGroups[*es], h)
		}
	}

	esValues := make([]float64, 0, len(esGroups))
	for es := range esGroups {
		esValues = append(esValues, es)
	}
	slices.Sort(esValues)

	waves := make([]Wave, len(esValues))
	for i, es := range esValues {
		members := esGroups[es]

		// Critical activities first within a wave
		slices.SortStableFunc(members, func(a, b Handle) int {
			ac, bc := slices.Contains(path, a), slices.Contains(path, b)
			switch {
			case ac == bc:
				return 0
			case ac:
				return -1
			default:
				return 1
			}
		})

		waves[i] = Wave{
			Index:      i,
			Start:      es,
			Activities: n.Names(members),
			IsCritical: slices.ContainsFunc(members, func(h Handle) bool { return slices.Contains(path, h) }),
		}
	}
	return waves
}
