package cpm

import (
	"log/slog"
	"slices"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/sthagen/prosessilouhinta/internal/graph"
)

// validate is the shared validator for activity and document declarations.
var validate = validator.New()

// NewNetwork creates an empty network with the given name.
func NewNetwork(name string) *Network {
	return &Network{
		Name:   name,
		index:  make(map[string]Handle),
		exit:   NoHandle,
		logger: discardLogger(),
	}
}

// SetLogger routes update diagnostics to l. A nil logger discards them.
func (n *Network) SetLogger(l *slog.Logger) {
	if l == nil {
		l = discardLogger()
	}
	n.logger = l
}

// Add registers an activity. Re-adding a known name is a no-op that returns
// the handle of the first registration.
func (n *Network) Add(a Activity) (Handle, error) {
	if err := validate.Struct(a); err != nil {
		return NoHandle, invalid("add", a.Name, fieldProblem(err))
	}
	if h, ok := n.index[a.Name]; ok {
		return h, nil
	}

	h := Handle(len(n.nodes))
	n.nodes = append(n.nodes, Node{
		Name:     a.Name,
		Duration: *a.Duration,
		Lag:      a.Lag,
	})
	n.index[a.Name] = h
	n.touch()
	return h, nil
}

// Link adds the directed edge from -> to between two registered activities.
func (n *Network) Link(from, to string) error {
	f, err := n.resolve("link", from)
	if err != nil {
		return err
	}
	t, err := n.resolve("link", to)
	if err != nil {
		return err
	}
	n.addEdge(f, t)
	return nil
}

// LinkToSink attaches from to the network's own synthetic sink instead of
// another activity.
func (n *Network) LinkToSink(from string) error {
	f, err := n.resolve("link", from)
	if err != nil {
		return err
	}
	n.nodes[f].IntoSink = true
	if !slices.Contains(n.sinks, f) {
		n.sinks = append(n.sinks, f)
	}
	n.touch()
	return nil
}

// AddExit creates the zero duration common exit on first use and links every
// other current leaf into it.
func (n *Network) AddExit() (Handle, error) {
	if n.exit == NoHandle {
		if _, taken := n.index[ExitName]; taken {
			return NoHandle, invalidf("add exit", "name %s is already taken by a declared activity", ExitName)
		}
		h, err := n.Add(NewActivity(ExitName, 0))
		if err != nil {
			return NoHandle, err
		}
		n.exit = h
	}

	for i := range n.nodes {
		h := Handle(i)
		if h == n.exit || len(n.nodes[h].Succ) > 0 {
			continue
		}
		n.addEdge(h, n.exit)
	}
	return n.exit, nil
}

// Exit returns the common exit handle if AddExit has created one.
func (n *Network) Exit() (Handle, bool) {
	return n.exit, n.exit != NoHandle
}

// Sinks returns the activities attached to the network's own sink.
func (n *Network) Sinks() []Handle {
	return slices.Clone(n.sinks)
}

// Lookup resolves an activity name.
func (n *Network) Lookup(name string) (Handle, error) {
	return n.resolve("lookup", name)
}

// Node returns a copy of the activity behind h, or nil for an unknown
// handle. Changing the copy does not change the network.
func (n *Network) Node(h Handle) *Node {
	if h < 0 || int(h) >= len(n.nodes) {
		return nil
	}
	c := n.nodes[h]
	c.Drag, c.FreeFloat, c.TotalFloat = cloneValue(c.Drag), cloneValue(c.FreeFloat), cloneValue(c.TotalFloat)
	c.ES, c.EF, c.LS, c.LF = cloneValue(c.ES), cloneValue(c.EF), cloneValue(c.LS), cloneValue(c.LF)
	c.Succ, c.Pred = slices.Clone(c.Succ), slices.Clone(c.Pred)
	return &c
}

func cloneValue(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// Len returns the number of registered activities.
func (n *Network) Len() int {
	return len(n.nodes)
}

// Handles returns every activity handle in registration order.
func (n *Network) Handles() []Handle {
	hs := make([]Handle, len(n.nodes))
	for i := range hs {
		hs[i] = Handle(i)
	}
	return hs
}

// Names maps handles to activity names.
func (n *Network) Names(hs []Handle) []string {
	names := make([]string, len(hs))
	for i, h := range hs {
		names[i] = n.nodes[h].Name
	}
	return names
}

// Generation counts structural mutations (add and link) so far.
func (n *Network) Generation() uint64 {
	return n.generation
}

// FirstNodes returns activities that no other activity points at.
func (n *Network) FirstNodes() []Handle {
	targeted := make([]bool, len(n.nodes))
	for i := range n.nodes {
		for _, s := range n.nodes[i].Succ {
			targeted[s] = true
		}
	}
	var first []Handle
	for i, hit := range targeted {
		if !hit {
			first = append(first, Handle(i))
		}
	}
	return first
}

// LastNodes returns activities without successors.
func (n *Network) LastNodes() []Handle {
	var last []Handle
	for i := range n.nodes {
		if len(n.nodes[i].Succ) == 0 {
			last = append(last, Handle(i))
		}
	}
	return last
}

// Adjacency returns the successor lists keyed by activity name.
func (n *Network) Adjacency() graph.Digraph[string] {
	adj := make(graph.Digraph[string], len(n.nodes))
	for i := range n.nodes {
		adj[n.nodes[i].Name] = n.Names(n.nodes[i].Succ)
	}
	return adj
}

// IsAcyclic reports whether the network is free of cycles, self links included.
func (n *Network) IsAcyclic() bool {
	return !graph.Cyclic(n.Adjacency())
}

func (n *Network) resolve(op, name string) (Handle, error) {
	h, ok := n.index[name]
	if !ok {
		return NoHandle, invalid(op, name, ErrNotFound)
	}
	return h, nil
}

func (n *Network) addEdge(from, to Handle) {
	if !slices.Contains(n.nodes[from].Succ, to) {
		n.nodes[from].Succ = append(n.nodes[from].Succ, to)
		n.nodes[to].Pred = append(n.nodes[to].Pred, from)
	}
	n.touch()
}

// touch records a structural mutation, which invalidates the cached path.
func (n *Network) touch() {
	n.generation++
}

// fieldProblem turns validator output into a short message.
func fieldProblem(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	switch fe := fieldErrs[0]; fe.Field() {
	case "Duration":
		return errors.New("unspecified duration")
	case "Name":
		return errors.New("unspecified name")
	default:
		return errors.Errorf("field %s failed %s", fe.Field(), fe.Tag())
	}
}
