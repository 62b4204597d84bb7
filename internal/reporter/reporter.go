package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sthagen/prosessilouhinta/internal/cpm"
	"github.com/sthagen/prosessilouhinta/internal/diagram"
	"github.com/sthagen/prosessilouhinta/internal/graph"
	"github.com/sthagen/prosessilouhinta/internal/ui"
)

// Reporter renders the schedule of an updated network.
type Reporter struct {
	ID          string
	Network     *cpm.Network
	GeneratedAt time.Time
}

// New creates a new Reporter with a fresh report ID.
func New(n *cpm.Network) *Reporter {
	return &Reporter{
		ID:          uuid.NewString(),
		Network:     n,
		GeneratedAt: time.Now().UTC(),
	}
}

// order lists activity handles in topological order with name ties broken
// alphabetically. It falls back to registration order if sorting fails.
func (r *Reporter) order() []cpm.Handle {
	names, err := graph.TopoSort(r.Network.Adjacency())
	if err != nil {
		return r.Network.Handles()
	}
	hs := make([]cpm.Handle, 0, len(names))
	for _, name := range names {
		if h, err := r.Network.Lookup(name); err == nil {
			hs = append(hs, h)
		}
	}
	return hs
}

func (r *Reporter) critical() map[cpm.Handle]bool {
	path, _ := r.Network.CriticalPath()
	set := make(map[cpm.Handle]bool, len(path))
	for _, h := range path {
		set[h] = true
	}
	return set
}

// slack returns LS - ES, or nil while either is unknown.
func slack(node *cpm.Node) *float64 {
	if node.ES == nil || node.LS == nil {
		return nil
	}
	s := *node.LS - *node.ES
	return &s
}

// PrintSchedule writes a terminal-friendly schedule table.
func (r *Reporter) PrintSchedule(w io.Writer) {
	n := r.Network
	path, length := n.CriticalPath()

	fmt.Fprintf(w, "🎯 %s %s\n", ui.BoldCyan("Network"), ui.Bold(n.Name))
	fmt.Fprintln(w, ui.Cyan("═══════════════════════════"))
	fmt.Fprintf(w, "Activities: %s\n", ui.Bold(n.Len()))
	fmt.Fprintf(w, "Duration:   %s\n", ui.Bold(diagram.Value(n.Duration)))
	if len(path) > 0 {
		fmt.Fprintf(w, "⚡ Critical path: %s (%d activities, %s units)\n",
			ui.BoldYellow(strings.Join(n.Names(path), " → ")), len(path), diagram.Value(&length))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "    %-20s %8s %8s %8s %8s %8s %8s\n", "ACTIVITY", "DUR", "ES", "EF", "LS", "LF", "SLACK")
	critical := r.critical()
	for _, h := range r.order() {
		r.printActivity(w, h, critical[h])
	}
}

func (r *Reporter) printActivity(w io.Writer, h cpm.Handle, critical bool) {
	node := r.Network.Node(h)
	s := slack(node)

	name := node.Name
	if len([]rune(name)) > 20 {
		name = string([]rune(name)[:17]) + "..."
	}
	pad := strings.Repeat(" ", 20-len([]rune(name)))

	fmt.Fprintf(w, "  %s %s%s %8s %8s %8s %8s %8s %8s %s\n",
		ui.SlackIcon(s), ui.Activity(name), pad,
		diagram.Value(&node.Duration),
		diagram.Value(node.ES), diagram.Value(node.EF),
		diagram.Value(node.LS), diagram.Value(node.LF),
		diagram.Value(s), ui.CriticalMark(critical))
}

// PrintWaves writes the activities grouped by earliest start.
func (r *Reporter) PrintWaves(w io.Writer) {
	waves := cpm.Waves(r.Network)
	if len(waves) == 0 {
		fmt.Fprintln(w, ui.Dim("no scheduled activities"))
		return
	}
	critical := r.critical()
	for _, wave := range waves {
		fmt.Fprintf(w, "🌊 %s %d at %s (%d activities, %s)\n",
			ui.BoldWhite("Wave"), wave.Index+1, diagram.Value(&wave.Start),
			len(wave.Activities), ui.WaveStatus(wave.IsCritical))
		for _, name := range wave.Activities {
			h, err := r.Network.Lookup(name)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "  %s %s\n", ui.CriticalMark(critical[h]), ui.Activity(name))
		}
		fmt.Fprintln(w)
	}
}

// PrintDOT writes the network as a Graphviz digraph with the critical path
// drawn in red.
func (r *Reporter) PrintDOT(w io.Writer) {
	n := r.Network
	critical := r.critical()
	path, _ := n.CriticalPath()

	fmt.Fprintf(w, "digraph %q {\n", n.Name)
	fmt.Fprintln(w, "  rankdir=LR;")
	fmt.Fprintln(w, "  node [shape=box, style=rounded];")
	fmt.Fprintln(w)

	for _, h := range n.Handles() {
		node := n.Node(h)
		label := fmt.Sprintf("%s\\nDUR=%s ES=%s LF=%s", node.Name,
			diagram.Value(&node.Duration), diagram.Value(node.ES), diagram.Value(node.LF))
		attrs := fmt.Sprintf(`label="%s"`, label)
		if critical[h] {
			attrs += `, style="rounded,bold", color=red`
		}
		fmt.Fprintf(w, "  %q [%s];\n", node.Name, attrs)
	}

	fmt.Fprintln(w)

	for _, h := range n.Handles() {
		node := n.Node(h)
		for _, succ := range node.Succ {
			style := ""
			if onPath(path, h, succ) {
				style = ` [color=red, penwidth=2]`
			}
			fmt.Fprintf(w, "  %q -> %q%s;\n", node.Name, n.Node(succ).Name, style)
		}
	}

	fmt.Fprintln(w, "}")
}

// onPath reports whether from -> to is a consecutive pair on path.
func onPath(path []cpm.Handle, from, to cpm.Handle) bool {
	i := slices.Index(path, from)
	return i >= 0 && i+1 < len(path) && path[i+1] == to
}

// JSON returns the machine-readable schedule.
func (r *Reporter) JSON() ([]byte, error) {
	type activity struct {
		cpm.Snapshot
		Lag        float64  `json:"lag"`
		Slack      *float64 `json:"slack"`
		IsCritical bool     `json:"is_critical"`
	}

	type output struct {
		ReportID     string       `json:"report_id"`
		GeneratedAt  time.Time    `json:"generated_at"`
		Network      cpm.Snapshot `json:"network"`
		CriticalPath []string     `json:"critical_path"`
		Activities   []activity   `json:"activities"`
		Waves        []cpm.Wave   `json:"waves"`
	}

	n := r.Network
	path, _ := n.CriticalPath()
	o := output{
		ReportID:     r.ID,
		GeneratedAt:  r.GeneratedAt,
		Network:      n.NetworkSnapshot(),
		CriticalPath: n.Names(path),
		Activities:   []activity{},
		Waves:        cpm.Waves(n),
	}

	critical := r.critical()
	for _, h := range r.order() {
		o.Activities = append(o.Activities, activity{
			Snapshot:   n.Snapshot(h),
			Lag:        n.Node(h).Lag,
			Slack:      slack(n.Node(h)),
			IsCritical: critical[h],
		})
	}

	return json.MarshalIndent(o, "", "  ")
}

// Summary returns a one-line summary of the schedule.
func (r *Reporter) Summary() string {
	n := r.Network
	path, _ := n.CriticalPath()
	return fmt.Sprintf("%s: %d activities, duration %s, critical path %s",
		n.Name, n.Len(), diagram.Value(n.Duration), strings.Join(n.Names(path), " → "))
}
