package ui

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Sprint color functions for building styled strings.
var (
	Bold        = color.New(color.Bold).SprintFunc()
	Dim         = color.New(color.Faint).SprintFunc()
	Cyan        = color.New(color.FgCyan).SprintFunc()
	Green       = color.New(color.FgGreen).SprintFunc()
	Red         = color.New(color.FgRed).SprintFunc()
	Yellow      = color.New(color.FgYellow).SprintFunc()
	BoldCyan    = color.New(color.Bold, color.FgCyan).SprintFunc()
	BoldRed     = color.New(color.Bold, color.FgRed).SprintFunc()
	BoldYellow  = color.New(color.Bold, color.FgYellow).SprintFunc()
	BoldMagenta = color.New(color.Bold, color.FgMagenta).SprintFunc()
	BoldWhite   = color.New(color.Bold, color.FgWhite).SprintFunc()
)

// SetColor turns styling on or off for every function in this package.
func SetColor(enabled bool) {
	color.NoColor = !enabled
}

// PrintBanner renders the network headline used above reports.
func PrintBanner(w io.Writer, network string) {
	frame := color.New(color.FgCyan)
	brand := color.New(color.Bold, color.FgMagenta)

	fmt.Fprintln(w)
	frame.Fprintln(w, "   +--------------------------+")
	brand.Fprintf(w, "   |  %-22s  |\n", clip(network, 22))
	frame.Fprintln(w, "   +--------------------------+")
	fmt.Fprintln(w)
}

// activityColors is a palette of distinct bold colors for telling activities apart.
var activityColors = []func(a ...interface{}) string{
	BoldMagenta,
	BoldCyan,
	BoldYellow,
	color.New(color.Bold, color.FgGreen).SprintFunc(),
	color.New(color.Bold, color.FgHiBlue).SprintFunc(),
	color.New(color.Bold, color.FgHiRed).SprintFunc(),
}

// activityColorIndex hashes an activity name to a palette index.
func activityColorIndex(name string) int {
	var h uint32
	for _, c := range name {
		h = h*31 + uint32(c)
	}
	return int(h % uint32(len(activityColors)))
}

// Activity returns the activity name in its palette color. The same name
// always gets the same color.
func Activity(name string) string {
	return activityColors[activityColorIndex(name)](name)
}

// CriticalMark returns the lightning marker for critical activities and a
// blank of the same width otherwise.
func CriticalMark(critical bool) string {
	if critical {
		return BoldYellow("⚡")
	}
	return " "
}

// SlackIcon returns a colored icon for the scheduling slack LS - ES of an
// activity. Unknown slack (network not updated) is dimmed.
func SlackIcon(slack *float64) string {
	switch {
	case slack == nil:
		return Dim("◌")
	case *slack == 0:
		return Red("●")
	default:
		return Green("○")
	}
}

// WaveStatus returns a colored wave label.
func WaveStatus(critical bool) string {
	if critical {
		return BoldYellow("critical")
	}
	return Dim("slack")
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
