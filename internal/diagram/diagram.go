// Package diagram renders activity-on-node records as fixed-width text boxes.
//
// A box has nine rows:
//
//	+------------+
//	|   DUR=5    |
//	+------------+
//	|ES=9| |EF=14|
//	|----|E|-----|
//	|LS=9| |LF=14|
//	+------------+
//	|  DRAG=n/a  |
//	+------------+
package diagram

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/sthagen/prosessilouhinta/internal/cpm"
)

// Rows is the number of text lines in one box.
const Rows = 9

const (
	space    = " "
	hr       = "-"
	vr       = "|"
	arrow    = " => "
	unsetVal = "n/a"
)

// labelWidth is the width of the longest of the ES=, EF=, LS=, LF= labels.
var labelWidth = func() int {
	w := 0
	for _, label := range []string{"ES=", "EF=", "LS=", "LF="} {
		w = max(w, len(label))
	}
	return w
}()

// Box returns the nine rows of one activity box.
func Box(s cpm.Snapshot) [Rows]string {
	es, ef := Value(s.EarliestStart), Value(s.EarliestFinish)
	ls, lf := Value(s.LatestStart), Value(s.LatestFinish)

	left := max(width(es), width(ls)) + labelWidth
	mid := width(s.Name)
	right := max(width(ef), width(lf)) + labelWidth
	inner := left + mid + right + 2*len(vr)

	sep := "+" + strings.Repeat(hr, inner) + "+"
	banner := func(text string) string {
		return vr + center(text, inner, space) + vr
	}
	columns := func(l, m, r, fill string) string {
		return vr + center(l, left, fill) + vr + center(m, mid, space) + vr + center(r, right, fill) + vr
	}

	return [Rows]string{
		sep,
		banner("DUR=" + Value(s.Duration)),
		sep,
		columns("ES="+es, "", "EF="+ef, space),
		columns("", s.Name, "", hr),
		columns("LS="+ls, "", "LF="+lf, space),
		sep,
		banner("DRAG=" + Value(s.Drag)),
		sep,
	}
}

// Text renders one box followed by a newline.
func Text(s cpm.Snapshot) string {
	rows := Box(s)
	return strings.Join(rows[:], "\n") + "\n"
}

// Chain renders boxes left to right joined by arrows, as used for the
// critical path. An empty chain renders as the empty string.
func Chain(snaps []cpm.Snapshot) string {
	if len(snaps) == 0 {
		return ""
	}

	var lines [Rows]strings.Builder
	for i, s := range snaps {
		rows := Box(s)
		for r := range rows {
			lines[r].WriteString(rows[r])
			if i == len(snaps)-1 {
				continue
			}
			if r == 4 {
				lines[r].WriteString(arrow)
			} else {
				lines[r].WriteString(strings.Repeat(space, len(arrow)))
			}
		}
	}

	var b strings.Builder
	for r := range lines {
		b.WriteString(lines[r].String())
		b.WriteString("\n")
	}
	return b.String()
}

// Value formats a timing field the way boxes show it, "n/a" when unset.
func Value(v *float64) string {
	if v == nil {
		return unsetVal
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func width(s string) int {
	return utf8.RuneCountInString(s)
}

// center pads s with fill to the given width. When the padding is odd the
// extra fill goes left only if width is odd as well, so boxes of both
// parities keep the same look.
func center(s string, w int, fill string) string {
	pad := w - width(s)
	if pad <= 0 {
		return s
	}
	left := pad/2 + (pad & w & 1)
	return strings.Repeat(fill, left) + s + strings.Repeat(fill, pad-left)
}
