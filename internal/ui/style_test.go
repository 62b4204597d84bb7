package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActivity_StableColor(t *testing.T) {
	for _, name := range []string{"A", "Build", "COMMON_EXIT"} {
		i := activityColorIndex(name)
		assert.Equal(t, i, activityColorIndex(name), "color index for %q is not stable", name)
		assert.GreaterOrEqual(t, i, 0)
		assert.Less(t, i, len(activityColors))
	}
}

func TestPlainOutput(t *testing.T) {
	SetColor(false)
	defer SetColor(true)

	zero, two := 0.0, 2.0
	tests := []struct {
		got, want string
	}{
		{Activity("A"), "A"},
		{CriticalMark(true), "⚡"},
		{CriticalMark(false), " "},
		{SlackIcon(nil), "◌"},
		{SlackIcon(&zero), "●"},
		{SlackIcon(&two), "○"},
		{WaveStatus(true), "critical"},
		{WaveStatus(false), "slack"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.got)
	}
}

func TestPrintBanner(t *testing.T) {
	SetColor(false)
	defer SetColor(true)

	var buf bytes.Buffer
	PrintBanner(&buf, "a network name that is far too long to fit")
	out := buf.String()
	assert.Contains(t, out, "a network name that...", "banner should clip long names")

	frame := len([]rune("   +--------------------------+"))
	for _, line := range strings.Split(out, "\n") {
		if line == "" {
			continue
		}
		assert.Len(t, []rune(line), frame, "line %q", line)
	}
}
