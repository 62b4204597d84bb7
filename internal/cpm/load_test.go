package cpm

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const microDocument = `{
  "name": "micro",
  "nodes": {
    "A": {"duration": 3},
    "B": {"duration": 3, "lag": 0},
    "C": {"duration": 4, "lag": 0},
    "D": {"duration": 6, "lag": 0},
    "E": {"duration": 5, "lag": 0}
  },
  "edges": [["A", "B"], ["A", "C"], ["A", "D"], ["B", "E"], ["C", "E"], ["D", "E"]]
}`

func writeFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "network.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadNetwork_Micro(t *testing.T) {
	n := NewNetwork("micro")
	require.NoError(t, n.LoadNetwork(writeFixture(t, microDocument)))

	assert.Equal(t, 5, n.Len())
	assert.Equal(t, []string{"A", "B", "C", "D", "E"}, n.Names(n.Handles()), "document order is registration order")
	assert.Equal(t, []string{"A", "D", "E"}, pathNames(n))

	// Loading updates automatically.
	assertTiming(t, n, "B", 3, 6, 6, 9)
	require.NotNil(t, n.Duration)
	assert.Equal(t, 14.0, *n.Duration)
}

func TestLoadNetwork_Lag(t *testing.T) {
	n := NewNetwork("lag")
	require.NoError(t, n.LoadNetworkJSON([]byte(`{
		"name": "lag",
		"nodes": {"A": {"duration": 2, "lag": 1}, "B": {"duration": 1, "lag": 3}},
		"edges": [["A", "B"]]
	}`)))
	assertTiming(t, n, "A", 1, 3, 4, 6)
	assertTiming(t, n, "B", 6, 7, 6, 7)
}

func TestLoadNetwork_FileProblems(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))

	tests := []struct {
		name string
		path string
		msg  string
	}{
		{"empty path", "", "empty file path"},
		{"blank path", "   ", "empty file path"},
		{"missing file", filepath.Join(dir, "missing.json"), "non existing file"},
		{"directory", dir, "non existing file"},
		{"empty file", empty, "empty file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NewNetwork("micro")
			err := n.LoadNetwork(tt.path)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInput))
			assert.Contains(t, err.Error(), tt.msg)
			assert.Equal(t, 0, n.Len())
		})
	}
}

func TestLoadNetworkJSON_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		msg  string
	}{
		{"not json", `{"name": `, "not valid JSON"},
		{"not an object", `[1, 2]`, "must be a JSON object"},
		{"empty network", `{}`, "empty network"},
		{"name mismatch", `{"name": "other", "nodes": {"A": {"duration": 1}}}`, "cannot load network with name (other) into (micro)"},
		{"name missing", `{"nodes": {"A": {"duration": 1}}}`, "not-existing-name-key"},
		{"no nodes key", `{"name": "micro"}`, "without nodes"},
		{"no nodes", `{"name": "micro", "nodes": {}}`, "without nodes"},
		{"empty node name", `{"name": "micro", "nodes": {"A": {"duration": 1}, "": {"duration": 2}}}`, "unspecified name"},
		{"numeric name", `{"name": 5, "nodes": {"A": {"duration": 1}}}`, "cannot load network with name (5) into (micro)"},
		{"null name", `{"name": null, "nodes": {"A": {"duration": 1}}}`, "cannot load network with name (null) into (micro)"},
		{"numeric edge end", `{"name": "micro", "nodes": {"1": {"duration": 1}, "A": {"duration": 1}}, "edges": [["A", 1]]}`, "edge 0 must name activities as strings"},
		{"node not an object", `{"name": "micro", "nodes": {"A": 3}}`, "must be an object"},
		{"missing duration", `{"name": "micro", "nodes": {"A": {"lag": 1}}}`, "unspecified duration"},
		{"null duration", `{"name": "micro", "nodes": {"A": {"duration": null}}}`, "unspecified duration"},
		{"duration not a number", `{"name": "micro", "nodes": {"A": {"duration": "3"}}}`, "decode node"},
		{"edges not an array", `{"name": "micro", "nodes": {"A": {"duration": 1}}, "edges": {}}`, "edges must be an array"},
		{"edge not an array", `{"name": "micro", "nodes": {"A": {"duration": 1}}, "edges": ["A"]}`, "edge 0 must be an array"},
		{"empty edge", `{"name": "micro", "nodes": {"A": {"duration": 1}}, "edges": [[]]}`, "empty edge"},
		{"edge without target", `{"name": "micro", "nodes": {"A": {"duration": 1}}, "edges": [["A"]]}`, "from (A) without a target"},
		{"unknown target", `{"name": "micro", "nodes": {"A": {"duration": 1}}, "edges": [["A", "Z"]]}`, "activity 'Z'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NewNetwork("micro")
			err := n.LoadNetworkJSON([]byte(tt.doc))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInput), "expected validation error, got %v", err)
			assert.Contains(t, err.Error(), tt.msg)
			assert.Equal(t, 0, n.Len(), "nothing may be registered on failure")
		})
	}
}

func TestLoadNetworkJSON_NumericNameNeverMatches(t *testing.T) {
	n := NewNetwork("5")
	err := n.LoadNetworkJSON([]byte(`{"name": 5, "nodes": {"A": {"duration": 1}}}`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.Equal(t, 0, n.Len())
}

func TestLoadNetworkJSON_UnknownEdgeEndIsNotFound(t *testing.T) {
	n := NewNetwork("micro")
	err := n.LoadNetworkJSON([]byte(`{"name": "micro", "nodes": {"A": {"duration": 1}}, "edges": [["Z", "A"]]}`))
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestLoadNetworkJSON_CompressedEdges(t *testing.T) {
	n := NewNetwork("micro")
	err := n.LoadNetworkJSON([]byte(`{
		"name": "micro",
		"nodes": {"A": {"duration": 1}, "B": {"duration": 1}, "C": {"duration": 1}},
		"edges": [["A", "B", "C"]]
	}`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotImplemented))
	assert.False(t, errors.Is(err, ErrInvalidInput))
	assert.Equal(t, 0, n.Len())
}

func TestLoadNetworkJSON_Cyclic(t *testing.T) {
	n := NewNetwork("loop")
	err := n.LoadNetworkJSON([]byte(`{
		"name": "loop",
		"nodes": {"A": {"duration": 1}, "B": {"duration": 1}},
		"edges": [["A", "B"], ["B", "A"]]
	}`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCyclic))
	assert.Contains(t, err.Error(), "A -> B -> A")
}
