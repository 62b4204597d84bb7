package cpm

import (
	"io"
	"log/slog"
)

// Handle addresses an activity inside the arena of its Network.
type Handle int

// NoHandle is returned alongside errors and marks an absent activity.
const NoHandle Handle = -1

// ExitName is the name given to the synthesized common exit activity.
const ExitName = "COMMON_EXIT"

// Activity declares a timed activity before it is registered in a Network.
// A nil Duration means the duration was never given and is rejected by Add.
type Activity struct {
	Name     string   `validate:"required"`
	Duration *float64 `validate:"required"`
	Lag      float64
}

// NewActivity returns an activity with the given duration and no lag.
func NewActivity(name string, duration float64) Activity {
	return Activity{Name: name, Duration: &duration}
}

// Node is a registered activity together with its computed timing.
type Node struct {
	Name     string
	Duration float64
	Lag      float64 // added to a predecessor's finish before this may start

	// Reserved outputs, carried but never computed.
	Drag       *float64
	FreeFloat  *float64
	TotalFloat *float64

	ES, EF *float64 // earliest start/finish
	LS, LF *float64 // latest start/finish

	Succ []Handle // direct successors, in link order
	Pred []Handle // direct predecessors, in link order

	// IntoSink marks an activity attached to the network's own sink.
	IntoSink bool
}

// Network owns every activity of one activity-on-node graph. After a
// successful Update it also acts as one big activity spanning the critical
// path, mirroring its duration and outer timing.
type Network struct {
	Name string
	Lag  float64

	Duration *float64
	ES, EF   *float64
	LS, LF   *float64

	nodes []Node
	index map[string]Handle
	exit  Handle
	sinks []Handle

	generation uint64
	cache      *pathCache

	logger *slog.Logger
}

// pathCache is a critical path valid for exactly one generation.
type pathCache struct {
	generation uint64
	path       []Handle
	length     float64
}

// Snapshot is the JSON-serializable activity-on-node record of one
// activity (or of the network itself).
type Snapshot struct {
	Duration       *float64 `json:"duration"`
	EarliestStart  *float64 `json:"earliest_start"`
	EarliestFinish *float64 `json:"earliest_finish"`
	Name           string   `json:"name"`
	LatestStart    *float64 `json:"latest_start"`
	LatestFinish   *float64 `json:"latest_finish"`
	Drag           *float64 `json:"drag"`
}

// Wave represents a group of activities sharing one earliest start.
type Wave struct {
	Index      int      `json:"index"`
	Start      float64  `json:"start"`
	Activities []string `json:"activities"`
	IsCritical bool     `json:"is_critical"` // true if wave contains critical path activities
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
