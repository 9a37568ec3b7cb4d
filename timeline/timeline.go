package timeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Timeline is the capability RN consults: does the metadata table's own
// instant log already know about a given data-table instant, and has the
// metadata timeline archived past a given point.
type Timeline interface {
	// Contains reports whether a completed instant with the given action
	// and timestamp exists on this timeline.
	Contains(action Action, timestamp string) bool
	// IsBeforeStart reports whether timestamp predates the earliest
	// instant retained on this timeline (i.e. it has been archived away).
	IsBeforeStart(timestamp string) bool
}

// InMemory is a Timeline backed by a sorted, immutable slice of instants —
// sufficient for the metadata table's own instant log, which this repo's
// core never writes to directly (that belongs to the external upsert
// collaborator described in spec §6).
type InMemory struct {
	instants []Instant // sorted by Timestamp ascending
}

func NewInMemory(instants []Instant) *InMemory {
	sorted := append([]Instant(nil), instants...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Less(sorted[j]) })
	return &InMemory{instants: sorted}
}

func (t *InMemory) Contains(action Action, timestamp string) bool {
	for _, in := range t.instants {
		if in.Action == action && in.Timestamp == timestamp && in.State == Completed {
			return true
		}
	}
	return false
}

func (t *InMemory) IsBeforeStart(timestamp string) bool {
	if len(t.instants) == 0 {
		return false
	}
	return timestamp < t.instants[0].Timestamp
}

// LoadFromDir builds an InMemory timeline from a directory of marker files
// named "<timestamp>.<action>" (completed) or "<timestamp>.<action>.<state>"
// (requested/inflight), mirroring the file-naming convention documented for
// Hudi's own active timeline in original_source.
func LoadFromDir(dir string) (*InMemory, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading timeline directory %s: %w", dir, err)
	}

	var instants []Instant
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		in, ok := parseMarkerName(e.Name())
		if !ok {
			continue
		}
		instants = append(instants, in)
	}
	return NewInMemory(instants), nil
}

func parseMarkerName(name string) (Instant, bool) {
	parts := strings.Split(name, ".")
	if len(parts) < 2 {
		return Instant{}, false
	}

	ts := parts[0]
	action := Action(parts[1])
	state := Completed
	if len(parts) >= 3 {
		switch parts[2] {
		case "requested":
			state = Requested
		case "inflight":
			state = Inflight
		}
	}
	return Instant{Action: action, Timestamp: ts, State: state}, true
}

// MarkerPath returns the on-disk marker file name for an instant, the
// inverse of parseMarkerName.
func MarkerPath(dir string, in Instant) string {
	if in.State == Completed {
		return filepath.Join(dir, fmt.Sprintf("%s.%s", in.Timestamp, in.Action))
	}
	return filepath.Join(dir, fmt.Sprintf("%s.%s.%s", in.Timestamp, in.Action, in.State))
}
