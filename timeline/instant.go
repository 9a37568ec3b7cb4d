// Package timeline models the Instant capability: a totally ordered token
// identifying one action on the data table, plus the Timeline capability RN
// consults to decide whether a rollback/restore entry has already been
// synced to the metadata table.
package timeline

import "github.com/google/uuid"

// State is an instant's lifecycle stage.
type State int

const (
	Requested State = iota
	Inflight
	Completed
)

func (s State) String() string {
	switch s {
	case Requested:
		return "requested"
	case Inflight:
		return "inflight"
	case Completed:
		return "completed"
	default:
		return "unknown"
	}
}

// Action identifies the kind of state transition an Instant records.
type Action string

const (
	ActionCommit      Action = "commit"
	ActionDeltaCommit Action = "deltacommit"
	ActionClean       Action = "clean"
	ActionRollback    Action = "rollback"
	ActionRestore     Action = "restore"
)

// Instant is a totally ordered token (action, timestamp, state). Timestamp
// is a lexicographically ordered string (e.g. "20240102153045123"), so
// comparison is plain string comparison — exactly the ordering the original
// Java source relies on via HoodieTimeline.compareTimestamps.
type Instant struct {
	Action    Action
	Timestamp string
	State     State
}

// Less reports whether i sorts before o by timestamp.
func (i Instant) Less(o Instant) bool { return i.Timestamp < o.Timestamp }

// NewInstant stamps a synthetic instant for tests and fixtures, using a
// random suffix when ts is empty so repeated calls don't collide.
func NewInstant(action Action, ts string, state State) Instant {
	if ts == "" {
		ts = uuid.NewString()
	}
	return Instant{Action: action, Timestamp: ts, State: state}
}

// GreaterThan mirrors HoodieTimeline.compareTimestamps(a, GREATER_THAN, b).
func GreaterThan(a, b string) bool { return a > b }
