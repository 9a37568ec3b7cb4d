package metaindex

import (
	"reflect"
	"testing"

	"hudi-metaindex/action"
	"hudi-metaindex/timeline"
)

func strptr(s string) *string { return &s }

// Scenario 4 (spec §8): rollback ahead of sync, no log appends → zero records.
func TestNormalizeRollbackAheadOfSync(t *testing.T) {
	tl := timeline.NewInMemory([]timeline.Instant{
		{Action: timeline.ActionDeltaCommit, Timestamp: "t1", State: timeline.Completed},
	})
	rb := &action.RollbackMetadata{
		CommitsRolledBack: []string{"t7"},
		PartitionMetadata: map[string]action.RollbackPartitionMetadata{
			"P": {
				PartitionPath:  "P",
				SuccessDeletes: []string{"P/a.parquet"},
			},
		},
	}

	changes := newNormalizedChanges()
	if err := NormalizeRollback(tl, rb, strptr("t5"), changes, NopLogger{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(changes.Deleted) != 0 || len(changes.Appended) != 0 {
		t.Fatalf("expected no changes, got deleted=%v appended=%v", changes.Deleted, changes.Appended)
	}
}

// Scenario 5 (spec §8): rollback with log appends past sync.
func TestNormalizeRollbackWithLogAppendsPastSync(t *testing.T) {
	tl := timeline.NewInMemory([]timeline.Instant{
		{Action: timeline.ActionDeltaCommit, Timestamp: "t1", State: timeline.Completed},
	})
	rb := &action.RollbackMetadata{
		CommitsRolledBack: []string{"t7"},
		PartitionMetadata: map[string]action.RollbackPartitionMetadata{
			"P": {
				PartitionPath:    "P",
				SuccessDeletes:   []string{"P/a.parquet"},
				RollbackLogFiles: map[string]int64{"P/L1": 10, "P/L2": 0},
			},
		},
	}

	changes := newNormalizedChanges()
	if err := NormalizeRollback(tl, rb, strptr("t5"), changes, NopLogger{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[string]int64{"L1": 10}
	if !reflect.DeepEqual(changes.Appended["P"], want) {
		t.Fatalf("Appended[P] = %v, want %v", changes.Appended["P"], want)
	}
	if len(changes.Deleted["P"]) != 0 {
		t.Fatalf("expected no FILES deletions, got %v", changes.Deleted["P"])
	}
}

// Case B: rollback of an instant the metadata timeline never retained is
// fatal (spec §4.2).
func TestNormalizeRollbackArchivedDependency(t *testing.T) {
	tl := timeline.NewInMemory([]timeline.Instant{
		{Action: timeline.ActionDeltaCommit, Timestamp: "t10", State: timeline.Completed},
	})
	rb := &action.RollbackMetadata{
		CommitsRolledBack: []string{"t1"},
		PartitionMetadata: map[string]action.RollbackPartitionMetadata{
			"P": {PartitionPath: "P", SuccessDeletes: []string{"P/a.parquet"}},
		},
	}

	changes := newNormalizedChanges()
	err := NormalizeRollback(tl, rb, nil, changes, NopLogger{})
	if err == nil {
		t.Fatal("expected ArchivedDependency, got nil")
	}
	if _, ok := err.(*ArchivedDependency); !ok {
		t.Fatalf("expected *ArchivedDependency, got %T: %v", err, err)
	}
}

// Never-synced rollback (Case B, without archival) skips FILES deletion but
// still retains log-append records — the round-trip property in spec §8.
func TestNormalizeRollbackNeverSyncedRetainsLogAppends(t *testing.T) {
	tl := timeline.NewInMemory([]timeline.Instant{
		{Action: timeline.ActionDeltaCommit, Timestamp: "t1", State: timeline.Completed},
	})
	rb := &action.RollbackMetadata{
		CommitsRolledBack: []string{"t2"},
		PartitionMetadata: map[string]action.RollbackPartitionMetadata{
			"P": {
				PartitionPath:    "P",
				SuccessDeletes:   []string{"P/a.parquet"},
				RollbackLogFiles: map[string]int64{"P/L1": 5},
			},
		},
	}

	changes := newNormalizedChanges()
	if err := NormalizeRollback(tl, rb, nil, changes, NopLogger{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(changes.Deleted["P"]) != 0 {
		t.Fatalf("expected no FILES deletions for a never-synced rollback, got %v", changes.Deleted["P"])
	}
	if got := changes.Appended["P"]["L1"]; got != 5 {
		t.Fatalf("Appended[P][L1] = %d, want 5", got)
	}
}
