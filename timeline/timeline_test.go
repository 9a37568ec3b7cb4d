package timeline

import "testing"

func TestInMemoryContains(t *testing.T) {
	tl := NewInMemory([]Instant{
		{Action: ActionDeltaCommit, Timestamp: "t1", State: Completed},
		{Action: ActionDeltaCommit, Timestamp: "t2", State: Inflight},
	})

	if !tl.Contains(ActionDeltaCommit, "t1") {
		t.Fatal("expected Contains(deltacommit, t1) = true")
	}
	if tl.Contains(ActionDeltaCommit, "t2") {
		t.Fatal("an inflight instant must not count as contained")
	}
	if tl.Contains(ActionDeltaCommit, "t3") {
		t.Fatal("expected Contains(deltacommit, t3) = false")
	}
}

func TestInMemoryIsBeforeStart(t *testing.T) {
	tl := NewInMemory([]Instant{{Action: ActionDeltaCommit, Timestamp: "t5", State: Completed}})

	if !tl.IsBeforeStart("t1") {
		t.Fatal("t1 should be before the retained start (t5)")
	}
	if tl.IsBeforeStart("t9") {
		t.Fatal("t9 should not be before the retained start (t5)")
	}
}

func TestInMemoryIsBeforeStartEmptyTimeline(t *testing.T) {
	tl := NewInMemory(nil)
	if tl.IsBeforeStart("t1") {
		t.Fatal("an empty timeline has no archived history")
	}
}

func TestParseMarkerName(t *testing.T) {
	tests := []struct {
		name      string
		wantOk    bool
		wantState State
	}{
		{"20240102153045.commit", true, Completed},
		{"20240102153045.commit.inflight", true, Inflight},
		{"20240102153045.commit.requested", true, Requested},
		{"garbage", false, Completed},
	}
	for _, tt := range tests {
		in, ok := parseMarkerName(tt.name)
		if ok != tt.wantOk {
			t.Errorf("parseMarkerName(%q) ok = %v, want %v", tt.name, ok, tt.wantOk)
			continue
		}
		if ok && in.State != tt.wantState {
			t.Errorf("parseMarkerName(%q) state = %v, want %v", tt.name, in.State, tt.wantState)
		}
	}
}
