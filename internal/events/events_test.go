package events

import (
	"fmt"
	"testing"
)

func TestRingAppendAndSnapshot(t *testing.T) {
	r := NewRing(4)
	r.Append(StageModelInvoked, "openai")
	r.Append(StageCompleted, "total 3.1")

	got := r.Snapshot()
	if len(got) != 2 {
		t.Fatalf("Snapshot = %d events, want 2", len(got))
	}
	if got[0].Stage != StageModelInvoked || got[1].Stage != StageCompleted {
		t.Errorf("events out of order: %+v", got)
	}
	if r.Len() != 2 {
		t.Errorf("Len = %d, want 2", r.Len())
	}
}

func TestRingEvictsOldestFirst(t *testing.T) {
	r := NewRing(3)
	for i := 0; i < 5; i++ {
		r.Append(StageCompleted, fmt.Sprintf("e%d", i))
	}
	got := r.Snapshot()
	if len(got) != 3 {
		t.Fatalf("Snapshot = %d events, want capacity 3", len(got))
	}
	for i, want := range []string{"e2", "e3", "e4"} {
		if got[i].Detail != want {
			t.Errorf("event[%d] = %q, want %q", i, got[i].Detail, want)
		}
	}
}

func TestRingDefaultCapacity(t *testing.T) {
	r := NewRing(0)
	for i := 0; i < DefaultCapacity+10; i++ {
		r.Append(StageCompleted, "x")
	}
	if r.Len() != DefaultCapacity {
		t.Errorf("Len = %d, want %d", r.Len(), DefaultCapacity)
	}
}
