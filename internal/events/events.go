// Package events keeps an append-only, capacity-bounded in-memory record of
// pipeline stage transitions for the observability collaborator. Oldest
// entries are dropped once the buffer is full.
package events

import (
	"sync"
	"time"
)

// Stage names one pipeline transition.
type Stage string

const (
	StageClarificationTriggered Stage = "clarification_triggered"
	StageCacheHit               Stage = "cache_hit"
	StageModelInvoked           Stage = "model_invoked"
	StageOverrideApplied        Stage = "override_applied"
	StageFallbackUsed           Stage = "fallback_used"
	StageCompleted              Stage = "completed"
)

// Event is one recorded transition.
type Event struct {
	Time   time.Time
	Stage  Stage
	Detail string
}

// DefaultCapacity bounds the ring when none is given.
const DefaultCapacity = 256

// Ring is a fixed-capacity append-only event buffer. Safe for concurrent
// use; the pipeline itself is single-threaded but the buffer may be read
// while an evaluation runs.
type Ring struct {
	mu    sync.Mutex
	buf   []Event
	next  int
	full  bool
	clock func() time.Time
}

// NewRing returns a Ring holding at most capacity events.
func NewRing(capacity int) *Ring {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Ring{buf: make([]Event, capacity), clock: time.Now}
}

// Append records one event, evicting the oldest when full.
func (r *Ring) Append(stage Stage, detail string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buf[r.next] = Event{Time: r.clock(), Stage: stage, Detail: detail}
	r.next++
	if r.next == len(r.buf) {
		r.next = 0
		r.full = true
	}
}

// Snapshot returns the recorded events, oldest first.
func (r *Ring) Snapshot() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.full {
		out := make([]Event, r.next)
		copy(out, r.buf[:r.next])
		return out
	}
	out := make([]Event, 0, len(r.buf))
	out = append(out, r.buf[r.next:]...)
	out = append(out, r.buf[:r.next]...)
	return out
}

// Len returns the number of events currently held.
func (r *Ring) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.full {
		return len(r.buf)
	}
	return r.next
}
