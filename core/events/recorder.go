package events

import (
	"sync"

	"vibemarket/core/types"
)

// DefaultRecorderCapacity bounds the number of change records the recorder
// keeps before discarding the oldest entries.
const DefaultRecorderCapacity = 1024

type payloadEvent interface {
	Event() *types.Event
}

// Recorder is a bounded in-memory emitter. The API layer drains it to persist
// change records for listing views; the engine itself keeps no subscriber
// state beyond this buffer.
type Recorder struct {
	mu       sync.Mutex
	capacity int
	records  []*types.Event
}

// NewRecorder constructs a recorder with the supplied capacity. Non-positive
// capacities fall back to DefaultRecorderCapacity.
func NewRecorder(capacity int) *Recorder {
	if capacity <= 0 {
		capacity = DefaultRecorderCapacity
	}
	return &Recorder{capacity: capacity}
}

// Emit implements the Emitter interface. Events that do not expose a payload
// are recorded with their type only.
func (r *Recorder) Emit(evt Event) {
	if r == nil || evt == nil {
		return
	}
	record := &types.Event{Type: evt.EventType(), Attributes: map[string]string{}}
	if payload, ok := evt.(payloadEvent); ok {
		if full := payload.Event(); full != nil {
			record = full
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, record)
	if overflow := len(r.records) - r.capacity; overflow > 0 {
		r.records = append([]*types.Event{}, r.records[overflow:]...)
	}
}

// Drain returns the buffered change records and resets the buffer.
func (r *Recorder) Drain() []*types.Event {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	drained := r.records
	r.records = nil
	return drained
}
