package history

import (
	"sync"
	"time"
)

// DefaultCapacity bounds the ledger when no explicit size is configured.
const DefaultCapacity = 10

// Entry is one completed or failed analysis as shown in the history view.
type Entry struct {
	ID               string    `json:"id"`
	Filename         string    `json:"filename"`
	Date             time.Time `json:"date"`
	Confidence       float64   `json:"confidence"`
	IsDeepfake       bool      `json:"is_deepfake"`
	ProcessingTimeMS int64     `json:"processing_time_ms"`
}

// Ledger is an append-only, capped, most-recent-first record of finished
// jobs. It is display state, owned by whoever constructs it, never a
// process-wide global. Entries are deduplicated by (confidence,
// processing time) identity; the earlier entry wins.
type Ledger struct {
	mu       sync.Mutex
	capacity int
	entries  []Entry
}

// NewLedger creates a ledger holding at most capacity entries.
func NewLedger(capacity int) *Ledger {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Ledger{capacity: capacity}
}

// Record appends one entry, newest first. Returns false when an entry with
// the same outcome identity already exists; the ledger is unchanged in
// that case. Concurrent appends are tolerated, the ledger is advisory.
func (l *Ledger) Record(e Entry) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, existing := range l.entries {
		if existing.Confidence == e.Confidence && existing.ProcessingTimeMS == e.ProcessingTimeMS {
			return false
		}
	}

	l.entries = append([]Entry{e}, l.entries...)
	if len(l.entries) > l.capacity {
		l.entries = l.entries[:l.capacity]
	}
	return true
}

// Entries returns a snapshot copy, most recent first.
func (l *Ledger) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len reports the current entry count.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
