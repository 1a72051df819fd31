package history

import (
	"fmt"
	"testing"
	"time"
)

func entry(i int) Entry {
	return Entry{
		ID:               fmt.Sprintf("job-%d", i),
		Filename:         fmt.Sprintf("file-%d.png", i),
		Date:             time.Date(2025, 6, 1, 12, 0, i, 0, time.UTC),
		Confidence:       float64(i),
		IsDeepfake:       i%2 == 0,
		ProcessingTimeMS: int64(100 + i),
	}
}

func TestLedgerCapsAtCapacity(t *testing.T) {
	t.Parallel()

	l := NewLedger(10)
	for i := 0; i < 15; i++ {
		if !l.Record(entry(i)) {
			t.Fatalf("Record(%d) returned false", i)
		}
	}

	if l.Len() != 10 {
		t.Fatalf("Len = %d, want 10", l.Len())
	}

	got := l.Entries()
	if got[0].ID != "job-14" {
		t.Errorf("newest entry = %s, want job-14", got[0].ID)
	}
	if got[9].ID != "job-5" {
		t.Errorf("oldest kept entry = %s, want job-5", got[9].ID)
	}
}

func TestLedgerDeduplicates(t *testing.T) {
	t.Parallel()

	l := NewLedger(10)
	first := entry(1)
	if !l.Record(first) {
		t.Fatal("first Record returned false")
	}

	dup := first
	dup.ID = "job-other"
	dup.Filename = "other.png"
	if l.Record(dup) {
		t.Error("duplicate (confidence, processing time) was accepted")
	}
	if l.Len() != 1 {
		t.Fatalf("Len = %d, want 1", l.Len())
	}
	if got := l.Entries()[0].ID; got != "job-1" {
		t.Errorf("kept entry = %s, want the earlier job-1", got)
	}

	// Same confidence but different timing is a distinct outcome.
	other := first
	other.ID = "job-2"
	other.ProcessingTimeMS = 999
	if !l.Record(other) {
		t.Error("distinct processing time was rejected")
	}
}

func TestLedgerDefaultCapacity(t *testing.T) {
	t.Parallel()

	l := NewLedger(0)
	for i := 0; i < 25; i++ {
		l.Record(entry(i))
	}
	if l.Len() != DefaultCapacity {
		t.Errorf("Len = %d, want default %d", l.Len(), DefaultCapacity)
	}
}

func TestLedgerEntriesIsSnapshot(t *testing.T) {
	t.Parallel()

	l := NewLedger(5)
	l.Record(entry(1))

	snap := l.Entries()
	snap[0].ID = "mutated"
	if l.Entries()[0].ID != "job-1" {
		t.Error("Entries returned a view into internal state")
	}
}
