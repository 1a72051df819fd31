package analysis

import (
	"context"
	"io"
)

// Repository port (interface for job persistence)
type Repository interface {
	Save(ctx context.Context, j *Job) error
	Get(ctx context.Context, tenant string, id JobID) (*Job, error)
	Latest(ctx context.Context, tenant string, limit int) ([]*Job, error)
	Summary(ctx context.Context, tenant string, sinceDays int) (total, deepfakes, failed int, err error)
}

// Engine port: one decision engine producing the normalized result shape.
type Engine interface {
	Analyze(ctx context.Context, m Media) (ScoreResult, error)
}

// ArtifactStore port (interface for archiving uploaded media)
type ArtifactStore interface {
	Upload(ctx context.Context, r io.Reader, size int64, key, contentType string) (string, error)
}

// ChangeKind classifies feed events.
type ChangeKind string

const (
	ChangeCreated ChangeKind = "created"
	ChangeUpdated ChangeKind = "updated"
)

// Change is one job mutation pushed to feed observers. Delivery is at
// least once and unordered-safe: observers treat a repeated terminal
// state as a no-op.
type Change struct {
	Kind ChangeKind `json:"kind"`
	Job  Job        `json:"job"`
}

// Notifier port for the live change feed.
type Notifier interface {
	Notify(c Change)
}
