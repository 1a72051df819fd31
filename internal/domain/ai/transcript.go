package ai

import (
	"context"
	"time"
)

// TranscriptID identifier type
type TranscriptID string

// Transcript stores one raw model response for auditing and replay of the
// parsing stage.
type Transcript struct {
	ID        TranscriptID `json:"id"`
	TenantID  string       `json:"tenant_id"`
	JobID     string       `json:"job_id"`
	Model     string       `json:"model"`
	Prompt    string       `json:"prompt"`
	RawText   string       `json:"raw_text"`
	CreatedAt time.Time    `json:"created_at"`
}

// TranscriptStore port for persisting and querying raw model responses
type TranscriptStore interface {
	Save(ctx context.Context, t *Transcript) error
	LatestByJob(ctx context.Context, tenant string, jobID string) (*Transcript, error)
}
