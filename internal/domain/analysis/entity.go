package analysis

import (
	"time"
)

// JobID identifier type
type JobID string

// Status enum for the job lifecycle
type Status string

const (
	StatusQueued     Status = "queued"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Terminal reports whether a status is final. Terminal jobs are never
// transitioned again.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// SubScoreStatus enum for per-category display state
type SubScoreStatus string

const (
	SubScoreAuthentic  SubScoreStatus = "authentic"
	SubScoreSuspicious SubScoreStatus = "suspicious"
	SubScoreUnknown    SubScoreStatus = "unknown"
)

// SubScore is one per-category display value derived from overall confidence.
type SubScore struct {
	Score  float64        `json:"score"`
	Status SubScoreStatus `json:"status"`
}

// SubScores value object
type SubScores struct {
	Spatial  SubScore `json:"spatial"`
	Temporal SubScore `json:"temporal"`
	Audio    SubScore `json:"audio"`
	Metadata SubScore `json:"metadata"`
}

// ScoreResult is the normalized verdict shape produced by both engines.
type ScoreResult struct {
	FakeScore   float64   `json:"fake_score"`
	IsDeepfake  bool      `json:"is_deepfake"`
	Confidence  float64   `json:"confidence"`
	SubScores   SubScores `json:"sub_scores"`
	Explanation string    `json:"explanation"`
}

// NeutralResult is the recoverable fallback used when pixel extraction
// cannot run (unreadable or undecodable input). It is never surfaced as
// an error.
func NeutralResult() ScoreResult {
	unknown := SubScore{Score: 50, Status: SubScoreUnknown}
	return ScoreResult{
		FakeScore:   0,
		IsDeepfake:  false,
		Confidence:  50,
		SubScores:   SubScores{Spatial: unknown, Temporal: unknown, Audio: unknown, Metadata: unknown},
		Explanation: "analysis failed",
	}
}

// Aggregate Root: Job
type Job struct {
	ID          JobID        `json:"id"`
	TenantID    string       `json:"tenant_id"`
	FileName    string       `json:"file_name"`
	FileType    string       `json:"file_type"`
	SizeBytes   int64        `json:"size_bytes"`
	Status      Status       `json:"status"`
	Progress    int          `json:"progress"`
	IsDeepfake  *bool        `json:"is_deepfake,omitempty"`
	Confidence  *float64     `json:"confidence,omitempty"`
	Explanation string       `json:"explanation,omitempty"`
	Result      *ScoreResult `json:"result,omitempty"`
	ArtifactURL string       `json:"artifact_url,omitempty"`
	MediaInfo   string       `json:"media_info,omitempty"`
	DurationMS  int64        `json:"duration_ms"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
}

// Media is one submitted file as seen by the engines. JobID and Tenant
// identify the owning job for audit writes.
type Media struct {
	JobID    JobID
	Tenant   string
	Name     string
	MIMEType string
	Bytes    []byte
}
