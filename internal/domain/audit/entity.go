package audit

import "time"

// Failure represents a persisted record of one failed pipeline phase
type Failure struct {
	ID        int64     `json:"id"`
	TenantID  string    `json:"tenant_id"`
	JobID     string    `json:"job_id"`
	Phase     string    `json:"phase,omitempty"` // upload | remote | store
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
