package audit

import (
	"context"
)

// Repository defines persistence for pipeline failures
type Repository interface {
	Save(ctx context.Context, f *Failure) error
	ListByJob(ctx context.Context, tenant string, jobID string, limit int) ([]*Failure, error)
}
