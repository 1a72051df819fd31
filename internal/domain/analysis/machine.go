package analysis

import (
	"errors"
	"time"
)

// ErrNotQueued is returned when Begin is called on a job that already left
// the queued state.
var ErrNotQueued = errors.New("job is not queued")

// NewJob creates a job in queued state with progress 0.
func NewJob(id JobID, tenant, fileName, fileType string, size int64, now time.Time) *Job {
	return &Job{
		ID:        id,
		TenantID:  tenant,
		FileName:  fileName,
		FileType:  fileType,
		SizeBytes: size,
		Status:    StatusQueued,
		Progress:  0,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Begin moves a queued job to processing and sets progress to 10.
func (j *Job) Begin(now time.Time) error {
	if j.Status != StatusQueued {
		return ErrNotQueued
	}
	j.Status = StatusProcessing
	j.Progress = 10
	j.UpdatedAt = now
	return nil
}

// Advance raises progress while the job is processing. Progress is
// advisory: calls outside the processing state or with a lower value are
// ignored rather than rejected.
func (j *Job) Advance(progress int, now time.Time) {
	if j.Status != StatusProcessing {
		return
	}
	if progress > 100 {
		progress = 100
	}
	if progress <= j.Progress {
		return
	}
	j.Progress = progress
	j.UpdatedAt = now
}

// Complete moves a processing job to completed and stores the result
// fields. Returns false without touching the job when it is already
// terminal: repeated delivery of a terminal state is a no-op.
func (j *Job) Complete(res ScoreResult, now time.Time) bool {
	if j.Status.Terminal() {
		return false
	}
	fake := res.IsDeepfake
	conf := res.Confidence
	stored := res
	j.Status = StatusCompleted
	j.Progress = 100
	j.IsDeepfake = &fake
	j.Confidence = &conf
	j.Explanation = res.Explanation
	j.Result = &stored
	j.UpdatedAt = now
	done := now
	j.CompletedAt = &done
	j.DurationMS = now.Sub(j.CreatedAt).Milliseconds()
	return true
}

// Fail moves any non-terminal job to failed with the given reason.
// Idempotent on terminal jobs, same as Complete.
func (j *Job) Fail(reason string, now time.Time) bool {
	if j.Status.Terminal() {
		return false
	}
	j.Status = StatusFailed
	j.Explanation = reason
	j.UpdatedAt = now
	done := now
	j.CompletedAt = &done
	j.DurationMS = now.Sub(j.CreatedAt).Milliseconds()
	return true
}
