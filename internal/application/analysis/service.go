package analysis

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/verilens/verilens/internal/application"
	"github.com/verilens/verilens/internal/detect/pixel"
	"github.com/verilens/verilens/internal/domain/analysis"
	"github.com/verilens/verilens/internal/domain/audit"
	"github.com/verilens/verilens/internal/history"
)

// MaxUploadBytes is the fixed submission size ceiling (100 MiB). Oversized
// files are rejected before any job row exists.
const MaxUploadBytes = 100 << 20

// ErrFileTooLarge is returned by Submit for uploads over the ceiling.
var ErrFileTooLarge = errors.New("file exceeds the 100 MiB upload limit")

// ErrMissingFile is returned by Submit when no file content was provided.
var ErrMissingFile = errors.New("file is required")

// Service implements the analysis use-cases. One background goroutine per
// submitted job; each job owns its media buffer and result, the only
// shared structures are the repository and the history ledger.
type Service struct {
	Repo        analysis.Repository
	Artifacts   analysis.ArtifactStore
	LocalEngine analysis.Engine
	Remote      analysis.Engine
	Failures    audit.Repository
	Ledger      *history.Ledger
	Feed        analysis.Notifier
	Clock       application.Clock
	Log         *slog.Logger

	// ForceRemote sends every file type through the remote engine, the
	// sole-backend configuration used by some deployments.
	ForceRemote bool
}

// SubmitCommand carries one accepted upload.
type SubmitCommand struct {
	TenantID string
	FileName string
	MIMEType string
	Size     int64
	Bytes    []byte
}

// Submit validates the upload and creates a queued job. Validation errors
// are reported before any job is created.
func (s *Service) Submit(ctx context.Context, cmd SubmitCommand) (*analysis.Job, error) {
	if len(cmd.Bytes) == 0 {
		return nil, ErrMissingFile
	}
	if cmd.Size > MaxUploadBytes || int64(len(cmd.Bytes)) > MaxUploadBytes {
		return nil, ErrFileTooLarge
	}

	now := s.Clock.Now()
	job := analysis.NewJob(
		analysis.JobID(uuid.New().String()),
		cmd.TenantID, cmd.FileName, cmd.MIMEType, int64(len(cmd.Bytes)), now,
	)
	if err := s.Repo.Save(ctx, job); err != nil {
		return nil, err
	}
	s.notify(analysis.ChangeCreated, job)
	return job, nil
}

// ProcessUntilDone runs the full pipeline with context.Background() so a
// disconnecting submitter cannot cancel an in-flight analysis. Intended to
// be called from a goroutine spawned by the submit handler.
func (s *Service) ProcessUntilDone(job *analysis.Job, data []byte) {
	s.Process(context.Background(), job, data)
}

// Process moves the job through processing to a terminal state. Every
// terminal transition is written exactly once; repository write failures
// on the failure path leave the row processing and surface only as a
// client-visible timeout.
func (s *Service) Process(ctx context.Context, job *analysis.Job, data []byte) {
	if err := job.Begin(s.Clock.Now()); err != nil {
		s.Log.Error("begin transition rejected", "job", job.ID, "status", job.Status, "error", err)
		return
	}
	s.persist(ctx, job)

	media := analysis.Media{
		JobID:    job.ID,
		Tenant:   job.TenantID,
		Name:     job.FileName,
		MIMEType: job.FileType,
		Bytes:    data,
	}

	s.archive(ctx, job, data)
	job.Advance(40, s.Clock.Now())
	s.persist(ctx, job)

	engine := s.engineFor(job.FileType)
	result, err := engine.Analyze(ctx, media)
	if err != nil {
		s.fail(ctx, job, "remote", err)
		return
	}

	job.Advance(90, s.Clock.Now())
	if isImage(job.FileType) {
		job.MediaInfo = pixel.DescribeMetadata(data)
	}

	if job.Complete(result, s.Clock.Now()) {
		s.persist(ctx, job)
		s.Ledger.Record(history.Entry{
			ID:               string(job.ID),
			Filename:         job.FileName,
			Date:             *job.CompletedAt,
			Confidence:       result.Confidence,
			IsDeepfake:       result.IsDeepfake,
			ProcessingTimeMS: job.DurationMS,
		})
		s.Log.Info("analysis completed",
			"job", job.ID, "file", job.FileName,
			"deepfake", result.IsDeepfake, "confidence", result.Confidence)
	}
}

// fail transitions the job to failed best-effort and records the failure
// for auditing. If the terminal write itself fails the job stays
// processing; there is no system-detected stall.
func (s *Service) fail(ctx context.Context, job *analysis.Job, phase string, cause error) {
	if !job.Fail(cause.Error(), s.Clock.Now()) {
		return
	}
	s.persist(ctx, job)

	// Failed jobs appear in history alongside completed ones.
	s.Ledger.Record(history.Entry{
		ID:               string(job.ID),
		Filename:         job.FileName,
		Date:             *job.CompletedAt,
		Confidence:       0,
		IsDeepfake:       false,
		ProcessingTimeMS: job.DurationMS,
	})
	s.Log.Warn("analysis failed", "job", job.ID, "phase", phase, "error", cause)

	if s.Failures != nil {
		f := &audit.Failure{
			TenantID: job.TenantID,
			JobID:    string(job.ID),
			Phase:    phase,
			Message:  cause.Error(),
		}
		if err := s.Failures.Save(ctx, f); err != nil {
			s.Log.Warn("failure audit write failed", "job", job.ID, "error", err)
		}
	}
}

// archive uploads the original media to object storage. Archival is
// best-effort: a storage error is logged and the analysis continues.
func (s *Service) archive(ctx context.Context, job *analysis.Job, data []byte) {
	if s.Artifacts == nil {
		return
	}
	key := fmt.Sprintf("%s/%s/%s", job.TenantID, job.ID, job.FileName)
	url, err := s.Artifacts.Upload(ctx, bytes.NewReader(data), int64(len(data)), key, job.FileType)
	if err != nil {
		s.Log.Warn("artifact upload failed", "job", job.ID, "error", err)
		return
	}
	job.ArtifactURL = url
}

// engineFor dispatches still images to the local pixel engine and
// everything else to the remote model.
func (s *Service) engineFor(mimeType string) analysis.Engine {
	if !s.ForceRemote && isImage(mimeType) && s.LocalEngine != nil {
		return s.LocalEngine
	}
	return s.Remote
}

func isImage(mimeType string) bool {
	return strings.HasPrefix(mimeType, "image/")
}

// persist writes the current job snapshot and pushes a feed event. A
// rejected store update is logged and surfaced here only; in-memory state
// already computed is never rolled back.
func (s *Service) persist(ctx context.Context, job *analysis.Job) {
	if err := s.Repo.Save(ctx, job); err != nil {
		s.Log.Error("job save failed", "job", job.ID, "status", job.Status, "error", err)
		return
	}
	s.notify(analysis.ChangeUpdated, job)
}

func (s *Service) notify(kind analysis.ChangeKind, job *analysis.Job) {
	if s.Feed == nil {
		return
	}
	s.Feed.Notify(analysis.Change{Kind: kind, Job: *job})
}

// Get returns one job by id.
func (s *Service) Get(ctx context.Context, tenant string, id analysis.JobID) (*analysis.Job, error) {
	return s.Repo.Get(ctx, tenant, id)
}

// Latest returns the N most recent jobs.
func (s *Service) Latest(ctx context.Context, tenant string, limit int) ([]*analysis.Job, error) {
	return s.Repo.Latest(ctx, tenant, limit)
}

// History returns the in-memory ledger snapshot.
func (s *Service) History() []history.Entry {
	return s.Ledger.Entries()
}

// Summary aggregates outcomes over the last N days.
func (s *Service) Summary(ctx context.Context, tenant string, sinceDays int) (map[string]any, error) {
	total, deepfakes, failed, err := s.Repo.Summary(ctx, tenant, sinceDays)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"total_analyses": total,
		"deepfakes":      deepfakes,
		"failed":         failed,
	}, nil
}
