package remote

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/verilens/verilens/internal/application"
	"github.com/verilens/verilens/internal/detect/subscore"
	"github.com/verilens/verilens/internal/detect/verdict"
	"github.com/verilens/verilens/internal/domain/ai"
	"github.com/verilens/verilens/internal/domain/analysis"
)

// PromptBuilder renders the analysis prompt matching the configured parser
// contract for one media item.
type PromptBuilder func(fileName, mimeType string) string

// Engine is the remote decision engine: send media to the model provider,
// parse the free-text answer into the normalized result shape. Provider
// errors propagate so the job can transition to failed; parsing itself
// never fails.
type Engine struct {
	Client      ai.Client
	Parser      verdict.Strategy
	Synth       *subscore.Synthesizer
	Prompt      PromptBuilder
	Transcripts ai.TranscriptStore // optional audit trail of raw answers
	Model       string
	Clock       application.Clock
	Log         *slog.Logger
}

func (e *Engine) now() time.Time {
	if e.Clock != nil {
		return e.Clock.Now()
	}
	return time.Now()
}

func (e *Engine) Analyze(ctx context.Context, m analysis.Media) (analysis.ScoreResult, error) {
	prompt := e.Prompt(m.Name, m.MIMEType)

	raw, err := e.Client.Complete(ctx, prompt, []ai.Inline{{MIMEType: m.MIMEType, Data: m.Bytes}})
	if err != nil {
		return analysis.ScoreResult{}, err
	}

	e.record(ctx, m, prompt, raw)

	v := e.Parser.Parse(raw)
	return analysis.ScoreResult{
		IsDeepfake:  v.IsDeepfake,
		Confidence:  v.Confidence,
		SubScores:   e.Synth.Expand(v.IsDeepfake, v.Confidence, subscore.ModelBounds),
		Explanation: v.Explanation,
	}, nil
}

// record persists the raw model answer best-effort; an audit write failure
// never fails the analysis.
func (e *Engine) record(ctx context.Context, m analysis.Media, prompt, raw string) {
	if e.Transcripts == nil {
		return
	}
	t := &ai.Transcript{
		ID:        ai.TranscriptID(uuid.New().String()),
		TenantID:  m.Tenant,
		JobID:     string(m.JobID),
		Model:     e.Model,
		Prompt:    prompt,
		RawText:   raw,
		CreatedAt: e.now(),
	}
	if err := e.Transcripts.Save(ctx, t); err != nil {
		e.Log.Warn("transcript save failed", "job", m.JobID, "error", err)
	}
}
