package remote

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand"
	"testing"
	"time"

	"github.com/verilens/verilens/internal/detect/subscore"
	"github.com/verilens/verilens/internal/detect/verdict"
	"github.com/verilens/verilens/internal/domain/ai"
	"github.com/verilens/verilens/internal/domain/analysis"
)

type stubClient struct {
	response string
	err      error
	prompt   string
	media    []ai.Inline
}

func (c *stubClient) Complete(_ context.Context, prompt string, media []ai.Inline) (string, error) {
	c.prompt = prompt
	c.media = media
	return c.response, c.err
}

type memTranscripts struct {
	saved []*ai.Transcript
	err   error
}

func (m *memTranscripts) Save(_ context.Context, t *ai.Transcript) error {
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, t)
	return nil
}

func (m *memTranscripts) LatestByJob(context.Context, string, string) (*ai.Transcript, error) {
	if len(m.saved) == 0 {
		return nil, errors.New("none")
	}
	return m.saved[len(m.saved)-1], nil
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

var testTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func testEngine(client ai.Client, transcripts ai.TranscriptStore) *Engine {
	return &Engine{
		Client:      client,
		Parser:      verdict.MarkerParser{},
		Synth:       subscore.New(rand.New(rand.NewSource(1))),
		Prompt:      func(fileName, mimeType string) string { return "analyze " + fileName },
		Transcripts: transcripts,
		Model:       "gpt-4o",
		Clock:       fixedClock{testTime},
		Log:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func testMedia() analysis.Media {
	return analysis.Media{
		JobID:    "job-1",
		Tenant:   "acme",
		Name:     "face.jpg",
		MIMEType: "image/jpeg",
		Bytes:    []byte{0xff, 0xd8},
	}
}

func TestAnalyzeParsesResponse(t *testing.T) {
	t.Parallel()

	client := &stubClient{response: "RESULT: FAKE\nCONFIDENCE: 82\nEXPLANATION: inconsistent specular highlights"}
	e := testEngine(client, nil)

	res, err := e.Analyze(context.Background(), testMedia())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if !res.IsDeepfake || res.Confidence != 82 {
		t.Errorf("verdict = %v/%v, want fake/82", res.IsDeepfake, res.Confidence)
	}
	if res.Explanation != "inconsistent specular highlights" {
		t.Errorf("Explanation = %q", res.Explanation)
	}
	if res.SubScores.Spatial.Status != analysis.SubScoreSuspicious {
		t.Errorf("sub-score status = %q, want suspicious", res.SubScores.Spatial.Status)
	}

	if client.prompt != "analyze face.jpg" {
		t.Errorf("prompt = %q", client.prompt)
	}
	if len(client.media) != 1 || client.media[0].MIMEType != "image/jpeg" {
		t.Errorf("media attachments = %+v", client.media)
	}
}

func TestAnalyzePropagatesClientError(t *testing.T) {
	t.Parallel()

	client := &stubClient{err: ai.ErrQuotaExceeded}
	e := testEngine(client, nil)

	if _, err := e.Analyze(context.Background(), testMedia()); !errors.Is(err, ai.ErrQuotaExceeded) {
		t.Errorf("err = %v, want ErrQuotaExceeded", err)
	}
}

func TestAnalyzeRecordsTranscript(t *testing.T) {
	t.Parallel()

	client := &stubClient{response: "RESULT: REAL\nCONFIDENCE: 90\nEXPLANATION: ok"}
	transcripts := &memTranscripts{}
	e := testEngine(client, transcripts)

	if _, err := e.Analyze(context.Background(), testMedia()); err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if len(transcripts.saved) != 1 {
		t.Fatalf("transcripts saved = %d, want 1", len(transcripts.saved))
	}
	got := transcripts.saved[0]
	if got.TenantID != "acme" || got.JobID != "job-1" || got.Model != "gpt-4o" {
		t.Errorf("transcript = %+v", got)
	}
	if got.RawText != client.response {
		t.Errorf("RawText = %q", got.RawText)
	}
	if !got.CreatedAt.Equal(testTime) {
		t.Errorf("CreatedAt = %v, want the injected clock's %v", got.CreatedAt, testTime)
	}
}

func TestAnalyzeToleratesTranscriptFailure(t *testing.T) {
	t.Parallel()

	client := &stubClient{response: "RESULT: REAL\nCONFIDENCE: 90\nEXPLANATION: ok"}
	e := testEngine(client, &memTranscripts{err: errors.New("table locked")})

	res, err := e.Analyze(context.Background(), testMedia())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if res.IsDeepfake || res.Confidence != 90 {
		t.Errorf("verdict = %v/%v, want authentic/90", res.IsDeepfake, res.Confidence)
	}
}
