package httpserver

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sync"
	"testing"
	"time"

	appanalysis "github.com/verilens/verilens/internal/application/analysis"
	"github.com/verilens/verilens/internal/domain/analysis"
	"github.com/verilens/verilens/internal/history"
	"github.com/verilens/verilens/internal/infra/feed"
)

type memRepo struct {
	mu   sync.Mutex
	jobs map[analysis.JobID]*analysis.Job
}

func (r *memRepo) Save(_ context.Context, j *analysis.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	snapshot := *j
	r.jobs[j.ID] = &snapshot
	return nil
}

func (r *memRepo) Get(_ context.Context, _ string, id analysis.JobID) (*analysis.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return j, nil
}

func (r *memRepo) Latest(_ context.Context, _ string, limit int) ([]*analysis.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*analysis.Job, 0, len(r.jobs))
	for _, j := range r.jobs {
		if len(out) == limit {
			break
		}
		out = append(out, j)
	}
	return out, nil
}

func (r *memRepo) Summary(context.Context, string, int) (int, int, int, error) {
	return 3, 1, 0, nil
}

type stubEngine struct{}

func (stubEngine) Analyze(context.Context, analysis.Media) (analysis.ScoreResult, error) {
	return analysis.ScoreResult{Confidence: 70, Explanation: "looks fine"}, nil
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func testHandler() (http.Handler, *memRepo) {
	repo := &memRepo{jobs: make(map[analysis.JobID]*analysis.Job)}
	svc := &appanalysis.Service{
		Repo:   repo,
		Remote: stubEngine{},
		Ledger: history.NewLedger(10),
		Clock:  systemClock{},
		Log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	return NewRouter(svc, feed.NewHub(100), svc.Log), repo
}

func multipartUpload(t *testing.T, fileName, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+fileName+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func TestSubmitAccepted(t *testing.T) {
	handler, repo := testHandler()

	body, contentType := multipartUpload(t, "clip.mp4", "video/mp4", []byte("not really a video"))
	req := httptest.NewRequest(http.MethodPost, "/v1/acme/analyses", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202 (body %s)", rec.Code, rec.Body.String())
	}

	var resp struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ID == "" {
		t.Error("response has no job id")
	}
	if resp.Status != "queued" {
		t.Errorf("status = %q, want queued", resp.Status)
	}

	// The job row exists immediately, before the pipeline finishes.
	if _, err := repo.Get(context.Background(), "acme", analysis.JobID(resp.ID)); err != nil {
		t.Errorf("job not persisted: %v", err)
	}
}

func TestSubmitRejectsUnsupportedMedia(t *testing.T) {
	handler, _ := testHandler()

	body, contentType := multipartUpload(t, "report.pdf", "application/pdf", []byte("%PDF"))
	req := httptest.NewRequest(http.MethodPost, "/v1/acme/analyses", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestSubmitRejectsMissingFile(t *testing.T) {
	handler, _ := testHandler()

	req := httptest.NewRequest(http.MethodPost, "/v1/acme/analyses", bytes.NewBufferString("{}"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestSubmitRejectsBadTenant(t *testing.T) {
	handler, _ := testHandler()

	body, contentType := multipartUpload(t, "clip.mp4", "video/mp4", []byte("x"))
	req := httptest.NewRequest(http.MethodPost, "/v1/bad%20tenant!/analyses", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestGetUnknownJobIs404(t *testing.T) {
	handler, _ := testHandler()

	req := httptest.NewRequest(http.MethodGet, "/v1/acme/analyses/nope", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestGetJob(t *testing.T) {
	handler, repo := testHandler()

	job := analysis.NewJob("j-1", "acme", "a.png", "image/png", 10, time.Now())
	repo.Save(context.Background(), job)

	req := httptest.NewRequest(http.MethodGet, "/v1/acme/analyses/j-1", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got analysis.Job
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != "j-1" || got.Status != analysis.StatusQueued {
		t.Errorf("got %+v", got)
	}
}

func TestHistoryEndpoint(t *testing.T) {
	handler, _ := testHandler()

	req := httptest.NewRequest(http.MethodGet, "/v1/acme/history", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var entries []history.Entry
	if err := json.NewDecoder(rec.Body).Decode(&entries); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("entries = %v, want empty", entries)
	}
}

func TestSummaryEndpoint(t *testing.T) {
	handler, _ := testHandler()

	req := httptest.NewRequest(http.MethodGet, "/v1/acme/summary?days=7", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got map[string]int
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["total_analyses"] != 3 || got["deepfakes"] != 1 {
		t.Errorf("summary = %v", got)
	}
}
