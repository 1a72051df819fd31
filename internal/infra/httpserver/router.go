package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	appanalysis "github.com/verilens/verilens/internal/application/analysis"
	domai "github.com/verilens/verilens/internal/domain/ai"
	domain "github.com/verilens/verilens/internal/domain/analysis"
	"github.com/verilens/verilens/internal/infra/feed"
	"github.com/verilens/verilens/internal/middleware"
)

// errBadRequest marks validation failures so wrap can answer 400.
var errBadRequest = errors.New("bad request")

type Router struct {
	svc *appanalysis.Service
	hub *feed.Hub
	log *slog.Logger
}

func NewRouter(svc *appanalysis.Service, hub *feed.Hub, log *slog.Logger) http.Handler {
	r := &Router{svc: svc, hub: hub, log: log}
	mux := chi.NewRouter()

	mux.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	mux.Route("/v1/{tenant}", func(rt chi.Router) {
		rt.Post("/analyses", r.wrap(r.handleSubmit))
		rt.Get("/analyses/latest", r.wrap(r.handleLatest))
		rt.Get("/analyses/{id}", r.wrap(r.handleGet))
		rt.Get("/history", r.wrap(r.handleHistory))
		rt.Get("/summary", r.wrap(r.handleSummary))
		rt.Get("/feed", r.handleFeed)
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				http.Error(w, "not found", http.StatusNotFound)
			case errors.Is(err, appanalysis.ErrFileTooLarge):
				http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
			case errors.Is(err, appanalysis.ErrMissingFile), errors.Is(err, errBadRequest):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, domai.ErrQuotaExceeded):
				http.Error(w, "ai quota exceeded", http.StatusTooManyRequests)
			default:
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}
		}
	}
}

// POST /v1/{tenant}/analyses
// Multipart form with a single "file" part. The upload is validated and a
// queued job is created; the analysis itself runs in the background and
// the handler answers immediately.
func (r *Router) handleSubmit(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	if err := middleware.ValidateTenantID(tenant); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}

	// One MiB of slack over the ceiling for multipart framing.
	req.Body = http.MaxBytesReader(w, req.Body, appanalysis.MaxUploadBytes+(1<<20))

	file, header, err := req.FormFile("file")
	if err != nil {
		return fmt.Errorf("%w: file part is required: %v", errBadRequest, err)
	}
	defer file.Close()

	name := middleware.SanitizeString(header.Filename)
	if err := middleware.ValidateFileName(name); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	mimeType := header.Header.Get("Content-Type")
	if err := middleware.ValidateMediaType(mimeType); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	if header.Size > appanalysis.MaxUploadBytes {
		return appanalysis.ErrFileTooLarge
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("reading upload: %w", err)
	}

	job, err := r.svc.Submit(req.Context(), appanalysis.SubmitCommand{
		TenantID: tenant,
		FileName: name,
		MIMEType: mimeType,
		Size:     header.Size,
		Bytes:    data,
	})
	if err != nil {
		return err
	}

	middleware.IncrementAnalyses()

	// Snapshot the response before the background pipeline starts
	// mutating the job.
	accepted := map[string]any{
		"id":        job.ID,
		"status":    job.Status,
		"file_name": job.FileName,
		"queued_at": job.CreatedAt,
	}

	// Run to completion in the background so a client disconnect cannot
	// cancel the pipeline.
	go func() {
		middleware.IncrementAnalysesRunning()
		defer middleware.DecrementAnalysesRunning()

		r.svc.ProcessUntilDone(job, data)

		switch {
		case job.Status == domain.StatusFailed:
			middleware.IncrementAnalysesFailed()
		case job.IsDeepfake != nil && *job.IsDeepfake:
			middleware.IncrementDeepfakes()
		}
	}()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	return json.NewEncoder(w).Encode(accepted)
}

// GET /v1/{tenant}/analyses/latest?limit=20
func (r *Router) handleLatest(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))

	list, err := r.svc.Latest(req.Context(), tenant, middleware.ValidateLimit(limit))
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(list)
}

// GET /v1/{tenant}/analyses/{id}
func (r *Router) handleGet(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	id := chi.URLParam(req, "id")

	job, err := r.svc.Get(req.Context(), tenant, domain.JobID(id))
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(job)
}

// GET /v1/{tenant}/history
func (r *Router) handleHistory(w http.ResponseWriter, req *http.Request) error {
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(r.svc.History())
}

// GET /v1/{tenant}/summary?days=7
func (r *Router) handleSummary(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	days, _ := strconv.Atoi(req.URL.Query().Get("days"))

	summary, err := r.svc.Summary(req.Context(), tenant, middleware.ValidateDays(days))
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(summary)
}
