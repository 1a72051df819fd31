package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/verilens/verilens/internal/application"
	appanalysis "github.com/verilens/verilens/internal/application/analysis"
	"github.com/verilens/verilens/internal/config"
	"github.com/verilens/verilens/internal/detect/pixel"
	"github.com/verilens/verilens/internal/detect/remote"
	"github.com/verilens/verilens/internal/detect/subscore"
	"github.com/verilens/verilens/internal/detect/verdict"
	domai "github.com/verilens/verilens/internal/domain/ai"
	"github.com/verilens/verilens/internal/domain/analysis"
	"github.com/verilens/verilens/internal/domain/audit"
	"github.com/verilens/verilens/internal/history"
	aiopenai "github.com/verilens/verilens/internal/infra/ai/openai"
	"github.com/verilens/verilens/internal/infra/ai/prompt"
	mysqlp "github.com/verilens/verilens/internal/infra/db/mysql"
	postgresp "github.com/verilens/verilens/internal/infra/db/postgres"
	"github.com/verilens/verilens/internal/infra/feed"
	"github.com/verilens/verilens/internal/infra/httpserver"
	minioStore "github.com/verilens/verilens/internal/infra/storage"
	"github.com/verilens/verilens/internal/middleware"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	// load config
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	logger, closeLog := config.SetupLogger(cfg.Logging.File, config.ParseLogLevel(cfg.Logging.Level))
	defer closeLog()

	ctx := context.Background()

	// connect database
	dsn, err := cfg.DSN()
	if err != nil {
		log.Fatalf("database config error: %v", err)
	}

	var (
		db          *sql.DB
		repo        analysis.Repository
		transcripts domai.TranscriptStore
		failures    audit.Repository
	)
	switch strings.ToLower(cfg.Database.Driver) {
	case "postgres":
		db, err = postgresp.Connect(ctx, dsn)
		if err != nil {
			log.Fatalf("postgres connect error: %v", err)
		}
		repo = postgresp.NewJobRepository(db)
		transcripts = postgresp.NewTranscriptRepository(db)
		failures = postgresp.NewFailureRepository(db)
	default:
		db, err = mysqlp.Connect(ctx, dsn)
		if err != nil {
			log.Fatalf("mysql connect error: %v", err)
		}
		repo = mysqlp.NewJobRepository(db)
		transcripts = mysqlp.NewTranscriptRepository(db)
		failures = mysqlp.NewFailureRepository(db)
	}
	defer db.Close()

	// init minio
	store, err := minioStore.New(ctx,
		cfg.Minio.Endpoint,
		cfg.Minio.Region,
		cfg.Minio.BucketName,
		cfg.Minio.AccessKey,
		cfg.Minio.SecretKey,
		cfg.Minio.UseSSL,
	)
	if err != nil {
		log.Fatalf("minio init error: %v", err)
	}

	// init engines
	parser, err := verdict.Select(cfg.Engine.Parser)
	if err != nil {
		log.Fatalf("parser config error: %v", err)
	}
	promptFor := remote.PromptBuilder(prompt.Marker)
	if parser.Name() == "freeform" {
		promptFor = prompt.Freeform
	}

	// Each consumer owns its source; the components serialize their own
	// draws but the sources themselves must not be shared.
	synth := subscore.New(rand.New(rand.NewSource(time.Now().UnixNano())))
	extractor := pixel.NewExtractor(rand.New(rand.NewSource(time.Now().UnixNano() + 1)))

	local := pixel.NewEngine(extractor, pixel.NewScorer(synth), logger)

	remoteEngine := &remote.Engine{
		Client:      aiopenai.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model),
		Parser:      parser,
		Synth:       synth,
		Prompt:      promptFor,
		Transcripts: transcripts,
		Model:       cfg.OpenAI.Model,
		Clock:       application.SystemClock{},
		Log:         logger,
	}

	hub := feed.NewHub(0)

	// init service
	svc := &appanalysis.Service{
		Repo:        repo,
		Artifacts:   store,
		LocalEngine: local,
		Remote:      remoteEngine,
		Failures:    failures,
		Ledger:      history.NewLedger(cfg.History.Capacity),
		Feed:        hub,
		Clock:       application.SystemClock{},
		Log:         logger,
		ForceRemote: strings.EqualFold(cfg.Engine.Mode, "remote"),
	}

	// init router
	mux := chi.NewRouter()
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-API-Key"},
		MaxAge:         300,
	}))
	mux.Use(middleware.Logging(logger))
	mux.Use(middleware.MetricsMiddleware)
	if len(cfg.Auth.APIKeys) > 0 {
		mux.Use(middleware.APIKeyAuth(cfg.Auth.APIKeys))
	}
	if cfg.RateLimit.Capacity > 0 {
		mux.Use(middleware.RateLimit(cfg.RateLimit.Capacity, cfg.RateLimit.RefillRate))
	}

	mux.Get("/metrics", middleware.MetricsHandler)
	mux.Get("/ready", middleware.ReadinessHandler)
	mux.Get("/live", middleware.LivenessHandler)
	mux.Get("/healthz", middleware.HealthHandler(map[string]middleware.HealthChecker{
		"database": &middleware.DatabaseHealthChecker{DB: db},
	}))
	mux.Mount("/", httpserver.NewRouter(svc, hub, logger))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// run server
	go func() {
		logger.Info("server listening", "addr", addr, "driver", cfg.Database.Driver, "engineMode", cfg.Engine.Mode)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	logger.Info("shutting down server")

	ctx2, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}
