package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	learnerhandler "idrecon/internal/learner/handler"
	learnerservice "idrecon/internal/learner/service"
	"idrecon/internal/platform/config"
	"idrecon/internal/platform/health"
	"idrecon/internal/platform/httpserver"
	"idrecon/internal/platform/logger"
	"idrecon/internal/platform/metrics"
	"idrecon/internal/platform/middleware"
	reconengine "idrecon/internal/reconcile/engine"
	reconevents "idrecon/internal/reconcile/events"
	reconhandler "idrecon/internal/reconcile/handler"
	"idrecon/internal/reconcile/report"
	reconservice "idrecon/internal/reconcile/service"
	refhandler "idrecon/internal/reference/handler"
	"idrecon/internal/reference/importer"
	refservice "idrecon/internal/reference/service"
)

// maxRequestBody bounds uploads; bulk learner files are the largest payloads.
const maxRequestBody = 64 << 20

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)
	m := metrics.New()

	log.Info("initializing idrecon",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
		"postgres", cfg.DatabaseURL != "",
		"redis", cfg.Redis.URL != "",
		"kafka", cfg.Kafka.Brokers != "",
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	infra, err := buildInfra(ctx, cfg, log)
	if err != nil {
		log.Error("failed to initialize infrastructure", "error", err)
		os.Exit(1)
	}
	defer infra.Close()

	reports, err := report.NewFileStore(cfg.ReportDir)
	if err != nil {
		log.Error("failed to prepare report directory", "dir", cfg.ReportDir, "error", err)
		os.Exit(1)
	}

	learners := learnerservice.New(infra.learners,
		learnerservice.WithLogger(log),
		learnerservice.WithMetrics(m),
		learnerservice.WithErrorReports(reports),
	)
	if cfg.LearnerSeedFile != "" {
		if _, err := seedLearners(ctx, learners, cfg.LearnerSeedFile, log); err != nil {
			log.Warn("learner seed skipped", "error", err)
		}
	}

	refImporter := importer.New(infra.reference,
		importer.WithLogger(log),
		importer.WithMetrics(m),
		importer.WithFallbackSeed(cfg.Reference.FallbackSeed),
		importer.WithHTTPClient(&http.Client{Timeout: cfg.Reference.FetchTimeout}),
	)
	reference := refservice.New(infra.reference, refImporter,
		refservice.WithLogger(log),
		refservice.WithDefaultSource(cfg.Reference.SourceURL),
	)

	engine := reconengine.New(infra.learners, infra.reference,
		reconengine.WithWorkers(cfg.Recon.Workers),
		reconengine.WithBatchSize(cfg.Recon.BatchSize),
		reconengine.WithFormatExemptions(cfg.Recon.FormatExemptIDs),
		reconengine.WithLogger(log),
		reconengine.WithMetrics(m),
	)
	jobs := reconservice.New(engine, infra.tracker, reports,
		reconservice.WithLogger(log),
		reconservice.WithMetrics(m),
		reconservice.WithEvents(reconevents.NewPublisher(infra.producer, cfg.Kafka.JobTopic)),
	)

	healthHandler := health.New(cfg.Environment)
	for name, check := range infra.checks {
		healthHandler.RegisterCheck(name, check)
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(chimw.Recoverer)
	r.Use(middleware.MaxBody(maxRequestBody))

	healthHandler.Register(r)
	r.Handle("/metrics", promhttp.Handler())
	learnerhandler.New(learners, log).Register(r)
	refhandler.New(reference, log).Register(r)
	reconhandler.New(jobs, reports, log).Register(r)

	srv := httpserver.New(cfg.Addr, r)

	serverErr := make(chan error, 1)
	go func() {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-serverErr:
		log.Error("server error", "error", err)
	}

	log.Info("shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
	if err := jobs.Shutdown(shutdownCtx); err != nil {
		log.Error("reconciliation jobs did not stop in time", "error", err)
	}

	log.Info("server stopped")
}
