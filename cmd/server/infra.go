package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	learnerservice "idrecon/internal/learner/service"
	learnerstore "idrecon/internal/learner/store"
	"idrecon/internal/platform/config"
	"idrecon/internal/platform/database"
	"idrecon/internal/platform/health"
	"idrecon/internal/platform/kafka/producer"
	"idrecon/internal/platform/redis"
	"idrecon/internal/progress"
	reconengine "idrecon/internal/reconcile/engine"
	reconevents "idrecon/internal/reconcile/events"
	"idrecon/internal/reference/importer"
	refservice "idrecon/internal/reference/service"
	refstore "idrecon/internal/reference/store"
)

const cleanupInterval = 5 * time.Minute

type learnerStore interface {
	learnerservice.Store
	reconengine.LearnerSource
}

type referenceStore interface {
	importer.Store
	refservice.Store
	reconengine.ReferenceLookup
}

type eventProducer interface {
	reconevents.Producer
	Close() error
}

// infra holds the storage and messaging backends picked from configuration.
// Postgres, Redis and Kafka are each optional; in-memory and no-op
// implementations take their place when unset.
type infra struct {
	learners  learnerStore
	reference referenceStore
	tracker   progress.Tracker
	producer  eventProducer
	checks    map[string]health.CheckFunc

	closers []func() error
	log     *slog.Logger
}

func buildInfra(ctx context.Context, cfg config.Server, log *slog.Logger) (*infra, error) {
	in := &infra{checks: make(map[string]health.CheckFunc), log: log}

	dbCfg := database.DefaultConfig(cfg.DatabaseURL)
	dbCfg.AutoMigrate = cfg.AutoMigrate
	pool, err := database.New(ctx, dbCfg)
	if err != nil {
		return nil, err
	}
	if pool != nil {
		in.learners = learnerstore.NewPostgres(pool.DB())
		in.reference = refstore.NewPostgres(pool.DB())
		in.checks["database"] = pool.Health
		in.closers = append(in.closers, pool.Close)
	} else {
		log.Warn("DATABASE_URL not set; using in-memory stores")
		in.learners = learnerstore.NewInMemory()
		in.reference = refstore.NewInMemory()
	}

	rdb, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		in.Close()
		return nil, err
	}
	if rdb != nil {
		in.tracker = progress.NewRedis(rdb.Client, progress.WithRedisTTL(cfg.Recon.JobTTL))
		in.checks["redis"] = rdb.Health
		in.closers = append(in.closers, rdb.Close)
	} else {
		mem := progress.NewInMemory(progress.WithTTL(cfg.Recon.JobTTL))
		go func() {
			_ = mem.StartCleanup(ctx, cleanupInterval)
		}()
		in.tracker = mem
	}

	if cfg.Kafka.Brokers != "" {
		p, err := producer.New(producer.DefaultConfig(cfg.Kafka.Brokers), log)
		if err != nil {
			in.Close()
			return nil, err
		}
		if err := p.EnsureTopic(ctx, cfg.Kafka.JobTopic, 3, 1); err != nil {
			_ = p.Close()
			in.Close()
			return nil, fmt.Errorf("ensure job topic: %w", err)
		}
		in.producer = p
		in.checks["kafka"] = p.Health
		in.closers = append(in.closers, p.Close)
	} else {
		in.producer = producer.NewNoopProducer()
	}

	return in, nil
}

// Close releases backends in reverse order of creation.
func (in *infra) Close() {
	for i := len(in.closers) - 1; i >= 0; i-- {
		if err := in.closers[i](); err != nil {
			in.log.Warn("failed to close backend", "error", err)
		}
	}
}
