// Package engine classifies learners against a snapshot of the reference set.
//
// Rule order is fixed: InvalidFormat, NotFound, Deceased, SurnameMismatch,
// Valid. The first rule that applies decides the status, so every learner
// lands in exactly one bucket and the bucket counts sum to the total.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	learnermodels "idrecon/internal/learner/models"
	"idrecon/internal/platform/metrics"
	"idrecon/internal/reconcile/models"
	refmodels "idrecon/internal/reference/models"
	"idrecon/pkg/nationalid"
)

const (
	StatusFetching   = "Fetching learners..."
	StatusValidating = "Validating..."

	defaultBatchSize = 500

	// fineGrainedLimit is the total below which every record is reported.
	fineGrainedLimit = 1000
	coarseInterval   = 100
)

// LearnerSource lists the learners to reconcile.
type LearnerSource interface {
	ListAll(ctx context.Context) ([]*learnermodels.Learner, error)
}

// ReferenceLookup reads reference records for a set of IDs in one call.
type ReferenceLookup interface {
	FindByNationalIDs(ctx context.Context, ids []string) (map[string]refmodels.Citizen, error)
}

// ProgressFunc receives (processed, total, status) reports. It may be called
// concurrently from worker goroutines.
type ProgressFunc func(processed, total int, status string)

// Engine runs reconciliation passes.
type Engine struct {
	learners  LearnerSource
	reference ReferenceLookup
	workers   int
	batchSize int
	exempt    map[string]struct{}
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

type Option func(*Engine)

func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

func WithBatchSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.batchSize = n
		}
	}
}

// WithFormatExemptions replaces the IDs that skip the checksum rule; an empty
// list disables exemptions. Exempt IDs are still looked up and classified by
// the remaining rules. Defaults to nationalid.FixtureIDs.
func WithFormatExemptions(ids []string) Option {
	return func(e *Engine) {
		e.exempt = make(map[string]struct{}, len(ids))
		for _, id := range ids {
			e.exempt[id] = struct{}{}
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

func New(learners LearnerSource, reference ReferenceLookup, opts ...Option) *Engine {
	e := &Engine{
		learners:  learners,
		reference: reference,
		workers:   runtime.GOMAXPROCS(0),
		batchSize: defaultBatchSize,
		exempt:    make(map[string]struct{}),
		logger:    slog.Default(),
	}
	for _, id := range nationalid.FixtureIDs() {
		e.exempt[id] = struct{}{}
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run loads all learners and a reference snapshot covering their IDs, then
// classifies them.
func (e *Engine) Run(ctx context.Context, progress ProgressFunc) (*models.ValidationSummary, error) {
	ctx, span := otel.Tracer("idrecon/reconcile").Start(ctx, "reconcile.run")
	defer span.End()

	progress = orNoop(progress)
	progress(0, 0, StatusFetching)

	learners, err := e.learners.ListAll(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list learners")
		return nil, fmt.Errorf("list learners: %w", err)
	}

	ids := make([]string, 0, len(learners))
	for _, l := range learners {
		ids = append(ids, l.NationalID)
	}
	snapshot, err := e.reference.FindByNationalIDs(ctx, ids)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "reference snapshot")
		return nil, fmt.Errorf("load reference snapshot: %w", err)
	}

	progress(0, len(learners), StatusValidating)
	summary, err := e.Classify(ctx, learners, snapshot, progress)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "classify")
		return nil, err
	}
	span.SetAttributes(attribute.Int("reconcile.total", summary.TotalRecords))
	return summary, nil
}

// Classify runs the parallel pass over learners. Cancellation is checked
// before each batch; a cancelled pass returns the context error.
func (e *Engine) Classify(
	ctx context.Context,
	learners []*learnermodels.Learner,
	snapshot map[string]refmodels.Citizen,
	progress ProgressFunc,
) (*models.ValidationSummary, error) {
	progress = orNoop(progress)
	total := len(learners)

	var (
		processed atomic.Int64
		counts    [5]atomic.Int64
		mu        sync.Mutex
		details   = make([]models.ValidationDetail, 0, total)
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for start := 0; start < total; start += e.batchSize {
		if err := gctx.Err(); err != nil {
			break
		}
		batch := learners[start:min(start+e.batchSize, total)]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			local := make([]models.ValidationDetail, 0, len(batch))
			for _, l := range batch {
				d := e.classify(l, snapshot)
				counts[statusIndex(d.Status)].Add(1)
				local = append(local, d)

				n := int(processed.Add(1))
				if total < fineGrainedLimit || n%coarseInterval == 0 {
					progress(n, total, fmt.Sprintf("Processing %d/%d", n, total))
				}
			}
			mu.Lock()
			details = append(details, local...)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	summary := &models.ValidationSummary{
		TotalRecords:         total,
		InvalidFormatCount:   int(counts[statusIndex(models.StatusInvalidFormat)].Load()),
		NotFoundCount:        int(counts[statusIndex(models.StatusNotFound)].Load()),
		DeceasedCount:        int(counts[statusIndex(models.StatusDeceased)].Load()),
		SurnameMismatchCount: int(counts[statusIndex(models.StatusSurnameMismatch)].Load()),
		ValidCount:           int(counts[statusIndex(models.StatusValid)].Load()),
		Details:              details,
	}
	for _, st := range models.Statuses {
		e.metrics.ObserveReconOutcome(string(st), summary.Count(st))
	}
	e.logger.InfoContext(ctx, "reconciliation pass finished",
		"total", summary.TotalRecords,
		"valid", summary.ValidCount,
		"deceased", summary.DeceasedCount,
		"not_found", summary.NotFoundCount,
		"surname_mismatch", summary.SurnameMismatchCount,
		"invalid_format", summary.InvalidFormatCount,
	)
	return summary, nil
}

func (e *Engine) classify(l *learnermodels.Learner, snapshot map[string]refmodels.Citizen) models.ValidationDetail {
	_, exempt := e.exempt[l.NationalID]
	return Classify(l, snapshot, exempt)
}

// Classify applies the rule order to a single learner.
func Classify(l *learnermodels.Learner, snapshot map[string]refmodels.Citizen, formatExempt bool) models.ValidationDetail {
	d := models.ValidationDetail{
		NationalID: l.NationalID,
		FirstName:  l.FirstName,
		LastName:   l.LastName,
	}

	if !formatExempt && !nationalid.Valid(l.NationalID) {
		d.Status, d.Message = models.StatusInvalidFormat, models.MessageInvalidFormat
		return d
	}
	ref, found := snapshot[l.NationalID]
	switch {
	case !found:
		d.Status, d.Message = models.StatusNotFound, models.MessageNotFound
	case ref.IsDeceased:
		d.Status, d.Message = models.StatusDeceased, models.MessageDeceased
	case !refmodels.SurnameMatches(l.LastName, ref.Surname):
		d.Status, d.Message = models.StatusSurnameMismatch, models.SurnameMismatchMessage(l.LastName, ref.Surname)
	default:
		d.Status, d.Message = models.StatusValid, models.MessageValid
	}
	return d
}

func statusIndex(s models.Status) int {
	for i, st := range models.Statuses {
		if st == s {
			return i
		}
	}
	return len(models.Statuses) - 1
}

func orNoop(p ProgressFunc) ProgressFunc {
	if p == nil {
		return func(int, int, string) {}
	}
	return p
}
