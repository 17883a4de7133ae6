// Package importer loads reference citizen data from a remote sheet export or
// raw CSV text and upserts it as one atomic batch.
package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"idrecon/internal/platform/metrics"
	"idrecon/internal/reference/models"
)

const (
	defaultFetchTimeout  = 30 * time.Second
	defaultMaxRetries    = 3
	defaultRetryInterval = 500 * time.Millisecond
)

// Store receives the parsed batch.
type Store interface {
	UpsertBatch(ctx context.Context, citizens []models.Citizen) (int, error)
}

// Importer fetches, parses and upserts reference citizens.
type Importer struct {
	store         Store
	client        *http.Client
	fallbackSeed  bool
	maxRetries    uint64
	retryInterval time.Duration
	logger        *slog.Logger
	metrics       *metrics.Metrics
}

type Option func(*Importer)

func WithLogger(logger *slog.Logger) Option {
	return func(i *Importer) {
		i.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(i *Importer) {
		i.metrics = m
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(i *Importer) {
		i.client = client
	}
}

// WithFallbackSeed controls whether a failed fetch loads the fixed seed dataset.
func WithFallbackSeed(enabled bool) Option {
	return func(i *Importer) {
		i.fallbackSeed = enabled
	}
}

// WithRetry sets the number of fetch retries after the first attempt and the
// initial backoff interval.
func WithRetry(maxRetries uint64, initial time.Duration) Option {
	return func(i *Importer) {
		i.maxRetries = maxRetries
		i.retryInterval = initial
	}
}

func New(store Store, opts ...Option) *Importer {
	i := &Importer{
		store:         store,
		client:        &http.Client{Timeout: defaultFetchTimeout},
		fallbackSeed:  true,
		maxRetries:    defaultMaxRetries,
		retryInterval: defaultRetryInterval,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// IsURL reports whether source should be fetched rather than parsed directly.
func IsURL(source string) bool {
	s := strings.ToLower(strings.TrimSpace(source))
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Import loads source, which is either an http(s) URL or raw CSV text.
// Failures are reported in the result, never returned.
func (i *Importer) Import(ctx context.Context, source string) *models.ImportResult {
	ctx, span := otel.Tracer("idrecon/reference").Start(ctx, "reference.import")
	defer span.End()

	result := &models.ImportResult{Errors: []string{}, Warnings: []string{}}
	source = strings.TrimSpace(source)
	if source == "" {
		result.Errors = append(result.Errors, "no reference source provided")
		return result
	}

	content := source
	if IsURL(source) {
		span.SetAttributes(attribute.Bool("reference.remote", true))
		body, err := i.fetch(ctx, source)
		if err != nil {
			i.logger.WarnContext(ctx, "reference fetch failed", "error", err, "fallback_seed", i.fallbackSeed)
			span.RecordError(err)
			if !i.fallbackSeed {
				span.SetStatus(codes.Error, "fetch failed")
				result.Errors = append(result.Errors, "Failed to fetch reference data: "+err.Error())
				return result
			}
			return i.seedFallback(ctx, result, err)
		}
		content = body
	}

	citizens, rowErrors := Parse(content)
	result.Errors = append(result.Errors, rowErrors...)

	n, err := i.store.UpsertBatch(ctx, citizens)
	if err != nil {
		i.logger.ErrorContext(ctx, "reference upsert failed", "records", len(citizens), "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "upsert failed")
		result.Errors = append(result.Errors, "Failed to save reference data: "+err.Error())
		return result
	}

	result.Success = true
	result.RecordsProcessed = n
	i.metrics.ObserveReferenceImport(n, false)
	span.SetAttributes(attribute.Int("reference.records", n), attribute.Int("reference.row_errors", len(rowErrors)))
	i.logger.InfoContext(ctx, "reference import finished", "records", n, "row_errors", len(rowErrors))
	return result
}

func (i *Importer) seedFallback(ctx context.Context, result *models.ImportResult, fetchErr error) *models.ImportResult {
	n, err := i.store.UpsertBatch(ctx, FallbackCitizens())
	if err != nil {
		result.Errors = append(result.Errors,
			"Failed to fetch reference data: "+fetchErr.Error(),
			"Failed to save fallback data: "+err.Error())
		return result
	}
	result.Success = true
	result.FallbackUsed = true
	result.RecordsProcessed = n
	result.Warnings = append(result.Warnings,
		fmt.Sprintf("Could not fetch reference data (%v). Loaded %d fallback records instead.", fetchErr, n))
	i.metrics.ObserveReferenceImport(n, true)
	i.logger.WarnContext(ctx, "reference fallback seed loaded", "records", n)
	return result
}

var errHTMLPayload = errors.New("source returned an HTML page instead of CSV")
