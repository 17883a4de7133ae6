package progress

import (
	"context"
	"sync"
	"time"

	"idrecon/internal/reconcile/models"
	"idrecon/pkg/platform/sentinel"
)

// InMemoryTracker keeps job state in a mutex-guarded map for single-node deployments.
type InMemoryTracker struct {
	mu    sync.RWMutex
	jobs  map[string]*Job
	ttl   time.Duration
	clock func() time.Time
}

// MemoryOption configures an InMemoryTracker.
type MemoryOption func(*InMemoryTracker)

// WithTTL evicts jobs not updated within ttl when RemoveExpiredAt runs.
func WithTTL(ttl time.Duration) MemoryOption {
	return func(t *InMemoryTracker) {
		t.ttl = ttl
	}
}

// WithClock overrides time.Now for tests.
func WithClock(clock func() time.Time) MemoryOption {
	return func(t *InMemoryTracker) {
		if clock != nil {
			t.clock = clock
		}
	}
}

// NewInMemory constructs an empty tracker.
func NewInMemory(opts ...MemoryOption) *InMemoryTracker {
	t := &InMemoryTracker{
		jobs:  make(map[string]*Job),
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *InMemoryTracker) Start(_ context.Context, jobID string) error {
	now := t.clock()
	t.mu.Lock()
	defer t.mu.Unlock()
	t.jobs[jobID] = &Job{
		JobID:     jobID,
		Status:    StatusStarted,
		StartedAt: now,
		UpdatedAt: now,
	}
	return nil
}

func (t *InMemoryTracker) Update(_ context.Context, jobID string, processed, total int, status string) error {
	now := t.clock()
	t.mu.Lock()
	defer t.mu.Unlock()
	if j, ok := t.jobs[jobID]; ok {
		applyUpdate(j, processed, total, status, now)
	}
	return nil
}

func (t *InMemoryTracker) Complete(_ context.Context, jobID string, result *models.ValidationSummary) error {
	now := t.clock()
	t.mu.Lock()
	defer t.mu.Unlock()
	if j, ok := t.jobs[jobID]; ok {
		applyComplete(j, result, now)
	}
	return nil
}

func (t *InMemoryTracker) Fail(_ context.Context, jobID string, message string) error {
	now := t.clock()
	t.mu.Lock()
	defer t.mu.Unlock()
	if j, ok := t.jobs[jobID]; ok {
		applyFail(j, message, now)
	}
	return nil
}

// Get returns a copy so callers never race with later updates.
func (t *InMemoryTracker) Get(_ context.Context, jobID string) (*Job, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	j, ok := t.jobs[jobID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := *j
	return &out, nil
}

// StartCleanup runs periodic eviction of stale jobs until ctx is cancelled.
// It is a no-op loop when no TTL is configured.
func (t *InMemoryTracker) StartCleanup(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			t.RemoveExpiredAt(t.clock())
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// RemoveExpiredAt drops jobs whose last update is older than the TTL as of now.
// Returns the number of evicted jobs.
func (t *InMemoryTracker) RemoveExpiredAt(now time.Time) int {
	if t.ttl <= 0 {
		return 0
	}
	cutoff := now.Add(-t.ttl)
	t.mu.Lock()
	defer t.mu.Unlock()
	removed := 0
	for id, j := range t.jobs {
		if j.UpdatedAt.Before(cutoff) {
			delete(t.jobs, id)
			removed++
		}
	}
	return removed
}
