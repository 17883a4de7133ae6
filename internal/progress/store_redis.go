package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"idrecon/internal/reconcile/models"
	"idrecon/pkg/platform/sentinel"
)

const (
	jobKeyPrefix  = "recon_job:"
	defaultJobTTL = 24 * time.Hour
)

// RedisTracker persists job state in Redis so several server processes can
// serve polls for the same job. Each job is one JSON document with a TTL.
type RedisTracker struct {
	client *redis.Client
	ttl    time.Duration
	clock  func() time.Time
}

// RedisOption configures a RedisTracker.
type RedisOption func(*RedisTracker)

// WithRedisTTL sets how long a job survives after its last write.
func WithRedisTTL(ttl time.Duration) RedisOption {
	return func(t *RedisTracker) {
		if ttl > 0 {
			t.ttl = ttl
		}
	}
}

// WithRedisClock overrides time.Now for tests.
func WithRedisClock(clock func() time.Time) RedisOption {
	return func(t *RedisTracker) {
		if clock != nil {
			t.clock = clock
		}
	}
}

// NewRedis constructs a Redis-backed tracker.
func NewRedis(client *redis.Client, opts ...RedisOption) *RedisTracker {
	t := &RedisTracker{
		client: client,
		ttl:    defaultJobTTL,
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *RedisTracker) jobKey(jobID string) string {
	return jobKeyPrefix + jobID
}

func (t *RedisTracker) Start(ctx context.Context, jobID string) error {
	now := t.clock()
	data, err := json.Marshal(&Job{
		JobID:     jobID,
		Status:    StatusStarted,
		StartedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	if err := t.client.Set(ctx, t.jobKey(jobID), data, t.ttl).Err(); err != nil {
		return fmt.Errorf("start job: %w", err)
	}
	return nil
}

func (t *RedisTracker) Update(ctx context.Context, jobID string, processed, total int, status string) error {
	return t.mutate(ctx, jobID, func(j *Job, now time.Time) bool {
		return applyUpdate(j, processed, total, status, now)
	})
}

func (t *RedisTracker) Complete(ctx context.Context, jobID string, result *models.ValidationSummary) error {
	return t.mutate(ctx, jobID, func(j *Job, now time.Time) bool {
		return applyComplete(j, result, now)
	})
}

func (t *RedisTracker) Fail(ctx context.Context, jobID string, message string) error {
	return t.mutate(ctx, jobID, func(j *Job, now time.Time) bool {
		return applyFail(j, message, now)
	})
}

func (t *RedisTracker) Get(ctx context.Context, jobID string) (*Job, error) {
	data, err := t.client.Get(ctx, t.jobKey(jobID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	var j Job
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("unmarshal job: %w", err)
	}
	return &j, nil
}

// mutate applies fn under optimistic lock. Missing jobs are skipped silently;
// fn returning false leaves the stored document untouched.
func (t *RedisTracker) mutate(ctx context.Context, jobID string, fn func(*Job, time.Time) bool) error {
	key := t.jobKey(jobID)

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("get job for update: %w", err)
		}

		var j Job
		if err := json.Unmarshal(data, &j); err != nil {
			return fmt.Errorf("unmarshal job: %w", err)
		}
		if !fn(&j, t.clock()) {
			return nil
		}

		newData, err := json.Marshal(&j)
		if err != nil {
			return fmt.Errorf("marshal job: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, newData, t.ttl)
			return nil
		})
		return err
	}

	// Retry when another writer touched the key between WATCH and EXEC.
	for attempt := 0; attempt < 5; attempt++ {
		err := t.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return fmt.Errorf("update job %s: %w", jobID, redis.TxFailedErr)
}
