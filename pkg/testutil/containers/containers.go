//go:build integration

// Package containers starts the Postgres, Redis and Redpanda backends used by
// integration tests. Each backend starts once per test binary and is shared
// by every suite in it.
package containers

import (
	"sync"
	"testing"
)

type Manager struct {
	mu       sync.Mutex
	postgres *PostgresContainer
	redis    *RedisContainer
	kafka    *KafkaContainer
}

var manager = &Manager{}

func GetManager() *Manager {
	return manager
}

// lazy starts the backend under the manager lock the first time it is asked for.
func lazy[T any](m *Manager, slot **T, start func(*testing.T) *T, t *testing.T) *T {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	if *slot == nil {
		*slot = start(t)
	}
	return *slot
}

func (m *Manager) GetPostgres(t *testing.T) *PostgresContainer {
	t.Helper()
	return lazy(m, &m.postgres, NewPostgresContainer, t)
}

func (m *Manager) GetRedis(t *testing.T) *RedisContainer {
	t.Helper()
	return lazy(m, &m.redis, NewRedisContainer, t)
}

// GetKafka returns a Redpanda broker speaking the Kafka protocol.
func (m *Manager) GetKafka(t *testing.T) *KafkaContainer {
	t.Helper()
	return lazy(m, &m.kafka, NewKafkaContainer, t)
}
