package store

import (
	"context"
	"sync"
	"time"

	"idrecon/internal/reference/models"
	"idrecon/pkg/platform/sentinel"
)

// InMemoryStore keeps reference citizens in a map guarded by a single lock,
// so a batch upsert and a snapshot read never interleave.
type InMemoryStore struct {
	mu       sync.RWMutex
	citizens map[string]models.Citizen
	clock    func() time.Time
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		citizens: make(map[string]models.Citizen),
		clock:    time.Now,
	}
}

// UpsertBatch inserts or replaces every citizen under one write lock.
func (s *InMemoryStore) UpsertBatch(_ context.Context, citizens []models.Citizen) (int, error) {
	citizens = models.DedupeLastWins(citizens)
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	for _, c := range citizens {
		c.LastUpdated = now
		s.citizens[c.NationalID] = c
	}
	return len(citizens), nil
}

// FindByNationalIDs returns the subset of ids that have a record.
func (s *InMemoryStore) FindByNationalIDs(_ context.Context, ids []string) (map[string]models.Citizen, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]models.Citizen, len(ids))
	for _, id := range ids {
		if c, ok := s.citizens[id]; ok {
			out[id] = c
		}
	}
	return out, nil
}

func (s *InMemoryStore) FindByNationalID(_ context.Context, nationalID string) (*models.Citizen, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.citizens[nationalID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &c, nil
}

// Count returns the number of stored citizens.
func (s *InMemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.citizens), nil
}
