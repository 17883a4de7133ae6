package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"idrecon/internal/learner/models"
	"idrecon/pkg/platform/sentinel"
)

// InMemoryStore keeps learners in a map keyed by national ID.
type InMemoryStore struct {
	mu       sync.RWMutex
	learners map[string]models.Learner
	clock    func() time.Time
}

// NewInMemory constructs an empty learner store.
func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		learners: make(map[string]models.Learner),
		clock:    time.Now,
	}
}

// InsertBatch stores every candidate whose ID is not already present.
// Existing IDs come back as duplicate_existing rejections.
func (s *InMemoryStore) InsertBatch(_ context.Context, candidates []models.Candidate) ([]models.ErrorDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	var rejected []models.ErrorDetail
	for _, c := range candidates {
		if _, exists := s.learners[c.Learner.NationalID]; exists {
			rejected = append(rejected, duplicateExisting(c))
			continue
		}
		l := *c.Learner
		l.CreatedAt = now
		s.learners[l.NationalID] = l
	}
	return rejected, nil
}

func (s *InMemoryStore) Create(_ context.Context, learner *models.Learner) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.learners[learner.NationalID]; exists {
		return sentinel.ErrConflict
	}
	l := *learner
	l.CreatedAt = s.clock()
	s.learners[l.NationalID] = l
	learner.CreatedAt = l.CreatedAt
	return nil
}

func (s *InMemoryStore) FindByNationalID(_ context.Context, nationalID string) (*models.Learner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.learners[nationalID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &l, nil
}

func (s *InMemoryStore) MarkVerified(_ context.Context, nationalID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.learners[nationalID]
	if !ok {
		return sentinel.ErrNotFound
	}
	l.IsVerified = true
	s.learners[nationalID] = l
	return nil
}

// ListAll returns every learner ordered by national ID.
func (s *InMemoryStore) ListAll(_ context.Context) ([]*models.Learner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Learner, 0, len(s.learners))
	for _, l := range s.learners {
		l := l
		out = append(out, &l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NationalID < out[j].NationalID })
	return out, nil
}

func duplicateExisting(c models.Candidate) models.ErrorDetail {
	return models.ErrorDetail{
		RowNumber:  c.RowNumber,
		NationalID: c.Learner.NationalID,
		Message:    fmt.Sprintf("Learner with ID %s already exists.", c.Learner.NationalID),
		Kind:       models.KindDuplicateExisting,
	}
}
