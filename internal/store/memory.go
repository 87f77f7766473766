package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sujalbistaa/proposal/internal/models"
)

// MemoryStore is an in-process Store. Records are copied on the way in and out.
type MemoryStore struct {
	mu        sync.RWMutex
	proposals map[string]*models.Proposal
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{proposals: make(map[string]*models.Proposal)}
}

func (s *MemoryStore) Create(_ context.Context, p *models.Proposal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.proposals[p.ID]; exists {
		return fmt.Errorf("create proposal %s: duplicate id", p.ID)
	}
	rec := p.Clone()
	rec.Normalize()
	s.proposals[p.ID] = rec
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*models.Proposal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.proposals[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p.Clone(), nil
}

func (s *MemoryStore) Update(_ context.Context, id string, f Fields) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.proposals[id]
	if !ok {
		return ErrNotFound
	}
	if f.Response != nil {
		r := *f.Response
		p.Response = &r
	}
	if f.RespondedAt != nil {
		t := f.RespondedAt.UTC()
		p.RespondedAt = &t
	}
	return nil
}

func (s *MemoryStore) AppendGuess(_ context.Context, id, guess string, correct bool) (*models.Proposal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.proposals[id]
	if !ok {
		return nil, ErrNotFound
	}
	p.Guesses = append(p.Guesses, guess)
	p.GuessesUsed = len(p.Guesses)
	p.GuessedCorrectly = p.GuessedCorrectly || correct
	return p.Clone(), nil
}

func (s *MemoryStore) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for id, p := range s.proposals {
		if p.ExpiresAt.Before(before) {
			delete(s.proposals, id)
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) Close() error { return nil }
