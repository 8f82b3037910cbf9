package userstore

import (
	"context"
	"sync"
	"time"

	"github.com/trstyle/storefront-services/internal/models"
)

// MemoryStore keeps user records in a map with the same merge semantics as
// the Mongo-backed store. It backs unit tests and the handlers' local dev
// mode; forced errors let tests drive the fallback chain.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*models.UserRecord
	name    string

	// Forced failures for tests. When set, every call returns the error.
	SetErr error
	GetErr error

	SetCalls int
	GetCalls int
}

func NewMemoryStore(name string) *MemoryStore {
	if name == "" {
		name = "memory"
	}
	return &MemoryStore{records: make(map[string]*models.UserRecord), name: name}
}

func (s *MemoryStore) Name() string { return s.name }

func (s *MemoryStore) Set(ctx context.Context, key string, p Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SetCalls++
	if s.SetErr != nil {
		return s.SetErr
	}
	if key == "" {
		return E(KindInvalidArgument, s.name, "key is required", nil)
	}

	now := time.Now().UTC()
	rec, ok := s.records[key]
	if !ok {
		rec = &models.UserRecord{Key: key, CreatedAt: now}
		s.records[key] = rec
	}
	// merge: absent fields leave stored values untouched
	if p.Name != nil {
		rec.Name = *p.Name
	}
	if p.Email != nil {
		rec.Email = *p.Email
	}
	if p.Image != nil {
		rec.Image = *p.Image
	}
	if p.Provider != "" {
		rec.Provider = p.Provider
	}
	rec.UpdatedAt = now
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, key string) (*models.UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.GetCalls++
	if s.GetErr != nil {
		return nil, s.GetErr
	}
	rec, ok := s.records[key]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}
