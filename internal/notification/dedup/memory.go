package dedup

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fkhayef/checkin/internal/localtime"
)

type memoryKey struct {
	kind    Kind
	scopeID uuid.UUID
	date    localtime.Date
}

// MemoryStore is an in-process Store for single-instance development and tests
type MemoryStore struct {
	mu        sync.Mutex
	artifacts map[memoryKey]Artifact
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{artifacts: make(map[memoryKey]Artifact)}
}

// Exists reports whether the key is present
func (s *MemoryStore) Exists(ctx context.Context, kind Kind, scopeID uuid.UUID, date localtime.Date) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.artifacts[memoryKey{kind, scopeID, date}]
	return ok, nil
}

// Insert stores the artifact unless the key is taken
func (s *MemoryStore) Insert(ctx context.Context, a *Artifact) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := memoryKey{a.Kind, a.ScopeID, a.Date}
	if _, ok := s.artifacts[k]; ok {
		return false, nil
	}
	a.CreatedAt = time.Now().UTC()
	s.artifacts[k] = *a
	return true, nil
}

// Get returns a copy of the stored artifact
func (s *MemoryStore) Get(ctx context.Context, kind Kind, scopeID uuid.UUID, date localtime.Date) (*Artifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.artifacts[memoryKey{kind, scopeID, date}]
	if !ok {
		return nil, ErrArtifactNotFound
	}
	return &a, nil
}

// Len returns the number of stored artifacts
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.artifacts)
}
