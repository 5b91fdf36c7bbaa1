package memory

import (
	"context"
	"sync"

	"repeater-test-service/internal/domain"
)

// RegistryStore is an in-memory implementation of app.RegistryStore.
// The mutex serializes read-modify-write cycles, which is all the
// lost-update protection a single-process deployment needs.
type RegistryStore struct {
	mu       sync.Mutex
	registry *domain.Registry
}

func NewRegistryStore() *RegistryStore {
	return &RegistryStore{registry: domain.NewRegistry()}
}

func (s *RegistryStore) Load(_ context.Context) (*domain.Registry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.Clone(), nil
}

func (s *RegistryStore) Update(_ context.Context, fn func(*domain.Registry) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Mutate a scratch copy so a failed update leaves the registry untouched.
	scratch := s.registry.Clone()
	if err := fn(scratch); err != nil {
		return err
	}
	scratch.Version++
	s.registry = scratch
	return nil
}
