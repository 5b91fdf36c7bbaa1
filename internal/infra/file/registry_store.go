package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"repeater-test-service/internal/domain"
)

// registryRetries bounds optimistic retry when another process raced us.
const registryRetries = 3

// RegistryStore persists the registry as one versioned JSON document.
// In-process updates are serialized by the mutex; cross-process writers are
// detected by re-reading the version stamp before the atomic rename, and a
// mismatch retries the whole read-modify-write cycle.
type RegistryStore struct {
	path string
	mu   sync.Mutex
}

func NewRegistryStore(path string) *RegistryStore {
	return &RegistryStore{path: path}
}

func (s *RegistryStore) Load(_ context.Context) (*domain.Registry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

func (s *RegistryStore) Update(ctx context.Context, fn func(*domain.Registry) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for attempt := 0; attempt < registryRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		reg, err := s.read()
		if err != nil {
			return err
		}
		loadedVersion := reg.Version

		if err := fn(reg); err != nil {
			return err
		}

		// A concurrent process may have written between our read and now;
		// its version bump invalidates this cycle.
		current, err := s.read()
		if err != nil {
			return err
		}
		if current.Version != loadedVersion {
			continue
		}

		reg.Version = loadedVersion + 1
		return s.write(reg)
	}
	return domain.ErrRegistryConflict
}

// read returns the stored registry, or a fresh one when the document does
// not exist yet.
func (s *RegistryStore) read() (*domain.Registry, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return domain.NewRegistry(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read registry: %w", err)
	}
	reg := domain.NewRegistry()
	if err := json.Unmarshal(data, reg); err != nil {
		return nil, fmt.Errorf("decode registry: %w", err)
	}
	if reg.Participants == nil {
		reg.Participants = make(map[string]*domain.ParticipantRecord)
	}
	return reg, nil
}

// write lands the document via temp file + rename so readers never observe a
// half-written registry.
func (s *RegistryStore) write(reg *domain.Registry) error {
	data, err := json.MarshalIndent(reg, "", "   ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".registry-*")
	if err != nil {
		return fmt.Errorf("stage registry: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("stage registry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("commit registry: %w", err)
	}
	return nil
}
