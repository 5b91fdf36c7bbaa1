package memory

import (
	"context"

	"repeater-test-service/internal/domain"
)

// SolutionKeys serves part-one keys from an in-memory set. The set is
// written once at construction and never mutated, so reads need no locking.
type SolutionKeys struct {
	set domain.SolutionSet
}

func NewSolutionKeys(set domain.SolutionSet) *SolutionKeys {
	return &SolutionKeys{set: set}
}

func (s *SolutionKeys) Key(_ context.Context, instanceID string) (domain.SolutionKey, error) {
	key, ok := s.set[instanceID]
	if !ok {
		return nil, &domain.UnknownInstanceError{InstanceID: instanceID}
	}
	return key, nil
}
