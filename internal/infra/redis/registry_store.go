package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"repeater-test-service/internal/domain"
)

const registryKey = "registry:doc"

// registryRetries bounds optimistic retry when another writer raced us.
const registryRetries = 3

// RegistryStore keeps the registry as one versioned JSON document in Redis.
// Updates run inside WATCH/MULTI so a concurrent writer aborts the
// transaction and the read-modify-write cycle retries from a fresh read.
type RegistryStore struct {
	client *redis.Client
}

func NewRegistryStore(client *redis.Client) *RegistryStore {
	return &RegistryStore{client: client}
}

func (s *RegistryStore) Load(ctx context.Context) (*domain.Registry, error) {
	data, err := s.client.Get(ctx, registryKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.NewRegistry(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load registry: %w", err)
	}
	return decodeRegistry(data)
}

func (s *RegistryStore) Update(ctx context.Context, fn func(*domain.Registry) error) error {
	for attempt := 0; attempt < registryRetries; attempt++ {
		err := s.client.Watch(ctx, func(tx *redis.Tx) error {
			reg := domain.NewRegistry()
			data, err := tx.Get(ctx, registryKey).Bytes()
			switch {
			case errors.Is(err, redis.Nil):
			case err != nil:
				return fmt.Errorf("load registry: %w", err)
			default:
				if reg, err = decodeRegistry(data); err != nil {
					return err
				}
			}

			if err := fn(reg); err != nil {
				return err
			}
			reg.Version++

			out, err := json.Marshal(reg)
			if err != nil {
				return fmt.Errorf("encode registry: %w", err)
			}
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, registryKey, out, 0)
				return nil
			})
			return err
		}, registryKey)

		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return domain.ErrRegistryConflict
}

func decodeRegistry(data []byte) (*domain.Registry, error) {
	reg := domain.NewRegistry()
	if err := json.Unmarshal(data, reg); err != nil {
		return nil, fmt.Errorf("decode registry: %w", err)
	}
	if reg.Participants == nil {
		reg.Participants = make(map[string]*domain.ParticipantRecord)
	}
	return reg, nil
}
