package redis

import (
	"context"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"repeater-test-service/internal/domain"
)

// KeyLoader fetches a solution key from a backing store (e.g., the solution
// document on disk).
type KeyLoader interface {
	Key(ctx context.Context, instanceID string) (domain.SolutionKey, error)
}

// SolutionKeys caches per-instance answer keys in Redis (one hash per
// instance) and falls back to a loader on cache miss.
// Keys are stored as: HSET solution:{instanceID}:key {item} {label}
type SolutionKeys struct {
	client *redis.Client
	loader KeyLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewSolutionKeys(client *redis.Client, loader KeyLoader, ttl time.Duration) *SolutionKeys {
	return &SolutionKeys{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *SolutionKeys) Key(ctx context.Context, instanceID string) (domain.SolutionKey, error) {
	cacheKey := s.cacheKey(instanceID)

	fields, err := s.client.HGetAll(ctx, cacheKey).Result()
	if err == nil && len(fields) > 0 {
		return keyFromCache(fields), nil
	}

	result, err, _ := s.sf.Do(instanceID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		fields, err := s.client.HGetAll(ctx, cacheKey).Result()
		if err == nil && len(fields) > 0 {
			return keyFromCache(fields), nil
		}

		key, err := s.loader.Key(ctx, instanceID)
		if err != nil {
			return nil, err
		}

		ttl := s.ttlWithJitter()
		pipe := s.client.Pipeline()
		for item, label := range key {
			pipe.HSet(ctx, cacheKey, item, string(label))
		}
		if ttl > 0 {
			pipe.Expire(ctx, cacheKey, ttl)
		}
		_, _ = pipe.Exec(ctx)

		return key, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(domain.SolutionKey), nil
}

func (s *SolutionKeys) cacheKey(instanceID string) string {
	return "solution:" + instanceID + ":key"
}

func keyFromCache(fields map[string]string) domain.SolutionKey {
	key := make(domain.SolutionKey, len(fields))
	for item, label := range fields {
		key[item] = domain.Label(label)
	}
	return key
}

func (s *SolutionKeys) ttlWithJitter() time.Duration {
	if s.ttl <= 0 {
		return 0
	}
	jitterMax := int64(s.ttl) / 10
	return s.ttl + time.Duration(s.rnd.Int63n(jitterMax+1))
}
