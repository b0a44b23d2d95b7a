package window

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces attempt-window keys.
const DefaultRedisPrefix = "aw:"

// RedisStore is the store-backed Store backing. Each identifier maps to a
// counter key; the key's TTL, set on the first failure, is the window.
type RedisStore struct {
	redis  redis.UniversalClient
	cfg    Config
	prefix string
}

// NewRedisStore creates a RedisStore. An empty prefix falls back to
// [DefaultRedisPrefix].
func NewRedisStore(client redis.UniversalClient, cfg Config, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisStore{
		redis:  client,
		cfg:    cfg,
		prefix: prefix,
	}
}

func (s *RedisStore) key(identifier string) string {
	return s.prefix + identifier
}

// CheckAndConsume reads the identifier's counter. Missing keys allow; a
// counter at or over MaxAttempts denies with the key's remaining TTL.
func (s *RedisStore) CheckAndConsume(ctx context.Context, identifier string) (Decision, error) {
	count, err := s.redis.Get(ctx, s.key(identifier)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Decision{Allowed: true}, nil
		}
		return Decision{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if count >= int64(s.cfg.MaxAttempts) {
		ttl, err := s.redis.PTTL(ctx, s.key(identifier)).Result()
		if err != nil {
			return Decision{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		if ttl <= 0 {
			// Counter with no expiry cannot represent an open window; treat
			// as stale rather than locking the identifier out forever.
			return Decision{Allowed: true}, nil
		}
		return Decision{Allowed: false, RetryAfter: ttl}, nil
	}

	return Decision{Allowed: true}, nil
}

// RecordOutcome increments the counter on failure, setting the window TTL
// when the counter is fresh, and deletes it on success.
func (s *RedisStore) RecordOutcome(ctx context.Context, identifier string, success bool) error {
	if success {
		if err := s.redis.Del(ctx, s.key(identifier)).Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return nil
	}

	count, err := s.redis.Incr(ctx, s.key(identifier)).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	// TTL only for the first hit in the window; later failures ride the
	// window opened by the first one.
	if count == 1 {
		if err := s.redis.Expire(ctx, s.key(identifier), s.cfg.TTL).Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}

	return nil
}
