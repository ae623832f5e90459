// Package redisstore provides a Redis-backed [storage.Storage] for hosts
// that keep session bundles server-side (kiosk and shared-device
// deployments). Values are stored under a configurable key prefix with an
// optional TTL.
package redisstore

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mobilisk/authcore/storage"
)

const defaultPrefix = "authcore:kv:"

// Store defines a public type used by authcore APIs.
//
// Store instances are intended to be configured during initialization and
// then treated as immutable.
type Store struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// Option configures a [Store].
type Option func(*Store)

// WithPrefix overrides the default key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// WithTTL sets an expiry on stored values. Zero means no expiry.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// New describes the new operation and its observable behavior.
//
// New may return an error when input validation or dependency checks fail.
func New(client *redis.Client, opts ...Option) (*Store, error) {
	if client == nil {
		return nil, errors.New("redis client required")
	}

	s := &Store{
		client: client,
		prefix: defaultPrefix,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// GetItem returns the value stored under key, or [storage.ErrNoValue].
func (s *Store) GetItem(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, s.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", storage.ErrNoValue
		}
		return "", err
	}
	return value, nil
}

// SetItem stores value under key, replacing any previous value.
func (s *Store) SetItem(ctx context.Context, key, value string) error {
	return s.client.Set(ctx, s.prefix+key, value, s.ttl).Err()
}

// RemoveItem deletes the value under key. Removing an absent key is not an
// error.
func (s *Store) RemoveItem(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.prefix+key).Err()
}
