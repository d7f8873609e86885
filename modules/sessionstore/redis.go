package sessionstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/example/taskstream/domain/user"
	"github.com/redis/go-redis/v9"
)

// RedisStore implements Store on top of Redis. Sessions have no TTL; they
// live until an explicit logout, surviving process restarts.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: prefix,
	}
}

func (s *RedisStore) key() string {
	return s.prefix + SessionKey
}

// Save persists the user as the current session.
func (s *RedisStore) Save(ctx context.Context, u *user.User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := s.client.Set(ctx, s.key(), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// Load returns the persisted session. Absent keys and malformed blobs both
// yield ErrNoSession; corruption is logged, not propagated.
func (s *RedisStore) Load(ctx context.Context) (*user.User, error) {
	data, err := s.client.Get(ctx, s.key()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var u user.User
	if err := json.Unmarshal(data, &u); err != nil {
		log.Printf("[sessionstore] Discarding malformed session blob: %v", err)
		return nil, ErrNoSession
	}
	return &u, nil
}

// Clear removes the persisted session.
func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key()).Err(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
