// Package session provides the durable client session store. Each session is
// a small key/value bag (role, identity, provider id, cached profile) keyed
// by an opaque session ID. Sessions have no TTL; they only disappear on an
// explicit logout.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Well-known session keys.
const (
	KeyRole       = "role"
	KeyIdentity   = "identity"
	KeyProviderID = "provider_id"
	KeyProfile    = "profile"
	KeyPosition   = "position"
)

// Store abstracts the session key/value storage so services never touch a
// concrete backend directly.
type Store interface {
	// Get returns the value for one key, or "" when the key or session is
	// absent. A missing value is never an error.
	Get(ctx context.Context, sessionID, key string) (string, error)

	// Set writes the given values into the session, creating it if needed.
	Set(ctx context.Context, sessionID string, values map[string]string) error

	// Clear removes every key of the session.
	Clear(ctx context.Context, sessionID string) error
}

// RedisStore keeps each session as a redis hash.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to redis and verifies the connection.
func NewRedisStore(addr, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return &RedisStore{client: client}, nil
}

func sessionKey(sessionID string) string {
	return "session:" + sessionID
}

// Get returns one session value or "" when absent.
func (s *RedisStore) Get(ctx context.Context, sessionID, key string) (string, error) {
	val, err := s.client.HGet(ctx, sessionKey(sessionID), key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read session value: %w", err)
	}
	return val, nil
}

// Set writes values into the session hash.
func (s *RedisStore) Set(ctx context.Context, sessionID string, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	args := make([]interface{}, 0, len(values)*2)
	for k, v := range values {
		args = append(args, k, v)
	}
	if err := s.client.HSet(ctx, sessionKey(sessionID), args...).Err(); err != nil {
		return fmt.Errorf("failed to write session values: %w", err)
	}
	return nil
}

// Clear removes the whole session hash.
func (s *RedisStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Ping verifies the redis connection, used by the health endpoint.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the underlying redis client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// MemoryStore is an in-process Store used in tests and demos.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]map[string]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]map[string]string),
	}
}

// Get returns one session value or "" when absent.
func (s *MemoryStore) Get(_ context.Context, sessionID, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[sessionID][key], nil
}

// Set writes values into the session.
func (s *MemoryStore) Set(_ context.Context, sessionID string, values map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		sess = make(map[string]string)
		s.sessions[sessionID] = sess
	}
	for k, v := range values {
		sess[k] = v
	}
	return nil
}

// Clear removes every key of the session.
func (s *MemoryStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}
