package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/go-redis/redis/v8"
)

const redisKeyPrefix = "watchface:"

// RedisStore persists values in Redis, one string key per persisted key.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, addr, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to reach redis at %s: %w", addr, err)
	}

	return &RedisStore{client: client}, nil
}

func redisKey(key Key) string {
	return redisKeyPrefix + strconv.FormatUint(uint64(key), 10)
}

// GetInt returns the integer stored under key.
func (s *RedisStore) GetInt(ctx context.Context, key Key) (int, error) {
	v, err := s.client.Get(ctx, redisKey(key)).Int()
	if errors.Is(err, redis.Nil) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read key %d: %w", key, err)
	}
	return v, nil
}

// SetInt stores an integer under key, replacing any previous value.
func (s *RedisStore) SetInt(ctx context.Context, key Key, value int) error {
	if err := s.client.Set(ctx, redisKey(key), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to write key %d: %w", key, err)
	}
	return nil
}

// GetString returns the string stored under key.
func (s *RedisStore) GetString(ctx context.Context, key Key) (string, error) {
	v, err := s.client.Get(ctx, redisKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read key %d: %w", key, err)
	}
	return v, nil
}

// SetString stores a string under key, replacing any previous value.
func (s *RedisStore) SetString(ctx context.Context, key Key, value string) error {
	if err := s.client.Set(ctx, redisKey(key), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to write key %d: %w", key, err)
	}
	return nil
}

// Close closes the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

var _ KV = (*RedisStore)(nil)
