package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"gopkg.in/yaml.v3"
)

const redisKeyPrefix = "gitpaper:identity:"

// RedisStore keeps entries in Redis with a native expiry, which lets a team
// share one identity cache across CI runners.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to url (redis://host:port/db) and pings it.
func NewRedisStore(ctx context.Context, url string, ttl time.Duration) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	return NewRedisStoreWithClient(client, ttl), nil
}

// NewRedisStoreWithClient wraps an existing client.
func NewRedisStoreWithClient(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// Get implements Store.
func (s *RedisStore) Get(ctx context.Context, key string) (Entry, bool, error) {
	data, err := s.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, err
	}
	var e Entry
	if err := yaml.Unmarshal(data, &e); err != nil {
		return Entry{}, false, fmt.Errorf("decoding cached identity: %w", err)
	}
	return e, true, nil
}

// Set implements Store.
func (s *RedisStore) Set(ctx context.Context, key string, entry Entry) error {
	data, err := yaml.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encoding cached identity: %w", err)
	}
	return s.client.Set(ctx, redisKeyPrefix+key, data, s.ttl).Err()
}

// Close implements Store.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
