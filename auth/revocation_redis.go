package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "albumate:revoked:"

// RedisRevocationStore shares revocations between server instances and restarts
type RedisRevocationStore struct {
	client *redis.Client
}

func NewRedisRevocationStore(ctx context.Context, addr, password string, db int) (*RedisRevocationStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return &RedisRevocationStore{client: client}, nil
}

func (s *RedisRevocationStore) Revoke(ctx context.Context, id string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, revokedKeyPrefix+id, 1, ttl).Err()
}

func (s *RedisRevocationStore) IsRevoked(ctx context.Context, id string) (bool, error) {
	n, err := s.client.Exists(ctx, revokedKeyPrefix+id).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *RedisRevocationStore) Close() error {
	return s.client.Close()
}
