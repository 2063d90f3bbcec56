package replay

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/LavaJover/shvark-payment-service/internal/config"
)

// RedisStore keeps replay markers as plain keys written with SET NX EX.
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
}

func NewRedisClient(cfg config.Redis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})
}

func NewRedisStore(client *redis.Client, keyPrefix string) *RedisStore {
	return &RedisStore{client: client, keyPrefix: keyPrefix}
}

func (s *RedisStore) MarkIfAbsent(ctx context.Context, transactionID string, ttl time.Duration) (bool, error) {
	created, err := s.client.SetNX(ctx, s.key(transactionID), 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis set nx: %w", err)
	}
	return created, nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) key(transactionID string) string {
	return s.keyPrefix + transactionID
}
