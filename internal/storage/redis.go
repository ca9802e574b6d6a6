package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// saveTTL bounds how long an abandoned session's save lingers.
const saveTTL = 30 * 24 * time.Hour

// RedisStorage keeps save snapshots in Redis, one key per session.
type RedisStorage struct {
	client *redis.Client
	logger *slog.Logger
}

var _ Storage = (*RedisStorage)(nil)

// NewRedisStorage creates a Redis storage instance from a redis:// URL.
func NewRedisStorage(redisURL string, logger *slog.Logger) (*RedisStorage, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	return &RedisStorage{
		client: redis.NewClient(opts),
		logger: logger,
	}, nil
}

func saveKey(id uuid.UUID) string {
	return "save:" + id.String()
}

func (r *RedisStorage) SaveState(ctx context.Context, id uuid.UUID, snapshot string) error {
	if err := r.client.Set(ctx, saveKey(id), snapshot, saveTTL).Err(); err != nil {
		r.logger.Error("Failed to save state", "uuid", id, "error", err)
		return fmt.Errorf("failed to save state: %w", err)
	}
	return nil
}

func (r *RedisStorage) LoadState(ctx context.Context, id uuid.UUID) (string, error) {
	val, err := r.client.Get(ctx, saveKey(id)).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil
		}
		r.logger.Error("Failed to load state", "uuid", id, "error", err)
		return "", fmt.Errorf("failed to load state: %w", err)
	}
	return val, nil
}

func (r *RedisStorage) DeleteState(ctx context.Context, id uuid.UUID) error {
	if err := r.client.Del(ctx, saveKey(id)).Err(); err != nil {
		r.logger.Error("Failed to delete state", "uuid", id, "error", err)
		return fmt.Errorf("failed to delete state: %w", err)
	}
	return nil
}

func (r *RedisStorage) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStorage) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	return nil
}
