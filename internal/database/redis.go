package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/EgehanKilicarslan/blog/backend-go/internal/config"
	"github.com/EgehanKilicarslan/blog/backend-go/internal/database/models"
)

// RedisClient wraps the redis client with helper methods for post caching
type RedisClient struct {
	client *redis.Client
	logger *slog.Logger
	cfg    *config.Config
}

// NewRedisClient creates a new Redis client instance
func NewRedisClient(cfg *config.Config, logger *slog.Logger) (*RedisClient, error) {
	logger.Info("🔌 [Redis] Connecting to Redis...",
		"host", cfg.RedisHost,
		"port", cfg.RedisPort,
		"db", cfg.RedisDatabase,
	)

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.RedisPassword,
		DB:       int(cfg.RedisDatabase),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("✅ [Redis] Redis connection established")

	return &RedisClient{
		client: client,
		logger: logger,
		cfg:    cfg,
	}, nil
}

// NewRedisClientForTesting creates a Redis client with a provided redis.Client (for testing)
func NewRedisClientForTesting(client *redis.Client, cfg *config.Config, logger *slog.Logger) *RedisClient {
	return &RedisClient{
		client: client,
		logger: logger,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (r *RedisClient) Close() error {
	return r.client.Close()
}

// GetClient returns the underlying Redis client. The rate limiter shares it.
func (r *RedisClient) GetClient() *redis.Client {
	return r.client
}

func postKey(id uint) string {
	return fmt.Sprintf("post:%d", id)
}

// GetPost returns the cached post or nil when the key is absent.
func (r *RedisClient) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	data, err := r.client.Get(ctx, postKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		r.logger.Error("❌ [Redis] Failed to get cached post",
			"post_id", id,
			"error", err,
		)
		return nil, err
	}

	var post models.Post
	if err := json.Unmarshal(data, &post); err != nil {
		r.logger.Warn("⚠️ [Redis] Failed to unmarshal cached post, dropping it",
			"post_id", id,
			"error", err,
		)
		_ = r.client.Del(ctx, postKey(id)).Err()
		return nil, nil
	}

	r.logger.Debug("📖 [Redis] Cache hit", "post_id", id)
	return &post, nil
}

// SetPost stores the post with the configured TTL.
func (r *RedisClient) SetPost(ctx context.Context, post *models.Post) error {
	data, err := json.Marshal(post)
	if err != nil {
		return err
	}

	ttl := time.Duration(r.cfg.PostCacheTTL) * time.Second
	if err := r.client.Set(ctx, postKey(post.ID), data, ttl).Err(); err != nil {
		r.logger.Error("❌ [Redis] Failed to cache post",
			"post_id", post.ID,
			"error", err,
		)
		return err
	}

	r.logger.Debug("💾 [Redis] Cached post", "post_id", post.ID, "ttl", ttl)
	return nil
}

// InvalidatePost removes a post from the cache.
func (r *RedisClient) InvalidatePost(ctx context.Context, id uint) error {
	if err := r.client.Del(ctx, postKey(id)).Err(); err != nil {
		r.logger.Error("❌ [Redis] Failed to invalidate post",
			"post_id", id,
			"error", err,
		)
		return err
	}

	r.logger.Debug("🗑️ [Redis] Invalidated post", "post_id", id)
	return nil
}

// NoOpPostCache is used when Redis is not available. Every read misses.
type NoOpPostCache struct{}

func (NoOpPostCache) GetPost(ctx context.Context, id uint) (*models.Post, error) { return nil, nil }
func (NoOpPostCache) SetPost(ctx context.Context, post *models.Post) error         { return nil }
func (NoOpPostCache) InvalidatePost(ctx context.Context, id uint) error            { return nil }
