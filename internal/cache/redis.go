package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/pmoroz/filmrate/internal/config"
	"github.com/redis/go-redis/v9"
)

// likeCountTTL bounds staleness of the per-film like counters; the DB
// stays the source of truth and repopulates expired keys on read.
const likeCountTTL = time.Hour

type RedisCache struct {
	Client *redis.Client
}

// NewRedisCache initializes Redis client from config.
// Only Addr is mandatory, Password/DB are optional.
func NewRedisCache(cfg *config.Config) *RedisCache {
	opts := &redis.Options{
		Addr: cfg.Redis.Addr,
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}
	return &RedisCache{Client: redis.NewClient(opts)}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return c.Client.Set(ctx, key, value, ttl).Err()
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	return c.Client.Get(ctx, key).Result()
}

func (c *RedisCache) Del(ctx context.Context, key string) error {
	return c.Client.Del(ctx, key).Err()
}

// KeyForFilmLikes generates the Redis key for a film's like count.
func (c *RedisCache) KeyForFilmLikes(filmID uint64) string {
	return fmt.Sprintf("likes:film:%d", filmID)
}

// IncrFilmLikes bumps a film's cached like count and refreshes its TTL.
// delta is +1 on like, -1 on unlike. An absent key is left absent so
// the next read repopulates it from the DB instead of counting from
// zero.
func (c *RedisCache) IncrFilmLikes(ctx context.Context, filmID uint64, delta int64) error {
	key := c.KeyForFilmLikes(filmID)
	n, err := c.Client.Exists(ctx, key).Result()
	if err != nil || n == 0 {
		return err
	}
	if err := c.Client.IncrBy(ctx, key, delta).Err(); err != nil {
		return err
	}
	return c.Client.Expire(ctx, key, likeCountTTL).Err()
}

// SetFilmLikes overwrites the cached like count with a fresh DB value.
func (c *RedisCache) SetFilmLikes(ctx context.Context, filmID uint64, count int64) error {
	return c.Client.Set(ctx, c.KeyForFilmLikes(filmID), count, likeCountTTL).Err()
}

// GetFilmLikes returns the cached like count for a film.
// The second return is false on a cache miss.
func (c *RedisCache) GetFilmLikes(ctx context.Context, filmID uint64) (int64, bool, error) {
	key := c.KeyForFilmLikes(filmID)
	val, err := c.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil // cache miss
	} else if err != nil {
		return 0, false, err
	}
	// refresh TTL on access
	_ = c.Client.Expire(ctx, key, likeCountTTL).Err()
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, nil // treat garbage as a miss
	}
	return n, true, nil
}
