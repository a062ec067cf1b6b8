package adaptors

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"seo_auditor/internal/pkg/errors"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const redisKeyPrefix = "seo_auditor:markup:"

type RedisCacheConfig struct {
	// URL is the Redis connection string (e.g. "redis://localhost:6379/0").
	URL            string
	ConnectTimeout time.Duration
}

// RedisCache keeps fetched markup so repeated audits of the same site do not
// hit every page again.
type RedisCache struct {
	client *redis.Client
	log    *log.Logger
}

func NewRedisCache(ctx context.Context, cfg RedisCacheConfig, log *log.Logger) (*RedisCache, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, errors.Wrap(err, `failed to parse redis url`)
	}
	if cfg.ConnectTimeout > 0 {
		opts.DialTimeout = cfg.ConnectTimeout
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, opts.DialTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, `failed to connect to redis`)
	}

	return &RedisCache{client: client, log: log}, nil
}

func (c *RedisCache) Get(ctx context.Context, url string) (string, bool, error) {
	markup, err := c.client.Get(ctx, cacheKey(url)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrap(err, `failed to read cached markup`)
	}
	return markup, true, nil
}

func (c *RedisCache) Set(ctx context.Context, url string, markup string, ttl time.Duration) error {
	if err := c.client.Set(ctx, cacheKey(url), markup, ttl).Err(); err != nil {
		return errors.Wrap(err, `failed to cache markup`)
	}
	return nil
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func cacheKey(url string) string {
	sum := sha256.Sum256([]byte(url))
	return redisKeyPrefix + hex.EncodeToString(sum[:])
}
