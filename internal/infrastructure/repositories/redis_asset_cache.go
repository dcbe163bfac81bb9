package repositories

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	domainrepos "fitting-room/internal/domain/repositories"
	"fitting-room/internal/domain/valueobjects"
)

const assetKeyPrefix = "fitting-room:asset:"

type RedisOptions struct {
	Addr     string
	Username string
	Password string
	UseTLS   bool
}

// ConnectRedis opens a client and verifies it with a ping.
func ConnectRedis(ctx context.Context, opts RedisOptions) (*redis.Client, error) {
	var tlsConfig *tls.Config
	if opts.UseTLS {
		tlsConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Username:     opts.Username,
		Password:     opts.Password,
		TLSConfig:    tlsConfig,
		DialTimeout:  10 * time.Second,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", opts.Addr, err)
	}

	log.Ctx(ctx).Info().Str("addr", opts.Addr).Msg("redis connected")
	return rdb, nil
}

// RedisAssetCache stores garment images as a hash of mime type and bytes.
type RedisAssetCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisAssetCache(client redis.Cmdable, ttl time.Duration) *RedisAssetCache {
	return &RedisAssetCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *RedisAssetCache) Get(ctx context.Context, key string) (*valueobjects.ImagePayload, error) {
	fields, err := c.client.HGetAll(ctx, assetKeyPrefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domainrepos.ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}

	data, ok := fields["data"]
	if !ok || data == "" {
		return nil, domainrepos.ErrCacheMiss
	}

	return valueobjects.NewImagePayload([]byte(data), fields["mime"])
}

func (c *RedisAssetCache) Set(ctx context.Context, key string, image *valueobjects.ImagePayload) error {
	redisKey := assetKeyPrefix + key

	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, redisKey, "mime", image.MimeType(), "data", image.Data())
		if c.ttl > 0 {
			pipe.Expire(ctx, redisKey, c.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}
