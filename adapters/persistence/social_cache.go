package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/presssence/presssence-api/internal/domain/social"
	"github.com/presssence/presssence-api/pkg/apperror"
	"github.com/presssence/presssence-api/pkg/logger"
)

type redisSocialCache struct {
	client *redis.Client
	logger logger.Logger
}

func NewRedisSocialCache(client *redis.Client, logger logger.Logger) social.Cache {
	return &redisSocialCache{client: client, logger: logger}
}

func cacheKey(platform, identity string) string {
	return fmt.Sprintf("social:meta:%s:%s", platform, identity)
}

// Get returns (nil, nil) on a cache miss.
func (c *redisSocialCache) Get(ctx context.Context, platform, identity string) (*social.Metadata, error) {
	data, err := c.client.Get(ctx, cacheKey(platform, identity)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, apperror.NewInternal("failed to read social metadata cache", err)
	}

	var meta social.Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		c.logger.Warn("Dropping corrupt social metadata cache entry",
			zap.String("platform", platform), zap.String("identity", identity), zap.Error(err))
		return nil, nil
	}
	return &meta, nil
}

func (c *redisSocialCache) Set(ctx context.Context, meta *social.Metadata, ttl time.Duration) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return apperror.NewInternal("failed to marshal social metadata", err)
	}
	if err := c.client.Set(ctx, cacheKey(meta.Platform, meta.Identity), data, ttl).Err(); err != nil {
		return apperror.NewInternal("failed to write social metadata cache", err)
	}
	return nil
}
