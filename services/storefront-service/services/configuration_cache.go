package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/caseforge/storefront/services/storefront-service/models"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	ConfigurationCachePrefix = "configuration:"
	DefaultCacheTTL          = 10 * time.Minute
)

// ConfigurationCache is a read-through cache for configurations. Cache
// failures never fail the request; they degrade to a miss.
type ConfigurationCache interface {
	Get(ctx context.Context, id string) (*models.Configuration, bool)
	Set(ctx context.Context, cfg *models.Configuration)
	Delete(ctx context.Context, id string)
}

type RedisConfigurationCache struct {
	redis  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedisConfigurationCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisConfigurationCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &RedisConfigurationCache{redis: client, ttl: ttl, logger: logger}
}

func (c *RedisConfigurationCache) Get(ctx context.Context, id string) (*models.Configuration, bool) {
	data, err := c.redis.Get(ctx, ConfigurationCachePrefix+id).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("Configuration cache read failed", zap.String("configuration_id", id), zap.Error(err))
		}
		return nil, false
	}

	var cfg models.Configuration
	if err := json.Unmarshal(data, &cfg); err != nil {
		c.logger.Warn("Failed to unmarshal cached configuration", zap.String("configuration_id", id), zap.Error(err))
		return nil, false
	}
	return &cfg, true
}

func (c *RedisConfigurationCache) Set(ctx context.Context, cfg *models.Configuration) {
	data, err := json.Marshal(cfg)
	if err != nil {
		c.logger.Warn("Failed to marshal configuration for cache", zap.String("configuration_id", cfg.ID), zap.Error(err))
		return
	}
	if err := c.redis.Set(ctx, ConfigurationCachePrefix+cfg.ID, data, c.ttl).Err(); err != nil {
		c.logger.Warn("Failed to cache configuration", zap.String("configuration_id", cfg.ID), zap.Error(err))
	}
}

func (c *RedisConfigurationCache) Delete(ctx context.Context, id string) {
	if err := c.redis.Del(ctx, ConfigurationCachePrefix+id).Err(); err != nil {
		c.logger.Warn("Failed to delete cached configuration", zap.String("configuration_id", id), zap.Error(err))
	}
}
