package config

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// NewRedisClient returns nil when Redis is not configured or not reachable;
// callers then fall back to the in-process cache.
func NewRedisClient(ctx context.Context, cfg *Config) *redis.Client {
	var opt *redis.Options
	switch {
	case cfg.RedisURL != "":
		parsed, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to parse Redis URL, running with in-process cache")
			return nil
		}
		opt = parsed
	case cfg.RedisAddr != "":
		opt = &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		}
	default:
		log.Info().Msg("Redis not configured, running with in-process cache")
		return nil
	}

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Warn().Err(err).Msg("Redis connection failed, running with in-process cache")
		_ = client.Close()
		return nil
	}

	log.Info().Str("addr", opt.Addr).Msg("Redis connected")
	return client
}
