package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/chat-service/internal/config"
)

// ErrRedisNotConfigured is returned by Ping when REDIS_ADDR was left empty.
var ErrRedisNotConfigured = errors.New("redis client not configured")

const (
	redisDialTimeout = 5 * time.Second
	redisIOTimeout   = 3 * time.Second
)

// Redis wraps the go-redis client backing the pending registration store.
type Redis struct {
	Client *redis.Client
}

// NewRedis connects to Redis. An empty Addr returns a disabled wrapper and no
// error. When required is set an unreachable server is fatal; otherwise it
// is logged and the client keeps retrying on use.
func NewRedis(ctx context.Context, cfg config.RedisConfig, required bool, logger *zap.Logger) (*Redis, error) {
	if cfg.Addr == "" {
		if required {
			return nil, errors.New("redis address is empty")
		}
		logger.Info("REDIS_ADDR not provided; redis disabled")
		return &Redis{}, nil
	}

	client := redis.NewClient(redisOptions(cfg))
	if err := client.Ping(ctx).Err(); err != nil {
		if required {
			_ = client.Close()
			return nil, fmt.Errorf("ping redis %s: %w", cfg.Addr, err)
		}
		logger.Warn("unable to reach redis", zap.String("addr", cfg.Addr), zap.Error(err))
	} else {
		logger.Info("connected to redis", zap.String("addr", cfg.Addr), zap.Int("db", cfg.DB))
	}
	return &Redis{Client: client}, nil
}

func redisOptions(cfg config.RedisConfig) *redis.Options {
	return &redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  redisDialTimeout,
		ReadTimeout:  redisIOTimeout,
		WriteTimeout: redisIOTimeout,
	}
}

// Enabled reports whether a client was configured.
func (r *Redis) Enabled() bool {
	return r != nil && r.Client != nil
}

func (r *Redis) Close() {
	if r.Enabled() {
		_ = r.Client.Close()
	}
}

// Ping backs the readiness probe.
func (r *Redis) Ping(ctx context.Context) error {
	if !r.Enabled() {
		return ErrRedisNotConfigured
	}
	return r.Client.Ping(ctx).Err()
}
