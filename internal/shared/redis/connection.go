// Package redis connects the derivation cache and owns its key layout.
package redis

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"planets-procgen/internal/shared/config"
)

const pingTimeout = 5 * time.Second

// Connect returns a client for cfg, or nil when the cache is disabled.
func Connect(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	logger := slog.With("component", "redis", "operation", "connect")

	if !cfg.Enabled {
		logger.Info("Redis disabled, planets are derived on every request")
		return nil, nil
	}

	opts, err := options(cfg)
	if err != nil {
		logger.Error("Invalid redis configuration", "error", err)
		return nil, err
	}
	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		logger.Error("Failed to ping redis", "addr", opts.Addr, "error", err)
		if closeErr := rdb.Close(); closeErr != nil {
			logger.Error("Failed to close redis after ping failure", "close_error", closeErr)
		}
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	logger.Info("Redis connection established", "addr", opts.Addr, "db", opts.DB)
	return rdb, nil
}

// options prefers a URL and falls back to host and port.
func options(cfg config.RedisConfig) (*redis.Options, error) {
	if cfg.URL != "" {
		opts, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse redis url: %w", err)
		}
		return opts, nil
	}
	return &redis.Options{
		Addr:         net.JoinHostPort(cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	}, nil
}

// PlanetKey is the cache key of one derivation under a game's bundle.
func PlanetKey(gameID int, x, y int64) string {
	return Key("planet", gameID, x, y)
}

// Key joins parts with ':'.
func Key(parts ...any) string {
	s := make([]string, len(parts))
	for i, p := range parts {
		s[i] = fmt.Sprint(p)
	}
	return strings.Join(s, ":")
}
