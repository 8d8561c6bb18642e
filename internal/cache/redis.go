// Package cache provides the Redis-backed pieces of the catalog: cache-aside
// reads for shows and banners, the view-count throttle, the search snapshot,
// and the notification read-set. Every helper degrades to a no-op or an
// in-process fallback when Redis is unavailable; the site stays up without it.
package cache

import (
	"context"
	"errors"
	"strings"
	"time"

	"hikari/internal/middleware"

	"github.com/redis/go-redis/v9"
)

var client *redis.Client

// metricsHook counts command failures so a flapping Redis shows up on the
// dashboard instead of only as slower catalog pages.
type metricsHook struct{}

func (h metricsHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (h metricsHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		if err != nil && !errors.Is(err, redis.Nil) {
			middleware.RedisErrors.WithLabelValues(cmd.Name()).Inc()
		}
		return err
	}
}

func (h metricsHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		err := next(ctx, cmds)
		if err != nil && !errors.Is(err, redis.Nil) {
			middleware.RedisErrors.WithLabelValues("pipeline").Inc()
		}
		return err
	}
}

// InitRedis connects the package client. addr is either a bare host:port or a
// redis:// URL. Any failure leaves the client nil and the helpers in
// fallback mode rather than stopping startup.
func InitRedis(addr string) {
	opts, err := parseAddr(addr)
	if err != nil {
		middleware.Logger.Warn("redis disabled", "addr", addr, "error", err)
		client = nil
		return
	}

	c := redis.NewClient(opts)
	c.AddHook(metricsHook{})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.Ping(ctx).Err(); err != nil {
		middleware.Logger.Warn("redis unreachable, running without it", "addr", opts.Addr, "error", err)
		client = nil
		return
	}

	client = c
	middleware.Logger.Info("redis connected", "addr", opts.Addr)
}

func parseAddr(addr string) (*redis.Options, error) {
	if strings.Contains(addr, "://") {
		return redis.ParseURL(addr)
	}
	return &redis.Options{Addr: addr}, nil
}

// GetClient returns the connected client, or nil when Redis is down or was
// never configured. Callers treat nil as "skip the cache".
func GetClient() *redis.Client {
	return client
}
