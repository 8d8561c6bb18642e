package cache

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cooldown is a per-key timestamp throttle: Allow reports true at most once
// per window for a given key. Backed by SET NX EX; without Redis it keeps an
// in-process timestamp map, which throttles per instance only.
type Cooldown struct {
	rdb *redis.Client

	mu  sync.Mutex
	mem map[string]time.Time
}

// NewCooldown returns a Cooldown. A nil client selects the in-process
// fallback.
func NewCooldown(rdb *redis.Client) *Cooldown {
	return &Cooldown{rdb: rdb, mem: make(map[string]time.Time)}
}

// Allow reports whether key is outside its cooldown window, and if so starts a
// new window.
func (c *Cooldown) Allow(ctx context.Context, key string, window time.Duration) (bool, error) {
	if c.rdb == nil {
		return c.allowMem(key, window), nil
	}
	return c.rdb.SetNX(ctx, key, 1, window).Result()
}

func (c *Cooldown) allowMem(key string, window time.Duration) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	if at, ok := c.mem[key]; ok && now.Sub(at) < window {
		return false
	}
	c.mem[key] = now
	return true
}
