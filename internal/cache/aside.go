package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Aside implements the cache-aside pattern: fill dst from the cache when the
// key is present, otherwise call load (which must fill dst) and write the
// result back with the given TTL. Redis failures fall through to load; the
// cache is an optimization, never a source of truth.
func Aside(ctx context.Context, key string, dst any, ttl time.Duration, load func() error) error {
	if client != nil {
		raw, err := client.Get(ctx, key).Bytes()
		if err == nil {
			if unmarshalErr := json.Unmarshal(raw, dst); unmarshalErr == nil {
				return nil
			}
			// Undecodable entry, likely from an older record shape.
			client.Del(ctx, key)
		} else if !errors.Is(err, redis.Nil) {
			// Fall through to the loader on transport errors.
			_ = err
		}
	}

	if err := load(); err != nil {
		return err
	}

	if client != nil {
		if raw, err := json.Marshal(dst); err == nil {
			client.Set(ctx, key, raw, ttl)
		}
	}
	return nil
}

// PutJSON stores val under key with a TTL. No-op without Redis.
func PutJSON(ctx context.Context, key string, val any, ttl time.Duration) {
	if client == nil {
		return
	}
	raw, err := json.Marshal(val)
	if err != nil {
		return
	}
	client.Set(ctx, key, raw, ttl)
}

// GetJSON fills dst from key, reporting whether a decodable entry was found.
func GetJSON(ctx context.Context, key string, dst any) bool {
	if client == nil {
		return false
	}
	raw, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}
