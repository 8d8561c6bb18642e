package cache

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultReadSetCapacity bounds how many read-markers are kept per key before
// the oldest are evicted.
const DefaultReadSetCapacity = 200

// ReadSet is a bounded per-key set of string members with oldest-first
// eviction, backed by a Redis sorted set scored by insertion time. Without
// Redis it falls back to an in-process map with the same semantics, scoped to
// this instance.
type ReadSet struct {
	rdb      *redis.Client
	capacity int

	mu  sync.Mutex
	mem map[string]map[string]int64
}

// NewReadSet returns a ReadSet with the given capacity per key. A nil client
// selects the in-process fallback.
func NewReadSet(rdb *redis.Client, capacity int) *ReadSet {
	if capacity <= 0 {
		capacity = DefaultReadSetCapacity
	}
	return &ReadSet{
		rdb:      rdb,
		capacity: capacity,
		mem:      make(map[string]map[string]int64),
	}
}

// Add inserts members under key, evicting the oldest entries beyond capacity.
func (s *ReadSet) Add(ctx context.Context, key string, members ...string) error {
	if len(members) == 0 {
		return nil
	}
	if s.rdb == nil {
		s.addMem(key, members)
		return nil
	}

	now := time.Now()
	zs := make([]redis.Z, len(members))
	for i, m := range members {
		// Nanosecond scores keep insertion order distinct within one call.
		zs[i] = redis.Z{Score: float64(now.UnixNano() + int64(i)), Member: m}
	}
	pipe := s.rdb.TxPipeline()
	pipe.ZAdd(ctx, key, zs...)
	pipe.ZRemRangeByRank(ctx, key, 0, int64(-(s.capacity + 1)))
	_, err := pipe.Exec(ctx)
	return err
}

// Members returns every member currently recorded under key, oldest first.
func (s *ReadSet) Members(ctx context.Context, key string) ([]string, error) {
	if s.rdb == nil {
		return s.membersMem(key), nil
	}
	return s.rdb.ZRange(ctx, key, 0, -1).Result()
}

// Contains reports whether member is recorded under key.
func (s *ReadSet) Contains(ctx context.Context, key, member string) (bool, error) {
	if s.rdb == nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		_, ok := s.mem[key][member]
		return ok, nil
	}
	err := s.rdb.ZScore(ctx, key, member).Err()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *ReadSet) addMem(key string, members []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set := s.mem[key]
	if set == nil {
		set = make(map[string]int64)
		s.mem[key] = set
	}
	now := time.Now().UnixNano()
	for i, m := range members {
		set[m] = now + int64(i)
	}
	for len(set) > s.capacity {
		oldest := ""
		var oldestAt int64
		for m, at := range set {
			if oldest == "" || at < oldestAt {
				oldest, oldestAt = m, at
			}
		}
		delete(set, oldest)
	}
}

func (s *ReadSet) membersMem(key string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	set := s.mem[key]
	out := make([]string, 0, len(set))
	for m := range set {
		out = append(out, m)
	}
	return out
}
