// Package ban locks out login targets after repeated failed attempts.
package ban

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rogerio-castellano/invoice-pricelist/internal/obs"
	"github.com/rogerio-castellano/invoice-pricelist/internal/redissvc"
)

const (
	DefaultMaxStrikes = 5
	DefaultWindow     = 15 * time.Minute
	DefaultBanFor     = 15 * time.Minute

	strikesKeyPrefix = "ratelimit:strikes:"
	banKeyPrefix     = "ratelimit:ban:"
	BanLogKey        = "ratelimit:banlog"
	banLogSize       = 1000
)

// Tracker counts failures per target (an email or an IP).
type Tracker interface {
	IsBanned(ctx context.Context, target string) (bool, error)
	// RecordFailure adds a strike and reports whether the target is now banned.
	RecordFailure(ctx context.Context, target, route string) (bool, error)
	Reset(ctx context.Context, target string) error
	// RecentBans returns the ban log, oldest first.
	RecentBans(ctx context.Context) ([]LogEntry, error)
}

type Policy struct {
	MaxStrikes int
	Window     time.Duration
	BanFor     time.Duration
}

func (p Policy) withDefaults() Policy {
	if p.MaxStrikes <= 0 {
		p.MaxStrikes = DefaultMaxStrikes
	}
	if p.Window <= 0 {
		p.Window = DefaultWindow
	}
	if p.BanFor <= 0 {
		p.BanFor = DefaultBanFor
	}
	return p
}

type LogEntry struct {
	Target  string    `json:"target"`
	Route   string    `json:"route"`
	Strikes int       `json:"strikes"`
	Time    time.Time `json:"time"`
}

// RedisTracker shares strikes and bans between server instances.
type RedisTracker struct {
	rdb    *redis.Client
	policy Policy
}

func NewRedisTracker(rs *redissvc.RedisService, policy Policy) *RedisTracker {
	return &RedisTracker{rdb: rs.Rdb(), policy: policy.withDefaults()}
}

func (t *RedisTracker) IsBanned(ctx context.Context, target string) (bool, error) {
	n, err := t.rdb.Exists(ctx, banKeyPrefix+target).Result()
	if err != nil {
		return false, fmt.Errorf("check ban: %w", err)
	}
	return n > 0, nil
}

func (t *RedisTracker) RecordFailure(ctx context.Context, target, route string) (bool, error) {
	key := strikesKeyPrefix + target
	pipe := t.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, t.policy.Window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("record strike: %w", err)
	}

	strikes := int(incr.Val())
	if strikes < t.policy.MaxStrikes {
		return false, nil
	}

	if err := t.rdb.Set(ctx, banKeyPrefix+target, strikes, t.policy.BanFor).Err(); err != nil {
		return false, fmt.Errorf("set ban: %w", err)
	}
	_ = t.rdb.Del(ctx, key).Err()
	t.logBan(ctx, LogEntry{Target: target, Route: route, Strikes: strikes, Time: time.Now().UTC()})
	return true, nil
}

func (t *RedisTracker) logBan(ctx context.Context, entry LogEntry) {
	obs.Logger.Warn("login target banned", "target", entry.Target, "route", entry.Route, "strikes", entry.Strikes)
	data, _ := json.Marshal(entry)
	pipe := t.rdb.Pipeline()
	pipe.RPush(ctx, BanLogKey, data)
	pipe.LTrim(ctx, BanLogKey, -banLogSize, -1)
	if _, err := pipe.Exec(ctx); err != nil {
		obs.Logger.Error("append ban log failed", "error", err)
	}
}

func (t *RedisTracker) RecentBans(ctx context.Context) ([]LogEntry, error) {
	items, err := t.rdb.LRange(ctx, BanLogKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read ban log: %w", err)
	}
	entries := make([]LogEntry, 0, len(items))
	for _, item := range items {
		var e LogEntry
		if err := json.Unmarshal([]byte(item), &e); err == nil {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

func (t *RedisTracker) Reset(ctx context.Context, target string) error {
	return t.rdb.Del(ctx, strikesKeyPrefix+target).Err()
}

// MemoryTracker keeps strikes in process memory.
type MemoryTracker struct {
	mu      sync.Mutex
	policy  Policy
	now     func() time.Time
	strikes map[string][]time.Time
	bans    map[string]time.Time
	log     []LogEntry
}

func NewMemoryTracker(policy Policy) *MemoryTracker {
	return &MemoryTracker{
		policy:  policy.withDefaults(),
		now:     time.Now,
		strikes: map[string][]time.Time{},
		bans:    map[string]time.Time{},
	}
}

func (t *MemoryTracker) IsBanned(_ context.Context, target string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	until, ok := t.bans[target]
	if !ok {
		return false, nil
	}
	if !t.now().Before(until) {
		delete(t.bans, target)
		return false, nil
	}
	return true, nil
}

func (t *MemoryTracker) RecordFailure(_ context.Context, target, route string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	cutoff := now.Add(-t.policy.Window)
	kept := t.strikes[target][:0]
	for _, at := range t.strikes[target] {
		if at.After(cutoff) {
			kept = append(kept, at)
		}
	}
	kept = append(kept, now)

	if len(kept) < t.policy.MaxStrikes {
		t.strikes[target] = kept
		return false, nil
	}

	delete(t.strikes, target)
	t.bans[target] = now.Add(t.policy.BanFor)
	t.log = append(t.log, LogEntry{Target: target, Route: route, Strikes: len(kept), Time: now})
	obs.Logger.Warn("login target banned", "target", target, "route", route, "strikes", len(kept))
	return true, nil
}

func (t *MemoryTracker) Reset(_ context.Context, target string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.strikes, target)
	return nil
}

func (t *MemoryTracker) RecentBans(_ context.Context) ([]LogEntry, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]LogEntry(nil), t.log...), nil
}
