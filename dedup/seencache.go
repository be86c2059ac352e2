package dedup

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"tandoorimport/config"
)

// SeenCacheConfig configures the Redis connection and key for the cross-run
// seen-URL cache.
type SeenCacheConfig struct {
	Addr     string // e.g. localhost:6379
	Password string
	DB       int
	Key      string // redis set holding canonical URLs
	TTL      time.Duration
}

// SeenCache remembers the canonical URLs of recipes imported by previous
// runs. The per-run index fetched from the destination is bounded (max
// recipes, wall-clock timeout) and can miss older records; the cache closes
// that gap without another network round trip per URL. It is an optimization
// only — when Redis is absent the importer runs identically, just without
// the extra pre-filter.
type SeenCache struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

/// NewSeenCacheFromEnv creates a SeenCache from environment variables:
// REDIS_ADDR, REDIS_PASS, REDIS_DB (optional), SEEN_CACHE_KEY (optional),
// SEEN_CACHE_TTL_SECONDS (optional).
func NewSeenCacheFromEnv() (*SeenCache, error) {
	addr := config.GetEnvOrDefault("REDIS_ADDR", "localhost:6379")
	pass := os.Getenv("REDIS_PASS")
	db := 0
	if d := os.Getenv("REDIS_DB"); d != "" {
		if v, err := strconv.Atoi(d); err == nil {
			db = v
		}
	}
	key := config.GetEnvOrDefault("SEEN_CACHE_KEY", "recipes:seen")
	ttl := 30 * 24 * time.Hour
	if t := os.Getenv("SEEN_CACHE_TTL_SECONDS"); t != "" {
		if secs, err := strconv.Atoi(t); err == nil && secs > 0 {
			ttl = time.Duration(secs) * time.Second
		}
	}

	return NewSeenCache(SeenCacheConfig{Addr: addr, Password: pass, DB: db, Key: key, TTL: ttl})
}

// NewSeenCache connects to Redis and verifies connectivity.
func NewSeenCache(cfg SeenCacheConfig) (*SeenCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	return &SeenCache{client: client, key: cfg.Key, ttl: cfg.TTL}, nil
}

// Close closes the underlying Redis client.
func (s *SeenCache) Close() error {
	return s.client.Close()
}

// Seen reports whether the canonical URL was imported by an earlier run.
func (s *SeenCache) Seen(ctx context.Context, canonicalURL string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return s.client.SIsMember(ctx, s.key, canonicalURL).Result()
}

// Mark records a canonical URL as imported and refreshes the key's TTL so
// the set stays alive for ttl after the most recent import.
func (s *SeenCache) Mark(ctx context.Context, canonicalURL string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.client.SAdd(ctx, s.key, canonicalURL).Err(); err != nil {
		return err
	}
	return s.client.Expire(ctx, s.key, s.ttl).Err()
}
