package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func NewRedisClient(cfg RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
}

// Redis shares cached lists between instances. Errors are logged and treated
// as misses.
type Redis struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedis(rdb *redis.Client, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	return &Redis{rdb: rdb, ttl: ttl}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	b, err := r.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Default().WarnContext(ctx, "cache get failed", "key", key, "err", err)
		}
		return nil, false
	}
	return b, true
}

func (r *Redis) Set(ctx context.Context, key string, val []byte) {
	if err := r.rdb.Set(ctx, key, val, r.ttl).Err(); err != nil {
		slog.Default().WarnContext(ctx, "cache set failed", "key", key, "err", err)
	}
}

// genKey sits outside prefix so the scan below never deletes it.
func genKey(prefix string) string {
	return "gen:" + prefix
}

func (r *Redis) Generation(ctx context.Context, prefix string) (uint64, bool) {
	n, err := r.rdb.Get(ctx, genKey(prefix)).Uint64()
	switch {
	case errors.Is(err, redis.Nil):
		return 0, true
	case err != nil:
		slog.Default().WarnContext(ctx, "cache generation read failed", "prefix", prefix, "err", err)
		return 0, false
	}
	return n, true
}

func (r *Redis) DeletePrefix(ctx context.Context, prefix string) {
	// bump first, entries written from here on under the old generation are
	// never read
	if err := r.rdb.Incr(ctx, genKey(prefix)).Err(); err != nil {
		slog.Default().WarnContext(ctx, "cache generation bump failed", "prefix", prefix, "err", err)
	}

	iter := r.rdb.Scan(ctx, 0, prefix+"*", 100).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		slog.Default().WarnContext(ctx, "cache scan failed", "prefix", prefix, "err", err)
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := r.rdb.Del(ctx, keys...).Err(); err != nil {
		slog.Default().WarnContext(ctx, "cache invalidate failed", "prefix", prefix, "err", err)
	}
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	return r.rdb.Close()
}
