package ratelimiter

import (
	"context"
	"fmt"
	"strconv"
	"time"

	redis "github.com/redis/go-redis/v9"
)

const (
	redisTimeout = 200 * time.Millisecond

	fieldTokens = "tokens"
	fieldFill   = "fill"
)

// Redis keeps buckets in Redis hashes so several server processes share
// one limit.
type Redis struct {
	rdb *redis.Client
}

func NewRedis(rdb *redis.Client) *Redis {
	return &Redis{rdb: rdb}
}

func (r *Redis) Load(ctx context.Context, key string) (Bucket, error) {
	ctx, cancel := context.WithTimeout(ctx, redisTimeout)
	defer cancel()

	vals, err := r.rdb.HMGet(ctx, key, fieldTokens, fieldFill).Result()
	if err != nil {
		return Bucket{}, err
	}

	tokens, okTokens := vals[0].(string)
	fill, okFill := vals[1].(string)
	if !okTokens || !okFill {
		return Bucket{}, ErrCacheMiss
	}

	t, err := strconv.ParseFloat(tokens, 64)
	if err != nil {
		return Bucket{}, fmt.Errorf("bucket %s: %w", key, err)
	}
	ms, err := strconv.ParseInt(fill, 10, 64)
	if err != nil {
		return Bucket{}, fmt.Errorf("bucket %s: %w", key, err)
	}

	return Bucket{Tokens: t, LastFill: time.UnixMilli(ms)}, nil
}

func (r *Redis) Save(ctx context.Context, key string, b Bucket, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, redisTimeout)
	defer cancel()

	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, fieldTokens, b.Tokens, fieldFill, b.LastFill.UnixMilli())
		if ttl > 0 {
			pipe.Expire(ctx, key, ttl)
		}
		return nil
	})
	return err
}

// Ping reports whether the server is reachable.
func (r *Redis) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	return r.rdb.Close()
}
