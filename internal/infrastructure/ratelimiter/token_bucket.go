package ratelimiter

import (
	"context"
	"math"
	"sync"
	"time"
)

const bucketKeyPrefix = "rl:bucket:"

type Options struct {
	MaxRatePerSecond int
	MaxBurst         int
	Store            Store
	TTL              time.Duration
}

// TokenBucket refills MaxRatePerSecond tokens per second up to MaxBurst.
// When the store fails the bucket is treated as full.
type TokenBucket struct {
	rate  float64
	burst int
	store Store
	ttl   time.Duration
	// per-key locks; Redis-backed state is still only atomic per process
	locks sync.Map // map[string]*sync.Mutex
	now   func() time.Time
}

func New(opts Options) *TokenBucket {
	if opts.Store == nil {
		opts.Store = NewMemory()
	}
	if opts.TTL <= 0 {
		opts.TTL = 10 * time.Second
	}
	if opts.MaxBurst <= 0 {
		opts.MaxBurst = max(1, opts.MaxRatePerSecond)
	}

	return &TokenBucket{
		rate:  float64(opts.MaxRatePerSecond),
		burst: opts.MaxBurst,
		store: opts.Store,
		ttl:   opts.TTL,
		now:   time.Now,
	}
}

func (tb *TokenBucket) Allow(ctx context.Context, key string) Decision {
	lock, _ := tb.locks.LoadOrStore(key, &sync.Mutex{})
	mu := lock.(*sync.Mutex)
	mu.Lock()
	defer mu.Unlock()

	now := tb.now()
	storeKey := bucketKeyPrefix + key

	b, err := tb.store.Load(ctx, storeKey)
	if err != nil {
		b = Bucket{Tokens: float64(tb.burst), LastFill: now}
	}
	b = tb.refill(b, now)

	d := Decision{Limit: tb.burst}
	if b.Tokens >= 1 {
		b.Tokens--
		d.Allowed = true
	} else if tb.rate > 0 {
		d.RetryAfter = time.Duration((1 - b.Tokens) / tb.rate * float64(time.Second))
	}
	d.Remaining = int(b.Tokens)

	_ = tb.store.Save(ctx, storeKey, b, tb.ttl)
	return d
}

func (tb *TokenBucket) refill(b Bucket, now time.Time) Bucket {
	elapsed := now.Sub(b.LastFill).Seconds()
	if elapsed <= 0 {
		return b
	}

	b.Tokens = math.Min(float64(tb.burst), b.Tokens+elapsed*tb.rate)
	b.LastFill = now
	return b
}

func (tb *TokenBucket) Close() error {
	return tb.store.Close()
}
