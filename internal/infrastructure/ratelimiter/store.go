package ratelimiter

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrCacheMiss = errors.New("cache miss")

// Bucket is the saved state of one token bucket.
type Bucket struct {
	Tokens   float64
	LastFill time.Time
}

// Store keeps buckets between calls. A saved bucket expires after ttl
// without a new Save.
type Store interface {
	Load(ctx context.Context, key string) (Bucket, error)
	Save(ctx context.Context, key string, b Bucket, ttl time.Duration) error
	Close() error
}

type memoryEntry struct {
	bucket    Bucket
	expiresAt time.Time
}

// Memory is a process-local Store.
type Memory struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	stop    chan struct{}
	once    sync.Once
}

func NewMemory() *Memory {
	m := &Memory{
		entries: make(map[string]memoryEntry),
		stop:    make(chan struct{}),
	}
	go m.sweep(time.Minute)
	return m
}

func (m *Memory) Load(_ context.Context, key string) (Bucket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok || e.expired(time.Now()) {
		return Bucket{}, ErrCacheMiss
	}
	return e.bucket, nil
}

func (m *Memory) Save(_ context.Context, key string, b Bucket, ttl time.Duration) error {
	e := memoryEntry{bucket: b}
	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}

	m.mu.Lock()
	m.entries[key] = e
	m.mu.Unlock()
	return nil
}

func (m *Memory) Close() error {
	m.once.Do(func() { close(m.stop) })
	return nil
}

func (m *Memory) sweep(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			m.mu.Lock()
			for key, e := range m.entries {
				if e.expired(now) {
					delete(m.entries, key)
				}
			}
			m.mu.Unlock()
		case <-m.stop:
			return
		}
	}
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}
