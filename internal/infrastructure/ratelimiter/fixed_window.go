package ratelimiter

import (
	"context"
	"sync"
	"time"
)

type window struct {
	count   int
	resetAt time.Time
}

// FixedWindow allows limit calls per key in each clock-aligned window. It
// guards expensive endpoints such as code execution, where a burst allowance
// is the wrong shape.
type FixedWindow struct {
	mu      sync.Mutex
	windows map[string]*window
	limit   int
	size    time.Duration
	done    chan struct{}
	once    sync.Once
	now     func() time.Time
}

func NewFixedWindow(limit int, size time.Duration) *FixedWindow {
	fw := &FixedWindow{
		windows: make(map[string]*window),
		limit:   limit,
		size:    size,
		done:    make(chan struct{}),
		now:     time.Now,
	}
	go fw.sweep()
	return fw
}

func (fw *FixedWindow) Allow(_ context.Context, key string) Decision {
	now := fw.now()

	fw.mu.Lock()
	defer fw.mu.Unlock()

	w, ok := fw.windows[key]
	if !ok || !now.Before(w.resetAt) {
		w = &window{resetAt: now.Truncate(fw.size).Add(fw.size)}
		fw.windows[key] = w
	}

	if w.count >= fw.limit {
		return Decision{Limit: fw.limit, RetryAfter: w.resetAt.Sub(now)}
	}

	w.count++
	return Decision{Allowed: true, Limit: fw.limit, Remaining: fw.limit - w.count}
}

func (fw *FixedWindow) sweep() {
	ticker := time.NewTicker(fw.size)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			fw.mu.Lock()
			for key, w := range fw.windows {
				if !now.Before(w.resetAt) {
					delete(fw.windows, key)
				}
			}
			fw.mu.Unlock()
		case <-fw.done:
			return
		}
	}
}

func (fw *FixedWindow) Close() {
	fw.once.Do(func() { close(fw.done) })
}
