package ratelimiter

import (
	"context"
	"net"
	"net/http"
	"time"
)

// DefaultSourceHeader names the header a trusted proxy may set to pick the
// bucket a request is charged to.
const DefaultSourceHeader = "X-RateLimit-Key"

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// Limiter charges one call to key.
type Limiter interface {
	Allow(ctx context.Context, key string) Decision
}

// SourceKey identifies the caller of r: the value of header when set,
// otherwise the client IP without its port.
func SourceKey(r *http.Request, header string) string {
	if header == "" {
		header = DefaultSourceHeader
	}
	if key := r.Header.Get(header); key != "" {
		return key
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
