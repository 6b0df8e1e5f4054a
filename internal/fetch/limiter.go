package fetch

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"golang.org/x/time/rate"
)

// HostLimiter keeps one token bucket per site so LinkedIn and Naukri are
// paced independently.
type HostLimiter struct {
	mu      sync.Mutex
	buckets map[string]*rate.Limiter
	every   rate.Limit
	burst   int
}

// NewHostLimiter allows perSecond requests per host. A non-positive rate
// disables limiting.
func NewHostLimiter(perSecond float64, burst int) *HostLimiter {
	lim := rate.Limit(perSecond)
	if perSecond <= 0 {
		lim = rate.Inf
	}
	return &HostLimiter{
		buckets: make(map[string]*rate.Limiter),
		every:   lim,
		burst:   max(burst, 1),
	}
}

func (hl *HostLimiter) bucket(host string) *rate.Limiter {
	hl.mu.Lock()
	defer hl.mu.Unlock()

	b, ok := hl.buckets[host]
	if !ok {
		b = rate.NewLimiter(hl.every, hl.burst)
		hl.buckets[host] = b
	}
	return b
}

// WaitURL blocks until the URL's host may be hit again. Unparseable URLs
// share one bucket. A nil limiter never waits.
func (hl *HostLimiter) WaitURL(ctx context.Context, raw string) error {
	if hl == nil {
		return nil
	}
	host := "_"
	if u, err := url.Parse(raw); err == nil && u.Hostname() != "" {
		host = strings.ToLower(u.Hostname())
	}
	return hl.bucket(host).Wait(ctx)
}
