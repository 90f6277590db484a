package auth

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// emailLimiter throttles code requests per address. An address idle long
// enough for its bucket to refill is dropped, since a fresh limiter behaves
// the same.
type emailLimiter struct {
	mu       sync.Mutex
	every    time.Duration
	burst    int
	idle     time.Duration
	swept    time.Time
	limiters map[string]*limiterEntry
}

type limiterEntry struct {
	lim  *rate.Limiter
	seen time.Time
}

func newEmailLimiter(every time.Duration, burst int) *emailLimiter {
	return &emailLimiter{
		every:    every,
		burst:    burst,
		idle:     every * time.Duration(burst),
		limiters: map[string]*limiterEntry{},
	}
}

func (l *emailLimiter) allow(email string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.swept) >= l.idle {
		l.sweep(now)
	}
	e, ok := l.limiters[email]
	if !ok {
		e = &limiterEntry{lim: rate.NewLimiter(rate.Every(l.every), l.burst)}
		l.limiters[email] = e
	}
	e.seen = now
	return e.lim.AllowN(now, 1)
}

func (l *emailLimiter) sweep(now time.Time) {
	for email, e := range l.limiters {
		if now.Sub(e.seen) >= l.idle {
			delete(l.limiters, email)
		}
	}
	l.swept = now
}

func (l *emailLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}
