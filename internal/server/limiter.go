package server

import (
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// limiterTTL is how long an idle client keeps its bucket.
const limiterTTL = 10 * time.Minute

type limiterEntry struct {
	l        *rate.Limiter
	lastSeen time.Time
}

// limiterPool is a per-client token-bucket pool. Idle entries are swept
// inline on access, so the pool runs no goroutine of its own.
type limiterPool struct {
	mu        sync.Mutex
	m         map[string]*limiterEntry
	rps       rate.Limit
	burst     int
	lastSweep time.Time
	now       func() time.Time
}

func newLimiterPool(rps float64, burst int) *limiterPool {
	if burst <= 0 {
		burst = int(math.Ceil(rps))
	}
	return &limiterPool{
		m:     make(map[string]*limiterEntry),
		rps:   rate.Limit(rps),
		burst: burst,
		now:   time.Now,
	}
}

// Allow reports whether key may make a request now.
func (p *limiterPool) Allow(key string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	if now.Sub(p.lastSweep) > limiterTTL {
		p.sweep(now)
	}

	e, ok := p.m[key]
	if !ok {
		e = &limiterEntry{l: rate.NewLimiter(p.rps, p.burst)}
		p.m[key] = e
	}
	e.lastSeen = now
	return e.l.AllowN(now, 1)
}

// sweep drops entries idle longer than limiterTTL. Caller holds p.mu.
func (p *limiterPool) sweep(now time.Time) {
	cutoff := now.Add(-limiterTTL)
	for k, e := range p.m {
		if e.lastSeen.Before(cutoff) {
			delete(p.m, k)
		}
	}
	p.lastSweep = now
}
