package service

import (
	"sync"

	"golang.org/x/time/rate"
)

// maxTrackedIPs bounds the limiter map; it is reset once exceeded.
const maxTrackedIPs = 10000

// LoginRateLimit manages IP-based token-bucket limiting for login attempts
type LoginRateLimit struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
	rate     rate.Limit
	burst    int
}

// NewLoginRateLimit creates a limiter allowing rps sustained requests per IP
// with bursts up to burst.
func NewLoginRateLimit(rps float64, burst int) *LoginRateLimit {
	if burst < 1 {
		burst = 1
	}
	return &LoginRateLimit{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(rps),
		burst:    burst,
	}
}

// Allow checks if the IP is within rate limit
func (r *LoginRateLimit) Allow(ip string) bool {
	return r.get(ip).Allow()
}

func (r *LoginRateLimit) get(ip string) *rate.Limiter {
	r.mu.RLock()
	limiter, ok := r.limiters[ip]
	r.mu.RUnlock()
	if ok {
		return limiter
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if limiter, ok = r.limiters[ip]; ok {
		return limiter
	}
	if len(r.limiters) >= maxTrackedIPs {
		r.limiters = make(map[string]*rate.Limiter)
	}
	limiter = rate.NewLimiter(r.rate, r.burst)
	r.limiters[ip] = limiter
	return limiter
}
