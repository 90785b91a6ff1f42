package auth

import (
	"sync"

	"golang.org/x/time/rate"
)

// LoginLimiter rate-limits login attempts per remote address so password
// guessing stays slow.
type LoginLimiter struct {
	mu sync.Mutex
	m  map[string]*rate.Limiter
	r  rate.Limit
	b  int
}

func NewLoginLimiter(attemptsPerMin float64, burst int) *LoginLimiter {
	return &LoginLimiter{
		m: make(map[string]*rate.Limiter),
		r: rate.Limit(attemptsPerMin / 60.0),
		b: burst,
	}
}

func (ll *LoginLimiter) limiterFor(key string) *rate.Limiter {
	ll.mu.Lock()
	defer ll.mu.Unlock()

	if lim, ok := ll.m[key]; ok {
		return lim
	}
	lim := rate.NewLimiter(ll.r, ll.b)
	ll.m[key] = lim
	return lim
}

func (ll *LoginLimiter) Allow(key string) bool {
	if key == "" {
		key = "_"
	}
	return ll.limiterFor(key).Allow()
}
