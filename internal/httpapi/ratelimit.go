package httpapi

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	maxTrackedClients = 10000
	clientIdleTTL     = 10 * time.Minute
)

type clientEntry struct {
	lim  *rate.Limiter
	seen time.Time
}

// ClientLimiter rate-limits per client IP.
type ClientLimiter struct {
	mu sync.Mutex
	m  map[string]*clientEntry
	r  rate.Limit
	b  int

	now func() time.Time
}

func NewClientLimiter(reqPerSec float64, burst int) *ClientLimiter {
	return &ClientLimiter{
		m:   make(map[string]*clientEntry),
		r:   rate.Limit(reqPerSec),
		b:   burst,
		now: time.Now,
	}
}

func (cl *ClientLimiter) limiterFor(ip string) *rate.Limiter {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	now := cl.now()
	if e, ok := cl.m[ip]; ok {
		e.seen = now
		return e.lim
	}
	if len(cl.m) >= maxTrackedClients {
		for k, e := range cl.m {
			if now.Sub(e.seen) > clientIdleTTL {
				delete(cl.m, k)
			}
		}
	}
	lim := rate.NewLimiter(cl.r, cl.b)
	cl.m[ip] = &clientEntry{lim: lim, seen: now}
	return lim
}

func (cl *ClientLimiter) Allow(ip string) bool {
	return cl.limiterFor(ip).AllowN(cl.now(), 1)
}

// Middleware answers 429 once a client exhausts its burst.
func (cl *ClientLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !cl.Allow(clientIP(r)) {
			w.Header().Set("Retry-After", "1")
			WriteError(w, r, http.StatusTooManyRequests, "rate_limited", "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
