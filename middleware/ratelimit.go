package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// LimiterStore hands out one token bucket per client key
type LimiterStore interface {
	Limiter(key string, now time.Time, create func() *rate.Limiter) *rate.Limiter
	Sweep(idleSince time.Time) int
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// MemoryStore is an in-process LimiterStore
type MemoryStore struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{limiters: make(map[string]*limiterEntry)}
}

func (s *MemoryStore) Limiter(key string, now time.Time, create func() *rate.Limiter) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.limiters[key]
	if !ok {
		entry = &limiterEntry{limiter: create()}
		s.limiters[key] = entry
	}
	entry.lastSeen = now
	return entry.limiter
}

// Sweep drops limiters not used since idleSince and returns how many were dropped
func (s *MemoryStore) Sweep(idleSince time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	dropped := 0
	for key, entry := range s.limiters {
		if entry.lastSeen.Before(idleSince) {
			delete(s.limiters, key)
			dropped++
		}
	}
	return dropped
}

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.limiters)
}

// RateLimiter allows perMinute requests per client with a burst of the same size
type RateLimiter struct {
	store     LimiterStore
	now       func() time.Time
	perMinute int
	idleTTL   time.Duration

	// trustProxy keys clients by X-Forwarded-For; only safe behind a proxy that sets it
	trustProxy bool

	mu        sync.Mutex
	lastSweep time.Time
}

// NewRateLimiter builds the limiter. A nil store means a fresh MemoryStore,
// a nil clock means time.Now.
func NewRateLimiter(perMinute int, store LimiterStore, now func() time.Time) *RateLimiter {
	if store == nil {
		store = NewMemoryStore()
	}
	if now == nil {
		now = time.Now
	}
	return &RateLimiter{
		store:     store,
		now:       now,
		perMinute: perMinute,
		idleTTL:   10 * time.Minute,
	}
}

// TrustProxy makes the limiter key clients by the first X-Forwarded-For hop
func (rl *RateLimiter) TrustProxy(trust bool) *RateLimiter {
	rl.trustProxy = trust
	return rl
}

// Allow reports whether the client may make a request now, and if not how
// long it should wait
func (rl *RateLimiter) Allow(key string) (bool, time.Duration) {
	now := rl.now()
	rl.maybeSweep(now)

	limiter := rl.store.Limiter(key, now, func() *rate.Limiter {
		return rate.NewLimiter(rate.Limit(float64(rl.perMinute)/60.0), rl.perMinute)
	})
	r := limiter.ReserveN(now, 1)
	if !r.OK() {
		return false, time.Minute
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, delay
	}
	return true, 0
}

func (rl *RateLimiter) maybeSweep(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	if now.Sub(rl.lastSweep) < rl.idleTTL {
		return
	}
	rl.lastSweep = now
	rl.store.Sweep(now.Add(-rl.idleTTL))
}

// Middleware rejects clients over their limit with 429. perMinute <= 0 disables it.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	if rl.perMinute <= 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok, wait := rl.Allow(ClientIP(r, rl.trustProxy))
		if !ok {
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			WriteError(w, r, &HTTPError{
				StatusCode: http.StatusTooManyRequests,
				Message:    "Rate limit exceeded",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ClientIP returns the remote address host. With trustProxy the first
// X-Forwarded-For hop wins when present.
func ClientIP(r *http.Request, trustProxy bool) string {
	if fwd := r.Header.Get("X-Forwarded-For"); trustProxy && fwd != "" {
		if first := strings.TrimSpace(strings.Split(fwd, ",")[0]); first != "" {
			return first
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
