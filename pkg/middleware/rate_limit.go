package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"cleanbook/pkg/logger"

	"golang.org/x/time/rate"
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ClientRateLimiter is a token bucket per client IP: requests tokens refill over window, with a
// burst of requests.
type ClientRateLimiter struct {
	mu       sync.Mutex
	clients  map[string]*clientLimiter
	limit    rate.Limit
	burst    int
	window   time.Duration
	log      *logger.Logger
	stopCh   chan struct{}
	stopOnce sync.Once
}

func NewClientRateLimiter(requests int, window time.Duration, log *logger.Logger) *ClientRateLimiter {
	limiter := &ClientRateLimiter{
		clients: make(map[string]*clientLimiter),
		limit:   rate.Every(window / time.Duration(requests)),
		burst:   requests,
		window:  window,
		log:     log,
		stopCh:  make(chan struct{}),
	}

	go limiter.cleanup()

	return limiter
}

func (rl *ClientRateLimiter) cleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.evictIdle(time.Now())
		case <-rl.stopCh:
			return
		}
	}
}

// evictIdle drops clients whose bucket has been full for at least one window.
func (rl *ClientRateLimiter) evictIdle(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for ip, c := range rl.clients {
		if now.Sub(c.lastSeen) > rl.window {
			delete(rl.clients, ip)
		}
	}
}

func (rl *ClientRateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCh) })
}

func (rl *ClientRateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	c, ok := rl.clients[ip]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[ip] = c
	}
	c.lastSeen = time.Now()
	rl.mu.Unlock()

	return c.limiter.Allow()
}

func RateLimit(limiter *ClientRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := ClientIP(r)

			if !limiter.Allow(ip) {
				rejectRateLimited(w, limiter.log, r, ip)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP returns the host part of the connection's remote address.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func rejectRateLimited(w http.ResponseWriter, log *logger.Logger, r *http.Request, ip string) {
	log.Warn("Rate limit exceeded",
		"request_id", RequestIDFromContext(r.Context()),
		"ip", ip,
		"path", r.URL.Path,
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	_, _ = w.Write([]byte(`{"error":"Rate limit exceeded","code":"RATE_LIMITED"}`))
}
