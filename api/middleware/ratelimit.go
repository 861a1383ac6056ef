package middleware

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per client IP
type RateLimiter struct {
	config *RateLimitConfig

	clients   map[string]*client
	clientsMu sync.Mutex

	// Cleanup ticker
	cleanupTicker *time.Ticker
	stopCh        chan struct{}
	stopOnce      sync.Once

	// OnReject is called with the request path of every rejected request
	OnReject func(path string)
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int

	CleanupInterval time.Duration
	ClientTTL       time.Duration
}

// DefaultRateLimitConfig returns default configuration
func DefaultRateLimitConfig() *RateLimitConfig {
	return &RateLimitConfig{
		RequestsPerSecond: 20,
		Burst:             40,
		CleanupInterval:   5 * time.Minute,
		ClientTTL:         time.Hour,
	}
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a rate limiter and starts its cleanup loop
func NewRateLimiter(config *RateLimitConfig) *RateLimiter {
	if config == nil {
		config = DefaultRateLimitConfig()
	}

	rl := &RateLimiter{
		config:        config,
		clients:       make(map[string]*client),
		cleanupTicker: time.NewTicker(config.CleanupInterval),
		stopCh:        make(chan struct{}),
	}

	go rl.cleanupLoop()

	return rl
}

// Stop stops the rate limiter
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() {
		close(rl.stopCh)
		rl.cleanupTicker.Stop()
	})
}

func (rl *RateLimiter) cleanupLoop() {
	for {
		select {
		case <-rl.cleanupTicker.C:
			rl.cleanup()
		case <-rl.stopCh:
			return
		}
	}
}

// cleanup forgets clients idle longer than the TTL
func (rl *RateLimiter) cleanup() {
	threshold := time.Now().Add(-rl.config.ClientTTL)

	rl.clientsMu.Lock()
	defer rl.clientsMu.Unlock()
	for key, c := range rl.clients {
		if c.lastSeen.Before(threshold) {
			delete(rl.clients, key)
		}
	}
}

// AllowIP consumes one token for ip
func (rl *RateLimiter) AllowIP(ip string) (bool, *RateLimitInfo) {
	rl.clientsMu.Lock()
	c, ok := rl.clients[ip]
	if !ok {
		c = &client{limiter: rate.NewLimiter(rate.Limit(rl.config.RequestsPerSecond), rl.config.Burst)}
		rl.clients[ip] = c
	}
	c.lastSeen = time.Now()
	rl.clientsMu.Unlock()

	info := &RateLimitInfo{Limit: rl.config.Burst}
	if c.limiter.Allow() {
		info.Allowed = true
		info.Remaining = int(math.Max(0, math.Floor(c.limiter.Tokens())))
		return true, info
	}

	// time until the next token
	if rl.config.RequestsPerSecond > 0 {
		info.RetryAfter = int(math.Ceil(1 / rl.config.RequestsPerSecond))
	}
	return false, info
}

// RateLimitInfo describes the outcome of a rate check
type RateLimitInfo struct {
	Allowed    bool `json:"allowed"`
	Remaining  int  `json:"remaining"`
	Limit      int  `json:"limit"`
	RetryAfter int  `json:"retry_after,omitempty"`
}

// ============ HTTP Middleware ============

// RateLimitMiddleware rejects requests over the per-IP limit with 429
func RateLimitMiddleware(rl *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, info := rl.AllowIP(getClientIP(r))
			w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
			w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
			if !allowed {
				if rl.OnReject != nil {
					rl.OnReject(r.URL.Path)
				}
				w.Header().Set("Content-Type", "application/json")
				if info.RetryAfter > 0 {
					w.Header().Set("Retry-After", fmt.Sprintf("%d", info.RetryAfter))
				}
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]interface{}{
					"error": map[string]interface{}{
						"codespace": "api",
						"code":      http.StatusTooManyRequests,
						"message":   "too many requests, please slow down",
					},
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// getClientIP extracts the client IP from the request
func getClientIP(r *http.Request) string {
	// Check for forwarded headers
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for i := 0; i < len(xff); i++ {
			if xff[i] == ',' {
				return xff[:i]
			}
		}
		return xff
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	// Fall back to remote address
	ip := r.RemoteAddr
	for i := len(ip) - 1; i >= 0; i-- {
		if ip[i] == ':' {
			return ip[:i]
		}
	}
	return ip
}

// ============ Statistics ============

// Stats returns rate limiter statistics
type Stats struct {
	TrackedClients int `json:"tracked_clients"`
}

// GetStats returns current rate limiter statistics
func (rl *RateLimiter) GetStats() *Stats {
	rl.clientsMu.Lock()
	defer rl.clientsMu.Unlock()
	return &Stats{TrackedClients: len(rl.clients)}
}
