package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// SecurityHeaders adds security-related headers to all responses
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Cache-Control", "no-store")
		c.Next()
	}
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client key.
type RateLimiter struct {
	entries   map[string]*limiterEntry
	mu        sync.Mutex
	rate      rate.Limit
	burst     int
	ttl       time.Duration
	lastSweep time.Time
}

func NewRateLimiter(r rate.Limit, b int, ttl time.Duration) *RateLimiter {
	return &RateLimiter{
		entries:   make(map[string]*limiterEntry),
		rate:      r,
		burst:     b,
		ttl:       ttl,
		lastSweep: time.Now(),
	}
}

// Allow reports whether key may proceed now. Idle entries are swept at most
// once per TTL.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	if now.Sub(rl.lastSweep) > rl.ttl {
		rl.sweep(now)
	}

	entry, ok := rl.entries[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.entries[key] = entry
	}
	entry.lastSeen = now
	return entry.limiter.Allow()
}

func (rl *RateLimiter) sweep(now time.Time) {
	for k, e := range rl.entries {
		if now.Sub(e.lastSeen) > rl.ttl {
			delete(rl.entries, k)
		}
	}
	rl.lastSweep = now
}

// RateLimitMiddleware limits requests per client IP to perMinute with the
// given burst.
func RateLimitMiddleware(perMinute, burst int) gin.HandlerFunc {
	limiter := NewRateLimiter(rate.Every(time.Minute/time.Duration(perMinute)), burst, 5*time.Minute)

	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Rate limit exceeded. Please try again later.",
			})
			return
		}
		c.Next()
	}
}

// CORSMiddleware allows the origins in allowedOrigins (comma separated,
// "*" for any). Requests without an Origin header pass untouched.
func CORSMiddleware(allowedOrigins string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	for _, o := range strings.Split(allowedOrigins, ",") {
		o = strings.TrimSuffix(strings.TrimSpace(o), "/")
		switch {
		case o == "*":
			cfg.AllowAllOrigins = true
		case strings.HasPrefix(o, "http://"), strings.HasPrefix(o, "https://"):
			cfg.AllowOrigins = append(cfg.AllowOrigins, o)
		}
	}

	switch {
	case cfg.AllowAllOrigins:
		cfg.AllowOrigins = nil
		cfg.AllowCredentials = false
	case len(cfg.AllowOrigins) == 0:
		// Nothing usable configured: refuse every cross-origin request.
		cfg.AllowOriginFunc = func(string) bool { return false }
	}

	return cors.New(cfg)
}
