package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/botforge/botgate/internal/typ"
)

// Default limits guarding the relay endpoint
const (
	DefaultWindow   = time.Minute
	DefaultIPLimit  = 100
	DefaultBotLimit = 60
)

type window struct {
	count int
	start time.Time
}

// Limiter is a fixed-window request counter keyed by an arbitrary string.
// Counters are process-local; a multi-instance deployment would swap this
// for a shared store behind the same Allow contract.
type Limiter struct {
	mu      sync.Mutex
	windows map[string]*window
	limit   int
	period  time.Duration
	now     func() time.Time
}

// NewLimiter creates a fixed-window limiter admitting limit requests per period
func NewLimiter(limit int, period time.Duration) *Limiter {
	return &Limiter{
		windows: make(map[string]*window),
		limit:   limit,
		period:  period,
		now:     time.Now,
	}
}

// Allow records a request for key and reports whether it is admitted.
// When the window has elapsed the counter resets wholesale.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[key]
	if !ok || now.Sub(w.start) > l.period {
		w = &window{start: now}
		l.windows[key] = w
	}
	w.count++
	return w.count <= l.limit
}

// Middleware wraps the limiter for gin, deriving the key per request and
// answering 429 with message when the window limit is exceeded.
func (l *Limiter) Middleware(keyFunc func(*gin.Context) string, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow(keyFunc(c)) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, typ.ErrorBody{Error: message})
			return
		}
		c.Next()
	}
}

// IPRateLimiter throttles by the caller's network address
func IPRateLimiter(limiter *Limiter) gin.HandlerFunc {
	return limiter.Middleware(
		func(c *gin.Context) string { return c.ClientIP() },
		"Too many requests from this IP, please try again later.",
	)
}

// BotRateLimiter throttles by tenant identifier, falling back to the
// caller's network address when no botId is present.
func BotRateLimiter(limiter *Limiter) gin.HandlerFunc {
	return limiter.Middleware(
		func(c *gin.Context) string {
			if botID := BotIDFromRequest(c); botID != "" {
				return botID
			}
			return c.ClientIP()
		},
		"Too many requests for this bot, please slow down.",
	)
}
