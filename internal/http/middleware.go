package http

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/varoOP/mangacat/internal/metrics"
	"golang.org/x/time/rate"
)

const requestIDHeader = "X-Request-ID"

// requestID reuses the caller's X-Request-ID or assigns a new one
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDHeader, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func requestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		event := log.Debug()
		switch {
		case status >= 500:
			event = log.Error()
		case status >= 400:
			event = log.Warn()
		}

		event.
			Str("request_id", c.GetString(requestIDHeader)).
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("request")
	}
}

// clientLimiter keeps a token bucket per client IP. Buckets unused for
// longer than idle are swept at most once per idle period.
type clientLimiter struct {
	mu        sync.Mutex
	clients   map[string]*clientBucket
	limit     rate.Limit
	burst     int
	idle      time.Duration
	lastSweep time.Time
	now       func() time.Time
}

type clientBucket struct {
	*rate.Limiter
	seen time.Time
}

func newClientLimiter(perMinute, burst int) *clientLimiter {
	return &clientLimiter{
		clients: make(map[string]*clientBucket),
		limit:   rate.Every(time.Minute / time.Duration(max(perMinute, 1))),
		burst:   max(burst, 1),
		idle:    15 * time.Minute,
		now:     time.Now,
	}
}

// take spends one token for ip. When the bucket is empty nothing is spent and
// the wait until the next token is returned.
func (l *clientLimiter) take(ip string) (time.Duration, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) > l.idle {
		for key, b := range l.clients {
			if now.Sub(b.seen) > l.idle {
				delete(l.clients, key)
			}
		}
		l.lastSweep = now
	}

	b, ok := l.clients[ip]
	if !ok {
		b = &clientBucket{Limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[ip] = b
	}
	b.seen = now

	r := b.ReserveN(now, 1)
	if wait := r.DelayFrom(now); wait > 0 {
		r.CancelAt(now)
		return wait, false
	}

	return 0, true
}

// rateLimit rejects clients over their budget with 429 and a Retry-After
// header in whole seconds.
func rateLimit(log zerolog.Logger, l *clientLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		wait, ok := l.take(c.ClientIP())
		if ok {
			c.Next()
			return
		}

		retry := int(math.Ceil(wait.Seconds()))
		metrics.IncRateLimited(c.FullPath())
		log.Warn().
			Str("request_id", c.GetString(requestIDHeader)).
			Str("client_ip", c.ClientIP()).
			Str("path", c.FullPath()).
			Int("retry_after", retry).
			Msg("rate limited")

		c.Header("Retry-After", strconv.Itoa(retry))
		RespondWithError(c, http.StatusTooManyRequests, fmt.Sprintf("rate limit exceeded, retry in %ds", retry), "RATE_LIMITED")
		c.Abort()
	}
}
