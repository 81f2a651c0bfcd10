package ratelimit

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/tair/storefront/pkg/logger"
)

// Limiter is a per-client sliding window rate limiter backed by Redis
type Limiter struct {
	redis       *redis.Client
	prefix      string
	maxRequests int
	window      time.Duration
	now         func() time.Time
}

// New creates a limiter allowing maxRequests per window for each client
func New(client *redis.Client, maxRequests int, window time.Duration) *Limiter {
	return &Limiter{
		redis:       client,
		prefix:      "ratelimit:",
		maxRequests: maxRequests,
		window:      window,
		now:         time.Now,
	}
}

// Middleware rejects requests over the limit with 429. Redis failures let
// the request through.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identifier := clientIP(r)

		allowed, remaining, resetTime, err := l.Allow(r.Context(), identifier)
		if err != nil {
			logger.Error(r.Context()).
				Err(err).
				Str("identifier", identifier).
				Msg("Rate limiter error")
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.maxRequests))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if !allowed {
			logger.Warn(r.Context()).
				Str("identifier", identifier).
				Int("limit", l.maxRequests).
				Msg("Rate limit exceeded")

			retryAfter := resetTime.Sub(l.now()).Round(time.Second)
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"success": false,
				"error":   "Rate limit exceeded",
				"message": fmt.Sprintf("Too many requests. Try again in %v", retryAfter),
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Allow records a request for identifier and reports whether it fits in the window
func (l *Limiter) Allow(ctx context.Context, identifier string) (allowed bool, remaining int, resetTime time.Time, err error) {
	key := l.prefix + identifier
	now := l.now()
	windowStart := now.Add(-l.window)

	pipe := l.redis.Pipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart.UnixNano(), 10))
	countCmd := pipe.ZCard(ctx, key)
	pipe.ZAdd(ctx, key, redis.Z{
		Score:  float64(now.UnixNano()),
		Member: uuid.NewString(),
	})
	pipe.Expire(ctx, key, l.window+time.Minute)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, time.Time{}, err
	}

	count := int(countCmd.Val())
	remaining = l.maxRequests - count - 1
	if remaining < 0 {
		remaining = 0
	}

	return count < l.maxRequests, remaining, now.Add(l.window), nil
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
