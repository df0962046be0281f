package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	apperrors "github.com/MASITH-developpement/Azalscore-sub013/internal/errors"
	"github.com/MASITH-developpement/Azalscore-sub013/internal/httputil"
	"github.com/MASITH-developpement/Azalscore-sub013/internal/isolation"
)

// CustomLoggerMiddleware logs HTTP requests with structured logging.
func CustomLoggerMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		logger.Info("http request",
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.String("request_id", requestid.Get(c)),
			slog.String("remote_addr", c.ClientIP()),
		)
	}
}

// tenantID extracts the tenant identifier from the route or headers.
func tenantID(c *gin.Context) string {
	if id := c.Param("tenant_id"); id != "" {
		return id
	}
	return c.GetHeader("X-Tenant-ID")
}

// TenantIsolationMiddleware refuses requests for isolated tenants.
//
// Every data-access route must sit behind this check: once a tenant is
// isolated for integrity recovery, callers get a stable 503 until recovery
// completes or an operator releases the isolation. Routes without a tenant
// in the request pass through.
func TenantIsolationMiddleware(registry *isolation.Registry, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := tenantID(c)
		if id == "" || !registry.IsIsolated(id) {
			c.Next()
			return
		}

		logger.Warn("request refused, tenant isolated",
			slog.String("tenant_id", id),
			slog.String("path", c.Request.URL.Path),
		)
		httputil.HandleErrorGin(c, apperrors.Wrapf(apperrors.ErrUnavailable, "tenant %s isolated", id), logger)
		c.Abort()
	}
}

// rateLimiterStore holds per-tenant rate limiters with automatic cleanup.
type rateLimiterStore struct {
	limiters sync.Map // map[string]*rateLimiterEntry
	rps      float64
	burst    int
}

// rateLimiterEntry holds a rate limiter and last access time for cleanup.
type rateLimiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
	mu         sync.Mutex
}

// RateLimitMiddleware enforces per-tenant rate limiting with a token bucket.
// Requests without a tenant are limited per client IP instead.
func RateLimitMiddleware(rps float64, burst int, logger *slog.Logger) gin.HandlerFunc {
	store := &rateLimiterStore{
		rps:   rps,
		burst: burst,
	}

	// Cleanup goroutine for stale limiters (every 5 minutes).
	go store.cleanupStale(context.Background(), 5*time.Minute)

	return func(c *gin.Context) {
		key := tenantID(c)
		if key == "" {
			key = c.ClientIP()
		}

		limiter := store.getLimiter(key)
		if !limiter.Allow() {
			reservation := limiter.Reserve()
			retryAfter := int(reservation.Delay().Seconds())
			reservation.Cancel()

			logger.Debug("rate limit exceeded",
				slog.String("key", key),
				slog.Int("retry_after", retryAfter))

			c.Header("Retry-After", fmt.Sprintf("%d", retryAfter))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":   "rate_limit_exceeded",
				"message": "Too many requests. Please retry after the specified delay.",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// getLimiter returns the rate limiter for a key, creating one if needed.
func (s *rateLimiterStore) getLimiter(key string) *rate.Limiter {
	now := time.Now()

	if value, ok := s.limiters.Load(key); ok {
		entry := value.(*rateLimiterEntry)
		entry.mu.Lock()
		entry.lastAccess = now
		entry.mu.Unlock()
		return entry.limiter
	}

	entry := &rateLimiterEntry{
		limiter:    rate.NewLimiter(rate.Limit(s.rps), s.burst),
		lastAccess: now,
	}
	actual, _ := s.limiters.LoadOrStore(key, entry)
	return actual.(*rateLimiterEntry).limiter
}

// cleanupStale periodically removes limiters not used for twice the interval.
func (s *rateLimiterStore) cleanupStale(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-2 * interval)
			s.limiters.Range(func(key, value any) bool {
				entry := value.(*rateLimiterEntry)
				entry.mu.Lock()
				stale := entry.lastAccess.Before(cutoff)
				entry.mu.Unlock()
				if stale {
					s.limiters.Delete(key)
				}
				return true
			})
		}
	}
}
