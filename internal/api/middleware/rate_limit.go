package middleware

import (
	"net"
	"net/http"

	"github.com/pratik-mahalle/ytgate/internal/pkg/errors"
	"github.com/pratik-mahalle/ytgate/internal/pkg/logger"
	"github.com/pratik-mahalle/ytgate/internal/pkg/metrics"
	"github.com/pratik-mahalle/ytgate/internal/pkg/ratelimit"
	"github.com/pratik-mahalle/ytgate/internal/pkg/utils"
)

// RateLimit returns a middleware that rate limits requests by client IP.
// Preflight requests are never limited.
func RateLimit(limiter ratelimit.Limiter, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			key := clientIP(r)
			allowed, err := limiter.Allow(r.Context(), key)
			if err != nil {
				log.WithFields(map[string]interface{}{
					"store": limiter.Name(),
					"key":   key,
				}).WithError(err).Warn("Rate limiter unavailable")
			}
			if !allowed {
				metrics.RecordRateLimited(limiter.Name())
				utils.WriteError(w, errors.RateLimited("Too many requests. Please try again later."))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
