package middleware

import (
	"net/http"
	"strings"

	"github.com/go-chi/cors"
)

const (
	corsAllowMethods = "GET, POST, OPTIONS"
	corsAllowHeaders = "Content-Type, Authorization"
)

// CORS returns a CORS middleware with the given allowed origins.
// With "*" every response, errors and 404s included, carries the
// permissive headers whether or not the request sent an Origin.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	handler := cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"X-Request-ID",
		},
		ExposedHeaders: []string{
			"X-Request-ID",
		},
		AllowCredentials:   false,
		OptionsPassthrough: true,
		MaxAge:             300, // 5 minutes
	})

	if !allowsAll(allowedOrigins) {
		return handler
	}

	return func(next http.Handler) http.Handler {
		inner := handler(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", "*")
			h.Set("Access-Control-Allow-Methods", corsAllowMethods)
			h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
			inner.ServeHTTP(w, r)
		})
	}
}

func allowsAll(origins []string) bool {
	for _, o := range origins {
		if strings.TrimSpace(o) == "*" {
			return true
		}
	}
	return false
}
