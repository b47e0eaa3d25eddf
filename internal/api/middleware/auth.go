package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/pratik-mahalle/ytgate/internal/domain/account"
	"github.com/pratik-mahalle/ytgate/internal/pkg/errors"
	"github.com/pratik-mahalle/ytgate/internal/pkg/utils"
)

// ContextKey is a custom type for context keys
type ContextKey string

const (
	// AccountIDKey is the context key for the verified account ID
	AccountIDKey ContextKey = "accountID"
	// AccountEmailKey is the context key for the verified account email
	AccountEmailKey ContextKey = "email"
)

// TokenVerifier checks a session token without hitting the store
type TokenVerifier interface {
	Verify(token string) (account.Ref, error)
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
// The scheme is matched case-insensitively.
func BearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// AuthMiddleware returns a middleware that rejects requests without a valid session token
func AuthMiddleware(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := BearerToken(r)
			if tokenStr == "" {
				utils.WriteError(w, errors.Unauthorized("Authentication token required"))
				return
			}

			ref, err := verifier.Verify(tokenStr)
			if err != nil {
				utils.WriteError(w, errors.Unauthorized("Invalid or expired token"))
				return
			}

			ctx := context.WithValue(r.Context(), AccountIDKey, ref.ID)
			ctx = context.WithValue(ctx, AccountEmailKey, ref.Email)

			AddLogField(w, "account_id", ref.ID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetAccountID extracts the account ID from the request context
func GetAccountID(r *http.Request) (int64, bool) {
	id, ok := r.Context().Value(AccountIDKey).(int64)
	return id, ok
}

// GetAccountEmail extracts the account email from the request context
func GetAccountEmail(r *http.Request) (string, bool) {
	email, ok := r.Context().Value(AccountEmailKey).(string)
	return email, ok
}
