// Package ratelimit throttles request rates per client key.
package ratelimit

import "context"

// Limiter decides whether one more request for key fits in the budget
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	// Name identifies the backing store in metrics and logs
	Name() string
}
