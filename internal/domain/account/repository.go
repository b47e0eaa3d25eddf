package account

import (
	"context"
	"time"
)

// Repository defines the interface for account data access
type Repository interface {
	// Create inserts a new account. Returns errors.ErrAlreadyExists on a duplicate email.
	Create(ctx context.Context, a *Account) error

	// GetByID retrieves an account by ID
	GetByID(ctx context.Context, id int64) (*Account, error)

	// GetByEmail retrieves an account by email
	GetByEmail(ctx context.Context, email string) (*Account, error)

	// IncrementUsageIfBelow adds one to usage_count only while it is below limit,
	// in a single statement. Reports whether the row was changed.
	IncrementUsageIfBelow(ctx context.Context, id int64, limit int) (bool, error)

	// UpdateSubscription sets the subscription state
	UpdateSubscription(ctx context.Context, id int64, status string, endsAt *time.Time) error

	// CountByStatus returns the number of accounts per subscription status
	CountByStatus(ctx context.Context) (map[string]int64, error)
}
