package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pratik-mahalle/ytgate/internal/domain/account"
	"github.com/pratik-mahalle/ytgate/internal/pkg/errors"
	"github.com/pratik-mahalle/ytgate/internal/pkg/metrics"
)

// AccountRepository implements account.Repository
type AccountRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db, now: time.Now}
}

const accountColumns = `id, email, password_hash, subscription_status, subscription_ends_at, usage_count, created_at, updated_at`

// Create inserts a new account and sets its ID
func (r *AccountRepository) Create(ctx context.Context, a *account.Account) error {
	defer metrics.ObserveDBQuery("insert", "accounts", time.Now())

	now := r.now()
	a.CreatedAt = now
	a.UpdatedAt = now
	if a.SubscriptionStatus == "" {
		a.SubscriptionStatus = account.StatusFree
	}

	query := `
		INSERT INTO accounts (email, password_hash, subscription_status, subscription_ends_at, usage_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx, query,
		a.Email, a.PasswordHash, a.SubscriptionStatus, nullUnix(a.SubscriptionEndsAt),
		a.UsageCount, now.Unix(), now.Unix(),
	).Scan(&a.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create %s: %w", a.Email, errors.ErrAlreadyExists)
		}
		return errors.DatabaseError("Failed to create account", err)
	}

	return nil
}

// GetByID retrieves an account by ID
func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*account.Account, error) {
	defer metrics.ObserveDBQuery("select", "accounts", time.Now())

	row := r.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
	return scanAccount(row)
}

// GetByEmail retrieves an account by email
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*account.Account, error) {
	defer metrics.ObserveDBQuery("select", "accounts", time.Now())

	row := r.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email = $1`, email)
	return scanAccount(row)
}

// IncrementUsageIfBelow bumps usage_count by one in a single conditional
// statement. Concurrent callers racing for the last free use are serialized
// by the row lock; only one of them sees a changed row.
func (r *AccountRepository) IncrementUsageIfBelow(ctx context.Context, id int64, limit int) (bool, error) {
	defer metrics.ObserveDBQuery("increment_usage", "accounts", time.Now())

	result, err := r.db.ExecContext(ctx, `
		UPDATE accounts
		SET usage_count = usage_count + 1, updated_at = $1
		WHERE id = $2 AND usage_count < $3
	`, r.now().Unix(), id, limit)
	if err != nil {
		return false, errors.DatabaseError("Failed to record usage", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, errors.DatabaseError("Failed to get affected rows", err)
	}

	return rows == 1, nil
}

// UpdateSubscription sets the subscription status and end time
func (r *AccountRepository) UpdateSubscription(ctx context.Context, id int64, status string, endsAt *time.Time) error {
	defer metrics.ObserveDBQuery("update", "accounts", time.Now())

	result, err := r.db.ExecContext(ctx, `
		UPDATE accounts
		SET subscription_status = $1, subscription_ends_at = $2, updated_at = $3
		WHERE id = $4
	`, status, nullUnix(endsAt), r.now().Unix(), id)
	if err != nil {
		return errors.DatabaseError("Failed to update subscription", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.DatabaseError("Failed to get affected rows", err)
	}
	if rows == 0 {
		return fmt.Errorf("account %d: %w", id, errors.ErrAccountNotFound)
	}

	return nil
}

// CountByStatus returns account totals grouped by subscription status
func (r *AccountRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	defer metrics.ObserveDBQuery("count", "accounts", time.Now())

	rows, err := r.db.QueryContext(ctx, `
		SELECT subscription_status, COUNT(*)
		FROM accounts
		GROUP BY subscription_status
	`)
	if err != nil {
		return nil, errors.DatabaseError("Failed to count accounts", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var status string
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, errors.DatabaseError("Failed to scan account count", err)
		}
		counts[status] = n
	}
	if err := rows.Err(); err != nil {
		return nil, errors.DatabaseError("Failed to iterate account counts", err)
	}

	return counts, nil
}

func scanAccount(row *sql.Row) (*account.Account, error) {
	var a account.Account
	var endsAt sql.NullInt64
	var createdAt, updatedAt int64

	err := row.Scan(
		&a.ID, &a.Email, &a.PasswordHash, &a.SubscriptionStatus, &endsAt,
		&a.UsageCount, &createdAt, &updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.ErrAccountNotFound
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get account", err)
	}

	if endsAt.Valid {
		t := time.Unix(endsAt.Int64, 0)
		a.SubscriptionEndsAt = &t
	}
	a.CreatedAt = time.Unix(createdAt, 0)
	a.UpdatedAt = time.Unix(updatedAt, 0)

	return &a, nil
}

func nullUnix(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.Unix(), Valid: true}
}
