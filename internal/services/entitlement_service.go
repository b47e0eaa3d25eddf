package services

import (
	"context"
	"fmt"
	"time"

	"github.com/pratik-mahalle/ytgate/internal/domain/account"
	"github.com/pratik-mahalle/ytgate/internal/domain/entitlement"
	"github.com/pratik-mahalle/ytgate/internal/pkg/errors"
	"github.com/pratik-mahalle/ytgate/internal/pkg/logger"
	"github.com/pratik-mahalle/ytgate/internal/pkg/metrics"
)

// EntitlementGate implements entitlement.Gate on top of the account store.
// The store's conditional increment is the only place usage changes.
type EntitlementGate struct {
	repo      account.Repository
	freeLimit int
	now       func() time.Time
	logger    *logger.Logger
}

// NewEntitlementGate creates a gate allowing freeLimit uses to unpaid accounts
func NewEntitlementGate(repo account.Repository, freeLimit int, log *logger.Logger) *EntitlementGate {
	return &EntitlementGate{
		repo:      repo,
		freeLimit: freeLimit,
		now:       time.Now,
		logger:    log,
	}
}

// WithClock overrides the time source used for subscription expiry
func (g *EntitlementGate) WithClock(now func() time.Time) *EntitlementGate {
	g.now = now
	return g
}

// FreeLimit returns the number of free uses per account
func (g *EntitlementGate) FreeLimit() int {
	return g.freeLimit
}

// Authorize reads the account and decides. Nothing is written.
func (g *EntitlementGate) Authorize(ctx context.Context, accountID int64) (entitlement.Decision, error) {
	a, err := g.repo.GetByID(ctx, accountID)
	if err != nil {
		return entitlement.Decision{}, fmt.Errorf("authorize account %d: %w", accountID, err)
	}

	d := entitlement.Evaluate(a, g.freeLimit, g.now())
	metrics.RecordGateDecision(string(d.Reason))

	if !d.Allowed {
		g.logger.WithFields(map[string]interface{}{
			"account_id": accountID,
			"usage":      d.UsageCount,
			"limit":      d.Limit,
		}).Info("Free limit reached")
	}
	return d, nil
}

// Commit consumes one free use. Paid decisions are not metered.
func (g *EntitlementGate) Commit(ctx context.Context, d entitlement.Decision) error {
	if !d.Allowed {
		return errors.ErrLimitReached
	}
	if d.Paid {
		return nil
	}

	ok, err := g.repo.IncrementUsageIfBelow(ctx, d.AccountID, g.freeLimit)
	if err != nil {
		return fmt.Errorf("commit usage for account %d: %w", d.AccountID, err)
	}
	if !ok {
		metrics.RecordCommitConflict()
		g.logger.WithFields(map[string]interface{}{
			"account_id": d.AccountID,
		}).Warn("Usage commit lost to a concurrent request")
		return errors.ErrLimitReached
	}
	return nil
}
