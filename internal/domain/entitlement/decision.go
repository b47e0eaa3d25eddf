package entitlement

import (
	"context"
	"time"

	"github.com/pratik-mahalle/ytgate/internal/domain/account"
)

// Reason explains an entitlement decision
type Reason string

const (
	ReasonPaid          Reason = "paid"
	ReasonFreeRemaining Reason = "free_remaining"
	ReasonLimitReached  Reason = "limit_reached"
)

// Decision is computed fresh on every protected request and never stored.
type Decision struct {
	AccountID  int64  `json:"account_id"`
	Allowed    bool   `json:"allowed"`
	Paid       bool   `json:"paid"`
	Reason     Reason `json:"reason"`
	UsageCount int    `json:"usage_count"`
	Limit      int    `json:"limit"`
}

// Remaining returns the free uses left, or -1 for paid accounts
func (d Decision) Remaining() int {
	if d.Paid {
		return -1
	}
	if r := d.Limit - d.UsageCount; r > 0 {
		return r
	}
	return 0
}

// Gate decides whether an account may use the metered operation
type Gate interface {
	// Authorize returns Allow or Deny(limit_reached). It has no side effects.
	Authorize(ctx context.Context, accountID int64) (Decision, error)

	// Commit records one use after the metered operation succeeded.
	// Returns errors.ErrLimitReached when a concurrent request took the last free use.
	Commit(ctx context.Context, d Decision) error
}

// Evaluate computes the entitlement of an account at a given instant.
// A paid-and-current subscription wins regardless of usage.
func Evaluate(a *account.Account, freeLimit int, now time.Time) Decision {
	d := Decision{
		AccountID:  a.ID,
		UsageCount: a.UsageCount,
		Limit:      freeLimit,
	}
	switch {
	case a.IsPaid(now):
		d.Allowed = true
		d.Paid = true
		d.Reason = ReasonPaid
	case a.UsageCount < freeLimit:
		d.Allowed = true
		d.Reason = ReasonFreeRemaining
	default:
		d.Reason = ReasonLimitReached
	}
	return d
}
