package dto

import (
	"time"

	"github.com/pratik-mahalle/ytgate/internal/domain/account"
	"github.com/pratik-mahalle/ytgate/internal/domain/entitlement"
)

// AccountResponse describes the caller's account and remaining free uses
type AccountResponse struct {
	ID                 int64      `json:"id"`
	Email              string     `json:"email"`
	SubscriptionStatus string     `json:"subscription_status"`
	SubscriptionEndsAt *time.Time `json:"subscription_ends_at,omitempty"`
	Paid               bool       `json:"paid"`
	UsageCount         int        `json:"usage_count"`
	FreeLimit          int        `json:"free_limit"`
	// Remaining is -1 for paid accounts
	Remaining int       `json:"remaining"`
	CreatedAt time.Time `json:"created_at"`
}

// ToAccountResponse converts an account and its current decision to a DTO
func ToAccountResponse(a *account.Account, d entitlement.Decision) AccountResponse {
	return AccountResponse{
		ID:                 a.ID,
		Email:              a.Email,
		SubscriptionStatus: a.SubscriptionStatus,
		SubscriptionEndsAt: a.SubscriptionEndsAt,
		Paid:               d.Paid,
		UsageCount:         a.UsageCount,
		FreeLimit:          d.Limit,
		Remaining:          d.Remaining(),
		CreatedAt:          a.CreatedAt,
	}
}
