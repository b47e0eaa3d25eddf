package account

import "time"

// Account is a registered user of the proxy
type Account struct {
	ID                 int64      `json:"id"`
	Email              string     `json:"email"`
	PasswordHash       string     `json:"-"`
	SubscriptionStatus string     `json:"subscription_status"`
	SubscriptionEndsAt *time.Time `json:"subscription_ends_at,omitempty"`
	UsageCount         int        `json:"usage_count"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// Subscription statuses
const (
	StatusFree       = "free"
	StatusActivePaid = "active_paid"
)

// IsPaid reports whether the account holds a paid subscription that has
// not yet ended. Any status other than free counts, matching how
// subscriptions were recorded before the status enum existed.
func (a *Account) IsPaid(now time.Time) bool {
	if a.SubscriptionStatus == "" || a.SubscriptionStatus == StatusFree {
		return false
	}
	return a.SubscriptionEndsAt != nil && a.SubscriptionEndsAt.After(now)
}
