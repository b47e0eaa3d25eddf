package client

import (
	"encoding/json"
	"time"
)

// Account represents the authenticated account
type Account struct {
	ID                 int64      `json:"id"`
	Email              string     `json:"email"`
	SubscriptionStatus string     `json:"subscription_status"`
	SubscriptionEndsAt *time.Time `json:"subscription_ends_at,omitempty"`
	Paid               bool       `json:"paid"`
	UsageCount         int        `json:"usage_count"`
	FreeLimit          int        `json:"free_limit"`
	Remaining          int        `json:"remaining"`
	CreatedAt          time.Time  `json:"created_at"`
}

// Plan is one paid option in the upgrade prompt
type Plan struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	Period   string `json:"period"`
	Note     string `json:"note,omitempty"`
	Featured bool   `json:"featured,omitempty"`
}

// Paywall is the upgrade prompt payload
type Paywall struct {
	Title       string `json:"title"`
	Message     string `json:"message"`
	Plans       []Plan `json:"plans"`
	CheckoutURL string `json:"checkout_url"`
}

// HealthResponse represents the health check response. Accounts and Gate
// are only set by Ready.
type HealthResponse struct {
	Status   string    `json:"status"`
	Service  string    `json:"service,omitempty"`
	Accounts string    `json:"accounts,omitempty"`
	Gate     *GateInfo `json:"gate,omitempty"`
}

// GateInfo describes how the server gates lookups
type GateInfo struct {
	FreeLimit   int    `json:"free_limit"`
	YouTubeMode string `json:"youtube_mode"`
}

// envelope is the server's standard response wrapper
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
	Error   *APIError       `json:"error,omitempty"`
}
