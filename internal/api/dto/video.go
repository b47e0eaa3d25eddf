package dto

import "github.com/pratik-mahalle/ytgate/internal/domain/paywall"

// VideoInfoRequest asks for metadata of one video using the caller's own API key
type VideoInfoRequest struct {
	YoutubeURL string `json:"youtubeUrl" validate:"required"`
	UserAPIKey string `json:"userApiKey" validate:"required,printascii"`
}

// LimitReachedDetails is attached to LIMIT_REACHED errors
type LimitReachedDetails struct {
	Limit       int            `json:"limit"`
	Used        int            `json:"used"`
	Plans       []paywall.Plan `json:"plans"`
	CheckoutURL string         `json:"checkout_url"`
}
