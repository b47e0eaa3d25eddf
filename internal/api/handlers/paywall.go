package handlers

import (
	"net/http"

	"github.com/pratik-mahalle/ytgate/internal/domain/paywall"
	"github.com/pratik-mahalle/ytgate/internal/pkg/utils"
)

// PaywallHandler serves the static upgrade prompt
type PaywallHandler struct {
	payload paywall.Payload
}

// NewPaywallHandler creates a new paywall handler
func NewPaywallHandler(p paywall.Payload) *PaywallHandler {
	return &PaywallHandler{payload: p}
}

// Plans returns the available plans
// @Summary Paywall plans
// @Description Static plan list shown once the free lookups are used up
// @Tags Paywall
// @Produce json
// @Success 200 {object} paywall.Payload
// @Router /paywall/plans [get]
func (h *PaywallHandler) Plans(w http.ResponseWriter, r *http.Request) {
	utils.WriteSuccess(w, http.StatusOK, h.payload)
}
