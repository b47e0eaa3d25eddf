package handlers

import (
	"net/http"
	"time"

	"github.com/pratik-mahalle/ytgate/internal/api/dto"
	"github.com/pratik-mahalle/ytgate/internal/api/middleware"
	"github.com/pratik-mahalle/ytgate/internal/domain/account"
	"github.com/pratik-mahalle/ytgate/internal/domain/entitlement"
	"github.com/pratik-mahalle/ytgate/internal/pkg/errors"
	"github.com/pratik-mahalle/ytgate/internal/pkg/logger"
	"github.com/pratik-mahalle/ytgate/internal/pkg/utils"
)

// AccountHandler reports the caller's account state
type AccountHandler struct {
	accounts  account.Service
	freeLimit int
	now       func() time.Time
	logger    *logger.Logger
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(accounts account.Service, freeLimit int, log *logger.Logger) *AccountHandler {
	return &AccountHandler{
		accounts:  accounts,
		freeLimit: freeLimit,
		now:       time.Now,
		logger:    log,
	}
}

// Me returns the authenticated account
// @Summary Current account
// @Description Subscription state and remaining free lookups for the token holder
// @Tags Account
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.AccountResponse
// @Failure 401 {object} utils.ErrorResponse "Invalid or expired token"
// @Failure 500 {object} utils.ErrorResponse "Server error"
// @Router /account [get]
func (h *AccountHandler) Me(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.GetAccountID(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("Authentication token required"))
		return
	}

	a, err := h.accounts.GetByID(r.Context(), accountID)
	if err != nil {
		h.logger.ErrorWithErr(err, "Failed to load account")
		utils.WriteError(w, errors.Internal("Internal Server Error", err))
		return
	}

	d := entitlement.Evaluate(a, h.freeLimit, h.now())
	utils.WriteSuccess(w, http.StatusOK, dto.ToAccountResponse(a, d))
}
