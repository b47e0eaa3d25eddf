package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/pratik-mahalle/ytgate/internal/pkg/logger"
	"github.com/pratik-mahalle/ytgate/internal/pkg/utils"
)

const readyTimeout = 2 * time.Second

// Pinger is the slice of *sql.DB readiness needs
type Pinger interface {
	PingContext(ctx context.Context) error
}

// GateInfo is reported by the readiness endpoint
type GateInfo struct {
	FreeLimit   int    `json:"free_limit"`
	YouTubeMode string `json:"youtube_mode"`
}

// HealthHandler serves liveness and readiness
type HealthHandler struct {
	db     Pinger
	info   GateInfo
	logger *logger.Logger
}

func NewHealthHandler(db Pinger, info GateInfo, log *logger.Logger) *HealthHandler {
	return &HealthHandler{db: db, info: info, logger: log}
}

// Healthz reports that the process is up. It never touches the database.
// @Summary Liveness
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	utils.WriteSuccess(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "ytgate",
	})
}

type readiness struct {
	Status   string   `json:"status"`
	Accounts string   `json:"accounts"`
	Gate     GateInfo `json:"gate"`
}

// Readyz reports whether the account store answers, since every gated
// lookup needs it.
// @Summary Readiness
// @Tags Health
// @Produce json
// @Success 200 {object} readiness
// @Failure 503 {object} utils.ErrorResponse
// @Router /readyz [get]
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		h.logger.WithFields(map[string]interface{}{
			"error": err.Error(),
		}).Warn("Account store not reachable")
		utils.WriteErrorMessage(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Account store unavailable")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, readiness{
		Status:   "ready",
		Accounts: "reachable",
		Gate:     h.info,
	})
}
