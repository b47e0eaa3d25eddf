package handlers

import (
	"net/http"
	"strings"

	"github.com/pratik-mahalle/ytgate/internal/api/dto"
	"github.com/pratik-mahalle/ytgate/internal/api/middleware"
	"github.com/pratik-mahalle/ytgate/internal/domain/entitlement"
	"github.com/pratik-mahalle/ytgate/internal/domain/paywall"
	"github.com/pratik-mahalle/ytgate/internal/pkg/errors"
	"github.com/pratik-mahalle/ytgate/internal/pkg/logger"
	"github.com/pratik-mahalle/ytgate/internal/pkg/utils"
	"github.com/pratik-mahalle/ytgate/internal/pkg/validator"
	"github.com/pratik-mahalle/ytgate/internal/youtube"
)

// VideoHandler proxies metadata lookups behind the entitlement gate
type VideoHandler struct {
	gate      entitlement.Gate
	fetcher   youtube.Fetcher
	paywall   paywall.Payload
	logger    *logger.Logger
	validator *validator.Validator
}

// NewVideoHandler creates a new video handler
func NewVideoHandler(
	gate entitlement.Gate,
	fetcher youtube.Fetcher,
	pw paywall.Payload,
	log *logger.Logger,
	val *validator.Validator,
) *VideoHandler {
	return &VideoHandler{
		gate:      gate,
		fetcher:   fetcher,
		paywall:   pw,
		logger:    log,
		validator: val,
	}
}

// GetVideoInfo fetches metadata for one video
// @Summary Get video metadata
// @Description Proxies YouTube Data API videos.list with the caller's key. Free accounts get 3 successful lookups.
// @Tags YouTube
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.VideoInfoRequest true "Video URL and YouTube API key"
// @Success 200 {object} map[string]interface{} "Upstream payload, unmodified"
// @Failure 400 {object} utils.ErrorResponse "Missing fields or invalid URL"
// @Failure 401 {object} utils.ErrorResponse "Invalid or expired token"
// @Failure 402 {object} utils.ErrorResponse "Free limit reached"
// @Failure 500 {object} utils.ErrorResponse "Server error"
// @Failure 504 {object} utils.ErrorResponse "Upstream timeout"
// @Router /youtube/getVideoInfo [post]
func (h *VideoHandler) GetVideoInfo(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.GetAccountID(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("Authentication token required"))
		return
	}

	var req dto.VideoInfoRequest
	if err := decodeJSON(w, r, &req); err != nil {
		utils.WriteError(w, errors.BadRequest("URL and API Key are required."))
		return
	}
	req.YoutubeURL = strings.TrimSpace(req.YoutubeURL)
	req.UserAPIKey = strings.TrimSpace(req.UserAPIKey)
	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("URL and API Key are required.", validationErrs))
		return
	}

	ctx := r.Context()
	decision, err := h.gate.Authorize(ctx, accountID)
	if err != nil {
		if errors.Is(err, errors.ErrAccountNotFound) {
			h.logger.WithFields(map[string]interface{}{
				"account_id": accountID,
			}).Error("Verified token references a missing account")
		} else {
			h.logger.ErrorWithErr(err, "Entitlement check failed")
		}
		utils.WriteError(w, errors.Internal("Internal Server Error", err))
		return
	}
	middleware.AddLogField(w, "decision", string(decision.Reason))

	if !decision.Allowed {
		h.writeLimitReached(w, decision.Limit, decision.UsageCount)
		return
	}

	videoID, err := youtube.ExtractVideoID(req.YoutubeURL)
	if err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid YouTube URL"))
		return
	}
	middleware.AddLogField(w, "video_id", videoID)

	payload, err := h.fetcher.FetchMetadata(ctx, videoID, req.UserAPIKey)
	if err != nil {
		var upstream *youtube.UpstreamError
		switch {
		case errors.As(err, &upstream):
			h.logger.WithFields(map[string]interface{}{
				"account_id": accountID,
				"video_id":   videoID,
				"status":     upstream.StatusCode,
			}).Info("Upstream rejected metadata request")
			utils.WriteRaw(w, upstream.StatusCode, upstream.ContentType, upstream.Body)
		case errors.Is(err, youtube.ErrDeadlineExceeded):
			h.logger.WithFields(map[string]interface{}{
				"video_id": videoID,
			}).Warn("Upstream request timed out")
			utils.WriteError(w, errors.DeadlineExceeded("YouTube API did not respond in time", err))
		default:
			h.logger.ErrorWithErr(err, "Upstream request failed")
			utils.WriteError(w, errors.UpstreamError("YouTube", err))
		}
		return
	}

	if err := h.gate.Commit(ctx, decision); err != nil {
		if errors.Is(err, errors.ErrLimitReached) {
			h.writeLimitReached(w, decision.Limit, decision.Limit)
			return
		}
		h.logger.ErrorWithErr(err, "Failed to record usage")
		utils.WriteError(w, errors.Internal("Internal Server Error", err))
		return
	}

	utils.WriteRaw(w, payload.StatusCode, payload.ContentType, payload.Body)
}

func (h *VideoHandler) writeLimitReached(w http.ResponseWriter, limit, used int) {
	utils.WriteError(w, errors.LimitReached(dto.LimitReachedDetails{
		Limit:       limit,
		Used:        used,
		Plans:       h.paywall.Plans,
		CheckoutURL: h.paywall.CheckoutURL,
	}))
}
