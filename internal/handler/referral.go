package handler

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/langerprakhar/referral-service/internal/middleware"
	"github.com/langerprakhar/referral-service/internal/usecase"
)

// ReferralHandler serves the authenticated referral read endpoints.
type ReferralHandler struct {
	logger          *zerolog.Logger
	referralUsecase usecase.ReferralUsecase
}

// NewReferralHandler creates a new ReferralHandler.
func NewReferralHandler(logger *zerolog.Logger, referralUsecase usecase.ReferralUsecase) *ReferralHandler {
	return &ReferralHandler{
		logger:          logger,
		referralUsecase: referralUsecase,
	}
}

// GetReferrals handles GET /api/referrals.
func (h *ReferralHandler) GetReferrals(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	entries, err := h.referralUsecase.ListReferrals(r.Context(), userID)
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", userID).Msg("failed to list referrals")
		writeMessage(w, http.StatusInternalServerError, "Error fetching referrals")
		return
	}

	resp := make([]ReferralResponse, 0, len(entries))
	for _, entry := range entries {
		resp = append(resp, ReferralResponse{
			ID:           entry.ID,
			Status:       string(entry.Status),
			DateReferred: entry.DateReferred,
			ReferredUser: ReferredUserResponse{
				ID:       entry.ReferredUser.ID,
				Username: entry.ReferredUser.Username,
				Email:    entry.ReferredUser.Email,
			},
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetReferralStats handles GET /api/referral-stats.
func (h *ReferralHandler) GetReferralStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	stats, err := h.referralUsecase.GetReferralStats(r.Context(), userID)
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", userID).Msg("failed to fetch referral stats")
		writeMessage(w, http.StatusInternalServerError, "Error fetching referral stats")
		return
	}

	writeJSON(w, http.StatusOK, ReferralStatsResponse{
		TotalReferrals:      stats.TotalReferrals,
		SuccessfulReferrals: stats.SuccessfulReferrals,
	})
}
