package handlers

import (
	"primepool/internal/middleware"
	"primepool/internal/services/referral"
	"primepool/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// ReferralHandler serves the referral tab payload.
type ReferralHandler struct {
	referralService referral.Service
}

func NewReferralHandler(referralService referral.Service) *ReferralHandler {
	return &ReferralHandler{referralService: referralService}
}

// GetReferral returns the member's code, share link and referred members.
func (h *ReferralHandler) GetReferral(c *fiber.Ctx) error {
	claims, ok := middleware.Claims(c)
	if !ok {
		return utils.Unauthorized(c, "invalid claims")
	}

	overview, err := h.referralService.Overview(c.Context(), claims.UserID)
	if err != nil {
		return utils.InternalError(c, "Failed to load referral data")
	}

	return utils.Success(c, overview)
}
