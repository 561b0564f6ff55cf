package handlers

import (
	"errors"

	"primepool/internal/middleware"
	"primepool/internal/services/onboarding"
	"primepool/internal/services/user"
	"primepool/internal/services/wallet"
	"primepool/internal/utils"
	"primepool/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// UserHandler serves the profile and dashboard endpoints plus the
// onboarding completion step.
type UserHandler struct {
	userService       user.Service
	onboardingService onboarding.Service
	walletService     wallet.Service
}

func NewUserHandler(userService user.Service, onboardingService onboarding.Service, walletService wallet.Service) *UserHandler {
	return &UserHandler{
		userService:       userService,
		onboardingService: onboardingService,
		walletService:     walletService,
	}
}

// GetProfile returns the signed-in user's profile.
func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	claims, ok := middleware.Claims(c)
	if !ok {
		return utils.Unauthorized(c, "invalid claims")
	}

	u, err := h.userService.GetByID(claims.UserID)
	if err != nil {
		return utils.NotFound(c, "User not found")
	}
	return utils.Success(c, fiber.Map{"user": u})
}

// UpdateUsername changes the display username.
func (h *UserHandler) UpdateUsername(c *fiber.Ctx) error {
	claims, ok := middleware.Claims(c)
	if !ok {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input struct {
		Username string `json:"username"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}

	u, err := h.userService.UpdateUsername(claims.UserID, input.Username)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrUsernameTaken):
			return utils.Conflict(c, "This username is already taken.")
		case errors.Is(err, user.ErrUsernameUnchanged):
			return utils.BadRequest(c, err.Error())
		case errors.Is(err, validation.ErrInvalidInput):
			return utils.BadRequest(c, err.Error())
		default:
			return utils.InternalError(c, "Failed to update username")
		}
	}

	return utils.Success(c, fiber.Map{
		"message": "Username updated successfully.",
		"user":    u,
	})
}

// GetDashboard returns the home tab overview.
func (h *UserHandler) GetDashboard(c *fiber.Ctx) error {
	claims, ok := middleware.Claims(c)
	if !ok {
		return utils.Unauthorized(c, "invalid claims")
	}

	u, err := h.userService.GetByID(claims.UserID)
	if err != nil {
		return utils.NotFound(c, "User not found")
	}

	snapshot, err := h.walletService.GetLedger(c.Context(), claims.UserID)
	if err != nil {
		return utils.InternalError(c, "Failed to load balances")
	}

	return utils.Success(c, fiber.Map{
		"display_name":         u.DisplayName(),
		"prime_level":          u.PrimeLevel,
		"onboarding_completed": u.OnboardingCompleted,
		"ledger":               snapshot,
	})
}

// CompleteOnboarding finishes a provisional profile and grants the
// starting bonus.
func (h *UserHandler) CompleteOnboarding(c *fiber.Ctx) error {
	claims, ok := middleware.Claims(c)
	if !ok {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input onboarding.CompleteProfileInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}

	u, err := h.onboardingService.CompleteProfile(c.Context(), claims.UserID, input)
	if err != nil {
		switch {
		case errors.Is(err, validation.ErrInvalidInput):
			return utils.BadRequest(c, err.Error())
		case errors.Is(err, onboarding.ErrUsernameTaken):
			return utils.Conflict(c, "This username is already taken.")
		case errors.Is(err, onboarding.ErrAlreadyOnboarded):
			// Already Active; the client should just move on to the dashboard.
			return utils.Success(c, fiber.Map{
				"message":              "Onboarding already completed.",
				"onboarding_completed": true,
			})
		default:
			return utils.InternalError(c, "Failed to complete onboarding")
		}
	}

	return utils.Success(c, fiber.Map{
		"message":              "Welcome aboard! Your starting bonus has been credited.",
		"onboarding_completed": true,
		"user":                 u,
	})
}
