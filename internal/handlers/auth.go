package handlers

import (
	"errors"

	"primepool/internal/middleware"
	"primepool/internal/services/auth"
	"primepool/internal/services/onboarding"
	"primepool/internal/utils"
	"primepool/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler exposes registration, login and token endpoints.
type AuthHandler struct {
	authService auth.Service
	onboarding  onboarding.Service
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(authService auth.Service, onboardingService onboarding.Service) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		onboarding:  onboardingService,
	}
}

// Register handles password registration. The user lands Active and gets
// tokens immediately.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input onboarding.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	user, err := h.onboarding.RegisterWithPassword(c.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, validation.ErrInvalidInput):
			return utils.BadRequest(c, err.Error())
		case errors.Is(err, onboarding.ErrEmailTaken):
			return utils.Conflict(c, "This email is already associated with an account.")
		case errors.Is(err, onboarding.ErrUsernameTaken):
			return utils.Conflict(c, "This username is already taken.")
		default:
			return utils.InternalError(c, "Registration failed. Please try again.")
		}
	}

	accessToken, refreshToken, err := h.authService.IssueTokens(user)
	if err != nil {
		return utils.InternalError(c, "Registration succeeded but token issuance failed")
	}

	return utils.Created(c, fiber.Map{
		"message":       "User registered successfully",
		"user":          user,
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	})
}

// Login authenticates with email and password.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}
	if input.Email == "" || input.Password == "" {
		return utils.BadRequest(c, "Email and password are required")
	}

	user, accessToken, refreshToken, err := h.authService.Login(input.Email, input.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return utils.Unauthorized(c, "Invalid email or password")
		}
		return utils.InternalError(c, "Authentication failed")
	}

	return utils.Success(c, fiber.Map{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"user": fiber.Map{
			"id":                   user.ID,
			"email":                user.Email,
			"role":                 user.Role,
			"onboarding_completed": user.OnboardingCompleted,
		},
	})
}

// FederatedSignIn exchanges a provider-verified identity for tokens,
// creating a provisional profile on first sight. The response tells the
// client whether onboarding still has to happen.
func (h *AuthHandler) FederatedSignIn(c *fiber.Ctx) error {
	var input onboarding.FederatedInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	user, created, err := h.onboarding.FederatedSignIn(c.Context(), input)
	if err != nil {
		if errors.Is(err, validation.ErrInvalidInput) {
			return utils.BadRequest(c, "Provider uid and email are required")
		}
		return utils.InternalError(c, "Sign-in failed. Please try again.")
	}

	accessToken, refreshToken, err := h.authService.IssueTokens(user)
	if err != nil {
		return utils.InternalError(c, "Token issuance failed")
	}

	return utils.Success(c, fiber.Map{
		"access_token":         accessToken,
		"refresh_token":        refreshToken,
		"new_user":             created,
		"onboarding_completed": user.OnboardingCompleted,
		"user": fiber.Map{
			"id":    user.ID,
			"email": user.Email,
		},
	})
}

// RefreshToken rotates the token pair.
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	var input struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.BodyParser(&input); err != nil || input.RefreshToken == "" {
		return utils.Unauthorized(c, "Refresh token not provided")
	}

	accessToken, refreshToken, err := h.authService.RefreshTokens(input.RefreshToken)
	if err != nil {
		return utils.Unauthorized(c, "Invalid refresh token")
	}

	return utils.Success(c, fiber.Map{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	})
}

// Logout bumps the token version so outstanding tokens stop validating.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	claims, ok := middleware.Claims(c)
	if !ok {
		return utils.Unauthorized(c, "invalid claims")
	}
	if err := h.authService.Logout(claims.UserID); err != nil {
		return utils.InternalError(c, "Failed to log out")
	}
	return utils.Success(c, fiber.Map{"message": "Logged out successfully."})
}
