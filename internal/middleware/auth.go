// Package middleware provides HTTP middleware for the fiber app.
package middleware

import (
	"strings"

	"primepool/internal/models"
	"primepool/internal/repositories"
	"primepool/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware validates JWT bearer tokens and places the user claims
// in the request locals. The claims object is the session context every
// handler operates on.
type AuthMiddleware struct {
	users repositories.UserRepository
}

// NewAuthMiddleware creates the auth middleware.
func NewAuthMiddleware(users repositories.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{users: users}
}

// Handler checks the Authorization header, the token signature and
// expiry, and that the token version still matches the user row.
func (m *AuthMiddleware) Handler(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return utils.Unauthorized(c, "missing authorization header")
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return utils.Unauthorized(c, "invalid authorization format")
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	_, claims, err := utils.ParseToken(tokenString)
	if err != nil {
		return utils.Unauthorized(c, "invalid token")
	}

	user, err := m.users.GetByID(claims.UserID)
	if err != nil {
		return utils.Unauthorized(c, "unknown user")
	}
	if user.TokenVersion != claims.TokenVersion {
		return utils.Unauthorized(c, "token revoked")
	}

	c.Locals("claims", claims)
	return c.Next()
}

// Claims extracts the user claims placed by Handler.
func Claims(c *fiber.Ctx) (*models.UserClaims, bool) {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	return claims, ok && claims != nil
}
