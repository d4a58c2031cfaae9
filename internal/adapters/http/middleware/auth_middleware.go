package middleware

import (
	"context"
	"errors"
	"strings"

	"welin-backend/internal/adapters/persistence/repositories"
	"welin-backend/internal/config"
	"welin-backend/internal/core/domain"
	"welin-backend/internal/pkg/jwt"
	"welin-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Protected creates authentication middleware. It validates the bearer
// token, loads the account, rejects deactivated accounts and stamps the
// last-login time on every authorized request.
func Protected(cfg *config.Config, userRepo repositories.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return response.Unauthorized(c, "Access token required")
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return response.Unauthorized(c, "Invalid authorization header")
		}
		accessToken := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := jwt.ValidateToken(accessToken, cfg.JWT.Secret)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		c.Locals("userID", claims.UserID)
		c.Locals("role", claims.Role)
		c.Locals("email", claims.Email)
		if claims.WelinID != "" {
			c.Locals("welinID", claims.WelinID)
		}

		// Member tokens have no backing user row
		if claims.Role == domain.RoleMember {
			return c.Next()
		}

		user, err := userRepo.GetByID(c.Context(), claims.UserID)
		if err != nil {
			return response.Unauthorized(c, "Account not found")
		}
		if !user.IsActive {
			return response.Unauthorized(c, "Account is deactivated")
		}

		// Best-effort stamp, never blocks the request
		_ = userRepo.TouchLastLogin(context.Background(), user.ID)

		c.Locals("user", user)
		return c.Next()
	}
}

// RequireRole creates role-based authorization middleware. The caller's
// role must cover the required role in the hierarchy.
func RequireRole(required string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("role").(string)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}
		if !domain.CanAct(role, required) {
			return response.Forbidden(c, "You don't have permission to access this resource")
		}
		return c.Next()
	}
}

// RequireAnyRole allows a request when the caller's role covers any one
// of the listed roles.
func RequireAnyRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("role").(string)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}
		for _, required := range roles {
			if domain.CanAct(role, required) {
				return c.Next()
			}
		}
		return response.Forbidden(c, "You don't have permission to access this resource")
	}
}
