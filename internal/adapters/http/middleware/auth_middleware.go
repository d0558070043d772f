package middleware

import (
	"strings"

	"refundhub/internal/config"
	"refundhub/internal/core/domain"
	"refundhub/internal/pkg/jwt"
	"refundhub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Locals keys for the authenticated identity
const (
	LocalsUserID = "userID"
	LocalsRole   = "role"
)

// AuthMiddleware creates authentication middleware. The token is
// self-contained (subject + role), so no database access happens here.
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var accessToken string

		authHeader := c.Get("Authorization")
		if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
			accessToken = strings.TrimPrefix(authHeader, "Bearer ")
		}

		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		claims, err := jwt.ValidateAccessToken(accessToken, cfg.JWT.Secret)
		if err != nil {
			if err == jwt.ErrTokenExpired {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		c.Locals(LocalsUserID, claims.UserID)
		c.Locals(LocalsRole, claims.Role)

		return c.Next()
	}
}

// RoleMiddleware creates role-based authorization middleware
func RoleMiddleware(allowedRoles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(LocalsRole).(string)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}

		for _, allowedRole := range allowedRoles {
			if role == allowedRole {
				return c.Next()
			}
		}

		return response.Forbidden(c, "You don't have permission to access this resource")
	}
}

// AnyRole middleware allows every valid role
func AnyRole() fiber.Handler {
	return RoleMiddleware(domain.Roles...)
}

// SubmitterOnly middleware allows roles that may create refunds.
// Admins are included so they can file their own expenses; managers are
// reviewers only.
func SubmitterOnly() fiber.Handler {
	return RoleMiddleware(domain.RoleEmployee, domain.RoleAdmin)
}

// Identity extracts the authenticated identity from the request context
func Identity(c *fiber.Ctx) (domain.Identity, bool) {
	userID, okID := c.Locals(LocalsUserID).(uint)
	role, okRole := c.Locals(LocalsRole).(string)
	if !okID || !okRole {
		return domain.Identity{}, false
	}
	return domain.Identity{UserID: userID, Role: role}, true
}
