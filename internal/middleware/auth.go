package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Bobybuu/real-estate-Gabby/internal/model"
	"github.com/Bobybuu/real-estate-Gabby/pkg/database"
	"github.com/Bobybuu/real-estate-Gabby/pkg/utils/jwt"
)

// AuthMiddleware validates the bearer token and stores the claims on the
// request context.
func AuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if header == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authorization header is required",
			})
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		claims, err := jwt.ValidateToken(tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		c.Locals("user", claims)
		return c.Next()
	}
}

// OptionalAuth attaches claims when a valid token is present but lets
// anonymous requests through.
func OptionalAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if header != "" {
			tokenString := strings.TrimPrefix(header, "Bearer ")
			if claims, err := jwt.ValidateToken(tokenString); err == nil {
				c.Locals("user", claims)
			}
		}
		return c.Next()
	}
}

// RequireRole rejects requests whose authenticated role is not in the
// allowed set. Admins always pass.
func RequireRole(roles ...model.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals("user").(*jwt.Claims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authentication required",
			})
		}

		if claims.Role == string(model.RoleAdmin) {
			return c.Next()
		}
		for _, role := range roles {
			if claims.Role == string(role) {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You don't have permission to perform this action",
		})
	}
}

// CheckPropertyOwnership allows the listing's seller, its assigned agent or
// an admin.
func CheckPropertyOwnership() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := c.Locals("user").(*jwt.Claims)
		propertyID := c.Params("id")

		var property model.Property
		if err := database.GetDB().First(&property, propertyID).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Property not found",
			})
		}

		if claims.Role == string(model.RoleAdmin) ||
			property.SellerID == claims.UserID ||
			(property.AgentID != nil && *property.AgentID == claims.UserID) {
			return c.Next()
		}

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You don't have permission to access this property",
		})
	}
}

// CurrentUserID returns the authenticated user id when present.
func CurrentUserID(c *fiber.Ctx) *uint {
	if claims, ok := c.Locals("user").(*jwt.Claims); ok {
		return &claims.UserID
	}
	return nil
}
