package auth

import (
	"fmt"
	"strings"

	"same-backend/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	CtxTenantIDKey = "tenant_id"
	CtxEmailKey    = "email"
)

func JWTMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing Authorization header")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return fiber.NewError(fiber.StatusUnauthorized, "Authorization header must be 'Bearer <token>'")
		}

		token, err := jwt.ParseWithClaims(parts[1], &JWTCustomClaims{}, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired token")
		}

		claims, ok := token.Claims.(*JWTCustomClaims)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token claims")
		}

		c.Locals(CtxTenantIDKey, claims.TenantID)
		c.Locals(CtxEmailKey, claims.Email)

		return c.Next()
	}
}

// TenantID pulls the authenticated tenant out of the request context.
func TenantID(c *fiber.Ctx) (string, error) {
	id, ok := c.Locals(CtxTenantIDKey).(string)
	if !ok || id == "" {
		return "", fiber.NewError(fiber.StatusForbidden, "tenant not resolved from token")
	}
	return id, nil
}
