package monitor

import (
	"errors"
	"fmt"
	"strings"

	"same-backend/internal/config"
	"same-backend/internal/database"

	"github.com/gofiber/fiber/v2"
)

// GET /health
func HealthHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "SAME notification service up"})
	}
}

// RequireMonitorToken gates the monitoring endpoints with a shared secret
// when MONITOR_TOKEN is set. Unset keeps them open, like the original
// deployment on a private network.
func RequireMonitorToken(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if cfg.MonitorToken == "" {
			return c.Next()
		}
		header := c.Get("Authorization")
		if strings.TrimPrefix(header, "Bearer ") != cfg.MonitorToken {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid monitor token")
		}
		return c.Next()
	}
}

// POST /monitor-products
//
// Runs the full sweep. With the store unconfigured this answers 200 with
// success=false: degraded mode, not an HTTP error.
func MonitorProductsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !database.Available() {
			return c.JSON(fiber.Map{
				"success": false,
				"message": "database is not configured",
			})
		}

		sent, err := svc.Sweep(c.Context())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "sweep failed")
		}

		return c.JSON(fiber.Map{
			"success":    true,
			"message":    fmt.Sprintf("monitoring finished, %d email(s) sent", sent),
			"emailsSent": sent,
		})
	}
}

// POST /check-product/:tenantId/:productId
func CheckProductHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !database.Available() {
			return c.JSON(fiber.Map{
				"success": false,
				"message": "database is not configured",
			})
		}

		tenantID := c.Params("tenantId")
		productID := c.Params("productId")

		sent, err := svc.CheckProduct(c.Context(), tenantID, productID)
		if errors.Is(err, ErrProductNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "check failed")
		}

		return c.JSON(fiber.Map{
			"success":    true,
			"message":    fmt.Sprintf("%d email(s) sent", sent),
			"emailsSent": sent,
		})
	}
}
