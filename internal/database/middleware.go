package database

import "github.com/gofiber/fiber/v2"

// RequireAvailable rejects requests with 503 while the store is not
// configured. The monitor endpoints carry their own degraded-mode answers;
// the tenant API cannot do anything useful without the database and must
// not reach a handler that would dereference a nil connection.
func RequireAvailable() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !Available() {
			return fiber.NewError(fiber.StatusServiceUnavailable, "database is not configured")
		}
		return c.Next()
	}
}
