package notify

import (
	"encoding/json"
	"time"

	"same-backend/internal/auth"
	"same-backend/internal/database"
	"same-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type NotificationResponse struct {
	ID           uint          `json:"id"`
	SupplierName string        `json:"supplier_name"`
	Email        string        `json:"email"`
	Subject      string        `json:"subject"`
	Products     []ProductInfo `json:"products"`
	SentAt       string        `json:"sent_at"`
}

// GET /api/notifications
//
// Newest-first journal of dispatched alerts; powers the app's
// notification bell.
func ListNotificationsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenantID, err := auth.TenantID(c)
		if err != nil {
			return err
		}

		var logs []models.NotificationLog
		if err := database.DB.
			Where("tenant_id = ?", tenantID).
			Order("sent_at desc").
			Limit(100).
			Find(&logs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list notifications")
		}

		resp := make([]NotificationResponse, 0, len(logs))
		for _, l := range logs {
			var products []ProductInfo
			if err := json.Unmarshal([]byte(l.Products), &products); err != nil {
				products = nil
			}
			resp = append(resp, NotificationResponse{
				ID:           l.ID,
				SupplierName: l.SupplierName,
				Email:        l.Email,
				Subject:      l.Subject,
				Products:     products,
				SentAt:       l.SentAt.Format(time.RFC3339),
			})
		}
		return c.JSON(resp)
	}
}
