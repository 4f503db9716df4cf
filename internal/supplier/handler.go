// Package supplier manages the tenant's suppliers and the notification
// opt-in settings the monitoring core reads.
package supplier

import (
	"context"
	"strings"
	"time"

	"same-backend/internal/auth"
	"same-backend/internal/database"
	"same-backend/internal/models"
	"same-backend/internal/monitor"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// -------------------------
// Request/Response Types
// -------------------------

type CreateSupplierRequest struct {
	Name             string   `json:"name"`
	Email            string   `json:"email"`
	Phone            string   `json:"phone"`
	Notes            string   `json:"notes"`
	AutoEmail        bool     `json:"auto_email"`
	SelectedProducts []string `json:"selected_products"`
}

type UpdateSupplierRequest struct {
	Name             *string   `json:"name"`
	Email            *string   `json:"email"`
	Phone            *string   `json:"phone"`
	Notes            *string   `json:"notes"`
	AutoEmail        *bool     `json:"auto_email"`
	SelectedProducts *[]string `json:"selected_products"`
}

type SupplierResponse struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Email            string   `json:"email"`
	Phone            string   `json:"phone"`
	Notes            string   `json:"notes"`
	AutoEmail        bool     `json:"auto_email"`
	SelectedProducts []string `json:"selected_products"`
	CreatedAt        string   `json:"created_at"`
	UpdatedAt        string   `json:"updated_at"`
}

func toSupplierResponse(s models.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:               s.ID,
		Name:             s.Name,
		Email:            s.Email,
		Phone:            s.Phone,
		Notes:            s.Notes,
		AutoEmail:        s.AutoEmail,
		SelectedProducts: s.SelectedProducts,
		CreatedAt:        s.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        s.UpdatedAt.Format(time.RFC3339),
	}
}

// -------------------------
// Supplier CRUD
// -------------------------

// POST /api/suppliers
func CreateSupplierHandler(svc *monitor.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenantID, err := auth.TenantID(c)
		if err != nil {
			return err
		}

		var body CreateSupplierRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if strings.TrimSpace(body.Name) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name is required")
		}
		if body.AutoEmail && strings.TrimSpace(body.Email) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "auto_email requires an email address")
		}

		s := models.Supplier{
			ID:               uuid.NewString(),
			TenantID:         tenantID,
			Name:             strings.TrimSpace(body.Name),
			Email:            strings.TrimSpace(strings.ToLower(body.Email)),
			Phone:            strings.TrimSpace(body.Phone),
			Notes:            strings.TrimSpace(body.Notes),
			AutoEmail:        body.AutoEmail,
			SelectedProducts: body.SelectedProducts,
		}
		if err := database.DB.Create(&s).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not create supplier")
		}

		// A supplier created with autoEmail already on may be monitoring
		// products that are critical right now. Runs detached from the
		// request; the dispatcher logs failures.
		if s.AutoEmail {
			go svc.NotifySupplierProducts(context.Background(), tenantID, s, s.SelectedProducts) //nolint:errcheck
		}

		return c.Status(fiber.StatusCreated).JSON(toSupplierResponse(s))
	}
}

// GET /api/suppliers
func ListSuppliersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenantID, err := auth.TenantID(c)
		if err != nil {
			return err
		}

		var suppliers []models.Supplier
		if err := database.DB.
			Where("tenant_id = ?", tenantID).
			Order("name asc").
			Find(&suppliers).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list suppliers")
		}

		resp := make([]SupplierResponse, 0, len(suppliers))
		for _, s := range suppliers {
			resp = append(resp, toSupplierResponse(s))
		}
		return c.JSON(resp)
	}
}

// PUT /api/suppliers/:id
//
// Backup trigger: switching autoEmail on checks every monitored product;
// adding products while autoEmail is on checks only the new ones. Either
// way the supplier gets one combined email for whatever is already
// critical.
func UpdateSupplierHandler(svc *monitor.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenantID, err := auth.TenantID(c)
		if err != nil {
			return err
		}

		var s models.Supplier
		if err := database.DB.
			Where("tenant_id = ? AND id = ?", tenantID, c.Params("id")).
			First(&s).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "supplier not found")
		}

		var body UpdateSupplierRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		wasAutoEmail := s.AutoEmail
		previousProducts := s.SelectedProducts

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "name cannot be empty")
			}
			s.Name = name
		}
		if body.Email != nil {
			s.Email = strings.TrimSpace(strings.ToLower(*body.Email))
		}
		if body.Phone != nil {
			s.Phone = strings.TrimSpace(*body.Phone)
		}
		if body.Notes != nil {
			s.Notes = strings.TrimSpace(*body.Notes)
		}
		if body.AutoEmail != nil {
			s.AutoEmail = *body.AutoEmail
		}
		if body.SelectedProducts != nil {
			s.SelectedProducts = *body.SelectedProducts
		}
		if s.AutoEmail && s.Email == "" {
			return fiber.NewError(fiber.StatusBadRequest, "auto_email requires an email address")
		}

		if err := database.DB.Save(&s).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not update supplier")
		}

		var recheck []string
		switch {
		case s.AutoEmail && !wasAutoEmail:
			recheck = s.SelectedProducts
		case s.AutoEmail && body.SelectedProducts != nil:
			for _, id := range s.SelectedProducts {
				if !previousProducts.Contains(id) {
					recheck = append(recheck, id)
				}
			}
		}
		if len(recheck) > 0 {
			go svc.NotifySupplierProducts(context.Background(), tenantID, s, recheck) //nolint:errcheck
		}

		return c.JSON(toSupplierResponse(s))
	}
}

// DELETE /api/suppliers/:id
func DeleteSupplierHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenantID, err := auth.TenantID(c)
		if err != nil {
			return err
		}

		var s models.Supplier
		if err := database.DB.
			Where("tenant_id = ? AND id = ?", tenantID, c.Params("id")).
			First(&s).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "supplier not found")
		}

		if err := database.DB.Delete(&s).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not delete supplier")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
