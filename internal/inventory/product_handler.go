package inventory

import (
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

type CreateProductRequest struct {
	Name       string  `json:"name"`
	Quantity   int     `json:"quantity"`
	SKU        string  `json:"sku"`
	Unit       string  `json:"unit"`
	Price      float64 `json:"price"`
	ExpiryDate *string `json:"expiry_date"` // "2006-01-02"
}

type UpdateProductRequest struct {
	Name       *string  `json:"name"`
	Quantity   *int     `json:"quantity"`
	SKU        *string  `json:"sku"`
	Unit       *string  `json:"unit"`
	Price      *float64 `json:"price"`
	ExpiryDate *string  `json:"expiry_date"`
}

type ProductResponse struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Quantity   int     `json:"quantity"`
	SKU        string  `json:"sku"`
	Unit       string  `json:"unit"`
	Price      float64 `json:"price"`
	ExpiryDate *string `json:"expiry_date"`
	CreatedAt  string  `json:"created_at"`
	UpdatedAt  string  `json:"updated_at"`
}

func toProductResponse(p models.Product) ProductResponse {
	var expiry *string
	if p.ExpiryDate != nil {
		e := p.ExpiryDate.Format("2006-01-02")
		expiry = &e
	}
	return ProductResponse{
		ID:         p.ID,
		Name:       p.Name,
		Quantity:   p.Quantity,
		SKU:        p.SKU,
		Unit:       p.Unit,
		Price:      p.Price,
		ExpiryDate: expiry,
		CreatedAt:  p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  p.UpdatedAt.Format(time.RFC3339),
	}
}

func parseExpiry(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	d, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "expiry_date must be 'YYYY-MM-DD'")
	}
	return &d, nil
}

// -------------------------
// Product CRUD
// -------------------------

// POST /api/products
//
// Creating a product is a product write: the watcher receives the change
// with no previous quantity, so a product created already at critical
// level alerts its suppliers immediately.
func CreateProductHandler(watcher *monitor.Watcher) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenantID, err := auth.TenantID(c)
		if err != nil {
			return err
		}

		var body CreateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if strings.TrimSpace(body.Name) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name is required")
		}
		if body.Quantity < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "quantity cannot be negative")
		}
		expiry, err := parseExpiry(body.ExpiryDate)
		if err != nil {
			return err
		}

		product := models.Product{
			ID:         uuid.NewString(),
			TenantID:   tenantID,
			Name:       strings.TrimSpace(body.Name),
			Quantity:   body.Quantity,
			SKU:        strings.TrimSpace(body.SKU),
			Unit:       strings.TrimSpace(body.Unit),
			Price:      body.Price,
			ExpiryDate: expiry,
		}
		if err := database.DB.Create(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not create product")
		}

		watcher.ProductChanged(monitor.ProductChange{
			TenantID:    tenantID,
			ProductID:   product.ID,
			OldQuantity: nil,
			NewQuantity: product.Quantity,
		})

		return c.Status(fiber.StatusCreated).JSON(toProductResponse(product))
	}
}

// GET /api/products
func ListProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenantID, err := auth.TenantID(c)
		if err != nil {
			return err
		}

		var products []models.Product
		if err := database.DB.
			Where("tenant_id = ?", tenantID).
			Order("name asc").
			Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list products")
		}

		resp := make([]ProductResponse, 0, len(products))
		for _, p := range products {
			resp = append(resp, toProductResponse(p))
		}
		return c.JSON(resp)
	}
}

// GET /api/products/:id
func GetProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenantID, err := auth.TenantID(c)
		if err != nil {
			return err
		}

		var product models.Product
		if err := database.DB.
			Where("tenant_id = ? AND id = ?", tenantID, c.Params("id")).
			First(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		return c.JSON(toProductResponse(product))
	}
}

// PUT /api/products/:id
//
// Quantity updates feed the watcher with the old/new pair in write order.
func UpdateProductHandler(watcher *monitor.Watcher) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenantID, err := auth.TenantID(c)
		if err != nil {
			return err
		}

		var product models.Product
		if err := database.DB.
			Where("tenant_id = ? AND id = ?", tenantID, c.Params("id")).
			First(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}

		var body UpdateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		oldQuantity := product.Quantity
		quantityChanged := false

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "name cannot be empty")
			}
			product.Name = name
		}
		if body.Quantity != nil {
			if *body.Quantity < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "quantity cannot be negative")
			}
			quantityChanged = *body.Quantity != product.Quantity
			product.Quantity = *body.Quantity
		}
		if body.SKU != nil {
			product.SKU = strings.TrimSpace(*body.SKU)
		}
		if body.Unit != nil {
			product.Unit = strings.TrimSpace(*body.Unit)
		}
		if body.Price != nil {
			product.Price = *body.Price
		}
		if body.ExpiryDate != nil {
			expiry, err := parseExpiry(body.ExpiryDate)
			if err != nil {
				return err
			}
			product.ExpiryDate = expiry
		}

		// Guarded on the quantity this request read: a concurrent write to
		// the same row fails the update instead of letting a stale old/new
		// pair reach the watcher.
		res := database.DB.Model(&models.Product{}).
			Where("tenant_id = ? AND id = ? AND quantity = ?", tenantID, product.ID, oldQuantity).
			Updates(map[string]interface{}{
				"name":        product.Name,
				"quantity":    product.Quantity,
				"sku":         product.SKU,
				"unit":        product.Unit,
				"price":       product.Price,
				"expiry_date": product.ExpiryDate,
			})
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not update product")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusConflict, "product was modified by another request, retry")
		}

		if quantityChanged {
			old := oldQuantity
			watcher.ProductChanged(monitor.ProductChange{
				TenantID:    tenantID,
				ProductID:   product.ID,
				OldQuantity: &old,
				NewQuantity: product.Quantity,
			})
		}

		return c.JSON(toProductResponse(product))
	}
}

// DELETE /api/products/:id
//
// Deletions never reach the watcher: a deletion is not a stock crossing.
func DeleteProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenantID, err := auth.TenantID(c)
		if err != nil {
			return err
		}

		var product models.Product
		if err := database.DB.
			Where("tenant_id = ? AND id = ?", tenantID, c.Params("id")).
			First(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}

		if err := database.DB.Delete(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not delete product")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
