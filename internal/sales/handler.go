// Package sales records sales and decrements product stock. Each
// decrement is a conditional write (never below zero) and feeds the
// reactive stock watcher with the old/new quantity pair.
package sales

import (
	"fmt"
	"strings"
	"time"

	"same-backend/internal/auth"
	"same-backend/internal/database"
	"same-backend/internal/models"
	"same-backend/internal/monitor"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SaleItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type CreateSaleRequest struct {
	Items  []SaleItemRequest `json:"items"`
	Method models.CashMethod `json:"method"` // cash | card | pix
}

type SaleItemResponse struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

type SaleResponse struct {
	ID        string             `json:"id"`
	Total     float64            `json:"total"`
	Items     []SaleItemResponse `json:"items"`
	CreatedAt string             `json:"created_at"`
}

func toSaleResponse(s models.Sale) SaleResponse {
	items := make([]SaleItemResponse, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, SaleItemResponse{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		})
	}
	return SaleResponse{
		ID:        s.ID,
		Total:     s.Total,
		Items:     items,
		CreatedAt: s.CreatedAt.Format(time.RFC3339),
	}
}

// POST /api/sales
func CreateSaleHandler(watcher *monitor.Watcher) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenantID, err := auth.TenantID(c)
		if err != nil {
			return err
		}

		var body CreateSaleRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if len(body.Items) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "a sale needs at least one item")
		}
		switch body.Method {
		case models.CashMethodCash, models.CashMethodCard, models.CashMethodPix:
		default:
			return fiber.NewError(fiber.StatusBadRequest, "invalid method (cash|card|pix)")
		}
		for _, it := range body.Items {
			if strings.TrimSpace(it.ProductID) == "" || it.Quantity <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "each item needs a product_id and a positive quantity")
			}
		}

		sale := models.Sale{ID: uuid.NewString(), TenantID: tenantID}
		var changes []monitor.ProductChange

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			for _, it := range body.Items {
				var product models.Product
				if err := tx.Where("tenant_id = ? AND id = ?", tenantID, it.ProductID).
					First(&product).Error; err != nil {
					return fiber.NewError(fiber.StatusNotFound, fmt.Sprintf("product %s not found", it.ProductID))
				}

				// Conditional decrement: the quantity guard makes the
				// write fail instead of going negative under concurrent
				// sales.
				res := tx.Model(&models.Product{}).
					Where("tenant_id = ? AND id = ? AND quantity >= ?", tenantID, it.ProductID, it.Quantity).
					Update("quantity", gorm.Expr("quantity - ?", it.Quantity))
				if res.Error != nil {
					return res.Error
				}
				if res.RowsAffected == 0 {
					return fiber.NewError(fiber.StatusConflict,
						fmt.Sprintf("insufficient stock for %s", product.Name))
				}

				// Re-read inside the transaction: the guarded update
				// serializes concurrent decrements on the row, so this is
				// the true post-write quantity and old = new + sold is a
				// genuine pair even when two sales race on the same
				// product.
				var after models.Product
				if err := tx.Select("quantity").
					Where("tenant_id = ? AND id = ?", tenantID, it.ProductID).
					Take(&after).Error; err != nil {
					return err
				}
				newQty := after.Quantity
				oldQty := newQty + it.Quantity
				changes = append(changes, monitor.ProductChange{
					TenantID:    tenantID,
					ProductID:   product.ID,
					OldQuantity: &oldQty,
					NewQuantity: newQty,
				})

				sale.Items = append(sale.Items, models.SaleItem{
					ProductID:   product.ID,
					ProductName: product.Name,
					Quantity:    it.Quantity,
					UnitPrice:   product.Price,
				})
				sale.Total += product.Price * float64(it.Quantity)
			}

			if err := tx.Create(&sale).Error; err != nil {
				return err
			}

			now := time.Now()
			movement := models.CashMovement{
				TenantID:    tenantID,
				Date:        time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()),
				Method:      body.Method,
				Direction:   "in",
				Amount:      sale.Total,
				Description: fmt.Sprintf("Sale %s", sale.ID),
			}
			return tx.Create(&movement).Error
		})
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				return fe
			}
			return fiber.NewError(fiber.StatusInternalServerError, "could not record sale")
		}

		// Publish only after the transaction committed, in item order.
		for _, ch := range changes {
			watcher.ProductChanged(ch)
		}

		return c.Status(fiber.StatusCreated).JSON(toSaleResponse(sale))
	}
}

// GET /api/sales
func ListSalesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenantID, err := auth.TenantID(c)
		if err != nil {
			return err
		}

		var sales []models.Sale
		if err := database.DB.
			Where("tenant_id = ?", tenantID).
			Preload("Items").
			Order("created_at desc").
			Limit(200).
			Find(&sales).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list sales")
		}

		resp := make([]SaleResponse, 0, len(sales))
		for _, s := range sales {
			resp = append(resp, toSaleResponse(s))
		}
		return c.JSON(resp)
	}
}
