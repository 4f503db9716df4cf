package inventory

import (
	"fmt"
	"time"

	"same-backend/internal/auth"
	"same-backend/internal/database"
	"same-backend/internal/models"
	"same-backend/internal/stock"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

// GET /api/products/export
//
// Builds an XLSX stock report of the tenant's products. Rows at or below
// the critical threshold are highlighted.
func ExportProductsHandler() fiber.Handler {
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
			return fiber.NewError(fiber.StatusInternalServerError, "could not load products")
		}

		f := excelize.NewFile()
		defer f.Close()

		const sheet = "Estoque"
		f.SetSheetName("Sheet1", sheet)

		headerStyle, err := f.NewStyle(&excelize.Style{
			Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
			Fill: excelize.Fill{Type: "pattern", Color: []string{"0EA5E9"}, Pattern: 1},
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not build spreadsheet")
		}
		criticalStyle, err := f.NewStyle(&excelize.Style{
			Font: &excelize.Font{Color: "EF4444", Bold: true},
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not build spreadsheet")
		}

		headers := []string{"Produto", "SKU", "Quantidade", "Unidade", "Preço", "Validade"}
		for i, h := range headers {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			f.SetCellValue(sheet, cell, h)
			f.SetCellStyle(sheet, cell, cell, headerStyle)
		}
		f.SetColWidth(sheet, "A", "A", 32)
		f.SetColWidth(sheet, "B", "F", 14)

		var classifier stock.Classifier
		for i, p := range products {
			row := i + 2
			sku := p.SKU
			if sku == "" {
				sku = "N/A"
			}
			expiry := ""
			if p.ExpiryDate != nil {
				expiry = p.ExpiryDate.Format("02/01/2006")
			}
			f.SetCellValue(sheet, fmt.Sprintf("A%d", row), p.Name)
			f.SetCellValue(sheet, fmt.Sprintf("B%d", row), sku)
			f.SetCellValue(sheet, fmt.Sprintf("C%d", row), p.Quantity)
			f.SetCellValue(sheet, fmt.Sprintf("D%d", row), p.Unit)
			f.SetCellValue(sheet, fmt.Sprintf("E%d", row), p.Price)
			f.SetCellValue(sheet, fmt.Sprintf("F%d", row), expiry)

			if classifier.IsCritical(p.Quantity) {
				f.SetCellStyle(sheet, fmt.Sprintf("C%d", row), fmt.Sprintf("C%d", row), criticalStyle)
			}
		}

		buf, err := f.WriteToBuffer()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not write spreadsheet")
		}

		filename := fmt.Sprintf("estoque-%s.xlsx", time.Now().Format("2006-01-02"))
		c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		return c.Send(buf.Bytes())
	}
}
