package cashflow

import (
	"time"

	"same-backend/internal/auth"
	"same-backend/internal/database"
	"same-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateCashMovementRequest struct {
	Date        *string           `json:"date"`   // "2025-12-09", empty means today
	Method      models.CashMethod `json:"method"` // "cash" | "card" | "pix"
	Direction   string            `json:"direction"`
	Amount      float64           `json:"amount"`
	Description string            `json:"description"`
}

type CashMovementResponse struct {
	ID          uint              `json:"id"`
	Date        string            `json:"date"`
	Method      models.CashMethod `json:"method"`
	Direction   string            `json:"direction"`
	Amount      float64           `json:"amount"`
	Description string            `json:"description"`
}

type MonthlySummaryItem struct {
	Method models.CashMethod `json:"method"`
	In     float64           `json:"in"`
	Out    float64           `json:"out"`
}

type MonthlySummaryResponse struct {
	Year    int                  `json:"year"`
	Month   int                  `json:"month"`
	Items   []MonthlySummaryItem `json:"items"`
	Balance float64              `json:"balance"`
}

func toMovementResponse(m models.CashMovement) CashMovementResponse {
	return CashMovementResponse{
		ID:          m.ID,
		Date:        m.Date.Format("2006-01-02"),
		Method:      m.Method,
		Direction:   m.Direction,
		Amount:      m.Amount,
		Description: m.Description,
	}
}

// -------------------------------------------------
// POST /api/cash-movements
// -------------------------------------------------
func CreateCashMovementHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenantID, err := auth.TenantID(c)
		if err != nil {
			return err
		}

		var body CreateCashMovementRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if body.Amount <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "amount must be greater than 0")
		}
		switch body.Method {
		case models.CashMethodCash, models.CashMethodCard, models.CashMethodPix:
		default:
			return fiber.NewError(fiber.StatusBadRequest, "invalid method (cash|card|pix)")
		}
		if body.Direction != "in" && body.Direction != "out" {
			return fiber.NewError(fiber.StatusBadRequest, "direction must be 'in' or 'out'")
		}

		var date time.Time
		if body.Date == nil || *body.Date == "" {
			now := time.Now()
			date = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		} else {
			d, err := time.Parse("2006-01-02", *body.Date)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "date must be 'YYYY-MM-DD'")
			}
			date = d
		}

		mov := models.CashMovement{
			TenantID:    tenantID,
			Date:        date,
			Method:      body.Method,
			Direction:   body.Direction,
			Amount:      body.Amount,
			Description: body.Description,
		}
		if err := database.DB.Create(&mov).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not record movement")
		}

		return c.Status(fiber.StatusCreated).JSON(toMovementResponse(mov))
	}
}

// -------------------------------------------------
// GET /api/cash-movements?year=&month=
// -------------------------------------------------
func ListCashMovementsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenantID, err := auth.TenantID(c)
		if err != nil {
			return err
		}

		q := database.DB.Where("tenant_id = ?", tenantID)
		if year := c.QueryInt("year"); year > 0 {
			month := c.QueryInt("month")
			if month < 1 || month > 12 {
				return fiber.NewError(fiber.StatusBadRequest, "month must be 1-12")
			}
			start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
			q = q.Where("date >= ? AND date < ?", start, start.AddDate(0, 1, 0))
		}

		var movements []models.CashMovement
		if err := q.Order("date desc, id desc").Limit(500).Find(&movements).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list movements")
		}

		resp := make([]CashMovementResponse, 0, len(movements))
		for _, m := range movements {
			resp = append(resp, toMovementResponse(m))
		}
		return c.JSON(resp)
	}
}

// -------------------------------------------------
// GET /api/cash-movements/summary/monthly?year=&month=
// -------------------------------------------------
func MonthlySummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenantID, err := auth.TenantID(c)
		if err != nil {
			return err
		}

		year := c.QueryInt("year")
		month := c.QueryInt("month")
		if year <= 0 || month < 1 || month > 12 {
			return fiber.NewError(fiber.StatusBadRequest, "year and month (1-12) are required")
		}
		start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)

		type row struct {
			Method    models.CashMethod
			Direction string
			Total     float64
		}
		var rows []row
		err = database.DB.Model(&models.CashMovement{}).
			Select("method, direction, SUM(amount) as total").
			Where("tenant_id = ? AND date >= ? AND date < ?", tenantID, start, start.AddDate(0, 1, 0)).
			Group("method, direction").
			Scan(&rows).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not build summary")
		}

		byMethod := map[models.CashMethod]*MonthlySummaryItem{}
		balance := 0.0
		for _, r := range rows {
			item, ok := byMethod[r.Method]
			if !ok {
				item = &MonthlySummaryItem{Method: r.Method}
				byMethod[r.Method] = item
			}
			if r.Direction == "out" {
				item.Out += r.Total
				balance -= r.Total
			} else {
				item.In += r.Total
				balance += r.Total
			}
		}

		items := make([]MonthlySummaryItem, 0, len(byMethod))
		for _, m := range []models.CashMethod{models.CashMethodCash, models.CashMethodCard, models.CashMethodPix} {
			if item, ok := byMethod[m]; ok {
				items = append(items, *item)
			}
		}

		return c.JSON(MonthlySummaryResponse{
			Year:    year,
			Month:   month,
			Items:   items,
			Balance: balance,
		})
	}
}
