package main

import (
	"context"
	"log"
	"strings"

	"same-backend/internal/auth"
	"same-backend/internal/cashflow"
	"same-backend/internal/config"
	"same-backend/internal/database"
	"same-backend/internal/inventory"
	"same-backend/internal/logger"
	"same-backend/internal/monitor"
	"same-backend/internal/notify"
	"same-backend/internal/sales"
	"same-backend/internal/supplier"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	zlog, err := logger.New(cfg.AppEnv)
	if err != nil {
		log.Fatalf("could not build logger: %v", err)
	}
	defer zlog.Sync() //nolint:errcheck

	// A missing database keeps the process alive in degraded mode: the
	// monitor endpoints report success=false until it comes back.
	if err := database.Init(cfg); err != nil {
		zlog.Warn("database unavailable, starting in degraded mode", zap.Error(err))
	}

	var mailer notify.Mailer
	if cfg.SMTPHost != "" {
		mailer, err = notify.NewSMTPMailer(cfg)
		if err != nil {
			zlog.Fatal("could not build smtp client", zap.Error(err))
		}
	} else {
		mailer = &notify.LogMailer{Logger: zlog}
	}

	dispatcher := notify.NewDispatcher(mailer, database.DB, zlog)
	svc := monitor.NewService(database.DB, dispatcher, zlog)
	watcher := monitor.NewWatcher(svc, zlog)
	watcher.Start(context.Background())
	defer watcher.Stop()

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			zlog.Error("unexpected error", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "unexpected server error",
			})
		},
	})

	app.Use(recover.New())

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	// Monitoring surface (no tenant auth; optionally token-gated)
	app.Get("/health", monitor.HealthHandler())
	mon := app.Group("", monitor.RequireMonitorToken(cfg))
	mon.Post("/monitor-products", monitor.MonitorProductsHandler(svc))
	mon.Post("/check-product/:tenantId/:productId", monitor.CheckProductHandler(svc))

	// Degraded mode: the tenant API is unavailable without the store.
	api := app.Group("/api", database.RequireAvailable())

	// Public auth
	api.Post("/auth/register", auth.RegisterHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Products
	protected.Post("/products", inventory.CreateProductHandler(watcher))
	protected.Get("/products", inventory.ListProductsHandler())
	protected.Get("/products/export", inventory.ExportProductsHandler())
	protected.Get("/products/:id", inventory.GetProductHandler())
	protected.Put("/products/:id", inventory.UpdateProductHandler(watcher))
	protected.Delete("/products/:id", inventory.DeleteProductHandler())

	// Suppliers
	protected.Post("/suppliers", supplier.CreateSupplierHandler(svc))
	protected.Get("/suppliers", supplier.ListSuppliersHandler())
	protected.Put("/suppliers/:id", supplier.UpdateSupplierHandler(svc))
	protected.Delete("/suppliers/:id", supplier.DeleteSupplierHandler())

	// Sales
	protected.Post("/sales", sales.CreateSaleHandler(watcher))
	protected.Get("/sales", sales.ListSalesHandler())

	// Cash flow
	protected.Post("/cash-movements", cashflow.CreateCashMovementHandler())
	protected.Get("/cash-movements", cashflow.ListCashMovementsHandler())
	protected.Get("/cash-movements/summary/monthly", cashflow.MonthlySummaryHandler())

	// Notification journal
	protected.Get("/notifications", notify.ListNotificationsHandler())

	zlog.Info("server listening", zap.String("port", cfg.HTTPPort))
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}
