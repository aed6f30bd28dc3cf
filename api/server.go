// Package api is the HTTP transport over the ledger engine.
package api

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"moneymanager/backend/appcontext"
)

const (
	defaultAllowMethods = "POST, GET, OPTIONS, PUT, DELETE, PATCH"
	defaultAllowHeaders = "Accept, Content-Type, Content-Length, Accept-Encoding, Authorization"
)

// NewServer builds the fiber application with its middleware and routes.
func NewServer(svc Ledger, logger *slog.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "money-manager",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowMethods: defaultAllowMethods,
		AllowHeaders: defaultAllowHeaders,
	}))
	app.Use(func(c *fiber.Ctx) error {
		c.SetUserContext(appcontext.WithLogger(c.UserContext(), logger))
		return c.Next()
	})

	h := &Handler{svc: svc}

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Money Manager API is running...")
	})

	transactions := app.Group("/api/transactions")
	transactions.Get("/", h.ListTransactions)
	transactions.Post("/", h.CreateTransaction)
	transactions.Get("/analytics/summary", h.GetAnalytics)
	transactions.Get("/analytics/timeseries", h.GetTimeSeries)
	transactions.Put("/:id", h.UpdateTransaction)
	transactions.Delete("/:id", h.DeleteTransaction)

	return app
}
