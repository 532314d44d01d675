// Package api exposes the store operations over HTTP with fiber. Every
// response uses the same envelope: {"success", "message", "data"}.
package api

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/thriftstore/pos/internal/cache"
	"github.com/thriftstore/pos/internal/events"
	"github.com/thriftstore/pos/internal/metrics"
	"github.com/thriftstore/pos/internal/repo"
	"github.com/thriftstore/pos/internal/sales"
	"go.uber.org/zap"
)

// RestockPublisher receives inventory additions
type RestockPublisher interface {
	PublishRestocked(ctx context.Context, itemID uint, delta, newQuantity int) error
}

// Deps are the services the handlers call into
type Deps struct {
	Customers         *repo.CustomerRepository
	Catalog           *repo.CatalogRepository
	Categories        cache.CategoryStore
	Inventory         *repo.InventoryRepository
	Employees         *repo.EmployeeRepository
	Donations         *repo.DonationRepository
	Transactions      *repo.TransactionRepository
	Reports           *repo.ReportRepository
	Sales             *sales.Processor
	Publisher         RestockPublisher
	Events            *events.Dispatcher
	Metrics           *metrics.Metrics
	LowStockThreshold int
	Log               *zap.Logger
}

// Handler holds the dependencies of the HTTP handlers
type Handler struct {
	Deps
}

// NewApp builds the fiber application with middleware and all routes
func NewApp(deps Deps) *fiber.App {
	if deps.Categories == nil {
		deps.Categories = deps.Catalog
	}
	if deps.Events == nil {
		deps.Events = events.NewDispatcher(0, deps.Log)
	}
	h := &Handler{Deps: deps}

	app := fiber.New(fiber.Config{
		AppName:               "thriftd",
		ErrorHandler:          errorHandler(deps.Log),
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(requestLogger(deps.Log, deps.Metrics))

	api := app.Group("/api")

	api.Get("/customers", h.ListCustomers)
	api.Post("/customers", h.AddCustomer)
	api.Get("/customers/:id", h.GetCustomer)
	api.Get("/customers/:id/purchases", h.CustomerPurchases)

	api.Get("/categories", h.ListCategories)
	api.Post("/categories", h.AddCategory)
	api.Get("/suppliers", h.ListSuppliers)
	api.Post("/suppliers", h.AddSupplier)

	api.Get("/items", h.ListItems)
	api.Post("/items", h.AddItem)
	api.Get("/items/:id", h.GetItem)
	api.Put("/items/:id/price", h.UpdateItemPrice)

	api.Post("/inventory/:id/stock", h.AddStock)
	api.Get("/inventory/low-stock", h.LowStock)

	api.Get("/employees", h.ListEmployees)
	api.Post("/employees", h.AddEmployee)
	api.Get("/employees/:id/sales", h.EmployeeSales)

	api.Get("/donors", h.ListDonors)
	api.Post("/donors", h.AddDonor)
	api.Get("/donations", h.ListDonations)
	api.Post("/donations", h.AddDonation)

	api.Post("/sales/stage", h.StageItem)
	api.Post("/sales/checkout", h.Checkout)
	api.Post("/transactions", h.CreateTransaction)
	api.Post("/transactions/:id/items", h.CommitLineItem)
	api.Get("/transactions/:id", h.GetTransaction)

	api.Get("/reports/dashboard", h.Dashboard)
	api.Get("/reports/sales", h.SalesReport)
	api.Get("/reports/inventory", h.InventoryReport)
	api.Get("/reports/categories/:id/value", h.CategoryValue)
	api.Get("/reports/employees", h.EmployeePerformance)

	return app
}
