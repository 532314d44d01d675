package api

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/thriftstore/pos/internal/db"
	"github.com/thriftstore/pos/internal/events"
)

type addCategoryRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description"`
}

type addSupplierRequest struct {
	Name    string `json:"name" validate:"required,max=150"`
	Contact string `json:"contact" validate:"max=150"`
}

type addItemRequest struct {
	Name       string          `json:"name" validate:"required,max=255"`
	Condition  string          `json:"condition" validate:"required,oneof='New' 'Like New' 'Good' 'Fair' 'Poor'"`
	Price      decimal.Decimal `json:"price"`
	CategoryID uint            `json:"category_id" validate:"required"`
	SupplierID *uint           `json:"supplier_id" validate:"omitempty,gt=0"`
	Quantity   int             `json:"quantity" validate:"gte=0"`
	Location   string          `json:"location" validate:"max=100"`
}

type updatePriceRequest struct {
	Price decimal.Decimal `json:"price"`
}

type addStockRequest struct {
	Quantity int    `json:"quantity" validate:"required,gt=0"`
	Location string `json:"location" validate:"max=100"`
}

// GET /api/categories
func (h *Handler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.Categories.ListCategories(c.UserContext())
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "", categories)
}

// POST /api/categories
func (h *Handler) AddCategory(c *fiber.Ctx) error {
	var req addCategoryRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	category := &db.Category{Name: req.Name, Description: req.Description}
	if err := h.Categories.AddCategory(c.UserContext(), category); err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, "Category added", category)
}

// GET /api/suppliers
func (h *Handler) ListSuppliers(c *fiber.Ctx) error {
	suppliers, err := h.Catalog.ListSuppliers(c.UserContext())
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "", suppliers)
}

// POST /api/suppliers
func (h *Handler) AddSupplier(c *fiber.Ctx) error {
	var req addSupplierRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	supplier := &db.Supplier{Name: req.Name, Contact: req.Contact}
	if err := h.Catalog.AddSupplier(c.UserContext(), supplier); err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, "Supplier added", supplier)
}

// GET /api/items
func (h *Handler) ListItems(c *fiber.Ctx) error {
	items, err := h.Catalog.ListItems(c.UserContext())
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "", items)
}

// GET /api/items/:id
func (h *Handler) GetItem(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	item, err := h.Catalog.GetItem(c.UserContext(), id)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "", item)
}

// POST /api/items
// An optional opening quantity is added to inventory after the item is created.
func (h *Handler) AddItem(c *fiber.Ctx) error {
	var req addItemRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	price, err := cents("price", req.Price)
	if err != nil {
		return err
	}

	ctx := c.UserContext()
	item := &db.Item{
		Name:       req.Name,
		Condition:  req.Condition,
		Price:      price,
		CategoryID: req.CategoryID,
		SupplierID: req.SupplierID,
	}
	if err := h.Catalog.AddItem(ctx, item); err != nil {
		return err
	}
	if req.Quantity > 0 {
		if _, err := h.restock(ctx, item.ID, req.Quantity, req.Location); err != nil {
			return err
		}
	}

	row, err := h.Catalog.GetItem(ctx, item.ID)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, "Item added", row)
}

// PUT /api/items/:id/price
func (h *Handler) UpdateItemPrice(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req updatePriceRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	price, err := cents("price", req.Price)
	if err != nil {
		return err
	}

	previous, err := h.Catalog.UpdateItemPrice(c.UserContext(), id, price)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Price updated", fiber.Map{
		"item_id":        id,
		"previous_price": previous,
		"price":          price,
	})
}

// POST /api/inventory/:id/stock
func (h *Handler) AddStock(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req addStockRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	quantity, err := h.restock(c.UserContext(), id, req.Quantity, req.Location)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Stock added", fiber.Map{
		"item_id":            id,
		"added":              req.Quantity,
		"quantity_available": quantity,
	})
}

// GET /api/inventory/low-stock?threshold=5
func (h *Handler) LowStock(c *fiber.Ctx) error {
	threshold := c.QueryInt("threshold", h.LowStockThreshold)
	rows, err := h.Reports.LowStock(c.UserContext(), threshold)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "", fiber.Map{
		"threshold": threshold,
		"items":     rows,
	})
}

func (h *Handler) restock(ctx context.Context, itemID uint, quantity int, location string) (int, error) {
	newQuantity, err := h.Inventory.AddStock(ctx, itemID, quantity, location)
	if err != nil {
		return 0, err
	}
	h.Metrics.Restocked()

	if h.Publisher != nil {
		h.Events.Go(ctx, events.EventTypeInventoryRestock, func(ctx context.Context) error {
			return h.Publisher.PublishRestocked(ctx, itemID, quantity, newQuantity)
		})
	}
	return newQuantity, nil
}
