package api

import (
	"github.com/gofiber/fiber/v2"
)

type addCustomerRequest struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Phone     string `json:"phone" validate:"omitempty,max=20"`
	Email     string `json:"email" validate:"omitempty,email,max=255"`
}

// GET /api/customers
func (h *Handler) ListCustomers(c *fiber.Ctx) error {
	rows, err := h.Customers.ListCustomers(c.UserContext())
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "", rows)
}

// POST /api/customers
func (h *Handler) AddCustomer(c *fiber.Ctx) error {
	var req addCustomerRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	customer, err := h.Customers.AddCustomer(c.UserContext(), req.FirstName, req.LastName, req.Phone, req.Email)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, "Customer added", customer)
}

// GET /api/customers/:id
func (h *Handler) GetCustomer(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	customer, err := h.Customers.GetCustomer(c.UserContext(), id)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "", customer)
}

// GET /api/customers/:id/purchases
func (h *Handler) CustomerPurchases(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	ctx := c.UserContext()
	if _, err := h.Customers.GetCustomer(ctx, id); err != nil {
		return err
	}
	history, err := h.Customers.PurchaseHistory(ctx, id)
	if err != nil {
		return err
	}
	total, err := h.Customers.TotalPurchases(ctx, id)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "", fiber.Map{
		"customer_id":     id,
		"purchases":       history,
		"total_purchases": total,
	})
}
