package api

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/thriftstore/pos/internal/sales"
)

type stageRequest struct {
	Cart     sales.Cart `json:"cart"`
	ItemID   uint       `json:"item_id" validate:"required"`
	Quantity int        `json:"quantity" validate:"required,gt=0"`
}

type commitRequest struct {
	ItemID   uint `json:"item_id" validate:"required"`
	Quantity int  `json:"quantity" validate:"required,gt=0"`
}

type checkoutRequest struct {
	Cart sales.Cart `json:"cart"`
	sales.Header
}

// POST /api/sales/stage
// Returns the cart with the new line appended. The client keeps the cart
// between requests.
func (h *Handler) StageItem(c *fiber.Ctx) error {
	var req stageRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	line, err := h.Sales.Stage(c.UserContext(), &req.Cart, req.ItemID, req.Quantity)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, fmt.Sprintf("Staged %d × %s", line.Quantity, line.Name), fiber.Map{
		"cart":  req.Cart,
		"total": req.Cart.Total(),
	})
}

// POST /api/sales/checkout
// Every staged line is attempted and charged at the stored item price. When
// some lines are rejected the committed ones stay, and the receipt is
// returned with success=false and 409.
func (h *Handler) Checkout(c *fiber.Ctx) error {
	var req checkoutRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	receipt, err := h.Sales.Finalize(c.UserContext(), &req.Cart, req.Header)
	if err != nil {
		return err
	}
	if !receipt.Complete() {
		return fail(c, fiber.StatusConflict,
			fmt.Sprintf("%d of %d lines could not be committed", receipt.Rejected(), len(receipt.Lines)),
			receipt)
	}
	return respond(c, fiber.StatusCreated, "Sale completed", receipt)
}

// POST /api/transactions
// Opens an empty transaction. Lines are added one at a time with
// POST /api/transactions/:id/items.
func (h *Handler) CreateTransaction(c *fiber.Ctx) error {
	var req sales.Header
	if err := bind(c, &req); err != nil {
		return err
	}

	transaction, err := h.Sales.CreateHeader(c.UserContext(), req)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, "Transaction created", transaction)
}

// POST /api/transactions/:id/items
// Commits one line to an open transaction at the item's current price.
func (h *Handler) CommitLineItem(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req commitRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	result, err := h.Sales.CommitLine(c.UserContext(), id, req.ItemID, req.Quantity)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, "Line item committed", fiber.Map{
		"item":               result.Item,
		"remaining_quantity": result.RemainingQuantity,
		"transaction_total":  result.TransactionTotal,
	})
}

// GET /api/transactions/:id
func (h *Handler) GetTransaction(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	transaction, err := h.Transactions.GetTransaction(c.UserContext(), id)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "", transaction)
}
