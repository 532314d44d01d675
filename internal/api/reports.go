package api

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/thriftstore/pos/internal/repo"
)

// GET /api/reports/dashboard
func (h *Handler) Dashboard(c *fiber.Ctx) error {
	stats, err := h.Reports.Dashboard(c.UserContext(), h.LowStockThreshold)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "", stats)
}

// GET /api/reports/sales?from=2024-01&to=2024-03
// Both months are included.
func (h *Handler) SalesReport(c *fiber.Ctx) error {
	from, err := yearMonthQuery(c, "from")
	if err != nil {
		return err
	}
	to, err := yearMonthQuery(c, "to")
	if err != nil {
		return err
	}

	report, err := h.Reports.SalesReport(c.UserContext(), from, to)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "", report)
}

// GET /api/reports/inventory
func (h *Handler) InventoryReport(c *fiber.Ctx) error {
	rows, err := h.Reports.InventoryValuation(c.UserContext())
	if err != nil {
		return err
	}
	var total int64
	for _, row := range rows {
		total += row.Value
	}
	return respond(c, fiber.StatusOK, "", fiber.Map{
		"categories":  rows,
		"total_value": total,
	})
}

// GET /api/reports/categories/:id/value
func (h *Handler) CategoryValue(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	value, err := h.Reports.CategoryInventoryValue(c.UserContext(), id)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "", fiber.Map{
		"category_id": id,
		"value":       value,
	})
}

// GET /api/reports/employees
func (h *Handler) EmployeePerformance(c *fiber.Ctx) error {
	rows, err := h.Reports.EmployeePerformance(c.UserContext())
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "", rows)
}

func yearMonthQuery(c *fiber.Ctx, name string) (repo.YearMonth, error) {
	value := c.Query(name)
	parsed, err := time.Parse("2006-01", value)
	if err != nil {
		return repo.YearMonth{}, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("%s must be a month formatted YYYY-MM", name))
	}
	return repo.YearMonth{Year: parsed.Year(), Month: parsed.Month()}, nil
}
