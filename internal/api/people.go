package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/thriftstore/pos/internal/db"
)

type addEmployeeRequest struct {
	FirstName string          `json:"first_name" validate:"required,max=100"`
	LastName  string          `json:"last_name" validate:"required,max=100"`
	Role      string          `json:"role" validate:"required,max=50"`
	Salary    decimal.Decimal `json:"salary"`
}

type addDonorRequest struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Phone     string `json:"phone" validate:"omitempty,max=20"`
}

type addDonationRequest struct {
	DonorID        uint            `json:"donor_id" validate:"required"`
	EmployeeID     uint            `json:"employee_id" validate:"required"`
	EstimatedValue decimal.Decimal `json:"estimated_value"`
}

// GET /api/employees
func (h *Handler) ListEmployees(c *fiber.Ctx) error {
	employees, err := h.Employees.ListEmployees(c.UserContext())
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "", employees)
}

// POST /api/employees
func (h *Handler) AddEmployee(c *fiber.Ctx) error {
	var req addEmployeeRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	salary, err := cents("salary", req.Salary)
	if err != nil {
		return err
	}
	employee := &db.Employee{FirstName: req.FirstName, LastName: req.LastName, Role: req.Role, Salary: salary}
	if err := h.Employees.AddEmployee(c.UserContext(), employee); err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, "Employee added", employee)
}

// GET /api/employees/:id/sales
func (h *Handler) EmployeeSales(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	total, err := h.Employees.SalesTotal(c.UserContext(), id)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "", fiber.Map{
		"employee_id": id,
		"total_sales": total,
	})
}

// GET /api/donors
func (h *Handler) ListDonors(c *fiber.Ctx) error {
	donors, err := h.Donations.ListDonors(c.UserContext())
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "", donors)
}

// POST /api/donors
func (h *Handler) AddDonor(c *fiber.Ctx) error {
	var req addDonorRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	donor, err := h.Donations.AddDonor(c.UserContext(), req.FirstName, req.LastName, req.Phone)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, "Donor added", donor)
}

// GET /api/donations
func (h *Handler) ListDonations(c *fiber.Ctx) error {
	donations, err := h.Donations.ListDonations(c.UserContext())
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "", donations)
}

// POST /api/donations
func (h *Handler) AddDonation(c *fiber.Ctx) error {
	var req addDonationRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	value, err := cents("estimated_value", req.EstimatedValue)
	if err != nil {
		return err
	}
	donation, err := h.Donations.AddDonation(c.UserContext(), req.DonorID, req.EmployeeID, value)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, "Donation recorded", donation)
}
