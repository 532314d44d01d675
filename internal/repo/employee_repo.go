package repo

import (
	"context"
	"strings"

	"github.com/thriftstore/pos/internal/db"
	"go.uber.org/zap"
)

// EmployeeRepository handles staff records
type EmployeeRepository struct {
	db  *db.DB
	log *zap.Logger
}

// NewEmployeeRepository creates a new employee repository
func NewEmployeeRepository(database *db.DB, logger *zap.Logger) *EmployeeRepository {
	return &EmployeeRepository{
		db:  database,
		log: logger,
	}
}

// ListEmployees returns all employees ordered by id
func (r *EmployeeRepository) ListEmployees(ctx context.Context) ([]db.Employee, error) {
	employees := []db.Employee{}
	if err := r.db.WithContext(ctx).Order("id").Find(&employees).Error; err != nil {
		return nil, readFailure(r.log, "list employees", err)
	}
	return employees, nil
}

// AddEmployee creates an employee
func (r *EmployeeRepository) AddEmployee(ctx context.Context, employee *db.Employee) error {
	employee.FirstName = strings.TrimSpace(employee.FirstName)
	employee.LastName = strings.TrimSpace(employee.LastName)
	if employee.FirstName == "" || employee.LastName == "" || strings.TrimSpace(employee.Role) == "" {
		return invalidInput("first name, last name and role are required")
	}
	if employee.Salary < 0 {
		return invalidInput("salary must not be negative")
	}
	if err := r.db.WithContext(ctx).Create(employee).Error; err != nil {
		return writeFailure(r.log, "add employee", err)
	}
	r.log.Info("Employee added", zap.Uint("employee_id", employee.ID), zap.String("role", employee.Role))
	return nil
}

// SalesTotal returns the lifetime total of sales processed by the employee in cents
func (r *EmployeeRepository) SalesTotal(ctx context.Context, employeeID uint) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Raw(`SELECT COALESCE(SUM(total_amount), 0) FROM transactions WHERE employee_id = ?`, employeeID).
		Row().Scan(&total)
	if err != nil {
		return 0, readFailure(r.log, "sum employee sales", err, zap.Uint("employee_id", employeeID))
	}
	return total, nil
}
