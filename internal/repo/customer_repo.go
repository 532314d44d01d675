package repo

import (
	"context"
	"strings"
	"time"

	"github.com/thriftstore/pos/internal/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CustomerRow is a customer joined with its contact details
type CustomerRow struct {
	CustomerID uint   `json:"customer_id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
}

// PurchaseRow is one committed line of a customer's purchase history
type PurchaseRow struct {
	TransactionID   uint      `json:"transaction_id"`
	TransactionDate time.Time `json:"transaction_date"`
	PaymentMode     string    `json:"payment_mode"`
	ItemID          uint      `json:"item_id"`
	ItemName        string    `json:"item_name"`
	Quantity        int       `json:"quantity"`
	UnitPrice       int64     `json:"unit_price"`
	LineAmount      int64     `json:"line_amount"`
	TotalAmount     int64     `json:"total_amount"`
}

// CustomerRepository handles customer records and their contact side tables
type CustomerRepository struct {
	db  *db.DB
	log *zap.Logger
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(database *db.DB, logger *zap.Logger) *CustomerRepository {
	return &CustomerRepository{
		db:  database,
		log: logger,
	}
}

// AddCustomer inserts a customer together with its phone and email in one unit of work
func (r *CustomerRepository) AddCustomer(ctx context.Context, firstName, lastName, phone, email string) (*db.Customer, error) {
	firstName, lastName = strings.TrimSpace(firstName), strings.TrimSpace(lastName)
	if firstName == "" || lastName == "" {
		return nil, invalidInput("first and last name are required")
	}

	customer := &db.Customer{FirstName: firstName, LastName: lastName}
	if phone = strings.TrimSpace(phone); phone != "" {
		customer.Phone = &db.CustomerPhone{Phone: phone}
	}
	if email = strings.TrimSpace(email); email != "" {
		customer.Email = &db.CustomerEmail{Email: email}
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(customer).Error
	})
	if err != nil {
		return nil, writeFailure(r.log, "add customer", err, zap.String("last_name", lastName))
	}

	r.log.Info("Customer added", zap.Uint("customer_id", customer.ID))
	return customer, nil
}

// GetCustomer retrieves a customer with contact details
func (r *CustomerRepository) GetCustomer(ctx context.Context, id uint) (*db.Customer, error) {
	var customer db.Customer
	err := r.db.WithContext(ctx).Preload("Phone").Preload("Email").First(&customer, id).Error
	if err != nil {
		return nil, readFailure(r.log, "get customer", err, zap.Uint("customer_id", id))
	}
	return &customer, nil
}

// ListCustomers returns all customers, newest first
func (r *CustomerRepository) ListCustomers(ctx context.Context) ([]CustomerRow, error) {
	rows := []CustomerRow{}
	err := r.db.WithContext(ctx).Raw(`
		SELECT c.id AS customer_id, c.first_name, c.last_name,
		       COALESCE(cp.phone, '') AS phone, COALESCE(ce.email, '') AS email
		FROM customers c
		LEFT JOIN customer_phones cp ON cp.customer_id = c.id
		LEFT JOIN customer_emails ce ON ce.customer_id = c.id
		ORDER BY c.id DESC`).Scan(&rows).Error
	if err != nil {
		return nil, readFailure(r.log, "list customers", err)
	}
	return rows, nil
}

// PurchaseHistory returns every committed line bought by the customer, newest first
func (r *CustomerRepository) PurchaseHistory(ctx context.Context, customerID uint) ([]PurchaseRow, error) {
	rows := []PurchaseRow{}
	err := r.db.WithContext(ctx).Raw(`
		SELECT t.id AS transaction_id, t.transaction_date, t.payment_mode,
		       ti.item_id, i.name AS item_name, ti.quantity, ti.unit_price, ti.line_amount,
		       t.total_amount
		FROM transactions t
		JOIN transaction_items ti ON ti.transaction_id = t.id
		JOIN items i ON i.id = ti.item_id
		WHERE t.customer_id = ?
		ORDER BY t.transaction_date DESC, t.id DESC, ti.id`, customerID).Scan(&rows).Error
	if err != nil {
		return nil, readFailure(r.log, "get purchase history", err, zap.Uint("customer_id", customerID))
	}
	return rows, nil
}

// TotalPurchases returns the customer's lifetime purchase total in cents
func (r *CustomerRepository) TotalPurchases(ctx context.Context, customerID uint) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Raw(`SELECT COALESCE(SUM(total_amount), 0) FROM transactions WHERE customer_id = ?`, customerID).
		Row().Scan(&total)
	if err != nil {
		return 0, readFailure(r.log, "sum customer purchases", err, zap.Uint("customer_id", customerID))
	}
	return total, nil
}
