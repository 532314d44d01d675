package repo

import (
	"context"
	"time"

	"github.com/thriftstore/pos/internal/db"
	"go.uber.org/zap"
)

// DefaultLowStockThreshold is used when no threshold is configured
const DefaultLowStockThreshold = 5

// YearMonth is an inclusive month bound for sales reports
type YearMonth struct {
	Year  int
	Month time.Month
}

func (ym YearMonth) valid() bool {
	return ym.Year > 0 && ym.Month >= time.January && ym.Month <= time.December
}

func (ym YearMonth) start() time.Time {
	return time.Date(ym.Year, ym.Month, 1, 0, 0, 0, 0, time.UTC)
}

// SalesReportRow is one transaction in a sales report
type SalesReportRow struct {
	TransactionID     uint      `json:"transaction_id"`
	TransactionDate   time.Time `json:"transaction_date"`
	CustomerFirstName string    `json:"customer_first_name"`
	CustomerLastName  string    `json:"customer_last_name"`
	EmployeeFirstName string    `json:"employee_first_name"`
	EmployeeLastName  string    `json:"employee_last_name"`
	PaymentMode       string    `json:"payment_mode"`
	TotalAmount       int64     `json:"total_amount"`
}

// SalesReport is the result of a date-range sales query
type SalesReport struct {
	From         YearMonth        `json:"-"`
	To           YearMonth        `json:"-"`
	Rows         []SalesReportRow `json:"rows"`
	Transactions int              `json:"transactions"`
	TotalRevenue int64            `json:"total_revenue"`
	Average      int64            `json:"average"`
}

// LowStockRow is an item at or below the low-stock threshold
type LowStockRow struct {
	ItemID            uint   `json:"item_id"`
	Name              string `json:"name"`
	CategoryName      string `json:"category_name"`
	QuantityAvailable int    `json:"quantity_available"`
	Location          string `json:"location"`
}

// CategoryValue is the stock valuation of one category
type CategoryValue struct {
	CategoryID   uint   `json:"category_id"`
	CategoryName string `json:"category_name"`
	Value        int64  `json:"value"`
}

// EmployeeSales is the lifetime sales processed by one employee
type EmployeeSales struct {
	EmployeeID   uint   `json:"employee_id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Role         string `json:"role"`
	Transactions int64  `json:"transactions"`
	TotalSales   int64  `json:"total_sales"`
}

// DashboardStats are the headline numbers of the store
type DashboardStats struct {
	TotalCustomers    int64 `json:"total_customers"`
	TotalItems        int64 `json:"total_items"`
	TotalTransactions int64 `json:"total_transactions"`
	TotalRevenue      int64 `json:"total_revenue"`
	LowStockCount     int64 `json:"low_stock_count"`
}

// ReportRepository runs read-only aggregations over committed data
type ReportRepository struct {
	db  *db.DB
	log *zap.Logger
}

// NewReportRepository creates a new report repository
func NewReportRepository(database *db.DB, logger *zap.Logger) *ReportRepository {
	return &ReportRepository{
		db:  database,
		log: logger,
	}
}

// SalesReport lists transactions dated from the first day of from up to the
// last day of to, both months included. No matching rows is an empty report.
func (r *ReportRepository) SalesReport(ctx context.Context, from, to YearMonth) (*SalesReport, error) {
	if !from.valid() || !to.valid() {
		return nil, invalidInput("month must be between 1 and 12 and year positive")
	}
	start, end := from.start(), to.start().AddDate(0, 1, 0)
	if !start.Before(end) {
		return nil, invalidInput("start month is after end month")
	}

	report := &SalesReport{From: from, To: to, Rows: []SalesReportRow{}}
	err := r.db.WithContext(ctx).Raw(`
		SELECT t.id AS transaction_id, t.transaction_date, t.payment_mode, t.total_amount,
		       c.first_name AS customer_first_name, c.last_name AS customer_last_name,
		       e.first_name AS employee_first_name, e.last_name AS employee_last_name
		FROM transactions t
		JOIN customers c ON c.id = t.customer_id
		JOIN employees e ON e.id = t.employee_id
		WHERE t.transaction_date >= ? AND t.transaction_date < ?
		ORDER BY t.transaction_date DESC, t.id DESC`, start, end).Scan(&report.Rows).Error
	if err != nil {
		return nil, readFailure(r.log, "build sales report", err)
	}

	for _, row := range report.Rows {
		report.TotalRevenue += row.TotalAmount
	}
	report.Transactions = len(report.Rows)
	if report.Transactions > 0 {
		report.Average = report.TotalRevenue / int64(report.Transactions)
	}
	return report, nil
}

// LowStock returns items whose quantity available is at or below threshold
func (r *ReportRepository) LowStock(ctx context.Context, threshold int) ([]LowStockRow, error) {
	if threshold < 0 {
		return nil, invalidInput("threshold must not be negative")
	}
	rows := []LowStockRow{}
	err := r.db.WithContext(ctx).Raw(`
		SELECT i.id AS item_id, i.name, c.name AS category_name,
		       inv.quantity_available, inv.location
		FROM inventory inv
		JOIN items i ON i.id = inv.item_id
		JOIN categories c ON c.id = i.category_id
		WHERE inv.quantity_available <= ?
		ORDER BY inv.quantity_available, i.id`, threshold).Scan(&rows).Error
	if err != nil {
		return nil, readFailure(r.log, "list low stock", err, zap.Int("threshold", threshold))
	}
	return rows, nil
}

// CategoryInventoryValue returns sum(price × quantity available) for a category in cents
func (r *ReportRepository) CategoryInventoryValue(ctx context.Context, categoryID uint) (int64, error) {
	var value int64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(i.price * inv.quantity_available), 0)
		FROM items i
		JOIN inventory inv ON inv.item_id = i.id
		WHERE i.category_id = ?`, categoryID).Row().Scan(&value)
	if err != nil {
		return 0, readFailure(r.log, "value category inventory", err, zap.Uint("category_id", categoryID))
	}
	return value, nil
}

// InventoryValuation returns the stock value of every category, including empty ones
func (r *ReportRepository) InventoryValuation(ctx context.Context) ([]CategoryValue, error) {
	rows := []CategoryValue{}
	err := r.db.WithContext(ctx).Raw(`
		SELECT c.id AS category_id, c.name AS category_name,
		       COALESCE(SUM(i.price * inv.quantity_available), 0) AS value
		FROM categories c
		LEFT JOIN items i ON i.category_id = c.id
		LEFT JOIN inventory inv ON inv.item_id = i.id
		GROUP BY c.id, c.name
		ORDER BY c.id`).Scan(&rows).Error
	if err != nil {
		return nil, readFailure(r.log, "value inventory", err)
	}
	return rows, nil
}

// EmployeePerformance returns lifetime sales per employee
func (r *ReportRepository) EmployeePerformance(ctx context.Context) ([]EmployeeSales, error) {
	rows := []EmployeeSales{}
	err := r.db.WithContext(ctx).Raw(`
		SELECT e.id AS employee_id, e.first_name, e.last_name, e.role,
		       COUNT(t.id) AS transactions,
		       COALESCE(SUM(t.total_amount), 0) AS total_sales
		FROM employees e
		LEFT JOIN transactions t ON t.employee_id = e.id
		GROUP BY e.id, e.first_name, e.last_name, e.role
		ORDER BY e.id`).Scan(&rows).Error
	if err != nil {
		return nil, readFailure(r.log, "build employee performance", err)
	}
	return rows, nil
}

// Dashboard returns headline counts and revenue
func (r *ReportRepository) Dashboard(ctx context.Context, lowStockThreshold int) (*DashboardStats, error) {
	stats := &DashboardStats{}
	database := r.db.WithContext(ctx)

	if err := database.Model(&db.Customer{}).Count(&stats.TotalCustomers).Error; err != nil {
		return nil, readFailure(r.log, "count customers", err)
	}
	if err := database.Model(&db.Item{}).Count(&stats.TotalItems).Error; err != nil {
		return nil, readFailure(r.log, "count items", err)
	}
	if err := database.Model(&db.Transaction{}).Count(&stats.TotalTransactions).Error; err != nil {
		return nil, readFailure(r.log, "count transactions", err)
	}
	if err := database.Raw(`SELECT COALESCE(SUM(total_amount), 0) FROM transactions`).Row().Scan(&stats.TotalRevenue); err != nil {
		return nil, readFailure(r.log, "sum revenue", err)
	}
	if err := database.Model(&db.Inventory{}).Where("quantity_available <= ?", lowStockThreshold).Count(&stats.LowStockCount).Error; err != nil {
		return nil, readFailure(r.log, "count low stock", err)
	}

	return stats, nil
}
