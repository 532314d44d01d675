package repo

import (
	"context"
	"errors"

	"github.com/juju/clock"
	"github.com/thriftstore/pos/internal/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CommitResult describes the state after a line item has been committed
type CommitResult struct {
	Item              db.TransactionItem
	ItemName          string
	RemainingQuantity int
	TransactionTotal  int64
}

// TransactionRepository handles sale headers and their line items
type TransactionRepository struct {
	db    *db.DB
	clock clock.Clock
	log   *zap.Logger
}

// NewTransactionRepository creates a new transaction repository. The clock
// dates headers created without a transaction date; nil uses wall time.
func NewTransactionRepository(database *db.DB, clk clock.Clock, logger *zap.Logger) *TransactionRepository {
	if clk == nil {
		clk = clock.WallClock
	}
	return &TransactionRepository{
		db:    database,
		clock: clk,
		log:   logger,
	}
}

// CreateTransaction inserts a sale header with a zero total. The customer and
// employee must exist; otherwise nothing is written and ErrReference is returned.
func (r *TransactionRepository) CreateTransaction(ctx context.Context, header *db.Transaction) error {
	if !validPaymentMode(header.PaymentMode) {
		return invalidInput("payment mode must be one of Cash, Card, UPI, Check")
	}
	header.TotalAmount = 0
	header.Items = nil
	if header.TransactionDate.IsZero() {
		header.TransactionDate = r.clock.Now().UTC()
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := mustExist(tx, &db.Customer{}, header.CustomerID, "customer"); err != nil {
			return err
		}
		if err := mustExist(tx, &db.Employee{}, header.EmployeeID, "employee"); err != nil {
			return err
		}
		return tx.Create(header).Error
	})
	if err != nil {
		return writeFailure(r.log, "create transaction", err,
			zap.Uint("customer_id", header.CustomerID),
			zap.Uint("employee_id", header.EmployeeID),
		)
	}

	r.log.Info("Transaction created",
		zap.Uint("transaction_id", header.ID),
		zap.Uint("customer_id", header.CustomerID),
		zap.Uint("employee_id", header.EmployeeID),
		zap.String("payment_mode", header.PaymentMode),
	)
	return nil
}

// CommitLineItem performs, as one atomic unit: a stock re-check combined with
// the decrement (the update only matches while enough stock remains), the
// transaction item insert priced at the item's current price, and the
// addition of the line amount to the transaction total. On any failure
// nothing is changed.
func (r *TransactionRepository) CommitLineItem(ctx context.Context, transactionID, itemID uint, quantity int) (*CommitResult, error) {
	if quantity <= 0 {
		return nil, invalidInput("quantity must be positive")
	}

	result := &CommitResult{}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := mustExist(tx, &db.Transaction{}, transactionID, "transaction"); err != nil {
			return err
		}

		var item db.Item
		found := tx.Select("id", "name", "price").Where("id = ?", itemID).Limit(1).Find(&item)
		if found.Error != nil {
			return found.Error
		}
		if found.RowsAffected == 0 {
			return referenceError("item", itemID)
		}

		decrement := tx.Model(&db.Inventory{}).
			Where("item_id = ? AND quantity_available >= ?", itemID, quantity).
			Update("quantity_available", gorm.Expr("quantity_available - ?", quantity))
		if decrement.Error != nil {
			return decrement.Error
		}
		if decrement.RowsAffected == 0 {
			return r.stockShortfall(tx, itemID, quantity)
		}

		result.ItemName = item.Name
		result.Item = db.TransactionItem{
			TransactionID: transactionID,
			ItemID:        itemID,
			Quantity:      quantity,
			UnitPrice:     item.Price,
			LineAmount:    item.Price * int64(quantity),
		}
		if err := tx.Create(&result.Item).Error; err != nil {
			return err
		}

		if err := tx.Model(&db.Transaction{}).
			Where("id = ?", transactionID).
			Update("total_amount", gorm.Expr("total_amount + ?", result.Item.LineAmount)).Error; err != nil {
			return err
		}

		if err := tx.Model(&db.Inventory{}).Where("item_id = ?", itemID).
			Select("quantity_available").Row().Scan(&result.RemainingQuantity); err != nil {
			return err
		}
		return tx.Model(&db.Transaction{}).Where("id = ?", transactionID).
			Select("total_amount").Row().Scan(&result.TransactionTotal)
	})
	if err != nil {
		if errors.Is(err, ErrInsufficientStock) {
			r.log.Warn("Line item rejected",
				zap.Uint("transaction_id", transactionID),
				zap.Uint("item_id", itemID),
				zap.Error(err),
			)
			return nil, err
		}
		return nil, writeFailure(r.log, "commit line item", err,
			zap.Uint("transaction_id", transactionID),
			zap.Uint("item_id", itemID),
		)
	}

	r.log.Info("Line item committed",
		zap.Uint("transaction_id", transactionID),
		zap.Uint("item_id", itemID),
		zap.Int("quantity", quantity),
		zap.Int64("line_amount", result.Item.LineAmount),
		zap.Int64("transaction_total", result.TransactionTotal),
	)
	return result, nil
}

// stockShortfall explains why the conditional decrement matched no row
func (r *TransactionRepository) stockShortfall(tx *gorm.DB, itemID uint, requested int) error {
	var stock db.Inventory
	found := tx.Where("item_id = ?", itemID).Limit(1).Find(&stock)
	if found.Error != nil {
		return found.Error
	}
	if found.RowsAffected == 0 {
		if err := mustExist(tx, &db.Item{}, itemID, "item"); err != nil {
			return err
		}
	}
	return &InsufficientStockError{ItemID: itemID, Available: stock.QuantityAvailable, Requested: requested}
}

// GetTransaction returns a sale header with its committed line items
func (r *TransactionRepository) GetTransaction(ctx context.Context, id uint) (*db.Transaction, error) {
	var header db.Transaction
	err := r.db.WithContext(ctx).
		Preload("Items", func(tx *gorm.DB) *gorm.DB { return tx.Order("id") }).
		First(&header, id).Error
	if err != nil {
		return nil, readFailure(r.log, "get transaction", err, zap.Uint("transaction_id", id))
	}
	return &header, nil
}

// LineItemTotal sums the committed line amounts of a transaction. Used to
// verify the running total; it is never the source of the total itself.
func (r *TransactionRepository) LineItemTotal(ctx context.Context, transactionID uint) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Raw(`SELECT COALESCE(SUM(line_amount), 0) FROM transaction_items WHERE transaction_id = ?`, transactionID).
		Row().Scan(&total)
	if err != nil {
		return 0, readFailure(r.log, "sum line items", err, zap.Uint("transaction_id", transactionID))
	}
	return total, nil
}

func validPaymentMode(mode string) bool {
	for _, m := range db.PaymentModes {
		if m == mode {
			return true
		}
	}
	return false
}
