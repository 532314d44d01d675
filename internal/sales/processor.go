// Package sales implements the point-of-sale flow: staging items into a cart,
// opening a transaction header and committing each staged line atomically
// against inventory.
package sales

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/juju/clock"
	"github.com/thriftstore/pos/internal/db"
	"github.com/thriftstore/pos/internal/events"
	"github.com/thriftstore/pos/internal/metrics"
	"github.com/thriftstore/pos/internal/repo"
	"go.uber.org/zap"
)

const publishTimeout = 10 * time.Second

// Catalog reads an item together with its current stock
type Catalog interface {
	GetItem(ctx context.Context, itemID uint) (*repo.ItemRow, error)
}

// Ledger persists sale headers and their line items
type Ledger interface {
	CreateTransaction(ctx context.Context, header *db.Transaction) error
	CommitLineItem(ctx context.Context, transactionID, itemID uint, quantity int) (*repo.CommitResult, error)
}

// EventPublisher receives sale side effects
type EventPublisher interface {
	PublishSaleCompleted(ctx context.Context, sale events.SaleCompleted) error
	PublishLowStock(ctx context.Context, itemID uint, name string, remaining, threshold int) error
}

// Processor runs sales against the store
type Processor struct {
	catalog           Catalog
	ledger            Ledger
	publisher         EventPublisher
	metrics           *metrics.Metrics
	clock             clock.Clock
	lowStockThreshold int
	log               *zap.Logger
	dispatcher        *events.Dispatcher
}

// NewProcessor creates a sales processor. A nil publisher drops events, a nil
// clock uses wall time and a negative threshold falls back to the default.
func NewProcessor(catalog Catalog, ledger Ledger, publisher EventPublisher, m *metrics.Metrics, clk clock.Clock, lowStockThreshold int, log *zap.Logger) *Processor {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if clk == nil {
		clk = clock.WallClock
	}
	if lowStockThreshold < 0 {
		lowStockThreshold = repo.DefaultLowStockThreshold
	}
	return &Processor{
		catalog:           catalog,
		ledger:            ledger,
		publisher:         publisher,
		metrics:           m,
		clock:             clk,
		lowStockThreshold: lowStockThreshold,
		log:               log,
		dispatcher:        events.NewDispatcher(publishTimeout, log),
	}
}

// Stage validates a requested quantity against current stock and appends a
// line to the cart. On any error the cart is left as it was. Stock is not
// reserved; it is checked again when the line commits.
func (p *Processor) Stage(ctx context.Context, cart *Cart, itemID uint, quantity int) (Line, error) {
	if cart == nil {
		return Line{}, fmt.Errorf("%w: no cart", repo.ErrInvalidInput)
	}
	if quantity <= 0 {
		return Line{}, fmt.Errorf("%w: quantity must be positive", repo.ErrInvalidInput)
	}

	item, err := p.catalog.GetItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return Line{}, fmt.Errorf("%w: item %d", repo.ErrReference, itemID)
		}
		return Line{}, err
	}

	if quantity > item.QuantityAvailable {
		return Line{}, &repo.InsufficientStockError{
			ItemID:    itemID,
			Available: item.QuantityAvailable,
			Requested: quantity,
		}
	}

	line := newLine(item.ItemID, item.Name, quantity, item.Price)
	cart.Add(line)

	p.log.Debug("Item staged",
		zap.Uint("item_id", itemID),
		zap.Int("quantity", quantity),
		zap.Int64("line_total", line.LineTotal),
		zap.Int("cart_lines", cart.Len()),
	)
	return line, nil
}

// CreateHeader opens a transaction dated now with a zero total
func (p *Processor) CreateHeader(ctx context.Context, h Header) (*db.Transaction, error) {
	header := &db.Transaction{
		CustomerID:      h.CustomerID,
		EmployeeID:      h.EmployeeID,
		PaymentMode:     h.PaymentMode,
		TransactionDate: p.clock.Now().UTC(),
	}
	if err := p.ledger.CreateTransaction(ctx, header); err != nil {
		return nil, err
	}
	return header, nil
}

// CommitLine commits quantity units of an item to an open transaction. Stock
// is re-checked inside the commit, so a line staged earlier can still be
// rejected with an *repo.InsufficientStockError. The line is charged at the
// item's price in the store at commit time.
func (p *Processor) CommitLine(ctx context.Context, transactionID, itemID uint, quantity int) (*repo.CommitResult, error) {
	start := time.Now()
	result, err := p.ledger.CommitLineItem(ctx, transactionID, itemID, quantity)
	if err != nil {
		p.metrics.LineRejected(rejectionReason(err))
		return nil, err
	}
	p.metrics.LineCommitted(time.Since(start))

	if result.RemainingQuantity <= p.lowStockThreshold {
		name, remaining, threshold := result.ItemName, result.RemainingQuantity, p.lowStockThreshold
		p.dispatcher.Go(ctx, events.EventTypeInventoryLowStock, func(ctx context.Context) error {
			return p.publisher.PublishLowStock(ctx, itemID, name, remaining, threshold)
		})
	}
	return result, nil
}

// Finalize creates the transaction header and commits every staged line in
// order. Each line is its own unit: a rejected line does not undo lines
// committed before it, and every outcome is reported on the receipt. The cart
// is cleared once all lines have been attempted. If the header cannot be
// created nothing is written and the cart is kept.
func (p *Processor) Finalize(ctx context.Context, cart *Cart, h Header) (*Receipt, error) {
	if cart == nil || cart.Empty() {
		return nil, fmt.Errorf("%w: cart is empty", repo.ErrInvalidInput)
	}

	header, err := p.CreateHeader(ctx, h)
	if err != nil {
		return nil, err
	}

	receipt := &Receipt{
		TransactionID:   header.ID,
		TransactionDate: header.TransactionDate,
		CustomerID:      header.CustomerID,
		EmployeeID:      header.EmployeeID,
		PaymentMode:     header.PaymentMode,
		Lines:           make([]LineOutcome, 0, cart.Len()),
	}

	for _, line := range cart.Lines {
		outcome := LineOutcome{Line: line}
		result, err := p.CommitLine(ctx, header.ID, line.ItemID, line.Quantity)
		if err != nil {
			outcome.Err = err
			outcome.Message = err.Error()
		} else {
			outcome.Line = newLine(line.ItemID, result.ItemName, result.Item.Quantity, result.Item.UnitPrice)
			outcome.Committed = true
			outcome.TransactionItemID = result.Item.ID
			outcome.RemainingQuantity = result.RemainingQuantity
			receipt.Total = result.TransactionTotal
		}
		receipt.Lines = append(receipt.Lines, outcome)
	}
	cart.Clear()

	committed, rejected := receipt.Committed(), receipt.Rejected()
	if committed > 0 {
		p.metrics.SaleCompleted(receipt.Total)
		sale := events.SaleCompleted{
			TransactionID:  receipt.TransactionID,
			CustomerID:     receipt.CustomerID,
			EmployeeID:     receipt.EmployeeID,
			PaymentMode:    receipt.PaymentMode,
			TotalAmount:    receipt.Total,
			LinesCommitted: committed,
			LinesRejected:  rejected,
		}
		p.dispatcher.Go(ctx, events.EventTypeSaleCompleted, func(ctx context.Context) error {
			return p.publisher.PublishSaleCompleted(ctx, sale)
		})
	}

	p.log.Info("Sale finalized",
		zap.Uint("transaction_id", receipt.TransactionID),
		zap.Int64("total_amount", receipt.Total),
		zap.Int("lines_committed", committed),
		zap.Int("lines_rejected", rejected),
	)
	return receipt, nil
}

// Dispatcher returns the dispatcher the processor publishes through, so other
// event sources can share it and be drained by Wait
func (p *Processor) Dispatcher() *events.Dispatcher {
	return p.dispatcher
}

// Wait blocks until every event publish started through the processor's
// dispatcher has finished
func (p *Processor) Wait() {
	p.dispatcher.Wait()
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, repo.ErrInsufficientStock):
		return metrics.ReasonInsufficientStock
	case errors.Is(err, repo.ErrReference):
		return metrics.ReasonReference
	default:
		return metrics.ReasonError
	}
}
