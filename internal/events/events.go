package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	exchangeName = "thriftstore.events"
	exchangeType = "topic"

	eventVersion = "1.0.0"

	// Event types, also used as routing keys
	EventTypeSaleCompleted     = "sale.completed"
	EventTypeInventoryRestock  = "inventory.restocked"
	EventTypeInventoryLowStock = "inventory.low_stock"
)

// Event is the envelope of every published message
type Event struct {
	EventID       string                 `json:"event_id"`
	EventType     string                 `json:"event_type"`
	EventVersion  string                 `json:"event_version"`
	Timestamp     string                 `json:"timestamp"`
	CorrelationID string                 `json:"correlation_id,omitempty"`
	Payload       map[string]interface{} `json:"payload"`
}

// SaleCompleted summarises a finalized sale
type SaleCompleted struct {
	TransactionID  uint
	CustomerID     uint
	EmployeeID     uint
	PaymentMode    string
	TotalAmount    int64
	LinesCommitted int
	LinesRejected  int
}

type correlationKey struct{}

// WithCorrelationID stores a request correlation id on the context
func WithCorrelationID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, correlationKey{}, id)
}

// CorrelationID returns the correlation id stored on the context, if any
func CorrelationID(ctx context.Context) string {
	id, _ := ctx.Value(correlationKey{}).(string)
	return id
}

// Detach returns a background context that keeps only the correlation id, for
// publishing after the originating request has finished.
func Detach(ctx context.Context) context.Context {
	return WithCorrelationID(context.Background(), CorrelationID(ctx))
}

func newEvent(ctx context.Context, eventType string, payload map[string]interface{}) Event {
	return Event{
		EventID:       uuid.New().String(),
		EventType:     eventType,
		EventVersion:  eventVersion,
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		CorrelationID: CorrelationID(ctx),
		Payload:       payload,
	}
}

func saleCompletedEvent(ctx context.Context, sale SaleCompleted) Event {
	return newEvent(ctx, EventTypeSaleCompleted, map[string]interface{}{
		"transaction_id":  sale.TransactionID,
		"customer_id":     sale.CustomerID,
		"employee_id":     sale.EmployeeID,
		"payment_mode":    sale.PaymentMode,
		"total_amount":    sale.TotalAmount,
		"lines_committed": sale.LinesCommitted,
		"lines_rejected":  sale.LinesRejected,
	})
}

func lowStockEvent(ctx context.Context, itemID uint, name string, remaining, threshold int) Event {
	return newEvent(ctx, EventTypeInventoryLowStock, map[string]interface{}{
		"item_id":            itemID,
		"name":               name,
		"quantity_available": remaining,
		"threshold":          threshold,
	})
}

func restockedEvent(ctx context.Context, itemID uint, delta, newQuantity int) Event {
	return newEvent(ctx, EventTypeInventoryRestock, map[string]interface{}{
		"item_id":           itemID,
		"delta":             delta,
		"previous_quantity": newQuantity - delta,
		"new_quantity":      newQuantity,
	})
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishSaleCompleted(context.Context, SaleCompleted) error { return nil }

func (NopPublisher) PublishLowStock(context.Context, uint, string, int, int) error { return nil }

func (NopPublisher) PublishRestocked(context.Context, uint, int, int) error { return nil }

func (NopPublisher) IsHealthy() bool { return true }

func (NopPublisher) Close() error { return nil }
