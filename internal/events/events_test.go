package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaleCompletedEvent(t *testing.T) {
	ctx := WithCorrelationID(context.Background(), "req-123")
	event := saleCompletedEvent(ctx, SaleCompleted{
		TransactionID:  42,
		CustomerID:     1,
		EmployeeID:     2,
		PaymentMode:    "Cash",
		TotalAmount:    3600,
		LinesCommitted: 2,
		LinesRejected:  1,
	})

	assert.Equal(t, EventTypeSaleCompleted, event.EventType)
	assert.Equal(t, eventVersion, event.EventVersion)
	assert.Equal(t, "req-123", event.CorrelationID)
	_, err := uuid.Parse(event.EventID)
	assert.NoError(t, err)
	_, err = time.Parse(time.RFC3339, event.Timestamp)
	assert.NoError(t, err)

	body, err := json.Marshal(event)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &decoded))
	payload := decoded["payload"].(map[string]interface{})
	assert.Equal(t, float64(42), payload["transaction_id"])
	assert.Equal(t, float64(3600), payload["total_amount"])
	assert.Equal(t, float64(1), payload["lines_rejected"])
}

func TestRestockedEvent(t *testing.T) {
	event := restockedEvent(context.Background(), 7, 4, 10)

	assert.Equal(t, EventTypeInventoryRestock, event.EventType)
	assert.Empty(t, event.CorrelationID)
	assert.Equal(t, 6, event.Payload["previous_quantity"])
	assert.Equal(t, 10, event.Payload["new_quantity"])
}

func TestLowStockEvent(t *testing.T) {
	event := lowStockEvent(context.Background(), 1, "Denim Jacket", 1, 5)

	assert.Equal(t, EventTypeInventoryLowStock, event.EventType)
	assert.Equal(t, "Denim Jacket", event.Payload["name"])
	assert.Equal(t, 1, event.Payload["quantity_available"])
	assert.Equal(t, 5, event.Payload["threshold"])
}

func TestDetachKeepsCorrelationID(t *testing.T) {
	ctx, cancel := context.WithCancel(WithCorrelationID(context.Background(), "abc"))
	cancel()

	detached := Detach(ctx)
	assert.NoError(t, detached.Err())
	assert.Equal(t, "abc", CorrelationID(detached))

	assert.Equal(t, "", CorrelationID(WithCorrelationID(context.Background(), "")))
}

func TestNopPublisher(t *testing.T) {
	var p NopPublisher
	ctx := context.Background()

	assert.NoError(t, p.PublishSaleCompleted(ctx, SaleCompleted{}))
	assert.NoError(t, p.PublishLowStock(ctx, 1, "x", 0, 5))
	assert.NoError(t, p.PublishRestocked(ctx, 1, 1, 1))
	assert.True(t, p.IsHealthy())
	assert.NoError(t, p.Close())
}
