package sales

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCart(t *testing.T) {
	cart := &Cart{}
	assert.True(t, cart.Empty())
	assert.Equal(t, int64(0), cart.Total())

	cart.Add(newLine(1, "Denim Jacket", 2, 1800))
	cart.Add(newLine(3, "Paperback Novel", 3, 250))
	assert.Equal(t, 2, cart.Len())
	assert.Equal(t, int64(3600+750), cart.Total())

	cart.Clear()
	assert.True(t, cart.Empty())
}

func TestReceiptCounts(t *testing.T) {
	receipt := &Receipt{Lines: []LineOutcome{
		{Committed: true},
		{Committed: false, Message: "insufficient stock"},
		{Committed: true},
	}}
	assert.Equal(t, 2, receipt.Committed())
	assert.Equal(t, 1, receipt.Rejected())
	assert.False(t, receipt.Complete())

	assert.True(t, (&Receipt{}).Complete())
}
