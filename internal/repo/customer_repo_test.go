package repo

import (
	"context"
	"testing"

	"github.com/juju/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thriftstore/pos/internal/db"
)

func TestAddCustomer(t *testing.T) {
	database := setupSeededDB(t)
	customerRepo := NewCustomerRepository(database, testLogger())
	ctx := context.Background()

	customer, err := customerRepo.AddCustomer(ctx, "Dana", "Whitfield", "555-0400", "dana@example.com")
	require.NoError(t, err)
	assert.NotZero(t, customer.ID)

	stored, err := customerRepo.GetCustomer(ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dana", stored.FirstName)
	require.NotNil(t, stored.Phone)
	assert.Equal(t, "555-0400", stored.Phone.Phone)
	require.NotNil(t, stored.Email)
	assert.Equal(t, "dana@example.com", stored.Email.Email)

	rows, err := customerRepo.ListCustomers(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, customer.ID, rows[0].CustomerID)
	assert.Equal(t, "555-0400", rows[0].Phone)
}

func TestAddCustomerWithoutContacts(t *testing.T) {
	database := setupSeededDB(t)
	customerRepo := NewCustomerRepository(database, testLogger())
	ctx := context.Background()

	customer, err := customerRepo.AddCustomer(ctx, "Eli", "Moss", "", " ")
	require.NoError(t, err)

	stored, err := customerRepo.GetCustomer(ctx, customer.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.Phone)
	assert.Nil(t, stored.Email)

	_, err = customerRepo.AddCustomer(ctx, "", "Moss", "", "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetCustomerNotFound(t *testing.T) {
	database := setupSeededDB(t)
	customerRepo := NewCustomerRepository(database, testLogger())

	_, err := customerRepo.GetCustomer(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPurchaseHistoryAndTotals(t *testing.T) {
	database := setupSeededDB(t)
	customerRepo := NewCustomerRepository(database, testLogger())
	employeeRepo := NewEmployeeRepository(database, testLogger())
	txRepo := NewTransactionRepository(database, clock.WallClock, testLogger())
	ctx := context.Background()

	total, err := customerRepo.TotalPurchases(ctx, seedPriya)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)

	header := &db.Transaction{CustomerID: seedPriya, EmployeeID: seedManager, PaymentMode: db.PaymentUPI}
	require.NoError(t, txRepo.CreateTransaction(ctx, header))
	_, err = txRepo.CommitLineItem(ctx, header.ID, seedDenimJacket, 1)
	require.NoError(t, err)
	_, err = txRepo.CommitLineItem(ctx, header.ID, 3, 2)
	require.NoError(t, err)

	history, err := customerRepo.PurchaseHistory(ctx, seedPriya)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "Denim Jacket", history[0].ItemName)
	assert.Equal(t, int64(500), history[1].LineAmount)
	assert.Equal(t, int64(2300), history[0].TotalAmount)

	total, err = customerRepo.TotalPurchases(ctx, seedPriya)
	require.NoError(t, err)
	assert.Equal(t, int64(2300), total)

	sales, err := employeeRepo.SalesTotal(ctx, seedManager)
	require.NoError(t, err)
	assert.Equal(t, int64(2300), sales)

	history, err = customerRepo.PurchaseHistory(ctx, seedWalkIn)
	require.NoError(t, err)
	assert.Empty(t, history)
}
