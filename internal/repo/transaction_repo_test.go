package repo

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/juju/clock"
	"github.com/juju/clock/testclock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thriftstore/pos/internal/db"
)

func newSale(t *testing.T, txRepo *TransactionRepository) *db.Transaction {
	header := &db.Transaction{CustomerID: seedWalkIn, EmployeeID: seedCashier, PaymentMode: db.PaymentCash}
	require.NoError(t, txRepo.CreateTransaction(context.Background(), header))
	return header
}

func TestCreateTransaction(t *testing.T) {
	database := setupSeededDB(t)
	txRepo := NewTransactionRepository(database, clock.WallClock, testLogger())
	ctx := context.Background()

	header := &db.Transaction{CustomerID: seedPriya, EmployeeID: seedManager, PaymentMode: db.PaymentCard, TotalAmount: 999}
	err := txRepo.CreateTransaction(ctx, header)
	require.NoError(t, err)
	assert.NotZero(t, header.ID)
	assert.Equal(t, int64(0), header.TotalAmount)
	assert.False(t, header.TransactionDate.IsZero())

	stored, err := txRepo.GetTransaction(ctx, header.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stored.TotalAmount)
	assert.Empty(t, stored.Items)
}

func TestCreateTransactionUnknownCustomer(t *testing.T) {
	database := setupSeededDB(t)
	txRepo := NewTransactionRepository(database, clock.WallClock, testLogger())

	header := &db.Transaction{CustomerID: 999, EmployeeID: seedCashier, PaymentMode: db.PaymentCash}
	err := txRepo.CreateTransaction(context.Background(), header)
	assert.ErrorIs(t, err, ErrReference)

	var count int64
	require.NoError(t, database.Model(&db.Transaction{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestCreateTransactionUnknownEmployee(t *testing.T) {
	database := setupSeededDB(t)
	txRepo := NewTransactionRepository(database, clock.WallClock, testLogger())

	header := &db.Transaction{CustomerID: seedWalkIn, EmployeeID: 42, PaymentMode: db.PaymentCash}
	err := txRepo.CreateTransaction(context.Background(), header)
	assert.ErrorIs(t, err, ErrReference)
}

func TestCreateTransactionDatesFromClock(t *testing.T) {
	database := setupSeededDB(t)
	now := time.Date(2024, time.June, 3, 9, 30, 0, 0, time.UTC)
	txRepo := NewTransactionRepository(database, testclock.NewClock(now), testLogger())
	ctx := context.Background()

	header := &db.Transaction{CustomerID: seedWalkIn, EmployeeID: seedCashier, PaymentMode: db.PaymentCash}
	require.NoError(t, txRepo.CreateTransaction(ctx, header))
	assert.True(t, now.Equal(header.TransactionDate))

	stored, err := txRepo.GetTransaction(ctx, header.ID)
	require.NoError(t, err)
	assert.True(t, now.Equal(stored.TransactionDate.UTC()))

	dated := &db.Transaction{CustomerID: seedWalkIn, EmployeeID: seedCashier, PaymentMode: db.PaymentCash, TransactionDate: now.AddDate(0, -1, 0)}
	require.NoError(t, txRepo.CreateTransaction(ctx, dated))
	assert.True(t, now.AddDate(0, -1, 0).Equal(dated.TransactionDate))
}

func TestCreateTransactionInvalidPaymentMode(t *testing.T) {
	database := setupSeededDB(t)
	txRepo := NewTransactionRepository(database, clock.WallClock, testLogger())

	header := &db.Transaction{CustomerID: seedWalkIn, EmployeeID: seedCashier, PaymentMode: "Barter"}
	err := txRepo.CreateTransaction(context.Background(), header)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCommitLineItem(t *testing.T) {
	database := setupSeededDB(t)
	txRepo := NewTransactionRepository(database, clock.WallClock, testLogger())
	invRepo := NewInventoryRepository(database, testLogger())
	ctx := context.Background()

	header := newSale(t, txRepo)

	result, err := txRepo.CommitLineItem(ctx, header.ID, seedDenimJacket, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, result.RemainingQuantity)
	assert.Equal(t, 2*seedDenimPrice, result.TransactionTotal)
	assert.Equal(t, 2*seedDenimPrice, result.Item.LineAmount)
	assert.NotZero(t, result.Item.ID)

	remaining, err := invRepo.QuantityAvailable(ctx, seedDenimJacket)
	require.NoError(t, err)
	assert.Equal(t, 1, remaining)

	stored, err := txRepo.GetTransaction(ctx, header.ID)
	require.NoError(t, err)
	assert.Equal(t, 2*seedDenimPrice, stored.TotalAmount)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, 2, stored.Items[0].Quantity)
	assert.Equal(t, seedDenimPrice, stored.Items[0].UnitPrice)
}

func TestCommitLineItemInsufficientStock(t *testing.T) {
	database := setupSeededDB(t)
	txRepo := NewTransactionRepository(database, clock.WallClock, testLogger())
	invRepo := NewInventoryRepository(database, testLogger())
	ctx := context.Background()

	header := newSale(t, txRepo)
	_, err := txRepo.CommitLineItem(ctx, header.ID, seedDenimJacket, 2)
	require.NoError(t, err)

	// Only one jacket left
	_, err = txRepo.CommitLineItem(ctx, header.ID, seedDenimJacket, 2)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	var stockErr *InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, 1, stockErr.Available)
	assert.Equal(t, 2, stockErr.Requested)

	remaining, err := invRepo.QuantityAvailable(ctx, seedDenimJacket)
	require.NoError(t, err)
	assert.Equal(t, 1, remaining)

	stored, err := txRepo.GetTransaction(ctx, header.ID)
	require.NoError(t, err)
	assert.Equal(t, 2*seedDenimPrice, stored.TotalAmount)
	assert.Len(t, stored.Items, 1)
}

func TestCommitLineItemUnknownItem(t *testing.T) {
	database := setupSeededDB(t)
	txRepo := NewTransactionRepository(database, clock.WallClock, testLogger())

	header := newSale(t, txRepo)
	_, err := txRepo.CommitLineItem(context.Background(), header.ID, 999, 1)
	assert.ErrorIs(t, err, ErrReference)
}

func TestCommitLineItemUnknownTransaction(t *testing.T) {
	database := setupSeededDB(t)
	txRepo := NewTransactionRepository(database, clock.WallClock, testLogger())
	invRepo := NewInventoryRepository(database, testLogger())
	ctx := context.Background()

	_, err := txRepo.CommitLineItem(ctx, 999, seedDenimJacket, 1)
	assert.ErrorIs(t, err, ErrReference)

	remaining, err := invRepo.QuantityAvailable(ctx, seedDenimJacket)
	require.NoError(t, err)
	assert.Equal(t, seedDenimInStock, remaining)
}

func TestCommitLineItemWithoutInventoryRecord(t *testing.T) {
	database := setupSeededDB(t)
	txRepo := NewTransactionRepository(database, clock.WallClock, testLogger())
	catalogRepo := NewCatalogRepository(database, testLogger())
	ctx := context.Background()

	item := &db.Item{Name: "Vinyl Record", Condition: db.ConditionFair, Price: 800, CategoryID: seedClothing}
	require.NoError(t, catalogRepo.AddItem(ctx, item))

	header := newSale(t, txRepo)
	_, err := txRepo.CommitLineItem(ctx, header.ID, item.ID, 1)

	var stockErr *InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, 0, stockErr.Available)
}

func TestCommitLineItemRejectsBadArguments(t *testing.T) {
	database := setupSeededDB(t)
	txRepo := NewTransactionRepository(database, clock.WallClock, testLogger())
	header := newSale(t, txRepo)
	ctx := context.Background()

	_, err := txRepo.CommitLineItem(ctx, header.ID, seedDenimJacket, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = txRepo.CommitLineItem(ctx, header.ID, seedDenimJacket, -1)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCommitLineItemChargesCurrentPrice(t *testing.T) {
	database := setupSeededDB(t)
	txRepo := NewTransactionRepository(database, clock.WallClock, testLogger())
	catalogRepo := NewCatalogRepository(database, testLogger())
	ctx := context.Background()

	header := newSale(t, txRepo)
	_, err := txRepo.CommitLineItem(ctx, header.ID, seedDenimJacket, 1)
	require.NoError(t, err)

	_, err = catalogRepo.UpdateItemPrice(ctx, seedDenimJacket, 2000)
	require.NoError(t, err)

	result, err := txRepo.CommitLineItem(ctx, header.ID, seedDenimJacket, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2000), result.Item.UnitPrice)
	assert.Equal(t, int64(2000), result.Item.LineAmount)
	assert.Equal(t, seedDenimPrice+2000, result.TransactionTotal)
}

func TestTransactionTotalMatchesLineItems(t *testing.T) {
	database := setupSeededDB(t)
	txRepo := NewTransactionRepository(database, clock.WallClock, testLogger())
	ctx := context.Background()

	header := newSale(t, txRepo)
	lines := []struct {
		itemID   uint
		quantity int
	}{
		{seedDenimJacket, 1},
		{2, 3},
		{3, 10},
		{seedOakTable, 2}, // only one in stock
		{5, 1},
	}

	for _, line := range lines {
		_, _ = txRepo.CommitLineItem(ctx, header.ID, line.itemID, line.quantity)

		stored, err := txRepo.GetTransaction(ctx, header.ID)
		require.NoError(t, err)
		sum, err := txRepo.LineItemTotal(ctx, header.ID)
		require.NoError(t, err)
		assert.Equal(t, sum, stored.TotalAmount)
	}

	stored, err := txRepo.GetTransaction(ctx, header.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Items, 4)
	assert.Equal(t, int64(1800+3600+2500+1500), stored.TotalAmount)
}

func TestConcurrentCommitsNeverOversell(t *testing.T) {
	database := setupSeededDB(t)
	txRepo := NewTransactionRepository(database, clock.WallClock, testLogger())
	invRepo := NewInventoryRepository(database, testLogger())
	ctx := context.Background()

	const buyers = 8
	headers := make([]*db.Transaction, buyers)
	for i := range headers {
		headers[i] = newSale(t, txRepo)
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		committed int
		rejected  int
	)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(header *db.Transaction) {
			defer wg.Done()
			_, err := txRepo.CommitLineItem(ctx, header.ID, seedDenimJacket, 1)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				committed++
			} else if errors.Is(err, ErrInsufficientStock) {
				rejected++
			}
		}(headers[i])
	}
	wg.Wait()

	assert.Equal(t, seedDenimInStock, committed)
	assert.Equal(t, buyers-seedDenimInStock, rejected)

	remaining, err := invRepo.QuantityAvailable(ctx, seedDenimJacket)
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)
}
