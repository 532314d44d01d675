package repo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thriftstore/pos/internal/db"
)

func TestAddStockIsAdditive(t *testing.T) {
	database := setupSeededDB(t)
	invRepo := NewInventoryRepository(database, testLogger())
	ctx := context.Background()

	quantity, err := invRepo.AddStock(ctx, seedDenimJacket, 4, "")
	require.NoError(t, err)
	assert.Equal(t, seedDenimInStock+4, quantity)

	quantity, err = invRepo.AddStock(ctx, seedDenimJacket, 4, "")
	require.NoError(t, err)
	assert.Equal(t, seedDenimInStock+8, quantity)

	available, err := invRepo.QuantityAvailable(ctx, seedDenimJacket)
	require.NoError(t, err)
	assert.Equal(t, seedDenimInStock+8, available)
}

func TestAddStockCreatesInventoryRecord(t *testing.T) {
	database := setupSeededDB(t)
	invRepo := NewInventoryRepository(database, testLogger())
	catalogRepo := NewCatalogRepository(database, testLogger())
	ctx := context.Background()

	item := &db.Item{Name: "Rain Boots", Condition: db.ConditionGood, Price: 900, CategoryID: seedClothing}
	require.NoError(t, catalogRepo.AddItem(ctx, item))

	available, err := invRepo.QuantityAvailable(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, available)

	quantity, err := invRepo.AddStock(ctx, item.ID, 2, "Back Room")
	require.NoError(t, err)
	assert.Equal(t, 2, quantity)

	var stock db.Inventory
	require.NoError(t, database.Where("item_id = ?", item.ID).First(&stock).Error)
	assert.Equal(t, "Back Room", stock.Location)

	// Location is kept from the first record
	_, err = invRepo.AddStock(ctx, item.ID, 1, "Front Window")
	require.NoError(t, err)
	require.NoError(t, database.Where("item_id = ?", item.ID).First(&stock).Error)
	assert.Equal(t, "Back Room", stock.Location)
	assert.Equal(t, 3, stock.QuantityAvailable)
}

func TestAddStockDefaultLocation(t *testing.T) {
	database := setupSeededDB(t)
	invRepo := NewInventoryRepository(database, testLogger())
	catalogRepo := NewCatalogRepository(database, testLogger())
	ctx := context.Background()

	item := &db.Item{Name: "Tea Kettle", Condition: db.ConditionFair, Price: 700, CategoryID: 5}
	require.NoError(t, catalogRepo.AddItem(ctx, item))

	_, err := invRepo.AddStock(ctx, item.ID, 1, "  ")
	require.NoError(t, err)

	var stock db.Inventory
	require.NoError(t, database.Where("item_id = ?", item.ID).First(&stock).Error)
	assert.Equal(t, "Main Store", stock.Location)
}

func TestAddStockRejectsInvalidInput(t *testing.T) {
	database := setupSeededDB(t)
	invRepo := NewInventoryRepository(database, testLogger())
	ctx := context.Background()

	_, err := invRepo.AddStock(ctx, seedDenimJacket, 0, "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = invRepo.AddStock(ctx, seedDenimJacket, -3, "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = invRepo.AddStock(ctx, 999, 1, "")
	assert.ErrorIs(t, err, ErrReference)
}

func TestQuantityAvailableUnknownItem(t *testing.T) {
	database := setupSeededDB(t)
	invRepo := NewInventoryRepository(database, testLogger())

	_, err := invRepo.QuantityAvailable(context.Background(), 999)
	assert.ErrorIs(t, err, ErrNotFound)
}
