package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *DB {
	database, err := Connect(DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	require.NoError(t, RunMigrations(database))
	return database
}

func TestConnectUnsupportedDriver(t *testing.T) {
	_, err := Connect("oracle", "whatever")
	assert.Error(t, err)
}

func TestPing(t *testing.T) {
	database := setupTestDB(t)
	assert.NoError(t, database.Ping())
	assert.Equal(t, DriverSQLite, database.Driver())
}

func TestSeedIsIdempotent(t *testing.T) {
	database := setupTestDB(t)

	require.NoError(t, Seed(database))
	require.NoError(t, Seed(database))

	var categories, items, stock, employees int64
	require.NoError(t, database.Model(&Category{}).Count(&categories).Error)
	require.NoError(t, database.Model(&Item{}).Count(&items).Error)
	require.NoError(t, database.Model(&Inventory{}).Count(&stock).Error)
	require.NoError(t, database.Model(&Employee{}).Count(&employees).Error)

	assert.Equal(t, int64(5), categories)
	assert.Equal(t, int64(6), items)
	assert.Equal(t, items, stock)
	assert.Equal(t, int64(3), employees)
}

func TestInventoryQuantityCheckConstraint(t *testing.T) {
	database := setupTestDB(t)
	require.NoError(t, Seed(database))

	var stock Inventory
	require.NoError(t, database.First(&stock).Error)

	err := database.Model(&Inventory{}).Where("id = ?", stock.ID).Update("quantity_available", -1).Error
	assert.Error(t, err)
}

func TestInventoryUniquePerItem(t *testing.T) {
	database := setupTestDB(t)
	require.NoError(t, Seed(database))

	var stock Inventory
	require.NoError(t, database.First(&stock).Error)

	err := database.Create(&Inventory{ItemID: stock.ItemID, QuantityAvailable: 1}).Error
	assert.Error(t, err)
}

func TestRunMigrationsCreatesIndexesOnce(t *testing.T) {
	database := setupTestDB(t)

	// a second run must skip indexes that already exist
	require.NoError(t, RunMigrations(database))

	for _, idx := range indexes {
		assert.True(t, database.Migrator().HasIndex(idx.table, idx.name), idx.name)
	}
}
