package repo

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/thriftstore/pos/internal/db"
	"github.com/thriftstore/pos/pkg/logger"
	"go.uber.org/zap"
)

// Seeded ids, in insertion order
const (
	seedDenimJacket  uint = 1
	seedOakTable     uint = 4
	seedWalkIn       uint = 1
	seedPriya        uint = 2
	seedManager      uint = 1
	seedCashier      uint = 2
	seedClothing     uint = 1
	seedDenimPrice        = int64(1800)
	seedDenimInStock      = 3
)

func setupTestDB(t *testing.T) *db.DB {
	database, err := db.Connect(db.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	require.NoError(t, db.RunMigrations(database))
	return database
}

func setupSeededDB(t *testing.T) *db.DB {
	database := setupTestDB(t)
	require.NoError(t, db.Seed(database))
	return database
}

func testLogger() *zap.Logger {
	return logger.NewLogger("test", "error")
}
