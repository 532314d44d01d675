package db

import "fmt"

type index struct {
	table   string
	name    string
	columns string
}

var indexes = []index{
	// sales report and per-employee totals scan by date and employee
	{table: "transactions", name: "idx_transactions_employee_date", columns: "employee_id, transaction_date"},

	// low-stock alerts filter on quantity
	{table: "inventory", name: "idx_inventory_quantity", columns: "quantity_available"},
}

// RunMigrations creates or updates the schema for every model
func RunMigrations(db *DB) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return err
	}

	return createIndexes(db)
}

// createIndexes checks through the migrator first since MySQL has no
// CREATE INDEX IF NOT EXISTS
func createIndexes(db *DB) error {
	migrator := db.Migrator()
	for _, idx := range indexes {
		if migrator.HasIndex(idx.table, idx.name) {
			continue
		}
		indexSQL := fmt.Sprintf("CREATE INDEX %s ON %s(%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(indexSQL).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}
