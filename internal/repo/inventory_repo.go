package repo

import (
	"context"
	"strings"

	"github.com/thriftstore/pos/internal/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InventoryRepository handles stock levels
type InventoryRepository struct {
	db  *db.DB
	log *zap.Logger
}

// NewInventoryRepository creates a new inventory repository
func NewInventoryRepository(database *db.DB, logger *zap.Logger) *InventoryRepository {
	return &InventoryRepository{
		db:  database,
		log: logger,
	}
}

// AddStock adds quantity to an item's stock, creating the inventory record on
// first use. Repeated calls accumulate; the location is only set on creation.
// It returns the quantity available after the addition.
func (r *InventoryRepository) AddStock(ctx context.Context, itemID uint, quantity int, location string) (int, error) {
	if quantity <= 0 {
		return 0, invalidInput("quantity must be positive")
	}
	location = strings.TrimSpace(location)
	if location == "" {
		location = "Main Store"
	}

	var newQuantity int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := mustExist(tx, &db.Item{}, itemID, "item"); err != nil {
			return err
		}

		stock := db.Inventory{ItemID: itemID, QuantityAvailable: quantity, Location: location}
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "item_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"quantity_available": gorm.Expr("inventory.quantity_available + ?", quantity),
			}),
		}).Create(&stock).Error
		if err != nil {
			return err
		}

		return tx.Model(&db.Inventory{}).
			Where("item_id = ?", itemID).
			Select("quantity_available").
			Row().Scan(&newQuantity)
	})
	if err != nil {
		return 0, writeFailure(r.log, "add stock", err, zap.Uint("item_id", itemID), zap.Int("quantity", quantity))
	}

	r.log.Info("Stock added",
		zap.Uint("item_id", itemID),
		zap.Int("delta", quantity),
		zap.Int("quantity_available", newQuantity),
	)
	return newQuantity, nil
}

// QuantityAvailable returns the current stock for an item. An item without an
// inventory record has zero available; a missing item is ErrNotFound.
func (r *InventoryRepository) QuantityAvailable(ctx context.Context, itemID uint) (int, error) {
	var stock db.Inventory
	result := r.db.WithContext(ctx).Where("item_id = ?", itemID).Limit(1).Find(&stock)
	if result.Error != nil {
		return 0, readFailure(r.log, "get stock", result.Error, zap.Uint("item_id", itemID))
	}
	if result.RowsAffected > 0 {
		return stock.QuantityAvailable, nil
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&db.Item{}).Where("id = ?", itemID).Count(&count).Error; err != nil {
		return 0, readFailure(r.log, "get stock", err, zap.Uint("item_id", itemID))
	}
	if count == 0 {
		return 0, ErrNotFound
	}
	return 0, nil
}
