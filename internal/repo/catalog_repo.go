package repo

import (
	"context"
	"errors"
	"strings"

	"github.com/thriftstore/pos/internal/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ItemRow is an item joined with its category and stock level
type ItemRow struct {
	ItemID            uint   `json:"item_id"`
	Name              string `json:"name"`
	Condition         string `gorm:"column:item_condition" json:"condition"`
	Price             int64  `json:"price"`
	CategoryID        uint   `json:"category_id"`
	CategoryName      string `json:"category_name"`
	QuantityAvailable int    `json:"quantity_available"`
	Location          string `json:"location"`
}

const itemRowSelect = `
	SELECT i.id AS item_id, i.name, i.item_condition, i.price,
	       i.category_id, c.name AS category_name,
	       COALESCE(inv.quantity_available, 0) AS quantity_available,
	       COALESCE(inv.location, '') AS location
	FROM items i
	JOIN categories c ON c.id = i.category_id
	LEFT JOIN inventory inv ON inv.item_id = i.id`

// CatalogRepository handles items, categories and suppliers
type CatalogRepository struct {
	db  *db.DB
	log *zap.Logger
}

// NewCatalogRepository creates a new catalog repository
func NewCatalogRepository(database *db.DB, logger *zap.Logger) *CatalogRepository {
	return &CatalogRepository{
		db:  database,
		log: logger,
	}
}

// ListCategories returns all categories ordered by id
func (r *CatalogRepository) ListCategories(ctx context.Context) ([]db.Category, error) {
	categories := []db.Category{}
	if err := r.db.WithContext(ctx).Order("id").Find(&categories).Error; err != nil {
		return nil, readFailure(r.log, "list categories", err)
	}
	return categories, nil
}

// AddCategory creates a category; names are unique
func (r *CatalogRepository) AddCategory(ctx context.Context, category *db.Category) error {
	category.Name = strings.TrimSpace(category.Name)
	if category.Name == "" {
		return invalidInput("category name is required")
	}
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return writeFailure(r.log, "add category", err, zap.String("name", category.Name))
	}
	r.log.Info("Category added", zap.Uint("category_id", category.ID), zap.String("name", category.Name))
	return nil
}

// AddSupplier creates a supplier
func (r *CatalogRepository) AddSupplier(ctx context.Context, supplier *db.Supplier) error {
	supplier.Name = strings.TrimSpace(supplier.Name)
	if supplier.Name == "" {
		return invalidInput("supplier name is required")
	}
	if err := r.db.WithContext(ctx).Create(supplier).Error; err != nil {
		return writeFailure(r.log, "add supplier", err)
	}
	return nil
}

// ListSuppliers returns all suppliers ordered by id
func (r *CatalogRepository) ListSuppliers(ctx context.Context) ([]db.Supplier, error) {
	suppliers := []db.Supplier{}
	if err := r.db.WithContext(ctx).Order("id").Find(&suppliers).Error; err != nil {
		return nil, readFailure(r.log, "list suppliers", err)
	}
	return suppliers, nil
}

// ListItems returns every item with category and stock, newest first
func (r *CatalogRepository) ListItems(ctx context.Context) ([]ItemRow, error) {
	rows := []ItemRow{}
	if err := r.db.WithContext(ctx).Raw(itemRowSelect + ` ORDER BY i.id DESC`).Scan(&rows).Error; err != nil {
		return nil, readFailure(r.log, "list items", err)
	}
	return rows, nil
}

// GetItem returns a single item with category and stock. Items without an
// inventory record report zero available.
func (r *CatalogRepository) GetItem(ctx context.Context, itemID uint) (*ItemRow, error) {
	rows := []ItemRow{}
	if err := r.db.WithContext(ctx).Raw(itemRowSelect+` WHERE i.id = ?`, itemID).Scan(&rows).Error; err != nil {
		return nil, readFailure(r.log, "get item", err, zap.Uint("item_id", itemID))
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return &rows[0], nil
}

// AddItem validates and inserts a new item
func (r *CatalogRepository) AddItem(ctx context.Context, item *db.Item) error {
	item.Name = strings.TrimSpace(item.Name)
	if item.Name == "" {
		return invalidInput("item name is required")
	}
	if !validCondition(item.Condition) {
		return invalidInput("condition must be one of %s", strings.Join(db.Conditions, ", "))
	}
	if item.Price < 0 {
		return invalidInput("price must not be negative")
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := mustExist(tx, &db.Category{}, item.CategoryID, "category"); err != nil {
			return err
		}
		if item.SupplierID != nil {
			if err := mustExist(tx, &db.Supplier{}, *item.SupplierID, "supplier"); err != nil {
				return err
			}
		}
		return tx.Create(item).Error
	})
	if err != nil {
		return writeFailure(r.log, "add item", err, zap.String("name", item.Name))
	}

	r.log.Info("Item added", zap.Uint("item_id", item.ID), zap.String("name", item.Name))
	return nil
}

// UpdateItemPrice sets a new price and returns the previous one
func (r *CatalogRepository) UpdateItemPrice(ctx context.Context, itemID uint, price int64) (int64, error) {
	if price < 0 {
		return 0, invalidInput("price must not be negative")
	}

	var previous int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item db.Item
		if err := tx.Select("id", "price").First(&item, itemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		previous = item.Price
		return tx.Model(&db.Item{}).Where("id = ?", itemID).Update("price", price).Error
	})
	if err != nil {
		return 0, writeFailure(r.log, "update item price", err, zap.Uint("item_id", itemID))
	}

	r.log.Info("Item price updated",
		zap.Uint("item_id", itemID),
		zap.Int64("previous_price", previous),
		zap.Int64("price", price),
	)
	return previous, nil
}

func validCondition(condition string) bool {
	for _, c := range db.Conditions {
		if c == condition {
			return true
		}
	}
	return false
}

// mustExist returns a reference error when no row of model has the given id
func mustExist(tx *gorm.DB, model interface{}, id uint, kind string) error {
	var count int64
	if err := tx.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return referenceError(kind, id)
	}
	return nil
}
