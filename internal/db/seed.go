package db

import (
	"gorm.io/gorm"
)

// Seed inserts starter reference data. Each table is only seeded while empty,
// so running it repeatedly is safe.
func Seed(db *DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&Category{}).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			categories := []Category{
				{Name: "Clothing", Description: "Apparel for all ages"},
				{Name: "Books", Description: "Used and vintage books"},
				{Name: "Furniture", Description: "Tables, chairs and storage"},
				{Name: "Electronics", Description: "Tested small appliances and gadgets"},
				{Name: "Kitchenware", Description: "Dishes, cookware and utensils"},
			}
			if err := tx.Create(&categories).Error; err != nil {
				return err
			}

			items := []struct {
				item     Item
				quantity int
			}{
				{Item{Name: "Denim Jacket", Condition: ConditionGood, Price: 1800, CategoryID: categories[0].ID}, 3},
				{Item{Name: "Wool Sweater", Condition: ConditionLikeNew, Price: 1200, CategoryID: categories[0].ID}, 8},
				{Item{Name: "Paperback Novel", Condition: ConditionFair, Price: 250, CategoryID: categories[1].ID}, 40},
				{Item{Name: "Oak Side Table", Condition: ConditionGood, Price: 4500, CategoryID: categories[2].ID}, 1},
				{Item{Name: "Desk Lamp", Condition: ConditionNew, Price: 1500, CategoryID: categories[3].ID}, 6},
				{Item{Name: "Cast Iron Skillet", Condition: ConditionGood, Price: 2200, CategoryID: categories[4].ID}, 4},
			}
			for i := range items {
				if err := tx.Create(&items[i].item).Error; err != nil {
					return err
				}
				stock := Inventory{ItemID: items[i].item.ID, QuantityAvailable: items[i].quantity, Location: "Main Store"}
				if err := tx.Create(&stock).Error; err != nil {
					return err
				}
			}
		}

		if err := tx.Model(&Employee{}).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			employees := []Employee{
				{FirstName: "Asha", LastName: "Rao", Role: "Manager", Salary: 4200000},
				{FirstName: "Tom", LastName: "Kim", Role: "Cashier", Salary: 2600000},
				{FirstName: "Lena", LastName: "Ortiz", Role: "Sorter", Salary: 2400000},
			}
			if err := tx.Create(&employees).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(&Donor{}).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			donors := []Donor{
				{FirstName: "Maria", LastName: "Lopez", Phone: &DonorPhone{Phone: "555-0101"}},
				{FirstName: "Sam", LastName: "Patel", Phone: &DonorPhone{Phone: "555-0102"}},
				{FirstName: "Grace", LastName: "Chen"},
			}
			if err := tx.Create(&donors).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(&Customer{}).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			customers := []Customer{
				{FirstName: "Walk-in", LastName: "Customer"},
				{FirstName: "Priya", LastName: "Nair", Phone: &CustomerPhone{Phone: "555-0201"}, Email: &CustomerEmail{Email: "priya@example.com"}},
			}
			if err := tx.Create(&customers).Error; err != nil {
				return err
			}
		}

		return nil
	})
}
