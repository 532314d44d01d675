package db

import (
	"time"
)

// Item conditions
const (
	ConditionNew     = "New"
	ConditionLikeNew = "Like New"
	ConditionGood    = "Good"
	ConditionFair    = "Fair"
	ConditionPoor    = "Poor"
)

// Payment modes
const (
	PaymentCash  = "Cash"
	PaymentCard  = "Card"
	PaymentUPI   = "UPI"
	PaymentCheck = "Check"
)

// Conditions lists the accepted item conditions in display order
var Conditions = []string{ConditionNew, ConditionLikeNew, ConditionGood, ConditionFair, ConditionPoor}

// PaymentModes lists the accepted payment modes
var PaymentModes = []string{PaymentCash, PaymentCard, PaymentUPI, PaymentCheck}

// Customer is a store customer. Contact details live in side tables.
type Customer struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	FirstName string         `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName  string         `gorm:"type:varchar(100);not null" json:"last_name"`
	Phone     *CustomerPhone `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"phone,omitempty"`
	Email     *CustomerEmail `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"email,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

func (Customer) TableName() string { return "customers" }

// CustomerPhone holds at most one phone number per customer
type CustomerPhone struct {
	ID         uint   `gorm:"primaryKey" json:"-"`
	CustomerID uint   `gorm:"not null;uniqueIndex" json:"customer_id"`
	Phone      string `gorm:"type:varchar(20);not null" json:"phone"`
}

func (CustomerPhone) TableName() string { return "customer_phones" }

// CustomerEmail holds at most one email address per customer
type CustomerEmail struct {
	ID         uint   `gorm:"primaryKey" json:"-"`
	CustomerID uint   `gorm:"not null;uniqueIndex" json:"customer_id"`
	Email      string `gorm:"type:varchar(255);not null" json:"email"`
}

func (CustomerEmail) TableName() string { return "customer_emails" }

// Category is static reference data for items
type Category struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
	Description string `gorm:"type:text" json:"description,omitempty"`
}

func (Category) TableName() string { return "categories" }

// Supplier is an optional item source
type Supplier struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Name    string `gorm:"type:varchar(150);not null" json:"name"`
	Contact string `gorm:"type:varchar(150)" json:"contact,omitempty"`
}

func (Supplier) TableName() string { return "suppliers" }

// Item is a sellable article
type Item struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"type:varchar(255);not null" json:"name"`
	Condition  string    `gorm:"column:item_condition;type:varchar(20);not null" json:"condition"`
	Price      int64     `gorm:"not null;check:chk_items_price,price >= 0" json:"price"` // Price in smallest currency unit (cents)
	CategoryID uint      `gorm:"not null;index" json:"category_id"`
	Category   *Category `gorm:"constraint:OnDelete:RESTRICT" json:"-"`
	SupplierID *uint     `gorm:"index" json:"supplier_id,omitempty"`
	Supplier   *Supplier `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Item) TableName() string { return "items" }

// Inventory tracks stock for a single item
type Inventory struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	ItemID            uint      `gorm:"not null;uniqueIndex" json:"item_id"`
	Item              *Item     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	QuantityAvailable int       `gorm:"not null;default:0;check:chk_inventory_quantity,quantity_available >= 0" json:"quantity_available"`
	Location          string    `gorm:"type:varchar(100)" json:"location"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (Inventory) TableName() string { return "inventory" }

// Transaction is a sale header. TotalAmount accumulates as line items commit.
type Transaction struct {
	ID              uint              `gorm:"primaryKey" json:"id"`
	CustomerID      uint              `gorm:"not null;index" json:"customer_id"`
	Customer        *Customer         `gorm:"constraint:OnDelete:RESTRICT" json:"-"`
	EmployeeID      uint              `gorm:"not null;index" json:"employee_id"`
	Employee        *Employee         `gorm:"constraint:OnDelete:RESTRICT" json:"-"`
	PaymentMode     string            `gorm:"type:varchar(10);not null" json:"payment_mode"`
	TransactionDate time.Time         `gorm:"not null;index" json:"transaction_date"`
	TotalAmount     int64             `gorm:"not null;default:0" json:"total_amount"` // cents
	Items           []TransactionItem `gorm:"foreignKey:TransactionID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

func (Transaction) TableName() string { return "transactions" }

// TransactionItem is one committed line of a sale
type TransactionItem struct {
	ID            uint  `gorm:"primaryKey" json:"id"`
	TransactionID uint  `gorm:"not null;index" json:"transaction_id"`
	ItemID        uint  `gorm:"not null;index" json:"item_id"`
	Item          *Item `gorm:"constraint:OnDelete:RESTRICT" json:"-"`
	Quantity      int   `gorm:"not null" json:"quantity"`
	UnitPrice     int64 `gorm:"not null" json:"unit_price"`  // cents, captured when staged
	LineAmount    int64 `gorm:"not null" json:"line_amount"` // cents
}

func (TransactionItem) TableName() string { return "transaction_items" }

// Donor gives items to the store
type Donor struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	FirstName string      `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName  string      `gorm:"type:varchar(100);not null" json:"last_name"`
	Phone     *DonorPhone `gorm:"foreignKey:DonorID;constraint:OnDelete:CASCADE" json:"phone,omitempty"`
}

func (Donor) TableName() string { return "donors" }

// DonorPhone holds at most one phone number per donor
type DonorPhone struct {
	ID      uint   `gorm:"primaryKey" json:"-"`
	DonorID uint   `gorm:"not null;uniqueIndex" json:"donor_id"`
	Phone   string `gorm:"type:varchar(20);not null" json:"phone"`
}

func (DonorPhone) TableName() string { return "donor_phones" }

// Donation records a donor drop-off handled by an employee
type Donation struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	DonorID        uint      `gorm:"not null;index" json:"donor_id"`
	Donor          *Donor    `gorm:"constraint:OnDelete:RESTRICT" json:"-"`
	EmployeeID     uint      `gorm:"not null;index" json:"employee_id"`
	Employee       *Employee `gorm:"constraint:OnDelete:RESTRICT" json:"-"`
	EstimatedValue int64     `gorm:"not null;default:0" json:"estimated_value"` // cents
	DonationDate   time.Time `gorm:"not null;index" json:"donation_date"`
}

func (Donation) TableName() string { return "donations" }

// Employee works at the store
type Employee struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	FirstName string `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName  string `gorm:"type:varchar(100);not null" json:"last_name"`
	Role      string `gorm:"type:varchar(50);not null" json:"role"`
	Salary    int64  `gorm:"not null;default:0" json:"salary"` // cents
}

func (Employee) TableName() string { return "employees" }

// AllModels lists every persisted model in migration order
func AllModels() []interface{} {
	return []interface{}{
		&Category{},
		&Supplier{},
		&Customer{},
		&CustomerPhone{},
		&CustomerEmail{},
		&Employee{},
		&Item{},
		&Inventory{},
		&Transaction{},
		&TransactionItem{},
		&Donor{},
		&DonorPhone{},
		&Donation{},
	}
}
