package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	OrderStatusPending   uint = 0
	OrderStatusConfirmed uint = 1
	OrderStatusShipped   uint = 2
	OrderStatusCancelled uint = 3
	OrderStatusRefunded  uint = 4
)

// Order is immutable once created. Amount is computed once at checkout and
// never recomputed from the catalog.
type Order struct {
	OrderID    string          `gorm:"primaryKey;type:varchar(255)" json:"order_id"`
	UserID     uint            `gorm:"not null;index" json:"user_id"`
	OrderItems []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order_items"`
	Amount     decimal.Decimal `gorm:"not null;type:decimal(10,2)" json:"amount"`
	OrderDate  time.Time       `gorm:"not null" json:"order_date"`
	State      uint            `gorm:"not null;default:0" json:"state"`
	BaseModel
}

// OrderItem snapshots a cart line at checkout. LineNo keeps the cart's
// insertion order; UnitPrice is the price at purchase time.
type OrderItem struct {
	OrderID     string          `gorm:"primaryKey;type:varchar(255)" json:"order_id"`
	ProductID   string          `gorm:"primaryKey;type:varchar(255)" json:"product_id"`
	LineNo      uint            `gorm:"not null" json:"line_no"`
	ProductName string          `gorm:"not null;type:varchar(100)" json:"product_name"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"not null;type:decimal(10,2)" json:"unit_price"`
	Amount      decimal.Decimal `gorm:"not null;type:decimal(10,2)" json:"amount"`
	BaseModel
}
