package model

import (
	"github.com/shopspring/decimal"
)

// Product stock is mutated only through the stock ledger and the checkout
// transaction. Everything else treats it as a read-only catalog entry.
type Product struct {
	ProductID   string          `gorm:"primaryKey;type:varchar(255)" json:"product_id"`
	Name        string          `gorm:"not null;type:varchar(100)" json:"name"`
	Price       decimal.Decimal `gorm:"not null;type:decimal(10,2)" json:"price"`
	Stock       uint            `gorm:"not null;type:int" json:"stock"`
	Category    string          `gorm:"type:varchar(50)" json:"category"`
	Description string          `gorm:"type:text" json:"description"`
	BaseModel
}
