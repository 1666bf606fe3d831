package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem is one (user, product) line. UnitPrice and Amount are frozen at the
// time of the last mutation, they do not drift when the catalog price changes.
type CartItem struct {
	UserID    uint            `gorm:"primaryKey" json:"user_id"`
	ProductID string          `gorm:"primaryKey;type:varchar(255)" json:"product_id"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"not null;type:decimal(10,2)" json:"unit_price"`
	Amount    decimal.Decimal `gorm:"not null;type:decimal(10,2)" json:"amount"`
	CreatedAt time.Time       `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time       `gorm:"null" json:"updated_at"`
}

// Cart is the read projection of a user's cart lines, insertion ordered.
type Cart struct {
	UserID uint            `json:"user_id"`
	Items  []CartItem      `json:"items"`
	Amount decimal.Decimal `json:"amount"`
}
