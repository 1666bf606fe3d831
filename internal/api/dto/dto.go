package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type CartItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type SignupRequest struct {
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
	UserPhone string `json:"user_phone"`
	Password  string `json:"password"`
}

type LoginRequest struct {
	UserEmail string `json:"user_email"`
	Password  string `json:"password"`
}

type UserDTO struct {
	UserID    uint   `json:"user_id"`
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
	UserPhone string `json:"user_phone"`
	Role      string `json:"role"`
}

type LoginResponse struct {
	User  UserDTO `json:"user"`
	Token string  `json:"token"`
}

type OrderItemDTO struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
}

type OrderResponse struct {
	OrderID   string          `json:"order_id"`
	UserID    uint            `json:"user_id"`
	Amount    decimal.Decimal `json:"amount"`
	State     uint            `json:"state"`
	OrderDate time.Time       `json:"order_date"`
	Items     []OrderItemDTO  `json:"items"`
}
