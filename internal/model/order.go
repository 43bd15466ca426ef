package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusShipped   OrderStatus = "shipped"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) String() string {
	return string(s)
}

type Order struct {
	BaseModel
	CustomerID uint        `json:"customer_id" validate:"required"`
	OrderDate  time.Time   `json:"order_date"`
	UserID     uint        `json:"user_id"` // creator
	Status     OrderStatus `json:"status" validate:"omitempty,oneof=pending confirmed shipped delivered cancelled"`
	Notes      string      `json:"notes"`
	OrderCode  string      `json:"order_code"` // generated once at creation
	UpdatedAt  time.Time   `json:"updated_at"`
}

var hundred = decimal.NewFromInt(100)

type OrderItem struct {
	BaseModel
	OrderID        uint            `json:"order_id" validate:"required"`
	ProductID      uint            `json:"product_id" validate:"required"`
	Quantity       int             `json:"quantity" validate:"gt=0"`
	Price          decimal.Decimal `json:"price" validate:"gte=0"`
	CommissionRate decimal.Decimal `json:"commission_rate" validate:"gte=0,lte=100"`
}

// Total is price × quantity.
func (i OrderItem) Total() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Commission is Total × CommissionRate / 100.
func (i OrderItem) Commission() decimal.Decimal {
	return i.Total().Mul(i.CommissionRate).Div(hundred)
}
