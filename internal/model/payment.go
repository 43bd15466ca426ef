package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Payment struct {
	BaseModel
	OrderID       uint            `json:"order_id" validate:"required"`
	Amount        decimal.Decimal `json:"amount" validate:"gt=0"`
	PaymentDate   time.Time       `json:"payment_date"`
	PaymentMethod string          `json:"payment_method"`
	Notes         string          `json:"notes"`
}
