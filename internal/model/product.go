package model

import "github.com/shopspring/decimal"

type Product struct {
	BaseModel
	Name        string          `json:"name" validate:"required"`
	Code        string          `json:"code" validate:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" validate:"gte=0"`
	Unit        string          `json:"unit"`
	Category    string          `json:"category"`
}

// PriceList is a customer-specific override of a product's catalog price.
type PriceList struct {
	BaseModel
	CustomerID  uint            `json:"customer_id" validate:"required"`
	ProductID   uint            `json:"product_id" validate:"required"`
	CustomPrice decimal.Decimal `json:"custom_price" validate:"gte=0"`
}
