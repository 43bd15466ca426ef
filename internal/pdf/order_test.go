package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-sales-tracker/internal/model"
	"go-sales-tracker/internal/service"
)

func TestRenderOrder(t *testing.T) {
	date := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	price := decimal.RequireFromString("89.99")
	s := service.OrderSummary{
		Order: model.Order{
			BaseModel: model.BaseModel{ID: 7},
			OrderCode: "ORD-20240315-000007",
			OrderDate: date,
			Status:    model.StatusPending,
		},
		CustomerName: "Cliente Basic SRL",
		CreatedBy:    "Main Agent",
		Items: []service.OrderItemDetail{{
			OrderItem:   model.OrderItem{ProductID: 6, Quantity: 2, Price: price},
			ProductName: "Prodotto Basic",
			ProductCode: "BASIC-001",
			Total:       price.Mul(decimal.NewFromInt(2)),
		}},
		Payments: []model.Payment{{Amount: decimal.NewFromInt(50), PaymentDate: date, PaymentMethod: "bonifico"}},
		Total:    decimal.RequireFromString("179.98"),
		Paid:     decimal.NewFromInt(50),
		Balance:  decimal.RequireFromString("129.98"),
	}

	out, err := RenderOrder(s)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Greater(t, len(out), 500)
}
