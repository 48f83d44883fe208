package types

import "github.com/shopspring/decimal"

// Shortage describes one material that cannot cover an order.
type Shortage struct {
	MaterialID   int64           `json:"material_id"`
	MaterialName string          `json:"material_name"`
	Stock        decimal.Decimal `json:"stock"`
	Required     decimal.Decimal `json:"required"`
}

// Consumption is the amount of one material deducted by an order.
type Consumption struct {
	MaterialID   int64           `json:"material_id"`
	MaterialName string          `json:"material_name"`
	Amount       decimal.Decimal `json:"amount"`
	Remaining    decimal.Decimal `json:"remaining"`
}

// OrderReceipt is returned by a successful order fulfillment.
type OrderReceipt struct {
	// OrderID is a UUID v7 that also appears in the audit description.
	OrderID       string          `json:"order_id"`
	ProductName   string          `json:"product_name"`
	OrderQuantity decimal.Decimal `json:"order_quantity"`
	Consumed      []Consumption   `json:"consumed"`
}
