package types

import "github.com/shopspring/decimal"

// Material is a raw material held in stock.
type Material struct {
	// ID is assigned by the store on insert.
	ID int64 `json:"id"`

	// Name is unique across all materials.
	Name string `json:"name"`

	// Quantity is the amount on hand. It is never negative.
	Quantity decimal.Decimal `json:"quantity"`

	// CriticalThreshold is the level at or below which the material is
	// reported as critical.
	CriticalThreshold int64 `json:"critical_threshold"`
}

// IsCritical reports whether the stock level is at or below the threshold.
func (m Material) IsCritical() bool {
	return m.Quantity.LessThanOrEqual(decimal.NewFromInt(m.CriticalThreshold))
}
