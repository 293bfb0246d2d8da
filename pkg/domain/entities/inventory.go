package entities

import (
	"github.com/shopspring/decimal"
)

// InventoryPosition is the current stock picture for one item
type InventoryPosition struct {
	ItemID      ItemID
	OnHand      decimal.Decimal
	OnOrder     decimal.Decimal
	Allocated   decimal.Decimal
	SafetyStock decimal.Decimal
}

// Available returns on-hand plus on-order minus allocated stock
func (p InventoryPosition) Available() decimal.Decimal {
	return p.OnHand.Add(p.OnOrder).Sub(p.Allocated)
}
