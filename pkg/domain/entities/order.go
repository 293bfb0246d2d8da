package entities

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PlannedOrder is the MRP engine's primary output: a suggested purchase or
// production order sized by the lot-sizing policy and offset by lead time.
type PlannedOrder struct {
	ItemID       ItemID
	Quantity     decimal.Decimal
	StartDate    time.Time
	DueDate      time.Time
	LeadTimeDays int
	IsPurchase   bool
}

// NewPlannedOrder creates a validated PlannedOrder
func NewPlannedOrder(
	itemID ItemID,
	quantity decimal.Decimal,
	startDate, dueDate time.Time,
	leadTimeDays int,
	isPurchase bool,
) (*PlannedOrder, error) {
	if itemID == "" {
		return nil, fmt.Errorf("%w: item ID cannot be empty", ErrNilArgument)
	}
	if !quantity.IsPositive() {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidQuantity, quantity)
	}
	if startDate.After(dueDate) {
		return nil, fmt.Errorf("start date %v cannot be after due date %v", startDate, dueDate)
	}

	return &PlannedOrder{
		ItemID:       itemID,
		Quantity:     quantity,
		StartDate:    startDate,
		DueDate:      dueDate,
		LeadTimeDays: leadTimeDays,
		IsPurchase:   isPurchase,
	}, nil
}
