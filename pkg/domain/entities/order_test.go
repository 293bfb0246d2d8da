package entities

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestPlannedOrder_Validation(t *testing.T) {
	startDate := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	dueDate := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	validOrder, err := NewPlannedOrder("STEEL-01", decimal.NewFromInt(5), startDate, dueDate, 9, true)
	if err != nil {
		t.Fatalf("Expected valid order creation to succeed: %v", err)
	}
	if !validOrder.Quantity.Equal(decimal.NewFromInt(5)) {
		t.Errorf("Expected quantity 5, got %s", validOrder.Quantity)
	}

	testCases := []struct {
		name      string
		itemID    ItemID
		quantity  decimal.Decimal
		startDate time.Time
		dueDate   time.Time
		wantErr   error
	}{
		{"empty item ID", "", decimal.NewFromInt(5), startDate, dueDate, ErrNilArgument},
		{"zero quantity", "STEEL-01", decimal.Zero, startDate, dueDate, ErrInvalidQuantity},
		{"negative quantity", "STEEL-01", decimal.NewFromInt(-1), startDate, dueDate, ErrInvalidQuantity},
		{"start after due", "STEEL-01", decimal.NewFromInt(5), dueDate, startDate, nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewPlannedOrder(tc.itemID, tc.quantity, tc.startDate, tc.dueDate, 0, true)
			if err == nil {
				t.Fatal("Expected validation error but got none")
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Errorf("Expected error %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestBOMComponent_Validation(t *testing.T) {
	one := decimal.NewFromInt(1)

	comp, err := NewBOMComponent("K1", "STEEL-01", decimal.NewFromInt(2), decimal.RequireFromString("1.02"), 10)
	if err != nil {
		t.Fatalf("Expected valid component creation to succeed: %v", err)
	}
	if comp.ComponentID != "STEEL-01" {
		t.Errorf("Expected component STEEL-01, got %s", comp.ComponentID)
	}

	if _, err := NewBOMComponent("", "STEEL-01", one, one, 0); !errors.Is(err, ErrNilArgument) {
		t.Errorf("Expected ErrNilArgument for empty parent, got %v", err)
	}
	if _, err := NewBOMComponent("K1", "STEEL-01", decimal.Zero, one, 0); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("Expected ErrInvalidQuantity for zero qty per, got %v", err)
	}
	if _, err := NewBOMComponent("K1", "STEEL-01", one, decimal.RequireFromString("0.9"), 0); err == nil {
		t.Error("Expected error for scrap factor below 1.0")
	}
}
