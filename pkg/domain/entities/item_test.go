package entities

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestItem_IsPurchased(t *testing.T) {
	testCases := []struct {
		itemType  ItemType
		purchased bool
	}{
		{FinishedGood, false},
		{SemiFinished, false},
		{RawMaterial, true},
		{Packaging, true},
	}

	for _, tc := range testCases {
		item := Item{ID: "X", Type: tc.itemType, UnitCost: decimal.Zero}
		if got := item.IsPurchased(); got != tc.purchased {
			t.Errorf("IsPurchased for %s: expected %v, got %v", tc.itemType, tc.purchased, got)
		}
	}
}

func TestParseItemType_RoundTrip(t *testing.T) {
	for _, it := range []ItemType{FinishedGood, SemiFinished, RawMaterial, Packaging} {
		if got := ParseItemType(it.String()); got != it {
			t.Errorf("ParseItemType(%q): expected %v, got %v", it.String(), it, got)
		}
	}

	// Unknown classifications fall back to raw material
	if got := ParseItemType("subcontracted"); got != RawMaterial {
		t.Errorf("Expected unknown type to parse as RawMaterial, got %v", got)
	}
}

func TestInventoryPosition_Available(t *testing.T) {
	pos := InventoryPosition{
		ItemID:    "STEEL-01",
		OnHand:    decimal.NewFromInt(200),
		OnOrder:   decimal.NewFromInt(50),
		Allocated: decimal.NewFromInt(30),
	}

	if !pos.Available().Equal(decimal.NewFromInt(220)) {
		t.Errorf("Expected available 220, got %s", pos.Available())
	}
}
