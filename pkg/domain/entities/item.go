package entities

import (
	"github.com/shopspring/decimal"
)

// ItemID uniquely identifies an item in the master data
type ItemID string

// MachineID uniquely identifies a production machine
type MachineID string

// ItemType classifies an item within the BOM structure
type ItemType int

const (
	FinishedGood ItemType = iota
	SemiFinished
	RawMaterial
	Packaging
)

// String method for ItemType enum
func (t ItemType) String() string {
	switch t {
	case FinishedGood:
		return "finished_good"
	case SemiFinished:
		return "semi_finished"
	case RawMaterial:
		return "raw_material"
	case Packaging:
		return "packaging"
	default:
		return "unknown"
	}
}

// ParseItemType converts a classification string into an ItemType.
// Unrecognized values default to RawMaterial, matching the permissive
// master-data policy used throughout the planning core.
func ParseItemType(s string) ItemType {
	switch s {
	case "finished_good":
		return FinishedGood
	case "semi_finished":
		return SemiFinished
	case "raw_material":
		return RawMaterial
	case "packaging":
		return Packaging
	default:
		return RawMaterial
	}
}

// Item represents immutable item master data, loaded once per planning run
type Item struct {
	ID           ItemID
	Name         string
	Type         ItemType
	LeadTimeDays int
	UnitCost     decimal.Decimal
}

// IsPurchased reports whether the item is procured rather than manufactured
func (i Item) IsPurchased() bool {
	return i.Type == RawMaterial || i.Type == Packaging
}
