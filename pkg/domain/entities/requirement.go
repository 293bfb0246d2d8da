package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// RequirementSource identifies where a gross requirement came from
type RequirementSource int

const (
	SourceForecast RequirementSource = iota
	SourceCustomerOrder
	SourceSafetyStock
	SourceDependentDemand
)

// String method for RequirementSource enum
func (s RequirementSource) String() string {
	switch s {
	case SourceForecast:
		return "forecast"
	case SourceCustomerOrder:
		return "customer_order"
	case SourceSafetyStock:
		return "safety_stock"
	case SourceDependentDemand:
		return "dependent_demand"
	default:
		return "unknown"
	}
}

// GrossRequirement is demand for an item before netting against inventory.
// Multiple requirements for the same item and period are summed by the
// netting engine.
type GrossRequirement struct {
	ItemID      ItemID
	Period      time.Time
	Quantity    decimal.Decimal
	Source      RequirementSource
	ReferenceID string
}
