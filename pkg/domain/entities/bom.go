package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// BOMComponent is a directed edge in the bill-of-materials graph: one parent
// unit consumes QuantityPer units of the component, inflated by ScrapFactor.
// A component may appear under multiple parents (shared sub-assemblies); the
// graph is expected to be a DAG but the explosion engine guards against
// cycles rather than assuming acyclicity.
type BOMComponent struct {
	ParentID    ItemID
	ComponentID ItemID
	QuantityPer decimal.Decimal
	ScrapFactor decimal.Decimal
	Sequence    int
}

// NewBOMComponent creates a validated BOM edge
func NewBOMComponent(
	parentID, componentID ItemID,
	quantityPer, scrapFactor decimal.Decimal,
	sequence int,
) (*BOMComponent, error) {
	if parentID == "" || componentID == "" {
		return nil, fmt.Errorf("%w: parent and component IDs are required", ErrNilArgument)
	}
	if !quantityPer.IsPositive() {
		return nil, fmt.Errorf("%w: quantity per must be positive, got %s", ErrInvalidQuantity, quantityPer)
	}
	if scrapFactor.LessThan(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("scrap factor must be >= 1.0, got %s", scrapFactor)
	}

	return &BOMComponent{
		ParentID:    parentID,
		ComponentID: componentID,
		QuantityPer: quantityPer,
		ScrapFactor: scrapFactor,
		Sequence:    sequence,
	}, nil
}

// ExplodedRequirement is one output row of a BOM explosion: the quantity of a
// component required at a given depth, with lead times accumulated serially
// down the path from the root.
type ExplodedRequirement struct {
	ComponentID            ItemID
	ComponentName          string
	RequiredQty            decimal.Decimal
	Level                  int
	ParentID               ItemID // empty for the exploded root
	LeadTimeDays           int
	CumulativeLeadTimeDays int
	IsPurchased            bool
}
