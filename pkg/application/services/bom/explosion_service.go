// Package bom implements multi-level bill-of-materials explosion: expanding
// a finished-item requirement into component requirements across arbitrary
// BOM depth, with cycle and depth guards for malformed master data.
package bom

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/prodplan/planning/pkg/domain/entities"
)

// DefaultMaxLevels bounds recursion depth when the caller passes no limit
const DefaultMaxLevels = 10

// Diagnostics reports where an explosion stopped short. The guards truncate
// silently instead of failing so incomplete master data cannot reject an
// entire planning run, but the truncation stays observable here.
type Diagnostics struct {
	// CycleStops counts nodes skipped because their (item, level) pair was
	// already visited on this explosion.
	CycleStops int
	// DepthStops counts nodes skipped by the max-level guard.
	DepthStops int
	// UnknownItems counts nodes with no item master entry, which were
	// treated as purchased leaves with zero lead time and cost.
	UnknownItems int
}

// ExplosionService expands BOM structures held in memory. It is a pure
// value type constructed per planning run: all reference data arrives
// through the constructor and no state is mutated after construction.
type ExplosionService struct {
	items    map[entities.ItemID]entities.Item
	children map[entities.ItemID][]entities.BOMComponent
}

// NewExplosionService creates an explosion service over the given master
// data. Components are indexed by parent and ordered by sequence.
func NewExplosionService(items []entities.Item, components []entities.BOMComponent) *ExplosionService {
	s := &ExplosionService{
		items:    make(map[entities.ItemID]entities.Item, len(items)),
		children: make(map[entities.ItemID][]entities.BOMComponent),
	}

	for _, item := range items {
		s.items[item.ID] = item
	}
	for _, comp := range components {
		s.children[comp.ParentID] = append(s.children[comp.ParentID], comp)
	}
	for parent := range s.children {
		siblings := s.children[parent]
		sort.SliceStable(siblings, func(i, j int) bool {
			if siblings[i].Sequence != siblings[j].Sequence {
				return siblings[i].Sequence < siblings[j].Sequence
			}
			return siblings[i].ComponentID < siblings[j].ComponentID
		})
	}

	return s
}

type visitKey struct {
	itemID entities.ItemID
	level  int
}

// Explode expands an item requirement into a flat list of component
// requirements. maxLevels <= 0 selects DefaultMaxLevels.
func (s *ExplosionService) Explode(
	itemID entities.ItemID,
	quantity decimal.Decimal,
	maxLevels int,
) ([]entities.ExplodedRequirement, Diagnostics, error) {
	var diag Diagnostics

	if itemID == "" {
		return nil, diag, fmt.Errorf("%w: item ID", entities.ErrNilArgument)
	}
	if !quantity.IsPositive() {
		return nil, diag, fmt.Errorf("%w: explosion quantity %s", entities.ErrInvalidQuantity, quantity)
	}
	if maxLevels <= 0 {
		maxLevels = DefaultMaxLevels
	}

	var requirements []entities.ExplodedRequirement
	visited := make(map[visitKey]bool)

	var explode func(id entities.ItemID, qty decimal.Decimal, level int, parentID entities.ItemID, cumulativeLT int)
	explode = func(id entities.ItemID, qty decimal.Decimal, level int, parentID entities.ItemID, cumulativeLT int) {
		if level > maxLevels {
			diag.DepthStops++
			return
		}

		key := visitKey{itemID: id, level: level}
		if visited[key] {
			// A shared sub-assembly can legitimately appear at multiple
			// levels, but never twice at the same level in one path.
			diag.CycleStops++
			return
		}
		visited[key] = true

		item, known := s.items[id]
		if !known {
			// Permissive fallback: synthesize a purchased leaf so one
			// missing master-data row cannot reject the whole run.
			diag.UnknownItems++
			item = entities.Item{
				ID:       id,
				Name:     string(id),
				Type:     entities.RawMaterial,
				UnitCost: decimal.Zero,
			}
		}

		requirements = append(requirements, entities.ExplodedRequirement{
			ComponentID:            id,
			ComponentName:          item.Name,
			RequiredQty:            qty,
			Level:                  level,
			ParentID:               parentID,
			LeadTimeDays:           item.LeadTimeDays,
			CumulativeLeadTimeDays: cumulativeLT + item.LeadTimeDays,
			IsPurchased:            item.IsPurchased(),
		})

		for _, child := range s.children[id] {
			childQty := qty.Mul(child.QuantityPer).Mul(child.ScrapFactor)
			explode(child.ComponentID, childQty, level+1, id, cumulativeLT+item.LeadTimeDays)
		}
	}

	explode(itemID, quantity, 0, "", 0)

	return requirements, diag, nil
}

// LeafRequirements aggregates the explosion down to true leaves (items with
// no BOM children), summing quantities across every path reaching the same
// leaf.
func (s *ExplosionService) LeafRequirements(
	itemID entities.ItemID,
	quantity decimal.Decimal,
) (map[entities.ItemID]decimal.Decimal, error) {
	requirements, _, err := s.Explode(itemID, quantity, DefaultMaxLevels)
	if err != nil {
		return nil, err
	}

	leaves := make(map[entities.ItemID]decimal.Decimal)
	for _, req := range requirements {
		if len(s.children[req.ComponentID]) > 0 {
			continue
		}
		leaves[req.ComponentID] = leaves[req.ComponentID].Add(req.RequiredQty)
	}

	return leaves, nil
}

// MaterialCost values the leaf requirements at unit cost
func (s *ExplosionService) MaterialCost(
	itemID entities.ItemID,
	quantity decimal.Decimal,
) (decimal.Decimal, error) {
	leaves, err := s.LeafRequirements(itemID, quantity)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for id, qty := range leaves {
		if item, ok := s.items[id]; ok {
			total = total.Add(qty.Mul(item.UnitCost))
		}
	}
	return total, nil
}

// CumulativeLeadTime returns the longest cumulative lead time across the
// explosion of a single unit, the serial critical-path length in days.
func (s *ExplosionService) CumulativeLeadTime(itemID entities.ItemID) (int, error) {
	requirements, _, err := s.Explode(itemID, decimal.NewFromInt(1), DefaultMaxLevels)
	if err != nil {
		return 0, err
	}

	maxLT := 0
	for _, req := range requirements {
		if req.CumulativeLeadTimeDays > maxLT {
			maxLT = req.CumulativeLeadTimeDays
		}
	}
	return maxLT, nil
}
