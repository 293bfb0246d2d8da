// Package mrp implements time-phased material requirements planning:
// bucketing gross requirements into fixed-width periods, netting them
// against inventory, lot sizing, and lead-time offsetting of releases.
package mrp

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/prodplan/planning/pkg/application/dto"
	"github.com/prodplan/planning/pkg/domain/entities"
)

// Config holds the planning grid parameters
type Config struct {
	// PlanningHorizonDays is the total span covered from the start date
	PlanningHorizonDays int
	// PeriodDays is the width of one planning bucket
	PeriodDays int
}

// DefaultConfig returns the standard 90-day horizon of weekly buckets
func DefaultConfig() Config {
	return Config{
		PlanningHorizonDays: 90,
		PeriodDays:          7,
	}
}

// ItemParameters are the per-item MRP controls registered by the caller
type ItemParameters struct {
	LeadTimeDays int
	// LotSize > 0 rounds orders up to the nearest multiple; zero selects
	// lot-for-lot.
	LotSize     decimal.Decimal
	IsPurchased bool
	UnitCost    decimal.Decimal
}

// NettingService runs MRP over registered requirements and inventory. It is
// constructed fresh per planning run and holds no state beyond the run's
// own inputs; concurrent runs use separate instances.
type NettingService struct {
	config Config

	inventory    map[entities.ItemID]entities.InventoryPosition
	requirements map[entities.ItemID][]entities.GrossRequirement
	receipts     map[entities.ItemID][]scheduledReceipt
	params       map[entities.ItemID]ItemParameters
}

type scheduledReceipt struct {
	due time.Time
	qty decimal.Decimal
}

// NewNettingService creates a netting service. Non-positive config values
// fall back to the defaults.
func NewNettingService(config Config) *NettingService {
	def := DefaultConfig()
	if config.PlanningHorizonDays <= 0 {
		config.PlanningHorizonDays = def.PlanningHorizonDays
	}
	if config.PeriodDays <= 0 {
		config.PeriodDays = def.PeriodDays
	}

	return &NettingService{
		config:       config,
		inventory:    make(map[entities.ItemID]entities.InventoryPosition),
		requirements: make(map[entities.ItemID][]entities.GrossRequirement),
		receipts:     make(map[entities.ItemID][]scheduledReceipt),
		params:       make(map[entities.ItemID]ItemParameters),
	}
}

// SetInventory registers the inventory position for an item
func (s *NettingService) SetInventory(pos entities.InventoryPosition) {
	s.inventory[pos.ItemID] = pos
}

// AddRequirement registers a gross requirement. Requirements for the same
// item and period are summed during aggregation.
func (s *NettingService) AddRequirement(req entities.GrossRequirement) error {
	if req.ItemID == "" {
		return fmt.Errorf("%w: requirement item ID", entities.ErrNilArgument)
	}
	if req.Quantity.IsNegative() {
		return fmt.Errorf("%w: requirement for %s: %s", entities.ErrInvalidQuantity, req.ItemID, req.Quantity)
	}
	s.requirements[req.ItemID] = append(s.requirements[req.ItemID], req)
	return nil
}

// AddScheduledReceipt registers an already-open supply order (confirmed PO
// or released production order) due within the horizon.
func (s *NettingService) AddScheduledReceipt(itemID entities.ItemID, due time.Time, qty decimal.Decimal) error {
	if itemID == "" {
		return fmt.Errorf("%w: receipt item ID", entities.ErrNilArgument)
	}
	if qty.IsNegative() {
		return fmt.Errorf("%w: receipt for %s: %s", entities.ErrInvalidQuantity, itemID, qty)
	}
	s.receipts[itemID] = append(s.receipts[itemID], scheduledReceipt{due: due, qty: qty})
	return nil
}

// SetItemParameters registers the MRP controls for an item. Items without
// parameters default to a 7-day lead time, lot-for-lot, purchased, zero
// cost.
func (s *NettingService) SetItemParameters(itemID entities.ItemID, params ItemParameters) {
	s.params[itemID] = params
}

func (s *NettingService) itemParams(itemID entities.ItemID) ItemParameters {
	if p, ok := s.params[itemID]; ok {
		return p
	}
	return ItemParameters{LeadTimeDays: 7, IsPurchased: true, UnitCost: decimal.Zero}
}

// generatePeriods produces the period start dates covering the horizon
func (s *NettingService) generatePeriods(start time.Time) []time.Time {
	end := start.AddDate(0, 0, s.config.PlanningHorizonDays)

	var periods []time.Time
	for current := start; current.Before(end); current = current.AddDate(0, 0, s.config.PeriodDays) {
		periods = append(periods, current)
	}
	return periods
}

// aggregateRequirements sums gross requirements into period buckets.
// Requirements outside the horizon are dropped; the count of dropped rows
// is returned so the caller can surface a warning.
func (s *NettingService) aggregateRequirements(
	itemID entities.ItemID,
	periods []time.Time,
) ([]decimal.Decimal, int) {
	buckets := zeroSeries(len(periods))
	dropped := 0

	for _, req := range s.requirements[itemID] {
		placed := false
		for i, period := range periods {
			periodEnd := period.AddDate(0, 0, s.config.PeriodDays)
			if !req.Period.Before(period) && req.Period.Before(periodEnd) {
				buckets[i] = buckets[i].Add(req.Quantity)
				placed = true
				break
			}
		}
		if !placed {
			dropped++
		}
	}

	return buckets, dropped
}

// aggregateReceipts buckets scheduled receipts the same way as requirements
func (s *NettingService) aggregateReceipts(itemID entities.ItemID, periods []time.Time) []decimal.Decimal {
	buckets := zeroSeries(len(periods))

	for _, rcpt := range s.receipts[itemID] {
		for i, period := range periods {
			periodEnd := period.AddDate(0, 0, s.config.PeriodDays)
			if !rcpt.due.Before(period) && rcpt.due.Before(periodEnd) {
				buckets[i] = buckets[i].Add(rcpt.qty)
				break
			}
		}
	}

	return buckets
}

// lotQuantity applies the lot-sizing policy to a net requirement
func (s *NettingService) lotQuantity(itemID entities.ItemID, netReq decimal.Decimal) decimal.Decimal {
	lotSize := s.itemParams(itemID).LotSize
	if lotSize.IsPositive() {
		return netReq.Div(lotSize).Ceil().Mul(lotSize)
	}
	return netReq
}

// RunItem runs the netting loop for a single item.
//
// The loop is strictly left to right: planned receipts decided in earlier
// periods are final and never revised by later shortages.
func (s *NettingService) RunItem(itemID entities.ItemID, start time.Time) (*dto.MRPItemResult, error) {
	if itemID == "" {
		return nil, fmt.Errorf("%w: item ID", entities.ErrNilArgument)
	}

	periods := s.generatePeriods(start)
	n := len(periods)

	grossReqs, dropped := s.aggregateRequirements(itemID, periods)
	scheduledReceipts := s.aggregateReceipts(itemID, periods)
	projectedOnHand := zeroSeries(n)
	netReqs := zeroSeries(n)
	plannedReceipts := zeroSeries(n)
	plannedReleases := zeroSeries(n)
	var plannedOrders []entities.PlannedOrder
	var warnings []string

	if dropped > 0 {
		warnings = append(warnings, fmt.Sprintf(
			"%s: %d gross requirement(s) outside the planning horizon were dropped", itemID, dropped))
	}

	inv := s.inventory[itemID]
	params := s.itemParams(itemID)
	leadPeriods := params.LeadTimeDays / s.config.PeriodDays
	if leadPeriods < 1 {
		leadPeriods = 1
	}

	prevOnHand := inv.OnHand

	for t := 0; t < n; t++ {
		onHand := prevOnHand.Sub(grossReqs[t]).Add(scheduledReceipts[t]).Add(plannedReceipts[t])

		netReq := inv.SafetyStock.Sub(onHand)
		if netReq.IsNegative() {
			netReq = decimal.Zero
		}
		netReqs[t] = netReq

		if netReq.IsPositive() {
			lotQty := s.lotQuantity(itemID, netReq)
			plannedReceipts[t] = lotQty

			// Offset the release backward by the lead time. Releases that
			// would fall before the horizon start are dropped.
			if release := t - leadPeriods; release >= 0 {
				plannedReleases[release] = lotQty
			} else {
				warnings = append(warnings, fmt.Sprintf(
					"%s: release for period %d falls before the planning horizon", itemID, t))
			}

			dueDate := periods[t]
			order, err := entities.NewPlannedOrder(
				itemID,
				lotQty,
				dueDate.AddDate(0, 0, -params.LeadTimeDays),
				dueDate,
				params.LeadTimeDays,
				params.IsPurchased,
			)
			if err != nil {
				return nil, fmt.Errorf("planned order for %s: %w", itemID, err)
			}
			plannedOrders = append(plannedOrders, *order)

			onHand = onHand.Add(lotQty)
		}

		projectedOnHand[t] = onHand
		prevOnHand = onHand
	}

	return &dto.MRPItemResult{
		ItemID:               itemID,
		Periods:              periods,
		GrossRequirements:    grossReqs,
		ScheduledReceipts:    scheduledReceipts,
		ProjectedOnHand:      projectedOnHand,
		NetRequirements:      netReqs,
		PlannedOrderReceipts: plannedReceipts,
		PlannedOrderReleases: plannedReleases,
		PlannedOrders:        plannedOrders,
		Warnings:             warnings,
	}, nil
}

// Run executes MRP for a batch of items and aggregates planned orders into
// purchase and production suggestions.
func (s *NettingService) Run(itemIDs []entities.ItemID, start time.Time) (*dto.MRPResult, error) {
	result := &dto.MRPResult{
		RunID:        "mrp-" + uuid.NewString()[:8],
		Status:       "completed",
		TotalPOValue: decimal.Zero,
		Currency:     "EUR",
	}

	for _, itemID := range itemIDs {
		itemResult, err := s.RunItem(itemID, start)
		if err != nil {
			return nil, fmt.Errorf("MRP for item %s: %w", itemID, err)
		}
		result.ItemResults = append(result.ItemResults, itemResult)
		result.Warnings = append(result.Warnings, itemResult.Warnings...)

		unitCost := s.itemParams(itemID).UnitCost
		for _, po := range itemResult.PlannedOrders {
			suggestion := dto.OrderSuggestion{
				ItemID:       po.ItemID,
				Quantity:     po.Quantity,
				StartDate:    po.StartDate,
				DueDate:      po.DueDate,
				LeadTimeDays: po.LeadTimeDays,
				UnitCost:     unitCost,
				LineTotal:    po.Quantity.Mul(unitCost),
			}

			if po.IsPurchase {
				result.PurchaseSuggestions = append(result.PurchaseSuggestions, suggestion)
				result.TotalPOValue = result.TotalPOValue.Add(suggestion.LineTotal)
			} else {
				result.ProductionSuggestions = append(result.ProductionSuggestions, suggestion)
			}
		}
	}

	result.ItemsAnalyzed = len(itemIDs)
	result.PurchaseOrdersCreated = len(result.PurchaseSuggestions)
	result.ProductionOrdersCreated = len(result.ProductionSuggestions)

	return result, nil
}
