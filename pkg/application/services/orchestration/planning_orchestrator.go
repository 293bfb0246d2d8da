// Package orchestration wires the planning engines to master data, the
// schedule store and the event log. It owns run identifiers and event
// publication; the engines underneath stay pure.
package orchestration

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/prodplan/planning/pkg/application/dto"
	"github.com/prodplan/planning/pkg/application/services/bom"
	"github.com/prodplan/planning/pkg/application/services/capacity"
	"github.com/prodplan/planning/pkg/application/services/mrp"
	"github.com/prodplan/planning/pkg/application/services/scheduling"
	"github.com/prodplan/planning/pkg/domain/entities"
	"github.com/prodplan/planning/pkg/domain/repositories"
	"github.com/prodplan/planning/pkg/infrastructure/events"
)

// CustomerOrder is a demand line entering an MRP run
type CustomerOrder struct {
	OrderID  string
	ItemID   entities.ItemID
	Quantity decimal.Decimal
	DueDate  time.Time
}

// MRPOptions tunes a single MRP run. Zero values select the defaults.
type MRPOptions struct {
	PlanningHorizonDays int
	PeriodDays          int
	MaxBOMLevels        int
	// ExcludeSafetyStock nets against zero safety stock, turning the
	// safety stock requirement off for what-if runs.
	ExcludeSafetyStock bool
}

// PlanningOrchestrator runs the MRP, scheduling and capacity pipelines over
// repository-held master data.
type PlanningOrchestrator struct {
	items      repositories.ItemRepository
	boms       repositories.BOMRepository
	inventory  repositories.InventoryRepository
	machines   repositories.MachineRepository
	schedules  repositories.ScheduleRepository
	eventStore events.EventStore
	logger     *zap.Logger
}

// NewPlanningOrchestrator creates an orchestrator over the given
// repositories. A nil logger disables logging.
func NewPlanningOrchestrator(
	items repositories.ItemRepository,
	boms repositories.BOMRepository,
	inventory repositories.InventoryRepository,
	machines repositories.MachineRepository,
	schedules repositories.ScheduleRepository,
	eventStore events.EventStore,
	logger *zap.Logger,
) (*PlanningOrchestrator, error) {
	if items == nil || boms == nil || inventory == nil || machines == nil || schedules == nil {
		return nil, fmt.Errorf("%w: repository", entities.ErrNilArgument)
	}
	if eventStore == nil {
		return nil, fmt.Errorf("%w: event store", entities.ErrNilArgument)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &PlanningOrchestrator{
		items:      items,
		boms:       boms,
		inventory:  inventory,
		machines:   machines,
		schedules:  schedules,
		eventStore: eventStore,
		logger:     logger,
	}, nil
}

func newRunID(prefix string) string {
	return prefix + "-" + uuid.New().String()[:8]
}

// RunMRP explodes each order's BOM, time-phases the component demand by
// cumulative lead time and nets it against repository inventory. Emits
// mrp.calculated plus one order.planned per planned order and one
// purchase_order.suggested per purchase suggestion.
func (o *PlanningOrchestrator) RunMRP(
	ctx context.Context,
	orders []CustomerOrder,
	horizonStart time.Time,
	opts MRPOptions,
) (*dto.MRPResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	allItems, err := o.items.GetAllItems()
	if err != nil {
		return nil, fmt.Errorf("loading items: %w", err)
	}
	components, err := o.boms.GetAllComponents()
	if err != nil {
		return nil, fmt.Errorf("loading BOM: %w", err)
	}

	itemValues := make([]entities.Item, len(allItems))
	for i, it := range allItems {
		itemValues[i] = *it
	}
	exploder := bom.NewExplosionService(itemValues, components)
	netting := mrp.NewNettingService(mrp.Config{
		PlanningHorizonDays: opts.PlanningHorizonDays,
		PeriodDays:          opts.PeriodDays,
	})

	itemIndex := make(map[entities.ItemID]*entities.Item, len(allItems))
	for _, it := range allItems {
		itemIndex[it.ID] = it
	}

	touched := make(map[entities.ItemID]bool)
	var touchedOrder []entities.ItemID

	for _, order := range orders {
		requirements, diag, err := exploder.Explode(order.ItemID, order.Quantity, opts.MaxBOMLevels)
		if err != nil {
			return nil, fmt.Errorf("exploding %s for order %s: %w", order.ItemID, order.OrderID, err)
		}
		if diag.CycleStops > 0 || diag.DepthStops > 0 || diag.UnknownItems > 0 {
			o.logger.Warn("BOM explosion truncated",
				zap.String("order_id", order.OrderID),
				zap.String("item_id", string(order.ItemID)),
				zap.Int("cycle_stops", diag.CycleStops),
				zap.Int("depth_stops", diag.DepthStops),
				zap.Int("unknown_items", diag.UnknownItems))
		}

		for _, req := range requirements {
			if !touched[req.ComponentID] {
				touched[req.ComponentID] = true
				touchedOrder = append(touchedOrder, req.ComponentID)
			}

			source := entities.SourceDependentDemand
			if req.Level == 0 {
				source = entities.SourceCustomerOrder
			}
			// Demand lands cumulative lead time ahead of the order due
			// date so every level below has room to procure.
			if err := netting.AddRequirement(entities.GrossRequirement{
				ItemID:      req.ComponentID,
				Period:      order.DueDate.AddDate(0, 0, -req.CumulativeLeadTimeDays),
				Quantity:    req.RequiredQty,
				Source:      source,
				ReferenceID: order.OrderID,
			}); err != nil {
				return nil, fmt.Errorf("order %s: %w", order.OrderID, err)
			}
		}
	}

	for _, itemID := range touchedOrder {
		if pos, err := o.inventory.GetPosition(itemID); err == nil && pos != nil {
			p := *pos
			if opts.ExcludeSafetyStock {
				p.SafetyStock = decimal.Zero
			}
			netting.SetInventory(p)
		}
		if item, ok := itemIndex[itemID]; ok {
			netting.SetItemParameters(itemID, mrp.ItemParameters{
				LeadTimeDays: item.LeadTimeDays,
				IsPurchased:  item.IsPurchased(),
				UnitCost:     item.UnitCost,
			})
		}
	}

	result, err := netting.Run(touchedOrder, horizonStart)
	if err != nil {
		return nil, err
	}

	o.publishMRPEvents(result)

	o.logger.Info("MRP run completed",
		zap.String("run_id", result.RunID),
		zap.Int("orders", len(orders)),
		zap.Int("items_analyzed", result.ItemsAnalyzed),
		zap.Int("purchase_orders", result.PurchaseOrdersCreated),
		zap.Int("production_orders", result.ProductionOrdersCreated),
		zap.String("total_po_value", result.TotalPOValue.String()))

	return result, nil
}

func (o *PlanningOrchestrator) publishMRPEvents(result *dto.MRPResult) {
	o.appendEvent(result.RunID, events.MRPCalculatedEvent, events.MRPCalculated{
		RunID:                   result.RunID,
		ItemsAnalyzed:           result.ItemsAnalyzed,
		PurchaseOrdersCreated:   result.PurchaseOrdersCreated,
		ProductionOrdersCreated: result.ProductionOrdersCreated,
		TotalPOValue:            result.TotalPOValue,
		Currency:                result.Currency,
	})

	for _, itemResult := range result.ItemResults {
		for _, order := range itemResult.PlannedOrders {
			o.appendEvent(result.RunID, events.OrderPlannedEvent, events.OrderPlanned{
				RunID: result.RunID,
				Order: order,
			})
		}
	}
	for _, s := range result.PurchaseSuggestions {
		o.appendEvent(result.RunID, events.PurchaseOrderSuggestedEvent, events.PurchaseOrderSuggested{
			RunID:     result.RunID,
			ItemID:    s.ItemID,
			Quantity:  s.Quantity,
			DueDate:   s.DueDate,
			LineTotal: s.LineTotal,
		})
	}
}

// RunSchedule dispatches the operations onto repository-held machines,
// persists the result under a fresh plan run ID and emits schedule.created.
func (o *PlanningOrchestrator) RunSchedule(
	ctx context.Context,
	operations []entities.SchedulingOperation,
	rule entities.DispatchRule,
	horizonStart time.Time,
) (*dto.SchedulingResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	machinePtrs, err := o.machines.GetAllMachines()
	if err != nil {
		return nil, fmt.Errorf("loading machines: %w", err)
	}
	machines := make([]entities.SchedulingMachine, len(machinePtrs))
	for i, m := range machinePtrs {
		machines[i] = *m
	}

	dispatcher := scheduling.NewDispatchService(rule)
	result, err := dispatcher.Schedule(operations, machines, horizonStart)
	if err != nil {
		return nil, err
	}
	result.RunID = newRunID("plan")

	if err := o.schedules.SaveRun(result.RunID, result.Operations); err != nil {
		return nil, fmt.Errorf("saving run %s: %w", result.RunID, err)
	}

	o.appendEvent(result.RunID, events.ScheduleCreatedEvent, events.ScheduleCreated{
		RunID:               result.RunID,
		OperationsScheduled: len(result.Operations),
		MakespanHours:       result.MakespanHours,
		TotalTardinessHours: result.TotalTardinessHours,
		LateOrders:          result.NumLateOrders,
	})

	o.logger.Info("scheduling run completed",
		zap.String("run_id", result.RunID),
		zap.String("rule", result.RuleUsed.String()),
		zap.Int("operations", len(result.Operations)),
		zap.Float64("makespan_hours", result.MakespanHours),
		zap.Float64("tardiness_hours", result.TotalTardinessHours),
		zap.Int("late_orders", result.NumLateOrders))

	return result, nil
}

// AnalyzeCapacity compares the persisted schedule against machine
// availability over [from, to) and emits capacity.constraint_detected for
// every over-capacity machine/period pair.
func (o *PlanningOrchestrator) AnalyzeCapacity(
	ctx context.Context,
	from, to time.Time,
	periodDays int,
) (*dto.CapacityReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	machinePtrs, err := o.machines.GetAllMachines()
	if err != nil {
		return nil, fmt.Errorf("loading machines: %w", err)
	}
	machines := make([]entities.SchedulingMachine, len(machinePtrs))
	for i, m := range machinePtrs {
		machines[i] = *m
	}

	scheduled, err := o.schedules.OperationsInRange(from, to)
	if err != nil {
		return nil, fmt.Errorf("loading schedule: %w", err)
	}

	analyzer := capacity.NewAnalysisService()
	report, err := analyzer.Analyze(machines, scheduled, from, to, periodDays)
	if err != nil {
		return nil, err
	}

	streamID := newRunID("cap")
	for _, a := range report.Analyses {
		if !a.IsOverCapacity() {
			continue
		}
		o.appendEvent(streamID, events.CapacityConstraintDetectedEvent, events.CapacityConstraintDetected{
			MachineID:          a.MachineID,
			Period:             a.Period,
			AvailableMinutes:   a.AvailableMinutes,
			RequiredMinutes:    a.AllocatedMinutes,
			UtilizationPercent: a.RawUtilizationPercent(),
			Severity:           a.Severity(),
		})
	}

	o.logger.Info("capacity analysis completed",
		zap.Int("machines", report.MachinesAnalyzed),
		zap.Int("periods", report.PeriodsAnalyzed),
		zap.Int("over_capacity", report.OverCapacityPeriods),
		zap.Float64("avg_utilization", report.AvgUtilizationPercent))

	return report, nil
}

func (o *PlanningOrchestrator) appendEvent(streamID, eventType string, payload interface{}) {
	event := events.NewEvent(eventType, streamID, payload)
	if err := o.eventStore.AppendEvent(streamID, event); err != nil {
		// Event persistence is advisory; the run result stands on its own.
		o.logger.Warn("failed to append event",
			zap.String("stream_id", streamID),
			zap.String("event_type", eventType),
			zap.Error(err))
	}
}
