package orchestration

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/prodplan/planning/pkg/domain/entities"
	"github.com/prodplan/planning/pkg/infrastructure/events"
	"github.com/prodplan/planning/pkg/infrastructure/repositories/memory"
)

// fixture is a small furniture plant: kit K1 assembles from steel tube and
// a wood panel, with steel partially covered by stock.
type fixture struct {
	orch  *PlanningOrchestrator
	store *events.InMemoryEventStore
	runs  *memory.ScheduleRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	items := memory.NewItemRepository(8)
	items.AddItem(entities.Item{
		ID: "K1", Name: "Kit K1", Type: entities.FinishedGood,
		LeadTimeDays: 5, UnitCost: decimal.NewFromInt(40),
	})
	items.AddItem(entities.Item{
		ID: "STEEL-01", Name: "Steel Tube", Type: entities.RawMaterial,
		LeadTimeDays: 14, UnitCost: decimal.RequireFromString("2.5"),
	})
	items.AddItem(entities.Item{
		ID: "WOOD-01", Name: "Wood Panel", Type: entities.RawMaterial,
		LeadTimeDays: 10, UnitCost: decimal.NewFromInt(4),
	})

	boms := memory.NewBOMRepository(4)
	steel, err := entities.NewBOMComponent("K1", "STEEL-01",
		decimal.NewFromInt(2), decimal.RequireFromString("1.02"), 10)
	if err != nil {
		t.Fatalf("building BOM: %v", err)
	}
	wood, err := entities.NewBOMComponent("K1", "WOOD-01",
		decimal.NewFromInt(1), decimal.NewFromInt(1), 20)
	if err != nil {
		t.Fatalf("building BOM: %v", err)
	}
	boms.AddComponent(*steel)
	boms.AddComponent(*wood)

	inventory := memory.NewInventoryRepository()
	inventory.SetPosition(entities.InventoryPosition{
		ItemID: "STEEL-01", OnHand: decimal.NewFromInt(200),
	})

	machines := memory.NewMachineRepository(4)
	machines.AddMachine(entities.SchedulingMachine{
		ID: "CNC-01", Name: "CNC Mill", Capacity: 1, AvailableHoursPerDay: 8,
	})
	machines.AddMachine(entities.SchedulingMachine{
		ID: "ASSY-01", Name: "Assembly", Capacity: 1, AvailableHoursPerDay: 8,
	})

	runs := memory.NewScheduleRepository()
	store := events.NewInMemoryEventStore()

	orch, err := NewPlanningOrchestrator(items, boms, inventory, machines, runs, store, nil)
	if err != nil {
		t.Fatalf("building orchestrator: %v", err)
	}

	return &fixture{orch: orch, store: store, runs: runs}
}

func countEvents(t *testing.T, store *events.InMemoryEventStore, eventType string) int {
	t.Helper()
	all, err := store.ReadAllEvents(0)
	if err != nil {
		t.Fatalf("reading events: %v", err)
	}
	n := 0
	for _, e := range all {
		if e.Type() == eventType {
			n++
		}
	}
	return n
}

func TestRunMRP_EndToEnd(t *testing.T) {
	f := newFixture(t)
	horizonStart := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	result, err := f.orch.RunMRP(context.Background(), []CustomerOrder{
		{
			OrderID:  "SO-1001",
			ItemID:   "K1",
			Quantity: decimal.NewFromInt(500),
			DueDate:  horizonStart.AddDate(0, 0, 40),
		},
	}, horizonStart, MRPOptions{})
	if err != nil {
		t.Fatalf("RunMRP failed: %v", err)
	}

	if !strings.HasPrefix(result.RunID, "mrp-") || len(result.RunID) != 12 {
		t.Errorf("expected run ID mrp-<8 hex>, got %q", result.RunID)
	}
	if result.ItemsAnalyzed != 3 {
		t.Errorf("expected 3 items analyzed, got %d", result.ItemsAnalyzed)
	}
	if result.Currency != "EUR" {
		t.Errorf("expected EUR, got %s", result.Currency)
	}

	// 500 kits x 2 tubes x 1.02 scrap = 1020 gross, 200 on hand, net 820
	steelPlanned := decimal.Zero
	steelFound := false
	for _, ir := range result.ItemResults {
		if ir.ItemID != "STEEL-01" {
			continue
		}
		steelFound = true
		for _, po := range ir.PlannedOrders {
			steelPlanned = steelPlanned.Add(po.Quantity)
		}
	}
	if !steelFound {
		t.Fatal("no item result for STEEL-01")
	}
	if !steelPlanned.Equal(decimal.NewFromInt(820)) {
		t.Errorf("expected 820 steel planned, got %s", steelPlanned)
	}

	if result.PurchaseOrdersCreated != 2 {
		t.Errorf("expected 2 purchase orders (steel, wood), got %d", result.PurchaseOrdersCreated)
	}
	if result.ProductionOrdersCreated != 1 {
		t.Errorf("expected 1 production order (kit), got %d", result.ProductionOrdersCreated)
	}

	// 820 x 2.50 + 500 x 4.00; the kit order is production and not valued
	if !result.TotalPOValue.Equal(decimal.NewFromInt(4050)) {
		t.Errorf("expected PO value 4050, got %s", result.TotalPOValue)
	}

	if n := countEvents(t, f.store, events.MRPCalculatedEvent); n != 1 {
		t.Errorf("expected 1 mrp.calculated event, got %d", n)
	}
	if n := countEvents(t, f.store, events.OrderPlannedEvent); n != 3 {
		t.Errorf("expected 3 order.planned events, got %d", n)
	}
	if n := countEvents(t, f.store, events.PurchaseOrderSuggestedEvent); n != 2 {
		t.Errorf("expected 2 purchase_order.suggested events, got %d", n)
	}
}

func TestRunMRP_ExcludeSafetyStock(t *testing.T) {
	f := newFixture(t)
	horizonStart := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	// Cover demand exactly from stock; only safety stock could trigger an
	// order, and the option suppresses it.
	result, err := f.orch.RunMRP(context.Background(), nil, horizonStart,
		MRPOptions{ExcludeSafetyStock: true})
	if err != nil {
		t.Fatalf("RunMRP failed: %v", err)
	}
	if result.ItemsAnalyzed != 0 {
		t.Errorf("no orders should analyze no items, got %d", result.ItemsAnalyzed)
	}
}

func TestRunMRP_CancelledContext(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := f.orch.RunMRP(ctx, nil, time.Now(), MRPOptions{}); err == nil {
		t.Error("expected context error")
	}
}

func TestRunSchedule_PersistsAndPublishes(t *testing.T) {
	f := newFixture(t)
	horizonStart := time.Date(2026, 3, 2, 6, 0, 0, 0, time.UTC)

	due := horizonStart.Add(48 * time.Hour)
	ops := []entities.SchedulingOperation{
		{OperationID: "OP-1", OrderID: "SO-1001", ProductID: "K1",
			MachineID: "CNC-01", DurationMinutes: 120, DueDate: &due},
		{OperationID: "OP-2", OrderID: "SO-1001", ProductID: "K1",
			MachineID: "ASSY-01", DurationMinutes: 90, DueDate: &due},
	}

	result, err := f.orch.RunSchedule(context.Background(), ops, entities.EDD, horizonStart)
	if err != nil {
		t.Fatalf("RunSchedule failed: %v", err)
	}

	if !strings.HasPrefix(result.RunID, "plan-") {
		t.Errorf("expected run ID plan-<8 hex>, got %q", result.RunID)
	}

	stored, err := f.runs.GetRun(result.RunID)
	if err != nil {
		t.Fatalf("stored run not found: %v", err)
	}
	if len(stored) != 2 {
		t.Errorf("expected 2 persisted operations, got %d", len(stored))
	}

	if n := countEvents(t, f.store, events.ScheduleCreatedEvent); n != 1 {
		t.Errorf("expected 1 schedule.created event, got %d", n)
	}
}

func TestAnalyzeCapacity_ReadsPersistedScheduleAndFlags(t *testing.T) {
	f := newFixture(t)
	horizonStart := time.Date(2026, 3, 2, 6, 0, 0, 0, time.UTC)

	// 2 machines x 8h/day x 5 days = 2400 min each per week; overload CNC-01
	ops := []entities.SchedulingOperation{
		{OperationID: "OP-1", OrderID: "SO-1", MachineID: "CNC-01", DurationMinutes: 1300},
		{OperationID: "OP-2", OrderID: "SO-2", MachineID: "CNC-01", DurationMinutes: 1300},
		{OperationID: "OP-3", OrderID: "SO-3", MachineID: "ASSY-01", DurationMinutes: 600},
	}
	if _, err := f.orch.RunSchedule(context.Background(), ops, entities.EDD, horizonStart); err != nil {
		t.Fatalf("RunSchedule failed: %v", err)
	}

	from := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	report, err := f.orch.AnalyzeCapacity(context.Background(), from, from.AddDate(0, 0, 7), 7)
	if err != nil {
		t.Fatalf("AnalyzeCapacity failed: %v", err)
	}

	if report.OverCapacityPeriods != 1 {
		t.Errorf("expected CNC-01 flagged once, got %d", report.OverCapacityPeriods)
	}
	if n := countEvents(t, f.store, events.CapacityConstraintDetectedEvent); n != 1 {
		t.Errorf("expected 1 capacity.constraint_detected event, got %d", n)
	}
}

func TestNewPlanningOrchestrator_NilRepositories(t *testing.T) {
	if _, err := NewPlanningOrchestrator(nil, nil, nil, nil, nil, nil, nil); err == nil {
		t.Error("expected error for nil repositories")
	}
}
