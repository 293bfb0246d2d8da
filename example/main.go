package main

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/prodplan/planning/pkg/application/services/orchestration"
	"github.com/prodplan/planning/pkg/domain/entities"
	"github.com/prodplan/planning/pkg/infrastructure/events"
	"github.com/prodplan/planning/pkg/infrastructure/repositories/memory"
)

func main() {
	ctx := context.Background()

	// Master data for a small furniture plant
	itemRepo := memory.NewItemRepository(4)
	itemRepo.AddItem(entities.Item{
		ID: "K1", Name: "Shelf Kit K1", Type: entities.FinishedGood,
		LeadTimeDays: 5, UnitCost: decimal.NewFromInt(40),
	})
	itemRepo.AddItem(entities.Item{
		ID: "STEEL-01", Name: "Steel Tube 25mm", Type: entities.RawMaterial,
		LeadTimeDays: 14, UnitCost: decimal.RequireFromString("2.50"),
	})
	itemRepo.AddItem(entities.Item{
		ID: "WOOD-01", Name: "Wood Panel 60x30", Type: entities.RawMaterial,
		LeadTimeDays: 10, UnitCost: decimal.NewFromInt(4),
	})

	bomRepo := memory.NewBOMRepository(2)
	steel, _ := entities.NewBOMComponent("K1", "STEEL-01",
		decimal.NewFromInt(2), decimal.RequireFromString("1.02"), 10)
	wood, _ := entities.NewBOMComponent("K1", "WOOD-01",
		decimal.NewFromInt(1), decimal.NewFromInt(1), 20)
	bomRepo.AddComponent(*steel)
	bomRepo.AddComponent(*wood)

	inventoryRepo := memory.NewInventoryRepository()
	inventoryRepo.SetPosition(entities.InventoryPosition{
		ItemID: "STEEL-01", OnHand: decimal.NewFromInt(200),
	})

	machineRepo := memory.NewMachineRepository(2)
	machineRepo.AddMachine(entities.SchedulingMachine{
		ID: "CNC-01", Name: "CNC Mill", Capacity: 1, AvailableHoursPerDay: 8,
	})
	machineRepo.AddMachine(entities.SchedulingMachine{
		ID: "ASSY-01", Name: "Assembly Line", Capacity: 1, AvailableHoursPerDay: 8,
	})

	scheduleRepo := memory.NewScheduleRepository()
	eventStore := events.NewInMemoryEventStore()

	orchestrator, err := orchestration.NewPlanningOrchestrator(
		itemRepo, bomRepo, inventoryRepo, machineRepo, scheduleRepo, eventStore, nil)
	if err != nil {
		fmt.Printf("setup failed: %v\n", err)
		return
	}

	horizonStart := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	fmt.Println("Running MRP for 500 shelf kits...")
	mrpResult, err := orchestrator.RunMRP(ctx, []orchestration.CustomerOrder{
		{
			OrderID:  "SO-1001",
			ItemID:   "K1",
			Quantity: decimal.NewFromInt(500),
			DueDate:  horizonStart.AddDate(0, 0, 40),
		},
	}, horizonStart, orchestration.MRPOptions{})
	if err != nil {
		fmt.Printf("MRP failed: %v\n", err)
		return
	}

	fmt.Printf("  Run: %s\n", mrpResult.RunID)
	fmt.Printf("  Items analyzed: %d\n", mrpResult.ItemsAnalyzed)
	fmt.Printf("  Purchase orders: %d (%s %s)\n",
		mrpResult.PurchaseOrdersCreated, mrpResult.TotalPOValue.StringFixed(2), mrpResult.Currency)
	fmt.Printf("  Production orders: %d\n", mrpResult.ProductionOrdersCreated)
	for _, s := range mrpResult.PurchaseSuggestions {
		fmt.Printf("    buy %s x %s, order by %s\n",
			s.Quantity, s.ItemID, s.StartDate.Format("2006-01-02"))
	}
	fmt.Println()

	fmt.Println("Scheduling the kit production run...")
	shopStart := horizonStart.Add(6 * time.Hour)
	due := horizonStart.AddDate(0, 0, 40)
	schedResult, err := orchestrator.RunSchedule(ctx, []entities.SchedulingOperation{
		{OperationID: "OP-10", OrderID: "SO-1001", ProductID: "K1", Sequence: 10,
			DurationMinutes: 1500, MachineID: "CNC-01", DueDate: &due},
		{OperationID: "OP-20", OrderID: "SO-1001", ProductID: "K1", Sequence: 20,
			DurationMinutes: 2000, MachineID: "ASSY-01", DueDate: &due},
		{OperationID: "OP-30", OrderID: "SO-1001", ProductID: "K1", Sequence: 30,
			DurationMinutes: 300, DueDate: &due},
	}, entities.EDD, shopStart)
	if err != nil {
		fmt.Printf("scheduling failed: %v\n", err)
		return
	}

	fmt.Printf("  Run: %s (rule %s)\n", schedResult.RunID, schedResult.RuleUsed)
	fmt.Printf("  Makespan: %.1f h, late orders: %d\n",
		schedResult.MakespanHours, schedResult.NumLateOrders)
	for _, op := range schedResult.Operations {
		fmt.Printf("    %s on %-8s %s -> %s\n",
			op.OperationID, op.MachineID,
			op.StartTime.Format("Jan 2 15:04"), op.EndTime.Format("Jan 2 15:04"))
	}
	fmt.Println()

	fmt.Println("Analyzing capacity for the first week...")
	report, err := orchestrator.AnalyzeCapacity(ctx, horizonStart, horizonStart.AddDate(0, 0, 7), 7)
	if err != nil {
		fmt.Printf("capacity analysis failed: %v\n", err)
		return
	}
	for _, a := range report.Analyses {
		status := "ok"
		if a.IsOverCapacity() {
			status = "OVER CAPACITY"
		}
		fmt.Printf("  %-8s %4d / %4d min (%.0f%%) %s\n",
			a.MachineID, a.AllocatedMinutes, a.AvailableMinutes,
			a.RawUtilizationPercent(), status)
	}
	fmt.Println()

	all, _ := eventStore.ReadAllEvents(0)
	fmt.Printf("Events recorded: %d\n", len(all))
	for _, e := range all {
		fmt.Printf("  %-30s stream=%s\n", e.Type(), e.StreamID())
	}
}
