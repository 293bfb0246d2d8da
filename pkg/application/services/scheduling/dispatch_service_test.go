package scheduling

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/prodplan/planning/pkg/domain/entities"
)

func timePtr(t time.Time) *time.Time { return &t }

func horizon() time.Time {
	return time.Date(2026, 3, 2, 6, 0, 0, 0, time.UTC)
}

func twoMachines() []entities.SchedulingMachine {
	return []entities.SchedulingMachine{
		{ID: "CNC-01", Name: "CNC Mill", Capacity: 1, AvailableHoursPerDay: 8},
		{ID: "WELD-01", Name: "Welding Station", Capacity: 1, AvailableHoursPerDay: 8},
	}
}

func TestSchedule_EDDOrdersByDueDate(t *testing.T) {
	start := horizon()
	ops := []entities.SchedulingOperation{
		{OperationID: "OP-3", OrderID: "SO-3", MachineID: "CNC-01", DurationMinutes: 60,
			DueDate: timePtr(start.Add(72 * time.Hour))},
		{OperationID: "OP-1", OrderID: "SO-1", MachineID: "CNC-01", DurationMinutes: 60,
			DueDate: timePtr(start.Add(24 * time.Hour))},
		{OperationID: "OP-2", OrderID: "SO-2", MachineID: "CNC-01", DurationMinutes: 60,
			DueDate: timePtr(start.Add(48 * time.Hour))},
	}

	svc := NewDispatchService(entities.EDD)
	result, err := svc.Schedule(ops, twoMachines(), start)
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}

	want := []string{"OP-1", "OP-2", "OP-3"}
	for i, w := range want {
		if result.Operations[i].OperationID != w {
			t.Errorf("position %d: expected %s, got %s", i, w, result.Operations[i].OperationID)
		}
	}

	// Back-to-back on the same machine, no gaps, no overlap
	for i := 1; i < len(result.Operations); i++ {
		prev, cur := result.Operations[i-1], result.Operations[i]
		if !cur.StartTime.Equal(prev.EndTime) {
			t.Errorf("operation %s should start at %v, got %v",
				cur.OperationID, prev.EndTime, cur.StartTime)
		}
	}
}

func TestSchedule_NilDueDateSortsLast(t *testing.T) {
	start := horizon()
	ops := []entities.SchedulingOperation{
		{OperationID: "OP-NODUE", OrderID: "SO-1", MachineID: "CNC-01", DurationMinutes: 30},
		{OperationID: "OP-DUE", OrderID: "SO-2", MachineID: "CNC-01", DurationMinutes: 30,
			DueDate: timePtr(start.Add(240 * time.Hour))},
	}

	svc := NewDispatchService(entities.EDD)
	result, err := svc.Schedule(ops, twoMachines(), start)
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}

	if result.Operations[0].OperationID != "OP-DUE" {
		t.Errorf("operation with due date should come first, got %s", result.Operations[0].OperationID)
	}
}

func TestSchedule_PriorityBreaksDueDateTies(t *testing.T) {
	start := horizon()
	due := timePtr(start.Add(24 * time.Hour))
	ops := []entities.SchedulingOperation{
		{OperationID: "OP-LOW", OrderID: "SO-1", MachineID: "CNC-01", DurationMinutes: 30,
			DueDate: due, Priority: 1},
		{OperationID: "OP-HIGH", OrderID: "SO-2", MachineID: "CNC-01", DurationMinutes: 30,
			DueDate: due, Priority: 5},
	}

	svc := NewDispatchService(entities.EDD)
	result, err := svc.Schedule(ops, twoMachines(), start)
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}

	if result.Operations[0].OperationID != "OP-HIGH" {
		t.Errorf("higher priority should win the tie, got %s", result.Operations[0].OperationID)
	}
}

func TestSchedule_EmptyMachineRoutesToManual(t *testing.T) {
	ops := []entities.SchedulingOperation{
		{OperationID: "OP-1", OrderID: "SO-1", DurationMinutes: 45},
	}

	svc := NewDispatchService(entities.EDD)
	result, err := svc.Schedule(ops, twoMachines(), horizon())
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}

	if result.Operations[0].MachineID != entities.ManualMachineID {
		t.Errorf("expected MANUAL routing, got %s", result.Operations[0].MachineID)
	}
}

func TestSchedule_IndependentMachineTimelines(t *testing.T) {
	start := horizon()
	ops := []entities.SchedulingOperation{
		{OperationID: "OP-A", OrderID: "SO-1", MachineID: "CNC-01", DurationMinutes: 60},
		{OperationID: "OP-B", OrderID: "SO-2", MachineID: "WELD-01", DurationMinutes: 90},
	}

	svc := NewDispatchService(entities.EDD)
	result, err := svc.Schedule(ops, twoMachines(), start)
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}

	for _, op := range result.Operations {
		if !op.StartTime.Equal(start) {
			t.Errorf("operation %s on its own machine should start at horizon, got %v",
				op.OperationID, op.StartTime)
		}
	}
	if result.MakespanHours != 1.5 {
		t.Errorf("expected makespan 1.5h (longest machine), got %v", result.MakespanHours)
	}
}

func TestSchedule_TardinessAndLateOrderDedup(t *testing.T) {
	start := horizon()
	// Both operations belong to SO-1 and both finish one hour late:
	// tardiness accumulates per operation, late order counts once.
	due1 := timePtr(start.Add(1 * time.Hour))
	due2 := timePtr(start.Add(3 * time.Hour))
	ops := []entities.SchedulingOperation{
		{OperationID: "OP-1", OrderID: "SO-1", MachineID: "CNC-01", DurationMinutes: 120, DueDate: due1},
		{OperationID: "OP-2", OrderID: "SO-1", MachineID: "CNC-01", DurationMinutes: 120, DueDate: due2},
	}

	svc := NewDispatchService(entities.EDD)
	result, err := svc.Schedule(ops, twoMachines(), start)
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}

	if math.Abs(result.TotalTardinessHours-2.0) > 1e-9 {
		t.Errorf("expected 2h total tardiness, got %v", result.TotalTardinessHours)
	}
	if result.NumLateOrders != 1 {
		t.Errorf("expected 1 late order (deduplicated), got %d", result.NumLateOrders)
	}
}

func TestSchedule_NegativeDurationRejected(t *testing.T) {
	ops := []entities.SchedulingOperation{
		{OperationID: "OP-1", OrderID: "SO-1", MachineID: "CNC-01", DurationMinutes: -5},
	}

	svc := NewDispatchService(entities.EDD)
	_, err := svc.Schedule(ops, twoMachines(), horizon())
	if !errors.Is(err, entities.ErrInvalidDuration) {
		t.Errorf("expected ErrInvalidDuration, got %v", err)
	}
}

func TestSchedule_ZeroDurationAccepted(t *testing.T) {
	ops := []entities.SchedulingOperation{
		{OperationID: "OP-1", OrderID: "SO-1", MachineID: "CNC-01", DurationMinutes: 0},
	}

	svc := NewDispatchService(entities.EDD)
	result, err := svc.Schedule(ops, twoMachines(), horizon())
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}
	op := result.Operations[0]
	if !op.StartTime.Equal(op.EndTime) {
		t.Errorf("zero duration should yield a zero-length slot")
	}
}

func TestSchedule_EmptyInput(t *testing.T) {
	svc := NewDispatchService(entities.EDD)
	result, err := svc.Schedule(nil, twoMachines(), horizon())
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}
	if len(result.Operations) != 0 || result.MakespanHours != 0 || result.AvgUtilization != 0 {
		t.Errorf("empty input should yield empty KPIs, got %+v", result)
	}
}

func TestSchedule_AvgUtilization(t *testing.T) {
	start := horizon()
	// 60 min work over a 1h makespan on 2 machines: 60/(2*60) = 50%
	ops := []entities.SchedulingOperation{
		{OperationID: "OP-1", OrderID: "SO-1", MachineID: "CNC-01", DurationMinutes: 60},
	}

	svc := NewDispatchService(entities.EDD)
	result, err := svc.Schedule(ops, twoMachines(), start)
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}
	if math.Abs(result.AvgUtilization-50.0) > 1e-9 {
		t.Errorf("expected 50%% utilization, got %v", result.AvgUtilization)
	}
}

func TestSchedule_SPTOrdersByDuration(t *testing.T) {
	ops := []entities.SchedulingOperation{
		{OperationID: "OP-LONG", OrderID: "SO-1", MachineID: "CNC-01", DurationMinutes: 90},
		{OperationID: "OP-SHORT", OrderID: "SO-2", MachineID: "CNC-01", DurationMinutes: 15},
		{OperationID: "OP-MID", OrderID: "SO-3", MachineID: "CNC-01", DurationMinutes: 45},
	}

	svc := NewDispatchService(entities.SPT)
	result, err := svc.Schedule(ops, twoMachines(), horizon())
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}

	want := []string{"OP-SHORT", "OP-MID", "OP-LONG"}
	for i, w := range want {
		if result.Operations[i].OperationID != w {
			t.Errorf("position %d: expected %s, got %s", i, w, result.Operations[i].OperationID)
		}
	}
}

func TestSchedule_WSPTWeighsByPriority(t *testing.T) {
	// 90min at priority 10 (weighted 9) beats 15min at priority 1 (weighted 15)
	ops := []entities.SchedulingOperation{
		{OperationID: "OP-SHORT", OrderID: "SO-1", MachineID: "CNC-01", DurationMinutes: 15, Priority: 1},
		{OperationID: "OP-URGENT", OrderID: "SO-2", MachineID: "CNC-01", DurationMinutes: 90, Priority: 10},
	}

	svc := NewDispatchService(entities.WSPT)
	result, err := svc.Schedule(ops, twoMachines(), horizon())
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}

	if result.Operations[0].OperationID != "OP-URGENT" {
		t.Errorf("weighted duration should prefer the urgent operation, got %s",
			result.Operations[0].OperationID)
	}
}

func TestSchedule_FIFOKeepsInputOrder(t *testing.T) {
	start := horizon()
	ops := []entities.SchedulingOperation{
		{OperationID: "OP-1", OrderID: "SO-1", MachineID: "CNC-01", DurationMinutes: 30,
			DueDate: timePtr(start.Add(96 * time.Hour))},
		{OperationID: "OP-2", OrderID: "SO-2", MachineID: "CNC-01", DurationMinutes: 30,
			DueDate: timePtr(start.Add(24 * time.Hour))},
	}

	svc := NewDispatchService(entities.FIFO)
	result, err := svc.Schedule(ops, twoMachines(), start)
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}

	if result.Operations[0].OperationID != "OP-1" {
		t.Errorf("FIFO should ignore due dates and keep input order, got %s",
			result.Operations[0].OperationID)
	}
}

func TestMachineUtilization_UsesDeclaredCapacity(t *testing.T) {
	start := horizon()
	machines := []entities.SchedulingMachine{
		{ID: "CNC-01", Capacity: 1, AvailableHoursPerDay: 8},
		{ID: "ASSY-01", Capacity: 2, AvailableHoursPerDay: 8},
	}
	ops := []entities.SchedulingOperation{
		{OperationID: "OP-1", OrderID: "SO-1", MachineID: "CNC-01", DurationMinutes: 60},
		{OperationID: "OP-2", OrderID: "SO-2", MachineID: "ASSY-01", DurationMinutes: 60},
	}

	svc := NewDispatchService(entities.EDD)
	result, err := svc.Schedule(ops, machines, start)
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}

	util := svc.MachineUtilization(result, machines)
	// Makespan is 1h. CNC-01: 60/(1*60) = 100%. ASSY-01: 60/(2*60) = 50%.
	if math.Abs(util["CNC-01"]-100.0) > 1e-9 {
		t.Errorf("CNC-01: expected 100%%, got %v", util["CNC-01"])
	}
	if math.Abs(util["ASSY-01"]-50.0) > 1e-9 {
		t.Errorf("ASSY-01: expected 50%%, got %v", util["ASSY-01"])
	}
}

func TestMachineUtilization_IdleMachineZero(t *testing.T) {
	machines := twoMachines()
	ops := []entities.SchedulingOperation{
		{OperationID: "OP-1", OrderID: "SO-1", MachineID: "CNC-01", DurationMinutes: 60},
	}

	svc := NewDispatchService(entities.EDD)
	result, err := svc.Schedule(ops, machines, horizon())
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}

	util := svc.MachineUtilization(result, machines)
	if util["WELD-01"] != 0 {
		t.Errorf("idle machine should have 0%% utilization, got %v", util["WELD-01"])
	}
}
