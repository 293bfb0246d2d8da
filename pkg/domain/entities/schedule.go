package entities

import (
	"time"
)

// ManualMachineID is the virtual machine that receives operations without a
// machine assignment (manual work).
const ManualMachineID MachineID = "MANUAL"

// DispatchRule selects the sort order of the greedy dispatch scheduler
type DispatchRule int

const (
	EDD DispatchRule = iota // earliest due date (default)
	FIFO
	SPT  // shortest processing time
	WSPT // weighted shortest processing time
)

// String method for DispatchRule enum
func (r DispatchRule) String() string {
	switch r {
	case EDD:
		return "edd"
	case FIFO:
		return "fifo"
	case SPT:
		return "spt"
	case WSPT:
		return "wspt"
	default:
		return "unknown"
	}
}

// SchedulingOperation is one routing step to be placed on a machine.
// An empty MachineID routes the operation to the MANUAL pseudo-machine.
// A nil DueDate sorts last under EDD (treated as infinitely far out).
type SchedulingOperation struct {
	OperationID     string
	OrderID         string
	ProductID       string
	Sequence        int
	DurationMinutes float64
	MachineID       MachineID
	DueDate         *time.Time
	Priority        float64
}

// SchedulingMachine is a machine definition supplied by master data.
// Capacity > 1 is declared here but the dispatch loop schedules every
// machine as a single resource; only per-machine utilization reporting
// consumes the declared capacity.
type SchedulingMachine struct {
	ID                   MachineID
	Name                 string
	Capacity             int
	SpeedFactor          float64
	AvailableHoursPerDay float64
	AvailableFrom        *time.Time
	AvailableUntil       *time.Time
}

// ScheduledOperation is one dispatched slot on a machine's timeline.
// For a fixed machine, slots are non-overlapping and ordered by start time
// in the order the dispatch rule selected them.
type ScheduledOperation struct {
	OperationID     string
	OrderID         string
	ProductID       string
	MachineID       MachineID
	StartTime       time.Time
	EndTime         time.Time
	DurationMinutes float64
}
