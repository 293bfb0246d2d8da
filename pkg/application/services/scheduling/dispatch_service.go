// Package scheduling implements a greedy, single-pass dispatch scheduler:
// operations are sorted by a dispatch rule and placed on each machine's
// timeline in that order. No backtracking, no optimality guarantee, but the
// result is deterministic for a fixed input order.
package scheduling

import (
	"fmt"
	"sort"
	"time"

	"github.com/prodplan/planning/pkg/application/dto"
	"github.com/prodplan/planning/pkg/domain/entities"
)

// DispatchService schedules operations onto machines using a dispatch rule
type DispatchService struct {
	rule entities.DispatchRule
}

// NewDispatchService creates a scheduler using the given dispatch rule
func NewDispatchService(rule entities.DispatchRule) *DispatchService {
	return &DispatchService{rule: rule}
}

// Rule returns the configured dispatch rule
func (s *DispatchService) Rule() entities.DispatchRule {
	return s.rule
}

// sortOperations orders a copy of the input by the dispatch rule. Sorting is
// stable, so equal keys keep their input order.
func (s *DispatchService) sortOperations(operations []entities.SchedulingOperation) []entities.SchedulingOperation {
	sorted := make([]entities.SchedulingOperation, len(operations))
	copy(sorted, operations)

	less := func(a, b entities.SchedulingOperation) bool {
		switch s.rule {
		case entities.SPT:
			return a.DurationMinutes < b.DurationMinutes
		case entities.WSPT:
			// Weighted SPT: duration scaled down by priority; zero
			// priority sorts as unweighted duration.
			wa, wb := a.DurationMinutes, b.DurationMinutes
			if a.Priority > 0 {
				wa /= a.Priority
			}
			if b.Priority > 0 {
				wb /= b.Priority
			}
			return wa < wb
		case entities.FIFO:
			return false // keep input order
		default: // EDD
			// Missing due dates sort last; ties broken by priority
			// descending.
			switch {
			case a.DueDate == nil && b.DueDate == nil:
				return a.Priority > b.Priority
			case a.DueDate == nil:
				return false
			case b.DueDate == nil:
				return true
			case a.DueDate.Equal(*b.DueDate):
				return a.Priority > b.Priority
			default:
				return a.DueDate.Before(*b.DueDate)
			}
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool { return less(sorted[i], sorted[j]) })

	return sorted
}

// Schedule places every operation on its machine's timeline in dispatch
// order. Operations without a machine go to the MANUAL pseudo-machine.
// Each machine is treated as a single resource: declared capacity above one
// is intentionally not consumed here (see SchedulingMachine).
func (s *DispatchService) Schedule(
	operations []entities.SchedulingOperation,
	machines []entities.SchedulingMachine,
	horizonStart time.Time,
) (*dto.SchedulingResult, error) {
	for _, op := range operations {
		if op.DurationMinutes < 0 {
			return nil, fmt.Errorf("%w: operation %s has duration %v",
				entities.ErrInvalidDuration, op.OperationID, op.DurationMinutes)
		}
	}

	nextAvailable := make(map[entities.MachineID]time.Time, len(machines)+1)
	for _, m := range machines {
		nextAvailable[m.ID] = horizonStart
	}

	result := &dto.SchedulingResult{
		RuleUsed:   s.rule,
		Operations: make([]entities.ScheduledOperation, 0, len(operations)),
	}

	lateOrders := make(map[string]bool)
	var lastEnd time.Time
	totalWorkMinutes := 0.0

	for _, op := range s.sortOperations(operations) {
		machineID := op.MachineID
		if machineID == "" {
			machineID = entities.ManualMachineID
		}
		if _, known := nextAvailable[machineID]; !known {
			nextAvailable[machineID] = horizonStart
		}

		startTime := nextAvailable[machineID]
		endTime := startTime.Add(time.Duration(op.DurationMinutes * float64(time.Minute)))
		nextAvailable[machineID] = endTime

		if op.DueDate != nil && endTime.After(*op.DueDate) {
			result.TotalTardinessHours += endTime.Sub(*op.DueDate).Hours()
			lateOrders[op.OrderID] = true
		}

		if endTime.After(lastEnd) {
			lastEnd = endTime
		}
		totalWorkMinutes += op.DurationMinutes

		result.Operations = append(result.Operations, entities.ScheduledOperation{
			OperationID:     op.OperationID,
			OrderID:         op.OrderID,
			ProductID:       op.ProductID,
			MachineID:       machineID,
			StartTime:       startTime,
			EndTime:         endTime,
			DurationMinutes: op.DurationMinutes,
		})
	}

	result.NumLateOrders = len(lateOrders)

	if len(result.Operations) > 0 {
		result.MakespanHours = lastEnd.Sub(horizonStart).Hours()
	}
	// System-wide utilization over the makespan window; per-machine figures
	// come from MachineUtilization.
	if availableMinutes := float64(len(machines)) * result.MakespanHours * 60; availableMinutes > 0 {
		utilization := totalWorkMinutes / availableMinutes * 100
		if utilization > 100 {
			utilization = 100
		}
		result.AvgUtilization = utilization
	}

	return result, nil
}

// MachineUtilization derives the per-machine utilization of a scheduling
// result over its makespan, weighting availability by declared capacity.
func (s *DispatchService) MachineUtilization(
	result *dto.SchedulingResult,
	machines []entities.SchedulingMachine,
) map[entities.MachineID]float64 {
	work := make(map[entities.MachineID]float64, len(machines))
	for _, m := range machines {
		work[m.ID] = 0
	}
	for _, op := range result.Operations {
		if _, known := work[op.MachineID]; known {
			work[op.MachineID] += op.DurationMinutes
		}
	}

	utilization := make(map[entities.MachineID]float64, len(machines))
	for _, m := range machines {
		available := float64(m.Capacity) * result.MakespanHours * 60
		if available <= 0 {
			utilization[m.ID] = 0
			continue
		}
		u := work[m.ID] / available * 100
		if u > 100 {
			u = 100
		}
		utilization[m.ID] = u
	}

	return utilization
}
