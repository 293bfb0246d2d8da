// Package capacity compares scheduled machine load against available working
// time, period by period, and flags over-capacity situations.
package capacity

import (
	"fmt"
	"time"

	"github.com/prodplan/planning/pkg/application/dto"
	"github.com/prodplan/planning/pkg/domain/entities"
)

// DefaultHoursPerDay applies when a machine carries no availability figure
const DefaultHoursPerDay = 8.0

// AnalysisService computes per-machine, per-period capacity pictures from a
// set of already scheduled operations.
type AnalysisService struct{}

// NewAnalysisService creates a capacity analysis service
func NewAnalysisService() *AnalysisService {
	return &AnalysisService{}
}

// workingDays caps a period at the 5-day work week. Availability is
// hoursPerDay x 60 x workingDays regardless of where the period starts.
func workingDays(periodDays int) int {
	if periodDays > 5 {
		return 5
	}
	return periodDays
}

// Analyze produces one row per (machine, period) over [from, to). An
// operation contributes its minutes to the period its start time falls in.
func (s *AnalysisService) Analyze(
	machines []entities.SchedulingMachine,
	scheduled []entities.ScheduledOperation,
	from, to time.Time,
	periodDays int,
) (*dto.CapacityReport, error) {
	if periodDays <= 0 {
		return nil, fmt.Errorf("%w: period of %d days", entities.ErrInvalidDuration, periodDays)
	}
	if to.Before(from) {
		return nil, fmt.Errorf("%w: range ends %s before it starts %s",
			entities.ErrInvalidDuration, to.Format("2006-01-02"), from.Format("2006-01-02"))
	}

	report := &dto.CapacityReport{
		PeriodStart:      from,
		PeriodEnd:        to,
		MachinesAnalyzed: len(machines),
	}

	for period := from; period.Before(to); period = period.AddDate(0, 0, periodDays) {
		report.PeriodsAnalyzed++
		periodEnd := period.AddDate(0, 0, periodDays)

		for _, m := range machines {
			hoursPerDay := m.AvailableHoursPerDay
			if hoursPerDay <= 0 {
				hoursPerDay = DefaultHoursPerDay
			}
			available := int(hoursPerDay * 60 * float64(workingDays(periodDays)))

			// Sum in float and truncate once so fractional-minute
			// operations don't each lose their remainder.
			var allocatedMinutes float64
			for _, op := range scheduled {
				if op.MachineID != m.ID {
					continue
				}
				if op.StartTime.Before(period) || !op.StartTime.Before(periodEnd) {
					continue
				}
				allocatedMinutes += op.DurationMinutes
			}
			allocated := int(allocatedMinutes)

			analysis := entities.CapacityAnalysis{
				MachineID:        m.ID,
				MachineName:      m.Name,
				Period:           period,
				AvailableMinutes: available,
				AllocatedMinutes: allocated,
			}
			report.Analyses = append(report.Analyses, analysis)
			report.TotalAvailableMinutes += available
			report.TotalAllocatedMinutes += allocated

			if analysis.IsOverCapacity() {
				report.OverCapacityPeriods++
				report.Warnings = append(report.Warnings, fmt.Sprintf(
					"machine %s over capacity in period starting %s: %d min allocated vs %d min available (%s)",
					m.ID, period.Format("2006-01-02"), allocated, available, analysis.Severity()))
			}
		}
	}

	// Minute-weighted average: total load over total availability, not a
	// mean of per-pair ratios.
	if report.TotalAvailableMinutes > 0 {
		report.AvgUtilizationPercent = float64(report.TotalAllocatedMinutes) /
			float64(report.TotalAvailableMinutes) * 100
	}

	return report, nil
}

// MachineAvailability breaks one machine's load picture down to single days
// over the inclusive range [from, to]. Days outside the machine's
// availability window carry zero available minutes.
func (s *AnalysisService) MachineAvailability(
	machine entities.SchedulingMachine,
	scheduled []entities.ScheduledOperation,
	from, to time.Time,
) (*dto.MachineAvailability, error) {
	if machine.ID == "" {
		return nil, fmt.Errorf("%w: machine ID", entities.ErrNilArgument)
	}
	if to.Before(from) {
		return nil, fmt.Errorf("%w: range ends %s before it starts %s",
			entities.ErrInvalidDuration, to.Format("2006-01-02"), from.Format("2006-01-02"))
	}
	hoursPerDay := machine.AvailableHoursPerDay
	if hoursPerDay <= 0 {
		hoursPerDay = DefaultHoursPerDay
	}

	result := &dto.MachineAvailability{
		MachineID: machine.ID,
		FromDate:  from,
		ToDate:    to,
	}

	availablePerDay := int(hoursPerDay * 60)
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		dayEnd := day.AddDate(0, 0, 1)

		available := availablePerDay
		if (machine.AvailableFrom != nil && day.Before(*machine.AvailableFrom)) ||
			(machine.AvailableUntil != nil && day.After(*machine.AvailableUntil)) {
			available = 0
		}

		var allocatedMinutes float64
		var orders []string
		seen := make(map[string]bool)
		for _, op := range scheduled {
			if op.MachineID != machine.ID {
				continue
			}
			if op.StartTime.Before(day) || !op.StartTime.Before(dayEnd) {
				continue
			}
			allocatedMinutes += op.DurationMinutes
			if op.OrderID != "" && !seen[op.OrderID] {
				seen[op.OrderID] = true
				orders = append(orders, op.OrderID)
			}
		}
		allocated := int(allocatedMinutes)

		analysis := entities.CapacityAnalysis{
			MachineID:        machine.ID,
			Period:           day,
			AvailableMinutes: available,
			AllocatedMinutes: allocated,
		}
		result.Days = append(result.Days, dto.DayAvailability{
			Date:               day,
			AvailableMinutes:   available,
			AllocatedMinutes:   allocated,
			FreeMinutes:        analysis.FreeMinutes(),
			UtilizationPercent: analysis.UtilizationPercent(),
			OrdersScheduled:    orders,
		})
		result.TotalAvailableMinutes += available
		result.TotalAllocatedMinutes += allocated
		result.FreeMinutes += analysis.FreeMinutes()
	}

	if result.TotalAvailableMinutes > 0 {
		result.AvgUtilizationPercent = float64(result.TotalAllocatedMinutes) /
			float64(result.TotalAvailableMinutes) * 100
	}

	return result, nil
}
