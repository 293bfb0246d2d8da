package entities

import (
	"time"
)

// Severity levels for capacity analysis rows
const (
	SeverityNormal   = "normal"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// CapacityAnalysis compares scheduled load against availability for one
// machine in one period.
type CapacityAnalysis struct {
	MachineID        MachineID
	MachineName      string
	Period           time.Time
	AvailableMinutes int
	AllocatedMinutes int
}

// UtilizationPercent returns allocated over available, capped at 100 for
// display. Use RawUtilizationPercent for the uncapped ratio.
func (c CapacityAnalysis) UtilizationPercent() float64 {
	u := c.RawUtilizationPercent()
	if u > 100 {
		return 100
	}
	return u
}

// RawUtilizationPercent returns the uncapped utilization ratio
func (c CapacityAnalysis) RawUtilizationPercent() float64 {
	if c.AvailableMinutes <= 0 {
		return 0
	}
	return float64(c.AllocatedMinutes) / float64(c.AvailableMinutes) * 100
}

// FreeMinutes returns remaining capacity, never negative
func (c CapacityAnalysis) FreeMinutes() int {
	if c.AllocatedMinutes >= c.AvailableMinutes {
		return 0
	}
	return c.AvailableMinutes - c.AllocatedMinutes
}

// IsOverCapacity reports whether allocated load exceeds availability
func (c CapacityAnalysis) IsOverCapacity() bool {
	return c.AllocatedMinutes > c.AvailableMinutes
}

// Severity classifies the utilization level for reporting
func (c CapacityAnalysis) Severity() string {
	switch u := c.RawUtilizationPercent(); {
	case u >= 100:
		return SeverityCritical
	case u >= 90:
		return SeverityWarning
	default:
		return SeverityNormal
	}
}
