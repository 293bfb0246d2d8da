package repositories

import (
	"time"

	"github.com/prodplan/planning/pkg/domain/entities"
)

// ScheduleRepository is the persistence seam for planning run outputs.
// Each run's scheduled operations are stored under a caller-generated run
// identifier and are immutable once saved; re-planning always produces a
// new, independently addressable result set.
type ScheduleRepository interface {
	SaveRun(runID string, operations []entities.ScheduledOperation) error
	GetRun(runID string) ([]entities.ScheduledOperation, error)
	// OperationsInRange returns scheduled operations, across all runs,
	// whose start time falls within [from, to).
	OperationsInRange(from, to time.Time) ([]entities.ScheduledOperation, error)
}
