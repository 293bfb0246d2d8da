package memory

import (
	"fmt"
	"sync"
	"time"

	"github.com/prodplan/planning/pkg/domain/entities"
	"github.com/prodplan/planning/pkg/domain/repositories"
)

// ScheduleRepository stores planning run outputs in memory, keyed by run ID.
// Saved runs are immutable: reads return copies, and saving an existing run
// ID is rejected so a re-plan can never mutate a prior run's results.
type ScheduleRepository struct {
	mu   sync.RWMutex
	runs map[string][]entities.ScheduledOperation
}

// NewScheduleRepository creates a new in-memory schedule repository
func NewScheduleRepository() *ScheduleRepository {
	return &ScheduleRepository{
		runs: make(map[string][]entities.ScheduledOperation),
	}
}

// Verify interface compliance
var _ repositories.ScheduleRepository = (*ScheduleRepository)(nil)

// SaveRun stores the scheduled operations of one planning run
func (r *ScheduleRepository) SaveRun(runID string, operations []entities.ScheduledOperation) error {
	if runID == "" {
		return fmt.Errorf("run ID cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.runs[runID]; exists {
		return fmt.Errorf("planning run already exists: %s", runID)
	}

	stored := make([]entities.ScheduledOperation, len(operations))
	copy(stored, operations)
	r.runs[runID] = stored
	return nil
}

// GetRun returns the scheduled operations of one planning run
func (r *ScheduleRepository) GetRun(runID string) ([]entities.ScheduledOperation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, exists := r.runs[runID]
	if !exists {
		return nil, fmt.Errorf("planning run not found: %s", runID)
	}

	ops := make([]entities.ScheduledOperation, len(stored))
	copy(ops, stored)
	return ops, nil
}

// OperationsInRange returns all operations starting within [from, to)
func (r *ScheduleRepository) OperationsInRange(from, to time.Time) ([]entities.ScheduledOperation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var ops []entities.ScheduledOperation
	for _, stored := range r.runs {
		for _, op := range stored {
			if !op.StartTime.Before(from) && op.StartTime.Before(to) {
				ops = append(ops, op)
			}
		}
	}
	return ops, nil
}
