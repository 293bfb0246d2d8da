package events

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/prodplan/planning/pkg/domain/entities"
)

// Event types emitted by planning runs. The caller forwards these to its
// own message transport; the core only records them.
const (
	MRPCalculatedEvent              = "mrp.calculated"
	OrderPlannedEvent               = "order.planned"
	PurchaseOrderSuggestedEvent     = "purchase_order.suggested"
	ScheduleCreatedEvent            = "schedule.created"
	CapacityConstraintDetectedEvent = "capacity.constraint_detected"
)

// MRPCalculated summarizes a completed MRP run
type MRPCalculated struct {
	RunID                   string          `json:"run_id"`
	ItemsAnalyzed           int             `json:"items_analyzed"`
	PurchaseOrdersCreated   int             `json:"purchase_orders_created"`
	ProductionOrdersCreated int             `json:"production_orders_created"`
	TotalPOValue            decimal.Decimal `json:"total_po_value"`
	Currency                string          `json:"currency"`
}

// OrderPlanned carries one planned order produced by netting
type OrderPlanned struct {
	RunID string                `json:"run_id"`
	Order entities.PlannedOrder `json:"order"`
}

// PurchaseOrderSuggested carries one purchase suggestion with its valuation
type PurchaseOrderSuggested struct {
	RunID     string          `json:"run_id"`
	ItemID    entities.ItemID `json:"item_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	DueDate   time.Time       `json:"due_date"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// ScheduleCreated summarizes a completed scheduling run
type ScheduleCreated struct {
	RunID               string  `json:"run_id"`
	OperationsScheduled int     `json:"operations_scheduled"`
	MakespanHours       float64 `json:"makespan_hours"`
	TotalTardinessHours float64 `json:"total_tardiness_hours"`
	LateOrders          int     `json:"late_orders"`
}

// CapacityConstraintDetected flags one over-capacity machine/period pair
type CapacityConstraintDetected struct {
	MachineID          entities.MachineID `json:"machine_id"`
	Period             time.Time          `json:"period"`
	AvailableMinutes   int                `json:"available_minutes"`
	RequiredMinutes    int                `json:"required_minutes"`
	UtilizationPercent float64            `json:"utilization_percent"`
	Severity           string             `json:"severity"`
}
