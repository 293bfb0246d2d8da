package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/prodplan/planning/pkg/domain/entities"
)

// MRPItemResult is the time-phased MRP record for one item. All slices have
// one entry per planning period and satisfy, for every period t:
//
//	ProjectedOnHand[t] = ProjectedOnHand[t-1] - GrossRequirements[t]
//	                     + ScheduledReceipts[t] + PlannedOrderReceipts[t]
//
// with ProjectedOnHand[-1] taken as the opening on-hand balance.
type MRPItemResult struct {
	ItemID               entities.ItemID
	Periods              []time.Time
	GrossRequirements    []decimal.Decimal
	ScheduledReceipts    []decimal.Decimal
	ProjectedOnHand      []decimal.Decimal
	NetRequirements      []decimal.Decimal
	PlannedOrderReceipts []decimal.Decimal
	PlannedOrderReleases []decimal.Decimal
	PlannedOrders        []entities.PlannedOrder
	Warnings             []string
}

// OrderSuggestion is one purchase or production suggestion from an MRP run
type OrderSuggestion struct {
	ItemID       entities.ItemID
	Quantity     decimal.Decimal
	StartDate    time.Time
	DueDate      time.Time
	LeadTimeDays int
	UnitCost     decimal.Decimal
	LineTotal    decimal.Decimal
}

// MRPResult is the complete output of a batch MRP run
type MRPResult struct {
	RunID  string
	Status string

	ItemsAnalyzed           int
	PurchaseOrdersCreated   int
	ProductionOrdersCreated int

	TotalPOValue decimal.Decimal
	Currency     string

	ItemResults           []*MRPItemResult
	PurchaseSuggestions   []OrderSuggestion
	ProductionSuggestions []OrderSuggestion

	Warnings []string
}

// SchedulingResult is the output of a dispatch scheduling run
type SchedulingResult struct {
	RunID    string
	RuleUsed entities.DispatchRule

	Operations []entities.ScheduledOperation

	MakespanHours       float64
	TotalTardinessHours float64
	NumLateOrders       int
	AvgUtilization      float64

	Warnings []string
}

// CapacityReport aggregates capacity analysis over a date range
type CapacityReport struct {
	PeriodStart time.Time
	PeriodEnd   time.Time

	MachinesAnalyzed int
	PeriodsAnalyzed  int

	TotalAvailableMinutes int
	TotalAllocatedMinutes int
	AvgUtilizationPercent float64
	OverCapacityPeriods   int

	Analyses []entities.CapacityAnalysis
	Warnings []string
}

// DayAvailability is one day's load picture for a single machine
type DayAvailability struct {
	Date               time.Time
	AvailableMinutes   int
	AllocatedMinutes   int
	FreeMinutes        int
	UtilizationPercent float64
	OrdersScheduled    []string
}

// MachineAvailability is the day-granular availability of one machine
type MachineAvailability struct {
	MachineID entities.MachineID
	FromDate  time.Time
	ToDate    time.Time

	TotalAvailableMinutes int
	TotalAllocatedMinutes int
	AvgUtilizationPercent float64
	FreeMinutes           int

	Days []DayAvailability
}
