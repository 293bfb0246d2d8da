// Package csv loads planning master data from CSV files
package csv

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/prodplan/planning/pkg/domain/entities"
)

const dateLayout = "2006-01-02"

// Loader handles loading planning data from CSV files
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

func readRecords(filename, kind string, expectedHeader []string) ([][]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s file %s: %w", kind, filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s CSV: %w", kind, err)
	}

	if len(records) < 2 {
		return nil, fmt.Errorf("%s CSV must have header and at least one data row", kind)
	}
	if !validateHeader(records[0], expectedHeader) {
		return nil, fmt.Errorf("%s CSV header mismatch. Expected: %v, Got: %v", kind, expectedHeader, records[0])
	}
	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("%s CSV row %d: expected %d columns, got %d", kind, i+2, len(expectedHeader), len(record))
		}
	}

	return records[1:], nil
}

// LoadItems loads item master data from a CSV file
func (l *Loader) LoadItems(filename string) ([]*entities.Item, error) {
	expectedHeader := []string{"item_id", "name", "type", "lead_time_days", "unit_cost"}
	records, err := readRecords(filename, "items", expectedHeader)
	if err != nil {
		return nil, err
	}

	var items []*entities.Item
	for i, record := range records {
		item, err := parseItem(record)
		if err != nil {
			return nil, fmt.Errorf("items CSV row %d: %w", i+2, err)
		}
		items = append(items, &item)
	}

	return items, nil
}

// LoadComponents loads BOM components from a CSV file
func (l *Loader) LoadComponents(filename string) ([]*entities.BOMComponent, error) {
	expectedHeader := []string{"parent_id", "component_id", "quantity_per", "scrap_factor", "sequence"}
	records, err := readRecords(filename, "BOM", expectedHeader)
	if err != nil {
		return nil, err
	}

	var components []*entities.BOMComponent
	for i, record := range records {
		comp, err := parseComponent(record)
		if err != nil {
			return nil, fmt.Errorf("BOM CSV row %d: %w", i+2, err)
		}
		components = append(components, comp)
	}

	return components, nil
}

// LoadInventory loads inventory positions from a CSV file
func (l *Loader) LoadInventory(filename string) ([]*entities.InventoryPosition, error) {
	expectedHeader := []string{"item_id", "on_hand", "on_order", "allocated", "safety_stock"}
	records, err := readRecords(filename, "inventory", expectedHeader)
	if err != nil {
		return nil, err
	}

	var positions []*entities.InventoryPosition
	for i, record := range records {
		pos, err := parsePosition(record)
		if err != nil {
			return nil, fmt.Errorf("inventory CSV row %d: %w", i+2, err)
		}
		positions = append(positions, &pos)
	}

	return positions, nil
}

// LoadMachines loads machine master data from a CSV file
func (l *Loader) LoadMachines(filename string) ([]*entities.SchedulingMachine, error) {
	expectedHeader := []string{"machine_id", "name", "capacity", "speed_factor", "available_hours_per_day"}
	records, err := readRecords(filename, "machines", expectedHeader)
	if err != nil {
		return nil, err
	}

	var machines []*entities.SchedulingMachine
	for i, record := range records {
		m, err := parseMachine(record)
		if err != nil {
			return nil, fmt.Errorf("machines CSV row %d: %w", i+2, err)
		}
		machines = append(machines, &m)
	}

	return machines, nil
}

// LoadOperations loads routing operations from a CSV file. An empty
// machine_id leaves the operation for manual dispatch.
func (l *Loader) LoadOperations(filename string) ([]entities.SchedulingOperation, error) {
	expectedHeader := []string{"operation_id", "order_id", "product_id", "sequence", "duration_minutes", "machine_id", "due_date", "priority"}
	records, err := readRecords(filename, "operations", expectedHeader)
	if err != nil {
		return nil, err
	}

	var operations []entities.SchedulingOperation
	for i, record := range records {
		op, err := parseOperation(record)
		if err != nil {
			return nil, fmt.Errorf("operations CSV row %d: %w", i+2, err)
		}
		operations = append(operations, op)
	}

	return operations, nil
}

// Order is a customer order line loaded from a CSV demand file
type Order struct {
	OrderID  string
	ItemID   entities.ItemID
	Quantity decimal.Decimal
	DueDate  time.Time
}

// LoadOrders loads customer orders from a CSV file
func (l *Loader) LoadOrders(filename string) ([]Order, error) {
	expectedHeader := []string{"order_id", "item_id", "quantity", "due_date"}
	records, err := readRecords(filename, "orders", expectedHeader)
	if err != nil {
		return nil, err
	}

	var orders []Order
	for i, record := range records {
		order, err := parseOrder(record)
		if err != nil {
			return nil, fmt.Errorf("orders CSV row %d: %w", i+2, err)
		}
		orders = append(orders, order)
	}

	return orders, nil
}

// Helper functions for parsing CSV records

func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}

	for i, col := range expected {
		if strings.ToLower(strings.TrimSpace(actual[i])) != col {
			return false
		}
	}

	return true
}

func parseItem(record []string) (entities.Item, error) {
	itemType := entities.ParseItemType(record[2])

	leadTimeDays, err := strconv.Atoi(record[3])
	if err != nil {
		return entities.Item{}, fmt.Errorf("invalid lead_time_days: %s", record[3])
	}

	unitCost, err := decimal.NewFromString(record[4])
	if err != nil {
		return entities.Item{}, fmt.Errorf("invalid unit_cost: %s", record[4])
	}

	return entities.Item{
		ID:           entities.ItemID(record[0]),
		Name:         record[1],
		Type:         itemType,
		LeadTimeDays: leadTimeDays,
		UnitCost:     unitCost,
	}, nil
}

func parseComponent(record []string) (*entities.BOMComponent, error) {
	quantityPer, err := decimal.NewFromString(record[2])
	if err != nil {
		return nil, fmt.Errorf("invalid quantity_per: %s", record[2])
	}

	scrapFactor, err := decimal.NewFromString(record[3])
	if err != nil {
		return nil, fmt.Errorf("invalid scrap_factor: %s", record[3])
	}

	sequence, err := strconv.Atoi(record[4])
	if err != nil {
		return nil, fmt.Errorf("invalid sequence: %s", record[4])
	}

	return entities.NewBOMComponent(
		entities.ItemID(record[0]),
		entities.ItemID(record[1]),
		quantityPer,
		scrapFactor,
		sequence,
	)
}

func parsePosition(record []string) (entities.InventoryPosition, error) {
	fields := [4]decimal.Decimal{}
	names := []string{"on_hand", "on_order", "allocated", "safety_stock"}
	for i, name := range names {
		v, err := decimal.NewFromString(record[i+1])
		if err != nil {
			return entities.InventoryPosition{}, fmt.Errorf("invalid %s: %s", name, record[i+1])
		}
		fields[i] = v
	}

	return entities.InventoryPosition{
		ItemID:      entities.ItemID(record[0]),
		OnHand:      fields[0],
		OnOrder:     fields[1],
		Allocated:   fields[2],
		SafetyStock: fields[3],
	}, nil
}

func parseMachine(record []string) (entities.SchedulingMachine, error) {
	capacity, err := strconv.Atoi(record[2])
	if err != nil {
		return entities.SchedulingMachine{}, fmt.Errorf("invalid capacity: %s", record[2])
	}

	speedFactor, err := strconv.ParseFloat(record[3], 64)
	if err != nil {
		return entities.SchedulingMachine{}, fmt.Errorf("invalid speed_factor: %s", record[3])
	}

	hoursPerDay, err := strconv.ParseFloat(record[4], 64)
	if err != nil {
		return entities.SchedulingMachine{}, fmt.Errorf("invalid available_hours_per_day: %s", record[4])
	}

	return entities.SchedulingMachine{
		ID:                   entities.MachineID(record[0]),
		Name:                 record[1],
		Capacity:             capacity,
		SpeedFactor:          speedFactor,
		AvailableHoursPerDay: hoursPerDay,
	}, nil
}

func parseOperation(record []string) (entities.SchedulingOperation, error) {
	sequence, err := strconv.Atoi(record[3])
	if err != nil {
		return entities.SchedulingOperation{}, fmt.Errorf("invalid sequence: %s", record[3])
	}

	duration, err := strconv.ParseFloat(record[4], 64)
	if err != nil {
		return entities.SchedulingOperation{}, fmt.Errorf("invalid duration_minutes: %s", record[4])
	}

	var dueDate *time.Time
	if record[6] != "" {
		parsed, err := time.Parse(dateLayout, record[6])
		if err != nil {
			return entities.SchedulingOperation{}, fmt.Errorf("invalid due_date format: %s (expected YYYY-MM-DD)", record[6])
		}
		dueDate = &parsed
	}

	priority := 1.0
	if record[7] != "" {
		priority, err = strconv.ParseFloat(record[7], 64)
		if err != nil {
			return entities.SchedulingOperation{}, fmt.Errorf("invalid priority: %s", record[7])
		}
	}

	return entities.SchedulingOperation{
		OperationID:     record[0],
		OrderID:         record[1],
		ProductID:       record[2],
		Sequence:        sequence,
		DurationMinutes: duration,
		MachineID:       entities.MachineID(record[5]),
		DueDate:         dueDate,
		Priority:        priority,
	}, nil
}

func parseOrder(record []string) (Order, error) {
	quantity, err := decimal.NewFromString(record[2])
	if err != nil {
		return Order{}, fmt.Errorf("invalid quantity: %s", record[2])
	}

	dueDate, err := time.Parse(dateLayout, record[3])
	if err != nil {
		return Order{}, fmt.Errorf("invalid due_date format: %s (expected YYYY-MM-DD)", record[3])
	}

	return Order{
		OrderID:  record[0],
		ItemID:   entities.ItemID(record[1]),
		Quantity: quantity,
		DueDate:  dueDate,
	}, nil
}
