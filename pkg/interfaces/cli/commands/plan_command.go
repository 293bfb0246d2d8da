// Package commands implements the planner CLI commands
package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/prodplan/planning/pkg/application/services/orchestration"
	"github.com/prodplan/planning/pkg/infrastructure/events"
	"github.com/prodplan/planning/pkg/infrastructure/repositories/csv"
	"github.com/prodplan/planning/pkg/infrastructure/repositories/memory"
	"github.com/prodplan/planning/pkg/interfaces/cli/output"
)

// Config holds configuration shared by the planner commands
type Config struct {
	ScenarioDir    string
	ItemsFile      string
	BOMFile        string
	InventoryFile  string
	MachinesFile   string
	OperationsFile string
	OrdersFile     string

	OutputDir   string
	Format      string
	Verbose     bool
	HorizonDays int
	PeriodDays  int
	Rule        string
	Help        bool
}

func (c Config) logger() (*zap.Logger, error) {
	if !c.Verbose {
		return zap.NewNop(), nil
	}
	return zap.NewDevelopment()
}

// PlanCommand runs MRP over a CSV scenario
type PlanCommand struct {
	config Config
}

// NewPlanCommand creates a new plan command with the given configuration
func NewPlanCommand(config Config) *PlanCommand {
	return &PlanCommand{config: config}
}

// Execute runs the plan command
func (c *PlanCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}

	files, err := resolveFiles(c.config, map[string]string{
		"Items":     "items.csv",
		"BOM":       "bom.csv",
		"Inventory": "inventory.csv",
		"Orders":    "orders.csv",
	})
	if err != nil {
		return fmt.Errorf("failed to resolve input files: %w", err)
	}

	logger, err := c.config.logger()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer logger.Sync()

	loader := csv.NewLoader()

	items, err := loader.LoadItems(files["Items"])
	if err != nil {
		return fmt.Errorf("error loading items: %w", err)
	}
	components, err := loader.LoadComponents(files["BOM"])
	if err != nil {
		return fmt.Errorf("error loading BOM: %w", err)
	}
	positions, err := loader.LoadInventory(files["Inventory"])
	if err != nil {
		return fmt.Errorf("error loading inventory: %w", err)
	}
	csvOrders, err := loader.LoadOrders(files["Orders"])
	if err != nil {
		return fmt.Errorf("error loading orders: %w", err)
	}

	logger.Info("scenario loaded",
		zap.Int("items", len(items)),
		zap.Int("bom_lines", len(components)),
		zap.Int("inventory_positions", len(positions)),
		zap.Int("orders", len(csvOrders)))

	itemRepo := memory.NewItemRepository(len(items))
	if err := itemRepo.LoadItems(items); err != nil {
		return fmt.Errorf("failed to load items into repository: %w", err)
	}
	bomRepo := memory.NewBOMRepository(len(components))
	if err := bomRepo.LoadComponents(components); err != nil {
		return fmt.Errorf("failed to load BOM into repository: %w", err)
	}
	inventoryRepo := memory.NewInventoryRepository()
	if err := inventoryRepo.LoadPositions(positions); err != nil {
		return fmt.Errorf("failed to load inventory into repository: %w", err)
	}

	orchestrator, err := orchestration.NewPlanningOrchestrator(
		itemRepo,
		bomRepo,
		inventoryRepo,
		memory.NewMachineRepository(0),
		memory.NewScheduleRepository(),
		events.NewInMemoryEventStore(),
		logger,
	)
	if err != nil {
		return fmt.Errorf("failed to build orchestrator: %w", err)
	}

	orders := make([]orchestration.CustomerOrder, len(csvOrders))
	for i, o := range csvOrders {
		orders[i] = orchestration.CustomerOrder{
			OrderID:  o.OrderID,
			ItemID:   o.ItemID,
			Quantity: o.Quantity,
			DueDate:  o.DueDate,
		}
	}

	startTime := time.Now()
	result, err := orchestrator.RunMRP(ctx, orders, startOfToday(), orchestration.MRPOptions{
		PlanningHorizonDays: c.config.HorizonDays,
		PeriodDays:          c.config.PeriodDays,
	})
	if err != nil {
		return fmt.Errorf("error running MRP: %w", err)
	}

	return output.GenerateMRP(result, output.Config{
		Format:    c.config.Format,
		OutputDir: c.config.OutputDir,
		Verbose:   c.config.Verbose,
		RunTime:   time.Since(startTime),
	})
}

func (c *PlanCommand) showHelp() {
	fmt.Print(`planner plan - Material Requirements Planning over a CSV scenario

USAGE:
    planner plan -scenario <directory>
    planner plan -items <file> -bom <file> -inventory <file> -orders <file>

OPTIONS:
    -scenario <dir>     Scenario directory with items.csv, bom.csv,
                        inventory.csv and orders.csv
    -items <file>       Item master CSV
    -bom <file>         BOM components CSV
    -inventory <file>   Inventory positions CSV
    -orders <file>      Customer orders CSV
    -horizon <days>     Planning horizon in days (default 90)
    -period <days>      Period length in days (default 7)
    -output <dir>       Output directory (required for xlsx)
    -format <fmt>       Output format: text, json, xlsx (default text)
    -verbose            Enable verbose logging
`)
}

func startOfToday() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// resolveFiles maps logical names to paths, preferring the scenario
// directory layout when one is given.
func resolveFiles(config Config, scenarioNames map[string]string) (map[string]string, error) {
	files := make(map[string]string, len(scenarioNames))

	if config.ScenarioDir != "" {
		for name, filename := range scenarioNames {
			files[name] = filepath.Join(config.ScenarioDir, filename)
		}
	} else {
		explicit := map[string]string{
			"Items":      config.ItemsFile,
			"BOM":        config.BOMFile,
			"Inventory":  config.InventoryFile,
			"Machines":   config.MachinesFile,
			"Operations": config.OperationsFile,
			"Orders":     config.OrdersFile,
		}
		for name := range scenarioNames {
			if explicit[name] == "" {
				return nil, fmt.Errorf("must specify either -scenario directory or a %s file", name)
			}
			files[name] = explicit[name]
		}
	}

	for name, path := range files {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, fmt.Errorf("%s file not found: %s", name, path)
		}
	}

	return files, nil
}
