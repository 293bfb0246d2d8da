package commands

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/prodplan/planning/pkg/application/services/orchestration"
	"github.com/prodplan/planning/pkg/domain/entities"
	"github.com/prodplan/planning/pkg/infrastructure/events"
	"github.com/prodplan/planning/pkg/infrastructure/repositories/csv"
	"github.com/prodplan/planning/pkg/infrastructure/repositories/memory"
	"github.com/prodplan/planning/pkg/interfaces/cli/output"
)

// ScheduleCommand dispatches a CSV routing onto machines and reports the
// resulting capacity picture.
type ScheduleCommand struct {
	config Config
}

// NewScheduleCommand creates a new schedule command with the given
// configuration
func NewScheduleCommand(config Config) *ScheduleCommand {
	return &ScheduleCommand{config: config}
}

func parseRule(s string) (entities.DispatchRule, error) {
	switch s {
	case "", "edd":
		return entities.EDD, nil
	case "fifo":
		return entities.FIFO, nil
	case "spt":
		return entities.SPT, nil
	case "wspt":
		return entities.WSPT, nil
	default:
		return entities.EDD, fmt.Errorf("unknown dispatch rule: %s (expected edd, fifo, spt or wspt)", s)
	}
}

// Execute runs the schedule command
func (c *ScheduleCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}

	rule, err := parseRule(c.config.Rule)
	if err != nil {
		return err
	}

	files, err := resolveFiles(c.config, map[string]string{
		"Machines":   "machines.csv",
		"Operations": "operations.csv",
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

	machines, err := loader.LoadMachines(files["Machines"])
	if err != nil {
		return fmt.Errorf("error loading machines: %w", err)
	}
	operations, err := loader.LoadOperations(files["Operations"])
	if err != nil {
		return fmt.Errorf("error loading operations: %w", err)
	}

	logger.Info("scenario loaded",
		zap.Int("machines", len(machines)),
		zap.Int("operations", len(operations)))

	machineRepo := memory.NewMachineRepository(len(machines))
	if err := machineRepo.LoadMachines(machines); err != nil {
		return fmt.Errorf("failed to load machines into repository: %w", err)
	}

	orchestrator, err := orchestration.NewPlanningOrchestrator(
		memory.NewItemRepository(0),
		memory.NewBOMRepository(0),
		memory.NewInventoryRepository(),
		machineRepo,
		memory.NewScheduleRepository(),
		events.NewInMemoryEventStore(),
		logger,
	)
	if err != nil {
		return fmt.Errorf("failed to build orchestrator: %w", err)
	}

	horizonStart := startOfToday()
	startTime := time.Now()

	result, err := orchestrator.RunSchedule(ctx, operations, rule, horizonStart)
	if err != nil {
		return fmt.Errorf("error running scheduler: %w", err)
	}

	periodDays := c.config.PeriodDays
	if periodDays <= 0 {
		periodDays = 7
	}
	horizonDays := c.config.HorizonDays
	if horizonDays <= 0 {
		horizonDays = 28
	}

	report, err := orchestrator.AnalyzeCapacity(ctx,
		horizonStart, horizonStart.AddDate(0, 0, horizonDays), periodDays)
	if err != nil {
		return fmt.Errorf("error analyzing capacity: %w", err)
	}

	return output.GenerateSchedule(result, report, output.Config{
		Format:    c.config.Format,
		OutputDir: c.config.OutputDir,
		Verbose:   c.config.Verbose,
		RunTime:   time.Since(startTime),
	})
}

func (c *ScheduleCommand) showHelp() {
	fmt.Print(`planner schedule - dispatch scheduling over a CSV scenario

USAGE:
    planner schedule -scenario <directory>
    planner schedule -machines <file> -operations <file>

OPTIONS:
    -scenario <dir>     Scenario directory with machines.csv and
                        operations.csv
    -machines <file>    Machine master CSV
    -operations <file>  Routing operations CSV
    -rule <rule>        Dispatch rule: edd, fifo, spt, wspt (default edd)
    -horizon <days>     Capacity analysis window in days (default 28)
    -period <days>      Capacity period length in days (default 7)
    -output <dir>       Output directory (required for xlsx)
    -format <fmt>       Output format: text, json, xlsx (default text)
    -verbose            Enable verbose logging
`)
}
