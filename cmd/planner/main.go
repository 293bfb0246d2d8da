package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/prodplan/planning/pkg/interfaces/cli/commands"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	sub := os.Args[1]
	if sub == "-help" || sub == "--help" || sub == "help" {
		usage()
		return
	}

	fs := flag.NewFlagSet(sub, flag.ExitOnError)
	var (
		scenarioDir    = fs.String("scenario", "", "Path to scenario directory containing CSV files")
		itemsFile      = fs.String("items", "", "Path to item master CSV file")
		bomFile        = fs.String("bom", "", "Path to BOM components CSV file")
		inventoryFile  = fs.String("inventory", "", "Path to inventory positions CSV file")
		machinesFile   = fs.String("machines", "", "Path to machine master CSV file")
		operationsFile = fs.String("operations", "", "Path to routing operations CSV file")
		ordersFile     = fs.String("orders", "", "Path to customer orders CSV file")
		outputDir      = fs.String("output", "", "Output directory for results (optional)")
		format         = fs.String("format", "text", "Output format: text, json, xlsx")
		verbose        = fs.Bool("verbose", false, "Enable verbose logging")
		horizonDays    = fs.Int("horizon", 0, "Planning horizon in days")
		periodDays     = fs.Int("period", 0, "Period length in days")
		rule           = fs.String("rule", "edd", "Dispatch rule: edd, fifo, spt, wspt")
		help           = fs.Bool("help", false, "Show help message")
	)

	if err := fs.Parse(os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	config := commands.Config{
		ScenarioDir:    *scenarioDir,
		ItemsFile:      *itemsFile,
		BOMFile:        *bomFile,
		InventoryFile:  *inventoryFile,
		MachinesFile:   *machinesFile,
		OperationsFile: *operationsFile,
		OrdersFile:     *ordersFile,
		OutputDir:      *outputDir,
		Format:         *format,
		Verbose:        *verbose,
		HorizonDays:    *horizonDays,
		PeriodDays:     *periodDays,
		Rule:           *rule,
		Help:           *help,
	}

	ctx := context.Background()

	var err error
	switch sub {
	case "plan":
		err = commands.NewPlanCommand(config).Execute(ctx)
	case "schedule":
		err = commands.NewScheduleCommand(config).Execute(ctx)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", sub)
		usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Print(`planner - production planning CLI

USAGE:
    planner plan -scenario <dir>        Run MRP over a CSV scenario
    planner schedule -scenario <dir>    Run dispatch scheduling and capacity
                                        analysis over a CSV scenario

Run 'planner <command> -help' for command options.
`)
}
