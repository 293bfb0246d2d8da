// Package output renders planning results as text, JSON or XLSX
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prodplan/planning/pkg/application/dto"
)

// Config holds configuration for output generation
type Config struct {
	Format    string
	OutputDir string
	Verbose   bool
	RunTime   time.Duration
}

// GenerateMRP creates MRP run output in the configured format
func GenerateMRP(result *dto.MRPResult, config Config) error {
	switch config.Format {
	case "text":
		return mrpTextOutput(result, config)
	case "json":
		return jsonOutput(result, config, "mrp_results.json")
	case "xlsx":
		return mrpWorkbookOutput(result, config)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

// GenerateSchedule creates scheduling run output in the configured format.
// The capacity report is optional.
func GenerateSchedule(result *dto.SchedulingResult, report *dto.CapacityReport, config Config) error {
	switch config.Format {
	case "text":
		return scheduleTextOutput(result, report, config)
	case "json":
		payload := struct {
			Schedule *dto.SchedulingResult `json:"schedule"`
			Capacity *dto.CapacityReport   `json:"capacity,omitempty"`
		}{Schedule: result, Capacity: report}
		return jsonOutput(payload, config, "schedule_results.json")
	case "xlsx":
		return scheduleWorkbookOutput(result, report, config)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

func mrpTextOutput(result *dto.MRPResult, config Config) error {
	fmt.Printf("MRP Run %s\n", result.RunID)
	fmt.Printf("======================\n\n")

	fmt.Printf("Items Analyzed: %d\n", result.ItemsAnalyzed)
	fmt.Printf("Purchase Orders: %d\n", result.PurchaseOrdersCreated)
	fmt.Printf("Production Orders: %d\n", result.ProductionOrdersCreated)
	fmt.Printf("Total PO Value: %s %s\n", result.TotalPOValue.StringFixed(2), result.Currency)
	if config.RunTime > 0 {
		fmt.Printf("Run Time: %v\n", config.RunTime)
	}
	fmt.Println()

	printSuggestions("Purchase Suggestions", result.PurchaseSuggestions)
	printSuggestions("Production Suggestions", result.ProductionSuggestions)

	if len(result.Warnings) > 0 {
		fmt.Printf("Warnings:\n")
		for _, w := range result.Warnings {
			fmt.Printf("  - %s\n", w)
		}
		fmt.Println()
	}

	return nil
}

func printSuggestions(title string, suggestions []dto.OrderSuggestion) {
	if len(suggestions) == 0 {
		return
	}

	fmt.Printf("%s:\n", title)
	fmt.Printf("%-15s %-12s %-12s %-12s %-10s %-12s\n",
		"Item", "Qty", "Start Date", "Due Date", "Lead Days", "Line Total")
	fmt.Printf("%-15s %-12s %-12s %-12s %-10s %-12s\n",
		"---------------", "------------", "------------", "------------", "----------", "------------")

	for _, s := range suggestions {
		fmt.Printf("%-15s %-12s %-12s %-12s %-10d %-12s\n",
			s.ItemID,
			s.Quantity.String(),
			s.StartDate.Format("2006-01-02"),
			s.DueDate.Format("2006-01-02"),
			s.LeadTimeDays,
			s.LineTotal.StringFixed(2))
	}
	fmt.Println()
}

func scheduleTextOutput(result *dto.SchedulingResult, report *dto.CapacityReport, config Config) error {
	fmt.Printf("Scheduling Run %s (%s)\n", result.RunID, result.RuleUsed)
	fmt.Printf("======================\n\n")

	fmt.Printf("Operations Scheduled: %d\n", len(result.Operations))
	fmt.Printf("Makespan: %.1f h\n", result.MakespanHours)
	fmt.Printf("Total Tardiness: %.1f h\n", result.TotalTardinessHours)
	fmt.Printf("Late Orders: %d\n", result.NumLateOrders)
	fmt.Printf("Avg Utilization: %.1f%%\n", result.AvgUtilization)
	if config.RunTime > 0 {
		fmt.Printf("Run Time: %v\n", config.RunTime)
	}
	fmt.Println()

	if len(result.Operations) > 0 {
		fmt.Printf("Dispatch List:\n")
		fmt.Printf("%-12s %-10s %-10s %-17s %-17s %-8s\n",
			"Operation", "Order", "Machine", "Start", "End", "Minutes")
		fmt.Printf("%-12s %-10s %-10s %-17s %-17s %-8s\n",
			"------------", "----------", "----------", "-----------------", "-----------------", "--------")

		for _, op := range result.Operations {
			fmt.Printf("%-12s %-10s %-10s %-17s %-17s %-8.0f\n",
				op.OperationID,
				op.OrderID,
				op.MachineID,
				op.StartTime.Format("2006-01-02 15:04"),
				op.EndTime.Format("2006-01-02 15:04"),
				op.DurationMinutes)
		}
		fmt.Println()
	}

	if report != nil {
		fmt.Printf("Capacity (%d machines, %d periods, avg %.1f%%):\n",
			report.MachinesAnalyzed, report.PeriodsAnalyzed, report.AvgUtilizationPercent)
		for _, a := range report.Analyses {
			marker := ""
			if a.IsOverCapacity() {
				marker = "  OVER CAPACITY"
			}
			fmt.Printf("  %-10s %s  %5d / %5d min (%5.1f%%)%s\n",
				a.MachineID,
				a.Period.Format("2006-01-02"),
				a.AllocatedMinutes,
				a.AvailableMinutes,
				a.RawUtilizationPercent(),
				marker)
		}
		fmt.Println()
	}

	return nil
}

func jsonOutput(payload interface{}, config Config, filename string) error {
	jsonData, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if config.OutputDir == "" {
		fmt.Println(string(jsonData))
		return nil
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(config.OutputDir, filename)
	if err := os.WriteFile(path, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}

	if config.Verbose {
		fmt.Printf("JSON results saved to: %s\n", path)
	}

	return nil
}
