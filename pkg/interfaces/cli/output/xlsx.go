package output

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/prodplan/planning/pkg/application/dto"
)

// mrpWorkbookOutput writes an MRP run as an XLSX workbook with a summary
// sheet plus one sheet per suggestion type.
func mrpWorkbookOutput(result *dto.MRPResult, config Config) error {
	if config.OutputDir == "" {
		return fmt.Errorf("output directory required for xlsx format")
	}
	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const summary = "Summary"
	if err := f.SetSheetName("Sheet1", summary); err != nil {
		return fmt.Errorf("failed to rename summary sheet: %w", err)
	}

	summaryRows := [][]interface{}{
		{"Run ID", result.RunID},
		{"Status", result.Status},
		{"Items Analyzed", result.ItemsAnalyzed},
		{"Purchase Orders", result.PurchaseOrdersCreated},
		{"Production Orders", result.ProductionOrdersCreated},
		{"Total PO Value", result.TotalPOValue.StringFixed(2)},
		{"Currency", result.Currency},
	}
	if err := writeRows(f, summary, summaryRows); err != nil {
		return err
	}

	if err := writeSuggestionSheet(f, "Purchase Suggestions", result.PurchaseSuggestions); err != nil {
		return err
	}
	if err := writeSuggestionSheet(f, "Production Suggestions", result.ProductionSuggestions); err != nil {
		return err
	}

	path := filepath.Join(config.OutputDir, "mrp_results.xlsx")
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	if config.Verbose {
		fmt.Printf("XLSX results saved to: %s\n", path)
	}

	return nil
}

// scheduleWorkbookOutput writes a scheduling run (and optional capacity
// report) as an XLSX workbook.
func scheduleWorkbookOutput(result *dto.SchedulingResult, report *dto.CapacityReport, config Config) error {
	if config.OutputDir == "" {
		return fmt.Errorf("output directory required for xlsx format")
	}
	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const dispatch = "Dispatch List"
	if err := f.SetSheetName("Sheet1", dispatch); err != nil {
		return fmt.Errorf("failed to rename dispatch sheet: %w", err)
	}

	rows := [][]interface{}{
		{"Operation", "Order", "Product", "Machine", "Start", "End", "Minutes"},
	}
	for _, op := range result.Operations {
		rows = append(rows, []interface{}{
			op.OperationID,
			op.OrderID,
			op.ProductID,
			string(op.MachineID),
			op.StartTime.Format("2006-01-02 15:04"),
			op.EndTime.Format("2006-01-02 15:04"),
			op.DurationMinutes,
		})
	}
	if err := writeRows(f, dispatch, rows); err != nil {
		return err
	}

	const kpis = "KPIs"
	if _, err := f.NewSheet(kpis); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", kpis, err)
	}
	kpiRows := [][]interface{}{
		{"Run ID", result.RunID},
		{"Rule", result.RuleUsed.String()},
		{"Operations", len(result.Operations)},
		{"Makespan Hours", result.MakespanHours},
		{"Total Tardiness Hours", result.TotalTardinessHours},
		{"Late Orders", result.NumLateOrders},
		{"Avg Utilization %", result.AvgUtilization},
	}
	if err := writeRows(f, kpis, kpiRows); err != nil {
		return err
	}

	if report != nil {
		const capSheet = "Capacity"
		if _, err := f.NewSheet(capSheet); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", capSheet, err)
		}
		capRows := [][]interface{}{
			{"Machine", "Period", "Allocated Min", "Available Min", "Utilization %", "Severity"},
		}
		for _, a := range report.Analyses {
			capRows = append(capRows, []interface{}{
				string(a.MachineID),
				a.Period.Format("2006-01-02"),
				a.AllocatedMinutes,
				a.AvailableMinutes,
				a.RawUtilizationPercent(),
				a.Severity(),
			})
		}
		if err := writeRows(f, capSheet, capRows); err != nil {
			return err
		}
	}

	path := filepath.Join(config.OutputDir, "schedule_results.xlsx")
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	if config.Verbose {
		fmt.Printf("XLSX results saved to: %s\n", path)
	}

	return nil
}

func writeSuggestionSheet(f *excelize.File, sheet string, suggestions []dto.OrderSuggestion) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}

	rows := [][]interface{}{
		{"Item", "Quantity", "Start Date", "Due Date", "Lead Days", "Unit Cost", "Line Total"},
	}
	for _, s := range suggestions {
		rows = append(rows, []interface{}{
			string(s.ItemID),
			s.Quantity.String(),
			s.StartDate.Format("2006-01-02"),
			s.DueDate.Format("2006-01-02"),
			s.LeadTimeDays,
			s.UnitCost.StringFixed(2),
			s.LineTotal.StringFixed(2),
		})
	}

	return writeRows(f, sheet, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("sheet %s row %d: %w", sheet, i+1, err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("sheet %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
