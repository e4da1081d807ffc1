package stats

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// WritePlatformReport renders the admin dashboard as an xlsx workbook.
func WritePlatformReport(w io.Writer, stats *PlatformStats) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Platform"
	f.SetSheetName("Sheet1", sheet)

	rows := [][]any{
		{"Metric", "Value"},
		{"Total users", stats.TotalUsers},
		{"Total startups", stats.TotalStartups},
		{"Pending startups", stats.PendingStartups},
		{"Approved startups", stats.ApprovedStartups},
		{"Rejected startups", stats.RejectedStartups},
		{"Total reviews", stats.TotalReviews},
		{"Total views", stats.TotalViews},
		{"Active jobs", stats.ActiveJobs},
	}
	for i, row := range rows {
		cell := "A" + strconv.Itoa(i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write report row: %w", err)
		}
	}

	const signups = "Signups"
	if _, err := f.NewSheet(signups); err != nil {
		return fmt.Errorf("add signups sheet: %w", err)
	}
	header := []any{"Month", "Signups"}
	if err := f.SetSheetRow(signups, "A1", &header); err != nil {
		return fmt.Errorf("write signups header: %w", err)
	}
	for i, entry := range stats.SignupsByMonth {
		row := []any{entry.Month, entry.Count}
		cell := "A" + strconv.Itoa(i+2)
		if err := f.SetSheetRow(signups, cell, &row); err != nil {
			return fmt.Errorf("write signups row: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
