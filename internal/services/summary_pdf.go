package services

import (
	"bytes"
	"fmt"

	"github.com/ces0491/fleet-manager/internal/domain"
	"github.com/ces0491/fleet-manager/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// WeeklySummaryPDF renders a one-page PDF digest of the fleet week:
// window, counts, totals and the leaderboard. The full table lives in
// the xlsx report; this is the printable cover sheet.
func (s ReportsService) WeeklySummaryPDF(weekStart string) ([]byte, string, error) {
	agg, err := s.Stats.FleetStats(weekStart)
	if err != nil {
		return nil, "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Fleet Weekly Summary", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "FLEET WEEKLY SUMMARY")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Week            : %s to %s", agg.WeekStart, agg.WeekEnd),
		fmt.Sprintf("Vehicles        : %d (%d active)", agg.VehicleCount, agg.ActiveVehicleCount),
		fmt.Sprintf("Total Revenue   : %s", utils.FormatRand(agg.TotalRevenue)),
		fmt.Sprintf("Total Net Profit: %s", utils.FormatRand(agg.TotalProfit)),
		fmt.Sprintf("Average Margin  : %.2f%%", agg.AverageMargin),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Top Performers")
	pdf.Ln(9)

	pdf.SetFont("Helvetica", "", 11)
	if len(agg.TopPerformers) == 0 {
		pdf.Cell(0, 6, "No ledger entries submitted for this week.")
		pdf.Ln(6)
	}
	for i, top := range agg.TopPerformers {
		pdf.Cell(0, 6, fmt.Sprintf("%d. %s (%s) - %s", i+1, top.Registration, top.DriverName, utils.FormatRand(top.NetProfit)))
		pdf.Ln(6)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", domain.StorageError{Msg: "failed to render summary pdf", Err: err}
	}

	utils.LogEvent(s.RequestID, "reports", "weekly_pdf", fmt.Sprintf("week_start=%s", agg.WeekStart))
	filename := fmt.Sprintf("fleet_weekly_summary_%s.pdf", agg.WeekStart)
	return buf.Bytes(), filename, nil
}
