package services

import (
	"fmt"
	"strings"

	"github.com/ces0491/fleet-manager/internal/domain"
	"github.com/ces0491/fleet-manager/internal/repositories"
	"github.com/ces0491/fleet-manager/internal/utils"

	"github.com/xuri/excelize/v2"
)

// ReportsService renders ledger data into downloadable xlsx workbooks.
// Workbooks are built in memory and streamed; nothing is written to disk.
type ReportsService struct {
	VehicleRepo repositories.VehicleRepository
	LedgerRepo  repositories.LedgerRepository
	Stats       StatsService
	RequestID   string
}

const (
	currencyFmt = `"R"#,##0.00`
	percentFmt  = `0.00"%"`
)

// weeklyReportColumns is the fixed fleet report layout. Widths are fixed
// per column so the printed sheet stays consistent.
var weeklyReportColumns = []struct {
	title string
	width float64
}{
	{"Vehicle No", 14},
	{"Driver Name", 20},
	{"Phone", 14},
	{"Cash Collected", 14},
	{"Online Earnings", 14},
	{"Total Revenue", 14},
	{"Diesel", 12},
	{"Tolls/Parking", 12},
	{"Maintenance", 12},
	{"Other Expenses", 14},
	{"Total Deductions", 15},
	{"Net Profit", 14},
	{"Profit Margin", 13},
	{"Notes", 30},
}

// vehicleWeekRow is one active vehicle's line in the weekly report.
// Vehicles without a matching entry keep zero amounts; they are never
// dropped from the sheet.
type vehicleWeekRow struct {
	vehicle repositories.Vehicle
	figures domain.WeeklyFigures
	cash    float64
	online  float64
	diesel  float64
	tolls   float64
	maint   float64
	other   float64
	notes   string
}

// WeeklyFleetReport renders the fleet-wide report for the window.
// weekStart defaults to the Monday of the current week, weekEnd to its
// Sunday. Returns the workbook bytes and a suggested filename.
func (s ReportsService) WeeklyFleetReport(weekStart, weekEnd string) ([]byte, string, error) {
	start, end, err := s.Stats.ResolveWindow(weekStart, weekEnd)
	if err != nil {
		return nil, "", err
	}

	active, err := s.VehicleRepo.List("", string(domain.StatusActive))
	if err != nil {
		return nil, "", err
	}
	entries, err := s.LedgerRepo.List(repositories.LedgerFilter{WeekStart: start, WeekEnd: end})
	if err != nil {
		return nil, "", err
	}

	rows := foldWeekRows(active, entries)

	f := excelize.NewFile()
	defer f.Close()
	sheet := "Weekly Report"
	f.SetSheetName("Sheet1", sheet)

	lastCol := colName(len(weeklyReportColumns) - 1)
	startDate, _ := utils.ParseDate(start)
	endDate, _ := utils.ParseDate(end)

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 16},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	rangeStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Size: 12},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DCE6F1"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "top", Color: "#AAAAAA", Style: 1},
			{Type: "bottom", Color: "#000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	})

	currencyFormat := currencyFmt
	moneyStyle, _ := f.NewStyle(&excelize.Style{CustomNumFmt: &currencyFormat})
	moneyTotalStyle, _ := f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Bold: true},
		Fill:         excelize.Fill{Type: "pattern", Color: []string{"#F2F2F2"}, Pattern: 1},
		Border:       []excelize.Border{{Type: "top", Color: "#000000", Style: 1}, {Type: "bottom", Color: "#000000", Style: 1}},
		CustomNumFmt: &currencyFormat,
	})
	totalLabelStyle, _ := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"#F2F2F2"}, Pattern: 1},
		Border: []excelize.Border{{Type: "top", Color: "#000000", Style: 1}, {Type: "bottom", Color: "#000000", Style: 1}},
	})
	marginStyles := newMarginStyles(f, false)
	marginTotalStyles := newMarginStyles(f, true)

	// row 1: merged title, row 2: merged date range, row 3: headers
	f.SetCellValue(sheet, "A1", "Fleet Weekly Financial Report")
	f.MergeCell(sheet, "A1", lastCol+"1")
	f.SetCellStyle(sheet, "A1", "A1", titleStyle)

	f.SetCellValue(sheet, "A2", fmt.Sprintf("%s to %s", startDate.Format("02 Jan 2006"), endDate.Format("02 Jan 2006")))
	f.MergeCell(sheet, "A2", lastCol+"2")
	f.SetCellStyle(sheet, "A2", "A2", rangeStyle)

	for i, col := range weeklyReportColumns {
		name := colName(i)
		f.SetCellValue(sheet, name+"3", col.title)
		f.SetColWidth(sheet, name, name, col.width)
	}
	f.SetCellStyle(sheet, "A3", lastCol+"3", headerStyle)

	f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      3,
		TopLeftCell: "A4",
		ActivePane:  "bottomLeft",
	})

	var sumCash, sumOnline, sumRevenue, sumDiesel, sumTolls, sumMaint, sumOther, sumDeductions, sumProfit float64

	rowNum := 4
	for _, r := range rows {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", rowNum), r.vehicle.Registration)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", rowNum), r.vehicle.DriverName)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", rowNum), r.vehicle.DriverPhone)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", rowNum), r.cash)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", rowNum), r.online)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", rowNum), r.figures.TotalRevenue)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", rowNum), r.diesel)
		f.SetCellValue(sheet, fmt.Sprintf("H%d", rowNum), r.tolls)
		f.SetCellValue(sheet, fmt.Sprintf("I%d", rowNum), r.maint)
		f.SetCellValue(sheet, fmt.Sprintf("J%d", rowNum), r.other)
		f.SetCellValue(sheet, fmt.Sprintf("K%d", rowNum), r.figures.TotalDeductions)
		f.SetCellValue(sheet, fmt.Sprintf("L%d", rowNum), r.figures.NetProfit)
		f.SetCellValue(sheet, fmt.Sprintf("M%d", rowNum), utils.Round2(r.figures.ProfitMargin))
		f.SetCellValue(sheet, fmt.Sprintf("N%d", rowNum), r.notes)

		f.SetCellStyle(sheet, fmt.Sprintf("D%d", rowNum), fmt.Sprintf("L%d", rowNum), moneyStyle)
		f.SetCellStyle(sheet, fmt.Sprintf("M%d", rowNum), fmt.Sprintf("M%d", rowNum), marginStyles.pick(r.figures.ProfitMargin))

		sumCash += r.cash
		sumOnline += r.online
		sumRevenue += r.figures.TotalRevenue
		sumDiesel += r.diesel
		sumTolls += r.tolls
		sumMaint += r.maint
		sumOther += r.other
		sumDeductions += r.figures.TotalDeductions
		sumProfit += r.figures.NetProfit
		rowNum++
	}

	// totals row: margin recomputed from the summed figures
	totalMargin := domain.MarginOf(sumRevenue, sumProfit)
	f.SetCellValue(sheet, fmt.Sprintf("A%d", rowNum), "TOTAL")
	f.SetCellValue(sheet, fmt.Sprintf("D%d", rowNum), sumCash)
	f.SetCellValue(sheet, fmt.Sprintf("E%d", rowNum), sumOnline)
	f.SetCellValue(sheet, fmt.Sprintf("F%d", rowNum), sumRevenue)
	f.SetCellValue(sheet, fmt.Sprintf("G%d", rowNum), sumDiesel)
	f.SetCellValue(sheet, fmt.Sprintf("H%d", rowNum), sumTolls)
	f.SetCellValue(sheet, fmt.Sprintf("I%d", rowNum), sumMaint)
	f.SetCellValue(sheet, fmt.Sprintf("J%d", rowNum), sumOther)
	f.SetCellValue(sheet, fmt.Sprintf("K%d", rowNum), sumDeductions)
	f.SetCellValue(sheet, fmt.Sprintf("L%d", rowNum), sumProfit)
	f.SetCellValue(sheet, fmt.Sprintf("M%d", rowNum), utils.Round2(totalMargin))

	f.SetCellStyle(sheet, fmt.Sprintf("A%d", rowNum), fmt.Sprintf("C%d", rowNum), totalLabelStyle)
	f.SetCellStyle(sheet, fmt.Sprintf("D%d", rowNum), fmt.Sprintf("L%d", rowNum), moneyTotalStyle)
	f.SetCellStyle(sheet, fmt.Sprintf("M%d", rowNum), fmt.Sprintf("N%d", rowNum), marginTotalStyles.pick(totalMargin))

	// summary block beneath the table
	summaryRow := rowNum + 2
	writeSummaryLine := func(label string, value any, style int) {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", summaryRow), label)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", summaryRow), value)
		if style != 0 {
			f.SetCellStyle(sheet, fmt.Sprintf("B%d", summaryRow), fmt.Sprintf("B%d", summaryRow), style)
		}
		summaryRow++
	}
	writeSummaryLine("Active Vehicles", len(rows), 0)
	writeSummaryLine("Total Revenue", sumRevenue, moneyStyle)
	writeSummaryLine("Total Deductions", sumDeductions, moneyStyle)
	writeSummaryLine("Total Net Profit", sumProfit, moneyStyle)
	writeSummaryLine("Average Profit Margin", utils.Round2(totalMargin), marginStyles.pick(totalMargin))

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", domain.StorageError{Msg: "failed to render weekly report", Err: err}
	}

	utils.LogEvent(s.RequestID, "reports", "weekly_xlsx",
		fmt.Sprintf("week_start=%s rows=%d", start, len(rows)))
	filename := fmt.Sprintf("fleet_weekly_report_%s.xlsx", startDate.Format("20060102"))
	return buf.Bytes(), filename, nil
}

// VehicleHistoryReport renders one vehicle's entries within [start, end].
// Both dates are required. Unlike the fleet report there is no totals row.
func (s ReportsService) VehicleHistoryReport(vehicleID int64, startDate, endDate string) ([]byte, string, error) {
	if strings.TrimSpace(startDate) == "" || strings.TrimSpace(endDate) == "" {
		return nil, "", domain.ValidationError{Field: "dateRange", Msg: "startDate and endDate are required"}
	}
	start, err := utils.ParseDate(startDate)
	if err != nil {
		return nil, "", domain.ValidationError{Field: "startDate", Msg: "must be YYYY-MM-DD"}
	}
	end, err := utils.ParseDate(endDate)
	if err != nil {
		return nil, "", domain.ValidationError{Field: "endDate", Msg: "must be YYYY-MM-DD"}
	}
	if end.Before(start) {
		return nil, "", domain.ValidationError{Field: "endDate", Msg: "must not be before startDate"}
	}

	vehicle, err := s.VehicleRepo.GetByID(vehicleID)
	if err != nil {
		return nil, "", err
	}
	entries, err := s.LedgerRepo.List(repositories.LedgerFilter{
		VehicleID: vehicleID,
		WeekStart: utils.FormatDate(start),
		WeekEnd:   utils.FormatDate(end),
	})
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := "Vehicle History"
	f.SetSheetName("Sheet1", sheet)

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	labelStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DCE6F1"}, Pattern: 1},
		Border:    []excelize.Border{{Type: "bottom", Color: "#000000", Style: 1}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	currencyFormat := currencyFmt
	moneyStyle, _ := f.NewStyle(&excelize.Style{CustomNumFmt: &currencyFormat})
	marginStyles := newMarginStyles(f, false)

	f.SetCellValue(sheet, "A1", fmt.Sprintf("Vehicle Report: %s", vehicle.Registration))
	f.MergeCell(sheet, "A1", "F1")
	f.SetCellStyle(sheet, "A1", "A1", titleStyle)

	identity := []struct {
		label string
		value string
	}{
		{"Driver", vehicle.DriverName},
		{"Phone", vehicle.DriverPhone},
		{"Status", vehicle.Status},
		{"Period", fmt.Sprintf("%s to %s", start.Format("02 Jan 2006"), end.Format("02 Jan 2006"))},
	}
	for i, line := range identity {
		row := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), line.label)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), line.value)
		f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), labelStyle)
	}

	headers := []string{"Week Start", "Total Revenue", "Total Deductions", "Net Profit", "Profit Margin", "Notes"}
	headerRow := len(identity) + 3
	for i, h := range headers {
		f.SetCellValue(sheet, fmt.Sprintf("%s%d", colName(i), headerRow), h)
	}
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", headerRow), fmt.Sprintf("F%d", headerRow), headerStyle)

	f.SetColWidth(sheet, "A", "A", 14)
	f.SetColWidth(sheet, "B", "E", 16)
	f.SetColWidth(sheet, "F", "F", 30)

	for i, e := range entries {
		row := headerRow + 1 + i
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), e.WeekStart)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), e.TotalRevenue)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), e.TotalDeductions)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), e.NetProfit)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), utils.Round2(e.ProfitMargin))
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), e.Notes)

		f.SetCellStyle(sheet, fmt.Sprintf("B%d", row), fmt.Sprintf("D%d", row), moneyStyle)
		f.SetCellStyle(sheet, fmt.Sprintf("E%d", row), fmt.Sprintf("E%d", row), marginStyles.pick(e.ProfitMargin))
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", domain.StorageError{Msg: "failed to render vehicle report", Err: err}
	}

	utils.LogEvent(s.RequestID, "reports", "vehicle_xlsx",
		fmt.Sprintf("vehicle_id=%d entries=%d", vehicleID, len(entries)))
	filename := fmt.Sprintf("vehicle_report_%s_%s_%s.xlsx",
		vehicle.Registration, start.Format("20060102"), end.Format("20060102"))
	return buf.Bytes(), filename, nil
}

// foldWeekRows maps every active vehicle to a report row, summing window
// entries per vehicle and recomputing derived figures from the sums.
func foldWeekRows(active []repositories.Vehicle, entries []repositories.LedgerEntry) []vehicleWeekRow {
	byVehicle := make(map[int64][]repositories.LedgerEntry, len(entries))
	for _, e := range entries {
		byVehicle[e.VehicleID] = append(byVehicle[e.VehicleID], e)
	}

	rows := make([]vehicleWeekRow, 0, len(active))
	for _, v := range active {
		r := vehicleWeekRow{vehicle: v}
		var notes []string
		for _, e := range byVehicle[v.ID] {
			r.cash += e.CashCollected
			r.online += e.OnlineEarnings
			r.diesel += e.DieselExpense
			r.tolls += e.TollsParkingExpense
			r.maint += e.MaintenanceExpense
			r.other += e.OtherExpense
			if strings.TrimSpace(e.Notes) != "" {
				notes = append(notes, e.Notes)
			}
		}
		r.figures = domain.ComputeWeekly(r.cash, r.online, r.diesel, r.tolls, r.maint, r.other)
		r.notes = strings.Join(notes, "; ")
		rows = append(rows, r)
	}
	return rows
}

// marginStyleSet selects the margin cell style purely from the sign of
// the value.
type marginStyleSet struct {
	positive int
	negative int
}

func (m marginStyleSet) pick(margin float64) int {
	if margin < 0 {
		return m.negative
	}
	return m.positive
}

func newMarginStyles(f *excelize.File, totalsRow bool) marginStyleSet {
	format := percentFmt
	base := excelize.Style{CustomNumFmt: &format}
	if totalsRow {
		base.Fill = excelize.Fill{Type: "pattern", Color: []string{"#F2F2F2"}, Pattern: 1}
		base.Border = []excelize.Border{
			{Type: "top", Color: "#000000", Style: 1},
			{Type: "bottom", Color: "#000000", Style: 1},
		}
	}

	pos := base
	pos.Font = &excelize.Font{Bold: totalsRow, Color: "#006100"}
	neg := base
	neg.Font = &excelize.Font{Bold: totalsRow, Color: "#9C0006"}

	posID, _ := f.NewStyle(&pos)
	negID, _ := f.NewStyle(&neg)
	return marginStyleSet{positive: posID, negative: negID}
}

func colName(i int) string {
	name, _ := excelize.ColumnNumberToName(i + 1)
	return name
}
