package services

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ces0491/fleet-manager/internal/domain"
	"github.com/ces0491/fleet-manager/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/xuri/excelize/v2"
)

func newReportsService(t *testing.T) (ReportsService, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	vehicleRepo := repositories.VehicleRepository{DB: db}
	ledgerRepo := repositories.LedgerRepository{DB: db}
	svc := ReportsService{
		VehicleRepo: vehicleRepo,
		LedgerRepo:  ledgerRepo,
		Stats: StatsService{
			VehicleRepo: vehicleRepo,
			LedgerRepo:  ledgerRepo,
		},
	}
	return svc, mock, func() { db.Close() }
}

// cellValue reads the stored value, not the number-format rendering,
// so numeric assertions compare plain numbers.
func cellValue(t *testing.T, f *excelize.File, sheet, cell string) string {
	t.Helper()
	v, err := f.GetCellValue(sheet, cell, excelize.Options{RawCellValue: true})
	if err != nil {
		t.Fatalf("GetCellValue(%s): %v", cell, err)
	}
	return v
}

func formattedCellValue(t *testing.T, f *excelize.File, sheet, cell string) string {
	t.Helper()
	v, err := f.GetCellValue(sheet, cell)
	if err != nil {
		t.Fatalf("GetCellValue(%s): %v", cell, err)
	}
	return v
}

func addEntryRow(rows *sqlmock.Rows, id, vehicleID int64, cash, diesel float64) *sqlmock.Rows {
	revenue := cash
	deductions := diesel
	profit := revenue - deductions
	margin := 0.0
	if revenue > 0 {
		margin = profit / revenue * 100
	}
	return rows.AddRow(
		id, vehicleID, "2025-01-06", "2025-01-12",
		cash, 0.0,
		diesel, 0.0, 0.0, 0.0,
		revenue, deductions, profit, margin,
		nil, nil, nil,
		"", 1, "2025-01-13 08:00:00",
	)
}

func TestWeeklyFleetReportZeroFillsVehiclesWithoutEntries(t *testing.T) {
	svc, mock, done := newReportsService(t)
	defer done()

	mock.ExpectQuery("FROM vehicles").
		WillReturnRows(sqlmock.NewRows(vehicleCols).
			AddRow(1, "ABC123", "Sipho", "0821234567", "active", "", "", ""))
	mock.ExpectQuery("FROM weekly_ledger_entries").
		WillReturnRows(sqlmock.NewRows(ledgerCols))

	data, filename, err := svc.WeeklyFleetReport("2025-01-06", "2025-01-12")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(data) == 0 || filename == "" {
		t.Fatalf("expected workbook bytes and filename")
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("generated workbook unreadable: %v", err)
	}
	defer f.Close()
	sheet := "Weekly Report"

	// the vehicle has no entry but must still get a zero-filled row
	if got := cellValue(t, f, sheet, "A4"); got != "ABC123" {
		t.Fatalf("A4 = %q, want vehicle registration", got)
	}
	for _, cell := range []string{"D4", "E4", "F4", "K4", "L4", "M4"} {
		if got := cellValue(t, f, sheet, cell); got != "0" {
			t.Fatalf("%s = %q, want 0", cell, got)
		}
	}

	// totals row equals the single zero row
	if got := cellValue(t, f, sheet, "A5"); got != "TOTAL" {
		t.Fatalf("A5 = %q, want TOTAL", got)
	}
	if got := cellValue(t, f, sheet, "F5"); got != "0" {
		t.Fatalf("total revenue = %q, want 0", got)
	}
	if got := cellValue(t, f, sheet, "M5"); got != "0" {
		t.Fatalf("total margin = %q, want 0", got)
	}
}

func TestWeeklyFleetReportTotalsRecomputeMargin(t *testing.T) {
	svc, mock, done := newReportsService(t)
	defer done()

	mock.ExpectQuery("FROM vehicles").
		WillReturnRows(sqlmock.NewRows(vehicleCols).
			AddRow(1, "AAA111", "Anna", "082", "active", "", "", "").
			AddRow(2, "BBB222", "Ben", "083", "active", "", "", ""))
	entries := sqlmock.NewRows(ledgerCols)
	addEntryRow(entries, 1, 1, 1000, 500)
	addEntryRow(entries, 2, 2, 4000, 6000)
	mock.ExpectQuery("FROM weekly_ledger_entries").
		WillReturnRows(entries)

	data, _, err := svc.WeeklyFleetReport("2025-01-06", "2025-01-12")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("generated workbook unreadable: %v", err)
	}
	defer f.Close()
	sheet := "Weekly Report"

	// data rows 4 and 5, totals row 6
	if got := cellValue(t, f, sheet, "F6"); got != "5000" {
		t.Fatalf("summed revenue = %q, want 5000", got)
	}
	if got := formattedCellValue(t, f, sheet, "F6"); got != "R5,000.00" {
		t.Fatalf("formatted revenue = %q, want R5,000.00", got)
	}
	if got := cellValue(t, f, sheet, "K6"); got != "6500" {
		t.Fatalf("summed deductions = %q, want 6500", got)
	}
	if got := cellValue(t, f, sheet, "L6"); got != "-1500" {
		t.Fatalf("summed profit = %q, want -1500", got)
	}
	// margin from summed values: -1500/5000 = -30, not the mean of row margins
	if got := cellValue(t, f, sheet, "M6"); got != "-30" {
		t.Fatalf("recomputed margin = %q, want -30", got)
	}
}

func TestWeeklyFleetReportEmptyRoster(t *testing.T) {
	svc, mock, done := newReportsService(t)
	defer done()

	mock.ExpectQuery("FROM vehicles").
		WillReturnRows(sqlmock.NewRows(vehicleCols))
	mock.ExpectQuery("FROM weekly_ledger_entries").
		WillReturnRows(sqlmock.NewRows(ledgerCols))

	data, _, err := svc.WeeklyFleetReport("2025-01-06", "2025-01-12")
	if err != nil {
		t.Fatalf("empty roster must still produce a report, got %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("generated workbook unreadable: %v", err)
	}
	defer f.Close()

	// totals row sits directly under the headers
	if got := cellValue(t, f, "Weekly Report", "A4"); got != "TOTAL" {
		t.Fatalf("A4 = %q, want TOTAL", got)
	}
}

func TestVehicleHistoryReportRequiresDates(t *testing.T) {
	svc, _, done := newReportsService(t)
	defer done()

	if _, _, err := svc.VehicleHistoryReport(1, "", "2025-03-31"); !domain.IsValidation(err) {
		t.Fatalf("expected ValidationError for missing startDate, got %v", err)
	}
	if _, _, err := svc.VehicleHistoryReport(1, "2025-01-01", ""); !domain.IsValidation(err) {
		t.Fatalf("expected ValidationError for missing endDate, got %v", err)
	}
}

func TestVehicleHistoryReportUnknownVehicle(t *testing.T) {
	svc, mock, done := newReportsService(t)
	defer done()

	mock.ExpectQuery("FROM vehicles").
		WillReturnRows(sqlmock.NewRows(vehicleCols))

	_, _, err := svc.VehicleHistoryReport(404, "2025-01-01", "2025-03-31")
	if !domain.IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestVehicleHistoryReportListsEntriesOldestFirst(t *testing.T) {
	svc, mock, done := newReportsService(t)
	defer done()

	mock.ExpectQuery("FROM vehicles").
		WillReturnRows(sqlmock.NewRows(vehicleCols).
			AddRow(1, "ABC123", "Sipho", "082", "active", "", "", ""))
	entries := sqlmock.NewRows(ledgerCols)
	addEntryRow(entries, 1, 1, 8000, 3000)
	mock.ExpectQuery("FROM weekly_ledger_entries").
		WithArgs(int64(1), "2025-01-01", "2025-03-31").
		WillReturnRows(entries)

	data, filename, err := svc.VehicleHistoryReport(1, "2025-01-01", "2025-03-31")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(filename, "ABC123") {
		t.Fatalf("filename %q should include the registration", filename)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("generated workbook unreadable: %v", err)
	}
	defer f.Close()
	sheet := "Vehicle History"

	if got := cellValue(t, f, sheet, "A1"); !strings.Contains(got, "ABC123") {
		t.Fatalf("title %q should include the registration", got)
	}
	// identity block rows 2-5, headers row 7, first entry row 8
	if got := cellValue(t, f, sheet, "A8"); got != "2025-01-06" {
		t.Fatalf("first entry week start = %q", got)
	}
	if got := cellValue(t, f, sheet, "B8"); got != "8000" {
		t.Fatalf("entry revenue = %q, want 8000", got)
	}
	if got := formattedCellValue(t, f, sheet, "B8"); got != "R8,000.00" {
		t.Fatalf("formatted revenue = %q, want R8,000.00", got)
	}
}
