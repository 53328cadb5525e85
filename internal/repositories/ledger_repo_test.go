package repositories

import (
	"testing"
	"time"

	"github.com/ces0491/fleet-manager/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
)

func ledgerColumns() []string {
	return []string{
		"id", "vehicle_id", "week_start_date", "week_end_date",
		"cash_collected", "online_earnings",
		"diesel_expense", "tolls_parking_expense", "maintenance_expense", "other_expense",
		"total_revenue", "total_deductions", "net_profit", "profit_margin",
		"trip_count", "distance_km", "avg_rating",
		"notes", "submitted_by", "submitted_at",
	}
}

func sampleLedgerRow(rows *sqlmock.Rows, id, vehicleID int64, weekStart string, profit float64) *sqlmock.Rows {
	return rows.AddRow(
		id, vehicleID, weekStart, "2025-01-12",
		5000.0, 3000.0,
		2000.0, 500.0, 300.0, 200.0,
		8000.0, 3000.0, profit, 62.5,
		nil, nil, nil,
		"", 1, "2025-01-13 08:00:00",
	)
}

func TestLedgerUpsertInsertsWhenMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE weekly_ledger_entries").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO weekly_ledger_entries").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("FROM weekly_ledger_entries").
		WillReturnRows(sampleLedgerRow(sqlmock.NewRows(ledgerColumns()), 1, 3, "2025-01-06", 5000))

	repo := LedgerRepository{DB: db}
	saved, err := repo.Upsert(LedgerEntry{
		VehicleID: 3,
		WeekStart: "2025-01-06",
		WeekEnd:   "2025-01-12",
	}, time.Now())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if saved.ID != 1 || saved.VehicleID != 3 {
		t.Fatalf("unexpected saved entry: %+v", saved)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestLedgerUpsertOverwritesExisting(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	// UPDATE matched a row: no INSERT must follow
	mock.ExpectExec("UPDATE weekly_ledger_entries").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("FROM weekly_ledger_entries").
		WillReturnRows(sampleLedgerRow(sqlmock.NewRows(ledgerColumns()), 1, 3, "2025-01-06", 5000))

	repo := LedgerRepository{DB: db}
	if _, err := repo.Upsert(LedgerEntry{
		VehicleID: 3,
		WeekStart: "2025-01-06",
		WeekEnd:   "2025-01-12",
	}, time.Now()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestLedgerListAppliesWindowFilter(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("week_start_date>=\\? AND week_end_date<=\\?").
		WithArgs("2025-01-06", "2025-01-12").
		WillReturnRows(sampleLedgerRow(sqlmock.NewRows(ledgerColumns()), 1, 3, "2025-01-06", 5000))

	repo := LedgerRepository{DB: db}
	entries, err := repo.List(LedgerFilter{WeekStart: "2025-01-06", WeekEnd: "2025-01-12"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].TotalRevenue != 8000 || entries[0].NetProfit != 5000 {
		t.Fatalf("unexpected entry figures: %+v", entries[0])
	}
}

func TestLedgerDeleteNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("DELETE FROM weekly_ledger_entries").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := LedgerRepository{DB: db}
	if err := repo.Delete(5); !domain.IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}
