package services

import (
	"testing"
	"time"

	"github.com/ces0491/fleet-manager/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
)

func vehicle(id int64, reg, driver, status string) repositories.Vehicle {
	return repositories.Vehicle{ID: id, Registration: reg, DriverName: driver, Status: status}
}

func entry(id, vehicleID int64, revenue, profit float64) repositories.LedgerEntry {
	return repositories.LedgerEntry{
		ID:           id,
		VehicleID:    vehicleID,
		TotalRevenue: revenue,
		NetProfit:    profit,
	}
}

func TestBuildAggregateMarginFromSummedValues(t *testing.T) {
	vehicles := []repositories.Vehicle{
		vehicle(1, "AAA111", "Anna", "active"),
		vehicle(2, "BBB222", "Ben", "active"),
	}
	// (1000/500) and (4000/-2000): summed margin is -30%, the naive
	// per-vehicle mean would be 0%
	entries := []repositories.LedgerEntry{
		entry(1, 1, 1000, 500),
		entry(2, 2, 4000, -2000),
	}

	agg := buildAggregate("2025-01-06", "2025-01-12", vehicles, entries)

	if agg.TotalRevenue != 5000 || agg.TotalProfit != -1500 {
		t.Fatalf("unexpected sums: revenue=%v profit=%v", agg.TotalRevenue, agg.TotalProfit)
	}
	if agg.AverageMargin != -30 {
		t.Fatalf("average margin = %v, want -30 (summed, not per-vehicle mean)", agg.AverageMargin)
	}
}

func TestBuildAggregateCountsVehiclesWithoutEntries(t *testing.T) {
	vehicles := []repositories.Vehicle{
		vehicle(1, "AAA111", "Anna", "active"),
		vehicle(2, "BBB222", "Ben", "inactive"),
		vehicle(3, "CCC333", "Carl", "maintenance"),
	}

	agg := buildAggregate("2025-01-06", "2025-01-12", vehicles, nil)

	if agg.VehicleCount != 3 {
		t.Fatalf("vehicle count = %d, want 3", agg.VehicleCount)
	}
	if agg.ActiveVehicleCount != 1 {
		t.Fatalf("active count = %d, want 1", agg.ActiveVehicleCount)
	}
	if agg.TotalRevenue != 0 || agg.AverageMargin != 0 {
		t.Fatalf("expected zeroed financials, got %+v", agg)
	}
	if len(agg.TopPerformers) != 0 {
		t.Fatalf("expected empty leaderboard, got %d entries", len(agg.TopPerformers))
	}
}

func TestBuildAggregateLeaderboardTopFiveDescending(t *testing.T) {
	var vehicles []repositories.Vehicle
	var entries []repositories.LedgerEntry
	regs := []string{"V1", "V2", "V3", "V4", "V5", "V6", "V7"}
	profits := []float64{100, 700, 300, 500, 200, 600, 400}
	for i, reg := range regs {
		id := int64(i + 1)
		vehicles = append(vehicles, vehicle(id, reg, "Driver", "active"))
		entries = append(entries, entry(id, id, 1000, profits[i]))
	}

	agg := buildAggregate("2025-01-06", "2025-01-12", vehicles, entries)

	if len(agg.TopPerformers) != 5 {
		t.Fatalf("leaderboard size = %d, want 5", len(agg.TopPerformers))
	}
	for i := 1; i < len(agg.TopPerformers); i++ {
		if agg.TopPerformers[i].NetProfit > agg.TopPerformers[i-1].NetProfit {
			t.Fatalf("leaderboard not descending at %d: %+v", i, agg.TopPerformers)
		}
	}
	if agg.TopPerformers[0].Registration != "V2" || agg.TopPerformers[0].NetProfit != 700 {
		t.Fatalf("unexpected leader: %+v", agg.TopPerformers[0])
	}
}

func TestBuildAggregateLeaderboardTieKeepsInputOrder(t *testing.T) {
	vehicles := []repositories.Vehicle{
		vehicle(1, "FIRST", "Anna", "active"),
		vehicle(2, "SECOND", "Ben", "active"),
	}
	entries := []repositories.LedgerEntry{
		entry(1, 1, 1000, 250),
		entry(2, 2, 2000, 250),
	}

	agg := buildAggregate("2025-01-06", "2025-01-12", vehicles, entries)

	if agg.TopPerformers[0].Registration != "FIRST" || agg.TopPerformers[1].Registration != "SECOND" {
		t.Fatalf("tie did not keep input order: %+v", agg.TopPerformers)
	}
}

func TestResolveWindowDefaultsToCurrentWeek(t *testing.T) {
	// Thursday 2025-01-16
	svc := StatsService{Now: func() time.Time { return time.Date(2025, 1, 16, 15, 0, 0, 0, time.Local) }}

	start, end, err := svc.ResolveWindow("", "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if start != "2025-01-13" {
		t.Fatalf("week start = %s, want Monday 2025-01-13", start)
	}
	if end != "2025-01-19" {
		t.Fatalf("week end = %s, want Sunday 2025-01-19", end)
	}
}

func TestTrendReturnsOldestFirst(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows(ledgerCols).
		AddRow(3, 1, "2025-01-20", "2025-01-26", 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 3000.0, 1000.0, 2000.0, 66.67, nil, nil, nil, "", 1, "").
		AddRow(2, 1, "2025-01-13", "2025-01-19", 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 2000.0, 1000.0, 1000.0, 50.0, nil, nil, nil, "", 1, "").
		AddRow(1, 1, "2025-01-06", "2025-01-12", 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 1000.0, 1000.0, 0.0, 0.0, nil, nil, nil, "", 1, "")

	mock.ExpectQuery("FROM vehicles").
		WillReturnRows(sqlmock.NewRows(vehicleCols).
			AddRow(1, "AAA111", "Anna", "082", "active", "", "", ""))
	mock.ExpectQuery("ORDER BY week_start_date DESC").
		WillReturnRows(rows)

	svc := StatsService{
		VehicleRepo: repositories.VehicleRepository{DB: db},
		LedgerRepo:  repositories.LedgerRepository{DB: db},
	}
	points, err := svc.Trend(1, 3)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(points))
	}
	if points[0].WeekStart != "2025-01-06" || points[2].WeekStart != "2025-01-20" {
		t.Fatalf("trend not oldest-first: %+v", points)
	}
}
