package repositories

import (
	"database/sql"
	"strings"
	"time"

	intconfig "github.com/ces0491/fleet-manager/internal/config"
	"github.com/ces0491/fleet-manager/internal/domain"
)

// LedgerEntry is one vehicle's financial record for one reporting week.
// Derived fields are always recomputed by the service before a write.
type LedgerEntry struct {
	ID        int64  `json:"id"`
	VehicleID int64  `json:"vehicleId"`
	WeekStart string `json:"weekStart"`
	WeekEnd   string `json:"weekEnd"`

	CashCollected       float64 `json:"cashCollected"`
	OnlineEarnings      float64 `json:"onlineEarnings"`
	DieselExpense       float64 `json:"dieselExpense"`
	TollsParkingExpense float64 `json:"tollsParkingExpense"`
	MaintenanceExpense  float64 `json:"maintenanceExpense"`
	OtherExpense        float64 `json:"otherExpense"`

	TotalRevenue    float64 `json:"totalRevenue"`
	TotalDeductions float64 `json:"totalDeductions"`
	NetProfit       float64 `json:"netProfit"`
	ProfitMargin    float64 `json:"profitMargin"`

	TripCount  *int     `json:"tripCount,omitempty"`
	DistanceKM *float64 `json:"distanceKm,omitempty"`
	AvgRating  *float64 `json:"avgRating,omitempty"`

	Notes       string `json:"notes,omitempty"`
	SubmittedBy int64  `json:"submittedBy"`
	SubmittedAt string `json:"submittedAt"`
}

// LedgerFilter narrows entry listings. Zero values mean "no filter".
type LedgerFilter struct {
	VehicleID int64
	WeekStart string
	WeekEnd   string
}

// LedgerRepository wraps DB access for weekly_ledger_entries.
type LedgerRepository struct {
	DB *sql.DB
}

func (r LedgerRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const ledgerSelect = `
	SELECT id,
	       vehicle_id,
	       DATE_FORMAT(week_start_date, '%Y-%m-%d'),
	       DATE_FORMAT(week_end_date, '%Y-%m-%d'),
	       cash_collected,
	       online_earnings,
	       diesel_expense,
	       tolls_parking_expense,
	       maintenance_expense,
	       other_expense,
	       total_revenue,
	       total_deductions,
	       net_profit,
	       profit_margin,
	       trip_count,
	       distance_km,
	       avg_rating,
	       COALESCE(notes,''),
	       COALESCE(submitted_by,0),
	       COALESCE(DATE_FORMAT(submitted_at, '%Y-%m-%d %H:%i:%s'),'')
	FROM weekly_ledger_entries
`

func scanLedgerEntry(row interface{ Scan(...any) error }) (LedgerEntry, error) {
	var (
		e        LedgerEntry
		trips    sql.NullInt64
		distance sql.NullFloat64
		rating   sql.NullFloat64
	)
	err := row.Scan(
		&e.ID,
		&e.VehicleID,
		&e.WeekStart,
		&e.WeekEnd,
		&e.CashCollected,
		&e.OnlineEarnings,
		&e.DieselExpense,
		&e.TollsParkingExpense,
		&e.MaintenanceExpense,
		&e.OtherExpense,
		&e.TotalRevenue,
		&e.TotalDeductions,
		&e.NetProfit,
		&e.ProfitMargin,
		&trips,
		&distance,
		&rating,
		&e.Notes,
		&e.SubmittedBy,
		&e.SubmittedAt,
	)
	if err != nil {
		return e, err
	}
	if trips.Valid {
		n := int(trips.Int64)
		e.TripCount = &n
	}
	if distance.Valid {
		d := distance.Float64
		e.DistanceKM = &d
	}
	if rating.Valid {
		v := rating.Float64
		e.AvgRating = &v
	}
	return e, nil
}

// Upsert writes the entry keyed by (vehicle_id, week_start_date):
// UPDATE first, INSERT when nothing matched. The overwrite replaces all
// raw and derived fields and refreshes provenance (last writer wins).
func (r LedgerRepository) Upsert(e LedgerEntry, now time.Time) (LedgerEntry, error) {
	db := r.db()

	res, err := db.Exec(`
		UPDATE weekly_ledger_entries
		SET week_end_date=?,
		    cash_collected=?, online_earnings=?,
		    diesel_expense=?, tolls_parking_expense=?, maintenance_expense=?, other_expense=?,
		    total_revenue=?, total_deductions=?, net_profit=?, profit_margin=?,
		    trip_count=?, distance_km=?, avg_rating=?,
		    notes=?, submitted_by=?, submitted_at=?
		WHERE vehicle_id=? AND week_start_date=?
	`,
		e.WeekEnd,
		e.CashCollected, e.OnlineEarnings,
		e.DieselExpense, e.TollsParkingExpense, e.MaintenanceExpense, e.OtherExpense,
		e.TotalRevenue, e.TotalDeductions, e.NetProfit, e.ProfitMargin,
		nullInt(e.TripCount), nullFloat(e.DistanceKM), nullFloat(e.AvgRating),
		e.Notes, e.SubmittedBy, now,
		e.VehicleID, e.WeekStart,
	)
	if err != nil {
		return LedgerEntry{}, domain.StorageError{Msg: "failed to update ledger entry", Err: err}
	}

	if aff, _ := res.RowsAffected(); aff == 0 {
		if _, err := db.Exec(`
			INSERT INTO weekly_ledger_entries
			  (vehicle_id, week_start_date, week_end_date,
			   cash_collected, online_earnings,
			   diesel_expense, tolls_parking_expense, maintenance_expense, other_expense,
			   total_revenue, total_deductions, net_profit, profit_margin,
			   trip_count, distance_km, avg_rating,
			   notes, submitted_by, submitted_at)
			VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
		`,
			e.VehicleID, e.WeekStart, e.WeekEnd,
			e.CashCollected, e.OnlineEarnings,
			e.DieselExpense, e.TollsParkingExpense, e.MaintenanceExpense, e.OtherExpense,
			e.TotalRevenue, e.TotalDeductions, e.NetProfit, e.ProfitMargin,
			nullInt(e.TripCount), nullFloat(e.DistanceKM), nullFloat(e.AvgRating),
			e.Notes, e.SubmittedBy, now,
		); err != nil {
			return LedgerEntry{}, domain.StorageError{Msg: "failed to insert ledger entry", Err: err}
		}
	}

	return r.GetByKey(e.VehicleID, e.WeekStart)
}

func (r LedgerRepository) GetByID(id int64) (LedgerEntry, error) {
	if id <= 0 {
		return LedgerEntry{}, domain.NotFoundError{Resource: "ledger entry"}
	}
	e, err := scanLedgerEntry(r.db().QueryRow(ledgerSelect+" WHERE id=? LIMIT 1", id))
	if err == sql.ErrNoRows {
		return LedgerEntry{}, domain.NotFoundError{Resource: "ledger entry"}
	}
	if err != nil {
		return LedgerEntry{}, domain.StorageError{Msg: "failed to load ledger entry", Err: err}
	}
	return e, nil
}

func (r LedgerRepository) GetByKey(vehicleID int64, weekStart string) (LedgerEntry, error) {
	e, err := scanLedgerEntry(r.db().QueryRow(
		ledgerSelect+" WHERE vehicle_id=? AND week_start_date=? LIMIT 1", vehicleID, weekStart))
	if err == sql.ErrNoRows {
		return LedgerEntry{}, domain.NotFoundError{Resource: "ledger entry"}
	}
	if err != nil {
		return LedgerEntry{}, domain.StorageError{Msg: "failed to load ledger entry", Err: err}
	}
	return e, nil
}

// List returns entries matching the filter, oldest week first. Insertion
// order (id asc) breaks ties so results are stable.
func (r LedgerRepository) List(f LedgerFilter) ([]LedgerEntry, error) {
	where := []string{"1=1"}
	args := []any{}

	if f.VehicleID > 0 {
		where = append(where, "vehicle_id=?")
		args = append(args, f.VehicleID)
	}
	if s := strings.TrimSpace(f.WeekStart); s != "" {
		where = append(where, "week_start_date>=?")
		args = append(args, s)
	}
	if s := strings.TrimSpace(f.WeekEnd); s != "" {
		where = append(where, "week_end_date<=?")
		args = append(args, s)
	}

	query := ledgerSelect + " WHERE " + strings.Join(where, " AND ") +
		" ORDER BY week_start_date ASC, id ASC"
	return r.queryEntries(query, args...)
}

// ListRecent returns the n most recent entries (newest first), optionally
// for a single vehicle. Callers wanting oldest-to-newest reverse it.
func (r LedgerRepository) ListRecent(vehicleID int64, n int) ([]LedgerEntry, error) {
	where := "1=1"
	args := []any{}
	if vehicleID > 0 {
		where = "vehicle_id=?"
		args = append(args, vehicleID)
	}
	args = append(args, n)

	query := ledgerSelect + " WHERE " + where +
		" ORDER BY week_start_date DESC, id DESC LIMIT ?"
	return r.queryEntries(query, args...)
}

func (r LedgerRepository) Delete(id int64) error {
	res, err := r.db().Exec(`DELETE FROM weekly_ledger_entries WHERE id=?`, id)
	if err != nil {
		return domain.StorageError{Msg: "failed to delete ledger entry", Err: err}
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return domain.NotFoundError{Resource: "ledger entry"}
	}
	return nil
}

func (r LedgerRepository) queryEntries(query string, args ...any) ([]LedgerEntry, error) {
	rows, err := r.db().Query(query, args...)
	if err != nil {
		return nil, domain.StorageError{Msg: "failed to list ledger entries", Err: err}
	}
	defer rows.Close()

	out := []LedgerEntry{}
	for rows.Next() {
		e, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, domain.StorageError{Msg: "failed to scan ledger entry", Err: err}
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StorageError{Msg: "ledger rows error", Err: err}
	}
	return out, nil
}

func nullInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullFloat(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}
