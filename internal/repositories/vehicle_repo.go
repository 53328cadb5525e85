package repositories

import (
	"database/sql"
	"strings"

	intconfig "github.com/ces0491/fleet-manager/internal/config"
	"github.com/ces0491/fleet-manager/internal/domain"

	"github.com/go-sql-driver/mysql"
)

type Vehicle struct {
	ID           int64  `json:"id"`
	Registration string `json:"registration"`
	DriverName   string `json:"driverName"`
	DriverPhone  string `json:"driverPhone"`
	Status       string `json:"status"`
	Notes        string `json:"notes,omitempty"`
	CreatedAt    string `json:"createdAt,omitempty"`
	UpdatedAt    string `json:"updatedAt,omitempty"`
}

// VehicleRepository wraps DB access for the vehicles roster.
type VehicleRepository struct {
	DB *sql.DB
}

func (r VehicleRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const vehicleSelect = `
	SELECT id,
	       registration,
	       COALESCE(driver_name,''),
	       COALESCE(driver_phone,''),
	       status,
	       COALESCE(notes,''),
	       COALESCE(DATE_FORMAT(created_at, '%Y-%m-%d %H:%i:%s'),''),
	       COALESCE(DATE_FORMAT(updated_at, '%Y-%m-%d %H:%i:%s'),'')
	FROM vehicles
`

func scanVehicle(row interface{ Scan(...any) error }) (Vehicle, error) {
	var v Vehicle
	err := row.Scan(
		&v.ID,
		&v.Registration,
		&v.DriverName,
		&v.DriverPhone,
		&v.Status,
		&v.Notes,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	return v, err
}

// List returns the roster, optionally filtered by status and a free-text
// search over registration and driver name. Ordered by registration so
// report rows come out in a stable, printable order.
func (r VehicleRepository) List(q, status string) ([]Vehicle, error) {
	where := []string{"1=1"}
	args := []any{}

	if s := strings.TrimSpace(status); s != "" {
		where = append(where, "status=?")
		args = append(args, strings.ToLower(s))
	}
	if q = strings.TrimSpace(q); q != "" {
		where = append(where, "(registration LIKE ? OR driver_name LIKE ?)")
		like := "%" + q + "%"
		args = append(args, like, like)
	}

	query := vehicleSelect + " WHERE " + strings.Join(where, " AND ") + " ORDER BY registration ASC, id ASC"
	rows, err := r.db().Query(query, args...)
	if err != nil {
		return nil, domain.StorageError{Msg: "failed to list vehicles", Err: err}
	}
	defer rows.Close()

	out := []Vehicle{}
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, domain.StorageError{Msg: "failed to scan vehicle", Err: err}
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StorageError{Msg: "vehicle rows error", Err: err}
	}
	return out, nil
}

func (r VehicleRepository) GetByID(id int64) (Vehicle, error) {
	if id <= 0 {
		return Vehicle{}, domain.NotFoundError{Resource: "vehicle"}
	}
	v, err := scanVehicle(r.db().QueryRow(vehicleSelect+" WHERE id=? LIMIT 1", id))
	if err == sql.ErrNoRows {
		return Vehicle{}, domain.NotFoundError{Resource: "vehicle"}
	}
	if err != nil {
		return Vehicle{}, domain.StorageError{Msg: "failed to load vehicle", Err: err}
	}
	return v, nil
}

// Create inserts a vehicle. Registration is stored upper-cased; a
// duplicate registration maps to ConflictError via MySQL error 1062.
func (r VehicleRepository) Create(v Vehicle) (Vehicle, error) {
	res, err := r.db().Exec(`
		INSERT INTO vehicles (registration, driver_name, driver_phone, status, notes)
		VALUES (?, ?, ?, ?, ?)
	`, normalizeRegistration(v.Registration), v.DriverName, v.DriverPhone, v.Status, v.Notes)
	if err != nil {
		if me, ok := err.(*mysql.MySQLError); ok && me.Number == 1062 {
			return Vehicle{}, domain.ConflictError{Resource: "vehicle", Msg: "registration already exists"}
		}
		return Vehicle{}, domain.StorageError{Msg: "failed to create vehicle", Err: err}
	}
	id, _ := res.LastInsertId()
	return r.GetByID(id)
}

func (r VehicleRepository) Update(id int64, v Vehicle) (Vehicle, error) {
	res, err := r.db().Exec(`
		UPDATE vehicles
		SET registration=?, driver_name=?, driver_phone=?, status=?, notes=?
		WHERE id=?
	`, normalizeRegistration(v.Registration), v.DriverName, v.DriverPhone, v.Status, v.Notes, id)
	if err != nil {
		if me, ok := err.(*mysql.MySQLError); ok && me.Number == 1062 {
			return Vehicle{}, domain.ConflictError{Resource: "vehicle", Msg: "registration already exists"}
		}
		return Vehicle{}, domain.StorageError{Msg: "failed to update vehicle", Err: err}
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		// zero affected also happens on a no-op update; confirm existence
		if _, err := r.GetByID(id); err != nil {
			return Vehicle{}, err
		}
	}
	return r.GetByID(id)
}

// Delete removes the vehicle; ledger entries go with it through the
// ON DELETE CASCADE foreign key.
func (r VehicleRepository) Delete(id int64) error {
	res, err := r.db().Exec(`DELETE FROM vehicles WHERE id=?`, id)
	if err != nil {
		return domain.StorageError{Msg: "failed to delete vehicle", Err: err}
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return domain.NotFoundError{Resource: "vehicle"}
	}
	return nil
}

func normalizeRegistration(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
