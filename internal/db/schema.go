package db

import "database/sql"

// EnsureSchema creates the tables the service owns. Statements are
// idempotent so startup is safe against an already-provisioned database.
func EnsureSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(120) NOT NULL,
			email VARCHAR(190) NOT NULL UNIQUE,
			phone VARCHAR(32) NULL,
			password_hash VARCHAR(100) NOT NULL,
			role VARCHAR(32) NOT NULL DEFAULT 'staff',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

		`CREATE TABLE IF NOT EXISTS vehicles (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			registration VARCHAR(32) NOT NULL UNIQUE,
			driver_name VARCHAR(120) NULL,
			driver_phone VARCHAR(32) NULL,
			status ENUM('active','inactive','maintenance') NOT NULL DEFAULT 'active',
			notes TEXT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

		`CREATE TABLE IF NOT EXISTS weekly_ledger_entries (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			vehicle_id BIGINT NOT NULL,
			week_start_date DATE NOT NULL,
			week_end_date DATE NOT NULL,
			cash_collected DECIMAL(12,2) NOT NULL DEFAULT 0,
			online_earnings DECIMAL(12,2) NOT NULL DEFAULT 0,
			diesel_expense DECIMAL(12,2) NOT NULL DEFAULT 0,
			tolls_parking_expense DECIMAL(12,2) NOT NULL DEFAULT 0,
			maintenance_expense DECIMAL(12,2) NOT NULL DEFAULT 0,
			other_expense DECIMAL(12,2) NOT NULL DEFAULT 0,
			total_revenue DECIMAL(12,2) NOT NULL DEFAULT 0,
			total_deductions DECIMAL(12,2) NOT NULL DEFAULT 0,
			net_profit DECIMAL(12,2) NOT NULL DEFAULT 0,
			profit_margin DOUBLE NOT NULL DEFAULT 0,
			trip_count INT NULL,
			distance_km DECIMAL(10,2) NULL,
			avg_rating DECIMAL(3,2) NULL,
			notes TEXT NULL,
			submitted_by BIGINT NULL,
			submitted_at TIMESTAMP NULL,
			UNIQUE KEY uq_vehicle_week (vehicle_id, week_start_date),
			CONSTRAINT fk_ledger_vehicle FOREIGN KEY (vehicle_id)
				REFERENCES vehicles(id) ON DELETE CASCADE
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
