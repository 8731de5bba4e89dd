package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema holds the tables the service needs.  chk_buses_seats backs the
// guarded seat updates in the service layer.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		full_name     VARCHAR(120)  NOT NULL,
		email         VARCHAR(190)  NOT NULL,
		password      VARCHAR(100)  NOT NULL,
		phone         VARCHAR(32)   NULL,
		gender        VARCHAR(16)   NULL,
		date_of_birth DATE          NULL,
		address       VARCHAR(255)  NULL,
		created_at    DATETIME      NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at    DATETIME      NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_users_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS buses (
		id              BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name            VARCHAR(120) NOT NULL,
		from_location   VARCHAR(120) NOT NULL,
		to_location     VARCHAR(120) NOT NULL,
		departure_time  DATETIME     NOT NULL,
		total_seats     INT UNSIGNED NOT NULL,
		available_seats INT UNSIGNED NOT NULL,
		price           DECIMAL(10,2) NOT NULL DEFAULT 0,
		KEY idx_buses_route (from_location, to_location, departure_time),
		CONSTRAINT chk_buses_seats CHECK (available_seats <= total_seats)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id             BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		bus_id         BIGINT UNSIGNED NOT NULL,
		user_id        BIGINT UNSIGNED NULL,
		passenger_name VARCHAR(120)  NOT NULL,
		email          VARCHAR(190)  NOT NULL,
		phone          VARCHAR(32)   NOT NULL,
		seats          VARCHAR(1024) NOT NULL,
		total_amount   DECIMAL(10,2) NOT NULL,
		booking_date   DATETIME      NOT NULL DEFAULT CURRENT_TIMESTAMP,
		status         ENUM('CONFIRMED','CANCELLED') NOT NULL DEFAULT 'CONFIRMED',
		KEY idx_bookings_user (user_id),
		KEY idx_bookings_email (email),
		CONSTRAINT fk_bookings_bus FOREIGN KEY (bus_id) REFERENCES buses (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// EnsureSchema creates any missing tables.  Existing tables are left as is.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema step %d: %w", i+1, err)
		}
	}
	return nil
}
