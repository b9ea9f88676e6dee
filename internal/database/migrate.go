package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Each service owns its tables and applies its own schema at startup.  The
// statements are idempotent so repeated starts are safe.

var bookingSchema = []string{
	`CREATE TABLE IF NOT EXISTS bookings (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		booking_id VARCHAR(64) NOT NULL,
		user_id VARCHAR(64) NOT NULL,
		event_id VARCHAR(64) NOT NULL,
		number_of_tickets INT NOT NULL,
		total_amount DECIMAL(10,2) NOT NULL,
		status VARCHAR(32) NOT NULL DEFAULT 'pending_payment',
		payment_id VARCHAR(64) NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_bookings_booking_id (booking_id),
		KEY idx_bookings_user (user_id, created_at),
		KEY idx_bookings_event (event_id, status)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

var ledgerSchema = []string{
	`CREATE TABLE IF NOT EXISTS events (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		event_id VARCHAR(64) NOT NULL,
		name VARCHAR(255) NOT NULL,
		category VARCHAR(64) NOT NULL,
		date DATETIME NOT NULL,
		venue VARCHAR(255) NOT NULL,
		total_seats INT NOT NULL,
		available_seats INT NOT NULL,
		ticket_price DECIMAL(10,2) NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_events_event_id (event_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

var paymentSchema = []string{
	`CREATE TABLE IF NOT EXISTS payments (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		payment_id VARCHAR(64) NOT NULL,
		booking_id VARCHAR(64) NOT NULL,
		amount DECIMAL(10,2) NOT NULL,
		status VARCHAR(16) NOT NULL,
		payment_method VARCHAR(32) NOT NULL DEFAULT 'dummy_card',
		transaction_date DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_payments_payment_id (payment_id),
		KEY idx_payments_booking (booking_id, status)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS notification_outbox (
		id CHAR(36) PRIMARY KEY,
		user_id VARCHAR(64) NOT NULL DEFAULT '',
		booking_id VARCHAR(64) NOT NULL DEFAULT '',
		payment_id VARCHAR(64) NOT NULL DEFAULT '',
		type VARCHAR(32) NOT NULL,
		message TEXT NOT NULL,
		status VARCHAR(16) NOT NULL DEFAULT 'pending',
		attempts INT NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		sent_at DATETIME NULL,
		KEY idx_outbox_status (status, created_at)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

var notifySchema = []string{
	`CREATE TABLE IF NOT EXISTS notifications (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		notification_id VARCHAR(64) NOT NULL,
		user_id VARCHAR(64) NOT NULL DEFAULT '',
		booking_id VARCHAR(64) NOT NULL DEFAULT '',
		payment_id VARCHAR(64) NOT NULL DEFAULT '',
		type VARCHAR(32) NOT NULL,
		message TEXT NOT NULL,
		status VARCHAR(16) NOT NULL DEFAULT 'sent',
		sent_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_notifications_notification_id (notification_id),
		KEY idx_notifications_user (user_id, created_at)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

func apply(ctx context.Context, db *sql.DB, stmts []string) error {
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

// MigrateBooking creates the booking orchestrator's tables.
func MigrateBooking(ctx context.Context, db *sql.DB) error { return apply(ctx, db, bookingSchema) }

// MigrateLedger creates the inventory ledger's tables.
func MigrateLedger(ctx context.Context, db *sql.DB) error { return apply(ctx, db, ledgerSchema) }

// MigratePayment creates the payment gateway's tables, including the
// notification outbox written in the same transaction as payments.
func MigratePayment(ctx context.Context, db *sql.DB) error { return apply(ctx, db, paymentSchema) }

// MigrateNotify creates the notification sink's tables.
func MigrateNotify(ctx context.Context, db *sql.DB) error { return apply(ctx, db, notifySchema) }
