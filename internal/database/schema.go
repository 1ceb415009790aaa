package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Tables are created idempotently.  Column types are kept to the subset both
// engines accept; MySQL gets InnoDB/utf8mb4 and VARCHAR keys because it cannot
// index TEXT without a prefix length.

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id CHAR(36) PRIMARY KEY,
		email VARCHAR(255) NOT NULL UNIQUE,
		name VARCHAR(255) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		is_budget_visible TINYINT(1) NOT NULL DEFAULT 1,
		created_at DATETIME(6) NOT NULL,
		updated_at DATETIME(6) NOT NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		user_id CHAR(36) NOT NULL,
		token_hash CHAR(64) NOT NULL UNIQUE,
		expires_at DATETIME(6) NOT NULL,
		revoked_at DATETIME(6) NULL,
		created_at DATETIME(6) NOT NULL,
		INDEX idx_refresh_user (user_id),
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS team_memberships (
		team_id VARCHAR(64) NOT NULL,
		user_id CHAR(36) NOT NULL,
		roles VARCHAR(255) NOT NULL DEFAULT '',
		created_at DATETIME(6) NOT NULL,
		PRIMARY KEY (team_id, user_id),
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS semester_configs (
		id CHAR(36) PRIMARY KEY,
		semester_name VARCHAR(255) NOT NULL,
		start_date DATETIME(6) NULL,
		end_date DATETIME(6) NULL,
		brothers_on_meal_plan INT NOT NULL DEFAULT 0,
		meal_plan_cost DECIMAL(12,2) NOT NULL DEFAULT 0,
		carryover_balance DECIMAL(12,2) NOT NULL DEFAULT 0,
		additional_revenue DECIMAL(12,2) NOT NULL DEFAULT 0,
		created_at DATETIME(6) NOT NULL,
		updated_at DATETIME(6) NOT NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS purchases (
		id CHAR(36) PRIMARY KEY,
		item_name VARCHAR(255) NOT NULL,
		cost DECIMAL(12,2) NOT NULL,
		quantity INT NOT NULL,
		category VARCHAR(128) NOT NULL,
		purchase_date DATETIME(6) NOT NULL,
		purchase_frequency VARCHAR(32) NOT NULL DEFAULT '',
		is_active_for_projection TINYINT(1) NOT NULL DEFAULT 1,
		is_stock_item TINYINT(1) NOT NULL DEFAULT 0,
		created_at DATETIME(6) NOT NULL,
		INDEX idx_purchases_date (purchase_date),
		INDEX idx_purchases_name (item_name)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS shopping_list (
		id CHAR(36) PRIMARY KEY,
		item_name VARCHAR(255) NOT NULL,
		reported_by VARCHAR(255) NOT NULL,
		created_at DATETIME(6) NOT NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS suggestions (
		id CHAR(36) PRIMARY KEY,
		item_name VARCHAR(255) NOT NULL,
		reason TEXT NOT NULL,
		submitted_by CHAR(36) NOT NULL,
		submitted_by_name VARCHAR(255) NOT NULL DEFAULT '',
		status VARCHAR(16) NOT NULL DEFAULT 'Pending',
		admin_response TEXT NOT NULL,
		created_at DATETIME(6) NOT NULL,
		INDEX idx_suggestions_user (submitted_by)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS verification_requests (
		id CHAR(36) PRIMARY KEY,
		user_id CHAR(36) NOT NULL,
		user_name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL,
		status VARCHAR(16) NOT NULL DEFAULT 'pending',
		created_at DATETIME(6) NOT NULL,
		INDEX idx_verification_status (status),
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		is_budget_visible INTEGER NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		token_hash TEXT NOT NULL UNIQUE,
		expires_at DATETIME NOT NULL,
		revoked_at DATETIME NULL,
		created_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS team_memberships (
		team_id TEXT NOT NULL,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		roles TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL,
		PRIMARY KEY (team_id, user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS semester_configs (
		id TEXT PRIMARY KEY,
		semester_name TEXT NOT NULL,
		start_date DATETIME NULL,
		end_date DATETIME NULL,
		brothers_on_meal_plan INTEGER NOT NULL DEFAULT 0,
		meal_plan_cost REAL NOT NULL DEFAULT 0,
		carryover_balance REAL NOT NULL DEFAULT 0,
		additional_revenue REAL NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS purchases (
		id TEXT PRIMARY KEY,
		item_name TEXT NOT NULL,
		cost REAL NOT NULL,
		quantity INTEGER NOT NULL,
		category TEXT NOT NULL,
		purchase_date DATETIME NOT NULL,
		purchase_frequency TEXT NOT NULL DEFAULT '',
		is_active_for_projection INTEGER NOT NULL DEFAULT 1,
		is_stock_item INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_purchases_date ON purchases(purchase_date)`,
	`CREATE TABLE IF NOT EXISTS shopping_list (
		id TEXT PRIMARY KEY,
		item_name TEXT NOT NULL,
		reported_by TEXT NOT NULL,
		created_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS suggestions (
		id TEXT PRIMARY KEY,
		item_name TEXT NOT NULL,
		reason TEXT NOT NULL,
		submitted_by TEXT NOT NULL,
		submitted_by_name TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'Pending',
		admin_response TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS verification_requests (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		user_name TEXT NOT NULL,
		email TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		created_at DATETIME NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_verification_status ON verification_requests(status)`,
}

// Migrate creates any missing tables for driver ("mysql" or "sqlite").
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	stmts := mysqlSchema
	if driver == "sqlite" {
		stmts = sqliteSchema
	}
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
