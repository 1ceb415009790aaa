package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/iliyamo/stewardship-hub/internal/config"
)

func TestMigrateSQLiteIsIdempotent(t *testing.T) {
	db, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if err := Migrate(ctx, db, "sqlite"); err != nil {
			t.Fatalf("migrate run %d: %v", i+1, err)
		}
	}

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN
		('users','refresh_tokens','team_memberships','semester_configs','purchases','shopping_list','suggestions','verification_requests')`).Scan(&n); err != nil {
		t.Fatalf("count tables: %v", err)
	}
	if n != 8 {
		t.Fatalf("got %d tables, want 8", n)
	}
}

func TestConnectSQLiteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "hub.db")
	db, err := Connect(config.DatabaseConfig{Driver: "sqlite", SQLitePath: path})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer db.Close()
	if err := Migrate(context.Background(), db, "sqlite"); err != nil {
		t.Fatalf("migrate: %v", err)
	}
}

func TestConnectUnknownDriver(t *testing.T) {
	if _, err := Connect(config.DatabaseConfig{Driver: "postgres"}); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}
