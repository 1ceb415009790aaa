package config

import (
	"testing"
	"time"
)

func TestLoadDatabaseSQLite(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/hub-test.db")
	db := LoadDatabase()
	if db.Driver != "sqlite" || db.SQLitePath != "/tmp/hub-test.db" {
		t.Fatalf("got %+v", db)
	}
}

func TestLoadLocationFallsBack(t *testing.T) {
	t.Setenv("LOCAL_TZ", "Not/AZone")
	if loc := LoadLocation(); loc != time.Local {
		t.Fatalf("got %v, want local", loc)
	}
}

func TestRateLimitNormalized(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")
	rl := LoadRateLimitConfig()
	if rl.Capacity != 1 {
		t.Errorf("capacity = %d, want 1", rl.Capacity)
	}
	if rl.TTL != 10*time.Second {
		t.Errorf("ttl = %v, want 10s", rl.TTL)
	}
}

func TestCacheMethods(t *testing.T) {
	t.Setenv("CACHE_METHODS", " get, head ,")
	cc := LoadCacheConfig()
	if !cc.Methods["GET"] || !cc.Methods["HEAD"] || len(cc.Methods) != 2 {
		t.Fatalf("methods = %v", cc.Methods)
	}
}

func TestEnvBoolAndInt(t *testing.T) {
	t.Setenv("X_BOOL", "off")
	t.Setenv("X_INT", "abc")
	if envBool("X_BOOL", true) {
		t.Error("envBool(off) = true")
	}
	if envInt("X_INT", 7) != 7 {
		t.Error("envInt should fall back on parse error")
	}
}
