package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "STORE_DRIVER", "DATABASE_URL", "USDLBP", "REPORT_CACHE_TTL_SECONDS", "TIMEZONE"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Port != "5000" {
		t.Fatalf("expected default port 5000, got %q", cfg.Port)
	}
	if cfg.StoreDriver != DriverFile {
		t.Fatalf("expected file driver by default, got %q", cfg.StoreDriver)
	}
	if cfg.USDLBP != 0 {
		t.Fatalf("expected unset exchange rate, got %v", cfg.USDLBP)
	}
	if cfg.ReportCacheTTL() != 30*time.Second {
		t.Fatalf("expected 30s report cache ttl, got %s", cfg.ReportCacheTTL())
	}
	if cfg.Location().String() != "Asia/Beirut" {
		t.Fatalf("expected Asia/Beirut, got %s", cfg.Location())
	}
}

func TestLoadPicksPostgresWhenDatabaseURLSet(t *testing.T) {
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("DATABASE_URL", "postgres://localhost/dukkan")

	if cfg := Load(); cfg.StoreDriver != DriverPostgres {
		t.Fatalf("expected postgres driver, got %q", cfg.StoreDriver)
	}
}

func TestLoadParsesNumbersAndFallsBack(t *testing.T) {
	t.Setenv("USDLBP", "89500")
	t.Setenv("MARGIN", "1.2")
	t.Setenv("REDIS_DB", "not-a-number")
	t.Setenv("REPORT_CACHE_TTL_SECONDS", "-4")

	cfg := Load()
	if cfg.USDLBP != 89500 {
		t.Fatalf("expected rate 89500, got %v", cfg.USDLBP)
	}
	if cfg.Margin != 1.2 {
		t.Fatalf("expected margin 1.2, got %v", cfg.Margin)
	}
	if cfg.RedisDB != 0 {
		t.Fatalf("expected invalid REDIS_DB to fall back to 0, got %d", cfg.RedisDB)
	}
	if cfg.ReportCacheTTLSeconds != 30 {
		t.Fatalf("expected ttl fallback 30, got %d", cfg.ReportCacheTTLSeconds)
	}
}

func TestLocationFallsBackToUTC(t *testing.T) {
	cfg := Config{Timezone: "Nowhere/Atlantis"}
	if cfg.Location() != time.UTC {
		t.Fatalf("expected UTC fallback, got %s", cfg.Location())
	}
}
