package app

import (
	"reflect"
	"testing"

	"github.com/nomadicTree/frayerstore/internal/data/db"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{"DB_DRIVER", "SQLITE_PATH", "HTTP_ADDR", "CORS_ORIGINS", "OTEL_ENABLED", "METRICS_ENABLED"} {
		t.Setenv(k, "")
	}
	cfg := LoadConfig(nil)
	if cfg.DB.Driver != db.DriverSQLite {
		t.Fatalf("driver: got %q", cfg.DB.Driver)
	}
	if cfg.DB.SQLitePath != "frayerstore.db" {
		t.Fatalf("sqlite path: got %q", cfg.DB.SQLitePath)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("addr: got %q", cfg.HTTPAddr)
	}
	if cfg.OTel.Enabled || !cfg.MetricsEnabled {
		t.Fatalf("unexpected toggles: otel=%v metrics=%v", cfg.OTel.Enabled, cfg.MetricsEnabled)
	}
	if cfg.CORSOrigins != nil {
		t.Fatalf("cors origins: got %v", cfg.CORSOrigins)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("POSTGRES_HOST", "db.internal")
	t.Setenv("CORS_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("OTEL_SAMPLER_RATIO", "0.25")

	cfg := LoadConfig(nil)
	if cfg.DB.Driver != db.DriverPostgres || cfg.DB.PostgresHost != "db.internal" {
		t.Fatalf("db config: %+v", cfg.DB)
	}
	if want := []string{"https://a.example", "https://b.example"}; !reflect.DeepEqual(cfg.CORSOrigins, want) {
		t.Fatalf("cors origins: got %v want %v", cfg.CORSOrigins, want)
	}
	if !cfg.OTel.Enabled || cfg.OTel.SampleRatio != 0.25 {
		t.Fatalf("otel config: %+v", cfg.OTel)
	}
}
