package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"LIST_LIMIT", "MAP_LIMIT", "MAP_CENTER_LAT", "LOAD_DELAY_MS", "CORS_ORIGINS"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.ListLimit != 50 {
		t.Errorf("ListLimit: got %d, want 50", cfg.ListLimit)
	}
	if cfg.MapLimit != 500 {
		t.Errorf("MapLimit: got %d, want 500", cfg.MapLimit)
	}
	if cfg.MapCenterLat != 16.047079 {
		t.Errorf("MapCenterLat: got %v, want 16.047079", cfg.MapCenterLat)
	}
	if cfg.LoadDelay != 100*time.Millisecond {
		t.Errorf("LoadDelay: got %v, want 100ms", cfg.LoadDelay)
	}
	if len(cfg.CORSOrigins) == 0 {
		t.Error("CORSOrigins should have defaults")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("LIST_LIMIT", "20")
	t.Setenv("MAP_LIMIT", "not-a-number")
	t.Setenv("CORS_ORIGINS", " https://a.example , ,https://b.example")

	cfg := Load()
	if cfg.ListLimit != 20 {
		t.Errorf("ListLimit: got %d, want 20", cfg.ListLimit)
	}
	if cfg.MapLimit != 500 {
		t.Errorf("MapLimit should fall back on bad value: got %d", cfg.MapLimit)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Errorf("CORSOrigins: got %v", cfg.CORSOrigins)
	}
}

func TestDSN(t *testing.T) {
	c := &Config{
		PostgresHost: "db", PostgresPort: "5432", PostgresUser: "u",
		PostgresPassword: "p", PostgresDB: "d", PostgresSSLMode: "disable",
	}
	want := "host=db port=5432 user=u password=p dbname=d sslmode=disable"
	if got := c.DSN(); got != want {
		t.Errorf("DSN() = %q; want %q", got, want)
	}
}
