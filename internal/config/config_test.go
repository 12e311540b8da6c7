package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeINI(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "api.ini")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_FromFile(t *testing.T) {
	path := writeINI(t, `
[hotel]
url = https://hotel.example.com/api/
key = hotel-token

[band]
url = https://band.example.com/api/
key = band-token

[global]
retries = 5
delay = 0.25

[broker]
interval = 2.0
http_addr = :9090
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Hotel.URL != "https://hotel.example.com/api/" || cfg.Hotel.Key != "hotel-token" {
		t.Errorf("hotel = %+v", cfg.Hotel)
	}
	if cfg.Band.Key != "band-token" {
		t.Errorf("band = %+v", cfg.Band)
	}
	if cfg.Retries != 5 {
		t.Errorf("Retries = %d, want 5", cfg.Retries)
	}
	if cfg.Delay != 250*time.Millisecond {
		t.Errorf("Delay = %v, want 250ms", cfg.Delay)
	}
	if cfg.RequestInterval != 2*time.Second {
		t.Errorf("RequestInterval = %v, want 2s", cfg.RequestInterval)
	}
	if cfg.HTTPAddr != ":9090" {
		t.Errorf("HTTPAddr = %q", cfg.HTTPAddr)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.ini"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Retries != 3 {
		t.Errorf("Retries = %d, want default 3", cfg.Retries)
	}
	if cfg.RequestInterval != time.Second {
		t.Errorf("RequestInterval = %v, want default 1s", cfg.RequestInterval)
	}
	if cfg.Hotel.URL == "" || cfg.Band.URL == "" {
		t.Error("default service URLs should be set")
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("SLOTBROKER_HOTEL_URL", "https://override.example.com")
	t.Setenv("SLOTBROKER_GLOBAL_RETRIES", "7")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.ini"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Hotel.URL != "https://override.example.com" {
		t.Errorf("Hotel.URL = %q, want env override", cfg.Hotel.URL)
	}
	if cfg.Retries != 7 {
		t.Errorf("Retries = %d, want 7", cfg.Retries)
	}
}

func TestLoad_RejectsBadRetries(t *testing.T) {
	path := writeINI(t, "[global]\nretries = 0\n")
	if _, err := Load(path); err == nil {
		t.Error("retries below 1 should be rejected")
	}
}

func TestValidateWeb(t *testing.T) {
	var cfg Config
	if err := cfg.ValidateWeb(); err == nil {
		t.Error("empty web config should be rejected")
	}
	cfg.SessionHashKey = []byte("0123456789abcdef0123456789abcdef")
	cfg.SessionBlockKey = []byte("0123456789abcdef")
	cfg.AdminPasswordHash = "$2a$10$abcdefghijklmnopqrstuv"
	if err := cfg.ValidateWeb(); err != nil {
		t.Errorf("ValidateWeb: %v", err)
	}
}
