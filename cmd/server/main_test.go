package main

import (
	"context"
	"path/filepath"
	"testing"

	"dukkan/backend/internal/config"
	"dukkan/backend/internal/store"
)

func TestValidateConfigRejectsBadValues(t *testing.T) {
	cases := map[string]config.Config{
		"unknown driver":  {StoreDriver: "sqlite", Margin: 1, Profit: 1},
		"negative rate":   {StoreDriver: config.DriverMemory, USDLBP: -1, Margin: 1, Profit: 1},
		"negative margin": {StoreDriver: config.DriverMemory, Margin: -0.5, Profit: 1},
		"negative profit": {StoreDriver: config.DriverFile, Margin: 1, Profit: -2},
	}
	for name, cfg := range cases {
		if err := validateConfig(cfg); err == nil {
			t.Fatalf("%s: expected config to be rejected", name)
		}
	}
}

func TestValidateConfigAcceptsDefaults(t *testing.T) {
	err := validateConfig(config.Config{StoreDriver: config.DriverFile, USDLBP: 89500, Margin: 1, Profit: 1})
	if err != nil {
		t.Fatalf("expected default config to pass, got %v", err)
	}
}

func TestOpenStoreByDriver(t *testing.T) {
	dir := t.TempDir()
	drivers := []config.Config{
		{StoreDriver: config.DriverMemory},
		{StoreDriver: config.DriverFile, DataDir: filepath.Join(dir, "data")},
		{StoreDriver: config.DriverBolt, BoltPath: filepath.Join(dir, "dukkan.db")},
	}
	for _, cfg := range drivers {
		s, err := openStore(context.Background(), cfg)
		if err != nil {
			t.Fatalf("%s: open: %v", cfg.StoreDriver, err)
		}
		if _, err := s.Read(context.Background(), store.Products); err != nil {
			t.Fatalf("%s: read products: %v", cfg.StoreDriver, err)
		}
		if err := s.Close(); err != nil {
			t.Fatalf("%s: close: %v", cfg.StoreDriver, err)
		}
	}
}

func TestOpenStorePostgresNeedsURL(t *testing.T) {
	if _, err := openStore(context.Background(), config.Config{StoreDriver: config.DriverPostgres}); err == nil {
		t.Fatalf("expected postgres without DATABASE_URL to fail")
	}
}
