package config

import (
	"math/big"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadCreatesDefaultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected a default config file: %v", err)
	}
	if cfg.DataDir == "" || cfg.MetricsAddress == "" || cfg.ServiceName == "" {
		t.Fatalf("expected populated defaults, got %+v", cfg)
	}
	if cfg.Genesis.PlatformFeeBps != 250 {
		t.Fatalf("expected default platform fee 250, got %d", cfg.Genesis.PlatformFeeBps)
	}
	if cfg.Genesis.RoyaltyCeilingBps != 1000 {
		t.Fatalf("expected default royalty ceiling 1000, got %d", cfg.Genesis.RoyaltyCeilingBps)
	}

	// a second load parses the file written on first boot
	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.DataDir != cfg.DataDir {
		t.Fatalf("expected stable defaults across reloads")
	}
}

func TestLoadAppliesDefaultsToSparseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	contents := "DataDir = \"/tmp/engine\"\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DataDir != "/tmp/engine" {
		t.Fatalf("expected explicit data dir to survive, got %q", cfg.DataDir)
	}
	if cfg.Genesis.SupplyCap == "" {
		t.Fatalf("expected a default supply cap")
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	contents := "Owner = \"not-hex\"\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected a validation error for a malformed owner handle")
	}
}

func TestValidateBounds(t *testing.T) {
	base := func() *Config {
		cfg := &Config{}
		applyDefaults(cfg)
		return cfg
	}

	cfg := base()
	if err := Validate(cfg); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}

	cfg = base()
	cfg.Genesis.PlatformFeeBps = 1001
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected rejection of a platform fee above 10%%")
	}

	cfg = base()
	cfg.Genesis.RoyaltyCeilingBps = 10_001
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected rejection of a royalty ceiling above 100%%")
	}

	cfg = base()
	cfg.Genesis.SupplyCap = "0"
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected rejection of a zero supply cap")
	}
}

func TestParseHandle(t *testing.T) {
	handle, err := ParseHandle("")
	if err != nil || handle != ([20]byte{}) {
		t.Fatalf("empty input must yield the zero handle, got %x (%v)", handle, err)
	}
	want := [20]byte{0xAB, 0xCD}
	handle, err = ParseHandle("0xabcd000000000000000000000000000000000000")
	if err != nil || handle != want {
		t.Fatalf("expected %x, got %x (%v)", want, handle, err)
	}
	handle, err = ParseHandle("abcd000000000000000000000000000000000000")
	if err != nil || handle != want {
		t.Fatalf("prefix must be optional, got %x (%v)", handle, err)
	}
	if _, err := ParseHandle("abcd"); err == nil {
		t.Fatalf("expected rejection of a short handle")
	}
	if _, err := ParseHandle("zz" + "00000000000000000000000000000000000000"); err == nil {
		t.Fatalf("expected rejection of non-hex input")
	}
}

func TestParseAmount(t *testing.T) {
	amount, err := ParseAmount("")
	if err != nil || amount.Sign() != 0 {
		t.Fatalf("empty input must yield zero, got %v (%v)", amount, err)
	}
	amount, err = ParseAmount("10000000000000000000000000")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want, _ := new(big.Int).SetString("10000000000000000000000000", 10)
	if amount.Cmp(want) != 0 {
		t.Fatalf("expected %s, got %s", want, amount)
	}
	if _, err := ParseAmount("-5"); err == nil {
		t.Fatalf("expected rejection of a negative amount")
	}
	if _, err := ParseAmount("12x"); err == nil {
		t.Fatalf("expected rejection of malformed input")
	}
}
