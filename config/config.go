package config

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config drives the engine node: where state lives and the genesis parameters
// applied on first boot.
type Config struct {
	DataDir        string  `toml:"DataDir"`
	MetricsAddress string  `toml:"MetricsAddress"`
	ServiceName    string  `toml:"ServiceName"`
	Environment    string  `toml:"Environment"`
	Owner          string  `toml:"Owner"`
	Platform       string  `toml:"Platform"`
	Market         string  `toml:"Market"`
	Genesis        Genesis `toml:"Genesis"`
}

// Genesis holds the initial engine parameters. Amount fields are decimal
// strings so 256-bit values survive the TOML round trip.
type Genesis struct {
	CurveSlope        string `toml:"CurveSlope"`
	InitialPrice      string `toml:"InitialPrice"`
	SupplyCap         string `toml:"SupplyCap"`
	PlatformFeeBps    uint32 `toml:"PlatformFeeBps"`
	RoyaltyCeilingBps uint32 `toml:"RoyaltyCeilingBps"`
}

// Load loads the configuration from the given path, writing a default file
// when none exists yet.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.DataDir) == "" {
		cfg.DataDir = "./vibemarket-data"
	}
	if strings.TrimSpace(cfg.MetricsAddress) == "" {
		cfg.MetricsAddress = ":9464"
	}
	if strings.TrimSpace(cfg.ServiceName) == "" {
		cfg.ServiceName = "vibemarket"
	}
	if strings.TrimSpace(cfg.Genesis.CurveSlope) == "" {
		cfg.Genesis.CurveSlope = "1000000000000"
	}
	if strings.TrimSpace(cfg.Genesis.InitialPrice) == "" {
		cfg.Genesis.InitialPrice = "1000000000000000"
	}
	if strings.TrimSpace(cfg.Genesis.SupplyCap) == "" {
		cfg.Genesis.SupplyCap = "10000000000000000000000000"
	}
	if cfg.Genesis.PlatformFeeBps == 0 {
		cfg.Genesis.PlatformFeeBps = 250
	}
	if cfg.Genesis.RoyaltyCeilingBps == 0 {
		cfg.Genesis.RoyaltyCeilingBps = 1000
	}
}

func createDefault(path string) (*Config, error) {
	cfg := &Config{}
	applyDefaults(cfg)
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	if err := toml.NewEncoder(file).Encode(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParseHandle decodes a 20-byte hex handle, with or without the 0x prefix. An
// empty string yields the zero handle.
func ParseHandle(value string) ([20]byte, error) {
	var handle [20]byte
	trimmed := strings.TrimPrefix(strings.TrimSpace(value), "0x")
	if trimmed == "" {
		return handle, nil
	}
	raw, err := hex.DecodeString(trimmed)
	if err != nil {
		return handle, fmt.Errorf("invalid handle %q: %w", value, err)
	}
	if len(raw) != len(handle) {
		return handle, fmt.Errorf("invalid handle %q: want %d bytes, got %d", value, len(handle), len(raw))
	}
	copy(handle[:], raw)
	return handle, nil
}

// ParseAmount decodes a non-negative decimal amount string.
func ParseAmount(value string) (*big.Int, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return big.NewInt(0), nil
	}
	amount, ok := new(big.Int).SetString(trimmed, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount %q", value)
	}
	if amount.Sign() < 0 {
		return nil, fmt.Errorf("negative amount %q", value)
	}
	return amount, nil
}
