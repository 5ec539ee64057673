package config

import "fmt"

// Validate rejects configurations the engine could not boot with.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config: nil config")
	}
	if _, err := ParseHandle(cfg.Owner); err != nil {
		return fmt.Errorf("config: Owner: %w", err)
	}
	if _, err := ParseHandle(cfg.Platform); err != nil {
		return fmt.Errorf("config: Platform: %w", err)
	}
	if _, err := ParseHandle(cfg.Market); err != nil {
		return fmt.Errorf("config: Market: %w", err)
	}
	if _, err := ParseAmount(cfg.Genesis.CurveSlope); err != nil {
		return fmt.Errorf("config: Genesis.CurveSlope: %w", err)
	}
	if _, err := ParseAmount(cfg.Genesis.InitialPrice); err != nil {
		return fmt.Errorf("config: Genesis.InitialPrice: %w", err)
	}
	cap, err := ParseAmount(cfg.Genesis.SupplyCap)
	if err != nil {
		return fmt.Errorf("config: Genesis.SupplyCap: %w", err)
	}
	if cap.Sign() == 0 {
		return fmt.Errorf("config: Genesis.SupplyCap must be greater than zero")
	}
	if cfg.Genesis.PlatformFeeBps > 1000 {
		return fmt.Errorf("config: Genesis.PlatformFeeBps above 10%% ceiling")
	}
	if cfg.Genesis.RoyaltyCeilingBps > 10_000 {
		return fmt.Errorf("config: Genesis.RoyaltyCeilingBps above 100%%")
	}
	return nil
}
