package state

import (
	"encoding/json"
	"fmt"

	"vibemarket/native/common"
)

type pauseToggles struct {
	Registry bool `json:"registry"`
	NFT      bool `json:"nft"`
	Token    bool `json:"token"`
	Market   bool `json:"market"`
	Trader   bool `json:"trader"`
}

func (m *Manager) loadPauses() (pauseToggles, error) {
	var toggles pauseToggles
	raw, ok, err := m.rawGet([]byte(pausesKey))
	if err != nil {
		return toggles, fmt.Errorf("state: load pauses: %w", err)
	}
	if !ok || len(raw) == 0 {
		return toggles, nil
	}
	if err := json.Unmarshal(raw, &toggles); err != nil {
		return toggles, fmt.Errorf("state: decode pauses: %w", err)
	}
	return toggles, nil
}

// ModulePaused reports the pause toggle for the named module. Unknown module
// names are never paused.
func (m *Manager) ModulePaused(module string) (bool, error) {
	toggles, err := m.loadPauses()
	if err != nil {
		return false, err
	}
	switch module {
	case common.ModuleRegistry:
		return toggles.Registry, nil
	case common.ModuleNFT:
		return toggles.NFT, nil
	case common.ModuleToken:
		return toggles.Token, nil
	case common.ModuleMarket:
		return toggles.Market, nil
	case common.ModuleTrader:
		return toggles.Trader, nil
	default:
		return false, nil
	}
}

// SetModulePaused flips the pause toggle for the named module.
func (m *Manager) SetModulePaused(module string, paused bool) error {
	toggles, err := m.loadPauses()
	if err != nil {
		return err
	}
	switch module {
	case common.ModuleRegistry:
		toggles.Registry = paused
	case common.ModuleNFT:
		toggles.NFT = paused
	case common.ModuleToken:
		toggles.Token = paused
	case common.ModuleMarket:
		toggles.Market = paused
	case common.ModuleTrader:
		toggles.Trader = paused
	default:
		return fmt.Errorf("state: unknown module %q", module)
	}
	encoded, err := json.Marshal(toggles)
	if err != nil {
		return fmt.Errorf("state: encode pauses: %w", err)
	}
	m.rawPut([]byte(pausesKey), encoded)
	return nil
}
