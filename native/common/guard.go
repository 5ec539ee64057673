package common

import "errors"

var (
	// ErrModulePaused is returned by every mutating operation attempted while
	// the module's circuit breaker is engaged.
	ErrModulePaused = errors.New("module paused")
	// ErrNotOwner is returned when a caller attempts an owner-restricted
	// operation.
	ErrNotOwner = errors.New("caller is not the owner")
)

// Module identifiers used for pause bookkeeping.
const (
	ModuleRegistry = "registry"
	ModuleNFT      = "nft"
	ModuleToken    = "token"
	ModuleMarket   = "market"
	ModuleTrader   = "trader"
)

// PauseReader exposes the pause toggles persisted in state.
type PauseReader interface {
	ModulePaused(module string) (bool, error)
}

// Guard rejects the operation when the named module is paused. It is the first
// check of every mutating engine operation.
func Guard(r PauseReader, module string) error {
	if r == nil || module == "" {
		return nil
	}
	paused, err := r.ModulePaused(module)
	if err != nil {
		return err
	}
	if paused {
		return ErrModulePaused
	}
	return nil
}

// RequireOwner enforces the single owning authority model: an operation is
// authorized only when the caller matches the configured non-zero owner.
func RequireOwner(owner, caller [20]byte) error {
	if owner == ([20]byte{}) || caller != owner {
		return ErrNotOwner
	}
	return nil
}
