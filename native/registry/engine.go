package registry

import (
	"errors"
	"strings"

	"vibemarket/core/events"
	"vibemarket/native/common"
)

var (
	errNilState = errors.New("registry engine: state not configured")
	// ErrUnknownName rejects directory updates for names outside the known set.
	ErrUnknownName = errors.New("registry: unknown contract name")
	// ErrInvalidAddress rejects directory updates that would store the zero
	// handle.
	ErrInvalidAddress = errors.New("registry: invalid address")
)

// Known directory names. Lookups for anything else are a soft miss; updates
// for anything else are an error.
const (
	NameRegistry    = "Registry"
	NameSeedNFT     = "SeedNFT"
	NameVibecoin    = "Vibecoin"
	NameMarketplace = "Marketplace"
	NameAutoTrader  = "AutoTrader"
)

var knownNames = map[string]struct{}{
	NameRegistry:    {},
	NameSeedNFT:     {},
	NameVibecoin:    {},
	NameMarketplace: {},
	NameAutoTrader:  {},
}

type engineState interface {
	ContractGet(name string) ([20]byte, bool, error)
	ContractPut(name string, addr [20]byte) error
	ModulePaused(module string) (bool, error)
	SetModulePaused(module string, paused bool) error
}

// Engine maintains the owner-controlled name to address directory consulted by
// the other modules, together with the directory's own circuit breaker.
type Engine struct {
	state   engineState
	emitter events.Emitter
	owner   [20]byte
}

// NewEngine creates a directory engine with a no-op emitter. Callers can
// override the emitter via SetEmitter.
func NewEngine() *Engine {
	return &Engine{emitter: events.NoopEmitter{}}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state engineState) { e.state = state }

// SetOwner configures the owning authority for directory mutations.
func (e *Engine) SetOwner(owner [20]byte) { e.owner = owner }

// SetEmitter configures the event emitter. Passing nil resets it to a no-op
// implementation.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

func (e *Engine) emit(evt events.Event) {
	if e == nil || e.emitter == nil || evt == nil {
		return
	}
	e.emitter.Emit(evt)
}

// KnownName reports whether the supplied name belongs to the directory's
// enumerated set.
func KnownName(name string) bool {
	_, ok := knownNames[strings.TrimSpace(name)]
	return ok
}

// UpdateContract stores a new address for a known directory name. Entries are
// only ever overwritten, never deleted.
func (e *Engine) UpdateContract(caller [20]byte, name string, addr [20]byte) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if err := common.RequireOwner(e.owner, caller); err != nil {
		return err
	}
	if err := common.Guard(e.state, common.ModuleRegistry); err != nil {
		return err
	}
	trimmed := strings.TrimSpace(name)
	if !KnownName(trimmed) {
		return ErrUnknownName
	}
	if addr == ([20]byte{}) {
		return ErrInvalidAddress
	}
	previous, _, err := e.state.ContractGet(trimmed)
	if err != nil {
		return err
	}
	if err := e.state.ContractPut(trimmed, addr); err != nil {
		return err
	}
	e.emit(newUpdatedEvent(trimmed, previous, addr))
	return nil
}

// Contract resolves a directory name. Unknown or unset names return the zero
// handle without an error, a deliberate soft-miss contract.
func (e *Engine) Contract(name string) ([20]byte, error) {
	if e == nil || e.state == nil {
		return [20]byte{}, errNilState
	}
	addr, ok, err := e.state.ContractGet(strings.TrimSpace(name))
	if err != nil {
		return [20]byte{}, err
	}
	if !ok {
		return [20]byte{}, nil
	}
	return addr, nil
}

// Paused reports the directory's breaker state.
func (e *Engine) Paused() (bool, error) {
	if e == nil || e.state == nil {
		return false, errNilState
	}
	return e.state.ModulePaused(common.ModuleRegistry)
}

// Pause engages the directory's circuit breaker.
func (e *Engine) Pause(caller [20]byte) error {
	return e.setPaused(caller, true)
}

// Unpause clears the directory's circuit breaker.
func (e *Engine) Unpause(caller [20]byte) error {
	return e.setPaused(caller, false)
}

func (e *Engine) setPaused(caller [20]byte, paused bool) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if err := common.RequireOwner(e.owner, caller); err != nil {
		return err
	}
	if err := e.state.SetModulePaused(common.ModuleRegistry, paused); err != nil {
		return err
	}
	if paused {
		e.emit(newPausedEvent(caller))
	} else {
		e.emit(newUnpausedEvent(caller))
	}
	return nil
}
