package trader

import (
	"errors"
	"math/big"
	"strings"

	"vibemarket/core/events"
	"vibemarket/native/common"
)

var (
	errNilState = errors.New("trader engine: state not configured")

	ErrInvalidStrategy  = errors.New("trader: invalid strategy")
	ErrStrategyNotFound = errors.New("trader: strategy not found")
	ErrStrategyPaused   = errors.New("trader: strategy paused")
	ErrTradeTooLarge    = errors.New("trader: trade size exceeds max limit")
	ErrAmountZero       = errors.New("trader: trade size must be greater than zero")
)

type engineState interface {
	StrategyGet(id uint64) (*Strategy, bool, error)
	StrategyPut(strategy *Strategy) error
	NextStrategyID() (uint64, error)
	ModulePaused(module string) (bool, error)
	SetModulePaused(module string, paused bool) error
}

// Engine holds the owner-defined risk envelopes and rejects any trade request
// that would violate them.
type Engine struct {
	state   engineState
	emitter events.Emitter
	owner   [20]byte
}

// NewEngine creates a strategy guard engine with a no-op emitter.
func NewEngine() *Engine {
	return &Engine{emitter: events.NoopEmitter{}}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state engineState) { e.state = state }

// SetOwner configures the guard's authority.
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

// CreateStrategy registers a new risk envelope and assigns the next sequential
// identifier.
func (e *Engine) CreateStrategy(caller [20]byte, name string, maxRisk, maxDrawdown uint64, maxTradeSize *big.Int) (*Strategy, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if err := common.RequireOwner(e.owner, caller); err != nil {
		return nil, err
	}
	if err := common.Guard(e.state, common.ModuleTrader); err != nil {
		return nil, err
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, ErrInvalidStrategy
	}
	if maxTradeSize == nil || maxTradeSize.Sign() <= 0 {
		return nil, ErrInvalidStrategy
	}
	id, err := e.state.NextStrategyID()
	if err != nil {
		return nil, err
	}
	strategy := &Strategy{
		ID:           id,
		Name:         trimmed,
		MaxRisk:      maxRisk,
		MaxDrawdown:  maxDrawdown,
		MaxTradeSize: new(big.Int).Set(maxTradeSize),
	}
	if err := e.state.StrategyPut(strategy); err != nil {
		return nil, err
	}
	e.emit(newStrategyCreatedEvent(strategy))
	return strategy.Clone(), nil
}

// ExecuteTrade validates a trade request against the strategy's envelope and
// records the execution. The applied size is returned unchanged.
func (e *Engine) ExecuteTrade(strategyID uint64, size *big.Int) (*big.Int, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if err := common.Guard(e.state, common.ModuleTrader); err != nil {
		return nil, err
	}
	if size == nil || size.Sign() <= 0 {
		return nil, ErrAmountZero
	}
	strategy, ok, err := e.state.StrategyGet(strategyID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrStrategyNotFound
	}
	if strategy.Paused {
		return nil, ErrStrategyPaused
	}
	if size.Cmp(strategy.MaxTradeSize) > 0 {
		return nil, ErrTradeTooLarge
	}
	strategy.Executions++
	if err := e.state.StrategyPut(strategy); err != nil {
		return nil, err
	}
	applied := new(big.Int).Set(size)
	e.emit(newTradeExecutedEvent(strategyID, applied))
	return applied, nil
}

// PauseStrategy disables a single strategy without touching the module
// breaker.
func (e *Engine) PauseStrategy(caller [20]byte, id uint64) error {
	return e.setStrategyPaused(caller, id, true)
}

// ResumeStrategy re-enables a single strategy.
func (e *Engine) ResumeStrategy(caller [20]byte, id uint64) error {
	return e.setStrategyPaused(caller, id, false)
}

func (e *Engine) setStrategyPaused(caller [20]byte, id uint64, paused bool) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if err := common.RequireOwner(e.owner, caller); err != nil {
		return err
	}
	strategy, ok, err := e.state.StrategyGet(id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrStrategyNotFound
	}
	if strategy.Paused == paused {
		return nil
	}
	strategy.Paused = paused
	if err := e.state.StrategyPut(strategy); err != nil {
		return err
	}
	e.emit(newStrategyPauseEvent(id, paused))
	return nil
}

// GetStrategy returns a copy of the strategy record.
func (e *Engine) GetStrategy(id uint64) (*Strategy, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	strategy, ok, err := e.state.StrategyGet(id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrStrategyNotFound
	}
	return strategy.Clone(), nil
}

// Paused reports the module breaker state.
func (e *Engine) Paused() (bool, error) {
	if e == nil || e.state == nil {
		return false, errNilState
	}
	return e.state.ModulePaused(common.ModuleTrader)
}

// Pause engages the breaker gating CreateStrategy and ExecuteTrade.
func (e *Engine) Pause(caller [20]byte) error {
	return e.setPaused(caller, true)
}

// Unpause clears the breaker.
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
	if err := e.state.SetModulePaused(common.ModuleTrader, paused); err != nil {
		return err
	}
	e.emit(newPauseEvent(paused, caller))
	return nil
}
