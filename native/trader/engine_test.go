package trader

import (
	"errors"
	"math/big"
	"testing"

	"vibemarket/core/events"
	"vibemarket/native/common"
)

type mockState struct {
	strategies map[uint64]*Strategy
	nextID     uint64
	paused     map[string]bool
}

func newMockState() *mockState {
	return &mockState{
		strategies: make(map[uint64]*Strategy),
		paused:     make(map[string]bool),
	}
}

func (m *mockState) StrategyGet(id uint64) (*Strategy, bool, error) {
	strategy, ok := m.strategies[id]
	if !ok {
		return nil, false, nil
	}
	return strategy.Clone(), true, nil
}

func (m *mockState) StrategyPut(strategy *Strategy) error {
	m.strategies[strategy.ID] = strategy.Clone()
	return nil
}

func (m *mockState) NextStrategyID() (uint64, error) {
	m.nextID++
	return m.nextID, nil
}

func (m *mockState) ModulePaused(module string) (bool, error) {
	return m.paused[module], nil
}

func (m *mockState) SetModulePaused(module string, paused bool) error {
	m.paused[module] = paused
	return nil
}

var (
	testOwner = [20]byte{0xAA}
	testOther = [20]byte{0x01}
)

func newTestEngine(state *mockState) *Engine {
	engine := NewEngine()
	engine.SetState(state)
	engine.SetOwner(testOwner)
	return engine
}

func TestCreateStrategy(t *testing.T) {
	state := newMockState()
	engine := newTestEngine(state)
	recorder := events.NewRecorder(8)
	engine.SetEmitter(recorder)

	if _, err := engine.CreateStrategy(testOther, "momentum", 50, 20, big.NewInt(1000)); !errors.Is(err, common.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if _, err := engine.CreateStrategy(testOwner, "   ", 50, 20, big.NewInt(1000)); !errors.Is(err, ErrInvalidStrategy) {
		t.Fatalf("expected ErrInvalidStrategy for an empty name, got %v", err)
	}
	if _, err := engine.CreateStrategy(testOwner, "momentum", 50, 20, big.NewInt(0)); !errors.Is(err, ErrInvalidStrategy) {
		t.Fatalf("expected ErrInvalidStrategy for a zero trade cap, got %v", err)
	}
	strategy, err := engine.CreateStrategy(testOwner, "momentum", 50, 20, big.NewInt(1000))
	if err != nil {
		t.Fatalf("create strategy: %v", err)
	}
	if strategy.ID != 1 || strategy.Name != "momentum" || strategy.Paused {
		t.Fatalf("unexpected strategy %+v", strategy)
	}
	records := recorder.Drain()
	if len(records) != 1 || records[0].Type != EventTypeStrategyCreated {
		t.Fatalf("expected a creation event, got %#v", records)
	}
}

func TestExecuteTradeEnforcesEnvelope(t *testing.T) {
	state := newMockState()
	engine := newTestEngine(state)
	strategy, err := engine.CreateStrategy(testOwner, "momentum", 50, 20, big.NewInt(1000))
	if err != nil {
		t.Fatalf("create strategy: %v", err)
	}
	if _, err := engine.ExecuteTrade(strategy.ID, big.NewInt(1001)); !errors.Is(err, ErrTradeTooLarge) {
		t.Fatalf("expected ErrTradeTooLarge, got %v", err)
	}
	if _, err := engine.ExecuteTrade(strategy.ID, big.NewInt(0)); !errors.Is(err, ErrAmountZero) {
		t.Fatalf("expected ErrAmountZero, got %v", err)
	}
	if _, err := engine.ExecuteTrade(99, big.NewInt(10)); !errors.Is(err, ErrStrategyNotFound) {
		t.Fatalf("expected ErrStrategyNotFound, got %v", err)
	}
	applied, err := engine.ExecuteTrade(strategy.ID, big.NewInt(1000))
	if err != nil {
		t.Fatalf("trade at the cap must pass: %v", err)
	}
	if applied.Cmp(big.NewInt(1000)) != 0 {
		t.Fatalf("expected applied size 1000, got %s", applied)
	}
	stored, err := engine.GetStrategy(strategy.ID)
	if err != nil || stored.Executions != 1 {
		t.Fatalf("expected one recorded execution, got %+v (%v)", stored, err)
	}
}

func TestStrategyPauseGatesTrades(t *testing.T) {
	state := newMockState()
	engine := newTestEngine(state)
	strategy, err := engine.CreateStrategy(testOwner, "momentum", 50, 20, big.NewInt(1000))
	if err != nil {
		t.Fatalf("create strategy: %v", err)
	}
	if err := engine.PauseStrategy(testOther, strategy.ID); !errors.Is(err, common.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if err := engine.PauseStrategy(testOwner, strategy.ID); err != nil {
		t.Fatalf("pause strategy: %v", err)
	}
	// pausing an already paused strategy is a no-op
	if err := engine.PauseStrategy(testOwner, strategy.ID); err != nil {
		t.Fatalf("repeat pause: %v", err)
	}
	if _, err := engine.ExecuteTrade(strategy.ID, big.NewInt(10)); !errors.Is(err, ErrStrategyPaused) {
		t.Fatalf("expected ErrStrategyPaused, got %v", err)
	}
	if err := engine.ResumeStrategy(testOwner, strategy.ID); err != nil {
		t.Fatalf("resume strategy: %v", err)
	}
	if _, err := engine.ExecuteTrade(strategy.ID, big.NewInt(10)); err != nil {
		t.Fatalf("trade after resume: %v", err)
	}
}

func TestModulePauseBlocksGuard(t *testing.T) {
	state := newMockState()
	engine := newTestEngine(state)
	strategy, err := engine.CreateStrategy(testOwner, "momentum", 50, 20, big.NewInt(1000))
	if err != nil {
		t.Fatalf("create strategy: %v", err)
	}
	if err := engine.Pause(testOwner); err != nil {
		t.Fatalf("pause: %v", err)
	}
	if _, err := engine.CreateStrategy(testOwner, "carry", 10, 5, big.NewInt(500)); !errors.Is(err, common.ErrModulePaused) {
		t.Fatalf("expected paused creation, got %v", err)
	}
	if _, err := engine.ExecuteTrade(strategy.ID, big.NewInt(10)); !errors.Is(err, common.ErrModulePaused) {
		t.Fatalf("expected paused trade, got %v", err)
	}
	if _, err := engine.GetStrategy(strategy.ID); err != nil {
		t.Fatalf("reads must stay open while paused: %v", err)
	}
	if err := engine.Unpause(testOwner); err != nil {
		t.Fatalf("unpause: %v", err)
	}
	if _, err := engine.ExecuteTrade(strategy.ID, big.NewInt(10)); err != nil {
		t.Fatalf("trade after unpause: %v", err)
	}
}
