package state

import (
	"fmt"

	"vibemarket/native/trader"
)

// StrategyGet loads a strategy record by identifier.
func (m *Manager) StrategyGet(id uint64) (*trader.Strategy, bool, error) {
	strategy := &trader.Strategy{}
	ok, err := m.getRecord(strategyKey(id), strategy)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	return strategy, true, nil
}

// StrategyPut stores a strategy record.
func (m *Manager) StrategyPut(strategy *trader.Strategy) error {
	if strategy == nil {
		return fmt.Errorf("state: nil strategy")
	}
	return m.putRecord(strategyKey(strategy.ID), strategy.Clone())
}

// NextStrategyID reserves and returns the next sequential strategy identifier.
func (m *Manager) NextStrategyID() (uint64, error) {
	return m.bumpCounter([]byte(strategyNextKey))
}
