package state

import (
	"fmt"
	"math/big"

	"vibemarket/native/token"
)

// CurveGet loads the active bonding-curve parameters.
func (m *Manager) CurveGet() (*token.CurveParameters, bool, error) {
	params := &token.CurveParameters{}
	ok, err := m.getRecord([]byte(curveKey), params)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	return params, true, nil
}

// CurvePut stores the bonding-curve parameters.
func (m *Manager) CurvePut(params *token.CurveParameters) error {
	if params == nil {
		return fmt.Errorf("state: nil curve parameters")
	}
	return m.putRecord([]byte(curveKey), params.Clone())
}

func (m *Manager) bigIntGet(key string) (*big.Int, error) {
	value := new(big.Int)
	ok, err := m.getRecord([]byte(key), value)
	if err != nil {
		return nil, err
	}
	if !ok {
		return big.NewInt(0), nil
	}
	return value, nil
}

func (m *Manager) bigIntPut(key string, value *big.Int) error {
	if value == nil || value.Sign() < 0 {
		return fmt.Errorf("state: invalid value for %q", key)
	}
	return m.putRecord([]byte(key), value)
}

// TokenSupply reports the outstanding ledger-token supply.
func (m *Manager) TokenSupply() (*big.Int, error) {
	return m.bigIntGet(supplyKey)
}

// SetTokenSupply stores the outstanding ledger-token supply.
func (m *Manager) SetTokenSupply(supply *big.Int) error {
	return m.bigIntPut(supplyKey, supply)
}

// TokenReserve reports the reserve backing the outstanding supply.
func (m *Manager) TokenReserve() (*big.Int, error) {
	return m.bigIntGet(reserveKey)
}

// SetTokenReserve stores the reserve balance.
func (m *Manager) SetTokenReserve(reserve *big.Int) error {
	return m.bigIntPut(reserveKey, reserve)
}
