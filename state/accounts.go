package state

import (
	"fmt"
	"math/big"

	"vibemarket/core/types"
)

func ensureAccountDefaults(account *types.Account) *types.Account {
	if account == nil {
		return &types.Account{BalanceNative: big.NewInt(0), BalanceVibe: big.NewInt(0)}
	}
	if account.BalanceNative == nil {
		account.BalanceNative = big.NewInt(0)
	}
	if account.BalanceVibe == nil {
		account.BalanceVibe = big.NewInt(0)
	}
	return account
}

// GetAccount reconstructs the account stored under the supplied handle. An
// unknown handle yields a zero-balance account rather than an error.
func (m *Manager) GetAccount(addr [20]byte) (*types.Account, error) {
	account := &types.Account{}
	ok, err := m.getRecord(accountKey(addr), account)
	if err != nil {
		return nil, err
	}
	if !ok {
		return ensureAccountDefaults(nil), nil
	}
	return ensureAccountDefaults(account), nil
}

// PutAccount persists the account record. Negative balances are rejected
// outright; they indicate an engine bug rather than a caller mistake.
func (m *Manager) PutAccount(addr [20]byte, account *types.Account) error {
	account = ensureAccountDefaults(account)
	if account.BalanceNative.Sign() < 0 || account.BalanceVibe.Sign() < 0 {
		return fmt.Errorf("state: negative balance for account %x", addr)
	}
	return m.putRecord(accountKey(addr), account)
}
