package types

import "math/big"

// Account is the balance record kept for every handle known to the engine. The
// native balance is the external payment unit backing the bonding-curve
// reserve, while the vibe balance tracks holdings of the ledger token.
type Account struct {
	Nonce         uint64   `json:"nonce"`
	BalanceNative *big.Int `json:"balanceNative"`
	BalanceVibe   *big.Int `json:"balanceVibe"`
}

// Clone returns a deep copy so callers can mutate the result without touching
// the stored account.
func (a *Account) Clone() *Account {
	if a == nil {
		return &Account{BalanceNative: big.NewInt(0), BalanceVibe: big.NewInt(0)}
	}
	clone := &Account{Nonce: a.Nonce, BalanceNative: big.NewInt(0), BalanceVibe: big.NewInt(0)}
	if a.BalanceNative != nil {
		clone.BalanceNative = new(big.Int).Set(a.BalanceNative)
	}
	if a.BalanceVibe != nil {
		clone.BalanceVibe = new(big.Int).Set(a.BalanceVibe)
	}
	return clone
}
