package token

import "errors"

var (
	ErrAmountZero          = errors.New("token: amount must be greater than zero")
	ErrInsufficientPayment = errors.New("token: insufficient payment")
	ErrInsufficientFunds   = errors.New("token: insufficient native funds")
	ErrInsufficientBalance = errors.New("token: insufficient balance")
	ErrInsufficientReserve = errors.New("token: insufficient reserve")
	ErrSupplyCapExceeded   = errors.New("token: would exceed supply cap")
	ErrCapBelowSupply      = errors.New("token: cap below current supply")
	ErrInvalidRecipient    = errors.New("token: invalid recipient")
	ErrInvalidParameters   = errors.New("token: invalid curve parameters")
)
