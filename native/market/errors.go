package market

import "errors"

var (
	ErrNotTokenOwner       = errors.New("market: not token owner")
	ErrNotApproved         = errors.New("market: not approved")
	ErrInvalidPrice        = errors.New("market: price must be greater than zero")
	ErrAlreadyListed       = errors.New("market: asset already listed")
	ErrUnsupportedPayment  = errors.New("market: unsupported payment token")
	ErrNonexistentListing  = errors.New("market: nonexistent listing")
	ErrNotListingOwner     = errors.New("market: not listing owner")
	ErrListingNotActive    = errors.New("market: listing not active")
	ErrCannotBuyOwnListing = errors.New("market: cannot buy own listing")
	ErrInsufficientPayment = errors.New("market: insufficient payment")
	ErrInsufficientFunds   = errors.New("market: insufficient funds")
	ErrNonexistentAsset    = errors.New("market: nonexistent asset")
	ErrFeeTooHigh          = errors.New("market: fee too high")
)
