package market

import "math/big"

// DefaultPlatformFeeBps is applied until the owner configures the fee.
const DefaultPlatformFeeBps = 250

// MaxPlatformFeeBps caps the platform fee at 10%.
const MaxPlatformFeeBps = 1000

// FeeDenominator converts basis points into amounts.
const FeeDenominator = 10_000

// Listing is an offer to sell one asset at a fixed price. PaymentToken zero
// means the native payment unit; otherwise it must resolve to the directory's
// registered ledger token. A listing is terminal once sold or cancelled.
type Listing struct {
	ID           uint64
	AssetID      uint64
	Collection   [20]byte
	Seller       [20]byte
	PaymentToken [20]byte
	Price        *big.Int
	Active       bool
}

// Clone returns a deep copy so callers can mutate the result without touching
// the stored listing.
func (l *Listing) Clone() *Listing {
	if l == nil {
		return nil
	}
	clone := *l
	if l.Price != nil {
		clone.Price = new(big.Int).Set(l.Price)
	} else {
		clone.Price = big.NewInt(0)
	}
	return &clone
}

// Settlement reports the exact value split applied by a purchase.
type Settlement struct {
	ListingID   uint64
	AssetID     uint64
	Buyer       [20]byte
	Seller      [20]byte
	Price       *big.Int
	PlatformFee *big.Int
	Royalty     *big.Int
}
