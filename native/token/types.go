package token

import "math/big"

// UNIT is the fixed-point denominator of the curve: the marginal price at
// supply s is initialPrice + slope*s/UNIT.
var UNIT = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

// CurveParameters drive the bonding-curve issuance price. The cap bounds the
// total supply; parameter updates may never push the cap below the
// outstanding supply.
type CurveParameters struct {
	Slope        *big.Int
	InitialPrice *big.Int
	Cap          *big.Int
}

// Clone returns a deep copy of the parameters.
func (p *CurveParameters) Clone() *CurveParameters {
	if p == nil {
		return nil
	}
	clone := &CurveParameters{
		Slope:        big.NewInt(0),
		InitialPrice: big.NewInt(0),
		Cap:          big.NewInt(0),
	}
	if p.Slope != nil {
		clone.Slope = new(big.Int).Set(p.Slope)
	}
	if p.InitialPrice != nil {
		clone.InitialPrice = new(big.Int).Set(p.InitialPrice)
	}
	if p.Cap != nil {
		clone.Cap = new(big.Int).Set(p.Cap)
	}
	return clone
}

// Receipt reports the settled figures of a buy or sell: the token amount, the
// value moved to or from the reserve, and for buys the unspent remainder of
// the attached payment.
type Receipt struct {
	Amount *big.Int
	Value  *big.Int
	Refund *big.Int
}
