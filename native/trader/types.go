package trader

import "math/big"

// Strategy is an owner-defined risk envelope bounding automated trade
// execution. MaxTradeSize is the hard per-trade limit; MaxRisk and
// MaxDrawdown are recorded envelope figures exposed to callers.
type Strategy struct {
	ID           uint64
	Name         string
	MaxRisk      uint64
	MaxDrawdown  uint64
	MaxTradeSize *big.Int
	Paused       bool
	Executions   uint64
}

// Clone returns a deep copy so callers can mutate the result without touching
// the stored strategy.
func (s *Strategy) Clone() *Strategy {
	if s == nil {
		return nil
	}
	clone := *s
	if s.MaxTradeSize != nil {
		clone.MaxTradeSize = new(big.Int).Set(s.MaxTradeSize)
	} else {
		clone.MaxTradeSize = big.NewInt(0)
	}
	return &clone
}
