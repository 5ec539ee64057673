package nft

// DefaultMaxRoyaltyBps is the creator royalty ceiling applied when the engine
// is not configured with an explicit limit.
const DefaultMaxRoyaltyBps = 1000

// MaxBatchSize bounds the number of assets a single batch mint may create.
const MaxBatchSize = 50

// Asset is a unique, non-fungible entry in the registry. Identifiers are
// sequential, 1-based and never reused after a burn. The creator receives the
// royalty cut at settlement time regardless of later ownership transfers.
type Asset struct {
	ID         uint64
	Owner      [20]byte
	Creator    [20]byte
	URI        string
	RoyaltyBps uint32
}

// Clone returns a copy so callers can mutate the result without affecting the
// stored asset.
func (a *Asset) Clone() *Asset {
	if a == nil {
		return nil
	}
	clone := *a
	return &clone
}
