package nft

import "errors"

var (
	ErrEmptyURI         = errors.New("nft: empty token URI")
	ErrRoyaltyTooHigh   = errors.New("nft: royalty too high")
	ErrInvalidRecipient = errors.New("nft: invalid recipient")
	ErrLengthMismatch   = errors.New("nft: array length mismatch")
	ErrBatchTooLarge    = errors.New("nft: batch too large")
	ErrNotTokenOwner    = errors.New("nft: not token owner")
	ErrNotAuthorized    = errors.New("nft: not authorized")
	ErrNonexistentAsset = errors.New("nft: nonexistent asset")
)
