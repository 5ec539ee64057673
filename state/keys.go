package state

import (
	"strconv"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

var accountPrefix = []byte("acct:")

const (
	registryContractPrefix = "registry/contract/"
	assetPrefix            = "nft/asset/"
	assetApprovalPrefix    = "nft/approval/"
	assetNextKey           = "nft/next"
	assetCountKey          = "nft/count"
	curveKey               = "token/curve"
	supplyKey              = "token/supply"
	reserveKey             = "token/reserve"
	listingPrefix          = "market/listing/"
	listingNextKey         = "market/next"
	marketFeeKey           = "market/feebps"
	listedFlagPrefix       = "market/listed/"
	strategyPrefix         = "trader/strategy/"
	strategyNextKey        = "trader/next"
	pausesKey              = "system/pauses"
)

func accountKey(addr [20]byte) []byte {
	buf := make([]byte, len(accountPrefix)+len(addr))
	copy(buf, accountPrefix)
	copy(buf[len(accountPrefix):], addr[:])
	return ethcrypto.Keccak256(buf)
}

func registryContractKey(name string) []byte {
	return []byte(registryContractPrefix + name)
}

func assetKey(id uint64) []byte {
	return []byte(assetPrefix + strconv.FormatUint(id, 10))
}

func assetApprovalKey(id uint64) []byte {
	return []byte(assetApprovalPrefix + strconv.FormatUint(id, 10))
}

func listingKey(id uint64) []byte {
	return []byte(listingPrefix + strconv.FormatUint(id, 10))
}

func listedFlagKey(assetID uint64) []byte {
	return []byte(listedFlagPrefix + strconv.FormatUint(assetID, 10))
}

func strategyKey(id uint64) []byte {
	return []byte(strategyPrefix + strconv.FormatUint(id, 10))
}
