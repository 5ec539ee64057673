package state

import (
	"fmt"

	"vibemarket/native/market"
)

// ListingGet loads a listing record by identifier.
func (m *Manager) ListingGet(id uint64) (*market.Listing, bool, error) {
	listing := &market.Listing{}
	ok, err := m.getRecord(listingKey(id), listing)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	return listing, true, nil
}

// ListingPut stores a listing record.
func (m *Manager) ListingPut(listing *market.Listing) error {
	if listing == nil {
		return fmt.Errorf("state: nil listing")
	}
	return m.putRecord(listingKey(listing.ID), listing.Clone())
}

// NextListingID reserves and returns the next sequential listing identifier.
func (m *Manager) NextListingID() (uint64, error) {
	return m.bumpCounter([]byte(listingNextKey))
}

// AssetListed reports whether the asset currently carries an active listing.
// The flag is keyed by asset identifier alone so a listing under one
// collection handle blocks relisting under any other.
func (m *Manager) AssetListed(assetID uint64) (bool, error) {
	var flag bool
	ok, err := m.getRecord(listedFlagKey(assetID), &flag)
	if err != nil {
		return false, err
	}
	return ok && flag, nil
}

// SetAssetListed flips the double-listing guard for the asset.
func (m *Manager) SetAssetListed(assetID uint64, listed bool) error {
	if !listed {
		m.rawDelete(listedFlagKey(assetID))
		return nil
	}
	return m.putRecord(listedFlagKey(assetID), true)
}

// PlatformFeeGet loads the configured platform fee, if the owner has set one.
func (m *Manager) PlatformFeeGet() (uint32, bool, error) {
	var bps uint32
	ok, err := m.getRecord([]byte(marketFeeKey), &bps)
	if err != nil {
		return 0, false, err
	}
	return bps, ok, nil
}

// PlatformFeePut stores the platform fee in basis points.
func (m *Manager) PlatformFeePut(bps uint32) error {
	return m.putRecord([]byte(marketFeeKey), bps)
}
