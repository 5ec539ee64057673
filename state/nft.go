package state

import (
	"fmt"

	"vibemarket/native/nft"
)

// AssetGet loads an asset record by identifier.
func (m *Manager) AssetGet(id uint64) (*nft.Asset, bool, error) {
	asset := &nft.Asset{}
	ok, err := m.getRecord(assetKey(id), asset)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	return asset, true, nil
}

// AssetPut stores an asset record, maintaining the live-asset count when the
// record is new.
func (m *Manager) AssetPut(asset *nft.Asset) error {
	if asset == nil {
		return fmt.Errorf("state: nil asset")
	}
	_, existed, err := m.AssetGet(asset.ID)
	if err != nil {
		return err
	}
	if err := m.putRecord(assetKey(asset.ID), asset); err != nil {
		return err
	}
	if !existed {
		count, err := m.getCounter([]byte(assetCountKey))
		if err != nil {
			return err
		}
		return m.putRecord([]byte(assetCountKey), count+1)
	}
	return nil
}

// AssetDelete removes an asset record permanently and decrements the live
// count. The identifier is never reissued; the id counter only moves forward.
func (m *Manager) AssetDelete(id uint64) error {
	_, existed, err := m.AssetGet(id)
	if err != nil {
		return err
	}
	if !existed {
		return nil
	}
	m.rawDelete(assetKey(id))
	count, err := m.getCounter([]byte(assetCountKey))
	if err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("state: asset count underflow")
	}
	return m.putRecord([]byte(assetCountKey), count-1)
}

// AssetApprovalGet returns the operator approved for the asset, if any.
func (m *Manager) AssetApprovalGet(id uint64) ([20]byte, bool, error) {
	var operator [20]byte
	ok, err := m.getRecord(assetApprovalKey(id), &operator)
	if err != nil {
		return [20]byte{}, false, err
	}
	return operator, ok, nil
}

// AssetApprovalPut stores the approved operator for the asset.
func (m *Manager) AssetApprovalPut(id uint64, operator [20]byte) error {
	return m.putRecord(assetApprovalKey(id), operator)
}

// AssetApprovalClear removes any approval for the asset.
func (m *Manager) AssetApprovalClear(id uint64) error {
	m.rawDelete(assetApprovalKey(id))
	return nil
}

// NextAssetID reserves and returns the next sequential asset identifier.
func (m *Manager) NextAssetID() (uint64, error) {
	return m.bumpCounter([]byte(assetNextKey))
}

// AssetCount reports the number of live assets.
func (m *Manager) AssetCount() (uint64, error) {
	return m.getCounter([]byte(assetCountKey))
}
