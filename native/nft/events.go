package nft

import (
	"encoding/hex"
	"strconv"

	"vibemarket/core/types"
)

const (
	EventTypeMinted         = "nft.minted"
	EventTypeRoyaltyUpdated = "nft.royalty.updated"
	EventTypeApproved       = "nft.approved"
	EventTypeBurned         = "nft.burned"
	EventTypePaused         = "nft.paused"
	EventTypeUnpaused       = "nft.unpaused"
)

type nftEvent struct {
	evt *types.Event
}

func (e nftEvent) EventType() string {
	if e.evt == nil {
		return ""
	}
	return e.evt.Type
}

func (e nftEvent) Event() *types.Event { return e.evt }

func newMintedEvent(asset *Asset) nftEvent {
	attrs := make(map[string]string)
	if asset != nil {
		attrs["id"] = strconv.FormatUint(asset.ID, 10)
		attrs["owner"] = hex.EncodeToString(asset.Owner[:])
		attrs["uri"] = asset.URI
		attrs["royaltyBps"] = strconv.FormatUint(uint64(asset.RoyaltyBps), 10)
	}
	return nftEvent{evt: &types.Event{Type: EventTypeMinted, Attributes: attrs}}
}

func newRoyaltyUpdatedEvent(id uint64, previous, next uint32) nftEvent {
	return nftEvent{evt: &types.Event{
		Type: EventTypeRoyaltyUpdated,
		Attributes: map[string]string{
			"id":       strconv.FormatUint(id, 10),
			"previous": strconv.FormatUint(uint64(previous), 10),
			"new":      strconv.FormatUint(uint64(next), 10),
		},
	}}
}

func newApprovedEvent(id uint64, operator [20]byte) nftEvent {
	return nftEvent{evt: &types.Event{
		Type: EventTypeApproved,
		Attributes: map[string]string{
			"id":       strconv.FormatUint(id, 10),
			"operator": hex.EncodeToString(operator[:]),
		},
	}}
}

func newBurnedEvent(asset *Asset) nftEvent {
	attrs := make(map[string]string)
	if asset != nil {
		attrs["id"] = strconv.FormatUint(asset.ID, 10)
		attrs["owner"] = hex.EncodeToString(asset.Owner[:])
	}
	return nftEvent{evt: &types.Event{Type: EventTypeBurned, Attributes: attrs}}
}

func newPauseEvent(paused bool, authority [20]byte) nftEvent {
	eventType := EventTypeUnpaused
	if paused {
		eventType = EventTypePaused
	}
	return nftEvent{evt: &types.Event{
		Type: eventType,
		Attributes: map[string]string{
			"authority": hex.EncodeToString(authority[:]),
		},
	}}
}
