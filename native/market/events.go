package market

import (
	"encoding/hex"
	"math/big"
	"strconv"

	"vibemarket/core/types"
)

const (
	EventTypeListingCreated   = "market.listing.created"
	EventTypeListingUpdated   = "market.listing.updated"
	EventTypeListingCancelled = "market.listing.cancelled"
	EventTypeSold             = "market.sold"
	EventTypeFeeUpdated       = "market.fee.updated"
	EventTypePaused           = "market.paused"
	EventTypeUnpaused         = "market.unpaused"
)

type marketEvent struct {
	evt *types.Event
}

func (e marketEvent) EventType() string {
	if e.evt == nil {
		return ""
	}
	return e.evt.Type
}

func (e marketEvent) Event() *types.Event { return e.evt }

func formatAmount(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

func newListingCreatedEvent(listing *Listing) marketEvent {
	attrs := make(map[string]string)
	if listing != nil {
		attrs["id"] = strconv.FormatUint(listing.ID, 10)
		attrs["assetId"] = strconv.FormatUint(listing.AssetID, 10)
		attrs["collection"] = hex.EncodeToString(listing.Collection[:])
		attrs["seller"] = hex.EncodeToString(listing.Seller[:])
		attrs["paymentToken"] = hex.EncodeToString(listing.PaymentToken[:])
		attrs["price"] = formatAmount(listing.Price)
	}
	return marketEvent{evt: &types.Event{Type: EventTypeListingCreated, Attributes: attrs}}
}

func newListingUpdatedEvent(id uint64, previous, next *big.Int) marketEvent {
	return marketEvent{evt: &types.Event{
		Type: EventTypeListingUpdated,
		Attributes: map[string]string{
			"id":       strconv.FormatUint(id, 10),
			"previous": formatAmount(previous),
			"new":      formatAmount(next),
		},
	}}
}

func newListingCancelledEvent(id uint64) marketEvent {
	return marketEvent{evt: &types.Event{
		Type: EventTypeListingCancelled,
		Attributes: map[string]string{
			"id": strconv.FormatUint(id, 10),
		},
	}}
}

func newSoldEvent(listing *Listing, settlement *Settlement) marketEvent {
	attrs := make(map[string]string)
	if listing != nil && settlement != nil {
		attrs["id"] = strconv.FormatUint(listing.ID, 10)
		attrs["assetId"] = strconv.FormatUint(listing.AssetID, 10)
		attrs["buyer"] = hex.EncodeToString(settlement.Buyer[:])
		attrs["seller"] = hex.EncodeToString(settlement.Seller[:])
		attrs["paymentToken"] = hex.EncodeToString(listing.PaymentToken[:])
		attrs["price"] = formatAmount(settlement.Price)
		attrs["platformFee"] = formatAmount(settlement.PlatformFee)
		attrs["royalty"] = formatAmount(settlement.Royalty)
	}
	return marketEvent{evt: &types.Event{Type: EventTypeSold, Attributes: attrs}}
}

func newFeeUpdatedEvent(previous, next uint32) marketEvent {
	return marketEvent{evt: &types.Event{
		Type: EventTypeFeeUpdated,
		Attributes: map[string]string{
			"previous": strconv.FormatUint(uint64(previous), 10),
			"new":      strconv.FormatUint(uint64(next), 10),
		},
	}}
}

func newPauseEvent(paused bool, authority [20]byte) marketEvent {
	eventType := EventTypeUnpaused
	if paused {
		eventType = EventTypePaused
	}
	return marketEvent{evt: &types.Event{
		Type: eventType,
		Attributes: map[string]string{
			"authority": hex.EncodeToString(authority[:]),
		},
	}}
}
