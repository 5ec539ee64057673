package token

import (
	"encoding/hex"
	"math/big"

	"vibemarket/core/types"
)

const (
	EventTypePurchased    = "token.purchased"
	EventTypeSold         = "token.sold"
	EventTypeTransferred  = "token.transferred"
	EventTypeCurveUpdated = "token.curve.updated"
	EventTypeWithdrawn    = "token.reserve.withdrawn"
	EventTypePaused       = "token.paused"
	EventTypeUnpaused     = "token.unpaused"
)

type tokenEvent struct {
	evt *types.Event
}

func (e tokenEvent) EventType() string {
	if e.evt == nil {
		return ""
	}
	return e.evt.Type
}

func (e tokenEvent) Event() *types.Event { return e.evt }

func formatAmount(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

// pricePerUnit scales the settled value back to a per-unit figure for the
// change record, matching the quote exposed by Price.
func pricePerUnit(value, amount *big.Int) string {
	if value == nil || amount == nil || amount.Sign() == 0 {
		return "0"
	}
	scaled := new(big.Int).Mul(value, UNIT)
	return scaled.Div(scaled, amount).String()
}

func newPurchasedEvent(buyer [20]byte, cost, amount *big.Int) tokenEvent {
	return tokenEvent{evt: &types.Event{
		Type: EventTypePurchased,
		Attributes: map[string]string{
			"buyer":        hex.EncodeToString(buyer[:]),
			"cost":         formatAmount(cost),
			"amount":       formatAmount(amount),
			"pricePerUnit": pricePerUnit(cost, amount),
		},
	}}
}

func newSoldEvent(seller [20]byte, amount, value *big.Int) tokenEvent {
	return tokenEvent{evt: &types.Event{
		Type: EventTypeSold,
		Attributes: map[string]string{
			"seller":       hex.EncodeToString(seller[:]),
			"amount":       formatAmount(amount),
			"value":        formatAmount(value),
			"pricePerUnit": pricePerUnit(value, amount),
		},
	}}
}

func newTransferEvent(from, to [20]byte, amount *big.Int) tokenEvent {
	return tokenEvent{evt: &types.Event{
		Type: EventTypeTransferred,
		Attributes: map[string]string{
			"from":   hex.EncodeToString(from[:]),
			"to":     hex.EncodeToString(to[:]),
			"amount": formatAmount(amount),
		},
	}}
}

func newCurveUpdatedEvent(params *CurveParameters) tokenEvent {
	attrs := make(map[string]string)
	if params != nil {
		attrs["slope"] = formatAmount(params.Slope)
		attrs["initialPrice"] = formatAmount(params.InitialPrice)
		attrs["cap"] = formatAmount(params.Cap)
	}
	return tokenEvent{evt: &types.Event{Type: EventTypeCurveUpdated, Attributes: attrs}}
}

func newWithdrawEvent(authority [20]byte, amount *big.Int) tokenEvent {
	return tokenEvent{evt: &types.Event{
		Type: EventTypeWithdrawn,
		Attributes: map[string]string{
			"authority": hex.EncodeToString(authority[:]),
			"amount":    formatAmount(amount),
		},
	}}
}

func newPauseEvent(paused bool, authority [20]byte) tokenEvent {
	eventType := EventTypeUnpaused
	if paused {
		eventType = EventTypePaused
	}
	return tokenEvent{evt: &types.Event{
		Type: eventType,
		Attributes: map[string]string{
			"authority": hex.EncodeToString(authority[:]),
		},
	}}
}
