package trader

import (
	"encoding/hex"
	"math/big"
	"strconv"

	"vibemarket/core/types"
)

const (
	EventTypeStrategyCreated = "trader.strategy.created"
	EventTypeTradeExecuted   = "trader.trade.executed"
	EventTypeStrategyPaused  = "trader.strategy.paused"
	EventTypeStrategyResumed = "trader.strategy.resumed"
	EventTypePaused          = "trader.paused"
	EventTypeUnpaused        = "trader.unpaused"
)

type traderEvent struct {
	evt *types.Event
}

func (e traderEvent) EventType() string {
	if e.evt == nil {
		return ""
	}
	return e.evt.Type
}

func (e traderEvent) Event() *types.Event { return e.evt }

func newStrategyCreatedEvent(strategy *Strategy) traderEvent {
	attrs := make(map[string]string)
	if strategy != nil {
		attrs["id"] = strconv.FormatUint(strategy.ID, 10)
		attrs["name"] = strategy.Name
		attrs["maxRisk"] = strconv.FormatUint(strategy.MaxRisk, 10)
		attrs["maxDrawdown"] = strconv.FormatUint(strategy.MaxDrawdown, 10)
		if strategy.MaxTradeSize != nil {
			attrs["maxTradeSize"] = strategy.MaxTradeSize.String()
		}
	}
	return traderEvent{evt: &types.Event{Type: EventTypeStrategyCreated, Attributes: attrs}}
}

func newTradeExecutedEvent(strategyID uint64, size *big.Int) traderEvent {
	attrs := map[string]string{
		"strategyId": strconv.FormatUint(strategyID, 10),
	}
	if size != nil {
		attrs["size"] = size.String()
	}
	return traderEvent{evt: &types.Event{Type: EventTypeTradeExecuted, Attributes: attrs}}
}

func newStrategyPauseEvent(id uint64, paused bool) traderEvent {
	eventType := EventTypeStrategyResumed
	if paused {
		eventType = EventTypeStrategyPaused
	}
	return traderEvent{evt: &types.Event{
		Type: eventType,
		Attributes: map[string]string{
			"id": strconv.FormatUint(id, 10),
		},
	}}
}

func newPauseEvent(paused bool, authority [20]byte) traderEvent {
	eventType := EventTypeUnpaused
	if paused {
		eventType = EventTypePaused
	}
	return traderEvent{evt: &types.Event{
		Type: eventType,
		Attributes: map[string]string{
			"authority": hex.EncodeToString(authority[:]),
		},
	}}
}
