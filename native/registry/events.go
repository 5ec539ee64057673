package registry

import (
	"encoding/hex"

	"vibemarket/core/types"
)

const (
	EventTypeContractUpdated = "registry.contract.updated"
	EventTypePaused          = "registry.paused"
	EventTypeUnpaused        = "registry.unpaused"
)

type registryEvent struct {
	evt *types.Event
}

func (e registryEvent) EventType() string {
	if e.evt == nil {
		return ""
	}
	return e.evt.Type
}

func (e registryEvent) Event() *types.Event { return e.evt }

func newUpdatedEvent(name string, previous, next [20]byte) registryEvent {
	return registryEvent{evt: &types.Event{
		Type: EventTypeContractUpdated,
		Attributes: map[string]string{
			"name":     name,
			"previous": hex.EncodeToString(previous[:]),
			"new":      hex.EncodeToString(next[:]),
		},
	}}
}

func newPausedEvent(authority [20]byte) registryEvent {
	return registryEvent{evt: &types.Event{
		Type: EventTypePaused,
		Attributes: map[string]string{
			"authority": hex.EncodeToString(authority[:]),
		},
	}}
}

func newUnpausedEvent(authority [20]byte) registryEvent {
	return registryEvent{evt: &types.Event{
		Type: EventTypeUnpaused,
		Attributes: map[string]string{
			"authority": hex.EncodeToString(authority[:]),
		},
	}}
}
