package events

import "agorachain/core/types"

// Payload is implemented by typed event payloads that can render themselves as
// a generic event.
type Payload interface {
	EventType() string
	Event() *types.Event
}

// Emitter receives events from engines. Implementations must not mutate the
// payload.
type Emitter interface {
	Emit(Payload)
}

// NoopEmitter drops every event.
type NoopEmitter struct{}

func (NoopEmitter) Emit(Payload) {}

// MemoryEmitter buffers emitted events in order. Used by tests and by the node
// to fan events out after a call commits.
type MemoryEmitter struct {
	events []*types.Event
}

func (m *MemoryEmitter) Emit(p Payload) {
	if p == nil {
		return
	}
	if evt := p.Event(); evt != nil {
		m.events = append(m.events, evt)
	}
}

// Events returns the buffered events without clearing them.
func (m *MemoryEmitter) Events() []*types.Event {
	return m.events
}

// Reset clears the buffer.
func (m *MemoryEmitter) Reset() {
	m.events = nil
}
