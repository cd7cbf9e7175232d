// Package bridge implements the websocket IPC bridge to the Mineflayer bot:
// the typed message envelope exchanged with the peer and the single-slot
// server that routes inbound envelopes and exposes the outbound send API.
package bridge

import (
	"time"
)

// Envelope is the wire unit exchanged with the bot, a tagged union over
// the four message kinds. Exactly one JSON document per websocket message.
//
//	game_event: bot -> brain  {type, event_type, data, timestamp}
//	action:     brain -> bot  {type, action, params}
//	ping/pong:  either direction, manual heartbeat
type Envelope struct {
	Type string `json:"type"`

	// game_event fields.
	EventType string         `json:"event_type,omitempty"`
	Data      map[string]any `json:"data,omitempty"`

	// action fields.
	Action string         `json:"action,omitempty"`
	Params map[string]any `json:"params,omitempty"`

	// Heartbeat timestamps, float seconds since epoch to stay
	// wire-compatible with the Node peer.
	Timestamp     float64 `json:"timestamp,omitempty"`
	PingTimestamp float64 `json:"ping_timestamp,omitempty"`
}

const (
	TypeGameEvent = "game_event"
	TypeAction    = "action"
	TypePing      = "ping"
	TypePong      = "pong"
)

func NewGameEvent(eventType string, data map[string]any) Envelope {
	if data == nil {
		data = map[string]any{}
	}
	return Envelope{
		Type:      TypeGameEvent,
		EventType: eventType,
		Data:      data,
		Timestamp: nowUnix(),
	}
}

func NewAction(action string, params map[string]any) Envelope {
	if params == nil {
		params = map[string]any{}
	}
	return Envelope{Type: TypeAction, Action: action, Params: params}
}

func NewPing() Envelope {
	return Envelope{Type: TypePing, Timestamp: nowUnix()}
}

// NewPong echoes the timestamp of the ping it acknowledges.
func NewPong(pingTimestamp float64) Envelope {
	return Envelope{Type: TypePong, PingTimestamp: pingTimestamp, Timestamp: nowUnix()}
}

// Valid reports whether the envelope carries a recognized type tag.
func (e Envelope) Valid() bool {
	switch e.Type {
	case TypeGameEvent, TypeAction, TypePing, TypePong:
		return true
	}
	return false
}

func nowUnix() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Second)
}
