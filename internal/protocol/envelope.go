// Package protocol defines the wire envelope for the single
// reliable-ordered channel. Every transmitted unit is either a
// pre-game control message or a replicated game event; the envelope
// tags the family explicitly so receivers never have to guess which
// schema to try first.
package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/landsraad/dune-server-go/internal/game"
)

// Family distinguishes the two message families on the channel.
type Family string

const (
	FamilyControl Family = "control"
	FamilyGame    Family = "game"
)

// ControlType enumerates the pre-game control messages.
type ControlType string

const (
	ControlLoadAssets ControlType = "LOAD_ASSETS"
	ControlStartGame  ControlType = "START_GAME"
)

// Envelope is the tagged wire unit.
type Envelope struct {
	Family  Family          `json:"family"`
	Payload json.RawMessage `json:"payload"`
}

// ControlMessage is the payload of a control-family envelope.
type ControlMessage struct {
	Type ControlType `json:"type"`
}

// EncodeControl wraps a control message in an envelope.
func EncodeControl(msg ControlMessage) ([]byte, error) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode control payload: %w", err)
	}
	return json.Marshal(Envelope{Family: FamilyControl, Payload: payload})
}

// EncodeGameEvent wraps a game event in an envelope.
func EncodeGameEvent(ev game.GameEvent) ([]byte, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("failed to encode event payload: %w", err)
	}
	return json.Marshal(Envelope{Family: FamilyGame, Payload: payload})
}

// Decode parses the outer envelope.
func Decode(raw []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", game.ErrDecodeFailure, err)
	}
	switch env.Family {
	case FamilyControl, FamilyGame:
		return env, nil
	default:
		return Envelope{}, fmt.Errorf("%w: unknown family %q", game.ErrDecodeFailure, env.Family)
	}
}

// DecodeControl parses a control-family payload.
func DecodeControl(env Envelope) (ControlMessage, error) {
	if env.Family != FamilyControl {
		return ControlMessage{}, fmt.Errorf("%w: not a control envelope", game.ErrDecodeFailure)
	}
	var msg ControlMessage
	if err := json.Unmarshal(env.Payload, &msg); err != nil {
		return ControlMessage{}, fmt.Errorf("%w: %v", game.ErrDecodeFailure, err)
	}
	switch msg.Type {
	case ControlLoadAssets, ControlStartGame:
		return msg, nil
	default:
		return ControlMessage{}, fmt.Errorf("%w: unknown control type %q", game.ErrDecodeFailure, msg.Type)
	}
}

// DecodeGameEvent parses a game-family payload.
func DecodeGameEvent(env Envelope) (game.GameEvent, error) {
	if env.Family != FamilyGame {
		return game.GameEvent{}, fmt.Errorf("%w: not a game envelope", game.ErrDecodeFailure)
	}
	var ev game.GameEvent
	if err := json.Unmarshal(env.Payload, &ev); err != nil {
		return game.GameEvent{}, fmt.Errorf("%w: %v", game.ErrDecodeFailure, err)
	}
	if ev.Kind == "" {
		return game.GameEvent{}, fmt.Errorf("%w: event without kind", game.ErrDecodeFailure)
	}
	return ev, nil
}
