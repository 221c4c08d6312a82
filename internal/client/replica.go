// Package client implements the read-only state replica. A replica
// trusts every inbound event: it applies the ordered broadcast stream
// through Consume alone, never Validate, and re-exposes each applied
// event so presentation layers can react without owning state.
package client

import (
	"fmt"

	"github.com/landsraad/dune-server-go/internal/data"
	"github.com/landsraad/dune-server-go/internal/game"
	"github.com/landsraad/dune-server-go/internal/protocol"
	"go.uber.org/zap"
)

// EventListener observes events after they have been applied to the
// replica state.
type EventListener func(game.GameEvent)

// ControlListener observes pre-game control messages.
type ControlListener func(protocol.ControlMessage)

// Replica holds a client's copy of the game state.
type Replica struct {
	logger *zap.Logger
	state  *game.GameState

	eventListeners   []EventListener
	controlListeners []ControlListener
}

// NewReplica creates an empty replica over the shared static data.
// loopToSetup must match the server's session configuration or the
// replica will diverge at the Control phase boundary.
func NewReplica(d *data.Data, loopToSetup bool, logger *zap.Logger) *Replica {
	return &Replica{
		logger: logger,
		state:  game.NewGameState(d, loopToSetup),
	}
}

// State exposes the replica state for presentation reads. Callers must
// not mutate it.
func (r *Replica) State() *game.GameState {
	return r.state
}

// OnEvent registers a listener for applied game events.
func (r *Replica) OnEvent(listener EventListener) {
	if listener != nil {
		r.eventListeners = append(r.eventListeners, listener)
	}
}

// OnControl registers a listener for control messages.
func (r *Replica) OnControl(listener ControlListener) {
	if listener != nil {
		r.controlListeners = append(r.controlListeners, listener)
	}
}

// HandleMessage decodes and applies one inbound wire message. Events
// are applied in arrival order; the transport guarantees that order
// matches the broadcast order, which is what makes the replica
// converge with the server.
func (r *Replica) HandleMessage(raw []byte) error {
	env, err := protocol.Decode(raw)
	if err != nil {
		return err
	}

	switch env.Family {
	case protocol.FamilyControl:
		msg, err := protocol.DecodeControl(env)
		if err != nil {
			return err
		}
		for _, listener := range r.controlListeners {
			listener(msg)
		}
		return nil
	case protocol.FamilyGame:
		ev, err := protocol.DecodeGameEvent(env)
		if err != nil {
			return err
		}
		return r.Apply(ev)
	default:
		return fmt.Errorf("%w: unhandled family %q", game.ErrDecodeFailure, env.Family)
	}
}

// Apply consumes one already-decoded event into the replica state and
// notifies listeners. A consume failure here means the server and
// replica have diverged; the session is unrecoverable.
func (r *Replica) Apply(ev game.GameEvent) error {
	if err := game.Consume(r.state, ev); err != nil {
		if r.logger != nil {
			r.logger.Error("replica state corrupted",
				zap.String("event", string(ev.Kind)),
				zap.Error(err),
			)
		}
		return fmt.Errorf("replica diverged on %s: %w", ev.Kind, err)
	}
	for _, listener := range r.eventListeners {
		listener(ev)
	}
	return nil
}
