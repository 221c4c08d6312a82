// Package server implements the authoritative side of a session: the
// single-writer orchestrator that validates client intents, commits
// them through the reduction engine, and runs the reactive rule
// cascade that drives the game forward.
package server

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/landsraad/dune-server-go/internal/data"
	"github.com/landsraad/dune-server-go/internal/game"
	"github.com/landsraad/dune-server-go/internal/game/ids"
	"github.com/landsraad/dune-server-go/internal/game/phase"
	"github.com/landsraad/dune-server-go/internal/protocol"
	"github.com/landsraad/dune-server-go/internal/repository"
	"go.uber.org/zap"
)

// InboundMessage is one raw client payload tagged with its sender.
type InboundMessage struct {
	Player game.PlayerID
	Data   []byte
}

// Transport is the reliable-ordered channel surface the orchestrator
// polls each tick. All Poll methods are non-blocking.
type Transport interface {
	PollJoin() (game.PlayerID, bool)
	PollLeave() (game.PlayerID, bool)
	PollInbound() (InboundMessage, bool)
	Broadcast(raw []byte)
}

// Options configures an Orchestrator.
type Options struct {
	GameID     string
	Data       *data.Data
	Transport  Transport
	Logger     *zap.Logger
	Recorder   *game.JournalRecorder
	Matches    *repository.MatchStore
	MinPlayers int
	// MaxCascadeDepth bounds nested Generate calls; a rule cascade
	// deeper than this is a logic defect, not a legal game line.
	MaxCascadeDepth int
	TickInterval    time.Duration
	LoopToSetup     bool
	Seed            int64
}

// Orchestrator owns the canonical GameState. It is the sole mutator:
// every transition enters through Generate, which broadcasts, commits,
// and then lets the rule cascade react.
type Orchestrator struct {
	logger    *zap.Logger
	gameID    string
	state     *game.GameState
	alloc     *ids.Allocator
	rng       *rand.Rand
	transport Transport
	recorder  *game.JournalRecorder
	matches   *repository.MatchStore

	minPlayers int
	maxDepth   int
	tick       time.Duration

	// joinOrder preserves connection order for deterministic seating
	// prompts; declined tracks players who passed on taking a seat.
	joinOrder []game.PlayerID
	declined  map[game.PlayerID]struct{}

	started        bool
	treacheryDealt bool
	depth          int
	startedAt      time.Time
}

// New creates an orchestrator for one session.
func New(opts Options) *Orchestrator {
	minPlayers := opts.MinPlayers
	if minPlayers < 2 {
		minPlayers = 2
	}
	maxDepth := opts.MaxCascadeDepth
	if maxDepth <= 0 {
		maxDepth = 64
	}
	tick := opts.TickInterval
	if tick <= 0 {
		tick = 50 * time.Millisecond
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	o := &Orchestrator{
		logger:     logger,
		gameID:     opts.GameID,
		state:      game.NewGameState(opts.Data, opts.LoopToSetup),
		alloc:      ids.NewAllocator(),
		rng:        rand.New(rand.NewSource(opts.Seed)),
		transport:  opts.Transport,
		recorder:   opts.Recorder,
		matches:    opts.Matches,
		minPlayers: minPlayers,
		maxDepth:   maxDepth,
		tick:       tick,
		declined:   make(map[game.PlayerID]struct{}),
		startedAt:  time.Now(),
	}
	if o.recorder != nil {
		o.recorder.StartRecording(o.gameID)
	}
	return o
}

// State exposes the canonical state for inspection. Only the
// orchestrator mutates it.
func (o *Orchestrator) State() *game.GameState {
	return o.state
}

// Run drives the tick loop until the context is cancelled, the game
// ends, or an internal-consistency error aborts the session.
func (o *Orchestrator) Run(ctx context.Context) error {
	ticker := time.NewTicker(o.tick)
	defer ticker.Stop()

	o.logger.Info("session started",
		zap.String("game_id", o.gameID),
		zap.Duration("tick", o.tick),
	)

	for {
		select {
		case <-ctx.Done():
			o.logger.Info("session cancelled", zap.String("game_id", o.gameID))
			return ctx.Err()
		case <-ticker.C:
			if err := o.Tick(); err != nil {
				o.logger.Error("session aborted",
					zap.String("game_id", o.gameID),
					zap.Error(err),
				)
				return err
			}
			if o.state.Phase == phase.EndGame {
				o.logger.Info("session finished",
					zap.String("game_id", o.gameID),
					zap.String("winner", string(o.state.Winner)),
				)
				return nil
			}
		}
	}
}

// Tick drains every pending transport event and message, processing
// each one to completion (including its full rule cascade) before the
// next. A non-nil return is an internal-consistency failure; the
// session must not continue past it.
func (o *Orchestrator) Tick() error {
	for {
		pid, ok := o.transport.PollJoin()
		if !ok {
			break
		}
		if err := o.handleJoin(pid); err != nil {
			return err
		}
	}

	for {
		pid, ok := o.transport.PollLeave()
		if !ok {
			break
		}
		if err := o.handleLeave(pid); err != nil {
			return err
		}
	}

	for {
		msg, ok := o.transport.PollInbound()
		if !ok {
			break
		}
		if err := o.handleInbound(msg); err != nil {
			return err
		}
	}

	return nil
}

func (o *Orchestrator) handleJoin(pid game.PlayerID) error {
	o.joinOrder = append(o.joinOrder, pid)
	o.logger.Info("player connected",
		zap.String("game_id", o.gameID),
		zap.String("player", string(pid)),
	)
	return o.Generate(game.GameEvent{Kind: game.EventPlayerJoined, Player: pid})
}

func (o *Orchestrator) handleLeave(pid game.PlayerID) error {
	for i, other := range o.joinOrder {
		if other == pid {
			o.joinOrder = append(o.joinOrder[:i], o.joinOrder[i+1:]...)
			break
		}
	}
	o.logger.Info("player disconnected",
		zap.String("game_id", o.gameID),
		zap.String("player", string(pid)),
	)
	if o.state.Phase == phase.EndGame {
		return nil
	}
	return o.Generate(game.GameEvent{Kind: game.EventPlayerDisconnected, Player: pid})
}

// handleInbound decodes and admits one raw client message. Client
// mistakes (bad payloads, illegal events) are logged and discarded
// with the connection left open; only internal errors propagate.
func (o *Orchestrator) handleInbound(msg InboundMessage) error {
	env, err := protocol.Decode(msg.Data)
	if err != nil {
		o.logger.Debug("discarding undecodable message",
			zap.String("player", string(msg.Player)),
			zap.Error(err),
		)
		return nil
	}
	if env.Family == protocol.FamilyControl {
		// Control traffic is server-to-client only.
		o.logger.Debug("discarding client control message",
			zap.String("player", string(msg.Player)),
		)
		return nil
	}

	ev, err := protocol.DecodeGameEvent(env)
	if err != nil {
		o.logger.Debug("discarding malformed event",
			zap.String("player", string(msg.Player)),
			zap.Error(err),
		)
		return nil
	}

	// The sender is the actor; a client cannot speak for another seat.
	if ev.Player != msg.Player {
		o.logger.Debug("discarding event with forged actor",
			zap.String("player", string(msg.Player)),
			zap.String("claimed", string(ev.Player)),
		)
		return nil
	}

	if !game.Validate(o.state, ev) {
		o.logger.Debug("rejected event",
			zap.String("player", string(msg.Player)),
			zap.String("kind", string(ev.Kind)),
			zap.String("phase", o.state.Phase.String()),
		)
		return nil
	}

	return o.Generate(ev)
}

// Generate is the commit pipeline: broadcast the event verbatim,
// consume it into the canonical state, then let the rule cascade
// react. Cascade rules call Generate recursively; the depth guard
// turns a non-terminating cascade into a hard failure instead of a
// hang.
func (o *Orchestrator) Generate(ev game.GameEvent) error {
	o.depth++
	defer func() { o.depth-- }()
	if o.depth > o.maxDepth {
		return fmt.Errorf("rule cascade exceeded depth %d at %s", o.maxDepth, ev.Kind)
	}

	raw, err := protocol.EncodeGameEvent(ev)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", ev.Kind, err)
	}
	o.transport.Broadcast(raw)
	if o.recorder != nil {
		o.recorder.Record(o.gameID, ev)
	}

	if err := game.Consume(o.state, ev); err != nil {
		return err
	}

	if err := o.gameLogic(ev); err != nil {
		return err
	}

	if ev.Kind == game.EventEndGame {
		o.finishSession()
	}
	return nil
}

// broadcastControl sends a pre-game control message outside the
// replicated event stream.
func (o *Orchestrator) broadcastControl(msg protocol.ControlMessage) error {
	raw, err := protocol.EncodeControl(msg)
	if err != nil {
		return fmt.Errorf("failed to encode control %s: %w", msg.Type, err)
	}
	o.transport.Broadcast(raw)
	return nil
}

// finishSession archives the journal and the match result. Both are
// best-effort: the game itself is already over.
func (o *Orchestrator) finishSession() {
	if o.recorder != nil {
		if err := o.recorder.SaveJournal(o.gameID); err != nil {
			o.logger.Warn("failed to save journal", zap.Error(err))
		}
	}
	if o.matches != nil {
		result := repository.MatchResult{
			GameID:    o.gameID,
			Winner:    string(o.state.Winner),
			Turns:     o.state.Turn,
			StartedAt: o.startedAt,
			EndedAt:   time.Now(),
		}
		for _, f := range data.AllFactions {
			if _, ok := o.state.Factions[f]; ok {
				result.Factions = append(result.Factions, string(f))
			}
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := o.matches.SaveResult(ctx, result); err != nil {
			o.logger.Warn("failed to archive match result", zap.Error(err))
		}
	}
}
