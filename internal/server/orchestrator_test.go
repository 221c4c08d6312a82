package server

import (
	"testing"

	"github.com/landsraad/dune-server-go/internal/data"
	"github.com/landsraad/dune-server-go/internal/game"
	"github.com/landsraad/dune-server-go/internal/game/phase"
	"github.com/landsraad/dune-server-go/internal/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTransport feeds the orchestrator from in-memory queues and
// captures every broadcast.
type fakeTransport struct {
	joins   []game.PlayerID
	leaves  []game.PlayerID
	inbound []InboundMessage
	sent    [][]byte
}

func (f *fakeTransport) PollJoin() (game.PlayerID, bool) {
	if len(f.joins) == 0 {
		return "", false
	}
	pid := f.joins[0]
	f.joins = f.joins[1:]
	return pid, true
}

func (f *fakeTransport) PollLeave() (game.PlayerID, bool) {
	if len(f.leaves) == 0 {
		return "", false
	}
	pid := f.leaves[0]
	f.leaves = f.leaves[1:]
	return pid, true
}

func (f *fakeTransport) PollInbound() (InboundMessage, bool) {
	if len(f.inbound) == 0 {
		return InboundMessage{}, false
	}
	msg := f.inbound[0]
	f.inbound = f.inbound[1:]
	return msg, true
}

func (f *fakeTransport) Broadcast(raw []byte) {
	f.sent = append(f.sent, raw)
}

// queue encodes a game event as the given player would send it.
func (f *fakeTransport) queue(t *testing.T, pid game.PlayerID, ev game.GameEvent) {
	t.Helper()
	raw, err := protocol.EncodeGameEvent(ev)
	require.NoError(t, err)
	f.inbound = append(f.inbound, InboundMessage{Player: pid, Data: raw})
}

// controlTypes extracts the control messages from the captured
// broadcast stream in order.
func (f *fakeTransport) controlTypes(t *testing.T) []protocol.ControlType {
	t.Helper()
	var out []protocol.ControlType
	for _, raw := range f.sent {
		env, err := protocol.Decode(raw)
		require.NoError(t, err)
		if env.Family != protocol.FamilyControl {
			continue
		}
		msg, err := protocol.DecodeControl(env)
		require.NoError(t, err)
		out = append(out, msg.Type)
	}
	return out
}

func newTestOrchestrator(transport Transport, opts Options) *Orchestrator {
	opts.GameID = "test"
	opts.Data = data.Load()
	opts.Transport = transport
	return New(opts)
}

func TestSessionStartsWhenEnoughPlayers(t *testing.T) {
	ft := &fakeTransport{joins: []game.PlayerID{"p1"}}
	o := newTestOrchestrator(ft, Options{MinPlayers: 2})

	require.NoError(t, o.Tick())
	assert.Empty(t, ft.controlTypes(t), "one player is not enough to start")

	ft.joins = append(ft.joins, "p2")
	require.NoError(t, o.Tick())

	assert.Equal(t, []protocol.ControlType{protocol.ControlLoadAssets, protocol.ControlStartGame}, ft.controlTypes(t))
	assert.Equal(t, game.PlayerID("p1"), o.State().Active)
	assert.Equal(t, game.PromptFaction, o.State().Prompts["p1"])
	assert.NotEmpty(t, ft.sent)
}

func TestSeatingRunsProvisionAndTraitorDeal(t *testing.T) {
	ft := &fakeTransport{joins: []game.PlayerID{"p1", "p2"}}
	o := newTestOrchestrator(ft, Options{MinPlayers: 2, Seed: 7})

	require.NoError(t, o.Tick())

	ft.queue(t, "p1", game.GameEvent{Kind: game.EventChooseFaction, Player: "p1", Faction: data.Atreides})
	ft.queue(t, "p2", game.GameEvent{Kind: game.EventChooseFaction, Player: "p2", Faction: data.Harkonnen})
	require.NoError(t, o.Tick())

	st := o.State()
	assert.Equal(t, phase.Setup(phase.SetupDealTraitors), st.Phase)
	assert.Len(t, st.PlayOrder, 2)
	assert.NotEmpty(t, st.Objects)
	assert.NotEmpty(t, st.Decks[game.DeckTreachery].Draw)
	assert.NotEmpty(t, st.Decks[game.DeckSpice].Draw)

	// Two seated factions contribute five traitor cards each; four go
	// to every seat.
	assert.Len(t, st.Decks[game.DeckTraitor].Draw, 2)
	assert.Len(t, st.Players["p1"].TraitorCards, 4)
	assert.Len(t, st.Players["p2"].TraitorCards, 4)

	// Harkonnen keeps the whole hand, so only the Atreides seat is
	// asked to choose.
	assert.Equal(t, game.PromptTraitor, st.Prompts["p1"])
	_, prompted := st.Prompts["p2"]
	assert.False(t, prompted)

	// The chosen traitor closes the last open prompt and setup moves
	// on to force placement.
	var card game.GameEvent
	for id := range st.Players["p1"].TraitorCards {
		card = game.GameEvent{Kind: game.EventChooseTraitor, Player: "p1", Card: id}
		break
	}
	ft.queue(t, "p1", card)
	require.NoError(t, o.Tick())
	assert.Equal(t, phase.Setup(phase.SetupPlaceForces), o.State().Phase)
}

func TestCascadeDepthGuardAbortsSession(t *testing.T) {
	ft := &fakeTransport{joins: []game.PlayerID{"p1", "p2"}}
	o := newTestOrchestrator(ft, Options{MinPlayers: 2, MaxCascadeDepth: 1})

	err := o.Tick()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cascade")
}

func TestBadInboundTrafficIsDiscarded(t *testing.T) {
	ft := &fakeTransport{joins: []game.PlayerID{"p1", "p2"}}
	o := newTestOrchestrator(ft, Options{MinPlayers: 2})
	require.NoError(t, o.Tick())

	before := o.State().ComputeChecksum()
	sentBefore := len(ft.sent)

	// A forged actor, undecodable bytes, a server-only kind, and an
	// out-of-turn action all drop without touching the state.
	ft.queue(t, "p2", game.GameEvent{Kind: game.EventChooseFaction, Player: "p1", Faction: data.Atreides})
	ft.inbound = append(ft.inbound, InboundMessage{Player: "p1", Data: []byte("not an envelope")})
	ft.queue(t, "p1", game.GameEvent{Kind: game.EventEndGame, Player: "p1"})
	ft.queue(t, "p2", game.GameEvent{Kind: game.EventChooseFaction, Player: "p2", Faction: data.Fremen})
	require.NoError(t, o.Tick())

	assert.Equal(t, before, o.State().ComputeChecksum())
	assert.Equal(t, sentBefore, len(ft.sent))
}
