// Package game implements the event-sourced core: the aggregate game
// state, the closed GameEvent taxonomy, and the Validate/Consume
// reduction contract that server and replicas share. The server is the
// only writer; replicas rebuild identical state by consuming the same
// ordered event stream.
package game

import (
	"github.com/landsraad/dune-server-go/internal/data"
	"github.com/landsraad/dune-server-go/internal/game/ids"
	"github.com/landsraad/dune-server-go/internal/game/phase"
)

// PlayerID identifies a connection-scoped player. It is assigned by
// the transport at connect time and is stable for the connection, not
// for a game seat.
type PlayerID string

// StormSectors is the length of the storm track.
const StormSectors = 18

// MaxTurns bounds the game-turn counter and the Bene Gesserit turn
// prediction.
const MaxTurns = 15

// historyLimit bounds the recent-event ring kept on the state.
const historyLimit = 10

// Bonus marks an achievement a player has earned during the session.
type Bonus string

const (
	// BonusPrediction is earned by the Bene Gesserit when their
	// faction/turn prediction comes true.
	BonusPrediction Bonus = "PREDICTION"
)

// Tanks is the Tleilaxu Tanks holding area for a player's dead
// leaders and forces awaiting revival.
type Tanks struct {
	Leaders map[ids.ObjectID]struct{}
	Forces  map[ids.ObjectID]struct{}
}

func newTanks() Tanks {
	return Tanks{
		Leaders: make(map[ids.ObjectID]struct{}),
		Forces:  make(map[ids.ObjectID]struct{}),
	}
}

// Player is one seated player's holdings.
type Player struct {
	ID      PlayerID
	Faction data.Faction
	Spice   int

	TreacheryCards map[ids.ObjectID]struct{}
	TraitorCards   map[ids.ObjectID]struct{}
	// ChosenTraitor is the traitor card kept after the deal-traitors
	// prompt; None until chosen. Harkonnen keeps all four and never
	// sets this.
	ChosenTraitor ids.ObjectID

	// OffWorld holds troop objects not yet on the board.
	OffWorld map[ids.ObjectID]struct{}

	// Leaders maps each leader object to alive/dead.
	Leaders map[ids.ObjectID]bool

	// Shipped marks that the player has placed starting forces.
	Shipped bool

	Tanks   Tanks
	Bonuses map[Bonus]struct{}
}

func newPlayer(id PlayerID, f data.Faction, startingSpice int) *Player {
	return &Player{
		ID:             id,
		Faction:        f,
		Spice:          startingSpice,
		TreacheryCards: make(map[ids.ObjectID]struct{}),
		TraitorCards:   make(map[ids.ObjectID]struct{}),
		OffWorld:       make(map[ids.ObjectID]struct{}),
		Leaders:        make(map[ids.ObjectID]bool),
		Tanks:          newTanks(),
		Bonuses:        make(map[Bonus]struct{}),
	}
}

// Deck is a typed card pile split into an ordered draw pile and an
// ordered discard pile. Index 0 of Draw is the top card.
type Deck struct {
	Draw    []ids.ObjectID
	Discard []ids.ObjectID
}

// SectorState is the per-sector board occupancy: forces by faction
// plus unclaimed spice.
type SectorState struct {
	Forces map[data.Faction]map[ids.ObjectID]struct{}
	Spice  int
}

func newSectorState() *SectorState {
	return &SectorState{Forces: make(map[data.Faction]map[ids.ObjectID]struct{})}
}

// LocationState is the per-territory board state.
type LocationState struct {
	Sectors map[int]*SectorState
	Worm    bool
}

// BidState tracks the treachery auction in progress.
type BidState struct {
	// Card is the card currently up for auction; None when idle.
	Card       ids.ObjectID
	HighBidder PlayerID
	HighBid    int
	Passed     map[PlayerID]struct{}
	// Round counts the auctions opened this game turn.
	Round int
}

// Prediction is the Bene Gesserit secret prediction record.
type Prediction struct {
	Player  PlayerID
	Faction data.Faction
	Turn    int
}

// BattlePlan is one side's committed plan for the battle being
// resolved.
type BattlePlan struct {
	Leader ids.ObjectID
	Cards  []ids.ObjectID
	// Dial is the number of forces committed.
	Dial int
	Set  bool
}

// BattleState tracks the battle currently being resolved; nil when no
// battle is pending.
type BattleState struct {
	Location data.Location
	Attacker PlayerID
	Defender PlayerID
	Plans    map[PlayerID]*BattlePlan
}

// GameState is the aggregate root. It is created once per session and
// mutated exclusively by Consume.
type GameState struct {
	Phase phase.Phase
	// Turn is the game-turn counter, starting at 1.
	Turn int

	// Active is the player whose decision the game is waiting on;
	// empty when no single player holds the turn.
	Active PlayerID

	// Joined tracks connected players not yet (or never) seated.
	Joined map[PlayerID]struct{}

	Players   map[PlayerID]*Player
	PlayOrder []PlayerID
	Factions  map[data.Faction]PlayerID

	// Prompts holds at most one outstanding prompt per player.
	Prompts map[PlayerID]PromptKind

	Decks map[DeckKind]*Deck

	Board       map[data.Location]*LocationState
	StormSector int

	// Objects is the authoritative object table; every collection
	// elsewhere stores ObjectIDs keyed into it.
	Objects map[ids.ObjectID]ObjectInfo

	Bid BidState

	Prediction Prediction

	// PendingNexus is set when a Shai-Hulud has been drawn and the
	// worm has not yet surfaced; the next location card drawn is the
	// territory it devours.
	PendingNexus bool
	// Nexus is set for the remainder of the turn once a Shai-Hulud
	// sweep has resolved.
	Nexus bool

	Battle *BattleState

	// Winner is the faction named by the EndGame event; empty while
	// the game is live or when it ended without a victor.
	Winner data.Faction

	// Acted tracks which players have taken their action in the
	// current phase; cleared on every phase change.
	Acted map[PlayerID]struct{}

	// History is a bounded ring of recently applied events, oldest
	// first.
	History []GameEvent

	// LoopToSetup selects the Control-phase successor; fixed at
	// session creation and identical on server and replicas.
	LoopToSetup bool

	// Data is the immutable static configuration. Never mutated.
	Data *data.Data
}

// NewGameState builds the empty pre-game state around the shared
// static data tables.
func NewGameState(d *data.Data, loopToSetup bool) *GameState {
	board := make(map[data.Location]*LocationState, len(d.Locations))
	for loc, ld := range d.Locations {
		ls := &LocationState{Sectors: make(map[int]*SectorState, len(ld.Sectors))}
		for _, sector := range ld.Sectors {
			ls.Sectors[sector] = newSectorState()
		}
		board[loc] = ls
	}

	return &GameState{
		Phase:       phase.Setup(phase.SetupChooseFactions),
		Turn:        1,
		Joined:      make(map[PlayerID]struct{}),
		Players:     make(map[PlayerID]*Player),
		Factions:    make(map[data.Faction]PlayerID),
		Prompts:     make(map[PlayerID]PromptKind),
		Decks: map[DeckKind]*Deck{
			DeckTreachery: {},
			DeckSpice:     {},
			DeckStorm:     {},
			DeckTraitor:   {},
		},
		Board:       board,
		Objects:     make(map[ids.ObjectID]ObjectInfo),
		Bid:         BidState{Passed: make(map[PlayerID]struct{})},
		Acted:       make(map[PlayerID]struct{}),
		LoopToSetup: loopToSetup,
		Data:        d,
	}
}

// UnassignedFactions returns the factions no player occupies, in
// canonical order.
func (g *GameState) UnassignedFactions() []data.Faction {
	out := make([]data.Faction, 0, len(data.AllFactions))
	for _, f := range data.AllFactions {
		if _, taken := g.Factions[f]; !taken {
			out = append(out, f)
		}
	}
	return out
}

// PlayerByFaction resolves a faction to its seated player, if any.
func (g *GameState) PlayerByFaction(f data.Faction) (*Player, bool) {
	pid, ok := g.Factions[f]
	if !ok {
		return nil, false
	}
	p, ok := g.Players[pid]
	return p, ok
}

// ForcesAt returns the troop ids a faction has in one sector of a
// territory.
func (g *GameState) ForcesAt(loc data.Location, sector int, f data.Faction) map[ids.ObjectID]struct{} {
	ls, ok := g.Board[loc]
	if !ok {
		return nil
	}
	ss, ok := ls.Sectors[sector]
	if !ok {
		return nil
	}
	return ss.Forces[f]
}

// OccupantsOf returns the factions with at least one force anywhere in
// a territory, in canonical order.
func (g *GameState) OccupantsOf(loc data.Location) []data.Faction {
	ls, ok := g.Board[loc]
	if !ok {
		return nil
	}
	present := make(map[data.Faction]bool)
	for _, ss := range ls.Sectors {
		for f, forces := range ss.Forces {
			if len(forces) > 0 {
				present[f] = true
			}
		}
	}
	out := make([]data.Faction, 0, len(present))
	for _, f := range data.AllFactions {
		if present[f] {
			out = append(out, f)
		}
	}
	return out
}

// recordHistory appends an event to the bounded history ring.
func (g *GameState) recordHistory(ev GameEvent) {
	g.History = append(g.History, ev)
	if len(g.History) > historyLimit {
		g.History = g.History[len(g.History)-historyLimit:]
	}
}
