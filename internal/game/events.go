package game

import (
	"github.com/landsraad/dune-server-go/internal/data"
	"github.com/landsraad/dune-server-go/internal/game/ids"
)

// EventKind discriminates the closed GameEvent union.
type EventKind string

// Client-originable events. These must pass Validate before the
// server commits them.
const (
	EventChooseFaction         EventKind = "CHOOSE_FACTION"
	EventChooseTraitor         EventKind = "CHOOSE_TRAITOR"
	EventMakeFactionPrediction EventKind = "MAKE_FACTION_PREDICTION"
	EventMakeTurnPrediction    EventKind = "MAKE_TURN_PREDICTION"
	EventPass                  EventKind = "PASS"
	EventShipForces            EventKind = "SHIP_FORCES"
	EventMoveForces            EventKind = "MOVE_FORCES"
	EventMakeBid               EventKind = "MAKE_BID"
	EventRevive                EventKind = "REVIVE"
	EventSetBattlePlan         EventKind = "SET_BATTLE_PLAN"
	EventBribe                 EventKind = "BRIBE"
)

// Server-only events. Validate rejects these unconditionally when they
// arrive from a client; the orchestrator produces them pre-validated.
const (
	EventAdvancePhase       EventKind = "ADVANCE_PHASE"
	EventShowPrompt         EventKind = "SHOW_PROMPT"
	EventSpawnObject        EventKind = "SPAWN_OBJECT"
	EventSetPlayOrder       EventKind = "SET_PLAY_ORDER"
	EventDealCard           EventKind = "DEAL_CARD"
	EventDiscardCard        EventKind = "DISCARD_CARD"
	EventSetDeckOrder       EventKind = "SET_DECK_ORDER"
	EventSetActive          EventKind = "SET_ACTIVE"
	EventStartRound         EventKind = "START_ROUND"
	EventCollectSpice       EventKind = "COLLECT_SPICE"
	EventAdvanceStorm       EventKind = "ADVANCE_STORM"
	EventSpiceBlow          EventKind = "SPICE_BLOW"
	EventStartBidding       EventKind = "START_BIDDING"
	EventPlayerJoined       EventKind = "PLAYER_JOINED"
	EventPlayerDisconnected EventKind = "PLAYER_DISCONNECTED"
	EventEndGame            EventKind = "END_GAME"
)

var clientOriginable = map[EventKind]bool{
	EventChooseFaction:         true,
	EventChooseTraitor:         true,
	EventMakeFactionPrediction: true,
	EventMakeTurnPrediction:    true,
	EventPass:                  true,
	EventShipForces:            true,
	EventMoveForces:            true,
	EventMakeBid:               true,
	EventRevive:                true,
	EventSetBattlePlan:         true,
	EventBribe:                 true,
}

// ClientOriginable reports whether clients are permitted to originate
// this event kind.
func (k EventKind) ClientOriginable() bool {
	return clientOriginable[k]
}

// PromptKind identifies the decision a prompt asks of a player.
type PromptKind string

const (
	PromptFaction           PromptKind = "FACTION"
	PromptTraitor           PromptKind = "TRAITOR"
	PromptFactionPrediction PromptKind = "FACTION_PREDICTION"
	PromptTurnPrediction    PromptKind = "TURN_PREDICTION"
	PromptGuildShip         PromptKind = "GUILD_SHIP"
)

// DeckKind identifies one of the four card decks.
type DeckKind string

const (
	DeckTreachery DeckKind = "TREACHERY"
	DeckSpice     DeckKind = "SPICE"
	DeckStorm     DeckKind = "STORM"
	DeckTraitor   DeckKind = "TRAITOR"
)

// ObjectKind identifies what a spawned object represents.
type ObjectKind string

const (
	ObjectTreacheryCard ObjectKind = "TREACHERY_CARD"
	ObjectSpiceCard     ObjectKind = "SPICE_CARD"
	ObjectStormCard     ObjectKind = "STORM_CARD"
	ObjectTraitorCard   ObjectKind = "TRAITOR_CARD"
	ObjectTroop         ObjectKind = "TROOP"
	ObjectLeader        ObjectKind = "LEADER"
	ObjectWorm          ObjectKind = "WORM"
)

// ObjectInfo is the payload of an object-table entry: what kind of
// piece an id refers to, the static-data key it instantiates, and the
// owning faction where one applies.
type ObjectInfo struct {
	Kind    ObjectKind   `json:"kind"`
	Key     string       `json:"key,omitempty"`
	Faction data.Faction `json:"faction,omitempty"`
}

// SpawnSpec carries a freshly allocated object across the wire so the
// replica can insert it with the server's id.
type SpawnSpec struct {
	ID   ids.ObjectID `json:"id"`
	Info ObjectInfo   `json:"info"`
}

// GameEvent is one entry in the replicated event stream. It is a flat
// tagged struct: Kind selects which fields are meaningful for a given
// event, everything else is left at its zero value. All state
// transitions, server and client originated alike, are expressed as
// GameEvents so the replica can rebuild state by replay alone.
type GameEvent struct {
	Kind EventKind `json:"kind"`

	// Player is the acting player for client events, or the addressee
	// for targeted server events (prompts, deals, set-active).
	Player PlayerID `json:"player,omitempty"`

	Faction data.Faction `json:"faction,omitempty"`

	// Card references a single card object (traitor choice, deal,
	// discard, bidding).
	Card  ids.ObjectID   `json:"card,omitempty"`
	Cards []ids.ObjectID `json:"cards,omitempty"`

	// Forces references troop objects being shipped, moved, or
	// revived.
	Forces []ids.ObjectID `json:"forces,omitempty"`

	Leader ids.ObjectID `json:"leader,omitempty"`

	Location     data.Location `json:"location,omitempty"`
	Sector       int           `json:"sector,omitempty"`
	FromLocation data.Location `json:"from_location,omitempty"`
	FromSector   int           `json:"from_sector,omitempty"`

	// Amount is the numeric payload: spice bid, bribe size, storm
	// sectors, spice collected, battle dial, prediction turn.
	Amount int `json:"amount,omitempty"`

	Deck  DeckKind       `json:"deck,omitempty"`
	Order []ids.ObjectID `json:"order,omitempty"`

	Prompt PromptKind `json:"prompt,omitempty"`

	Spawn *SpawnSpec `json:"spawn,omitempty"`

	PlayOrder []PlayerID `json:"play_order,omitempty"`

	// Target is the receiving player for bribes.
	Target PlayerID `json:"target,omitempty"`
}
