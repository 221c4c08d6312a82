package game

import (
	"testing"

	"github.com/landsraad/dune-server-go/internal/data"
	"github.com/landsraad/dune-server-go/internal/game/ids"
	"github.com/stretchr/testify/require"
)

// testState builds an empty pre-game state with a fresh allocator.
func testState() (*GameState, *ids.Allocator) {
	return NewGameState(data.Load(), false), ids.NewAllocator()
}

// apply runs an event through Consume and fails the test on an
// internal error.
func apply(t *testing.T, g *GameState, ev GameEvent) {
	t.Helper()
	require.NoError(t, Consume(g, ev))
}

// seat connects and seats one player on the trusted path.
func seat(t *testing.T, g *GameState, pid PlayerID, f data.Faction) {
	t.Helper()
	apply(t, g, GameEvent{Kind: EventPlayerJoined, Player: pid})
	apply(t, g, GameEvent{Kind: EventChooseFaction, Player: pid, Faction: f})
}

// spawn allocates an id and spawns one object.
func spawn(t *testing.T, g *GameState, a *ids.Allocator, info ObjectInfo) ids.ObjectID {
	t.Helper()
	id := a.NextID()
	apply(t, g, GameEvent{Kind: EventSpawnObject, Spawn: &SpawnSpec{ID: id, Info: info}})
	return id
}

// spawnTroops spawns n troops for a seated faction.
func spawnTroops(t *testing.T, g *GameState, a *ids.Allocator, f data.Faction, n int) []ids.ObjectID {
	t.Helper()
	out := make([]ids.ObjectID, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, spawn(t, g, a, ObjectInfo{Kind: ObjectTroop, Faction: f}))
	}
	return out
}

// shipTo places troops directly into a sector on the trusted path.
func shipTo(t *testing.T, g *GameState, pid PlayerID, forces []ids.ObjectID, loc data.Location, sector int) {
	t.Helper()
	apply(t, g, GameEvent{
		Kind:     EventShipForces,
		Player:   pid,
		Forces:   forces,
		Location: loc,
		Sector:   sector,
	})
}
