package game

import (
	"testing"

	"github.com/landsraad/dune-server-go/internal/data"
	"github.com/stretchr/testify/assert"
)

// buildScenario applies the same event sequence to a fresh state.
func buildScenario(t *testing.T) *GameState {
	t.Helper()
	g, a := testState()
	seat(t, g, "p1", data.Atreides)
	seat(t, g, "p2", data.Harkonnen)
	forces := spawnTroops(t, g, a, data.Atreides, 5)
	shipTo(t, g, "p1", forces[:3], data.Arrakeen, 9)
	spawn(t, g, a, ObjectInfo{Kind: ObjectSpiceCard, Key: "cielago_north"})
	apply(t, g, GameEvent{Kind: EventSpiceBlow})
	apply(t, g, GameEvent{Kind: EventSetPlayOrder, PlayOrder: []PlayerID{"p2", "p1"}})
	apply(t, g, GameEvent{Kind: EventAdvanceStorm, Amount: 7})
	return g
}

func TestChecksumIsDeterministic(t *testing.T) {
	first := buildScenario(t)
	second := buildScenario(t)

	// Map iteration order differs between the two builds; the
	// checksum must not.
	assert.Equal(t, first.ComputeChecksum(), second.ComputeChecksum())
}

func TestChecksumTracksStateChanges(t *testing.T) {
	g := buildScenario(t)
	before := g.ComputeChecksum()

	apply(t, g, GameEvent{Kind: EventAdvanceStorm, Amount: 1})
	assert.NotEqual(t, before, g.ComputeChecksum())
}

func TestChecksumSeesHiddenHoldings(t *testing.T) {
	g := buildScenario(t)
	before := g.ComputeChecksum()

	g.Players["p2"].Spice += 1
	assert.NotEqual(t, before, g.ComputeChecksum())
}
