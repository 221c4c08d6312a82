package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactionTable(t *testing.T) {
	d := Load()

	assert.Len(t, d.Factions, len(AllFactions))
	for _, f := range AllFactions {
		fd, ok := d.FactionData(f)
		require.True(t, ok, "missing faction %s", f)
		assert.Equal(t, f, fd.Faction)
		assert.Positive(t, fd.TroopTotal)
		assert.GreaterOrEqual(t, fd.StartingSpice, 0)
		assert.Len(t, d.LeadersOf(f), 5)

		if fd.StartingLocation != "" {
			ld, ok := d.LocationData(fd.StartingLocation)
			require.True(t, ok, "faction %s starts in unknown territory", f)
			assert.Contains(t, ld.Sectors, fd.StartingSector)
		}
	}
}

func TestLeaderTable(t *testing.T) {
	d := Load()

	assert.Len(t, d.Leaders, 30)
	for key, ld := range d.Leaders {
		assert.Equal(t, key, ld.Key)
		assert.Positive(t, ld.Strength, "leader %s", key)
		_, ok := d.FactionData(ld.Faction)
		assert.True(t, ok, "leader %s belongs to unknown faction", key)
	}
}

func TestGeographyIsConsistent(t *testing.T) {
	d := Load()

	require.Len(t, d.Locations, 23)
	for loc, ld := range d.Locations {
		assert.Equal(t, loc, ld.Key)
		assert.NotEmpty(t, ld.Sectors, "territory %s has no sectors", loc)

		if ld.SpiceSector >= 0 {
			assert.Contains(t, ld.Sectors, ld.SpiceSector, "territory %s", loc)
		}

		// Adjacency is undirected.
		for _, other := range ld.Adjacent {
			od, ok := d.LocationData(other)
			require.True(t, ok, "%s borders unknown territory %s", loc, other)
			assert.Contains(t, od.Adjacent, loc, "%s -> %s is one-way", loc, other)
		}
	}
}

func TestSpiceCardsLandOnTheBoard(t *testing.T) {
	d := Load()

	worms := 0
	for key, cd := range d.SpiceCards {
		if cd.ShaiHulud {
			worms += cd.Count
			assert.Empty(t, cd.Location, "worm card %s names a territory", key)
			continue
		}
		ld, ok := d.LocationData(cd.Location)
		require.True(t, ok, "spice card %s names unknown territory", key)
		assert.GreaterOrEqual(t, ld.SpiceSector, 0, "spice card %s lands in %s which never takes spice", key, cd.Location)
		assert.Positive(t, cd.Amount, "spice card %s", key)
	}
	assert.Equal(t, 6, worms)
}

func TestStormCardMoves(t *testing.T) {
	d := Load()

	assert.Len(t, d.StormCards, 6)
	for key, cd := range d.StormCards {
		assert.GreaterOrEqual(t, cd.Move, 1, "storm card %s", key)
		assert.LessOrEqual(t, cd.Move, 6, "storm card %s", key)
	}
}

func TestTreacheryDeckComposition(t *testing.T) {
	d := Load()

	total := 0
	for key, cd := range d.TreacheryCards {
		assert.Positive(t, cd.Count, "treachery card %s", key)
		total += cd.Count
	}
	assert.Equal(t, 33, total)

	keys := d.TreacheryCardKeys()
	assert.Len(t, keys, len(d.TreacheryCards))
	assert.IsIncreasing(t, keys)
}
