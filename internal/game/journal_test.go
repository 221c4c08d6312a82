package game

import (
	"testing"

	"github.com/landsraad/dune-server-go/internal/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func recordedStream(t *testing.T) (*Journal, *GameState) {
	t.Helper()
	g, a := testState()
	journal := NewJournal("game-1")

	record := func(ev GameEvent) {
		journal.Record(ev)
		apply(t, g, ev)
	}

	record(GameEvent{Kind: EventPlayerJoined, Player: "p1"})
	record(GameEvent{Kind: EventChooseFaction, Player: "p1", Faction: data.Atreides})
	record(GameEvent{Kind: EventPlayerJoined, Player: "p2"})
	record(GameEvent{Kind: EventChooseFaction, Player: "p2", Faction: data.Fremen})
	for i := 0; i < 5; i++ {
		id := a.NextID()
		record(GameEvent{Kind: EventSpawnObject, Spawn: &SpawnSpec{ID: id, Info: ObjectInfo{Kind: ObjectTroop, Faction: data.Atreides}}})
	}
	record(GameEvent{Kind: EventAdvanceStorm, Amount: 4})
	return journal, g
}

func TestJournalReplayReproducesState(t *testing.T) {
	journal, live := recordedStream(t)

	replayed, err := journal.Replay(data.Load(), false)
	require.NoError(t, err)

	assert.Equal(t, live.ComputeChecksum(), replayed.ComputeChecksum())
}

func TestJournalFileRoundtrip(t *testing.T) {
	journal, live := recordedStream(t)
	dir := t.TempDir()

	require.NoError(t, journal.SaveToFile(dir))

	loaded, err := LoadJournalFromFile(dir, "game-1")
	require.NoError(t, err)
	assert.Equal(t, journal.Size(), loaded.Size())

	replayed, err := loaded.Replay(data.Load(), false)
	require.NoError(t, err)
	assert.Equal(t, live.ComputeChecksum(), replayed.ComputeChecksum())
}

func TestJournalRecorderLifecycle(t *testing.T) {
	dir := t.TempDir()
	recorder := NewJournalRecorder(zap.NewNop(), dir)

	recorder.StartRecording("game-2")
	recorder.Record("game-2", GameEvent{Kind: EventAdvanceStorm, Amount: 2})
	recorder.Record("game-2", GameEvent{Kind: EventAdvancePhase})

	journal, ok := recorder.GetJournal("game-2")
	require.True(t, ok)
	assert.Equal(t, 2, journal.Size())

	// Events for untracked sessions are dropped, not recorded.
	recorder.Record("game-3", GameEvent{Kind: EventAdvancePhase})
	_, ok = recorder.GetJournal("game-3")
	assert.False(t, ok)

	require.NoError(t, recorder.SaveJournal("game-2"))
	loaded, err := LoadJournalFromFile(dir, "game-2")
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Size())
}
