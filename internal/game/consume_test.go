package game

import (
	"testing"

	"github.com/landsraad/dune-server-go/internal/data"
	"github.com/landsraad/dune-server-go/internal/game/ids"
	"github.com/landsraad/dune-server-go/internal/game/phase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeatingGrantsStartingSpice(t *testing.T) {
	g, _ := testState()
	seat(t, g, "p1", data.Atreides)
	seat(t, g, "p2", data.Fremen)

	assert.Equal(t, 10, g.Players["p1"].Spice)
	assert.Equal(t, 3, g.Players["p2"].Spice)
	assert.Equal(t, PlayerID("p1"), g.Factions[data.Atreides])
	assert.Equal(t, PlayerID("p2"), g.Factions[data.Fremen])
	assert.Len(t, g.UnassignedFactions(), 4)
}

func TestShaiHuludSweepsNextTerritory(t *testing.T) {
	g, a := testState()
	seat(t, g, "p1", data.Atreides)

	forces := spawnTroops(t, g, a, data.Atreides, 4)
	shipTo(t, g, "p1", forces, data.CielagoNorth, 1)

	// Draw order: Shai-Hulud first, then Cielago North.
	worm := spawn(t, g, a, ObjectInfo{Kind: ObjectSpiceCard, Key: "shai_hulud"})
	blow := spawn(t, g, a, ObjectInfo{Kind: ObjectSpiceCard, Key: "cielago_north"})

	apply(t, g, GameEvent{Kind: EventSpiceBlow})

	// The worm devours everything in the territory the next card
	// names, then the blow lands there.
	p := g.Players["p1"]
	assert.Len(t, p.Tanks.Forces, 4)
	assert.Equal(t, 0, forcesInTerritory(g, data.CielagoNorth, data.Atreides))
	assert.True(t, g.Board[data.CielagoNorth].Worm)
	assert.True(t, g.Nexus)
	assert.False(t, g.PendingNexus)

	// Spice lands in the territory's spice sector.
	assert.Equal(t, 8, g.Board[data.CielagoNorth].Sectors[2].Spice)

	// Both cards ended in the discard pile, worm first.
	deck := g.Decks[DeckSpice]
	assert.Equal(t, []ids.ObjectID{worm, blow}, deck.Discard)
	assert.Empty(t, deck.Draw)
}

func TestSpiceBlowSmotheredByStorm(t *testing.T) {
	g, a := testState()
	g.StormSector = 2
	spawn(t, g, a, ObjectInfo{Kind: ObjectSpiceCard, Key: "cielago_north"})

	apply(t, g, GameEvent{Kind: EventSpiceBlow})

	assert.Equal(t, 0, g.Board[data.CielagoNorth].Sectors[2].Spice)
}

func TestAdvanceStormWraps(t *testing.T) {
	g, _ := testState()
	g.StormSector = 16

	apply(t, g, GameEvent{Kind: EventAdvanceStorm, Amount: 5})
	assert.Equal(t, 3, g.StormSector)

	err := Consume(g, GameEvent{Kind: EventAdvanceStorm, Amount: -1})
	assert.True(t, IsInternal(err))
}

func TestDealAndDiscardPartitionDeck(t *testing.T) {
	g, a := testState()
	seat(t, g, "p1", data.Atreides)

	c1 := spawn(t, g, a, ObjectInfo{Kind: ObjectTreacheryCard, Key: "shield"})
	c2 := spawn(t, g, a, ObjectInfo{Kind: ObjectTreacheryCard, Key: "lasgun"})
	c3 := spawn(t, g, a, ObjectInfo{Kind: ObjectTreacheryCard, Key: "crysknife"})

	// Dealing anything but the top card is an engine defect.
	err := Consume(g, GameEvent{Kind: EventDealCard, Player: "p1", Deck: DeckTreachery, Card: c2})
	assert.True(t, IsInternal(err))

	apply(t, g, GameEvent{Kind: EventDealCard, Player: "p1", Deck: DeckTreachery, Card: c1})
	apply(t, g, GameEvent{Kind: EventDiscardCard, Player: "p1", Deck: DeckTreachery, Card: c1})

	deck := g.Decks[DeckTreachery]
	assert.Equal(t, []ids.ObjectID{c2, c3}, deck.Draw)
	assert.Equal(t, []ids.ObjectID{c1}, deck.Discard)
	assert.Empty(t, g.Players["p1"].TreacheryCards)
}

func TestSetDeckOrderReshufflesDiscard(t *testing.T) {
	g, a := testState()
	c1 := spawn(t, g, a, ObjectInfo{Kind: ObjectTreacheryCard, Key: "shield"})
	c2 := spawn(t, g, a, ObjectInfo{Kind: ObjectTreacheryCard, Key: "lasgun"})
	c3 := spawn(t, g, a, ObjectInfo{Kind: ObjectTreacheryCard, Key: "snooper"})

	apply(t, g, GameEvent{Kind: EventDiscardCard, Deck: DeckTreachery, Card: c1})

	// The new order draws from draw and discard together.
	apply(t, g, GameEvent{Kind: EventSetDeckOrder, Deck: DeckTreachery, Order: []ids.ObjectID{c3, c1, c2}})

	deck := g.Decks[DeckTreachery]
	assert.Equal(t, []ids.ObjectID{c3, c1, c2}, deck.Draw)
	assert.Empty(t, deck.Discard)

	// An order missing cards is rejected.
	err := Consume(g, GameEvent{Kind: EventSetDeckOrder, Deck: DeckTreachery, Order: []ids.ObjectID{c1, c2}})
	assert.True(t, IsInternal(err))
}

func TestAuctionSettlementOnDeal(t *testing.T) {
	g, a := testState()
	seat(t, g, "p1", data.Atreides)
	seat(t, g, "p2", data.Harkonnen)
	g.Phase = phase.Bidding

	card := spawn(t, g, a, ObjectInfo{Kind: ObjectTreacheryCard, Key: "shield"})
	apply(t, g, GameEvent{Kind: EventStartBidding, Card: card})
	apply(t, g, GameEvent{Kind: EventMakeBid, Player: "p2", Amount: 6})
	apply(t, g, GameEvent{Kind: EventDealCard, Player: "p2", Deck: DeckTreachery, Card: card})

	p2 := g.Players["p2"]
	assert.Equal(t, 4, p2.Spice)
	assert.Contains(t, p2.TreacheryCards, card)

	// Settlement resets the auction but keeps the round counter.
	assert.Equal(t, ids.None, g.Bid.Card)
	assert.Equal(t, "", string(g.Bid.HighBidder))
	assert.Equal(t, 1, g.Bid.Round)
}

func TestStartRoundResets(t *testing.T) {
	g, a := testState()
	seat(t, g, "p1", data.Atreides)
	g.Nexus = true
	g.Acted["p1"] = struct{}{}
	g.Board[data.CielagoNorth].Worm = true
	card := spawn(t, g, a, ObjectInfo{Kind: ObjectTreacheryCard, Key: "shield"})
	apply(t, g, GameEvent{Kind: EventStartBidding, Card: card})

	apply(t, g, GameEvent{Kind: EventStartRound})

	assert.Equal(t, 2, g.Turn)
	assert.False(t, g.Nexus)
	assert.Empty(t, g.Acted)
	assert.Equal(t, 0, g.Bid.Round)
	assert.Equal(t, ids.None, g.Bid.Card)
	assert.False(t, g.Board[data.CielagoNorth].Worm)

	// The turn counter never passes the limit.
	g.Turn = MaxTurns
	err := Consume(g, GameEvent{Kind: EventStartRound})
	assert.True(t, IsInternal(err))
}

func TestHistoryRingIsBounded(t *testing.T) {
	g, _ := testState()
	for i := 0; i < 25; i++ {
		apply(t, g, GameEvent{Kind: EventAdvanceStorm, Amount: 1})
	}
	assert.Len(t, g.History, 10)
	for _, ev := range g.History {
		assert.Equal(t, EventAdvanceStorm, ev.Kind)
	}

	// Connection lifecycle stays out of the ring.
	apply(t, g, GameEvent{Kind: EventPlayerJoined, Player: "px"})
	assert.Equal(t, EventAdvanceStorm, g.History[len(g.History)-1].Kind)
}

func TestSpawnRejectsDuplicateID(t *testing.T) {
	g, a := testState()
	id := spawn(t, g, a, ObjectInfo{Kind: ObjectTreacheryCard, Key: "shield"})

	err := Consume(g, GameEvent{
		Kind:  EventSpawnObject,
		Spawn: &SpawnSpec{ID: id, Info: ObjectInfo{Kind: ObjectTreacheryCard, Key: "lasgun"}},
	})
	assert.True(t, IsInternal(err))
}

func TestEnterBattlePhaseOpensContest(t *testing.T) {
	g, a := testState()
	seat(t, g, "p1", data.Atreides)
	seat(t, g, "p2", data.Harkonnen)

	aForces := spawnTroops(t, g, a, data.Atreides, 3)
	hForces := spawnTroops(t, g, a, data.Harkonnen, 2)
	shipTo(t, g, "p1", aForces, data.BrokenLand, 10)
	shipTo(t, g, "p2", hForces, data.BrokenLand, 11)

	g.Phase = phase.Nexus
	apply(t, g, GameEvent{Kind: EventAdvancePhase}) // Bidding
	apply(t, g, GameEvent{Kind: EventAdvancePhase}) // Revival
	apply(t, g, GameEvent{Kind: EventAdvancePhase}) // Movement
	apply(t, g, GameEvent{Kind: EventAdvancePhase}) // Battle

	require.NotNil(t, g.Battle)
	assert.Equal(t, data.BrokenLand, g.Battle.Location)
	assert.Equal(t, PlayerID("p1"), g.Battle.Attacker)
	assert.Equal(t, PlayerID("p2"), g.Battle.Defender)
}

func TestBattleResolution(t *testing.T) {
	g, a := testState()
	seat(t, g, "p1", data.Atreides)
	seat(t, g, "p2", data.Harkonnen)

	aForces := spawnTroops(t, g, a, data.Atreides, 4)
	hForces := spawnTroops(t, g, a, data.Harkonnen, 3)
	shipTo(t, g, "p1", aForces, data.BrokenLand, 10)
	shipTo(t, g, "p2", hForces, data.BrokenLand, 10)

	jessica := spawn(t, g, a, ObjectInfo{Kind: ObjectLeader, Key: "lady_jessica", Faction: data.Atreides})
	kudu := spawn(t, g, a, ObjectInfo{Kind: ObjectLeader, Key: "umman_kudu", Faction: data.Harkonnen})

	g.Phase = phase.Movement
	apply(t, g, GameEvent{Kind: EventAdvancePhase})
	require.NotNil(t, g.Battle)

	// Atreides: 3 + Jessica (5) = 8. Harkonnen: 2 + Kudu (1) = 3.
	apply(t, g, GameEvent{Kind: EventSetBattlePlan, Player: "p1", Leader: jessica, Amount: 3})
	apply(t, g, GameEvent{Kind: EventSetBattlePlan, Player: "p2", Leader: kudu, Amount: 2})

	p1, p2 := g.Players["p1"], g.Players["p2"]

	// The loser is wiped from the territory and their leader dies.
	assert.Equal(t, 0, forcesInTerritory(g, data.BrokenLand, data.Harkonnen))
	assert.Len(t, p2.Tanks.Forces, 3)
	assert.False(t, p2.Leaders[kudu])
	assert.Contains(t, p2.Tanks.Leaders, kudu)

	// The winner pays the dial and collects the slain leader's
	// strength in spice.
	assert.Equal(t, 1, forcesInTerritory(g, data.BrokenLand, data.Atreides))
	assert.Len(t, p1.Tanks.Forces, 3)
	assert.True(t, p1.Leaders[jessica])
	assert.Equal(t, 11, p1.Spice)

	// No other contested territory remains.
	assert.Nil(t, g.Battle)
}

func TestBattleTraitorReveal(t *testing.T) {
	g, a := testState()
	seat(t, g, "p1", data.Atreides)
	seat(t, g, "p2", data.Harkonnen)

	aForces := spawnTroops(t, g, a, data.Atreides, 2)
	hForces := spawnTroops(t, g, a, data.Harkonnen, 5)
	shipTo(t, g, "p1", aForces, data.OldGap, 9)
	shipTo(t, g, "p2", hForces, data.OldGap, 9)

	jessica := spawn(t, g, a, ObjectInfo{Kind: ObjectLeader, Key: "lady_jessica", Faction: data.Atreides})
	rabban := spawn(t, g, a, ObjectInfo{Kind: ObjectLeader, Key: "beast_rabban", Faction: data.Harkonnen})

	// Atreides hold Rabban's traitor card.
	g.Players["p1"].ChosenTraitor = rabban

	g.Phase = phase.Movement
	apply(t, g, GameEvent{Kind: EventAdvancePhase})
	require.NotNil(t, g.Battle)

	// Raw strength favors Harkonnen, but their leader turns.
	apply(t, g, GameEvent{Kind: EventSetBattlePlan, Player: "p1", Leader: jessica, Amount: 1})
	apply(t, g, GameEvent{Kind: EventSetBattlePlan, Player: "p2", Leader: rabban, Amount: 5})

	p1, p2 := g.Players["p1"], g.Players["p2"]
	assert.Equal(t, 0, forcesInTerritory(g, data.OldGap, data.Harkonnen))
	assert.Len(t, p2.Tanks.Forces, 5)
	assert.False(t, p2.Leaders[rabban])

	// A traitor reveal costs the winner nothing.
	assert.Equal(t, 2, forcesInTerritory(g, data.OldGap, data.Atreides))
	assert.Empty(t, p1.Tanks.Forces)
	assert.Equal(t, 14, p1.Spice)
}

func TestForceConservationAcrossSweep(t *testing.T) {
	g, a := testState()
	seat(t, g, "p1", data.Atreides)
	forces := spawnTroops(t, g, a, data.Atreides, 6)
	shipTo(t, g, "p1", forces[:4], data.CielagoNorth, 1)

	spawn(t, g, a, ObjectInfo{Kind: ObjectSpiceCard, Key: "shai_hulud"})
	spawn(t, g, a, ObjectInfo{Kind: ObjectSpiceCard, Key: "cielago_north"})
	apply(t, g, GameEvent{Kind: EventSpiceBlow})

	p := g.Players["p1"]
	total := len(p.OffWorld) + len(p.Tanks.Forces) + forcesInTerritory(g, data.CielagoNorth, data.Atreides)
	assert.Equal(t, 6, total)
	assert.Len(t, p.OffWorld, 2)
	assert.Len(t, p.Tanks.Forces, 4)
}

func TestEndGameRecordsWinner(t *testing.T) {
	g, _ := testState()
	seat(t, g, "p1", data.Atreides)
	g.Active = "p1"

	apply(t, g, GameEvent{Kind: EventEndGame, Faction: data.Atreides})

	assert.Equal(t, phase.EndGame, g.Phase)
	assert.Equal(t, data.Atreides, g.Winner)
	assert.Equal(t, "", string(g.Active))

	// EndGame absorbs further phase advances.
	apply(t, g, GameEvent{Kind: EventAdvancePhase})
	assert.Equal(t, phase.EndGame, g.Phase)
}

func TestPredictionBonusOnBeneGesseritWin(t *testing.T) {
	g, _ := testState()
	seat(t, g, "p1", data.BeneGesserit)
	seat(t, g, "p2", data.Atreides)
	g.Prediction = Prediction{Player: "p1", Faction: data.Atreides, Turn: 1}

	apply(t, g, GameEvent{Kind: EventEndGame, Faction: data.BeneGesserit})

	assert.Contains(t, g.Players["p1"].Bonuses, BonusPrediction)
}
