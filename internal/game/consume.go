package game

import (
	"sort"

	"github.com/landsraad/dune-server-go/internal/data"
	"github.com/landsraad/dune-server-go/internal/game/ids"
	"github.com/landsraad/dune-server-go/internal/game/phase"
)

// Consume applies a previously validated (or trusted server-only)
// event to the state. It is total for legal input: every invariant the
// matching Validate call checked is assumed to hold. A non-nil return
// is always an *InternalError and means the reduction engine itself is
// defective; the session must abort, not continue.
func Consume(g *GameState, ev GameEvent) error {
	switch ev.Kind {
	case EventPlayerJoined, EventPlayerDisconnected:
		// Connection lifecycle is not part of the recent-event ring.
	default:
		g.recordHistory(ev)
	}

	switch ev.Kind {
	case EventChooseFaction:
		return consumeChooseFaction(g, ev)
	case EventChooseTraitor:
		return consumeChooseTraitor(g, ev)
	case EventMakeFactionPrediction:
		g.Prediction.Player = ev.Player
		g.Prediction.Faction = ev.Faction
		delete(g.Prompts, ev.Player)
		return nil
	case EventMakeTurnPrediction:
		g.Prediction.Turn = ev.Amount
		delete(g.Prompts, ev.Player)
		return nil
	case EventPass:
		return consumePass(g, ev)
	case EventShipForces:
		return consumeShipForces(g, ev)
	case EventMoveForces:
		return consumeMoveForces(g, ev)
	case EventMakeBid:
		g.Bid.HighBid = ev.Amount
		g.Bid.HighBidder = ev.Player
		return nil
	case EventRevive:
		return consumeRevive(g, ev)
	case EventSetBattlePlan:
		return consumeSetBattlePlan(g, ev)
	case EventBribe:
		return consumeBribe(g, ev)
	case EventAdvancePhase:
		return consumeAdvancePhase(g)
	case EventShowPrompt:
		g.Prompts[ev.Player] = ev.Prompt
		return nil
	case EventSpawnObject:
		return consumeSpawnObject(g, ev)
	case EventSetPlayOrder:
		return consumeSetPlayOrder(g, ev)
	case EventDealCard:
		return consumeDealCard(g, ev)
	case EventDiscardCard:
		return consumeDiscardCard(g, ev)
	case EventSetDeckOrder:
		return consumeSetDeckOrder(g, ev)
	case EventSetActive:
		g.Active = ev.Player
		return nil
	case EventStartRound:
		return consumeStartRound(g)
	case EventCollectSpice:
		return consumeCollectSpice(g, ev)
	case EventAdvanceStorm:
		if ev.Amount < 0 {
			return internalErrorf("AdvanceStorm", "negative sector count %d", ev.Amount)
		}
		g.StormSector = (g.StormSector + ev.Amount) % StormSectors
		return nil
	case EventSpiceBlow:
		return consumeSpiceBlow(g)
	case EventStartBidding:
		return consumeStartBidding(g, ev)
	case EventPlayerJoined:
		g.Joined[ev.Player] = struct{}{}
		return nil
	case EventPlayerDisconnected:
		delete(g.Joined, ev.Player)
		return nil
	case EventEndGame:
		g.Phase = phase.EndGame
		g.Winner = ev.Faction
		g.Active = ""
		// A Bene Gesserit win on a matching prediction also records
		// the achievement on their seat.
		if ev.Faction == data.BeneGesserit && g.Prediction.Player != "" && g.Prediction.Turn == g.Turn {
			if p, ok := g.PlayerByFaction(data.BeneGesserit); ok {
				p.Bonuses[BonusPrediction] = struct{}{}
			}
		}
		return nil
	default:
		return internalErrorf("Consume", "unknown event kind %q", ev.Kind)
	}
}

func consumeChooseFaction(g *GameState, ev GameEvent) error {
	fd, ok := g.Data.FactionData(ev.Faction)
	if !ok {
		return internalErrorf("ChooseFaction", "unknown faction %s", ev.Faction)
	}
	p := newPlayer(ev.Player, ev.Faction, fd.StartingSpice)
	g.Players[ev.Player] = p
	g.Factions[ev.Faction] = ev.Player
	delete(g.Prompts, ev.Player)
	return nil
}

func consumeChooseTraitor(g *GameState, ev GameEvent) error {
	p, ok := g.Players[ev.Player]
	if !ok {
		return internalErrorf("ChooseTraitor", "player %s not seated", ev.Player)
	}
	if _, dealt := p.TraitorCards[ev.Card]; !dealt {
		return internalErrorf("ChooseTraitor", "card %d not in hand of %s", ev.Card, ev.Player)
	}
	// The unchosen traitors go back to the traitor discard pile.
	deck := g.Decks[DeckTraitor]
	for id := range p.TraitorCards {
		if id != ev.Card {
			deck.Discard = append(deck.Discard, id)
			delete(p.TraitorCards, id)
		}
	}
	p.ChosenTraitor = ev.Card
	delete(g.Prompts, ev.Player)
	return nil
}

func consumePass(g *GameState, ev GameEvent) error {
	switch {
	case g.Phase == phase.Bidding:
		g.Bid.Passed[ev.Player] = struct{}{}
	case g.Phase == phase.Revival, g.Phase == phase.Movement:
		g.Acted[ev.Player] = struct{}{}
	}
	// A pass during faction choice changes nothing directly; the rule
	// cascade reacts to it.
	return nil
}

func consumeShipForces(g *GameState, ev GameEvent) error {
	p, ok := g.Players[ev.Player]
	if !ok {
		return internalErrorf("ShipForces", "player %s not seated", ev.Player)
	}
	ss, err := sectorState(g, ev.Location, ev.Sector)
	if err != nil {
		return err
	}
	for _, id := range ev.Forces {
		if _, offWorld := p.OffWorld[id]; !offWorld {
			return internalErrorf("ShipForces", "force %d not off-world for %s", id, p.Faction)
		}
		delete(p.OffWorld, id)
		addForce(ss, p.Faction, id)
	}
	switch {
	case g.Phase.IsSetup(phase.SetupPlaceForces):
		p.Shipped = true
	case g.Phase == phase.Movement:
		g.Acted[ev.Player] = struct{}{}
	}
	return nil
}

func consumeMoveForces(g *GameState, ev GameEvent) error {
	p, ok := g.Players[ev.Player]
	if !ok {
		return internalErrorf("MoveForces", "player %s not seated", ev.Player)
	}
	from, err := sectorState(g, ev.FromLocation, ev.FromSector)
	if err != nil {
		return err
	}
	to, err := sectorState(g, ev.Location, ev.Sector)
	if err != nil {
		return err
	}
	forces := from.Forces[p.Faction]
	for _, id := range ev.Forces {
		if _, present := forces[id]; !present {
			return internalErrorf("MoveForces", "force %d absent from %s sector %d", id, ev.FromLocation, ev.FromSector)
		}
		delete(forces, id)
		addForce(to, p.Faction, id)
	}
	g.Acted[ev.Player] = struct{}{}
	return nil
}

func consumeRevive(g *GameState, ev GameEvent) error {
	p, ok := g.Players[ev.Player]
	if !ok {
		return internalErrorf("Revive", "player %s not seated", ev.Player)
	}
	cost, err := revivalCost(g, p, ev)
	if err != nil {
		return err
	}
	if cost > p.Spice {
		return internalErrorf("Revive", "cost %d exceeds spice %d for %s", cost, p.Spice, p.Faction)
	}
	for _, id := range ev.Forces {
		if _, tanked := p.Tanks.Forces[id]; !tanked {
			return internalErrorf("Revive", "force %d not in tanks for %s", id, p.Faction)
		}
		delete(p.Tanks.Forces, id)
		p.OffWorld[id] = struct{}{}
	}
	if ev.Leader != ids.None {
		if _, tanked := p.Tanks.Leaders[ev.Leader]; !tanked {
			return internalErrorf("Revive", "leader %d not in tanks for %s", ev.Leader, p.Faction)
		}
		delete(p.Tanks.Leaders, ev.Leader)
		p.Leaders[ev.Leader] = true
	}
	p.Spice -= cost
	g.Acted[ev.Player] = struct{}{}
	return nil
}

func consumeSetBattlePlan(g *GameState, ev GameEvent) error {
	if g.Battle == nil {
		return internalErrorf("SetBattlePlan", "no battle in progress")
	}
	g.Battle.Plans[ev.Player] = &BattlePlan{
		Leader: ev.Leader,
		Cards:  append([]ids.ObjectID(nil), ev.Cards...),
		Dial:   ev.Amount,
		Set:    true,
	}

	// Once both sides have committed, the battle resolves immediately
	// and the next contested territory (if any) opens.
	att := g.Battle.Plans[g.Battle.Attacker]
	def := g.Battle.Plans[g.Battle.Defender]
	if att != nil && att.Set && def != nil && def.Set {
		if err := resolveBattle(g); err != nil {
			return err
		}
		scanBattle(g)
	}
	return nil
}

// resolveBattle settles the open battle. Traitor calls trump totals; a
// two-sided traitor reveal annihilates both sides. Otherwise the higher
// of dial plus leader strength wins, ties to the defender. The loser's
// territory forces and leader go to the tanks, the winner pays the
// dialed forces, and both committed card sets are discarded.
func resolveBattle(g *GameState) error {
	b := g.Battle
	attP, ok := g.Players[b.Attacker]
	if !ok {
		return internalErrorf("resolveBattle", "attacker %s not seated", b.Attacker)
	}
	defP, ok := g.Players[b.Defender]
	if !ok {
		return internalErrorf("resolveBattle", "defender %s not seated", b.Defender)
	}
	attPlan, defPlan := b.Plans[b.Attacker], b.Plans[b.Defender]

	for _, pair := range []struct {
		p    *Player
		plan *BattlePlan
	}{{attP, attPlan}, {defP, defPlan}} {
		deck := g.Decks[DeckTreachery]
		for _, card := range pair.plan.Cards {
			if _, held := pair.p.TreacheryCards[card]; !held {
				return internalErrorf("resolveBattle", "committed card %d not held by %s", card, pair.p.Faction)
			}
			delete(pair.p.TreacheryCards, card)
			deck.Discard = append(deck.Discard, card)
		}
	}

	attTraitor := defPlan.Leader != ids.None && attP.ChosenTraitor == defPlan.Leader
	defTraitor := attPlan.Leader != ids.None && defP.ChosenTraitor == attPlan.Leader

	switch {
	case attTraitor && defTraitor:
		// Both leaders were traitors; both sides lose everything.
		if err := loseBattle(g, defP, defPlan, b.Location, len(territoryForces(g, defP, b.Location))); err != nil {
			return err
		}
		if err := loseBattle(g, attP, attPlan, b.Location, len(territoryForces(g, attP, b.Location))); err != nil {
			return err
		}
	case attTraitor:
		if err := battleOutcome(g, attP, attPlan, defP, defPlan, b.Location, true); err != nil {
			return err
		}
	case defTraitor:
		if err := battleOutcome(g, defP, defPlan, attP, attPlan, b.Location, true); err != nil {
			return err
		}
	default:
		attTotal, err := battleTotal(g, attP, attPlan)
		if err != nil {
			return err
		}
		defTotal, err := battleTotal(g, defP, defPlan)
		if err != nil {
			return err
		}
		if attTotal > defTotal {
			err = battleOutcome(g, attP, attPlan, defP, defPlan, b.Location, false)
		} else {
			err = battleOutcome(g, defP, defPlan, attP, attPlan, b.Location, false)
		}
		if err != nil {
			return err
		}
	}

	g.Battle = nil
	return nil
}

// battleTotal is the side's strength: dialed forces plus the committed
// leader's printed strength.
func battleTotal(g *GameState, p *Player, plan *BattlePlan) (int, error) {
	total := plan.Dial
	if plan.Leader != ids.None {
		info, ok := g.Objects[plan.Leader]
		if !ok {
			return 0, internalErrorf("battleTotal", "leader %d missing from object table", plan.Leader)
		}
		ld, ok := g.Data.LeaderData(info.Key)
		if !ok {
			return 0, internalErrorf("battleTotal", "unknown leader key %q", info.Key)
		}
		total += ld.Strength
	}
	return total, nil
}

// battleOutcome applies a decided battle: the loser is wiped from the
// territory and their leader dies; the winner pays their dial (waived
// on a traitor reveal) and collects spice for the slain leader.
func battleOutcome(g *GameState, winner *Player, winPlan *BattlePlan, loser *Player, losePlan *BattlePlan, loc data.Location, traitor bool) error {
	if err := loseBattle(g, loser, losePlan, loc, len(territoryForces(g, loser, loc))); err != nil {
		return err
	}
	if !traitor {
		dial := winPlan.Dial
		own := territoryForces(g, winner, loc)
		if dial > len(own) {
			dial = len(own)
		}
		if err := tankForcesAt(g, winner, loc, own[:dial]); err != nil {
			return err
		}
	}
	if losePlan.Leader != ids.None {
		info, ok := g.Objects[losePlan.Leader]
		if !ok {
			return internalErrorf("battleOutcome", "slain leader %d missing from object table", losePlan.Leader)
		}
		if ld, ok := g.Data.LeaderData(info.Key); ok {
			winner.Spice += ld.Strength
		}
	}
	return nil
}

// loseBattle sends count of the player's territory forces and their
// committed leader to the tanks.
func loseBattle(g *GameState, p *Player, plan *BattlePlan, loc data.Location, count int) error {
	own := territoryForces(g, p, loc)
	if count > len(own) {
		count = len(own)
	}
	if err := tankForcesAt(g, p, loc, own[:count]); err != nil {
		return err
	}
	if plan.Leader != ids.None {
		p.Leaders[plan.Leader] = false
		p.Tanks.Leaders[plan.Leader] = struct{}{}
	}
	return nil
}

// territoryForces lists a player's forces in a territory in ascending
// object-id order so removals are deterministic.
func territoryForces(g *GameState, p *Player, loc data.Location) []ids.ObjectID {
	ls, ok := g.Board[loc]
	if !ok {
		return nil
	}
	var out []ids.ObjectID
	for _, ss := range ls.Sectors {
		for id := range ss.Forces[p.Faction] {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func tankForcesAt(g *GameState, p *Player, loc data.Location, forces []ids.ObjectID) error {
	ls, ok := g.Board[loc]
	if !ok {
		return internalErrorf("tankForcesAt", "unknown territory %s", loc)
	}
	for _, id := range forces {
		removed := false
		for _, ss := range ls.Sectors {
			if _, present := ss.Forces[p.Faction][id]; present {
				delete(ss.Forces[p.Faction], id)
				removed = true
				break
			}
		}
		if !removed {
			return internalErrorf("tankForcesAt", "force %d of %s absent from %s", id, p.Faction, loc)
		}
		p.Tanks.Forces[id] = struct{}{}
	}
	return nil
}

func consumeBribe(g *GameState, ev GameEvent) error {
	from, ok := g.Players[ev.Player]
	if !ok {
		return internalErrorf("Bribe", "player %s not seated", ev.Player)
	}
	to, ok := g.Players[ev.Target]
	if !ok {
		return internalErrorf("Bribe", "target %s not seated", ev.Target)
	}
	if ev.Amount > from.Spice {
		return internalErrorf("Bribe", "amount %d exceeds spice %d", ev.Amount, from.Spice)
	}
	from.Spice -= ev.Amount
	to.Spice += ev.Amount
	return nil
}

func consumeAdvancePhase(g *GameState) error {
	g.Phase = g.Phase.Next(g.LoopToSetup)
	g.Active = ""
	g.Battle = nil
	g.Acted = make(map[PlayerID]struct{})
	if g.Phase == phase.Battle {
		scanBattle(g)
	}
	return nil
}

// scanBattle finds the next contested territory in canonical order and
// opens a battle there, or leaves Battle nil when the board is settled.
// Territory order and combatant order are canonical so every replica
// opens the same battle.
func scanBattle(g *GameState) {
	g.Battle = nil
	for _, loc := range sortedLocations(g) {
		// The Polar Sink is neutral ground.
		if loc == data.PolarSink {
			continue
		}
		occupants := g.OccupantsOf(loc)
		if len(occupants) < 2 {
			continue
		}
		g.Battle = &BattleState{
			Location: loc,
			Attacker: g.Factions[occupants[0]],
			Defender: g.Factions[occupants[1]],
			Plans:    make(map[PlayerID]*BattlePlan),
		}
		return
	}
}

func sortedLocations(g *GameState) []data.Location {
	out := make([]data.Location, 0, len(g.Board))
	for loc := range g.Board {
		out = append(out, loc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func consumeSpawnObject(g *GameState, ev GameEvent) error {
	if ev.Spawn == nil {
		return internalErrorf("SpawnObject", "missing spawn payload")
	}
	id, info := ev.Spawn.ID, ev.Spawn.Info
	if id == ids.None {
		return internalErrorf("SpawnObject", "spawn with None id")
	}
	if _, exists := g.Objects[id]; exists {
		return internalErrorf("SpawnObject", "duplicate object id %d", id)
	}
	g.Objects[id] = info

	switch info.Kind {
	case ObjectTreacheryCard:
		deck := g.Decks[DeckTreachery]
		deck.Draw = append(deck.Draw, id)
	case ObjectSpiceCard:
		deck := g.Decks[DeckSpice]
		deck.Draw = append(deck.Draw, id)
	case ObjectStormCard:
		deck := g.Decks[DeckStorm]
		deck.Draw = append(deck.Draw, id)
	case ObjectTraitorCard:
		deck := g.Decks[DeckTraitor]
		deck.Draw = append(deck.Draw, id)
	case ObjectTroop:
		p, ok := g.PlayerByFaction(info.Faction)
		if !ok {
			return internalErrorf("SpawnObject", "troop for unseated faction %s", info.Faction)
		}
		p.OffWorld[id] = struct{}{}
	case ObjectLeader:
		p, ok := g.PlayerByFaction(info.Faction)
		if !ok {
			return internalErrorf("SpawnObject", "leader for unseated faction %s", info.Faction)
		}
		p.Leaders[id] = true
	case ObjectWorm:
		// Worm markers live only in the object table; placement is
		// tracked on the territory.
	default:
		return internalErrorf("SpawnObject", "unknown object kind %q", info.Kind)
	}
	return nil
}

func consumeSetPlayOrder(g *GameState, ev GameEvent) error {
	for _, pid := range ev.PlayOrder {
		if _, ok := g.Players[pid]; !ok {
			return internalErrorf("SetPlayOrder", "player %s not seated", pid)
		}
	}
	g.PlayOrder = append([]PlayerID(nil), ev.PlayOrder...)
	return nil
}

func consumeDealCard(g *GameState, ev GameEvent) error {
	deck, ok := g.Decks[ev.Deck]
	if !ok {
		return internalErrorf("DealCard", "unknown deck %s", ev.Deck)
	}
	if len(deck.Draw) == 0 {
		return internalErrorf("DealCard", "deck %s is empty", ev.Deck)
	}
	if deck.Draw[0] != ev.Card {
		return internalErrorf("DealCard", "card %d is not on top of deck %s", ev.Card, ev.Deck)
	}
	p, ok := g.Players[ev.Player]
	if !ok {
		return internalErrorf("DealCard", "player %s not seated", ev.Player)
	}
	deck.Draw = deck.Draw[1:]

	switch ev.Deck {
	case DeckTreachery:
		p.TreacheryCards[ev.Card] = struct{}{}
		// A deal that resolves the live auction also settles payment.
		if g.Bid.Card == ev.Card {
			if g.Bid.HighBid > p.Spice {
				return internalErrorf("DealCard", "winning bid %d exceeds spice %d", g.Bid.HighBid, p.Spice)
			}
			p.Spice -= g.Bid.HighBid
			resetBid(g)
		}
	case DeckTraitor:
		p.TraitorCards[ev.Card] = struct{}{}
	default:
		return internalErrorf("DealCard", "deck %s is never dealt to a hand", ev.Deck)
	}
	return nil
}

func consumeDiscardCard(g *GameState, ev GameEvent) error {
	deck, ok := g.Decks[ev.Deck]
	if !ok {
		return internalErrorf("DiscardCard", "unknown deck %s", ev.Deck)
	}

	// With an addressee the card leaves that player's hand; without
	// one it is the top of the draw pile being turned over.
	if ev.Player != "" {
		p, ok := g.Players[ev.Player]
		if !ok {
			return internalErrorf("DiscardCard", "player %s not seated", ev.Player)
		}
		if _, held := p.TreacheryCards[ev.Card]; !held {
			return internalErrorf("DiscardCard", "card %d not held by %s", ev.Card, ev.Player)
		}
		delete(p.TreacheryCards, ev.Card)
		deck.Discard = append(deck.Discard, ev.Card)
		return nil
	}

	if len(deck.Draw) == 0 {
		return internalErrorf("DiscardCard", "deck %s is empty", ev.Deck)
	}
	if deck.Draw[0] != ev.Card {
		return internalErrorf("DiscardCard", "card %d is not on top of deck %s", ev.Card, ev.Deck)
	}
	deck.Draw = deck.Draw[1:]
	deck.Discard = append(deck.Discard, ev.Card)

	// If the discarded card resolves the live auction with no bids,
	// the auction resets.
	if g.Bid.Card == ev.Card {
		resetBid(g)
	}
	return nil
}

func consumeSetDeckOrder(g *GameState, ev GameEvent) error {
	deck, ok := g.Decks[ev.Deck]
	if !ok {
		return internalErrorf("SetDeckOrder", "unknown deck %s", ev.Deck)
	}
	// The order must be a permutation of the whole pile, draw and
	// discard together, so the same event also expresses a reshuffle.
	if len(ev.Order) != len(deck.Draw)+len(deck.Discard) {
		return internalErrorf("SetDeckOrder", "order has %d cards, pile has %d", len(ev.Order), len(deck.Draw)+len(deck.Discard))
	}
	current := make(map[ids.ObjectID]struct{}, len(ev.Order))
	for _, id := range deck.Draw {
		current[id] = struct{}{}
	}
	for _, id := range deck.Discard {
		current[id] = struct{}{}
	}
	for _, id := range ev.Order {
		if _, ok := current[id]; !ok {
			return internalErrorf("SetDeckOrder", "card %d not in pile of %s", id, ev.Deck)
		}
		delete(current, id)
	}
	deck.Draw = append([]ids.ObjectID(nil), ev.Order...)
	deck.Discard = nil
	return nil
}

func consumeStartRound(g *GameState) error {
	if g.Turn >= MaxTurns {
		return internalErrorf("StartRound", "turn counter already at limit %d", MaxTurns)
	}
	g.Turn++
	g.Nexus = false
	g.Acted = make(map[PlayerID]struct{})
	g.Bid = BidState{Passed: make(map[PlayerID]struct{})}
	for _, ls := range g.Board {
		ls.Worm = false
	}
	return nil
}

func consumeCollectSpice(g *GameState, ev GameEvent) error {
	p, ok := g.Players[ev.Player]
	if !ok {
		return internalErrorf("CollectSpice", "player %s not seated", ev.Player)
	}
	ss, err := sectorState(g, ev.Location, ev.Sector)
	if err != nil {
		return err
	}
	if ev.Amount <= 0 || ev.Amount > ss.Spice {
		return internalErrorf("CollectSpice", "amount %d outside sector spice %d", ev.Amount, ss.Spice)
	}
	ss.Spice -= ev.Amount
	p.Spice += ev.Amount
	return nil
}

func consumeSpiceBlow(g *GameState) error {
	deck := g.Decks[DeckSpice]
	for {
		if len(deck.Draw) == 0 {
			return internalErrorf("SpiceBlow", "spice deck exhausted")
		}
		id := deck.Draw[0]
		deck.Draw = deck.Draw[1:]
		deck.Discard = append(deck.Discard, id)

		info, ok := g.Objects[id]
		if !ok {
			return internalErrorf("SpiceBlow", "spice card object %d missing", id)
		}
		cd, ok := g.Data.SpiceCardData(info.Key)
		if !ok {
			return internalErrorf("SpiceBlow", "unknown spice card key %q", info.Key)
		}

		if cd.ShaiHulud {
			// The worm is sighted; it surfaces wherever the next
			// territory card names.
			g.PendingNexus = true
			continue
		}

		if g.PendingNexus {
			if err := sweepTerritory(g, cd.Location); err != nil {
				return err
			}
			g.PendingNexus = false
			g.Nexus = true
		}

		ld, ok := g.Data.LocationData(cd.Location)
		if !ok {
			return internalErrorf("SpiceBlow", "unknown territory %s", cd.Location)
		}
		if ld.SpiceSector < 0 {
			return internalErrorf("SpiceBlow", "territory %s has no spice sector", cd.Location)
		}
		// The storm smothers a blow in its own sector.
		if ld.SpiceSector != g.StormSector {
			ss, err := sectorState(g, cd.Location, ld.SpiceSector)
			if err != nil {
				return err
			}
			ss.Spice += cd.Amount
		}
		return nil
	}
}

func consumeStartBidding(g *GameState, ev GameEvent) error {
	deck := g.Decks[DeckTreachery]
	if len(deck.Draw) == 0 {
		return internalErrorf("StartBidding", "treachery deck is empty")
	}
	if deck.Draw[0] != ev.Card {
		return internalErrorf("StartBidding", "card %d is not on top of the treachery deck", ev.Card)
	}
	g.Bid = BidState{
		Card:   ev.Card,
		Passed: make(map[PlayerID]struct{}),
		Round:  g.Bid.Round + 1,
	}
	return nil
}

// sweepTerritory moves every force in the territory into its owner's
// tanks and drops a worm marker there.
func sweepTerritory(g *GameState, loc data.Location) error {
	ls, ok := g.Board[loc]
	if !ok {
		return internalErrorf("sweepTerritory", "unknown territory %s", loc)
	}
	for _, ss := range ls.Sectors {
		for f, forces := range ss.Forces {
			if len(forces) == 0 {
				continue
			}
			p, ok := g.PlayerByFaction(f)
			if !ok {
				return internalErrorf("sweepTerritory", "forces of unseated faction %s in %s", f, loc)
			}
			for id := range forces {
				p.Tanks.Forces[id] = struct{}{}
			}
			ss.Forces[f] = make(map[ids.ObjectID]struct{})
		}
	}
	ls.Worm = true
	return nil
}

func sectorState(g *GameState, loc data.Location, sector int) (*SectorState, error) {
	ls, ok := g.Board[loc]
	if !ok {
		return nil, internalErrorf("sectorState", "unknown territory %s", loc)
	}
	ss, ok := ls.Sectors[sector]
	if !ok {
		return nil, internalErrorf("sectorState", "territory %s has no sector %d", loc, sector)
	}
	return ss, nil
}

func addForce(ss *SectorState, f data.Faction, id ids.ObjectID) {
	forces, ok := ss.Forces[f]
	if !ok {
		forces = make(map[ids.ObjectID]struct{})
		ss.Forces[f] = forces
	}
	forces[id] = struct{}{}
}

func resetBid(g *GameState) {
	g.Bid = BidState{Passed: make(map[PlayerID]struct{}), Round: g.Bid.Round}
}
