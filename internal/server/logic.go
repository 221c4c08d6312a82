package server

import (
	"sort"

	"github.com/landsraad/dune-server-go/internal/data"
	"github.com/landsraad/dune-server-go/internal/game"
	"github.com/landsraad/dune-server-go/internal/game/ids"
	"github.com/landsraad/dune-server-go/internal/game/phase"
	"github.com/landsraad/dune-server-go/internal/protocol"
	"go.uber.org/zap"
)

// gameLogic is the reactive rule table. It runs after an event has
// been committed and decides what the server does next: open prompts,
// deal cards, rotate the active player, advance the phase. Every
// reaction goes back through Generate so replicas see it too.
func (o *Orchestrator) gameLogic(ev game.GameEvent) error {
	switch ev.Kind {
	case game.EventPlayerJoined:
		return o.onPlayerJoined()
	case game.EventPlayerDisconnected:
		return o.onPlayerDisconnected(ev.Player)
	case game.EventChooseFaction:
		return o.promptNextSeat()
	case game.EventChooseTraitor:
		return o.onChooseTraitor()
	case game.EventMakeFactionPrediction:
		return o.Generate(game.GameEvent{
			Kind:   game.EventShowPrompt,
			Player: ev.Player,
			Prompt: game.PromptTurnPrediction,
		})
	case game.EventMakeTurnPrediction:
		return o.advancePhase()
	case game.EventPass:
		return o.onPass(ev)
	case game.EventShipForces:
		return o.onShipForces()
	case game.EventMoveForces, game.EventRevive:
		return o.advanceTurnTaker()
	case game.EventMakeBid:
		return o.onMakeBid(ev)
	case game.EventSetBattlePlan:
		return o.onSetBattlePlan()
	case game.EventAdvancePhase:
		return o.onPhaseEntered()
	}
	return nil
}

func (o *Orchestrator) advancePhase() error {
	return o.Generate(game.GameEvent{Kind: game.EventAdvancePhase})
}

func (o *Orchestrator) onPlayerJoined() error {
	if o.started {
		// Late connections spectate; they receive the live stream but
		// hold no seat.
		return nil
	}
	if len(o.state.Joined) < o.minPlayers {
		return nil
	}
	o.started = true
	if err := o.broadcastControl(protocol.ControlMessage{Type: protocol.ControlLoadAssets}); err != nil {
		return err
	}
	if err := o.broadcastControl(protocol.ControlMessage{Type: protocol.ControlStartGame}); err != nil {
		return err
	}
	o.logger.Info("game starting",
		zap.String("game_id", o.gameID),
		zap.Int("players", len(o.state.Joined)),
	)
	return o.promptNextSeat()
}

func (o *Orchestrator) onPlayerDisconnected(pid game.PlayerID) error {
	if _, seated := o.state.Players[pid]; !seated {
		return nil
	}
	// A seated player leaving ends the session; there is no
	// reconnect-and-resume.
	return o.Generate(game.GameEvent{Kind: game.EventEndGame})
}

// nextSeatCandidate picks the earliest-connected player who is still
// eligible to take a seat.
func (o *Orchestrator) nextSeatCandidate() (game.PlayerID, bool) {
	if len(o.state.UnassignedFactions()) == 0 {
		return "", false
	}
	for _, pid := range o.joinOrder {
		if _, joined := o.state.Joined[pid]; !joined {
			continue
		}
		if _, seated := o.state.Players[pid]; seated {
			continue
		}
		if _, out := o.declined[pid]; out {
			continue
		}
		return pid, true
	}
	return "", false
}

func (o *Orchestrator) promptNextSeat() error {
	if next, ok := o.nextSeatCandidate(); ok {
		if err := o.Generate(game.GameEvent{Kind: game.EventSetActive, Player: next}); err != nil {
			return err
		}
		return o.Generate(game.GameEvent{
			Kind:   game.EventShowPrompt,
			Player: next,
			Prompt: game.PromptFaction,
		})
	}
	if len(o.state.Players) < 2 {
		o.logger.Warn("not enough seated players to start", zap.String("game_id", o.gameID))
		return o.Generate(game.GameEvent{Kind: game.EventEndGame})
	}
	return o.advancePhase()
}

func (o *Orchestrator) onChooseTraitor() error {
	for _, kind := range o.state.Prompts {
		if kind == game.PromptTraitor {
			return nil
		}
	}
	return o.advancePhase()
}

func (o *Orchestrator) onPass(ev game.GameEvent) error {
	switch {
	case o.state.Phase.IsSetup(phase.SetupChooseFactions):
		o.declined[ev.Player] = struct{}{}
		return o.promptNextSeat()
	case o.state.Phase == phase.Bidding:
		return o.rotateBidder(ev.Player)
	case o.state.Phase == phase.Revival, o.state.Phase == phase.Movement:
		return o.advanceTurnTaker()
	}
	return nil
}

func (o *Orchestrator) onShipForces() error {
	if o.state.Phase.IsSetup(phase.SetupPlaceForces) {
		if o.allPlaced() {
			return o.advancePhase()
		}
		return nil
	}
	if o.state.Phase == phase.Movement {
		return o.advanceTurnTaker()
	}
	return nil
}

func (o *Orchestrator) onSetBattlePlan() error {
	// Consume resolves a battle as soon as both plans land and opens
	// the next one; a nil battle here means the board is settled.
	if o.state.Battle == nil {
		return o.advancePhase()
	}
	return nil
}

// onPhaseEntered fires once per phase transition, right after the
// AdvancePhase event has been applied.
func (o *Orchestrator) onPhaseEntered() error {
	p := o.state.Phase
	switch {
	case p.IsSetup(phase.SetupChooseFactions):
		return o.promptNextSeat()
	case p.IsSetup(phase.SetupPrediction):
		return o.promptPrediction()
	case p.IsSetup(phase.SetupAtStart):
		return o.provision()
	case p.IsSetup(phase.SetupDealTraitors):
		return o.dealTraitors()
	case p.IsSetup(phase.SetupPlaceForces):
		if o.allPlaced() {
			return o.advancePhase()
		}
		return nil
	case p.IsSetup(phase.SetupDealTreachery):
		return o.dealStartingTreachery()
	case p.IsStorm(phase.StormReveal):
		return o.revealStormCard()
	case p.IsStorm(phase.StormWeatherControl), p.IsStorm(phase.StormFamilyAtomics):
		// Card play during the storm is not automated; the windows
		// open and close in one step.
		return o.advancePhase()
	case p.IsStorm(phase.StormMoveStorm):
		return o.moveStorm()
	case p == phase.SpiceBlow:
		return o.runSpiceBlow()
	case p == phase.Nexus:
		// Alliance talk happens off the board; the phase is visible to
		// clients and then the turn moves on.
		return o.advancePhase()
	case p == phase.Bidding:
		return o.startAuction()
	case p == phase.Revival, p == phase.Movement:
		return o.advanceTurnTaker()
	case p == phase.Battle:
		if o.state.Battle == nil {
			return o.advancePhase()
		}
		return nil
	case p == phase.Collection:
		return o.collectAll()
	case p == phase.Control:
		return o.controlCheck()
	}
	return nil
}

func (o *Orchestrator) promptPrediction() error {
	bg, ok := o.state.PlayerByFaction(data.BeneGesserit)
	if !ok || o.state.Prediction.Player != "" {
		return o.advancePhase()
	}
	if err := o.Generate(game.GameEvent{Kind: game.EventSetActive, Player: bg.ID}); err != nil {
		return err
	}
	return o.Generate(game.GameEvent{
		Kind:   game.EventShowPrompt,
		Player: bg.ID,
		Prompt: game.PromptFactionPrediction,
	})
}

// provision spawns every object the session needs, shuffles the decks,
// and fixes the play order. It runs once; a looped setup skips it.
func (o *Orchestrator) provision() error {
	if len(o.state.Objects) > 0 {
		return o.advancePhase()
	}
	d := o.state.Data

	for _, key := range d.TreacheryCardKeys() {
		cd, _ := d.TreacheryCardData(key)
		for i := 0; i < cd.Count; i++ {
			if err := o.spawn(game.ObjectInfo{Kind: game.ObjectTreacheryCard, Key: key}); err != nil {
				return err
			}
		}
	}
	for _, key := range d.SpiceCardKeys() {
		cd, _ := d.SpiceCardData(key)
		for i := 0; i < cd.Count; i++ {
			if err := o.spawn(game.ObjectInfo{Kind: game.ObjectSpiceCard, Key: key}); err != nil {
				return err
			}
		}
	}
	for _, key := range d.StormCardKeys() {
		if err := o.spawn(game.ObjectInfo{Kind: game.ObjectStormCard, Key: key}); err != nil {
			return err
		}
	}

	// Leaders, the traitor pool, and troop tokens exist only for the
	// factions actually seated.
	for _, f := range data.AllFactions {
		if _, seated := o.state.Factions[f]; !seated {
			continue
		}
		fd, _ := d.FactionData(f)
		for _, key := range d.LeadersOf(f) {
			if err := o.spawn(game.ObjectInfo{Kind: game.ObjectLeader, Key: key, Faction: f}); err != nil {
				return err
			}
			if err := o.spawn(game.ObjectInfo{Kind: game.ObjectTraitorCard, Key: key, Faction: f}); err != nil {
				return err
			}
		}
		for i := 0; i < fd.TroopTotal; i++ {
			if err := o.spawn(game.ObjectInfo{Kind: game.ObjectTroop, Faction: f}); err != nil {
				return err
			}
		}
	}

	for _, kind := range []game.DeckKind{game.DeckTreachery, game.DeckSpice, game.DeckStorm, game.DeckTraitor} {
		if err := o.shuffleDeck(kind); err != nil {
			return err
		}
	}

	order := o.seatedInFactionOrder()
	o.rng.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})
	if err := o.Generate(game.GameEvent{Kind: game.EventSetPlayOrder, PlayOrder: order}); err != nil {
		return err
	}
	return o.advancePhase()
}

func (o *Orchestrator) spawn(info game.ObjectInfo) error {
	return o.Generate(game.GameEvent{
		Kind:  game.EventSpawnObject,
		Spawn: &game.SpawnSpec{ID: o.alloc.NextID(), Info: info},
	})
}

// shuffleDeck reorders the whole pile, draw and discard together, with
// the session RNG. The resulting order replicates as an ordinary
// event; clients never shuffle.
func (o *Orchestrator) shuffleDeck(kind game.DeckKind) error {
	deck := o.state.Decks[kind]
	pile := make([]ids.ObjectID, 0, len(deck.Draw)+len(deck.Discard))
	pile = append(pile, deck.Draw...)
	pile = append(pile, deck.Discard...)
	if len(pile) == 0 {
		return nil
	}
	o.rng.Shuffle(len(pile), func(i, j int) {
		pile[i], pile[j] = pile[j], pile[i]
	})
	return o.Generate(game.GameEvent{Kind: game.EventSetDeckOrder, Deck: kind, Order: pile})
}

func (o *Orchestrator) seatedInFactionOrder() []game.PlayerID {
	out := make([]game.PlayerID, 0, len(o.state.Players))
	for _, f := range data.AllFactions {
		if pid, ok := o.state.Factions[f]; ok {
			out = append(out, pid)
		}
	}
	return out
}

func (o *Orchestrator) dealTraitors() error {
	if o.traitorsDealt() {
		return o.advancePhase()
	}
	deck := o.state.Decks[game.DeckTraitor]
	for round := 0; round < 4; round++ {
		for _, pid := range o.state.PlayOrder {
			if len(deck.Draw) == 0 {
				return o.internalAbort("traitor deck exhausted during deal")
			}
			ev := game.GameEvent{
				Kind:   game.EventDealCard,
				Player: pid,
				Deck:   game.DeckTraitor,
				Card:   deck.Draw[0],
			}
			if err := o.Generate(ev); err != nil {
				return err
			}
		}
	}

	prompted := false
	for _, pid := range o.state.PlayOrder {
		if o.state.Players[pid].Faction == data.Harkonnen {
			// Harkonnen keeps the whole hand.
			continue
		}
		prompted = true
		ev := game.GameEvent{Kind: game.EventShowPrompt, Player: pid, Prompt: game.PromptTraitor}
		if err := o.Generate(ev); err != nil {
			return err
		}
	}
	if !prompted {
		return o.advancePhase()
	}
	return nil
}

func (o *Orchestrator) traitorsDealt() bool {
	for _, p := range o.state.Players {
		if len(p.TraitorCards) > 0 || p.ChosenTraitor != ids.None {
			return true
		}
	}
	return false
}

func (o *Orchestrator) dealStartingTreachery() error {
	if o.treacheryDealt {
		return o.advancePhase()
	}
	o.treacheryDealt = true
	deck := o.state.Decks[game.DeckTreachery]
	for _, pid := range o.state.PlayOrder {
		if len(deck.Draw) == 0 {
			return o.internalAbort("treachery deck exhausted during starting deal")
		}
		ev := game.GameEvent{
			Kind:   game.EventDealCard,
			Player: pid,
			Deck:   game.DeckTreachery,
			Card:   deck.Draw[0],
		}
		if err := o.Generate(ev); err != nil {
			return err
		}
	}
	return o.advancePhase()
}

func (o *Orchestrator) allPlaced() bool {
	for _, p := range o.state.Players {
		fd, ok := o.state.Data.FactionData(p.Faction)
		if !ok {
			return false
		}
		// Factions that start with no board presence have nothing to
		// place.
		if fd.StartingForce == 0 {
			continue
		}
		if !p.Shipped {
			return false
		}
	}
	return true
}

func (o *Orchestrator) revealStormCard() error {
	if err := o.ensureDeck(game.DeckStorm); err != nil {
		return err
	}
	deck := o.state.Decks[game.DeckStorm]
	if len(deck.Draw) == 0 {
		return o.internalAbort("storm deck empty at reveal")
	}
	ev := game.GameEvent{Kind: game.EventDiscardCard, Deck: game.DeckStorm, Card: deck.Draw[0]}
	if err := o.Generate(ev); err != nil {
		return err
	}
	return o.advancePhase()
}

func (o *Orchestrator) moveStorm() error {
	deck := o.state.Decks[game.DeckStorm]
	if len(deck.Discard) == 0 {
		return o.internalAbort("no revealed storm card to apply")
	}
	top := deck.Discard[len(deck.Discard)-1]
	info, ok := o.state.Objects[top]
	if !ok {
		return o.internalAbort("revealed storm card missing from object table")
	}
	cd, ok := o.state.Data.StormCardData(info.Key)
	if !ok {
		return o.internalAbort("unknown storm card " + info.Key)
	}
	if err := o.Generate(game.GameEvent{Kind: game.EventAdvanceStorm, Amount: cd.Move}); err != nil {
		return err
	}
	return o.advancePhase()
}

func (o *Orchestrator) runSpiceBlow() error {
	// A blow can burn through every Shai-Hulud in a row before it
	// finds a territory card, so reshuffle early.
	deck := o.state.Decks[game.DeckSpice]
	shaiHuluds := 0
	if cd, ok := o.state.Data.SpiceCardData("shai_hulud"); ok {
		shaiHuluds = cd.Count
	}
	if len(deck.Draw) <= shaiHuluds && len(deck.Discard) > 0 {
		if err := o.shuffleDeck(game.DeckSpice); err != nil {
			return err
		}
	}
	if err := o.Generate(game.GameEvent{Kind: game.EventSpiceBlow}); err != nil {
		return err
	}
	return o.advancePhase()
}

// ensureDeck reshuffles the discard pile back into the draw pile when
// the draw pile has run dry.
func (o *Orchestrator) ensureDeck(kind game.DeckKind) error {
	deck := o.state.Decks[kind]
	if len(deck.Draw) > 0 || len(deck.Discard) == 0 {
		return nil
	}
	return o.shuffleDeck(kind)
}

func (o *Orchestrator) startAuction() error {
	n := len(o.state.PlayOrder)
	if n == 0 || o.state.Bid.Round >= n {
		return o.advancePhase()
	}
	if err := o.ensureDeck(game.DeckTreachery); err != nil {
		return err
	}
	deck := o.state.Decks[game.DeckTreachery]
	if len(deck.Draw) == 0 {
		return o.advancePhase()
	}
	if err := o.Generate(game.GameEvent{Kind: game.EventStartBidding, Card: deck.Draw[0]}); err != nil {
		return err
	}
	// The opening bidder rotates one seat per auction and per turn.
	idx := (o.state.Turn - 1 + o.state.Bid.Round - 1) % n
	return o.Generate(game.GameEvent{Kind: game.EventSetActive, Player: o.state.PlayOrder[idx]})
}

func (o *Orchestrator) onMakeBid(ev game.GameEvent) error {
	return o.rotateBidder(ev.Player)
}

// rotateBidder hands the auction to the next live bidder after the
// given seat, or settles it when no one is left to outbid.
func (o *Orchestrator) rotateBidder(after game.PlayerID) error {
	if next, ok := o.nextBidder(after); ok {
		return o.Generate(game.GameEvent{Kind: game.EventSetActive, Player: next})
	}
	return o.settleAuction()
}

func (o *Orchestrator) nextBidder(after game.PlayerID) (game.PlayerID, bool) {
	order := o.state.PlayOrder
	n := len(order)
	start := 0
	for i, pid := range order {
		if pid == after {
			start = i
			break
		}
	}
	for i := 1; i <= n; i++ {
		pid := order[(start+i)%n]
		if pid == o.state.Bid.HighBidder {
			continue
		}
		if _, passed := o.state.Bid.Passed[pid]; passed {
			continue
		}
		return pid, true
	}
	return "", false
}

func (o *Orchestrator) settleAuction() error {
	bid := o.state.Bid
	if bid.Card == ids.None {
		return o.internalAbort("settling an auction with no card")
	}
	var ev game.GameEvent
	if bid.HighBidder != "" {
		ev = game.GameEvent{
			Kind:   game.EventDealCard,
			Player: bid.HighBidder,
			Deck:   game.DeckTreachery,
			Card:   bid.Card,
		}
	} else {
		// Nobody wanted it; the card turns over to the discard pile.
		ev = game.GameEvent{Kind: game.EventDiscardCard, Deck: game.DeckTreachery, Card: bid.Card}
	}
	if err := o.Generate(ev); err != nil {
		return err
	}
	return o.startAuction()
}

// advanceTurnTaker hands the phase to the next player who has not yet
// acted, auto-passing seats with nothing to do, and advances the phase
// when everyone has gone.
func (o *Orchestrator) advanceTurnTaker() error {
	for _, pid := range o.state.PlayOrder {
		if _, done := o.state.Acted[pid]; done {
			continue
		}
		if err := o.Generate(game.GameEvent{Kind: game.EventSetActive, Player: pid}); err != nil {
			return err
		}
		if o.nothingToDo(pid) {
			return o.Generate(game.GameEvent{Kind: game.EventPass, Player: pid})
		}
		return nil
	}
	return o.advancePhase()
}

func (o *Orchestrator) nothingToDo(pid game.PlayerID) bool {
	p, ok := o.state.Players[pid]
	if !ok {
		return true
	}
	switch o.state.Phase {
	case phase.Revival:
		return len(p.Tanks.Forces) == 0 && len(p.Tanks.Leaders) == 0
	case phase.Movement:
		if len(p.OffWorld) > 0 {
			return false
		}
		for _, ls := range o.state.Board {
			for _, ss := range ls.Sectors {
				if len(ss.Forces[p.Faction]) > 0 {
					return false
				}
			}
		}
		return true
	}
	return false
}

func (o *Orchestrator) collectAll() error {
	for _, pid := range o.state.PlayOrder {
		p := o.state.Players[pid]
		for _, loc := range o.sortedBoard() {
			ls := o.state.Board[loc]
			for _, sector := range sortedSectors(ls) {
				ss := ls.Sectors[sector]
				forces := len(ss.Forces[p.Faction])
				if forces == 0 || ss.Spice == 0 {
					continue
				}
				amount := 2 * forces
				if amount > ss.Spice {
					amount = ss.Spice
				}
				ev := game.GameEvent{
					Kind:     game.EventCollectSpice,
					Player:   pid,
					Location: loc,
					Sector:   sector,
					Amount:   amount,
				}
				if err := o.Generate(ev); err != nil {
					return err
				}
			}
		}
	}
	return o.advancePhase()
}

func (o *Orchestrator) sortedBoard() []data.Location {
	out := make([]data.Location, 0, len(o.state.Board))
	for loc := range o.state.Board {
		out = append(out, loc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func sortedSectors(ls *game.LocationState) []int {
	out := make([]int, 0, len(ls.Sectors))
	for sector := range ls.Sectors {
		out = append(out, sector)
	}
	sort.Ints(out)
	return out
}

// controlCheck ends the game on a stronghold victory or the turn
// limit, otherwise rolls the turn counter and starts the next round.
func (o *Orchestrator) controlCheck() error {
	counts := o.strongholdCounts()
	if winner, ok := dominantFaction(counts, 3); ok {
		return o.Generate(game.GameEvent{Kind: game.EventEndGame, Faction: o.applyPrediction(winner)})
	}
	if o.state.Turn >= game.MaxTurns {
		// Time runs out; the biggest stronghold holder takes it.
		if winner, ok := dominantFaction(counts, 1); ok {
			return o.Generate(game.GameEvent{Kind: game.EventEndGame, Faction: o.applyPrediction(winner)})
		}
		return o.Generate(game.GameEvent{Kind: game.EventEndGame})
	}
	if err := o.Generate(game.GameEvent{Kind: game.EventStartRound}); err != nil {
		return err
	}
	return o.advancePhase()
}

// strongholdCounts maps each faction to the strongholds it holds
// alone.
func (o *Orchestrator) strongholdCounts() map[data.Faction]int {
	counts := make(map[data.Faction]int)
	for loc, ld := range o.state.Data.Locations {
		if !ld.Stronghold {
			continue
		}
		occupants := o.state.OccupantsOf(loc)
		if len(occupants) == 1 {
			counts[occupants[0]]++
		}
	}
	return counts
}

// dominantFaction returns the seated faction holding the most
// strongholds, provided it holds at least min and strictly more than
// every rival.
func dominantFaction(counts map[data.Faction]int, min int) (data.Faction, bool) {
	var best data.Faction
	bestCount := 0
	tied := false
	for _, f := range data.AllFactions {
		c := counts[f]
		if c > bestCount {
			best, bestCount, tied = f, c, false
		} else if c == bestCount && c > 0 {
			tied = true
		}
	}
	if bestCount < min || tied {
		return "", false
	}
	return best, true
}

// applyPrediction swaps the victory to the Bene Gesserit when their
// secret prediction named this winner and this turn.
func (o *Orchestrator) applyPrediction(winner data.Faction) data.Faction {
	pred := o.state.Prediction
	if pred.Player == "" || winner == data.BeneGesserit {
		return winner
	}
	if pred.Faction == winner && pred.Turn == o.state.Turn {
		if _, ok := o.state.PlayerByFaction(data.BeneGesserit); ok {
			return data.BeneGesserit
		}
	}
	return winner
}

// internalAbort wraps a logic-level invariant failure in the same
// fatal error shape the reduction engine uses.
func (o *Orchestrator) internalAbort(detail string) error {
	return &game.InternalError{Op: "gameLogic", Detail: detail}
}
