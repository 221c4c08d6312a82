package game

import (
	"github.com/landsraad/dune-server-go/internal/data"
	"github.com/landsraad/dune-server-go/internal/game/ids"
	"github.com/landsraad/dune-server-go/internal/game/phase"
)

// Validate is the pure admission predicate for client-originable
// events: phase applicability, actor identity, and object ownership.
// It never mutates state. Server-only kinds are rejected
// unconditionally; they exist only on the trusted path.
func Validate(g *GameState, ev GameEvent) bool {
	if !ev.Kind.ClientOriginable() {
		return false
	}

	switch ev.Kind {
	case EventChooseFaction:
		return validateChooseFaction(g, ev)
	case EventChooseTraitor:
		return validateChooseTraitor(g, ev)
	case EventMakeFactionPrediction:
		return validateFactionPrediction(g, ev)
	case EventMakeTurnPrediction:
		return validateTurnPrediction(g, ev)
	case EventPass:
		return validatePass(g, ev)
	case EventShipForces:
		return validateShipForces(g, ev)
	case EventMoveForces:
		return validateMoveForces(g, ev)
	case EventMakeBid:
		return validateMakeBid(g, ev)
	case EventRevive:
		return validateRevive(g, ev)
	case EventSetBattlePlan:
		return validateSetBattlePlan(g, ev)
	case EventBribe:
		return validateBribe(g, ev)
	default:
		return false
	}
}

func validateChooseFaction(g *GameState, ev GameEvent) bool {
	if !g.Phase.IsSetup(phase.SetupChooseFactions) {
		return false
	}
	if g.Active == "" || g.Active != ev.Player {
		return false
	}
	if _, joined := g.Joined[ev.Player]; !joined {
		return false
	}
	if _, seated := g.Players[ev.Player]; seated {
		return false
	}
	if _, ok := g.Data.FactionData(ev.Faction); !ok {
		return false
	}
	_, taken := g.Factions[ev.Faction]
	return !taken
}

func validateChooseTraitor(g *GameState, ev GameEvent) bool {
	if !g.Phase.IsSetup(phase.SetupDealTraitors) {
		return false
	}
	p, seated := g.Players[ev.Player]
	if !seated {
		return false
	}
	// Harkonnen keeps all four traitors; there is no choice to make.
	if p.Faction == data.Harkonnen {
		return false
	}
	if g.Prompts[ev.Player] != PromptTraitor {
		return false
	}
	if p.ChosenTraitor != ids.None {
		return false
	}
	_, dealt := p.TraitorCards[ev.Card]
	return dealt
}

func validateFactionPrediction(g *GameState, ev GameEvent) bool {
	if !g.Phase.IsSetup(phase.SetupPrediction) {
		return false
	}
	p, seated := g.Players[ev.Player]
	if !seated || p.Faction != data.BeneGesserit {
		return false
	}
	if g.Prompts[ev.Player] != PromptFactionPrediction {
		return false
	}
	if _, ok := g.Data.FactionData(ev.Faction); !ok {
		return false
	}
	// Predicting your own victory is not a prediction.
	return ev.Faction != data.BeneGesserit
}

func validateTurnPrediction(g *GameState, ev GameEvent) bool {
	if !g.Phase.IsSetup(phase.SetupPrediction) {
		return false
	}
	p, seated := g.Players[ev.Player]
	if !seated || p.Faction != data.BeneGesserit {
		return false
	}
	if g.Prompts[ev.Player] != PromptTurnPrediction {
		return false
	}
	return ev.Amount >= 1 && ev.Amount <= MaxTurns
}

func validatePass(g *GameState, ev GameEvent) bool {
	switch {
	case g.Phase.IsSetup(phase.SetupChooseFactions):
		// Declining to take a seat. Allowed for any joined player when
		// no one holds the turn, or by the player who does.
		if _, joined := g.Joined[ev.Player]; !joined {
			return false
		}
		return g.Active == "" || g.Active == ev.Player
	case g.Phase == phase.Bidding:
		if _, seated := g.Players[ev.Player]; !seated {
			return false
		}
		if g.Bid.Card == ids.None || g.Active != ev.Player {
			return false
		}
		_, passed := g.Bid.Passed[ev.Player]
		return !passed
	case g.Phase == phase.Revival, g.Phase == phase.Movement:
		if _, seated := g.Players[ev.Player]; !seated {
			return false
		}
		if g.Active != ev.Player {
			return false
		}
		_, acted := g.Acted[ev.Player]
		return !acted
	default:
		return false
	}
}

func validateShipForces(g *GameState, ev GameEvent) bool {
	p, seated := g.Players[ev.Player]
	if !seated {
		return false
	}
	ld, ok := g.Data.LocationData(ev.Location)
	if !ok || !sectorOf(ld, ev.Sector) {
		return false
	}
	if !ownsAllOffWorld(p, ev.Forces) {
		return false
	}

	switch {
	case g.Phase.IsSetup(phase.SetupPlaceForces):
		if p.Shipped {
			return false
		}
		fd, ok := g.Data.FactionData(p.Faction)
		if !ok {
			return false
		}
		// Factions with a fixed home must start there; an empty
		// StartingLocation means no restriction.
		return fd.StartingLocation == "" || fd.StartingLocation == ev.Location
	case g.Phase == phase.Movement:
		if g.Active != ev.Player {
			return false
		}
		if _, acted := g.Acted[ev.Player]; acted {
			return false
		}
		// Nothing ships into the storm.
		return ev.Sector != g.StormSector
	default:
		return false
	}
}

func validateMoveForces(g *GameState, ev GameEvent) bool {
	if g.Phase != phase.Movement {
		return false
	}
	p, seated := g.Players[ev.Player]
	if !seated {
		return false
	}
	if g.Active != ev.Player {
		return false
	}
	if _, acted := g.Acted[ev.Player]; acted {
		return false
	}

	fromLD, ok := g.Data.LocationData(ev.FromLocation)
	if !ok || !sectorOf(fromLD, ev.FromSector) {
		return false
	}
	toLD, ok := g.Data.LocationData(ev.Location)
	if !ok || !sectorOf(toLD, ev.Sector) {
		return false
	}
	if ev.Location != ev.FromLocation && !adjacent(fromLD, ev.Location) {
		return false
	}
	if ev.Sector == g.StormSector {
		return false
	}

	present := g.ForcesAt(ev.FromLocation, ev.FromSector, p.Faction)
	if len(ev.Forces) == 0 || hasDuplicates(ev.Forces) {
		return false
	}
	for _, id := range ev.Forces {
		if _, ok := present[id]; !ok {
			return false
		}
	}
	return true
}

func validateMakeBid(g *GameState, ev GameEvent) bool {
	if g.Phase != phase.Bidding {
		return false
	}
	p, seated := g.Players[ev.Player]
	if !seated {
		return false
	}
	if g.Bid.Card == ids.None || g.Active != ev.Player {
		return false
	}
	if _, passed := g.Bid.Passed[ev.Player]; passed {
		return false
	}
	return ev.Amount > g.Bid.HighBid && ev.Amount <= p.Spice
}

func validateRevive(g *GameState, ev GameEvent) bool {
	if g.Phase != phase.Revival {
		return false
	}
	p, seated := g.Players[ev.Player]
	if !seated {
		return false
	}
	if g.Active != ev.Player {
		return false
	}
	if _, acted := g.Acted[ev.Player]; acted {
		return false
	}
	if len(ev.Forces) == 0 && ev.Leader == ids.None {
		return false
	}
	if hasDuplicates(ev.Forces) {
		return false
	}
	for _, id := range ev.Forces {
		if _, tanked := p.Tanks.Forces[id]; !tanked {
			return false
		}
	}
	if ev.Leader != ids.None {
		if _, tanked := p.Tanks.Leaders[ev.Leader]; !tanked {
			return false
		}
	}
	cost, err := revivalCost(g, p, ev)
	if err != nil {
		return false
	}
	return cost <= p.Spice
}

func validateSetBattlePlan(g *GameState, ev GameEvent) bool {
	if g.Phase != phase.Battle || g.Battle == nil {
		return false
	}
	p, seated := g.Players[ev.Player]
	if !seated {
		return false
	}
	if ev.Player != g.Battle.Attacker && ev.Player != g.Battle.Defender {
		return false
	}
	if plan, ok := g.Battle.Plans[ev.Player]; ok && plan.Set {
		return false
	}
	if ev.Leader != ids.None {
		alive, owned := p.Leaders[ev.Leader]
		if !owned || !alive {
			return false
		}
	}
	if hasDuplicates(ev.Cards) {
		return false
	}
	for _, id := range ev.Cards {
		if _, held := p.TreacheryCards[id]; !held {
			return false
		}
	}
	if ev.Amount < 0 {
		return false
	}
	return ev.Amount <= forcesInTerritory(g, g.Battle.Location, p.Faction)
}

func validateBribe(g *GameState, ev GameEvent) bool {
	if g.Phase.Kind == phase.KindSetup || g.Phase == phase.EndGame {
		return false
	}
	p, seated := g.Players[ev.Player]
	if !seated {
		return false
	}
	if _, targetSeated := g.Players[ev.Target]; !targetSeated {
		return false
	}
	if ev.Target == ev.Player {
		return false
	}
	return ev.Amount >= 1 && ev.Amount <= p.Spice
}

func sectorOf(ld data.LocationData, sector int) bool {
	for _, s := range ld.Sectors {
		if s == sector {
			return true
		}
	}
	return false
}

func adjacent(from data.LocationData, to data.Location) bool {
	for _, loc := range from.Adjacent {
		if loc == to {
			return true
		}
	}
	return false
}

func hasDuplicates(idsList []ids.ObjectID) bool {
	seen := make(map[ids.ObjectID]struct{}, len(idsList))
	for _, id := range idsList {
		if _, dup := seen[id]; dup {
			return true
		}
		seen[id] = struct{}{}
	}
	return false
}

func ownsAllOffWorld(p *Player, forces []ids.ObjectID) bool {
	if len(forces) == 0 || hasDuplicates(forces) {
		return false
	}
	for _, id := range forces {
		if _, ok := p.OffWorld[id]; !ok {
			return false
		}
	}
	return true
}

func forcesInTerritory(g *GameState, loc data.Location, f data.Faction) int {
	ls, ok := g.Board[loc]
	if !ok {
		return 0
	}
	total := 0
	for _, ss := range ls.Sectors {
		total += len(ss.Forces[f])
	}
	return total
}

// revivalCost prices a revival request: forces beyond the faction's
// free allotment cost two spice each, a leader costs its strength.
func revivalCost(g *GameState, p *Player, ev GameEvent) (int, error) {
	fd, ok := g.Data.FactionData(p.Faction)
	if !ok {
		return 0, internalErrorf("revivalCost", "unknown faction %s", p.Faction)
	}
	cost := 0
	paid := len(ev.Forces) - fd.FreeRevivals
	if paid > 0 {
		cost += paid * 2
	}
	if ev.Leader != ids.None {
		info, ok := g.Objects[ev.Leader]
		if !ok {
			return 0, internalErrorf("revivalCost", "leader object %d missing", ev.Leader)
		}
		ld, ok := g.Data.LeaderData(info.Key)
		if !ok {
			return 0, internalErrorf("revivalCost", "unknown leader key %q", info.Key)
		}
		cost += ld.Strength
	}
	return cost, nil
}
