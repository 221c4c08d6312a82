package game

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/landsraad/dune-server-go/internal/data"
	"github.com/landsraad/dune-server-go/internal/game/ids"
)

// Checksum is a digest of the full replicated state. Server and every
// replica must produce the same hash after consuming the same event
// prefix; a mismatch means the streams have diverged.
type Checksum struct {
	Hash    string
	Version int
}

// ComputeChecksum hashes a canonical representation of the state. All
// map iteration is sorted so the result is independent of insertion
// order and identical across processes.
func (g *GameState) ComputeChecksum() Checksum {
	repr := g.buildDeterministicRepresentation()
	sum := sha256.Sum256([]byte(repr))
	return Checksum{Hash: hex.EncodeToString(sum[:]), Version: 1}
}

func (g *GameState) buildDeterministicRepresentation() string {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "GAME:%s|%d|%s|%d|%t|%t|%t|%s\n",
		g.Phase, g.Turn, g.Active, g.StormSector, g.PendingNexus, g.Nexus, g.LoopToSetup, g.Winner)

	buf.WriteString("JOINED:")
	buf.WriteString(strings.Join(sortedPlayerIDs(g.Joined), ","))
	buf.WriteString("\n")

	playerIDs := make([]string, 0, len(g.Players))
	for pid := range g.Players {
		playerIDs = append(playerIDs, string(pid))
	}
	sort.Strings(playerIDs)
	for _, pid := range playerIDs {
		p := g.Players[PlayerID(pid)]
		fmt.Fprintf(&buf, "PLAYER:%s|%s|%d|%t|%d\n",
			pid, p.Faction, p.Spice, p.Shipped, p.ChosenTraitor)
		writeIDSet(&buf, "  TREACHERY", p.TreacheryCards)
		writeIDSet(&buf, "  TRAITOR", p.TraitorCards)
		writeIDSet(&buf, "  OFF_WORLD", p.OffWorld)
		writeIDSet(&buf, "  TANK_FORCES", p.Tanks.Forces)
		writeIDSet(&buf, "  TANK_LEADERS", p.Tanks.Leaders)

		leaderIDs := make([]ids.ObjectID, 0, len(p.Leaders))
		for id := range p.Leaders {
			leaderIDs = append(leaderIDs, id)
		}
		sortObjectIDs(leaderIDs)
		for _, id := range leaderIDs {
			fmt.Fprintf(&buf, "  LEADER:%d=%t\n", id, p.Leaders[id])
		}

		bonuses := make([]string, 0, len(p.Bonuses))
		for b := range p.Bonuses {
			bonuses = append(bonuses, string(b))
		}
		sort.Strings(bonuses)
		fmt.Fprintf(&buf, "  BONUSES:%s\n", strings.Join(bonuses, ","))
	}

	buf.WriteString("PLAY_ORDER:")
	for i, pid := range g.PlayOrder {
		if i > 0 {
			buf.WriteString(",")
		}
		buf.WriteString(string(pid))
	}
	buf.WriteString("\n")

	for _, f := range data.AllFactions {
		if pid, ok := g.Factions[f]; ok {
			fmt.Fprintf(&buf, "FACTION:%s=%s\n", f, pid)
		}
	}

	promptIDs := make([]string, 0, len(g.Prompts))
	for pid := range g.Prompts {
		promptIDs = append(promptIDs, string(pid))
	}
	sort.Strings(promptIDs)
	for _, pid := range promptIDs {
		fmt.Fprintf(&buf, "PROMPT:%s=%s\n", pid, g.Prompts[PlayerID(pid)])
	}

	// Deck order matters; never sort the piles themselves.
	for _, dk := range []DeckKind{DeckTreachery, DeckSpice, DeckStorm, DeckTraitor} {
		deck := g.Decks[dk]
		fmt.Fprintf(&buf, "DECK:%s|draw=%s|discard=%s\n",
			dk, joinIDs(deck.Draw), joinIDs(deck.Discard))
	}

	locs := make([]string, 0, len(g.Board))
	for loc := range g.Board {
		locs = append(locs, string(loc))
	}
	sort.Strings(locs)
	for _, loc := range locs {
		ls := g.Board[data.Location(loc)]
		sectors := make([]int, 0, len(ls.Sectors))
		for s := range ls.Sectors {
			sectors = append(sectors, s)
		}
		sort.Ints(sectors)
		for _, s := range sectors {
			ss := ls.Sectors[s]
			occupied := false
			for _, forces := range ss.Forces {
				if len(forces) > 0 {
					occupied = true
					break
				}
			}
			if ss.Spice == 0 && !occupied {
				continue
			}
			fmt.Fprintf(&buf, "SECTOR:%s|%d|spice=%d\n", loc, s, ss.Spice)
			for _, f := range data.AllFactions {
				if forces := ss.Forces[f]; len(forces) > 0 {
					writeIDSet(&buf, fmt.Sprintf("  FORCES:%s", f), forces)
				}
			}
		}
		if ls.Worm {
			fmt.Fprintf(&buf, "WORM:%s\n", loc)
		}
	}

	fmt.Fprintf(&buf, "BID:%d|%s|%d|%d|passed=%s\n",
		g.Bid.Card, g.Bid.HighBidder, g.Bid.HighBid, g.Bid.Round,
		strings.Join(sortedPlayerIDs(g.Bid.Passed), ","))

	fmt.Fprintf(&buf, "PREDICTION:%s|%s|%d\n",
		g.Prediction.Player, g.Prediction.Faction, g.Prediction.Turn)

	if g.Battle != nil {
		fmt.Fprintf(&buf, "BATTLE:%s|%s|%s\n", g.Battle.Location, g.Battle.Attacker, g.Battle.Defender)
		planIDs := make([]string, 0, len(g.Battle.Plans))
		for pid := range g.Battle.Plans {
			planIDs = append(planIDs, string(pid))
		}
		sort.Strings(planIDs)
		for _, pid := range planIDs {
			plan := g.Battle.Plans[PlayerID(pid)]
			fmt.Fprintf(&buf, "  PLAN:%s|%d|%d|%t|cards=%s\n",
				pid, plan.Leader, plan.Dial, plan.Set, joinIDs(plan.Cards))
		}
	}

	buf.WriteString("ACTED:")
	buf.WriteString(strings.Join(sortedPlayerIDs(g.Acted), ","))
	buf.WriteString("\n")

	objIDs := make([]ids.ObjectID, 0, len(g.Objects))
	for id := range g.Objects {
		objIDs = append(objIDs, id)
	}
	sortObjectIDs(objIDs)
	for _, id := range objIDs {
		info := g.Objects[id]
		fmt.Fprintf(&buf, "OBJECT:%d|%s|%s|%s\n", id, info.Kind, info.Key, info.Faction)
	}

	// History order matters.
	for i, ev := range g.History {
		fmt.Fprintf(&buf, "HISTORY:%d|%s|%s\n", i, ev.Kind, ev.Player)
	}

	return buf.String()
}

func sortedPlayerIDs(set map[PlayerID]struct{}) []string {
	out := make([]string, 0, len(set))
	for pid := range set {
		out = append(out, string(pid))
	}
	sort.Strings(out)
	return out
}

func sortObjectIDs(list []ids.ObjectID) {
	sort.Slice(list, func(i, j int) bool { return list[i] < list[j] })
}

func joinIDs(list []ids.ObjectID) string {
	var sb strings.Builder
	for i, id := range list {
		if i > 0 {
			sb.WriteString(",")
		}
		fmt.Fprintf(&sb, "%d", id)
	}
	return sb.String()
}

func writeIDSet(buf *bytes.Buffer, label string, set map[ids.ObjectID]struct{}) {
	list := make([]ids.ObjectID, 0, len(set))
	for id := range set {
		list = append(list, id)
	}
	sortObjectIDs(list)
	fmt.Fprintf(buf, "%s:%s\n", label, joinIDs(list))
}
