// Package phase models the game-turn state machine: the six setup
// subphases, the four storm subphases, and the repeating per-turn
// cycle through bidding, movement, battle, and collection.
package phase

import "fmt"

// Kind is the top-level phase discriminator.
type Kind int

const (
	KindSetup Kind = iota
	KindStorm
	KindSpiceBlow
	KindNexus
	KindBidding
	KindRevival
	KindMovement
	KindBattle
	KindCollection
	KindControl
	KindEndGame
)

var kindNames = map[Kind]string{
	KindSetup:      "SETUP",
	KindStorm:      "STORM",
	KindSpiceBlow:  "SPICE_BLOW",
	KindNexus:      "NEXUS",
	KindBidding:    "BIDDING",
	KindRevival:    "REVIVAL",
	KindMovement:   "MOVEMENT",
	KindBattle:     "BATTLE",
	KindCollection: "COLLECTION",
	KindControl:    "CONTROL",
	KindEndGame:    "END_GAME",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("KIND_%d", int(k))
}

// SetupStep enumerates the setup subphases in play order.
type SetupStep int

const (
	SetupChooseFactions SetupStep = iota
	SetupPrediction
	SetupAtStart
	SetupDealTraitors
	SetupPlaceForces
	SetupDealTreachery
)

var setupNames = map[SetupStep]string{
	SetupChooseFactions: "CHOOSE_FACTIONS",
	SetupPrediction:     "PREDICTION",
	SetupAtStart:        "AT_START",
	SetupDealTraitors:   "DEAL_TRAITORS",
	SetupPlaceForces:    "PLACE_FORCES",
	SetupDealTreachery:  "DEAL_TREACHERY",
}

func (s SetupStep) String() string {
	if name, ok := setupNames[s]; ok {
		return name
	}
	return fmt.Sprintf("SETUP_%d", int(s))
}

// StormStep enumerates the storm subphases in play order.
type StormStep int

const (
	StormReveal StormStep = iota
	StormWeatherControl
	StormFamilyAtomics
	StormMoveStorm
)

var stormNames = map[StormStep]string{
	StormReveal:         "REVEAL",
	StormWeatherControl: "WEATHER_CONTROL",
	StormFamilyAtomics:  "FAMILY_ATOMICS",
	StormMoveStorm:      "MOVE_STORM",
}

func (s StormStep) String() string {
	if name, ok := stormNames[s]; ok {
		return name
	}
	return fmt.Sprintf("STORM_%d", int(s))
}

// Phase is a comparable value identifying the current position in the
// turn structure. Setup and Storm carry a subphase; the subphase field
// for the other kinds is always zero so plain == comparison works.
type Phase struct {
	Kind  Kind      `json:"kind"`
	Setup SetupStep `json:"setup,omitempty"`
	Storm StormStep `json:"storm,omitempty"`
}

// Canonical constructors.
func Setup(step SetupStep) Phase { return Phase{Kind: KindSetup, Setup: step} }
func Storm(step StormStep) Phase { return Phase{Kind: KindStorm, Storm: step} }

var (
	SpiceBlow  = Phase{Kind: KindSpiceBlow}
	Nexus      = Phase{Kind: KindNexus}
	Bidding    = Phase{Kind: KindBidding}
	Revival    = Phase{Kind: KindRevival}
	Movement   = Phase{Kind: KindMovement}
	Battle     = Phase{Kind: KindBattle}
	Collection = Phase{Kind: KindCollection}
	Control    = Phase{Kind: KindControl}
	EndGame    = Phase{Kind: KindEndGame}
)

func (p Phase) String() string {
	switch p.Kind {
	case KindSetup:
		return fmt.Sprintf("SETUP/%s", p.Setup)
	case KindStorm:
		return fmt.Sprintf("STORM/%s", p.Storm)
	default:
		return p.Kind.String()
	}
}

// Next returns the successor phase. The progression is deterministic
// and total: setup subphases in order, then the per-turn cycle with
// Control wrapping back to Storm/Reveal. EndGame is absorbing and
// only entered through the EndGame event, never through Next.
//
// loopToSetup selects the Control successor: false resumes the next
// game turn at Storm/Reveal, true starts a fresh game at
// Setup/ChooseFactions. Historical rule sets disagree on this point,
// so it is a session configuration choice rather than a constant.
func (p Phase) Next(loopToSetup bool) Phase {
	switch p.Kind {
	case KindSetup:
		if p.Setup < SetupDealTreachery {
			return Setup(p.Setup + 1)
		}
		return Storm(StormReveal)
	case KindStorm:
		if p.Storm < StormMoveStorm {
			return Storm(p.Storm + 1)
		}
		return SpiceBlow
	case KindSpiceBlow:
		return Nexus
	case KindNexus:
		return Bidding
	case KindBidding:
		return Revival
	case KindRevival:
		return Movement
	case KindMovement:
		return Battle
	case KindBattle:
		return Collection
	case KindCollection:
		return Control
	case KindControl:
		if loopToSetup {
			return Setup(SetupChooseFactions)
		}
		return Storm(StormReveal)
	case KindEndGame:
		return EndGame
	default:
		return EndGame
	}
}

// IsSetup reports whether the phase is the given setup subphase.
func (p Phase) IsSetup(step SetupStep) bool {
	return p.Kind == KindSetup && p.Setup == step
}

// IsStorm reports whether the phase is the given storm subphase.
func (p Phase) IsStorm(step StormStep) bool {
	return p.Kind == KindStorm && p.Storm == step
}
