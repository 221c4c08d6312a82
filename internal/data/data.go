// Package data holds the static game configuration: faction starting
// values, leader roster, board geography, and card tables. The tables
// are built once at process start and treated as immutable for the
// lifetime of the session; the engine only reads them through the
// typed lookup methods on Data.
package data

import "sort"

// Faction identifies one of the six playable sides.
type Faction string

const (
	Atreides     Faction = "ATREIDES"
	Harkonnen    Faction = "HARKONNEN"
	Fremen       Faction = "FREMEN"
	BeneGesserit Faction = "BENE_GESSERIT"
	SpacingGuild Faction = "SPACING_GUILD"
	Emperor      Faction = "EMPEROR"
)

// AllFactions lists every playable faction in canonical order.
var AllFactions = []Faction{
	Atreides,
	Harkonnen,
	Fremen,
	BeneGesserit,
	SpacingGuild,
	Emperor,
}

// Location identifies a territory on the board.
type Location string

// FactionData describes a faction's fixed starting configuration.
type FactionData struct {
	Faction       Faction
	Name          string
	StartingSpice int
	TroopTotal    int
	StartingForce int
	FreeRevivals  int
	// StartingLocation restricts where the faction places its starting
	// forces; empty means no restriction.
	StartingLocation Location
	StartingSector   int
}

// LeaderData describes a leader disc.
type LeaderData struct {
	Key      string
	Name     string
	Faction  Faction
	Strength int
}

// LocationData describes a territory and its sector geometry.
type LocationData struct {
	Key        Location
	Name       string
	Sectors    []int
	Stronghold bool
	// SpiceSector is the sector a spice blow lands in; -1 for
	// territories that never receive spice.
	SpiceSector int
	Adjacent    []Location
}

// Data is the aggregate static configuration table set.
type Data struct {
	Factions       map[Faction]FactionData
	Leaders        map[string]LeaderData
	Locations      map[Location]LocationData
	TreacheryCards map[string]TreacheryCardData
	SpiceCards     map[string]SpiceCardData
	StormCards     map[string]StormCardData
}

// Load builds the full static table set. The result must be treated as
// read-only; every session shares one instance.
func Load() *Data {
	return &Data{
		Factions:       factionTable(),
		Leaders:        leaderTable(),
		Locations:      locationTable(),
		TreacheryCards: treacheryTable(),
		SpiceCards:     spiceTable(),
		StormCards:     stormTable(),
	}
}

// FactionData returns the configuration for a faction.
func (d *Data) FactionData(f Faction) (FactionData, bool) {
	fd, ok := d.Factions[f]
	return fd, ok
}

// LeaderData returns the configuration for a leader key.
func (d *Data) LeaderData(key string) (LeaderData, bool) {
	ld, ok := d.Leaders[key]
	return ld, ok
}

// LocationData returns the configuration for a territory.
func (d *Data) LocationData(loc Location) (LocationData, bool) {
	ld, ok := d.Locations[loc]
	return ld, ok
}

// TreacheryCardData returns the metadata for a treachery card key.
func (d *Data) TreacheryCardData(key string) (TreacheryCardData, bool) {
	cd, ok := d.TreacheryCards[key]
	return cd, ok
}

// SpiceCardData returns the metadata for a spice card key.
func (d *Data) SpiceCardData(key string) (SpiceCardData, bool) {
	cd, ok := d.SpiceCards[key]
	return cd, ok
}

// StormCardData returns the metadata for a storm card key.
func (d *Data) StormCardData(key string) (StormCardData, bool) {
	cd, ok := d.StormCards[key]
	return cd, ok
}

// TreacheryCardKeys returns every treachery card key in canonical
// (sorted) order.
func (d *Data) TreacheryCardKeys() []string {
	return sortedKeys(d.TreacheryCards)
}

// SpiceCardKeys returns every spice card key in canonical order.
func (d *Data) SpiceCardKeys() []string {
	return sortedKeys(d.SpiceCards)
}

// StormCardKeys returns every storm card key in canonical order.
func (d *Data) StormCardKeys() []string {
	return sortedKeys(d.StormCards)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// LeadersOf returns the leader keys belonging to a faction, in
// canonical (sorted) order.
func (d *Data) LeadersOf(f Faction) []string {
	keys := make([]string, 0, 5)
	for key, ld := range d.Leaders {
		if ld.Faction == f {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}
