package data

// TreacheryCardKind groups treachery cards by how they are played.
type TreacheryCardKind string

const (
	TreacheryWeapon    TreacheryCardKind = "WEAPON"
	TreacheryDefense   TreacheryCardKind = "DEFENSE"
	TreacherySpecial   TreacheryCardKind = "SPECIAL"
	TreacheryWorthless TreacheryCardKind = "WORTHLESS"
)

// TreacheryCardData describes one treachery card design. Count is the
// number of physical copies in the deck; each copy is spawned as its
// own object so duplicates remain distinguishable.
type TreacheryCardData struct {
	Key   string
	Name  string
	Kind  TreacheryCardKind
	Count int
}

// SpiceCardData describes one spice deck card. Shai-Hulud cards carry
// no territory.
type SpiceCardData struct {
	Key       string
	Name      string
	Location  Location
	Amount    int
	ShaiHulud bool
	Count     int
}

// StormCardData describes one storm deck card: the number of sectors
// the storm moves when it is revealed.
type StormCardData struct {
	Key  string
	Move int
}

func treacheryTable() map[string]TreacheryCardData {
	table := []TreacheryCardData{
		{Key: "lasgun", Name: "Lasgun", Kind: TreacheryWeapon, Count: 1},
		{Key: "crysknife", Name: "Crysknife", Kind: TreacheryWeapon, Count: 1},
		{Key: "maula_pistol", Name: "Maula Pistol", Kind: TreacheryWeapon, Count: 1},
		{Key: "slip_tip", Name: "Slip Tip", Kind: TreacheryWeapon, Count: 1},
		{Key: "stunner", Name: "Stunner", Kind: TreacheryWeapon, Count: 1},
		{Key: "chaumas", Name: "Chaumas", Kind: TreacheryWeapon, Count: 1},
		{Key: "chaumurky", Name: "Chaumurky", Kind: TreacheryWeapon, Count: 1},
		{Key: "ellaca_drug", Name: "Ellaca Drug", Kind: TreacheryWeapon, Count: 1},
		{Key: "gom_jabbar", Name: "Gom Jabbar", Kind: TreacheryWeapon, Count: 1},
		{Key: "shield", Name: "Shield", Kind: TreacheryDefense, Count: 4},
		{Key: "snooper", Name: "Snooper", Kind: TreacheryDefense, Count: 4},
		{Key: "karama", Name: "Karama", Kind: TreacherySpecial, Count: 2},
		{Key: "truthtrance", Name: "Truthtrance", Kind: TreacherySpecial, Count: 2},
		{Key: "weather_control", Name: "Weather Control", Kind: TreacherySpecial, Count: 1},
		{Key: "family_atomics", Name: "Family Atomics", Kind: TreacherySpecial, Count: 1},
		{Key: "hajr", Name: "Hajr", Kind: TreacherySpecial, Count: 1},
		{Key: "tleilaxu_ghola", Name: "Tleilaxu Ghola", Kind: TreacherySpecial, Count: 1},
		{Key: "cheap_hero", Name: "Cheap Hero", Kind: TreacherySpecial, Count: 3},
		{Key: "baliset", Name: "Baliset", Kind: TreacheryWorthless, Count: 1},
		{Key: "jubba_cloak", Name: "Jubba Cloak", Kind: TreacheryWorthless, Count: 1},
		{Key: "kulon", Name: "Kulon", Kind: TreacheryWorthless, Count: 1},
		{Key: "la_la_la", Name: "La, La, La", Kind: TreacheryWorthless, Count: 1},
		{Key: "trip_to_gamont", Name: "Trip to Gamont", Kind: TreacheryWorthless, Count: 1},
	}

	m := make(map[string]TreacheryCardData, len(table))
	for _, cd := range table {
		m[cd.Key] = cd
	}
	return m
}

func spiceTable() map[string]SpiceCardData {
	table := []SpiceCardData{
		{Key: "shai_hulud", Name: "Shai-Hulud", ShaiHulud: true, Count: 6},
		{Key: "cielago_north", Name: "Cielago North", Location: CielagoNorth, Amount: 8, Count: 1},
		{Key: "cielago_south", Name: "Cielago South", Location: CielagoSouth, Amount: 12, Count: 1},
		{Key: "south_mesa", Name: "South Mesa", Location: SouthMesa, Amount: 10, Count: 1},
		{Key: "red_chasm", Name: "Red Chasm", Location: RedChasm, Amount: 8, Count: 1},
		{Key: "the_minor_erg", Name: "The Minor Erg", Location: TheMinorErg, Amount: 8, Count: 1},
		{Key: "funeral_plain", Name: "Funeral Plain", Location: FuneralPlain, Amount: 6, Count: 1},
		{Key: "the_great_flat", Name: "The Great Flat", Location: TheGreatFlat, Amount: 10, Count: 1},
		{Key: "habbanya_erg", Name: "Habbanya Erg", Location: HabbanyaErg, Amount: 8, Count: 1},
		{Key: "wind_pass_north", Name: "Wind Pass North", Location: WindPassNorth, Amount: 6, Count: 1},
		{Key: "hagga_basin", Name: "Hagga Basin", Location: HaggaBasin, Amount: 6, Count: 1},
		{Key: "rock_outcroppings", Name: "Rock Outcroppings", Location: RockOutcroppings, Amount: 6, Count: 1},
		{Key: "broken_land", Name: "Broken Land", Location: BrokenLand, Amount: 8, Count: 1},
		{Key: "old_gap", Name: "Old Gap", Location: OldGap, Amount: 6, Count: 1},
		{Key: "sihaya_ridge", Name: "Sihaya Ridge", Location: SihayaRidge, Amount: 6, Count: 1},
	}

	m := make(map[string]SpiceCardData, len(table))
	for _, cd := range table {
		m[cd.Key] = cd
	}
	return m
}

func stormTable() map[string]StormCardData {
	table := []StormCardData{
		{Key: "storm_1", Move: 1},
		{Key: "storm_2", Move: 2},
		{Key: "storm_3", Move: 3},
		{Key: "storm_4", Move: 4},
		{Key: "storm_5", Move: 5},
		{Key: "storm_6", Move: 6},
	}

	m := make(map[string]StormCardData, len(table))
	for _, cd := range table {
		m[cd.Key] = cd
	}
	return m
}
