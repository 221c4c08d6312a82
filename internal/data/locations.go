package data

// Territory keys. Sector numbers follow the 18-sector storm track,
// sector 0 being the polar region's reference wedge.
const (
	Arrakeen         Location = "ARRAKEEN"
	Carthag          Location = "CARTHAG"
	SietchTabr       Location = "SIETCH_TABR"
	TueksSietch      Location = "TUEKS_SIETCH"
	HabbanyaSietch   Location = "HABBANYA_SIETCH"
	PolarSink        Location = "POLAR_SINK"
	CielagoNorth     Location = "CIELAGO_NORTH"
	CielagoSouth     Location = "CIELAGO_SOUTH"
	SouthMesa        Location = "SOUTH_MESA"
	RedChasm         Location = "RED_CHASM"
	TheMinorErg      Location = "THE_MINOR_ERG"
	FuneralPlain     Location = "FUNERAL_PLAIN"
	TheGreatFlat     Location = "THE_GREAT_FLAT"
	HabbanyaErg      Location = "HABBANYA_ERG"
	WindPassNorth    Location = "WIND_PASS_NORTH"
	HaggaBasin       Location = "HAGGA_BASIN"
	RockOutcroppings Location = "ROCK_OUTCROPPINGS"
	BrokenLand       Location = "BROKEN_LAND"
	OldGap           Location = "OLD_GAP"
	SihayaRidge      Location = "SIHAYA_RIDGE"
	FalseWallSouth   Location = "FALSE_WALL_SOUTH"
	FalseWallEast    Location = "FALSE_WALL_EAST"
	ImperialBasin    Location = "IMPERIAL_BASIN"
)

func locationTable() map[Location]LocationData {
	table := []LocationData{
		{
			Key: Arrakeen, Name: "Arrakeen",
			Sectors: []int{9}, Stronghold: true, SpiceSector: -1,
			Adjacent: []Location{ImperialBasin, OldGap, BrokenLand},
		},
		{
			Key: Carthag, Name: "Carthag",
			Sectors: []int{10}, Stronghold: true, SpiceSector: -1,
			Adjacent: []Location{ImperialBasin, BrokenLand, HaggaBasin, RockOutcroppings},
		},
		{
			Key: SietchTabr, Name: "Sietch Tabr",
			Sectors: []int{13}, Stronghold: true, SpiceSector: -1,
			Adjacent: []Location{RockOutcroppings, WindPassNorth},
		},
		{
			Key: TueksSietch, Name: "Tuek's Sietch",
			Sectors: []int{4}, Stronghold: true, SpiceSector: -1,
			Adjacent: []Location{SouthMesa, RedChasm, FalseWallSouth},
		},
		{
			Key: HabbanyaSietch, Name: "Habbanya Sietch",
			Sectors: []int{16}, Stronghold: true, SpiceSector: -1,
			Adjacent: []Location{HabbanyaErg, FuneralPlain},
		},
		{
			Key: PolarSink, Name: "Polar Sink",
			// The polar sink sits above the storm track; sector 0 is
			// used as its single bookkeeping sector.
			Sectors: []int{0}, SpiceSector: -1,
			Adjacent: []Location{
				CielagoNorth, TheMinorErg, WindPassNorth,
				HaggaBasin, OldGap, FalseWallEast, ImperialBasin,
			},
		},
		{
			Key: CielagoNorth, Name: "Cielago North",
			Sectors: []int{0, 1, 2}, SpiceSector: 2,
			Adjacent: []Location{PolarSink, CielagoSouth, FalseWallEast},
		},
		{
			Key: CielagoSouth, Name: "Cielago South",
			Sectors: []int{1, 2}, SpiceSector: 1,
			Adjacent: []Location{CielagoNorth, SouthMesa},
		},
		{
			Key: SouthMesa, Name: "South Mesa",
			Sectors: []int{3, 4, 5}, SpiceSector: 4,
			Adjacent: []Location{CielagoSouth, TueksSietch, RedChasm},
		},
		{
			Key: RedChasm, Name: "Red Chasm",
			Sectors: []int{6}, SpiceSector: 6,
			Adjacent: []Location{SouthMesa, TueksSietch, FalseWallSouth},
		},
		{
			Key: TheMinorErg, Name: "The Minor Erg",
			Sectors: []int{4, 5, 6, 7}, SpiceSector: 7,
			Adjacent: []Location{PolarSink, FalseWallSouth, FalseWallEast},
		},
		{
			Key: FuneralPlain, Name: "Funeral Plain",
			Sectors: []int{14}, SpiceSector: 14,
			Adjacent: []Location{HabbanyaSietch, HabbanyaErg, TheGreatFlat},
		},
		{
			Key: TheGreatFlat, Name: "The Great Flat",
			Sectors: []int{14}, SpiceSector: 14,
			Adjacent: []Location{FuneralPlain, WindPassNorth},
		},
		{
			Key: HabbanyaErg, Name: "Habbanya Erg",
			Sectors: []int{15, 16}, SpiceSector: 15,
			Adjacent: []Location{HabbanyaSietch, FuneralPlain},
		},
		{
			Key: WindPassNorth, Name: "Wind Pass North",
			Sectors: []int{16, 17}, SpiceSector: 17,
			Adjacent: []Location{PolarSink, SietchTabr, TheGreatFlat},
		},
		{
			Key: HaggaBasin, Name: "Hagga Basin",
			Sectors: []int{11, 12}, SpiceSector: 12,
			Adjacent: []Location{PolarSink, Carthag, RockOutcroppings},
		},
		{
			Key: RockOutcroppings, Name: "Rock Outcroppings",
			Sectors: []int{12, 13}, SpiceSector: 13,
			Adjacent: []Location{Carthag, SietchTabr, HaggaBasin, BrokenLand},
		},
		{
			Key: BrokenLand, Name: "Broken Land",
			Sectors: []int{10, 11}, SpiceSector: 11,
			Adjacent: []Location{Arrakeen, Carthag, RockOutcroppings, OldGap},
		},
		{
			Key: OldGap, Name: "Old Gap",
			Sectors: []int{8, 9, 10}, SpiceSector: 9,
			Adjacent: []Location{PolarSink, Arrakeen, BrokenLand, SihayaRidge},
		},
		{
			Key: SihayaRidge, Name: "Sihaya Ridge",
			Sectors: []int{8}, SpiceSector: 8,
			Adjacent: []Location{OldGap, FalseWallEast},
		},
		{
			Key: FalseWallSouth, Name: "False Wall South",
			Sectors: []int{3, 4}, SpiceSector: -1,
			Adjacent: []Location{TueksSietch, RedChasm, TheMinorErg},
		},
		{
			Key: FalseWallEast, Name: "False Wall East",
			Sectors: []int{4, 5, 6, 7, 8}, SpiceSector: -1,
			Adjacent: []Location{PolarSink, CielagoNorth, TheMinorErg, SihayaRidge},
		},
		{
			Key: ImperialBasin, Name: "Imperial Basin",
			Sectors: []int{8, 9, 10}, SpiceSector: -1,
			Adjacent: []Location{PolarSink, Arrakeen, Carthag},
		},
	}

	m := make(map[Location]LocationData, len(table))
	for _, ld := range table {
		m[ld.Key] = ld
	}
	return m
}
