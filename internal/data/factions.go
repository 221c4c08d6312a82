package data

func factionTable() map[Faction]FactionData {
	table := []FactionData{
		{
			Faction:          Atreides,
			Name:             "House Atreides",
			StartingSpice:    10,
			TroopTotal:       20,
			StartingForce:    10,
			FreeRevivals:     2,
			StartingLocation: Arrakeen,
			StartingSector:   9,
		},
		{
			Faction:          Harkonnen,
			Name:             "House Harkonnen",
			StartingSpice:    10,
			TroopTotal:       20,
			StartingForce:    10,
			FreeRevivals:     2,
			StartingLocation: Carthag,
			StartingSector:   10,
		},
		{
			Faction:          Fremen,
			Name:             "Fremen",
			StartingSpice:    3,
			TroopTotal:       20,
			StartingForce:    10,
			FreeRevivals:     3,
			StartingLocation: SietchTabr,
			StartingSector:   13,
		},
		{
			Faction:          BeneGesserit,
			Name:             "Bene Gesserit",
			StartingSpice:    5,
			TroopTotal:       20,
			StartingForce:    1,
			FreeRevivals:     1,
			StartingLocation: PolarSink,
			StartingSector:   0,
		},
		{
			Faction:          SpacingGuild,
			Name:             "Spacing Guild",
			StartingSpice:    5,
			TroopTotal:       20,
			StartingForce:    5,
			FreeRevivals:     1,
			StartingLocation: TueksSietch,
			StartingSector:   4,
		},
		{
			// The Emperor's forces start off-planet: no placement
			// restriction because nothing is placed during setup.
			Faction:       Emperor,
			Name:          "Emperor",
			StartingSpice: 10,
			TroopTotal:    20,
			StartingForce: 0,
			FreeRevivals:  1,
		},
	}

	m := make(map[Faction]FactionData, len(table))
	for _, fd := range table {
		m[fd.Faction] = fd
	}
	return m
}

func leaderTable() map[string]LeaderData {
	table := []LeaderData{
		// Atreides
		{Key: "duncan_idaho", Name: "Duncan Idaho", Faction: Atreides, Strength: 2},
		{Key: "dr_yueh", Name: "Dr. Wellington Yueh", Faction: Atreides, Strength: 1},
		{Key: "gurney_halleck", Name: "Gurney Halleck", Faction: Atreides, Strength: 4},
		{Key: "lady_jessica", Name: "Lady Jessica", Faction: Atreides, Strength: 5},
		{Key: "thufir_hawat", Name: "Thufir Hawat", Faction: Atreides, Strength: 5},

		// Harkonnen
		{Key: "umman_kudu", Name: "Umman Kudu", Faction: Harkonnen, Strength: 1},
		{Key: "captain_iakin_nefud", Name: "Captain Iakin Nefud", Faction: Harkonnen, Strength: 2},
		{Key: "piter_de_vries", Name: "Piter de Vries", Faction: Harkonnen, Strength: 3},
		{Key: "beast_rabban", Name: "Beast Rabban", Faction: Harkonnen, Strength: 4},
		{Key: "feyd_rautha", Name: "Feyd-Rautha", Faction: Harkonnen, Strength: 6},

		// Fremen
		{Key: "jamis", Name: "Jamis", Faction: Fremen, Strength: 2},
		{Key: "shadout_mapes", Name: "Shadout Mapes", Faction: Fremen, Strength: 3},
		{Key: "otheym", Name: "Otheym", Faction: Fremen, Strength: 5},
		{Key: "chani", Name: "Chani", Faction: Fremen, Strength: 6},
		{Key: "stilgar", Name: "Stilgar", Faction: Fremen, Strength: 7},

		// Bene Gesserit
		{Key: "wanna_yueh", Name: "Wanna Yueh", Faction: BeneGesserit, Strength: 5},
		{Key: "alia", Name: "Alia", Faction: BeneGesserit, Strength: 5},
		{Key: "margot_lady_fenring", Name: "Margot Lady Fenring", Faction: BeneGesserit, Strength: 5},
		{Key: "princess_irulan", Name: "Princess Irulan", Faction: BeneGesserit, Strength: 5},
		{Key: "mother_ramallo", Name: "Mother Ramallo", Faction: BeneGesserit, Strength: 5},

		// Spacing Guild
		{Key: "staban_tuek", Name: "Staban Tuek", Faction: SpacingGuild, Strength: 5},
		{Key: "master_bewt", Name: "Master Bewt", Faction: SpacingGuild, Strength: 3},
		{Key: "esmar_tuek", Name: "Esmar Tuek", Faction: SpacingGuild, Strength: 3},
		{Key: "soo_soo_sook", Name: "Soo-Soo Sook", Faction: SpacingGuild, Strength: 2},
		{Key: "guild_rep", Name: "Guild Rep", Faction: SpacingGuild, Strength: 1},

		// Emperor
		{Key: "captain_aramsham", Name: "Captain Aramsham", Faction: Emperor, Strength: 5},
		{Key: "caid", Name: "Caid", Faction: Emperor, Strength: 3},
		{Key: "burseg", Name: "Burseg", Faction: Emperor, Strength: 3},
		{Key: "bashar", Name: "Bashar", Faction: Emperor, Strength: 2},
		{Key: "count_fenring", Name: "Count Hasimir Fenring", Faction: Emperor, Strength: 6},
	}

	m := make(map[string]LeaderData, len(table))
	for _, ld := range table {
		m[ld.Key] = ld
	}
	return m
}
