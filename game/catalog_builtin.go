package game

// MardroemeStrength is the strength a Mardroeme target is pinned to while on the board.
const MardroemeStrength = 13

func unit(id, name string, f Faction, row Row, strength int, abilities ...Ability) CardDefinition {
	return CardDefinition{ID: id, Name: name, Faction: f, Category: CategoryUnit, DefaultRow: row, BaseStrength: strength, Abilities: abilities}
}

func hero(id, name string, f Faction, row Row, strength int, abilities ...Ability) CardDefinition {
	d := unit(id, name, f, row, strength, abilities...)
	d.Category = CategoryHero
	return d
}

func bonded(d CardDefinition, group string) CardDefinition {
	d.Abilities = append(d.Abilities, AbilityTightBond)
	d.TightBondGroup = group
	return d
}

func mustered(d CardDefinition, group string) CardDefinition {
	d.Abilities = append(d.Abilities, AbilityMuster)
	d.MusterGroup = group
	return d
}

func leader(id, name string, f Faction) CardDefinition {
	return CardDefinition{ID: id, Name: name, Faction: f, Category: CategoryLeader, Abilities: []Ability{AbilityLeaderDrawExtraCard}}
}

var neutralCards = []CardDefinition{
	{ID: "neutral_biting_frost", Name: "Biting Frost", Faction: FactionNeutral, Category: CategoryWeather, Abilities: []Ability{AbilityBitingFrost}},
	{ID: "neutral_impenetrable_fog", Name: "Impenetrable Fog", Faction: FactionNeutral, Category: CategoryWeather, Abilities: []Ability{AbilityImpenetrableFog}},
	{ID: "neutral_torrential_rain", Name: "Torrential Rain", Faction: FactionNeutral, Category: CategoryWeather, Abilities: []Ability{AbilityTorrentialRain}},
	{ID: "neutral_clear_weather", Name: "Clear Weather", Faction: FactionNeutral, Category: CategoryWeather, Abilities: []Ability{AbilityClearWeather}},
	{ID: "neutral_decoy", Name: "Decoy", Faction: FactionNeutral, Category: CategorySpecial, DefaultRow: RowMelee, Abilities: []Ability{AbilityDecoy}},
	{ID: "neutral_commanders_horn", Name: "Commander's Horn", Faction: FactionNeutral, Category: CategorySpecial, DefaultRow: RowMelee, Abilities: []Ability{AbilityCommandersHorn}},
	{ID: "neutral_scorch", Name: "Scorch", Faction: FactionNeutral, Category: CategorySpecial, Abilities: []Ability{AbilityScorch}},
	{ID: "neutral_mardroeme", Name: "Mardroeme", Faction: FactionNeutral, Category: CategorySpecial, DefaultRow: RowMelee, Abilities: []Ability{AbilityMardroeme}},
}

var factionCards = map[Faction][]struct {
	def    CardDefinition
	copies int
}{
	FactionNorthernRealms: {
		{bonded(unit("nr_blue_stripes_commando", "Blue Stripes Commando", FactionNorthernRealms, RowMelee, 4), "nr_blue_stripes"), 3},
		{bonded(unit("nr_crinfrid_reavers", "Crinfrid Reavers Dragon Hunter", FactionNorthernRealms, RowRanged, 5), "nr_crinfrid"), 3},
		{unit("nr_prince_stennis", "Prince Stennis", FactionNorthernRealms, RowMelee, 5, AbilitySpy), 1},
		{unit("nr_dun_banner_medic", "Dun Banner Medic", FactionNorthernRealms, RowSiege, 5, AbilityMedic), 1},
		{unit("nr_kaedweni_siege_expert", "Kaedweni Siege Expert", FactionNorthernRealms, RowSiege, 1, AbilityMoraleBoost), 2},
		{unit("nr_ballista", "Ballista", FactionNorthernRealms, RowSiege, 6), 2},
		{bonded(unit("nr_catapult", "Catapult", FactionNorthernRealms, RowSiege, 8), "nr_catapult"), 2},
		{hero("nr_vernon_roche", "Vernon Roche", FactionNorthernRealms, RowMelee, 10), 1},
		{unit("nr_keira_metz", "Keira Metz", FactionNorthernRealms, RowRanged, 5), 1},
		{unit("nr_sabrina_glevissig", "Sabrina Glevissig", FactionNorthernRealms, RowRanged, 4), 1},
	},
	FactionNilfgaard: {
		{bonded(unit("ng_impera_brigade_guard", "Impera Brigade Guard", FactionNilfgaard, RowMelee, 3), "ng_impera"), 4},
		{bonded(unit("ng_nausicaa_cavalry_rider", "Nausicaa Cavalry Rider", FactionNilfgaard, RowMelee, 2), "ng_nausicaa"), 3},
		{unit("ng_stefan_skellen", "Stefan Skellen", FactionNilfgaard, RowMelee, 9, AbilitySpy), 1},
		{unit("ng_vattier_de_rideaux", "Vattier de Rideaux", FactionNilfgaard, RowMelee, 4, AbilitySpy), 1},
		{unit("ng_etolian_auxiliary_archers", "Etolian Auxiliary Archers", FactionNilfgaard, RowRanged, 1, AbilityMedic), 2},
		{unit("ng_black_infantry_archer", "Black Infantry Archer", FactionNilfgaard, RowRanged, 10), 2},
		{unit("ng_zerrikanian_fire_scorpion", "Zerrikanian Fire Scorpion", FactionNilfgaard, RowSiege, 5), 1},
		{unit("ng_siege_engineer", "Siege Engineer", FactionNilfgaard, RowSiege, 6), 1},
		{hero("ng_letho_of_gulet", "Letho of Gulet", FactionNilfgaard, RowMelee, 10), 1},
		{unit("ng_cahir", "Cahir Mawr Dyffryn aep Ceallach", FactionNilfgaard, RowMelee, 6), 1},
	},
	FactionScoiatael: {
		{mustered(unit("st_elven_skirmisher", "Elven Skirmisher", FactionScoiatael, RowRanged, 2), "st_elven_skirmisher"), 3},
		{mustered(unit("st_dwarven_skirmisher", "Dwarven Skirmisher", FactionScoiatael, RowMelee, 3), "st_dwarven_skirmisher"), 3},
		{unit("st_havekar_healer", "Havekar Healer", FactionScoiatael, RowRanged, 0, AbilityMedic), 2},
		{unit("st_barclay_els", "Barclay Els", FactionScoiatael, RowMelee, 6, AbilityAgile), 1},
		{unit("st_filavandrel", "Filavandrel aen Fidhail", FactionScoiatael, RowMelee, 6, AbilityAgile), 1},
		{unit("st_ciaran", "Ciaran aep Easnillien", FactionScoiatael, RowMelee, 3, AbilityAgile), 1},
		{unit("st_mahakaman_defender", "Mahakaman Defender", FactionScoiatael, RowMelee, 5), 2},
		{unit("st_milva", "Milva", FactionScoiatael, RowRanged, 10, AbilityMoraleBoost), 1},
		{unit("st_dol_blathanna_archer", "Dol Blathanna Archer", FactionScoiatael, RowRanged, 4), 1},
		{hero("st_iorveth", "Iorveth", FactionScoiatael, RowRanged, 10), 1},
	},
	FactionMonsters: {
		{mustered(unit("mo_arachas", "Arachas", FactionMonsters, RowMelee, 4), "mo_arachas"), 3},
		{mustered(unit("mo_ghoul", "Ghoul", FactionMonsters, RowMelee, 1), "mo_ghoul"), 3},
		{mustered(unit("mo_nekker", "Nekker", FactionMonsters, RowMelee, 2), "mo_nekker"), 3},
		{mustered(unit("mo_crone", "Crone", FactionMonsters, RowMelee, 6), "mo_crone"), 3},
		{unit("mo_earth_elemental", "Earth Elemental", FactionMonsters, RowSiege, 6), 1},
		{unit("mo_fiend", "Fiend", FactionMonsters, RowMelee, 6), 1},
		{unit("mo_gargoyle", "Gargoyle", FactionMonsters, RowRanged, 2), 1},
		{hero("mo_kayran", "Kayran", FactionMonsters, RowMelee, 8, AbilityMoraleBoost), 1},
		{hero("mo_imlerith", "Imlerith", FactionMonsters, RowMelee, 10), 1},
	},
}

var factionLeaders = map[Faction]CardDefinition{
	FactionNorthernRealms: leader("nr_foltest", "Foltest, King of Temeria", FactionNorthernRealms),
	FactionNilfgaard:      leader("ng_emhyr", "Emhyr var Emreis, His Imperial Majesty", FactionNilfgaard),
	FactionScoiatael:      leader("st_francesca", "Francesca Findabair, Queen of Dol Blathanna", FactionScoiatael),
	FactionMonsters:       leader("mo_eredin", "Eredin, Commander of the Red Riders", FactionMonsters),
}

// BuiltinCatalog returns the starter catalog shipped with the server: every
// playable faction gets its own units plus one copy of each neutral card.
func BuiltinCatalog() *Catalog {
	c := NewCatalog()
	for _, def := range neutralCards {
		c.AddDefinition(def)
	}
	for _, f := range PlayableFactions {
		var entries []DeckEntry
		for _, fc := range factionCards[f] {
			c.AddDefinition(fc.def)
			entries = append(entries, DeckEntry{DefinitionID: fc.def.ID, Copies: fc.copies})
		}
		for _, def := range neutralCards {
			entries = append(entries, DeckEntry{DefinitionID: def.ID, Copies: 1})
		}
		c.Decks[f] = entries

		l := factionLeaders[f]
		c.AddDefinition(l)
		c.Leaders[f] = l.ID
	}
	return c
}
