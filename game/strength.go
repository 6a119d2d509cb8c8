package game

// Recalculate recomputes every card's current strength from scratch.
// Order matters: weather pins first, then horn, morale and tight bond work
// on the pinned values. Running it twice yields the same result.
func Recalculate(s *GameBoardState) {
	for _, side := range []*PlayerBoardState{&s.Host, &s.Guest} {
		for _, zone := range [][]*CardInstance{side.Deck, side.Hand, side.Graveyard} {
			for _, c := range zone {
				c.CurrentStrength = c.BaseStrength()
			}
		}
		if side.Leader != nil {
			side.Leader.CurrentStrength = side.Leader.BaseStrength()
		}
	}
	for _, c := range s.Weather {
		c.CurrentStrength = c.BaseStrength()
	}

	pinned := activeWeatherRows(s.Weather)
	for _, side := range []*PlayerBoardState{&s.Host, &s.Guest} {
		for _, r := range Rows {
			row := *side.Row(r)
			for _, c := range row {
				c.CurrentStrength = c.BaseStrength()
				c.OnBoard = true
			}
			if pinned[r] {
				applyWeather(row)
			}
			applyHorn(row)
			applyMorale(row)
			applyTightBond(row)
		}
	}
}

// activeWeatherRows reports which lanes are pinned by the weather list.
func activeWeatherRows(weather []*CardInstance) map[Row]bool {
	rows := make(map[Row]bool, len(weatherRows))
	for _, c := range weather {
		for _, a := range c.Definition.Abilities {
			if r, ok := weatherRows[a]; ok {
				rows[r] = true
			}
		}
	}
	return rows
}

func applyWeather(row []*CardInstance) {
	for _, c := range row {
		if c.affectable() {
			c.CurrentStrength = 1
		}
	}
}

func applyHorn(row []*CardInstance) {
	horn := false
	for _, c := range row {
		if c.Definition.HasAbility(AbilityCommandersHorn) {
			horn = true
			break
		}
	}
	if !horn {
		return
	}
	for _, c := range row {
		if c.affectable() {
			c.CurrentStrength *= 2
		}
	}
}

func applyMorale(row []*CardInstance) {
	boosts := 0
	for _, c := range row {
		if c.Definition.HasAbility(AbilityMoraleBoost) {
			boosts++
		}
	}
	if boosts == 0 {
		return
	}
	for _, c := range row {
		if c.affectable() && !c.Definition.HasAbility(AbilityMoraleBoost) {
			c.CurrentStrength += boosts
		}
	}
}

func applyTightBond(row []*CardInstance) {
	groups := map[string][]*CardInstance{}
	for _, c := range row {
		def := c.Definition
		if def.HasAbility(AbilityTightBond) && def.TightBondGroup != "" && c.affectable() {
			groups[def.TightBondGroup] = append(groups[def.TightBondGroup], c)
		}
	}
	for _, bonded := range groups {
		if len(bonded) < 2 {
			continue
		}
		for _, c := range bonded {
			c.CurrentStrength *= len(bonded)
		}
	}
}
