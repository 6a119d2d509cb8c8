package game

// endRound scores a round once both sides have passed and either finishes
// the match or resets the board for the next round.
func (e *Engine) endRound() {
	s := e.state
	Recalculate(s)
	host, guest := &s.Host, &s.Guest
	hostTotal, guestTotal := host.TotalStrength(), guest.TotalStrength()

	var winner, loser *PlayerBoardState
	switch {
	case hostTotal > guestTotal:
		winner, loser = host, guest
	case guestTotal > hostTotal:
		winner, loser = guest, host
	default:
		winner, loser = tieBreak(host, guest)
	}

	var keep *CardInstance
	if winner == nil {
		host.LifeTokens--
		guest.LifeTokens--
		s.logf("Round %d drawn %d-%d. Both players lose a life token.", s.Round, hostTotal, guestTotal)
	} else {
		winner.RoundsWon++
		loser.LifeTokens--
		s.logf("%s wins round %d (%d-%d).", winner.Nickname, s.Round, hostTotal, guestTotal)
		keep = e.roundBonus(winner)
	}

	if e.checkMatchEnd() {
		return
	}

	host.clearRows(keepFor(host, keep))
	guest.clearRows(keepFor(guest, keep))
	for _, w := range s.Weather {
		s.Side(w.Owner).discard(w)
	}
	s.Weather = []*CardInstance{}
	host.Passed = false
	guest.Passed = false
	s.Round++
	s.ActivePlayer = host.Nickname
	Recalculate(s)
	s.logf("Round %d begins. %s to play.", s.Round, s.ActivePlayer)
}

// tieBreak hands an equal round to a lone Nilfgaard side. A nil winner is a
// true draw.
func tieBreak(host, guest *PlayerBoardState) (*PlayerBoardState, *PlayerBoardState) {
	hostNG := host.Faction == FactionNilfgaard
	guestNG := guest.Faction == FactionNilfgaard
	switch {
	case hostNG && !guestNG:
		return host, guest
	case guestNG && !hostNG:
		return guest, host
	}
	return nil, nil
}

// roundBonus applies the faction perk of the round winner and returns the
// card a Monsters winner keeps on the board, if any.
func (e *Engine) roundBonus(winner *PlayerBoardState) *CardInstance {
	switch winner.Faction {
	case FactionNorthernRealms:
		if winner.draw(1) > 0 {
			e.state.logf("%s draws a card for winning the round.", winner.Nickname)
		}
	case FactionMonsters:
		var survivors []*CardInstance
		for _, c := range winner.BoardCards() {
			if c.combatant() {
				survivors = append(survivors, c)
			}
		}
		if len(survivors) == 0 {
			return nil
		}
		keep := survivors[e.rng.Intn(len(survivors))]
		e.state.logf("%s stays on the battlefield.", keep.Definition.Name)
		return keep
	}
	return nil
}

func keepFor(p *PlayerBoardState, keep *CardInstance) *CardInstance {
	if keep == nil {
		return nil
	}
	if c, _, _ := p.findOnBoard(keep.InstanceID); c != nil {
		return c
	}
	return nil
}

// checkMatchEnd finishes the match once a life-token counter hits zero. Both
// sides at zero is a draw.
func (e *Engine) checkMatchEnd() bool {
	s := e.state
	hostOut := s.Host.LifeTokens <= 0
	guestOut := s.Guest.LifeTokens <= 0
	switch {
	case hostOut && guestOut:
		e.finish(nil)
		s.logf("Match ends in a draw.")
	case hostOut:
		e.finish(&s.Guest.Nickname)
		s.logf("%s wins the match.", s.Guest.Nickname)
	case guestOut:
		e.finish(&s.Host.Nickname)
		s.logf("%s wins the match.", s.Host.Nickname)
	default:
		return false
	}
	return true
}
