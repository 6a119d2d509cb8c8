package game

// playEffect is the closed set of ways a card resolves when played from hand.
type playEffect int

const (
	effectUnit playEffect = iota
	effectSpy
	effectWeather
	effectClearWeather
	effectDecoy
	effectMardroeme
	effectScorch
	effectMedic
)

type playContext struct {
	actor    *PlayerBoardState
	opponent *PlayerBoardState
	card     *CardInstance
	action   Action
}

// playHandlers must hold one entry per playEffect.
var playHandlers = map[playEffect]func(*Engine, *playContext){
	effectUnit:         (*Engine).playUnit,
	effectSpy:          (*Engine).playSpy,
	effectWeather:      (*Engine).playWeather,
	effectClearWeather: (*Engine).playClearWeather,
	effectDecoy:        (*Engine).playDecoy,
	effectMardroeme:    (*Engine).playMardroeme,
	effectScorch:       (*Engine).playScorch,
	effectMedic:        (*Engine).playMedic,
}

// classifyPlay picks the single effect a definition resolves with. The first
// matching ability wins.
func classifyPlay(d *CardDefinition) playEffect {
	switch {
	case d.HasAbility(AbilitySpy):
		return effectSpy
	case d.IsWeather():
		return effectWeather
	case d.HasAbility(AbilityClearWeather):
		return effectClearWeather
	case d.HasAbility(AbilityDecoy):
		return effectDecoy
	case d.HasAbility(AbilityMardroeme):
		return effectMardroeme
	case d.HasAbility(AbilityScorch) && d.Category == CategorySpecial:
		return effectScorch
	case d.HasAbility(AbilityMedic):
		return effectMedic
	}
	return effectUnit
}

// rowFor resolves the lane a card lands on: a valid requested lane for
// flexible cards, else the default lane, else melee.
func rowFor(d *CardDefinition, requested *Row) Row {
	if requested != nil && requested.Valid() && d.FlexibleRow() {
		return *requested
	}
	if d.DefaultRow.Valid() {
		return d.DefaultRow
	}
	return RowMelee
}

func (e *Engine) playUnit(pc *playContext) {
	def := pc.card.Definition
	pc.actor.place(pc.card, rowFor(def, pc.action.TargetRow))
	if def.HasAbility(AbilityMuster) && def.MusterGroup != "" {
		e.muster(pc.actor, def.MusterGroup)
	}
}

// muster pulls every card of the group out of hand and deck onto its default lane.
func (e *Engine) muster(p *PlayerBoardState, group string) {
	pulled := 0
	for _, zone := range []*[]*CardInstance{&p.Hand, &p.Deck} {
		kept := []*CardInstance{}
		for _, c := range *zone {
			if c.Definition.MusterGroup == group {
				p.place(c, rowFor(c.Definition, nil))
				pulled++
				continue
			}
			kept = append(kept, c)
		}
		*zone = kept
	}
	if pulled > 0 {
		e.state.logf("%s mustered %d more.", p.Nickname, pulled)
	}
}

func (e *Engine) playSpy(pc *playContext) {
	row := pc.card.Definition.DefaultRow
	if r := pc.action.TargetRow; r != nil && r.Valid() {
		row = *r
	}
	if !row.Valid() {
		row = RowMelee
	}
	pc.opponent.place(pc.card, row)
	pc.actor.draw(2)
}

func (e *Engine) playWeather(pc *playContext) {
	e.state.Weather = append(e.state.Weather, pc.card)
}

func (e *Engine) playClearWeather(pc *playContext) {
	for _, w := range e.state.Weather {
		e.state.Side(w.Owner).discard(w)
	}
	e.state.Weather = []*CardInstance{}
	pc.actor.discard(pc.card)
}

// decoyable reports whether a board card can be swapped back to hand.
func decoyable(c *CardInstance) bool {
	return c.Definition.Category == CategoryUnit
}

// boardTarget resolves an explicit target id on p's rows, falling back to the
// strongest eligible card. The zero row means no target was found.
func boardTarget(p *PlayerBoardState, id string, eligible func(*CardInstance) bool) (*CardInstance, Row, int) {
	if id != "" {
		if c, r, i := p.findOnBoard(id); c != nil && eligible(c) {
			return c, r, i
		}
	}
	var (
		best    *CardInstance
		bestRow Row
		bestIdx = -1
	)
	for _, r := range Rows {
		for i, c := range *p.Row(r) {
			if !eligible(c) {
				continue
			}
			if best == nil || c.CurrentStrength > best.CurrentStrength {
				best, bestRow, bestIdx = c, r, i
			}
		}
	}
	return best, bestRow, bestIdx
}

func (e *Engine) playDecoy(pc *playContext) {
	target, row, idx := boardTarget(pc.actor, pc.action.TargetID, decoyable)
	if target == nil {
		pc.actor.discard(pc.card)
		return
	}
	lane := pc.actor.Row(row)
	(*lane)[idx] = pc.card
	pc.card.OnBoard = true
	target.leaveBoard()
	pc.actor.Hand = append(pc.actor.Hand, target)
	e.state.logf("%s took %s back to hand.", pc.actor.Nickname, target.Definition.Name)
}

func (e *Engine) playMardroeme(pc *playContext) {
	target, _, _ := boardTarget(pc.actor, pc.action.TargetID, decoyable)
	if target != nil {
		target.StrengthOverride = MardroemeStrength
		e.state.logf("%s transformed into strength %d.", target.Definition.Name, MardroemeStrength)
	}
	pc.actor.discard(pc.card)
}

func (e *Engine) playScorch(pc *playContext) {
	Recalculate(e.state)
	top := 0
	found := false
	for _, side := range []*PlayerBoardState{&e.state.Host, &e.state.Guest} {
		for _, c := range side.BoardCards() {
			if c.affectable() && (!found || c.CurrentStrength > top) {
				top, found = c.CurrentStrength, true
			}
		}
	}
	if found {
		for _, side := range []*PlayerBoardState{&e.state.Host, &e.state.Guest} {
			for _, r := range Rows {
				lane := side.Row(r)
				kept := []*CardInstance{}
				for _, c := range *lane {
					if c.affectable() && c.CurrentStrength == top {
						side.discard(c)
						e.state.logf("Scorch burned %s.", c.Definition.Name)
						continue
					}
					kept = append(kept, c)
				}
				*lane = kept
			}
		}
	}
	pc.actor.discard(pc.card)
}

func (e *Engine) playMedic(pc *playContext) {
	revived := e.graveyardTarget(pc.actor, pc.action.TargetID)
	if revived != nil {
		removeCard(&pc.actor.Graveyard, revived.InstanceID)
		row := revived.Definition.DefaultRow
		if r := pc.action.TargetRow; r != nil && r.Valid() {
			row = *r
		}
		if !row.Valid() {
			row = RowMelee
		}
		pc.actor.place(revived, row)
		e.state.logf("%s revived %s.", pc.actor.Nickname, revived.Definition.Name)
	}
	pc.actor.place(pc.card, rowFor(pc.card.Definition, nil))
}

// graveyardTarget resolves an explicit graveyard unit or the one with the
// highest base strength. Heroes and specials cannot be revived.
func (e *Engine) graveyardTarget(p *PlayerBoardState, id string) *CardInstance {
	if id != "" {
		if c := findCard(p.Graveyard, id); c != nil && c.affectable() {
			return c
		}
	}
	var best *CardInstance
	for _, c := range p.Graveyard {
		if c.affectable() && (best == nil || c.BaseStrength() > best.BaseStrength()) {
			best = c
		}
	}
	return best
}
