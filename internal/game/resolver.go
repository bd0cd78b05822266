package game

import (
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/hearthforge/hearth-server-go/internal/game/buffs"
	"github.com/hearthforge/hearth-server-go/internal/game/rules"
	"github.com/hearthforge/hearth-server-go/internal/game/targeting"
	"github.com/hearthforge/hearth-server-go/internal/game/zones"
)

// QueueActions resolves a batch of actions for a caller. Each action is
// validated against the state it actually executes in, not the state it was
// queued in. An illegal action fails its own slot and the batch continues; a
// missing entity or an invariant fault halts the whole batch.
func (g *Game) QueueActions(callerID string, actions []Action) (results []Result, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			ie, ok := r.(*InvariantError)
			if !ok {
				panic(r)
			}
			g.log.Error("invariant violation, batch halted",
				zap.String("game", g.id),
				zap.String("detail", ie.Detail))
			err = ie
		}
	}()

	if _, ok := g.playerByRef(callerID); !ok {
		return nil, fmt.Errorf("%w: player %s", ErrNotFound, callerID)
	}

	for _, a := range actions {
		for i := 0; i < a.repetitions(); i++ {
			res := g.resolve(callerID, a)
			results = append(results, res)
			if res.Err != nil && !errors.Is(res.Err, ErrIllegalAction) {
				return results, res.Err
			}
		}
	}
	return results, nil
}

// exec is the internal resolution entry used by game lifecycle hooks and by
// trigger reactions. The lock is already held. Illegal slots are logged and
// skipped; hard failures propagate.
func (g *Game) exec(callerID string, actions []Action) error {
	for _, a := range actions {
		for i := 0; i < a.repetitions(); i++ {
			res := g.resolve(callerID, a)
			if res.Err == nil {
				continue
			}
			if errors.Is(res.Err, ErrIllegalAction) {
				g.log.Debug("skipped illegal action",
					zap.String("game", g.id),
					zap.String("kind", string(a.Kind)),
					zap.Error(res.Err))
				continue
			}
			return res.Err
		}
	}
	return nil
}

func (g *Game) resolve(callerID string, a Action) Result {
	res := Result{Action: a, State: StateExecuting}

	actor, ok := g.playerByRef(a.Actor)
	if !ok {
		res.State = StateCancelled
		res.Err = fmt.Errorf("%w: player %s", ErrNotFound, a.Actor)
		return res
	}
	if g.over {
		res.State = StateCancelled
		res.Err = fmt.Errorf("%w: game is over", ErrIllegalAction)
		return res
	}

	var err error
	switch a.Kind {
	case ActionDraw:
		res.Entities, err = g.doDraw(actor)
	case ActionPlay:
		res.Entities, err = g.doPlay(actor, a)
	case ActionGive:
		res.Entities, err = g.doGive(actor, a.CardID)
	case ActionSummon:
		res.Entities, err = g.doSummon(actor, a)
	case ActionDamage:
		err = g.doDamage(actor, a)
	case ActionHeal:
		err = g.doHeal(actor, a)
	case ActionDestroy:
		err = g.doDestroy(a.EntityID)
	case ActionDiscard:
		err = g.doDiscard(actor, a.EntityID)
	case ActionMill:
		res.Entities, err = g.doMill(actor)
	case ActionSteal:
		err = g.doSteal(actor, a.EntityID)
	case ActionHeroPower:
		err = g.doHeroPower(actor, a)
	default:
		err = fmt.Errorf("%w: unknown action kind %q", ErrIllegalAction, a.Kind)
	}

	if err != nil {
		res.State = StateCancelled
		res.Err = err
		return res
	}
	res.State = StateResolved
	g.checkPlayStates()
	return res
}

// emit publishes a committed event and resolves the reactions it provokes,
// depth-first. Reactions are ordered by the acting player first, then board
// position, then source id, so resolution is deterministic.
func (g *Game) emit(ev rules.Event) error {
	g.bus.Publish(ev)
	reactions := g.triggers.Handle(ev)
	if len(reactions) == 0 {
		return nil
	}
	acting := g.order[g.current]
	sort.SliceStable(reactions, func(i, j int) bool {
		ri, rj := reactions[i], reactions[j]
		if (ri.Controller == acting) != (rj.Controller == acting) {
			return ri.Controller == acting
		}
		if ri.Position != rj.Position {
			return ri.Position < rj.Position
		}
		return ri.SourceID < rj.SourceID
	})
	for _, r := range reactions {
		if r.Resolve == nil {
			continue
		}
		if err := r.Resolve(); err != nil {
			return err
		}
	}
	return nil
}

// move routes a zone transition through the zone manager and announces it.
func (g *Game) move(e *Entity, fromPlayer, toPlayer string, to zones.Zone, position int) (zones.Transition, error) {
	from := e.zone
	tr, err := g.zone.Transition(e, fromPlayer, toPlayer, to, position)
	if err != nil {
		invariantf("zone transition for %s: %v", e.ID, err)
	}
	g.buffs.Invalidate(e.ID)
	g.buffs.InvalidateBySource(e.ID)
	ev := rules.NewEvent(rules.EventZoneChange, e.ID, "", toPlayer)
	ev.FromZone = from.String()
	ev.ToZone = tr.To.String()
	return tr, g.emit(ev)
}

func (g *Game) doDraw(p *Player) ([]string, error) {
	deck, ok := g.zone.Container(p.ID, zones.ZoneDeck)
	if !ok {
		invariantf("player %s has no deck container", p.ID)
	}
	if deck.Len() == 0 {
		p.FatigueCounter++
		if err := g.emit(rules.NewEventWithAmount(rules.EventFatigue, p.ID, "", p.ID, p.FatigueCounter)); err != nil {
			return nil, err
		}
		return nil, g.applyDamage(p.Hero, p.ID, p.FatigueCounter)
	}

	top, _ := deck.Top()
	card := g.entities[top.EntityID()]
	tr, err := g.move(card, p.ID, p.ID, zones.ZoneHand, -1)
	if err != nil {
		return nil, err
	}
	if tr.Discarded {
		if err := g.emit(rules.NewEvent(rules.EventOverdraw, card.ID, "", p.ID)); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return []string{card.ID}, g.emit(rules.NewEvent(rules.EventDrewCard, card.ID, "", p.ID))
}

func (g *Game) doPlay(p *Player, a Action) ([]string, error) {
	if g.order[g.current] != p.ID {
		return nil, fmt.Errorf("%w: not %s's turn", ErrIllegalAction, p.Name)
	}
	card, ok := g.entities[a.EntityID]
	if !ok {
		return nil, fmt.Errorf("%w: entity %s", ErrNotFound, a.EntityID)
	}
	if card.zone != zones.ZoneHand || card.controller != p.ID {
		return nil, fmt.Errorf("%w: %s is not in %s's hand", ErrIllegalAction, card.Name, p.Name)
	}

	switch card.Type {
	case TypeMinion:
		if len(g.minionsInPlay(p.ID)) >= maxBoardSize {
			return nil, fmt.Errorf("%w: board is full", ErrIllegalAction)
		}
	case TypeSecret:
		if g.secretActive(p.ID, card.CardID) {
			return nil, fmt.Errorf("%w: secret %s already active", ErrIllegalAction, card.Name)
		}
	}

	var target *Entity
	if a.TargetID != "" {
		var err error
		target, err = g.resolveTarget(a.TargetID, p.ID)
		if err != nil {
			return nil, err
		}
	}

	cost := g.effective(card, buffs.AttrCost)
	if cost < 0 {
		cost = 0
	}
	payment, err := p.Mana.Pay(cost)
	if err != nil {
		return nil, fmt.Errorf("%w: %s costs %d, %d available", ErrIllegalAction, card.Name, cost, p.AvailableMana())
	}
	if payment.Cost > 0 {
		if err := g.emit(rules.NewEventWithAmount(rules.EventManaSpent, p.ID, card.ID, p.ID, payment.Cost)); err != nil {
			return nil, err
		}
	}
	if def, lookupErr := g.db.Lookup(card.CardID); lookupErr == nil && def.Overload > 0 {
		p.Mana.Overload(def.Overload)
		if err := g.emit(rules.NewEventWithAmount(rules.EventOverload, p.ID, card.ID, p.ID, def.Overload)); err != nil {
			return nil, err
		}
	}

	p.Combo = p.CardsPlayedThisTurn > 0
	p.CardsPlayedThisTurn++
	p.LastCardPlayed = card.ID

	played := rules.NewEvent(rules.EventCardPlayed, card.ID, card.ID, p.ID)
	played.Metadata["card"] = card.CardID
	if target != nil {
		played.Metadata["target"] = target.ID
	}

	switch card.Type {
	case TypeMinion:
		p.MinionsPlayedThisTurn++
		if err := g.placeMinion(p, card, a.Position); err != nil {
			return nil, err
		}
		if err := g.emit(played); err != nil {
			return nil, err
		}
	case TypeSecret:
		if _, err := g.move(card, p.ID, p.ID, zones.ZoneSecret, -1); err != nil {
			return nil, err
		}
		g.registerAbilities(card)
		if err := g.emit(played); err != nil {
			return nil, err
		}
		if err := g.emit(rules.NewEvent(rules.EventSecretPlayed, card.ID, card.ID, p.ID)); err != nil {
			return nil, err
		}
	case TypeWeapon:
		if p.Weapon != nil {
			if err := g.doDestroy(p.Weapon.ID); err != nil {
				return nil, err
			}
		}
		if _, err := g.move(card, p.ID, p.ID, zones.ZonePlay, -1); err != nil {
			return nil, err
		}
		p.Weapon = card
		if err := g.emit(played); err != nil {
			return nil, err
		}
	default:
		// Spells resolve their hooks off the played event, then finish in
		// the graveyard.
		g.registerAbilities(card)
		if err := g.emit(played); err != nil {
			return nil, err
		}
		g.unregisterAbilities(card)
		if card.zone == zones.ZoneHand {
			if _, err := g.move(card, p.ID, p.ID, zones.ZoneGraveyard, -1); err != nil {
				return nil, err
			}
		}
	}
	return []string{card.ID}, nil
}

// placeMinion moves a minion onto the board and fires the summon pair.
func (g *Game) placeMinion(p *Player, card *Entity, position int) error {
	if err := g.emit(rules.NewEvent(rules.EventSummon, card.ID, card.ID, p.ID)); err != nil {
		return err
	}
	if _, err := g.move(card, card.controller, p.ID, zones.ZonePlay, position); err != nil {
		return err
	}
	card.controller = p.ID
	g.registerAbilities(card)
	return g.emit(rules.NewEvent(rules.EventSummoned, card.ID, card.ID, p.ID))
}

func (g *Game) doGive(p *Player, cardID string) ([]string, error) {
	card, err := g.createEntity(cardID, p.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: card %s", ErrNotFound, cardID)
	}
	tr, err := g.move(card, p.ID, p.ID, zones.ZoneHand, -1)
	if err != nil {
		return nil, err
	}
	if tr.Discarded {
		return nil, g.emit(rules.NewEvent(rules.EventOverdraw, card.ID, "", p.ID))
	}
	return []string{card.ID}, g.emit(rules.NewEvent(rules.EventCardGiven, card.ID, "", p.ID))
}

func (g *Game) doSummon(p *Player, a Action) ([]string, error) {
	if len(g.minionsInPlay(p.ID)) >= maxBoardSize {
		return nil, fmt.Errorf("%w: board is full", ErrIllegalAction)
	}
	var card *Entity
	if a.EntityID != "" {
		var ok bool
		card, ok = g.entities[a.EntityID]
		if !ok {
			return nil, fmt.Errorf("%w: entity %s", ErrNotFound, a.EntityID)
		}
		if card.dead {
			return nil, fmt.Errorf("%w: entity %s is dead", ErrIllegalAction, a.EntityID)
		}
	} else {
		var err error
		card, err = g.createEntity(a.CardID, p.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: card %s", ErrNotFound, a.CardID)
		}
	}
	if card.Type != TypeMinion {
		return nil, fmt.Errorf("%w: %s is not a minion", ErrIllegalAction, card.Name)
	}
	if err := g.placeMinion(p, card, a.Position); err != nil {
		return nil, err
	}
	return []string{card.ID}, nil
}

func (g *Game) doDamage(p *Player, a Action) error {
	target, err := g.resolveTarget(a.TargetID, p.ID)
	if err != nil {
		return err
	}
	return g.applyDamage(target, a.EntityID, a.Amount)
}

// applyDamage marks damage on a character and sweeps the resulting death.
func (g *Game) applyDamage(target *Entity, sourceID string, amount int) error {
	if target.dead {
		return fmt.Errorf("%w: target %s is dead", ErrIllegalAction, target.Name)
	}
	if !target.IsCharacter() {
		return fmt.Errorf("%w: %s cannot take damage", ErrIllegalAction, target.Name)
	}
	if amount <= 0 {
		return nil
	}
	if err := g.emit(rules.NewEventWithAmount(rules.EventDamage, target.ID, sourceID, target.controller, amount)); err != nil {
		return err
	}
	target.Damage += amount
	if err := g.emit(rules.NewEventWithAmount(rules.EventDamaged, target.ID, sourceID, target.controller, amount)); err != nil {
		return err
	}
	if g.currentHealth(target) <= 0 {
		return g.kill(target)
	}
	return nil
}

func (g *Game) doHeal(p *Player, a Action) error {
	target, err := g.resolveTarget(a.TargetID, p.ID)
	if err != nil {
		return err
	}
	if target.dead {
		return fmt.Errorf("%w: target %s is dead", ErrIllegalAction, target.Name)
	}
	if a.Amount <= 0 || target.Damage == 0 {
		return nil
	}
	healed := a.Amount
	if healed > target.Damage {
		healed = target.Damage
	}
	target.Damage -= healed
	return g.emit(rules.NewEventWithAmount(rules.EventHealed, target.ID, "", target.controller, healed))
}

// doDestroy destroys an entity outright. Destroying an entity that is
// already dead is a no-op, never an error.
func (g *Game) doDestroy(entityID string) error {
	e, ok := g.entities[entityID]
	if !ok {
		return fmt.Errorf("%w: entity %s", ErrNotFound, entityID)
	}
	if e.dead || e.zone == zones.ZoneGraveyard {
		return nil
	}
	if err := g.emit(rules.NewEvent(rules.EventDestroy, e.ID, "", e.controller)); err != nil {
		return err
	}
	return g.kill(e)
}

// kill moves an entity to its owner's graveyard. Death triggers fire off the
// died event before the entity's own triggers are torn down.
func (g *Game) kill(e *Entity) error {
	if e.dead {
		return nil
	}
	e.dead = true

	if e.Type == TypePlayer {
		invariantf("player entity %s cannot be killed", e.ID)
	}

	controller := g.players[e.controller]
	if controller != nil && controller.Weapon == e {
		controller.Weapon = nil
	}
	if e.Type == TypeMinion && controller != nil {
		opp := controller.Opponent()
		if opp != nil && g.order[g.current] == opp.ID {
			opp.MinionsKilledThisTurn++
		}
	}

	if e.Type == TypeHero {
		// Dead heroes stay on the board; the play state check ends the
		// game.
		return g.emit(rules.NewEvent(rules.EventDied, e.ID, "", e.controller))
	}

	if _, err := g.move(e, e.controller, e.owner, zones.ZoneGraveyard, -1); err != nil {
		return err
	}
	if e.Type == TypeMinion {
		g.resyncTriggerPositions(e.controller)
	}
	if err := g.emit(rules.NewEvent(rules.EventDied, e.ID, "", e.controller)); err != nil {
		return err
	}
	g.unregisterAbilities(e)
	g.buffs.RemoveBySource(e.ID)
	g.buffs.RemoveAll(e.ID)
	return nil
}

// resyncTriggerPositions refreshes recorded board positions after the board
// contracts, so trigger ordering keeps following the visible layout.
func (g *Game) resyncTriggerPositions(playerID string) {
	for _, m := range g.minionsInPlay(playerID) {
		g.triggers.SetPosition(m.ID, g.boardPosition(m))
	}
}

func (g *Game) doDiscard(p *Player, entityID string) error {
	e, ok := g.entities[entityID]
	if !ok {
		return fmt.Errorf("%w: entity %s", ErrNotFound, entityID)
	}
	if e.zone != zones.ZoneHand || e.controller != p.ID {
		return fmt.Errorf("%w: %s is not in %s's hand", ErrIllegalAction, e.Name, p.Name)
	}
	if _, err := g.move(e, p.ID, p.ID, zones.ZoneGraveyard, -1); err != nil {
		return err
	}
	return g.emit(rules.NewEvent(rules.EventDiscard, e.ID, "", p.ID))
}

// DiscardHand throws away a player's entire hand, newest card first.
func (g *Game) DiscardHand(playerID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	p, ok := g.playerByRef(playerID)
	if !ok {
		return fmt.Errorf("%w: player %s", ErrNotFound, playerID)
	}
	hand, ok := g.zone.Container(p.ID, zones.ZoneHand)
	if !ok {
		invariantf("player %s has no hand container", p.ID)
	}
	ids := hand.IDs()
	for i := len(ids) - 1; i >= 0; i-- {
		if err := g.doDiscard(p, ids[i]); err != nil {
			return err
		}
	}
	return nil
}

// doMill burns the top card of the deck. An empty deck mills nothing and
// causes no fatigue.
func (g *Game) doMill(p *Player) ([]string, error) {
	deck, ok := g.zone.Container(p.ID, zones.ZoneDeck)
	if !ok {
		invariantf("player %s has no deck container", p.ID)
	}
	if deck.Len() == 0 {
		return nil, nil
	}
	top, _ := deck.Top()
	card := g.entities[top.EntityID()]
	if _, err := g.move(card, p.ID, p.ID, zones.ZoneGraveyard, -1); err != nil {
		return nil, err
	}
	return []string{card.ID}, g.emit(rules.NewEvent(rules.EventMilledCard, card.ID, "", p.ID))
}

// doSteal moves control of an enemy minion to the actor. A full board
// bounces the minion to the actor's set-aside zone instead.
func (g *Game) doSteal(p *Player, entityID string) error {
	e, ok := g.entities[entityID]
	if !ok {
		return fmt.Errorf("%w: entity %s", ErrNotFound, entityID)
	}
	if e.dead || e.zone != zones.ZonePlay || e.Type != TypeMinion {
		return fmt.Errorf("%w: %s cannot be stolen", ErrIllegalAction, e.Name)
	}
	if e.controller == p.ID {
		return fmt.Errorf("%w: %s already controls %s", ErrIllegalAction, p.Name, e.Name)
	}

	from := e.controller
	to := zones.ZonePlay
	if len(g.minionsInPlay(p.ID)) >= maxBoardSize {
		to = zones.ZoneSetAside
	}
	if _, err := g.move(e, from, p.ID, to, -1); err != nil {
		return err
	}
	g.unregisterAbilities(e)
	e.controller = p.ID
	if to == zones.ZonePlay {
		g.registerAbilities(e)
	}
	g.resyncTriggerPositions(from)
	return g.emit(rules.NewEvent(rules.EventControlChange, e.ID, "", p.ID))
}

const (
	heroPowerCost   = 2
	heroPowerDamage = 1
)

// doHeroPower fires the basic hero power: pay two mana, deal one damage. A
// power is usable once per turn, on the owner's turn.
func (g *Game) doHeroPower(p *Player, a Action) error {
	if g.order[g.current] != p.ID {
		return fmt.Errorf("%w: not %s's turn", ErrIllegalAction, p.Name)
	}
	if p.TimesHeroPowerUsed > 0 {
		return fmt.Errorf("%w: hero power already used this turn", ErrIllegalAction)
	}
	if p.Hero == nil || p.Hero.dead {
		return fmt.Errorf("%w: %s has no living hero", ErrIllegalAction, p.Name)
	}

	target := p.Opponent().Hero
	if a.TargetID != "" {
		var err error
		target, err = g.resolveTarget(a.TargetID, p.ID)
		if err != nil {
			return err
		}
	}

	payment, err := p.Mana.Pay(heroPowerCost)
	if err != nil {
		return fmt.Errorf("%w: hero power costs %d, %d available", ErrIllegalAction, heroPowerCost, p.AvailableMana())
	}
	p.TimesHeroPowerUsed++
	if err := g.emit(rules.NewEventWithAmount(rules.EventManaSpent, p.ID, p.Hero.ID, p.ID, payment.Cost)); err != nil {
		return err
	}
	if err := g.emit(rules.NewEvent(rules.EventHeroPower, target.ID, p.Hero.ID, p.ID)); err != nil {
		return err
	}
	return g.applyDamage(target, p.Hero.ID, heroPowerDamage)
}

// Silence strips an entity's buffs, abilities and keyword flags.
func (g *Game) Silence(entityID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	e, ok := g.entities[entityID]
	if !ok {
		return fmt.Errorf("%w: entity %s", ErrNotFound, entityID)
	}
	e.Silenced = true
	g.unregisterAbilities(e)
	g.buffs.RemoveAll(e.ID)
	// Buffs this entity granted to others still sit on their lists; the
	// source filter now rejects them, so the holders must recompute.
	g.buffs.InvalidateBySource(e.ID)
	return g.emit(rules.NewEvent(rules.EventSilenced, e.ID, "", e.controller))
}

// resolveTarget validates a target reference against current state.
func (g *Game) resolveTarget(targetID, actorID string) (*Entity, error) {
	pool := make([]targeting.Candidate, 0, len(g.entities))
	for _, e := range g.entities {
		if e.dead || e.Type == TypePlayer {
			continue
		}
		pool = append(pool, e)
	}
	// Effect targeting: stealth hides enemy minions, but taunt only forces
	// attack targets, not effect targets.
	req := targeting.Requirement{
		Description:    "any character in play",
		Predicate:      targeting.And(targeting.InZone(zones.ZonePlay), targeting.IsCharacter()),
		RespectStealth: true,
	}
	c, err := targeting.Resolve(targetID, actorID, pool, req)
	if err != nil {
		var f *targeting.Failure
		if errors.As(err, &f) {
			return nil, fmt.Errorf("%w: %s", ErrIllegalAction, f.Reason)
		}
		return nil, fmt.Errorf("%w: target %s", ErrNotFound, targetID)
	}
	return c.(*Entity), nil
}

// revealSecret retires a fired secret to its owner's graveyard.
func (g *Game) revealSecret(e *Entity) error {
	if err := g.emit(rules.NewEvent(rules.EventSecretRevealed, e.ID, e.ID, e.controller)); err != nil {
		return err
	}
	if _, err := g.move(e, e.controller, e.owner, zones.ZoneGraveyard, -1); err != nil {
		return err
	}
	e.dead = true
	g.unregisterAbilities(e)
	return nil
}

func (g *Game) secretActive(playerID, cardID string) bool {
	c, ok := g.zone.Container(playerID, zones.ZoneSecret)
	if !ok {
		return false
	}
	for _, id := range c.IDs() {
		e := g.entities[id]
		if e != nil && e.CardID == cardID {
			return true
		}
	}
	return false
}

// ApplyBuff grants an attribute buff from a source entity and invalidates the
// cached value. The buff id is returned for later removal.
func (g *Game) ApplyBuff(targetID string, buff buffs.Buff) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	e, ok := g.entities[targetID]
	if !ok {
		return "", fmt.Errorf("%w: entity %s", ErrNotFound, targetID)
	}
	legal, typed := attrsByType[e.Type]
	if !typed || !legal[buff.Attr] {
		return "", fmt.Errorf("%w: %s cannot carry %s", ErrIllegalAction, e.Name, buff.Attr)
	}
	id := g.buffs.Add(e.ID, buff)
	return id, g.emit(rules.NewEvent(rules.EventBuffApplied, e.ID, buff.SourceID, e.controller))
}
