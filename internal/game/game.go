package game

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/hearthforge/hearth-server-go/internal/game/buffs"
	"github.com/hearthforge/hearth-server-go/internal/game/cards"
	"github.com/hearthforge/hearth-server-go/internal/game/rng"
	"github.com/hearthforge/hearth-server-go/internal/game/rules"
	"github.com/hearthforge/hearth-server-go/internal/game/zones"
)

const (
	maxHandSize     = 10
	maxBoardSize    = 7
	maxManaCrystals = 10
	firstHandSize   = 3
	secondHandSize  = 4
	coinCardID      = "GAME_005"
)

// PlayerSetup describes one seat at game creation.
type PlayerSetup struct {
	Name   string
	HeroID string
	Deck   []string
}

// Game holds the full state of one running game. Exported methods take the
// game lock; everything lowercase assumes the caller already holds it.
type Game struct {
	id  string
	log *zap.Logger

	players  map[string]*Player
	order    []string
	entities map[string]*Entity

	zone     *zones.Manager
	buffs    *buffs.Engine
	bus      *rules.EventBus
	triggers *rules.TriggerManager
	rng      *rng.Source
	db       cards.Database

	turn    int
	current int
	started bool
	over    bool

	mu sync.RWMutex
}

// NewGame builds a game for two seats with a fixed random seed. The seed is
// the only source of randomness for the whole game, so two games built with
// the same seed and the same inputs replay identically.
func NewGame(id string, logger *zap.Logger, db cards.Database, seed int64, setups [2]PlayerSetup) (*Game, error) {
	if id == "" {
		return nil, fmt.Errorf("game id is required")
	}
	if setups[0].Name == setups[1].Name {
		return nil, fmt.Errorf("player names must be distinct")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	g := &Game{
		id:       id,
		log:      logger,
		players:  make(map[string]*Player),
		entities: make(map[string]*Entity),
		zone:     zones.NewManager(maxHandSize),
		bus:      rules.NewEventBus(),
		triggers: rules.NewTriggerManager(),
		rng:      rng.New(seed),
		db:       db,
	}
	g.buffs = buffs.NewEngine(func(sourceID string) bool {
		e, ok := g.entities[sourceID]
		if !ok {
			return false
		}
		if e.Silenced || e.dead {
			return false
		}
		// Character sources buff only while on the board. Spell enchantments
		// outlive the card that cast them.
		switch e.Type {
		case TypeMinion, TypeHero, TypeWeapon:
			return e.zone == zones.ZonePlay
		}
		return true
	})

	var created [2]*Player
	for i, setup := range setups {
		p, err := g.addPlayer(setup)
		if err != nil {
			return nil, err
		}
		created[i] = p
	}
	created[0].opponent = created[1]
	created[1].opponent = created[0]
	return g, nil
}

func (g *Game) addPlayer(setup PlayerSetup) (*Player, error) {
	p := newPlayer(setup.Name, maxManaCrystals)
	g.players[p.ID] = p
	g.entities[p.ID] = p.Entity
	g.order = append(g.order, p.ID)
	g.zone.AddPlayer(p.ID)

	hero, err := g.createEntity(setup.HeroID, p.ID)
	if err != nil {
		return nil, fmt.Errorf("hero for %s: %w", setup.Name, err)
	}
	if hero.Type != TypeHero {
		return nil, fmt.Errorf("card %s is not a hero", setup.HeroID)
	}
	p.Hero = hero
	if err := g.zone.Place(hero, p.ID, zones.ZonePlay, -1); err != nil {
		return nil, err
	}

	for _, cardID := range setup.Deck {
		c, err := g.createEntity(cardID, p.ID)
		if err != nil {
			return nil, fmt.Errorf("deck for %s: %w", setup.Name, err)
		}
		if err := g.zone.Place(c, p.ID, zones.ZoneDeck, -1); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// createEntity instantiates a card definition and registers the entity. The
// entity starts in no zone; the caller places it.
func (g *Game) createEntity(cardID, ownerID string) (*Entity, error) {
	def, err := g.db.Lookup(cardID)
	if err != nil {
		return nil, err
	}
	e := newEntity(def, ownerID)
	g.entities[e.ID] = e
	return e, nil
}

// Start shuffles both decks, deals opening hands and begins the first turn.
// The second player gets an extra card and The Coin.
func (g *Game) Start() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.started {
		return fmt.Errorf("game %s already started", g.id)
	}
	g.started = true

	for _, id := range g.order {
		g.players[id].PlayState = PlayStatePlaying
		if err := g.zone.Shuffle(id, g.rng); err != nil {
			return err
		}
		g.bus.Publish(rules.NewEvent(rules.EventShuffle, id, "", id))
	}

	deals := map[string]int{
		g.order[0]: firstHandSize,
		g.order[1]: secondHandSize,
	}
	for _, id := range g.order {
		for i := 0; i < deals[id]; i++ {
			if err := g.exec(id, []Action{Draw(id)}); err != nil {
				return err
			}
		}
	}
	if err := g.exec(g.order[1], []Action{Give(g.order[1], coinCardID)}); err != nil {
		return err
	}

	g.current = 0
	return g.beginTurn()
}

func (g *Game) beginTurn() error {
	p := g.currentPlayer()
	g.turn++
	p.Mana.GainCrystals(1)
	p.Mana.Refresh()
	p.ResetTurnCounters()
	g.bus.Publish(rules.NewEvent(rules.EventBeginTurn, p.ID, "", p.ID))
	g.log.Debug("turn begins",
		zap.String("game", g.id),
		zap.Int("turn", g.turn),
		zap.String("player", p.Name))
	return g.exec(p.ID, []Action{Draw(p.ID)})
}

// EndTurn ends the current player's turn and begins the opponent's. Temp
// mana and one-turn buffs expire at the boundary.
func (g *Game) EndTurn(playerID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.over {
		return fmt.Errorf("%w: game is over", ErrIllegalAction)
	}
	caller, ok := g.playerByRef(playerID)
	if !ok {
		return fmt.Errorf("%w: player %s", ErrNotFound, playerID)
	}
	p := g.currentPlayer()
	if caller != p {
		return fmt.Errorf("%w: not %s's turn", ErrIllegalAction, caller.Name)
	}

	g.bus.Publish(rules.NewEvent(rules.EventEndTurn, p.ID, "", p.ID))
	p.Mana.EndTurn()
	g.buffs.RemoveOneTurn()

	g.current = (g.current + 1) % len(g.order)
	return g.beginTurn()
}

// Concede marks a player as having given up. Their opponent wins.
func (g *Game) Concede(playerID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	p, ok := g.playerByRef(playerID)
	if !ok {
		return fmt.Errorf("%w: player %s", ErrNotFound, playerID)
	}
	if p.PlayState != PlayStatePlaying {
		return fmt.Errorf("%w: player %s is not playing", ErrIllegalAction, playerID)
	}
	p.PlayState = PlayStateConceded
	p.Opponent().PlayState = PlayStateWon
	g.over = true
	g.bus.Publish(rules.NewEvent(rules.EventConcede, p.ID, "", p.ID))
	g.bus.Publish(rules.NewEvent(rules.EventPlayStateChange, p.ID, "", p.ID))
	g.log.Info("player conceded", zap.String("game", g.id), zap.String("player", p.Name))
	return nil
}

// checkPlayStates marks winners and losers once heroes are dead. Both heroes
// dying in the same resolution is a tie.
func (g *Game) checkPlayStates() {
	if g.over {
		return
	}
	var losers []*Player
	for _, id := range g.order {
		p := g.players[id]
		if p.Hero.dead {
			losers = append(losers, p)
		}
	}
	switch len(losers) {
	case 0:
		return
	case 1:
		losers[0].PlayState = PlayStateLost
		losers[0].Opponent().PlayState = PlayStateWon
	default:
		for _, p := range losers {
			p.PlayState = PlayStateTied
		}
	}
	g.over = true
	for _, p := range losers {
		g.bus.Publish(rules.NewEvent(rules.EventPlayStateChange, p.ID, "", p.ID))
	}
}

// effective returns the current value of an attribute after buffs. Asking
// for an attribute the entity's type cannot carry is a programming error and
// faults the running batch.
func (g *Game) effective(e *Entity, attr buffs.Attr) int {
	legal, ok := attrsByType[e.Type]
	if !ok || !legal[attr] {
		invariantf("attribute %s queried on entity %s of type %s", attr, e.ID, e.Type)
	}
	return g.buffs.Effective(e.ID, attr, e.base[attr])
}

// currentHealth is effective health minus marked damage.
func (g *Game) currentHealth(e *Entity) int {
	return g.effective(e, buffs.AttrHealth) - e.Damage
}

// Effective returns the buffed value of an entity attribute.
func (g *Game) Effective(entityID string, attr buffs.Attr) (int, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	e, ok := g.entities[entityID]
	if !ok {
		return 0, fmt.Errorf("%w: entity %s", ErrNotFound, entityID)
	}
	legal, typed := attrsByType[e.Type]
	if !typed || !legal[attr] {
		return 0, fmt.Errorf("%w: %s cannot carry %s", ErrIllegalAction, e.Name, attr)
	}
	return g.buffs.Effective(e.ID, attr, e.base[attr]), nil
}

// CurrentHealth returns an entity's buffed health minus marked damage.
func (g *Game) CurrentHealth(entityID string) (int, error) {
	health, err := g.Effective(entityID, buffs.AttrHealth)
	if err != nil {
		return 0, err
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	return health - g.entities[entityID].Damage, nil
}

// boardPosition returns an entity's index among its controller's minions in
// play, or -1 when it is not on the board. Heroes do not occupy positions.
func (g *Game) boardPosition(e *Entity) int {
	if e.zone != zones.ZonePlay || e.Type != TypeMinion {
		return -1
	}
	c, ok := g.zone.Container(e.controller, zones.ZonePlay)
	if !ok {
		return -1
	}
	pos := 0
	for _, id := range c.IDs() {
		other := g.entities[id]
		if other == nil || other.Type != TypeMinion {
			continue
		}
		if id == e.ID {
			return pos
		}
		pos++
	}
	return -1
}

func (g *Game) minionsInPlay(playerID string) []*Entity {
	c, ok := g.zone.Container(playerID, zones.ZonePlay)
	if !ok {
		return nil
	}
	var out []*Entity
	for _, id := range c.IDs() {
		e := g.entities[id]
		if e != nil && e.Type == TypeMinion {
			out = append(out, e)
		}
	}
	return out
}

func (g *Game) currentPlayer() *Player {
	return g.players[g.order[g.current]]
}

// playerByRef resolves a player reference that may be an id or a seat name.
func (g *Game) playerByRef(ref string) (*Player, bool) {
	if p, ok := g.players[ref]; ok {
		return p, true
	}
	for _, p := range g.players {
		if p.Name == ref {
			return p, true
		}
	}
	return nil, false
}

// ID returns the game identifier.
func (g *Game) ID() string { return g.id }

// Seed returns the RNG seed the game was created with.
func (g *Game) Seed() int64 { return g.rng.Seed() }

// EventBus exposes the game's event stream for observers.
func (g *Game) EventBus() *rules.EventBus { return g.bus }

// Turn returns the current turn number, starting at 1.
func (g *Game) Turn() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.turn
}

// Over reports whether any player has reached a terminal play state.
func (g *Game) Over() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.over
}

// CurrentPlayerID returns the id of the player whose turn it is.
func (g *Game) CurrentPlayerID() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.order[g.current]
}

// Player looks up a player by id.
func (g *Game) Player(id string) (*Player, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	p, ok := g.players[id]
	return p, ok
}

// Entity looks up any entity by id.
func (g *Game) Entity(id string) (*Entity, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	e, ok := g.entities[id]
	return e, ok
}
