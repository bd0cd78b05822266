package cards

import (
	"errors"
	"fmt"
)

// CardType classifies a card definition.
type CardType string

const (
	TypeMinion      CardType = "MINION"
	TypeSpell       CardType = "SPELL"
	TypeWeapon      CardType = "WEAPON"
	TypeHero        CardType = "HERO"
	TypeHeroPower   CardType = "HERO_POWER"
	TypeSecret      CardType = "SECRET"
	TypeEnchantment CardType = "ENCHANTMENT"
)

// ErrUnknownCard is returned when a definition lookup fails.
var ErrUnknownCard = errors.New("unknown card")

// Definition is the static content of a card. The engine reads it exactly
// once, at entity creation; effective stats afterwards come from the buff
// engine, never from here.
type Definition struct {
	ID         string
	Name       string
	Type       CardType
	Cost       int
	Attack     int
	Health     int
	Durability int
	Overload   int
	Taunt      bool
	Stealth    bool
	Charge     bool
	// Abilities are opaque hook names resolved against the engine's ability
	// registry when the entity enters play.
	Abilities []string
}

// Database maps card identifiers to static definitions.
type Database interface {
	Lookup(cardID string) (Definition, error)
}

// MemoryDatabase is a map-backed Database used by tests and the simulator.
type MemoryDatabase struct {
	defs map[string]Definition
}

// NewMemoryDatabase creates a database preloaded with the given definitions.
func NewMemoryDatabase(defs ...Definition) *MemoryDatabase {
	db := &MemoryDatabase{defs: make(map[string]Definition, len(defs))}
	for _, def := range defs {
		db.defs[def.ID] = def
	}
	return db
}

// Put adds or replaces a definition.
func (db *MemoryDatabase) Put(def Definition) {
	db.defs[def.ID] = def
}

// Lookup implements Database.
func (db *MemoryDatabase) Lookup(cardID string) (Definition, error) {
	def, ok := db.defs[cardID]
	if !ok {
		return Definition{}, fmt.Errorf("%w: %s", ErrUnknownCard, cardID)
	}
	return def, nil
}

// BasicSet returns a small fixed card pool used by tests and the local
// simulator.
func BasicSet() []Definition {
	return []Definition{
		{ID: "CS2_231", Name: "Wisp", Type: TypeMinion, Cost: 0, Attack: 1, Health: 1},
		{ID: "CS2_120", Name: "River Crocolisk", Type: TypeMinion, Cost: 2, Attack: 2, Health: 3},
		{ID: "CS2_182", Name: "Chillwind Yeti", Type: TypeMinion, Cost: 4, Attack: 4, Health: 5},
		{ID: "CS2_200", Name: "Boulderfist Ogre", Type: TypeMinion, Cost: 6, Attack: 6, Health: 7},
		{ID: "CS2_187", Name: "Booty Bay Bodyguard", Type: TypeMinion, Cost: 5, Attack: 5, Health: 4, Taunt: true},
		{ID: "EX1_012", Name: "Bloodmage Thalnos", Type: TypeMinion, Cost: 2, Attack: 1, Health: 1, Abilities: []string{"deathrattle_draw"}},
		{ID: "EX1_015", Name: "Novice Engineer", Type: TypeMinion, Cost: 2, Attack: 1, Health: 1, Abilities: []string{"battlecry_draw"}},
		{ID: "EX1_010", Name: "Worgen Infiltrator", Type: TypeMinion, Cost: 1, Attack: 2, Health: 1, Stealth: true},
		{ID: "CS2_025", Name: "Arcane Intellect", Type: TypeSpell, Cost: 3, Abilities: []string{"spell_draw_two"}},
		{ID: "EX1_238", Name: "Lightning Bolt", Type: TypeSpell, Cost: 1, Overload: 1, Abilities: []string{"spell_damage_three"}},
		{ID: "GAME_005", Name: "The Coin", Type: TypeSpell, Cost: 0, Abilities: []string{"spell_coin"}},
		{ID: "CS2_106", Name: "Fiery War Axe", Type: TypeWeapon, Cost: 2, Attack: 3, Durability: 2},
		{ID: "EX1_609", Name: "Snipe", Type: TypeSecret, Cost: 2, Abilities: []string{"secret_snipe"}},
		{ID: "HERO_01", Name: "Garrosh Hellscream", Type: TypeHero, Cost: 0, Health: 30},
		{ID: "HERO_08", Name: "Jaina Proudmoore", Type: TypeHero, Cost: 0, Health: 30},
	}
}
