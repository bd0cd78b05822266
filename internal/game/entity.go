package game

import (
	"github.com/google/uuid"

	"github.com/hearthforge/hearth-server-go/internal/game/buffs"
	"github.com/hearthforge/hearth-server-go/internal/game/cards"
	"github.com/hearthforge/hearth-server-go/internal/game/zones"
)

// EntityType classifies a game entity. It extends the card-type vocabulary
// with the player itself.
type EntityType string

const (
	TypePlayer      EntityType = "PLAYER"
	TypeHero        EntityType = "HERO"
	TypeMinion      EntityType = "MINION"
	TypeWeapon      EntityType = "WEAPON"
	TypeHeroPower   EntityType = "HERO_POWER"
	TypeSpell       EntityType = "SPELL"
	TypeSecret      EntityType = "SECRET"
	TypeEnchantment EntityType = "ENCHANTMENT"
)

func entityTypeOf(ct cards.CardType) EntityType {
	switch ct {
	case cards.TypeMinion:
		return TypeMinion
	case cards.TypeSpell:
		return TypeSpell
	case cards.TypeWeapon:
		return TypeWeapon
	case cards.TypeHero:
		return TypeHero
	case cards.TypeHeroPower:
		return TypeHeroPower
	case cards.TypeSecret:
		return TypeSecret
	case cards.TypeEnchantment:
		return TypeEnchantment
	default:
		return TypeMinion
	}
}

// attrsByType lists the base attributes each entity type exposes. Querying
// anything else is a programming defect, not a recoverable condition.
var attrsByType = map[EntityType]map[buffs.Attr]bool{
	TypePlayer:      {buffs.AttrSpellpower: true},
	TypeHero:        {buffs.AttrAttack: true, buffs.AttrHealth: true},
	TypeMinion:      {buffs.AttrAttack: true, buffs.AttrHealth: true, buffs.AttrCost: true, buffs.AttrSpellpower: true},
	TypeWeapon:      {buffs.AttrAttack: true, buffs.AttrDurability: true, buffs.AttrCost: true},
	TypeHeroPower:   {buffs.AttrCost: true},
	TypeSpell:       {buffs.AttrCost: true},
	TypeSecret:      {buffs.AttrCost: true},
	TypeEnchantment: {},
}

// Entity is the base unit of the simulation: a uniquely identified object
// with a mutable attribute set and zone/controller/owner relations.
type Entity struct {
	ID     string
	CardID string
	Name   string
	Type   EntityType

	zone       zones.Zone
	controller string
	owner      string

	base map[buffs.Attr]int

	// Damage is tracked separately from health so buffs never erase wounds.
	Damage   int
	Silenced bool
	dead     bool

	Taunt   bool
	Stealth bool
	Charge  bool

	Abilities []string
}

func newEntity(def cards.Definition, owner string) *Entity {
	e := &Entity{
		ID:         uuid.NewString(),
		CardID:     def.ID,
		Name:       def.Name,
		Type:       entityTypeOf(def.Type),
		zone:       zones.ZoneInvalid,
		controller: owner,
		owner:      owner,
		base:       make(map[buffs.Attr]int, 4),
		Taunt:      def.Taunt,
		Stealth:    def.Stealth,
		Charge:     def.Charge,
		Abilities:  append([]string(nil), def.Abilities...),
	}
	e.base[buffs.AttrCost] = def.Cost
	switch e.Type {
	case TypeMinion, TypeHero:
		e.base[buffs.AttrAttack] = def.Attack
		e.base[buffs.AttrHealth] = def.Health
	case TypeWeapon:
		e.base[buffs.AttrAttack] = def.Attack
		e.base[buffs.AttrDurability] = def.Durability
	}
	return e
}

// EntityID implements zones.Member and targeting.Candidate.
func (e *Entity) EntityID() string { return e.ID }

// CurrentZone implements zones.Member and targeting.Candidate.
func (e *Entity) CurrentZone() zones.Zone { return e.zone }

// SetCurrentZone implements zones.Member. Only the zone manager calls it.
func (e *Entity) SetCurrentZone(z zones.Zone) { e.zone = z }

// ControllerID implements targeting.Candidate.
func (e *Entity) ControllerID() string { return e.controller }

// OwnerID returns the player whose collection this entity originated from.
func (e *Entity) OwnerID() string { return e.owner }

// IsMinion implements targeting.Candidate.
func (e *Entity) IsMinion() bool { return e.Type == TypeMinion }

// IsHero implements targeting.Candidate.
func (e *Entity) IsHero() bool { return e.Type == TypeHero }

// HasTaunt implements targeting.Candidate. Silence strips it.
func (e *Entity) HasTaunt() bool { return e.Taunt && !e.Silenced }

// HasStealth implements targeting.Candidate.
func (e *Entity) HasStealth() bool { return e.Stealth && !e.Silenced }

// IsCharacter reports whether the entity has attack and health.
func (e *Entity) IsCharacter() bool { return e.Type == TypeMinion || e.Type == TypeHero }

// Dead reports whether the entity has been destroyed.
func (e *Entity) Dead() bool { return e.dead }

// Base returns the entity's base value for an attribute, without buffs.
func (e *Entity) Base(attr buffs.Attr) (int, bool) {
	allowed := attrsByType[e.Type]
	if !allowed[attr] {
		return 0, false
	}
	return e.base[attr], true
}

// SetBase overwrites a base attribute value.
func (e *Entity) SetBase(attr buffs.Attr, v int) bool {
	allowed := attrsByType[e.Type]
	if !allowed[attr] {
		return false
	}
	e.base[attr] = v
	return true
}
