package game

import (
	"go.uber.org/zap"

	"github.com/hearthforge/hearth-server-go/internal/game/rules"
	"github.com/hearthforge/hearth-server-go/internal/game/zones"
)

// AbilityFunc produces the actions a triggered ability wants resolved. It
// runs at resolution time, so it sees current state, not queue-time state.
type AbilityFunc func(g *Game, source *Entity, ev rules.Event) []Action

type abilitySpec struct {
	// Event the ability listens for.
	Event rules.EventType
	// Condition filters events beyond the default source match. Nil means
	// the event's target must be the ability's source.
	Condition func(source *Entity, ev rules.Event) bool
	Fn        AbilityFunc
	// Once removes the trigger after its first firing (secrets).
	Once bool
}

var abilityRegistry = map[string]abilitySpec{}

// RegisterAbility binds a card ability hook name to its behavior. Card
// definitions reference abilities by name only, so sets can be loaded from
// storage without code changes as long as the hooks exist.
func RegisterAbility(name string, spec abilitySpec) {
	abilityRegistry[name] = spec
}

func sourceIsTarget(source *Entity, ev rules.Event) bool {
	return ev.TargetID == source.ID
}

func init() {
	RegisterAbility("battlecry_draw", abilitySpec{
		Event:     rules.EventSummoned,
		Condition: sourceIsTarget,
		Once:      true,
		Fn: func(g *Game, source *Entity, ev rules.Event) []Action {
			return []Action{Draw(source.controller)}
		},
	})
	RegisterAbility("deathrattle_draw", abilitySpec{
		Event:     rules.EventDied,
		Condition: sourceIsTarget,
		Once:      true,
		Fn: func(g *Game, source *Entity, ev rules.Event) []Action {
			return []Action{Draw(source.controller)}
		},
	})
	RegisterAbility("spell_draw_two", abilitySpec{
		Event:     rules.EventCardPlayed,
		Condition: sourceIsTarget,
		Once:      true,
		Fn: func(g *Game, source *Entity, ev rules.Event) []Action {
			return []Action{Draw(source.controller).Repeat(2)}
		},
	})
	RegisterAbility("spell_damage_three", abilitySpec{
		Event:     rules.EventCardPlayed,
		Condition: sourceIsTarget,
		Once:      true,
		Fn: func(g *Game, source *Entity, ev rules.Event) []Action {
			targetID := ev.Metadata["target"]
			if targetID == "" {
				return nil
			}
			return []Action{Damage(source.controller, targetID, 3, source.ID)}
		},
	})
	RegisterAbility("spell_coin", abilitySpec{
		Event:     rules.EventCardPlayed,
		Condition: sourceIsTarget,
		Once:      true,
		Fn: func(g *Game, source *Entity, ev rules.Event) []Action {
			p, ok := g.players[source.controller]
			if !ok {
				return nil
			}
			p.Mana.AddTemp(1)
			g.bus.Publish(rules.NewEventWithAmount(rules.EventTempManaGain, p.ID, source.ID, p.ID, 1))
			return nil
		},
	})
	RegisterAbility("secret_snipe", abilitySpec{
		Event: rules.EventSummoned,
		Condition: func(source *Entity, ev rules.Event) bool {
			return ev.Controller != source.controller
		},
		Once: true,
		Fn: func(g *Game, source *Entity, ev rules.Event) []Action {
			return []Action{Damage(source.controller, ev.TargetID, 4, source.ID)}
		},
	})
}

// registerAbilities installs triggers for every ability hook on an entity.
// Called when the entity enters play or the secret zone.
func (g *Game) registerAbilities(e *Entity) {
	if e.Silenced {
		return
	}
	for _, name := range e.Abilities {
		spec, ok := abilityRegistry[name]
		if !ok {
			g.log.Warn("unknown ability hook", zap.String("entity", e.ID), zap.String("ability", name))
			continue
		}
		source := e
		g.triggers.Register(rules.AbilityTrigger{
			ID:         source.ID + "/" + name,
			SourceID:   source.ID,
			Controller: source.controller,
			EventType:  spec.Event,
			Position:   g.boardPosition(source),
			Once:       spec.Once,
			Condition: func(ev rules.Event) bool {
				if spec.Condition != nil {
					return spec.Condition(source, ev)
				}
				return sourceIsTarget(source, ev)
			},
			Build: func(ev rules.Event) rules.Reaction {
				return rules.Reaction{
					ID:         source.ID + "/" + name,
					SourceID:   source.ID,
					Controller: source.controller,
					Position:   g.boardPosition(source),
					Resolve: func() error {
						actions := spec.Fn(g, source, ev)
						if err := g.exec(source.controller, actions); err != nil {
							return err
						}
						if source.Type == TypeSecret && source.zone == zones.ZoneSecret {
							return g.revealSecret(source)
						}
						return nil
					},
				}
			},
		})
	}
}

// unregisterAbilities removes every trigger an entity contributed. Called on
// leave-play, death and silence.
func (g *Game) unregisterAbilities(e *Entity) {
	g.triggers.UnregisterSource(e.ID)
}
