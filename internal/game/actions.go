package game

// ActionKind tags a requested effect.
type ActionKind string

const (
	ActionDraw    ActionKind = "DRAW"
	ActionPlay    ActionKind = "PLAY"
	ActionGive    ActionKind = "GIVE"
	ActionSummon  ActionKind = "SUMMON"
	ActionDamage  ActionKind = "DAMAGE"
	ActionHeal    ActionKind = "HEAL"
	ActionDestroy ActionKind = "DESTROY"
	ActionDiscard ActionKind = "DISCARD"
	ActionMill    ActionKind = "MILL"
	ActionSteal   ActionKind = "STEAL"

	ActionHeroPower ActionKind = "HERO_POWER"
)

// ActionState tracks one action's progress through the resolver.
type ActionState int

const (
	StateQueued ActionState = iota
	StateExpanding
	StateExecuting
	StateResolved
	StateCancelled
)

var actionStateNames = map[ActionState]string{
	StateQueued:    "QUEUED",
	StateExpanding: "EXPANDING",
	StateExecuting: "EXECUTING",
	StateResolved:  "RESOLVED",
	StateCancelled: "CANCELLED",
}

func (s ActionState) String() string {
	if name, ok := actionStateNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

// Action is a requested effect. Actions are value objects: queuing them never
// mutates state until resolution, and they are re-evaluated against current
// state when execution is reached.
type Action struct {
	Kind ActionKind
	// Actor is the player the action acts on behalf of.
	Actor string
	// EntityID names a concrete existing entity (the card being played, the
	// character being damaged or destroyed).
	EntityID string
	// CardID names a card definition, for effects that create entities
	// (Give, Summon from id).
	CardID string
	// TargetID names a target reference, resolved at execution time.
	TargetID string
	Amount   int
	Position int
	// Times is the repetition count. Zero and one both mean once; the
	// expansion happens at resolution time so each copy re-evaluates state.
	Times int
}

// Repeat returns a copy of the action that expands to k sequential copies at
// resolution time.
func (a Action) Repeat(k int) Action {
	a.Times = k
	return a
}

func (a Action) repetitions() int {
	if a.Times <= 1 {
		return 1
	}
	return a.Times
}

// Draw requests that a player draw from their deck.
func Draw(playerID string) Action {
	return Action{Kind: ActionDraw, Actor: playerID, Position: -1}
}

// Play requests playing a card from the actor's hand, optionally at a board
// position and with a target.
func Play(playerID, entityID, targetID string, position int) Action {
	return Action{Kind: ActionPlay, Actor: playerID, EntityID: entityID, TargetID: targetID, Position: position}
}

// Give puts a new copy of a card into the player's hand.
func Give(playerID, cardID string) Action {
	return Action{Kind: ActionGive, Actor: playerID, CardID: cardID, Position: -1}
}

// Summon puts a minion into play without paying its cost.
func Summon(playerID, cardID string, position int) Action {
	return Action{Kind: ActionSummon, Actor: playerID, CardID: cardID, Position: position}
}

// SummonEntity puts an already-created entity into play.
func SummonEntity(playerID, entityID string, position int) Action {
	return Action{Kind: ActionSummon, Actor: playerID, EntityID: entityID, Position: position}
}

// Damage deals damage to a character.
func Damage(playerID, targetID string, amount int, sourceID string) Action {
	return Action{Kind: ActionDamage, Actor: playerID, TargetID: targetID, Amount: amount, EntityID: sourceID}
}

// Heal restores health to a character.
func Heal(playerID, targetID string, amount int) Action {
	return Action{Kind: ActionHeal, Actor: playerID, TargetID: targetID, Amount: amount}
}

// Destroy destroys an entity outright.
func Destroy(playerID, entityID string) Action {
	return Action{Kind: ActionDestroy, Actor: playerID, EntityID: entityID}
}

// Discard throws a card from the actor's hand into the graveyard.
func Discard(playerID, entityID string) Action {
	return Action{Kind: ActionDiscard, Actor: playerID, EntityID: entityID}
}

// Mill destroys the top card of the actor's deck.
func Mill(playerID string) Action {
	return Action{Kind: ActionMill, Actor: playerID}
}

// Steal moves control of an entity to the actor.
func Steal(playerID, entityID string) Action {
	return Action{Kind: ActionSteal, Actor: playerID, EntityID: entityID}
}

// UseHeroPower fires the actor's hero power, optionally at a target. Without
// a target the power hits the enemy hero.
func UseHeroPower(playerID, targetID string) Action {
	return Action{Kind: ActionHeroPower, Actor: playerID, TargetID: targetID}
}

// Result reports what one requested action produced. For a cancelled action
// Err carries the failure marker; the rest of the batch still resolves.
type Result struct {
	Action   Action
	State    ActionState
	Entities []string
	Err      error
}
