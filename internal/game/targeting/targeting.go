package targeting

import (
	"fmt"

	"github.com/hearthforge/hearth-server-go/internal/game/zones"
)

// Candidate is the capability surface the resolver needs from a potential
// target. Game entities implement it.
type Candidate interface {
	EntityID() string
	ControllerID() string
	CurrentZone() zones.Zone
	IsMinion() bool
	IsHero() bool
	HasTaunt() bool
	HasStealth() bool
}

// Predicate is a composable legality test over a candidate.
type Predicate func(Candidate) bool

// And returns a predicate satisfied only when all parts are.
func And(parts ...Predicate) Predicate {
	return func(c Candidate) bool {
		for _, p := range parts {
			if !p(c) {
				return false
			}
		}
		return true
	}
}

// Or returns a predicate satisfied when any part is.
func Or(parts ...Predicate) Predicate {
	return func(c Candidate) bool {
		for _, p := range parts {
			if p(c) {
				return true
			}
		}
		return false
	}
}

// Not inverts a predicate.
func Not(p Predicate) Predicate {
	return func(c Candidate) bool { return !p(c) }
}

// InZone restricts candidates to the given zones.
func InZone(allowed ...zones.Zone) Predicate {
	return func(c Candidate) bool {
		for _, z := range allowed {
			if c.CurrentZone() == z {
				return true
			}
		}
		return false
	}
}

// IsCharacter matches minions in play and heroes.
func IsCharacter() Predicate {
	return func(c Candidate) bool { return c.IsMinion() || c.IsHero() }
}

// MinionOnly matches minions.
func MinionOnly() Predicate {
	return func(c Candidate) bool { return c.IsMinion() }
}

// ControlledBy restricts to one controller.
func ControlledBy(playerID string) Predicate {
	return func(c Candidate) bool { return c.ControllerID() == playerID }
}

// Requirement describes the target an action demands.
type Requirement struct {
	Description string
	Predicate   Predicate
	// EnforceTaunt makes enemy taunt minions gate the choice (attack
	// targeting).
	EnforceTaunt bool
	// RespectStealth hides stealthed enemy minions from the chooser.
	RespectStealth bool
}

// Failure is an explicit targeting rejection. The resolver never substitutes
// a default target; a failed resolution is surfaced to the caller.
type Failure struct {
	TargetID string
	Reason   string
}

func (f *Failure) Error() string {
	return fmt.Sprintf("illegal target %s: %s", f.TargetID, f.Reason)
}

// Resolve validates a candidate reference against the requirement and the
// full candidate pool. It returns exactly one concrete candidate or a
// *Failure; never a partial result.
func Resolve(targetID, actorID string, pool []Candidate, req Requirement) (Candidate, error) {
	var chosen Candidate
	for _, c := range pool {
		if c.EntityID() == targetID {
			chosen = c
			break
		}
	}
	if chosen == nil {
		return nil, &Failure{TargetID: targetID, Reason: "target does not exist"}
	}

	if req.Predicate != nil && !req.Predicate(chosen) {
		return nil, &Failure{TargetID: targetID, Reason: "target does not satisfy " + req.Description}
	}

	if req.RespectStealth && chosen.HasStealth() && chosen.ControllerID() != actorID {
		return nil, &Failure{TargetID: targetID, Reason: "target is stealthed"}
	}

	if req.EnforceTaunt && chosen.ControllerID() != actorID && !chosen.HasTaunt() {
		for _, c := range pool {
			if c.ControllerID() != actorID &&
				c.ControllerID() == chosen.ControllerID() &&
				c.CurrentZone() == zones.ZonePlay &&
				c.IsMinion() && c.HasTaunt() {
				return nil, &Failure{TargetID: targetID, Reason: "a taunt minion must be attacked first"}
			}
		}
	}

	return chosen, nil
}
