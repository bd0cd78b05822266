package rules

import (
	"sync"

	"github.com/google/uuid"
)

// Reaction is a follow-up effect produced by a trigger. The resolver executes
// reactions depth-first, in trigger-priority order, before returning to the
// batch item that caused them.
type Reaction struct {
	ID          string
	SourceID    string
	Controller  string
	Description string
	Position    int
	Resolve     func() error
}

// AbilityTrigger encapsulates the logic for reacting to a specific event and
// producing reactions when the conditions are satisfied.
type AbilityTrigger struct {
	ID         string
	SourceID   string
	Controller string
	EventType  EventType
	// Position is the board slot of the source, used for deterministic
	// ordering among triggers of the same controller.
	Position  int
	Condition func(Event) bool
	Build     func(Event) Reaction
	Once      bool
}

// TriggerManager stores and evaluates ability triggers against events.
type TriggerManager struct {
	mu       sync.Mutex
	triggers map[string]AbilityTrigger
}

// NewTriggerManager creates an empty trigger manager.
func NewTriggerManager() *TriggerManager {
	return &TriggerManager{
		triggers: make(map[string]AbilityTrigger),
	}
}

// Register adds a new trigger to the manager.
func (tm *TriggerManager) Register(trigger AbilityTrigger) string {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	if trigger.ID == "" {
		trigger.ID = uuid.NewString()
	}
	tm.triggers[trigger.ID] = trigger
	return trigger.ID
}

// Unregister removes a trigger by ID.
func (tm *TriggerManager) Unregister(id string) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	delete(tm.triggers, id)
}

// UnregisterSource removes every trigger whose source matches the given
// entity. Called when the source leaves play or is silenced.
func (tm *TriggerManager) UnregisterSource(sourceID string) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	for id, trigger := range tm.triggers {
		if trigger.SourceID == sourceID {
			delete(tm.triggers, id)
		}
	}
}

// SetPosition updates the board position recorded for triggers of a source.
func (tm *TriggerManager) SetPosition(sourceID string, position int) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	for id, trigger := range tm.triggers {
		if trigger.SourceID == sourceID {
			trigger.Position = position
			tm.triggers[id] = trigger
		}
	}
}

// Handle evaluates the provided event against all registered triggers and
// returns the reactions they produce. Ordering across controllers is the
// resolver's responsibility; the returned slice is unordered.
func (tm *TriggerManager) Handle(event Event) []Reaction {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	if len(tm.triggers) == 0 {
		return nil
	}

	var (
		reactions []Reaction
		toRemove  []string
	)

	for id, trigger := range tm.triggers {
		if trigger.EventType != event.Type {
			continue
		}
		if trigger.Condition != nil && !trigger.Condition(event) {
			continue
		}
		if trigger.Build == nil {
			continue
		}

		reaction := trigger.Build(event)
		if reaction.ID == "" {
			reaction.ID = uuid.NewString()
		}
		if reaction.SourceID == "" {
			reaction.SourceID = trigger.SourceID
		}
		if reaction.Controller == "" {
			reaction.Controller = trigger.Controller
		}
		reaction.Position = trigger.Position
		reactions = append(reactions, reaction)

		if trigger.Once {
			toRemove = append(toRemove, id)
		}
	}

	for _, id := range toRemove {
		delete(tm.triggers, id)
	}

	return reactions
}
