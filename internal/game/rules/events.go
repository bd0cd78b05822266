package rules

import (
	"sync"
	"time"
)

// EventType indicates the category of a rules event.
type EventType string

const (
	// Turn events
	EventBeginTurn EventType = "BEGIN_TURN"
	EventEndTurn   EventType = "END_TURN"

	// Zone events
	EventZoneChange EventType = "ZONE_CHANGE"
	EventShuffle    EventType = "SHUFFLE"

	// Card events
	EventDrawCard   EventType = "DRAW_CARD"
	EventDrewCard   EventType = "DREW_CARD"
	EventOverdraw   EventType = "OVERDRAW"
	EventMilledCard EventType = "MILLED_CARD"
	EventDiscard    EventType = "DISCARD"
	EventCardPlayed EventType = "CARD_PLAYED"
	EventCardGiven  EventType = "CARD_GIVEN"
	EventSummon     EventType = "SUMMON"
	EventSummoned   EventType = "SUMMONED"
	EventFatigue    EventType = "FATIGUE"

	// Character events
	EventDamage        EventType = "DAMAGE"
	EventDamaged       EventType = "DAMAGED"
	EventHealed        EventType = "HEALED"
	EventDestroy       EventType = "DESTROY"
	EventDied          EventType = "DIED"
	EventDeathrattle   EventType = "DEATHRATTLE"
	EventSilenced      EventType = "SILENCED"
	EventControlChange EventType = "CONTROL_CHANGE"

	// Mana events
	EventManaSpent    EventType = "MANA_SPENT"
	EventManaCrystal  EventType = "MANA_CRYSTAL"
	EventOverload     EventType = "OVERLOAD"
	EventTempManaGain EventType = "TEMP_MANA_GAIN"

	// Secret events
	EventSecretPlayed   EventType = "SECRET_PLAYED"
	EventSecretRevealed EventType = "SECRET_REVEALED"

	// Hero events
	EventHeroPower EventType = "HERO_POWER"

	// Buff events
	EventBuffApplied EventType = "BUFF_APPLIED"
	EventBuffRemoved EventType = "BUFF_REMOVED"

	// Match events
	EventPlayStateChange EventType = "PLAYSTATE_CHANGE"
	EventConcede         EventType = "CONCEDE"
)

// Event represents a committed state change that other subsystems may react to.
// The resolver publishes one after every atomic mutation; subscribers (reactive
// abilities, the structured log, watchers) observe but never mutate state from
// a callback.
type Event struct {
	Type        EventType
	ID          string
	TargetID    string
	SourceID    string
	Controller  string
	PlayerID    string
	Amount      int
	FromZone    string
	ToZone      string
	Timestamp   time.Time
	Metadata    map[string]string
	Description string
}

// Listener defines a callback that reacts to incoming events.
type Listener func(Event)

// TypedListener defines a callback that reacts to a specific event type.
type TypedListener struct {
	Handle    int
	EventType EventType
	Callback  func(Event)
}

// EventBus provides a synchronous publish/subscribe implementation with type
// filtering. Delivery order per event: untyped listeners first, then typed.
type EventBus struct {
	mu             sync.RWMutex
	listeners      map[int]Listener
	typedListeners map[EventType][]TypedListener
	nextHandle     int
}

// NewEventBus constructs a fresh event bus instance.
func NewEventBus() *EventBus {
	return &EventBus{
		listeners:      make(map[int]Listener),
		typedListeners: make(map[EventType][]TypedListener),
	}
}

// Subscribe registers a listener for all events and returns a handle.
func (bus *EventBus) Subscribe(listener Listener) int {
	if listener == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	handle := bus.nextHandle
	bus.nextHandle++
	bus.listeners[handle] = listener
	return handle
}

// SubscribeTyped registers a listener for a specific event type.
func (bus *EventBus) SubscribeTyped(eventType EventType, callback func(Event)) int {
	if callback == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	handle := bus.nextHandle
	bus.nextHandle++
	bus.typedListeners[eventType] = append(bus.typedListeners[eventType], TypedListener{
		Handle:    handle,
		EventType: eventType,
		Callback:  callback,
	})
	return handle
}

// Unsubscribe removes the listener identified by the provided handle.
func (bus *EventBus) Unsubscribe(handle int) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	delete(bus.listeners, handle)
	for eventType, listeners := range bus.typedListeners {
		for i := len(listeners) - 1; i >= 0; i-- {
			if listeners[i].Handle == handle {
				bus.typedListeners[eventType] = append(listeners[:i], listeners[i+1:]...)
				break
			}
		}
	}
}

// Publish delivers the event to all registered listeners synchronously.
func (bus *EventBus) Publish(event Event) {
	bus.mu.RLock()
	defer bus.mu.RUnlock()

	for _, listener := range bus.listeners {
		listener(event)
	}
	if typed, ok := bus.typedListeners[event.Type]; ok {
		for _, listener := range typed {
			listener.Callback(event)
		}
	}
}

// PublishBatch publishes multiple events in order.
func (bus *EventBus) PublishBatch(events []Event) {
	for _, event := range events {
		bus.Publish(event)
	}
}

// NewEvent creates a new event with common fields populated.
func NewEvent(eventType EventType, targetID, sourceID, controllerID string) Event {
	return Event{
		Type:       eventType,
		TargetID:   targetID,
		SourceID:   sourceID,
		Controller: controllerID,
		PlayerID:   controllerID,
		Timestamp:  time.Now(),
		Metadata:   make(map[string]string),
	}
}

// NewEventWithAmount creates a new event with an amount value.
func NewEventWithAmount(eventType EventType, targetID, sourceID, controllerID string, amount int) Event {
	evt := NewEvent(eventType, targetID, sourceID, controllerID)
	evt.Amount = amount
	return evt
}
