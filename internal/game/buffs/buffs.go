package buffs

import (
	"sync"

	"github.com/google/uuid"
)

// Attr names a buffable base attribute.
type Attr string

const (
	AttrAttack     Attr = "attack"
	AttrHealth     Attr = "health"
	AttrCost       Attr = "cost"
	AttrDurability Attr = "durability"
	AttrSpellpower Attr = "spellpower"
)

// Buff is an attribute delta or override granted by a source entity.
// Application order is chronological: a set-value buff overrides everything
// granted before it but not deltas granted after it.
type Buff struct {
	ID       string
	SourceID string
	Attr     Attr
	Delta    int
	Value    int
	IsSet    bool
	// OneTurn buffs are cleared at the next turn boundary.
	OneTurn bool
}

// SourceFilter reports whether a buff source is currently active (in play,
// unsilenced). Inactive sources contribute nothing.
type SourceFilter func(sourceID string) bool

// Engine computes effective attribute values from a base value plus the
// ordered set of active buffs. Results are cached per entity and attribute;
// the owning game invalidates on zone transitions, buff churn, and turn
// boundaries.
type Engine struct {
	mu           sync.RWMutex
	byEntity     map[string][]Buff
	cache        map[string]int
	sourceActive SourceFilter
}

// NewEngine constructs an empty buff engine. A nil filter treats every source
// as active.
func NewEngine(filter SourceFilter) *Engine {
	return &Engine{
		byEntity:     make(map[string][]Buff),
		cache:        make(map[string]int),
		sourceActive: filter,
	}
}

func cacheKey(entityID string, attr Attr) string {
	return entityID + "/" + string(attr)
}

// Add grants a buff to an entity and returns the buff ID.
func (e *Engine) Add(entityID string, buff Buff) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if buff.ID == "" {
		buff.ID = uuid.NewString()
	}
	e.byEntity[entityID] = append(e.byEntity[entityID], buff)
	e.invalidateLocked(entityID)
	return buff.ID
}

// Remove removes one buff from an entity by ID.
func (e *Engine) Remove(entityID, buffID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	list := e.byEntity[entityID]
	for i, b := range list {
		if b.ID == buffID {
			e.byEntity[entityID] = append(list[:i], list[i+1:]...)
			e.invalidateLocked(entityID)
			return
		}
	}
}

// RemoveBySource strips every buff granted by the given source, across all
// entities. Called when the source leaves play.
func (e *Engine) RemoveBySource(sourceID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for entityID, list := range e.byEntity {
		kept := list[:0]
		removed := false
		for _, b := range list {
			if b.SourceID == sourceID {
				removed = true
				continue
			}
			kept = append(kept, b)
		}
		if removed {
			e.byEntity[entityID] = kept
			e.invalidateLocked(entityID)
		}
	}
}

// RemoveOneTurn clears temporary buffs at a turn boundary.
func (e *Engine) RemoveOneTurn() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for entityID, list := range e.byEntity {
		kept := list[:0]
		removed := false
		for _, b := range list {
			if b.OneTurn {
				removed = true
				continue
			}
			kept = append(kept, b)
		}
		if removed {
			e.byEntity[entityID] = kept
			e.invalidateLocked(entityID)
		}
	}
}

// RemoveAll strips every buff from an entity. This is the silence path.
func (e *Engine) RemoveAll(entityID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.byEntity, entityID)
	e.invalidateLocked(entityID)
}

// Buffs returns a copy of the entity's buff list in grant order.
func (e *Engine) Buffs(entityID string) []Buff {
	e.mu.RLock()
	defer e.mu.RUnlock()
	list := e.byEntity[entityID]
	cpy := make([]Buff, len(list))
	copy(cpy, list)
	return cpy
}

// Invalidate drops cached values for an entity. The game calls this on zone
// transitions of the entity or of any buff source.
func (e *Engine) Invalidate(entityID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.invalidateLocked(entityID)
}

// InvalidateBySource drops cached values for every entity holding a buff
// granted by the given source. The game calls this when a source is silenced
// or changes zone, since the source filter may now answer differently.
func (e *Engine) InvalidateBySource(sourceID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for entityID, list := range e.byEntity {
		for _, b := range list {
			if b.SourceID == sourceID {
				e.invalidateLocked(entityID)
				break
			}
		}
	}
}

// InvalidateAll drops the whole cache, used at turn boundaries.
func (e *Engine) InvalidateAll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cache = make(map[string]int)
}

func (e *Engine) invalidateLocked(entityID string) {
	prefix := entityID + "/"
	for key := range e.cache {
		if len(key) > len(prefix) && key[:len(prefix)] == prefix {
			delete(e.cache, key)
		}
	}
}

// Effective computes the entity's effective value for an attribute given its
// base value. Pure for a fixed buff set: repeated calls return the same value
// until state changes invalidate the cache.
func (e *Engine) Effective(entityID string, attr Attr, base int) int {
	key := cacheKey(entityID, attr)

	e.mu.RLock()
	if v, ok := e.cache[key]; ok {
		e.mu.RUnlock()
		return v
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()
	if v, ok := e.cache[key]; ok {
		return v
	}

	v := base
	for _, b := range e.byEntity[entityID] {
		if b.Attr != attr {
			continue
		}
		if b.SourceID != "" && e.sourceActive != nil && !e.sourceActive(b.SourceID) {
			continue
		}
		if b.IsSet {
			v = b.Value
		} else {
			v += b.Delta
		}
	}
	e.cache[key] = v
	return v
}
