package zones

import (
	"errors"
	"fmt"
)

// Zone identifies one of the named containers an entity can occupy.
type Zone int

const (
	ZoneInvalid Zone = iota
	ZoneDeck
	ZoneHand
	ZonePlay
	ZoneSecret
	ZoneGraveyard
	ZoneSetAside
)

var zoneNames = map[Zone]string{
	ZoneInvalid:   "INVALID",
	ZoneDeck:      "DECK",
	ZoneHand:      "HAND",
	ZonePlay:      "PLAY",
	ZoneSecret:    "SECRET",
	ZoneGraveyard: "GRAVEYARD",
	ZoneSetAside:  "SETASIDE",
}

func (z Zone) String() string {
	if name, ok := zoneNames[z]; ok {
		return name
	}
	return fmt.Sprintf("ZONE_%d", int(z))
}

// ErrDesync reports that an entity's zone tag and its container membership
// disagree. This is a programming defect; callers must not continue resolving
// on top of it.
var ErrDesync = errors.New("zone/container desync")

// ErrNotFound reports a lookup of an entity that is not in the expected
// container.
var ErrNotFound = errors.New("entity not in container")

// Member is the minimal surface the zone manager needs from an entity.
type Member interface {
	EntityID() string
	CurrentZone() Zone
	SetCurrentZone(Zone)
}

// Transition describes one committed zone change, consumed by the resolver's
// trigger pass.
type Transition struct {
	EntityID   string
	From       Zone
	To         Zone
	FromPlayer string
	ToPlayer   string
	Position   int
	// Discarded is set when a hand insert was redirected to the graveyard
	// because the hand was full.
	Discarded bool
}

// Container is an ordered sequence of entities with set-like uniqueness.
// Order is meaningful: deck order drives draws and mills, play order drives
// board position.
type Container struct {
	zone    Zone
	owner   string
	members []Member
}

// NewContainer creates an empty container for the given player and zone.
func NewContainer(owner string, zone Zone) *Container {
	return &Container{
		zone:    zone,
		owner:   owner,
		members: make([]Member, 0, 8),
	}
}

// Zone returns the zone tag of this container.
func (c *Container) Zone() Zone { return c.zone }

// Owner returns the player this container belongs to.
func (c *Container) Owner() string { return c.owner }

// Len returns the number of entities in the container.
func (c *Container) Len() int { return len(c.members) }

// Members returns a copy of the ordered member list.
func (c *Container) Members() []Member {
	cpy := make([]Member, len(c.members))
	copy(cpy, c.members)
	return cpy
}

// IDs returns the ordered entity IDs.
func (c *Container) IDs() []string {
	ids := make([]string, len(c.members))
	for i, m := range c.members {
		ids[i] = m.EntityID()
	}
	return ids
}

// Contains reports whether the entity is in this container.
func (c *Container) Contains(id string) bool {
	return c.indexOf(id) >= 0
}

// Index returns the position of the entity, or -1.
func (c *Container) Index(id string) int { return c.indexOf(id) }

// At returns the member at position i.
func (c *Container) At(i int) (Member, bool) {
	if i < 0 || i >= len(c.members) {
		return nil, false
	}
	return c.members[i], true
}

// Top returns the last member, the next card drawn when this is a deck.
func (c *Container) Top() (Member, bool) {
	if len(c.members) == 0 {
		return nil, false
	}
	return c.members[len(c.members)-1], true
}

func (c *Container) indexOf(id string) int {
	for i, m := range c.members {
		if m.EntityID() == id {
			return i
		}
	}
	return -1
}

// insert places the member at position. Position -1 or past the end appends.
func (c *Container) insert(m Member, position int) int {
	if c.indexOf(m.EntityID()) >= 0 {
		// Uniqueness is an invariant; the manager checks before calling.
		return -1
	}
	if position < 0 || position >= len(c.members) {
		c.members = append(c.members, m)
		return len(c.members) - 1
	}
	c.members = append(c.members, nil)
	copy(c.members[position+1:], c.members[position:])
	c.members[position] = m
	return position
}

func (c *Container) remove(id string) (Member, bool) {
	idx := c.indexOf(id)
	if idx < 0 {
		return nil, false
	}
	m := c.members[idx]
	c.members = append(c.members[:idx], c.members[idx+1:]...)
	return m, true
}

// Shuffler is the randomness surface used to shuffle decks. *rand.Rand from
// the rng package satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// Manager is the sole authority for entity placement. Every zone change routes
// through Transition so zone tags and container membership never drift apart.
type Manager struct {
	maxHandSize int
	containers  map[string]map[Zone]*Container
}

// trackedZones are the zones backed by a per-player container. SetAside is
// tracked too so control-steal bounces stay accounted for.
var trackedZones = []Zone{ZoneDeck, ZoneHand, ZonePlay, ZoneSecret, ZoneGraveyard, ZoneSetAside}

// NewManager creates a zone manager with the given hand-size policy.
func NewManager(maxHandSize int) *Manager {
	return &Manager{
		maxHandSize: maxHandSize,
		containers:  make(map[string]map[Zone]*Container),
	}
}

// AddPlayer creates the container set for a player.
func (mgr *Manager) AddPlayer(playerID string) {
	if _, ok := mgr.containers[playerID]; ok {
		return
	}
	set := make(map[Zone]*Container, len(trackedZones))
	for _, zone := range trackedZones {
		set[zone] = NewContainer(playerID, zone)
	}
	mgr.containers[playerID] = set
}

// Container returns the container for a player and zone.
func (mgr *Manager) Container(playerID string, zone Zone) (*Container, bool) {
	set, ok := mgr.containers[playerID]
	if !ok {
		return nil, false
	}
	c, ok := set[zone]
	return c, ok
}

// Place puts an entity into a container without a source zone. Used only at
// entity creation (deck construction, token summon staging); the entity must
// currently be zoneless.
func (mgr *Manager) Place(m Member, playerID string, zone Zone, position int) error {
	if m.CurrentZone() != ZoneInvalid {
		return fmt.Errorf("%w: entity %s already in %s", ErrDesync, m.EntityID(), m.CurrentZone())
	}
	c, ok := mgr.Container(playerID, zone)
	if !ok {
		return fmt.Errorf("no %s container for player %s", zone, playerID)
	}
	if c.insert(m, position) < 0 {
		return fmt.Errorf("%w: entity %s already in %s of %s", ErrDesync, m.EntityID(), zone, playerID)
	}
	m.SetCurrentZone(zone)
	return nil
}

// Transition moves an entity between containers, applying the hand-size
// policy: a hand insert into a full hand is redirected to the graveyard and
// flagged Discarded instead of failing.
func (mgr *Manager) Transition(m Member, fromPlayer, toPlayer string, to Zone, position int) (Transition, error) {
	from := m.CurrentZone()
	tr := Transition{
		EntityID:   m.EntityID(),
		From:       from,
		To:         to,
		FromPlayer: fromPlayer,
		ToPlayer:   toPlayer,
	}

	if from != ZoneInvalid {
		src, ok := mgr.Container(fromPlayer, from)
		if !ok {
			return tr, fmt.Errorf("no %s container for player %s", from, fromPlayer)
		}
		if _, ok := src.remove(m.EntityID()); !ok {
			return tr, fmt.Errorf("%w: entity %s tagged %s but absent from container", ErrDesync, m.EntityID(), from)
		}
	}

	if to == ZoneHand {
		hand, ok := mgr.Container(toPlayer, ZoneHand)
		if !ok {
			return tr, fmt.Errorf("no HAND container for player %s", toPlayer)
		}
		if hand.Len() >= mgr.maxHandSize {
			tr.To = ZoneGraveyard
			tr.Discarded = true
			to = ZoneGraveyard
			position = -1
		}
	}

	dst, ok := mgr.Container(toPlayer, to)
	if !ok {
		return tr, fmt.Errorf("no %s container for player %s", to, toPlayer)
	}
	idx := dst.insert(m, position)
	if idx < 0 {
		return tr, fmt.Errorf("%w: entity %s already present in %s of %s", ErrDesync, m.EntityID(), to, toPlayer)
	}
	tr.Position = idx
	m.SetCurrentZone(to)
	return tr, nil
}

// Shuffle permutes a player's deck in place using the provided source. The
// source yields a uniform permutation, so replays under a fixed seed see the
// same deck order.
func (mgr *Manager) Shuffle(playerID string, src Shuffler) error {
	deck, ok := mgr.Container(playerID, ZoneDeck)
	if !ok {
		return fmt.Errorf("no DECK container for player %s", playerID)
	}
	src.Shuffle(len(deck.members), func(i, j int) {
		deck.members[i], deck.members[j] = deck.members[j], deck.members[i]
	})
	return nil
}

// Verify checks the core invariant for one entity: it appears in exactly one
// container, and that container's zone tag matches the entity's.
func (mgr *Manager) Verify(m Member) error {
	found := 0
	for _, set := range mgr.containers {
		for zone, c := range set {
			if c.Contains(m.EntityID()) {
				found++
				if zone != m.CurrentZone() {
					return fmt.Errorf("%w: entity %s tagged %s but found in %s", ErrDesync, m.EntityID(), m.CurrentZone(), zone)
				}
			}
		}
	}
	if m.CurrentZone() == ZoneInvalid {
		if found != 0 {
			return fmt.Errorf("%w: zoneless entity %s present in %d containers", ErrDesync, m.EntityID(), found)
		}
		return nil
	}
	if found != 1 {
		return fmt.Errorf("%w: entity %s present in %d containers", ErrDesync, m.EntityID(), found)
	}
	return nil
}
