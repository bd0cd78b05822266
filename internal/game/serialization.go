package game

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hearthforge/hearth-server-go/internal/game/buffs"
	"github.com/hearthforge/hearth-server-go/internal/game/zones"
)

// EntitySnapshot is the serialized form of one entity. Stats are effective
// values, with buffs already applied.
type EntitySnapshot struct {
	ID         string
	CardID     string
	Name       string
	Type       string
	Zone       string
	Controller string
	Owner      string
	Attack     int
	Health     int
	Cost       int
	Durability int
	Damage     int
	Silenced   bool
	Dead       bool
	Taunt      bool
	Stealth    bool
	Charge     bool
}

// PlayerSnapshot is the serialized form of one player, with zone contents in
// container order.
type PlayerSnapshot struct {
	ID             string
	Name           string
	HeroID         string
	PlayState      string
	MaxMana        int
	UsedMana       int
	TempMana       int
	Overloaded     int
	Locked         int
	FatigueCounter int
	Deck           []string
	Hand           []string
	Play           []string
	Secrets        []string
	Graveyard      []string
	SetAside       []string
}

// Snapshot is a complete, self-contained capture of a game state. It is what
// replays record and what the snapshot store persists.
type Snapshot struct {
	GameID        string
	Seed          int64
	Turn          int
	CurrentPlayer string
	Over          bool
	Order         []string
	Players       map[string]PlayerSnapshot
	Entities      map[string]EntitySnapshot
	Timestamp     time.Time
}

// Snapshot captures the current game state.
func (g *Game) Snapshot() *Snapshot {
	g.mu.RLock()
	defer g.mu.RUnlock()

	s := &Snapshot{
		GameID:        g.id,
		Seed:          g.rng.Seed(),
		Turn:          g.turn,
		CurrentPlayer: g.order[g.current],
		Over:          g.over,
		Order:         append([]string(nil), g.order...),
		Players:       make(map[string]PlayerSnapshot, len(g.players)),
		Entities:      make(map[string]EntitySnapshot, len(g.entities)),
		Timestamp:     time.Now(),
	}

	for id, p := range g.players {
		ps := PlayerSnapshot{
			ID:             id,
			Name:           p.Name,
			PlayState:      p.PlayState.String(),
			MaxMana:        p.Mana.Max,
			UsedMana:       p.Mana.Used,
			TempMana:       p.Mana.Temp,
			Overloaded:     p.Mana.Overloaded,
			Locked:         p.Mana.Locked,
			FatigueCounter: p.FatigueCounter,
		}
		if p.Hero != nil {
			ps.HeroID = p.Hero.ID
		}
		ps.Deck = g.zoneIDs(id, zones.ZoneDeck)
		ps.Hand = g.zoneIDs(id, zones.ZoneHand)
		ps.Play = g.zoneIDs(id, zones.ZonePlay)
		ps.Secrets = g.zoneIDs(id, zones.ZoneSecret)
		ps.Graveyard = g.zoneIDs(id, zones.ZoneGraveyard)
		ps.SetAside = g.zoneIDs(id, zones.ZoneSetAside)
		s.Players[id] = ps
	}

	for id, e := range g.entities {
		if e.Type == TypePlayer {
			continue
		}
		s.Entities[id] = g.snapshotEntity(e)
	}
	return s
}

func (g *Game) snapshotEntity(e *Entity) EntitySnapshot {
	es := EntitySnapshot{
		ID:         e.ID,
		CardID:     e.CardID,
		Name:       e.Name,
		Type:       string(e.Type),
		Zone:       e.zone.String(),
		Controller: e.controller,
		Owner:      e.owner,
		Damage:     e.Damage,
		Silenced:   e.Silenced,
		Dead:       e.dead,
		Taunt:      e.HasTaunt(),
		Stealth:    e.HasStealth(),
		Charge:     e.Charge && !e.Silenced,
	}
	legal := attrsByType[e.Type]
	if legal[buffs.AttrAttack] {
		es.Attack = g.effective(e, buffs.AttrAttack)
	}
	if legal[buffs.AttrHealth] {
		es.Health = g.effective(e, buffs.AttrHealth)
	}
	if legal[buffs.AttrCost] {
		es.Cost = g.effective(e, buffs.AttrCost)
	}
	if legal[buffs.AttrDurability] {
		es.Durability = g.effective(e, buffs.AttrDurability)
	}
	return es
}

func (g *Game) zoneIDs(playerID string, zone zones.Zone) []string {
	c, ok := g.zone.Container(playerID, zone)
	if !ok {
		return nil
	}
	return c.IDs()
}

// Checksum computes a SHA-256 hash over a canonical representation of the
// snapshot. Two snapshots of equivalent states hash identically regardless of
// map iteration order; the timestamp is excluded.
func (s *Snapshot) Checksum() string {
	var b strings.Builder
	fmt.Fprintf(&b, "GAME:%s|%d|%d|%s|%t\n", s.GameID, s.Seed, s.Turn, s.CurrentPlayer, s.Over)

	for _, id := range s.Order {
		p := s.Players[id]
		fmt.Fprintf(&b, "PLAYER:%s|%s|%s|%d|%d|%d|%d|%d|%d\n",
			p.ID, p.Name, p.PlayState,
			p.MaxMana, p.UsedMana, p.TempMana, p.Overloaded, p.Locked,
			p.FatigueCounter)
		writeZoneLine(&b, "DECK", p.Deck)
		writeZoneLine(&b, "HAND", p.Hand)
		writeZoneLine(&b, "PLAY", p.Play)
		writeZoneLine(&b, "SECRET", p.Secrets)
		writeZoneLine(&b, "GRAVEYARD", p.Graveyard)
		writeZoneLine(&b, "SETASIDE", p.SetAside)
	}

	ids := make([]string, 0, len(s.Entities))
	for id := range s.Entities {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		e := s.Entities[id]
		fmt.Fprintf(&b, "ENTITY:%s|%s|%s|%s|%s|%d|%d|%d|%d|%d|%t|%t|%t|%t|%t\n",
			e.ID, e.CardID, e.Type, e.Zone, e.Controller,
			e.Attack, e.Health, e.Cost, e.Durability, e.Damage,
			e.Silenced, e.Dead, e.Taunt, e.Stealth, e.Charge)
	}

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

func writeZoneLine(b *strings.Builder, label string, ids []string) {
	fmt.Fprintf(b, "  %s:%s\n", label, strings.Join(ids, ","))
}
