package game

import (
	"github.com/google/uuid"

	"github.com/hearthforge/hearth-server-go/internal/game/buffs"
	"github.com/hearthforge/hearth-server-go/internal/game/mana"
	"github.com/hearthforge/hearth-server-go/internal/game/zones"
)

// PlayState is the player's standing in the match.
type PlayState int

const (
	PlayStateInvalid PlayState = iota
	PlayStatePlaying
	PlayStateWon
	PlayStateLost
	PlayStateTied
	PlayStateConceded
)

var playStateNames = map[PlayState]string{
	PlayStateInvalid:  "INVALID",
	PlayStatePlaying:  "PLAYING",
	PlayStateWon:      "WON",
	PlayStateLost:     "LOST",
	PlayStateTied:     "TIED",
	PlayStateConceded: "CONCEDED",
}

func (ps PlayState) String() string {
	if name, ok := playStateNames[ps]; ok {
		return name
	}
	return "UNKNOWN"
}

// Player is a specialized entity owning a deck, hand, board, secrets, a hero,
// an optional weapon, and the mana pool.
type Player struct {
	*Entity

	Hero   *Entity
	Weapon *Entity

	Mana *mana.Pool

	FatigueCounter int
	PlayState      PlayState
	Timeout        int

	LastCardPlayed string
	Combo          bool

	CardsPlayedThisTurn   int
	MinionsPlayedThisTurn int
	MinionsKilledThisTurn int
	TimesHeroPowerUsed    int

	// The opponent relation is fixed at game construction, never searched
	// for.
	opponent *Player
}

func newPlayer(name string, maxCrystals int) *Player {
	id := uuid.NewString()
	return &Player{
		Entity: &Entity{
			ID:   id,
			Name: name,
			Type: TypePlayer,
			zone: zones.ZoneInvalid,
			base: map[buffs.Attr]int{},
			// A player is their own controller and owner.
			controller: id,
			owner:      id,
		},
		Mana:      mana.NewPool(maxCrystals),
		PlayState: PlayStateInvalid,
		Timeout:   75,
	}
}

// Opponent returns the other player.
func (p *Player) Opponent() *Player { return p.opponent }

// AvailableMana returns the mana the player can spend right now.
func (p *Player) AvailableMana() int { return p.Mana.Available() }

// ResetTurnCounters clears the per-turn bookkeeping at a turn boundary.
func (p *Player) ResetTurnCounters() {
	p.CardsPlayedThisTurn = 0
	p.MinionsPlayedThisTurn = 0
	p.MinionsKilledThisTurn = 0
	p.TimesHeroPowerUsed = 0
	p.Combo = false
}
