package game

import (
	"fmt"

	"github.com/hearthforge/hearth-server-go/internal/game/buffs"
	"github.com/hearthforge/hearth-server-go/internal/game/zones"
)

// GameView is the state of a game as one player is allowed to see it. The
// opponent's hand is face down and their deck is a count.
type GameView struct {
	GameID        string       `json:"gameId"`
	ViewerID      string       `json:"viewerId"`
	Turn          int          `json:"turn"`
	CurrentPlayer string       `json:"currentPlayer"`
	Over          bool         `json:"over"`
	Players       []PlayerView `json:"players"`
}

// PlayerView is one seat in a GameView.
type PlayerView struct {
	PlayerID       string     `json:"playerId"`
	Name           string     `json:"name"`
	PlayState      string     `json:"playState"`
	Hero           CardView   `json:"hero"`
	Weapon         *CardView  `json:"weapon,omitempty"`
	MaxMana        int        `json:"maxMana"`
	AvailableMana  int        `json:"availableMana"`
	Overloaded     int        `json:"overloaded"`
	FatigueCounter int        `json:"fatigueCounter"`
	DeckCount      int        `json:"deckCount"`
	HandCount      int        `json:"handCount"`
	SecretCount    int        `json:"secretCount"`
	Hand           []CardView `json:"hand"`
	Board          []CardView `json:"board"`
	Graveyard      []CardView `json:"graveyard"`
}

// CardView is one entity in a GameView. A face-down card exposes nothing but
// its existence.
type CardView struct {
	ID         string `json:"id"`
	CardID     string `json:"cardId,omitempty"`
	Name       string `json:"name,omitempty"`
	Type       string `json:"type,omitempty"`
	Cost       int    `json:"cost"`
	Attack     int    `json:"attack"`
	Health     int    `json:"health"`
	Durability int    `json:"durability"`
	Damage     int    `json:"damage"`
	Taunt      bool   `json:"taunt,omitempty"`
	Stealth    bool   `json:"stealth,omitempty"`
	Charge     bool   `json:"charge,omitempty"`
	Silenced   bool   `json:"silenced,omitempty"`
	FaceDown   bool   `json:"faceDown,omitempty"`
}

// View builds the game state as seen by one player.
func (g *Game) View(viewerID string) (*GameView, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	viewer, ok := g.playerByRef(viewerID)
	if !ok {
		return nil, fmt.Errorf("%w: player %s", ErrNotFound, viewerID)
	}

	view := &GameView{
		GameID:        g.id,
		ViewerID:      viewer.ID,
		Turn:          g.turn,
		CurrentPlayer: g.order[g.current],
		Over:          g.over,
	}
	for _, id := range g.order {
		view.Players = append(view.Players, g.playerView(g.players[id], id == viewer.ID))
	}
	return view, nil
}

func (g *Game) playerView(p *Player, owned bool) PlayerView {
	pv := PlayerView{
		PlayerID:       p.ID,
		Name:           p.Name,
		PlayState:      p.PlayState.String(),
		MaxMana:        p.Mana.Max,
		AvailableMana:  p.Mana.Available(),
		Overloaded:     p.Mana.Overloaded,
		FatigueCounter: p.FatigueCounter,
	}
	if p.Hero != nil {
		pv.Hero = g.cardView(p.Hero)
	}
	if p.Weapon != nil {
		wv := g.cardView(p.Weapon)
		pv.Weapon = &wv
	}

	if deck, ok := g.zone.Container(p.ID, zones.ZoneDeck); ok {
		pv.DeckCount = deck.Len()
	}
	if secrets, ok := g.zone.Container(p.ID, zones.ZoneSecret); ok {
		pv.SecretCount = secrets.Len()
	}

	if hand, ok := g.zone.Container(p.ID, zones.ZoneHand); ok {
		pv.HandCount = hand.Len()
		for _, id := range hand.IDs() {
			e := g.entities[id]
			if e == nil {
				continue
			}
			if owned {
				pv.Hand = append(pv.Hand, g.cardView(e))
			} else {
				pv.Hand = append(pv.Hand, CardView{ID: e.ID, FaceDown: true})
			}
		}
	}

	for _, e := range g.minionsInPlay(p.ID) {
		cv := g.cardView(e)
		if !owned && e.HasStealth() {
			// Stealthed minions are visible on board but untargetable;
			// the flag rides along so clients can render it.
			cv.Stealth = true
		}
		pv.Board = append(pv.Board, cv)
	}

	if grave, ok := g.zone.Container(p.ID, zones.ZoneGraveyard); ok {
		for _, id := range grave.IDs() {
			if e := g.entities[id]; e != nil {
				pv.Graveyard = append(pv.Graveyard, g.cardView(e))
			}
		}
	}
	return pv
}

func (g *Game) cardView(e *Entity) CardView {
	cv := CardView{
		ID:       e.ID,
		CardID:   e.CardID,
		Name:     e.Name,
		Type:     string(e.Type),
		Damage:   e.Damage,
		Taunt:    e.HasTaunt(),
		Stealth:  e.HasStealth(),
		Charge:   e.Charge && !e.Silenced,
		Silenced: e.Silenced,
	}
	legal := attrsByType[e.Type]
	if legal[buffs.AttrCost] {
		cv.Cost = g.effective(e, buffs.AttrCost)
	}
	if legal[buffs.AttrAttack] {
		cv.Attack = g.effective(e, buffs.AttrAttack)
	}
	if legal[buffs.AttrHealth] {
		cv.Health = g.effective(e, buffs.AttrHealth)
	}
	if legal[buffs.AttrDurability] {
		cv.Durability = g.effective(e, buffs.AttrDurability)
	}
	return cv
}
