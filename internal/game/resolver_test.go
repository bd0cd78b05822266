package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/hearthforge/hearth-server-go/internal/game/buffs"
	"github.com/hearthforge/hearth-server-go/internal/game/cards"
	"github.com/hearthforge/hearth-server-go/internal/game/rules"
	"github.com/hearthforge/hearth-server-go/internal/game/zones"
)

func deckOf(cardID string, n int) []string {
	deck := make([]string, n)
	for i := range deck {
		deck[i] = cardID
	}
	return deck
}

// testGame builds an unstarted game so tests control hands and mana exactly.
// Seat one is the current player.
func testGame(t *testing.T, deckA, deckB []string) (*Game, *Player, *Player) {
	t.Helper()
	db := cards.NewMemoryDatabase(cards.BasicSet()...)
	g, err := NewGame("test-game", zaptest.NewLogger(t), db, 42, [2]PlayerSetup{
		{Name: "Alice", HeroID: "HERO_01", Deck: deckA},
		{Name: "Bob", HeroID: "HERO_08", Deck: deckB},
	})
	require.NoError(t, err)
	p1 := g.players[g.order[0]]
	p2 := g.players[g.order[1]]
	p1.PlayState = PlayStatePlaying
	p2.PlayState = PlayStatePlaying
	return g, p1, p2
}

func zoneCount(t *testing.T, g *Game, playerID string, zone zones.Zone) int {
	t.Helper()
	c, ok := g.zone.Container(playerID, zone)
	require.True(t, ok)
	return c.Len()
}

func TestFatigueProgression(t *testing.T) {
	g, p1, _ := testGame(t, nil, nil)

	results, err := g.QueueActions(p1.ID, []Action{Draw(p1.ID).Repeat(3)})
	require.NoError(t, err)
	require.Len(t, results, 3)
	for _, res := range results {
		assert.Equal(t, StateResolved, res.State)
	}

	assert.Equal(t, 3, p1.FatigueCounter)
	assert.Equal(t, 1+2+3, p1.Hero.Damage)
}

func TestFatigueCanKillHero(t *testing.T) {
	g, p1, p2 := testGame(t, nil, nil)

	// 1+2+...+8 = 36 > 30.
	_, err := g.QueueActions(p1.ID, []Action{Draw(p1.ID).Repeat(8)})
	require.NoError(t, err)

	assert.True(t, p1.Hero.Dead())
	assert.True(t, g.over)
	assert.Equal(t, PlayStateLost, p1.PlayState)
	assert.Equal(t, PlayStateWon, p2.PlayState)
}

func TestDrawOverflowDiscards(t *testing.T) {
	g, p1, _ := testGame(t, deckOf("CS2_231", 12), nil)

	results, err := g.QueueActions(p1.ID, []Action{Draw(p1.ID).Repeat(11)})
	require.NoError(t, err)
	require.Len(t, results, 11)

	assert.Equal(t, 10, zoneCount(t, g, p1.ID, zones.ZoneHand))
	assert.Equal(t, 1, zoneCount(t, g, p1.ID, zones.ZoneGraveyard))
	assert.Equal(t, 1, zoneCount(t, g, p1.ID, zones.ZoneDeck))
	// The burned card resolved its slot; it just never reached the hand.
	assert.Empty(t, results[10].Entities)
}

func TestPlayMinionPaysMana(t *testing.T) {
	g, p1, _ := testGame(t, nil, nil)
	p1.Mana.SetMax(4)
	p1.Mana.Refresh()

	results, err := g.QueueActions(p1.ID, []Action{Give(p1.ID, "CS2_182")})
	require.NoError(t, err)
	yetiID := results[0].Entities[0]

	_, err = g.QueueActions(p1.ID, []Action{Play(p1.ID, yetiID, "", -1)})
	require.NoError(t, err)

	assert.Equal(t, 0, p1.AvailableMana())
	assert.Equal(t, 1, p1.CardsPlayedThisTurn)
	assert.Equal(t, 1, p1.MinionsPlayedThisTurn)
	assert.Equal(t, yetiID, p1.LastCardPlayed)
	require.Len(t, g.minionsInPlay(p1.ID), 1)
	assert.Equal(t, "Chillwind Yeti", g.minionsInPlay(p1.ID)[0].Name)
}

func TestIllegalSlotDoesNotHaltBatch(t *testing.T) {
	g, p1, _ := testGame(t, nil, nil)
	p1.Mana.SetMax(2)
	p1.Mana.Refresh()

	res, err := g.QueueActions(p1.ID, []Action{Give(p1.ID, "CS2_182"), Give(p1.ID, "CS2_231")})
	require.NoError(t, err)
	yetiID := res[0].Entities[0]
	wispID := res[1].Entities[0]

	results, err := g.QueueActions(p1.ID, []Action{
		Play(p1.ID, yetiID, "", -1), // costs 4, only 2 available
		Play(p1.ID, wispID, "", -1),
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, StateCancelled, results[0].State)
	assert.ErrorIs(t, results[0].Err, ErrIllegalAction)
	assert.Equal(t, StateResolved, results[1].State)
	require.Len(t, g.minionsInPlay(p1.ID), 1)
	assert.Equal(t, "Wisp", g.minionsInPlay(p1.ID)[0].Name)
}

func TestMissingEntityHaltsBatch(t *testing.T) {
	g, p1, _ := testGame(t, deckOf("CS2_231", 5), nil)

	results, err := g.QueueActions(p1.ID, []Action{
		Destroy(p1.ID, "no-such-entity"),
		Draw(p1.ID),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	require.Len(t, results, 1)
	assert.Equal(t, 0, zoneCount(t, g, p1.ID, zones.ZoneHand))
}

func TestBattlecryDrawsOnPlay(t *testing.T) {
	g, p1, _ := testGame(t, deckOf("CS2_231", 5), nil)
	p1.Mana.SetMax(2)
	p1.Mana.Refresh()

	res, err := g.QueueActions(p1.ID, []Action{Give(p1.ID, "EX1_015")})
	require.NoError(t, err)

	_, err = g.QueueActions(p1.ID, []Action{Play(p1.ID, res[0].Entities[0], "", -1)})
	require.NoError(t, err)

	assert.Equal(t, 1, zoneCount(t, g, p1.ID, zones.ZoneHand))
	assert.Equal(t, 4, zoneCount(t, g, p1.ID, zones.ZoneDeck))
}

func TestDeathrattleFiresOnceOnDoubleDestroy(t *testing.T) {
	g, p1, _ := testGame(t, deckOf("CS2_231", 5), nil)

	res, err := g.QueueActions(p1.ID, []Action{Summon(p1.ID, "EX1_012", -1)})
	require.NoError(t, err)
	thalnosID := res[0].Entities[0]

	_, err = g.QueueActions(p1.ID, []Action{Destroy(p1.ID, thalnosID)})
	require.NoError(t, err)
	assert.Equal(t, 1, zoneCount(t, g, p1.ID, zones.ZoneHand))

	// Destroying a dead entity is a resolved no-op and no second draw.
	results, err := g.QueueActions(p1.ID, []Action{Destroy(p1.ID, thalnosID)})
	require.NoError(t, err)
	assert.Equal(t, StateResolved, results[0].State)
	assert.Equal(t, 1, zoneCount(t, g, p1.ID, zones.ZoneHand))
}

func TestOverloadLocksCrystalsNextTurn(t *testing.T) {
	g, p1, p2 := testGame(t, deckOf("CS2_231", 10), deckOf("CS2_231", 10))
	g.started = true
	p1.Mana.SetMax(2)
	p1.Mana.Refresh()

	res, err := g.QueueActions(p1.ID, []Action{Give(p1.ID, "EX1_238")})
	require.NoError(t, err)

	_, err = g.QueueActions(p1.ID, []Action{Play(p1.ID, res[0].Entities[0], p2.Hero.ID, -1)})
	require.NoError(t, err)
	assert.Equal(t, 3, p2.Hero.Damage)
	assert.Equal(t, 1, p1.Mana.Overloaded)

	require.NoError(t, g.EndTurn(p1.ID))
	require.NoError(t, g.EndTurn(p2.ID))

	assert.Equal(t, 1, p1.Mana.Locked)
	assert.Equal(t, 0, p1.Mana.Overloaded)
	assert.Equal(t, p1.Mana.Max-1, p1.AvailableMana())
}

func TestCoinGrantsTempManaUntilEndOfTurn(t *testing.T) {
	g, p1, _ := testGame(t, deckOf("CS2_231", 10), deckOf("CS2_231", 10))
	g.started = true
	p1.Mana.SetMax(1)
	p1.Mana.Refresh()

	res, err := g.QueueActions(p1.ID, []Action{Give(p1.ID, "GAME_005")})
	require.NoError(t, err)

	_, err = g.QueueActions(p1.ID, []Action{Play(p1.ID, res[0].Entities[0], "", -1)})
	require.NoError(t, err)
	assert.Equal(t, 2, p1.AvailableMana())

	require.NoError(t, g.EndTurn(p1.ID))
	assert.Equal(t, 0, p1.Mana.Temp)
}

func TestTempManaSpentBeforeCrystals(t *testing.T) {
	g, p1, _ := testGame(t, nil, nil)
	p1.Mana.SetMax(3)
	p1.Mana.Refresh()
	p1.Mana.AddTemp(2)

	res, err := g.QueueActions(p1.ID, []Action{Give(p1.ID, "CS2_182")})
	require.NoError(t, err)

	_, err = g.QueueActions(p1.ID, []Action{Play(p1.ID, res[0].Entities[0], "", -1)})
	require.NoError(t, err)

	assert.Equal(t, 0, p1.Mana.Temp)
	assert.Equal(t, 2, p1.Mana.Used)
	assert.Equal(t, 1, p1.AvailableMana())
}

func TestSecretSnipesEnemySummon(t *testing.T) {
	g, p1, p2 := testGame(t, deckOf("CS2_231", 10), deckOf("CS2_231", 10))
	g.started = true
	p1.Mana.SetMax(2)
	p1.Mana.Refresh()

	res, err := g.QueueActions(p1.ID, []Action{Give(p1.ID, "EX1_609")})
	require.NoError(t, err)

	_, err = g.QueueActions(p1.ID, []Action{Play(p1.ID, res[0].Entities[0], "", -1)})
	require.NoError(t, err)
	assert.Equal(t, 1, zoneCount(t, g, p1.ID, zones.ZoneSecret))

	require.NoError(t, g.EndTurn(p1.ID))

	res, err = g.QueueActions(p2.ID, []Action{Summon(p2.ID, "CS2_231", -1)})
	require.NoError(t, err)
	wisp := g.entities[res[0].Entities[0]]

	assert.True(t, wisp.Dead())
	assert.Equal(t, 0, zoneCount(t, g, p1.ID, zones.ZoneSecret))
	assert.Equal(t, 0, len(g.minionsInPlay(p2.ID)))
}

func TestDuplicateSecretRejected(t *testing.T) {
	g, p1, _ := testGame(t, nil, nil)
	p1.Mana.SetMax(4)
	p1.Mana.Refresh()

	res, err := g.QueueActions(p1.ID, []Action{Give(p1.ID, "EX1_609"), Give(p1.ID, "EX1_609")})
	require.NoError(t, err)

	results, err := g.QueueActions(p1.ID, []Action{
		Play(p1.ID, res[0].Entities[0], "", -1),
		Play(p1.ID, res[1].Entities[0], "", -1),
	})
	require.NoError(t, err)
	assert.Equal(t, StateResolved, results[0].State)
	assert.Equal(t, StateCancelled, results[1].State)
	assert.ErrorIs(t, results[1].Err, ErrIllegalAction)
}

func TestTriggerResolvesBeforeNextBatchSlot(t *testing.T) {
	g, p1, p2 := testGame(t, deckOf("CS2_231", 10), deckOf("CS2_231", 10))
	g.started = true
	p1.Mana.SetMax(2)
	p1.Mana.Refresh()

	res, err := g.QueueActions(p1.ID, []Action{Give(p1.ID, "EX1_609")})
	require.NoError(t, err)
	_, err = g.QueueActions(p1.ID, []Action{Play(p1.ID, res[0].Entities[0], "", -1)})
	require.NoError(t, err)
	require.NoError(t, g.EndTurn(p1.ID))

	var seen []rules.EventType
	g.bus.Subscribe(func(ev rules.Event) {
		if ev.Type == rules.EventDamaged || ev.Type == rules.EventDrewCard {
			seen = append(seen, ev.Type)
		}
	})

	_, err = g.QueueActions(p2.ID, []Action{
		Summon(p2.ID, "CS2_231", -1),
		Draw(p2.ID),
	})
	require.NoError(t, err)

	require.Len(t, seen, 2)
	assert.Equal(t, rules.EventDamaged, seen[0])
	assert.Equal(t, rules.EventDrewCard, seen[1])
}

func TestStealMovesControl(t *testing.T) {
	g, p1, p2 := testGame(t, nil, nil)

	res, err := g.QueueActions(p2.ID, []Action{Summon(p2.ID, "CS2_182", -1)})
	require.NoError(t, err)
	yetiID := res[0].Entities[0]

	_, err = g.QueueActions(p1.ID, []Action{Steal(p1.ID, yetiID)})
	require.NoError(t, err)

	yeti := g.entities[yetiID]
	assert.Equal(t, p1.ID, yeti.controller)
	assert.Equal(t, p2.ID, yeti.owner)
	assert.Len(t, g.minionsInPlay(p1.ID), 1)
	assert.Empty(t, g.minionsInPlay(p2.ID))
}

func TestStealOntoFullBoardSetsAside(t *testing.T) {
	g, p1, p2 := testGame(t, nil, nil)

	_, err := g.QueueActions(p1.ID, []Action{Summon(p1.ID, "CS2_231", -1).Repeat(7)})
	require.NoError(t, err)
	require.Len(t, g.minionsInPlay(p1.ID), 7)

	res, err := g.QueueActions(p2.ID, []Action{Summon(p2.ID, "CS2_182", -1)})
	require.NoError(t, err)
	yetiID := res[0].Entities[0]

	_, err = g.QueueActions(p1.ID, []Action{Steal(p1.ID, yetiID)})
	require.NoError(t, err)

	yeti := g.entities[yetiID]
	assert.Equal(t, p1.ID, yeti.controller)
	assert.Equal(t, zones.ZoneSetAside, yeti.zone)
	assert.Len(t, g.minionsInPlay(p1.ID), 7)
}

func TestBoardLimitRejectsEighthMinion(t *testing.T) {
	g, p1, _ := testGame(t, nil, nil)

	results, err := g.QueueActions(p1.ID, []Action{Summon(p1.ID, "CS2_231", -1).Repeat(8)})
	require.NoError(t, err)
	require.Len(t, results, 8)
	assert.Equal(t, StateCancelled, results[7].State)
	assert.ErrorIs(t, results[7].Err, ErrIllegalAction)
	assert.Len(t, g.minionsInPlay(p1.ID), 7)
}

func TestMillBurnsTopCard(t *testing.T) {
	g, p1, _ := testGame(t, deckOf("CS2_231", 2), nil)

	_, err := g.QueueActions(p1.ID, []Action{Mill(p1.ID).Repeat(3)})
	require.NoError(t, err)

	assert.Equal(t, 0, zoneCount(t, g, p1.ID, zones.ZoneDeck))
	assert.Equal(t, 2, zoneCount(t, g, p1.ID, zones.ZoneGraveyard))
	// Milling an empty deck causes no fatigue.
	assert.Equal(t, 0, p1.FatigueCounter)
}

func TestDiscardFromHand(t *testing.T) {
	g, p1, _ := testGame(t, nil, nil)

	res, err := g.QueueActions(p1.ID, []Action{Give(p1.ID, "CS2_231")})
	require.NoError(t, err)
	wispID := res[0].Entities[0]

	_, err = g.QueueActions(p1.ID, []Action{Discard(p1.ID, wispID)})
	require.NoError(t, err)

	assert.Equal(t, 0, zoneCount(t, g, p1.ID, zones.ZoneHand))
	assert.Equal(t, 1, zoneCount(t, g, p1.ID, zones.ZoneGraveyard))
}

func TestHealClampsAtFullHealth(t *testing.T) {
	g, p1, p2 := testGame(t, nil, nil)

	_, err := g.QueueActions(p1.ID, []Action{Damage(p1.ID, p2.Hero.ID, 5, "")})
	require.NoError(t, err)
	assert.Equal(t, 5, p2.Hero.Damage)

	_, err = g.QueueActions(p2.ID, []Action{Heal(p2.ID, p2.Hero.ID, 9)})
	require.NoError(t, err)
	assert.Equal(t, 0, p2.Hero.Damage)
}

func TestStealthHidesFromEnemyEffects(t *testing.T) {
	g, p1, p2 := testGame(t, nil, nil)

	res, err := g.QueueActions(p1.ID, []Action{Summon(p1.ID, "EX1_010", -1)})
	require.NoError(t, err)
	worgenID := res[0].Entities[0]

	results, err := g.QueueActions(p2.ID, []Action{Damage(p2.ID, worgenID, 1, "")})
	require.NoError(t, err)
	assert.Equal(t, StateCancelled, results[0].State)
	assert.ErrorIs(t, results[0].Err, ErrIllegalAction)

	// The controller can still target their own stealthed minion.
	_, err = g.QueueActions(p1.ID, []Action{Heal(p1.ID, worgenID, 1)})
	require.NoError(t, err)
}

func TestBuffThenSilenceRestoresBase(t *testing.T) {
	g, p1, _ := testGame(t, nil, nil)

	res, err := g.QueueActions(p1.ID, []Action{Summon(p1.ID, "CS2_182", -1)})
	require.NoError(t, err)
	yetiID := res[0].Entities[0]

	_, err = g.ApplyBuff(yetiID, buffs.Buff{SourceID: p1.ID, Attr: buffs.AttrHealth, Delta: 2})
	require.NoError(t, err)
	health, err := g.Effective(yetiID, buffs.AttrHealth)
	require.NoError(t, err)
	assert.Equal(t, 7, health)

	require.NoError(t, g.Silence(yetiID))
	health, err = g.Effective(yetiID, buffs.AttrHealth)
	require.NoError(t, err)
	assert.Equal(t, 5, health)
}

func TestSilencingBuffSourceRemovesItsBuffs(t *testing.T) {
	g, p1, _ := testGame(t, nil, nil)

	res, err := g.QueueActions(p1.ID, []Action{Summon(p1.ID, "CS2_120", -1), Summon(p1.ID, "CS2_231", -1)})
	require.NoError(t, err)
	crocID := res[0].Entities[0]
	wispID := res[1].Entities[0]

	_, err = g.ApplyBuff(wispID, buffs.Buff{SourceID: crocID, Attr: buffs.AttrAttack, Delta: 2})
	require.NoError(t, err)
	attack, err := g.Effective(wispID, buffs.AttrAttack)
	require.NoError(t, err)
	require.Equal(t, 3, attack)

	// Silencing the croc kills the buff it granted, not just its own.
	require.NoError(t, g.Silence(crocID))
	attack, err = g.Effective(wispID, buffs.AttrAttack)
	require.NoError(t, err)
	assert.Equal(t, 1, attack)
}

func TestBuffSourceLeavingPlayStopsBuffing(t *testing.T) {
	g, p1, p2 := testGame(t, nil, nil)

	_, err := g.QueueActions(p1.ID, []Action{Summon(p1.ID, "CS2_231", -1).Repeat(7)})
	require.NoError(t, err)

	res, err := g.QueueActions(p2.ID, []Action{Summon(p2.ID, "CS2_182", -1), Summon(p2.ID, "CS2_231", -1)})
	require.NoError(t, err)
	yetiID := res[0].Entities[0]
	wispID := res[1].Entities[0]

	_, err = g.ApplyBuff(wispID, buffs.Buff{SourceID: yetiID, Attr: buffs.AttrAttack, Delta: 3})
	require.NoError(t, err)
	attack, err := g.Effective(wispID, buffs.AttrAttack)
	require.NoError(t, err)
	require.Equal(t, 4, attack)

	// The steal bounces the yeti to set-aside; a source off the board
	// contributes nothing.
	_, err = g.QueueActions(p1.ID, []Action{Steal(p1.ID, yetiID)})
	require.NoError(t, err)
	require.Equal(t, zones.ZoneSetAside, g.entities[yetiID].zone)

	attack, err = g.Effective(wispID, buffs.AttrAttack)
	require.NoError(t, err)
	assert.Equal(t, 1, attack)
}

func TestWeaponReplacedOnSecondEquip(t *testing.T) {
	g, p1, _ := testGame(t, nil, nil)
	p1.Mana.SetMax(4)
	p1.Mana.Refresh()

	res, err := g.QueueActions(p1.ID, []Action{Give(p1.ID, "CS2_106"), Give(p1.ID, "CS2_106")})
	require.NoError(t, err)

	_, err = g.QueueActions(p1.ID, []Action{Play(p1.ID, res[0].Entities[0], "", -1)})
	require.NoError(t, err)
	firstID := p1.Weapon.ID

	_, err = g.QueueActions(p1.ID, []Action{Play(p1.ID, res[1].Entities[0], "", -1)})
	require.NoError(t, err)

	assert.NotEqual(t, firstID, p1.Weapon.ID)
	first := g.entities[firstID]
	assert.True(t, first.Dead())
	assert.Equal(t, zones.ZoneGraveyard, first.zone)
}

func TestConcedeEndsGame(t *testing.T) {
	g, p1, p2 := testGame(t, nil, nil)

	require.NoError(t, g.Concede(p1.ID))
	assert.Equal(t, PlayStateConceded, p1.PlayState)
	assert.Equal(t, PlayStateWon, p2.PlayState)
	assert.True(t, g.Over())

	_, err := g.QueueActions(p2.ID, []Action{Draw(p2.ID)})
	require.NoError(t, err)
}

func TestHeroPowerHitsEnemyHeroOncePerTurn(t *testing.T) {
	g, p1, p2 := testGame(t, nil, nil)
	p1.Mana.SetMax(5)
	p1.Mana.Refresh()

	results, err := g.QueueActions(p1.ID, []Action{UseHeroPower(p1.ID, "")})
	require.NoError(t, err)
	assert.Equal(t, StateResolved, results[0].State)
	assert.Equal(t, 1, p2.Hero.Damage)
	assert.Equal(t, 3, p1.AvailableMana())
	assert.Equal(t, 1, p1.TimesHeroPowerUsed)

	// Second use the same turn fails its slot but not the batch.
	results, err = g.QueueActions(p1.ID, []Action{UseHeroPower(p1.ID, "")})
	require.NoError(t, err)
	assert.Equal(t, StateCancelled, results[0].State)
	assert.ErrorIs(t, results[0].Err, ErrIllegalAction)
	assert.Equal(t, 1, p2.Hero.Damage)
}

func TestHeroPowerResetsNextTurn(t *testing.T) {
	// Seeded decks keep the turn-start draws from adding fatigue damage.
	deck := []string{"CS2_231", "CS2_231", "CS2_231"}
	g, p1, p2 := testGame(t, deck, deck)
	p1.Mana.SetMax(5)
	p1.Mana.Refresh()
	p2.Mana.SetMax(5)

	_, err := g.QueueActions(p1.ID, []Action{UseHeroPower(p1.ID, "")})
	require.NoError(t, err)

	require.NoError(t, g.EndTurn(p1.ID))
	require.NoError(t, g.EndTurn(p2.ID))

	results, err := g.QueueActions(p1.ID, []Action{UseHeroPower(p1.ID, "")})
	require.NoError(t, err)
	assert.Equal(t, StateResolved, results[0].State)
	assert.Equal(t, 2, p2.Hero.Damage)
}

func TestHeroPowerCanTargetMinion(t *testing.T) {
	g, p1, p2 := testGame(t, nil, nil)
	p1.Mana.SetMax(3)
	p1.Mana.Refresh()

	results, err := g.QueueActions(p2.ID, []Action{Summon(p2.ID, "CS2_231", -1)})
	require.NoError(t, err)
	wispID := results[0].Entities[0]

	_, err = g.QueueActions(p1.ID, []Action{UseHeroPower(p1.ID, wispID)})
	require.NoError(t, err)

	wisp := g.entities[wispID]
	assert.True(t, wisp.Dead())
	assert.Equal(t, 0, p2.Hero.Damage)
}

func TestDiscardHandEmptiesHand(t *testing.T) {
	g, p1, _ := testGame(t, nil, nil)

	_, err := g.QueueActions(p1.ID, []Action{
		Give(p1.ID, "CS2_231"), Give(p1.ID, "CS2_120"), Give(p1.ID, "CS2_182"),
	})
	require.NoError(t, err)
	require.Equal(t, 3, zoneCount(t, g, p1.ID, zones.ZoneHand))

	require.NoError(t, g.DiscardHand(p1.ID))
	assert.Equal(t, 0, zoneCount(t, g, p1.ID, zones.ZoneHand))
	assert.Equal(t, 3, zoneCount(t, g, p1.ID, zones.ZoneGraveyard))
}
