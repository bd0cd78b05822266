package game_test

import (
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/hearthforge/hearth-server-go/internal/game"
	"github.com/hearthforge/hearth-server-go/internal/game/cards"
)

func startedGame(t *testing.T, id string, seed int64) *game.Game {
	t.Helper()
	db := cards.NewMemoryDatabase(cards.BasicSet()...)
	g, err := game.NewGame(id, zaptest.NewLogger(t), db, seed, [2]game.PlayerSetup{
		{Name: "Alice", HeroID: "HERO_01", Deck: basicDeck(30)},
		{Name: "Bob", HeroID: "HERO_08", Deck: basicDeck(30)},
	})
	if err != nil {
		t.Fatalf("failed to create game: %v", err)
	}
	if err := g.Start(); err != nil {
		t.Fatalf("failed to start game: %v", err)
	}
	return g
}

func TestChecksumStableForUnchangedState(t *testing.T) {
	g := startedGame(t, "checksum-stable", 99)

	first := g.Snapshot().Checksum()
	second := g.Snapshot().Checksum()
	if first != second {
		t.Errorf("checksum drifted with no state change:\n%s\n%s", first, second)
	}
}

func TestChecksumChangesAfterAction(t *testing.T) {
	g := startedGame(t, "checksum-change", 99)

	before := g.Snapshot().Checksum()
	alice, _ := g.Player(g.CurrentPlayerID())
	if _, err := g.QueueActions(alice.ID, []game.Action{game.Draw(alice.ID)}); err != nil {
		t.Fatalf("failed to draw: %v", err)
	}
	after := g.Snapshot().Checksum()
	if before == after {
		t.Error("checksum unchanged after a draw")
	}
}

func TestSnapshotCapturesZoneContents(t *testing.T) {
	g := startedGame(t, "snapshot-zones", 99)

	s := g.Snapshot()
	if s.Turn != 1 {
		t.Errorf("expected turn 1, got %d", s.Turn)
	}
	if len(s.Order) != 2 {
		t.Fatalf("expected 2 seats, got %d", len(s.Order))
	}

	first := s.Players[s.Order[0]]
	second := s.Players[s.Order[1]]
	if len(first.Hand) != 4 {
		t.Errorf("expected first player hand of 4, got %d", len(first.Hand))
	}
	if len(second.Hand) != 5 {
		t.Errorf("expected second player hand of 5, got %d", len(second.Hand))
	}
	if len(first.Deck) != 26 {
		t.Errorf("expected first player deck of 26, got %d", len(first.Deck))
	}
	// Heroes live in the play zone.
	if len(first.Play) != 1 {
		t.Errorf("expected only the hero in play, got %d", len(first.Play))
	}
	heroID := first.Play[0]
	if s.Entities[heroID].Type != "HERO" {
		t.Errorf("expected hero in play zone, got %s", s.Entities[heroID].Type)
	}

	for id, e := range s.Entities {
		if e.ID != id {
			t.Errorf("entity key %s does not match snapshot id %s", id, e.ID)
		}
	}
}

func TestSameSeedShufflesIdentically(t *testing.T) {
	g1 := startedGame(t, "seed-a", 1234)
	g2 := startedGame(t, "seed-b", 1234)

	s1, s2 := g1.Snapshot(), g2.Snapshot()
	d1 := s1.Players[s1.Order[0]].Deck
	d2 := s2.Players[s2.Order[0]].Deck
	if len(d1) != len(d2) {
		t.Fatalf("deck sizes differ: %d vs %d", len(d1), len(d2))
	}
	for i := range d1 {
		if s1.Entities[d1[i]].CardID != s2.Entities[d2[i]].CardID {
			t.Fatalf("decks diverge at %d: %s vs %s",
				i, s1.Entities[d1[i]].CardID, s2.Entities[d2[i]].CardID)
		}
	}
}
