package game_test

import (
	"context"
	"sync"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/hearthforge/hearth-server-go/internal/game"
	"github.com/hearthforge/hearth-server-go/internal/game/cards"
)

func basicDeck(n int) []string {
	deck := make([]string, 0, n)
	pool := []string{"CS2_231", "CS2_120", "CS2_182", "CS2_200", "EX1_015"}
	for i := 0; i < n; i++ {
		deck = append(deck, pool[i%len(pool)])
	}
	return deck
}

func startEngineGame(t *testing.T, gameID string, seed int64) *game.HearthEngine {
	t.Helper()
	db := cards.NewMemoryDatabase(cards.BasicSet()...)
	engine := game.NewHearthEngine(zaptest.NewLogger(t), db, t.TempDir())

	err := engine.StartGame(gameID, seed, [2]game.PlayerSetup{
		{Name: "Alice", HeroID: "HERO_01", Deck: basicDeck(30)},
		{Name: "Bob", HeroID: "HERO_08", Deck: basicDeck(30)},
	})
	if err != nil {
		t.Fatalf("failed to start game: %v", err)
	}
	return engine
}

func TestEngineStartDealsOpeningHands(t *testing.T) {
	engine := startEngineGame(t, "engine-start", 7)

	view, err := engine.GetGameView("engine-start", "Alice")
	if err != nil {
		t.Fatalf("failed to get view: %v", err)
	}
	if len(view.Players) != 2 {
		t.Fatalf("expected 2 players, got %d", len(view.Players))
	}

	alice, bob := view.Players[0], view.Players[1]
	// First player draws 3 plus the turn-one draw; second player gets 4
	// plus The Coin.
	if alice.HandCount != 4 {
		t.Errorf("expected Alice hand of 4, got %d", alice.HandCount)
	}
	if bob.HandCount != 5 {
		t.Errorf("expected Bob hand of 5, got %d", bob.HandCount)
	}
	if alice.DeckCount != 26 {
		t.Errorf("expected Alice deck of 26, got %d", alice.DeckCount)
	}
	if alice.MaxMana != 1 {
		t.Errorf("expected Alice on 1 mana crystal, got %d", alice.MaxMana)
	}
	if bob.MaxMana != 0 {
		t.Errorf("expected Bob on 0 mana crystals, got %d", bob.MaxMana)
	}
}

func TestEngineHidesOpponentHand(t *testing.T) {
	engine := startEngineGame(t, "engine-hidden", 7)

	view, err := engine.GetGameView("engine-hidden", "Alice")
	if err != nil {
		t.Fatalf("failed to get view: %v", err)
	}

	alice, bob := view.Players[0], view.Players[1]
	for i, cv := range alice.Hand {
		if cv.FaceDown {
			t.Errorf("own hand card %d should be face up", i)
		}
		if cv.Name == "" {
			t.Errorf("own hand card %d should expose its name", i)
		}
	}
	for i, cv := range bob.Hand {
		if !cv.FaceDown {
			t.Errorf("opponent hand card %d should be face down", i)
		}
		if cv.Name != "" || cv.CardID != "" {
			t.Errorf("opponent hand card %d leaks identity", i)
		}
	}
}

func TestEngineTurnCycle(t *testing.T) {
	engine := startEngineGame(t, "engine-turns", 7)

	if err := engine.EndTurn("engine-turns", "Alice"); err != nil {
		t.Fatalf("failed to end turn: %v", err)
	}
	if err := engine.EndTurn("engine-turns", "Alice"); err == nil {
		t.Fatal("expected out-of-turn EndTurn to fail")
	}
	if err := engine.EndTurn("engine-turns", "Bob"); err != nil {
		t.Fatalf("failed to end turn: %v", err)
	}

	g, ok := engine.GetGame("engine-turns")
	if !ok {
		t.Fatal("game not found")
	}
	if g.Turn() != 3 {
		t.Errorf("expected turn 3, got %d", g.Turn())
	}
}

func TestEngineRecordsReplaySnapshots(t *testing.T) {
	engine := startEngineGame(t, "engine-replay", 7)

	replay, ok := engine.GetReplay("engine-replay")
	if !ok {
		t.Fatal("expected replay recording")
	}
	before := replay.Size()
	if before == 0 {
		t.Fatal("expected a snapshot after game start")
	}

	if err := engine.EndTurn("engine-replay", "Alice"); err != nil {
		t.Fatalf("failed to end turn: %v", err)
	}
	if replay.Size() != before+1 {
		t.Errorf("expected %d snapshots, got %d", before+1, replay.Size())
	}
}

func TestEngineConcedeAndEndGame(t *testing.T) {
	engine := startEngineGame(t, "engine-concede", 7)

	if err := engine.Concede("engine-concede", "Bob"); err != nil {
		t.Fatalf("failed to concede: %v", err)
	}
	view, err := engine.GetGameView("engine-concede", "Alice")
	if err != nil {
		t.Fatalf("failed to get view: %v", err)
	}
	if !view.Over {
		t.Error("expected game to be over")
	}
	if view.Players[0].PlayState != "WON" {
		t.Errorf("expected Alice WON, got %s", view.Players[0].PlayState)
	}
	if view.Players[1].PlayState != "CONCEDED" {
		t.Errorf("expected Bob CONCEDED, got %s", view.Players[1].PlayState)
	}

	if err := engine.EndGame("engine-concede"); err != nil {
		t.Fatalf("failed to end game: %v", err)
	}
	if _, err := engine.GetGameView("engine-concede", "Alice"); err == nil {
		t.Error("expected view of ended game to fail")
	}
}

type memorySnapshotStore struct {
	mu    sync.Mutex
	seqs  []int
	snaps []*game.Snapshot
}

func (m *memorySnapshotStore) Save(ctx context.Context, seq int, s *game.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seqs = append(m.seqs, seq)
	m.snaps = append(m.snaps, s)
	return nil
}

func TestEnginePersistsSnapshotsToStore(t *testing.T) {
	db := cards.NewMemoryDatabase(cards.BasicSet()...)
	engine := game.NewHearthEngine(zaptest.NewLogger(t), db, t.TempDir())
	store := &memorySnapshotStore{}
	engine.SetSnapshotStore(store)

	err := engine.StartGame("engine-store", 7, [2]game.PlayerSetup{
		{Name: "Alice", HeroID: "HERO_01", Deck: basicDeck(30)},
		{Name: "Bob", HeroID: "HERO_08", Deck: basicDeck(30)},
	})
	if err != nil {
		t.Fatalf("failed to start game: %v", err)
	}
	if err := engine.EndTurn("engine-store", "Alice"); err != nil {
		t.Fatalf("failed to end turn: %v", err)
	}

	if len(store.snaps) != 2 {
		t.Fatalf("expected 2 persisted snapshots, got %d", len(store.snaps))
	}
	for i, seq := range store.seqs {
		if seq != i {
			t.Errorf("expected seq %d at slot %d, got %d", i, i, seq)
		}
		if store.snaps[i].GameID != "engine-store" {
			t.Errorf("snapshot %d has game id %s", i, store.snaps[i].GameID)
		}
	}
	if store.snaps[1].Turn != 2 {
		t.Errorf("expected second snapshot on turn 2, got %d", store.snaps[1].Turn)
	}
}

func TestNullEngineRecordsActions(t *testing.T) {
	engine := game.NewNullEngine(zaptest.NewLogger(t))

	err := engine.StartGame("null-game", 1, [2]game.PlayerSetup{
		{Name: "Alice"}, {Name: "Bob"},
	})
	if err != nil {
		t.Fatalf("failed to start game: %v", err)
	}

	results, err := engine.QueueActions("null-game", "Alice", []game.Action{game.Draw("Alice")})
	if err != nil {
		t.Fatalf("failed to queue actions: %v", err)
	}
	if len(results) != 1 || results[0].State != game.StateResolved {
		t.Fatalf("unexpected results: %+v", results)
	}

	recorded := engine.RecordedActions("null-game")
	if len(recorded) != 1 || recorded[0].Kind != string(game.ActionDraw) {
		t.Fatalf("unexpected recorded actions: %+v", recorded)
	}
}
