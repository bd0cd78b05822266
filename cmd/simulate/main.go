package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/hearthforge/hearth-server-go/internal/game"
	"github.com/hearthforge/hearth-server-go/internal/game/cards"
)

var (
	seed      = flag.Int64("seed", 0, "rng seed, 0 means time-based")
	turns     = flag.Int("turns", 10, "number of turns to simulate")
	replayDir = flag.String("replay-dir", "", "directory to save the replay to, empty to skip")
	verbose   = flag.Bool("v", false, "log every game event")
)

// deckList is the fixed thirty-card rotation both seats draw from.
func deckList() []string {
	pool := []string{
		"CS2_231", "CS2_120", "CS2_182", "CS2_200", "CS2_187",
		"EX1_012", "EX1_015", "EX1_010", "CS2_025", "EX1_238",
	}
	deck := make([]string, 0, 30)
	for len(deck) < 30 {
		deck = append(deck, pool[len(deck)%len(pool)])
	}
	return deck
}

func main() {
	flag.Parse()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	logger := zap.NewNop()
	if *verbose {
		var err error
		logger, err = zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "logger: %v\n", err)
			os.Exit(1)
		}
	}

	db := cards.NewMemoryDatabase(cards.BasicSet()...)
	engine := game.NewHearthEngine(logger, db, *replayDir)

	const gameID = "simulation"
	setups := [2]game.PlayerSetup{
		{Name: "Alice", HeroID: "HERO_01", Deck: deckList()},
		{Name: "Bob", HeroID: "HERO_08", Deck: deckList()},
	}
	if err := engine.StartGame(gameID, *seed, setups); err != nil {
		fmt.Fprintf(os.Stderr, "start game: %v\n", err)
		os.Exit(1)
	}

	g, _ := engine.GetGame(gameID)
	fmt.Printf("simulating %d turns with seed %d\n", *turns, *seed)

	for g.Turn() <= *turns && !g.Over() {
		current := g.CurrentPlayerID()
		playGreedy(engine, gameID, current)
		printTurn(engine, gameID, current)
		if g.Over() {
			break
		}
		if err := engine.EndTurn(gameID, current); err != nil {
			fmt.Fprintf(os.Stderr, "end turn: %v\n", err)
			break
		}
	}

	fmt.Printf("final checksum: %s\n", g.Snapshot().Checksum())
	if *replayDir != "" {
		if replay, ok := engine.GetReplay(gameID); ok {
			fmt.Printf("recorded %d states\n", replay.Size())
		}
	}
	if err := engine.EndGame(gameID); err != nil {
		fmt.Fprintf(os.Stderr, "end game: %v\n", err)
		os.Exit(1)
	}
}

// playGreedy plays affordable cards from the hand, cheapest first, until
// nothing else fits this turn's mana.
func playGreedy(engine *game.HearthEngine, gameID, playerID string) {
	for {
		view, err := engine.GetGameView(gameID, playerID)
		if err != nil {
			return
		}
		var self, enemy *game.PlayerView
		for i := range view.Players {
			if view.Players[i].PlayerID == playerID {
				self = &view.Players[i]
			} else {
				enemy = &view.Players[i]
			}
		}
		if self == nil || enemy == nil {
			return
		}

		hand := append([]game.CardView(nil), self.Hand...)
		sort.SliceStable(hand, func(i, j int) bool { return hand[i].Cost < hand[j].Cost })

		played := false
		for _, card := range hand {
			if card.Cost > self.AvailableMana {
				break
			}
			if card.Type == string(cards.TypeMinion) && len(self.Board) >= 7 {
				continue
			}
			target := ""
			if card.CardID == "EX1_238" {
				target = enemy.Hero.ID
			}
			action := game.Play(playerID, card.ID, target, len(self.Board))
			results, err := engine.QueueActions(gameID, playerID, []game.Action{action})
			if err != nil {
				return
			}
			if len(results) > 0 && results[0].State == game.StateResolved {
				played = true
				break
			}
		}
		if !played {
			return
		}
	}
}

func printTurn(engine *game.HearthEngine, gameID, playerID string) {
	view, err := engine.GetGameView(gameID, playerID)
	if err != nil {
		return
	}
	fmt.Printf("turn %d\n", view.Turn)
	for _, p := range view.Players {
		hero := fmt.Sprintf("%s %d/%d", p.Hero.Name, p.Hero.Health-p.Hero.Damage, p.Hero.Health)
		fmt.Printf("  %-8s %-24s mana %d/%d hand %d deck %d", p.Name, hero, p.AvailableMana, p.MaxMana, p.HandCount, p.DeckCount)
		for _, m := range p.Board {
			fmt.Printf("  [%s %d/%d]", m.Name, m.Attack, m.Health-m.Damage)
		}
		fmt.Println()
	}
}
