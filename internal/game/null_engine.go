package game

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// NullEngine is a stub GameEngine that records what it was asked to do. The
// transport layer tests against it without standing up real games.
type NullEngine struct {
	logger *zap.Logger

	mu    sync.RWMutex
	games map[string]*nullGameState
}

type nullGameState struct {
	Seed    int64
	Players []string
	Actions []PlayerAction
}

// NewNullEngine creates a new null engine.
func NewNullEngine(logger *zap.Logger) *NullEngine {
	return &NullEngine{
		logger: logger,
		games:  make(map[string]*nullGameState),
	}
}

// StartGame records the game without simulating anything.
func (n *NullEngine) StartGame(gameID string, seed int64, setups [2]PlayerSetup) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	players := []string{setups[0].Name, setups[1].Name}
	n.games[gameID] = &nullGameState{
		Seed:    seed,
		Players: players,
		Actions: make([]PlayerAction, 0, 32),
	}
	if n.logger != nil {
		n.logger.Info("null engine started game",
			zap.String("game_id", gameID),
			zap.Strings("players", players))
	}
	return nil
}

// QueueActions records the batch and reports every action as resolved.
func (n *NullEngine) QueueActions(gameID, playerID string, actions []Action) ([]Result, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	state, ok := n.games[gameID]
	if !ok {
		return nil, fmt.Errorf("game %s not found", gameID)
	}
	results := make([]Result, 0, len(actions))
	for _, a := range actions {
		state.Actions = append(state.Actions, PlayerAction{
			PlayerID: playerID,
			Kind:     string(a.Kind),
			EntityID: a.EntityID,
			CardID:   a.CardID,
			TargetID: a.TargetID,
			Amount:   a.Amount,
			Position: a.Position,
			Times:    a.Times,
		})
		results = append(results, Result{Action: a, State: StateResolved})
	}
	if len(state.Actions) > 200 {
		state.Actions = state.Actions[len(state.Actions)-200:]
	}
	return results, nil
}

// EndTurn is a no-op.
func (n *NullEngine) EndTurn(gameID, playerID string) error {
	return n.touch(gameID)
}

// Concede is a no-op.
func (n *NullEngine) Concede(gameID, playerID string) error {
	return n.touch(gameID)
}

func (n *NullEngine) touch(gameID string) error {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if _, ok := n.games[gameID]; !ok {
		return fmt.Errorf("game %s not found", gameID)
	}
	return nil
}

// GetGameView returns an empty view for a known game.
func (n *NullEngine) GetGameView(gameID, viewerID string) (*GameView, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if _, ok := n.games[gameID]; !ok {
		return nil, fmt.Errorf("game %s not found", gameID)
	}
	return &GameView{GameID: gameID, ViewerID: viewerID}, nil
}

// EndGame drops the recorded game.
func (n *NullEngine) EndGame(gameID string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, ok := n.games[gameID]; !ok {
		return fmt.Errorf("game %s not found", gameID)
	}
	delete(n.games, gameID)
	return nil
}

// RecordedActions returns the actions submitted for a game, for tests.
func (n *NullEngine) RecordedActions(gameID string) []PlayerAction {
	n.mu.RLock()
	defer n.mu.RUnlock()
	state, ok := n.games[gameID]
	if !ok {
		return nil
	}
	return append([]PlayerAction(nil), state.Actions...)
}
