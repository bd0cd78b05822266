package game

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/hearthforge/hearth-server-go/internal/game/cards"
	"github.com/hearthforge/hearth-server-go/internal/game/rules"
)

// PlayerAction is the wire form of a requested action as clients submit it.
type PlayerAction struct {
	PlayerID string `json:"playerId"`
	Kind     string `json:"kind"`
	EntityID string `json:"entityId,omitempty"`
	CardID   string `json:"cardId,omitempty"`
	TargetID string `json:"targetId,omitempty"`
	Amount   int    `json:"amount,omitempty"`
	Position int    `json:"position"`
	Times    int    `json:"times,omitempty"`
}

// ToAction converts the wire form into a resolver action.
func (pa PlayerAction) ToAction() Action {
	return Action{
		Kind:     ActionKind(pa.Kind),
		Actor:    pa.PlayerID,
		EntityID: pa.EntityID,
		CardID:   pa.CardID,
		TargetID: pa.TargetID,
		Amount:   pa.Amount,
		Position: pa.Position,
		Times:    pa.Times,
	}
}

// GameEngine is the surface the transport layer talks to.
type GameEngine interface {
	StartGame(gameID string, seed int64, setups [2]PlayerSetup) error
	QueueActions(gameID, playerID string, actions []Action) ([]Result, error)
	EndTurn(gameID, playerID string) error
	Concede(gameID, playerID string) error
	GetGameView(gameID, viewerID string) (*GameView, error)
	EndGame(gameID string) error
}

// SnapshotStore persists snapshots outside the process, keyed by game and
// sequence number.
type SnapshotStore interface {
	Save(ctx context.Context, seq int, s *Snapshot) error
}

// HearthEngine is the production GameEngine: it owns running games, records
// replays and mirrors the event stream into the structured log.
type HearthEngine struct {
	logger   *zap.Logger
	db       cards.Database
	recorder *ReplayRecorder
	store    SnapshotStore

	mu    sync.RWMutex
	games map[string]*Game
}

// NewHearthEngine creates an engine backed by the given card database.
func NewHearthEngine(logger *zap.Logger, db cards.Database, replayDir string) *HearthEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HearthEngine{
		logger:   logger,
		db:       db,
		recorder: NewReplayRecorder(logger, replayDir),
		games:    make(map[string]*Game),
	}
}

// SetSnapshotStore attaches durable snapshot persistence. Call before any
// games are started.
func (e *HearthEngine) SetSnapshotStore(store SnapshotStore) {
	e.store = store
}

// recordState feeds the snapshot to the replay recorder and, when a store is
// attached, persists it as well.
func (e *HearthEngine) recordState(gameID string, g *Game) {
	snap := g.Snapshot()
	e.recorder.RecordState(gameID, snap)
	if e.store == nil {
		return
	}
	seq := 0
	if replay, ok := e.recorder.GetReplay(gameID); ok {
		seq = replay.Size() - 1
	}
	if err := e.store.Save(context.Background(), seq, snap); err != nil {
		e.logger.Warn("snapshot persistence failed",
			zap.String("game_id", gameID),
			zap.Int("seq", seq),
			zap.Error(err))
	}
}

// StartGame creates and starts a game.
func (e *HearthEngine) StartGame(gameID string, seed int64, setups [2]PlayerSetup) error {
	e.mu.Lock()
	if _, exists := e.games[gameID]; exists {
		e.mu.Unlock()
		return fmt.Errorf("game %s already exists", gameID)
	}
	g, err := NewGame(gameID, e.logger, e.db, seed, setups)
	if err != nil {
		e.mu.Unlock()
		return err
	}
	e.games[gameID] = g
	e.mu.Unlock()

	g.EventBus().Subscribe(e.eventLogger(gameID))
	e.recorder.StartRecording(gameID, seed)

	if err := g.Start(); err != nil {
		return err
	}
	e.recordState(gameID, g)
	e.logger.Info("game started",
		zap.String("game_id", gameID),
		zap.Int64("seed", seed),
		zap.String("current_player", g.CurrentPlayerID()))
	return nil
}

func (e *HearthEngine) eventLogger(gameID string) rules.Listener {
	return func(ev rules.Event) {
		e.logger.Debug("game event",
			zap.String("game_id", gameID),
			zap.String("type", string(ev.Type)),
			zap.String("target", ev.TargetID),
			zap.String("source", ev.SourceID),
			zap.Int("amount", ev.Amount))
	}
}

func (e *HearthEngine) game(gameID string) (*Game, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	g, ok := e.games[gameID]
	if !ok {
		return nil, fmt.Errorf("game %s not found", gameID)
	}
	return g, nil
}

// QueueActions resolves a batch for a player and records the new state.
func (e *HearthEngine) QueueActions(gameID, playerID string, actions []Action) ([]Result, error) {
	g, err := e.game(gameID)
	if err != nil {
		return nil, err
	}
	results, err := g.QueueActions(playerID, actions)
	e.recordState(gameID, g)
	return results, err
}

// EndTurn passes the turn.
func (e *HearthEngine) EndTurn(gameID, playerID string) error {
	g, err := e.game(gameID)
	if err != nil {
		return err
	}
	if err := g.EndTurn(playerID); err != nil {
		return err
	}
	e.recordState(gameID, g)
	return nil
}

// Concede gives up the game for a player.
func (e *HearthEngine) Concede(gameID, playerID string) error {
	g, err := e.game(gameID)
	if err != nil {
		return err
	}
	if err := g.Concede(playerID); err != nil {
		return err
	}
	e.recordState(gameID, g)
	return nil
}

// GetGameView builds the state as one player sees it.
func (e *HearthEngine) GetGameView(gameID, viewerID string) (*GameView, error) {
	g, err := e.game(gameID)
	if err != nil {
		return nil, err
	}
	return g.View(viewerID)
}

// GetGame exposes the underlying game, for the simulator and tests.
func (e *HearthEngine) GetGame(gameID string) (*Game, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	g, ok := e.games[gameID]
	return g, ok
}

// GetReplay returns the recorded replay for a game.
func (e *HearthEngine) GetReplay(gameID string) (*Replay, bool) {
	return e.recorder.GetReplay(gameID)
}

// EndGame saves the replay and drops the game.
func (e *HearthEngine) EndGame(gameID string) error {
	e.mu.Lock()
	_, ok := e.games[gameID]
	delete(e.games, gameID)
	e.mu.Unlock()
	if !ok {
		return fmt.Errorf("game %s not found", gameID)
	}
	if err := e.recorder.SaveReplay(gameID); err != nil {
		e.logger.Warn("replay save failed", zap.String("game_id", gameID), zap.Error(err))
	}
	e.recorder.ClearReplay(gameID)
	e.logger.Info("game ended", zap.String("game_id", gameID))
	return nil
}
