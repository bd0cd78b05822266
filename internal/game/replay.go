package game

import (
	"compress/gzip"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Replay is a recorded game: the seed plus sequential state snapshots. With
// the seed and the action log a game can be re-simulated; with the snapshots
// it can be stepped through for inspection.
type Replay struct {
	GameID       string
	Seed         int64
	States       []*Snapshot
	CurrentIndex int
	mu           sync.RWMutex
}

// NewReplay creates an empty replay.
func NewReplay(gameID string, seed int64) *Replay {
	return &Replay{
		GameID: gameID,
		Seed:   seed,
		States: make([]*Snapshot, 0),
	}
}

// RecordState appends a snapshot.
func (r *Replay) RecordState(snapshot *Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.States = append(r.States, snapshot)
}

// Start rewinds the replay to the beginning.
func (r *Replay) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.CurrentIndex = 0
}

// Next returns the next state, or nil past the end.
func (r *Replay) Next() *Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.CurrentIndex < len(r.States) {
		state := r.States[r.CurrentIndex]
		r.CurrentIndex++
		return state
	}
	return nil
}

// Previous steps back and returns the state, or nil at the beginning.
func (r *Replay) Previous() *Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.CurrentIndex > 0 {
		r.CurrentIndex--
		return r.States[r.CurrentIndex]
	}
	return nil
}

// Skip advances by count states and returns the state landed on.
func (r *Replay) Skip(count int) *Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.CurrentIndex += count
	if r.CurrentIndex < 0 {
		r.CurrentIndex = 0
	}
	if r.CurrentIndex >= len(r.States) {
		r.CurrentIndex = len(r.States)
		return nil
	}
	return r.States[r.CurrentIndex]
}

// Size returns the number of recorded states.
func (r *Replay) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.States)
}

// StateAt returns the snapshot at an index without moving the cursor.
func (r *Replay) StateAt(index int) *Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if index < 0 || index >= len(r.States) {
		return nil
	}
	return r.States[index]
}

type replayMetadata struct {
	GameID     string
	Seed       int64
	Timestamp  time.Time
	Version    int
	StateCount int
}

// SaveToFile writes the replay as gzipped gob to <directory>/<gameID>.replay.
func (r *Replay) SaveToFile(directory string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if err := os.MkdirAll(directory, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	filename := filepath.Join(directory, fmt.Sprintf("%s.replay", r.GameID))
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	defer gzipWriter.Close()
	encoder := gob.NewEncoder(gzipWriter)

	metadata := replayMetadata{
		GameID:     r.GameID,
		Seed:       r.Seed,
		Timestamp:  time.Now(),
		Version:    1,
		StateCount: len(r.States),
	}
	if err := encoder.Encode(&metadata); err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}
	for i, state := range r.States {
		if err := encoder.Encode(state); err != nil {
			return fmt.Errorf("failed to encode state %d: %w", i, err)
		}
	}
	return nil
}

// LoadReplayFromFile reads a replay written by SaveToFile.
func LoadReplayFromFile(directory, gameID string) (*Replay, error) {
	filename := filepath.Join(directory, fmt.Sprintf("%s.replay", gameID))
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	gzipReader, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gzipReader.Close()
	decoder := gob.NewDecoder(gzipReader)

	var metadata replayMetadata
	if err := decoder.Decode(&metadata); err != nil {
		return nil, fmt.Errorf("failed to decode metadata: %w", err)
	}
	if metadata.Version != 1 {
		return nil, fmt.Errorf("unsupported replay version: %d", metadata.Version)
	}

	replay := NewReplay(metadata.GameID, metadata.Seed)
	for i := 0; i < metadata.StateCount; i++ {
		var state Snapshot
		if err := decoder.Decode(&state); err != nil {
			return nil, fmt.Errorf("failed to decode state %d: %w", i, err)
		}
		replay.States = append(replay.States, &state)
	}
	return replay, nil
}

// ReplayRecorder manages replays for running games.
type ReplayRecorder struct {
	logger  *zap.Logger
	saveDir string
	mu      sync.RWMutex
	replays map[string]*Replay
}

// NewReplayRecorder creates a recorder that saves to the given directory.
func NewReplayRecorder(logger *zap.Logger, saveDir string) *ReplayRecorder {
	return &ReplayRecorder{
		logger:  logger,
		saveDir: saveDir,
		replays: make(map[string]*Replay),
	}
}

// StartRecording begins capturing snapshots for a game.
func (rr *ReplayRecorder) StartRecording(gameID string, seed int64) {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	if _, ok := rr.replays[gameID]; ok {
		return
	}
	rr.replays[gameID] = NewReplay(gameID, seed)
	if rr.logger != nil {
		rr.logger.Debug("replay recording started", zap.String("game_id", gameID))
	}
}

// RecordState appends a snapshot if the game is being recorded.
func (rr *ReplayRecorder) RecordState(gameID string, snapshot *Snapshot) {
	rr.mu.RLock()
	replay, ok := rr.replays[gameID]
	rr.mu.RUnlock()
	if ok {
		replay.RecordState(snapshot)
	}
}

// GetReplay returns the replay for a game.
func (rr *ReplayRecorder) GetReplay(gameID string) (*Replay, bool) {
	rr.mu.RLock()
	defer rr.mu.RUnlock()
	replay, ok := rr.replays[gameID]
	return replay, ok
}

// SaveReplay persists the replay for a game to disk.
func (rr *ReplayRecorder) SaveReplay(gameID string) error {
	rr.mu.RLock()
	replay, ok := rr.replays[gameID]
	rr.mu.RUnlock()
	if !ok {
		return fmt.Errorf("no replay for game %s", gameID)
	}
	return replay.SaveToFile(rr.saveDir)
}

// ClearReplay drops the in-memory replay for a game.
func (rr *ReplayRecorder) ClearReplay(gameID string) {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	delete(rr.replays, gameID)
}

// IsRecording reports whether snapshots are being captured for a game.
func (rr *ReplayRecorder) IsRecording(gameID string) bool {
	rr.mu.RLock()
	defer rr.mu.RUnlock()
	_, ok := rr.replays[gameID]
	return ok
}
