package repository

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"io"

	"github.com/jackc/pgx/v5"

	"github.com/hearthforge/hearth-server-go/internal/game"
)

// ErrSnapshotNotFound is returned when a game has no persisted snapshots.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// SnapshotRepository persists game snapshots so finished games can be
// inspected and disputed results replayed.
type SnapshotRepository struct {
	db *DB
}

// NewSnapshotRepository creates the repository.
func NewSnapshotRepository(db *DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Save stores one snapshot with its sequence number and checksum.
func (r *SnapshotRepository) Save(ctx context.Context, seq int, s *game.Snapshot) error {
	blob, err := encodeSnapshot(s)
	if err != nil {
		return err
	}
	_, err = r.db.Pool().Exec(ctx, `
		INSERT INTO game_snapshots (game_id, seq, turn, checksum, state)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (game_id, seq) DO UPDATE SET
			turn = EXCLUDED.turn,
			checksum = EXCLUDED.checksum,
			state = EXCLUDED.state`,
		s.GameID, seq, s.Turn, s.Checksum(), blob)
	if err != nil {
		return fmt.Errorf("failed to save snapshot %s/%d: %w", s.GameID, seq, err)
	}
	return nil
}

// Latest returns the most recent snapshot of a game.
func (r *SnapshotRepository) Latest(ctx context.Context, gameID string) (*game.Snapshot, error) {
	row := r.db.Pool().QueryRow(ctx, `
		SELECT state FROM game_snapshots
		WHERE game_id = $1
		ORDER BY seq DESC
		LIMIT 1`, gameID)

	var blob []byte
	if err := row.Scan(&blob); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: game %s", ErrSnapshotNotFound, gameID)
		}
		return nil, fmt.Errorf("failed to load snapshot for %s: %w", gameID, err)
	}
	return decodeSnapshot(blob)
}

// History returns every snapshot of a game in sequence order.
func (r *SnapshotRepository) History(ctx context.Context, gameID string) ([]*game.Snapshot, error) {
	rows, err := r.db.Pool().Query(ctx, `
		SELECT state FROM game_snapshots
		WHERE game_id = $1
		ORDER BY seq ASC`, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots for %s: %w", gameID, err)
	}
	defer rows.Close()

	var history []*game.Snapshot
	for rows.Next() {
		var blob []byte
		if err := rows.Scan(&blob); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}
		s, err := decodeSnapshot(blob)
		if err != nil {
			return nil, err
		}
		history = append(history, s)
	}
	return history, rows.Err()
}

// Delete removes all snapshots of a game.
func (r *SnapshotRepository) Delete(ctx context.Context, gameID string) error {
	_, err := r.db.Pool().Exec(ctx,
		`DELETE FROM game_snapshots WHERE game_id = $1`, gameID)
	if err != nil {
		return fmt.Errorf("failed to delete snapshots for %s: %w", gameID, err)
	}
	return nil
}

// Snapshots are stored gzipped gob, the same encoding replay files use.
func encodeSnapshot(s *game.Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if err := gob.NewEncoder(gz).Encode(s); err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := gz.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish snapshot encoding: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeSnapshot(blob []byte) (*game.Snapshot, error) {
	gz, err := gzip.NewReader(bytes.NewReader(blob))
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot blob: %w", err)
	}
	defer gz.Close()
	var s game.Snapshot
	if err := gob.NewDecoder(gz).Decode(&s); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &s, nil
}
