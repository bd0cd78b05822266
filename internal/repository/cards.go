package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/hearthforge/hearth-server-go/internal/game/cards"
)

// CardRepository is a Postgres-backed card database. Definitions are loaded
// once and served from memory; card content only changes on set imports.
type CardRepository struct {
	db *DB

	mu   sync.RWMutex
	defs map[string]cards.Definition
}

// NewCardRepository creates the repository without loading anything.
func NewCardRepository(db *DB) *CardRepository {
	return &CardRepository{
		db:   db,
		defs: make(map[string]cards.Definition),
	}
}

// LoadSet reads every definition of a set into memory.
func (r *CardRepository) LoadSet(ctx context.Context, set string) (int, error) {
	rows, err := r.db.Pool().Query(ctx, `
		SELECT card_id, name, card_type, cost, attack, health, durability,
		       overload, taunt, stealth, charge, abilities
		FROM cards
		WHERE card_set = $1`, set)
	if err != nil {
		return 0, fmt.Errorf("failed to query card set %s: %w", set, err)
	}
	defer rows.Close()

	loaded := make(map[string]cards.Definition)
	for rows.Next() {
		var (
			def       cards.Definition
			cardType  string
			abilities []string
		)
		if err := rows.Scan(&def.ID, &def.Name, &cardType, &def.Cost,
			&def.Attack, &def.Health, &def.Durability, &def.Overload,
			&def.Taunt, &def.Stealth, &def.Charge, &abilities); err != nil {
			return 0, fmt.Errorf("failed to scan card row: %w", err)
		}
		def.Type = cards.CardType(cardType)
		def.Abilities = abilities
		loaded[def.ID] = def
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("failed to read card rows: %w", err)
	}

	r.mu.Lock()
	for id, def := range loaded {
		r.defs[id] = def
	}
	r.mu.Unlock()
	return len(loaded), nil
}

// Lookup implements cards.Database from the loaded sets, falling back to a
// single-row query for cards outside of them.
func (r *CardRepository) Lookup(cardID string) (cards.Definition, error) {
	r.mu.RLock()
	def, ok := r.defs[cardID]
	r.mu.RUnlock()
	if ok {
		return def, nil
	}

	row := r.db.Pool().QueryRow(context.Background(), `
		SELECT card_id, name, card_type, cost, attack, health, durability,
		       overload, taunt, stealth, charge, abilities
		FROM cards
		WHERE card_id = $1`, cardID)

	var (
		cardType  string
		abilities []string
	)
	if err := row.Scan(&def.ID, &def.Name, &cardType, &def.Cost,
		&def.Attack, &def.Health, &def.Durability, &def.Overload,
		&def.Taunt, &def.Stealth, &def.Charge, &abilities); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return cards.Definition{}, fmt.Errorf("%w: %s", cards.ErrUnknownCard, cardID)
		}
		return cards.Definition{}, fmt.Errorf("failed to look up card %s: %w", cardID, err)
	}
	def.Type = cards.CardType(cardType)
	def.Abilities = abilities

	r.mu.Lock()
	r.defs[def.ID] = def
	r.mu.Unlock()
	return def, nil
}

// Upsert writes a definition, used by the set importer.
func (r *CardRepository) Upsert(ctx context.Context, set string, def cards.Definition) error {
	_, err := r.db.Pool().Exec(ctx, `
		INSERT INTO cards (card_id, card_set, name, card_type, cost, attack,
		                   health, durability, overload, taunt, stealth,
		                   charge, abilities)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (card_id) DO UPDATE SET
			card_set = EXCLUDED.card_set,
			name = EXCLUDED.name,
			card_type = EXCLUDED.card_type,
			cost = EXCLUDED.cost,
			attack = EXCLUDED.attack,
			health = EXCLUDED.health,
			durability = EXCLUDED.durability,
			overload = EXCLUDED.overload,
			taunt = EXCLUDED.taunt,
			stealth = EXCLUDED.stealth,
			charge = EXCLUDED.charge,
			abilities = EXCLUDED.abilities`,
		def.ID, set, def.Name, string(def.Type), def.Cost, def.Attack,
		def.Health, def.Durability, def.Overload, def.Taunt, def.Stealth,
		def.Charge, def.Abilities)
	if err != nil {
		return fmt.Errorf("failed to upsert card %s: %w", def.ID, err)
	}
	return nil
}
