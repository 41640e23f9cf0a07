package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dgoetsch/dnd-cli/internal/game/character"
	"github.com/dgoetsch/dnd-cli/internal/game/hitpoints"
	"github.com/dgoetsch/dnd-cli/internal/game/inventory"
	"github.com/dgoetsch/dnd-cli/internal/storage"
)

// Store is a storage.CharacterStore backed by the characters table.
type Store struct {
	db       *pgxpool.Pool
	template map[string]any
}

var _ storage.CharacterStore = (*Store)(nil)

// NewStore returns a Store using db. template may be nil.
//
// Precondition: db must be a valid, open connection pool.
func NewStore(db *pgxpool.Pool, template map[string]any) *Store {
	return &Store{db: db, template: template}
}

// LoadCharacter selects the row for name and decodes it.
//
// Postcondition: returns storage.ErrCharacterNotFound when no row exists.
func (s *Store) LoadCharacter(ctx context.Context, name string) (*character.Character, error) {
	if err := storage.ValidateName(name); err != nil {
		return nil, err
	}
	var doc, inv, hp []byte
	err := s.db.QueryRow(ctx, `
		SELECT document, inventory, hit_points
		FROM characters WHERE name = $1`,
		name,
	).Scan(&doc, &inv, &hp)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", name, storage.ErrCharacterNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("selecting character %s: %w", name, err)
	}

	c, err := storage.DecodeCharacter(doc, s.template)
	if err != nil {
		return nil, fmt.Errorf("character %s: %w", name, err)
	}
	if inv != nil {
		var override inventory.Inventory
		if err := json.Unmarshal(inv, &override); err != nil {
			return nil, fmt.Errorf("decoding inventory of %s: %w", name, err)
		}
		c.Inventory = override
	}
	if hp != nil {
		var override hitpoints.HitPoints
		if err := json.Unmarshal(hp, &override); err != nil {
			return nil, fmt.Errorf("decoding hit points of %s: %w", name, err)
		}
		c.HitPoints = override
	}
	return c, nil
}

// SaveCharacter upserts the document for name and clears both override
// columns, since the document now carries the current values.
func (s *Store) SaveCharacter(ctx context.Context, name string, c *character.Character) error {
	if err := storage.ValidateName(name); err != nil {
		return err
	}
	doc, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding character %s: %w", name, err)
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO characters (name, document)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE
		SET document = EXCLUDED.document,
		    inventory = NULL,
		    hit_points = NULL,
		    updated_at = NOW()`,
		name, doc,
	)
	if err != nil {
		return fmt.Errorf("upserting character %s: %w", name, err)
	}
	return nil
}

// SaveInventory sets the inventory override for name.
//
// Postcondition: returns storage.ErrCharacterNotFound when no row exists.
func (s *Store) SaveInventory(ctx context.Context, name string, inv inventory.Inventory) error {
	data, err := json.Marshal(inv)
	if err != nil {
		return fmt.Errorf("encoding inventory of %s: %w", name, err)
	}
	return s.updateColumn(ctx, name, "inventory", data)
}

// SaveHitPoints sets the hit point override for name.
//
// Postcondition: returns storage.ErrCharacterNotFound when no row exists.
func (s *Store) SaveHitPoints(ctx context.Context, name string, hp hitpoints.HitPoints) error {
	data, err := json.Marshal(hp)
	if err != nil {
		return fmt.Errorf("encoding hit points of %s: %w", name, err)
	}
	return s.updateColumn(ctx, name, "hit_points", data)
}

// updateColumn writes value into column. column is always a literal from
// this file, never user input.
func (s *Store) updateColumn(ctx context.Context, name, column string, value []byte) error {
	if err := storage.ValidateName(name); err != nil {
		return err
	}
	tag, err := s.db.Exec(ctx,
		`UPDATE characters SET `+column+` = $2, updated_at = NOW() WHERE name = $1`,
		name, value,
	)
	if err != nil {
		return fmt.Errorf("updating %s of %s: %w", column, name, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", name, storage.ErrCharacterNotFound)
	}
	return nil
}
