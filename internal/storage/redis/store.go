// Package redis stores character documents in Redis.
//
// Keys, relative to the configured prefix:
//
//	character:<name>             the character document
//	character:<name>:inventory   inventory override
//	character:<name>:hit_points  hit point override
package redis

import (
	"context"
	"encoding/json"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/dgoetsch/dnd-cli/internal/config"
	"github.com/dgoetsch/dnd-cli/internal/game/character"
	"github.com/dgoetsch/dnd-cli/internal/game/hitpoints"
	"github.com/dgoetsch/dnd-cli/internal/game/inventory"
	"github.com/dgoetsch/dnd-cli/internal/storage"
)

// Store is a storage.CharacterStore backed by Redis strings.
type Store struct {
	client   goredis.Cmdable
	prefix   string
	template map[string]any
}

var _ storage.CharacterStore = (*Store)(nil)

// NewClient builds a client from cfg. It does not connect.
func NewClient(cfg config.RedisConfig) *goredis.Client {
	return goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// NewStore returns a Store using client with keys under prefix. template may be nil.
func NewStore(client goredis.Cmdable, prefix string, template map[string]any) *Store {
	return &Store{client: client, prefix: prefix, template: template}
}

// Each kind of value has its own leading namespace, so no name, ':' included,
// can produce another name's key.
func (s *Store) documentKey(name string) string {
	return fmt.Sprintf("%scharacter:%s", s.prefix, name)
}

func (s *Store) inventoryKey(name string) string {
	return fmt.Sprintf("%sinventory:%s", s.prefix, name)
}

func (s *Store) hitPointsKey(name string) string {
	return fmt.Sprintf("%shit_points:%s", s.prefix, name)
}

// LoadCharacter fetches the document and both overrides with one MGET.
//
// Postcondition: returns storage.ErrCharacterNotFound when the document key is absent.
func (s *Store) LoadCharacter(ctx context.Context, name string) (*character.Character, error) {
	if err := storage.ValidateName(name); err != nil {
		return nil, err
	}
	vals, err := s.client.MGet(ctx, s.documentKey(name), s.inventoryKey(name), s.hitPointsKey(name)).Result()
	if err != nil {
		return nil, fmt.Errorf("fetching character %s: %w", name, err)
	}
	if len(vals) != 3 {
		return nil, fmt.Errorf("fetching character %s: expected 3 replies, got %d", name, len(vals))
	}
	if vals[0] == nil {
		return nil, fmt.Errorf("%s: %w", name, storage.ErrCharacterNotFound)
	}
	doc, ok := vals[0].(string)
	if !ok {
		return nil, fmt.Errorf("character %s: unexpected reply type %T", name, vals[0])
	}
	c, err := storage.DecodeCharacter([]byte(doc), s.template)
	if err != nil {
		return nil, fmt.Errorf("character %s: %w", name, err)
	}

	var inv inventory.Inventory
	found, err := decodeOptional(vals[1], &inv)
	if err != nil {
		return nil, fmt.Errorf("inventory of %s: %w", name, err)
	}
	if found {
		c.Inventory = inv
	}
	var hp hitpoints.HitPoints
	found, err = decodeOptional(vals[2], &hp)
	if err != nil {
		return nil, fmt.Errorf("hit points of %s: %w", name, err)
	}
	if found {
		c.HitPoints = hp
	}
	return c, nil
}

// decodeOptional unmarshals an MGET reply into v. It reports false for a
// missing key.
func decodeOptional(reply any, v any) (bool, error) {
	if reply == nil {
		return false, nil
	}
	data, ok := reply.(string)
	if !ok {
		return false, fmt.Errorf("unexpected reply type %T", reply)
	}
	if err := json.Unmarshal([]byte(data), v); err != nil {
		return false, err
	}
	return true, nil
}

// SaveCharacter writes the document and deletes both overrides.
func (s *Store) SaveCharacter(ctx context.Context, name string, c *character.Character) error {
	if err := storage.ValidateName(name); err != nil {
		return err
	}
	doc, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding character %s: %w", name, err)
	}
	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.documentKey(name), string(doc), 0)
	pipe.Del(ctx, s.inventoryKey(name), s.hitPointsKey(name))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("saving character %s: %w", name, err)
	}
	return nil
}

// SaveInventory sets the inventory override for name.
//
// Postcondition: returns storage.ErrCharacterNotFound when the document key is absent.
func (s *Store) SaveInventory(ctx context.Context, name string, inv inventory.Inventory) error {
	data, err := json.Marshal(inv)
	if err != nil {
		return fmt.Errorf("encoding inventory of %s: %w", name, err)
	}
	return s.setOverride(ctx, name, s.inventoryKey(name), data)
}

// SaveHitPoints sets the hit point override for name.
//
// Postcondition: returns storage.ErrCharacterNotFound when the document key is absent.
func (s *Store) SaveHitPoints(ctx context.Context, name string, hp hitpoints.HitPoints) error {
	data, err := json.Marshal(hp)
	if err != nil {
		return fmt.Errorf("encoding hit points of %s: %w", name, err)
	}
	return s.setOverride(ctx, name, s.hitPointsKey(name), data)
}

func (s *Store) setOverride(ctx context.Context, name, key string, data []byte) error {
	if err := storage.ValidateName(name); err != nil {
		return err
	}
	n, err := s.client.Exists(ctx, s.documentKey(name)).Result()
	if err != nil {
		return fmt.Errorf("checking character %s: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", name, storage.ErrCharacterNotFound)
	}
	if err := s.client.Set(ctx, key, string(data), 0).Err(); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}
