// Package file stores characters as JSON documents under a storage root.
//
// Layout:
//
//	<root>/characters/<name>.json   the character document
//	<root>/templates/<name>.yaml    optional template merged beneath documents
//	<root>/inventory/<name>/...     inventory mirror; directories are
//	                                containers, files hold an object's count
//	<root>/hit_points/<name>.json   hit point override
//
// When present, the inventory mirror and the hit point file take precedence
// over the values embedded in the document.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dgoetsch/dnd-cli/internal/game/character"
	"github.com/dgoetsch/dnd-cli/internal/game/hitpoints"
	"github.com/dgoetsch/dnd-cli/internal/game/inventory"
	"github.com/dgoetsch/dnd-cli/internal/storage"
)

// Store is a storage.CharacterStore rooted at a directory.
type Store struct {
	root     string
	template map[string]any
}

var _ storage.CharacterStore = (*Store)(nil)

// NewStore returns a Store under root. template may be nil.
//
// Precondition: root must be non-empty.
func NewStore(root string, template map[string]any) *Store {
	return &Store{root: root, template: template}
}

func (s *Store) documentPath(name string) string {
	return filepath.Join(s.root, "characters", name+".json")
}

func (s *Store) inventoryPath(name string) string {
	return filepath.Join(s.root, "inventory", name)
}

func (s *Store) hitPointsPath(name string) string {
	return filepath.Join(s.root, "hit_points", name+".json")
}

// LoadCharacter reads the document for name, merges the template beneath it
// and applies the inventory and hit point overrides.
//
// Postcondition: returns storage.ErrCharacterNotFound when no document exists.
func (s *Store) LoadCharacter(_ context.Context, name string) (*character.Character, error) {
	if err := storage.ValidateName(name); err != nil {
		return nil, err
	}
	doc, err := os.ReadFile(s.documentPath(name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", name, storage.ErrCharacterNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading character %s: %w", name, err)
	}

	c, err := storage.DecodeCharacter(doc, s.template)
	if err != nil {
		return nil, fmt.Errorf("character %s: %w", name, err)
	}

	inv, ok, err := readMirror(s.inventoryPath(name))
	if err != nil {
		return nil, fmt.Errorf("reading inventory of %s: %w", name, err)
	}
	if ok {
		c.Inventory = inv
	}

	hpData, err := os.ReadFile(s.hitPointsPath(name))
	switch {
	case err == nil:
		var hp hitpoints.HitPoints
		if err := json.Unmarshal(hpData, &hp); err != nil {
			return nil, fmt.Errorf("decoding hit points of %s: %w", name, err)
		}
		c.HitPoints = hp
	case !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("reading hit points of %s: %w", name, err)
	}
	return c, nil
}

// SaveCharacter writes the whole document and refreshes both overrides so
// they agree with it.
func (s *Store) SaveCharacter(ctx context.Context, name string, c *character.Character) error {
	if err := storage.ValidateName(name); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding character %s: %w", name, err)
	}
	if err := writeFileAtomic(s.documentPath(name), data); err != nil {
		return fmt.Errorf("writing character %s: %w", name, err)
	}
	if err := s.SaveInventory(ctx, name, c.Inventory); err != nil {
		return err
	}
	return s.SaveHitPoints(ctx, name, c.HitPoints)
}

// SaveInventory rewrites the inventory mirror for name.
func (s *Store) SaveInventory(_ context.Context, name string, inv inventory.Inventory) error {
	if err := storage.ValidateName(name); err != nil {
		return err
	}
	if err := writeMirror(s.inventoryPath(name), inv); err != nil {
		return fmt.Errorf("writing inventory of %s: %w", name, err)
	}
	return nil
}

// SaveHitPoints writes the hit point override for name.
func (s *Store) SaveHitPoints(_ context.Context, name string, hp hitpoints.HitPoints) error {
	if err := storage.ValidateName(name); err != nil {
		return err
	}
	data, err := json.Marshal(hp)
	if err != nil {
		return fmt.Errorf("encoding hit points of %s: %w", name, err)
	}
	if err := writeFileAtomic(s.hitPointsPath(name), data); err != nil {
		return fmt.Errorf("writing hit points of %s: %w", name, err)
	}
	return nil
}

// writeFileAtomic writes data to a temp file beside path and renames it over path.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
