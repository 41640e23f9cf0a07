// Package storage defines the character persistence contract shared by every
// backend, plus the document decoding and template merge they all use.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dgoetsch/dnd-cli/internal/game/character"
	"github.com/dgoetsch/dnd-cli/internal/game/hitpoints"
	"github.com/dgoetsch/dnd-cli/internal/game/inventory"
)

var (
	// ErrCharacterNotFound is returned when no document exists for a name.
	ErrCharacterNotFound = errors.New("character not found")
	// ErrUnsafeName is returned for names that cannot be used as a storage key.
	ErrUnsafeName = errors.New("unsafe name")
)

// CharacterStore loads and persists characters by name. Inventory and hit
// points are saved independently of the rest of the document.
//
// There is no locking across processes: concurrent writers to the same name
// overwrite each other.
type CharacterStore interface {
	LoadCharacter(ctx context.Context, name string) (*character.Character, error)
	SaveCharacter(ctx context.Context, name string, c *character.Character) error
	SaveInventory(ctx context.Context, name string, inv inventory.Inventory) error
	SaveHitPoints(ctx context.Context, name string, hp hitpoints.HitPoints) error
}

// ValidateName rejects names that are empty, "." or "..", or that contain a
// path separator or NUL.
func ValidateName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("empty name: %w", ErrUnsafeName)
	case name == "." || name == "..":
		return fmt.Errorf("%q: %w", name, ErrUnsafeName)
	case strings.ContainsAny(name, "/\\\x00"):
		return fmt.Errorf("%q contains a path separator: %w", name, ErrUnsafeName)
	}
	return nil
}

// DecodeCharacter merges doc over template and decodes the result. A nil
// template decodes doc alone.
//
// Postcondition: keys present in doc always win; nested objects merge key by key.
func DecodeCharacter(doc []byte, template map[string]any) (*character.Character, error) {
	if template == nil {
		var c character.Character
		if err := json.Unmarshal(doc, &c); err != nil {
			return nil, fmt.Errorf("decoding character: %w", err)
		}
		return &c, nil
	}

	var overlay map[string]any
	if err := json.Unmarshal(doc, &overlay); err != nil {
		return nil, fmt.Errorf("decoding character: %w", err)
	}
	merged, err := json.Marshal(Merge(template, overlay))
	if err != nil {
		return nil, fmt.Errorf("encoding merged character: %w", err)
	}
	var c character.Character
	if err := json.Unmarshal(merged, &c); err != nil {
		return nil, fmt.Errorf("decoding merged character: %w", err)
	}
	return &c, nil
}

// Merge returns base deep-merged with overlay. Neither input is modified.
// Where both hold an object the objects merge recursively; otherwise the
// overlay value replaces the base value, arrays included.
func Merge(base, overlay map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(overlay))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overlay {
		bm, baseIsMap := out[k].(map[string]any)
		om, overlayIsMap := v.(map[string]any)
		if baseIsMap && overlayIsMap {
			out[k] = Merge(bm, om)
			continue
		}
		out[k] = v
	}
	return out
}

// NormalizeTemplate converts a decoded YAML tree into JSON-compatible values:
// map[any]any keys are stringified and nested values converted recursively.
func NormalizeTemplate(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = NormalizeTemplate(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = NormalizeTemplate(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = NormalizeTemplate(val)
		}
		return out
	}
	return v
}
