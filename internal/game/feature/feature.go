// Package feature models the rule tree attached to a character: named
// features that nest, optionally carry a roll, and grant effects.
package feature

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"github.com/dgoetsch/dnd-cli/internal/game/dice"
)

// EffectRoll is the only effect variant: a bonus applied to matching rolls.
const EffectRoll = "Roll"

// Effect grants Bonus to every roll whose path Scope matches.
type Effect struct {
	Bonus RollBonus
	Scope RollScope
}

type effectJSON struct {
	Type  string    `json:"type"`
	Bonus RollBonus `json:"bonus"`
	Scope RollScope `json:"scope"`
}

// MarshalJSON writes {"type":"Roll","bonus":…,"scope":…}.
func (e Effect) MarshalJSON() ([]byte, error) {
	return json.Marshal(effectJSON{Type: EffectRoll, Bonus: e.Bonus, Scope: e.Scope})
}

func (e *Effect) UnmarshalJSON(data []byte) error {
	var raw effectJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("effect: %w", err)
	}
	if raw.Type != EffectRoll {
		return fmt.Errorf("effect: unknown type %q", raw.Type)
	}
	*e = Effect{Bonus: raw.Bonus, Scope: raw.Scope}
	return nil
}

// SourcedEffect pairs an effect with the feature path that granted it.
type SourcedEffect struct {
	Source []string
	Effect Effect
}

// Feature is a node of the rule tree.
type Feature struct {
	Children map[string]Feature `json:"children"`
	Roll     *dice.Roll         `json:"roll"`
	Effects  []Effect           `json:"effects"`
}

// Names returns the child feature names in lexicographic order.
func (f Feature) Names() []string {
	return slices.Sorted(maps.Keys(f.Children))
}

// AllEffects flattens the subtree rooted at f, tagging each effect with the
// path of the feature that declares it. path is the path of f itself.
//
// Postcondition: a node's own effects precede its descendants'; siblings are
// visited in name order.
func (f Feature) AllEffects(path []string) []SourcedEffect {
	var out []SourcedEffect
	for _, e := range f.Effects {
		out = append(out, SourcedEffect{Source: slices.Clone(path), Effect: e})
	}
	for _, name := range f.Names() {
		out = append(out, f.Children[name].AllEffects(append(slices.Clone(path), name))...)
	}
	return out
}

// AllEffects flattens a forest of named features in name order.
func AllEffects(features map[string]Feature) []SourcedEffect {
	var out []SourcedEffect
	for _, name := range slices.Sorted(maps.Keys(features)) {
		out = append(out, features[name].AllEffects([]string{name})...)
	}
	return out
}
