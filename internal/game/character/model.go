// Package character defines the character aggregate and the values derived
// from it.
package character

import (
	"encoding/json"
	"fmt"

	"github.com/dgoetsch/dnd-cli/internal/game/ability"
	"github.com/dgoetsch/dnd-cli/internal/game/feature"
	"github.com/dgoetsch/dnd-cli/internal/game/hitpoints"
	"github.com/dgoetsch/dnd-cli/internal/game/inventory"
)

// Class is one class a character has levels in.
type Class struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
}

// Character is a player character's full persistent state.
//
// A Character has a single owner for the duration of a command; nothing here
// is safe for concurrent use.
type Character struct {
	Abilities ability.Scores             `json:"ability_scores"`
	Classes   []Class                    `json:"classes"`
	Features  map[string]feature.Feature `json:"features"`
	Inventory inventory.Inventory        `json:"inventory"`
	HitPoints hitpoints.HitPoints        `json:"hit_points"`
}

// New returns a character with default ability scores, no classes, no
// features and an empty inventory.
func New() *Character {
	return &Character{
		Abilities: ability.NewScores(),
		Classes:   []Class{},
		Features:  map[string]feature.Feature{},
		Inventory: inventory.New(),
	}
}

// UnmarshalJSON fills keys absent from data with the defaults of New.
func (c *Character) UnmarshalJSON(data []byte) error {
	type plain Character
	p := plain(*New())
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("character: %w", err)
	}
	*c = Character(p)
	return nil
}

// AbilityScore returns the score for a.
func (c *Character) AbilityScore(a ability.Ability) ability.Score {
	return c.Abilities.Get(a)
}

// TotalLevel returns the sum of all class levels.
func (c *Character) TotalLevel() int {
	total := 0
	for _, cl := range c.Classes {
		total += cl.Level
	}
	return total
}

// ProficiencyBonus returns the proficiency bonus for the total level.
func (c *Character) ProficiencyBonus() int {
	level := c.TotalLevel()
	switch {
	case level < 5:
		return 2
	case level < 9:
		return 3
	case level < 13:
		return 4
	case level < 17:
		return 5
	case level <= 20:
		return 6
	default:
		return level/4 + 2
	}
}

// Feature returns the top-level feature called name.
func (c *Character) Feature(name string) (feature.Feature, bool) {
	f, ok := c.Features[name]
	return f, ok
}

// AllEffects returns every effect in the feature tree tagged with the path
// of the feature that grants it, depth first with siblings in name order.
func (c *Character) AllEffects() []feature.SourcedEffect {
	return feature.AllEffects(c.Features)
}

// WithInventory returns a shallow copy of c holding inv.
func (c *Character) WithInventory(inv inventory.Inventory) *Character {
	out := *c
	out.Inventory = inv
	return &out
}
