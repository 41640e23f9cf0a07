package character

import (
	"errors"
	"fmt"

	"github.com/dgoetsch/dnd-cli/internal/game/ability"
	"github.com/dgoetsch/dnd-cli/internal/game/feature"
	"github.com/dgoetsch/dnd-cli/internal/game/hitpoints"
)

// Builder assembles a Character step by step. Errors are collected and
// reported once by Build.
type Builder struct {
	c    *Character
	errs []error
}

// NewBuilder starts from New().
func NewBuilder() *Builder {
	return &Builder{c: New()}
}

// Ability sets the score of a.
func (b *Builder) Ability(a ability.Ability, value int) *Builder {
	b.c.Abilities = b.c.Abilities.With(a, ability.Of(value))
	return b
}

// Class appends a class with the given level.
//
// Precondition: name must be non-empty and level must be positive.
func (b *Builder) Class(name string, level int) *Builder {
	if name == "" {
		b.errs = append(b.errs, errors.New("class name must not be empty"))
		return b
	}
	if level < 1 {
		b.errs = append(b.errs, fmt.Errorf("class %q: level must be positive, got %d", name, level))
		return b
	}
	b.c.Classes = append(b.c.Classes, Class{Name: name, Level: level})
	return b
}

// Feature adds a top-level feature.
//
// Precondition: name must be unique among top-level features.
func (b *Builder) Feature(name string, f feature.Feature) *Builder {
	if _, exists := b.c.Features[name]; exists {
		b.errs = append(b.errs, fmt.Errorf("feature %q already defined", name))
		return b
	}
	b.c.Features[name] = f
	return b
}

// HitPoints sets the starting hit point pools.
func (b *Builder) HitPoints(current, max, temporary int) *Builder {
	b.c.HitPoints = hitpoints.New(current, max, temporary)
	return b
}

// Build returns the assembled Character or every error collected on the way.
//
// Postcondition: exactly one of the results is non-nil.
func (b *Builder) Build() (*Character, error) {
	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}
	return b.c, nil
}
