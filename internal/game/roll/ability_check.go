package roll

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dgoetsch/dnd-cli/internal/game/ability"
	"github.com/dgoetsch/dnd-cli/internal/game/character"
)

// AbilityPathPrefix is the first segment of a roll path that is answered by
// AbilityCheck instead of the effect engine.
const AbilityPathPrefix = "ability"

var (
	// ErrInvalidAbilityPath is returned when an ability path names no ability.
	ErrInvalidAbilityPath = errors.New("invalid ability path")
	// ErrEmptyRollPath is returned when there is nothing to roll for.
	ErrEmptyRollPath = errors.New("nothing to roll")
)

// AbilityCheckResult is a plain d20 check with the ability's modifier.
type AbilityCheckResult struct {
	Ability  ability.Ability
	Modifier int
}

// Expression returns "1d20+<modifier>". The separator is always "+", so a
// negative modifier reads "1d20+-1".
func (r AbilityCheckResult) Expression() string {
	return fmt.Sprintf("1d20+%d", r.Modifier)
}

// IsAbilityPath reports whether path is routed to AbilityCheck.
//
// Postcondition: returns ErrEmptyRollPath for an empty path.
func IsAbilityPath(path []string) (bool, error) {
	if len(path) == 0 {
		return false, ErrEmptyRollPath
	}
	return path[0] == AbilityPathPrefix, nil
}

// AbilityCheck answers an "ability <name>" roll from the ability score alone.
// Effects are never consulted.
//
// Precondition: path[0] == AbilityPathPrefix.
func AbilityCheck(path []string, c *character.Character) (AbilityCheckResult, error) {
	if len(path) < 2 {
		return AbilityCheckResult{}, fmt.Errorf("%s: %w", strings.Join(path, " "), ErrInvalidAbilityPath)
	}
	a, ok := ability.Parse(path[1])
	if !ok {
		return AbilityCheckResult{}, fmt.Errorf("%s: %w", strings.Join(path, " "), ErrInvalidAbilityPath)
	}
	return AbilityCheckResult{Ability: a, Modifier: c.AbilityScore(a).Modifier()}, nil
}
