// Package roll resolves a character's effects against a requested roll path
// and aggregates the matching bonuses into a total.
package roll

import (
	"slices"

	"github.com/dgoetsch/dnd-cli/internal/game/character"
	"github.com/dgoetsch/dnd-cli/internal/game/dice"
	"github.com/dgoetsch/dnd-cli/internal/game/feature"
)

// Roller rolls a dice specification group by group. *dice.Roller satisfies it.
type Roller interface {
	RollAll(spec dice.Roll) []dice.RolledDice
}

// sourceRoller adapts a bare dice.Source to Roller.
type sourceRoller struct {
	src dice.Source
}

func (r sourceRoller) RollAll(spec dice.Roll) []dice.RolledDice { return dice.RollAll(spec, r.src) }

// EffectResult is one contribution to a roll.
type EffectResult struct {
	Path       []string          `json:"path"`
	RolledDice []dice.RolledDice `json:"rolled_dice"`
	Bonus      int               `json:"bonus"`
}

// Total returns Bonus plus every rolled face.
func (e EffectResult) Total() int {
	total := e.Bonus
	for _, rd := range e.RolledDice {
		total += rd.Sum()
	}
	return total
}

// Result is the outcome of Engine.Calculate.
//
// Invariant: Effects is sorted by Path.
type Result struct {
	Effects []EffectResult `json:"effects"`
}

// Total sums every effect.
func (r Result) Total() int {
	total := 0
	for _, e := range r.Effects {
		total += e.Total()
	}
	return total
}

// Engine computes roll results from a character's effects.
type Engine struct {
	roller Roller
}

// NewEngine returns an Engine that rolls dice bonuses through roller.
//
// Precondition: roller must be non-nil.
func NewEngine(roller Roller) *Engine {
	return &Engine{roller: roller}
}

// NewEngineFromSource returns an Engine rolling directly from src, unlogged.
func NewEngineFromSource(src dice.Source) *Engine {
	return &Engine{roller: sourceRoller{src: src}}
}

// Calculate resolves every effect of c whose scope matches path.
//
// Postcondition: at most one proficiency contribution is present, taken
// from the first matching proficiency effect in traversal order; Effects
// is stably sorted by path.
func (e *Engine) Calculate(path []string, c *character.Character) Result {
	var matched []feature.SourcedEffect
	for _, se := range c.AllEffects() {
		if se.Effect.Scope.Matches(path) {
			matched = append(matched, se)
		}
	}

	results := make([]EffectResult, 0, len(matched))
	var proficiency *EffectResult
	for _, se := range matched {
		bonus := se.Effect.Bonus
		switch bonus.Kind {
		case feature.BonusModifier:
			results = append(results, EffectResult{Path: se.Source, RolledDice: []dice.RolledDice{}, Bonus: bonus.Modifier})
		case feature.BonusRoll:
			results = append(results, EffectResult{Path: se.Source, RolledDice: e.roller.RollAll(bonus.Roll)})
		case feature.BonusAbility:
			results = append(results, EffectResult{
				Path:       append(slices.Clone(se.Source), bonus.Ability.String()),
				RolledDice: []dice.RolledDice{},
				Bonus:      c.AbilityScore(bonus.Ability).Modifier(),
			})
		case feature.BonusProficiency:
			if proficiency == nil {
				proficiency = &EffectResult{Path: se.Source, RolledDice: []dice.RolledDice{}, Bonus: c.ProficiencyBonus()}
			}
		}
	}
	if proficiency != nil {
		results = append(results, *proficiency)
	}

	slices.SortStableFunc(results, func(a, b EffectResult) int {
		return slices.Compare(a.Path, b.Path)
	})
	return Result{Effects: results}
}
