// Package dice provides the randomness abstraction, dice specifications and
// roll-result types used by the roll engine and the ad-hoc dice command.
package dice

import (
	"fmt"
	"strings"
)

// Dice is a group of Count dice with Sides faces each, e.g. 2d6.
type Dice struct {
	Count int `json:"count"`
	Sides int `json:"sides"`
}

// String returns the conventional "<count>d<sides>" form.
func (d Dice) String() string {
	return fmt.Sprintf("%dd%d", d.Count, d.Sides)
}

// Roll is a dice specification made of one or more groups, e.g. 1d8 + 2d6.
type Roll struct {
	Dice []Dice `json:"dice"`
}

// String joins the groups with " + ".
func (r Roll) String() string {
	parts := make([]string, len(r.Dice))
	for i, d := range r.Dice {
		parts[i] = d.String()
	}
	return strings.Join(parts, " + ")
}

// RolledDice is a Dice group together with the realised face of every die.
//
// Invariant: each entry of Results is in [1, Dice.Sides].
type RolledDice struct {
	Dice    Dice  `json:"dice"`
	Results []int `json:"results"`
}

// Sum returns the sum of all results.
func (r RolledDice) Sum() int {
	total := 0
	for _, v := range r.Results {
		total += v
	}
	return total
}

// Bounds on a single dice group. Parse rejects groups outside them and
// RollDice rolls nothing for them.
const (
	MaxDiceCount = 1000
	MaxDiceSides = 1000
)

// InRange reports whether d can be rolled: 0 <= Count <= MaxDiceCount and
// 1 <= Sides <= MaxDiceSides.
func (d Dice) InRange() bool {
	return d.Count >= 0 && d.Count <= MaxDiceCount && d.Sides >= 1 && d.Sides <= MaxDiceSides
}

// RollDice rolls every die of d independently and uniformly in [1, d.Sides].
//
// Precondition: src must be non-nil.
// Postcondition: len(result.Results) == d.Count when d.InRange(), otherwise
// the group yields no results.
func RollDice(d Dice, src Source) RolledDice {
	if !d.InRange() {
		return RolledDice{Dice: d, Results: []int{}}
	}
	results := make([]int, 0, d.Count)
	for i := 0; i < d.Count; i++ {
		results = append(results, src.Intn(d.Sides)+1)
	}
	return RolledDice{Dice: d, Results: results}
}

// RollAll rolls every group of r in order.
//
// Postcondition: len(result) == len(r.Dice) and result[i].Dice == r.Dice[i].
func RollAll(r Roll, src Source) []RolledDice {
	out := make([]RolledDice, len(r.Dice))
	for i, d := range r.Dice {
		out[i] = RollDice(d, src)
	}
	return out
}

// RollResult holds the full audit trail for a single dice expression evaluation.
//
// Postcondition: Total() == sum(Dice) + Modifier.
type RollResult struct {
	Expression string // original expression string, e.g. "2d6+3"
	Dice       []int  // individual die results before modifier
	Modifier   int    // flat modifier (may be negative)
}

// Total returns the sum of all die results plus the modifier.
//
// Postcondition: return value == sum(r.Dice) + r.Modifier.
func (r RollResult) Total() int {
	total := r.Modifier
	for _, d := range r.Dice {
		total += d
	}
	return total
}

// String returns a human-readable audit string in the format:
//
//	"2d6+3 → [4 5] +3 = 12"
//
// Precondition: r.Expression is non-empty.
func (r RollResult) String() string {
	if r.Expression == "" {
		panic("dice: RollResult.String() precondition violated: Expression must be non-empty")
	}
	diceStr := fmt.Sprintf("%v", r.Dice)
	modStr := fmt.Sprintf("%+d", r.Modifier)
	return fmt.Sprintf("%s → %s %s = %d", r.Expression, diceStr, modStr, r.Total())
}

// Source is the randomness provider for dice rolls.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}
