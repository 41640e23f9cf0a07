package ability

import (
	"encoding/json"
	"fmt"
)

// DefaultValue is the score assigned to an ability nobody has set.
const DefaultValue = 10

// Score is a raw ability score value.
type Score struct {
	Value int `json:"value"`
}

// DefaultScore returns a Score of DefaultValue.
func DefaultScore() Score {
	return Score{Value: DefaultValue}
}

// Of returns a Score holding value.
func Of(value int) Score {
	return Score{Value: value}
}

// Modifier returns the roll modifier derived from the score.
//
// Scores below 10 are shifted by one before halving so that odd scores round
// away from zero: 9 → -1, 8 → -1, 7 → -2. Scores of 10 and above halve
// directly: 11 → 0, 12 → 1.
func (s Score) Modifier() int {
	if s.Value < 10 {
		return (s.Value - 11) / 2
	}
	return (s.Value - 10) / 2
}

// Scores holds one Score per Ability.
type Scores struct {
	Strength     Score `json:"strength"`
	Dexterity    Score `json:"dexterity"`
	Constitution Score `json:"constitution"`
	Intelligence Score `json:"intelligence"`
	Wisdom       Score `json:"wisdom"`
	Charisma     Score `json:"charisma"`
}

// NewScores returns Scores with every ability at DefaultValue.
func NewScores() Scores {
	d := DefaultScore()
	return Scores{
		Strength:     d,
		Dexterity:    d,
		Constitution: d,
		Intelligence: d,
		Wisdom:       d,
		Charisma:     d,
	}
}

// Get returns the score for a.
func (s Scores) Get(a Ability) Score {
	switch a {
	case Strength:
		return s.Strength
	case Dexterity:
		return s.Dexterity
	case Constitution:
		return s.Constitution
	case Intelligence:
		return s.Intelligence
	case Wisdom:
		return s.Wisdom
	case Charisma:
		return s.Charisma
	}
	return DefaultScore()
}

// With returns a copy of s with a's score replaced. s itself is unchanged.
func (s Scores) With(a Ability, score Score) Scores {
	switch a {
	case Strength:
		s.Strength = score
	case Dexterity:
		s.Dexterity = score
	case Constitution:
		s.Constitution = score
	case Intelligence:
		s.Intelligence = score
	case Wisdom:
		s.Wisdom = score
	case Charisma:
		s.Charisma = score
	}
	return s
}

// UnmarshalJSON decodes the six scores; abilities absent from data default
// to DefaultValue.
func (s *Scores) UnmarshalJSON(data []byte) error {
	type plain Scores
	out := plain(NewScores())
	if err := json.Unmarshal(data, &out); err != nil {
		return fmt.Errorf("ability scores: %w", err)
	}
	*s = Scores(out)
	return nil
}
