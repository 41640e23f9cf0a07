// Package ability defines the six core abilities, their scores and the
// modifiers derived from them.
package ability

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Ability identifies one of the six core attributes.
type Ability int

const (
	Strength Ability = iota
	Dexterity
	Constitution
	Intelligence
	Wisdom
	Charisma
)

// All lists every Ability in canonical sheet order.
var All = []Ability{Strength, Dexterity, Constitution, Intelligence, Wisdom, Charisma}

var names = map[Ability]string{
	Strength:     "Strength",
	Dexterity:    "Dexterity",
	Constitution: "Constitution",
	Intelligence: "Intelligence",
	Wisdom:       "Wisdom",
	Charisma:     "Charisma",
}

var lookup = map[string]Ability{
	"strength": Strength, "str": Strength,
	"dexterity": Dexterity, "dex": Dexterity,
	"constitution": Constitution, "con": Constitution,
	"intelligence": Intelligence, "int": Intelligence,
	"wisdom": Wisdom, "wis": Wisdom,
	"charisma": Charisma, "cha": Charisma,
}

// Parse resolves a full ability name or its three-letter abbreviation,
// ignoring case.
//
// Postcondition: ok is false iff s names no ability.
func Parse(s string) (Ability, bool) {
	a, ok := lookup[strings.ToLower(strings.TrimSpace(s))]
	return a, ok
}

// String returns the capitalised ability name, e.g. "Dexterity".
func (a Ability) String() string {
	if n, ok := names[a]; ok {
		return n
	}
	return fmt.Sprintf("Ability(%d)", int(a))
}

// Abbreviation returns the three-letter label, e.g. "DEX".
func (a Ability) Abbreviation() string {
	return strings.ToUpper(a.String()[:3])
}

// MarshalJSON encodes the ability as its capitalised name.
func (a Ability) MarshalJSON() ([]byte, error) {
	n, ok := names[a]
	if !ok {
		return nil, fmt.Errorf("ability: cannot marshal unknown ability %d", int(a))
	}
	return json.Marshal(n)
}

// UnmarshalJSON accepts any spelling Parse accepts.
func (a *Ability) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("ability: %w", err)
	}
	parsed, ok := Parse(s)
	if !ok {
		return fmt.Errorf("ability: unknown ability %q", s)
	}
	*a = parsed
	return nil
}
