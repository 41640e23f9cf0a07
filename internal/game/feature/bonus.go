package feature

import (
	"encoding/json"
	"fmt"

	"github.com/dgoetsch/dnd-cli/internal/game/ability"
	"github.com/dgoetsch/dnd-cli/internal/game/dice"
)

// BonusKind tags the variant of a RollBonus.
type BonusKind string

const (
	BonusModifier    BonusKind = "Modifier"
	BonusRoll        BonusKind = "Roll"
	BonusProficiency BonusKind = "Proficiency"
	BonusAbility     BonusKind = "Ability"
)

// RollBonus is what an effect adds to a matching roll. Only the field that
// belongs to Kind is meaningful.
type RollBonus struct {
	Kind     BonusKind
	Modifier int
	Roll     dice.Roll
	Ability  ability.Ability
}

// Modifier returns a flat bonus of m.
func Modifier(m int) RollBonus { return RollBonus{Kind: BonusModifier, Modifier: m} }

// ExtraRoll returns a bonus that rolls r and adds the faces.
func ExtraRoll(r dice.Roll) RollBonus { return RollBonus{Kind: BonusRoll, Roll: r} }

// Proficiency returns the bonus that adds the character's proficiency bonus.
func Proficiency() RollBonus { return RollBonus{Kind: BonusProficiency} }

// AbilityModifier returns a bonus that adds the modifier of a.
func AbilityModifier(a ability.Ability) RollBonus { return RollBonus{Kind: BonusAbility, Ability: a} }

func (b RollBonus) String() string {
	switch b.Kind {
	case BonusModifier:
		return fmt.Sprintf("%+d", b.Modifier)
	case BonusRoll:
		return b.Roll.String()
	case BonusProficiency:
		return "Proficiency"
	case BonusAbility:
		return b.Ability.String()
	}
	return string(b.Kind)
}

type bonusJSON struct {
	Type  BonusKind       `json:"type"`
	Value json.RawMessage `json:"value,omitempty"`
}

// MarshalJSON writes the adjacently tagged form, e.g. {"type":"Modifier","value":2}.
func (b RollBonus) MarshalJSON() ([]byte, error) {
	var value any
	switch b.Kind {
	case BonusModifier:
		value = b.Modifier
	case BonusRoll:
		value = b.Roll
	case BonusAbility:
		value = b.Ability
	case BonusProficiency:
		return json.Marshal(bonusJSON{Type: BonusProficiency})
	default:
		return nil, fmt.Errorf("roll bonus: unknown type %q", b.Kind)
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("roll bonus %s: %w", b.Kind, err)
	}
	return json.Marshal(bonusJSON{Type: b.Kind, Value: raw})
}

// UnmarshalJSON reads the adjacently tagged form.
func (b *RollBonus) UnmarshalJSON(data []byte) error {
	var raw bonusJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("roll bonus: %w", err)
	}
	out := RollBonus{Kind: raw.Type}
	var err error
	switch raw.Type {
	case BonusModifier:
		err = json.Unmarshal(raw.Value, &out.Modifier)
	case BonusRoll:
		err = json.Unmarshal(raw.Value, &out.Roll)
	case BonusAbility:
		err = json.Unmarshal(raw.Value, &out.Ability)
	case BonusProficiency:
	default:
		return fmt.Errorf("roll bonus: unknown type %q", raw.Type)
	}
	if err != nil {
		return fmt.Errorf("roll bonus %s: %w", raw.Type, err)
	}
	*b = out
	return nil
}
