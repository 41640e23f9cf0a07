package feature

import (
	"encoding/json"
	"fmt"

	"github.com/dgoetsch/dnd-cli/internal/game/ability"
)

// RollScope selects the rolls an effect applies to.
//
// Ability and Range are descriptive; only Path takes part in matching.
type RollScope struct {
	Path    *[]string        `json:"path"`
	Ability *ability.Ability `json:"ability"`
	Range   *Range           `json:"range"`
}

// PathScope returns a scope matching every roll path that starts with prefix.
func PathScope(prefix ...string) RollScope {
	p := append([]string{}, prefix...)
	return RollScope{Path: &p}
}

// Matches reports whether the scope path is set and is a prefix of path.
// An empty scope path matches every roll.
func (s RollScope) Matches(path []string) bool {
	if s.Path == nil {
		return false
	}
	prefix := *s.Path
	if len(prefix) > len(path) {
		return false
	}
	for i, seg := range prefix {
		if path[i] != seg {
			return false
		}
	}
	return true
}

// RangeKind tags the variant of a Range.
type RangeKind string

const (
	RangeMelee  RangeKind = "Melee"
	RangeRanged RangeKind = "Ranged"
)

// Range is the reach of an attack. Normal and Long apply to RangeRanged only.
type Range struct {
	Kind   RangeKind
	Normal int
	Long   int
}

func (r Range) String() string {
	if r.Kind == RangeRanged {
		return fmt.Sprintf("Ranged (%d/%d)", r.Normal, r.Long)
	}
	return string(r.Kind)
}

type rangeValue struct {
	Normal int `json:"normal"`
	Long   int `json:"long"`
}

type rangeJSON struct {
	Type  RangeKind   `json:"type"`
	Value *rangeValue `json:"value,omitempty"`
}

// MarshalJSON writes {"type":"Melee"} or {"type":"Ranged","value":{"normal":N,"long":M}}.
func (r Range) MarshalJSON() ([]byte, error) {
	switch r.Kind {
	case RangeMelee:
		return json.Marshal(rangeJSON{Type: RangeMelee})
	case RangeRanged:
		return json.Marshal(rangeJSON{Type: RangeRanged, Value: &rangeValue{Normal: r.Normal, Long: r.Long}})
	}
	return nil, fmt.Errorf("range: unknown type %q", r.Kind)
}

func (r *Range) UnmarshalJSON(data []byte) error {
	var raw rangeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("range: %w", err)
	}
	switch raw.Type {
	case RangeMelee:
		*r = Range{Kind: RangeMelee}
	case RangeRanged:
		if raw.Value == nil {
			return fmt.Errorf("range: Ranged requires a value")
		}
		*r = Range{Kind: RangeRanged, Normal: raw.Value.Normal, Long: raw.Value.Long}
	default:
		return fmt.Errorf("range: unknown type %q", raw.Type)
	}
	return nil
}
