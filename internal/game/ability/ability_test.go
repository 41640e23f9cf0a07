package ability_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/dgoetsch/dnd-cli/internal/game/ability"
)

func TestScore_Modifier_Table(t *testing.T) {
	table := map[int]int{
		4: -3, 5: -3, 6: -2, 7: -2, 8: -1, 9: -1,
		10: 0, 11: 0, 12: 1, 13: 1, 14: 2, 15: 2,
		16: 3, 17: 3, 18: 4, 19: 4, 20: 5, 21: 5,
		22: 6, 23: 6,
	}
	for value, want := range table {
		assert.Equal(t, want, ability.Of(value).Modifier(), "modifier for score %d", value)
	}
}

// TestScore_Modifier_Monotonic verifies a higher score never yields a lower modifier.
func TestScore_Modifier_Monotonic(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		v := rapid.IntRange(-30, 60).Draw(rt, "value")
		lo := ability.Of(v).Modifier()
		hi := ability.Of(v + 1).Modifier()
		assert.GreaterOrEqual(rt, hi, lo)
		assert.LessOrEqual(rt, hi-lo, 1)
	})
}

func TestDefaultScore(t *testing.T) {
	assert.Equal(t, 10, ability.DefaultScore().Value)
	assert.Equal(t, 0, ability.DefaultScore().Modifier())
}

func TestParse(t *testing.T) {
	cases := map[string]ability.Ability{
		"strength": ability.Strength,
		"STR":      ability.Strength,
		"Dex":      ability.Dexterity,
		"con":      ability.Constitution,
		"int":      ability.Intelligence,
		"Wisdom":   ability.Wisdom,
		"cha":      ability.Charisma,
	}
	for in, want := range cases {
		got, ok := ability.Parse(in)
		require.True(t, ok, "Parse(%q)", in)
		assert.Equal(t, want, got)
	}

	_, ok := ability.Parse("luck")
	assert.False(t, ok)
}

func TestAbility_String(t *testing.T) {
	assert.Equal(t, "Dexterity", ability.Dexterity.String())
	assert.Equal(t, "CHA", ability.Charisma.Abbreviation())
}

func TestScores_With_ReturnsCopy(t *testing.T) {
	orig := ability.NewScores()
	updated := orig.With(ability.Wisdom, ability.Of(16))

	assert.Equal(t, 16, updated.Get(ability.Wisdom).Value)
	assert.Equal(t, 10, orig.Get(ability.Wisdom).Value, "receiver must be unchanged")
	for _, a := range ability.All {
		if a != ability.Wisdom {
			assert.Equal(t, 10, updated.Get(a).Value, "%s must be untouched", a)
		}
	}
}

func TestScores_UnmarshalJSON_DefaultsMissing(t *testing.T) {
	var s ability.Scores
	require.NoError(t, json.Unmarshal([]byte(`{"strength":{"value":18}}`), &s))

	assert.Equal(t, 18, s.Strength.Value)
	assert.Equal(t, 10, s.Dexterity.Value)
	assert.Equal(t, 10, s.Charisma.Value)
}

func TestAbility_JSON(t *testing.T) {
	data, err := json.Marshal(ability.Intelligence)
	require.NoError(t, err)
	assert.JSONEq(t, `"Intelligence"`, string(data))

	var a ability.Ability
	require.NoError(t, json.Unmarshal([]byte(`"wis"`), &a))
	assert.Equal(t, ability.Wisdom, a)

	assert.Error(t, json.Unmarshal([]byte(`"luck"`), &a))
}
