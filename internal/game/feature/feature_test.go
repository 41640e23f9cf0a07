package feature_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/dgoetsch/dnd-cli/internal/game/ability"
	"github.com/dgoetsch/dnd-cli/internal/game/dice"
	"github.com/dgoetsch/dnd-cli/internal/game/feature"
)

func TestRollScope_Matches(t *testing.T) {
	scope := feature.PathScope("attack", "melee")

	assert.True(t, scope.Matches([]string{"attack", "melee"}))
	assert.True(t, scope.Matches([]string{"attack", "melee", "longsword"}))
	assert.False(t, scope.Matches([]string{"attack"}))
	assert.False(t, scope.Matches([]string{"attack", "ranged"}))
	assert.False(t, feature.RollScope{}.Matches([]string{"attack"}), "nil path matches nothing")
	assert.True(t, feature.PathScope().Matches([]string{"anything"}), "empty path matches everything")
}

func TestRollScope_Matches_PrefixProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		seg := rapid.SampledFrom([]string{"a", "b", "c"})
		path := rapid.SliceOfN(seg, 0, 5).Draw(rt, "path")
		n := rapid.IntRange(0, len(path)).Draw(rt, "n")

		assert.True(rt, feature.PathScope(path[:n]...).Matches(path))

		longer := append(append([]string{}, path...), "z")
		assert.False(rt, feature.PathScope(longer...).Matches(path))
	})
}

func TestPathScope_CopiesPrefix(t *testing.T) {
	prefix := []string{"attack"}
	scope := feature.PathScope(prefix...)
	prefix[0] = "save"
	assert.True(t, scope.Matches([]string{"attack"}))
}

func TestAllEffects_DepthFirstInNameOrder(t *testing.T) {
	plus1 := feature.Effect{Bonus: feature.Modifier(1), Scope: feature.PathScope("attack")}
	plus2 := feature.Effect{Bonus: feature.Modifier(2), Scope: feature.PathScope("attack")}
	prof := feature.Effect{Bonus: feature.Proficiency(), Scope: feature.PathScope("attack")}

	features := map[string]feature.Feature{
		"fighter": {
			Effects: []feature.Effect{plus1},
			Children: map[string]feature.Feature{
				"style":   {Effects: []feature.Effect{plus2}},
				"archery": {Effects: []feature.Effect{prof}},
			},
		},
		"blessed": {Effects: []feature.Effect{plus2}},
	}

	got := feature.AllEffects(features)
	require.Len(t, got, 4)
	assert.Equal(t, []string{"blessed"}, got[0].Source)
	assert.Equal(t, []string{"fighter"}, got[1].Source)
	assert.Equal(t, []string{"fighter", "archery"}, got[2].Source)
	assert.Equal(t, feature.BonusProficiency, got[2].Effect.Bonus.Kind)
	assert.Equal(t, []string{"fighter", "style"}, got[3].Source)
}

func TestRollBonus_JSON(t *testing.T) {
	cases := []struct {
		bonus feature.RollBonus
		json  string
	}{
		{feature.Modifier(2), `{"type":"Modifier","value":2}`},
		{feature.Modifier(-1), `{"type":"Modifier","value":-1}`},
		{feature.Proficiency(), `{"type":"Proficiency"}`},
		{feature.AbilityModifier(ability.Strength), `{"type":"Ability","value":"Strength"}`},
		{
			feature.ExtraRoll(dice.Roll{Dice: []dice.Dice{{Count: 1, Sides: 6}}}),
			`{"type":"Roll","value":{"dice":[{"count":1,"sides":6}]}}`,
		},
	}
	for _, tc := range cases {
		data, err := json.Marshal(tc.bonus)
		require.NoError(t, err)
		assert.JSONEq(t, tc.json, string(data))

		var back feature.RollBonus
		require.NoError(t, json.Unmarshal([]byte(tc.json), &back))
		assert.Equal(t, tc.bonus, back)
	}
}

func TestRollBonus_UnmarshalErrors(t *testing.T) {
	for _, in := range []string{`{"type":"Advantage"}`, `{"type":"Modifier","value":"x"}`, `[]`} {
		var b feature.RollBonus
		assert.Error(t, json.Unmarshal([]byte(in), &b), in)
	}
}

func TestRange_JSON(t *testing.T) {
	ranged := feature.Range{Kind: feature.RangeRanged, Normal: 80, Long: 320}
	data, err := json.Marshal(ranged)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"Ranged","value":{"normal":80,"long":320}}`, string(data))
	assert.Equal(t, "Ranged (80/320)", ranged.String())

	var melee feature.Range
	require.NoError(t, json.Unmarshal([]byte(`{"type":"Melee"}`), &melee))
	assert.Equal(t, feature.RangeMelee, melee.Kind)
	assert.Equal(t, "Melee", melee.String())

	assert.Error(t, json.Unmarshal([]byte(`{"type":"Ranged"}`), &melee))
}

func TestEffect_JSON(t *testing.T) {
	doc := `{"type":"Roll","bonus":{"type":"Modifier","value":1},
		"scope":{"path":["attack"],"ability":"Dexterity","range":{"type":"Melee"}}}`

	var e feature.Effect
	require.NoError(t, json.Unmarshal([]byte(doc), &e))
	assert.Equal(t, 1, e.Bonus.Modifier)
	require.NotNil(t, e.Scope.Ability)
	assert.Equal(t, ability.Dexterity, *e.Scope.Ability)
	require.NotNil(t, e.Scope.Range)
	assert.Equal(t, feature.RangeMelee, e.Scope.Range.Kind)

	data, err := json.Marshal(e)
	require.NoError(t, err)
	assert.JSONEq(t, doc, string(data))

	assert.Error(t, json.Unmarshal([]byte(`{"type":"Ability"}`), &e))
}

func TestFeature_JSON_Defaults(t *testing.T) {
	var f feature.Feature
	require.NoError(t, json.Unmarshal([]byte(`{"roll":{"dice":[{"count":1,"sides":10}]}}`), &f))
	require.NotNil(t, f.Roll)
	assert.Equal(t, "1d10", f.Roll.String())
	assert.Empty(t, f.Children)
	assert.Empty(t, f.Effects)
	assert.Empty(t, f.AllEffects([]string{"x"}))
}
