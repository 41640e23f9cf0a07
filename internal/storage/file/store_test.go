package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgoetsch/dnd-cli/internal/game/ability"
	"github.com/dgoetsch/dnd-cli/internal/game/hitpoints"
	"github.com/dgoetsch/dnd-cli/internal/game/inventory"
	"github.com/dgoetsch/dnd-cli/internal/storage"
	"github.com/dgoetsch/dnd-cli/internal/storage/file"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadCharacter_NotFound(t *testing.T) {
	s := file.NewStore(t.TempDir(), nil)
	_, err := s.LoadCharacter(context.Background(), "nobody")
	assert.ErrorIs(t, err, storage.ErrCharacterNotFound)
}

func TestLoadCharacter_UnsafeName(t *testing.T) {
	s := file.NewStore(t.TempDir(), nil)
	_, err := s.LoadCharacter(context.Background(), "../etc/passwd")
	assert.ErrorIs(t, err, storage.ErrUnsafeName)
}

func TestLoadCharacter_DocumentOnly(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "characters", "mira.json"), `{
		"ability_scores": {"dexterity": {"value": 16}},
		"inventory": {"items": {"rope": {"type": "Object", "count": 1}}},
		"hit_points": {"current": 9, "max": 9, "temporary": 0}
	}`)

	c, err := file.NewStore(root, nil).LoadCharacter(context.Background(), "mira")
	require.NoError(t, err)
	assert.Equal(t, 16, c.AbilityScore(ability.Dexterity).Value)
	assert.Equal(t, 1, c.Inventory.Items["rope"].Count)
	assert.Equal(t, 9, c.HitPoints.Current())
}

func TestLoadCharacter_OverridesWin(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "characters", "mira.json"), `{
		"inventory": {"items": {"rope": {"type": "Object", "count": 1}}},
		"hit_points": {"current": 9, "max": 9, "temporary": 0}
	}`)
	writeFile(t, filepath.Join(root, "inventory", "mira", "pack", "torch"), "3\n")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "inventory", "mira", "pouch"), 0o755))
	writeFile(t, filepath.Join(root, "hit_points", "mira.json"), `{"current":4,"max":9,"temporary":2}`)

	c, err := file.NewStore(root, nil).LoadCharacter(context.Background(), "mira")
	require.NoError(t, err)

	_, hasRope := c.Inventory.Get([]string{"rope"})
	assert.False(t, hasRope, "mirror replaces the embedded inventory")
	torch, ok := c.Inventory.Get([]string{"pack", "torch"})
	require.True(t, ok)
	assert.Equal(t, 3, torch.Count)
	pouch, ok := c.Inventory.Get([]string{"pouch"})
	require.True(t, ok)
	assert.True(t, pouch.IsContainer())
	assert.Equal(t, 4, c.HitPoints.Current())
	assert.Equal(t, 2, c.HitPoints.Temporary())
}

func TestLoadCharacter_BadMirrorCount(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "characters", "mira.json"), `{}`)
	writeFile(t, filepath.Join(root, "inventory", "mira", "rope"), "lots")

	_, err := file.NewStore(root, nil).LoadCharacter(context.Background(), "mira")
	assert.Error(t, err)
}

func TestLoadCharacter_WithTemplate(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "templates", "default.yaml"), `
ability_scores:
  wisdom:
    value: 13
classes:
  - name: commoner
    level: 1
`)
	writeFile(t, filepath.Join(root, "characters", "mira.json"), `{"ability_scores":{"strength":{"value":8}}}`)

	tmpl, err := file.LoadTemplate(root, "default")
	require.NoError(t, err)
	require.NotNil(t, tmpl)

	c, err := file.NewStore(root, tmpl).LoadCharacter(context.Background(), "mira")
	require.NoError(t, err)
	assert.Equal(t, 8, c.AbilityScore(ability.Strength).Value)
	assert.Equal(t, 13, c.AbilityScore(ability.Wisdom).Value)
	assert.Equal(t, 1, c.TotalLevel())
}

func TestLoadTemplate_MissingOrDisabled(t *testing.T) {
	root := t.TempDir()
	tmpl, err := file.LoadTemplate(root, "default")
	require.NoError(t, err)
	assert.Nil(t, tmpl)

	tmpl, err = file.LoadTemplate(root, "")
	require.NoError(t, err)
	assert.Nil(t, tmpl)

	_, err = file.LoadTemplate(root, "../x")
	assert.ErrorIs(t, err, storage.ErrUnsafeName)
}

func TestLoadTemplate_Malformed(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "templates", "bad.yaml"), "a: [b")
	_, err := file.LoadTemplate(root, "bad")
	assert.Error(t, err)
}

func TestSaveInventory_RoundTrip(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "characters", "mira.json"), `{}`)
	s := file.NewStore(root, nil)
	ctx := context.Background()

	inv := inventory.New()
	require.True(t, inv.AddContainer([]string{"pack"}).OK())
	require.True(t, inv.AddContainer([]string{"pack", "empty"}).OK())
	require.True(t, inv.AddItem([]string{"pack", "rope"}, 2).OK())
	require.True(t, inv.AddItem([]string{"gold"}, 30).OK())
	require.NoError(t, s.SaveInventory(ctx, "mira", inv))

	data, err := os.ReadFile(filepath.Join(root, "inventory", "mira", "pack", "rope"))
	require.NoError(t, err)
	assert.Equal(t, "2\n", string(data))

	c, err := s.LoadCharacter(ctx, "mira")
	require.NoError(t, err)
	assert.Equal(t, inv, c.Inventory)

	// A second save replaces the mirror entirely.
	smaller := inventory.New()
	require.True(t, smaller.AddItem([]string{"gold"}, 1).OK())
	require.NoError(t, s.SaveInventory(ctx, "mira", smaller))
	c, err = s.LoadCharacter(ctx, "mira")
	require.NoError(t, err)
	assert.Equal(t, smaller, c.Inventory)

	entries, err := os.ReadDir(filepath.Join(root, "inventory"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp directories left behind")
}

func TestSaveInventory_UnsafeItemNameKeepsOldMirror(t *testing.T) {
	root := t.TempDir()
	s := file.NewStore(root, nil)
	ctx := context.Background()

	good := inventory.New()
	require.True(t, good.AddItem([]string{"rope"}, 1).OK())
	require.NoError(t, s.SaveInventory(ctx, "mira", good))

	bad := inventory.New()
	require.True(t, bad.AddItem([]string{"a/b"}, 1).OK())
	assert.ErrorIs(t, s.SaveInventory(ctx, "mira", bad), storage.ErrUnsafeName)

	_, err := os.Stat(filepath.Join(root, "inventory", "mira", "rope"))
	assert.NoError(t, err)
}

func TestSaveHitPoints(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "characters", "mira.json"), `{"hit_points":{"current":1,"max":1,"temporary":0}}`)
	s := file.NewStore(root, nil)
	ctx := context.Background()

	require.NoError(t, s.SaveHitPoints(ctx, "mira", hitpoints.New(7, 12, 3)))
	c, err := s.LoadCharacter(ctx, "mira")
	require.NoError(t, err)
	assert.Equal(t, hitpoints.New(7, 12, 3), c.HitPoints)
}

func TestSaveCharacter_RoundTrip(t *testing.T) {
	root := t.TempDir()
	s := file.NewStore(root, nil)
	ctx := context.Background()

	c, err := storage.DecodeCharacter([]byte(`{
		"ability_scores": {"charisma": {"value": 18}},
		"classes": [{"name": "bard", "level": 2}],
		"inventory": {"items": {"lute": {"type": "Object", "count": 1}}},
		"hit_points": {"current": 11, "max": 13, "temporary": 0}
	}`), nil)
	require.NoError(t, err)
	require.NoError(t, s.SaveCharacter(ctx, "pip", c))

	back, err := s.LoadCharacter(ctx, "pip")
	require.NoError(t, err)
	assert.Equal(t, 18, back.AbilityScore(ability.Charisma).Value)
	assert.Equal(t, c.Inventory, back.Inventory)
	assert.Equal(t, c.HitPoints, back.HitPoints)
	assert.Equal(t, c.Classes, back.Classes)
}
