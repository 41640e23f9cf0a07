package inventory_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/dgoetsch/dnd-cli/internal/game/inventory"
)

func TestAddItem_EmptyPathIsInvalid(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		inv := inventory.New()
		n := rapid.IntRange(-100, 100).Draw(rt, "n")
		out := inv.AddItem(nil, n)
		assert.Equal(rt, inventory.InvalidPath, out.Kind)
		assert.Empty(rt, inv.Items)
		assert.ErrorIs(rt, out.Err(), inventory.ErrInvalidPath)
	})
}

func TestAddItem_CreatesAndUsesRope(t *testing.T) {
	inv := inventory.New()

	out := inv.AddItem([]string{"rope"}, 1)
	require.True(t, out.OK())
	assert.Equal(t, 1, out.Requested)
	assert.Equal(t, 1, out.Available)

	out = inv.AddItem([]string{"rope"}, -2)
	assert.Equal(t, inventory.InsufficientInventory, out.Kind)
	assert.Equal(t, -2, out.Requested)
	assert.Equal(t, 1, out.Available)
	assert.Equal(t, 1, inv.Items["rope"].Count, "failed removal must not mutate")
	assert.ErrorIs(t, out.Err(), inventory.ErrInsufficientInventory)

	out = inv.AddItem([]string{"rope"}, -1)
	require.True(t, out.OK())
	assert.Equal(t, 0, out.Available)
	item, ok := inv.Get([]string{"rope"})
	require.True(t, ok, "zero-count objects are kept by default")
	assert.Equal(t, 0, item.Count)
}

func TestAddItem_AbsentObjectTakesAnySign(t *testing.T) {
	inv := inventory.New()
	out := inv.AddItem([]string{"debt"}, -3)
	require.True(t, out.OK())
	assert.Equal(t, -3, out.Available)
	assert.Equal(t, -3, inv.Items["debt"].Count)
}

func TestAddItem_MissingParent(t *testing.T) {
	inv := inventory.New()
	out := inv.AddItem([]string{"bag", "rope"}, 1)
	assert.Equal(t, inventory.ContainerDoesNotExistFor, out.Kind)
	assert.Equal(t, []string{"bag", "rope"}, out.Path)
	assert.Empty(t, inv.Items)
	assert.ErrorIs(t, out.Err(), inventory.ErrContainerDoesNotExist)
}

func TestAddItem_ObjectAtSubpath(t *testing.T) {
	inv := inventory.New()
	require.True(t, inv.AddItem([]string{"rope"}, 1).OK())

	out := inv.AddItem([]string{"rope", "knot"}, 1)
	assert.Equal(t, inventory.ObjectAtSubpath, out.Kind)
	assert.ErrorIs(t, out.Err(), inventory.ErrObjectAtSubpath)
}

func TestAddItem_ContainerTarget(t *testing.T) {
	inv := inventory.New()
	require.True(t, inv.AddContainer([]string{"bag"}).OK())

	out := inv.AddItem([]string{"bag"}, 1)
	assert.Equal(t, inventory.CannotAddOrRemoveContainer, out.Kind)
	assert.ErrorIs(t, out.Err(), inventory.ErrCannotAddOrRemoveContainer)
}

func TestAddItem_NestedCreation(t *testing.T) {
	inv := inventory.New()
	require.True(t, inv.AddContainer([]string{"bag"}).OK())
	require.True(t, inv.AddContainer([]string{"bag", "pouch"}).OK())

	out := inv.AddItem([]string{"bag", "pouch", "gold"}, 25)
	require.True(t, out.OK())
	assert.Equal(t, []string{"bag", "pouch", "gold"}, out.Path)

	gold, ok := inv.Get([]string{"bag", "pouch", "gold"})
	require.True(t, ok)
	assert.Equal(t, 25, gold.Count)
}

func TestAddItem_PruneEmpty(t *testing.T) {
	inv := inventory.New()
	require.True(t, inv.AddItem([]string{"torch"}, 2).OK())

	out := inv.AddItem([]string{"torch"}, -2, inventory.WithPruneEmpty())
	require.True(t, out.OK())
	assert.Equal(t, 0, out.Available)
	_, ok := inv.Get([]string{"torch"})
	assert.False(t, ok, "pruned object must be removed")

	out = inv.AddItem([]string{"ghost"}, 0, inventory.WithPruning(true))
	assert.True(t, out.OK())
	_, ok = inv.Get([]string{"ghost"})
	assert.False(t, ok)

	out = inv.AddItem([]string{"ghost"}, 0, inventory.WithPruning(false))
	assert.True(t, out.OK())
	_, ok = inv.Get([]string{"ghost"})
	assert.True(t, ok)
}

func TestItem_AddItem(t *testing.T) {
	obj := inventory.NewObject(3)
	out := obj.AddItem(nil, 2)
	require.True(t, out.OK())
	assert.Equal(t, 5, obj.Count)

	assert.Equal(t, inventory.ObjectAtSubpath, obj.AddItem([]string{"x"}, 1).Kind)

	bag := inventory.NewContainer()
	assert.Equal(t, inventory.CannotAddOrRemoveContainer, bag.AddItem(nil, 1).Kind)
	require.True(t, bag.AddItem([]string{"coin"}, 4).OK())
	assert.Equal(t, 4, bag.Items["coin"].Count)
}

func TestAddContainer(t *testing.T) {
	inv := inventory.New()

	assert.Equal(t, inventory.PathIsEmpty, inv.AddContainer(nil).Kind)
	require.True(t, inv.AddContainer([]string{"bag"}).OK())

	out := inv.AddContainer([]string{"bag"})
	assert.Equal(t, inventory.Collision, out.Kind)
	assert.ErrorIs(t, out.Err(), inventory.ErrCollision)

	assert.Equal(t, inventory.NoSuchParent, inv.AddContainer([]string{"chest", "tray"}).Kind)

	require.True(t, inv.AddItem([]string{"rope"}, 1).OK())
	assert.Equal(t, inventory.Collision, inv.AddContainer([]string{"rope"}).Kind)
	assert.Equal(t, inventory.ExpectedContainer, inv.AddContainer([]string{"rope", "coil"}).Kind)
}

func TestRemoveContainer(t *testing.T) {
	inv := inventory.New()
	require.True(t, inv.AddContainer([]string{"bag"}).OK())
	require.True(t, inv.AddContainer([]string{"bag", "pouch"}).OK())
	require.True(t, inv.AddItem([]string{"rope"}, 1).OK())

	assert.Equal(t, inventory.PathIsEmpty, inv.RemoveContainer(nil).Kind)
	assert.Equal(t, inventory.NoSuchContainer, inv.RemoveContainer([]string{"chest"}).Kind)
	assert.Equal(t, inventory.NoSuchParent, inv.RemoveContainer([]string{"chest", "tray"}).Kind)
	assert.Equal(t, inventory.ExpectedContainer, inv.RemoveContainer([]string{"rope"}).Kind)
	assert.Equal(t, inventory.ExpectedContainer, inv.RemoveContainer([]string{"rope", "x"}).Kind)

	out := inv.RemoveContainer([]string{"bag"})
	assert.Equal(t, inventory.ContainerNotEmpty, out.Kind)
	assert.ErrorIs(t, out.Err(), inventory.ErrContainerNotEmpty)

	require.True(t, inv.RemoveContainer([]string{"bag", "pouch"}).OK())
	require.True(t, inv.RemoveContainer([]string{"bag"}).OK())
	_, ok := inv.Get([]string{"bag"})
	assert.False(t, ok)
}

func TestGet(t *testing.T) {
	inv := inventory.New()
	require.True(t, inv.AddContainer([]string{"bag"}).OK())
	require.True(t, inv.AddItem([]string{"bag", "rope"}, 2).OK())

	_, ok := inv.Get(nil)
	assert.False(t, ok)
	_, ok = inv.Get([]string{"bag", "rope", "knot"})
	assert.False(t, ok)
	bag, ok := inv.Get([]string{"bag"})
	require.True(t, ok)
	assert.True(t, bag.IsContainer())
	assert.Equal(t, []string{"rope"}, bag.Names())
}

func TestOutcome_ErrNilOnSuccess(t *testing.T) {
	assert.NoError(t, inventory.AddItemOutcome{Kind: inventory.Success}.Err())
	assert.NoError(t, inventory.ContainerOutcome{Kind: inventory.ContainerCreated}.Err())
	assert.NoError(t, inventory.ContainerOutcome{Kind: inventory.ContainerRemoved}.Err())

	err := inventory.ContainerOutcome{Kind: inventory.NoSuchParent, Path: []string{"a", "b"}}.Err()
	assert.True(t, errors.Is(err, inventory.ErrNoSuchParent))
	assert.Contains(t, err.Error(), "a / b")
}

// genInventory builds a random tree using only the public operations.
func genInventory(rt *rapid.T) inventory.Inventory {
	inv := inventory.New()
	names := []string{"a", "b", "c"}
	steps := rapid.IntRange(0, 20).Draw(rt, "steps")
	for i := 0; i < steps; i++ {
		path := rapid.SliceOfN(rapid.SampledFrom(names), 1, 3).Draw(rt, "path")
		if rapid.Bool().Draw(rt, "container") {
			inv.AddContainer(path)
		} else {
			inv.AddItem(path, rapid.IntRange(0, 5).Draw(rt, "count"))
		}
	}
	return inv
}

func TestAddItem_FailureNeverMutates(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		inv := genInventory(rt)
		before, err := json.Marshal(inv)
		require.NoError(rt, err)

		path := rapid.SliceOfN(rapid.SampledFrom([]string{"a", "b", "c", "d"}), 0, 4).Draw(rt, "path")
		delta := rapid.IntRange(-10, 10).Draw(rt, "delta")
		prune := rapid.Bool().Draw(rt, "prune")

		out := inv.AddItem(path, delta, inventory.WithPruning(prune))
		if out.OK() {
			return
		}
		after, err := json.Marshal(inv)
		require.NoError(rt, err)
		assert.JSONEq(rt, string(before), string(after), "outcome %s mutated the tree", out.Kind)
	})
}

func TestContainerOps_FailureNeverMutates(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		inv := genInventory(rt)
		before, err := json.Marshal(inv)
		require.NoError(rt, err)

		path := rapid.SliceOfN(rapid.SampledFrom([]string{"a", "b", "c", "d"}), 0, 4).Draw(rt, "path")
		var out inventory.ContainerOutcome
		if rapid.Bool().Draw(rt, "remove") {
			out = inv.RemoveContainer(path)
		} else {
			out = inv.AddContainer(path)
		}
		if out.OK() {
			return
		}
		after, err := json.Marshal(inv)
		require.NoError(rt, err)
		assert.JSONEq(rt, string(before), string(after))
	})
}

func TestInventory_JSON(t *testing.T) {
	inv := inventory.New()
	require.True(t, inv.AddContainer([]string{"bag"}).OK())
	require.True(t, inv.AddContainer([]string{"bag", "empty"}).OK())
	require.True(t, inv.AddItem([]string{"bag", "rope"}, 2).OK())

	data, err := json.Marshal(inv)
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":{"bag":{"type":"Container","items":{
		"empty":{"type":"Container","items":{}},
		"rope":{"type":"Object","count":2}}}}}`, string(data))

	var back inventory.Inventory
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, inv, back)
}

func TestInventory_JSON_NilItems(t *testing.T) {
	data, err := json.Marshal(inventory.Inventory{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":{}}`, string(data))
}

func TestInventory_UnmarshalRejectsNullEntries(t *testing.T) {
	for name, doc := range map[string]string{
		"top level": `{"items":{"rope":null}}`,
		"nested":    `{"items":{"bag":{"type":"Container","items":{"rope":null}}}}`,
	} {
		t.Run(name, func(t *testing.T) {
			var inv inventory.Inventory
			err := json.Unmarshal([]byte(doc), &inv)
			require.Error(t, err)
			assert.Contains(t, err.Error(), `"rope": null entry`)
		})
	}
}

func TestInventory_UnmarshalMissingItems(t *testing.T) {
	var inv inventory.Inventory
	require.NoError(t, json.Unmarshal([]byte(`{}`), &inv))
	assert.NotNil(t, inv.Items)
	assert.True(t, inv.AddItem([]string{"rope"}, 1).OK())
}

func TestItem_UnmarshalUnknownType(t *testing.T) {
	var item inventory.Item
	assert.Error(t, json.Unmarshal([]byte(`{"type":"Sword"}`), &item))
}

func TestClone_IsDeep(t *testing.T) {
	inv := inventory.New()
	require.True(t, inv.AddContainer([]string{"bag"}).OK())
	require.True(t, inv.AddItem([]string{"bag", "rope"}, 1).OK())

	c := inv.Clone()
	require.True(t, c.AddItem([]string{"bag", "rope"}, 5).OK())
	rope, _ := inv.Get([]string{"bag", "rope"})
	assert.Equal(t, 1, rope.Count)
}
