// Package inventory implements the character inventory: a tree of named
// containers and countable objects addressed by path.
package inventory

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
)

// Kind tags an Item as an Object or a Container.
type Kind string

const (
	KindObject    Kind = "Object"
	KindContainer Kind = "Container"
)

// Item is a node of the inventory tree.
//
// Invariant: Items is non-nil iff Kind == KindContainer; Count is meaningful
// only when Kind == KindObject.
type Item struct {
	Kind  Kind
	Count int
	Items map[string]*Item
}

// NewObject returns an Object holding count.
func NewObject(count int) *Item {
	return &Item{Kind: KindObject, Count: count}
}

// NewContainer returns an empty Container.
func NewContainer() *Item {
	return &Item{Kind: KindContainer, Items: make(map[string]*Item)}
}

// IsContainer reports whether the item is a Container.
func (i *Item) IsContainer() bool { return i.Kind == KindContainer }

// Names returns the child names of a Container in lexicographic order.
// Objects have no children.
func (i *Item) Names() []string {
	return slices.Sorted(maps.Keys(i.Items))
}

// Clone returns a deep copy of the item.
func (i *Item) Clone() *Item {
	if !i.IsContainer() {
		return NewObject(i.Count)
	}
	c := NewContainer()
	for name, child := range i.Items {
		c.Items[name] = child.Clone()
	}
	return c
}

// AddItem applies delta to the Object addressed by path relative to this
// item. On an Object, an empty path addresses the Object itself.
//
// Postcondition: on any non-Success outcome the tree is unchanged.
func (i *Item) AddItem(path []string, delta int, opts ...Option) AddItemOutcome {
	o := newOptions(opts)
	if !i.IsContainer() {
		if len(path) > 0 {
			return AddItemOutcome{Kind: ObjectAtSubpath, Path: path}
		}
		return applyDelta(i, path, delta)
	}
	if len(path) == 0 {
		return AddItemOutcome{Kind: CannotAddOrRemoveContainer, Path: path}
	}
	if i.Items == nil {
		i.Items = make(map[string]*Item)
	}
	return addItem(i.Items, path, 0, delta, o)
}

type itemJSON struct {
	Type  Kind             `json:"type"`
	Count *int             `json:"count,omitempty"`
	Items map[string]*Item `json:"items,omitempty"`
}

// MarshalJSON encodes {"type":"Object","count":N} or {"type":"Container","items":{…}}.
func (i *Item) MarshalJSON() ([]byte, error) {
	switch i.Kind {
	case KindObject:
		count := i.Count
		return json.Marshal(itemJSON{Type: KindObject, Count: &count})
	case KindContainer:
		items := i.Items
		if items == nil {
			items = map[string]*Item{}
		}
		// omitempty would drop an empty container's items; write them explicitly.
		return json.Marshal(struct {
			Type  Kind             `json:"type"`
			Items map[string]*Item `json:"items"`
		}{Type: KindContainer, Items: items})
	}
	return nil, fmt.Errorf("inventory: cannot marshal item of kind %q", i.Kind)
}

// UnmarshalJSON decodes either tagged form.
func (i *Item) UnmarshalJSON(data []byte) error {
	var raw itemJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("inventory item: %w", err)
	}
	switch raw.Type {
	case KindObject:
		*i = Item{Kind: KindObject}
		if raw.Count != nil {
			i.Count = *raw.Count
		}
	case KindContainer:
		if err := checkEntries(raw.Items); err != nil {
			return err
		}
		*i = Item{Kind: KindContainer, Items: raw.Items}
		if i.Items == nil {
			i.Items = make(map[string]*Item)
		}
	default:
		return fmt.Errorf("inventory item: unknown type %q", raw.Type)
	}
	return nil
}

// Inventory is the root of a character's inventory tree.
type Inventory struct {
	Items map[string]*Item `json:"items"`
}

// MarshalJSON encodes {"items":{…}}, writing an empty object for a nil map.
func (inv Inventory) MarshalJSON() ([]byte, error) {
	items := inv.Items
	if items == nil {
		items = map[string]*Item{}
	}
	return json.Marshal(struct {
		Items map[string]*Item `json:"items"`
	}{Items: items})
}

// UnmarshalJSON decodes {"items":{…}}. A missing or null items object
// yields an empty inventory.
func (inv *Inventory) UnmarshalJSON(data []byte) error {
	var raw struct {
		Items map[string]*Item `json:"items"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("inventory: %w", err)
	}
	if err := checkEntries(raw.Items); err != nil {
		return err
	}
	if raw.Items == nil {
		raw.Items = make(map[string]*Item)
	}
	inv.Items = raw.Items
	return nil
}

// checkEntries rejects null children, which json.Unmarshal leaves as nil
// pointers.
func checkEntries(items map[string]*Item) error {
	for name, item := range items {
		if item == nil {
			return fmt.Errorf("inventory item %q: null entry", name)
		}
	}
	return nil
}

// New returns an empty Inventory.
func New() Inventory {
	return Inventory{Items: make(map[string]*Item)}
}

// Names returns the top-level names in lexicographic order.
func (inv *Inventory) Names() []string {
	return slices.Sorted(maps.Keys(inv.Items))
}

// Clone returns a deep copy of the inventory.
func (inv Inventory) Clone() Inventory {
	out := New()
	for name, item := range inv.Items {
		out.Items[name] = item.Clone()
	}
	return out
}

// Get returns the item addressed by path.
//
// Postcondition: ok is false when path is empty or any segment is missing.
func (inv *Inventory) Get(path []string) (*Item, bool) {
	if len(path) == 0 {
		return nil, false
	}
	items := inv.Items
	for idx, name := range path {
		item, ok := items[name]
		if !ok {
			return nil, false
		}
		if idx == len(path)-1 {
			return item, true
		}
		if !item.IsContainer() {
			return nil, false
		}
		items = item.Items
	}
	return nil, false
}

// AddItem applies delta to the Object at path, creating it when its parent
// exists and it does not. A negative delta removes.
//
// Postcondition: on any non-Success outcome the inventory is unchanged.
func (inv *Inventory) AddItem(path []string, delta int, opts ...Option) AddItemOutcome {
	if len(path) == 0 {
		return AddItemOutcome{Kind: InvalidPath, Path: path}
	}
	if inv.Items == nil {
		inv.Items = make(map[string]*Item)
	}
	return addItem(inv.Items, path, 0, delta, newOptions(opts))
}

// AddContainer creates an empty Container at path. Parents must already exist.
//
// Postcondition: on any non-Success outcome the inventory is unchanged.
func (inv *Inventory) AddContainer(path []string) ContainerOutcome {
	if len(path) == 0 {
		return ContainerOutcome{Kind: PathIsEmpty, Path: path}
	}
	if inv.Items == nil {
		inv.Items = make(map[string]*Item)
	}
	parent, outcome, ok := walkParents(inv.Items, path)
	if !ok {
		return outcome
	}
	name := path[len(path)-1]
	if _, exists := parent[name]; exists {
		return ContainerOutcome{Kind: Collision, Path: path}
	}
	parent[name] = NewContainer()
	return ContainerOutcome{Kind: ContainerCreated, Path: path}
}

// RemoveContainer deletes the empty Container at path.
//
// Postcondition: on any non-Success outcome the inventory is unchanged.
func (inv *Inventory) RemoveContainer(path []string) ContainerOutcome {
	if len(path) == 0 {
		return ContainerOutcome{Kind: PathIsEmpty, Path: path}
	}
	parent, outcome, ok := walkParents(inv.Items, path)
	if !ok {
		return outcome
	}
	name := path[len(path)-1]
	item, exists := parent[name]
	switch {
	case !exists:
		return ContainerOutcome{Kind: NoSuchContainer, Path: path}
	case !item.IsContainer():
		return ContainerOutcome{Kind: ExpectedContainer, Path: path}
	case len(item.Items) > 0:
		return ContainerOutcome{Kind: ContainerNotEmpty, Path: path}
	}
	delete(parent, name)
	return ContainerOutcome{Kind: ContainerRemoved, Path: path}
}

// addItem consumes path from index depth within items.
func addItem(items map[string]*Item, path []string, depth, delta int, o options) AddItemOutcome {
	name := path[depth]
	last := depth == len(path)-1
	item, exists := items[name]

	switch {
	case exists && last:
		if item.IsContainer() {
			return AddItemOutcome{Kind: CannotAddOrRemoveContainer, Path: path}
		}
		outcome := applyDelta(item, path, delta)
		if outcome.OK() && o.pruneEmpty && outcome.Available <= 0 {
			delete(items, name)
		}
		return outcome
	case exists:
		if !item.IsContainer() {
			return AddItemOutcome{Kind: ObjectAtSubpath, Path: path}
		}
		return addItem(item.Items, path, depth+1, delta, o)
	case last:
		if !(o.pruneEmpty && delta <= 0) {
			items[name] = NewObject(delta)
		}
		return AddItemOutcome{Kind: Success, Path: path, Requested: delta, Available: delta}
	default:
		return AddItemOutcome{Kind: ContainerDoesNotExistFor, Path: path}
	}
}

// applyDelta mutates an Object's count unless the result would be negative.
func applyDelta(item *Item, path []string, delta int) AddItemOutcome {
	if item.Count+delta < 0 {
		return AddItemOutcome{Kind: InsufficientInventory, Path: path, Requested: delta, Available: item.Count}
	}
	item.Count += delta
	return AddItemOutcome{Kind: Success, Path: path, Requested: delta, Available: item.Count}
}

// walkParents descends every segment but the last, returning the map that
// should hold the final segment.
func walkParents(items map[string]*Item, path []string) (map[string]*Item, ContainerOutcome, bool) {
	for _, name := range path[:len(path)-1] {
		item, ok := items[name]
		if !ok {
			return nil, ContainerOutcome{Kind: NoSuchParent, Path: path}, false
		}
		if !item.IsContainer() {
			return nil, ContainerOutcome{Kind: ExpectedContainer, Path: path}, false
		}
		items = item.Items
	}
	return items, ContainerOutcome{}, true
}
