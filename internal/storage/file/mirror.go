package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dgoetsch/dnd-cli/internal/game/inventory"
	"github.com/dgoetsch/dnd-cli/internal/storage"
)

// readMirror loads the directory tree at dir as an Inventory. ok is false
// when dir does not exist.
func readMirror(dir string) (inventory.Inventory, bool, error) {
	info, err := os.Stat(dir)
	if errors.Is(err, os.ErrNotExist) {
		return inventory.Inventory{}, false, nil
	}
	if err != nil {
		return inventory.Inventory{}, false, err
	}
	if !info.IsDir() {
		return inventory.Inventory{}, false, fmt.Errorf("%s is not a directory", dir)
	}
	items, err := readContainer(dir)
	if err != nil {
		return inventory.Inventory{}, false, err
	}
	return inventory.Inventory{Items: items}, true, nil
}

func readContainer(dir string) (map[string]*inventory.Item, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	items := make(map[string]*inventory.Item, len(entries))
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		switch {
		case e.IsDir():
			children, err := readContainer(path)
			if err != nil {
				return nil, err
			}
			items[e.Name()] = &inventory.Item{Kind: inventory.KindContainer, Items: children}
		case e.Type().IsRegular():
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, err
			}
			count, err := strconv.Atoi(strings.TrimSpace(string(data)))
			if err != nil {
				return nil, fmt.Errorf("%s: count must be an integer: %w", path, err)
			}
			items[e.Name()] = inventory.NewObject(count)
		}
	}
	return items, nil
}

// writeMirror replaces dir with the tree of inv. The new tree is built in a
// temp directory beside dir and swapped in, so a failed write leaves the
// previous mirror intact.
func writeMirror(dir string, inv inventory.Inventory) error {
	parent := filepath.Dir(dir)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return err
	}
	tmp, err := os.MkdirTemp(parent, "."+filepath.Base(dir)+".tmp-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmp)
	if err := os.Chmod(tmp, 0o755); err != nil {
		return err
	}

	if err := writeContainer(tmp, inv.Items); err != nil {
		return err
	}

	old := tmp + ".old"
	hadOld := false
	if err := os.Rename(dir, old); err == nil {
		hadOld = true
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if err := os.Rename(tmp, dir); err != nil {
		if hadOld {
			_ = os.Rename(old, dir)
		}
		return err
	}
	if hadOld {
		return os.RemoveAll(old)
	}
	return nil
}

func writeContainer(dir string, items map[string]*inventory.Item) error {
	for name, item := range items {
		if err := storage.ValidateName(name); err != nil {
			return fmt.Errorf("inventory item: %w", err)
		}
		// Hidden entries are skipped on read.
		if strings.HasPrefix(name, ".") {
			return fmt.Errorf("inventory item %q: %w", name, storage.ErrUnsafeName)
		}
		path := filepath.Join(dir, name)
		if item.IsContainer() {
			if err := os.Mkdir(path, 0o755); err != nil {
				return err
			}
			if err := writeContainer(path, item.Items); err != nil {
				return err
			}
			continue
		}
		if err := os.WriteFile(path, []byte(strconv.Itoa(item.Count)+"\n"), 0o644); err != nil {
			return err
		}
	}
	return nil
}
