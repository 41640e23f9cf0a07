package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/dgoetsch/dnd-cli/internal/storage"
)

// LoadTemplate reads <root>/templates/<name>.yaml. An empty name or a missing
// file yields a nil template, which disables merging.
//
// Postcondition: a non-nil result holds only JSON-compatible values.
func LoadTemplate(root, name string) (map[string]any, error) {
	if name == "" {
		return nil, nil
	}
	if err := storage.ValidateName(name); err != nil {
		return nil, fmt.Errorf("template name: %w", err)
	}
	path := filepath.Join(root, "templates", name+".yaml")
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading template %s: %w", path, err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing template %s: %w", path, err)
	}
	if raw == nil {
		return map[string]any{}, nil
	}
	return storage.NormalizeTemplate(raw).(map[string]any), nil
}
