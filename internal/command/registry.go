package command

import (
	"fmt"
	"slices"
	"strings"
)

// Registry maps command names and aliases to Command definitions.
type Registry struct {
	commands map[string]*Command // canonical name → command
	aliases  map[string]string   // alias → canonical name
	maxWords int
}

// NewRegistry creates a Registry populated with the given commands.
//
// Precondition: No two commands may share a canonical name or alias.
// Postcondition: Returns a Registry or an error on name/alias collisions.
func NewRegistry(cmds []Command) (*Registry, error) {
	r := &Registry{
		commands: make(map[string]*Command, len(cmds)),
		aliases:  make(map[string]string),
	}

	for i := range cmds {
		cmd := &cmds[i]
		if strings.TrimSpace(cmd.Name) == "" {
			return nil, fmt.Errorf("command %d has an empty name", i)
		}
		if _, exists := r.commands[cmd.Name]; exists {
			return nil, fmt.Errorf("duplicate command name: %q", cmd.Name)
		}
		if _, exists := r.aliases[cmd.Name]; exists {
			return nil, fmt.Errorf("command name %q conflicts with an existing alias", cmd.Name)
		}
		r.commands[cmd.Name] = cmd
		r.maxWords = max(r.maxWords, len(strings.Fields(cmd.Name)))

		for _, alias := range cmd.Aliases {
			if _, exists := r.commands[alias]; exists {
				return nil, fmt.Errorf("alias %q conflicts with command name %q", alias, alias)
			}
			if existing, exists := r.aliases[alias]; exists {
				return nil, fmt.Errorf("duplicate alias %q: used by %q and %q", alias, existing, cmd.Name)
			}
			r.aliases[alias] = cmd.Name
			r.maxWords = max(r.maxWords, len(strings.Fields(alias)))
		}
	}

	return r, nil
}

// DefaultRegistry creates a Registry with all built-in commands.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(BuiltinCommands())
	if err != nil {
		panic(fmt.Sprintf("building default registry: %v", err))
	}
	return r
}

// Lookup finds a command by its full name or alias.
func (r *Registry) Lookup(name string) (*Command, bool) {
	if cmd, ok := r.commands[name]; ok {
		return cmd, true
	}
	if canonical, ok := r.aliases[name]; ok {
		return r.commands[canonical], true
	}
	return nil, false
}

// Resolve matches the longest run of leading words against command names and
// aliases, so "inventory container add" wins over "inventory".
//
// Postcondition: Returns (command, remaining words, true) if found, or (nil, nil, false).
func (r *Registry) Resolve(words []string) (*Command, []string, bool) {
	for n := min(len(words), r.maxWords); n > 0; n-- {
		name := strings.ToLower(strings.Join(words[:n], " "))
		if cmd, ok := r.Lookup(name); ok {
			return cmd, words[n:], true
		}
	}
	return nil, nil, false
}

// Commands returns all registered commands sorted by name.
func (r *Registry) Commands() []*Command {
	result := make([]*Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		result = append(result, cmd)
	}
	slices.SortFunc(result, func(a, b *Command) int { return strings.Compare(a.Name, b.Name) })
	return result
}

// Usage returns one line per command, sorted by name.
func (r *Registry) Usage() string {
	var b strings.Builder
	b.WriteString("Usage:\n")
	for _, cmd := range r.Commands() {
		synopsis := cmd.Name
		if cmd.Scope == ScopeCharacter {
			synopsis = "character <name> " + synopsis
		}
		if s := cmd.Args.Synopsis(); s != "" {
			synopsis += " " + s
		}
		fmt.Fprintf(&b, "  dnd %-58s %s\n", synopsis, cmd.Help)
	}
	return b.String()
}
