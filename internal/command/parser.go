package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrUsage is returned when arguments do not fit a command's shape.
	ErrUsage = errors.New("usage error")
	// ErrUnknownCommand is returned when no command matches the given words.
	ErrUnknownCommand = errors.New("unknown command")
)

// characterWords introduce a character-scoped command.
var characterWords = map[string]bool{"character": true, "char": true}

// Invocation is a parsed command line ready to execute.
type Invocation struct {
	Command *Command
	// Character is the character name; empty for global commands.
	Character string
	// Count is set for ArgsCount and ArgsCountPath commands.
	Count int
	// Path holds the words of ArgsPath and ArgsCountPath commands.
	Path []string
	// Expression is the joined words of an ArgsExpression command.
	Expression string
}

// Parse resolves args against the default registry.
func Parse(args []string) (Invocation, error) {
	return DefaultRegistry().Parse(args)
}

// Parse resolves args, the command line without the program name, into an
// Invocation. Accepted forms are "character <name> <command> [args]" and
// "<global command> [args]".
//
// Postcondition: errors wrap ErrUsage or ErrUnknownCommand.
func (r *Registry) Parse(args []string) (Invocation, error) {
	if len(args) == 0 {
		return Invocation{}, fmt.Errorf("no command given: %w", ErrUsage)
	}

	var inv Invocation
	words := args
	want := ScopeGlobal
	if characterWords[strings.ToLower(args[0])] {
		if len(args) < 2 {
			return Invocation{}, fmt.Errorf("%s needs a character name: %w", args[0], ErrUsage)
		}
		if len(args) < 3 {
			return Invocation{}, fmt.Errorf("character %s needs a command: %w", args[1], ErrUsage)
		}
		inv.Character = args[1]
		words = args[2:]
		want = ScopeCharacter
	}

	cmd, rest, ok := r.Resolve(words)
	if !ok || cmd.Scope != want {
		return Invocation{}, fmt.Errorf("%q: %w", strings.Join(words, " "), ErrUnknownCommand)
	}
	inv.Command = cmd

	if err := parseArgs(&inv, rest); err != nil {
		return Invocation{}, fmt.Errorf("%s: %w", cmd.Name, err)
	}
	return inv, nil
}

func parseArgs(inv *Invocation, rest []string) error {
	switch inv.Command.Args {
	case ArgsNone:
		if len(rest) > 0 {
			return fmt.Errorf("unexpected arguments %q: %w", strings.Join(rest, " "), ErrUsage)
		}
	case ArgsCount:
		if len(rest) != 1 {
			return fmt.Errorf("expected one count, got %d arguments: %w", len(rest), ErrUsage)
		}
		n, err := parseCount(rest[0])
		if err != nil {
			return err
		}
		inv.Count = n
	case ArgsPath:
		inv.Path = rest
	case ArgsCountPath:
		if len(rest) == 0 {
			return fmt.Errorf("missing count: %w", ErrUsage)
		}
		n, err := parseCount(rest[0])
		if err != nil {
			return err
		}
		inv.Count = n
		inv.Path = rest[1:]
	case ArgsExpression:
		if len(rest) == 0 {
			return fmt.Errorf("missing expression: %w", ErrUsage)
		}
		inv.Expression = strings.Join(rest, "")
	default:
		return fmt.Errorf("unsupported argument kind %d", inv.Command.Args)
	}
	if inv.Path == nil && (inv.Command.Args == ArgsPath || inv.Command.Args == ArgsCountPath) {
		inv.Path = []string{}
	}
	return nil
}

func parseCount(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("count %q is not an integer: %w", s, ErrUsage)
	}
	return n, nil
}
