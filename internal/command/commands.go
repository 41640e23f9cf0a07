// Package command provides the command registry, argument parsing and the
// built-in command definitions of the dnd CLI.
package command

import "strings"

// Handler identifiers mapping commands to application actions.
const (
	HandlerCharacterShow   = "character.show"
	HandlerCharacterCreate = "character.create"
	HandlerFeatureShow     = "feature.show"
	HandlerRoll            = "roll"
	HandlerInventoryShow   = "inventory.show"
	HandlerInventoryAdd    = "inventory.add"
	HandlerInventoryRemove = "inventory.remove"
	HandlerContainerAdd    = "inventory.container.add"
	HandlerContainerRemove = "inventory.container.remove"
	HandlerHitPointsShow   = "hit_points.show"
	HandlerIncreaseMax     = "hit_points.increase_max"
	HandlerHeal            = "hit_points.add"
	HandlerDamage          = "hit_points.remove"
	HandlerAddTemporary    = "hit_points.add_temporary"
	HandlerResetTemporary  = "hit_points.reset_temporary"
	HandlerResetHitPoints  = "hit_points.reset"
	HandlerDice            = "dice"
)

// ArgKind describes the arguments a command accepts after its name.
type ArgKind int

const (
	// ArgsNone accepts no arguments.
	ArgsNone ArgKind = iota
	// ArgsCount accepts exactly one integer.
	ArgsCount
	// ArgsPath accepts zero or more words.
	ArgsPath
	// ArgsCountPath accepts an integer followed by zero or more words.
	ArgsCountPath
	// ArgsExpression accepts one or more words joined into a dice expression.
	ArgsExpression
)

// Synopsis returns the argument placeholder shown in usage text.
func (k ArgKind) Synopsis() string {
	switch k {
	case ArgsCount:
		return "<count>"
	case ArgsPath:
		return "[path...]"
	case ArgsCountPath:
		return "<count> [path...]"
	case ArgsExpression:
		return "<expression>"
	default:
		return ""
	}
}

// Scope says whether a command runs against a named character.
type Scope int

const (
	// ScopeCharacter commands are reached through "character <name> ...".
	ScopeCharacter Scope = iota
	// ScopeGlobal commands need no character.
	ScopeGlobal
)

// Command defines a CLI command.
type Command struct {
	// Name is the canonical command name, one or more space-separated words.
	Name string
	// Aliases are alternate full names for this command.
	Aliases []string
	// Help is the short help text.
	Help string
	// Handler identifies the application action that runs the command.
	Handler string
	// Args is the argument shape accepted after the name.
	Args ArgKind
	// Scope says whether a character name precedes the command.
	Scope Scope
}

// wordAliases are abbreviations accepted in place of a command word.
var wordAliases = map[string]string{
	"hit-points": "hp",
	"inventory":  "inv",
}

// BuiltinCommands returns all built-in commands.
func BuiltinCommands() []Command {
	cmds := []Command{
		{Name: "show", Help: "Show the character sheet", Handler: HandlerCharacterShow, Args: ArgsNone},
		{Name: "create", Help: "Create the character from the configured template", Handler: HandlerCharacterCreate, Args: ArgsNone},
		{Name: "feature", Help: "Show one feature and its effects", Handler: HandlerFeatureShow, Args: ArgsPath},
		{Name: "roll", Help: "Roll for a path, e.g. roll attack melee or roll ability dex", Handler: HandlerRoll, Args: ArgsPath},

		{Name: "inventory show", Help: "Show the inventory, or the item at path", Handler: HandlerInventoryShow, Args: ArgsPath},
		{Name: "inventory add", Help: "Add count of the object at path, creating it if needed", Handler: HandlerInventoryAdd, Args: ArgsCountPath},
		{Name: "inventory remove", Help: "Use count of the object at path", Handler: HandlerInventoryRemove, Args: ArgsCountPath},
		{Name: "inventory container add", Help: "Create an empty container at path", Handler: HandlerContainerAdd, Args: ArgsPath},
		{Name: "inventory container remove", Help: "Remove the empty container at path", Handler: HandlerContainerRemove, Args: ArgsPath},

		{Name: "hit-points show", Help: "Show hit points", Handler: HandlerHitPointsShow, Args: ArgsNone},
		{Name: "hit-points increase-max", Help: "Raise maximum hit points by count", Handler: HandlerIncreaseMax, Args: ArgsCount},
		{Name: "hit-points add", Help: "Heal by count", Handler: HandlerHeal, Args: ArgsCount},
		{Name: "hit-points remove", Help: "Take count damage", Handler: HandlerDamage, Args: ArgsCount},
		{Name: "hit-points add-temporary", Help: "Add temporary hit points", Handler: HandlerAddTemporary, Args: ArgsCount},
		{Name: "hit-points reset-temporary", Help: "Drop temporary hit points", Handler: HandlerResetTemporary, Args: ArgsNone},
		{Name: "hit-points reset", Help: "Restore to maximum and drop temporary hit points", Handler: HandlerResetHitPoints, Args: ArgsNone},

		{Name: "dice", Help: "Roll a dice expression such as 2d6+3 or 4d6kh3", Handler: HandlerDice, Args: ArgsExpression, Scope: ScopeGlobal},
	}
	for i := range cmds {
		cmds[i].Aliases = abbreviations(cmds[i].Name)
	}
	return cmds
}

// abbreviations returns name with its first word replaced by its word alias,
// if it has one.
func abbreviations(name string) []string {
	for word, alias := range wordAliases {
		if name == word {
			return []string{alias}
		}
		if rest, ok := strings.CutPrefix(name, word+" "); ok {
			return []string{alias + " " + rest}
		}
	}
	return nil
}
