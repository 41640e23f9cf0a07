// Package render formats domain values as the plain text printed by the CLI.
// Every function returns a newline-terminated string; nesting is shown with
// tabs.
package render

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/dgoetsch/dnd-cli/internal/game/ability"
	"github.com/dgoetsch/dnd-cli/internal/game/character"
	"github.com/dgoetsch/dnd-cli/internal/game/dice"
	"github.com/dgoetsch/dnd-cli/internal/game/feature"
	"github.com/dgoetsch/dnd-cli/internal/game/hitpoints"
	"github.com/dgoetsch/dnd-cli/internal/game/inventory"
	"github.com/dgoetsch/dnd-cli/internal/game/roll"
)

func tab(indent int) string { return strings.Repeat("\t", indent) }

func path(p []string) string { return inventory.JoinPath(p) }

// Inventory renders the whole tree, children sorted by name.
func Inventory(inv inventory.Inventory) string {
	var b strings.Builder
	b.WriteString("Inventory\n")
	for _, name := range inv.Names() {
		writeItem(&b, 1, name, inv.Items[name])
	}
	return b.String()
}

// Item renders a single named subtree at depth zero.
func Item(name string, item *inventory.Item) string {
	var b strings.Builder
	writeItem(&b, 0, name, item)
	return b.String()
}

func writeItem(b *strings.Builder, indent int, name string, item *inventory.Item) {
	if !item.IsContainer() {
		fmt.Fprintf(b, "%sx%d ... %s\n", tab(indent), item.Count, name)
		return
	}
	fmt.Fprintf(b, "%s%s:\n", tab(indent), name)
	for _, child := range item.Names() {
		writeItem(b, indent+1, child, item.Items[child])
	}
}

// AddItemOutcome renders the message for an add or use.
func AddItemOutcome(o inventory.AddItemOutcome) string {
	p := path(o.Path)
	switch o.Kind {
	case inventory.Success:
		if o.Requested < 0 {
			return fmt.Sprintf("%s: used %d, %d remaining\n", p, -o.Requested, o.Available)
		}
		return fmt.Sprintf("%s: added %d, %d remaining\n", p, o.Requested, o.Available)
	case inventory.InsufficientInventory:
		if o.Available <= 0 {
			return fmt.Sprintf("%s: don't have any\n", p)
		}
		return fmt.Sprintf("%s: Tried to use %d, but only have %d\n", p, -o.Requested, o.Available)
	case inventory.InvalidPath:
		return fmt.Sprintf("%s: path is invalid\n", p)
	case inventory.CannotAddOrRemoveContainer:
		return fmt.Sprintf("%s: The specified path is a container\n", p)
	case inventory.ContainerDoesNotExistFor:
		return fmt.Sprintf("%s: The specified container does not exist and needs to be created\n", p)
	case inventory.ObjectAtSubpath:
		return fmt.Sprintf("%s: The specified container does not exist, there was an object at a subpath\n", p)
	}
	return fmt.Sprintf("%s: %s\n", p, o.Kind)
}

// ContainerOutcome renders the message for a container add or remove.
func ContainerOutcome(o inventory.ContainerOutcome) string {
	p := path(o.Path)
	switch o.Kind {
	case inventory.ContainerCreated:
		return fmt.Sprintf("%s: container created\n", p)
	case inventory.ContainerRemoved:
		return fmt.Sprintf("%s: container removed\n", p)
	case inventory.PathIsEmpty:
		return "path is empty\n"
	case inventory.Collision:
		return fmt.Sprintf("%s: something is already there\n", p)
	case inventory.NoSuchParent:
		return fmt.Sprintf("%s: a parent container does not exist\n", p)
	case inventory.ExpectedContainer:
		return fmt.Sprintf("%s: expected a container but found an object\n", p)
	case inventory.NoSuchContainer:
		return fmt.Sprintf("%s: there is no container there\n", p)
	case inventory.ContainerNotEmpty:
		return fmt.Sprintf("%s: the container is not empty\n", p)
	}
	return fmt.Sprintf("%s: %s\n", p, o.Kind)
}

// HitPoints renders "cur / modmax", adding "[ max ± temp ]" when temporary
// hit points are non-zero.
func HitPoints(hp hitpoints.HitPoints) string {
	var b strings.Builder
	b.WriteString("Hit Points:\n")
	if hp.Temporary() == 0 {
		fmt.Fprintf(&b, "%s %d / %d\n", tab(1), hp.Current(), hp.ModifiedMax())
		return b.String()
	}
	sign := '+'
	if hp.Temporary() < 0 {
		sign = '-'
	}
	temp := hp.Temporary()
	if temp < 0 {
		temp = -temp
	}
	fmt.Fprintf(&b, "%s %d / %d [ %d %c %d ]\n", tab(1), hp.Current(), hp.ModifiedMax(), hp.Max(), sign, temp)
	return b.String()
}

// RollResult renders each effect with its dice and bonus, then the total.
func RollResult(r roll.Result) string {
	var b strings.Builder
	b.WriteString("Results\n")
	for _, e := range r.Effects {
		fmt.Fprintf(&b, "%s%s: %s\n", tab(1), path(e.Path), effectText(e))
	}
	fmt.Fprintf(&b, "Total: %d\n", r.Total())
	return b.String()
}

func effectText(e roll.EffectResult) string {
	var faces []string
	for _, rd := range e.RolledDice {
		faces = append(faces, rolledFaces(rd)...)
	}
	rolls := strings.Join(faces, " + ")
	switch {
	case e.Bonus == 0:
		return rolls
	case rolls == "":
		return fmt.Sprintf("%+d", e.Bonus)
	case e.Bonus > 0:
		return fmt.Sprintf("%s + %d", rolls, e.Bonus)
	default:
		return fmt.Sprintf("%s - %d", rolls, -e.Bonus)
	}
}

func rolledFaces(rd dice.RolledDice) []string {
	out := make([]string, len(rd.Results))
	for i, v := range rd.Results {
		out[i] = fmt.Sprintf("[%d / %d]", v, rd.Dice.Sides)
	}
	return out
}

// AbilityCheck renders the d20 expression for an ability check.
func AbilityCheck(r roll.AbilityCheckResult) string {
	return r.Expression() + "\n"
}

// DiceResult renders an ad-hoc dice expression result.
func DiceResult(r dice.RollResult) string {
	return r.String() + "\n"
}

// Abilities renders the six scores with their modifiers in sheet order.
func Abilities(scores ability.Scores) string {
	var b strings.Builder
	b.WriteString("Abilities:\n")
	for _, a := range ability.All {
		s := scores.Get(a)
		fmt.Fprintf(&b, "%s%s %2d (%+d)\n", tab(1), a.Abbreviation(), s.Value, s.Modifier())
	}
	return b.String()
}

// Character renders the sheet summary: abilities, classes, level,
// proficiency bonus, hit points and top-level features.
func Character(c *character.Character) string {
	var b strings.Builder
	b.WriteString(Abilities(c.Abilities))
	b.WriteString("Classes:\n")
	for _, cl := range c.Classes {
		fmt.Fprintf(&b, "%s%s %d\n", tab(1), cl.Name, cl.Level)
	}
	fmt.Fprintf(&b, "Level: %d\n", c.TotalLevel())
	fmt.Fprintf(&b, "Proficiency Bonus: %+d\n", c.ProficiencyBonus())
	b.WriteString(HitPoints(c.HitPoints))
	if len(c.Features) > 0 {
		b.WriteString("Features:\n")
		for _, name := range slices.Sorted(maps.Keys(c.Features)) {
			writeFeature(&b, 1, name, c.Features[name])
		}
	}
	return b.String()
}

// Feature renders a feature subtree with its roll and effects.
func Feature(name string, f feature.Feature) string {
	var b strings.Builder
	writeFeature(&b, 0, name, f)
	return b.String()
}

func writeFeature(b *strings.Builder, indent int, name string, f feature.Feature) {
	fmt.Fprintf(b, "%s%s", tab(indent), name)
	if f.Roll != nil {
		fmt.Fprintf(b, " (%s)", f.Roll)
	}
	b.WriteString("\n")
	for _, e := range f.Effects {
		fmt.Fprintf(b, "%s- %s\n", tab(indent+1), effectLine(e))
	}
	for _, child := range f.Names() {
		writeFeature(b, indent+1, child, f.Children[child])
	}
}

func effectLine(e feature.Effect) string {
	var parts []string
	if e.Scope.Path != nil {
		parts = append(parts, "on "+strings.Join(*e.Scope.Path, " "))
	} else {
		parts = append(parts, "on nothing")
	}
	if e.Scope.Ability != nil {
		parts = append(parts, e.Scope.Ability.String())
	}
	if e.Scope.Range != nil {
		parts = append(parts, e.Scope.Range.String())
	}
	return e.Bonus.String() + " " + strings.Join(parts, ", ")
}
