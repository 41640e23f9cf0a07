// Package app executes parsed commands against a character store.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/dgoetsch/dnd-cli/internal/command"
	"github.com/dgoetsch/dnd-cli/internal/game/character"
	"github.com/dgoetsch/dnd-cli/internal/game/dice"
	"github.com/dgoetsch/dnd-cli/internal/game/inventory"
	"github.com/dgoetsch/dnd-cli/internal/game/roll"
	"github.com/dgoetsch/dnd-cli/internal/render"
	"github.com/dgoetsch/dnd-cli/internal/storage"
)

var (
	// ErrCharacterExists is returned by create when the name is taken.
	ErrCharacterExists = errors.New("character already exists")
	// ErrNoSuchItem is returned when inventory show names a missing path.
	ErrNoSuchItem = errors.New("no such item")
	// ErrNoSuchFeature is returned when feature names a missing feature.
	ErrNoSuchFeature = errors.New("no such feature")
)

// Handler runs one Invocation: load the character, apply one subsystem,
// persist what changed and render the result to Out.
type Handler struct {
	Store  storage.CharacterStore
	Engine *roll.Engine
	Dice   *dice.Roller
	Logger *zap.Logger
	Out    io.Writer
	// Template seeds characters made by create. May be nil.
	Template map[string]any
	// InventoryOptions are passed to every AddItem call.
	InventoryOptions []inventory.Option
}

// Execute runs inv.
//
// Precondition: inv was produced by command.Parse.
// Postcondition: only the sub-structure the command touched is persisted;
// recoverable inventory outcomes are rendered and return nil.
func (h *Handler) Execute(ctx context.Context, inv command.Invocation) error {
	logger := h.Logger.With(
		zap.String("command", inv.Command.Name),
		zap.String("character", inv.Character),
	)
	logger.Debug("executing command")
	defer logger.Debug("command finished")

	switch inv.Command.Handler {
	case command.HandlerDice:
		return h.rollDice(inv.Expression)
	case command.HandlerCharacterCreate:
		return h.create(ctx, logger, inv.Character)
	}

	c, err := h.Store.LoadCharacter(ctx, inv.Character)
	if err != nil {
		logger.Error("loading character", zap.Error(err))
		return err
	}

	switch inv.Command.Handler {
	case command.HandlerCharacterShow:
		return h.write(render.Character(c))
	case command.HandlerFeatureShow:
		return h.showFeature(c, inv.Path)
	case command.HandlerRoll:
		return h.roll(c, inv.Path)
	case command.HandlerInventoryShow:
		return h.showInventory(c, inv.Path)
	case command.HandlerInventoryAdd:
		return h.addItem(ctx, logger, inv.Character, c, inv.Path, inv.Count)
	case command.HandlerInventoryRemove:
		return h.addItem(ctx, logger, inv.Character, c, inv.Path, -inv.Count)
	case command.HandlerContainerAdd:
		return h.container(ctx, logger, inv.Character, c, c.Inventory.AddContainer, inv.Path)
	case command.HandlerContainerRemove:
		return h.container(ctx, logger, inv.Character, c, c.Inventory.RemoveContainer, inv.Path)
	case command.HandlerHitPointsShow:
		return h.write(render.HitPoints(c.HitPoints))
	case command.HandlerIncreaseMax, command.HandlerHeal, command.HandlerDamage,
		command.HandlerAddTemporary, command.HandlerResetTemporary, command.HandlerResetHitPoints:
		return h.hitPoints(ctx, logger, inv, c)
	default:
		return fmt.Errorf("no handler for %q: %w", inv.Command.Handler, command.ErrUnknownCommand)
	}
}

func (h *Handler) write(s string) error {
	_, err := io.WriteString(h.Out, s)
	return err
}

func (h *Handler) rollDice(expr string) error {
	result, err := h.Dice.EvaluateString(expr)
	if err != nil {
		return fmt.Errorf("%w: %w", command.ErrUsage, err)
	}
	return h.write(render.DiceResult(result))
}

func (h *Handler) create(ctx context.Context, logger *zap.Logger, name string) error {
	_, err := h.Store.LoadCharacter(ctx, name)
	switch {
	case err == nil:
		return fmt.Errorf("%s: %w", name, ErrCharacterExists)
	case !errors.Is(err, storage.ErrCharacterNotFound):
		logger.Error("checking for existing character", zap.Error(err))
		return err
	}

	c, err := storage.DecodeCharacter([]byte("{}"), h.Template)
	if err != nil {
		return fmt.Errorf("applying template: %w", err)
	}
	if err := h.Store.SaveCharacter(ctx, name, c); err != nil {
		logger.Error("saving character", zap.Error(err))
		return err
	}
	logger.Info("created character")
	return h.write(render.Character(c))
}

func (h *Handler) showFeature(c *character.Character, words []string) error {
	name := strings.Join(words, " ")
	if name == "" {
		return fmt.Errorf("feature needs a name: %w", command.ErrUsage)
	}
	f, ok := c.Feature(name)
	if !ok {
		return fmt.Errorf("%s: %w", name, ErrNoSuchFeature)
	}
	return h.write(render.Feature(name, f))
}

func (h *Handler) roll(c *character.Character, path []string) error {
	isAbility, err := roll.IsAbilityPath(path)
	if err != nil {
		return fmt.Errorf("%w: %w", command.ErrUsage, err)
	}
	if isAbility {
		check, err := roll.AbilityCheck(path, c)
		if err != nil {
			return fmt.Errorf("%w: %w", command.ErrUsage, err)
		}
		return h.write(render.AbilityCheck(check))
	}
	return h.write(render.RollResult(h.Engine.Calculate(path, c)))
}

func (h *Handler) showInventory(c *character.Character, path []string) error {
	if len(path) == 0 {
		return h.write(render.Inventory(c.Inventory))
	}
	item, ok := c.Inventory.Get(path)
	if !ok {
		return fmt.Errorf("%s: %w", inventory.JoinPath(path), ErrNoSuchItem)
	}
	return h.write(render.Item(path[len(path)-1], item))
}

func (h *Handler) addItem(ctx context.Context, logger *zap.Logger, name string, c *character.Character, path []string, delta int) error {
	outcome := c.Inventory.AddItem(path, delta, h.InventoryOptions...)
	if outcome.OK() {
		if err := h.Store.SaveInventory(ctx, name, c.Inventory); err != nil {
			logger.Error("saving inventory", zap.Error(err))
			return err
		}
		logger.Info("saved inventory", zap.Strings("path", path), zap.Int("delta", delta))
	} else {
		logger.Debug("inventory unchanged", zap.Stringer("outcome", outcome.Kind))
	}
	return h.write(render.AddItemOutcome(outcome))
}

// container applies op, a method value bound to c.Inventory, and persists the
// inventory when it succeeds.
func (h *Handler) container(ctx context.Context, logger *zap.Logger, name string, c *character.Character,
	op func([]string) inventory.ContainerOutcome, path []string) error {
	outcome := op(path)
	if outcome.OK() {
		if err := h.Store.SaveInventory(ctx, name, c.Inventory); err != nil {
			logger.Error("saving inventory", zap.Error(err))
			return err
		}
		logger.Info("saved inventory", zap.Strings("path", path), zap.Stringer("outcome", outcome.Kind))
	} else {
		logger.Debug("inventory unchanged", zap.Stringer("outcome", outcome.Kind))
	}
	return h.write(render.ContainerOutcome(outcome))
}

func (h *Handler) hitPoints(ctx context.Context, logger *zap.Logger, inv command.Invocation, c *character.Character) error {
	hp := c.HitPoints
	switch inv.Command.Handler {
	case command.HandlerIncreaseMax:
		hp.IncreaseMax(inv.Count)
	case command.HandlerHeal:
		hp.AddCurrent(inv.Count)
	case command.HandlerDamage:
		if !hp.AddCurrent(-inv.Count) {
			logger.Info("character is unconscious")
		}
	case command.HandlerAddTemporary:
		hp.AddTemporary(inv.Count)
	case command.HandlerResetTemporary:
		hp.ResetTemporary()
	case command.HandlerResetHitPoints:
		hp.Reset()
	}
	if err := h.Store.SaveHitPoints(ctx, inv.Character, hp); err != nil {
		logger.Error("saving hit points", zap.Error(err))
		return err
	}
	logger.Info("saved hit points",
		zap.Int("current", hp.Current()),
		zap.Int("max", hp.Max()),
		zap.Int("temporary", hp.Temporary()),
	)
	return h.write(render.HitPoints(hp))
}
