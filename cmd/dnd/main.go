// Package main provides the dnd character tracker CLI.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/dgoetsch/dnd-cli/internal/app"
	"github.com/dgoetsch/dnd-cli/internal/command"
	"github.com/dgoetsch/dnd-cli/internal/config"
	"github.com/dgoetsch/dnd-cli/internal/game/dice"
	"github.com/dgoetsch/dnd-cli/internal/game/inventory"
	"github.com/dgoetsch/dnd-cli/internal/game/roll"
	"github.com/dgoetsch/dnd-cli/internal/observability"
	"github.com/dgoetsch/dnd-cli/internal/storage"
	"github.com/dgoetsch/dnd-cli/internal/storage/file"
	"github.com/dgoetsch/dnd-cli/internal/storage/postgres"
	"github.com/dgoetsch/dnd-cli/internal/storage/redis"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	registry := command.DefaultRegistry()

	flags := flag.NewFlagSet("dnd", flag.ContinueOnError)
	flags.SetOutput(stderr)
	configPath := flags.String("config", "configs/dnd.yaml", "path to configuration file")
	flags.Usage = func() {
		fmt.Fprint(stderr, registry.Usage())
		fmt.Fprintln(stderr, "Flags:")
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	inv, err := registry.Parse(flags.Args())
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n\n%s", err, registry.Usage())
		return exitUsage
	}

	// A missing .env is not an error.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "loading config: %v\n", err)
		return exitError
	}
	base, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(stderr, "initializing logger: %v\n", err)
		return exitError
	}
	defer func() { _ = base.Sync() }()
	logger, _ := observability.WithInvocation(base)

	start := time.Now()
	err = execute(ctx, cfg, logger, inv, stdout)
	logger.Debug("invocation finished", zap.Duration("elapsed", time.Since(start)), zap.Error(err))
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, command.ErrUsage):
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	default:
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitError
	}
}

func execute(ctx context.Context, cfg config.Config, logger *zap.Logger, inv command.Invocation, out io.Writer) error {
	template, err := file.LoadTemplate(cfg.Storage.Root, cfg.Storage.Template)
	if err != nil {
		return err
	}

	store, closeStore, err := openStore(ctx, cfg, template)
	if err != nil {
		return err
	}
	defer closeStore()
	logger.Debug("store opened", zap.String("backend", cfg.Storage.Backend))

	roller := dice.NewLoggedRoller(dice.NewCryptoSource(), logger)
	h := &app.Handler{
		Store:            store,
		Engine:           roll.NewEngine(roller),
		Dice:             roller,
		Logger:           logger,
		Out:              out,
		Template:         template,
		InventoryOptions: []inventory.Option{inventory.WithPruning(cfg.Inventory.PruneEmpty)},
	}
	return h.Execute(ctx, inv)
}

// openStore builds the configured backend. The returned func releases it.
func openStore(ctx context.Context, cfg config.Config, template map[string]any) (storage.CharacterStore, func(), error) {
	switch cfg.Storage.Backend {
	case config.BackendPostgres:
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewStore(pool.DB(), template), pool.Close, nil
	case config.BackendRedis:
		client := redis.NewClient(cfg.Redis)
		return redis.NewStore(client, cfg.Redis.KeyPrefix, template), func() { _ = client.Close() }, nil
	default:
		return file.NewStore(cfg.Storage.Root, template), func() {}, nil
	}
}
