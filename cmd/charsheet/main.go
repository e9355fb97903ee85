// Package main provides the character sheet CLI: it loads a save, applies one
// operation, prints the derived stats and writes the save back.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/gusheet/internal/backstory"
	"github.com/cory-johannsen/gusheet/internal/config"
	"github.com/cory-johannsen/gusheet/internal/game/character"
	"github.com/cory-johannsen/gusheet/internal/game/derive"
	"github.com/cory-johannsen/gusheet/internal/game/dice"
	"github.com/cory-johannsen/gusheet/internal/game/rules"
	"github.com/cory-johannsen/gusheet/internal/observability"
	"github.com/cory-johannsen/gusheet/internal/savefile"
	"github.com/cory-johannsen/gusheet/internal/scripting"
	"github.com/cory-johannsen/gusheet/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "", "path to configuration file; empty uses defaults and GUSHEET_ env vars")
	contentDir := flag.String("content", "", "reference data directory; overrides content.dir")
	savePath := flag.String("save", "character.json", "path to the character save file")
	op := flag.String("op", opShow, "operation: show, pass-time, short-rest, long-rest, spend-hd, damage, heal, level, race, backstory, archive")
	n := flag.Int("n", 0, "integer argument for pass-time, spend-hd, damage, heal and level")
	id := flag.String("id", "", "string argument for race")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *contentDir != "" {
		cfg.Content.Dir = *contentDir
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	engine, closeHooks, err := buildEngine(cfg, logger)
	if err != nil {
		logger.Fatal("building engine", zap.Error(err))
	}
	defer closeHooks()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	s, err := loadOrCreate(engine, *savePath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	deps := opDeps{
		engine:    engine,
		generator: backstory.New(cfg.Backstory, logger),
		archive: func(ctx context.Context) (sheetArchive, func(), error) {
			pool, err := postgres.NewPool(ctx, cfg.Database, logger)
			if err != nil {
				return nil, nil, err
			}
			if err := pool.Health(ctx, 5*time.Second); err != nil {
				pool.Close()
				return nil, nil, err
			}
			return pool.Sheets(), pool.Close, nil
		},
	}

	res, err := apply(ctx, deps, s, *op, *n, *id)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if res.mutated {
		if err := savefile.WriteFile(engine, *savePath, res.state); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	printSheet(os.Stdout, engine, res)
	logger.Info("operation complete",
		zap.String("op", *op),
		zap.Bool("saved", res.mutated),
		zap.Duration("elapsed", time.Since(start)),
	)
}

// buildEngine loads the catalog and, when configured, the house-rule scripts.
//
// Postcondition: the returned close function is always non-nil.
func buildEngine(cfg config.Config, logger *zap.Logger) (*character.Engine, func(), error) {
	catalog, err := rules.LoadCatalog(cfg.Content.Dir)
	if err != nil {
		return nil, nil, fmt.Errorf("loading catalog from %s: %w", cfg.Content.Dir, err)
	}
	logger.Debug("catalog loaded",
		zap.Int("races", len(catalog.Races())),
		zap.Int("items", len(catalog.Items())),
		zap.Int("feats", len(catalog.Feats())),
	)

	var src dice.Source
	if cfg.Dice.Seed != 0 {
		src = dice.NewSeededSource(cfg.Dice.Seed)
	} else {
		src = dice.NewCryptoSource()
	}
	roller := dice.NewLoggedRoller(src, logger)

	engine := character.NewEngine(catalog, cfg.Rules.ToRules(), roller, logger)
	if cfg.Content.ScriptsDir == "" {
		return engine, func() {}, nil
	}

	scriptsDir := cfg.Content.ScriptsDir
	if !filepath.IsAbs(scriptsDir) {
		if _, err := os.Stat(scriptsDir); errors.Is(err, fs.ErrNotExist) {
			scriptsDir = filepath.Join(cfg.Content.Dir, scriptsDir)
		}
	}
	hooks, err := scripting.LoadHouseRules(scriptsDir, cfg.Content.ScriptInstructionLimit, roller, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("loading house rules from %s: %w", scriptsDir, err)
	}
	engine.Hooks = hooks
	return engine, hooks.Close, nil
}

// loadOrCreate reads the save at path, or starts a new character when the
// file does not exist yet.
func loadOrCreate(e *character.Engine, path string) (character.State, error) {
	s, err := savefile.ReadFile(e, path)
	if errors.Is(err, fs.ErrNotExist) {
		e.Logger.Info("save not found, starting a new character", zap.String("path", path))
		return e.New(), nil
	}
	return s, err
}

func printSheet(w io.Writer, e *character.Engine, res result) {
	for _, line := range res.report {
		fmt.Fprintln(w, line)
	}
	if len(res.report) > 0 {
		fmt.Fprintln(w)
	}
	name := res.state.Name
	if name == "" {
		name = "(без имени)"
	}
	fmt.Fprintf(w, "%s, уровень %d\n", name, res.state.Level)
	for _, line := range derive.Lines(e.DerivedStats(res.state)) {
		fmt.Fprintln(w, line)
	}
}
