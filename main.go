package main

// go build -o codemaze .

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"
	"golang.org/x/term"
)

// Version of the game.
// Версия игры.
const Version = "1.0.0"

// printVersion prints the game version.
// printVersion выводит версию игры.
func printVersion() {
	fmt.Println("codemaze version", Version)
}

// parseEditTarget parses "level/id" as given to -edit.
func parseEditTarget(s string) (int, string, error) {
	lvl, id, ok := strings.Cut(s, "/")
	if !ok || id == "" {
		return 0, "", fmt.Errorf("-edit wants level/id, got %q", s)
	}
	n, err := strconv.Atoi(lvl)
	if err != nil || n < 1 {
		return 0, "", fmt.Errorf("-edit: bad level %q", lvl)
	}
	return n, id, nil
}

// main is the entry point of the program.
// main является точкой входа в программу.
func main() {
	if luaChildRequested() {
		os.Exit(runLuaChild(os.Stdin, os.Stdout, os.Stderr))
	}

	var (
		configPath  string
		storePath   string
		startLevel  int
		editTarget  string
		listOnly    bool
		lang        string
		showVersion bool
	)
	flag.StringVar(&configPath, "config", "", "path to config.toml")
	flag.StringVar(&storePath, "store", "", "path to the exercise store (JSON)")
	flag.IntVar(&startLevel, "level", 0, "start at level N")
	flag.StringVar(&editTarget, "edit", "", "open one exercise in the editor: level/id")
	flag.BoolVar(&listOnly, "list", false, "list exercises and progress")
	flag.StringVar(&lang, "lang", "", "interface language: en or ru")
	flag.BoolVar(&showVersion, "version", false, "Show version")
	flag.BoolVar(&showVersion, "v", false, "Show version (short)")
	flag.Usage = printUsageExtended
	flag.Parse()

	if showVersion {
		printVersion()
		return
	}
	if err := run(configPath, storePath, startLevel, editTarget, listOnly, lang); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(configPath, storePath string, startLevel int, editTarget string, listOnly bool, lang string) error {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return err
	}
	if storePath != "" {
		cfg.StorePath = storePath
	}
	if lang != "" {
		cfg.Language = lang
	}

	logger, logCloser, err := openLogger(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logCloser.Close()
	logger = logger.With("run", uuid.NewString())
	slog.SetDefault(logger)

	tr := NewTranslator(cfg.Language)
	store := NewExerciseStore(cfg.StorePath, cfg.Editor.DefaultLanguage, logger)
	defer store.Close()
	logger.Info("exercise store", "path", store.Path(), "lang", tr.Lang())
	progress, err := LoadProgress(cfg.ProgressPath)
	if err != nil {
		return err
	}

	if listOnly {
		return printCatalog(os.Stdout, store, progress, tr)
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("codemaze needs an interactive terminal")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if cfg.WatchStore {
		if err := store.Watch(ctx); err != nil {
			logger.Warn("exercise store not watched", "err", err)
		}
	}

	judge := NewJudge(cfg.Judge.Timeout.Duration, cfg.Judge.Interpreters, logger)
	clip := NewClipboard(cfg.Editor.SystemClipboard)

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}

	if editTarget != "" {
		level, id, err := parseEditTarget(editTarget)
		if err != nil {
			screen.Fini()
			return err
		}
		s := NewSession(store.Load(level, id), judge, clip, NewTheme(cfg.Theme), tr, logger)
		outcome := s.Run(ctx, screen)
		screen.Fini()
		if outcome == Completed {
			if err := progress.MarkCleared(level, id, time.Now()); err != nil {
				return err
			}
			fmt.Println(colorSummary.Sprint(tr.T("PASSED")))
		}
		return nil
	}

	if startLevel < 1 {
		startLevel = progress.Level()
	}
	game := NewGame(cfg, store, judge, clip, progress, tr, logger)
	err = game.Run(ctx, screen, startLevel)
	screen.Fini()
	if err != nil {
		return err
	}
	logger.Info("game over", "cleared", game.Cleared(), "finished", game.Finished())
	printSummary(os.Stdout, cfg.PlayerName, progress, game.Finished(), tr)
	return nil
}
