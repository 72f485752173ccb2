package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Duration is a time.Duration written as "10s" or "1m30s" in config files.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Config is the game configuration read from config.toml.
// Config - конфигурация игры из config.toml.
type Config struct {
	// Language of the interface: "en" or "ru". Empty means detect from the system.
	Language     string       `toml:"language"`
	LogFile      string       `toml:"log_file"`
	LogLevel     string       `toml:"log_level"`
	StorePath    string       `toml:"store"`
	ProgressPath string       `toml:"progress"`
	WatchStore   bool         `toml:"watch_store"`
	PlayerName   string       `toml:"player_name"`
	Editor       EditorConfig `toml:"editor"`
	Judge        JudgeConfig  `toml:"judge"`
	Theme        ThemeConfig  `toml:"theme"`
	Levels       []LevelSpec  `toml:"level"`
}

// EditorConfig holds editor settings.
type EditorConfig struct {
	SystemClipboard bool   `toml:"system_clipboard"`
	DefaultLanguage string `toml:"default_language"`
}

// JudgeConfig holds run-and-compare settings.
type JudgeConfig struct {
	Timeout      Duration            `toml:"timeout"`
	Interpreters map[string][]string `toml:"interpreters"`
}

// ThemeConfig names colors understood by tcell.GetColor ("green", "#ff8800").
type ThemeConfig struct {
	Foreground string `toml:"foreground"`
	Background string `toml:"background"`
	Keyword    string `toml:"keyword"`
	String     string `toml:"string"`
	Comment    string `toml:"comment"`
	Number     string `toml:"number"`
	Function   string `toml:"function"`
	Operator   string `toml:"operator"`
	Selection  string `toml:"selection"`
	Bracket    string `toml:"bracket"`
	Header     string `toml:"header"`
	Status     string `toml:"status"`
	Popup      string `toml:"popup"`
	Error      string `toml:"error"`
	Player     string `toml:"player"`
	Wall       string `toml:"wall"`
	Bush       string `toml:"bush"`
	Obstacle   string `toml:"obstacle"`
	Exit       string `toml:"exit"`
}

func defaultInterpreters() map[string][]string {
	return map[string][]string{
		LangPython: {"python3"},
		LangRuby:   {"ruby"},
		LangShell:  {"sh"},
	}
}

func defaultLevels() []LevelSpec {
	return []LevelSpec{
		{Number: 1, Generator: "corridor", Seed: 1, Width: 60, Height: 20, Obstacles: 3, Decorations: 12},
		{Number: 2, Generator: "field", Seed: 2, Width: 60, Height: 20, Obstacles: 4, Decorations: 30},
		{Number: 3, Generator: "winding", Seed: 3, Width: 60, Height: 20, Obstacles: 5, Decorations: 20},
	}
}

// DefaultConfig returns the built-in configuration.
// DefaultConfig возвращает конфигурацию по умолчанию.
func DefaultConfig() Config {
	return Config{
		LogLevel:     "info",
		ProgressPath: defaultDataPath("progress.json"),
		WatchStore:   true,
		PlayerName:   "player",
		Editor: EditorConfig{
			SystemClipboard: true,
			DefaultLanguage: LangPython,
		},
		Judge: JudgeConfig{
			Timeout:      Duration{DefaultTimeout},
			Interpreters: defaultInterpreters(),
		},
		Theme: ThemeConfig{
			Foreground: "white",
			Background: "black",
			Keyword:    "yellow",
			String:     "green",
			Comment:    "gray",
			Number:     "fuchsia",
			Function:   "aqua",
			Operator:   "red",
			Selection:  "silver",
			Bracket:    "blue",
			Header:     "navy",
			Status:     "blue",
			Popup:      "maroon",
			Error:      "red",
			Player:     "yellow",
			Wall:       "gray",
			Bush:       "green",
			Obstacle:   "lime",
			Exit:       "blue",
		},
		Levels: defaultLevels(),
	}
}

// defaultConfigPath returns the user config file location, or "" when the
// user config directory is unknown.
func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "codemaze", "config.toml")
}

func defaultDataPath(name string) string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return name
	}
	return filepath.Join(dir, "codemaze", name)
}

// LoadConfig reads path over the defaults. A missing file is not an error.
// An empty path means the user config file. Environment overrides are
// applied last.
// LoadConfig читает конфигурацию поверх значений по умолчанию.
func LoadConfig(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath()
	}
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if cfg, err = parseConfig(data); err != nil {
				return Config{}, fmt.Errorf("config %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist) && !explicit:
		default:
			return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// parseConfig decodes TOML data over the defaults. Unknown keys are errors.
func parseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	cfg.Levels = nil
	cfg.Judge.Interpreters = nil

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return Config{}, fmt.Errorf("unknown keys:\n%s", strict.String())
		}
		return Config{}, err
	}

	if len(cfg.Levels) == 0 {
		cfg.Levels = defaultLevels()
	}
	if cfg.Judge.Interpreters == nil {
		cfg.Judge.Interpreters = make(map[string][]string)
	}
	for lang, argv := range defaultInterpreters() {
		if _, ok := cfg.Judge.Interpreters[lang]; !ok {
			cfg.Judge.Interpreters[lang] = argv
		}
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if py := os.Getenv("CODEMAZE_PYTHON"); py != "" {
		if argv := splitArgs(py); len(argv) > 0 {
			c.Judge.Interpreters[LangPython] = argv
		}
	}
	if lang := os.Getenv("CODEMAZE_LANG"); lang != "" {
		c.Language = lang
	}
}

// Validate checks the values the game cannot recover from.
func (c *Config) Validate() error {
	if c.Judge.Timeout.Duration < 0 {
		return fmt.Errorf("judge timeout must not be negative: %s", c.Judge.Timeout.Duration)
	}
	for i, spec := range c.Levels {
		if _, err := generatorFor(spec.Generator); err != nil {
			return fmt.Errorf("level %d: %w", i+1, err)
		}
		if spec.Width < minMazeWidth || spec.Height < minMazeHeight {
			return fmt.Errorf("level %d: maze must be at least %dx%d", i+1, minMazeWidth, minMazeHeight)
		}
		if spec.Obstacles < 0 || spec.Decorations < 0 {
			return fmt.Errorf("level %d: negative obstacle or decoration count", i+1)
		}
	}
	return nil
}
