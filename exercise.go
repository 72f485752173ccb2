package main

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/tidwall/gjson"
)

//go:embed question_store.json
var embeddedStore []byte

var (
	// ErrExerciseNotFound is returned when the store has no entry for (level, id).
	ErrExerciseNotFound = errors.New("exercise not found")
	// ErrInvalidStore is returned when the store is not valid JSON.
	ErrInvalidStore = errors.New("invalid exercise store")
)

// Exercise is one programming task guarding an obstacle.
// Exercise - задание, охраняющее препятствие.
type Exercise struct {
	Level          int
	ID             string
	Instructions   string
	StarterCode    []string
	ExpectedOutput string
	Language       string
}

// DefaultExercise is used whenever the store cannot provide an exercise.
// DefaultExercise используется, если задание не удалось загрузить.
func DefaultExercise(level int, id, language string) Exercise {
	return Exercise{
		Level:          level,
		ID:             id,
		Instructions:   "Print 'HW' to break the bush",
		StarterCode:    []string{"print()"},
		ExpectedOutput: "HW",
		Language:       language,
	}
}

// ExerciseStore reads exercises from a JSON document shaped as
// {"level1": {"bush1": {"instructions", "pre_code", "expected_output"}}}.
// An empty path means the embedded store. File contents are cached until the
// watcher marks them stale.
// ExerciseStore читает задания из JSON-хранилища.
type ExerciseStore struct {
	path            string
	defaultLanguage string
	logger          *slog.Logger

	mu      sync.Mutex
	cache   []byte
	stale   bool
	watcher *fsnotify.Watcher
}

// NewExerciseStore creates a store for path. A nil logger discards messages.
func NewExerciseStore(path, defaultLanguage string, logger *slog.Logger) *ExerciseStore {
	if logger == nil {
		logger = discardLogger()
	}
	if defaultLanguage == "" {
		defaultLanguage = LangPython
	}
	return &ExerciseStore{
		path:            path,
		defaultLanguage: defaultLanguage,
		logger:          logger,
		stale:           true,
	}
}

// Path returns the store file, or "" for the embedded store.
func (s *ExerciseStore) Path() string {
	return s.path
}

// Invalidate drops the cached document so the next lookup rereads the file.
func (s *ExerciseStore) Invalidate() {
	s.mu.Lock()
	s.stale = true
	s.mu.Unlock()
}

func (s *ExerciseStore) data() ([]byte, error) {
	if s.path == "" {
		return embeddedStore, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stale && s.cache != nil {
		return s.cache, nil
	}
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read exercise store: %w", err)
	}
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("%s: %w", s.path, ErrInvalidStore)
	}
	s.cache = raw
	s.stale = false
	return raw, nil
}

// Lookup returns the exercise for (level, id) or an error.
// Lookup возвращает задание или ошибку.
func (s *ExerciseStore) Lookup(level int, id string) (Exercise, error) {
	raw, err := s.data()
	if err != nil {
		return Exercise{}, err
	}
	entry := gjson.GetBytes(raw, levelKey(level)+"."+gjson.Escape(id))
	if !entry.IsObject() {
		return Exercise{}, fmt.Errorf("level %d %q: %w", level, id, ErrExerciseNotFound)
	}
	for _, field := range []string{"instructions", "pre_code", "expected_output"} {
		if entry.Get(field).Type != gjson.String {
			return Exercise{}, fmt.Errorf("level %d %q: missing %s: %w", level, id, field, ErrInvalidStore)
		}
	}
	return s.exerciseFrom(level, id, entry), nil
}

// Load returns the exercise for (level, id), falling back to the default
// exercise on any failure. Failures are logged, never returned.
// Load возвращает задание или задание по умолчанию.
func (s *ExerciseStore) Load(level int, id string) Exercise {
	ex, err := s.Lookup(level, id)
	if err != nil {
		s.logger.Warn("exercise load failed, using default",
			"level", level, "id", id, "err", err)
		return DefaultExercise(level, id, s.defaultLanguage)
	}
	return ex
}

// Catalog lists every exercise in the store ordered by level and id.
// Catalog перечисляет все задания хранилища.
func (s *ExerciseStore) Catalog() ([]Exercise, error) {
	raw, err := s.data()
	if err != nil {
		return nil, err
	}
	var out []Exercise
	gjson.ParseBytes(raw).ForEach(func(key, value gjson.Result) bool {
		level, ok := parseLevelKey(key.String())
		if !ok || !value.IsObject() {
			return true
		}
		value.ForEach(func(id, entry gjson.Result) bool {
			if entry.IsObject() {
				out = append(out, s.exerciseFrom(level, id.String(), entry))
			}
			return true
		})
		return true
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Level != out[j].Level {
			return out[i].Level < out[j].Level
		}
		return naturalLess(out[i].ID, out[j].ID)
	})
	return out, nil
}

func (s *ExerciseStore) exerciseFrom(level int, id string, entry gjson.Result) Exercise {
	lang := strings.ToLower(entry.Get("language").String())
	if lang == "" {
		lang = s.defaultLanguage
	}
	return Exercise{
		Level:          level,
		ID:             id,
		Instructions:   entry.Get("instructions").String(),
		StarterCode:    splitCode(entry.Get("pre_code").String()),
		ExpectedOutput: entry.Get("expected_output").String(),
		Language:       lang,
	}
}

func splitCode(code string) []string {
	code = strings.ReplaceAll(code, "\r\n", "\n")
	if code == "" {
		return []string{""}
	}
	return strings.Split(code, "\n")
}

func levelKey(level int) string {
	return "level" + strconv.Itoa(level)
}

func parseLevelKey(key string) (int, bool) {
	rest, ok := strings.CutPrefix(key, "level")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// naturalLess orders "bush2" before "bush10".
func naturalLess(a, b string) bool {
	ta, na := splitTrailingNumber(a)
	tb, nb := splitTrailingNumber(b)
	if ta != tb || na < 0 || nb < 0 {
		return a < b
	}
	return na < nb
}

func splitTrailingNumber(s string) (string, int) {
	i := len(s)
	for i > 0 && s[i-1] >= '0' && s[i-1] <= '9' {
		i--
	}
	if i == len(s) {
		return s, -1
	}
	n, err := strconv.Atoi(s[i:])
	if err != nil {
		return s, -1
	}
	return s[:i], n
}
