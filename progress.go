package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// Progress is the persisted record of cleared obstacles:
// {"level": 2, "completed": {"level1": {"bush1": "2024-05-01T10:00:00Z"}}}.
// An empty path keeps progress in memory only.
// Progress - сохраненный прогресс игрока.
type Progress struct {
	path string
	doc  []byte
}

// LoadProgress reads the progress file. A missing file starts fresh; a
// corrupt one is reported so it is not silently overwritten.
func LoadProgress(path string) (*Progress, error) {
	p := &Progress{path: path, doc: []byte(`{}`)}
	if path == "" {
		return p, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return p, nil
		}
		return nil, fmt.Errorf("read progress: %w", err)
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("progress file %s is not valid JSON", path)
	}
	p.doc = data
	return p, nil
}

// Level returns the highest level reached, at least 1.
func (p *Progress) Level() int {
	if n := int(gjson.GetBytes(p.doc, "level").Int()); n > 1 {
		return n
	}
	return 1
}

// SetLevel records the level the player reached.
func (p *Progress) SetLevel(level int) error {
	if level <= p.Level() {
		return nil
	}
	return p.set("level", level)
}

// Cleared reports whether the obstacle was cleared before.
func (p *Progress) Cleared(level int, id string) bool {
	return gjson.GetBytes(p.doc, p.key(level, id)).Exists()
}

// MarkCleared records the obstacle as cleared at t.
func (p *Progress) MarkCleared(level int, id string, t time.Time) error {
	return p.set(p.key(level, id), t.UTC().Format(time.RFC3339))
}

// ClearedCount returns the number of cleared obstacles and of levels that
// have at least one cleared obstacle.
func (p *Progress) ClearedCount() (obstacles, levels int) {
	gjson.GetBytes(p.doc, "completed").ForEach(func(_, lvl gjson.Result) bool {
		n := 0
		lvl.ForEach(func(_, _ gjson.Result) bool {
			n++
			return true
		})
		if n > 0 {
			obstacles += n
			levels++
		}
		return true
	})
	return obstacles, levels
}

func (p *Progress) key(level int, id string) string {
	return "completed." + levelKey(level) + "." + gjson.Escape(id)
}

func (p *Progress) set(path string, value interface{}) error {
	doc, err := sjson.SetBytes(p.doc, path, value)
	if err != nil {
		return fmt.Errorf("update progress: %w", err)
	}
	p.doc = doc
	return p.save()
}

// save writes the document through a temp file so a crash never leaves a
// truncated progress file.
func (p *Progress) save() error {
	if p.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	tmp := p.path + ".tmp"
	if err := os.WriteFile(tmp, pretty.Pretty(p.doc), 0o644); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	if err := os.Rename(tmp, p.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}
