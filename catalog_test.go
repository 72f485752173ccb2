package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/gookit/color"
)

func TestPrintCatalog(t *testing.T) {
	store := NewExerciseStore("", "", nil)
	progress, _ := LoadProgress("")
	if err := progress.MarkCleared(1, "bush1", time.Now()); err != nil {
		t.Fatalf("MarkCleared: %v", err)
	}
	var out bytes.Buffer
	if err := printCatalog(&out, store, progress, NewTranslator("en")); err != nil {
		t.Fatalf("printCatalog: %v", err)
	}
	text := out.String()
	for _, want := range []string{"Level 1", "Level 3", "bush1", "Print 'HW' to break the bush", "done", "todo", "lua"} {
		if !strings.Contains(text, want) {
			t.Fatalf("catalog missing %q:\n%s", want, text)
		}
	}
}

func TestPrintCatalogAlignsColouredColumns(t *testing.T) {
	old := color.ForceOpenColor()
	defer color.ForceSetColorLevel(old)

	store := NewExerciseStore("", "", nil)
	progress, _ := LoadProgress("")
	_ = progress.MarkCleared(1, "bush1", time.Now())
	var out bytes.Buffer
	if err := printCatalog(&out, store, progress, NewTranslator("en")); err != nil {
		t.Fatalf("printCatalog: %v", err)
	}
	raw := out.String()
	if !strings.Contains(raw, "\x1b[") {
		t.Fatalf("expected colour codes in %q", raw)
	}

	lines := strings.Split(color.ClearCode(raw), "\n")
	if lines[1] != "  bush1    python  done Print 'HW' to break the bush" {
		t.Fatalf("first entry = %q", lines[1])
	}
	for _, line := range lines {
		if !strings.HasPrefix(line, "  ") {
			continue
		}
		if line[10] != ' ' || line[18] != ' ' || line[23] != ' ' {
			t.Fatalf("misaligned entry %q", line)
		}
	}
}

func TestPrintSummary(t *testing.T) {
	progress, _ := LoadProgress("")
	_ = progress.MarkCleared(1, "bush1", time.Now())
	_ = progress.MarkCleared(1, "bush2", time.Now())
	var out bytes.Buffer
	printSummary(&out, "alice", progress, true, NewTranslator("en"))
	text := out.String()
	if !strings.Contains(text, "You escaped every maze!") || !strings.Contains(text, "alice cleared 2 bush(es) on 1 level(s)") {
		t.Fatalf("summary:\n%s", text)
	}
}
