package main

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
)

func luaExercise(code, expected string) Exercise {
	return Exercise{
		Level:          1,
		ID:             "bush1",
		Instructions:   "Print something",
		StarterCode:    strings.Split(code, "\n"),
		ExpectedOutput: expected,
		Language:       LangLua,
	}
}

func newTestSession(ex Exercise) *Session {
	j := NewJudge(5*time.Second, nil, nil)
	return NewSession(ex, j, NewClipboard(false), DefaultTheme(), NewTranslator("en"), nil)
}

func keyEvent(k tcell.Key, mod tcell.ModMask) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, mod)
}

func runeKey(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func newSimScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen init: %v", err)
	}
	screen.SetSize(80, 24)
	t.Cleanup(screen.Fini)
	return screen
}

// screenText returns the visible screen as one string per row.
func screenText(screen tcell.SimulationScreen) []string {
	cells, w, h := screen.GetContents()
	rows := make([]string, h)
	for y := 0; y < h; y++ {
		var sb strings.Builder
		for x := 0; x < w; x++ {
			c := cells[y*w+x]
			if len(c.Runes) == 0 {
				sb.WriteByte(' ')
				continue
			}
			sb.WriteRune(c.Runes[0])
		}
		rows[y] = sb.String()
	}
	return rows
}

func TestNewSessionDefaultsTheme(t *testing.T) {
	s := NewSession(luaExercise("", "x"), NewJudge(time.Second, nil, nil), nil, Theme{}, nil, nil)
	if s.theme != DefaultTheme() {
		t.Fatalf("a zero theme should fall back to the default theme")
	}
	if s.ID() == "" {
		t.Fatalf("session id is empty")
	}
}

func TestSessionTyping(t *testing.T) {
	s := newTestSession(luaExercise("", "x"))
	s.handleKey(runeKey('h'))
	s.handleKey(runeKey('i'))
	s.handleKey(keyEvent(tcell.KeyEnter, tcell.ModNone))
	s.handleKey(runeKey('!'))
	if got := s.Buffer().Text(); got != "hi\n!" {
		t.Fatalf("buffer = %q", got)
	}
	s.handleKey(keyEvent(tcell.KeyBackspace2, tcell.ModNone))
	s.handleKey(keyEvent(tcell.KeyBackspace2, tcell.ModNone))
	if got := s.Buffer().Text(); got != "hi" {
		t.Fatalf("buffer after backspace = %q", got)
	}
	if s.State() != StateEditing {
		t.Fatalf("state = %v", s.State())
	}
}

func TestSessionEscape(t *testing.T) {
	s := newTestSession(luaExercise("abc", "x"))
	s.handleKey(keyEvent(tcell.KeyRight, tcell.ModShift))
	if !s.Buffer().HasSelection() {
		t.Fatalf("shift+right should start a selection")
	}
	s.handleKey(keyEvent(tcell.KeyEscape, tcell.ModNone))
	if s.Buffer().HasSelection() || s.State() != StateEditing {
		t.Fatalf("first Esc should only clear the selection")
	}
	s.handleKey(keyEvent(tcell.KeyEscape, tcell.ModNone))
	if s.State() != StateCancelled || s.Outcome() != Cancelled {
		t.Fatalf("second Esc should cancel, state = %v", s.State())
	}
	s.handleKey(runeKey('x'))
	if s.Buffer().Text() != "abc" {
		t.Fatalf("keys after cancel must be ignored")
	}
}

func TestSessionSubmitMatch(t *testing.T) {
	s := newTestSession(luaExercise(`print("hi")`, "hi"))
	s.handleKey(keyEvent(tcell.KeyCtrlX, tcell.ModCtrl))
	if s.State() != StateDone || s.Outcome() != Completed {
		t.Fatalf("state = %v, result %+v", s.State(), s.LastResult())
	}
	if !s.LastResult().Matched {
		t.Fatalf("result should match")
	}
}

func TestSessionSubmitMismatchShowsPopup(t *testing.T) {
	s := newTestSession(luaExercise(`print("bye")`, "hi"))
	s.handleKey(keyEvent(tcell.KeyCtrlX, tcell.ModCtrl))
	if s.State() != StatePopup {
		t.Fatalf("state = %v", s.State())
	}
	lines := s.popupLines()
	if lines[0] != "Incorrect code, press any key to continue" {
		t.Fatalf("popup title = %q", lines[0])
	}
	if lines[2] != "Your output: bye" {
		t.Fatalf("popup output = %q", lines[2])
	}

	s.handleKey(runeKey('z'))
	if s.State() != StateEditing {
		t.Fatalf("any key should dismiss the popup, state = %v", s.State())
	}
	if s.Buffer().Text() != `print("bye")` {
		t.Fatalf("dismissing key must not be typed, buffer = %q", s.Buffer().Text())
	}
}

func TestSessionPopupShowsError(t *testing.T) {
	s := newTestSession(luaExercise(`error("boom")`, "hi"))
	s.handleKey(keyEvent(tcell.KeyCtrlX, tcell.ModCtrl))
	if s.State() != StatePopup {
		t.Fatalf("state = %v", s.State())
	}
	if !strings.Contains(strings.Join(s.popupLines(), "\n"), "boom") {
		t.Fatalf("popup should show the error, got %q", s.popupLines())
	}
}

func TestSessionPopupShowsTruncation(t *testing.T) {
	s := newTestSession(luaExercise(`for i = 1, 20000 do print("yyyyyyyyyy") end`, "y"))
	s.handleKey(keyEvent(tcell.KeyCtrlX, tcell.ModCtrl))
	if s.State() != StatePopup || !s.LastResult().Truncated {
		t.Fatalf("state = %v, truncated %v", s.State(), s.LastResult().Truncated)
	}
	lines := s.popupLines()
	if last := lines[len(lines)-1]; last != "Output cut off after 64 KiB" {
		t.Fatalf("last popup line = %q", last)
	}
}

func TestSessionCutCopyPaste(t *testing.T) {
	s := newTestSession(luaExercise("abc", "x"))
	s.handleKey(keyEvent(tcell.KeyCtrlC, tcell.ModCtrl))
	if s.message != "Nothing selected" {
		t.Fatalf("message = %q", s.message)
	}

	s.handleKey(keyEvent(tcell.KeyRight, tcell.ModShift))
	s.handleKey(keyEvent(tcell.KeyRight, tcell.ModShift))
	s.handleKey(keyEvent(tcell.KeyCtrlC, tcell.ModCtrl))
	if s.message != "Copied 1 line(s)" || !s.Buffer().HasSelection() {
		t.Fatalf("copy: message %q, selection kept %v", s.message, s.Buffer().HasSelection())
	}

	s.handleKey(keyEvent(tcell.KeyCtrlX, tcell.ModCtrl))
	if s.State() != StateEditing {
		t.Fatalf("Ctrl+X with a selection must cut, not submit")
	}
	if s.Buffer().Text() != "c" || s.message != "Cut 1 line(s)" {
		t.Fatalf("cut: buffer %q, message %q", s.Buffer().Text(), s.message)
	}

	s.handleKey(keyEvent(tcell.KeyCtrlV, tcell.ModCtrl))
	if s.Buffer().Text() != "abc" {
		t.Fatalf("paste: buffer %q", s.Buffer().Text())
	}
}

func TestSessionMiscKeys(t *testing.T) {
	s := newTestSession(luaExercise("x", "x"))
	s.handleKey(keyEvent(tcell.KeyCtrlZ, tcell.ModCtrl))
	if s.Buffer().Text() != "x" || s.State() != StateEditing {
		t.Fatalf("Ctrl+Z should do nothing")
	}

	s.handleKey(keyEvent(tcell.KeyTab, tcell.ModNone))
	if s.Buffer().Text() != "    x" {
		t.Fatalf("Tab: buffer %q", s.Buffer().Text())
	}

	s.handleKey(keyEvent(tcell.KeyInsert, tcell.ModNone))
	if !s.Buffer().Overwrite() {
		t.Fatalf("Insert should enable overwrite")
	}
	s.handleKey(runeKey('y'))
	if s.Buffer().Text() != "    y" {
		t.Fatalf("overwrite: buffer %q", s.Buffer().Text())
	}

	s.handleKey(keyEvent(tcell.KeyHome, tcell.ModCtrl))
	if s.Buffer().Cursor() != (Pos{}) {
		t.Fatalf("Ctrl+Home: cursor %+v", s.Buffer().Cursor())
	}
	s.handleKey(keyEvent(tcell.KeyEnd, tcell.ModShift))
	if got := s.Buffer().SelectedText(); got != "    y" {
		t.Fatalf("Shift+End selected %q", got)
	}
	s.handleKey(keyEvent(tcell.KeyDelete, tcell.ModNone))
	if s.Buffer().Text() != "" {
		t.Fatalf("Delete should remove the selection, buffer %q", s.Buffer().Text())
	}
}

func TestSessionRunCompletes(t *testing.T) {
	screen := newSimScreen(t)
	s := newTestSession(luaExercise(`print("hi")`, "hi"))
	screen.InjectKey(tcell.KeyCtrlX, 0, tcell.ModCtrl)
	if got := s.Run(context.Background(), screen); got != Completed {
		t.Fatalf("Run = %v", got)
	}
}

func TestSessionRunCancel(t *testing.T) {
	screen := newSimScreen(t)
	s := newTestSession(luaExercise(`print("bye")`, "hi"))
	screen.InjectKey(tcell.KeyCtrlX, 0, tcell.ModCtrl)
	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	screen.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)
	if got := s.Run(context.Background(), screen); got != Cancelled {
		t.Fatalf("Run = %v", got)
	}
	if s.Buffer().Text() != `print("bye")` {
		t.Fatalf("buffer = %q", s.Buffer().Text())
	}
}

func TestSessionRunStopsOnCancelledContext(t *testing.T) {
	screen := newSimScreen(t)
	s := newTestSession(luaExercise("", "hi"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if got := s.Run(ctx, screen); got != Cancelled {
		t.Fatalf("Run = %v", got)
	}
}

func TestSessionRendersPopup(t *testing.T) {
	screen := newSimScreen(t)
	s := newTestSession(luaExercise(`print("bye")`, "hi"))
	s.screen = screen
	s.refreshSize()
	s.submit()
	s.render()

	text := strings.Join(screenText(screen), "\n")
	for _, want := range []string{"Task Instructions:", "Expected Output: hi", "Incorrect code", "Your output: bye"} {
		if !strings.Contains(text, want) {
			t.Fatalf("screen missing %q:\n%s", want, text)
		}
	}
}

func TestWrapText(t *testing.T) {
	got := wrapText("abcdef\ngh", 4)
	want := []string{"abcd", "ef", "gh"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("wrapText = %q", got)
	}
}
