package main

import (
	"math/rand"
	"reflect"
	"testing"
)

func newTestBuffer(lines ...string) *Buffer {
	return NewBuffer(lines, NewClipboard(false))
}

func checkLines(t *testing.T, b *Buffer, want ...string) {
	t.Helper()
	if got := b.Lines(); !reflect.DeepEqual(got, want) {
		t.Fatalf("lines = %q, want %q", got, want)
	}
}

func checkCursor(t *testing.T, b *Buffer, row, col int) {
	t.Helper()
	if got := b.Cursor(); got != (Pos{Row: row, Col: col}) {
		t.Fatalf("cursor = %+v, want (%d,%d)", got, row, col)
	}
}

func TestNewBufferNeverEmpty(t *testing.T) {
	b := NewBuffer(nil, nil)
	checkLines(t, b, "")
	checkCursor(t, b, 0, 0)

	b = newTestBuffer("a\r", "b")
	checkLines(t, b, "a", "b")
}

func TestInsertChar(t *testing.T) {
	b := newTestBuffer("ab")
	b.Move(DirRight)
	b.InsertChar('x')
	checkLines(t, b, "axb")
	checkCursor(t, b, 0, 2)

	b.InsertChar('é')
	checkLines(t, b, "axéb")
	checkCursor(t, b, 0, 3)
}

func TestInsertCharOverwrite(t *testing.T) {
	b := newTestBuffer("abc")
	b.Move(DirRight)
	b.ToggleOverwrite()
	b.InsertChar('X')
	checkLines(t, b, "aXc")
	checkCursor(t, b, 0, 2)

	b.End()
	b.InsertChar('d')
	checkLines(t, b, "aXcd")

	b.ToggleOverwrite()
	if b.Overwrite() {
		t.Fatalf("overwrite should be off after second toggle")
	}
}

func TestInsertCharClearsSelection(t *testing.T) {
	b := newTestBuffer("abc")
	b.SetAnchor()
	b.Move(DirRight)
	b.InsertChar('z')
	if b.HasSelection() {
		t.Fatalf("typing should clear the selection")
	}
	checkLines(t, b, "azbc")
}

func TestSplitLine(t *testing.T) {
	b := newTestBuffer("hello", "world")
	b.Move(DirRight)
	b.Move(DirRight)
	b.SplitLine()
	checkLines(t, b, "he", "llo", "world")
	checkCursor(t, b, 1, 0)

	b.DocEnd()
	b.SplitLine()
	checkLines(t, b, "he", "llo", "world", "")
	checkCursor(t, b, 3, 0)
}

func TestJoinWithPrevious(t *testing.T) {
	b := newTestBuffer("he", "llo")
	b.Move(DirDown)
	b.DeleteBackward()
	checkLines(t, b, "hello")
	checkCursor(t, b, 0, 2)

	// First line, column 0: nothing to join.
	b.DocStart()
	b.DeleteBackward()
	checkLines(t, b, "hello")
	checkCursor(t, b, 0, 0)
}

func TestDeleteBackwardUnindents(t *testing.T) {
	b := newTestBuffer("    x")
	for i := 0; i < 4; i++ {
		b.Move(DirRight)
	}
	b.DeleteBackward()
	checkLines(t, b, "x")
	checkCursor(t, b, 0, 0)

	b = newTestBuffer("x    ")
	b.End()
	b.DeleteBackward()
	checkLines(t, b, "x")
	checkCursor(t, b, 0, 1)

	b = newTestBuffer("a   b")
	b.End()
	b.DeleteBackward()
	checkLines(t, b, "a   ")
	b.DeleteBackward()
	checkLines(t, b, "a  ")
}

func TestDeleteForward(t *testing.T) {
	b := newTestBuffer("ab", "cd")
	b.DeleteForward()
	checkLines(t, b, "b", "cd")
	b.End()
	b.DeleteForward()
	checkLines(t, b, "bcd")
	checkCursor(t, b, 0, 1)

	b.DocEnd()
	b.DeleteForward()
	checkLines(t, b, "bcd")
}

func TestIndent(t *testing.T) {
	b := newTestBuffer("x")
	b.Indent()
	checkLines(t, b, "    x")
	checkCursor(t, b, 0, 4)
}

func TestMoveClampsAndDoesNotWrap(t *testing.T) {
	b := newTestBuffer("hello", "hi")
	b.End()
	b.Move(DirDown)
	checkCursor(t, b, 1, 2)

	b.Move(DirRight)
	checkCursor(t, b, 1, 2)

	b.Home()
	b.Move(DirLeft)
	checkCursor(t, b, 1, 0)

	b.Move(DirDown)
	checkCursor(t, b, 1, 0)
	b.Move(DirUp)
	b.Move(DirUp)
	checkCursor(t, b, 0, 0)
}

func TestMoveWrap(t *testing.T) {
	b := newTestBuffer("ab", "cd")
	b.End()
	b.MoveWrap(DirRight)
	checkCursor(t, b, 1, 0)
	b.MoveWrap(DirLeft)
	checkCursor(t, b, 0, 2)
	b.MoveWrap(DirLeft)
	checkCursor(t, b, 0, 1)
}

func TestCopyMultiLineSelection(t *testing.T) {
	b := newTestBuffer("abc", "def", "ghi")
	b.Move(DirRight)
	b.SetAnchor()
	b.Move(DirDown)
	b.Move(DirDown)
	b.Move(DirRight)

	n, err := b.Copy()
	if err != nil {
		t.Fatalf("Copy: %v", err)
	}
	if n != 3 {
		t.Fatalf("Copy lines = %d, want 3", n)
	}
	if got := b.clipboard.Text(); got != "bc\ndef\ngh" {
		t.Fatalf("clipboard = %q", got)
	}
	if !b.HasSelection() {
		t.Fatalf("copy should keep the selection")
	}
	checkLines(t, b, "abc", "def", "ghi")
}

func TestCopyEmptySelectionKeepsClipboard(t *testing.T) {
	b := newTestBuffer("abc")
	if err := b.clipboard.Set("kept"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	b.SetAnchor()
	n, err := b.Copy()
	if n != 0 || err != nil {
		t.Fatalf("Copy = %d, %v", n, err)
	}
	if got := b.clipboard.Text(); got != "kept" {
		t.Fatalf("clipboard = %q", got)
	}
}

func TestSelectionIsNormalized(t *testing.T) {
	b := newTestBuffer("abc", "def", "ghi")
	b.DocEnd()
	b.Move(DirLeft)
	b.SetAnchor()
	b.DocStart()
	b.Move(DirRight)

	sel, ok := b.Selection()
	if !ok {
		t.Fatalf("expected a selection")
	}
	if sel.Start != (Pos{0, 1}) || sel.End != (Pos{2, 2}) {
		t.Fatalf("selection = %+v", sel)
	}
	if got := b.SelectedText(); got != "bc\ndef\ngh" {
		t.Fatalf("selected text = %q", got)
	}
}

func TestCopyWithoutSelection(t *testing.T) {
	b := newTestBuffer("abc")
	n, err := b.Copy()
	if n != 0 || err != nil {
		t.Fatalf("Copy without selection = %d, %v", n, err)
	}
	if b.clipboard.Text() != "" {
		t.Fatalf("clipboard should stay empty")
	}
}

func TestCutDeletesSpan(t *testing.T) {
	b := newTestBuffer("abc", "def", "ghi")
	b.Move(DirRight)
	b.SetAnchor()
	b.Move(DirDown)
	b.Move(DirDown)
	b.Move(DirRight)

	n, err := b.Cut()
	if err != nil || n != 3 {
		t.Fatalf("Cut = %d, %v", n, err)
	}
	checkLines(t, b, "ai")
	checkCursor(t, b, 0, 1)
	if b.HasSelection() {
		t.Fatalf("cut should clear the selection")
	}

	b.Paste()
	checkLines(t, b, "abc", "def", "ghi")
	checkCursor(t, b, 2, 2)
}

func TestPasteMultiLine(t *testing.T) {
	b := newTestBuffer("XY")
	b.Move(DirRight)
	b.clipboard.Set("1\n2\n3")
	b.Paste()
	checkLines(t, b, "X1", "2", "3Y")
	checkCursor(t, b, 2, 1)

	// The clipboard survives a paste.
	b.Paste()
	checkLines(t, b, "X1", "2", "31", "2", "3Y")
}

func TestPasteInline(t *testing.T) {
	b := newTestBuffer("ad")
	b.Move(DirRight)
	b.clipboard.Set("bc")
	b.Paste()
	checkLines(t, b, "abcd")
	checkCursor(t, b, 0, 3)
}

func TestPasteTrailingNewline(t *testing.T) {
	b := newTestBuffer("ab")
	b.Move(DirRight)
	b.clipboard.Set("x\n")
	b.Paste()
	checkLines(t, b, "ax", "b")
	checkCursor(t, b, 1, 0)
}

func TestPasteEmptyClipboard(t *testing.T) {
	b := newTestBuffer("ab")
	b.Paste()
	checkLines(t, b, "ab")
	checkCursor(t, b, 0, 0)
}

func TestPasteReplacesSelection(t *testing.T) {
	b := newTestBuffer("hello world")
	b.clipboard.Set("there")
	for i := 0; i < 6; i++ {
		b.Move(DirRight)
	}
	b.SetAnchor()
	b.End()
	b.Paste()
	checkLines(t, b, "hello there")
}

func TestDeleteSelection(t *testing.T) {
	b := newTestBuffer("abc", "def")
	b.Move(DirRight)
	b.SetAnchor()
	b.Move(DirDown)
	if !b.DeleteSelection() {
		t.Fatalf("DeleteSelection should report a deletion")
	}
	checkLines(t, b, "aef")
	if b.DeleteSelection() {
		t.Fatalf("nothing left to delete")
	}
}

func TestInsertThenDeleteBackwardRoundTrip(t *testing.T) {
	lines := []string{"def f():", "    return 1", ""}
	for row, line := range lines {
		for col := 0; col <= runeLen(line); col++ {
			b := newTestBuffer(lines...)
			for i := 0; i < row; i++ {
				b.Move(DirDown)
			}
			b.Home()
			for i := 0; i < col; i++ {
				b.Move(DirRight)
			}
			b.InsertChar('z')
			b.DeleteBackward()
			checkLines(t, b, lines...)
			checkCursor(t, b, row, col)
		}
	}
}

func TestRandomEditsKeepCursorValid(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	b := newTestBuffer("print('a')", "", "x = 1")
	b.clipboard.Set("p\nq")
	ops := []func(){
		func() { b.InsertChar(rune('a' + rng.Intn(26))) },
		func() { b.InsertChar(' ') },
		b.SplitLine,
		b.DeleteBackward,
		b.DeleteForward,
		b.Indent,
		func() { b.Move(Direction(rng.Intn(4))) },
		func() { b.MoveWrap(Direction(rng.Intn(4))) },
		b.Home,
		b.End,
		b.DocStart,
		b.DocEnd,
		b.SetAnchor,
		b.ClearSelection,
		func() { b.Copy() },
		func() { b.Cut() },
		b.Paste,
		b.ToggleOverwrite,
		func() { b.DeleteSelection() },
	}
	for i := 0; i < 5000; i++ {
		ops[rng.Intn(len(ops))]()
		if b.LineCount() == 0 {
			t.Fatalf("step %d: buffer has no lines", i)
		}
		cur := b.Cursor()
		if cur.Row < 0 || cur.Row >= b.LineCount() {
			t.Fatalf("step %d: row %d out of range", i, cur.Row)
		}
		if cur.Col < 0 || cur.Col > runeLen(b.Line(cur.Row)) {
			t.Fatalf("step %d: col %d out of range for %q", i, cur.Col, b.Line(cur.Row))
		}
		if sel, ok := b.Selection(); ok && sel.End.Before(sel.Start) {
			t.Fatalf("step %d: selection not normalized: %+v", i, sel)
		}
	}
}

func TestMatchBracket(t *testing.T) {
	b := newTestBuffer("print(a[1])")
	for i := 0; i < 5; i++ {
		b.Move(DirRight)
	}
	pair, ok := b.MatchBracket()
	if !ok || pair.Open != (Pos{0, 5}) || pair.Close != (Pos{0, 10}) {
		t.Fatalf("pair = %+v, %v", pair, ok)
	}

	b.End()
	pair, ok = b.MatchBracket()
	if !ok || pair.Open != (Pos{0, 5}) {
		t.Fatalf("bracket behind cursor: %+v, %v", pair, ok)
	}
}

func TestMatchBracketAcrossLines(t *testing.T) {
	b := newTestBuffer("t = {", "  1,", "}")
	b.DocEnd()
	pair, ok := b.MatchBracket()
	if !ok || pair.Open != (Pos{0, 4}) || pair.Close != (Pos{2, 0}) {
		t.Fatalf("pair = %+v, %v", pair, ok)
	}

	b = newTestBuffer("(()")
	if _, ok := b.MatchBracket(); ok {
		t.Fatalf("unbalanced bracket should not match")
	}
}
