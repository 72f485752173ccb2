package main

import (
	"slices"
	"strings"
	"unicode"
)

// indentWidth is the number of spaces Tab inserts and Backspace removes at once.
const indentWidth = 4

// Direction is a cursor movement direction.
// Direction - направление перемещения курсора.
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

// Buffer is the editable code of one editor session: lines of text, a cursor,
// an optional selection anchor, insert/overwrite mode and the clipboard.
// The buffer always has at least one line and keeps the cursor inside it.
// Buffer - редактируемый код одной сессии: строки, курсор, якорь выделения,
// режим вставки/замены и буфер обмена.
type Buffer struct {
	lines        []string
	cx, cy       int
	selecting    bool
	selectStartX int
	selectStartY int
	overwrite    bool
	clipboard    *Clipboard
}

// NewBuffer creates a buffer seeded with lines. Nil or empty input gives a
// single empty line. The lines are copied.
// NewBuffer создает буфер из строк; пустой ввод дает одну пустую строку.
func NewBuffer(lines []string, clip *Clipboard) *Buffer {
	b := &Buffer{clipboard: clip}
	if b.clipboard == nil {
		b.clipboard = NewClipboard(false)
	}
	for _, l := range lines {
		b.lines = append(b.lines, strings.TrimRight(l, "\r"))
	}
	if len(b.lines) == 0 {
		b.lines = []string{""}
	}
	return b
}

// Lines returns a copy of the buffer lines.
func (b *Buffer) Lines() []string {
	return slices.Clone(b.lines)
}

// Text returns the buffer contents joined with "\n".
func (b *Buffer) Text() string {
	return strings.Join(b.lines, "\n")
}

// LineCount returns the number of lines.
func (b *Buffer) LineCount() int {
	return len(b.lines)
}

// Line returns line i, or "" when i is out of range.
func (b *Buffer) Line(i int) string {
	if i < 0 || i >= len(b.lines) {
		return ""
	}
	return b.lines[i]
}

// Cursor returns the cursor position.
func (b *Buffer) Cursor() Pos {
	return Pos{Row: b.cy, Col: b.cx}
}

// Overwrite reports whether overwrite mode is active.
func (b *Buffer) Overwrite() bool {
	return b.overwrite
}

// ToggleOverwrite switches between insert and overwrite mode.
// ToggleOverwrite переключает режим вставки и замены.
func (b *Buffer) ToggleOverwrite() {
	b.overwrite = !b.overwrite
}

func runeLen(s string) int {
	return len([]rune(s))
}

// clamp restores the cursor invariants after the lines changed.
// clamp восстанавливает инварианты курсора после изменения строк.
func (b *Buffer) clamp() {
	if len(b.lines) == 0 {
		b.lines = []string{""}
	}
	if b.cy < 0 {
		b.cy = 0
	}
	if b.cy >= len(b.lines) {
		b.cy = len(b.lines) - 1
	}
	if b.cx < 0 {
		b.cx = 0
	}
	if n := runeLen(b.lines[b.cy]); b.cx > n {
		b.cx = n
	}
}

// InsertChar inserts r at the cursor and advances it. In overwrite mode the
// rune under the cursor is replaced unless the cursor is at end of line.
// Starting a fresh insertion clears the selection.
// InsertChar вставляет символ в позицию курсора.
func (b *Buffer) InsertChar(r rune) {
	b.clamp()
	b.endSelection()
	lineRunes := []rune(b.lines[b.cy])
	if b.overwrite && b.cx < len(lineRunes) {
		lineRunes[b.cx] = r
	} else {
		lineRunes = append(lineRunes[:b.cx], append([]rune{r}, lineRunes[b.cx:]...)...)
	}
	b.lines[b.cy] = string(lineRunes)
	b.cx++
}

// insertInline inserts text without line breaks at the cursor.
func (b *Buffer) insertInline(text string) {
	lineRunes := []rune(b.lines[b.cy])
	left := string(lineRunes[:b.cx])
	right := string(lineRunes[b.cx:])
	b.lines[b.cy] = left + text + right
	b.cx += runeLen(text)
}

// SplitLine splits the current line at the cursor (Enter).
// SplitLine разбивает текущую строку в позиции курсора.
func (b *Buffer) SplitLine() {
	b.clamp()
	b.endSelection()
	lineRunes := []rune(b.lines[b.cy])
	left := string(lineRunes[:b.cx])
	right := string(lineRunes[b.cx:])
	b.lines[b.cy] = left
	b.lines = slices.Insert(b.lines, b.cy+1, right)
	b.cy++
	b.cx = 0
}

// JoinWithPrevious appends the current line to the previous one and puts the
// cursor at the join point. No-op on the first line.
// JoinWithPrevious присоединяет текущую строку к предыдущей.
func (b *Buffer) JoinWithPrevious() {
	b.clamp()
	if b.cy == 0 {
		return
	}
	b.endSelection()
	prev := b.lines[b.cy-1]
	b.lines[b.cy-1] = prev + b.lines[b.cy]
	b.lines = slices.Delete(b.lines, b.cy, b.cy+1)
	b.cy--
	b.cx = runeLen(prev)
}

// DeleteBackward removes the rune left of the cursor. Four whitespace runes
// left of the cursor are removed together; at column 0 the line is joined
// with the previous one.
// DeleteBackward удаляет символ перед курсором.
func (b *Buffer) DeleteBackward() {
	b.clamp()
	if b.cx == 0 {
		b.JoinWithPrevious()
		return
	}
	b.endSelection()
	lineRunes := []rune(b.lines[b.cy])
	n := 1
	if b.cx >= indentWidth && isBlank(lineRunes[b.cx-indentWidth:b.cx]) {
		n = indentWidth
	}
	lineRunes = append(lineRunes[:b.cx-n], lineRunes[b.cx:]...)
	b.lines[b.cy] = string(lineRunes)
	b.cx -= n
}

func isBlank(runes []rune) bool {
	for _, r := range runes {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// DeleteForward removes the rune under the cursor, or joins the next line
// when the cursor is at end of line.
// DeleteForward удаляет символ под курсором.
func (b *Buffer) DeleteForward() {
	b.clamp()
	lineRunes := []rune(b.lines[b.cy])
	switch {
	case b.cx < len(lineRunes):
		b.endSelection()
		lineRunes = append(lineRunes[:b.cx], lineRunes[b.cx+1:]...)
		b.lines[b.cy] = string(lineRunes)
	case b.cy < len(b.lines)-1:
		b.endSelection()
		b.lines[b.cy] += b.lines[b.cy+1]
		b.lines = slices.Delete(b.lines, b.cy+1, b.cy+2)
	}
}

// Indent inserts indentWidth spaces at the cursor.
// Indent вставляет отступ из четырех пробелов.
func (b *Buffer) Indent() {
	b.clamp()
	b.endSelection()
	b.insertInline(strings.Repeat(" ", indentWidth))
}

// Move moves the cursor one step without wrapping between lines.
// Vertical moves clamp the column to the new line.
// Move перемещает курсор на один шаг без перехода между строками.
func (b *Buffer) Move(dir Direction) {
	b.clamp()
	switch dir {
	case DirUp:
		if b.cy > 0 {
			b.cy--
		}
	case DirDown:
		if b.cy < len(b.lines)-1 {
			b.cy++
		}
	case DirLeft:
		if b.cx > 0 {
			b.cx--
		}
	case DirRight:
		if b.cx < runeLen(b.lines[b.cy]) {
			b.cx++
		}
	}
	b.clamp()
}

// MoveWrap is the wrapping variant of Move: left at column 0 goes to the end
// of the previous line and right at end of line goes to the next line.
// MoveWrap - вариант Move с переходом между строками.
func (b *Buffer) MoveWrap(dir Direction) {
	b.clamp()
	switch {
	case dir == DirLeft && b.cx == 0 && b.cy > 0:
		b.cy--
		b.cx = runeLen(b.lines[b.cy])
	case dir == DirRight && b.cx == runeLen(b.lines[b.cy]) && b.cy < len(b.lines)-1:
		b.cy++
		b.cx = 0
	default:
		b.Move(dir)
	}
}

// Home moves the cursor to the start of the line.
func (b *Buffer) Home() {
	b.clamp()
	b.cx = 0
}

// End moves the cursor to the end of the line.
func (b *Buffer) End() {
	b.clamp()
	b.cx = runeLen(b.lines[b.cy])
}

// DocStart moves the cursor to the start of the buffer.
func (b *Buffer) DocStart() {
	b.cy, b.cx = 0, 0
}

// DocEnd moves the cursor to the end of the buffer.
func (b *Buffer) DocEnd() {
	b.cy = len(b.lines) - 1
	b.cx = runeLen(b.lines[b.cy])
}

// SetAnchor starts a selection at the cursor.
// SetAnchor начинает выделение в позиции курсора.
func (b *Buffer) SetAnchor() {
	b.clamp()
	b.selecting = true
	b.selectStartX = b.cx
	b.selectStartY = b.cy
}

// ClearSelection cancels the selection.
func (b *Buffer) ClearSelection() {
	b.endSelection()
}

func (b *Buffer) endSelection() {
	b.selecting = false
}

// HasSelection reports whether a selection anchor is set.
func (b *Buffer) HasSelection() bool {
	return b.selecting
}

// Selection returns the normalized span between the anchor and the cursor.
// Selection возвращает нормализованную область между якорем и курсором.
func (b *Buffer) Selection() (Span, bool) {
	if !b.selecting {
		return Span{}, false
	}
	b.clamp()
	anchor := Pos{Row: b.selectStartY, Col: b.selectStartX}
	if anchor.Row >= len(b.lines) {
		anchor.Row = len(b.lines) - 1
	}
	if n := runeLen(b.lines[anchor.Row]); anchor.Col > n {
		anchor.Col = n
	}
	return NewSpan(anchor, b.Cursor()), true
}

// spanText returns the text covered by s, lines joined with "\n".
// spanText возвращает текст области s.
func (b *Buffer) spanText(s Span) string {
	if s.Start.Row == s.End.Row {
		lineRunes := []rune(b.lines[s.Start.Row])
		return string(lineRunes[s.Start.Col:s.End.Col])
	}
	selectedLines := []string{string([]rune(b.lines[s.Start.Row])[s.Start.Col:])}
	for i := s.Start.Row + 1; i < s.End.Row; i++ {
		selectedLines = append(selectedLines, b.lines[i])
	}
	selectedLines = append(selectedLines, string([]rune(b.lines[s.End.Row])[:s.End.Col]))
	return strings.Join(selectedLines, "\n")
}

// deleteSpan removes the text covered by s and puts the cursor at its start.
// deleteSpan удаляет текст области s.
func (b *Buffer) deleteSpan(s Span) {
	firstRunes := []rune(b.lines[s.Start.Row])
	lastRunes := []rune(b.lines[s.End.Row])
	merged := string(firstRunes[:s.Start.Col]) + string(lastRunes[s.End.Col:])
	b.lines = slices.Replace(b.lines, s.Start.Row, s.End.Row+1, merged)
	b.cy = s.Start.Row
	b.cx = s.Start.Col
	b.clamp()
}

// SelectedText returns the selected text, or "" when nothing is selected.
func (b *Buffer) SelectedText() string {
	s, ok := b.Selection()
	if !ok || s.IsEmpty() {
		return ""
	}
	return b.spanText(s)
}

// Copy puts the selected text on the clipboard and returns the number of
// lines copied; 0 means nothing was selected and the clipboard is left
// alone. The buffer is not modified.
// Copy копирует выделенный текст в буфер обмена.
func (b *Buffer) Copy() (int, error) {
	text := b.SelectedText()
	if text == "" {
		return 0, nil
	}
	return strings.Count(text, "\n") + 1, b.clipboard.Set(text)
}

// Cut copies the selection to the clipboard, deletes it and clears the
// selection. It returns the number of lines cut.
// Cut вырезает выделенный текст.
func (b *Buffer) Cut() (int, error) {
	s, ok := b.Selection()
	if !ok {
		return 0, nil
	}
	text := b.spanText(s)
	err := b.clipboard.Set(text)
	b.deleteSpan(s)
	b.endSelection()
	return strings.Count(text, "\n") + 1, err
}

// DeleteSelection removes the selected text without touching the clipboard.
func (b *Buffer) DeleteSelection() bool {
	s, ok := b.Selection()
	if !ok {
		return false
	}
	b.deleteSpan(s)
	b.endSelection()
	return true
}

// Paste inserts the clipboard at the cursor, replacing an active selection.
// Multi-line text splits the current line around the pasted block and leaves
// the cursor at the end of the last pasted segment.
// Paste вставляет содержимое буфера обмена в позицию курсора.
func (b *Buffer) Paste() {
	text := b.clipboard.Text()
	if text == "" {
		return
	}
	b.DeleteSelection()
	b.clamp()

	pasteLines := strings.Split(text, "\n")
	if len(pasteLines) == 1 {
		b.insertInline(text)
		return
	}

	lineRunes := []rune(b.lines[b.cy])
	leftPart := string(lineRunes[:b.cx])
	rightPart := string(lineRunes[b.cx:])
	last := pasteLines[len(pasteLines)-1]

	block := make([]string, 0, len(pasteLines))
	block = append(block, leftPart+pasteLines[0])
	block = append(block, pasteLines[1:len(pasteLines)-1]...)
	block = append(block, last+rightPart)

	b.lines = slices.Replace(b.lines, b.cy, b.cy+1, block...)
	b.cy += len(pasteLines) - 1
	b.cx = runeLen(last)
}
