package main

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

const tabWidth = 4

// refreshSize updates the cached screen dimensions.
// refreshSize обновляет размеры экрана.
func (s *Session) refreshSize() {
	if s.screen == nil {
		return
	}
	s.width, s.height = s.screen.Size()
	s.ensureVisible()
}

// headerLines returns the instruction block shown above the code.
// headerLines возвращает строки блока задания.
func (s *Session) headerLines() []string {
	expected := strings.ReplaceAll(s.exercise.ExpectedOutput, "\n", "\\n")
	lines := []string{s.tr.T("TASK_INSTRUCTIONS")}
	lines = append(lines, wrapText(s.exercise.Instructions, s.width)...)
	lines = append(lines, s.tr.T("EXPECTED_OUTPUT", expected))
	return lines
}

// codeArea returns the first screen row and the number of rows of the code area.
func (s *Session) codeArea() (top, rows int) {
	top = len(s.headerLines()) + 1
	rows = s.height - top - 2
	if rows < 1 {
		rows = 1
	}
	return top, rows
}

// cellColumn returns the screen column of rune index col on a line.
func cellColumn(line string, col int) int {
	cells := 0
	for i, r := range []rune(line) {
		if i >= col {
			break
		}
		cells += runeCells(r, cells)
	}
	return cells
}

func runeCells(r rune, at int) int {
	if r == '\t' {
		return tabWidth - at%tabWidth
	}
	if w := runewidth.RuneWidth(r); w > 0 {
		return w
	}
	return 1
}

// ensureVisible ensures the cursor is visible on the screen.
// ensureVisible обеспечивает видимость курсора на экране.
func (s *Session) ensureVisible() {
	if s.width <= 0 || s.height <= 0 {
		return
	}
	_, rows := s.codeArea()
	cur := s.buf.Cursor()
	if cur.Row < s.offsetY {
		s.offsetY = cur.Row
	} else if cur.Row >= s.offsetY+rows {
		s.offsetY = cur.Row - rows + 1
	}
	cx := cellColumn(s.buf.Line(cur.Row), cur.Col)
	if cx < s.offsetX {
		s.offsetX = cx
	} else if cx >= s.offsetX+s.width {
		s.offsetX = cx - s.width + 1
	}
}

// render draws one frame. A panic while drawing is logged and the frame is
// dropped; the session keeps running.
// render отображает редактор на экране.
func (s *Session) render() {
	if s.screen == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			s.logger.Debug("render failed", "panic", fmt.Sprint(r))
		}
	}()
	s.draw()
}

func (s *Session) draw() {
	s.screen.Clear()
	header := s.headerLines()
	for i, line := range header {
		s.drawLine(i, line, s.theme.Header)
	}

	top, rows := s.codeArea()
	sel, hasSel := s.buf.Selection()
	pair, hasPair := s.buf.MatchBracket()

	for i := 0; i < rows; i++ {
		row := s.offsetY + i
		if row >= s.buf.LineCount() {
			break
		}
		line := s.buf.Line(row)
		tokens := highlightLine(s.exercise.Language, line, s.theme)
		lineLen := runeLen(line)
		selFrom, selTo, onRow := 0, 0, false
		if hasSel {
			selFrom, selTo, onRow = sel.ColumnsOn(row, lineLen)
		}

		col, cells := 0, 0
		for _, tok := range tokens {
			for _, r := range tok.Text {
				w := runeCells(r, cells)
				style := tok.Style
				if onRow && col >= selFrom && col < selTo {
					style = s.theme.Selection
				}
				if hasPair && (pair.Open == (Pos{Row: row, Col: col}) || pair.Close == (Pos{Row: row, Col: col})) {
					style = s.theme.Bracket
				}
				x := cells - s.offsetX
				drawRune := r
				if r == '\t' {
					drawRune = ' '
				}
				for c := 0; c < w; c++ {
					if x+c >= 0 && x+c < s.width {
						ch := drawRune
						if c > 0 {
							ch = ' '
						}
						s.screen.SetContent(x+c, top+i, ch, nil, style)
					}
				}
				col++
				cells += w
			}
		}
		// Show a selected line break as one highlighted cell.
		if hasSel && sel.Contains(Pos{Row: row, Col: lineLen}) {
			if x := cells - s.offsetX; x >= 0 && x < s.width {
				s.screen.SetContent(x, top+i, ' ', nil, s.theme.Selection)
			}
		}
	}

	s.drawStatusBar()

	if s.state == StatePopup {
		s.drawPopup()
		s.screen.HideCursor()
	} else {
		cur := s.buf.Cursor()
		x := cellColumn(s.buf.Line(cur.Row), cur.Col) - s.offsetX
		s.screen.ShowCursor(x, top+cur.Row-s.offsetY)
		if s.buf.Overwrite() {
			s.screen.SetCursorStyle(tcell.CursorStyleSteadyBlock)
		} else {
			s.screen.SetCursorStyle(tcell.CursorStyleSteadyBar)
		}
	}
	s.screen.Show()
}

// drawLine fills screen row y with text in style, clipped to the width.
func (s *Session) drawLine(y int, text string, style tcell.Style) {
	x := 0
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if x+w > s.width {
			break
		}
		s.screen.SetContent(x, y, r, nil, style)
		x += w
	}
	for ; x < s.width; x++ {
		s.screen.SetContent(x, y, ' ', nil, style)
	}
}

// statusBar builds the two status rows: position and mode, then key legend.
func (s *Session) statusBar() (string, string) {
	cur := s.buf.Cursor()
	mode := s.tr.T("MODE_INSERT")
	if s.buf.Overwrite() {
		mode = s.tr.T("MODE_OVERWRITE")
	}
	left := fmt.Sprintf(" %s [%s] %s", s.tr.T("LEVEL_TITLE", s.exercise.Level, s.exercise.ID),
		s.exercise.Language, mode)
	right := s.tr.T("STATUS_POSITION", cur.Row+1, s.buf.LineCount(), cur.Col+1) + " "
	if s.message != "" {
		left += "  " + s.message
	}
	pad := s.width - runewidth.StringWidth(left) - runewidth.StringWidth(right)
	if pad < 1 {
		pad = 1
	}
	return left + strings.Repeat(" ", pad) + right, s.tr.T("EDITOR_KEYS")
}

func (s *Session) drawStatusBar() {
	top, bottom := s.statusBar()
	style := s.theme.Status
	if s.errorMessage != "" {
		top = " " + s.errorMessage
		style = s.theme.Error
	}
	s.drawLine(s.height-2, top, style)
	s.drawLine(s.height-1, bottom, s.theme.Default)
}

// popupLines returns the failure popup text.
func (s *Session) popupLines() []string {
	lines := []string{s.tr.T("INCORRECT_CODE"), ""}
	out := strings.Split(s.last.Display(), "\n")
	lines = append(lines, s.tr.T("YOUR_OUTPUT", out[0]))
	lines = append(lines, out[1:]...)
	if s.last.Truncated {
		lines = append(lines, s.tr.T("OUTPUT_TRUNCATED", maxCapturedOutput>>10))
	}
	return lines
}

// drawPopup draws the failure popup centred over the code.
// drawPopup рисует окно с результатом проверки.
func (s *Session) drawPopup() {
	lines := s.popupLines()
	maxW := s.width - 4
	if maxW < 10 {
		maxW = s.width
	}
	var wrapped []string
	for _, l := range lines {
		wrapped = append(wrapped, wrapText(l, maxW-2)...)
	}
	maxH := s.height - 2
	if maxH < 1 {
		maxH = 1
	}
	if len(wrapped) > maxH-2 && maxH > 2 {
		wrapped = append(wrapped[:maxH-3], "...")
	}

	boxW := 0
	for _, l := range wrapped {
		if w := runewidth.StringWidth(l); w > boxW {
			boxW = w
		}
	}
	boxW += 4
	if boxW > s.width {
		boxW = s.width
	}
	boxH := len(wrapped) + 2
	x0 := (s.width - boxW) / 2
	y0 := (s.height - boxH) / 2
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	for y := 0; y < boxH; y++ {
		for x := 0; x < boxW; x++ {
			s.screen.SetContent(x0+x, y0+y, ' ', nil, s.theme.Popup)
		}
	}
	for i, l := range wrapped {
		x := x0 + 2
		for _, r := range l {
			w := runewidth.RuneWidth(r)
			if w == 0 {
				continue
			}
			if x+w > x0+boxW {
				break
			}
			s.screen.SetContent(x, y0+1+i, r, nil, s.theme.Popup)
			x += w
		}
	}
}

// wrapText splits text into rows no wider than width cells.
func wrapText(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		runes := []rune(para)
		start, cur := 0, 0
		for i, r := range runes {
			rw := runewidth.RuneWidth(r)
			if cur+rw > width && i > start {
				lines = append(lines, string(runes[start:i]))
				start = i
				cur = 0
			}
			cur += rw
		}
		lines = append(lines, string(runes[start:]))
	}
	return lines
}
