package main

// BracketPair представляет пару совпадающих скобок.
// BracketPair is a pair of matching brackets.
type BracketPair struct {
	Open  Pos
	Close Pos
}

var openBrackets = map[rune]rune{
	'(': ')',
	'[': ']',
	'{': '}',
}

var closeBrackets = map[rune]rune{
	')': '(',
	']': '[',
	'}': '{',
}

// MatchBracket returns the pair for the bracket under the cursor, or for the
// one just left of it. ok is false when there is no bracket or no partner.
// MatchBracket возвращает пару для скобки под курсором или слева от него.
func (b *Buffer) MatchBracket() (BracketPair, bool) {
	b.clamp()
	if pair, ok := b.matchAt(Pos{Row: b.cy, Col: b.cx}); ok {
		return pair, true
	}
	if b.cx > 0 {
		return b.matchAt(Pos{Row: b.cy, Col: b.cx - 1})
	}
	return BracketPair{}, false
}

func (b *Buffer) runeAt(p Pos) (rune, bool) {
	if p.Row < 0 || p.Row >= len(b.lines) {
		return 0, false
	}
	runes := []rune(b.lines[p.Row])
	if p.Col < 0 || p.Col >= len(runes) {
		return 0, false
	}
	return runes[p.Col], true
}

func (b *Buffer) matchAt(p Pos) (BracketPair, bool) {
	char, ok := b.runeAt(p)
	if !ok {
		return BracketPair{}, false
	}
	if closing, isOpen := openBrackets[char]; isOpen {
		if end, found := b.scanForward(p, char, closing); found {
			return BracketPair{Open: p, Close: end}, true
		}
		return BracketPair{}, false
	}
	if opening, isClose := closeBrackets[char]; isClose {
		if start, found := b.scanBackward(p, opening, char); found {
			return BracketPair{Open: start, Close: p}, true
		}
	}
	return BracketPair{}, false
}

// scanForward ищет закрывающую скобку после from с учетом вложенности.
func (b *Buffer) scanForward(from Pos, opening, closing rune) (Pos, bool) {
	nesting := 1
	col := from.Col + 1
	for row := from.Row; row < len(b.lines); row++ {
		runes := []rune(b.lines[row])
		for ; col < len(runes); col++ {
			switch runes[col] {
			case opening:
				nesting++
			case closing:
				nesting--
				if nesting == 0 {
					return Pos{Row: row, Col: col}, true
				}
			}
		}
		col = 0
	}
	return Pos{}, false
}

// scanBackward ищет открывающую скобку перед from с учетом вложенности.
func (b *Buffer) scanBackward(from Pos, opening, closing rune) (Pos, bool) {
	nesting := 1
	col := from.Col - 1
	for row := from.Row; row >= 0; row-- {
		runes := []rune(b.lines[row])
		if row != from.Row {
			col = len(runes) - 1
		}
		for ; col >= 0; col-- {
			switch runes[col] {
			case closing:
				nesting++
			case opening:
				nesting--
				if nesting == 0 {
					return Pos{Row: row, Col: col}, true
				}
			}
		}
	}
	return Pos{}, false
}
