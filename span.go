package main

// Pos is a position inside a Buffer: a row and a column counted in runes.
// Pos - позиция в буфере: строка и столбец, считаемый в рунах.
type Pos struct {
	Row int
	Col int
}

// Before reports whether p comes strictly before q in document order.
// Before сообщает, находится ли p строго перед q в порядке документа.
func (p Pos) Before(q Pos) bool {
	if p.Row != q.Row {
		return p.Row < q.Row
	}
	return p.Col < q.Col
}

// Span is a half-open region [Start, End) of a Buffer with Start <= End.
// Span - полуоткрытая область [Start, End) буфера, где Start <= End.
type Span struct {
	Start Pos
	End   Pos
}

// NewSpan builds a Span from two positions given in any order.
// NewSpan строит Span из двух позиций в любом порядке.
func NewSpan(a, b Pos) Span {
	if b.Before(a) {
		return Span{Start: b, End: a}
	}
	return Span{Start: a, End: b}
}

// IsEmpty reports whether the span selects nothing.
func (s Span) IsEmpty() bool {
	return s.Start == s.End
}

// Contains reports whether p lies inside the span.
// Contains сообщает, лежит ли p внутри области.
func (s Span) Contains(p Pos) bool {
	return !p.Before(s.Start) && p.Before(s.End)
}

// ColumnsOn returns the selected column range [from, to) on row, given the
// rune length of that row. ok is false when row is outside the span.
func (s Span) ColumnsOn(row, lineLen int) (from, to int, ok bool) {
	if row < s.Start.Row || row > s.End.Row {
		return 0, 0, false
	}
	from, to = 0, lineLen
	if row == s.Start.Row {
		from = s.Start.Col
	}
	if row == s.End.Row {
		to = s.End.Col
	}
	if from > lineLen {
		from = lineLen
	}
	if to > lineLen {
		to = lineLen
	}
	return from, to, from <= to
}
