package main

import (
	"github.com/gdamore/tcell/v2"
)

// Theme holds every style the editor and the maze draw with. It is built
// once from the config and passed to the renderers.
// Theme содержит все стили отрисовки редактора и лабиринта.
type Theme struct {
	Default   tcell.Style
	Keyword   tcell.Style
	String    tcell.Style
	Comment   tcell.Style
	Number    tcell.Style
	Function  tcell.Style
	Operator  tcell.Style
	Selection tcell.Style
	Bracket   tcell.Style
	Header    tcell.Style
	Status    tcell.Style
	Popup     tcell.Style
	Error     tcell.Style

	Player   tcell.Style
	Wall     tcell.Style
	Bush     tcell.Style
	Obstacle tcell.Style
	Exit     tcell.Style
}

// NewTheme builds a Theme from color names.
// NewTheme строит тему из названий цветов.
func NewTheme(tc ThemeConfig) Theme {
	fg := tcell.GetColor(tc.Foreground)
	bg := tcell.GetColor(tc.Background)
	base := tcell.StyleDefault.Foreground(fg).Background(bg)
	on := func(name string) tcell.Style {
		return base.Foreground(tcell.GetColor(name))
	}
	bar := func(name string) tcell.Style {
		return tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.GetColor(name))
	}

	return Theme{
		Default:   base,
		Keyword:   on(tc.Keyword),
		String:    on(tc.String),
		Comment:   on(tc.Comment),
		Number:    on(tc.Number),
		Function:  on(tc.Function),
		Operator:  on(tc.Operator),
		Selection: tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.GetColor(tc.Selection)),
		Bracket:   tcell.StyleDefault.Foreground(tcell.ColorYellow).Background(tcell.GetColor(tc.Bracket)),
		Header:    bar(tc.Header),
		Status:    bar(tc.Status),
		Popup:     bar(tc.Popup).Bold(true),
		Error:     bar(tc.Error),

		Player:   on(tc.Player).Bold(true),
		Wall:     on(tc.Wall),
		Bush:     on(tc.Bush),
		Obstacle: on(tc.Obstacle).Bold(true),
		Exit:     on(tc.Exit).Bold(true),
	}
}

// DefaultTheme is the theme of the default config.
func DefaultTheme() Theme {
	return NewTheme(DefaultConfig().Theme)
}
