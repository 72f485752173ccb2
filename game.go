package main

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// Game walks the player through the configured levels.
// Game - игровой цикл по лабиринтам.
type Game struct {
	screen   tcell.Screen
	store    *ExerciseStore
	judge    *Judge
	clip     *Clipboard
	theme    Theme
	tr       *Translator
	progress *Progress
	levels   []LevelSpec
	player   string
	logger   *slog.Logger
	ctx      context.Context

	level    int
	maze     *Maze
	pos      Pos
	message  string
	quit     bool
	finished bool
	cleared  int
}

// NewGame wires a game from its parts. screen may be nil until Run.
func NewGame(cfg Config, store *ExerciseStore, judge *Judge, clip *Clipboard, progress *Progress, tr *Translator, logger *slog.Logger) *Game {
	if logger == nil {
		logger = discardLogger()
	}
	return &Game{
		store:    store,
		judge:    judge,
		clip:     clip,
		theme:    NewTheme(cfg.Theme),
		tr:       tr,
		progress: progress,
		levels:   cfg.Levels,
		player:   cfg.PlayerName,
		logger:   logger,
		ctx:      context.Background(),
	}
}

// Cleared returns the number of obstacles cleared during this run.
func (g *Game) Cleared() int {
	return g.cleared
}

// Finished reports whether the last configured level was completed.
func (g *Game) Finished() bool {
	return g.finished
}

// Run plays from level start until the player quits or finishes.
// Run запускает игровой цикл.
func (g *Game) Run(ctx context.Context, screen tcell.Screen, start int) error {
	g.ctx = ctx
	g.screen = screen
	if err := g.startLevel(start); err != nil {
		return err
	}
	for !g.quit && ctx.Err() == nil {
		g.render()
		ev := screen.PollEvent()
		if ev == nil {
			break
		}
		switch tev := ev.(type) {
		case *tcell.EventKey:
			if err := g.handleKey(tev); err != nil {
				return err
			}
		case *tcell.EventResize:
			screen.Sync()
		}
	}
	return nil
}

// startLevel generates level n and places the player at its start.
// Obstacles cleared in earlier runs stay cleared.
func (g *Game) startLevel(n int) error {
	spec := specForLevel(g.levels, n)
	maze, err := BuildMaze(spec)
	if err != nil {
		return fmt.Errorf("level %d: %w", n, err)
	}
	for num := 1; num <= spec.Obstacles; num++ {
		if g.progress.Cleared(n, bushID(num)) {
			maze.ClearNumbered(num)
		}
	}
	g.level = n
	g.maze = maze
	g.pos = maze.Start
	if err := g.progress.SetLevel(n); err != nil {
		g.logger.Warn("save progress", "err", err)
	}
	g.logger.Info("level started", "level", n, "generator", spec.Generator, "obstacles", maze.Remaining())
	return nil
}

func bushID(n int) string {
	return "bush" + strconv.Itoa(n)
}

func (g *Game) handleKey(ev *tcell.EventKey) error {
	g.message = ""
	switch ev.Key() {
	case tcell.KeyUp:
		g.move(-1, 0)
	case tcell.KeyDown:
		g.move(1, 0)
	case tcell.KeyLeft:
		g.move(0, -1)
	case tcell.KeyRight:
		g.move(0, 1)
	case tcell.KeyEscape, tcell.KeyCtrlC:
		g.quit = true
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'w', 'W':
			g.move(-1, 0)
		case 's', 'S':
			g.move(1, 0)
		case 'a', 'A':
			g.move(0, -1)
		case 'd', 'D':
			g.move(0, 1)
		case 'f', 'F':
			g.interact()
		case 'r', 'R':
			return g.startLevel(g.level)
		case 'q', 'Q':
			g.quit = true
		}
	}
	if g.pos == g.maze.Exit {
		return g.exitReached()
	}
	return nil
}

// move steps the player when the target cell is free.
func (g *Game) move(dr, dc int) {
	next := Pos{Row: g.pos.Row + dr, Col: g.pos.Col + dc}
	if _, ok := g.maze.Obstacles[next]; ok {
		g.message = g.tr.T("BUSH_AHEAD")
		return
	}
	if g.maze.Passable(next) {
		g.pos = next
	}
}

// interact opens the editor for an obstacle next to the player.
// interact открывает редактор для соседнего куста.
func (g *Game) interact() {
	at, num, ok := g.maze.ObstacleNear(g.pos)
	if !ok {
		g.message = g.tr.T("NO_BUSH_NEARBY")
		return
	}
	id := bushID(num)
	if g.openEditor(g.level, id) != Completed {
		g.message = g.tr.T("EDITOR_LEFT")
		return
	}
	g.maze.ClearObstacle(at)
	g.cleared++
	g.message = g.tr.T("BUSH_CLEARED", num)
	if err := g.progress.MarkCleared(g.level, id, time.Now()); err != nil {
		g.logger.Warn("save progress", "err", err)
		g.message = g.tr.T("PROGRESS_ERROR", err.Error())
	}
}

// openEditor runs an editor session for exercise id of level and reports
// whether the player solved it.
// openEditor открывает редактор с заданием.
func (g *Game) openEditor(level int, id string) SessionOutcome {
	ex := g.store.Load(level, id)
	s := NewSession(ex, g.judge, g.clip, g.theme, g.tr, g.logger)
	outcome := s.Run(g.ctx, g.screen)
	g.logger.Debug("editor closed", "session", s.ID(), "outcome", outcome, "state", s.State(), "last_run", s.LastResult().Duration)
	g.screen.HideCursor()
	g.screen.Clear()
	return outcome
}

func (g *Game) exitReached() error {
	if g.maze.Remaining() > 0 {
		g.message = g.tr.T("EXIT_LOCKED")
		return nil
	}
	g.logger.Info("level complete", "level", g.level)
	if g.level >= len(g.levels) {
		g.finished = true
		g.quit = true
		return nil
	}
	if err := g.startLevel(g.level + 1); err != nil {
		return err
	}
	g.message = g.tr.T("LEVEL_COMPLETE", g.level-1)
	return nil
}

// render draws the maze around the player.
// render отображает лабиринт.
func (g *Game) render() {
	s := g.screen
	s.Clear()
	w, h := s.Size()
	m := g.maze

	title := " " + g.tr.T("LEVEL_TITLE", g.level, g.player) + "  " + g.tr.T("BUSHES_LEFT", m.Remaining())
	g.drawText(0, 0, title, g.theme.Header, w)

	viewH := h - 3
	offX := viewOffset(g.pos.Col, m.Width, w)
	offY := viewOffset(g.pos.Row, m.Height, viewH)
	for r := 0; r < viewH && offY+r < m.Height; r++ {
		for c := 0; c < w && offX+c < m.Width; c++ {
			ch, style := g.cell(Pos{Row: offY + r, Col: offX + c})
			s.SetContent(c, r+1, ch, nil, style)
		}
	}

	g.drawText(0, h-2, " "+g.message, g.theme.Status, w)
	g.drawText(0, h-1, g.tr.T("MAZE_KEYS"), g.theme.Default, w)
	s.Show()
}

func (g *Game) cell(p Pos) (rune, tcell.Style) {
	m := g.maze
	switch {
	case p == g.pos:
		return '@', g.theme.Player
	case p == m.Exit:
		return '⌂', g.theme.Exit
	}
	if n, ok := m.Obstacles[p]; ok {
		return rune('0' + n%10), g.theme.Obstacle
	}
	switch {
	case m.Walls.Has(p):
		return '#', g.theme.Wall
	case m.Decor.Has(p):
		return '♣', g.theme.Bush
	case m.Path.Has(p) && !m.Open:
		return '.', g.theme.Default
	}
	return ' ', g.theme.Default
}

// viewOffset keeps pos centred when the maze is larger than the view.
func viewOffset(pos, size, view int) int {
	if size <= view || view <= 0 {
		return 0
	}
	off := pos - view/2
	if off < 0 {
		off = 0
	}
	if off > size-view {
		off = size - view
	}
	return off
}

func (g *Game) drawText(x, y int, text string, style tcell.Style, width int) {
	for _, r := range text {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		if x+rw > width {
			break
		}
		g.screen.SetContent(x, y, r, nil, style)
		x += rw
	}
	for ; x < width; x++ {
		g.screen.SetContent(x, y, ' ', nil, style)
	}
}
