package main

import (
	"context"
	"log/slog"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"
)

// SessionState is the state of an editor session.
// SessionState - состояние сессии редактора.
type SessionState int

const (
	StateEditing SessionState = iota
	StateJudging
	StatePopup
	StateDone
	StateCancelled
)

func (s SessionState) String() string {
	switch s {
	case StateEditing:
		return "editing"
	case StateJudging:
		return "judging"
	case StatePopup:
		return "popup"
	case StateDone:
		return "done"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// SessionOutcome is what an editor session reports to the game.
type SessionOutcome int

const (
	Completed SessionOutcome = iota
	Cancelled
)

func (o SessionOutcome) String() string {
	if o == Completed {
		return "completed"
	}
	return "cancelled"
}

// Session is one editor run against one exercise. A session owns its buffer
// and is driven from a single goroutine.
// Session - одна сессия редактора для одного задания.
type Session struct {
	id       string
	exercise Exercise
	buf      *Buffer
	judge    *Judge
	theme    Theme
	tr       *Translator
	logger   *slog.Logger

	ctx    context.Context
	screen tcell.Screen
	state  SessionState
	last   JudgeResult

	width, height    int
	offsetX, offsetY int
	message          string
	errorMessage     string
}

// NewSession creates a session seeded with the exercise starter code.
// NewSession создает сессию с начальным кодом задания.
func NewSession(ex Exercise, judge *Judge, clip *Clipboard, theme Theme, tr *Translator, logger *slog.Logger) *Session {
	if logger == nil {
		logger = discardLogger()
	}
	if tr == nil {
		tr = NewTranslator("en")
	}
	if theme == (Theme{}) {
		theme = DefaultTheme()
	}
	id := uuid.NewString()
	return &Session{
		id:       id,
		exercise: ex,
		buf:      NewBuffer(ex.StarterCode, clip),
		judge:    judge,
		theme:    theme,
		tr:       tr,
		logger:   logger.With("session", id, "level", ex.Level, "exercise", ex.ID),
		ctx:      context.Background(),
		state:    StateEditing,
	}
}

// ID returns the session id used in log records.
func (s *Session) ID() string {
	return s.id
}

// State returns the current state.
func (s *Session) State() SessionState {
	return s.state
}

// Buffer returns the session buffer.
func (s *Session) Buffer() *Buffer {
	return s.buf
}

// LastResult returns the result of the latest submission.
func (s *Session) LastResult() JudgeResult {
	return s.last
}

func (s *Session) finished() bool {
	return s.state == StateDone || s.state == StateCancelled
}

// Outcome maps the final state to a SessionOutcome.
func (s *Session) Outcome() SessionOutcome {
	if s.state == StateDone {
		return Completed
	}
	return Cancelled
}

// Run drives the session on screen until the exercise is solved or the
// player cancels. The caller owns the screen and its Init/Fini.
// Run запускает основной цикл редактора.
func (s *Session) Run(ctx context.Context, screen tcell.Screen) SessionOutcome {
	s.ctx = ctx
	s.screen = screen
	s.refreshSize()
	s.logger.Info("editor session started", "language", s.exercise.Language, "timeout", s.judge.Timeout())

	for !s.finished() {
		if ctx.Err() != nil {
			s.setState(StateCancelled)
			break
		}
		s.render()
		ev := screen.PollEvent()
		if ev == nil {
			s.setState(StateCancelled)
			break
		}
		switch tev := ev.(type) {
		case *tcell.EventKey:
			s.handleKey(tev)
		case *tcell.EventResize:
			s.refreshSize()
			screen.Sync()
		}
	}

	outcome := s.Outcome()
	s.logger.Info("editor session finished", "outcome", outcome.String())
	return outcome
}

func (s *Session) setState(next SessionState) {
	if s.state != next {
		s.logger.Debug("session state", "from", s.state.String(), "to", next.String())
	}
	s.state = next
}

// handleKey handles keyboard input.
// handleKey обрабатывает ввод с клавиатуры.
func (s *Session) handleKey(ev *tcell.EventKey) {
	switch s.state {
	case StatePopup:
		s.setState(StateEditing)
		return
	case StateEditing:
	default:
		return
	}
	s.message = ""
	s.errorMessage = ""

	shiftPressed := ev.Modifiers()&tcell.ModShift != 0
	ctrlPressed := ev.Modifiers()&tcell.ModCtrl != 0
	altPressed := ev.Modifiers()&tcell.ModAlt != 0

	switch ev.Key() {
	case tcell.KeyEscape:
		if s.buf.HasSelection() {
			s.buf.ClearSelection()
			return
		}
		s.setState(StateCancelled)

	case tcell.KeyCtrlX:
		if s.buf.HasSelection() {
			n, err := s.buf.Cut()
			s.reportClipboard("CUT", n, err)
			return
		}
		s.submit()

	case tcell.KeyCtrlC:
		n, err := s.buf.Copy()
		if n == 0 && err == nil {
			s.message = s.tr.T("NOTHING_SELECTED")
			return
		}
		s.reportClipboard("COPIED", n, err)

	case tcell.KeyCtrlV:
		s.buf.Paste()

	case tcell.KeyCtrlZ:
		// reserved

	case tcell.KeyCtrlSpace:
		s.buf.SetAnchor()

	case tcell.KeyTab:
		s.buf.Indent()

	case tcell.KeyInsert:
		s.buf.ToggleOverwrite()

	case tcell.KeyEnter:
		s.buf.SplitLine()

	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if !s.buf.DeleteSelection() {
			s.buf.DeleteBackward()
		}

	case tcell.KeyDelete:
		if !s.buf.DeleteSelection() {
			s.buf.DeleteForward()
		}

	case tcell.KeyUp, tcell.KeyDown, tcell.KeyLeft, tcell.KeyRight:
		s.extendSelection(shiftPressed)
		dir := arrowDirection(ev.Key())
		if altPressed {
			s.buf.MoveWrap(dir)
		} else {
			s.buf.Move(dir)
		}

	case tcell.KeyHome:
		s.extendSelection(shiftPressed)
		if ctrlPressed {
			s.buf.DocStart()
		} else {
			s.buf.Home()
		}

	case tcell.KeyEnd:
		s.extendSelection(shiftPressed)
		if ctrlPressed {
			s.buf.DocEnd()
		} else {
			s.buf.End()
		}

	case tcell.KeyRune:
		s.buf.InsertChar(ev.Rune())
	}
	s.ensureVisible()
}

// extendSelection sets the anchor when a shifted movement starts a selection.
func (s *Session) extendSelection(shift bool) {
	if shift && !s.buf.HasSelection() {
		s.buf.SetAnchor()
	}
}

func arrowDirection(k tcell.Key) Direction {
	switch k {
	case tcell.KeyUp:
		return DirUp
	case tcell.KeyDown:
		return DirDown
	case tcell.KeyLeft:
		return DirLeft
	default:
		return DirRight
	}
}

func (s *Session) reportClipboard(id string, lines int, err error) {
	if err != nil {
		s.logger.Warn("system clipboard", "err", err)
		s.errorMessage = s.tr.T("CLIPBOARD_ERROR", err.Error())
		return
	}
	s.message = s.tr.T(id, lines)
}

// submit runs the buffer through the judge. The call blocks the session;
// no input is read until it returns.
// submit запускает проверку кода.
func (s *Session) submit() {
	s.setState(StateJudging)
	if s.screen != nil {
		s.message = s.tr.T("RUNNING")
		s.render()
	}
	s.last = s.judge.Run(s.ctx, s.buf.Lines(), s.exercise.ExpectedOutput, s.exercise.Language)
	s.message = ""
	if s.last.Matched {
		s.setState(StateDone)
		return
	}
	s.setState(StatePopup)
}
