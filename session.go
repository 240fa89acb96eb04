package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"gomark/internal/board"
	"gomark/internal/command"
	"gomark/internal/gesture"
	"gomark/internal/markup"
	"gomark/internal/persist"
	"gomark/internal/render"
)

// Session is the state shared by every copy of the tea model: the game,
// its markup, the drawing resources and the collaborators of the markup
// command.
type Session struct {
	cfg *Config
	log logrus.FieldLogger

	game     *board.Game
	markup   *markup.Model
	gameFile string
	editing  bool
	tool     Tool
	brush    gesture.Brush

	surface  board.Surface
	terminal *render.Terminal
	png      *render.PNG
	command  *command.MarkupInteraction
	handlers [numTools]*gesture.Handler

	states *persist.StateStore
	alert  string

	undoStack []Action
	redoStack []Action
}

func newSession(cfg *Config, log logrus.FieldLogger) (*Session, error) {
	s := &Session{
		cfg:     cfg,
		log:     log,
		editing: cfg.EditMode,
		brush:   gesture.Brush{Style: markup.StyleLine, Side: board.Black},
		states:  persist.NewStateStore(cfg.statePath()),
	}
	s.markup = markup.NewModel(s)
	s.terminal = render.NewTerminal(render.NewCache(), render.DefaultTheme())
	s.png = render.NewPNG(render.NewCache(), render.DefaultCellPixels)
	s.command = command.NewMarkupInteraction(command.Options{
		Model:   s.markup,
		Mode:    s,
		Persist: s,
		Backup:  s,
		Alert:   s,
		Cache:   s.terminal.Cache(),
		Log:     log,
	})

	if err := s.restore(); err != nil {
		return nil, err
	}
	return s, nil
}

// restore opens the requested game file, or the backup of the previous
// run, or starts a new game.
func (s *Session) restore() error {
	if s.cfg.GameFile != "" {
		return s.open(s.cfg.GameFile)
	}
	if s.cfg.Restore {
		snap, err := persist.ReadBackup(s.cfg.backupPath())
		switch {
		case err == nil:
			if err := s.install(snap, ""); err != nil {
				return err
			}
			s.restoreState()
			return nil
		case !errors.Is(err, os.ErrNotExist):
			s.log.WithError(err).Warn("backup unreadable, starting a new game")
		}
	}
	return s.newGame(s.cfg.BoardSize)
}

// restoreState reapplies the view settings saved for the restored game.
func (s *Session) restoreState() {
	st, found, err := s.states.Load()
	if err != nil {
		s.log.WithError(err).Warn("application state unreadable")
		return
	}
	if !found || st.GameID != s.game.ID() {
		return
	}
	s.game.SetCurrentPosition(st.Position)
	s.editing = st.EditingMode || s.cfg.EditMode
	s.gameFile = st.GameFile
	if t, ok := parseTool(st.Tool); ok {
		s.tool = t
	}
	if c, err := board.ParseColor(st.Side); err == nil && c != board.None {
		s.brush.Side = c
	}
}

func (s *Session) newGame(size int) error {
	g, err := board.NewGame(size)
	if err != nil {
		return err
	}
	return s.install(persist.Snapshot{Game: g}, "")
}

func (s *Session) open(path string) error {
	snap, err := persist.ReadBackup(path)
	if err != nil {
		return err
	}
	return s.install(snap, path)
}

func (s *Session) install(snap persist.Snapshot, file string) error {
	if err := snap.Apply(markup.NewModel(snap.Game)); err != nil {
		return err
	}
	s.game = snap.Game
	if err := snap.Apply(s.markup); err != nil {
		return err
	}
	s.gameFile = file
	s.undoStack = nil
	s.redoStack = nil
	s.surface = board.NewTerminalSurface(s.game.Size())
	s.buildHandlers()
	s.terminal.Cache().InvalidateAll()
	s.log.WithFields(logrus.Fields{
		"game": s.game.ID(),
		"size": s.game.Size(),
		"file": file,
	}).Info("game loaded")
	return nil
}

// saveGame writes the game with its markup to path.
func (s *Session) saveGame(path string) error {
	if err := persist.WriteBackup(path, persist.Capture(s.game, s.markup)); err != nil {
		return err
	}
	s.gameFile = path
	return nil
}

func (s *Session) buildHandlers() {
	exec := gesture.ExecutorFunc(s.execute)
	for t := ToolConnection; t < numTools; t++ {
		switch t {
		case ToolConnection:
			s.handlers[t] = gesture.NewConnectionHandler(s.surface, s.markup, exec, s.currentBrush, s.log)
		case ToolEraser:
			s.handlers[t] = gesture.NewEraserHandler(s.surface, exec, s.log)
		default:
			s.handlers[t] = gesture.NewPointHandler(t.String(), s.surface, s.markup, exec, s.factory(t), s.log)
		}
	}
}

func (s *Session) currentBrush() gesture.Brush {
	return s.brush
}

func (s *Session) factory(t Tool) gesture.ElementFactory {
	return func(p board.Point) markup.Element {
		if shape, ok := t.shape(); ok {
			return markup.Symbol{At: p, Shape: shape}
		}
		switch t {
		case ToolTerritory:
			return markup.Territory{At: p, Side: s.brush.Side}
		case ToolLabel:
			if text := s.markup.NextLabel(s.CurrentBoardPositionIndex()); text != "" {
				return markup.Label{At: p, Text: text}
			}
		}
		return nil
	}
}

func (s *Session) handler() *gesture.Handler {
	return s.handlers[s.tool]
}

// execute is the executor behind every drag. Applied changes go on the
// undo stack even when saving them failed.
func (s *Session) execute(r markup.Result) error {
	change, err := s.command.Execute(r)
	if !change.Empty() {
		s.recordAction(change)
	}
	return err
}

func (s *Session) setTool(t Tool) {
	if t < 0 || t >= numTools || t == s.tool {
		return
	}
	s.handler().Cancel()
	s.tool = t
}

func (s *Session) setEditing(on bool) {
	if !on {
		s.handler().Cancel()
	}
	s.editing = on
}

// play puts a stone for the side to move on p. Markup of positions that
// the move discards is dropped with them.
func (s *Session) play(p board.Point) error {
	discarded, err := s.game.Play(p)
	if err != nil {
		return err
	}
	s.afterMove(discarded)
	return nil
}

func (s *Session) pass() {
	s.afterMove(s.game.Pass())
}

func (s *Session) afterMove(discarded int) {
	if discarded >= 0 {
		s.markup.DiscardFrom(discarded)
		s.dropActionsFrom(discarded)
		s.log.WithField("from", discarded).Info("later moves discarded")
	}
	s.saveAll()
}

// saveAll saves state and backup outside of a markup command, e.g. after
// a move.
func (s *Session) saveAll() {
	err := errors.Join(s.SaveApplicationState(), s.BackupCurrentGame())
	if err != nil {
		s.log.WithError(err).Error("saving failed")
		s.PresentFailure(fmt.Sprintf("Saving failed: %v", err))
	}
}

func (s *Session) Close() {
	for name, c := range map[string]*render.Cache{"terminal": s.terminal.Cache(), "png": s.png.Cache()} {
		hits, misses := c.Stats()
		s.log.WithFields(logrus.Fields{
			"cache":  name,
			"hits":   hits,
			"misses": misses,
		}).Debug("render cache closed")
		c.Close()
	}
}

// The Session is the EditingModeState, persistence and backup
// collaborator and alert presenter of the markup command.

func (s *Session) IsMarkupEditingModeActive() bool {
	return s.editing
}

func (s *Session) CurrentBoardPositionIndex() int {
	if s.game == nil {
		return 0
	}
	return s.game.CurrentBoardPositionIndex()
}

func (s *Session) SaveApplicationState() error {
	return s.states.Save(persist.State{
		GameID:      s.game.ID(),
		GameFile:    s.gameFile,
		BoardSize:   s.game.Size(),
		Position:    s.game.CurrentBoardPositionIndex(),
		EditingMode: s.editing,
		Tool:        s.tool.String(),
		Side:        s.brush.Side.String(),
	})
}

func (s *Session) BackupCurrentGame() error {
	return persist.WriteBackup(s.cfg.backupPath(), persist.Capture(s.game, s.markup))
}

func (s *Session) PresentFailure(message string) {
	s.alert = message
}

// takeAlert returns the pending alert and clears it.
func (s *Session) takeAlert() string {
	msg := s.alert
	s.alert = ""
	return msg
}
