package main

import (
	"io"
	"os"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gomark/internal/board"
	"gomark/internal/command"
	"gomark/internal/markup"
)

func testConfig(t *testing.T) *Config {
	cfg := defaultConfig()
	cfg.SaveDirectory = t.TempDir()
	cfg.BoardSize = 9
	cfg.Restore = false
	return cfg
}

func newTestSession(t *testing.T, cfg *Config) *Session {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	s, err := newSession(cfg, log)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func pt(x, y int) board.Point {
	return board.Point{X: x, Y: y}
}

// playOpening leaves the game at position 3.
func playOpening(t *testing.T, s *Session) {
	t.Helper()
	for _, p := range []board.Point{pt(2, 2), pt(6, 6), pt(2, 6)} {
		require.NoError(t, s.play(p))
	}
}

func key(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func mouse(s *Session, action tea.MouseAction, p board.Point) tea.MouseMsg {
	sp := s.surface.ScreenOf(p)
	return tea.MouseMsg{X: sp.X, Y: sp.Y, Action: action, Button: tea.MouseButtonLeft}
}

func send(m model, msgs ...tea.Msg) model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(model)
	}
	return m
}

func TestMouseDragPlacesConnection(t *testing.T) {
	cfg := testConfig(t)
	cfg.EditMode = true
	s := newTestSession(t, cfg)
	playOpening(t, s)
	require.NoError(t, os.Remove(cfg.backupPath()))

	m := send(initialModel(s),
		mouse(s, tea.MouseActionPress, pt(4, 4)),
		mouse(s, tea.MouseActionMotion, pt(4, 6)),
		mouse(s, tea.MouseActionMotion, pt(4, 8)),
		mouse(s, tea.MouseActionRelease, pt(4, 8)),
	)

	got := s.markup.Connections(3)
	require.Len(t, got, 1)
	assert.Equal(t, markup.Connection{From: pt(4, 4), To: pt(4, 8), Side: board.Black}, got[0])
	assert.Empty(t, m.errorMessage)
	assert.Contains(t, m.successMessage, "Connected")
	assert.FileExists(t, cfg.backupPath())
	assert.FileExists(t, cfg.statePath())
	assert.Len(t, s.undoStack, 1)
}

func TestMouseClickPlaysOutsideMarkupMode(t *testing.T) {
	s := newTestSession(t, testConfig(t))
	m := send(initialModel(s), mouse(s, tea.MouseActionPress, pt(3, 5)))

	assert.Equal(t, 1, s.CurrentBoardPositionIndex())
	assert.Equal(t, board.Black, s.game.StonesAt(1)[pt(3, 5)])
	assert.Equal(t, pt(3, 5), m.cursor)
	assert.Empty(t, s.markup.Indexes())
}

func TestKeyboardDragOnInitialPositionIsRefused(t *testing.T) {
	cfg := testConfig(t)
	cfg.EditMode = true
	s := newTestSession(t, cfg)

	m := send(initialModel(s), key("enter"), key("j"), key("j"), key("enter"))

	assert.Empty(t, s.markup.Indexes())
	assert.Equal(t, command.Message(command.ErrInitialPosition), m.errorMessage)
	assert.Empty(t, s.undoStack)
	assert.NoFileExists(t, cfg.backupPath())
}

func TestKeyboardDragCommitsAndEscapeCancels(t *testing.T) {
	cfg := testConfig(t)
	cfg.EditMode = true
	s := newTestSession(t, cfg)
	playOpening(t, s)

	m := initialModel(s)
	m.cursor = pt(1, 1)
	m = send(m, key("a"), key("enter"), key("l"), key("l"), key("esc"))
	assert.False(t, m.keyboardDrag)
	assert.Empty(t, s.markup.Indexes())

	m = send(m, key("enter"), key("j"), key("j"), key("enter"))
	got := s.markup.Connections(3)
	require.Len(t, got, 1)
	assert.Equal(t, markup.StyleArrow, got[0].Style)
	assert.Equal(t, pt(3, 1), got[0].From)
	assert.Equal(t, pt(3, 3), got[0].To)
}

func TestSymbolToolTogglesAndUndoRedo(t *testing.T) {
	cfg := testConfig(t)
	cfg.EditMode = true
	s := newTestSession(t, cfg)
	playOpening(t, s)

	m := initialModel(s)
	m.cursor = pt(0, 0)
	m = send(m, key("4"), key("enter"))
	_, ok := s.markup.At(pt(0, 0), markup.CategorySymbol)
	require.True(t, ok)

	m = send(m, key("enter"))
	_, ok = s.markup.At(pt(0, 0), markup.CategorySymbol)
	require.False(t, ok, "placing the same symbol again removes it")

	m = send(m, key("u"))
	assert.Equal(t, "Undid removal", m.successMessage)
	_, ok = s.markup.At(pt(0, 0), markup.CategorySymbol)
	assert.True(t, ok)

	m = send(m, key("U"))
	_, ok = s.markup.At(pt(0, 0), markup.CategorySymbol)
	assert.False(t, ok)

	// Undo obeys the markup preconditions and stays on the shown position.
	m = send(m, key("m"), key("["), key("["))
	require.Equal(t, 1, s.CurrentBoardPositionIndex())
	m = send(m, key("u"))
	assert.Equal(t, command.Message(command.ErrEditingModeInactive), m.errorMessage)
	assert.Equal(t, 1, s.CurrentBoardPositionIndex())
	_, ok = s.markup.At(pt(0, 0), markup.CategorySymbol)
	assert.False(t, ok)
	assert.Len(t, s.undoStack, 2)
}

func TestLabelPrompt(t *testing.T) {
	cfg := testConfig(t)
	cfg.EditMode = true
	s := newTestSession(t, cfg)
	playOpening(t, s)

	m := initialModel(s)
	m.cursor = pt(5, 5)
	m = send(m, key("T"))
	require.Equal(t, ModeLabelInput, m.mode)
	m = send(m, key("enter"))

	assert.Equal(t, ModeNormal, m.mode)
	e, ok := s.markup.At(pt(5, 5), markup.CategoryLabel)
	require.True(t, ok)
	assert.Equal(t, "A", e.(markup.Label).Text)
}

func TestPlayingFromOlderPositionDiscardsLaterMarkup(t *testing.T) {
	cfg := testConfig(t)
	cfg.EditMode = true
	s := newTestSession(t, cfg)
	playOpening(t, s)

	require.NoError(t, s.execute(markup.Place(markup.Symbol{At: pt(6, 6), Shape: markup.ShapeCircle})))
	s.game.SetCurrentPosition(1)
	require.NoError(t, s.execute(markup.Place(markup.Symbol{At: pt(2, 2), Shape: markup.ShapeSquare})))
	require.Equal(t, []int{1, 3}, s.markup.Indexes())

	m := send(initialModel(s), key("m"), key("]"))
	require.Equal(t, 2, s.CurrentBoardPositionIndex())
	m.cursor = pt(8, 8)
	send(m, key("enter"))

	assert.Equal(t, 3, s.game.NumberOfPositions()-1)
	assert.Equal(t, []int{1}, s.markup.Indexes())
	require.Len(t, s.undoStack, 1)
	assert.Equal(t, 1, s.undoStack[0].Index)
}

func TestRestoreFromBackup(t *testing.T) {
	cfg := testConfig(t)
	cfg.EditMode = true
	first := newTestSession(t, cfg)
	playOpening(t, first)
	first.tool = ToolTerritory
	first.brush.Side = board.White
	require.NoError(t, first.execute(markup.Place(markup.Territory{At: pt(7, 7), Side: board.White})))

	again := *cfg
	again.Restore = true
	again.EditMode = false
	second := newTestSession(t, &again)

	assert.Equal(t, first.game.ID(), second.game.ID())
	assert.Equal(t, 3, second.CurrentBoardPositionIndex())
	assert.Equal(t, first.markup.Elements(3), second.markup.Elements(3))
	assert.True(t, second.IsMarkupEditingModeActive())
	assert.Equal(t, ToolTerritory, second.tool)
	assert.Equal(t, board.White, second.brush.Side)
}

func TestSaveAndOpenGameFile(t *testing.T) {
	cfg := testConfig(t)
	cfg.EditMode = true
	s := newTestSession(t, cfg)
	playOpening(t, s)
	require.NoError(t, s.execute(markup.Place(markup.Label{At: pt(4, 4), Text: "X"})))

	m := send(initialModel(s), key("s"))
	require.Equal(t, ModeFileInput, m.mode)
	m = send(m, key("g"), key("1"), key("enter"))
	require.Empty(t, m.errorMessage)
	path := cfg.GetSavePath("g1" + gameFileExt)
	assert.FileExists(t, path)

	m = send(m, key("n"), key("y"))
	assert.Equal(t, 0, s.CurrentBoardPositionIndex())
	assert.Empty(t, s.markup.Indexes())

	require.NoError(t, s.open(path))
	assert.Equal(t, []int{3}, s.markup.Indexes())
	assert.Equal(t, path, s.gameFile)
}

func TestExportsLeaveOutCursor(t *testing.T) {
	s := newTestSession(t, testConfig(t))
	playOpening(t, s)
	m := initialModel(s)

	txt := s.cfg.GetSavePath("board.txt")
	require.NoError(t, m.exportVisualTXT(txt))
	data, err := os.ReadFile(txt)
	require.NoError(t, err)
	assert.Contains(t, string(data), "●")
	assert.Contains(t, m.boardText(), " A B C D E F G H J")

	png := s.cfg.GetSavePath("board.png")
	require.NoError(t, m.exportPNG(png))
	assert.FileExists(t, png)
}

func TestCloseLogsRenderCacheStats(t *testing.T) {
	log, hook := logtest.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	s, err := newSession(testConfig(t), log)
	require.NoError(t, err)
	playOpening(t, s)
	initialModel(s).View()

	hook.Reset()
	s.Close()

	caches := map[string]bool{}
	for _, e := range hook.AllEntries() {
		if e.Message != "render cache closed" {
			continue
		}
		assert.Equal(t, logrus.DebugLevel, e.Level)
		assert.Contains(t, e.Data, "hits")
		assert.Contains(t, e.Data, "misses")
		caches[e.Data["cache"].(string)] = true
	}
	assert.Equal(t, map[string]bool{"terminal": true, "png": true}, caches)
}
