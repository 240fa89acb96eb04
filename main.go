package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"gomark/internal/board"
	"gomark/internal/markup"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		size      int
		dir       string
		logLevel  string
		edit      bool
		noRestore bool
	)
	root := &cobra.Command{
		Use:   "gomark [game file]",
		Short: "Record a game of Go and mark up its positions in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			flags := cmd.Flags()
			if flags.Changed("size") {
				if size < board.MinSize || size > board.MaxSize {
					return fmt.Errorf("board size must be between %d and %d", board.MinSize, board.MaxSize)
				}
				cfg.BoardSize = size
			}
			if flags.Changed("dir") {
				home, _ := os.UserHomeDir()
				cfg.SaveDirectory = expandPath(dir, home)
			}
			if flags.Changed("log-level") {
				lvl, err := logrus.ParseLevel(logLevel)
				if err != nil {
					return err
				}
				cfg.LogLevel = lvl
			}
			if flags.Changed("edit") {
				cfg.EditMode = edit
			}
			if noRestore {
				cfg.Restore = false
			}
			if len(args) == 1 {
				cfg.GameFile = args[0]
			}
			cmd.SilenceUsage = true
			return run(cfg)
		},
	}

	root.Flags().IntVar(&size, "size", board.DefaultSize, "board size of a new game")
	root.Flags().StringVar(&dir, "dir", "", "directory for games, state and log (default ~/.gomark)")
	root.Flags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	root.Flags().BoolVar(&edit, "edit", false, "start in markup editing mode")
	root.Flags().BoolVar(&noRestore, "no-restore", false, "start a new game instead of restoring the backup")
	return root
}

func run(cfg *Config) error {
	log, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	session, err := newSession(cfg, log)
	if err != nil {
		log.WithError(err).Error("startup failed")
		return err
	}
	defer session.Close()

	p := tea.NewProgram(
		initialModel(session),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		log.WithError(err).Error("program failed")
		return err
	}
	return nil
}

func initialModel(session *Session) model {
	m := model{
		session:           session,
		mode:              ModeNormal,
		selectedFileIndex: -1,
	}
	if last, ok := session.game.LastMove(session.CurrentBoardPositionIndex()); ok && !last.Pass {
		m.cursor = last.At
	} else {
		center := session.game.Size() / 2
		m.cursor = board.Point{X: center, Y: center}
	}
	return m
}

func newPrompt(prompt string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Prompt = prompt
	ti.CharLimit = limit
	return ti
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.MouseMsg:
		if m.help || m.mode != ModeNormal {
			return m, nil
		}
		m.handleMouse(msg)
		m.syncAlert()
		return m, nil

	case tea.KeyMsg:
		if m.help {
			switch msg.String() {
			case "esc", "q", "?":
				m.help = false
				m.helpScroll = 0
			case "j", "down":
				m.helpScroll++
			case "k", "up":
				if m.helpScroll > 0 {
					m.helpScroll--
				}
			}
			return m, nil
		}

		var cmd tea.Cmd
		var next tea.Model
		switch m.mode {
		case ModeLabelInput:
			next, cmd = m.updateLabelInput(msg)
		case ModeFileInput:
			next, cmd = m.updateFileInput(msg)
		case ModeConfirm:
			next, cmd = m.updateConfirm(msg)
		default:
			next, cmd = m.updateNormal(msg)
		}
		if nm, ok := next.(model); ok {
			nm.syncAlert()
			next = nm
		}
		return next, cmd
	}
	return m, nil
}

func (m model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.session
	key := msg.String()
	switch key {
	case "ctrl+c":
		return m, tea.Quit
	case "q":
		if !s.cfg.Confirmations {
			return m, tea.Quit
		}
		m.mode = ModeConfirm
		m.confirmAction = ConfirmQuit
	case "?":
		m.help = true
		m.helpScroll = 0
	case "esc":
		if m.keyboardDrag {
			s.handler().Cancel()
			m.keyboardDrag = false
		}
		m.errorMessage = ""
		m.successMessage = ""
	case "h", "left", "H", "shift+left", "l", "right", "L", "shift+right",
		"k", "up", "K", "shift+up", "j", "down", "J", "shift+down":
		m.handleNavigation(key, m.getMoveSpeed(key))
	case "[", "]", "{", "}":
		m.handlePosition(key)
	case "enter", " ", "space":
		m.handleBoardKey()
	case "m":
		m.keyboardDrag = false
		s.setEditing(!s.editing)
		if err := s.SaveApplicationState(); err != nil {
			s.log.WithError(err).Warn("saving editing mode failed")
		}
		if s.editing {
			m.successMessage = "Markup editing on"
		} else {
			m.successMessage = "Markup editing off"
		}
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		m.keyboardDrag = false
		s.setTool(Tool(key[0] - '1'))
		m.successMessage = "Tool: " + s.tool.String()
	case "t":
		m.keyboardDrag = false
		s.setTool((s.tool + 1) % numTools)
		m.successMessage = "Tool: " + s.tool.String()
	case "a":
		if s.brush.Style == markup.StyleLine {
			s.brush.Style = markup.StyleArrow
		} else {
			s.brush.Style = markup.StyleLine
		}
		m.successMessage = "Connection style: " + s.brush.Style.String()
	case "c":
		s.brush.Side = s.brush.Side.Opponent()
		m.successMessage = "Markup side: " + s.brush.Side.String()
	case "T":
		if !s.editing {
			m.errorMessage = "Switch to markup mode (m) to add labels"
			return m, nil
		}
		return m.startLabelInput()
	case "p":
		if s.editing {
			return m, nil
		}
		s.pass()
		m.successMessage = fmt.Sprintf("%s passed", s.game.NextColor().Opponent())
	case "u":
		if action, ok := s.undo(); ok {
			m.successMessage = "Undid " + action.Type.String()
		} else if len(s.undoStack) == 0 {
			m.errorMessage = "Nothing to undo"
		}
	case "U":
		if action, ok := s.redo(); ok {
			m.successMessage = "Redid " + action.Type.String()
		} else if len(s.redoStack) == 0 {
			m.errorMessage = "Nothing to redo"
		}
	case "n":
		m.mode = ModeConfirm
		m.confirmAction = ConfirmNewGame
	case "s":
		name := ""
		if s.gameFile != "" {
			name = strings.TrimSuffix(filepath.Base(s.gameFile), gameFileExt)
		}
		return m.startFileInput(FileOpSave, name)
	case "o":
		m.scanGameFiles()
		name := ""
		if len(m.fileList) > 0 {
			name = strings.TrimSuffix(m.fileList[0], gameFileExt)
		}
		return m.startFileInput(FileOpOpen, name)
	case "S":
		return m.startFileInput(FileOpSavePNG, "board")
	case "X":
		return m.startFileInput(FileOpSaveVisualTXT, "board")
	case "y":
		if err := m.copyBoardToClipboard(); err != nil {
			m.errorMessage = fmt.Sprintf("Copy failed: %s", err.Error())
		} else {
			m.successMessage = "Board copied to clipboard"
		}
	}
	return m, nil
}

func (m model) startLabelInput() (tea.Model, tea.Cmd) {
	m.keyboardDrag = false
	m.session.handler().Cancel()
	m.input = newPrompt("Label: ", markup.MaxLabelLength)
	m.input.SetValue(m.session.markup.NextLabel(m.session.CurrentBoardPositionIndex()))
	cmd := m.input.Focus()
	m.mode = ModeLabelInput
	return m, cmd
}

func (m model) updateLabelInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = ModeNormal
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		m.mode = ModeNormal
		m.input.Blur()
		label := markup.Label{At: m.cursor, Text: strings.TrimSpace(m.input.Value())}
		if err := m.session.execute(markup.Place(label)); err == nil {
			m.successMessage = fmt.Sprintf("Label %q at %s", label.Text, label.At.Vertex(m.session.game.Size()))
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.session
	switch msg.String() {
	case "y", "Y":
		m.mode = ModeNormal
		switch m.confirmAction {
		case ConfirmQuit:
			return m, tea.Quit
		case ConfirmNewGame:
			if err := s.newGame(s.game.Size()); err != nil {
				m.errorMessage = err.Error()
				return m, nil
			}
			s.saveAll()
			m.cursor = board.Point{X: s.game.Size() / 2, Y: s.game.Size() / 2}
			m.keyboardDrag = false
			m.successMessage = "New game"
		case ConfirmOverwriteFile:
			m.saveGameTo(m.pendingFile)
			m.pendingFile = ""
		}
	case "n", "N", "esc":
		m.mode = ModeNormal
		m.pendingFile = ""
	}
	return m, nil
}

// syncAlert moves an alert raised by the markup command onto the status
// line.
func (m *model) syncAlert() {
	if msg := m.session.takeAlert(); msg != "" {
		m.errorMessage = msg
		m.successMessage = ""
	}
}

var (
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F")).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FD75F"))
)

func (m model) View() string {
	if m.help {
		return m.helpView()
	}

	var result strings.Builder
	lines := m.session.terminal.Render(m.frame(true))
	result.WriteString(strings.Join(lines, "\n"))

	if m.mode == ModeFileInput && m.fileOp == FileOpOpen {
		result.WriteString("\n")
		result.WriteString(m.fileListView())
	}
	result.WriteString("\n")
	result.WriteString(m.statusLine())
	return result.String()
}

func (m model) statusLine() string {
	s := m.session
	switch m.mode {
	case ModeLabelInput:
		return statusStyle.Render("Mode: LABEL | ") + m.input.View() + statusStyle.Render(" | Enter=place, Esc=cancel")
	case ModeFileInput:
		var opStr string
		switch m.fileOp {
		case FileOpSave:
			opStr = "Save game"
		case FileOpOpen:
			opStr = "Open game"
		case FileOpSavePNG:
			opStr = "Export PNG"
		case FileOpSaveVisualTXT:
			opStr = "Export TXT"
		}
		line := statusStyle.Render(fmt.Sprintf("Mode: FILE | %s | ", opStr)) + m.input.View()
		if m.errorMessage != "" {
			line += " | " + errorStyle.Render("ERROR: "+m.errorMessage)
		}
		return line
	case ModeConfirm:
		var message string
		switch m.confirmAction {
		case ConfirmQuit:
			message = "Quit gomark? (y/n)"
		case ConfirmNewGame:
			message = "Start a new game? Unsaved changes to this one will be lost. (y/n)"
		case ConfirmOverwriteFile:
			message = fmt.Sprintf("File %s already exists. Overwrite? (y/n)", m.pendingFile)
		}
		return statusStyle.Render("Mode: CONFIRM | " + message)
	}

	g := s.game
	status := fmt.Sprintf("Mode: %s | Position %d/%d | %s",
		m.modeString(), g.CurrentBoardPositionIndex(), g.NumberOfPositions()-1, m.cursor.Vertex(g.Size()))
	if s.editing {
		status += fmt.Sprintf(" | Tool: %s (%s, %s)", s.tool, s.brush.Style, s.brush.Side)
		if m.keyboardDrag {
			status += " | dragging, Enter=finish, Esc=cancel"
		}
	} else {
		status += fmt.Sprintf(" | %s to play", g.NextColor())
	}
	line := statusStyle.Render(status)
	if m.successMessage != "" {
		line += statusStyle.Render(" | ") + successStyle.Render(m.successMessage)
	}
	if m.errorMessage != "" {
		line += statusStyle.Render(" | ") + errorStyle.Render("ERROR: "+m.errorMessage)
	} else if m.successMessage == "" {
		line += statusStyle.Render(" | ? for help | q to quit")
	}
	return line
}

func (m model) modeString() string {
	switch m.mode {
	case ModeNormal:
		if m.session.editing {
			return "MARKUP"
		}
		return "PLAY"
	case ModeLabelInput:
		return "LABEL"
	case ModeFileInput:
		return "FILE"
	case ModeConfirm:
		return "CONFIRM"
	default:
		return "UNKNOWN"
	}
}

func (m model) helpView() string {
	helpLines := []string{
		"gomark Help",
		"===========",
		"",
		"Navigation:",
		"-----------",
		"  h/←/j/↓/k/↑/l/→  Move the board cursor",
		"  Shift+h/j/k/l    Move the cursor 2x faster",
		"  [ / ]            Previous / next position",
		"  { / }            First / last position",
		"",
		"Playing:",
		"--------",
		"  Enter/Space      Play a stone at the cursor",
		"  Mouse click      Play a stone on the clicked intersection",
		"  p                Pass",
		"  n                New game",
		"",
		"Markup (not on the initial position):",
		"-------------------------------------",
		"  m                Toggle markup editing mode",
		"  1-9              Select tool: 1 connection, 2 circle, 3 square,",
		"                   4 triangle, 5 x, 6 selected, 7 territory,",
		"                   8 label, 9 eraser",
		"  t                Next tool",
		"  a                Toggle connection style (line/arrow)",
		"  c                Toggle markup side (black/white)",
		"  T                Label the cursor intersection with custom text",
		"  Mouse drag       Drag from one intersection to another to connect them,",
		"                   release on an intersection to place the other tools",
		"  Enter/Space      Start and finish a connection at the cursor,",
		"                   or place the current tool",
		"  Esc              Cancel the drag in progress",
		"  Placing the same symbol again removes it.",
		"",
		"Files:",
		"------",
		"  s                Save game",
		"  o                Open game",
		"  S                Export the position as PNG",
		"  X                Export the position as text",
		"  y                Copy the position as text to the clipboard",
		"",
		"General:",
		"  u                Undo last markup change",
		"  U                Redo last undone markup change",
		"  ?                Toggle this help screen",
		"  q/Ctrl+C         Quit",
	}

	visibleHeight := m.height - 1
	if visibleHeight < 1 {
		visibleHeight = len(helpLines)
	}

	startLine := m.helpScroll
	if startLine > len(helpLines)-visibleHeight {
		startLine = max(0, len(helpLines)-visibleHeight)
	}
	endLine := min(startLine+visibleHeight, len(helpLines))

	result := strings.Join(helpLines[startLine:endLine], "\n")
	statusLine := fmt.Sprintf("Help (%d-%d of %d lines) | j/k to scroll, Esc to close",
		startLine+1, endLine, len(helpLines))
	return result + "\n" + statusLine
}
