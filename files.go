package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

func (m model) startFileInput(op FileOperation, name string) (tea.Model, tea.Cmd) {
	if m.keyboardDrag {
		m.session.handler().Cancel()
		m.keyboardDrag = false
	}
	m.mode = ModeFileInput
	m.fileOp = op
	m.errorMessage = ""
	m.successMessage = ""
	m.input = newPrompt("Filename: ", 0)
	m.input.SetValue(name)
	m.input.CursorEnd()
	cmd := m.input.Focus()
	return m, cmd
}

func (m model) updateFileInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = ModeNormal
		m.errorMessage = ""
		m.input.Blur()
		return m, nil
	case tea.KeyUp, tea.KeyDown:
		if m.fileOp == FileOpOpen && len(m.fileList) > 0 {
			if msg.Type == tea.KeyUp {
				m.selectedFileIndex = (m.selectedFileIndex - 1 + len(m.fileList)) % len(m.fileList)
			} else {
				m.selectedFileIndex = (m.selectedFileIndex + 1) % len(m.fileList)
			}
			m.input.SetValue(strings.TrimSuffix(m.fileList[m.selectedFileIndex], gameFileExt))
			m.input.CursorEnd()
		}
		return m, nil
	case tea.KeyEnter:
		return m.runFileOperation()
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.selectedFileIndex = -1
	return m, cmd
}

func (m model) runFileOperation() (tea.Model, tea.Cmd) {
	s := m.session
	filename := strings.TrimSpace(m.input.Value())
	if filename == "" {
		m.errorMessage = "Please enter a filename"
		return m, nil
	}

	switch m.fileOp {
	case FileOpSave:
		path := s.cfg.GetSavePath(withExt(filename, gameFileExt))
		if _, err := os.Stat(path); err == nil && s.cfg.Confirmations && path != s.gameFile {
			m.mode = ModeConfirm
			m.confirmAction = ConfirmOverwriteFile
			m.pendingFile = path
			return m, nil
		}
		m.mode = ModeNormal
		m.saveGameTo(path)
		return m, nil
	case FileOpOpen:
		path := s.cfg.GetSavePath(withExt(filename, gameFileExt))
		if err := s.open(path); err != nil {
			m.errorMessage = fmt.Sprintf("Error opening file: %s", err.Error())
			return m, nil
		}
		s.saveAll()
		m.keyboardDrag = false
		m.ensureCursorInBounds()
		m.successMessage = "Opened " + path
	case FileOpSavePNG:
		path := s.cfg.GetSavePath(withExt(filename, ".png"))
		if err := m.exportPNG(path); err != nil {
			m.errorMessage = fmt.Sprintf("Error exporting PNG: %s", err.Error())
			return m, nil
		}
		m.successMessage = "Exported to " + absPath(path)
	case FileOpSaveVisualTXT:
		path := s.cfg.GetSavePath(withExt(filename, ".txt"))
		if err := m.exportVisualTXT(path); err != nil {
			m.errorMessage = fmt.Sprintf("Error exporting text: %s", err.Error())
			return m, nil
		}
		m.successMessage = "Exported to " + absPath(path)
	}
	m.mode = ModeNormal
	m.errorMessage = ""
	m.input.Blur()
	return m, nil
}

func (m *model) saveGameTo(path string) {
	s := m.session
	if err := s.saveGame(path); err != nil {
		m.errorMessage = fmt.Sprintf("Error saving file: %s", err.Error())
		return
	}
	if err := s.SaveApplicationState(); err != nil {
		s.log.WithError(err).Warn("saving application state failed")
	}
	s.log.WithField("file", path).Info("game saved")
	m.errorMessage = ""
	m.successMessage = "Saved to " + absPath(path)
}

// scanGameFiles lists the saved games in the save directory.
func (m *model) scanGameFiles() {
	m.fileList = []string{}
	m.selectedFileIndex = -1

	dir := m.session.cfg.SaveDirectory
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return
		}
		dir = wd
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() && name != backupName && strings.HasSuffix(strings.ToLower(name), gameFileExt) {
			m.fileList = append(m.fileList, name)
		}
	}
	sort.Strings(m.fileList)
	if len(m.fileList) > 0 {
		m.selectedFileIndex = 0
	}
}

func (m model) fileListView() string {
	var result strings.Builder
	result.WriteString("Saved games:\n")
	if len(m.fileList) == 0 {
		result.WriteString("  (no " + gameFileExt + " files found)")
		return result.String()
	}

	maxFiles := max(1, m.height-m.session.surface.Height()-4)
	startIdx := 0
	if m.selectedFileIndex >= maxFiles {
		startIdx = m.selectedFileIndex - maxFiles + 1
	}
	endIdx := min(startIdx+maxFiles, len(m.fileList))
	for i := startIdx; i < endIdx; i++ {
		displayName := strings.TrimSuffix(m.fileList[i], gameFileExt)
		if i == m.selectedFileIndex {
			result.WriteString("> " + displayName + " <")
		} else {
			result.WriteString("  " + displayName)
		}
		if i < endIdx-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

func withExt(name, ext string) string {
	if strings.HasSuffix(strings.ToLower(name), ext) {
		return name
	}
	return name + ext
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
