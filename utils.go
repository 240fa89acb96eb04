package main

import (
	"strings"

	"github.com/atotto/clipboard"
)

// boardText is the displayed position as plain text with trailing blanks
// removed.
func (m *model) boardText() string {
	lines := m.session.terminal.RenderPlain(m.frame(false))
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}
	return strings.Join(lines, "\n")
}

func (m *model) copyBoardToClipboard() error {
	return clipboard.WriteAll(m.boardText())
}
