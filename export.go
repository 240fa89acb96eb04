package main

import (
	"bufio"
	"fmt"
	"os"
)

// exportVisualTXT writes the displayed position as plain text, without the
// cursor and without a drag preview.
func (m *model) exportVisualTXT(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	for _, line := range m.session.terminal.RenderPlain(m.frame(false)) {
		fmt.Fprintln(w, line)
	}
	return w.Flush()
}

func (m *model) exportPNG(filename string) error {
	return m.session.png.Export(filename, m.frame(false))
}
