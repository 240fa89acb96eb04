package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"gomark/internal/board"
	"gomark/internal/gesture"
	"gomark/internal/markup"
	"gomark/internal/render"
)

// handleMouse feeds left button presses, motion and releases to the drag
// handler of the current tool. Outside markup editing a click plays.
func (m *model) handleMouse(msg tea.MouseMsg) {
	s := m.session
	sp := board.ScreenPoint{X: msg.X, Y: msg.Y}
	p, onBoard := s.surface.ResolveIntersection(sp)
	if onBoard {
		m.cursor = p
	}
	h := s.handler()

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		if !s.editing {
			if onBoard {
				m.playAt(p)
			}
			return
		}
		if m.keyboardDrag {
			h.Cancel()
			m.keyboardDrag = false
		}
		h.Begin(sp)
	case tea.MouseActionMotion:
		if !m.keyboardDrag {
			h.Move(sp)
		}
	case tea.MouseActionRelease:
		if h.Active() && !m.keyboardDrag {
			m.reportOutcome(h.End(sp))
		}
	}
}

// handleBoardKey is enter or space on the board cursor. With the connection
// tool the first press starts a drag and the second one ends it; the other
// tools act at once.
func (m *model) handleBoardKey() {
	s := m.session
	if !s.editing {
		m.playAt(m.cursor)
		return
	}
	h := s.handler()
	sp := s.surface.ScreenOf(m.cursor)
	if m.keyboardDrag {
		m.keyboardDrag = false
		m.reportOutcome(h.End(sp))
		return
	}
	if !h.Begin(sp) {
		return
	}
	if s.tool == ToolConnection {
		m.keyboardDrag = true
		return
	}
	m.reportOutcome(h.End(sp))
}

func (m *model) playAt(p board.Point) {
	s := m.session
	color := s.game.NextColor()
	if err := s.play(p); err != nil {
		m.errorMessage = fmt.Sprintf("Cannot play %s: %s", p.Vertex(s.game.Size()), err.Error())
		return
	}
	m.errorMessage = ""
	m.successMessage = fmt.Sprintf("%s %s", color, p.Vertex(s.game.Size()))
}

// reportOutcome puts a committed change on the status line. Failures are
// reported by the markup command itself.
func (m *model) reportOutcome(out gesture.Outcome) {
	if !out.Committed() || out.Err != nil {
		return
	}
	m.errorMessage = ""
	m.successMessage = describeResult(out.Result, m.session.game.Size())
}

func describeResult(r markup.Result, size int) string {
	switch r.Op {
	case markup.OpErase:
		return "Erased markup at " + r.At.Vertex(size)
	case markup.OpRemove:
		return fmt.Sprintf("Removed %s at %s", r.Category(), r.At.Vertex(size))
	}
	if c, ok := r.Element.(markup.Connection); ok {
		verb := "Connected"
		if r.Update {
			verb = "Updated connection"
		}
		return fmt.Sprintf("%s %s-%s", verb, c.From.Vertex(size), c.To.Vertex(size))
	}
	return fmt.Sprintf("Placed %s at %s", r.Category(), r.At.Vertex(size))
}

// frame collects what the board drawing needs. Exports leave out the
// cursor and the drag preview.
func (m model) frame(interactive bool) render.Frame {
	s := m.session
	g := s.game
	index := g.CurrentBoardPositionIndex()
	f := render.Frame{
		Size:    g.Size(),
		Index:   index,
		Stones:  g.StonesAt(index),
		Markup:  s.markup.Elements(index),
		Surface: s.surface,
		Next:    g.NextColor(),
	}
	if mv, ok := g.LastMove(index); ok && !mv.Pass {
		at := mv.At
		f.LastMove = &at
	}
	if !interactive {
		return f
	}

	cursor := m.cursor
	f.Cursor = &cursor
	if !s.editing {
		f.CrossHair = &cursor
	}
	if pv, ok := s.handler().Preview(); ok {
		anchor := pv.Anchor
		f.GhostAnchor = &anchor
		f.Ghost = pv.Ghost
	}
	return f
}
