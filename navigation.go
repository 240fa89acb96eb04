package main

// handleNavigation moves the board cursor. A keyboard drag follows it.
func (m *model) handleNavigation(key string, speed int) {
	m.handleCursorMove(key, speed)
	if m.keyboardDrag {
		m.session.handler().Move(m.session.surface.ScreenOf(m.cursor))
	}
}

func (m *model) handleCursorMove(key string, speed int) {
	switch key {
	case "h", "left", "H", "shift+left":
		m.cursor.X -= speed
	case "l", "right", "L", "shift+right":
		m.cursor.X += speed
	case "k", "up", "K", "shift+up":
		m.cursor.Y -= speed
	case "j", "down", "J", "shift+down":
		m.cursor.Y += speed
	}
	m.ensureCursorInBounds()
}

func (m *model) getMoveSpeed(key string) int {
	switch key {
	case "H", "L", "K", "J", "shift+left", "shift+right", "shift+up", "shift+down":
		return 2
	default:
		return 1
	}
}

func (m *model) ensureCursorInBounds() {
	size := m.session.game.Size()
	m.cursor.X = max(0, min(m.cursor.X, size-1))
	m.cursor.Y = max(0, min(m.cursor.Y, size-1))
}

// handlePosition steps through the board positions of the game. A drag in
// progress is cancelled because its preview belongs to the old position.
func (m *model) handlePosition(key string) {
	s := m.session
	g := s.game
	index := g.CurrentBoardPositionIndex()
	switch key {
	case "[":
		index--
	case "]":
		index++
	case "{":
		index = 0
	case "}":
		index = g.NumberOfPositions() - 1
	}
	if index == g.CurrentBoardPositionIndex() {
		return
	}
	s.handler().Cancel()
	m.keyboardDrag = false
	g.SetCurrentPosition(index)
	if err := s.SaveApplicationState(); err != nil {
		s.log.WithError(err).Warn("saving position failed")
	}
}
