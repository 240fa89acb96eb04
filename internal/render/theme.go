package render

import "github.com/charmbracelet/lipgloss"

// Theme holds the terminal styles the stamps are built from. Changing the
// theme of a renderer invalidates its whole cache.
type Theme struct {
	Grid      lipgloss.Style
	Coord     lipgloss.Style
	Black     lipgloss.Style
	White     lipgloss.Style
	CrossHair lipgloss.Style
	LastMove  lipgloss.Style
	Markup    lipgloss.Style
	BlackSide lipgloss.Style
	WhiteSide lipgloss.Style
	Label     lipgloss.Style
	Preview   lipgloss.Style
	Cursor    lipgloss.Style
}

func DefaultTheme() Theme {
	board := lipgloss.Color("#DCB35C")
	return Theme{
		Grid:      lipgloss.NewStyle().Foreground(lipgloss.Color("#6B4F1D")).Background(board),
		Coord:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Black:     lipgloss.NewStyle().Foreground(lipgloss.Color("#000000")).Background(board).Bold(true),
		White:     lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Background(board).Bold(true),
		CrossHair: lipgloss.NewStyle().Foreground(lipgloss.Color("#555555")).Background(board),
		LastMove:  lipgloss.NewStyle().Foreground(lipgloss.Color("#D70000")).Background(board).Bold(true),
		Markup:    lipgloss.NewStyle().Foreground(lipgloss.Color("#B00020")).Background(board).Bold(true),
		BlackSide: lipgloss.NewStyle().Foreground(lipgloss.Color("#1A1A1A")).Background(board),
		WhiteSide: lipgloss.NewStyle().Foreground(lipgloss.Color("#F5F5F5")).Background(board),
		Label:     lipgloss.NewStyle().Foreground(lipgloss.Color("#0033AA")).Background(board).Bold(true),
		Preview:   lipgloss.NewStyle().Foreground(lipgloss.Color("#00875F")).Background(board).Bold(true),
		Cursor:    lipgloss.NewStyle().Reverse(true),
	}
}
