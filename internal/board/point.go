package board

import "fmt"

// Color identifies a stone color or the owner side of a markup element.
type Color int

const (
	None Color = iota
	Black
	White
)

func (c Color) Opponent() Color {
	switch c {
	case Black:
		return White
	case White:
		return Black
	default:
		return None
	}
}

func (c Color) String() string {
	switch c {
	case Black:
		return "B"
	case White:
		return "W"
	default:
		return "-"
	}
}

// ParseColor is the inverse of Color.String.
func ParseColor(s string) (Color, error) {
	switch s {
	case "B", "b":
		return Black, nil
	case "W", "w":
		return White, nil
	case "-", "":
		return None, nil
	}
	return None, fmt.Errorf("board: invalid color %q", s)
}

// Point is one intersection of the board grid. X counts columns from the
// left, Y counts rows from the top, both zero-based.
type Point struct {
	X, Y int
}

// columnLetters skips "I" like every Go board does.
const columnLetters = "ABCDEFGHJKLMNOPQRSTUVWXYZ"

// Less orders points row by row.
func (p Point) Less(q Point) bool {
	if p.Y != q.Y {
		return p.Y < q.Y
	}
	return p.X < q.X
}

// Vertex returns the human readable coordinate of p on a board of the
// given size, e.g. "D4".
func (p Point) Vertex(size int) string {
	if p.X < 0 || p.X >= len(columnLetters) {
		return p.String()
	}
	return fmt.Sprintf("%c%d", columnLetters[p.X], size-p.Y)
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// ColumnLetter returns the label printed above column x.
func ColumnLetter(x int) string {
	if x < 0 || x >= len(columnLetters) {
		return "?"
	}
	return string(columnLetters[x])
}

// ScreenPoint is a location in screen space: terminal cells for the TUI,
// pixels for the PNG exporter.
type ScreenPoint struct {
	X, Y int
}
