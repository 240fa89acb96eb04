package markup

import (
	"fmt"

	"gomark/internal/board"
)

// Category groups markup elements that compete for the same slot: at most
// one element of a category sits on an intersection, and at most one
// connection joins an unordered pair of intersections.
type Category int

const (
	CategorySymbol Category = iota
	CategoryTerritory
	CategoryConnection
	CategoryLabel
	NumCategories
)

func (c Category) String() string {
	switch c {
	case CategorySymbol:
		return "symbol"
	case CategoryTerritory:
		return "territory"
	case CategoryConnection:
		return "connection"
	case CategoryLabel:
		return "label"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// Element is one of Symbol, Territory, Connection or Label.
type Element interface {
	Category() Category
	// Anchor is the intersection the element is stored under. For a
	// connection this is its start point.
	Anchor() board.Point
	isElement()
}

type Shape int

const (
	ShapeCircle Shape = iota
	ShapeSquare
	ShapeTriangle
	ShapeX
	ShapeSelected
)

func (s Shape) String() string {
	switch s {
	case ShapeCircle:
		return "circle"
	case ShapeSquare:
		return "square"
	case ShapeTriangle:
		return "triangle"
	case ShapeX:
		return "x"
	case ShapeSelected:
		return "selected"
	default:
		return fmt.Sprintf("shape(%d)", int(s))
	}
}

func ParseShape(s string) (Shape, error) {
	for sh := ShapeCircle; sh <= ShapeSelected; sh++ {
		if sh.String() == s {
			return sh, nil
		}
	}
	return 0, fmt.Errorf("markup: unknown shape %q", s)
}

// Symbol marks a stone or an empty intersection.
type Symbol struct {
	At    board.Point
	Shape Shape
}

func (Symbol) Category() Category    { return CategorySymbol }
func (s Symbol) Anchor() board.Point { return s.At }
func (Symbol) isElement()            {}

// Territory marks an intersection as belonging to Side.
type Territory struct {
	At   board.Point
	Side board.Color
}

func (Territory) Category() Category    { return CategoryTerritory }
func (t Territory) Anchor() board.Point { return t.At }
func (Territory) isElement()            {}

type Style int

const (
	StyleLine Style = iota
	StyleArrow
)

func (s Style) String() string {
	if s == StyleArrow {
		return "arrow"
	}
	return "line"
}

func ParseStyle(s string) (Style, error) {
	switch s {
	case "line":
		return StyleLine, nil
	case "arrow":
		return StyleArrow, nil
	}
	return 0, fmt.Errorf("markup: unknown connection style %q", s)
}

// Connection joins two distinct intersections. For StyleArrow the head is
// drawn at To.
type Connection struct {
	From  board.Point
	To    board.Point
	Style Style
	Side  board.Color
}

func (Connection) Category() Category    { return CategoryConnection }
func (c Connection) Anchor() board.Point { return c.From }
func (Connection) isElement()            {}

// Key returns the unordered endpoint pair identifying c.
func (c Connection) Key() PairKey {
	return KeyOf(c.From, c.To)
}

// Touches reports whether p is one of the endpoints.
func (c Connection) Touches(p board.Point) bool {
	return c.From == p || c.To == p
}

// Label puts short text on an intersection.
type Label struct {
	At   board.Point
	Text string
}

func (Label) Category() Category    { return CategoryLabel }
func (l Label) Anchor() board.Point { return l.At }
func (Label) isElement()            {}

// PairKey is an unordered pair of intersections; A is never after B.
type PairKey struct {
	A, B board.Point
}

// KeyOf normalizes p and q so that KeyOf(p, q) == KeyOf(q, p).
func KeyOf(p, q board.Point) PairKey {
	if q.Less(p) {
		p, q = q, p
	}
	return PairKey{A: p, B: q}
}

// Degenerate reports whether both ends are the same intersection.
func (k PairKey) Degenerate() bool {
	return k.A == k.B
}

func (k PairKey) String() string {
	return k.A.String() + "-" + k.B.String()
}
