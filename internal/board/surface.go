package board

// Surface maps screen space onto the intersections of a board that is
// drawn with its top-left intersection at Origin and CellWidth/CellHeight
// screen units between neighbouring intersections.
type Surface struct {
	Size       int
	Origin     ScreenPoint
	CellWidth  int
	CellHeight int
}

// NewTerminalSurface lays the board out for a terminal: two columns per
// intersection so the grid looks square, one row per intersection, and a
// margin for coordinate labels.
func NewTerminalSurface(size int) Surface {
	return Surface{
		Size:       size,
		Origin:     ScreenPoint{X: 3, Y: 1},
		CellWidth:  2,
		CellHeight: 1,
	}
}

// ResolveIntersection snaps a screen point to the nearest intersection.
// Points beyond half a cell outside the grid resolve to nothing.
func (s Surface) ResolveIntersection(sp ScreenPoint) (Point, bool) {
	if s.Size <= 0 || s.CellWidth <= 0 || s.CellHeight <= 0 {
		return Point{}, false
	}
	x, okX := snap(sp.X-s.Origin.X, s.CellWidth, s.Size)
	y, okY := snap(sp.Y-s.Origin.Y, s.CellHeight, s.Size)
	if !okX || !okY {
		return Point{}, false
	}
	return Point{X: x, Y: y}, true
}

func snap(offset, cell, size int) (int, bool) {
	half := cell / 2
	if offset < -half {
		return 0, false
	}
	idx := (offset + half) / cell
	if idx >= size {
		return 0, false
	}
	return idx, true
}

// ScreenOf returns the screen location of p.
func (s Surface) ScreenOf(p Point) ScreenPoint {
	return ScreenPoint{
		X: s.Origin.X + p.X*s.CellWidth,
		Y: s.Origin.Y + p.Y*s.CellHeight,
	}
}

// Width and Height are the extent of the grid in screen units.
func (s Surface) Width() int {
	return (s.Size-1)*s.CellWidth + 1
}

func (s Surface) Height() int {
	return (s.Size-1)*s.CellHeight + 1
}
