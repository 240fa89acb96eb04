package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"gomark/internal/board"
	"gomark/internal/markup"
)

// Frame is everything the board drawing routine needs for one redraw.
type Frame struct {
	Size     int
	Index    int
	Stones   map[board.Point]board.Color
	LastMove *board.Point
	Markup   []markup.Element
	Surface  board.Surface
	// Ghost is the element an in-progress drag would commit; GhostAnchor
	// is where the drag started.
	Ghost       markup.Element
	GhostAnchor *board.Point
	Cursor      *board.Point
	// CrossHair shows where a stone of color Next would be played.
	CrossHair *board.Point
	Next      board.Color
}

type styleID int

const (
	styleNone styleID = iota
	styleGrid
	styleCoord
	styleBlack
	styleWhite
	styleCrossHair
	styleLastMove
	styleMarkup
	styleMarkupOnBlack
	styleMarkupOnWhite
	styleBlackSide
	styleWhiteSide
	styleLabel
	stylePreview
	styleCursor
	numStyles
)

// stamp is the terminal drawing resource: one glyph in one style.
type stamp struct {
	glyph rune
	style styleID
}

type connCell struct {
	at    board.ScreenPoint
	glyph rune
	style styleID
}

type (
	pointLayer      map[board.Point]Kind
	labelLayer      map[board.Point]string
	connectionLayer []connCell
)

// Terminal draws the board into styled terminal lines. Stamps and markup
// layers are kept in the cache between frames; layers are dropped when the
// displayed position changes and by whoever mutates the markup.
type Terminal struct {
	cache  *Cache
	theme  Theme
	styles [numStyles]lipgloss.Style
	size   int
	index  int
}

func NewTerminal(cache *Cache, theme Theme) *Terminal {
	t := &Terminal{cache: cache, index: -1}
	t.SetTheme(theme)
	return t
}

func (t *Terminal) Cache() *Cache {
	return t.cache
}

func (t *Terminal) SetTheme(theme Theme) {
	t.theme = theme
	t.styles = [numStyles]lipgloss.Style{
		styleNone:          lipgloss.NewStyle(),
		styleGrid:          theme.Grid,
		styleCoord:         theme.Coord,
		styleBlack:         theme.Black,
		styleWhite:         theme.White,
		styleCrossHair:     theme.CrossHair,
		styleLastMove:      theme.LastMove,
		styleMarkup:        theme.Markup,
		styleMarkupOnBlack: theme.Markup.Copy().Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#000000")),
		styleMarkupOnWhite: theme.Markup.Copy().Foreground(lipgloss.Color("#000000")).Background(lipgloss.Color("#FFFFFF")),
		styleBlackSide:     theme.BlackSide,
		styleWhiteSide:     theme.WhiteSide,
		styleLabel:         theme.Label,
		stylePreview:       theme.Preview,
		styleCursor:        theme.Cursor,
	}
	t.cache.InvalidateAll()
}

// Render returns the styled board lines.
func (t *Terminal) Render(f Frame) []string {
	return t.compose(f).styled(t.styles)
}

// RenderPlain returns the board without styling, for text export and the
// clipboard.
func (t *Terminal) RenderPlain(f Frame) []string {
	return t.compose(f).plain()
}

func (t *Terminal) sync(f Frame) {
	if f.Size != t.size {
		t.cache.InvalidateAll()
		t.size = f.Size
		t.index = f.Index
	}
	if f.Index != t.index {
		t.cache.InvalidateLayers()
		t.index = f.Index
	}
}

func (t *Terminal) compose(f Frame) *grid {
	t.sync(f)
	s := f.Surface
	g := newGrid(s.Origin.X+s.Width()+1, s.Origin.Y+s.Height()+1)

	for x := 0; x < f.Size; x++ {
		sp := s.ScreenOf(board.Point{X: x})
		g.text(sp.X, s.Origin.Y-1, board.ColumnLetter(x), styleCoord)
	}
	for y := 0; y < f.Size; y++ {
		sp := s.ScreenOf(board.Point{Y: y})
		g.text(0, sp.Y, fmt.Sprintf("%2d", f.Size-y), styleCoord)
		for x := 0; x < f.Size; x++ {
			sp := s.ScreenOf(board.Point{X: x, Y: y})
			g.set(sp.X, sp.Y, gridGlyph(x, y, f.Size), styleGrid)
			if x < f.Size-1 {
				for i := 1; i < s.CellWidth; i++ {
					g.set(sp.X+i, sp.Y, '─', styleGrid)
				}
			}
		}
	}
	star := t.stamp(KindStarPoint)
	for _, p := range board.StarPoints(f.Size) {
		t.put(g, s, p, star)
	}

	for p, k := range t.territoryLayer(f) {
		t.put(g, s, p, t.stamp(k))
	}
	for p, c := range f.Stones {
		t.put(g, s, p, t.stamp(stoneKind(c)))
	}
	if f.LastMove != nil {
		if c, ok := f.Stones[*f.LastMove]; ok {
			k := KindBlackLastMove
			if c == board.White {
				k = KindWhiteLastMove
			}
			t.put(g, s, *f.LastMove, t.stamp(k))
		}
	}
	for _, cc := range t.connectionLayer(f) {
		g.set(cc.at.X, cc.at.Y, cc.glyph, cc.style)
	}
	for p, k := range t.symbolLayer(f) {
		st := t.stamp(k)
		switch f.Stones[p] {
		case board.Black:
			st.style = styleMarkupOnBlack
		case board.White:
			st.style = styleMarkupOnWhite
		}
		t.put(g, s, p, st)
	}
	for p, text := range t.labelLayer(f) {
		sp := s.ScreenOf(p)
		g.text(sp.X, sp.Y, text, t.stamp(KindLabel).style)
	}

	if f.CrossHair != nil {
		if _, occupied := f.Stones[*f.CrossHair]; !occupied {
			t.put(g, s, *f.CrossHair, t.stamp(KindCrossHairStone))
		}
	}
	t.drawGhost(g, f)
	if f.Cursor != nil {
		sp := s.ScreenOf(*f.Cursor)
		g.restyle(sp.X, sp.Y, styleCursor)
	}
	return g
}

func (t *Terminal) put(g *grid, s board.Surface, p board.Point, st stamp) {
	sp := s.ScreenOf(p)
	g.set(sp.X, sp.Y, st.glyph, st.style)
}

// stamp returns the cached glyph for kind, creating it on first use.
func (t *Terminal) stamp(kind Kind) stamp {
	r := t.cache.GetOrCreate(kind, func() Resource {
		return newStamp(kind)
	})
	st, ok := r.(stamp)
	if !ok {
		st = newStamp(kind)
		t.cache.Set(kind, st)
	}
	return st
}

func newStamp(kind Kind) stamp {
	switch kind {
	case KindStarPoint:
		return stamp{'•', styleGrid}
	case KindBlackStone:
		return stamp{'●', styleBlack}
	case KindWhiteStone:
		return stamp{'●', styleWhite}
	case KindCrossHairStone:
		return stamp{'◌', styleCrossHair}
	case KindBlackLastMove:
		return stamp{'◉', styleMarkupOnBlack}
	case KindWhiteLastMove:
		return stamp{'◉', styleMarkupOnWhite}
	case KindBlackTerritory:
		return stamp{'▪', styleBlackSide}
	case KindWhiteTerritory:
		return stamp{'▪', styleWhiteSide}
	case KindCircleSymbol:
		return stamp{'◦', styleMarkup}
	case KindSquareSymbol:
		return stamp{'□', styleMarkup}
	case KindTriangleSymbol:
		return stamp{'△', styleMarkup}
	case KindXSymbol:
		return stamp{'✕', styleMarkup}
	case KindSelectedSymbol:
		return stamp{'◆', styleMarkup}
	case KindConnectionLine, KindConnectionArrow:
		return stamp{'─', styleMarkup}
	case KindLabel:
		return stamp{' ', styleLabel}
	}
	return stamp{'?', styleMarkup}
}

func stoneKind(c board.Color) Kind {
	if c == board.White {
		return KindWhiteStone
	}
	return KindBlackStone
}

// SymbolKind maps a symbol shape to its stamp kind.
func SymbolKind(s markup.Shape) Kind {
	switch s {
	case markup.ShapeSquare:
		return KindSquareSymbol
	case markup.ShapeTriangle:
		return KindTriangleSymbol
	case markup.ShapeX:
		return KindXSymbol
	case markup.ShapeSelected:
		return KindSelectedSymbol
	default:
		return KindCircleSymbol
	}
}

func territoryKind(c board.Color) Kind {
	if c == board.White {
		return KindWhiteTerritory
	}
	return KindBlackTerritory
}

func (t *Terminal) symbolLayer(f Frame) pointLayer {
	r := t.cache.GetOrCreate(KindSymbolLayer, func() Resource {
		layer := make(pointLayer)
		for _, e := range f.Markup {
			if s, ok := e.(markup.Symbol); ok {
				layer[s.At] = SymbolKind(s.Shape)
			}
		}
		return layer
	})
	return r.(pointLayer)
}

func (t *Terminal) territoryLayer(f Frame) pointLayer {
	r := t.cache.GetOrCreate(KindTerritoryLayer, func() Resource {
		layer := make(pointLayer)
		for _, e := range f.Markup {
			if tm, ok := e.(markup.Territory); ok {
				layer[tm.At] = territoryKind(tm.Side)
			}
		}
		return layer
	})
	return r.(pointLayer)
}

func (t *Terminal) labelLayer(f Frame) labelLayer {
	r := t.cache.GetOrCreate(KindLabelLayer, func() Resource {
		layer := make(labelLayer)
		for _, e := range f.Markup {
			if l, ok := e.(markup.Label); ok {
				layer[l.At] = l.Text
			}
		}
		return layer
	})
	return r.(labelLayer)
}

func (t *Terminal) connectionLayer(f Frame) connectionLayer {
	r := t.cache.GetOrCreate(KindConnectionLayer, func() Resource {
		var layer connectionLayer
		line := t.stamp(KindConnectionLine)
		for _, e := range f.Markup {
			c, ok := e.(markup.Connection)
			if !ok {
				continue
			}
			style := sideStyle(c.Side, line.style)
			layer = append(layer, rasterize(f.Surface, c, f.Stones, style)...)
		}
		return layer
	})
	return r.(connectionLayer)
}

func sideStyle(c board.Color, fallback styleID) styleID {
	switch c {
	case board.Black:
		return styleBlackSide
	case board.White:
		return styleWhiteSide
	}
	return fallback
}

func (t *Terminal) drawGhost(g *grid, f Frame) {
	if f.GhostAnchor != nil {
		sp := f.Surface.ScreenOf(*f.GhostAnchor)
		g.restyle(sp.X, sp.Y, stylePreview)
	}
	switch e := f.Ghost.(type) {
	case markup.Connection:
		for _, cc := range rasterize(f.Surface, e, f.Stones, stylePreview) {
			g.set(cc.at.X, cc.at.Y, cc.glyph, stylePreview)
		}
		sp := f.Surface.ScreenOf(e.To)
		g.restyle(sp.X, sp.Y, stylePreview)
	case markup.Symbol:
		t.put(g, f.Surface, e.At, stamp{t.stamp(SymbolKind(e.Shape)).glyph, stylePreview})
	case markup.Territory:
		t.put(g, f.Surface, e.At, stamp{t.stamp(territoryKind(e.Side)).glyph, stylePreview})
	case markup.Label:
		sp := f.Surface.ScreenOf(e.At)
		g.text(sp.X, sp.Y, e.Text, stylePreview)
	}
}

// rasterize walks the cells between the endpoints of c. Endpoints are left
// alone so stones stay visible; an arrow head goes on the last free cell.
func rasterize(s board.Surface, c markup.Connection, stones map[board.Point]board.Color, style styleID) []connCell {
	from, to := s.ScreenOf(c.From), s.ScreenOf(c.To)
	dx, dy := to.X-from.X, to.Y-from.Y
	glyph := lineGlyph(dx, dy)

	var cells []connCell
	for _, sp := range bresenham(from, to) {
		if sp == from || sp == to {
			continue
		}
		if p, ok := s.ResolveIntersection(sp); ok && s.ScreenOf(p) == sp && stones[p] != board.None {
			continue
		}
		cells = append(cells, connCell{at: sp, glyph: glyph, style: style})
	}
	if c.Style == markup.StyleArrow {
		head := arrowGlyph(dx, dy)
		if len(cells) > 0 {
			cells[len(cells)-1].glyph = head
		} else if stones[c.To] == board.None {
			cells = append(cells, connCell{at: to, glyph: head, style: style})
		}
	}
	return cells
}

func bresenham(a, b board.ScreenPoint) []board.ScreenPoint {
	dx, dy := abs(b.X-a.X), -abs(b.Y-a.Y)
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}
	e := dx + dy
	var out []board.ScreenPoint
	for x, y := a.X, a.Y; ; {
		out = append(out, board.ScreenPoint{X: x, Y: y})
		if x == b.X && y == b.Y {
			return out
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x += sx
		}
		if e2 <= dx {
			e += dx
			y += sy
		}
	}
}

// lineGlyph picks a box drawing character for the slope. Terminal cells
// are about twice as tall as wide, which the thresholds account for.
func lineGlyph(dx, dy int) rune {
	ax, ay := abs(dx), abs(dy)*2
	switch {
	case ay*3 < ax:
		return '─'
	case ax*3 < ay:
		return '│'
	case (dx > 0) == (dy > 0):
		return '╲'
	default:
		return '╱'
	}
}

func arrowGlyph(dx, dy int) rune {
	ax, ay := abs(dx), abs(dy)*2
	switch {
	case ay*3 < ax:
		if dx > 0 {
			return '▶'
		}
		return '◀'
	case ax*3 < ay:
		if dy > 0 {
			return '▼'
		}
		return '▲'
	case dx > 0 && dy > 0:
		return '◢'
	case dx < 0 && dy > 0:
		return '◣'
	case dx > 0:
		return '◥'
	default:
		return '◤'
	}
}

func gridGlyph(x, y, size int) rune {
	last := size - 1
	switch {
	case x == 0 && y == 0:
		return '┌'
	case x == last && y == 0:
		return '┐'
	case x == 0 && y == last:
		return '└'
	case x == last && y == last:
		return '┘'
	case y == 0:
		return '┬'
	case y == last:
		return '┴'
	case x == 0:
		return '├'
	case x == last:
		return '┤'
	}
	return '┼'
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

type cell struct {
	r     rune
	style styleID
}

type grid struct {
	w, h  int
	cells [][]cell
}

func newGrid(w, h int) *grid {
	g := &grid{w: w, h: h, cells: make([][]cell, h)}
	for y := range g.cells {
		row := make([]cell, w)
		for x := range row {
			row[x] = cell{r: ' '}
		}
		g.cells[y] = row
	}
	return g
}

func (g *grid) inside(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.w && y < g.h
}

func (g *grid) set(x, y int, r rune, style styleID) {
	if g.inside(x, y) {
		g.cells[y][x] = cell{r: r, style: style}
	}
}

func (g *grid) restyle(x, y int, style styleID) {
	if g.inside(x, y) {
		g.cells[y][x].style = style
	}
}

func (g *grid) text(x, y int, s string, style styleID) {
	for i, r := range []rune(s) {
		g.set(x+i, y, r, style)
	}
}

func (g *grid) plain() []string {
	out := make([]string, g.h)
	for y, row := range g.cells {
		var b strings.Builder
		for _, c := range row {
			b.WriteRune(c.r)
		}
		out[y] = strings.TrimRight(b.String(), " ")
	}
	return out
}

func (g *grid) styled(styles [numStyles]lipgloss.Style) []string {
	out := make([]string, g.h)
	for y, row := range g.cells {
		var b strings.Builder
		for x := 0; x < len(row); {
			start := x
			var run strings.Builder
			for x < len(row) && row[x].style == row[start].style {
				run.WriteRune(row[x].r)
				x++
			}
			if row[start].style == styleNone {
				b.WriteString(run.String())
				continue
			}
			b.WriteString(styles[row[start].style].Render(run.String()))
		}
		out[y] = b.String()
	}
	return out
}
