package render

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"gomark/internal/board"
	"gomark/internal/markup"
)

const DefaultCellPixels = 32

var (
	woodColor   = color.RGBA{0xDC, 0xB3, 0x5C, 0xFF}
	gridColor   = color.RGBA{0x3A, 0x2A, 0x10, 0xFF}
	markupColor = color.RGBA{0xB0, 0x00, 0x20, 0xFF}
	labelColor  = color.RGBA{0x00, 0x33, 0xAA, 0xFF}
)

// faceResource lets the cache close the font face when it is dropped.
type faceResource struct {
	face font.Face
}

func (f faceResource) Release() {
	_ = f.face.Close()
}

// PNG renders a board position into an image. Stone and symbol images are
// drawn once per cell size and kept in the cache.
type PNG struct {
	cache  *Cache
	cellPx int
}

func NewPNG(cache *Cache, cellPx int) *PNG {
	if cellPx <= 0 {
		cellPx = DefaultCellPixels
	}
	return &PNG{cache: cache, cellPx: cellPx}
}

func (p *PNG) Cache() *Cache {
	return p.cache
}

func (p *PNG) CellSize() int {
	return p.cellPx
}

// SetCellSize changes the geometry; every cached image is stale after that.
func (p *PNG) SetCellSize(px int) {
	if px <= 0 || px == p.cellPx {
		return
	}
	p.cellPx = px
	p.cache.InvalidateAll()
}

// Surface is the pixel geometry of a board of the given size.
func (p *PNG) Surface(size int) board.Surface {
	return board.Surface{
		Size:       size,
		Origin:     board.ScreenPoint{X: p.cellPx, Y: p.cellPx},
		CellWidth:  p.cellPx,
		CellHeight: p.cellPx,
	}
}

// Draw renders f. f.Surface is ignored; the PNG geometry is used instead.
func (p *PNG) Draw(f Frame) (image.Image, error) {
	if f.Size < board.MinSize {
		return nil, fmt.Errorf("render: board size %d too small", f.Size)
	}
	s := p.Surface(f.Size)
	extent := s.Width() + 2*p.cellPx
	dc := gg.NewContext(extent, extent)
	dc.SetColor(woodColor)
	dc.Clear()

	face, err := p.face()
	if err != nil {
		return nil, err
	}
	dc.SetFontFace(face)

	p.drawGrid(dc, s, f.Size)
	for _, e := range f.Markup {
		if t, ok := e.(markup.Territory); ok {
			p.stampAt(dc, s, t.At, territoryKind(t.Side))
		}
	}
	for pt, c := range f.Stones {
		p.stampAt(dc, s, pt, stoneKind(c))
	}
	if f.LastMove != nil {
		if c, ok := f.Stones[*f.LastMove]; ok {
			k := KindBlackLastMove
			if c == board.White {
				k = KindWhiteLastMove
			}
			p.stampAt(dc, s, *f.LastMove, k)
		}
	}
	for _, e := range f.Markup {
		switch v := e.(type) {
		case markup.Connection:
			p.drawConnection(dc, s, v)
		case markup.Symbol:
			p.stampAt(dc, s, v.At, SymbolKind(v.Shape))
		}
	}
	for _, e := range f.Markup {
		if l, ok := e.(markup.Label); ok {
			sp := s.ScreenOf(l.At)
			if _, occupied := f.Stones[l.At]; !occupied {
				dc.SetColor(woodColor)
				dc.DrawCircle(float64(sp.X), float64(sp.Y), float64(p.cellPx)*0.35)
				dc.Fill()
			}
			dc.SetColor(labelColor)
			dc.DrawStringAnchored(l.Text, float64(sp.X), float64(sp.Y), 0.5, 0.35)
		}
	}
	return dc.Image(), nil
}

// Export writes the PNG of f to path.
func (p *PNG) Export(path string, f Frame) error {
	img, err := p.Draw(f)
	if err != nil {
		return err
	}
	if err := gg.SavePNG(path, img); err != nil {
		return fmt.Errorf("render: save %s: %w", path, err)
	}
	return nil
}

func (p *PNG) face() (font.Face, error) {
	if r, ok := p.cache.Get(KindLabel); ok {
		if fr, ok := r.(faceResource); ok {
			return fr.face, nil
		}
	}
	ttf, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("render: parse font: %w", err)
	}
	face := truetype.NewFace(ttf, &truetype.Options{
		Size:    float64(p.cellPx) * 0.45,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	p.cache.Set(KindLabel, faceResource{face: face})
	return face, nil
}

func (p *PNG) drawGrid(dc *gg.Context, s board.Surface, size int) {
	dc.SetColor(gridColor)
	dc.SetLineWidth(1)
	last := float64(s.Width() - 1)
	for i := 0; i < size; i++ {
		sp := s.ScreenOf(board.Point{X: i, Y: i})
		x, y := float64(sp.X), float64(sp.Y)
		dc.DrawLine(x, float64(s.Origin.Y), x, float64(s.Origin.Y)+last)
		dc.DrawLine(float64(s.Origin.X), y, float64(s.Origin.X)+last, y)
		dc.Stroke()
		dc.DrawStringAnchored(board.ColumnLetter(i), x, float64(p.cellPx)/2, 0.5, 0.5)
		dc.DrawStringAnchored(fmt.Sprintf("%d", size-i), float64(p.cellPx)/2, y, 0.5, 0.5)
	}
	for _, pt := range board.StarPoints(size) {
		p.stampAt(dc, s, pt, KindStarPoint)
	}
}

func (p *PNG) stampAt(dc *gg.Context, s board.Surface, pt board.Point, kind Kind) {
	sp := s.ScreenOf(pt)
	dc.DrawImageAnchored(p.stamp(kind), sp.X, sp.Y, 0.5, 0.5)
}

func (p *PNG) stamp(kind Kind) image.Image {
	r := p.cache.GetOrCreate(kind, func() Resource {
		return p.drawStamp(kind)
	})
	img, ok := r.(image.Image)
	if !ok {
		img = p.drawStamp(kind)
		p.cache.Set(kind, img)
	}
	return img
}

func (p *PNG) drawStamp(kind Kind) image.Image {
	n := p.cellPx
	c := float64(n) / 2
	radius := c * 0.92
	dc := gg.NewContext(n, n)
	dc.SetLineWidth(math.Max(1, float64(n)/16))
	switch kind {
	case KindStarPoint:
		dc.SetColor(gridColor)
		dc.DrawCircle(c, c, float64(n)/10)
		dc.Fill()
	case KindBlackStone, KindWhiteStone, KindCrossHairStone:
		fill, edge := color.Color(color.Black), color.Color(color.Black)
		if kind == KindWhiteStone {
			fill = color.White
		}
		if kind == KindCrossHairStone {
			fill = color.RGBA{0x80, 0x80, 0x80, 0x80}
		}
		dc.DrawCircle(c, c, radius)
		dc.SetColor(fill)
		dc.FillPreserve()
		dc.SetColor(edge)
		dc.Stroke()
	case KindBlackLastMove, KindWhiteLastMove:
		dc.SetColor(markupColor)
		dc.DrawCircle(c, c, radius*0.35)
		dc.Fill()
	case KindBlackTerritory, KindWhiteTerritory:
		dc.SetColor(color.Black)
		if kind == KindWhiteTerritory {
			dc.SetColor(color.White)
		}
		side := float64(n) * 0.3
		dc.DrawRectangle(c-side/2, c-side/2, side, side)
		dc.Fill()
	case KindCircleSymbol:
		dc.SetColor(markupColor)
		dc.DrawCircle(c, c, radius*0.5)
		dc.Stroke()
	case KindSquareSymbol:
		dc.SetColor(markupColor)
		side := radius
		dc.DrawRectangle(c-side/2, c-side/2, side, side)
		dc.Stroke()
	case KindTriangleSymbol:
		dc.SetColor(markupColor)
		dc.DrawRegularPolygon(3, c, c, radius*0.6, 0)
		dc.Stroke()
	case KindXSymbol:
		dc.SetColor(markupColor)
		d := radius * 0.45
		dc.DrawLine(c-d, c-d, c+d, c+d)
		dc.DrawLine(c-d, c+d, c+d, c-d)
		dc.Stroke()
	case KindSelectedSymbol:
		dc.SetColor(markupColor)
		dc.DrawRegularPolygon(4, c, c, radius*0.45, 0)
		dc.Fill()
	}
	return dc.Image()
}

func (p *PNG) drawConnection(dc *gg.Context, s board.Surface, c markup.Connection) {
	from, to := s.ScreenOf(c.From), s.ScreenOf(c.To)
	x1, y1, x2, y2 := float64(from.X), float64(from.Y), float64(to.X), float64(to.Y)
	switch c.Side {
	case board.Black:
		dc.SetColor(color.Black)
	case board.White:
		dc.SetColor(color.White)
	default:
		dc.SetColor(markupColor)
	}
	dc.SetLineWidth(math.Max(2, float64(p.cellPx)/10))
	if c.Style != markup.StyleArrow {
		dc.DrawLine(x1, y1, x2, y2)
		dc.Stroke()
		return
	}
	// Stop the shaft at the head so the tip stays sharp.
	angle := math.Atan2(y2-y1, x2-x1)
	headLen := float64(p.cellPx) * 0.45
	tipX, tipY := x2-math.Cos(angle)*float64(p.cellPx)*0.3, y2-math.Sin(angle)*float64(p.cellPx)*0.3
	baseX, baseY := tipX-math.Cos(angle)*headLen, tipY-math.Sin(angle)*headLen
	dc.DrawLine(x1, y1, baseX, baseY)
	dc.Stroke()
	spread := math.Pi / 7
	dc.MoveTo(tipX, tipY)
	dc.LineTo(tipX-headLen*math.Cos(angle-spread), tipY-headLen*math.Sin(angle-spread))
	dc.LineTo(tipX-headLen*math.Cos(angle+spread), tipY-headLen*math.Sin(angle+spread))
	dc.ClosePath()
	dc.Fill()
}
