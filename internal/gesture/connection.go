package gesture

import (
	"github.com/sirupsen/logrus"

	"gomark/internal/board"
	"gomark/internal/markup"
)

// Brush is the connection appearance the next placement uses.
type Brush struct {
	Style markup.Style
	Side  board.Color
}

type connectionPlacement struct {
	model  Lookup
	brush  func() Brush
	from   board.Point
	to     board.Point
	hasTo  bool
	active bool
}

// NewConnectionHandler interprets a drag as a connection from the
// intersection where it begins to the one where it ends. Dragging onto an
// already connected pair replaces that connection.
func NewConnectionHandler(surface Surface, model Lookup, exec Executor, brush func() Brush, log logrus.FieldLogger) *Handler {
	s := &connectionPlacement{model: model, brush: brush}
	return newHandler("connection", surface, exec, s, log)
}

func (c *connectionPlacement) anchor(p board.Point) bool {
	c.from = p
	c.active = true
	c.hasTo = false
	return true
}

// track keeps the latest candidate. Hovering the start point is not an
// error, it just means there is nothing to preview.
func (c *connectionPlacement) track(p board.Point, ok bool) {
	c.to = p
	c.hasTo = ok && p != c.from
}

func (c *connectionPlacement) finish(p board.Point, ok bool) (markup.Result, bool) {
	c.track(p, ok)
	if !c.active || !c.hasTo {
		return markup.Result{}, false
	}
	r := markup.Place(c.connection())
	r.Update = c.model.Contains(markup.KeyOf(c.from, c.to))
	return r, true
}

func (c *connectionPlacement) connection() markup.Connection {
	b := c.brush()
	return markup.Connection{From: c.from, To: c.to, Style: b.Style, Side: b.Side}
}

func (c *connectionPlacement) preview() Preview {
	pv := Preview{Anchor: c.from}
	if c.hasTo {
		pv.Ghost = c.connection()
	}
	return pv
}

func (c *connectionPlacement) reset() {
	*c = connectionPlacement{model: c.model, brush: c.brush}
}
