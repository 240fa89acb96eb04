package gesture

import (
	"github.com/sirupsen/logrus"

	"gomark/internal/board"
	"gomark/internal/markup"
)

// ElementFactory builds the element a point tool would put on p. It
// returns nil when the tool has nothing to place there.
type ElementFactory func(p board.Point) markup.Element

// pointPlacement commits at the intersection where the drag is released,
// so sliding the finger adjusts the target before letting go.
type pointPlacement struct {
	model     Lookup
	factory   ElementFactory
	erase     bool
	at        board.Point
	target    board.Point
	hasTarget bool
}

// NewPointHandler places the element produced by factory. Releasing on an
// intersection that already holds the very same element removes it; a
// label is removed whatever its text.
func NewPointHandler(name string, surface Surface, model Lookup, exec Executor, factory ElementFactory, log logrus.FieldLogger) *Handler {
	return newHandler(name, surface, exec, &pointPlacement{model: model, factory: factory}, log)
}

// NewEraserHandler erases all markup on the intersection where the drag is
// released, including connections that start or end there.
func NewEraserHandler(surface Surface, exec Executor, log logrus.FieldLogger) *Handler {
	return newHandler("eraser", surface, exec, &pointPlacement{erase: true}, log)
}

func (pp *pointPlacement) anchor(p board.Point) bool {
	pp.at = p
	pp.target, pp.hasTarget = p, true
	return true
}

func (pp *pointPlacement) track(p board.Point, ok bool) {
	pp.target, pp.hasTarget = p, ok
}

func (pp *pointPlacement) finish(p board.Point, ok bool) (markup.Result, bool) {
	pp.track(p, ok)
	if !pp.hasTarget {
		return markup.Result{}, false
	}
	if pp.erase {
		return markup.Erase(pp.target), true
	}
	e := pp.factory(pp.target)
	if e == nil {
		return markup.Result{}, false
	}
	if existing, ok := pp.model.At(pp.target, e.Category()); ok {
		if existing == e || e.Category() == markup.CategoryLabel {
			return markup.Remove(existing), true
		}
	}
	return markup.Place(e), true
}

func (pp *pointPlacement) preview() Preview {
	pv := Preview{Anchor: pp.at}
	if pp.hasTarget && !pp.erase {
		pv.Ghost = pp.factory(pp.target)
	}
	return pv
}

func (pp *pointPlacement) reset() {
	*pp = pointPlacement{model: pp.model, factory: pp.factory, erase: pp.erase}
}
