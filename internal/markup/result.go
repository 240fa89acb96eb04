package markup

import (
	"errors"
	"fmt"
	"strings"

	"gomark/internal/board"
)

// Op is what a completed interaction asks for.
type Op int

const (
	// OpPlace inserts Element, replacing the element in the same slot.
	OpPlace Op = iota
	// OpRemove deletes the element occupying Element's slot.
	OpRemove
	// OpErase deletes everything on intersection At.
	OpErase
)

func (o Op) String() string {
	switch o {
	case OpPlace:
		return "place"
	case OpRemove:
		return "remove"
	case OpErase:
		return "erase"
	default:
		return fmt.Sprintf("op(%d)", int(o))
	}
}

var ErrInvalidResult = errors.New("markup: invalid interaction result")

// MaxLabelLength bounds label text so it fits next to an intersection.
const MaxLabelLength = 3

// Result is produced by a completed drag and consumed by the markup
// interaction command.
type Result struct {
	Op      Op
	Element Element
	At      board.Point
	// Update is set by the connection handler when the pair is already
	// connected and the placement will replace it in place.
	Update bool
}

// Place, Remove and Erase build results.
func Place(e Element) Result {
	return Result{Op: OpPlace, Element: e, At: e.Anchor()}
}

func Remove(e Element) Result {
	return Result{Op: OpRemove, Element: e, At: e.Anchor()}
}

func Erase(p board.Point) Result {
	return Result{Op: OpErase, At: p}
}

// Category is the markup category the result touches. Erase touches all
// of them and reports NumCategories.
func (r Result) Category() Category {
	if r.Op == OpErase || r.Element == nil {
		return NumCategories
	}
	return r.Element.Category()
}

// Validate checks the result without looking at any model.
func (r Result) Validate() error {
	switch r.Op {
	case OpErase:
		return nil
	case OpPlace, OpRemove:
	default:
		return fmt.Errorf("%w: unknown op %d", ErrInvalidResult, int(r.Op))
	}
	switch e := r.Element.(type) {
	case nil:
		return fmt.Errorf("%w: %s without element", ErrInvalidResult, r.Op)
	case Connection:
		if e.Key().Degenerate() {
			return fmt.Errorf("%w: %v", ErrInvalidResult, ErrDegenerateConnection)
		}
	case Label:
		if r.Op == OpPlace {
			text := strings.TrimSpace(e.Text)
			if text == "" || len(text) > MaxLabelLength || strings.ContainsAny(text, ",\n") {
				return fmt.Errorf("%w: label text %q", ErrInvalidResult, e.Text)
			}
		}
	}
	return nil
}

func (r Result) String() string {
	if r.Op == OpErase {
		return fmt.Sprintf("erase %v", r.At)
	}
	return fmt.Sprintf("%s %s %+v", r.Op, r.Category(), r.Element)
}
