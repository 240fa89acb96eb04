// Package gesture turns drag gestures on the board into markup interaction
// results. A Handler is a small state machine fed with discrete begin,
// move, end and cancel events by whatever event loop hosts it.
package gesture

import (
	"io"

	"github.com/sirupsen/logrus"

	"gomark/internal/board"
	"gomark/internal/markup"
)

// Phase is the state of a drag.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseActive
	PhaseCommitted
	PhaseCancelled
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseActive:
		return "active"
	case PhaseCommitted:
		return "committed"
	case PhaseCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Surface resolves screen locations to board intersections.
type Surface interface {
	ResolveIntersection(sp board.ScreenPoint) (board.Point, bool)
}

// Lookup is the read side of the markup model the handlers need to tell a
// new placement from an update or a toggle.
type Lookup interface {
	Contains(key markup.PairKey) bool
	At(p board.Point, c markup.Category) (markup.Element, bool)
}

// Executor applies a committed result.
type Executor interface {
	Execute(r markup.Result) error
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(r markup.Result) error

func (f ExecutorFunc) Execute(r markup.Result) error { return f(r) }

// Outcome describes how a drag ended.
type Outcome struct {
	Phase  Phase
	Result markup.Result
	// Err is the executor's error for a committed drag.
	Err error
}

// Committed reports whether a result was handed to the executor.
func (o Outcome) Committed() bool {
	return o.Phase == PhaseCommitted
}

// Preview is what an active drag would commit if it ended now.
type Preview struct {
	Anchor board.Point
	// Ghost is nil while the current candidate is not a valid target.
	Ghost markup.Element
}

// strategy is the part that differs between kinds of markup drags.
// Handler owns the phases; a strategy only interprets intersections.
type strategy interface {
	anchor(p board.Point) bool
	track(p board.Point, ok bool)
	finish(p board.Point, ok bool) (markup.Result, bool)
	preview() Preview
	reset()
}

// Handler drives a strategy through Idle → Active → Committed/Cancelled →
// Idle. Only the committed transition reaches the executor.
type Handler struct {
	name     string
	surface  Surface
	exec     Executor
	strategy strategy
	log      logrus.FieldLogger

	phase       Phase
	last        Outcome
	dispatching bool
}

func newHandler(name string, surface Surface, exec Executor, s strategy, log logrus.FieldLogger) *Handler {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Handler{
		name:     name,
		surface:  surface,
		exec:     exec,
		strategy: s,
		log:      log.WithField("handler", name),
	}
}

func (h *Handler) Name() string {
	return h.name
}

// Phase is PhaseActive during a drag and PhaseIdle otherwise.
func (h *Handler) Phase() Phase {
	return h.phase
}

func (h *Handler) Active() bool {
	return h.phase == PhaseActive
}

// LastOutcome reports how the previous drag ended.
func (h *Handler) LastOutcome() Outcome {
	return h.last
}

// Begin starts a drag if sp hits an intersection. It is refused while a
// previous commit is still being applied.
func (h *Handler) Begin(sp board.ScreenPoint) bool {
	if h.phase != PhaseIdle || h.dispatching {
		return false
	}
	p, ok := h.surface.ResolveIntersection(sp)
	if !ok || !h.strategy.anchor(p) {
		h.strategy.reset()
		return false
	}
	h.phase = PhaseActive
	h.log.WithField("at", p).Debug("drag began")
	return true
}

// Move updates the preview. It never touches the model.
func (h *Handler) Move(sp board.ScreenPoint) {
	if h.phase != PhaseActive {
		return
	}
	p, ok := h.surface.ResolveIntersection(sp)
	h.strategy.track(p, ok)
}

// End finishes the drag. A valid final target is committed and handed to
// the executor; anything else cancels the drag without a result.
func (h *Handler) End(sp board.ScreenPoint) Outcome {
	if h.phase != PhaseActive {
		return Outcome{Phase: PhaseIdle}
	}
	p, ok := h.surface.ResolveIntersection(sp)
	r, valid := h.strategy.finish(p, ok)
	if !valid {
		return h.finish(Outcome{Phase: PhaseCancelled})
	}

	h.phase = PhaseCommitted
	h.dispatching = true
	err := h.exec.Execute(r)
	h.dispatching = false
	entry := h.log.WithField("result", r.String())
	if err != nil {
		entry.WithError(err).Debug("drag committed, execution failed")
	} else {
		entry.Debug("drag committed")
	}
	return h.finish(Outcome{Phase: PhaseCommitted, Result: r, Err: err})
}

// Cancel abandons an active drag.
func (h *Handler) Cancel() {
	if h.phase != PhaseActive {
		return
	}
	h.finish(Outcome{Phase: PhaseCancelled})
}

func (h *Handler) finish(o Outcome) Outcome {
	if o.Phase == PhaseCancelled {
		h.log.Debug("drag cancelled")
	}
	h.last = o
	h.strategy.reset()
	h.phase = PhaseIdle
	return o
}

// Preview returns the in-progress preview while a drag is active.
func (h *Handler) Preview() (Preview, bool) {
	if h.phase != PhaseActive {
		return Preview{}, false
	}
	return h.strategy.preview(), true
}
