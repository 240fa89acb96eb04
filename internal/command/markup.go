// Package command applies completed markup interactions to the markup
// model once the editing preconditions hold, then saves and backs up.
package command

import (
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"gomark/internal/markup"
	"gomark/internal/render"
)

var (
	ErrPrecondition        = errors.New("markup editing precondition not met")
	ErrEditingModeInactive = fmt.Errorf("%w: not in markup editing mode", ErrPrecondition)
	ErrInitialPosition     = fmt.Errorf("%w: the initial position cannot be marked up", ErrPrecondition)
	ErrBusy                = errors.New("command: a markup change is already being applied")
	ErrPersistence         = errors.New("command: saving application state failed")
	ErrBackup              = errors.New("command: backing up the game failed")
)

// ModeState reports the editing state of the board view.
type ModeState interface {
	IsMarkupEditingModeActive() bool
	CurrentBoardPositionIndex() int
}

type Persister interface {
	SaveApplicationState() error
}

type Backuper interface {
	BackupCurrentGame() error
}

// Alerter shows a failure to the user.
type Alerter interface {
	PresentFailure(message string)
}

// Invalidator drops cached render resources. *render.Cache implements it.
type Invalidator interface {
	Invalidate(kind render.Kind)
}

// Change records what one Execute applied. Inverse undoes it when executed
// at the same position.
type Change struct {
	Index   int
	Applied []markup.Result
	Inverse []markup.Result
}

func (c Change) Empty() bool {
	return len(c.Applied) == 0
}

// MarkupInteraction is the unit of work behind every markup edit,
// including undo and redo.
type MarkupInteraction struct {
	model   *markup.Model
	mode    ModeState
	persist Persister
	backup  Backuper
	alert   Alerter
	cache   Invalidator
	log     logrus.FieldLogger

	running bool
}

// Options bundles the collaborators of a MarkupInteraction. Cache and Log
// may be nil.
type Options struct {
	Model   *markup.Model
	Mode    ModeState
	Persist Persister
	Backup  Backuper
	Alert   Alerter
	Cache   Invalidator
	Log     logrus.FieldLogger
}

func NewMarkupInteraction(o Options) *MarkupInteraction {
	log := o.Log
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &MarkupInteraction{
		model:   o.Model,
		mode:    o.Mode,
		persist: o.Persist,
		backup:  o.Backup,
		alert:   o.Alert,
		cache:   o.Cache,
		log:     log.WithField("component", "markup-command"),
	}
}

// Execute applies results as one change. Markup editing mode and a
// position other than the initial one are checked first, then every result
// is validated; nothing is mutated unless all of it passes.
func (m *MarkupInteraction) Execute(results ...markup.Result) (Change, error) {
	if m.running {
		return Change{}, ErrBusy
	}
	m.running = true
	defer func() { m.running = false }()

	index := m.mode.CurrentBoardPositionIndex()
	if err := m.check(index); err != nil {
		m.log.WithError(err).WithField("index", index).Warn("markup change refused")
		m.fail(err)
		return Change{}, err
	}
	for _, r := range results {
		if err := r.Validate(); err != nil {
			m.fail(err)
			return Change{}, err
		}
	}

	change := Change{Index: index}
	for _, r := range results {
		inverse, err := m.apply(r)
		if err != nil {
			m.rollback(change)
			m.fail(err)
			return Change{}, err
		}
		change.Applied = append(change.Applied, r)
		// Undo runs in reverse order of application.
		change.Inverse = append(inverse, change.Inverse...)
	}
	m.invalidate(results)
	m.log.WithFields(logrus.Fields{
		"index":   index,
		"applied": len(change.Applied),
	}).Info("markup changed")

	// The model is already mutated at this point. A failing save or backup
	// is reported, but the change stays applied and in-memory markup may be
	// ahead of what is on disk until the next successful save.
	if err := m.store(); err != nil {
		m.log.WithError(err).Error("markup change not persisted")
		m.fail(err)
		return change, err
	}
	return change, nil
}

// Busy reports whether a change is being applied right now.
func (m *MarkupInteraction) Busy() bool {
	return m.running
}

func (m *MarkupInteraction) check(index int) error {
	if !m.mode.IsMarkupEditingModeActive() {
		return ErrEditingModeInactive
	}
	if index == 0 {
		return ErrInitialPosition
	}
	return nil
}

func (m *MarkupInteraction) apply(r markup.Result) ([]markup.Result, error) {
	switch r.Op {
	case markup.OpPlace:
		prev, had, err := m.model.Set(r.Element)
		if err != nil {
			return nil, err
		}
		if had {
			return []markup.Result{markup.Place(prev)}, nil
		}
		return []markup.Result{markup.Remove(r.Element)}, nil

	case markup.OpRemove:
		existing, ok := m.existing(r.Element)
		if !ok {
			return nil, nil
		}
		m.model.Remove(existing)
		return []markup.Result{markup.Place(existing)}, nil

	case markup.OpErase:
		removed := m.model.EraseAt(r.At)
		inverse := make([]markup.Result, 0, len(removed))
		for _, e := range removed {
			inverse = append(inverse, markup.Place(e))
		}
		return inverse, nil
	}
	return nil, fmt.Errorf("%w: unknown op %d", markup.ErrInvalidResult, int(r.Op))
}

// existing returns the element actually stored in e's slot, which may
// differ from e in style or text.
func (m *MarkupInteraction) existing(e markup.Element) (markup.Element, bool) {
	if c, ok := e.(markup.Connection); ok {
		return m.model.ConnectionFor(c.Key())
	}
	return m.model.At(e.Anchor(), e.Category())
}

func (m *MarkupInteraction) rollback(c Change) {
	for _, r := range c.Inverse {
		if _, err := m.apply(r); err != nil {
			m.log.WithError(err).Error("rollback failed")
		}
	}
}

func (m *MarkupInteraction) invalidate(results []markup.Result) {
	if m.cache == nil {
		return
	}
	var seen [markup.NumCategories + 1]bool
	for _, r := range results {
		seen[r.Category()] = true
	}
	for c := markup.Category(0); c < markup.NumCategories; c++ {
		if !seen[c] && !seen[markup.NumCategories] {
			continue
		}
		if kind, ok := render.LayerFor(c); ok {
			m.cache.Invalidate(kind)
		}
	}
}

// store saves application state and backs up the game. Both are always
// attempted.
func (m *MarkupInteraction) store() error {
	var errs []error
	if m.persist != nil {
		if err := m.persist.SaveApplicationState(); err != nil {
			errs = append(errs, fmt.Errorf("%w: %w", ErrPersistence, err))
		}
	}
	if m.backup != nil {
		if err := m.backup.BackupCurrentGame(); err != nil {
			errs = append(errs, fmt.Errorf("%w: %w", ErrBackup, err))
		}
	}
	return errors.Join(errs...)
}

func (m *MarkupInteraction) fail(err error) {
	if m.alert == nil {
		return
	}
	m.alert.PresentFailure(Message(err))
}

// Message turns a command error into the text shown to the user.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEditingModeInactive):
		return "Switch to markup mode (m) to edit markup"
	case errors.Is(err, ErrInitialPosition):
		return "The initial position cannot carry markup; play or step to a move first"
	case errors.Is(err, markup.ErrInvalidResult):
		return "Invalid markup: " + err.Error()
	case errors.Is(err, ErrPersistence) && errors.Is(err, ErrBackup):
		return "Markup changed but neither state nor backup could be saved"
	case errors.Is(err, ErrPersistence):
		return "Markup changed but the application state could not be saved"
	case errors.Is(err, ErrBackup):
		return "Markup changed but the game backup failed"
	case errors.Is(err, ErrBusy):
		return "Busy applying the previous change"
	}
	return "Error: " + err.Error()
}
