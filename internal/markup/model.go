package markup

import (
	"errors"
	"fmt"
	"sort"

	"gomark/internal/board"
)

var ErrDegenerateConnection = errors.New("markup: connection endpoints are equal")

// PositionSource tells the model which board position edits apply to.
type PositionSource interface {
	CurrentBoardPositionIndex() int
}

type positionMarkup struct {
	symbols     map[board.Point]Symbol
	territory   map[board.Point]Territory
	labels      map[board.Point]Label
	connections map[PairKey]Connection
}

func newPositionMarkup() *positionMarkup {
	return &positionMarkup{
		symbols:     make(map[board.Point]Symbol),
		territory:   make(map[board.Point]Territory),
		labels:      make(map[board.Point]Label),
		connections: make(map[PairKey]Connection),
	}
}

func (pm *positionMarkup) empty() bool {
	return len(pm.symbols)+len(pm.territory)+len(pm.labels)+len(pm.connections) == 0
}

// Model holds the markup of every board position of a game. Mutating
// operations act on the position reported by the PositionSource.
type Model struct {
	positions PositionSource
	markup    map[int]*positionMarkup
}

func NewModel(positions PositionSource) *Model {
	return &Model{
		positions: positions,
		markup:    make(map[int]*positionMarkup),
	}
}

func (m *Model) current() int {
	return m.positions.CurrentBoardPositionIndex()
}

func (m *Model) lookup(index int) *positionMarkup {
	return m.markup[index]
}

func (m *Model) ensure(index int) *positionMarkup {
	pm, ok := m.markup[index]
	if !ok {
		pm = newPositionMarkup()
		m.markup[index] = pm
	}
	return pm
}

// prune drops the per-position maps once the last element is gone so that
// an emptied position is indistinguishable from one never edited.
func (m *Model) prune(index int) {
	if pm, ok := m.markup[index]; ok && pm.empty() {
		delete(m.markup, index)
	}
}

// UpsertConnection stores a connection between from and to. An existing
// connection over the same unordered pair is replaced and updated is true.
func (m *Model) UpsertConnection(from, to board.Point, style Style, side board.Color) (updated bool, err error) {
	key := KeyOf(from, to)
	if key.Degenerate() {
		return false, ErrDegenerateConnection
	}
	pm := m.ensure(m.current())
	_, updated = pm.connections[key]
	pm.connections[key] = Connection{From: from, To: to, Style: style, Side: side}
	return updated, nil
}

func (m *Model) RemoveConnection(key PairKey) bool {
	index := m.current()
	pm := m.lookup(index)
	if pm == nil {
		return false
	}
	if _, ok := pm.connections[key]; !ok {
		return false
	}
	delete(pm.connections, key)
	m.prune(index)
	return true
}

func (m *Model) Contains(key PairKey) bool {
	_, ok := m.ConnectionFor(key)
	return ok
}

func (m *Model) ConnectionFor(key PairKey) (Connection, bool) {
	pm := m.lookup(m.current())
	if pm == nil {
		return Connection{}, false
	}
	c, ok := pm.connections[key]
	return c, ok
}

// Set stores e at the current position, replacing whatever occupied the
// same slot. The replaced element is returned when there was one.
func (m *Model) Set(e Element) (Element, bool, error) {
	if c, ok := e.(Connection); ok {
		prev, had := m.ConnectionFor(c.Key())
		if _, err := m.UpsertConnection(c.From, c.To, c.Style, c.Side); err != nil {
			return nil, false, err
		}
		if !had {
			return nil, false, nil
		}
		return prev, true, nil
	}
	prev, had := m.At(e.Anchor(), e.Category())
	pm := m.ensure(m.current())
	switch v := e.(type) {
	case Symbol:
		pm.symbols[v.At] = v
	case Territory:
		pm.territory[v.At] = v
	case Label:
		pm.labels[v.At] = v
	default:
		return nil, false, fmt.Errorf("markup: unsupported element %T", e)
	}
	return prev, had, nil
}

// Remove deletes the element occupying e's slot at the current position.
func (m *Model) Remove(e Element) bool {
	if c, ok := e.(Connection); ok {
		return m.RemoveConnection(c.Key())
	}
	index := m.current()
	pm := m.lookup(index)
	if pm == nil {
		return false
	}
	p := e.Anchor()
	var ok bool
	switch e.Category() {
	case CategorySymbol:
		_, ok = pm.symbols[p]
		delete(pm.symbols, p)
	case CategoryTerritory:
		_, ok = pm.territory[p]
		delete(pm.territory, p)
	case CategoryLabel:
		_, ok = pm.labels[p]
		delete(pm.labels, p)
	}
	m.prune(index)
	return ok
}

// At returns the point element of category c at p for the current
// position. Connections are not point elements; use ConnectionFor.
func (m *Model) At(p board.Point, c Category) (Element, bool) {
	pm := m.lookup(m.current())
	if pm == nil {
		return nil, false
	}
	switch c {
	case CategorySymbol:
		if s, ok := pm.symbols[p]; ok {
			return s, true
		}
	case CategoryTerritory:
		if t, ok := pm.territory[p]; ok {
			return t, true
		}
	case CategoryLabel:
		if l, ok := pm.labels[p]; ok {
			return l, true
		}
	}
	return nil, false
}

// EraseAt removes every element on p, including connections that start or
// end there, and returns what was removed in Elements order.
func (m *Model) EraseAt(p board.Point) []Element {
	index := m.current()
	pm := m.lookup(index)
	if pm == nil {
		return nil
	}
	var removed []Element
	if s, ok := pm.symbols[p]; ok {
		removed = append(removed, s)
		delete(pm.symbols, p)
	}
	if t, ok := pm.territory[p]; ok {
		removed = append(removed, t)
		delete(pm.territory, p)
	}
	for key, c := range pm.connections {
		if c.Touches(p) {
			removed = append(removed, c)
			delete(pm.connections, key)
		}
	}
	if l, ok := pm.labels[p]; ok {
		removed = append(removed, l)
		delete(pm.labels, p)
	}
	m.prune(index)
	sortElements(removed)
	return removed
}

// Elements lists the markup of board position index in a stable order:
// by category, then by anchor.
func (m *Model) Elements(index int) []Element {
	pm := m.lookup(index)
	if pm == nil {
		return nil
	}
	out := make([]Element, 0, len(pm.symbols)+len(pm.territory)+len(pm.labels)+len(pm.connections))
	for _, s := range pm.symbols {
		out = append(out, s)
	}
	for _, t := range pm.territory {
		out = append(out, t)
	}
	for _, c := range pm.connections {
		out = append(out, c)
	}
	for _, l := range pm.labels {
		out = append(out, l)
	}
	sortElements(out)
	return out
}

// Connections lists the connections of board position index.
func (m *Model) Connections(index int) []Connection {
	var out []Connection
	for _, e := range m.Elements(index) {
		if c, ok := e.(Connection); ok {
			out = append(out, c)
		}
	}
	return out
}

// Indexes returns every board position that carries markup, ascending.
func (m *Model) Indexes() []int {
	out := make([]int, 0, len(m.markup))
	for i := range m.markup {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// Restore installs elements for board position index, bypassing the
// position source. Used when loading a backup.
func (m *Model) Restore(index int, elements []Element) error {
	pm := m.ensure(index)
	for _, e := range elements {
		switch v := e.(type) {
		case Symbol:
			pm.symbols[v.At] = v
		case Territory:
			pm.territory[v.At] = v
		case Label:
			pm.labels[v.At] = v
		case Connection:
			if v.Key().Degenerate() {
				m.prune(index)
				return ErrDegenerateConnection
			}
			pm.connections[v.Key()] = v
		default:
			m.prune(index)
			return fmt.Errorf("markup: unsupported element %T", e)
		}
	}
	m.prune(index)
	return nil
}

// DiscardFrom drops the markup of index and every later position. Called
// when the game record is truncated.
func (m *Model) DiscardFrom(index int) {
	for i := range m.markup {
		if i >= index {
			delete(m.markup, i)
		}
	}
}

// Clear drops all markup of all positions.
func (m *Model) Clear() {
	m.markup = make(map[int]*positionMarkup)
}

// NextLabel returns the first letter from A to Z that is not used as a
// label at board position index, or "" when all are taken.
func (m *Model) NextLabel(index int) string {
	used := make(map[string]bool)
	if pm := m.lookup(index); pm != nil {
		for _, l := range pm.labels {
			used[l.Text] = true
		}
	}
	for r := 'A'; r <= 'Z'; r++ {
		if !used[string(r)] {
			return string(r)
		}
	}
	return ""
}

func sortElements(elements []Element) {
	sort.SliceStable(elements, func(i, j int) bool {
		a, b := elements[i], elements[j]
		if a.Category() != b.Category() {
			return a.Category() < b.Category()
		}
		if a.Anchor() != b.Anchor() {
			return a.Anchor().Less(b.Anchor())
		}
		ca, okA := a.(Connection)
		cb, okB := b.(Connection)
		if okA && okB {
			return ca.To.Less(cb.To)
		}
		return false
	})
}
