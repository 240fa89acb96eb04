package board

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

const (
	MinSize     = 5
	MaxSize     = 25
	DefaultSize = 19
)

var (
	ErrOffBoard = errors.New("board: point is off the board")
	ErrOccupied = errors.New("board: intersection is occupied")
	ErrSuicide  = errors.New("board: move is suicide")
)

// Move is one entry of the game record. A pass has Pass set and no point.
type Move struct {
	Color Color
	At    Point
	Pass  bool
}

// Game is the record of a played game. Board position 0 is the empty
// starting board; position n is the board after the nth move.
type Game struct {
	id      string
	size    int
	moves   []Move
	current int
}

func NewGame(size int) (*Game, error) {
	if size < MinSize || size > MaxSize {
		return nil, fmt.Errorf("board: size %d out of range %d..%d", size, MinSize, MaxSize)
	}
	return &Game{id: uuid.NewString(), size: size}, nil
}

// RestoreGame rebuilds a game from a stored record. Every move is replayed
// so an inconsistent record is rejected.
func RestoreGame(id string, size int, moves []Move, current int) (*Game, error) {
	g, err := NewGame(size)
	if err != nil {
		return nil, err
	}
	if id != "" {
		if _, err := uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("board: invalid game id %q: %w", id, err)
		}
		g.id = id
	}
	for i, mv := range moves {
		if mv.Color != g.NextColor() {
			return nil, fmt.Errorf("board: move %d played out of turn", i+1)
		}
		if mv.Pass {
			g.moves = append(g.moves, mv)
			g.current = len(g.moves)
			continue
		}
		if _, err := g.Play(mv.At); err != nil {
			return nil, fmt.Errorf("board: move %d: %w", i+1, err)
		}
	}
	g.SetCurrentPosition(current)
	return g, nil
}

func (g *Game) ID() string    { return g.id }
func (g *Game) Size() int     { return g.size }
func (g *Game) Moves() []Move { return append([]Move(nil), g.moves...) }

// NumberOfPositions is always at least 1 because the starting board is a
// position of its own.
func (g *Game) NumberOfPositions() int {
	return len(g.moves) + 1
}

func (g *Game) CurrentBoardPositionIndex() int {
	return g.current
}

// SetCurrentPosition clamps index to the valid range.
func (g *Game) SetCurrentPosition(index int) {
	if index < 0 {
		index = 0
	}
	if index > len(g.moves) {
		index = len(g.moves)
	}
	g.current = index
}

// NextColor is the color to move at the current position.
func (g *Game) NextColor() Color {
	if g.current%2 == 0 {
		return Black
	}
	return White
}

// LastMove returns the move that produced position index.
func (g *Game) LastMove(index int) (Move, bool) {
	if index <= 0 || index > len(g.moves) {
		return Move{}, false
	}
	return g.moves[index-1], true
}

func (g *Game) OnBoard(p Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < g.size && p.Y < g.size
}

// Play places a stone for the color to move at the current position.
// Playing while an older position is displayed discards all later moves;
// discarded reports the first discarded position index, or -1 if nothing
// was discarded.
func (g *Game) Play(p Point) (discarded int, err error) {
	if !g.OnBoard(p) {
		return -1, ErrOffBoard
	}
	stones := g.StonesAt(g.current)
	if stones[p] != None {
		return -1, ErrOccupied
	}
	color := g.NextColor()
	stones[p] = color
	captured := false
	for _, n := range g.neighbours(p) {
		if stones[n] == color.Opponent() && !g.hasLiberty(stones, n) {
			captured = true
		}
	}
	if !captured && !g.hasLiberty(stones, p) {
		return -1, ErrSuicide
	}
	discarded = g.truncate()
	g.moves = append(g.moves, Move{Color: color, At: p})
	g.current = len(g.moves)
	return discarded, nil
}

// Pass records a pass for the color to move.
func (g *Game) Pass() (discarded int) {
	color := g.NextColor()
	discarded = g.truncate()
	g.moves = append(g.moves, Move{Color: color, Pass: true})
	g.current = len(g.moves)
	return discarded
}

func (g *Game) truncate() int {
	if g.current == len(g.moves) {
		return -1
	}
	g.moves = g.moves[:g.current]
	return g.current + 1
}

// StonesAt reconstructs the board of position index by replaying the
// record. Only occupied intersections are present in the map.
func (g *Game) StonesAt(index int) map[Point]Color {
	stones := make(map[Point]Color)
	if index > len(g.moves) {
		index = len(g.moves)
	}
	for _, mv := range g.moves[:max(index, 0)] {
		if mv.Pass {
			continue
		}
		stones[mv.At] = mv.Color
		for _, n := range g.neighbours(mv.At) {
			if stones[n] == mv.Color.Opponent() && !g.hasLiberty(stones, n) {
				g.removeGroup(stones, n)
			}
		}
	}
	return stones
}

func (g *Game) neighbours(p Point) []Point {
	out := make([]Point, 0, 4)
	for _, n := range []Point{{p.X - 1, p.Y}, {p.X + 1, p.Y}, {p.X, p.Y - 1}, {p.X, p.Y + 1}} {
		if g.OnBoard(n) {
			out = append(out, n)
		}
	}
	return out
}

func (g *Game) group(stones map[Point]Color, p Point) []Point {
	color := stones[p]
	seen := map[Point]bool{p: true}
	stack := []Point{p}
	var out []Point
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, cur)
		for _, n := range g.neighbours(cur) {
			if !seen[n] && stones[n] == color {
				seen[n] = true
				stack = append(stack, n)
			}
		}
	}
	return out
}

func (g *Game) hasLiberty(stones map[Point]Color, p Point) bool {
	for _, s := range g.group(stones, p) {
		for _, n := range g.neighbours(s) {
			if stones[n] == None {
				return true
			}
		}
	}
	return false
}

func (g *Game) removeGroup(stones map[Point]Color, p Point) {
	for _, s := range g.group(stones, p) {
		delete(stones, s)
	}
}

// StarPoints returns the handicap points drawn as dots on the grid.
func StarPoints(size int) []Point {
	var edge int
	switch {
	case size < 7:
		return nil
	case size < 13:
		edge = 2
	default:
		edge = 3
	}
	far := size - 1 - edge
	points := []Point{{edge, edge}, {far, edge}, {edge, far}, {far, far}}
	if size%2 == 1 && size >= 9 {
		mid := size / 2
		points = append(points, Point{mid, mid})
		if size >= 13 {
			points = append(points, Point{mid, edge}, Point{mid, far}, Point{edge, mid}, Point{far, mid})
		}
	}
	return points
}
