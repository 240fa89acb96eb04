package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGameRejectsBadSize(t *testing.T) {
	_, err := NewGame(3)
	assert.Error(t, err)
	_, err = NewGame(MaxSize + 1)
	assert.Error(t, err)

	g, err := NewGame(9)
	require.NoError(t, err)
	assert.Equal(t, 1, g.NumberOfPositions())
	assert.Equal(t, 0, g.CurrentBoardPositionIndex())
	assert.NotEmpty(t, g.ID())
}

func TestPlayAlternatesColorsAndAdvancesPosition(t *testing.T) {
	g, err := NewGame(9)
	require.NoError(t, err)

	_, err = g.Play(Point{2, 2})
	require.NoError(t, err)
	_, err = g.Play(Point{3, 3})
	require.NoError(t, err)

	assert.Equal(t, 2, g.CurrentBoardPositionIndex())
	stones := g.StonesAt(2)
	assert.Equal(t, Black, stones[Point{2, 2}])
	assert.Equal(t, White, stones[Point{3, 3}])
	assert.Empty(t, g.StonesAt(0))

	_, err = g.Play(Point{2, 2})
	assert.ErrorIs(t, err, ErrOccupied)
	_, err = g.Play(Point{9, 0})
	assert.ErrorIs(t, err, ErrOffBoard)
}

func TestPlayCapturesAndRejectsSuicide(t *testing.T) {
	g, err := NewGame(9)
	require.NoError(t, err)

	// White stone in the corner gets surrounded.
	for _, p := range []Point{{1, 0}, {0, 0}, {0, 1}} {
		_, err := g.Play(p)
		require.NoError(t, err)
	}
	stones := g.StonesAt(g.CurrentBoardPositionIndex())
	assert.Equal(t, None, stones[Point{0, 0}])
	assert.Equal(t, Black, stones[Point{0, 1}])

	// White playing back into the empty corner would be suicide.
	_, err = g.Play(Point{0, 0})
	assert.ErrorIs(t, err, ErrSuicide)
}

func TestPlayFromOlderPositionDiscardsLaterMoves(t *testing.T) {
	g, err := NewGame(9)
	require.NoError(t, err)
	for _, p := range []Point{{1, 1}, {2, 2}, {3, 3}} {
		_, err := g.Play(p)
		require.NoError(t, err)
	}
	g.SetCurrentPosition(1)

	discarded, err := g.Play(Point{5, 5})
	require.NoError(t, err)
	assert.Equal(t, 2, discarded)
	assert.Equal(t, 3, g.NumberOfPositions())
	assert.Equal(t, White, g.StonesAt(2)[Point{5, 5}])

	assert.Equal(t, -1, g.Pass())
	mv, ok := g.LastMove(3)
	require.True(t, ok)
	assert.True(t, mv.Pass)
}

func TestRestoreGameReplaysMoves(t *testing.T) {
	g, err := NewGame(13)
	require.NoError(t, err)
	_, _ = g.Play(Point{3, 3})
	g.Pass()
	_, _ = g.Play(Point{9, 9})

	restored, err := RestoreGame(g.ID(), 13, g.Moves(), 2)
	require.NoError(t, err)
	assert.Equal(t, g.ID(), restored.ID())
	assert.Equal(t, 2, restored.CurrentBoardPositionIndex())
	assert.Equal(t, g.StonesAt(3), restored.StonesAt(3))

	_, err = RestoreGame("", 13, []Move{{Color: White, At: Point{1, 1}}}, 0)
	assert.Error(t, err)
}

func TestSetCurrentPositionClamps(t *testing.T) {
	g, err := NewGame(9)
	require.NoError(t, err)
	_, _ = g.Play(Point{4, 4})

	g.SetCurrentPosition(-3)
	assert.Equal(t, 0, g.CurrentBoardPositionIndex())
	g.SetCurrentPosition(42)
	assert.Equal(t, 1, g.CurrentBoardPositionIndex())
}

func TestSurfaceResolveIntersection(t *testing.T) {
	s := NewTerminalSurface(19)

	tests := []struct {
		name  string
		in    ScreenPoint
		want  Point
		found bool
	}{
		{"origin", ScreenPoint{3, 1}, Point{0, 0}, true},
		{"exact", s.ScreenOf(Point{4, 10}), Point{4, 10}, true},
		{"between columns snaps right", ScreenPoint{3 + 2*4 + 1, 5}, Point{5, 4}, true},
		{"half cell left of grid", ScreenPoint{2, 1}, Point{0, 0}, true},
		{"left margin", ScreenPoint{0, 1}, Point{}, false},
		{"above grid", ScreenPoint{5, 0}, Point{}, false},
		{"below grid", ScreenPoint{5, 1 + 19}, Point{}, false},
		{"right of grid", ScreenPoint{3 + 2*19, 1}, Point{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := s.ResolveIntersection(tt.in)
			assert.Equal(t, tt.found, ok)
			if tt.found {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestVertex(t *testing.T) {
	assert.Equal(t, "D16", Point{3, 3}.Vertex(19))
	assert.Equal(t, "J1", Point{8, 18}.Vertex(19))
	assert.Len(t, StarPoints(19), 9)
	assert.Len(t, StarPoints(9), 5)
	assert.Empty(t, StarPoints(5))
}
