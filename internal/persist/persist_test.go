package persist

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gomark/internal/board"
	"gomark/internal/markup"
)

func pt(x, y int) board.Point {
	return board.Point{X: x, Y: y}
}

func sampleGame(t *testing.T) (*board.Game, *markup.Model) {
	t.Helper()
	g, err := board.NewGame(9)
	require.NoError(t, err)
	for _, p := range []board.Point{pt(2, 2), pt(6, 6), pt(2, 6)} {
		_, err := g.Play(p)
		require.NoError(t, err)
	}
	g.Pass()
	g.SetCurrentPosition(2)

	model := markup.NewModel(g)
	_, _, err = model.Set(markup.Symbol{At: pt(6, 6), Shape: markup.ShapeTriangle})
	require.NoError(t, err)
	_, err = model.UpsertConnection(pt(2, 2), pt(6, 6), markup.StyleArrow, board.White)
	require.NoError(t, err)
	_, _, err = model.Set(markup.Label{At: pt(4, 4), Text: "AB"})
	require.NoError(t, err)
	_, _, err = model.Set(markup.Territory{At: pt(0, 8), Side: board.Black})
	require.NoError(t, err)

	g.SetCurrentPosition(4)
	_, _, err = model.Set(markup.Symbol{At: pt(2, 6), Shape: markup.ShapeSelected})
	require.NoError(t, err)
	return g, model
}

func TestBackupRoundTrip(t *testing.T) {
	g, model := sampleGame(t)
	path := filepath.Join(t.TempDir(), "games", "backup.gomark")
	require.NoError(t, WriteBackup(path, Capture(g, model)))

	s, err := ReadBackup(path)
	require.NoError(t, err)
	assert.Equal(t, g.ID(), s.Game.ID())
	assert.Equal(t, g.Moves(), s.Game.Moves())
	assert.Equal(t, 4, s.Game.CurrentBoardPositionIndex())

	restored := markup.NewModel(s.Game)
	require.NoError(t, s.Apply(restored))
	assert.Equal(t, []int{2, 4}, restored.Indexes())
	for _, i := range model.Indexes() {
		assert.Equal(t, model.Elements(i), restored.Elements(i))
	}
}

func TestEncodeFormat(t *testing.T) {
	g, model := sampleGame(t)
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, Capture(g, model)))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, "GOMARK", lines[0])
	assert.Equal(t, "ID:"+g.ID(), lines[1])
	assert.Equal(t, "SIZE:9", lines[2])
	assert.Equal(t, "MOVES:4", lines[3])
	assert.Equal(t, "B,2,2", lines[4])
	assert.Equal(t, "W,pass", lines[7])
	assert.Equal(t, "POSITION:4", lines[8])
	assert.Equal(t, "MARKUP:5", lines[9])
	assert.Contains(t, lines, "2,connection,2,2,6,6,arrow,W")
	assert.Contains(t, lines, "2,label,4,4,AB")
	assert.Contains(t, lines, "4,symbol,2,6,selected")
}

func TestDecodeRejectsBadInput(t *testing.T) {
	id := "6f1c1a52-6d4e-4b57-8d2f-1f2a3b4c5d6e"
	cases := map[string]string{
		"header":        "FLOWCHART\n",
		"truncated":     "GOMARK\nID:" + id + "\nSIZE:9\nMOVES:2\nB,1,1\n",
		"bad size":      "GOMARK\nID:" + id + "\nSIZE:3\nMOVES:0\nPOSITION:0\nMARKUP:0\n",
		"out of turn":   "GOMARK\nID:" + id + "\nSIZE:9\nMOVES:1\nW,1,1\nPOSITION:1\nMARKUP:0\n",
		"initial mark":  "GOMARK\nID:" + id + "\nSIZE:9\nMOVES:1\nB,1,1\nPOSITION:1\nMARKUP:1\n0,symbol,1,1,circle\n",
		"off board":     "GOMARK\nID:" + id + "\nSIZE:9\nMOVES:1\nB,1,1\nPOSITION:1\nMARKUP:1\n1,symbol,9,1,circle\n",
		"degenerate":    "GOMARK\nID:" + id + "\nSIZE:9\nMOVES:1\nB,1,1\nPOSITION:1\nMARKUP:1\n1,connection,2,2,2,2,line,B\n",
		"unknown kind":  "GOMARK\nID:" + id + "\nSIZE:9\nMOVES:1\nB,1,1\nPOSITION:1\nMARKUP:1\n1,blob,2,2,x\n",
		"bad move":      "GOMARK\nID:" + id + "\nSIZE:9\nMOVES:1\nB,x\nPOSITION:1\nMARKUP:0\n",
		"invalid shape": "GOMARK\nID:" + id + "\nSIZE:9\nMOVES:1\nB,1,1\nPOSITION:1\nMARKUP:1\n1,symbol,2,2,star\n",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(input))
			assert.Error(t, err)
		})
	}
}

func TestDecodeRejectsOversizedCounts(t *testing.T) {
	id := "6f1c1a52-6d4e-4b57-8d2f-1f2a3b4c5d6e"
	cases := map[string]string{
		"moves":    "GOMARK\nID:" + id + "\nSIZE:9\nMOVES:9223372036854775807\n",
		"markup":   "GOMARK\nID:" + id + "\nSIZE:9\nMOVES:1\nB,1,1\nPOSITION:1\nMARKUP:9223372036854775807\n",
		"position": "GOMARK\nID:" + id + "\nSIZE:9\nMOVES:0\nPOSITION:9223372036854775807\nMARKUP:0\n",
		"size":     "GOMARK\nID:" + id + "\nSIZE:100000\nMOVES:0\nPOSITION:0\nMARKUP:0\n",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			require.NotPanics(t, func() {
				_, err := Decode(strings.NewReader(input))
				assert.ErrorIs(t, err, ErrFormat)
			})
		})
	}
}

func TestReadBackupMissingFile(t *testing.T) {
	_, err := ReadBackup(filepath.Join(t.TempDir(), "nope"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestStateStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yaml")
	store := NewStateStore(path)
	store.now = func() time.Time { return time.Date(2024, 3, 1, 12, 30, 15, 500, time.UTC) }

	_, found, err := store.Load()
	require.NoError(t, err)
	assert.False(t, found)

	want := State{
		GameID:      "6f1c1a52-6d4e-4b57-8d2f-1f2a3b4c5d6e",
		BoardSize:   13,
		Position:    7,
		EditingMode: true,
		Tool:        "connection",
		Side:        "W",
	}
	require.NoError(t, store.Save(want))

	got, found, err := store.Load()
	require.NoError(t, err)
	require.True(t, found)
	want.SavedAt = time.Date(2024, 3, 1, 12, 30, 15, 0, time.UTC)
	assert.Equal(t, want, got)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file left behind")
}

func TestStateStoreRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yaml")
	require.NoError(t, os.WriteFile(path, []byte("board_size: [nope"), 0644))
	_, _, err := NewStateStore(path).Load()
	assert.Error(t, err)
}
