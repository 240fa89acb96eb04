package render

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gomark/internal/board"
	"gomark/internal/markup"
)

func TestPNGDrawSizesImageToBoard(t *testing.T) {
	r := NewPNG(NewCache(), 20)
	f := testFrame(2,
		markup.Connection{From: board.Point{X: 1, Y: 1}, To: board.Point{X: 5, Y: 3}, Style: markup.StyleArrow},
		markup.Symbol{At: board.Point{X: 2, Y: 2}, Shape: markup.ShapeCircle},
		markup.Label{At: board.Point{X: 7, Y: 7}, Text: "A"},
	)
	img, err := r.Draw(f)
	require.NoError(t, err)

	want := (9-1)*20 + 1 + 2*20
	assert.Equal(t, want, img.Bounds().Dx())
	assert.Equal(t, want, img.Bounds().Dy())
}

func TestPNGStampsAreCachedPerCellSize(t *testing.T) {
	cache := NewCache()
	r := NewPNG(cache, 16)
	_, err := r.Draw(testFrame(1))
	require.NoError(t, err)

	_, ok := cache.Get(KindBlackStone)
	require.True(t, ok)
	_, ok = cache.Get(KindLabel)
	require.True(t, ok, "font face should be cached")

	r.SetCellSize(24)
	assert.Equal(t, 24, r.CellSize())
	_, ok = cache.Get(KindBlackStone)
	assert.False(t, ok)
}

func TestPNGExportWritesDecodableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.png")
	r := NewPNG(NewCache(), 0)
	require.NoError(t, r.Export(path, testFrame(1)))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	_, err = png.Decode(f)
	assert.NoError(t, err)

	_, err = r.Draw(Frame{Size: 2})
	assert.Error(t, err)
}
