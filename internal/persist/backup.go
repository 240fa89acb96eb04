package persist

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gomark/internal/board"
	"gomark/internal/markup"
)

const backupHeader = "GOMARK"

var ErrFormat = errors.New("persist: invalid game file")

// Snapshot is a game together with the markup of all its positions.
type Snapshot struct {
	Game   *board.Game
	Markup map[int][]markup.Element
}

// Capture collects the markup of every position of model.
func Capture(g *board.Game, model *markup.Model) Snapshot {
	s := Snapshot{Game: g, Markup: make(map[int][]markup.Element)}
	for _, i := range model.Indexes() {
		s.Markup[i] = model.Elements(i)
	}
	return s
}

// Apply replaces the content of model with the snapshot's markup.
func (s Snapshot) Apply(model *markup.Model) error {
	model.Clear()
	for i, elements := range s.Markup {
		if err := model.Restore(i, elements); err != nil {
			return fmt.Errorf("persist: position %d: %w", i, err)
		}
	}
	return nil
}

// WriteBackup replaces the file at path with the snapshot.
func WriteBackup(path string, s Snapshot) error {
	return writeAtomic(path, func(f *os.File) error {
		w := bufio.NewWriter(f)
		if err := Encode(w, s); err != nil {
			return err
		}
		return w.Flush()
	})
}

// ReadBackup loads a snapshot written by WriteBackup.
func ReadBackup(path string) (Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return Snapshot{}, err
	}
	defer f.Close()
	s, err := Decode(f)
	if err != nil {
		return Snapshot{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Encode writes the line based game format:
//
//	GOMARK
//	ID:<game id>
//	SIZE:<n>
//	MOVES:<n>      followed by "B,x,y" or "W,pass" lines
//	POSITION:<n>
//	MARKUP:<n>     followed by "index,kind,fields..." lines
func Encode(w io.Writer, s Snapshot) error {
	g := s.Game
	fmt.Fprintf(w, "%s\n", backupHeader)
	fmt.Fprintf(w, "ID:%s\n", g.ID())
	fmt.Fprintf(w, "SIZE:%d\n", g.Size())

	moves := g.Moves()
	fmt.Fprintf(w, "MOVES:%d\n", len(moves))
	for _, mv := range moves {
		if mv.Pass {
			fmt.Fprintf(w, "%s,pass\n", mv.Color)
		} else {
			fmt.Fprintf(w, "%s,%d,%d\n", mv.Color, mv.At.X, mv.At.Y)
		}
	}
	fmt.Fprintf(w, "POSITION:%d\n", g.CurrentBoardPositionIndex())

	var lines []string
	for i := 0; i <= len(moves); i++ {
		for _, e := range s.Markup[i] {
			lines = append(lines, strconv.Itoa(i)+","+encodeElement(e))
		}
	}
	fmt.Fprintf(w, "MARKUP:%d\n", len(lines))
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func encodeElement(e markup.Element) string {
	switch v := e.(type) {
	case markup.Symbol:
		return fmt.Sprintf("symbol,%d,%d,%s", v.At.X, v.At.Y, v.Shape)
	case markup.Territory:
		return fmt.Sprintf("territory,%d,%d,%s", v.At.X, v.At.Y, v.Side)
	case markup.Connection:
		return fmt.Sprintf("connection,%d,%d,%d,%d,%s,%s", v.From.X, v.From.Y, v.To.X, v.To.Y, v.Style, v.Side)
	case markup.Label:
		return fmt.Sprintf("label,%d,%d,%s", v.At.X, v.At.Y, v.Text)
	}
	return ""
}

// Record counts in a backup are bounded so that a corrupt count fails
// instead of driving allocation.
const (
	maxMoves  = board.MaxSize * board.MaxSize * 4
	maxMarkup = 1 << 20
)

// Decode parses the format written by Encode and replays the game.
func Decode(r io.Reader) (Snapshot, error) {
	scanner := bufio.NewScanner(r)
	next := func(prefix string) (string, error) {
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return "", err
			}
			return "", fmt.Errorf("%w: missing %s", ErrFormat, strings.TrimSuffix(prefix, ":"))
		}
		line := scanner.Text()
		if !strings.HasPrefix(line, prefix) {
			return "", fmt.Errorf("%w: expected %s, got %q", ErrFormat, prefix, line)
		}
		return strings.TrimPrefix(line, prefix), nil
	}
	count := func(prefix string, limit int) (int, error) {
		v, err := next(prefix)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || n > limit {
			return 0, fmt.Errorf("%w: invalid %s %q", ErrFormat, prefix, v)
		}
		return n, nil
	}

	if _, err := next(backupHeader); err != nil {
		return Snapshot{}, err
	}
	id, err := next("ID:")
	if err != nil {
		return Snapshot{}, err
	}
	size, err := count("SIZE:", board.MaxSize)
	if err != nil {
		return Snapshot{}, err
	}

	n, err := count("MOVES:", maxMoves)
	if err != nil {
		return Snapshot{}, err
	}
	var moves []board.Move
	for i := 0; i < n; i++ {
		line, err := next("")
		if err != nil {
			return Snapshot{}, err
		}
		mv, err := decodeMove(line)
		if err != nil {
			return Snapshot{}, fmt.Errorf("move %d: %w", i+1, err)
		}
		moves = append(moves, mv)
	}
	position, err := count("POSITION:", maxMoves)
	if err != nil {
		return Snapshot{}, err
	}
	g, err := board.RestoreGame(id, size, moves, position)
	if err != nil {
		return Snapshot{}, err
	}

	n, err = count("MARKUP:", maxMarkup)
	if err != nil {
		return Snapshot{}, err
	}
	s := Snapshot{Game: g, Markup: make(map[int][]markup.Element)}
	for i := 0; i < n; i++ {
		line, err := next("")
		if err != nil {
			return Snapshot{}, err
		}
		index, e, err := decodeMarkup(line, g)
		if err != nil {
			return Snapshot{}, fmt.Errorf("markup line %d: %w", i+1, err)
		}
		s.Markup[index] = append(s.Markup[index], e)
	}
	return s, nil
}

func decodeMove(line string) (board.Move, error) {
	parts := strings.Split(line, ",")
	c, err := board.ParseColor(parts[0])
	if err != nil || c == board.None {
		return board.Move{}, fmt.Errorf("%w: invalid move %q", ErrFormat, line)
	}
	switch {
	case len(parts) == 2 && parts[1] == "pass":
		return board.Move{Color: c, Pass: true}, nil
	case len(parts) == 3:
		p, err := decodePoint(parts[1], parts[2])
		if err != nil {
			return board.Move{}, err
		}
		return board.Move{Color: c, At: p}, nil
	}
	return board.Move{}, fmt.Errorf("%w: invalid move %q", ErrFormat, line)
}

func decodePoint(x, y string) (board.Point, error) {
	px, errX := strconv.Atoi(x)
	py, errY := strconv.Atoi(y)
	if errX != nil || errY != nil {
		return board.Point{}, fmt.Errorf("%w: invalid point %s,%s", ErrFormat, x, y)
	}
	return board.Point{X: px, Y: py}, nil
}

func decodeMarkup(line string, g *board.Game) (int, markup.Element, error) {
	// Label text is last and may not be split further.
	parts := strings.SplitN(line, ",", 5)
	if len(parts) < 5 {
		return 0, nil, fmt.Errorf("%w: invalid markup %q", ErrFormat, line)
	}
	index, err := strconv.Atoi(parts[0])
	if err != nil || index <= 0 || index >= g.NumberOfPositions() {
		return 0, nil, fmt.Errorf("%w: invalid position in %q", ErrFormat, line)
	}
	at, err := decodePoint(parts[2], parts[3])
	if err != nil {
		return 0, nil, err
	}
	if !g.OnBoard(at) {
		return 0, nil, fmt.Errorf("%w: %v", board.ErrOffBoard, at)
	}
	rest := parts[4]

	switch parts[1] {
	case "symbol":
		shape, err := markup.ParseShape(rest)
		if err != nil {
			return 0, nil, err
		}
		return index, markup.Symbol{At: at, Shape: shape}, nil
	case "territory":
		side, err := board.ParseColor(rest)
		if err != nil {
			return 0, nil, err
		}
		return index, markup.Territory{At: at, Side: side}, nil
	case "label":
		if rest == "" {
			return 0, nil, fmt.Errorf("%w: empty label", ErrFormat)
		}
		return index, markup.Label{At: at, Text: rest}, nil
	case "connection":
		f := strings.Split(rest, ",")
		if len(f) != 4 {
			return 0, nil, fmt.Errorf("%w: invalid connection %q", ErrFormat, line)
		}
		to, err := decodePoint(f[0], f[1])
		if err != nil {
			return 0, nil, err
		}
		if !g.OnBoard(to) {
			return 0, nil, fmt.Errorf("%w: %v", board.ErrOffBoard, to)
		}
		style, err := markup.ParseStyle(f[2])
		if err != nil {
			return 0, nil, err
		}
		side, err := board.ParseColor(f[3])
		if err != nil {
			return 0, nil, err
		}
		c := markup.Connection{From: at, To: to, Style: style, Side: side}
		if c.Key().Degenerate() {
			return 0, nil, markup.ErrDegenerateConnection
		}
		return index, c, nil
	}
	return 0, nil, fmt.Errorf("%w: unknown markup kind %q", ErrFormat, parts[1])
}
