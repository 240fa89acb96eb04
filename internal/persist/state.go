package persist

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// State is what the application remembers between runs besides the game
// itself.
type State struct {
	GameID      string    `yaml:"game_id"`
	GameFile    string    `yaml:"game_file,omitempty"`
	BoardSize   int       `yaml:"board_size"`
	Position    int       `yaml:"position"`
	EditingMode bool      `yaml:"editing_mode"`
	Tool        string    `yaml:"tool,omitempty"`
	Side        string    `yaml:"side,omitempty"`
	SavedAt     time.Time `yaml:"saved_at"`
}

// StateStore reads and writes State as YAML.
type StateStore struct {
	path string
	now  func() time.Time
}

func NewStateStore(path string) *StateStore {
	return &StateStore{path: path, now: time.Now}
}

func (s *StateStore) Path() string {
	return s.path
}

// Save stamps st with the current time and replaces the state file.
func (s *StateStore) Save(st State) error {
	st.SavedAt = s.now().UTC().Truncate(time.Second)
	data, err := yaml.Marshal(&st)
	if err != nil {
		return fmt.Errorf("persist: encode state: %w", err)
	}
	return writeAtomic(s.path, func(f *os.File) error {
		_, err := f.Write(data)
		return err
	})
}

// Load returns the stored state. A missing file yields a zero State and
// found is false.
func (s *StateStore) Load() (st State, found bool, err error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return State{}, false, nil
	}
	if err != nil {
		return State{}, false, fmt.Errorf("persist: read state: %w", err)
	}
	if err := yaml.Unmarshal(data, &st); err != nil {
		return State{}, false, fmt.Errorf("persist: decode state %s: %w", s.path, err)
	}
	return st, true, nil
}
