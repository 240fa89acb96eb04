package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFile(t *testing.T) {
	home := t.TempDir()
	rc := filepath.Join(home, ".gomarkrc")
	content := `# gomark settings
savedirectory = ~/games
boardsize = 13
loglevel = debug
editmode = true
restore = false
confirmations = false
unknown = 1
not a setting
`
	require.NoError(t, os.WriteFile(rc, []byte(content), 0644))

	cfg := loadConfigFile(rc, home)
	assert.Equal(t, filepath.Join(home, "games"), cfg.SaveDirectory)
	assert.Equal(t, 13, cfg.BoardSize)
	assert.Equal(t, logrus.DebugLevel, cfg.LogLevel)
	assert.True(t, cfg.EditMode)
	assert.False(t, cfg.Restore)
	assert.False(t, cfg.Confirmations)
}

func TestLoadConfigFileKeepsDefaultsOnBadValues(t *testing.T) {
	home := t.TempDir()
	rc := filepath.Join(home, ".gomarkrc")
	require.NoError(t, os.WriteFile(rc, []byte("boardsize=99\nloglevel=loud\n"), 0644))

	cfg := loadConfigFile(rc, home)
	assert.Equal(t, defaultConfig(), cfg)

	missing := loadConfigFile(filepath.Join(home, "nope"), home)
	assert.Equal(t, defaultConfig(), missing)
}

func TestDataDirPaths(t *testing.T) {
	cfg := defaultConfig()
	cfg.SaveDirectory = t.TempDir()

	assert.Equal(t, filepath.Join(cfg.SaveDirectory, "state.yaml"), cfg.statePath())
	assert.Equal(t, filepath.Join(cfg.SaveDirectory, "backup.gomark"), cfg.backupPath())
	assert.Equal(t, filepath.Join(cfg.SaveDirectory, "gomark.log"), cfg.logPath())
	assert.Equal(t, filepath.Join(cfg.SaveDirectory, "a.gomark"), cfg.GetSavePath("a.gomark"))
	assert.Equal(t, "/abs/a.gomark", cfg.GetSavePath("/abs/a.gomark"))
}

func TestRootCommandRejectsBadFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"size too small", []string{"--size", "3"}},
		{"size too large", []string{"--size", "26"}},
		{"unknown log level", []string{"--log-level", "loud"}},
		{"two files", []string{"a.gomark", "b.gomark"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newRootCmd()
			cmd.SetArgs(tt.args)
			cmd.SetOut(io.Discard)
			cmd.SetErr(io.Discard)
			assert.Error(t, cmd.Execute())
		})
	}
}

func TestNewLoggerWritesToDataDir(t *testing.T) {
	cfg := defaultConfig()
	cfg.SaveDirectory = filepath.Join(t.TempDir(), "data")

	log, closeLog, err := newLogger(cfg)
	require.NoError(t, err)
	log.WithField("game", "g1").Info("game loaded")
	closeLog()

	data, err := os.ReadFile(cfg.logPath())
	require.NoError(t, err)
	assert.Contains(t, string(data), "game loaded")
	assert.Contains(t, string(data), "game=g1")
}
