package main

import (
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"gomark/internal/board"
)

type Config struct {
	SaveDirectory string
	BoardSize     int
	LogLevel      logrus.Level
	EditMode      bool
	Restore       bool
	Confirmations bool
	// GameFile is opened instead of the backup when set.
	GameFile string
}

func defaultConfig() *Config {
	return &Config{
		BoardSize:     board.DefaultSize,
		LogLevel:      logrus.InfoLevel,
		Restore:       true,
		Confirmations: true,
	}
}

func loadConfig() *Config {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return defaultConfig()
	}
	return loadConfigFile(filepath.Join(homeDir, ".gomarkrc"), homeDir)
}

// loadConfigFile reads key=value lines. Unknown keys and bad values are
// ignored so a broken rc file never keeps the program from starting.
func loadConfigFile(configPath, homeDir string) *Config {
	config := defaultConfig()

	file, err := os.Open(configPath)
	if err != nil {
		return config
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		switch strings.ToLower(key) {
		case "savedirectory", "save_directory", "savedir":
			config.SaveDirectory = expandPath(value, homeDir)
		case "boardsize", "board_size", "size":
			if n, err := strconv.Atoi(value); err == nil && n >= board.MinSize && n <= board.MaxSize {
				config.BoardSize = n
			}
		case "loglevel", "log_level":
			if lvl, err := logrus.ParseLevel(value); err == nil {
				config.LogLevel = lvl
			}
		case "editmode", "edit_mode":
			config.EditMode = strings.ToLower(value) == "true"
		case "restore":
			config.Restore = strings.ToLower(value) == "true"
		case "confirmations", "confirm":
			config.Confirmations = strings.ToLower(value) == "true"
		}
	}

	return config
}

func expandPath(value, homeDir string) string {
	if strings.HasPrefix(value, "~") && homeDir != "" {
		value = filepath.Join(homeDir, strings.TrimPrefix(value, "~"))
	}
	if !filepath.IsAbs(value) {
		if absPath, err := filepath.Abs(value); err == nil {
			value = absPath
		}
	}
	return value
}

// DataDir holds the log, the application state and the game backup.
func (c *Config) DataDir() string {
	if c.SaveDirectory != "" {
		return c.SaveDirectory
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, defaultDirDot)
	}
	return defaultDirDot
}

func (c *Config) GetSavePath(filename string) string {
	if c.SaveDirectory == "" || filepath.IsAbs(filename) {
		return filename
	}
	os.MkdirAll(c.SaveDirectory, 0755)
	return filepath.Join(c.SaveDirectory, filename)
}

func (c *Config) statePath() string  { return filepath.Join(c.DataDir(), stateName) }
func (c *Config) backupPath() string { return filepath.Join(c.DataDir(), backupName) }
func (c *Config) logPath() string    { return filepath.Join(c.DataDir(), logName) }
