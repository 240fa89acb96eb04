package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

// newLogger appends to gomark.log in the data directory; the terminal
// belongs to the board.
func newLogger(cfg *Config) (*logrus.Logger, func(), error) {
	if err := os.MkdirAll(cfg.DataDir(), 0755); err != nil {
		return nil, nil, fmt.Errorf("logging: ensure log dir: %w", err)
	}
	f, err := os.OpenFile(cfg.logPath(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("logging: open log file: %w", err)
	}

	log := logrus.New()
	log.SetOutput(f)
	log.SetLevel(cfg.LogLevel)
	log.SetFormatter(&logrus.TextFormatter{
		DisableColors: true,
		FullTimestamp: true,
	})
	return log, func() { f.Close() }, nil
}
