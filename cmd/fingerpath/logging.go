package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

const (
	logDir      = "logs"
	logFileName = "fingerpath.log"
	maxLogSize  = 10 * 1024 * 1024
)

// setupLogging routes stdlib and zerolog output to logs/fingerpath.log when debug is set
// The terminal owns stdout and stderr, so output is discarded otherwise.
func setupLogging(debug bool) *os.File {
	if !debug {
		discardLogs()
		return nil
	}

	if err := os.MkdirAll(logDir, 0755); err != nil {
		discardLogs()
		return nil
	}

	logPath := filepath.Join(logDir, logFileName)
	if info, err := os.Stat(logPath); err == nil && info.Size() > maxLogSize {
		rotated := filepath.Join(logDir, fmt.Sprintf("fingerpath_%s.log", time.Now().Format("20060102_150405")))
		_ = os.Rename(logPath, rotated)
	}

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		discardLogs()
		return nil
	}

	log.SetOutput(f)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	zlog.Logger = zerolog.New(f).With().Timestamp().Logger()
	zlog.Info().Int("pid", os.Getpid()).Msg("logging started")
	return f
}

func discardLogs() {
	log.SetOutput(io.Discard)
	zlog.Logger = zerolog.Nop()
}
