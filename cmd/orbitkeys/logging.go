package main

import (
	"io"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// setupLogging sends log output to a rotating file when path is set. The
// returned func flushes and closes the file.
func setupLogging(path string, maxSizeMB int) (func() error, error) {
	if path == "" {
		return func() error { return nil }, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	rot := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: 3,
		MaxAge:     7,
		Compress:   true,
	}
	log.SetOutput(io.MultiWriter(os.Stderr, rot))
	return rot.Close, nil
}
