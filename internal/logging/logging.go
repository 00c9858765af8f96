// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging configures the process-wide zerolog logger.
//
// The TUI owns the terminal, so logs always go to a file; CLI modes may
// additionally mirror to stderr with a console writer. Best-effort
// persistence failures are logged here and never surfaced in the chat
// thread.
package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

var logger = zerolog.Nop()

// Init opens (or creates) the log file at path and installs it as the
// process-wide sink. Returns a close function for the file handle.
func Init(path string, level zerolog.Level) (func() error, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	logger = zerolog.New(f).Level(level).With().Timestamp().Logger()
	return f.Close, nil
}

// InitConsole additionally mirrors log output to stderr with a human
// console format. Used by CLI modes where the terminal is not owned by
// the TUI renderer.
func InitConsole(path string, level zerolog.Level) (func() error, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	console := zerolog.ConsoleWriter{Out: os.Stderr}
	logger = zerolog.New(io.MultiWriter(f, console)).Level(level).With().Timestamp().Logger()
	return f.Close, nil
}

// L returns the process-wide logger. Before Init it is a no-op logger,
// so packages may log unconditionally.
func L() *zerolog.Logger {
	return &logger
}

// With returns a child logger tagged with the given component name.
func With(component string) zerolog.Logger {
	return logger.With().Str("component", component).Logger()
}
