// Copyright (c) 2015-2016 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Copyright (c) 2026 The grinpp-go developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package flog defines the logging interface shared by every package in the
// chain-state engine.  Packages never write to a process-global logger
// directly; they hold a package-level flog.Logger (defaulting to Disabled)
// that the application wires up at startup via UseLogger, matching the
// "no process globals" rule in the design notes.
package flog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Level describes a logging severity.
type Level int

// Level constants, ordered from most to least verbose.
const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelCritical
	LevelOff
)

// String returns the lowercase name of the level.
func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "trace"
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelCritical:
		return "critical"
	case LevelOff:
		return "off"
	default:
		return "unknown"
	}
}

// LevelFromString returns a level based on the input string s.  If the input
// can't be interpreted as a valid log level, the info level and false is
// returned.
func LevelFromString(s string) (Level, bool) {
	switch strings.ToLower(s) {
	case "trace", "trc":
		return LevelTrace, true
	case "debug", "dbg":
		return LevelDebug, true
	case "info", "inf":
		return LevelInfo, true
	case "warn", "wrn":
		return LevelWarn, true
	case "error", "err":
		return LevelError, true
	case "critical", "crt":
		return LevelCritical, true
	case "off":
		return LevelOff, true
	default:
		return LevelInfo, false
	}
}

func (l Level) slogLevel() slog.Level {
	// Space the custom levels out the way slog recommends for
	// finer-than-Debug / coarser-than-Error severities.
	switch l {
	case LevelTrace:
		return slog.Level(-8)
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	case LevelCritical:
		return slog.Level(12)
	default:
		return slog.Level(100)
	}
}

// Logger is the interface each package-level `log` variable satisfies.
type Logger interface {
	Tracef(format string, params ...interface{})
	Debugf(format string, params ...interface{})
	Infof(format string, params ...interface{})
	Warnf(format string, params ...interface{})
	Errorf(format string, params ...interface{})
	Criticalf(format string, params ...interface{})
	Level() Level
	SetLevel(level Level)
}

// disabledLogger satisfies Logger but discards everything.  It is the
// default value for every package-level `log` variable until the
// application calls UseLogger.
type disabledLogger struct{}

func (disabledLogger) Tracef(string, ...interface{})    {}
func (disabledLogger) Debugf(string, ...interface{})    {}
func (disabledLogger) Infof(string, ...interface{})     {}
func (disabledLogger) Warnf(string, ...interface{})     {}
func (disabledLogger) Errorf(string, ...interface{})    {}
func (disabledLogger) Criticalf(string, ...interface{}) {}
func (disabledLogger) Level() Level                     { return LevelOff }
func (disabledLogger) SetLevel(Level)                   {}

// Disabled is a shared Logger that discards all log messages.
var Disabled Logger = disabledLogger{}

// slogBackend wraps an *slog.Logger and is what NewBackend's Logger()
// method returns.
type slogBackend struct {
	tag    string
	level  Level
	logger *slog.Logger
}

// Backend funnels every subsystem's logger through one io.Writer using a
// shared slog.Handler, mirroring the teacher's flog.Backend.
type Backend struct {
	handler slog.Handler
}

// NewBackend creates a logging backend that writes to w.
func NewBackend(w io.Writer) *Backend {
	return &Backend{handler: slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.Level(-8)})}
}

// Logger returns a Logger tagged with subsystem, initially at LevelInfo.
func (b *Backend) Logger(subsystem string) Logger {
	return &slogBackend{
		tag:    subsystem,
		level:  LevelInfo,
		logger: slog.New(b.handler),
	}
}

func (l *slogBackend) log(level Level, format string, params ...interface{}) {
	if level < l.level {
		return
	}
	msg := format
	if len(params) > 0 {
		msg = fmt.Sprintf(format, params...)
	}
	l.logger.LogAttrs(context.Background(), level.slogLevel(), msg, slog.String("subsystem", l.tag))
}

func (l *slogBackend) Tracef(format string, params ...interface{})    { l.log(LevelTrace, format, params...) }
func (l *slogBackend) Debugf(format string, params ...interface{})    { l.log(LevelDebug, format, params...) }
func (l *slogBackend) Infof(format string, params ...interface{})     { l.log(LevelInfo, format, params...) }
func (l *slogBackend) Warnf(format string, params ...interface{})     { l.log(LevelWarn, format, params...) }
func (l *slogBackend) Errorf(format string, params ...interface{})    { l.log(LevelError, format, params...) }
func (l *slogBackend) Criticalf(format string, params ...interface{}) { l.log(LevelCritical, format, params...) }
func (l *slogBackend) Level() Level                                   { return l.level }
func (l *slogBackend) SetLevel(level Level)                           { l.level = level }
