// Copyright ©2022 Evolution. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Leveled logging for vidmeta. Thin wrap around zap's console encoder with
// three levels: Debug, Info and Warn.
package logging

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level is logging level.
type Level int8

const (
	DebugLevel Level = iota - 1
	InfoLevel
	WarnLevel
)

const callerSkip = 1

// String implements fmt.Stringer for Level.
func (l Level) String() string {
	return l.zapLevel().String()
}

func (l Level) zapLevel() zapcore.Level {
	switch l {
	case DebugLevel:
		return zapcore.DebugLevel
	case WarnLevel:
		return zapcore.WarnLevel
	default:
		return zapcore.InfoLevel
	}
}

// ParseLevel converts level name into Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DebugLevel, nil
	case "info", "":
		return InfoLevel, nil
	case "warn", "warning":
		return WarnLevel, nil
	default:
		return InfoLevel, fmt.Errorf("unknown log level: %q", s)
	}
}

// Logger is a leveled logger. Should be created once per process via New()
// and passed to whoever needs it.
type Logger struct {
	s *zap.SugaredLogger
}

// New creates Logger writing messages of given level and above to w.
func New(w io.Writer, level Level) *Logger {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.AddSync(w),
		level.zapLevel(),
	)
	l := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(callerSkip))

	return &Logger{s: l.Sugar()}
}

// Nop returns Logger that discards everything.
func Nop() *Logger {
	return &Logger{s: zap.NewNop().Sugar()}
}

func (l *Logger) Debug(v ...interface{}) {
	l.s.Debug(v...)
}

func (l *Logger) Debugf(format string, v ...interface{}) {
	l.s.Debugf(format, v...)
}

func (l *Logger) Info(v ...interface{}) {
	l.s.Info(v...)
}

func (l *Logger) Infof(format string, v ...interface{}) {
	l.s.Infof(format, v...)
}

func (l *Logger) Warn(v ...interface{}) {
	l.s.Warn(v...)
}

func (l *Logger) Warnf(format string, v ...interface{}) {
	l.s.Warnf(format, v...)
}

// Sync flushes buffered log entries, if any.
func (l *Logger) Sync() error {
	return l.s.Sync()
}
