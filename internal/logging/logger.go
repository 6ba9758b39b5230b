// Package logging builds the zap logger shared by the server and CLI.
//
// Console output always goes to stderr because stdout carries the MCP
// protocol stream. When a log file is configured, entries are also written
// as JSON to a lumberjack-rotated file.
package logging

import (
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation defaults for the log file.
const (
	DefaultMaxSizeMB  = 20
	DefaultMaxBackups = 3
	DefaultMaxAgeDays = 14
)

// Options configures New.
type Options struct {
	// Level is one of debug, info, warn or error. Unknown values mean info.
	Level string

	// File, when non-empty, enables the rotated JSON file core.
	File string

	// Console overrides the console destination; nil means stderr.
	Console io.Writer
}

// ParseLevel maps a level name to a zapcore.Level, ignoring case.
// "warning" is accepted for warn. Unknown names return def.
func ParseLevel(s string, def zapcore.Level) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	}
	return def
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "timestamp"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeDuration = zapcore.StringDurationEncoder
	return cfg
}

// New builds a logger from opts. The returned logger should be synced
// before exit.
func New(opts Options) *zap.Logger {
	level := zap.NewAtomicLevelAt(ParseLevel(opts.Level, zapcore.InfoLevel))

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig()), zapcore.AddSync(console), level),
	}

	if opts.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    DefaultMaxSizeMB,
			MaxBackups: DefaultMaxBackups,
			MaxAge:     DefaultMaxAgeDays,
			Compress:   true,
		}
		cores = append(cores,
			zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig()), zapcore.AddSync(rotator), level))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller())
}
