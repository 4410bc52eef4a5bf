/*
NAME
  logging.go

DESCRIPTION
  logging.go provides the Logger interface used throughout liblrpt, and a
  default implementation backed by zap and lumberjack.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package logging provides a small structured-logging interface shared by
// the config and cmd packages, plus a zap/lumberjack backed
// implementation.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log levels, ordered least to most severe.
const (
	Debug int8 = iota
	Info
	Warning
	Error
	Fatal
)

// Logger is implemented by anything that can record structured log lines.
// params are alternating key, value pairs, in the style the config and cmd
// packages use throughout (e.g. l.Log(Info, "loaded iq file", "samples", n)).
type Logger interface {
	SetLevel(int8)
	Log(level int8, message string, params ...interface{})
}

// ZapLogger implements Logger using a zap.SugaredLogger. The zero value is
// not usable; construct with New.
type ZapLogger struct {
	sugar *zap.SugaredLogger
	level int8
	atom  zap.AtomicLevel
}

// Config describes where and how a ZapLogger writes.
type Config struct {
	// Path is the destination log file. If empty, logs go to stderr only.
	Path string

	// MaxSizeMB, MaxBackups and MaxAgeDays control lumberjack rotation.
	// Ignored when Path is empty.
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int

	// Level is the initial minimum level that will be emitted.
	Level int8
}

// New constructs a ZapLogger per cfg.
func New(cfg Config) *ZapLogger {
	atom := zap.NewAtomicLevelAt(toZapLevel(cfg.Level))

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var ws zapcore.WriteSyncer
	if cfg.Path != "" {
		lj := &lumberjack.Logger{
			Filename:   cfg.Path,
			MaxSize:    nonZero(cfg.MaxSizeMB, 100),
			MaxBackups: nonZero(cfg.MaxBackups, 10),
			MaxAge:     nonZero(cfg.MaxAgeDays, 28),
		}
		ws = zapcore.AddSync(lj)
	} else {
		ws = zapcore.Lock(zapcore.AddSync(os.Stderr))
	}

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), ws, atom)

	return &ZapLogger{
		sugar: zap.New(core).Sugar(),
		level: cfg.Level,
		atom:  atom,
	}
}

func nonZero(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

// SetLevel changes the minimum level that will be emitted.
func (l *ZapLogger) SetLevel(level int8) {
	l.level = level
	l.atom.SetLevel(toZapLevel(level))
}

// Log records message with the given level and key/value params.
func (l *ZapLogger) Log(level int8, message string, params ...interface{}) {
	switch level {
	case Debug:
		l.sugar.Debugw(message, params...)
	case Info:
		l.sugar.Infow(message, params...)
	case Warning:
		l.sugar.Warnw(message, params...)
	case Error:
		l.sugar.Errorw(message, params...)
	case Fatal:
		l.sugar.Fatalw(message, params...)
	default:
		l.sugar.Infow(message, params...)
	}
}

func toZapLevel(level int8) zapcore.Level {
	switch level {
	case Debug:
		return zapcore.DebugLevel
	case Info:
		return zapcore.InfoLevel
	case Warning:
		return zapcore.WarnLevel
	case Error:
		return zapcore.ErrorLevel
	case Fatal:
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

// Discard is a Logger that drops every message; useful in tests that don't
// care about log output, matching the teacher's dumbLogger test helper.
type Discard struct{}

func (Discard) SetLevel(int8)                                {}
func (Discard) Log(level int8, message string, params ...interface{}) {}
