// Copyright The Notary Project Authors.
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package log carries the logger of tsaclient in a context.
//
// The library logs at debug level only and stays silent unless a Logger is
// put in the context with WithLogger. github.com/uber-go/zap.SugaredLogger and
// github.com/sirupsen/logrus.Logger implement Logger directly; a log/slog
// logger is adapted with NewSlogLogger.
package log

import (
	"context"
	"fmt"
	"log/slog"
)

type contextKey struct{}

// Discard logs nothing. GetLogger returns it when the context has no Logger.
var Discard Logger = discardLogger{}

// Logger logs printf style messages at four levels.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// WithLogger returns a copy of ctx carrying logger.
func WithLogger(ctx context.Context, logger Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// GetLogger returns the Logger of ctx, or Discard.
func GetLogger(ctx context.Context) Logger {
	if logger, ok := ctx.Value(contextKey{}).(Logger); ok {
		return logger
	}
	return Discard
}

type discardLogger struct{}

func (discardLogger) Debugf(string, ...interface{}) {}
func (discardLogger) Infof(string, ...interface{})  {}
func (discardLogger) Warnf(string, ...interface{})  {}
func (discardLogger) Errorf(string, ...interface{}) {}

// NewSlogLogger returns a Logger writing to logger. A nil logger gives
// Discard.
func NewSlogLogger(logger *slog.Logger) Logger {
	if logger == nil {
		return Discard
	}
	return slogLogger{logger: logger}
}

type slogLogger struct {
	logger *slog.Logger
}

// logf formats only when the handler accepts level.
func (l slogLogger) logf(level slog.Level, format string, args []interface{}) {
	ctx := context.Background()
	if !l.logger.Enabled(ctx, level) {
		return
	}
	l.logger.Log(ctx, level, fmt.Sprintf(format, args...))
}

func (l slogLogger) Debugf(format string, args ...interface{}) {
	l.logf(slog.LevelDebug, format, args)
}

func (l slogLogger) Infof(format string, args ...interface{}) {
	l.logf(slog.LevelInfo, format, args)
}

func (l slogLogger) Warnf(format string, args ...interface{}) {
	l.logf(slog.LevelWarn, format, args)
}

func (l slogLogger) Errorf(format string, args ...interface{}) {
	l.logf(slog.LevelError, format, args)
}
