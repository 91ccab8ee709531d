// Package logging provides the thin structured-logging facade used by the
// relaxedikd command, wrapping zap the way the teacher's own logging package
// does.
package logging

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

// Logger is the structured logger cmd/relaxedikd logs through instead of
// calling fmt.Println or the stdlib log package directly; the library
// packages do not log.
type Logger interface {
	Debugf(template string, args ...interface{})
	Infof(template string, args ...interface{})
	Warnf(template string, args ...interface{})
	Errorf(template string, args ...interface{})
	Sublogger(name string) Logger
}

type zapLogger struct {
	sugar *zap.SugaredLogger
}

// NewProduction returns a Logger backed by zap's production configuration.
func NewProduction() (Logger, error) {
	z, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return &zapLogger{sugar: z.Sugar()}, nil
}

// NewDevelopment returns a Logger backed by zap's development configuration
// (human-readable, debug level enabled).
func NewDevelopment() (Logger, error) {
	z, err := zap.NewDevelopment()
	if err != nil {
		return nil, err
	}
	return &zapLogger{sugar: z.Sugar()}, nil
}

// NewTestLogger returns a Logger that writes through t.Log, mirroring the
// logging.NewTestLogger(t) helper used throughout the teacher's test suite.
func NewTestLogger(t testing.TB) Logger {
	return &zapLogger{sugar: zaptest.NewLogger(t).Sugar()}
}

func (l *zapLogger) Debugf(template string, args ...interface{}) { l.sugar.Debugf(template, args...) }
func (l *zapLogger) Infof(template string, args ...interface{})  { l.sugar.Infof(template, args...) }
func (l *zapLogger) Warnf(template string, args ...interface{})  { l.sugar.Warnf(template, args...) }
func (l *zapLogger) Errorf(template string, args ...interface{}) { l.sugar.Errorf(template, args...) }

func (l *zapLogger) Sublogger(name string) Logger {
	return &zapLogger{sugar: l.sugar.Named(name)}
}
