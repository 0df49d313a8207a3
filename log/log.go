// Package log is a small leveled-logging façade, kept byte-for-byte
// compatible with the interface consumers expect (Logger/Fields/Level),
// but backed by github.com/sirupsen/logrus instead of a hand-rolled
// stdlib sink.
package log

import (
	"errors"
	"io"
	"strconv"

	"github.com/sirupsen/logrus"
)

// Logger interface is subset of github.com/uber-common/bark.Logger methods.
type Logger interface {
	Debug(args ...interface{})
	Debugf(format string, args ...interface{})
	Info(args ...interface{})
	Infof(format string, args ...interface{})
	Warn(args ...interface{})
	Warnf(format string, args ...interface{})
	Error(args ...interface{})
	Errorf(format string, args ...interface{})
	Fatal(args ...interface{})
	Fatalf(format string, args ...interface{})
	Panic(args ...interface{})
	Panicf(format string, args ...interface{})
	WithFields(keyValues LogFields) Logger
	Fields() Fields
}

type LogFields interface {
	Fields() map[string]interface{}
}

type Fields map[string]interface{}

func (f Fields) Fields() map[string]interface{} { return f }

type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
)

func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	case FatalLevel:
		return "FATAL"
	}
	panic("unexpected level: " + strconv.Itoa(int(l)))
}

func (l Level) logrusLevel() logrus.Level {
	switch l {
	case DebugLevel:
		return logrus.DebugLevel
	case InfoLevel:
		return logrus.InfoLevel
	case WarnLevel:
		return logrus.WarnLevel
	case ErrorLevel:
		return logrus.ErrorLevel
	case FatalLevel:
		return logrus.FatalLevel
	}
	panic("unexpected level: " + strconv.Itoa(int(l)))
}

var stringToLevel = func() map[string]Level {
	levels := []Level{DebugLevel, InfoLevel, WarnLevel, ErrorLevel, FatalLevel}
	res := make(map[string]Level, len(levels))
	for _, l := range levels {
		res[l.String()] = l
	}
	return res
}()

func LevelFromString(s string) (Level, error) {
	var err error
	l, ok := stringToLevel[s]
	if !ok {
		err = errors.New("invalid level " + s)
	}
	return l, err
}

// NewLogger builds a Logger at level l writing to w, formatted the way
// logrus's default text formatter renders fields.
func NewLogger(l Level, w io.Writer) Logger {
	base := logrus.New()
	base.SetOutput(w)
	base.SetLevel(l.logrusLevel())
	return &logger{entry: logrus.NewEntry(base)}
}

// logger adapts a logrus.Entry to the Logger contract above; WithFields
// returns a new logger wrapping the entry's own WithFields, the same
// copy-on-write semantics the teacher's hand-rolled logger had.
type logger struct {
	entry *logrus.Entry
}

func (l *logger) Fields() Fields { return Fields(l.entry.Data) }

func (l *logger) WithFields(keyValues LogFields) Logger {
	return &logger{entry: l.entry.WithFields(logrus.Fields(keyValues.Fields()))}
}

func (l *logger) Debug(args ...interface{})                 { l.entry.Debug(args...) }
func (l *logger) Debugf(format string, args ...interface{}) { l.entry.Debugf(format, args...) }
func (l *logger) Info(args ...interface{})                  { l.entry.Info(args...) }
func (l *logger) Infof(format string, args ...interface{})  { l.entry.Infof(format, args...) }
func (l *logger) Warn(args ...interface{})                  { l.entry.Warn(args...) }
func (l *logger) Warnf(format string, args ...interface{})  { l.entry.Warnf(format, args...) }
func (l *logger) Error(args ...interface{})                 { l.entry.Error(args...) }
func (l *logger) Errorf(format string, args ...interface{}) { l.entry.Errorf(format, args...) }
func (l *logger) Fatal(args ...interface{})                 { l.entry.Fatal(args...) }
func (l *logger) Fatalf(format string, args ...interface{}) { l.entry.Fatalf(format, args...) }
func (l *logger) Panic(args ...interface{})                 { l.entry.Panic(args...) }
func (l *logger) Panicf(format string, args ...interface{}) { l.entry.Panicf(format, args...) }
