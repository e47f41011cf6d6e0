// Package classlog is a small structured logger in the shape saferwall-pe's
// own log subpackage exposes at its call sites (file.go: log.Logger,
// log.NewStdLogger, log.NewHelper, log.NewFilter, log.FilterLevel,
// log.LevelError, *log.Helper stored on the parser). That subpackage's
// source wasn't part of this retrieval, so the interface is reproduced here
// rather than imported sight-unseen.
package classlog

import (
	"fmt"
	"io"
	"log"
	"os"
)

// Level is a logging severity, ordered least to most severe.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger is the sink every log line is written through. Implementations may
// filter, fan out, or drop lines; callers should always go through a Helper
// rather than calling Log directly.
type Logger interface {
	Log(level Level, keyvals ...interface{}) error
}

// stdLogger writes every line to an underlying *log.Logger, unfiltered.
type stdLogger struct {
	std *log.Logger
}

// NewStdLogger returns a Logger that writes to w using the standard library
// logger, one line per call.
func NewStdLogger(w io.Writer) Logger {
	return &stdLogger{std: log.New(w, "", log.LstdFlags)}
}

func (l *stdLogger) Log(level Level, keyvals ...interface{}) error {
	msg := formatKeyvals(keyvals)
	l.std.Printf("%s %s", level, msg)
	return nil
}

func formatKeyvals(keyvals []interface{}) string {
	if len(keyvals) == 0 {
		return ""
	}
	out := ""
	for i := 0; i+1 < len(keyvals); i += 2 {
		if i > 0 {
			out += " "
		}
		out += fmt.Sprintf("%v=%v", keyvals[i], keyvals[i+1])
	}
	return out
}

// filter wraps a Logger and drops any line below its configured level.
type filter struct {
	next  Logger
	level Level
}

// FilterOption configures a filter built with NewFilter.
type FilterOption func(*filter)

// FilterLevel sets the minimum level a line must reach to pass the filter.
func FilterLevel(level Level) FilterOption {
	return func(f *filter) { f.level = level }
}

// NewFilter wraps next with a minimum-severity filter.
func NewFilter(next Logger, opts ...FilterOption) Logger {
	f := &filter{next: next, level: LevelDebug}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *filter) Log(level Level, keyvals ...interface{}) error {
	if level < f.level {
		return nil
	}
	return f.next.Log(level, keyvals...)
}

// Helper provides the per-level convenience methods callers actually use;
// it is the type classfile.ClassReader/ClassWriter store (as a nil-safe
// optional field, matching saferwall-pe's Options.Logger default handling).
type Helper struct {
	logger Logger
}

// NewHelper wraps a Logger in the convenience API.
func NewHelper(logger Logger) *Helper {
	return &Helper{logger: logger}
}

// NewNopHelper returns a Helper that discards everything; used as the
// default when no logger is configured, so call sites never need a nil
// check.
func NewNopHelper() *Helper {
	return &Helper{logger: nil}
}

func (h *Helper) log(level Level, keyvals ...interface{}) {
	if h == nil || h.logger == nil {
		return
	}
	_ = h.logger.Log(level, keyvals...)
}

func (h *Helper) Debugw(keyvals ...interface{}) { h.log(LevelDebug, keyvals...) }
func (h *Helper) Infow(keyvals ...interface{})  { h.log(LevelInfo, keyvals...) }
func (h *Helper) Warnw(keyvals ...interface{})  { h.log(LevelWarn, keyvals...) }
func (h *Helper) Errorw(keyvals ...interface{}) { h.log(LevelError, keyvals...) }

// Default is a ready-to-use helper writing to stderr at Warn and above,
// used by components that were not handed an explicit Helper.
func Default() *Helper {
	return NewHelper(NewFilter(NewStdLogger(os.Stderr), FilterLevel(LevelWarn)))
}
