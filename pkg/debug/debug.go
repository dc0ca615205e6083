package debug

import (
	"context"
	"fmt"
	"io"
	"reflect"
	"runtime"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// NewLoggerContext attaches a logger writing to w to ctx. Console output is used when pretty is set.
func NewLoggerContext(ctx context.Context, w io.Writer, level zerolog.Level, pretty bool) context.Context {
	out := w
	if pretty {
		out = zerolog.ConsoleWriter{Out: w, NoColor: color.NoColor, PartsExclude: []string{zerolog.TimestampFieldName}}
	}

	return zerolog.New(out).Level(level).
		Hook(CustomTimeHook{}).
		Hook(CustomCallerHook{WithColor: pretty && !color.NoColor}).
		WithContext(ctx)
}

func callerSkipFrameCount(e *zerolog.Event) int {
	v := reflect.ValueOf(e).Elem()
	field := v.FieldByName("skipFrame")
	if field.IsValid() {
		return int(field.Int())
	}
	return 0
}

type CustomTimeHook struct {
	Format string
}

func (t CustomTimeHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	format := t.Format
	if format == "" {
		// millisecond precision, no timezone
		format = "2006-01-02T15:04:05.0000Z"
	}
	e.Str("time", time.Now().Format(format))
}

type CustomCallerHook struct {
	WithColor bool
}

func (c CustomCallerHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	pc, file, line, ok := runtime.Caller(callerSkipFrameCount(e) + 3)
	if !ok {
		return
	}

	pkg, _ := SplitFuncName(runtime.FuncForPC(pc).Name())

	e.Str("caller", FormatCaller(pkg, file, line, c.WithColor))
}

// SplitFuncName splits a runtime function name like "a/b/pkg.(*T).Method" into package and function
func SplitFuncName(name string) (pkg, function string) {
	lastSlash := strings.LastIndexByte(name, '/')
	if lastSlash < 0 {
		lastSlash = 0
	}

	firstDot := strings.IndexByte(name[lastSlash:], '.')
	if firstDot < 0 {
		return name, ""
	}
	firstDot += lastSlash

	return name[:firstDot], name[firstDot+1:]
}

func FormatCaller(pkg, path string, line int, colorize bool) string {
	file := path
	if idx := strings.LastIndexByte(path, '/'); idx >= 0 {
		file = path[idx+1:]
	}

	if colorize {
		sep := color.New(color.Faint).Sprint(":")
		return fmt.Sprintf("%s%s%s%s%s", pkg, sep, color.New(color.Bold).Sprint(file), sep, color.New(color.FgHiRed, color.Bold).Sprintf("%d", line))
	}

	return fmt.Sprintf("%s:%s:%d", pkg, file, line)
}
