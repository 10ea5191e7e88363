// internal/platform/logx/logx.go
package logx

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

type Logger interface {
	Debug(msg string, kv ...any)
	Info(msg string, kv ...any)
	Warn(msg string, kv ...any)
	Err(err error, kv ...any)
	With(kv ...any) Logger
	SetLevel(lvl Level)
}

// Options configura el backend zerolog.
type Options struct {
	// Level umbral de la consola
	Level Level

	// Console destino de la consola (default: os.Stderr)
	Console io.Writer
	NoColor bool

	// FilePath activa un log rotado con lumberjack que siempre registra en debug
	FilePath       string
	FileMaxSizeMB  int
	FileMaxBackups int
}

type zeroLogger struct {
	zl  zerolog.Logger
	lvl *atomic.Int32 // compartido entre clones de With
}

// New crea un logger de consola con el nivel de RECONFLOW_LOG_LEVEL.
func New() Logger {
	return NewWithLevel(parseLevel(os.Getenv("RECONFLOW_LOG_LEVEL")))
}

// NewWithLevel creates a console logger with a specific log level
func NewWithLevel(lvl Level) Logger {
	l, _ := NewWithOptions(Options{Level: lvl})
	return l
}

// NewNop returns a logger that discards everything.
func NewNop() Logger {
	lvl := &atomic.Int32{}
	lvl.Store(int32(LevelError))
	return &zeroLogger{zl: zerolog.Nop(), lvl: lvl}
}

// NewWithOptions builds the logger and returns the closer of the run log file
// (a no-op closer when no file is configured).
func NewWithOptions(opts Options) (Logger, io.Closer) {
	if opts.Console == nil {
		opts.Console = os.Stderr
	}

	lvl := &atomic.Int32{}
	lvl.Store(int32(opts.Level))

	console := zerolog.ConsoleWriter{
		Out:        opts.Console,
		TimeFormat: "15:04:05",
		NoColor:    opts.NoColor,
	}
	writers := []io.Writer{gatedWriter{w: console, lvl: lvl}}

	var closer io.Closer = nopCloser{}
	if opts.FilePath != "" {
		rotating := &lumberjack.Logger{
			Filename:   opts.FilePath,
			MaxSize:    max(1, opts.FileMaxSizeMB),
			MaxBackups: opts.FileMaxBackups,
		}
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        rotating,
			TimeFormat: time.RFC3339,
			NoColor:    true,
		})
		closer = rotating
	}

	zl := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(zerolog.DebugLevel).
		With().
		Timestamp().
		Logger()

	return &zeroLogger{zl: zl, lvl: lvl}, closer
}

func (s *zeroLogger) With(kv ...any) Logger {
	ctx := s.zl.With()
	for i := 0; i < len(kv); i += 2 {
		key, val := pair(kv, i)
		ctx = ctx.Interface(key, val)
	}
	return &zeroLogger{zl: ctx.Logger(), lvl: s.lvl}
}

func (s *zeroLogger) SetLevel(lvl Level) {
	s.lvl.Store(int32(lvl))
}

func (s *zeroLogger) Debug(msg string, kv ...any) { s.log(s.zl.Debug(), msg, kv...) }
func (s *zeroLogger) Info(msg string, kv ...any)  { s.log(s.zl.Info(), msg, kv...) }
func (s *zeroLogger) Warn(msg string, kv ...any)  { s.log(s.zl.Warn(), msg, kv...) }
func (s *zeroLogger) Err(err error, kv ...any) {
	if err == nil {
		return
	}
	s.log(s.zl.Error().Err(err), "", kv...)
}

func (s *zeroLogger) log(ev *zerolog.Event, msg string, kv ...any) {
	for i := 0; i < len(kv); i += 2 {
		key, val := pair(kv, i)
		switch v := val.(type) {
		case string:
			ev = ev.Str(key, v)
		case error:
			ev = ev.AnErr(key, v)
		case time.Duration:
			ev = ev.Str(key, v.String())
		default:
			ev = ev.Interface(key, v)
		}
	}
	ev.Msg(msg)
}

func pair(kv []any, i int) (string, any) {
	key := fmt.Sprint(kv[i])
	if i+1 < len(kv) {
		return key, kv[i+1]
	}
	return key, "(missing)"
}

// gatedWriter filtra por el nivel de consola actual; el fichero no pasa por aquí.
type gatedWriter struct {
	w   io.Writer
	lvl *atomic.Int32
}

func (g gatedWriter) Write(p []byte) (int, error) {
	return g.w.Write(p)
}

func (g gatedWriter) WriteLevel(l zerolog.Level, p []byte) (int, error) {
	if l < toZerolog(Level(g.lvl.Load())) {
		return len(p), nil
	}
	return g.w.Write(p)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func toZerolog(l Level) zerolog.Level {
	switch l {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// ParseLevel convierte un nombre de nivel; valores desconocidos devuelven info.
func ParseLevel(s string) Level {
	return parseLevel(s)
}

func parseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug", "dbg":
		return LevelDebug
	case "info", "inf", "":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "err", "error":
		return LevelError
	default:
		return LevelInfo
	}
}
