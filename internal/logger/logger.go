package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	slogmulti "github.com/samber/slog-multi"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

var levelVar = new(slog.LevelVar)

var L = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: levelVar}))

// SetLevel configures the global log level (debug, info, warn, error).
func SetLevel(lvl string) {
	switch strings.ToLower(lvl) {
	case "debug":
		levelVar.Set(slog.LevelDebug)
	case "warn":
		levelVar.Set(slog.LevelWarn)
	case "error":
		levelVar.Set(slog.LevelError)
	default:
		levelVar.Set(slog.LevelInfo)
	}
}

// Setup replaces L with a logger writing JSON to stdout and, when file is set,
// to a size-rotated log file. The returned func closes the file.
func Setup(out io.Writer, file string) (func() error, error) {
	if out == nil {
		out = os.Stdout
	}
	outHandler := slog.NewJSONHandler(out, &slog.HandlerOptions{Level: levelVar})
	if file == "" {
		L = slog.New(outHandler)
		return func() error { return nil }, nil
	}

	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return nil, err
	}
	rotator := &lumberjack.Logger{
		Filename:   file,
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	}
	fileHandler := slog.NewJSONHandler(rotator, &slog.HandlerOptions{Level: levelVar})
	L = slog.New(slogmulti.Fanout(outHandler, fileHandler))
	return rotator.Close, nil
}
