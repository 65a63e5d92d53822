package logger

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	maxSizeMB  = 10
	maxBackups = 5
	maxAgeDays = 30
)

// Options controls where and how verbosely a service logs.
type Options struct {
	FilePath    string
	ServiceName string
	Level       string
	NoConsole   bool
}

// NewLogger builds a zerolog logger writing to stdout and to a rotated file.
// An empty FilePath disables the file sink.
func NewLogger(opts Options) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(opts.Level)
	if err != nil || opts.Level == "" {
		level = zerolog.DebugLevel
	}

	var writers []io.Writer
	if !opts.NoConsole {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	}

	if opts.FilePath != "" {
		if err := os.MkdirAll(filepath.Dir(opts.FilePath), 0o755); err != nil {
			return zerolog.Nop(), err
		}
		writers = append(writers, &lumberjack.Logger{
			Filename:   opts.FilePath,
			MaxSize:    maxSizeMB,
			MaxBackups: maxBackups,
			MaxAge:     maxAgeDays,
			Compress:   true,
		})
	}

	if len(writers) == 0 {
		writers = append(writers, io.Discard)
	}

	l := zerolog.New(zerolog.MultiLevelWriter(writers...)).With().
		Timestamp().
		Caller().
		Str("service", opts.ServiceName).
		Logger().
		Hook(ContextHook{}).
		Level(level)

	l.Debug().
		Str("logsFilePath", opts.FilePath).
		Str("level", level.String()).
		Msg("logger initialized")

	return l, nil
}
