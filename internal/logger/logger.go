// Package logger provides the process-wide zerolog logger.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

var (
	once   sync.Once
	logger zerolog.Logger
)

// Get returns the process logger, initializing it from the environment on
// first use. LOG_LEVEL sets the level (default info); ENV=production switches
// to JSON lines.
func Get() *zerolog.Logger {
	once.Do(func() {
		logger = fromEnv(os.Stderr)
	})
	return &logger
}

// SetLevel changes the level of the process logger.
func SetLevel(level string) error {
	parsed, err := ParseLevel(level)
	if err != nil {
		return err
	}
	l := Get().Level(parsed)
	logger = l
	return nil
}

// ParseLevel parses a level name case-insensitively. Empty means info.
func ParseLevel(level string) (zerolog.Level, error) {
	if level == "" {
		return zerolog.InfoLevel, nil
	}
	parsed, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q", level)
	}
	return parsed, nil
}

// New creates a logger writing to w. Console output is colored only when w
// is a terminal.
func New(w io.Writer, level zerolog.Level, jsonOutput bool) zerolog.Logger {
	if jsonOutput {
		return zerolog.New(w).Level(level).With().Timestamp().Logger()
	}

	noColor := true
	if f, ok := w.(*os.File); ok {
		noColor = !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd())
	}

	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "15:04:05.000",
		NoColor:    noColor,
	}
	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}

func fromEnv(w io.Writer) zerolog.Logger {
	level, err := ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v; defaulting to 'info'\n", err)
		level = zerolog.InfoLevel
	}

	env := strings.ToLower(os.Getenv("ENV"))
	return New(w, level, env == "production" || env == "prod")
}
