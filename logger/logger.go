package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// Configure builds the service logger. Unknown levels fall back to info and
// any format other than console writes JSON lines. A nil w means stdout.
func Configure(level, format string, w io.Writer) zerolog.Logger {

	l, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		l = zerolog.InfoLevel
	}

	if w == nil {
		w = os.Stdout
	}

	if strings.EqualFold(format, FormatConsole) {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: true}
	}

	return zerolog.New(w).
		Level(l).
		With().
		Timestamp().
		Logger()
}
