package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/mdemidenko/homework-bot/config"
)

// New создает логгер приложения: текстовые строки или JSON в stdout
func New(cfg config.LoggingConfig) zerolog.Logger {
	return NewWithWriter(cfg, os.Stdout)
}

func NewWithWriter(cfg config.LoggingConfig, out io.Writer) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	var w io.Writer = out
	if strings.ToLower(cfg.Format) != "json" {
		w = zerolog.ConsoleWriter{
			Out:        out,
			NoColor:    true,
			TimeFormat: "2006-01-02 15:04:05",
		}
	}

	return zerolog.New(w).
		Level(ParseLevel(cfg.Level)).
		With().
		Timestamp().
		Logger()
}

// ParseLevel переводит строковый уровень в zerolog.Level.
// critical соответствует fatal.
func ParseLevel(lvl string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(lvl)) {
	case "debug":
		return zerolog.DebugLevel
	case "info", "":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal", "critical":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

// Critical пишет запись уровня fatal без вызова os.Exit
func Critical(l zerolog.Logger) *zerolog.Event {
	return l.WithLevel(zerolog.FatalLevel)
}
