package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

type Fields map[string]interface{}

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

func init() {
	zerolog.TimeFieldFormat = "2006-01-02T15:04:05Z07:00"
	zerolog.MessageFieldName = "msg"
	zerolog.TimestampFieldName = "ts"
}

// SetOutput redirects log lines, e.g. to a buffer in tests.
func SetOutput(w io.Writer) {
	logger = logger.Output(w)
}

// SetLevel sets the minimum level by name ("debug", "info", "warn", "error").
// Unknown names leave the level unchanged.
func SetLevel(name string) {
	if lvl, err := zerolog.ParseLevel(name); err == nil && name != "" {
		zerolog.SetGlobalLevel(lvl)
	}
}

func emit(ev *zerolog.Event, msg string, fields Fields) {
	if fields != nil {
		ev = ev.Fields(map[string]interface{}(fields))
	}
	ev.Msg(msg)
}

// Debug logs a verbose diagnostic message.
func Debug(msg string, fields Fields) {
	emit(logger.Debug(), msg, fields)
}

// Info logs an informational message with optional fields.
func Info(msg string, fields Fields) {
	emit(logger.Info(), msg, fields)
}

// Warn logs a recoverable problem.
func Warn(msg string, fields Fields) {
	emit(logger.Warn(), msg, fields)
}

// Error logs an error message and includes the error text in the fields.
func Error(msg string, err error, fields Fields) {
	ev := logger.Error()
	if err != nil {
		ev = ev.Err(err)
	}
	emit(ev, msg, fields)
}

// Fatal logs a fatal error and exits the process.
func Fatal(msg string, err error, fields Fields) {
	ev := logger.WithLevel(zerolog.FatalLevel)
	if err != nil {
		ev = ev.Err(err)
	}
	emit(ev, msg, fields)
	os.Exit(1)
}
