package logger

import (
	"io"

	"github.com/ideamans/go-l10n"
	"github.com/rs/zerolog"
	"github.com/user/framereel/pkg/ports"
)

// ZerologLogger writes one JSON object per message. Messages are translated
// like the console logger; the untranslated key is kept in the "key" field so
// log processors can match on it regardless of language.
type ZerologLogger struct {
	log zerolog.Logger
}

// NewZerolog creates a JSON logger writing to w at the given level.
func NewZerolog(w io.Writer, level ports.LogLevel) *ZerologLogger {
	return &ZerologLogger{
		log: zerolog.New(w).Level(zerologLevel(level)).With().Timestamp().Logger(),
	}
}

func zerologLevel(level ports.LogLevel) zerolog.Level {
	switch level {
	case ports.LevelDebug:
		return zerolog.DebugLevel
	case ports.LevelWarn:
		return zerolog.WarnLevel
	case ports.LevelError:
		return zerolog.ErrorLevel
	case ports.LevelQuiet:
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

func (l *ZerologLogger) Debug(msg string, args ...interface{}) {
	l.emit(l.log.Debug(), msg, args...)
}

func (l *ZerologLogger) Info(msg string, args ...interface{}) {
	l.emit(l.log.Info(), msg, args...)
}

func (l *ZerologLogger) Warn(msg string, args ...interface{}) {
	l.emit(l.log.Warn(), msg, args...)
}

func (l *ZerologLogger) Error(msg string, args ...interface{}) {
	l.emit(l.log.Error(), msg, args...)
}

// WithComponent returns a logger that adds a "component" field.
func (l *ZerologLogger) WithComponent(component string) ports.Logger {
	return &ZerologLogger{
		log: l.log.With().Str("component", component).Logger(),
	}
}

func (l *ZerologLogger) emit(e *zerolog.Event, msg string, args ...interface{}) {
	if e == nil {
		return
	}
	e.Str("key", msg).Msg(l10n.F(msg, args...))
}

// Ensure ZerologLogger implements ports.Logger
var _ ports.Logger = (*ZerologLogger)(nil)
