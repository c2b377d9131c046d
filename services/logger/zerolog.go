package logsvc

import (
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/edulearn/academy-go/core"
	"github.com/edulearn/academy-go/core/session"
)

// ZerologLogger is the default console logger.
type ZerologLogger struct {
	log     zerolog.Logger
	enabled bool
}

var _ core.Logger = (*ZerologLogger)(nil)

func NewZerologLogger(conf *core.Config, out io.Writer) *ZerologLogger {
	if out == nil {
		out = os.Stderr
	}
	level := zerolog.InfoLevel
	if conf.Debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(out).Level(level).With().
		Timestamp().
		Str("app", conf.AppName).
		Logger()
	return &ZerologLogger{log: logger, enabled: true}
}

func (l *ZerologLogger) Enable(enabled bool) { l.enabled = enabled }

func (l *ZerologLogger) emit(ev *zerolog.Event, msg string, args []interface{}) {
	if !l.enabled {
		return
	}
	for _, arg := range args {
		switch v := arg.(type) {
		case error:
			ev = ev.AnErr("error", v)
		case session.Session:
			ev = ev.Int("userId", v.UserID).Str("role", v.Role)
		case map[string]interface{}:
			ev = ev.Fields(v)
		default:
			ev = ev.Interface("detail", v)
		}
	}
	ev.Msg(msg)
}

func (l *ZerologLogger) Debug(msg string, args ...interface{}) { l.emit(l.log.Debug(), msg, args) }
func (l *ZerologLogger) Info(msg string, args ...interface{})  { l.emit(l.log.Info(), msg, args) }
func (l *ZerologLogger) Warn(msg string, args ...interface{})  { l.emit(l.log.Warn(), msg, args) }
func (l *ZerologLogger) Error(msg string, args ...interface{}) { l.emit(l.log.Error(), msg, args) }
func (l *ZerologLogger) Fatal(msg string, args ...interface{}) {
	l.emit(l.log.Fatal(), msg, args)
}
