package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

const consoleTimeFormat = "15:04:05"

// ZerologAdapter implements Logger over a zerolog.Logger.
type ZerologAdapter struct {
	zl zerolog.Logger
}

func NewZerolog(writer io.Writer, level LogLevel) *ZerologAdapter {
	zl := zerolog.New(writer).
		Level(level.zerologLevel()).
		With().
		Timestamp().
		Logger()
	return &ZerologAdapter{zl: zl}
}

// NewConsoleLogger writes colored output to stdout and plain lines to every
// extra writer, such as the output panel's Ring.
func NewConsoleLogger(level LogLevel, extra ...io.Writer) *ZerologAdapter {
	writers := make([]io.Writer, 0, len(extra)+1)
	writers = append(writers, zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: consoleTimeFormat})
	for _, w := range extra {
		writers = append(writers, zerolog.ConsoleWriter{Out: w, NoColor: true, TimeFormat: consoleTimeFormat})
	}
	return NewZerolog(zerolog.MultiLevelWriter(writers...), level)
}

func send(event *zerolog.Event, component, message string, fields map[string]interface{}) {
	if event == nil {
		return
	}
	event.Str("component", component).Fields(fields).Msg(message)
}

func (z *ZerologAdapter) Debug(component, message string, fields map[string]interface{}) {
	send(z.zl.Debug(), component, message, fields)
}

func (z *ZerologAdapter) Info(component, message string, fields map[string]interface{}) {
	send(z.zl.Info(), component, message, fields)
}

func (z *ZerologAdapter) Warning(component, message string, fields map[string]interface{}) {
	send(z.zl.Warn(), component, message, fields)
}

// Error logs err with the message "operation failed".
func (z *ZerologAdapter) Error(component string, err error, fields map[string]interface{}) {
	send(z.zl.Error().Err(err), component, "operation failed", fields)
}
