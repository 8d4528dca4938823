package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

const timeFormat = "2006-01-02 15:04:05.000"

type CommonLogger struct {
	Info    zerolog.Logger
	Error   zerolog.Logger
	Trace   zerolog.Logger
	Warning zerolog.Logger
}

// AppLogger groups the rotating log channels. Storage receives remote object
// store activity, including swallowed attachment cleanup failures.
type AppLogger struct {
	Http    CommonLogger
	WS      CommonLogger
	Storage CommonLogger
}

func NewLogger(dir string) *AppLogger {
	_ = os.MkdirAll(dir, 0755)

	zerolog.TimeFieldFormat = timeFormat

	console := consoleConfWriter()

	return &AppLogger{
		Http:    newChannel(console, dir, "http"),
		WS:      newChannel(console, dir, "ws"),
		Storage: newChannel(console, dir, "storage"),
	}
}

// NewNopLogger discards everything.
func NewNopLogger() *AppLogger {
	nop := CommonLogger{Info: zerolog.Nop(), Error: zerolog.Nop(), Trace: zerolog.Nop(), Warning: zerolog.Nop()}
	return &AppLogger{Http: nop, WS: nop, Storage: nop}
}

// NewWriterLogger sends every channel to w without console formatting.
func NewWriterLogger(w io.Writer) *AppLogger {
	l := zerolog.New(zerolog.SyncWriter(w)).With().Timestamp().Logger()
	channel := CommonLogger{Info: l, Error: l, Trace: l, Warning: l}
	return &AppLogger{Http: channel, WS: channel, Storage: channel}
}

func newChannel(console zerolog.ConsoleWriter, dir, name string) CommonLogger {
	return CommonLogger{
		Info:    newMultiLogger(console, filepath.Join(dir, name+".info.log")),
		Error:   newMultiLogger(console, filepath.Join(dir, name+".error.log")),
		Trace:   newMultiLogger(console, filepath.Join(dir, name+".trace.log")),
		Warning: newMultiLogger(console, filepath.Join(dir, name+".warning.log")),
	}
}

func newMultiLogger(console zerolog.ConsoleWriter, path string) zerolog.Logger {
	multi := io.MultiWriter(console, fileConsoleWriter(path))

	return zerolog.New(multi).With().Timestamp().Logger()
}

func consoleConfWriter() zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:             os.Stdout,
		TimeFormat:      timeFormat,
		FormatTimestamp: bracketed,
		FormatLevel:     upperBracketed,
		FormatMessage: func(i interface{}) string {
			return fmt.Sprintf("%s", i)
		},
	}
}

func fileConsoleWriter(filename string) io.Writer {
	return zerolog.ConsoleWriter{
		Out: &lumberjack.Logger{
			Filename:   filename,
			MaxSize:    5,
			MaxAge:     20,
			MaxBackups: 5,
			Compress:   true,
		},
		NoColor:         true,
		TimeFormat:      timeFormat,
		FormatTimestamp: bracketed,
		FormatLevel:     upperBracketed,
		FormatMessage: func(i interface{}) string {
			return fmt.Sprintf("%s", i)
		},
		FormatFieldName: func(i interface{}) string {
			return fmt.Sprintf("%s=", i)
		},
		FormatFieldValue: func(i interface{}) string {
			return fmt.Sprintf("%v", i)
		},
	}
}

func bracketed(i interface{}) string {
	return fmt.Sprintf("[%s]", i)
}

func upperBracketed(i interface{}) string {
	s, _ := i.(string)
	return fmt.Sprintf("[%s]", strings.ToUpper(s))
}
