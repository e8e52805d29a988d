package logger

import (
	"io"
	"os"
	"time"

	"moviehub/pkg/config"

	zl "github.com/rs/zerolog"
)

// log is the package-level logger used by the helpers in actions.go. It starts as a
// plain stderr logger so packages can log before InitLogger runs (tests, tools).
var log = &logger{engine: newLogger(os.Stderr)}

type logger struct {
	engine *zl.Logger
}

type options struct {
	format string
	out    io.Writer
}

// InitLogger initializes the logger with configuration
func InitLogger(cfg *config.Config) {
	zl.SetGlobalLevel(getLogLevel(cfg.Log.Level))

	opts := options{
		format: cfg.Log.Format,
		out:    os.Stdout,
	}

	var engine zl.Logger
	switch opts.format {
	case ConsoleFormat:
		engine = newConsoleLogger(opts)
	default:
		setupCloudLoggingSeverity()
		engine = newGCPLogger(opts)
	}

	log = &logger{
		engine: &engine,
	}
}

// getLogLevel returns the log level based on the string input
func getLogLevel(level string) zl.Level {
	switch level {
	case DebugLevel:
		return zl.DebugLevel
	case InfoLevel:
		return zl.InfoLevel
	case WarnLevel:
		return zl.WarnLevel
	case ErrorLevel:
		return zl.ErrorLevel
	default:
		return zl.InfoLevel
	}
}

// setupCloudLoggingSeverity configures zerolog to use Cloud Logging severity levels
func setupCloudLoggingSeverity() {
	zl.LevelFieldMarshalFunc = func(l zl.Level) string {
		switch l {
		case zl.DebugLevel:
			return "DEBUG"
		case zl.InfoLevel:
			return "INFO"
		case zl.WarnLevel:
			return "WARNING"
		case zl.ErrorLevel:
			return "ERROR"
		case zl.FatalLevel, zl.PanicLevel:
			return "CRITICAL"
		default:
			return "DEFAULT"
		}
	}
}

// newGCPLogger creates a logger that outputs JSON with Cloud Logging field names
func newGCPLogger(opts options) zl.Logger {
	zl.TimeFieldFormat = zl.TimeFormatUnix
	zl.TimestampFieldName = "timestamp"
	zl.LevelFieldName = "severity"
	zl.MessageFieldName = "message"

	return zl.New(opts.out).With().
		Timestamp().
		Str("service", serviceName).
		Logger()
}

// newConsoleLogger creates a human readable logger for local development
func newConsoleLogger(opts options) zl.Logger {
	writer := zl.ConsoleWriter{
		Out:        opts.out,
		TimeFormat: time.Kitchen,
	}
	return zl.New(writer).With().Timestamp().Logger()
}

func newLogger(out io.Writer) *zl.Logger {
	l := zl.New(out).With().Timestamp().Logger()
	return &l
}
