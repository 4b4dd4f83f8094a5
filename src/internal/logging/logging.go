package logging

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/dgimmler/apod-api/src/internal/config"
)

// New builds the logger for a handler. Lines go to stdout, where the Lambda
// runtime forwards them to CloudWatch.
func New(handler string, cfg config.Logging) *log.Logger {
	return NewWithWriter(handler, cfg, os.Stdout)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(handler string, cfg config.Logging, w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stdout
	}

	formatter := log.JSONFormatter
	if strings.EqualFold(cfg.LogFormat, "text") {
		formatter = log.TextFormatter
	}

	return log.NewWithOptions(w, log.Options{
		Level:           parseLevel(cfg.LogLevel),
		Formatter:       formatter,
		ReportTimestamp: true,
	}).With("handler", handler)
}

func parseLevel(raw string) log.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug", "trace":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}
