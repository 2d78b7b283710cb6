// Package logger provides modifications to charmbracelet/log's default logger to be used in various files/packages.
//
// Every logger writes to stderr: stdout belongs to the IPC protocol.
package logger

import (
	"os"
	"strings"

	"github.com/bastiangx/wordcheck/pkg/errs"
	"github.com/charmbracelet/log"
)

// New creates a new default charm log.
func New(prefix string) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          prefix,
		ReportCaller:    false,
		ReportTimestamp: log.GetLevel() <= log.DebugLevel,
		Formatter:       log.TextFormatter,
		Level:           log.GetLevel(),
	})
}

// NewWithConfig creates a new charm log with custom config
func NewWithConfig(prefix string, level log.Level, caller bool, showTimestamp bool, fmt log.Formatter) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          prefix,
		Level:           level,
		ReportCaller:    caller,
		ReportTimestamp: showTimestamp,
		Formatter:       fmt,
	})
}

// Setup points the package-level logger at stderr and sets its level.
// debug forces DebugLevel with timestamps; otherwise level is parsed ("" means warn).
func Setup(level string, debug bool) error {
	log.SetOutput(os.Stderr)
	if debug {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
		return nil
	}
	if strings.TrimSpace(level) == "" {
		level = "warn"
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return errs.NewConfigError("log.level", level, "must be one of debug, info, warn, error, fatal")
	}
	log.SetLevel(lvl)
	log.SetReportTimestamp(false)
	return nil
}
