package main

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// newLogger creates a timestamped logger writing to w at the given level.
// Unknown levels fall back to info.
func newLogger(w io.Writer, level string) *log.Logger {
	lvl, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Level:           lvl,
		Prefix:          "pdfcheck",
	})
}
