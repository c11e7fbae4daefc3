package main

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// setupLog configures logging. With STORYTIME_LOGFILE set, debug logs
// go to that file; otherwise logging is discarded so it never bleeds
// into the TUI.
func setupLog() (func() error, error) {
	if path := os.Getenv("STORYTIME_LOGFILE"); path != "" {
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644) //nolint:gosec
		if err != nil {
			return nil, err
		}
		log.SetOutput(f)
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
		log.SetTimeFormat(time.Kitchen)
		return f.Close, nil
	}
	log.SetOutput(io.Discard)
	return func() error { return nil }, nil
}
