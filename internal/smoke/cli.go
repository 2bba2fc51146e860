package smoke

import (
	"fmt"
	"io"
	"os"

	"github.com/okian/aube/pkg/logger"
)

const logFilePermission = 0600

// SetupLogging sends log output to stdout and, when logFile is set, to that
// file as well.
func SetupLogging(logFile string, verbose bool) error {
	var w io.Writer = os.Stdout
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
		if err != nil {
			return fmt.Errorf("failed to create log file: %w", err)
		}
		w = io.MultiWriter(os.Stdout, file)
	}
	if err := logger.InitWithOptions(logger.Options{Writer: w}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		return logger.SetLevelString("debug")
	}
	return nil
}

// ShowHelp prints usage information for the smoke tool.
func ShowHelp() {
	os.Stdout.WriteString(`AUBE Smoke Tool
===============

Exercises a running AUBE service: dashboard invariants, concurrent pointer
moves with backpressure, PNG frames and chat deduplication.

Usage:
  go run ./cmd/smoke [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -pointers int
        Pointer moves sent to each scene (default 500)
  -chats int
        Chat questions sent, each replayed once (default 20)
  -frames int
        Frames pulled from each scene (default 5)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -log string
        Also write logs to this file
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  go run ./cmd/smoke -pointers 5000 -workers 32
  go run ./cmd/smoke -url http://localhost:8080 -chats 100 -log smoke.log
`)
}
