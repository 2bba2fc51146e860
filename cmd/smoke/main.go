package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/aube/internal/smoke"
)

// Default configuration constants.
const (
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 30 * time.Second
	defaultTestTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL  = flag.String("url", "http://localhost:9080", "Base URL of the service")
		pointers = flag.Int("pointers", smoke.DefaultPointers, "Pointer moves sent to each scene")
		chats    = flag.Int("chats", smoke.DefaultChats, "Chat questions sent, each replayed once")
		frames   = flag.Int("frames", smoke.DefaultFrames, "Frames pulled from each scene")
		workers  = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout  = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		logFile  = flag.String("log", "", "Also write logs to this file")
		verbose  = flag.Bool("verbose", false, "Enable verbose logging")
		help     = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		smoke.ShowHelp()
		return
	}

	if err := smoke.SetupLogging(*logFile, *verbose); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTestTimeout)
	defer cancel()

	cfg := &smoke.Config{
		BaseURL:  *baseURL,
		Pointers: *pointers,
		Chats:    *chats,
		Frames:   *frames,
		Workers:  max(*workers, 1),
		Timeout:  *timeout,
		Verbose:  *verbose,
	}

	if _, err := smoke.Run(ctx, cfg); err != nil {
		os.Stderr.WriteString("Smoke run failed: " + err.Error() + "\n")
		cancel()
		os.Exit(1) //nolint:gocritic // cancel called above
	}
}
