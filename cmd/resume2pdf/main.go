package main

import (
	"log/slog"
	"os"
	"slices"

	"go.uber.org/automaxprocs/maxprocs"

	"github.com/alnah/go-resume2pdf/internal/logging"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	// GOMAXPROCS is reported only with -v; run parses the flags for real.
	level := slog.LevelError
	if slices.Contains(os.Args[1:], "-v") || slices.Contains(os.Args[1:], "--verbose") {
		level = slog.LevelDebug
	}
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	_, _ = maxprocs.Set(maxprocs.Logger(logging.Printf(logging.New(os.Stderr, level, logging.FormatText))))

	os.Exit(run(os.Args[1:], DefaultEnv(), newConverter))
}
