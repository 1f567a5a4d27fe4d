package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/xgmap/internal/sampletool"
)

const defaultRunTimeout = 10 * time.Minute

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg, err := sampletool.ParseFlags(args, os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			sampletool.ShowHelp(os.Stdout)
			return 0
		}
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		return 2
	}
	if cfg.Help {
		sampletool.ShowHelp(os.Stdout)
		return 0
	}

	if err := sampletool.SetupLogging(os.Stderr, cfg.Verbose); err != nil {
		_, _ = os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, defaultRunTimeout)
	defer cancel()

	if err := sampletool.Run(ctx, cfg, os.Stdout); err != nil {
		_, _ = os.Stderr.WriteString("Sample generation failed: " + err.Error() + "\n")
		return 1
	}
	return 0
}
