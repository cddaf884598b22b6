package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofrs/uuid"
	"github.com/qolzam/bookstore/books/services"
	platformconfig "github.com/qolzam/bookstore/internal/platform/config"
	"github.com/qolzam/bookstore/internal/pkg/log"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if runID, err := uuid.NewV4(); err == nil {
		ctx = log.WithRunID(ctx, runID.String())
	}

	cfg, err := platformconfig.LoadFromEnv()
	if err != nil {
		log.ErrorWithContext(ctx, "Failed to load platform config: %s", err.Error())
		stop()
		os.Exit(1)
	}

	code := run(ctx, cfg, services.Connect)
	stop()
	os.Exit(code)
}

// run executes the query sequence and returns the process exit code.
// A failure is reported as exactly one error line.
func run(ctx context.Context, cfg *platformconfig.Config, connect services.ConnectFunc) int {
	log.SetDebug(cfg.App.Debug)

	if err := services.Execute(ctx, cfg, connect); err != nil {
		log.ErrorWithContext(ctx, "Error running queries: %s", err.Error())
		return 1
	}
	return 0
}
