package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/iudanet/habitsync/internal/client/api"
	"github.com/iudanet/habitsync/internal/client/cli"
	"github.com/iudanet/habitsync/internal/client/iocli"
	"github.com/iudanet/habitsync/internal/client/storage/boltdb"
	clientsync "github.com/iudanet/habitsync/internal/client/sync"
	"github.com/iudanet/habitsync/internal/config"
	"github.com/iudanet/habitsync/internal/logging"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "version" || os.Args[1] == "--version") {
		printVersion()
		os.Exit(0)
	}

	cfg, err := config.LoadClient()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := &cli.RootOptions{
		ServerURL:  cfg.ServerURL,
		DBPath:     cfg.DBPath,
		ClientName: cfg.ClientName,
		LogLevel:   cfg.LogLevel,
	}

	root := cli.NewRoot(opts, iocli.NewStdio(), openEngine(cfg))
	if err := root.Execute(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// openEngine собирает движок: bbolt хранилище, HTTP транспорт и проверку связи
func openEngine(cfg *config.ClientConfig) cli.Opener {
	return func(ctx context.Context, opts *cli.RootOptions) (cli.Engine, func(context.Context) error, error) {
		logger, err := logging.New(opts.LogLevel, "text", os.Stderr)
		if err != nil {
			return nil, nil, err
		}

		store, err := boltdb.New(ctx, opts.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open database: %w", err)
		}

		apiClient := api.NewClient(opts.ServerURL)
		apiClient.SetTimeout(cfg.Timeout)

		engine := clientsync.NewEngine(apiClient, api.NewProbe(apiClient, 0), store, logger, clientsync.Options{
			Notifier:   apiClient,
			ClientName: opts.ClientName,
		})
		if err := engine.Open(ctx); err != nil {
			_ = store.Close()
			return nil, nil, err
		}

		closeFn := func(ctx context.Context) error {
			return errors.Join(engine.Close(ctx), store.Close())
		}
		return engine, closeFn, nil
	}
}

func printVersion() {
	fmt.Printf("Habitsync Client\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
