package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/iudanet/usersvc/internal/client/api"
	"github.com/iudanet/usersvc/internal/client/cli"
	"github.com/iudanet/usersvc/internal/client/iocli"
	"github.com/iudanet/usersvc/internal/client/storage/boltdb"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Глобальные флаги
	showVersion := flag.Bool("version", false, "Show version information")
	serverURL := flag.String("server", "http://localhost:8080", "Server URL")
	dbPath := flag.String("db", "usersvc-client.db", "Path to local session database")

	flag.Parse()

	// Show version and exit if requested
	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	stdio := iocli.NewStdio()
	apiClient := api.NewClient(*serverURL)

	// Получаем команду
	args := flag.Args()
	if len(args) == 0 {
		cli.New(apiClient, nil, stdio).PrintUsage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, apiClient, stdio, *dbPath, args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, cli.ErrUnknownCommand) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, apiClient *api.Client, stdio iocli.IO, dbPath string, args []string) error {
	// Открываем BoltDB storage
	boltStorage, err := boltdb.New(ctx, dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := boltStorage.Close(); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()

	return cli.New(apiClient, boltStorage, stdio).Run(ctx, args[0], args[1:])
}

func printVersion() {
	fmt.Printf("usersvc client\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
