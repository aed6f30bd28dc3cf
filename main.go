// main.go
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"moneymanager/backend/api"
	"moneymanager/backend/appcontext"
	"moneymanager/backend/config"
	"moneymanager/backend/ledger"
	"moneymanager/backend/storage"
)

func main() {
	// Create the logger instance at the very beginning.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	command := "serve"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	if err := run(logger, command); err != nil {
		logger.Error("Application terminated with an error", "error", fmt.Sprintf("%+v", err))
		os.Exit(1)
	}
}

func run(logger *slog.Logger, command string) error {
	ctx := appcontext.WithLogger(context.Background(), logger)

	cfg := config.LoadConfig(ctx, logger)

	connectCtx, cancel := context.WithTimeout(ctx, cfg.StartupTimeout)
	defer cancel()

	mongoClient, err := storage.ConnectToMongoDB(connectCtx, cfg.MongoURI)
	if err != nil {
		logger.Error("Failed to connect to MongoDB", "error", err)
		return fmt.Errorf("connection to MongoDB failed: %w", err)
	}

	client := storage.NewMongoClient(mongoClient)
	defer func() {
		if deferErr := client.Disconnect(ctx); deferErr != nil {
			logger.Error("Error disconnecting from MongoDB", "error", deferErr)
		}
	}()

	if err := storage.EnsureIndexes(connectCtx, client, cfg.DBName); err != nil {
		return fmt.Errorf("index setup failed: %w", err)
	}

	repo := storage.NewMongoRepository(storage.NewMongoProvider(client, cfg.DBName))
	svc := ledger.NewService(repo)

	switch command {
	case "serve":
		return serve(ctx, cfg, svc, logger)
	case "seed":
		return seed(ctx, svc, logger)
	default:
		return fmt.Errorf("unknown command: %s", command)
	}
}

func serve(ctx context.Context, cfg *config.Config, svc *ledger.Service, logger *slog.Logger) error {
	app := api.NewServer(svc, logger)

	errCh := make(chan error, 1)
	go func() {
		logger.InfoContext(ctx, "Server started", "port", cfg.HTTPPort)
		errCh <- app.Listen(":" + cfg.HTTPPort)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case sig := <-stop:
		logger.InfoContext(ctx, "Shutting down", "signal", sig.String())
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("http server shutdown failed: %w", err)
		}
		return nil
	}
}
