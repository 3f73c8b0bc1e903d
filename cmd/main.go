package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"

	httpapi "github.com/code-wave07/ChatMeAPI/infrastructure/http"
	"github.com/code-wave07/ChatMeAPI/moderation"
	"github.com/code-wave07/ChatMeAPI/observability"
	"github.com/code-wave07/ChatMeAPI/repositories"
	"github.com/code-wave07/ChatMeAPI/runtime"
	"github.com/code-wave07/ChatMeAPI/services"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the server lifecycle, and
// centralizes error reporting, so every defer (database close included)
// executes before the process exits.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Database (BadgerDB)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.INFO))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Fan-out runtime
	registry := runtime.NewRegistry()
	metrics := observability.NewMetrics(log)
	hub := runtime.NewHub(log, registry, metrics, config.BufferSize, config.SinkTimeout)

	// 4. Repositories & Services
	store := repositories.NewStore(db, log)
	users := repositories.NewUserRepository(db, log)

	moderator, err := moderation.NewModerator(config.CensoredWords, config.ModerationCharReplacement)
	if err != nil {
		return fmt.Errorf("moderation setup failed: %w", err)
	}

	authService := services.NewAuthService(users, config.TokenDuration, log)
	membershipService := services.NewMembershipService(store, users, hub, log)
	messageService := services.NewMessageService(store, users, hub, moderator, metrics, log)
	readReceiptService := services.NewReadReceiptService(store, hub, log)
	directoryService := services.NewDirectoryService(store, users, config.PageLimit, log)

	// 5. HTTP surface
	server := httpapi.NewServer(
		httpapi.NewAuthHandler(authService, log),
		httpapi.NewChatHandler(membershipService, messageService, readReceiptService, directoryService, log),
		httpapi.NewWSHandler(hub, metrics, log, config.ConnectionBufferSize),
		metrics, log,
	)

	// 6. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := hub.Run(ctx); err != nil {
			log.Error("event delivery stopped", "error", err)
		}
	}()

	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	httpServer := &http.Server{Addr: address, Handler: server.Router}

	// Use an error channel to capture ListenAndServe() issues
	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "address", address, "at", time.Now().UTC())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// 7. Wait for Stop or Error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		return err
	}

	// 8. Final Cleanup
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	log.Info("Program stopped cleanly")

	return nil
}
