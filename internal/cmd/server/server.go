// Package server parses server command flags and launches the API runtime.
package server

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/quadroapp/quadro/internal/board"
	"github.com/quadroapp/quadro/internal/httpapi"
	"github.com/quadroapp/quadro/internal/invitation"
	"github.com/quadroapp/quadro/internal/notify"
	"github.com/quadroapp/quadro/internal/platform/config"
	"github.com/quadroapp/quadro/internal/storage/sqlite"
	"github.com/quadroapp/quadro/internal/tasklist"
	"github.com/quadroapp/quadro/internal/user"
)

// Config holds server command configuration.
type Config struct {
	Port            int           `env:"QUADRO_SERVER_PORT" envDefault:"8080"`
	DatabasePath    string        `env:"QUADRO_DB_PATH" envDefault:"quadro.db"`
	NotifyQueueSize int           `env:"QUADRO_NOTIFY_QUEUE_SIZE" envDefault:"64"`
	ShutdownTimeout time.Duration `env:"QUADRO_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	fs.IntVar(&cfg.Port, "port", cfg.Port, "The API server port")
	fs.StringVar(&cfg.DatabasePath, "db", cfg.DatabasePath, "The SQLite database path")
	fs.IntVar(&cfg.NotifyQueueSize, "notify-queue", cfg.NotifyQueueSize, "The invitation notice queue size")
	fs.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", cfg.ShutdownTimeout, "The graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the API runtime and blocks until ctx is cancelled or the
// listener fails.
func Run(ctx context.Context, cfg Config) error {
	logger := log.Default()

	limits, err := board.LoadLimitsFromEnv()
	if err != nil {
		return fmt.Errorf("load limits: %w", err)
	}
	verifier, err := httpapi.LoadTokenVerifierConfigFromEnv(nil)
	if err != nil {
		return fmt.Errorf("load token verifier: %w", err)
	}

	store, err := sqlite.Open(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Printf("close storage: %v", err)
		}
	}()

	dispatcher := notify.NewDispatcher(store, notify.NewLogMailer(logger), cfg.NotifyQueueSize, logger)
	dispatcher.Start()
	defer dispatcher.Close()

	boards := board.NewService(store, limits, nil, nil)
	invitations := invitation.NewService(store, store, store, limits, dispatcher, nil, nil)
	tasks := tasklist.NewService(store, store, nil, nil)
	users := user.NewService(store, nil)

	api := httpapi.NewServer(boards, invitations, tasks, users, verifier, logger)
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Printf("listening on %s", httpServer.Addr)
		serveErr <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-serveErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
