package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"todobooks/internal/domain/models"
	"todobooks/internal/logger"
	"todobooks/internal/server"
	"todobooks/repository/inmemory"

	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog"
)

const shutdownTimeout = 30 * time.Second

type service interface {
	Start() error
	Shutdown(ctx context.Context) error
}

func main() {
	cfg, err := server.ReadConfig("books", os.Args[1:])
	if err != nil {
		l := logger.New("info", false)
		l.Fatal().Err(err).Msg("failed to read config")
	}
	log := logger.New(cfg.LogLevel, cfg.LogPretty)
	log.Info().Msg("books service starting")

	store := inmemory.NewBookStore(models.SeedBooks())
	api := server.NewBookAPI(store, cfg, log)
	if api == nil {
		log.Fatal().Msg("failed to create API server")
	}

	if err := run(api, log); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
	log.Info().Msg("books service stopped")
}

// run serves until SIGINT/SIGTERM and then shuts down gracefully.
func run(api service, log zerolog.Logger) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- api.Start()
	}()

	select {
	case sig := <-sigChan:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return api.Shutdown(ctx)
	case err := <-serverErr:
		return err
	}
}
