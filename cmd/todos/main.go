package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"todobooks/internal/logger"
	"todobooks/internal/server"
	"todobooks/repository/cache"
	"todobooks/repository/db"
	"todobooks/repository/inmemory"

	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog"
)

const (
	shutdownTimeout = 30 * time.Second
	redisTimeout    = 5 * time.Second
)

type service interface {
	Start() error
	Shutdown(ctx context.Context) error
}

func main() {
	cfg, err := server.ReadConfig("todos", os.Args[1:])
	if err != nil {
		l := logger.New("info", false)
		l.Fatal().Err(err).Msg("failed to read config")
	}
	log := logger.New(cfg.LogLevel, cfg.LogPretty)
	log.Info().Msg("todos service starting")

	repo, closeRepo := initRepository(cfg, log)

	api := server.NewTodoAPI(repo, cfg, log)
	if api == nil {
		closeRepo()
		log.Fatal().Msg("failed to create API server")
	}

	err = run(api, log)
	closeRepo()
	if err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
	log.Info().Msg("todos service stopped")
}

// initRepository prefers Postgres and falls back to memory when the database
// cannot be prepared. A configured Redis fronts whichever store is chosen.
func initRepository(cfg *server.Config, log zerolog.Logger) (server.TodoRepository, func()) {
	var repo server.TodoRepository
	closers := []func(){}

	if err := db.Migration(cfg.DBStr, cfg.MigratePath); err != nil {
		log.Warn().Err(err).Msg("migrations not applied, using in-memory store")
		repo = inmemory.NewTodoStore()
	} else if storage, err := db.NewStorage(cfg.DBStr, log); err != nil {
		log.Warn().Err(err).Msg("database unavailable, using in-memory store")
		repo = inmemory.NewTodoStore()
	} else {
		log.Info().Msg("schema ready")
		repo = storage
		closers = append(closers, storage.Close)
	}

	if cfg.RedisURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
		client, err := cache.NewClient(ctx, cfg.RedisURL)
		cancel()
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, todo list cache disabled")
		} else {
			repo = cache.NewTodos(repo, client, time.Duration(cfg.CacheTTL)*time.Second, log)
			closers = append(closers, func() { _ = client.Close() })
		}
	}

	return repo, func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
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
