package db

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"todobooks/internal/domain/errors"
	"todobooks/internal/domain/models"

	pgxzero "github.com/jackc/pgx-zerolog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
)

const (
	connectTimeout = 15 * time.Second
	queryTimeout   = 15 * time.Second
)

// Storage serves the todos table. Every call holds one pooled connection for
// its duration and releases it before returning.
type Storage struct {
	pool            *pgxpool.Pool
	log             zerolog.Logger
	queryCreateTodo string
	queryGetTodo    string
	queryGetTodos   string
}

func NewStorage(connStr string, log zerolog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		log.Error().Err(err).Msg("failed to parse database connection string")
		return nil, fmt.Errorf("%w: %v", errors.ErrDatabaseConnection, err)
	}
	if log.GetLevel() <= zerolog.DebugLevel {
		cfg.ConnConfig.Tracer = &tracelog.TraceLog{
			Logger:   pgxzero.NewLogger(log.With().Str("component", "pgx").Logger()),
			LogLevel: tracelog.LogLevelDebug,
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Msg("failed to create database pool")
		return nil, fmt.Errorf("%w: %v", errors.ErrDatabaseConnection, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		log.Error().Err(err).Msg("failed to reach database")
		return nil, fmt.Errorf("%w: %v", errors.ErrDatabaseConnection, err)
	}

	s := &Storage{
		pool:            pool,
		log:             log,
		queryCreateTodo: `INSERT INTO todos (title, description, priority, complete) VALUES ($1, $2, $3, $4) RETURNING id`,
		queryGetTodo:    `SELECT id, title, description, priority, complete FROM todos WHERE id = $1`,
		queryGetTodos:   `SELECT id, title, description, priority, complete FROM todos ORDER BY id`,
	}
	log.Info().Msg("database connection established")
	return s, nil
}

func (s *Storage) Close() {
	s.pool.Close()
}

func (s *Storage) withConn(ctx context.Context, fn func(context.Context, *pgxpool.Conn) error) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to acquire database connection")
		return fmt.Errorf("%w: %v", errors.ErrDatabaseConnection, err)
	}
	defer conn.Release()
	return fn(ctx, conn)
}

func (s *Storage) GetTodos(ctx context.Context) ([]models.Todo, error) {
	todos := []models.Todo{}
	err := s.withConn(ctx, func(ctx context.Context, conn *pgxpool.Conn) error {
		rows, err := conn.Query(ctx, s.queryGetTodos)
		if err != nil {
			return fmt.Errorf("query todos: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			var t models.Todo
			if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Priority, &t.Complete); err != nil {
				return fmt.Errorf("scan todo: %w", err)
			}
			todos = append(todos, t)
		}
		return rows.Err()
	})
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list todos")
		return nil, err
	}
	s.log.Debug().Int("count", len(todos)).Msg("todos listed")
	return todos, nil
}

func (s *Storage) GetTodoByID(ctx context.Context, id int64) (*models.Todo, error) {
	todo := &models.Todo{}
	err := s.withConn(ctx, func(ctx context.Context, conn *pgxpool.Conn) error {
		row := conn.QueryRow(ctx, s.queryGetTodo, id)
		return row.Scan(&todo.ID, &todo.Title, &todo.Description, &todo.Priority, &todo.Complete)
	})
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			s.log.Debug().Int64("id", id).Msg("todo not found")
			return nil, errors.ErrTodoNotFound
		}
		s.log.Error().Err(err).Int64("id", id).Msg("failed to get todo")
		return nil, err
	}
	return todo, nil
}

// CreateTodo inserts the row inside a transaction and commits it; todo.ID is
// set from the generated key.
func (s *Storage) CreateTodo(ctx context.Context, todo *models.Todo) error {
	err := s.withConn(ctx, func(ctx context.Context, conn *pgxpool.Conn) error {
		tx, err := conn.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin: %w", err)
		}
		defer func() {
			_ = tx.Rollback(ctx)
		}()
		if err := tx.QueryRow(ctx, s.queryCreateTodo, todo.Title, todo.Description, todo.Priority, todo.Complete).Scan(&todo.ID); err != nil {
			return fmt.Errorf("insert todo: %w", err)
		}
		return tx.Commit(ctx)
	})
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create todo")
		return err
	}
	s.log.Info().Int64("id", todo.ID).Msg("todo created")
	return nil
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.withConn(ctx, func(ctx context.Context, conn *pgxpool.Conn) error {
		return conn.Ping(ctx)
	})
}
