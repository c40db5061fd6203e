// Package cache puts a Redis read-through cache in front of a todo repository.
// Only the full list is cached; single-row reads go straight to the store.
// Every create bumps todos:version, and a fill is only written if the version
// it started from is still current.
package cache

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"todobooks/internal/domain/models"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

const (
	todosKey   = "todos:all"
	versionKey = "todos:version"

	loadTimeout = 15 * time.Second
)

// errStale aborts a cache fill when a create landed while the list was loading.
var errStale = stderrors.New("todo list changed during load")

type TodoRepository interface {
	GetTodos(ctx context.Context) ([]models.Todo, error)
	GetTodoByID(ctx context.Context, id int64) (*models.Todo, error)
	CreateTodo(ctx context.Context, todo *models.Todo) error
	Ping(ctx context.Context) error
}

type Todos struct {
	next   TodoRepository
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
	group  singleflight.Group
}

func NewTodos(next TodoRepository, client *redis.Client, ttl time.Duration, log zerolog.Logger) *Todos {
	return &Todos{
		next:   next,
		client: client,
		ttl:    ttl,
		log:    log.With().Str("component", "cache").Logger(),
	}
}

// NewClient parses a redis:// URL and checks the server answers.
func NewClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func (c *Todos) GetTodos(ctx context.Context) ([]models.Todo, error) {
	if todos, ok := c.get(ctx); ok {
		return todos, nil
	}
	// The shared load must outlive the caller that started it.
	v, err, _ := c.group.Do(todosKey, func() (any, error) {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()
		version, ok := c.version(ctx)
		todos, err := c.next.GetTodos(ctx)
		if err != nil {
			return nil, err
		}
		if ok {
			c.set(ctx, version, todos)
		}
		return todos, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.Todo), nil
}

func (c *Todos) GetTodoByID(ctx context.Context, id int64) (*models.Todo, error) {
	return c.next.GetTodoByID(ctx, id)
}

func (c *Todos) CreateTodo(ctx context.Context, todo *models.Todo) error {
	if err := c.next.CreateTodo(ctx, todo); err != nil {
		return err
	}
	c.Invalidate(context.WithoutCancel(ctx))
	return nil
}

// Ping reports the store's health. An unreachable Redis only degrades reads
// to the store, so it is logged rather than returned.
func (c *Todos) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		c.log.Warn().Err(err).Msg("redis ping failed")
	}
	return c.next.Ping(ctx)
}

// Invalidate bumps the list version and drops the cached list.
func (c *Todos) Invalidate(ctx context.Context) {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, versionKey)
		pipe.Del(ctx, todosKey)
		return nil
	})
	if err != nil {
		c.log.Warn().Err(err).Msg("failed to invalidate todos")
	}
}

func (c *Todos) version(ctx context.Context) (int64, bool) {
	v, err := c.client.Get(ctx, versionKey).Int64()
	if stderrors.Is(err, redis.Nil) {
		return 0, true
	}
	if err != nil {
		c.log.Warn().Err(err).Msg("failed to read todos version")
		return 0, false
	}
	return v, true
}

func (c *Todos) get(ctx context.Context) ([]models.Todo, bool) {
	b, err := c.client.Get(ctx, todosKey).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		c.log.Warn().Err(err).Msg("failed to read todos")
		return nil, false
	}
	var todos []models.Todo
	if err := json.Unmarshal(b, &todos); err != nil {
		c.log.Warn().Err(err).Msg("failed to decode cached todos")
		return nil, false
	}
	return todos, true
}

// set stores todos only if no create bumped the version since it was read.
func (c *Todos) set(ctx context.Context, version int64, todos []models.Todo) {
	b, err := json.Marshal(todos)
	if err != nil {
		c.log.Warn().Err(err).Msg("failed to encode todos")
		return
	}
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, versionKey).Int64()
		if err != nil && !stderrors.Is(err, redis.Nil) {
			return err
		}
		if current != version {
			return errStale
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, todosKey, b, c.ttl)
			return nil
		})
		return err
	}, versionKey)
	switch {
	case err == nil:
	case stderrors.Is(err, errStale), stderrors.Is(err, redis.TxFailedErr):
		c.log.Debug().Msg("todo list changed during load, not cached")
	default:
		c.log.Warn().Err(err).Msg("failed to store todos")
	}
}
