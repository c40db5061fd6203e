package server

import (
	"context"
	"math"
	"net/http"
	"time"

	"todobooks/internal/domain/models"
	"todobooks/internal/validation"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const readyTimeout = 2 * time.Second

type TodoRepository interface {
	GetTodos(ctx context.Context) ([]models.Todo, error)
	GetTodoByID(ctx context.Context, id int64) (*models.Todo, error)
	CreateTodo(ctx context.Context, todo *models.Todo) error
	Ping(ctx context.Context) error
}

// TodoAPI serves the todos table.
type TodoAPI struct {
	api
	repo TodoRepository
}

func NewTodoAPI(repo TodoRepository, cfg *Config, log zerolog.Logger) *TodoAPI {
	if repo == nil {
		return nil
	}
	t := &TodoAPI{
		api:  newAPI(cfg, "todos", log),
		repo: repo,
	}
	t.configRoutes()
	return t
}

func (t *TodoAPI) configRoutes() {
	router := t.newRouter()
	router.GET("/ready", t.ready)

	router.GET("/", t.getTodos)
	router.GET("/todo/:todo_id", t.getTodoByID)
	router.POST("/todo", t.createTodo)

	t.httpSrv.Handler = router
}

func (t *TodoAPI) getTodos(ctx *gin.Context) {
	todos, err := t.repo.GetTodos(ctx.Request.Context())
	if err != nil {
		t.respondError(ctx, err)
		return
	}
	if todos == nil {
		todos = []models.Todo{}
	}
	ctx.JSON(http.StatusOK, todos)
}

func (t *TodoAPI) getTodoByID(ctx *gin.Context) {
	id, err := validation.IntParam("todo_id", ctx.Param("todo_id"), 1, math.MaxInt)
	if err != nil {
		t.respondError(ctx, err)
		return
	}
	todo, err := t.repo.GetTodoByID(ctx.Request.Context(), int64(id))
	if err != nil {
		t.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, todo)
}

func (t *TodoAPI) createTodo(ctx *gin.Context) {
	var req models.TodoRequest
	if err := bindAndValidate(ctx, &req); err != nil {
		t.respondError(ctx, err)
		return
	}
	todo := req.Todo()
	if err := t.repo.CreateTodo(ctx.Request.Context(), &todo); err != nil {
		t.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, todo)
}

func (t *TodoAPI) ready(ctx *gin.Context) {
	c, cancel := context.WithTimeout(ctx.Request.Context(), readyTimeout)
	defer cancel()
	if err := t.repo.Ping(c); err != nil {
		t.log.Warn().Err(err).Msg("readiness check failed")
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "ready"})
}
