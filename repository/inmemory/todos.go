package inmemory

import (
	"context"
	"sync"

	"todobooks/internal/domain/errors"
	"todobooks/internal/domain/models"
)

// TodoStore stands in for the todos table when no database is reachable.
type TodoStore struct {
	mu     sync.RWMutex
	todos  []models.Todo
	nextID int64
}

func NewTodoStore() *TodoStore {
	return &TodoStore{nextID: 1}
}

func (s *TodoStore) GetTodos(ctx context.Context) ([]models.Todo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Todo, len(s.todos))
	copy(out, s.todos)
	return out, nil
}

func (s *TodoStore) GetTodoByID(ctx context.Context, id int64) (*models.Todo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.todos {
		if t.ID == id {
			return &t, nil
		}
	}
	return nil, errors.ErrTodoNotFound
}

func (s *TodoStore) CreateTodo(ctx context.Context, todo *models.Todo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	todo.ID = s.nextID
	s.nextID++
	s.todos = append(s.todos, *todo)
	return nil
}

func (s *TodoStore) Ping(ctx context.Context) error {
	return nil
}
