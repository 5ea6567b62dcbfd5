package impl

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"taskhub/internal/domain"
	"taskhub/internal/dto"
	"taskhub/internal/store"

	"github.com/google/uuid"
)

type todoStore interface {
	Create(ctx context.Context, todo *domain.Todo) error
	ListByUser(ctx context.Context, userID uuid.UUID, day *time.Time) ([]*domain.Todo, error)
	GetByID(ctx context.Context, id, userID uuid.UUID) (*domain.Todo, error)
	Update(ctx context.Context, id, userID uuid.UUID, fields map[string]any) (int64, error)
	Delete(ctx context.Context, id, userID uuid.UUID) (int64, error)
}

// TodoServiceImpl is plain ownership-filtered CRUD: every query carries the
// caller's user id, so another user's todo reads as not found.
type TodoServiceImpl struct {
	Todos todoStore
}

func NewTodoServiceImpl(st *store.Store) *TodoServiceImpl {
	return &TodoServiceImpl{Todos: st.Todos()}
}

func (t *TodoServiceImpl) Create(ctx context.Context, userID domain.UserID, r dto.TodoCreateRequest) (*domain.Todo, error) {
	now := time.Now().UTC()
	todo := &domain.Todo{
		ID:          uuid.New(),
		UserID:      userID,
		Task:        r.Task,
		Description: r.Description,
		Status:      domain.StatusInProgress,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := t.Todos.Create(ctx, todo); err != nil {
		return nil, err
	}
	slog.Info("todo created", "user_id", userID, "todo_id", todo.ID)
	return todo, nil
}

func (t *TodoServiceImpl) List(ctx context.Context, userID domain.UserID, day *time.Time) ([]*domain.Todo, error) {
	return t.Todos.ListByUser(ctx, userID, day)
}

func (t *TodoServiceImpl) Update(ctx context.Context, userID domain.UserID, todoID domain.TodoID, r dto.TodoUpdateRequest) (*domain.Todo, error) {
	fields := map[string]any{}
	if r.Task != nil {
		fields["task"] = *r.Task
	}
	if r.Description != nil {
		fields["description"] = *r.Description
	}
	if r.Status != nil {
		if !domain.TodoStatus(*r.Status).Valid() {
			return nil, ErrInvalidStatus
		}
		fields["status"] = *r.Status
	}
	if len(fields) == 0 {
		return nil, ErrNoUpdateFields
	}

	n, err := t.Todos.Update(ctx, todoID, userID, fields)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, domain.ErrTodoNotFound
	}
	todo, err := t.Todos.GetByID(ctx, todoID, userID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, domain.ErrTodoNotFound
		}
		return nil, err
	}
	return todo, nil
}

func (t *TodoServiceImpl) Delete(ctx context.Context, userID domain.UserID, todoID domain.TodoID) error {
	n, err := t.Todos.Delete(ctx, todoID, userID)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrTodoNotFound
	}
	slog.Info("todo deleted", "user_id", userID, "todo_id", todoID)
	return nil
}
