package service

import (
	"context"
	"time"

	"taskhub/internal/domain"
	"taskhub/internal/dto"
)

type TodoService interface {
	Create(ctx context.Context, userID domain.UserID, r dto.TodoCreateRequest) (*domain.Todo, error)
	List(ctx context.Context, userID domain.UserID, day *time.Time) ([]*domain.Todo, error)
	Update(ctx context.Context, userID domain.UserID, todoID domain.TodoID, r dto.TodoUpdateRequest) (*domain.Todo, error)
	Delete(ctx context.Context, userID domain.UserID, todoID domain.TodoID) error
}
