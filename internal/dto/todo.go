package dto

import (
	"time"

	"taskhub/internal/domain"
)

type TodoCreateRequest struct {
	Task        string `json:"task" validate:"required,max=200"`
	Description string `json:"description" validate:"max=500"`
}

type TodoCreateResponse struct {
	Message string `json:"message"`
	TodoUID string `json:"todo_uid"`
}

type TodoUpdateRequest struct {
	Task        *string `json:"task,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
	Status      *string `json:"status,omitempty" validate:"omitempty,oneof='in progress' completed cancelled"`
}

type TodoResponse struct {
	UID         string `json:"uid"`
	Task        string `json:"task"`
	Description string `json:"description"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
	ModifiedAt  string `json:"modified_at"`
}

func TodoFromDomain(t *domain.Todo) TodoResponse {
	return TodoResponse{
		UID:         t.ID.String(),
		Task:        t.Task,
		Description: t.Description,
		Status:      string(t.Status),
		CreatedAt:   t.CreatedAt.UTC().Format(time.RFC3339),
		ModifiedAt:  t.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
