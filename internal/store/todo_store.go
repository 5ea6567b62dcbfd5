package store

import (
	"context"
	"time"

	"taskhub/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TodoStore struct{ db *gorm.DB }

func (s *Store) Todos() *TodoStore { return &TodoStore{db: s.DB} }

func (t *TodoStore) Create(ctx context.Context, todo *domain.Todo) error {
	if todo.ID == uuid.Nil {
		todo.ID = uuid.New()
	}
	return t.db.WithContext(ctx).Create(todo).Error
}

// ListByUser returns the caller's todos, newest first, optionally narrowed to
// a single UTC calendar day.
func (t *TodoStore) ListByUser(ctx context.Context, userID uuid.UUID, day *time.Time) ([]*domain.Todo, error) {
	q := t.db.WithContext(ctx).Where("user_id = ?", userID)
	if day != nil {
		start := day.UTC().Truncate(24 * time.Hour)
		q = q.Where("created_at >= ? AND created_at < ?", start, start.Add(24*time.Hour))
	}
	var todos []*domain.Todo
	if err := q.Order("created_at DESC").Find(&todos).Error; err != nil {
		return nil, err
	}
	return todos, nil
}

func (t *TodoStore) GetByID(ctx context.Context, id, userID uuid.UUID) (*domain.Todo, error) {
	var todo domain.Todo
	err := t.db.WithContext(ctx).
		First(&todo, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &todo, nil
}

// Update applies the given columns to the caller's row only; a zero
// RowsAffected means the todo does not exist or belongs to someone else.
func (t *TodoStore) Update(ctx context.Context, id, userID uuid.UUID, fields map[string]any) (int64, error) {
	fields["modified_at"] = time.Now().UTC()
	tx := t.db.WithContext(ctx).Model(&domain.Todo{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(fields)
	return tx.RowsAffected, tx.Error
}

func (t *TodoStore) Delete(ctx context.Context, id, userID uuid.UUID) (int64, error) {
	tx := t.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&domain.Todo{})
	return tx.RowsAffected, tx.Error
}
