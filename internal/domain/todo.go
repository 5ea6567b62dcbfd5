package domain

import "time"

type TodoStatus string

const (
	StatusInProgress TodoStatus = "in progress"
	StatusCompleted  TodoStatus = "completed"
	StatusCancelled  TodoStatus = "cancelled"
)

func (s TodoStatus) Valid() bool {
	switch s {
	case StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

type Todo struct {
	ID          TodoID     `gorm:"type:uuid;primaryKey" db:"id" json:"uid"`
	UserID      UserID     `gorm:"type:uuid;index:ix_todos_user" db:"user_id" json:"-"`
	Task        string     `gorm:"type:text;not null" db:"task" json:"task"`
	Description string     `gorm:"type:text" db:"description" json:"description"`
	Status      TodoStatus `gorm:"type:text;not null;default:'in progress'" db:"status" json:"status"`
	CreatedAt   time.Time  `gorm:"not null" db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `gorm:"column:modified_at;not null" db:"modified_at" json:"modifiedAt"`
}

func (Todo) TableName() string { return "todos" }
