package store

import (
	"context"
	"time"

	"taskhub/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SessionStore struct{ db *gorm.DB }

func (s *Store) Sessions() *SessionStore { return &SessionStore{db: s.DB} }

// Upsert keeps one SessionToken row per (user, device); a fresh login
// replaces the whole token pair for that device.
func (ss *SessionStore) Upsert(ctx context.Context, t *domain.SessionToken) error {
	now := time.Now().UTC()
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now

	return ss.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "device_uuid"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"access_token", "access_token_expiry",
			"refresh_token", "refresh_token_expiry", "updated_at",
		}),
	}).Create(t).Error
}

func (ss *SessionStore) GetByRefreshToken(ctx context.Context, refreshToken string, userID uuid.UUID) (*domain.SessionToken, error) {
	var t domain.SessionToken
	err := ss.db.WithContext(ctx).
		First(&t, "refresh_token = ? AND user_id = ?", refreshToken, userID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &t, nil
}

// ReplaceAccess rewrites the access fields in place, conditional on the row
// still carrying the presented refresh token. The refresh token and its
// expiry are never touched by this path.
func (ss *SessionStore) ReplaceAccess(ctx context.Context, id uuid.UUID, refreshToken, accessToken string, accessExpiry time.Time) (int64, error) {
	tx := ss.db.WithContext(ctx).Model(&domain.SessionToken{}).
		Where("id = ? AND refresh_token = ?", id, refreshToken).
		Updates(map[string]any{
			"access_token":        accessToken,
			"access_token_expiry": accessExpiry,
			"updated_at":          time.Now().UTC(),
		})
	return tx.RowsAffected, tx.Error
}

func (ss *SessionStore) DeleteByRefreshToken(ctx context.Context, refreshToken string) (int64, error) {
	tx := ss.db.WithContext(ctx).
		Where("refresh_token = ?", refreshToken).
		Delete(&domain.SessionToken{})
	return tx.RowsAffected, tx.Error
}

func (ss *SessionStore) DeleteAllForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	tx := ss.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&domain.SessionToken{})
	return tx.RowsAffected, tx.Error
}
