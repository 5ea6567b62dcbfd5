package store

import (
	"context"

	"taskhub/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserStore struct{ db *gorm.DB }

func (s *Store) Users() *UserStore { return &UserStore{db: s.DB} }

func (u *UserStore) Create(ctx context.Context, usr *domain.User) error {
	if usr.ID == uuid.Nil {
		usr.ID = uuid.New()
	}
	if err := u.db.WithContext(ctx).Create(usr).Error; err != nil {
		if name, ok := UniqueConstraint(err); ok {
			switch name {
			case "ux_users_email":
				return domain.ErrDuplicateEmail
			case "ux_users_username":
				return domain.ErrDuplicateUsername
			case "ux_users_mobile":
				return domain.ErrDuplicateMobile
			}
		}
		return err
	}
	return nil
}

func (u *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	if err := u.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (u *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	if err := u.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (u *UserStore) EmailExists(ctx context.Context, email string) (bool, error) {
	return u.exists(ctx, "email = ?", email)
}

func (u *UserStore) UsernameExists(ctx context.Context, username string) (bool, error) {
	return u.exists(ctx, "username = ?", username)
}

func (u *UserStore) MobileExists(ctx context.Context, mobile string) (bool, error) {
	return u.exists(ctx, "mobile_number = ?", mobile)
}

func (u *UserStore) exists(ctx context.Context, cond string, arg any) (bool, error) {
	var n int64
	if err := u.db.WithContext(ctx).Model(&domain.User{}).Where(cond, arg).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// SetPhoneVerified flips the flag exactly once; a second call is a no-op at
// the row level and reports zero rows.
func (u *UserStore) SetPhoneVerified(ctx context.Context, userID uuid.UUID) (int64, error) {
	tx := u.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ? AND phone_verified = false", userID).
		Update("phone_verified", true)
	return tx.RowsAffected, tx.Error
}
