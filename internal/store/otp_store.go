package store

import (
	"context"
	"time"

	"taskhub/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OtpStore struct{ db *gorm.DB }

func (s *Store) Otps() *OtpStore { return &OtpStore{db: s.DB} }

func (o *OtpStore) Create(ctx context.Context, otp *domain.OneTimePasscode) error {
	if otp.ID == uuid.Nil {
		otp.ID = uuid.New()
	}
	return o.db.WithContext(ctx).Create(otp).Error
}

// LatestValid returns the most recently created passcode matching
// user+purpose+code that is still unused and unexpired. Multiple outstanding
// codes may coexist; latest created_at wins.
func (o *OtpStore) LatestValid(ctx context.Context, userID uuid.UUID, code string, purpose domain.OtpPurpose, now time.Time) (*domain.OneTimePasscode, error) {
	var otp domain.OneTimePasscode
	err := o.db.WithContext(ctx).
		Where("user_id = ? AND purpose = ? AND code = ? AND is_used = false AND expires_at > ?",
			userID, purpose, code, now).
		Order("created_at DESC").
		First(&otp).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &otp, nil
}

// Consume marks the passcode used, conditional on it still being live. The
// guard makes concurrent verifications of the same code race safely: exactly
// one caller sees a row flipped.
func (o *OtpStore) Consume(ctx context.Context, id uuid.UUID, now time.Time) (int64, error) {
	tx := o.db.WithContext(ctx).Model(&domain.OneTimePasscode{}).
		Where("id = ? AND is_used = false AND expires_at > ?", id, now).
		Update("is_used", true)
	return tx.RowsAffected, tx.Error
}

func (o *OtpStore) CountRecent(ctx context.Context, userID uuid.UUID, purpose domain.OtpPurpose, since time.Time) (int64, error) {
	var n int64
	err := o.db.WithContext(ctx).Model(&domain.OneTimePasscode{}).
		Where("user_id = ? AND purpose = ? AND created_at >= ?", userID, purpose, since).
		Count(&n).Error
	return n, err
}

// LatestLive returns the newest unused, unexpired passcode for user+purpose,
// or ErrRecordNotFound. Resend re-delivers this code instead of minting a new
// one so a code the user is already typing stays valid.
func (o *OtpStore) LatestLive(ctx context.Context, userID uuid.UUID, purpose domain.OtpPurpose, now time.Time) (*domain.OneTimePasscode, error) {
	var otp domain.OneTimePasscode
	err := o.db.WithContext(ctx).
		Where("user_id = ? AND purpose = ? AND is_used = false AND expires_at > ?", userID, purpose, now).
		Order("created_at DESC").
		First(&otp).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &otp, nil
}

// PurgeBefore removes passcodes created before the cutoff. Retention is an
// operational concern; nothing on the request path calls this.
func (o *OtpStore) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tx := o.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&domain.OneTimePasscode{})
	return tx.RowsAffected, tx.Error
}
