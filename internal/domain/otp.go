package domain

import "time"

type OtpPurpose string

const (
	PurposePhoneVerification OtpPurpose = "phone_verification"
)

// OneTimePasscode rows are never deleted; consumed and expired codes stay
// behind as an audit trail. Validity is (is_used = false AND expires_at > now).
type OneTimePasscode struct {
	ID        PasscodeID `gorm:"type:uuid;primaryKey" db:"id"`
	UserID    UserID     `gorm:"type:uuid;index:ix_otps_user_purpose" db:"user_id"`
	Code      string     `gorm:"type:text;not null" db:"code"`
	Purpose   OtpPurpose `gorm:"type:text;not null;index:ix_otps_user_purpose" db:"purpose"`
	ExpiresAt time.Time  `gorm:"not null" db:"expires_at"`
	IsUsed    bool       `gorm:"not null;default:false" db:"is_used"`
	CreatedAt time.Time  `gorm:"not null" db:"created_at"`
}

func (OneTimePasscode) TableName() string { return "one_time_passcodes" }

func (o *OneTimePasscode) ValidAt(t time.Time) bool {
	return !o.IsUsed && o.ExpiresAt.After(t)
}
