package domain

import "time"

// SessionToken is one login's token pair, at most one row per (user, device).
// A refresh rewrites only the access fields; the refresh token and its expiry
// are fixed for the life of the row.
type SessionToken struct {
	ID               SessionID `gorm:"type:uuid;primaryKey" db:"id"`
	UserID           UserID    `gorm:"type:uuid;uniqueIndex:ux_sessions_user_device" db:"user_id"`
	AccessToken      string    `gorm:"type:text;not null" db:"access_token"`
	AccessExpiresAt  time.Time `gorm:"column:access_token_expiry;not null" db:"access_token_expiry"`
	RefreshToken     string    `gorm:"type:text;uniqueIndex:ux_sessions_refresh" db:"refresh_token"`
	RefreshExpiresAt time.Time `gorm:"column:refresh_token_expiry;not null" db:"refresh_token_expiry"`
	DeviceUUID       *string   `gorm:"type:text;uniqueIndex:ux_sessions_user_device" db:"device_uuid"`
	CreatedAt        time.Time `gorm:"not null" db:"created_at"`
	UpdatedAt        time.Time `gorm:"not null" db:"updated_at"`
}

func (SessionToken) TableName() string { return "session_tokens" }
