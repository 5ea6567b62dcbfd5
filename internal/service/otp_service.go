package service

import (
	"context"
	"time"

	"taskhub/internal/domain"
)

type OtpService interface {
	// Generate returns a fixed-length numeric code; leading zeros allowed.
	Generate() (string, error)
	Store(ctx context.Context, userID domain.UserID, code string, purpose domain.OtpPurpose) error
	// ValidateAndConsume marks the latest live matching code used, exactly
	// once; anything else is domain.ErrInvalidOrExpiredOtp.
	ValidateAndConsume(ctx context.Context, userID domain.UserID, code string, purpose domain.OtpPurpose) (*domain.OneTimePasscode, error)
	CountRecent(ctx context.Context, userID domain.UserID, purpose domain.OtpPurpose, window time.Duration) (int64, error)
	// LatestLive returns the newest unused, unexpired code, or nil.
	LatestLive(ctx context.Context, userID domain.UserID, purpose domain.OtpPurpose) (*domain.OneTimePasscode, error)
}
