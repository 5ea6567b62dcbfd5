package impl

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"time"

	"taskhub/internal/domain"
	"taskhub/internal/store"

	"github.com/google/uuid"
)

// otpStore is the slice of the store layer the OTP engine needs; tests plug
// in an in-memory implementation.
type otpStore interface {
	Create(ctx context.Context, otp *domain.OneTimePasscode) error
	LatestValid(ctx context.Context, userID uuid.UUID, code string, purpose domain.OtpPurpose, now time.Time) (*domain.OneTimePasscode, error)
	Consume(ctx context.Context, id uuid.UUID, now time.Time) (int64, error)
	CountRecent(ctx context.Context, userID uuid.UUID, purpose domain.OtpPurpose, since time.Time) (int64, error)
	LatestLive(ctx context.Context, userID uuid.UUID, purpose domain.OtpPurpose, now time.Time) (*domain.OneTimePasscode, error)
}

type OtpServiceImpl struct {
	store  otpStore
	ttl    time.Duration
	length int
}

func NewOtpService(st *store.Store, ttl time.Duration, length int) *OtpServiceImpl {
	return &OtpServiceImpl{store: st.Otps(), ttl: ttl, length: length}
}

var ten = big.NewInt(10)

// Generate draws each digit uniformly from crypto/rand; leading zeros are
// as likely as any other digit.
func (o *OtpServiceImpl) Generate() (string, error) {
	if o.length <= 0 {
		return "", ErrBadOtpLength
	}
	code := make([]byte, o.length)
	for i := range code {
		d, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", err
		}
		code[i] = '0' + byte(d.Int64())
	}
	return string(code), nil
}

func (o *OtpServiceImpl) Store(ctx context.Context, userID domain.UserID, code string, purpose domain.OtpPurpose) error {
	now := time.Now().UTC()
	return o.store.Create(ctx, &domain.OneTimePasscode{
		ID:        uuid.New(),
		UserID:    userID,
		Code:      code,
		Purpose:   purpose,
		ExpiresAt: now.Add(o.ttl),
		IsUsed:    false,
		CreatedAt: now,
	})
}

// ValidateAndConsume resolves the newest live code matching user+purpose+code
// and flips it to used. The flip is a conditional update keyed on the row
// still being live, so two concurrent calls on the same code cannot both win.
func (o *OtpServiceImpl) ValidateAndConsume(ctx context.Context, userID domain.UserID, code string, purpose domain.OtpPurpose) (*domain.OneTimePasscode, error) {
	now := time.Now().UTC()
	otp, err := o.store.LatestValid(ctx, userID, code, purpose, now)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, domain.ErrInvalidOrExpiredOtp
		}
		return nil, err
	}
	n, err := o.store.Consume(ctx, otp.ID, now)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		// Lost the race to a concurrent verification.
		return nil, domain.ErrInvalidOrExpiredOtp
	}
	otp.IsUsed = true
	return otp, nil
}

func (o *OtpServiceImpl) CountRecent(ctx context.Context, userID domain.UserID, purpose domain.OtpPurpose, window time.Duration) (int64, error) {
	return o.store.CountRecent(ctx, userID, purpose, time.Now().UTC().Add(-window))
}

func (o *OtpServiceImpl) LatestLive(ctx context.Context, userID domain.UserID, purpose domain.OtpPurpose) (*domain.OneTimePasscode, error) {
	otp, err := o.store.LatestLive(ctx, userID, purpose, time.Now().UTC())
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return otp, nil
}
