package impl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"taskhub/internal/domain"
	"taskhub/internal/dto"
	"taskhub/internal/observability/metrics"
	"taskhub/internal/service"
	"taskhub/internal/store"

	"github.com/google/uuid"
)

type AuthConfig struct {
	OtpResendWindow      time.Duration // trailing window for the resend limit
	OtpResendMax         int64         // max codes created inside the window
	EnforceUniqueMobile  bool
	RequireVerifiedLogin bool
}

type AuthServiceImpl struct {
	Cfg       AuthConfig
	Store     dataStore
	Passwords service.PasswordService
	Otps      service.OtpService
	Tokens    service.TokenService
	Sms       service.SmsGateway
	Phones    service.PhoneValidator
}

func NewAuthServiceImpl(
	cfg AuthConfig,
	st *store.Store,
	passwords service.PasswordService,
	otps service.OtpService,
	tokens service.TokenService,
	sms service.SmsGateway,
	phones service.PhoneValidator,
) *AuthServiceImpl {
	return &AuthServiceImpl{
		Cfg:       cfg,
		Store:     gormStoreAdapter{store: st},
		Passwords: passwords,
		Otps:      otps,
		Tokens:    tokens,
		Sms:       sms,
		Phones:    phones,
	}
}

// Narrow consumer-side interfaces over the store so tests can run on
// in-memory maps.

type dataStore interface {
	WithTx(ctx context.Context, fn func(tx storeTx) error) error
}

type storeTx interface {
	Users() userStore
}

type userStore interface {
	Create(ctx context.Context, usr *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	MobileExists(ctx context.Context, mobile string) (bool, error)
	SetPhoneVerified(ctx context.Context, userID uuid.UUID) (int64, error)
}

type gormStoreAdapter struct {
	store *store.Store
}

func (g gormStoreAdapter) WithTx(ctx context.Context, fn func(tx storeTx) error) error {
	if g.store == nil {
		return errors.New("nil store")
	}
	return g.store.WithTx(ctx, func(tx *store.Store) error {
		return fn(gormTxAdapter{tx: tx})
	})
}

type gormTxAdapter struct {
	tx *store.Store
}

func (g gormTxAdapter) Users() userStore { return g.tx.Users() }

// Register creates an unverified user and kicks off phone verification.
// Duplicate checks run email, username, mobile, first failure wins; the DB
// unique indexes remain the authoritative guard under concurrent inserts.
// A persisted user whose code could not be delivered is reported as
// ErrOtpDeliveryFailed; the row stays and resend recovers it.
func (a *AuthServiceImpl) Register(ctx context.Context, r dto.RegisterRequest) (*dto.RegisterResponse, error) {
	result := "success"
	defer func() {
		metrics.RegistrationsTotal.WithLabelValues(result).Inc()
	}()

	var user *domain.User

	err := a.Store.WithTx(ctx, func(tx storeTx) error {
		if taken, err := tx.Users().EmailExists(ctx, r.Email); err != nil {
			return err
		} else if taken {
			return domain.ErrDuplicateEmail
		}
		if taken, err := tx.Users().UsernameExists(ctx, r.Username); err != nil {
			return err
		} else if taken {
			return domain.ErrDuplicateUsername
		}
		if a.Cfg.EnforceUniqueMobile {
			if taken, err := tx.Users().MobileExists(ctx, r.MobileNumber); err != nil {
				return err
			} else if taken {
				return domain.ErrDuplicateMobile
			}
		}

		mobile, err := a.Phones.Validate(r.MobileNumber)
		if err != nil {
			return domain.ErrInvalidPhone
		}

		hash, err := a.Passwords.Hash(r.Password)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		user = &domain.User{
			ID:            uuid.New(),
			Username:      r.Username,
			FirstName:     r.FirstName,
			LastName:      r.LastName,
			Email:         r.Email,
			MobileNumber:  mobile,
			PasswordHash:  hash,
			PhoneVerified: false,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		return tx.Users().Create(ctx, user)
	})
	if err != nil {
		result = "failure"
		return nil, err
	}

	slog.Info("user registered", "user_id", user.ID, "username", user.Username)

	// Verification starts after the commit; the user row must survive a
	// delivery failure so resend can recover.
	if err := a.issueAndDeliverOtp(ctx, user, "register"); err != nil {
		result = "failure"
		return nil, err
	}

	return &dto.RegisterResponse{
		Message: "User registered, verification code sent",
		UID:     user.ID.String(),
	}, nil
}

// VerifyOtp consumes the presented code and flips phone_verified. The welcome
// SMS is best effort; its failure is logged, never surfaced.
func (a *AuthServiceImpl) VerifyOtp(ctx context.Context, r dto.VerifyOtpRequest) (*dto.VerifyOtpResponse, error) {
	result := "success"
	defer func() {
		metrics.OtpVerificationsTotal.WithLabelValues(result).Inc()
	}()

	userID, err := uuid.Parse(r.UserUID)
	if err != nil {
		result = "failure"
		return nil, domain.ErrUserNotFound
	}

	if _, err := a.Otps.ValidateAndConsume(ctx, userID, r.OtpCode, domain.PurposePhoneVerification); err != nil {
		result = "failure"
		return nil, err
	}

	var user *domain.User
	err = a.Store.WithTx(ctx, func(tx storeTx) error {
		n, err := tx.Users().SetPhoneVerified(ctx, userID)
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrVerificationFailed, err)
		}
		if n == 0 {
			return domain.ErrVerificationFailed
		}
		user, err = tx.Users().GetByID(ctx, userID)
		return err
	})
	if err != nil {
		result = "failure"
		return nil, err
	}

	slog.Info("phone verified", "user_id", user.ID)

	if _, err := a.Sms.Send(ctx, user.MobileNumber, fmt.Sprintf("Welcome %s! Your phone number is verified.", user.FirstName)); err != nil {
		slog.Warn("welcome sms failed", "user_id", user.ID, "error", err)
	}

	resp := &dto.VerifyOtpResponse{Message: "Phone number verified", User: dto.UserFromDomain(user)}
	return resp, nil
}

// ResendOtp re-delivers a still-live code when one exists so a code the user
// may already be typing stays valid; otherwise it mints a fresh one. Requests
// beyond the trailing-window budget are rejected.
func (a *AuthServiceImpl) ResendOtp(ctx context.Context, r dto.ResendOtpRequest) (*dto.ResendOtpResponse, error) {
	userID, err := uuid.Parse(r.UserUID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	var user *domain.User
	err = a.Store.WithTx(ctx, func(tx storeTx) error {
		user, err = tx.Users().GetByID(ctx, userID)
		return err
	})
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	if user.PhoneVerified {
		return nil, domain.ErrAlreadyVerified
	}

	n, err := a.Otps.CountRecent(ctx, userID, domain.PurposePhoneVerification, a.Cfg.OtpResendWindow)
	if err != nil {
		return nil, err
	}
	if n >= a.Cfg.OtpResendMax {
		slog.Warn("otp resend rate limited", "user_id", userID, "recent", n)
		return nil, domain.ErrTooManyOtpRequests
	}

	// Re-deliver a still-live code rather than minting a new one, so a code
	// the user is already typing stays valid. Every resend stores a row, which
	// is what the trailing-window count above is counting.
	live, err := a.Otps.LatestLive(ctx, userID, domain.PurposePhoneVerification)
	if err != nil {
		return nil, err
	}
	var code string
	if live != nil {
		code = live.Code
	} else if code, err = a.Otps.Generate(); err != nil {
		return nil, err
	}
	if err := a.Otps.Store(ctx, userID, code, domain.PurposePhoneVerification); err != nil {
		return nil, err
	}
	if err := a.deliverOtp(ctx, user, code, "resend"); err != nil {
		return nil, err
	}

	return &dto.ResendOtpResponse{Message: "Verification code sent"}, nil
}

// Login verifies credentials and hands out a token pair bound to the calling
// device. Unknown email and wrong password produce the same error.
func (a *AuthServiceImpl) Login(ctx context.Context, r dto.LoginRequest, deviceUUID string) (*dto.LoginResponse, error) {
	result := "success"
	defer func() {
		metrics.LoginsTotal.WithLabelValues(result).Inc()
	}()

	var user *domain.User
	err := a.Store.WithTx(ctx, func(tx storeTx) error {
		var err error
		user, err = tx.Users().GetByEmail(ctx, r.Email)
		return err
	})
	if err != nil {
		result = "failure"
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !a.Passwords.Verify(r.Password, user.PasswordHash) {
		result = "failure"
		return nil, domain.ErrInvalidCredentials
	}

	// Off by default; every revision of this product allowed unverified
	// logins (see DESIGN.md).
	if a.Cfg.RequireVerifiedLogin && !user.PhoneVerified {
		result = "failure"
		return nil, domain.ErrPhoneNotVerified
	}

	access, accessExpiry, err := a.Tokens.MintAccess(user.ID)
	if err != nil {
		result = "failure"
		return nil, err
	}
	refresh, refreshExpiry, err := a.Tokens.MintRefresh(user.ID)
	if err != nil {
		result = "failure"
		return nil, err
	}

	var device *string
	if deviceUUID != "" {
		device = &deviceUUID
	}
	if err := a.Tokens.PersistSession(ctx, user.ID, access, accessExpiry, refresh, refreshExpiry, device); err != nil {
		result = "failure"
		return nil, err
	}

	slog.Info("login succeeded", "user_id", user.ID)

	return &dto.LoginResponse{
		Message:      fmt.Sprintf("Welcome %s", user.FirstName),
		UID:          user.ID.String(),
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

func (a *AuthServiceImpl) Refresh(ctx context.Context, refreshToken, deviceUUID string) (*dto.RefreshResponse, error) {
	access, err := a.Tokens.RotateAccess(ctx, refreshToken, deviceUUID)
	if err != nil {
		return nil, err
	}
	return &dto.RefreshResponse{AccessToken: access}, nil
}

func (a *AuthServiceImpl) issueAndDeliverOtp(ctx context.Context, user *domain.User, kind string) error {
	code, err := a.Otps.Generate()
	if err != nil {
		return err
	}
	if err := a.Otps.Store(ctx, user.ID, code, domain.PurposePhoneVerification); err != nil {
		return err
	}
	return a.deliverOtp(ctx, user, code, kind)
}

func (a *AuthServiceImpl) deliverOtp(ctx context.Context, user *domain.User, code, kind string) error {
	body := fmt.Sprintf("Your verification code is %s", code)
	if _, err := a.Sms.Send(ctx, user.MobileNumber, body); err != nil {
		metrics.OtpSentTotal.WithLabelValues(kind, "failure").Inc()
		slog.Error("otp delivery failed", "user_id", user.ID, "kind", kind, "error", err)
		return domain.ErrOtpDeliveryFailed
	}
	metrics.OtpSentTotal.WithLabelValues(kind, "success").Inc()
	return nil
}
