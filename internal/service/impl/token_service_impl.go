package impl

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"taskhub/internal/domain"
	"taskhub/internal/observability/metrics"
	"taskhub/internal/service"
	"taskhub/internal/store"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ====== Config ======

type TokenConfig struct {
	Issuer     string
	AccessTTL  time.Duration // e.g. 120 * time.Second
	RefreshTTL time.Duration // e.g. 7 * 24h
	SigningKey []byte        // HS256 secret
}

// ====== Claims ======

// Claims carry the user id in the subject and a typ discriminator so an
// access token can never be replayed where a refresh token is expected.
type Claims struct {
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

// ====== Service ======

// sessionStore is the slice of the store layer the token issuer needs.
type sessionStore interface {
	Upsert(ctx context.Context, t *domain.SessionToken) error
	GetByRefreshToken(ctx context.Context, refreshToken string, userID uuid.UUID) (*domain.SessionToken, error)
	ReplaceAccess(ctx context.Context, id uuid.UUID, refreshToken, accessToken string, accessExpiry time.Time) (int64, error)
	DeleteByRefreshToken(ctx context.Context, refreshToken string) (int64, error)
	DeleteAllForUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

type TokenServiceImpl struct {
	cfg      TokenConfig
	sessions sessionStore
}

func NewTokenServiceHS256(cfg TokenConfig, st *store.Store) *TokenServiceImpl {
	return &TokenServiceImpl{cfg: cfg, sessions: st.Sessions()}
}

func (t *TokenServiceImpl) MintAccess(userID domain.UserID) (string, time.Time, error) {
	return t.mint(userID, service.TokenTypeAccess, t.cfg.AccessTTL)
}

func (t *TokenServiceImpl) MintRefresh(userID domain.UserID) (string, time.Time, error) {
	return t.mint(userID, service.TokenTypeRefresh, t.cfg.RefreshTTL)
}

func (t *TokenServiceImpl) mint(userID uuid.UUID, typ string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now().UTC()
	expiry := now.Add(ttl)
	claims := Claims{
		TokenType: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.cfg.Issuer,
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(expiry),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.cfg.SigningKey)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiry, nil
}

// Decode verifies signature and expiry. An expired token is a normal
// condition and reported as domain.ErrExpiredToken; everything else that is
// wrong with the token (malformed, bad signature, bad issuer) collapses to
// domain.ErrInvalidToken.
func (t *TokenServiceImpl) Decode(tokenStr string) (*service.TokenClaims, error) {
	claims := &Claims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(t.cfg.Issuer),
	)
	_, err := parser.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return t.cfg.SigningKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrExpiredToken
		}
		return nil, domain.ErrInvalidToken
	}
	uid, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}
	return &service.TokenClaims{
		UID:       uid,
		Type:      claims.TokenType,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (t *TokenServiceImpl) PersistSession(ctx context.Context, userID domain.UserID, access string, accessExpiry time.Time, refresh string, refreshExpiry time.Time, deviceUUID *string) error {
	result := "success"
	defer func() {
		metrics.TokensIssuedTotal.WithLabelValues("login", result).Inc()
	}()

	sess := &domain.SessionToken{
		ID:               uuid.New(),
		UserID:           userID,
		AccessToken:      access,
		AccessExpiresAt:  accessExpiry,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshExpiry,
		DeviceUUID:       deviceUUID,
	}
	if err := t.sessions.Upsert(ctx, sess); err != nil {
		result = "failure"
		return err
	}

	slog.Info("session persisted", "user_id", userID, "device_uuid", deviceUUID)
	return nil
}

// RotateAccess exchanges a live refresh token for a fresh access token. The
// stored row keeps its refresh token and refresh expiry byte for byte; only
// the access fields move.
func (t *TokenServiceImpl) RotateAccess(ctx context.Context, refreshToken, deviceUUID string) (string, error) {
	result := "success"
	defer func() {
		metrics.TokensIssuedTotal.WithLabelValues("refresh", result).Inc()
	}()

	claims, err := t.Decode(refreshToken)
	if err != nil {
		result = "failure"
		return "", err
	}
	if claims.Type != service.TokenTypeRefresh {
		result = "failure"
		return "", domain.ErrInvalidToken
	}

	// Cryptographically valid but absent from the live-session set means the
	// session was revoked or replaced by a newer login.
	sess, err := t.sessions.GetByRefreshToken(ctx, refreshToken, claims.UID)
	if err != nil {
		result = "failure"
		if errors.Is(err, store.ErrRecordNotFound) {
			return "", domain.ErrUnknownRefreshToken
		}
		return "", err
	}

	var boundDevice string
	if sess.DeviceUUID != nil {
		boundDevice = *sess.DeviceUUID
	}
	if boundDevice != deviceUUID {
		result = "failure"
		return "", domain.ErrDeviceMismatch
	}

	access, expiry, err := t.MintAccess(claims.UID)
	if err != nil {
		result = "failure"
		return "", err
	}
	n, err := t.sessions.ReplaceAccess(ctx, sess.ID, refreshToken, access, expiry)
	if err != nil {
		result = "failure"
		return "", err
	}
	if n == 0 {
		// Row changed under us: the refresh token was replaced concurrently.
		result = "failure"
		return "", domain.ErrUnknownRefreshToken
	}

	slog.Info("access token rotated", "user_id", claims.UID, "session_id", sess.ID)
	return access, nil
}

// RevokeRefresh validates the presented token is a refresh token, then drops
// its session row. A token with no row behind it is already dead.
func (t *TokenServiceImpl) RevokeRefresh(ctx context.Context, refreshToken string) error {
	claims, err := t.Decode(refreshToken)
	if err != nil {
		return err
	}
	if claims.Type != service.TokenTypeRefresh {
		return domain.ErrInvalidToken
	}
	n, err := t.sessions.DeleteByRefreshToken(ctx, refreshToken)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrUnknownRefreshToken
	}
	slog.Info("session revoked", "user_id", claims.UID)
	return nil
}

func (t *TokenServiceImpl) RevokeAllForUser(ctx context.Context, userID domain.UserID) (int64, error) {
	n, err := t.sessions.DeleteAllForUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	slog.Info("all sessions revoked", "user_id", userID, "count", n)
	return n, nil
}
