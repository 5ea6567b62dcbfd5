package service

import (
	"context"
	"time"

	"taskhub/internal/domain"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// TokenClaims is the decoded claim set. Type discriminates access from
// refresh tokens; callers must reject the wrong kind for their path.
type TokenClaims struct {
	UID       domain.UserID
	Type      string
	ExpiresAt time.Time
}

type TokenService interface {
	MintAccess(userID domain.UserID) (token string, expiry time.Time, err error)
	MintRefresh(userID domain.UserID) (token string, expiry time.Time, err error)
	// Decode verifies signature and expiry. Failures are
	// domain.ErrExpiredToken or domain.ErrInvalidToken, nothing else.
	Decode(token string) (*TokenClaims, error)
	PersistSession(ctx context.Context, userID domain.UserID, access string, accessExpiry time.Time, refresh string, refreshExpiry time.Time, deviceUUID *string) error
	// RotateAccess swaps the stored access token for a fresh one; the refresh
	// token and its expiry are untouched.
	RotateAccess(ctx context.Context, refreshToken, deviceUUID string) (newAccess string, err error)
	// RevokeRefresh deletes the session behind the refresh token; the token is
	// dead afterwards even though its signature stays valid.
	RevokeRefresh(ctx context.Context, refreshToken string) error
	// RevokeAllForUser drops every session the user holds, on any device.
	RevokeAllForUser(ctx context.Context, userID domain.UserID) (int64, error)
}
