package impl

import (
	"context"
	"errors"
	"testing"
	"time"

	"taskhub/internal/domain"
	"taskhub/internal/service"

	"github.com/google/uuid"
)

func newTokenServiceForTest(sessions sessionStore) *TokenServiceImpl {
	return &TokenServiceImpl{
		cfg: TokenConfig{
			Issuer:     "taskhub-test",
			AccessTTL:  2 * time.Minute,
			RefreshTTL: 7 * 24 * time.Hour,
			SigningKey: []byte("0123456789abcdef0123456789abcdef"),
		},
		sessions: sessions,
	}
}

func TestTokenRoundTrip(t *testing.T) {
	svc := newTokenServiceForTest(newMemorySessionStore())
	userID := uuid.New()

	access, expiry, err := svc.MintAccess(userID)
	if err != nil {
		t.Fatalf("MintAccess: %v", err)
	}
	if time.Until(expiry) > 2*time.Minute+time.Second {
		t.Fatalf("access expiry too far out: %v", expiry)
	}

	claims, err := svc.Decode(access)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if claims.UID != userID {
		t.Fatalf("uid mismatch: got %v want %v", claims.UID, userID)
	}
	if claims.Type != service.TokenTypeAccess {
		t.Fatalf("type mismatch: got %q", claims.Type)
	}

	refresh, _, err := svc.MintRefresh(userID)
	if err != nil {
		t.Fatalf("MintRefresh: %v", err)
	}
	rc, err := svc.Decode(refresh)
	if err != nil {
		t.Fatalf("Decode refresh: %v", err)
	}
	if rc.Type != service.TokenTypeRefresh {
		t.Fatalf("refresh type mismatch: got %q", rc.Type)
	}
}

func TestTokenExpiredIsDistinctFromInvalid(t *testing.T) {
	svc := newTokenServiceForTest(newMemorySessionStore())
	svc.cfg.AccessTTL = -time.Minute // mint already-expired

	expired, _, err := svc.MintAccess(uuid.New())
	if err != nil {
		t.Fatalf("MintAccess: %v", err)
	}
	if _, err := svc.Decode(expired); !errors.Is(err, domain.ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}

	if _, err := svc.Decode("not.a.token"); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}

	// Same token, different signing key: tampering, not expiry.
	other := newTokenServiceForTest(newMemorySessionStore())
	other.cfg.SigningKey = []byte("ffffffffffffffffffffffffffffffff")
	svc.cfg.AccessTTL = 2 * time.Minute
	good, _, err := svc.MintAccess(uuid.New())
	if err != nil {
		t.Fatalf("MintAccess: %v", err)
	}
	if _, err := other.Decode(good); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong key, got %v", err)
	}
}

func TestRotateAccess(t *testing.T) {
	ctx := context.Background()
	sessions := newMemorySessionStore()
	svc := newTokenServiceForTest(sessions)
	userID := uuid.New()
	device := "device-1"

	access, accessExp, err := svc.MintAccess(userID)
	if err != nil {
		t.Fatalf("MintAccess: %v", err)
	}
	refresh, refreshExp, err := svc.MintRefresh(userID)
	if err != nil {
		t.Fatalf("MintRefresh: %v", err)
	}
	if err := svc.PersistSession(ctx, userID, access, accessExp, refresh, refreshExp, &device); err != nil {
		t.Fatalf("PersistSession: %v", err)
	}

	newAccess, err := svc.RotateAccess(ctx, refresh, device)
	if err != nil {
		t.Fatalf("RotateAccess: %v", err)
	}
	if newAccess == access {
		t.Fatal("access token was not replaced")
	}

	sess, err := sessions.GetByRefreshToken(ctx, refresh, userID)
	if err != nil {
		t.Fatalf("session lookup: %v", err)
	}
	if sess.AccessToken != newAccess {
		t.Fatal("stored access token not updated")
	}
	if sess.RefreshToken != refresh || !sess.RefreshExpiresAt.Equal(refreshExp) {
		t.Fatal("refresh token or its expiry changed during rotation")
	}
}

func TestRotateAccessDeviceMismatch(t *testing.T) {
	ctx := context.Background()
	sessions := newMemorySessionStore()
	svc := newTokenServiceForTest(sessions)
	userID := uuid.New()
	device := "device-1"

	access, accessExp, _ := svc.MintAccess(userID)
	refresh, refreshExp, _ := svc.MintRefresh(userID)
	if err := svc.PersistSession(ctx, userID, access, accessExp, refresh, refreshExp, &device); err != nil {
		t.Fatalf("PersistSession: %v", err)
	}

	if _, err := svc.RotateAccess(ctx, refresh, "device-2"); !errors.Is(err, domain.ErrDeviceMismatch) {
		t.Fatalf("expected ErrDeviceMismatch, got %v", err)
	}
}

func TestRotateAccessUnknownRefreshToken(t *testing.T) {
	ctx := context.Background()
	svc := newTokenServiceForTest(newMemorySessionStore())

	// Cryptographically valid, but no session row: revoked or replaced.
	refresh, _, err := svc.MintRefresh(uuid.New())
	if err != nil {
		t.Fatalf("MintRefresh: %v", err)
	}
	if _, err := svc.RotateAccess(ctx, refresh, "device-1"); !errors.Is(err, domain.ErrUnknownRefreshToken) {
		t.Fatalf("expected ErrUnknownRefreshToken, got %v", err)
	}
}

func TestRevokeRefresh(t *testing.T) {
	ctx := context.Background()
	sessions := newMemorySessionStore()
	svc := newTokenServiceForTest(sessions)
	userID := uuid.New()
	device := "device-1"

	access, accessExp, _ := svc.MintAccess(userID)
	refresh, refreshExp, _ := svc.MintRefresh(userID)
	if err := svc.PersistSession(ctx, userID, access, accessExp, refresh, refreshExp, &device); err != nil {
		t.Fatalf("PersistSession: %v", err)
	}

	if err := svc.RevokeRefresh(ctx, refresh); err != nil {
		t.Fatalf("RevokeRefresh: %v", err)
	}

	// The session is gone; rotation with the revoked token must fail.
	if _, err := svc.RotateAccess(ctx, refresh, device); !errors.Is(err, domain.ErrUnknownRefreshToken) {
		t.Fatalf("rotation after revoke: expected ErrUnknownRefreshToken, got %v", err)
	}
	// So must a second revoke.
	if err := svc.RevokeRefresh(ctx, refresh); !errors.Is(err, domain.ErrUnknownRefreshToken) {
		t.Fatalf("double revoke: expected ErrUnknownRefreshToken, got %v", err)
	}
}

func TestRevokeRefreshRejectsAccessToken(t *testing.T) {
	svc := newTokenServiceForTest(newMemorySessionStore())

	access, _, err := svc.MintAccess(uuid.New())
	if err != nil {
		t.Fatalf("MintAccess: %v", err)
	}
	if err := svc.RevokeRefresh(context.Background(), access); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestRevokeAllForUser(t *testing.T) {
	ctx := context.Background()
	sessions := newMemorySessionStore()
	svc := newTokenServiceForTest(sessions)
	userID := uuid.New()
	other := uuid.New()

	for _, dev := range []string{"device-1", "device-2"} {
		device := dev
		access, accessExp, _ := svc.MintAccess(userID)
		refresh, refreshExp, _ := svc.MintRefresh(userID)
		if err := svc.PersistSession(ctx, userID, access, accessExp, refresh, refreshExp, &device); err != nil {
			t.Fatalf("PersistSession: %v", err)
		}
	}
	otherDevice := "device-3"
	otherAccess, otherExp, _ := svc.MintAccess(other)
	otherRefresh, otherRefreshExp, _ := svc.MintRefresh(other)
	if err := svc.PersistSession(ctx, other, otherAccess, otherExp, otherRefresh, otherRefreshExp, &otherDevice); err != nil {
		t.Fatalf("PersistSession: %v", err)
	}

	n, err := svc.RevokeAllForUser(ctx, userID)
	if err != nil {
		t.Fatalf("RevokeAllForUser: %v", err)
	}
	if n != 2 {
		t.Fatalf("revoked %d sessions, want 2", n)
	}

	// The other user's session survives.
	if _, err := sessions.GetByRefreshToken(ctx, otherRefresh, other); err != nil {
		t.Fatalf("unrelated session was dropped: %v", err)
	}
}

func TestRotateAccessRejectsAccessToken(t *testing.T) {
	ctx := context.Background()
	svc := newTokenServiceForTest(newMemorySessionStore())

	access, _, err := svc.MintAccess(uuid.New())
	if err != nil {
		t.Fatalf("MintAccess: %v", err)
	}
	if _, err := svc.RotateAccess(ctx, access, "device-1"); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for access token, got %v", err)
	}
}
