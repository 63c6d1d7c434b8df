package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func newTestManager(accessTTL, refreshTTL time.Duration) *TokenManager {
	return NewTokenManager(
		"test-access-secret-0123456789abcdef",
		"test-refresh-secret-0123456789abcdef",
		accessTTL,
		refreshTTL,
	)
}

func TestTokenRoundTrip(t *testing.T) {
	m := newTestManager(15*time.Minute, 7*24*time.Hour)
	userID := uuid.New()

	pair, err := m.GenerateTokenPair(userID, "user@example.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := m.VerifyAccessToken(pair.AccessToken)
	if err != nil {
		t.Fatalf("verify access: %v", err)
	}
	if claims.UserID != userID || claims.Email != "user@example.com" {
		t.Errorf("claims mismatch: %+v", claims)
	}
	if claims.Issuer != TokenIssuer {
		t.Errorf("unexpected issuer: %s", claims.Issuer)
	}

	if _, err := m.VerifyRefreshToken(pair.RefreshToken); err != nil {
		t.Fatalf("verify refresh: %v", err)
	}
}

func TestAccessAndRefreshSecretsAreSeparate(t *testing.T) {
	m := newTestManager(15*time.Minute, 7*24*time.Hour)

	pair, err := m.GenerateTokenPair(uuid.New(), "user@example.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := m.VerifyAccessToken(pair.RefreshToken); err == nil {
		t.Error("refresh token must not verify as an access token")
	}
	if _, err := m.VerifyRefreshToken(pair.AccessToken); err == nil {
		t.Error("access token must not verify as a refresh token")
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	m := newTestManager(-time.Minute, -time.Minute)

	pair, err := m.GenerateTokenPair(uuid.New(), "user@example.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := m.VerifyAccessToken(pair.AccessToken); err == nil {
		t.Error("expired access token must be rejected")
	}
}

func TestTamperedTokenRejected(t *testing.T) {
	m := newTestManager(15*time.Minute, 7*24*time.Hour)
	other := NewTokenManager(
		"another-access-secret-0123456789abcd",
		"another-refresh-secret-0123456789abc",
		15*time.Minute,
		7*24*time.Hour,
	)

	pair, err := other.GenerateTokenPair(uuid.New(), "user@example.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := m.VerifyAccessToken(pair.AccessToken); err == nil {
		t.Error("token signed with a different secret must be rejected")
	}
	if _, err := m.VerifyAccessToken("not.a.token"); err == nil {
		t.Error("garbage must be rejected")
	}
}
