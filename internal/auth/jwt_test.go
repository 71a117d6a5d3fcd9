// AngelaMos | 2026
// jwt_test.go

package auth

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/cosmos-explorer/internal/config"
	"github.com/carterperez-dev/cosmos-explorer/internal/core"
	"github.com/carterperez-dev/cosmos-explorer/internal/middleware"
)

func newTestJWTManager(t *testing.T, cfg config.JWTConfig) *JWTManager {
	t.Helper()

	dir := t.TempDir()
	cfg.PrivateKeyPath = filepath.Join(dir, "private.pem")
	cfg.PublicKeyPath = filepath.Join(dir, "public.pem")

	require.NoError(t, GenerateKeyPair(cfg.PrivateKeyPath, cfg.PublicKeyPath))

	m, err := NewJWTManager(cfg)
	require.NoError(t, err)
	return m
}

func defaultJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		SessionExpire:      7 * 24 * time.Hour,
		RememberMeExpire:   30 * 24 * time.Hour,
		RefreshTokenExpire: 30 * 24 * time.Hour,
		Issuer:             "cosmos-explorer",
		Audience:           "cosmos-explorer-api",
	}
}

func TestSessionTokenRoundTrip(t *testing.T) {
	m := newTestJWTManager(t, defaultJWTConfig())

	claims := middleware.SessionClaims{
		UserID:   "user-1",
		Username: "stargazer",
		Role:     "user",
	}

	token, err := m.CreateSessionToken(claims, false)
	require.NoError(t, err)

	got, err := m.VerifySessionToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, claims, *got)
}

func TestRefreshTokenNotAcceptedAsSession(t *testing.T) {
	m := newTestJWTManager(t, defaultJWTConfig())

	claims := middleware.SessionClaims{
		UserID:   "user-1",
		Username: "stargazer",
		Role:     "user",
	}

	refresh, err := m.CreateRefreshToken(claims)
	require.NoError(t, err)

	_, err = m.VerifySessionToken(context.Background(), refresh)
	assert.True(t, errors.Is(err, core.ErrTokenInvalid))

	got, err := m.VerifyRefreshToken(context.Background(), refresh)
	require.NoError(t, err)
	assert.Equal(t, claims, *got)
}

func TestExpiredSessionToken(t *testing.T) {
	cfg := defaultJWTConfig()
	cfg.SessionExpire = -time.Minute
	m := newTestJWTManager(t, cfg)

	token, err := m.CreateSessionToken(middleware.SessionClaims{
		UserID:   "user-1",
		Username: "stargazer",
		Role:     "user",
	}, false)
	require.NoError(t, err)

	_, err = m.VerifySessionToken(context.Background(), token)
	assert.True(t, errors.Is(err, core.ErrTokenExpired))
}

func TestGarbageToken(t *testing.T) {
	m := newTestJWTManager(t, defaultJWTConfig())

	_, err := m.VerifySessionToken(context.Background(), "not.a.jwt")
	assert.True(t, errors.Is(err, core.ErrTokenInvalid))
}

func TestTokenFromDifferentKeyRejected(t *testing.T) {
	m1 := newTestJWTManager(t, defaultJWTConfig())
	m2 := newTestJWTManager(t, defaultJWTConfig())

	token, err := m1.CreateSessionToken(middleware.SessionClaims{
		UserID:   "user-1",
		Username: "stargazer",
		Role:     "user",
	}, false)
	require.NoError(t, err)

	_, err = m2.VerifySessionToken(context.Background(), token)
	assert.True(t, errors.Is(err, core.ErrTokenInvalid))
}

func TestSessionDuration(t *testing.T) {
	m := newTestJWTManager(t, defaultJWTConfig())

	assert.Equal(t, 7*24*time.Hour, m.SessionDuration(false))
	assert.Equal(t, 30*24*time.Hour, m.SessionDuration(true))
}
