// AngelaMos | 2026
// jwt_test.go

package auth

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelamos/reviewdeck/internal/config"
	"github.com/angelamos/reviewdeck/internal/core"
)

func newTestJWTManager(t *testing.T, expire time.Duration) *JWTManager {
	t.Helper()

	dir := t.TempDir()
	privatePath := filepath.Join(dir, "private.pem")
	publicPath := filepath.Join(dir, "public.pem")

	require.NoError(t, GenerateKeyPair(privatePath, publicPath))

	manager, err := NewJWTManager(config.JWTConfig{
		PrivateKeyPath:    privatePath,
		PublicKeyPath:     publicPath,
		AccessTokenExpire: expire,
		Issuer:            "reviewdeck",
		Audience:          "reviewdeck-api",
	})
	require.NoError(t, err)

	return manager
}

func TestJWTRoundTrip(t *testing.T) {
	manager := newTestJWTManager(t, time.Hour)

	token, err := manager.CreateAccessToken("user-123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	subject, err := manager.VerifyAccessToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", subject)
}

func TestJWTRejectsGarbage(t *testing.T) {
	manager := newTestJWTManager(t, time.Hour)

	_, err := manager.VerifyAccessToken(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestJWTRejectsExpired(t *testing.T) {
	manager := newTestJWTManager(t, -time.Minute)

	token, err := manager.CreateAccessToken("user-123")
	require.NoError(t, err)

	_, err = manager.VerifyAccessToken(context.Background(), token)
	assert.ErrorIs(t, err, core.ErrTokenExpired)
}

func TestJWTRejectsForeignKey(t *testing.T) {
	issuer := newTestJWTManager(t, time.Hour)
	verifier := newTestJWTManager(t, time.Hour)

	token, err := issuer.CreateAccessToken("user-123")
	require.NoError(t, err)

	_, err = verifier.VerifyAccessToken(context.Background(), token)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}
