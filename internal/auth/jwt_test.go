package auth

import (
	"testing"
	"time"

	"artexpertise_backend/internal/config"
	"artexpertise_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	cfg := &config.Config{}
	cfg.JWT.Secret = "jwt_test_secret_key"
	cfg.JWT.TTL = 60
	config.AppConfig = cfg
}

func TestGenerateAndParseToken(t *testing.T) {
	token, expiresAt, err := GenerateToken("user-123", models.UserRoleManager)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, models.UserRoleManager, claims.Role)
}

func TestParseToken_Garbage(t *testing.T) {
	_, err := ParseToken("not.a.token")
	assert.Error(t, err)
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, _, err := GenerateToken("user-123", models.UserRoleClient)
	require.NoError(t, err)

	config.AppConfig.JWT.Secret = "another_secret"
	defer func() { config.AppConfig.JWT.Secret = "jwt_test_secret_key" }()

	_, err = ParseToken(token)
	assert.Error(t, err)
}
