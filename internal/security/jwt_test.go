package security_test

import (
	"testing"

	"file-sharing-server/config"
	"file-sharing-server/internal/security"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJWTService(ttl string) *security.JWTService {
	return security.NewJWTService(&config.JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenTTL: ttl,
	})
}

func TestGenerateAndValidateAccessToken(t *testing.T) {
	jwtService := newJWTService("1h")

	token, err := jwtService.GenerateAccessToken("user-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := jwtService.ValidateJWT(token, []byte("test-secret"))
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserUUID)
	assert.Equal(t, "File-sharing-server", claims.Issuer)
}

func TestValidateJWT_WrongSecret(t *testing.T) {
	jwtService := newJWTService("1h")

	token, err := jwtService.GenerateAccessToken("user-1")
	require.NoError(t, err)

	_, err = jwtService.ValidateJWT(token, []byte("другой-секрет"))
	assert.Error(t, err)
}

func TestValidateJWT_ExpiredToken(t *testing.T) {
	jwtService := newJWTService("-1h")

	token, err := jwtService.GenerateAccessToken("user-1")
	require.NoError(t, err)

	_, err = jwtService.ValidateJWT(token, []byte("test-secret"))
	assert.Error(t, err)
}

func TestValidateJWT_Garbage(t *testing.T) {
	jwtService := newJWTService("1h")

	_, err := jwtService.ValidateJWT("не.токен.вовсе", []byte("test-secret"))
	assert.Error(t, err)
}
