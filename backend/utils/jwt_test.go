package utils

import (
	"testing"
	"time"

	"project/backend/config"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:          "testsecret",
		TokenExpireMinutes: 60,
	}
}

func TestTokenRoundtrip(t *testing.T) {
	cfg := testConfig()

	token, err := GenerateToken("student@gmail.com", cfg)
	require.NoError(t, err)

	subject, err := ParseTokenSubject(token, cfg)
	require.NoError(t, err)
	assert.Equal(t, "student@gmail.com", subject)
}

func TestTokenEmpty(t *testing.T) {
	_, err := ParseTokenSubject("", testConfig())
	assert.Equal(t, KindAuth, KindOf(err))
}

func TestTokenMalformed(t *testing.T) {
	_, err := ParseTokenSubject("not.a.token", testConfig())
	assert.Equal(t, KindAuth, KindOf(err))
}

func TestTokenWrongSecret(t *testing.T) {
	cfg := testConfig()
	token, err := GenerateToken("student@gmail.com", cfg)
	require.NoError(t, err)

	other := &config.Config{JWTSecret: "othersecret", TokenExpireMinutes: 60}
	_, err = ParseTokenSubject(token, other)
	assert.Equal(t, KindAuth, KindOf(err))
}

func TestTokenExpired(t *testing.T) {
	cfg := testConfig()

	claims := jwt.MapClaims{
		"sub": "student@gmail.com",
		"exp": time.Now().Add(-time.Minute).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTSecret))
	require.NoError(t, err)

	_, err = ParseTokenSubject(token, cfg)
	assert.Equal(t, KindAuth, KindOf(err))
}

func TestTokenMissingSubject(t *testing.T) {
	cfg := testConfig()

	claims := jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTSecret))
	require.NoError(t, err)

	_, err = ParseTokenSubject(token, cfg)
	assert.Equal(t, KindAuth, KindOf(err))
}
