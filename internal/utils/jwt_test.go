package utils

import (
	"context"
	"testing"
	"time"

	"collabnote/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memBlacklist map[string]time.Duration

func (m memBlacklist) Set(_ context.Context, key string, _ interface{}, expiration time.Duration) error {
	m[key] = expiration
	return nil
}

func (m memBlacklist) Exists(_ context.Context, key string) (bool, error) {
	_, ok := m[key]
	return ok, nil
}

func testConfig() *config.Config {
	return &config.Config{JWTSecretKey: "secret", JWTIssuer: "collabnote", JWTExpirationTime: time.Hour}
}

func TestGenerateAndValidateToken(t *testing.T) {
	cfg := testConfig()

	tokenString, err := GenerateToken(cfg, 42, "alice")
	require.NoError(t, err)

	token, err := ValidateToken(cfg, tokenString)
	require.NoError(t, err)
	claims, err := ExtractClaims(token)
	require.NoError(t, err)

	id, err := UserIDFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
	assert.Equal(t, "alice", claims["username"])
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	tokenString, err := GenerateToken(testConfig(), 1, "bob")
	require.NoError(t, err)

	other := testConfig()
	other.JWTSecretKey = "another"
	_, err = ValidateToken(other, tokenString)
	assert.Error(t, err)
}

func TestBlacklist(t *testing.T) {
	cfg := testConfig()
	bl := memBlacklist{}

	tokenString, err := GenerateToken(cfg, 5, "carol")
	require.NoError(t, err)
	token, err := ValidateToken(cfg, tokenString)
	require.NoError(t, err)
	claims, err := ExtractClaims(token)
	require.NoError(t, err)

	revoked, err := IsTokenBlacklisted(context.Background(), bl, claims)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, AddTokenToBlacklist(context.Background(), bl, tokenString))

	revoked, err = IsTokenBlacklisted(context.Background(), bl, claims)
	require.NoError(t, err)
	assert.True(t, revoked)
	for _, ttl := range bl {
		assert.LessOrEqual(t, ttl, time.Hour)
	}
}

func TestNilBlacklist(t *testing.T) {
	revoked, err := IsTokenBlacklisted(context.Background(), nil, nil)
	assert.NoError(t, err)
	assert.False(t, revoked)
	assert.Error(t, AddTokenToBlacklist(context.Background(), nil, "x.y.z"))
}
