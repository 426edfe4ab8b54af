package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teamtrack/internal/authz"
	"teamtrack/internal/config"
	"teamtrack/internal/models"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:   "test-secret",
		Issuer:   "teamtrack",
		Audience: "teamtrack-api",
		TTL:      config.Duration(time.Hour),
	}
}

func testUser() *models.User {
	return &models.User{
		ID:       "u-1",
		Name:     "Alice",
		Email:    "alice@example.com",
		Role:     authz.RoleProjectManager,
		IsActive: true,
	}
}

func TestIssueAndValidate(t *testing.T) {
	svc := NewTokenService(testJWTConfig())

	token, err := svc.Issue(testUser())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, authz.RoleProjectManager, claims.Role)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	issuer := NewTokenService(testJWTConfig())
	token, err := issuer.Issue(testUser())
	require.NoError(t, err)

	other := testJWTConfig()
	other.Secret = "different-secret"
	_, err = NewTokenService(other).Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsWrongIssuer(t *testing.T) {
	cfg := testJWTConfig()
	cfg.Issuer = "someone-else"
	token, err := NewTokenService(cfg).Issue(testUser())
	require.NoError(t, err)

	_, err = NewTokenService(testJWTConfig()).Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsExpired(t *testing.T) {
	cfg := testJWTConfig()
	cfg.TTL = config.Duration(-time.Minute)
	token, err := NewTokenService(cfg).Issue(testUser())
	require.NoError(t, err)

	_, err = NewTokenService(testJWTConfig()).Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsNoneAlgorithm(t *testing.T) {
	claims := &Claims{
		UserID: "u-1",
		Role:   authz.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "teamtrack",
			Audience:  jwt.ClaimStrings{"teamtrack-api"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokenService(testJWTConfig()).Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsBadRoleClaim(t *testing.T) {
	svc := NewTokenService(testJWTConfig())
	u := testUser()
	u.Role = authz.Role("Hacker")
	token, err := svc.Issue(u)
	require.NoError(t, err)

	_, err = svc.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExtractExpiry(t *testing.T) {
	svc := NewTokenService(testJWTConfig())
	token, err := svc.Issue(testUser())
	require.NoError(t, err)

	expiry, err := svc.ExtractExpiry(token)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC().Add(time.Hour), expiry, 5*time.Second)
}

func TestExtractExpiryRejectsGarbage(t *testing.T) {
	svc := NewTokenService(testJWTConfig())
	_, err := svc.ExtractExpiry("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ExtractExpiry("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
