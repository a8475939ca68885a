package session

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "0123456789abcdef0123456789abcdef"

func newManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(secret)
	require.NoError(t, err)
	return m
}

func sign(t *testing.T, key string, method jwt.SigningMethod, claims jwt.RegisteredClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return s
}

func validClaims() jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		Subject:   "admin@maison-slimani.com",
		Issuer:    Issuer,
		Audience:  jwt.ClaimStrings{Audience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}
}

func TestNewManager_RejectsShortSecret(t *testing.T) {
	_, err := NewManager(strings.Repeat("x", MinSecretLen-1))
	assert.ErrorIs(t, err, ErrShortSecret)

	_, err = NewManager(strings.Repeat("x", MinSecretLen))
	assert.NoError(t, err)
}

func TestCreateVerify_RoundTrip(t *testing.T) {
	m := newManager(t)

	tok, err := m.Create("admin@maison-slimani.com")
	require.NoError(t, err)

	email, ok := m.Verify(tok)
	assert.True(t, ok)
	assert.Equal(t, "admin@maison-slimani.com", email)
}

func TestVerify_ExpiresAfterSevenDays(t *testing.T) {
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	m := newManager(t).WithClock(func() time.Time { return now })

	tok, err := m.Create("admin@maison-slimani.com")
	require.NoError(t, err)

	now = now.Add(TTL - time.Minute)
	_, ok := m.Verify(tok)
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	email, ok := m.Verify(tok)
	assert.False(t, ok)
	assert.Empty(t, email)
}

func TestVerify_RejectsInvalidTokens(t *testing.T) {
	m := newManager(t)

	wrongIss := validClaims()
	wrongIss.Issuer = "someone-else"

	wrongAud := validClaims()
	wrongAud.Audience = jwt.ClaimStrings{"storefront"}

	expired := validClaims()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	noExp := validClaims()
	noExp.ExpiresAt = nil

	noSub := validClaims()
	noSub.Subject = ""

	tests := map[string]string{
		"other secret":    sign(t, strings.Repeat("y", 32), jwt.SigningMethodHS256, validClaims()),
		"wrong issuer":    sign(t, secret, jwt.SigningMethodHS256, wrongIss),
		"wrong audience":  sign(t, secret, jwt.SigningMethodHS256, wrongAud),
		"expired":         sign(t, secret, jwt.SigningMethodHS256, expired),
		"no expiry":       sign(t, secret, jwt.SigningMethodHS256, noExp),
		"no subject":      sign(t, secret, jwt.SigningMethodHS256, noSub),
		"other algorithm": sign(t, secret, jwt.SigningMethodHS512, validClaims()),
		"garbage":         "not.a.jwt",
		"empty":           "",
	}

	for name, tok := range tests {
		t.Run(name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				email, ok := m.Verify(tok)
				assert.False(t, ok)
				assert.Empty(t, email)
			})
		})
	}
}
