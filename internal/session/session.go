// Package session は管理画面のセッショントークン（署名付きJWT）を発行・検証する。
// ステートレスで、サーバー側に保存しない。
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	Issuer   = "maison-slimani"
	Audience = "maison-slimani-admin"
	TTL      = 7 * 24 * time.Hour

	CookieName   = "admin_session"
	MinSecretLen = 32
)

var ErrShortSecret = fmt.Errorf("session secret must be at least %d characters", MinSecretLen)

type Manager struct {
	secret []byte
	now    func() time.Time
}

func NewManager(secret string) (*Manager, error) {
	if len(secret) < MinSecretLen {
		return nil, ErrShortSecret
	}
	return &Manager{secret: []byte(secret), now: time.Now}, nil
}

// テスト用
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

// subにメールアドレスを入れて署名する
func (m *Manager) Create(email string) (string, error) {
	if email == "" {
		return "", errors.New("session: email required")
	}
	now := m.now()
	claims := jwt.RegisteredClaims{
		Subject:   email,
		Issuer:    Issuer,
		Audience:  jwt.ClaimStrings{Audience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(TTL)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("session: sign: %w", err)
	}
	return signed, nil
}

// 失敗の理由（期限切れ・改ざん・発行者違い）は呼び出し側に区別させない
func (m *Manager) Verify(token string) (string, bool) {
	if token == "" {
		return "", false
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithAudience(Audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)

	var claims jwt.RegisteredClaims
	tok, err := parser.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil || tok == nil || !tok.Valid {
		return "", false
	}
	if claims.Subject == "" {
		return "", false
	}
	return claims.Subject, true
}
