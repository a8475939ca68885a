package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// 管理者パスワードのbcryptコスト（createadminと同じ）
const AdminBcryptCost = 12

// 存在しないメールでも照合1回分の時間をかけるためのハッシュ
var dummyHash = sync.OnceValue(func() string {
	h, err := bcrypt.GenerateFromPassword([]byte("maison-slimani-unknown-admin"), AdminBcryptCost)
	if err != nil {
		return ""
	}
	return string(h)
})

type LoginInput struct {
	Email    string
	Password string
}

// handlerがCookieに詰める
type LoginOutput struct {
	Email     string    `json:"email"`
	Token     string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
}

// メールまたはパスワードが違う（どちらかは区別しない）
var ErrInvalidCredentials = errors.New("incorrect credentials")

// セッショントークンを発行する約束
type SessionIssuer interface {
	Create(email string) (string, error)
}

type PasswordVerifier interface {
	Verify(plain string, hashed string) bool
}

type LoginUsecase struct {
	users    repository.AdminUserRepository
	verifier PasswordVerifier
	sessions SessionIssuer
	clock    Clock
	ttl      time.Duration
}

func NewLoginUsecase(
	users repository.AdminUserRepository,
	verifier PasswordVerifier,
	sessions SessionIssuer,
	clock Clock,
	ttl time.Duration,
) *LoginUsecase {
	return &LoginUsecase{
		users:    users,
		verifier: verifier,
		sessions: sessions,
		clock:    clock,
		ttl:      ttl,
	}
}

// 存在しないメールでも同じエラーにする
func (u *LoginUsecase) Execute(ctx context.Context, in LoginInput) (LoginOutput, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return LoginOutput{}, ErrInvalidCredentials
	}

	user, err := u.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			u.verifier.Verify(in.Password, dummyHash())
			return LoginOutput{}, ErrInvalidCredentials
		}
		return LoginOutput{}, err
	}

	if ok := u.verifier.Verify(in.Password, user.PasswordHash); !ok {
		return LoginOutput{}, ErrInvalidCredentials
	}

	token, err := u.sessions.Create(user.Email)
	if err != nil {
		return LoginOutput{}, err
	}

	//最終ログイン時刻更新
	now := u.clock.Now()
	user.LastLoginAt = &now
	user.UpdatedAt = now
	if err := u.users.Update(ctx, user); err != nil {
		return LoginOutput{}, err
	}

	return LoginOutput{Email: user.Email, Token: token, ExpiresAt: now.Add(u.ttl)}, nil
}
