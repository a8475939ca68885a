package auth

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/domain/model"
	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// 管理者作成の入力
type RegisterAdminInput struct {
	Email    string
	Password string
}

// bcryptハッシュ化
type BcryptPasswordHasher struct {
	cost int
}

var (
	// 入力が不正
	ErrInvalidEmailFormat = errors.New("invalid email format")
	ErrPasswordTooShort   = errors.New("password too short")
	ErrWeakPassword       = errors.New("weak password")

	// 競合
	ErrEmailAlreadyExists = errors.New("email already exists")
)

const minPasswordLen = 12

// 平文パスワードからハッシュへ。
type PasswordHasher interface {
	Hash(plain string) (string, error)
}

type IDGenerator interface {
	NewID() string
}

type Clock interface {
	Now() time.Time
}

// 管理者アカウントの作成（CLIから使う）
type RegisterAdminUsecase struct {
	users  repository.AdminUserRepository
	hasher PasswordHasher
	idGen  IDGenerator
	clock  Clock
}

// DI
func NewRegisterAdminUsecase(
	users repository.AdminUserRepository,
	hasher PasswordHasher,
	idGen IDGenerator,
	clock Clock,
) *RegisterAdminUsecase {
	return &RegisterAdminUsecase{
		users:  users,
		hasher: hasher,
		idGen:  idGen,
		clock:  clock,
	}
}

func (u *RegisterAdminUsecase) Execute(ctx context.Context, in RegisterAdminInput) (model.AdminUser, error) {
	email := normalizeEmail(in.Email)
	if !isValidEmailFormat(email) {
		return model.AdminUser{}, ErrInvalidEmailFormat
	}
	if len(in.Password) < minPasswordLen {
		return model.AdminUser{}, ErrPasswordTooShort
	}
	if isWeakPassword(in.Password) {
		return model.AdminUser{}, ErrWeakPassword
	}

	// email重複チェック
	existing, err := u.users.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return model.AdminUser{}, ErrEmailAlreadyExists
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return model.AdminUser{}, err
	}

	hashed, err := u.hasher.Hash(in.Password)
	if err != nil {
		return model.AdminUser{}, err
	}

	now := u.clock.Now()
	user := &model.AdminUser{
		ID:           u.idGen.NewID(),
		Email:        email,
		PasswordHash: hashed,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := u.users.Create(ctx, user); err != nil {
		return model.AdminUser{}, err
	}

	safe := *user
	safe.PasswordHash = ""
	return safe, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isValidEmailFormat(email string) bool {
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

// よくある弱いパスワード
func isWeakPassword(password string) bool {
	normalized := strings.ToLower(strings.TrimSpace(password))

	weak := map[string]struct{}{
		"password1234":   {},
		"123456789012":   {},
		"qwertyuiopas":   {},
		"adminadmin12":   {},
		"motdepasse123":  {},
		"maisonslimani":  {},
		"slimani123456":  {},
		"administrateur": {},
	}

	_, ok := weak[normalized]
	return ok
}

// DI
func NewBcryptPasswordHasher(cost int) *BcryptPasswordHasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptPasswordHasher{cost}
}

func (h *BcryptPasswordHasher) Hash(plain string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// bcryptハッシュと平文を比較
type BcryptPasswordVerifier struct{}

// DI
func NewBcryptPasswordVerifier() *BcryptPasswordVerifier {
	return &BcryptPasswordVerifier{}
}

func (v *BcryptPasswordVerifier) Verify(plain string, hashed string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
	return err == nil
}
