package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/domain/model"
	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// =====================
// Mock: AdminUserRepository
// =====================

type MockAdminUserRepository struct {
	mock.Mock
}

func (m *MockAdminUserRepository) Create(ctx context.Context, user *model.AdminUser) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockAdminUserRepository) FindByEmail(ctx context.Context, email string) (*model.AdminUser, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.AdminUser)
	return u, args.Error(1)
}

func (m *MockAdminUserRepository) Update(ctx context.Context, user *model.AdminUser) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type fixedID string

func (f fixedID) NewID() string { return string(f) }

type stubIssuer struct {
	token string
	err   error
	got   string
}

func (s *stubIssuer) Create(email string) (string, error) {
	s.got = email
	return s.token, s.err
}

var now = time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

func hashed(t *testing.T, plain string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

// =====================
// Login
// =====================

func TestLogin_Success(t *testing.T) {
	users := new(MockAdminUserRepository)
	admin := &model.AdminUser{ID: "a1", Email: "admin@maison-slimani.com", PasswordHash: hashed(t, "correct horse battery")}
	users.On("FindByEmail", mock.Anything, "admin@maison-slimani.com").Return(admin, nil).Once()
	users.On("Update", mock.Anything, mock.MatchedBy(func(u *model.AdminUser) bool {
		return u.LastLoginAt != nil && u.LastLoginAt.Equal(now)
	})).Return(nil).Once()

	issuer := &stubIssuer{token: "signed"}
	uc := NewLoginUsecase(users, NewBcryptPasswordVerifier(), issuer, fixedClock{now}, 7*24*time.Hour)

	out, err := uc.Execute(context.Background(), LoginInput{Email: "  Admin@Maison-Slimani.com ", Password: "correct horse battery"})
	require.NoError(t, err)
	assert.Equal(t, "signed", out.Token)
	assert.Equal(t, "admin@maison-slimani.com", out.Email)
	assert.Equal(t, now.Add(7*24*time.Hour), out.ExpiresAt)
	assert.Equal(t, "admin@maison-slimani.com", issuer.got)
	users.AssertExpectations(t)
}

func TestLogin_WrongPassword(t *testing.T) {
	users := new(MockAdminUserRepository)
	admin := &model.AdminUser{Email: "admin@maison-slimani.com", PasswordHash: hashed(t, "correct horse battery")}
	users.On("FindByEmail", mock.Anything, "admin@maison-slimani.com").Return(admin, nil).Once()

	issuer := &stubIssuer{token: "signed"}
	uc := NewLoginUsecase(users, NewBcryptPasswordVerifier(), issuer, fixedClock{now}, time.Hour)

	_, err := uc.Execute(context.Background(), LoginInput{Email: "admin@maison-slimani.com", Password: "nope"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Empty(t, issuer.got)
	users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

// 照合に渡されたハッシュを覚える
type recordingVerifier struct {
	hashes []string
}

func (v *recordingVerifier) Verify(plain string, hashedPassword string) bool {
	v.hashes = append(v.hashes, hashedPassword)
	return NewBcryptPasswordVerifier().Verify(plain, hashedPassword)
}

// 存在しないメールでも同じエラー。照合も1回走る
func TestLogin_UnknownEmail(t *testing.T) {
	users := new(MockAdminUserRepository)
	users.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, repository.ErrNotFound).Once()

	verifier := &recordingVerifier{}
	uc := NewLoginUsecase(users, verifier, &stubIssuer{}, fixedClock{now}, time.Hour)
	_, err := uc.Execute(context.Background(), LoginInput{Email: "ghost@example.com", Password: "whatever"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.Len(t, verifier.hashes, 1)
	cost, err := bcrypt.Cost([]byte(verifier.hashes[0]))
	require.NoError(t, err)
	assert.Equal(t, AdminBcryptCost, cost)
}

func TestLogin_EmptyInput(t *testing.T) {
	uc := NewLoginUsecase(new(MockAdminUserRepository), NewBcryptPasswordVerifier(), &stubIssuer{}, fixedClock{now}, time.Hour)
	_, err := uc.Execute(context.Background(), LoginInput{})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_DBError(t *testing.T) {
	users := new(MockAdminUserRepository)
	users.On("FindByEmail", mock.Anything, "admin@maison-slimani.com").Return(nil, errors.New("conn refused")).Once()

	uc := NewLoginUsecase(users, NewBcryptPasswordVerifier(), &stubIssuer{}, fixedClock{now}, time.Hour)
	_, err := uc.Execute(context.Background(), LoginInput{Email: "admin@maison-slimani.com", Password: "x"})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

// =====================
// RegisterAdmin
// =====================

func TestRegisterAdmin_Success(t *testing.T) {
	users := new(MockAdminUserRepository)
	users.On("FindByEmail", mock.Anything, "owner@maison-slimani.com").Return(nil, repository.ErrNotFound).Once()
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *model.AdminUser) bool {
		return u.ID == "id-1" &&
			u.Email == "owner@maison-slimani.com" &&
			bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("a long passphrase")) == nil
	})).Return(nil).Once()

	uc := NewRegisterAdminUsecase(users, NewBcryptPasswordHasher(bcrypt.MinCost), fixedID("id-1"), fixedClock{now})
	out, err := uc.Execute(context.Background(), RegisterAdminInput{Email: "Owner@maison-slimani.com", Password: "a long passphrase"})
	require.NoError(t, err)
	assert.Empty(t, out.PasswordHash)
	assert.Equal(t, now, out.CreatedAt)
	users.AssertExpectations(t)
}

func TestRegisterAdmin_Validation(t *testing.T) {
	uc := NewRegisterAdminUsecase(new(MockAdminUserRepository), NewBcryptPasswordHasher(bcrypt.MinCost), fixedID("x"), fixedClock{now})

	_, err := uc.Execute(context.Background(), RegisterAdminInput{Email: "not-an-email", Password: "a long passphrase"})
	assert.ErrorIs(t, err, ErrInvalidEmailFormat)

	_, err = uc.Execute(context.Background(), RegisterAdminInput{Email: "a@b.com", Password: "short"})
	assert.ErrorIs(t, err, ErrPasswordTooShort)

	_, err = uc.Execute(context.Background(), RegisterAdminInput{Email: "a@b.com", Password: "MotDePasse123"})
	assert.ErrorIs(t, err, ErrWeakPassword)
}

func TestRegisterAdmin_Duplicate(t *testing.T) {
	users := new(MockAdminUserRepository)
	users.On("FindByEmail", mock.Anything, "a@b.com").Return(&model.AdminUser{Email: "a@b.com"}, nil).Once()

	uc := NewRegisterAdminUsecase(users, NewBcryptPasswordHasher(bcrypt.MinCost), fixedID("x"), fixedClock{now})
	_, err := uc.Execute(context.Background(), RegisterAdminInput{Email: "a@b.com", Password: "a long passphrase"})
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
