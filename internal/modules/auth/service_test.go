package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"glowstudio/internal/domain"
	"glowstudio/internal/pkg/clock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	if u != nil && args.Error(0) == nil {
		u.ID = 10
	}
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, limit, offset int) ([]domain.User, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) SetActive(ctx context.Context, id int64, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}

func (m *MockUserRepository) SetAdmin(ctx context.Context, id int64, admin bool) error {
	args := m.Called(ctx, id, admin)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) GenerateToken(userID int64, role string) (string, error) {
	args := m.Called(userID, role)
	return args.String(0), args.Error(1)
}

func activeUser(password string) *domain.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return &domain.User{
		ID:           10,
		Email:        "ana@example.com",
		FullName:     "Ana",
		PasswordHash: string(hash),
		IsActive:     true,
	}
}

func TestRegister_Success(t *testing.T) {
	users := new(MockUserRepository)
	tokens := new(MockTokenIssuer)

	users.On("GetByEmail", mock.Anything, "ana@example.com").Return(nil, gorm.ErrRecordNotFound)
	users.On("Create", mock.Anything, mock.Anything).Return(nil)
	tokens.On("GenerateToken", int64(10), "client").Return("token-abc", nil)

	s := NewService(users, tokens, nil, nil)
	result, err := s.Register(context.Background(), RegisterRequest{
		Email:    "  Ana@Example.com ",
		Password: "supersecret",
		FullName: "Ana",
	})
	require.NoError(t, err)

	assert.Equal(t, "token-abc", result.AccessToken)
	assert.Equal(t, "ana@example.com", result.User.Email)
	assert.True(t, result.User.IsActive)
	assert.False(t, result.User.IsAdmin)
	// The password is stored hashed, never verbatim.
	assert.NotEqual(t, "supersecret", result.User.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(result.User.PasswordHash), []byte("supersecret")))
}

func TestRegister_DuplicateEmail(t *testing.T) {
	users := new(MockUserRepository)
	users.On("GetByEmail", mock.Anything, "ana@example.com").Return(activeUser("x"), nil)

	s := NewService(users, new(MockTokenIssuer), nil, nil)
	_, err := s.Register(context.Background(), RegisterRequest{
		Email:    "ana@example.com",
		Password: "supersecret",
		FullName: "Ana",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin_Success(t *testing.T) {
	users := new(MockUserRepository)
	tokens := new(MockTokenIssuer)

	users.On("GetByEmail", mock.Anything, "ana@example.com").Return(activeUser("supersecret"), nil)
	tokens.On("GenerateToken", int64(10), "client").Return("token-abc", nil)

	s := NewService(users, tokens, nil, nil)
	result, err := s.Login(context.Background(), LoginRequest{Email: "ana@example.com", Password: "supersecret"})
	require.NoError(t, err)
	assert.Equal(t, "token-abc", result.AccessToken)
}

func TestLogin_WrongPassword(t *testing.T) {
	users := new(MockUserRepository)
	users.On("GetByEmail", mock.Anything, mock.Anything).Return(activeUser("supersecret"), nil)

	s := NewService(users, new(MockTokenIssuer), nil, nil)
	_, err := s.Login(context.Background(), LoginRequest{Email: "ana@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmailSameError(t *testing.T) {
	users := new(MockUserRepository)
	users.On("GetByEmail", mock.Anything, mock.Anything).Return(nil, gorm.ErrRecordNotFound)

	s := NewService(users, new(MockTokenIssuer), nil, nil)
	_, err := s.Login(context.Background(), LoginRequest{Email: "nobody@example.com", Password: "whatever"})
	// Unknown email and wrong password are indistinguishable to the caller.
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_DeactivatedAccount(t *testing.T) {
	users := new(MockUserRepository)
	u := activeUser("supersecret")
	u.IsActive = false
	users.On("GetByEmail", mock.Anything, mock.Anything).Return(u, nil)

	s := NewService(users, new(MockTokenIssuer), nil, nil)
	_, err := s.Login(context.Background(), LoginRequest{Email: "ana@example.com", Password: "supersecret"})
	assert.ErrorIs(t, err, ErrUserInactive)
}

func TestLogin_AdminRoleInToken(t *testing.T) {
	users := new(MockUserRepository)
	tokens := new(MockTokenIssuer)

	u := activeUser("supersecret")
	u.IsAdmin = true
	users.On("GetByEmail", mock.Anything, mock.Anything).Return(u, nil)
	tokens.On("GenerateToken", int64(10), "admin").Return("admin-token", nil)

	s := NewService(users, tokens, nil, nil)
	_, err := s.Login(context.Background(), LoginRequest{Email: "ana@example.com", Password: "supersecret"})
	require.NoError(t, err)
	tokens.AssertCalled(t, "GenerateToken", int64(10), "admin")
}

func TestSetUserAdmin_LastAdminProtected(t *testing.T) {
	users := new(MockUserRepository)
	admin := activeUser("x")
	admin.IsAdmin = true
	users.On("GetByID", mock.Anything, int64(10)).Return(admin, nil)
	// Only this one admin exists.
	users.On("List", mock.Anything, 100, 0).Return([]domain.User{*admin}, nil)

	s := NewService(users, new(MockTokenIssuer), nil, nil)
	_, err := s.SetUserAdmin(context.Background(), 10, false)
	assert.ErrorIs(t, err, ErrLastAdmin)
	users.AssertNotCalled(t, "SetAdmin", mock.Anything, mock.Anything, mock.Anything)
}

func TestSetUserAdmin_DemotionAllowedWithAnotherAdmin(t *testing.T) {
	users := new(MockUserRepository)
	admin := activeUser("x")
	admin.IsAdmin = true
	other := domain.User{ID: 11, IsAdmin: true, IsActive: true}
	users.On("GetByID", mock.Anything, int64(10)).Return(admin, nil)
	users.On("List", mock.Anything, 100, 0).Return([]domain.User{*admin, other}, nil)
	users.On("SetAdmin", mock.Anything, int64(10), false).Return(nil)

	s := NewService(users, new(MockTokenIssuer), nil, nil)
	u, err := s.SetUserAdmin(context.Background(), 10, false)
	require.NoError(t, err)
	assert.False(t, u.IsAdmin)
}

func TestUpdateProfile_TrimsFields(t *testing.T) {
	users := new(MockUserRepository)
	users.On("GetByID", mock.Anything, int64(10)).Return(activeUser("x"), nil)
	users.On("Update", mock.Anything, mock.Anything).Return(nil)

	s := NewService(users, new(MockTokenIssuer), nil, nil)
	name := "  Ana Maria  "
	u, err := s.UpdateProfile(context.Background(), 10, UpdateProfileRequest{FullName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Ana Maria", u.FullName)
}

type MockAppointmentCanceller struct {
	mock.Mock
}

func (m *MockAppointmentCanceller) CancelAllUpcomingForUser(ctx context.Context, userID int64, reason string, now time.Time) (int64, error) {
	args := m.Called(ctx, userID, reason, now)
	return args.Get(0).(int64), args.Error(1)
}

func TestDeleteAccount_ReleasesUpcomingAppointments(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	users := new(MockUserRepository)
	appts := new(MockAppointmentCanceller)

	users.On("GetByID", mock.Anything, int64(7)).Return(&domain.User{ID: 7, IsActive: true}, nil)
	appts.On("CancelAllUpcomingForUser", mock.Anything, int64(7), AccountDeletedReason, now).Return(int64(2), nil)
	users.On("Delete", mock.Anything, int64(7)).Return(nil)

	s := NewService(users, new(MockTokenIssuer), appts, clock.FixedAt(now))
	require.NoError(t, s.DeleteAccount(context.Background(), 7))
	appts.AssertExpectations(t)
	users.AssertCalled(t, "Delete", mock.Anything, int64(7))
}

func TestDeleteAccount_CancelFailureAbortsDelete(t *testing.T) {
	users := new(MockUserRepository)
	appts := new(MockAppointmentCanceller)

	users.On("GetByID", mock.Anything, int64(7)).Return(&domain.User{ID: 7, IsActive: true}, nil)
	appts.On("CancelAllUpcomingForUser", mock.Anything, int64(7), AccountDeletedReason, mock.Anything).
		Return(int64(0), errors.New("db down"))

	s := NewService(users, new(MockTokenIssuer), appts, nil)
	err := s.DeleteAccount(context.Background(), 7)
	require.Error(t, err)
	users.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
