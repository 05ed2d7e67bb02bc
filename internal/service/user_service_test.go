package service

import (
	"artcase-backend/config"
	"artcase-backend/internal/cache"
	"artcase-backend/internal/errors"
	"artcase-backend/internal/model"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestUserService(repo *MockUserRepository) *UserService {
	config.AppConfig.JWTSecret = "test-secret"
	svc := NewUserService(repo, nil, cache.NewMemoryBlacklist(), nil, "https://img.example.com/default.png")
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func userWithPassword(t *testing.T, password string) *model.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &model.User{ID: 3, Username: "alice", PasswordHash: string(hash), Status: model.UserStatusActive}
}

func TestRegister(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("FindByUsername", "alice").Return(nil, nil)
	repo.On("FindByEmail", "alice@example.com").Return(nil, nil)
	repo.On("Create", mock.AnythingOfType("*model.User")).Return(nil)

	user, err := newTestUserService(repo).Register(RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, user.Role)
	assert.Equal(t, "https://img.example.com/default.png", user.ProfilePic)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password123")))
}

func TestRegisterWeakPassword(t *testing.T) {
	repo := new(MockUserRepository)

	_, err := newTestUserService(repo).Register(RegisterInput{Username: "alice", Email: "a@example.com", Password: "short"})
	assert.True(t, errors.Is(err, errors.ErrWeakPassword))
}

func TestRegisterUsernameTaken(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("FindByUsername", "alice").Return(&model.User{ID: 1}, nil)

	_, err := newTestUserService(repo).Register(RegisterInput{Username: "alice", Email: "a@example.com", Password: "password123"})
	assert.True(t, errors.Is(err, errors.ErrUserExists))
}

func TestLogin(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("FindByUsername", "alice").Return(userWithPassword(t, "password123"), nil)

	user, token, err := newTestUserService(repo).Login("alice", "password123")
	require.NoError(t, err)
	assert.Equal(t, 3, user.ID)
	assert.NotEmpty(t, token)
}

func TestLoginWrongPassword(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("FindByUsername", "alice").Return(userWithPassword(t, "password123"), nil)

	_, _, err := newTestUserService(repo).Login("alice", "nope")
	assert.True(t, errors.Is(err, errors.ErrInvalidCredentials))
}

func TestLoginBanned(t *testing.T) {
	repo := new(MockUserRepository)
	user := userWithPassword(t, "password123")
	user.Status = model.UserStatusBanned
	repo.On("FindByUsername", "alice").Return(user, nil)

	_, _, err := newTestUserService(repo).Login("alice", "password123")
	assert.True(t, errors.Is(err, errors.ErrAccountBanned))
}

func TestLoginSuspended(t *testing.T) {
	repo := new(MockUserRepository)
	user := userWithPassword(t, "password123")
	end := fixedNow.Add(72*time.Hour + time.Minute)
	user.Status = model.UserStatusSuspended
	user.SuspensionEndDate = &end
	repo.On("FindByUsername", "alice").Return(user, nil)

	_, _, err := newTestUserService(repo).Login("alice", "password123")
	require.True(t, errors.Is(err, errors.ErrAccountSuspended))
	assert.Contains(t, err.Error(), "in 3 days")
}

func TestLoginSuspensionExpired(t *testing.T) {
	repo := new(MockUserRepository)
	user := userWithPassword(t, "password123")
	end := fixedNow.Add(-time.Hour)
	user.Status = model.UserStatusSuspended
	user.SuspensionEndDate = &end
	repo.On("FindByUsername", "alice").Return(user, nil)
	repo.On("UpdateStatus", 3, model.UserStatusActive, (*time.Time)(nil)).Return(nil)

	got, _, err := newTestUserService(repo).Login("alice", "password123")
	require.NoError(t, err)
	assert.Equal(t, model.UserStatusActive, got.Status)
	repo.AssertCalled(t, "UpdateStatus", 3, model.UserStatusActive, (*time.Time)(nil))
}

func TestSuspensionMessage(t *testing.T) {
	at := func(d time.Duration) *time.Time {
		t := fixedNow.Add(d)
		return &t
	}
	tests := []struct {
		name string
		end  *time.Time
		want string
	}{
		{"no end date", nil, "Your account has been suspended."},
		{"days", at(50 * time.Hour), "Your account has been suspended. You can log in again in 2 days."},
		{"hours", at(5*time.Hour + 30*time.Minute), "Your account has been suspended. You can log in again in 5 hours."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, suspensionMessage(tt.end, fixedNow))
		})
	}
}

func TestLogoutBlacklistsToken(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newTestUserService(repo)
	repo.On("FindByUsername", "alice").Return(userWithPassword(t, "password123"), nil)

	_, token, err := svc.Login("alice", "password123")
	require.NoError(t, err)
	ctx := context.Background()
	assert.False(t, svc.IsTokenBlacklisted(ctx, token))

	require.NoError(t, svc.Logout(ctx, token))
	assert.True(t, svc.IsTokenBlacklisted(ctx, token))
}

func TestUpdateProfileUsernameTaken(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("FindByID", 3).Return(&model.User{ID: 3, Username: "alice"}, nil)
	repo.On("FindByUsername", "bob").Return(&model.User{ID: 4, Username: "bob"}, nil)

	name := "bob"
	_, err := newTestUserService(repo).UpdateProfile(3, ProfileInput{Username: &name})
	assert.True(t, errors.Is(err, errors.ErrUserExists))
	repo.AssertNotCalled(t, "Update", mock.Anything)
}

func TestGetUserDetails(t *testing.T) {
	repo := new(MockUserRepository)
	discounts := new(MockDiscountRepository)
	repo.On("FindByID", 3).Return(&model.User{ID: 3, Username: "alice"}, nil)
	repo.On("GetStatistics", 3).Return(&model.UserStatistics{TotalPosts: 2, TotalLikes: 6}, nil)
	discounts.On("CountLikesReceived", 3).Return(6, nil)

	svc := newTestUserService(repo)
	svc.discounts = newTestDiscountService(discounts, 0)

	details, err := svc.GetUserDetails(3)
	require.NoError(t, err)
	assert.Equal(t, "alice", details.Username)
	assert.Equal(t, 6, details.Statistics.TotalLikes)
	assert.True(t, details.IsDiscountEligible)
}
