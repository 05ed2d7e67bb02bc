package service

import (
	"artcase-backend/internal/errors"
	"artcase-backend/internal/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestAdminService(repo *MockUserRepository, mailer Mailer) *AdminService {
	svc := NewAdminService(repo, nil, mailer, errors.NewErrorAnalytics())
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestSuspendUser(t *testing.T) {
	repo := new(MockUserRepository)
	mailer := new(MockMailer)
	end := fixedNow.AddDate(0, 0, 7)
	repo.On("FindByID", 3).Return(&model.User{ID: 3, Status: model.UserStatusActive}, nil)
	repo.On("UpdateStatus", 3, model.UserStatusSuspended, &end).Return(nil)
	mailer.On("SendAccountStatusNotice", mock.AnythingOfType("*model.User")).Return()

	user, err := newTestAdminService(repo, mailer).UpdateUserStatus(3, "suspended", 7)
	require.NoError(t, err)
	assert.Equal(t, model.UserStatusSuspended, user.Status)
	require.NotNil(t, user.SuspensionEndDate)
	assert.True(t, end.Equal(*user.SuspensionEndDate))
	mailer.AssertNumberOfCalls(t, "SendAccountStatusNotice", 1)
}

func TestSuspendUserNeedsDuration(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("FindByID", 3).Return(&model.User{ID: 3}, nil)

	_, err := newTestAdminService(repo, nil).UpdateUserStatus(3, "suspended", 0)
	assert.True(t, errors.Is(err, errors.ErrValidation))
	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestReactivateClearsSuspension(t *testing.T) {
	repo := new(MockUserRepository)
	end := fixedNow.Add(time.Hour)
	repo.On("FindByID", 3).Return(&model.User{ID: 3, Status: model.UserStatusSuspended, SuspensionEndDate: &end}, nil)
	repo.On("UpdateStatus", 3, model.UserStatusActive, (*time.Time)(nil)).Return(nil)

	user, err := NewAdminService(repo, nil, nil, errors.NewErrorAnalytics()).UpdateUserStatus(3, "active", 0)
	require.NoError(t, err)
	assert.Nil(t, user.SuspensionEndDate)
}

func TestUpdateUserStatusInvalid(t *testing.T) {
	_, err := newTestAdminService(new(MockUserRepository), nil).UpdateUserStatus(3, "deleted", 0)
	assert.True(t, errors.Is(err, errors.ErrValidation))
}

func TestSetUserDiscountOutOfRange(t *testing.T) {
	repo := new(MockUserRepository)
	discounts := new(MockDiscountRepository)
	repo.On("FindByID", 3).Return(&model.User{ID: 3}, nil)

	svc := NewAdminService(repo, newTestDiscountService(discounts, 0), nil, errors.NewErrorAnalytics())
	_, err := svc.SetUserDiscount(3, 120, nil)
	assert.True(t, errors.Is(err, errors.ErrValidation))
	discounts.AssertNotCalled(t, "SaveUserDiscount", mock.Anything)
}
