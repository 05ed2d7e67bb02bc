package service

import (
	"artcase-backend/internal/errors"
	"artcase-backend/internal/model"
	"artcase-backend/internal/repository/interfaces"
	"artcase-backend/internal/util"
	"time"

	"go.uber.org/zap"
)

// AdminService 按功能模块组织业务逻辑
type AdminService struct {
	userRepo       interfaces.UserRepository
	discounts      *DiscountService
	mailer         Mailer
	errorAnalytics *errors.ErrorAnalytics
	now            func() time.Time
}

// NewAdminService 创建一个新的 AdminService 实例
func NewAdminService(userRepo interfaces.UserRepository, discounts *DiscountService, mailer Mailer,
	errorAnalytics *errors.ErrorAnalytics) *AdminService {
	return &AdminService{
		userRepo:       userRepo,
		discounts:      discounts,
		mailer:         mailer,
		errorAnalytics: errorAnalytics,
		now:            time.Now,
	}
}

// 用户管理
func (s *AdminService) GetUsers(page, pageSize int) ([]*model.User, int, error) {
	users, total, err := s.userRepo.FindAll(page, pageSize)
	if err != nil {
		return nil, 0, errors.Wrap(errors.ErrDatabase, "Failed to load users", err)
	}
	return users, total, nil
}

// UpdateUserStatus 停用需要指定天数，其他状态会清除停用截止时间
func (s *AdminService) UpdateUserStatus(userID int, status string, suspensionDays int) (*model.User, error) {
	next := model.UserStatus(status)
	if !next.Valid() {
		return nil, errors.New(errors.ErrValidation, "Invalid status value")
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "Failed to load user", err)
	}
	if user == nil {
		return nil, errors.New(errors.ErrUserNotFound, "User not found")
	}

	var end *time.Time
	if next == model.UserStatusSuspended {
		if suspensionDays < 1 {
			return nil, errors.New(errors.ErrValidation, "Invalid suspension duration.")
		}
		t := s.now().AddDate(0, 0, suspensionDays)
		end = &t
	}

	if err := s.userRepo.UpdateStatus(userID, next, end); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "Failed to update user status", err)
	}
	user.Status = next
	user.SuspensionEndDate = end

	util.Logger.Info("管理员更新用户状态",
		zap.Int("user_id", userID),
		zap.String("status", status),
		zap.Int("suspension_days", suspensionDays))
	if s.mailer != nil {
		s.mailer.SendAccountStatusNotice(user)
	}
	return user, nil
}

// SetUserDiscount 为用户设置专属折扣
func (s *AdminService) SetUserDiscount(userID, percentage int, validUntil *time.Time) (*model.UserDiscount, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "Failed to load user", err)
	}
	if user == nil {
		return nil, errors.New(errors.ErrUserNotFound, "User not found")
	}

	discount := &model.UserDiscount{UserID: userID, DiscountPercentage: percentage, ValidUntil: validUntil}
	if err := s.discounts.SaveUserDiscount(discount); err != nil {
		return nil, err
	}
	return discount, nil
}

// 系统管理
func (s *AdminService) GetErrorStats() map[string]interface{} {
	return s.errorAnalytics.GetStats()
}
