package service

import (
	"artcase-backend/internal/cache"
	"artcase-backend/internal/errors"
	"artcase-backend/internal/model"
	"artcase-backend/internal/repository/interfaces"
	"artcase-backend/internal/storage"
	"artcase-backend/internal/util"
	"context"
	stderrors "errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 8
	topUsersByLikes   = 5
	topUsersByPosts   = 4
)

// RegisterInput 注册请求
type RegisterInput struct {
	Username  string `json:"username" binding:"required,min=3,max=50"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// ProfileInput 可修改的资料字段，nil 表示不修改
type ProfileInput struct {
	Username  *string `json:"username"`
	Email     *string `json:"email" binding:"omitempty,email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

// UserService 处理与用户相关的业务逻辑
type UserService struct {
	userRepo          interfaces.UserRepository
	discounts         *DiscountService
	blacklist         cache.TokenBlacklist
	storage           storage.FileStorage
	defaultProfilePic string
	now               func() time.Time
}

// NewUserService 创建一个新的 UserService 实例
func NewUserService(userRepo interfaces.UserRepository, discounts *DiscountService, blacklist cache.TokenBlacklist,
	fs storage.FileStorage, defaultProfilePic string) *UserService {
	return &UserService{
		userRepo:          userRepo,
		discounts:         discounts,
		blacklist:         blacklist,
		storage:           fs,
		defaultProfilePic: defaultProfilePic,
		now:               time.Now,
	}
}

// Register 注册新用户
func (s *UserService) Register(input RegisterInput) (*model.User, error) {
	if len(input.Password) < minPasswordLength {
		return nil, errors.New(errors.ErrWeakPassword,
			fmt.Sprintf("Password must be at least %d characters", minPasswordLength))
	}

	// 检查用户名和邮箱是否已被使用
	if existing, err := s.userRepo.FindByUsername(input.Username); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "Failed to check username", err)
	} else if existing != nil {
		return nil, errors.New(errors.ErrUserExists, "A user with that username already exists.")
	}
	if existing, err := s.userRepo.FindByEmail(input.Email); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "Failed to check email", err)
	} else if existing != nil {
		return nil, errors.New(errors.ErrUserExists, "A user with that email already exists.")
	}

	// 生成密码哈希
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInternal, "Failed to hash password", err)
	}

	user := &model.User{
		Username:     strings.TrimSpace(input.Username),
		Email:        strings.TrimSpace(input.Email),
		PasswordHash: string(hashedPassword),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		ProfilePic:   s.defaultProfilePic,
		Role:         model.RoleUser,
		Status:       model.UserStatusActive,
	}
	if err := s.userRepo.Create(user); err != nil {
		if stderrors.Is(err, interfaces.ErrDuplicate) {
			return nil, errors.New(errors.ErrUserExists, "A user with that username or email already exists.")
		}
		return nil, errors.Wrap(errors.ErrDatabase, "Failed to create user", err)
	}
	return user, nil
}

// suspensionMessage 根据剩余时间生成提示
func suspensionMessage(end *time.Time, now time.Time) string {
	if end == nil {
		return "Your account has been suspended."
	}
	remaining := end.Sub(now)
	if days := int(remaining.Hours() / 24); days > 0 {
		return fmt.Sprintf("Your account has been suspended. You can log in again in %d days.", days)
	}
	return fmt.Sprintf("Your account has been suspended. You can log in again in %d hours.", int(remaining.Hours()))
}

// checkStatus 封禁或停用中的账号不能登录，停用期已过则自动恢复
func (s *UserService) checkStatus(user *model.User) error {
	switch user.Status {
	case model.UserStatusBanned:
		return errors.New(errors.ErrAccountBanned, "Your account has been banned.")
	case model.UserStatusSuspended:
		now := s.now()
		if user.SuspensionEndDate != nil && !user.SuspensionEndDate.After(now) {
			if err := s.userRepo.UpdateStatus(user.ID, model.UserStatusActive, nil); err != nil {
				return errors.Wrap(errors.ErrDatabase, "Failed to lift suspension", err)
			}
			user.Status = model.UserStatusActive
			user.SuspensionEndDate = nil
			util.Logger.Info("停用期已过，账号恢复", zap.Int("user_id", user.ID))
			return nil
		}
		return errors.New(errors.ErrAccountSuspended, suspensionMessage(user.SuspensionEndDate, now))
	}
	return nil
}

// Login 用户登录，返回用户和令牌
func (s *UserService) Login(username, password string) (*model.User, string, error) {
	util.Logger.Info("尝试用户登录", zap.String("username", username))

	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrDatabase, "Failed to load user", err)
	}
	if user == nil {
		util.Logger.Info("用户登录失败，未找到用户", zap.String("username", username))
		return nil, "", errors.New(errors.ErrInvalidCredentials, "Invalid username or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		util.Logger.Info("用户登录失败，密码不正确", zap.Int("user_id", user.ID))
		return nil, "", errors.New(errors.ErrInvalidCredentials, "Invalid username or password")
	}

	if err := s.checkStatus(user); err != nil {
		return nil, "", err
	}

	token, err := util.GenerateToken(user.ID)
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrInternal, "Failed to generate token", err)
	}

	util.Logger.Info("用户登录成功", zap.Int("user_id", user.ID))
	return user, token, nil
}

// Logout 令牌加入黑名单直到过期
func (s *UserService) Logout(ctx context.Context, token string) error {
	expiresAt, err := util.TokenExpiry(token)
	if err != nil {
		return errors.Wrap(errors.ErrInvalidToken, "Invalid token", err)
	}
	if err := s.blacklist.Add(ctx, token, expiresAt); err != nil {
		return errors.Wrap(errors.ErrCache, "Failed to revoke token", err)
	}
	return nil
}

// IsTokenBlacklisted 黑名单不可用时按未拉黑处理
func (s *UserService) IsTokenBlacklisted(ctx context.Context, token string) bool {
	blacklisted, err := s.blacklist.Contains(ctx, token)
	if err != nil {
		util.Logger.Warn("查询令牌黑名单失败", zap.Error(err))
		return false
	}
	return blacklisted
}

// RefreshToken 用未过期的旧令牌换取新令牌，旧令牌随即失效
func (s *UserService) RefreshToken(ctx context.Context, token string) (string, error) {
	newToken, err := util.RefreshToken(token)
	if err != nil {
		return "", errors.Wrap(errors.ErrInvalidToken, "Invalid or expired token", err)
	}
	if err := s.Logout(ctx, token); err != nil {
		util.Logger.Warn("旧令牌加入黑名单失败", zap.Error(err))
	}
	return newToken, nil
}

// GetUserByID 通过ID获取用户信息
func (s *UserService) GetUserByID(id int) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "Failed to load user", err)
	}
	if user == nil {
		return nil, errors.New(errors.ErrUserNotFound, "User not found")
	}
	return user, nil
}

// UpdateProfile 只更新允许修改的字段
func (s *UserService) UpdateProfile(userID int, input ProfileInput) (*model.User, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	if input.Username != nil && *input.Username != user.Username {
		existing, err := s.userRepo.FindByUsername(*input.Username)
		if err != nil {
			return nil, errors.Wrap(errors.ErrDatabase, "Failed to check username", err)
		}
		if existing != nil {
			return nil, errors.New(errors.ErrUserExists, "A user with that username already exists.")
		}
		user.Username = *input.Username
	}
	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}

	if err := s.userRepo.Update(user); err != nil {
		if stderrors.Is(err, interfaces.ErrDuplicate) {
			return nil, errors.New(errors.ErrUserExists, "A user with that username or email already exists.")
		}
		return nil, errors.Wrap(errors.ErrDatabase, "Failed to update profile", err)
	}
	return user, nil
}

// UploadAvatar 上传头像并更新用户资料
func (s *UserService) UploadAvatar(userID int, file *multipart.FileHeader) (*model.User, error) {
	if !util.IsAllowedImage(file.Filename) {
		return nil, errors.New(errors.ErrValidation, "Unsupported image format")
	}
	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	path := fmt.Sprintf("avatars/%d/%s", userID, util.GenerateUniqueFilename(file.Filename))
	url, err := s.storage.UploadFile(file, path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrExternalService, "Failed to upload avatar", err)
	}
	user.ProfilePic = url
	if err := s.userRepo.Update(user); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "Failed to update profile", err)
	}
	return user, nil
}

// GetUserDetails 公开资料，包含收到的互动统计和折扣资格
func (s *UserService) GetUserDetails(id int) (*model.UserDetails, error) {
	user, err := s.GetUserByID(id)
	if err != nil {
		return nil, err
	}
	stats, err := s.userRepo.GetStatistics(id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "Failed to load statistics", err)
	}
	eligible, err := s.discounts.IsEligible(id)
	if err != nil {
		return nil, err
	}

	return &model.UserDetails{
		UserSummary: model.UserSummary{
			ID:         user.ID,
			Username:   user.Username,
			FirstName:  user.FirstName,
			LastName:   user.LastName,
			ProfilePic: user.ProfilePic,
		},
		Email:              user.Email,
		Status:             user.Status,
		DateJoined:         user.CreatedAt,
		Statistics:         *stats,
		IsDiscountEligible: eligible,
	}, nil
}

// TopUsers 获赞最多的 5 位用户和发帖最多的 4 位用户
func (s *UserService) TopUsers() (byLikes, byPosts []*model.UserRanking, err error) {
	if byLikes, err = s.userRepo.TopByLikes(topUsersByLikes); err != nil {
		return nil, nil, errors.Wrap(errors.ErrDatabase, "Failed to load ranking", err)
	}
	if byPosts, err = s.userRepo.TopByPosts(topUsersByPosts); err != nil {
		return nil, nil, errors.Wrap(errors.ErrDatabase, "Failed to load ranking", err)
	}
	return byLikes, byPosts, nil
}
