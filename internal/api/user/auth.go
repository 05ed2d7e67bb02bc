package user

import (
	"artcase-backend/internal/errors"
	"artcase-backend/internal/middleware"
	"artcase-backend/internal/model"
	"artcase-backend/internal/service"
	"artcase-backend/internal/util"
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthService 认证相关的业务接口
type AuthService interface {
	Register(input service.RegisterInput) (*model.User, error)
	Login(username, password string) (*model.User, string, error)
	Logout(ctx context.Context, token string) error
	RefreshToken(ctx context.Context, token string) (string, error)
}

// AuthHandler 处理与认证相关的HTTP请求
type AuthHandler struct {
	userService AuthService
}

// NewAuthHandler 创建一个新的 AuthHandler 实例
func NewAuthHandler(userService AuthService) *AuthHandler {
	return &AuthHandler{userService}
}

// Register 处理用户注册请求
func (h *AuthHandler) Register(c *gin.Context) {
	var input service.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		util.Logger.Warn("注册失败，无效的请求数据", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "Invalid request data", err))
		return
	}

	user, err := h.userService.Register(input)
	if err != nil {
		util.Logger.Warn("注册失败", zap.String("username", input.Username), zap.Error(err))
		errors.HandleError(c, err)
		return
	}

	util.Logger.Info("用户注册成功", zap.Int("user_id", user.ID))
	errors.HandleCreated(c, gin.H{"user": user}, "User registered successfully")
}

// Login 处理用户登录请求
func (h *AuthHandler) Login(c *gin.Context) {
	var loginData struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&loginData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "Invalid request data", err))
		return
	}

	user, token, err := h.userService.Login(loginData.Username, loginData.Password)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{
		"token": token,
		"user":  user,
	}, "Login successful")
}

// Logout 当前令牌加入黑名单
func (h *AuthHandler) Logout(c *gin.Context) {
	token := c.GetString(middleware.ContextToken)
	if err := h.userService.Logout(c.Request.Context(), token); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, nil, "Successfully logged out")
}

// RefreshToken 处理令牌刷新
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	token := c.GetString(middleware.ContextToken)
	newToken, err := h.userService.RefreshToken(c.Request.Context(), token)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{"token": newToken}, "Token refreshed")
}
