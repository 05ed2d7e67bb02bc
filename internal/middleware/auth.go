package middleware

import (
	"artcase-backend/internal/errors"
	"artcase-backend/internal/service"
	"artcase-backend/internal/util"
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 上下文中的键
const (
	ContextUserID    = "user_id"
	ContextToken     = "token"
	ContextRequestID = "request_id"
)

// bearerToken 从 Authorization 头中取出令牌
func bearerToken(c *gin.Context) (string, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", errors.New(errors.ErrUnauthorized, "Authentication required")
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if !(len(parts) == 2 && parts[0] == "Bearer") || parts[1] == "" {
		return "", errors.New(errors.ErrUnauthorized, "Invalid authorization header")
	}
	return parts[1], nil
}

func authenticate(c *gin.Context, userService *service.UserService) (int, error) {
	token, err := bearerToken(c)
	if err != nil {
		return 0, err
	}
	if userService.IsTokenBlacklisted(c.Request.Context(), token) {
		return 0, errors.New(errors.ErrInvalidToken, "Token has been revoked")
	}
	userID, err := util.ValidateToken(token)
	if err != nil {
		return 0, errors.Wrap(errors.ErrInvalidToken, "Invalid or expired token", err)
	}
	c.Set(ContextUserID, userID)
	c.Set(ContextToken, token)
	return userID, nil
}

func AuthMiddleware(userService *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		util.Logger.Debug("进入认证中间件",
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method))

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)

		if _, err := authenticate(c, userService); err != nil {
			errors.HandleError(c, err)
			c.Abort()
			return
		}

		select {
		case <-ctx.Done():
			errors.HandleError(c, errors.New(errors.ErrTimeout, "Request timed out"))
			c.Abort()
			return
		default:
			c.Next()
		}
	}
}

// OptionalAuthMiddleware 带有效令牌时记录用户，否则按匿名访问继续
func OptionalAuthMiddleware(userService *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") != "" {
			if _, err := authenticate(c, userService); err != nil {
				util.Logger.Debug("可选认证失败，按匿名处理", zap.Error(err))
			}
		}
		c.Next()
	}
}

// UserID 当前请求的用户，未登录时为 0
func UserID(c *gin.Context) int {
	return c.GetInt(ContextUserID)
}
