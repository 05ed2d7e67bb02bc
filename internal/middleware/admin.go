package middleware

import (
	"artcase-backend/internal/errors"
	"artcase-backend/internal/model"
	"artcase-backend/internal/service"
	"artcase-backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const contextUser = "current_user"

func requireRole(userService *service.UserService, allowed func(*model.User) bool, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get(ContextUserID)
		if !exists {
			util.Logger.Warn("用户ID不存在")
			errors.HandleError(c, errors.New(errors.ErrUnauthorized, "Authentication required"))
			c.Abort()
			return
		}

		user, err := userService.GetUserByID(userID.(int))
		if err != nil || !allowed(user) {
			util.Logger.Warn("权限不足",
				zap.Int("user_id", userID.(int)),
				zap.String("path", c.Request.URL.Path),
				zap.Error(err))
			errors.HandleError(c, errors.New(errors.ErrForbidden, message))
			c.Abort()
			return
		}

		c.Set(contextUser, user)
		c.Next()
	}
}

// AdminMiddleware 确保只有管理员可以访问某些路由
func AdminMiddleware(userService *service.UserService) gin.HandlerFunc {
	return requireRole(userService, (*model.User).IsAdmin, "Admin access required")
}

// StaffMiddleware 管理员或运营人员
func StaffMiddleware(userService *service.UserService) gin.HandlerFunc {
	return requireRole(userService, (*model.User).IsStaff, "Staff access required")
}

// IsAdmin 由 AdminMiddleware / StaffMiddleware 加载的用户是否为管理员
func IsAdmin(c *gin.Context) bool {
	if v, ok := c.Get(contextUser); ok {
		return v.(*model.User).IsAdmin()
	}
	return false
}
